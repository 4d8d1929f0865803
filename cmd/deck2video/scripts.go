package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/deck2video/internal/scriptwriter"
	"github.com/spf13/cobra"
)

func newScriptsCmd(a *app) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "scripts <deck.pptx>",
		Short: "Draft narration scripts with Gemini and export them as .docx",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			deck := args[0]

			slides, err := a.service().ExtractSlides(ctx, deck)
			if err != nil {
				return err
			}

			writer := scriptwriter.New(a.cfg.Gemini, a.log)
			slides, err = writer.GenerateAll(ctx, slides)
			if err != nil {
				return err
			}

			base := strings.TrimSuffix(filepath.Base(deck), filepath.Ext(deck))
			if outPath == "" {
				outPath = filepath.Join(a.cfg.Paths.Output, base+".docx")
			}
			if err := writer.ExportHandout(base, slides, outPath); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Scripts for %d slides written to %s\n", len(slides), outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "handout path (default <output>/<deck>.docx)")
	return cmd
}
