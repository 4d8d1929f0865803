package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

func newExtractCmd(a *app) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "extract <deck.pptx>",
		Short: "Extract canonical 1920x1080 slide frames from a deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			deck := args[0]

			slides, err := a.service().ExtractSlides(ctx, deck)
			if err != nil {
				return err
			}

			if outDir == "" {
				base := strings.TrimSuffix(filepath.Base(deck), filepath.Ext(deck))
				outDir = filepath.Join(a.cfg.Paths.Output, base+"_frames")
			}
			if err := os.MkdirAll(outDir, 0755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}

			for _, s := range slides {
				p := filepath.Join(outDir, s.ID+".png")
				if err := os.WriteFile(p, s.Image, 0644); err != nil {
					return fmt.Errorf("write %s: %w", p, err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d slides written to %s\n", len(slides), outDir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "directory for the frames (default <output>/<deck>_frames)")
	return cmd
}
