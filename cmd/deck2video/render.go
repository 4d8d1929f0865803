package main

import (
	"fmt"

	"github.com/nguyentantai21042004/deck2video/internal/pipeline"
	"github.com/spf13/cobra"
)

func newRenderCmd(a *app) *cobra.Command {
	var opts pipeline.ProcessOptions

	cmd := &cobra.Command{
		Use:   "render <deck.pptx>",
		Short: "Render a deck and its narration into an MP4",
		Long: `Render extracts the deck's slides, attaches narration from
<narration>/<deck>/slide-<N>.(wav|mp3|m4a|aac), encodes one fixed-length segment per
slide and joins them into <output>/<deck>.mp4 with a WebP poster.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ensureDirectories(a.cfg); err != nil {
				return err
			}

			res, err := a.service().Process(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Job:      %s\n", res.JobID)
			fmt.Fprintf(out, "Video:    %s (%v, %d slides)\n", res.VideoPath, res.Duration, res.Slides)
			if res.PosterPath != "" {
				fmt.Fprintf(out, "Poster:   %s\n", res.PosterPath)
			}
			if res.HandoutPath != "" {
				fmt.Fprintf(out, "Handout:  %s\n", res.HandoutPath)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.GenerateScripts, "scripts", false, "draft narration scripts with Gemini first")
	cmd.Flags().BoolVar(&opts.Handout, "handout", false, "export the scripts as a .docx handout")
	cmd.Flags().BoolVar(&opts.Archive, "archive", false, "move the deck to the archived folder when done")
	return cmd
}
