package main

import (
	"context"
	"errors"
	"runtime"

	"github.com/nguyentantai21042004/deck2video/internal/pipeline"
	"github.com/nguyentantai21042004/deck2video/internal/watcher"
	"github.com/spf13/cobra"
)

func newWatchCmd(a *app) *cobra.Command {
	opts := pipeline.ProcessOptions{Archive: true}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the input folder and render every deck dropped into it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := a.log

			log.Info(ctx, "========================================")
			log.Info(ctx, "Deck to Video Pipeline")
			log.Info(ctx, "========================================")
			log.Info(ctx, "System: %s/%s", runtime.GOOS, runtime.GOARCH)
			log.Info(ctx, "Max Concurrent Processing: %d", a.cfg.Performance.MaxConcurrent)

			if err := ensureDirectories(a.cfg); err != nil {
				return err
			}

			svc := a.service()
			handler := func(ctx context.Context, path string) error {
				_, err := svc.Process(ctx, path, opts)
				if err != nil {
					log.Error(ctx, "%s: %s", path, pipeline.UserMessage(err))
				}
				return err
			}

			w, err := watcher.New(a.cfg.Paths.Input, handler, log, a.cfg.Performance.MaxConcurrent)
			if err != nil {
				return err
			}
			defer w.Stop()

			log.Info(ctx, "Monitoring: %s", a.cfg.Paths.Input)
			log.Info(ctx, "Output: %s", a.cfg.Paths.Output)
			log.Info(ctx, "Press Ctrl+C to stop")

			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}

			log.Info(ctx, "Deck pipeline stopped")
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.GenerateScripts, "scripts", false, "draft narration scripts with Gemini for each deck")
	cmd.Flags().BoolVar(&opts.Handout, "handout", false, "export a .docx handout for each deck")
	return cmd
}
