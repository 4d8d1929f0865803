package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/nguyentantai21042004/deck2video/internal/config"
	"github.com/nguyentantai21042004/deck2video/internal/logger"
	"github.com/nguyentantai21042004/deck2video/internal/pipeline"
	"github.com/nguyentantai21042004/deck2video/pkg/executor"
	"github.com/spf13/cobra"
)

// app holds what every subcommand needs, built once in PersistentPreRunE
type app struct {
	configPath string
	logLevel   string

	cfg  *config.Config
	log  logger.Logger
	exec executor.Executor
}

func (a *app) service() pipeline.Service {
	return pipeline.New(a.cfg, a.exec, a.log)
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "deck2video",
		Short:         "Turn slide decks and narration into MP4 videos",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "config.yaml", "path to the YAML config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")

	root.AddCommand(
		newExtractCmd(a),
		newRenderCmd(a),
		newScriptsCmd(a),
		newEngineCmd(a),
		newWatchCmd(a),
	)
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	// .env is optional; real environment variables win
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg, err := config.Load(a.configPath)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist) && !flagChanged(cmd, "config"):
		cfg = config.Default()
	default:
		return fmt.Errorf("load config: %w", err)
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}

	a.cfg = cfg
	a.log = logger.New(cfg.Logging.Level)
	a.exec = executor.New()
	return nil
}

func flagChanged(cmd *cobra.Command, name string) bool {
	f := cmd.Flag(name)
	return f != nil && f.Changed
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Input,
		cfg.Paths.Output,
		cfg.Paths.Archived,
		cfg.Engine.Workspace,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
