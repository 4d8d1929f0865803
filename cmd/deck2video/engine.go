package main

import (
	"fmt"

	"github.com/nguyentantai21042004/deck2video/internal/engine"
	"github.com/spf13/cobra"
)

func newEngineCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "engine",
		Short: "Load the encoder from the configured sources and report which one won",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := engine.NewLoader(a.cfg.Engine, a.exec, a.log)
			eng, err := loader.EnsureReady(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Engine ready (source: %s, workspace: %s)\n", eng.Source(), a.cfg.Engine.Workspace)
			return nil
		},
	}
}
