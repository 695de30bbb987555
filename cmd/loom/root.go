package main

import (
	"github.com/spf13/cobra"

	"github.com/loomkit/loom"
)

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "loom",
		Short:         "Compile schema documents into deployable app artifacts",
		Version:       loom.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.AddCommand(
		initCmd(),
		generateCmd(),
		devCmd(),
		serveCmd(),
	)
	return cmd
}
