package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/loomkit/loom/internal/devserver"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the compile service over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Printf("compile service listening on %s", addr)
			return devserver.New().Run(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8690", "listen address")
	return cmd
}
