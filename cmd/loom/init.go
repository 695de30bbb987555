package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// starterSchema is the annotated schema document written by init.
const starterSchema = `@view("list", fields: ["title", "done"])
Task {
  title: text
  done
  createdAt:auto
}
`

func initCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create loom.yaml and a starter schema in the current directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(projectFile); err == nil {
				return fmt.Errorf("%s already exists", projectFile)
			}

			cfg := defaultConfig()
			cfg.App.ID = uuid.NewString()
			cfg.App.Name = name
			if err := writeConfig(cfg); err != nil {
				return err
			}

			if _, err := os.Stat(cfg.Schema); os.IsNotExist(err) {
				if err := os.WriteFile(cfg.Schema, []byte(starterSchema), 0o644); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "initialized %s (app %s)\n", projectFile, cfg.App.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "app", "app name")
	return cmd
}
