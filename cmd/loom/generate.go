package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loomkit/loom"
	"github.com/loomkit/loom/codegen"
	"github.com/loomkit/loom/schema"
)

func generateCmd() *cobra.Command {
	var (
		schemaPath string
		outDir     string
		appName    string
		mode       string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Compile the schema document and write all artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if schemaPath == "" {
				schemaPath = cfg.Schema
			}
			if outDir == "" {
				outDir = cfg.Out
			}
			if appName == "" {
				appName = cfg.App.Name
			}

			app, err := compileFile(schemaPath, appName)
			if err != nil {
				return err
			}

			var opts []codegen.Option
			if mode != "" {
				opts = append(opts, codegen.WithMode(codegen.Mode(mode)))
			}
			artifacts, err := loom.Artifacts(app, opts...)
			if err != nil {
				return err
			}

			w := codegen.NewWriter(outDir)
			if err := w.WriteAll(cmd.Context(), artifacts); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d artifacts to %s\n", w.Metrics().FilesWritten, outDir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "schema document path (default from loom.yaml)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default from loom.yaml)")
	cmd.Flags().StringVar(&appName, "app", "", "app name override")
	cmd.Flags().StringVar(&mode, "mode", "", "deployment mode: production or dev")
	return cmd
}

// compileFile reads and compiles one schema document, rendering parse
// failures as one error per line.
func compileFile(path, appName string) (*schema.App, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}

	app, parseErrs := loom.Compile(loom.DetectFormat(path), string(src), appName)
	if len(parseErrs) > 0 {
		for _, pe := range parseErrs {
			fmt.Fprintln(os.Stderr, pe.Error())
		}
		return nil, fmt.Errorf("%s: %d parse error(s)", path, len(parseErrs))
	}
	return app, nil
}
