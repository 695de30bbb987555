package main

import (
	"errors"
	"log"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/loomkit/loom"
	"github.com/loomkit/loom/codegen"
	"github.com/loomkit/loom/internal/snapshot"
)

func devCmd() *cobra.Command {
	var (
		schemaPath string
		outDir     string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Watch the schema document and regenerate on change",
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

			store := snapshot.NewStore(filepath.Join(outDir, ".loom"), loom.Version)
			regen := func() {
				if err := regenerate(cmd, store, schemaPath, outDir, cfg.App.Name, port); err != nil {
					log.Printf("generate: %v", err)
				}
			}
			regen()

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return err
			}
			defer watcher.Close()

			// Watch the directory, not the file: editors replace files
			// on save, which drops file-level watches.
			if err := watcher.Add(filepath.Dir(schemaPath)); err != nil {
				return err
			}
			log.Printf("watching %s", schemaPath)

			target := filepath.Clean(schemaPath)
			for {
				select {
				case <-cmd.Context().Done():
					return nil
				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if filepath.Clean(event.Name) != target {
						continue
					}
					if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
						regen()
					}
				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					log.Printf("watch: %v", err)
				}
			}
		},
	}

	cmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "schema document path (default from loom.yaml)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default from loom.yaml)")
	cmd.Flags().IntVarP(&port, "port", "p", 8787, "local dev server port written to the deploy config")
	return cmd
}

// regenerate compiles the document and rewrites artifacts, reusing the
// snapshot when the source is unchanged.
func regenerate(cmd *cobra.Command, store *snapshot.Store, schemaPath, outDir, appName string, port int) error {
	src, err := os.ReadFile(schemaPath)
	if err != nil {
		return err
	}
	name := filepath.Base(schemaPath)

	app, err := store.Load(name, src)
	switch {
	case err == nil:
		log.Printf("schema unchanged, regenerating from snapshot")
	case errors.Is(err, snapshot.ErrStale) || errors.Is(err, os.ErrNotExist):
		app, err = compileFile(schemaPath, appName)
		if err != nil {
			return err
		}
		if err := store.Save(name, src, app); err != nil {
			log.Printf("snapshot: %v", err)
		}
	default:
		return err
	}

	artifacts, err := loom.Artifacts(app,
		codegen.WithMode(codegen.ModeDev),
		codegen.WithDevPort(port),
	)
	if err != nil {
		return err
	}
	w := codegen.NewWriter(outDir)
	if err := w.WriteAll(cmd.Context(), artifacts); err != nil {
		return err
	}
	log.Printf("wrote %d artifacts to %s", w.Metrics().FilesWritten, outDir)
	return nil
}
