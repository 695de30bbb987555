package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// projectFile is the per-project configuration file name.
const projectFile = "loom.yaml"

// projectConfig is the loom.yaml layout.
type projectConfig struct {
	App struct {
		ID   string `yaml:"id"`
		Name string `yaml:"name"`
	} `yaml:"app"`
	// Schema is the schema document path.
	Schema string `yaml:"schema"`
	// Out is the artifact output directory.
	Out string `yaml:"out"`
}

// defaultConfig returns the config used when no loom.yaml exists.
func defaultConfig() *projectConfig {
	cfg := &projectConfig{}
	cfg.Schema = "schema.loom"
	cfg.Out = "dist"
	return cfg
}

// loadConfig reads loom.yaml from the working directory, falling back to
// defaults when the file does not exist.
func loadConfig() (*projectConfig, error) {
	data, err := os.ReadFile(projectFile)
	if os.IsNotExist(err) {
		return defaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", projectFile, err)
	}
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", projectFile, err)
	}
	return cfg, nil
}

// writeConfig writes cfg to loom.yaml.
func writeConfig(cfg *projectConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode %s: %w", projectFile, err)
	}
	if err := os.WriteFile(projectFile, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", projectFile, err)
	}
	return nil
}
