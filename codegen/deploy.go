package codegen

import (
	"github.com/loomkit/loom/schema"

	"gopkg.in/yaml.v3"
)

// deployConfig mirrors the target runtime's deployment file. It is
// marshalled rather than templated so the output is always parseable by
// the target toolchain.
type deployConfig struct {
	Name               string          `yaml:"name"`
	Main               string          `yaml:"main"`
	CompatibilityDate  string          `yaml:"compatibility_date"`
	CompatibilityFlags []string        `yaml:"compatibility_flags"`
	DurableObjects     durableObjects  `yaml:"durable_objects"`
	Migrations         []migrationStep `yaml:"migrations"`
	Dev                *devSettings    `yaml:"dev,omitempty"`
}

type durableObjects struct {
	Bindings []objectBinding `yaml:"bindings"`
}

type objectBinding struct {
	Name      string `yaml:"name"`
	ClassName string `yaml:"class_name"`
}

type migrationStep struct {
	Tag        string   `yaml:"tag"`
	NewClasses []string `yaml:"new_classes"`
}

type devSettings struct {
	Port          int    `yaml:"port"`
	LocalProtocol string `yaml:"local_protocol"`
}

// DeployConfig emits the deployment configuration for an app. The dev
// block is present only in dev mode.
func DeployConfig(app *schema.App, opts ...Option) (string, error) {
	cfg, err := newConfig(app, opts...)
	if err != nil {
		return "", err
	}

	dc := deployConfig{
		Name:               app.Slug(),
		Main:               cfg.Main,
		CompatibilityDate:  cfg.CompatibilityDate,
		CompatibilityFlags: []string{"nodejs_compat"},
		DurableObjects: durableObjects{
			Bindings: []objectBinding{{Name: cfg.BindingName, ClassName: cfg.ClassName}},
		},
		Migrations: []migrationStep{{Tag: "v1", NewClasses: []string{cfg.ClassName}}},
	}
	if cfg.Mode == ModeDev {
		dc.Dev = &devSettings{Port: cfg.DevPort, LocalProtocol: "http"}
	}

	out, err := yaml.Marshal(&dc)
	if err != nil {
		return "", NewGenerationError("deploy", "marshal deployment config", err)
	}
	return string(out), nil
}
