package codegen

import (
	"regexp"

	"github.com/loomkit/loom/naming"
	"github.com/loomkit/loom/schema"
)

// Mode selects the deployment target of the generated configuration.
type Mode string

// Deployment modes.
const (
	ModeProduction Mode = "production"
	ModeDev        Mode = "dev"
)

// DefaultCompatibilityDate is the pinned runtime compatibility date. It is
// a constant so that generation stays deterministic.
const DefaultCompatibilityDate = "2024-09-23"

// Config holds the resolved generator options. All generators of one
// compilation share a Config so a given name produces identical casing in
// every artifact.
type Config struct {
	// ClassName is the identifier of the generated entity class.
	// Defaults to the PascalCase app name with separators stripped.
	ClassName string
	// BindingName is the environment binding of the stateful unit
	// namespace. Defaults to the SCREAMING_SNAKE_CASE app name.
	BindingName string
	// IncludeValidation controls the runtime validator layer.
	IncludeValidation bool
	// IncludeRelationships controls relationship traversal methods.
	IncludeRelationships bool
	Mode                 Mode
	CompatibilityDate    string
	// Main is the worker entry path in the deployment config.
	Main string
	// DevPort is the local development server port.
	DevPort int
}

// Option configures code generation.
type Option func(*Config) error

var classNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// WithClassName overrides the derived entity class name.
func WithClassName(name string) Option {
	return func(c *Config) error {
		if !classNameRe.MatchString(name) {
			return NewConfigError("ClassName", name, "class name must be a valid identifier")
		}
		c.ClassName = name
		return nil
	}
}

// WithBindingName overrides the derived environment binding name.
func WithBindingName(name string) Option {
	return func(c *Config) error {
		if name == "" {
			return NewConfigError("BindingName", nil, "binding name cannot be empty")
		}
		c.BindingName = name
		return nil
	}
}

// WithValidation toggles the runtime validator layer. Disabling it
// produces loosely-typed CRUD signatures.
func WithValidation(enabled bool) Option {
	return func(c *Config) error {
		c.IncludeValidation = enabled
		return nil
	}
}

// WithRelationships toggles relationship traversal methods and their
// allow-list entries.
func WithRelationships(enabled bool) Option {
	return func(c *Config) error {
		c.IncludeRelationships = enabled
		return nil
	}
}

// WithMode sets the deployment mode.
func WithMode(m Mode) Option {
	return func(c *Config) error {
		switch m {
		case ModeProduction, ModeDev:
			c.Mode = m
			return nil
		default:
			return NewConfigError("Mode", m, "unsupported mode; use production or dev")
		}
	}
}

// WithCompatibilityDate pins the runtime compatibility date.
func WithCompatibilityDate(date string) Option {
	return func(c *Config) error {
		if date == "" {
			return NewConfigError("CompatibilityDate", nil, "compatibility date cannot be empty")
		}
		c.CompatibilityDate = date
		return nil
	}
}

// WithMain sets the worker entry path recorded in the deployment config.
func WithMain(path string) Option {
	return func(c *Config) error {
		if path == "" {
			return NewConfigError("Main", nil, "main entry path cannot be empty")
		}
		c.Main = path
		return nil
	}
}

// WithDevPort sets the local development server port.
func WithDevPort(port int) Option {
	return func(c *Config) error {
		if port <= 0 || port > 65535 {
			return NewConfigError("DevPort", port, "port out of range")
		}
		c.DevPort = port
		return nil
	}
}

// newConfig resolves options against the defaults derived from app.
func newConfig(app *schema.App, opts ...Option) (*Config, error) {
	c := &Config{
		IncludeValidation:    true,
		IncludeRelationships: true,
		Mode:                 ModeProduction,
		CompatibilityDate:    DefaultCompatibilityDate,
		Main:                 "src/worker.ts",
		DevPort:              8787,
	}
	if app != nil {
		c.ClassName = naming.Ident(app.Name)
		c.BindingName = naming.Screaming(app.Name)
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}
