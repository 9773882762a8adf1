// Package gen implements klassgen, the registration generator.
//
// klassgen reads a klass.yaml file, inspects the named Go package with
// go/packages and writes a Go file whose init function registers the
// configured types with their constructors and static members.
//
// The gen package handles:
//   - Parsing and validating klass.yaml
//   - Introspecting the target package via go/packages
//   - Rendering the registration file
package gen

import (
	"fmt"
	"go/token"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/klass/internal/config"
)

// Config represents the top-level klass.yaml configuration.
type Config struct {
	// Package is the Go package to inspect, as a directory relative to
	// klass.yaml or an import path.
	Package string `yaml:"package"`

	// Output is the generated file name, written into the package
	// directory. Defaults to zz_klass_generated.go.
	Output string `yaml:"output,omitempty"`

	// Types lists the types to register.
	Types []TypeConfig `yaml:"types"`
}

// TypeConfig describes the registration of one type.
type TypeConfig struct {
	// Type is the Go type name (e.g. "Point").
	Type string `yaml:"type"`

	// Constructors lists package functions used as constructors. When
	// empty, every exported function named New<Type>... that returns the
	// type is used, in declaration order.
	Constructors []string `yaml:"constructors,omitempty"`

	// StaticFields lists package variables exposed as static fields.
	StaticFields []string `yaml:"static_fields,omitempty"`

	// StaticMethods lists package functions exposed as static methods.
	StaticMethods []string `yaml:"static_methods,omitempty"`

	// PromotedFields includes fields promoted from embedded structs.
	PromotedFields bool `yaml:"promoted_fields,omitempty"`

	// ExcludeMethods lists instance methods to leave out.
	ExcludeMethods []string `yaml:"exclude_methods,omitempty"`
}

// LoadConfig reads and parses a klass.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses klass.yaml content from bytes.
// The path argument is used only for error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

// FindConfig searches for klass.yaml starting from dir and walking up
// to parent directories. It returns an empty path and a nil error when
// no file is found.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range []string{config.ConfigFileName, config.AltConfigFileName} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// validate checks the configuration for semantic errors.
func (c *Config) validate(path string) error {
	if c.Package == "" {
		return fmt.Errorf("%s: package is required", path)
	}
	if c.Output != "" && (filepath.Base(c.Output) != c.Output || filepath.Ext(c.Output) != ".go") {
		return fmt.Errorf("%s: output %q must be a .go file name without directories", path, c.Output)
	}
	if len(c.Types) == 0 {
		return fmt.Errorf("%s: no types defined", path)
	}

	seenTypes := make(map[string]bool)
	seenStatics := make(map[string]string) // package member → owning type

	for i, tc := range c.Types {
		if tc.Type == "" {
			return fmt.Errorf("%s: types[%d]: type is required", path, i)
		}
		if !token.IsIdentifier(tc.Type) || !token.IsExported(tc.Type) {
			return fmt.Errorf("%s: types[%d]: %q is not an exported identifier", path, i, tc.Type)
		}
		if seenTypes[tc.Type] {
			return fmt.Errorf("%s: types[%d]: type %s listed twice", path, i, tc.Type)
		}
		seenTypes[tc.Type] = true

		lists := []struct {
			key   string
			names []string
		}{
			{"constructors", tc.Constructors},
			{"static_fields", tc.StaticFields},
			{"static_methods", tc.StaticMethods},
			{"exclude_methods", tc.ExcludeMethods},
		}
		for _, l := range lists {
			seen := make(map[string]bool)
			for _, name := range l.names {
				if !token.IsIdentifier(name) || !token.IsExported(name) {
					return fmt.Errorf("%s: types[%d] (%s): %s: %q is not an exported identifier",
						path, i, tc.Type, l.key, name)
				}
				if seen[name] {
					return fmt.Errorf("%s: types[%d] (%s): %s: %s listed twice",
						path, i, tc.Type, l.key, name)
				}
				seen[name] = true
			}
		}

		// a package variable or function backs one static member only
		for _, name := range append(append([]string(nil), tc.StaticFields...), tc.StaticMethods...) {
			if prev, ok := seenStatics[name]; ok {
				return fmt.Errorf("%s: types[%d] (%s): %s is already a static member of %s",
					path, i, tc.Type, name, prev)
			}
			seenStatics[name] = tc.Type
		}
	}

	return nil
}

// setDefaults fills in default values for omitted fields.
func (c *Config) setDefaults() {
	if c.Output == "" {
		c.Output = config.DefaultOutputFile
	}
}
