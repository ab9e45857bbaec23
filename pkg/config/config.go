// Package config loads the optional reflow.yaml project configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// FileName is the name of the configuration file.
const FileName = "reflow.yaml"

// SupportedSchema is the configuration schema major version understood by
// this runtime.
const SupportedSchema = "v1"

// DefaultMaxRenderPasses mirrors the runtime default applied when the file
// leaves max_render_passes unset.
const DefaultMaxRenderPasses = 25

// Config represents reflow.yaml.
type Config struct {
	Schema  string        `yaml:"schema,omitempty"`
	App     AppConfig     `yaml:"app"`
	Runtime RuntimeConfig `yaml:"runtime"`
}

// AppConfig contains application metadata.
type AppConfig struct {
	Name      string `yaml:"name,omitempty"`
	Container string `yaml:"container,omitempty"`
}

// RuntimeConfig contains settings applied to every root.
type RuntimeConfig struct {
	SyncUpdates     bool `yaml:"sync_updates,omitempty"`
	MaxRenderPasses int  `yaml:"max_render_passes,omitempty"`
	Debug           bool `yaml:"debug,omitempty"`
	VerboseErrors   bool `yaml:"verbose_errors,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	_ = cfg.Validate()
	return cfg
}

// LoadOptional reads reflow.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates configuration data. Unknown fields are
// rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the schema version and fills defaults.
func (c *Config) Validate() error {
	schema := strings.TrimSpace(c.Schema)
	if schema == "" {
		schema = SupportedSchema
	}
	if !strings.HasPrefix(schema, "v") {
		schema = "v" + schema
	}
	if !semver.IsValid(schema) {
		return fmt.Errorf("invalid schema version %q", c.Schema)
	}
	if major := semver.Major(schema); major != SupportedSchema {
		return fmt.Errorf("unsupported schema %s (this runtime reads %s)", schema, SupportedSchema)
	}
	c.Schema = semver.Canonical(schema)

	if c.Runtime.MaxRenderPasses < 0 {
		return fmt.Errorf("runtime.max_render_passes must not be negative, got %d", c.Runtime.MaxRenderPasses)
	}
	if c.Runtime.MaxRenderPasses == 0 {
		c.Runtime.MaxRenderPasses = DefaultMaxRenderPasses
	}
	c.App.Name = strings.TrimSpace(c.App.Name)
	c.App.Container = strings.TrimSpace(c.App.Container)
	if c.App.Container == "" {
		c.App.Container = "root"
	}
	return nil
}

// Resolved is a loaded configuration together with the project it belongs
// to.
type Resolved struct {
	*Config
	Root       string
	ModulePath string
}

// Resolve loads reflow.yaml from dir, defaulting the application name to
// the last element of the enclosing module path when go.mod exists.
func Resolve(dir string) (*Resolved, error) {
	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}
	res := &Resolved{Config: cfg, Root: dir}
	if data, err := os.ReadFile(filepath.Join(dir, "go.mod")); err == nil {
		res.ModulePath = modfile.ModulePath(data)
	}
	if cfg.App.Name == "" {
		cfg.App.Name = defaultAppName(res.ModulePath, dir)
	}
	return res, nil
}

// FindRoot walks up from dir to the nearest directory holding reflow.yaml
// or go.mod.
func FindRoot(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		for _, name := range []string{FileName, "go.mod"} {
			if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
				return dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s or go.mod found", FileName)
		}
		dir = parent
	}
}

func defaultAppName(modulePath, dir string) string {
	base := filepath.Base(dir)
	if modulePath != "" {
		prefix, _, ok := module.SplitPathVersion(modulePath)
		if ok {
			base = prefix[strings.LastIndex(prefix, "/")+1:]
		}
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "reflow_app"
	}
	return base
}
