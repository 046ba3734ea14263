// Package config loads preprocessor settings from TOML or YAML files.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"lc2kpp/pkg/logging"
	"lc2kpp/pkg/macro"
	"lc2kpp/pkg/preproc"
)

// EnvConfig names the config file used when none is given explicitly.
const EnvConfig = "LC2KPP_CONFIG"

// Format is a configuration file syntax.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// Config holds the run settings of the preprocessor.
type Config struct {
	LabelWidth         int               `toml:"label_width" yaml:"label_width"`
	MaxExpansionDepth  int               `toml:"max_expansion_depth" yaml:"max_expansion_depth"`
	StrictComments     bool              `toml:"strict_comments" yaml:"strict_comments"`
	NormalizeRegisters *bool             `toml:"normalize_registers" yaml:"normalize_registers"`
	Defines            map[string]string `toml:"defines" yaml:"defines"`
	LogLevel           string            `toml:"log_level" yaml:"log_level"`
	LogFormat          string            `toml:"log_format" yaml:"log_format"`
}

// Default returns the configuration used when no file is loaded.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the configuration file at path. The format follows the file
// extension; anything other than .yaml or .yml is parsed as TOML.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := LoadFromString(string(content), DetectFormat(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromEnv loads the file named by LC2KPP_CONFIG, or returns the defaults
// when the variable is unset.
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvConfig)
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// LoadFromString parses content in the given format.
func LoadFromString(content string, format Format) (*Config, error) {
	var cfg Config
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal([]byte(content), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case FormatTOML, "":
		if _, err := toml.Decode(content, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", format)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DetectFormat determines the configuration format from the file extension.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

func (c *Config) applyDefaults() {
	if c.LabelWidth == 0 {
		c.LabelWidth = preproc.DefaultLabelWidth
	}
	if c.MaxExpansionDepth == 0 {
		c.MaxExpansionDepth = macro.DefaultMaxDepth
	}
	if c.NormalizeRegisters == nil {
		enabled := true
		c.NormalizeRegisters = &enabled
	}
	if c.Defines == nil {
		c.Defines = make(map[string]string)
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
	if c.LogFormat == "" {
		c.LogFormat = string(logging.FormatText)
	}
}

// Validate checks values that have no sensible interpretation.
func (c *Config) Validate() error {
	if c.LabelWidth < 1 {
		return fmt.Errorf("label_width must be positive, got %d", c.LabelWidth)
	}
	if c.MaxExpansionDepth < 0 {
		return fmt.Errorf("max_expansion_depth must not be negative, got %d", c.MaxExpansionDepth)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch logging.Format(c.LogFormat) {
	case logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("unknown log_format %q", c.LogFormat)
	}
	return nil
}

// Options converts the configuration into pipeline options.
func (c *Config) Options(log *logging.Logger) preproc.Options {
	opts := preproc.DefaultOptions()
	opts.LabelWidth = c.LabelWidth
	opts.MaxExpansionDepth = c.MaxExpansionDepth
	opts.StrictComments = c.StrictComments
	if c.NormalizeRegisters != nil {
		opts.NormalizeRegisters = *c.NormalizeRegisters
	}
	opts.Defines = make(map[string]string, len(c.Defines))
	for name, value := range c.Defines {
		opts.Defines[name] = value
	}
	opts.Log = log
	return opts
}

// Logger builds the logger described by the configuration, writing to w.
func (c *Config) Logger(w io.Writer) *logging.Logger {
	return logging.New(logging.Config{
		Level:  c.LogLevel,
		Format: logging.Format(c.LogFormat),
		Output: w,
		Name:   "lc2kpp",
	})
}
