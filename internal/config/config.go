package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harrison/varsub/internal/envtree"
	"github.com/harrison/varsub/internal/logger"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the config file name looked up in the workspace.
const DefaultConfigFile = ".varsub.yaml"

// Config represents varsub configuration options
type Config struct {
	// Files are the search patterns selecting the documents to update
	Files []string `yaml:"files" env:"INPUT_FILES" envSeparator:","`

	// Workspace is the directory relative patterns are resolved against
	Workspace string `yaml:"workspace" env:"GITHUB_WORKSPACE"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level" env:"VARSUB_LOG_LEVEL"`

	// DryRun substitutes in memory without writing files
	DryRun bool `yaml:"dry_run" env:"VARSUB_DRY_RUN"`

	// FailOnNoMatch fails the run when a pattern selects no file
	FailOnNoMatch bool `yaml:"fail_on_no_match" env:"VARSUB_FAIL_ON_NO_MATCH"`

	// Indent is the number of spaces used when writing JSON
	Indent int `yaml:"indent" env:"VARSUB_INDENT"`

	// ExcludePrefixes are variable name prefixes never substituted
	ExcludePrefixes []string `yaml:"exclude_prefixes" env:"VARSUB_EXCLUDE_PREFIXES" envSeparator:","`

	// ConfigFile is the YAML file the configuration was read from
	ConfigFile string `yaml:"-" env:"VARSUB_CONFIG"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		LogLevel:        "info",
		Indent:          4,
		ExcludePrefixes: append([]string(nil), envtree.DefaultExcludePrefixes...),
	}
}

// Load builds the configuration from defaults, the YAML file and the
// environment, later layers overriding earlier ones. An explicit path wins
// over VARSUB_CONFIG, which wins over .varsub.yaml in the workspace.
func Load(path string) (*Config, error) {
	return newBuilder().
		withEnv().
		withFile(path).
		build()
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	fileCfg, present, err := parseFile(path)
	if err != nil {
		return nil, err
	}
	if fileCfg == nil {
		return cfg, nil
	}

	if err := merge(cfg, fileCfg); err != nil {
		return nil, err
	}
	applyExplicit(cfg, fileCfg, present)
	return cfg, nil
}

// LoadConfigFromDir loads configuration from .varsub.yaml in the specified directory
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, DefaultConfigFile))
}

// parseFile reads a YAML config file and reports which top-level keys it
// sets. A missing file yields nil, nil, nil.
func parseFile(path string) (*Config, map[string]bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	cfg.ConfigFile = path

	present := make(map[string]bool)
	var rawMap map[string]interface{}
	if err := yaml.Unmarshal(data, &rawMap); err == nil {
		for key, value := range rawMap {
			if value != nil {
				present[key] = true
			}
		}
	}
	return &cfg, present, nil
}

// applyExplicit copies the settings named in present from src to dst. The
// merge skips zero values, so an explicit false or 0 needs this to win.
func applyExplicit(dst, src *Config, present map[string]bool) {
	if present["dry_run"] {
		dst.DryRun = src.DryRun
	}
	if present["fail_on_no_match"] {
		dst.FailOnNoMatch = src.FailOnNoMatch
	}
	if present["indent"] {
		dst.Indent = src.Indent
	}
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
// This allows CLI flags to take precedence over config file settings
func (c *Config) MergeWithFlags(files []string, workspace *string, logLevel *string, dryRun *bool, failOnNoMatch *bool, indent *int) {
	if len(files) > 0 {
		c.Files = files
	}
	if workspace != nil {
		c.Workspace = *workspace
	}
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
	if dryRun != nil {
		c.DryRun = *dryRun
	}
	if failOnNoMatch != nil {
		c.FailOnNoMatch = *failOnNoMatch
	}
	if indent != nil {
		c.Indent = *indent
	}
}

// Patterns returns the non-blank search patterns with surrounding space removed.
func (c *Config) Patterns() []string {
	patterns := make([]string, 0, len(c.Files))
	for _, f := range c.Files {
		if f = strings.TrimSpace(f); f != "" {
			patterns = append(patterns, f)
		}
	}
	return patterns
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	if !logger.ValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if len(c.Patterns()) == 0 {
		return fmt.Errorf("files must name at least one search pattern")
	}

	if c.Indent < 0 {
		return fmt.Errorf("indent must be >= 0, got %d", c.Indent)
	}

	return nil
}
