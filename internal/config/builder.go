package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
)

// envKeys maps the variables whose zero value is a meaningful setting to
// their config file keys.
var envKeys = map[string]string{
	"VARSUB_DRY_RUN":          "dry_run",
	"VARSUB_FAIL_ON_NO_MATCH": "fail_on_no_match",
	"VARSUB_INDENT":           "indent",
}

// builder layers the file config (defaults included) under the environment.
type builder struct {
	file   *Config
	env    *Config
	envSet map[string]bool
	err    error
}

func newBuilder() *builder {
	return &builder{}
}

func (b *builder) build() (*Config, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occurred during building config: %w", b.err)
	}

	cfg := b.file
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if b.env != nil {
		if err := merge(cfg, b.env); err != nil {
			return nil, err
		}
		applyExplicit(cfg, b.env, b.envSet)
	}
	return cfg, nil
}

// withEnv parses the environment. The layer is applied after the file layer
// so that it takes precedence, but it is parsed first because it may name
// the file and the workspace.
func (b *builder) withEnv() *builder {
	envCfg := &Config{}
	if err := parseEnv(envCfg); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}
	b.env = envCfg

	b.envSet = make(map[string]bool)
	for name, key := range envKeys {
		if value, ok := os.LookupEnv(name); ok && value != "" {
			b.envSet[key] = true
		}
	}
	return b
}

func (b *builder) withFile(path string) *builder {
	if path == "" && b.env != nil {
		path = b.env.ConfigFile
	}
	if path == "" {
		workspace := ""
		if b.env != nil {
			workspace = b.env.Workspace
		}
		path = filepath.Join(workspace, DefaultConfigFile)
	}

	fileCfg, err := LoadConfig(path)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}
	b.file = fileCfg
	return b
}

func parseEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}
	return nil
}

func merge(dst, src *Config) error {
	if err := mergo.Merge(dst, src, mergo.WithOverride); err != nil {
		return fmt.Errorf("error merging configs: %w", err)
	}
	return nil
}
