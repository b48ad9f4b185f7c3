package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"taskmanager/internal/client/api"
)

const (
	defaultBaseURL  = "http://localhost:8080/api"
	defaultLogLevel = "warn"
)

// Config is read from taskctl.toml. Keys missing from the file keep their
// defaults.
type Config struct {
	BaseURL         string     `toml:"base_url"`
	CredentialsFile string     `toml:"credentials_file"`
	LogLevel        string     `toml:"log_level"`
	Auth            AuthConfig `toml:"auth"`
}

// AuthConfig chooses which resources carry the bearer token.
type AuthConfig struct {
	Tasks      bool `toml:"tasks"`
	Categories bool `toml:"categories"`
	Tags       bool `toml:"tags"`
}

func (a AuthConfig) Policy() api.AuthPolicy {
	return api.AuthPolicy{Tasks: a.Tasks, Categories: a.Categories, Tags: a.Tags}
}

func defaultConfig() *Config {
	policy := api.DefaultAuthPolicy()
	return &Config{
		BaseURL:         defaultBaseURL,
		CredentialsFile: filepath.Join(configDir(), "credentials.json"),
		LogLevel:        defaultLogLevel,
		Auth: AuthConfig{
			Tasks:      policy.Tasks,
			Categories: policy.Categories,
			Tags:       policy.Tags,
		},
	}
}

// loadConfig reads path over the defaults. A missing file is only an error
// when the path was given explicitly.
func loadConfig(path string, explicit bool) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		path = filepath.Join(configDir(), "taskctl.toml")
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%s: base_url must not be empty", path)
	}
	if cfg.CredentialsFile == "" {
		return nil, fmt.Errorf("%s: credentials_file must not be empty", path)
	}
	return cfg, nil
}

// configDir is $XDG_CONFIG_HOME/taskctl or the OS equivalent, falling back
// to ~/.taskctl.
func configDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "taskctl")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".taskctl")
	}
	return ".taskctl"
}
