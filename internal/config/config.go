// Package config loads the planner configuration from YAML with
// environment overrides for the API credential.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"aiday/internal/types"
)

// Config holds all aiday configuration.
type Config struct {
	// LLM configuration
	Model  string `yaml:"model"`
	APIKey string `yaml:"api_key"`

	// Directory that exported plans are written into.
	OutputDir string `yaml:"output_dir"`

	// Optional YAML file with instruction-template overrides. Watched
	// for changes while the wizard runs.
	PromptsFile string `yaml:"prompts_file"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Verbose bool   `yaml:"verbose"`
	File    string `yaml:"file"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Model:     "gemini-2.5-flash",
		OutputDir: ".",
		Logging: LoggingConfig{
			File: "aiday.log",
		},
	}
}

// DefaultPath returns the standard config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".aiday", "config.yaml")
}

// Load reads configuration from path, falling back to defaults when the
// file does not exist. The API key env vars always win over the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// Defaults apply.
		default:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.APIKey = key
	} else if key := os.Getenv("API_KEY"); key != "" {
		cfg.APIKey = key
	}

	return cfg, nil
}

// Validate checks the fatal startup conditions. A missing credential
// refuses initialization rather than running degraded.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("API key not set: export GEMINI_API_KEY or set api_key in the config file")
	}
	if c.Model == "" {
		return fmt.Errorf("model must not be empty")
	}
	return nil
}

// LoadPromptOverrides reads an instruction-template override file.
// Missing keys keep their defaults; a missing file is not an error.
func LoadPromptOverrides(path string) (types.Prompts, error) {
	var p types.Prompts
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return p, fmt.Errorf("read prompts file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse prompts file %s: %w", path, err)
	}
	return p, nil
}
