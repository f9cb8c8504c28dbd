package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Backend kinds understood by the gateway.
const (
	BackendWorkersAI = "workersai"
	BackendOpenAI    = "openai"
)

// Config represents the gateway configuration
type Config struct {
	Listen   string        `yaml:"listen"`
	APIKey   string        `yaml:"api_key"`
	LogLevel string        `yaml:"log_level"`
	Stream   StreamConfig  `yaml:"stream"`
	Backend  BackendConfig `yaml:"backend"`
}

// StreamConfig tunes the streaming replay loop
type StreamConfig struct {
	SliceWidth int `yaml:"slice_width"`
	PacingMs   int `yaml:"pacing_ms"`
}

// BackendConfig contains configuration for the inference backend
type BackendConfig struct {
	Kind    string `yaml:"kind"`
	APIBase string `yaml:"api_base"`
	APIKey  string `yaml:"api_key"`
}

// DefaultConfig returns a config populated with the documented defaults.
func DefaultConfig() *Config {
	return &Config{
		Listen:   ":8080",
		LogLevel: "info",
		Stream: StreamConfig{
			SliceWidth: 4,
			PacingMs:   20,
		},
		Backend: BackendConfig{
			Kind: BackendWorkersAI,
		},
	}
}

// LoadConfig loads configuration from a YAML file, filling in defaults for
// anything the file leaves unset. Secrets may also come from the environment
// (MODELGATE_API_KEY, BACKEND_API_KEY) so the file can stay checked in.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("MODELGATE_API_KEY")
	}
	if cfg.Backend.APIKey == "" {
		cfg.Backend.APIKey = os.Getenv("BACKEND_API_KEY")
	}
	if cfg.Stream.SliceWidth <= 0 {
		cfg.Stream.SliceWidth = 4
	}
	if cfg.Stream.PacingMs < 0 {
		cfg.Stream.PacingMs = 0
	}
	return cfg, nil
}
