// Package daemon manages the Stride daemon lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/stride-coach/stride/internal/app/coach"
)

// Config holds all daemon configuration.
type Config struct {
	API       APIConfig       `toml:"api"`
	User      UserConfig      `toml:"user"`
	Coach     coach.Config    `toml:"coach"`
	Narrative NarrativeConfig `toml:"narrative"`
	Logging   LoggingConfig   `toml:"logging"`
	Telemetry TelemetryConfig `toml:"telemetry"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host        string   `toml:"host"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// UserConfig identifies the local account.
type UserConfig struct {
	Email string `toml:"email"`
}

// NarrativeConfig controls the weekly narrative service client.
type NarrativeConfig struct {
	Enabled bool   `toml:"enabled"`
	URL     string `toml:"url"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// TelemetryConfig controls metrics exposure.
type TelemetryConfig struct {
	Prometheus bool `toml:"prometheus"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	homeDir := strideHome()
	return Config{
		API: APIConfig{
			Host:        "127.0.0.1",
			Port:        7465,
			CORSOrigins: []string{"*"},
		},
		User: UserConfig{
			Email: "local@stride",
		},
		Coach: coach.DefaultConfig(),
		Narrative: NarrativeConfig{
			Enabled: false,
			URL:     "http://127.0.0.1:7470",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(homeDir, "stride.log"),
		},
		Telemetry: TelemetryConfig{
			Prometheus: false,
		},
	}
}

// LoadConfig reads config from ~/.stride/config.toml, falling back to defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(strideHome(), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil // No config file yet — use defaults
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// SaveConfig writes the config to ~/.stride/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(strideHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// strideHome returns the Stride data directory.
func strideHome() string {
	if env := os.Getenv("STRIDE_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".stride")
}

// StrideHome is exported for use by other packages.
func StrideHome() string {
	return strideHome()
}
