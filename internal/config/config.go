package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level bahi.yaml configuration.
type Config struct {
	Firm     FirmConfig     `yaml:"firm"`
	Database DatabaseConfig `yaml:"database"`
	Interest InterestConfig `yaml:"interest"`
	// SettlementEpsilon overrides the threshold below which an outstanding
	// balance counts as fully paid. Empty keeps the built-in 0.01.
	SettlementEpsilon string         `yaml:"settlement_epsilon,omitempty"`
	FirmKinds         map[string]int `yaml:"firm_kinds,omitempty"` // kind -> +1 or -1
	Audit             AuditConfig    `yaml:"audit"`
}

// FirmConfig identifies the firm.
type FirmConfig struct {
	Name  string `yaml:"name"`
	Owner string `yaml:"owner"`
}

// DatabaseConfig locates the SQLite ledger file.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// InterestConfig holds origination defaults for new instruments.
type InterestConfig struct {
	DefaultMode string `yaml:"default_mode"`
	DefaultRate string `yaml:"default_rate"`
}

// AuditConfig controls the confirmation audit trail.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// Load reads a bahi.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new firm.
func Default(firmName, owner string) *Config {
	return &Config{
		Firm: FirmConfig{
			Name:  firmName,
			Owner: owner,
		},
		Database: DatabaseConfig{
			Path: "bahi.db",
		},
		Interest: InterestConfig{
			DefaultMode: "monthly",
			DefaultRate: "2",
		},
		FirmKinds: map[string]int{
			"adjustment": -1,
		},
		Audit: AuditConfig{
			Enabled: true,
			Dir:     "logs",
		},
	}
}
