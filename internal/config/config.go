package config

import (
	"fmt"
	"os"
	"time"

	"mbti-quiz-service/internal/catalog"
	"mbti-quiz-service/internal/domain"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Log struct {
		Level       string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`
	Redis struct {
		Addr       string `yaml:"addr"`
		Password   string `yaml:"password"`
		DB         int    `yaml:"db" validate:"min=0"`
		TTL        string `yaml:"ttl"`
		HistoryKey string `yaml:"historyKey"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	SQLite struct {
		Path string `yaml:"path"`
	} `yaml:"sqlite"`
	Catalog struct {
		Name string `yaml:"name"`
		TTL  string `yaml:"ttl"`
	} `yaml:"catalog"`
	Tiers []domain.TierSpec `yaml:"tiers" validate:"dive"`
}

// Load reads YAML config from path. Missing tiers fall back to the reference sizing.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Default is used when no config file exists (e.g. the terminal quiz).
func Default() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if len(c.Tiers) == 0 {
		c.Tiers = catalog.DefaultTiers()
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Catalog.Name == "" {
		c.Catalog.Name = "reference"
	}
}

// Validate checks field constraints and rejects duplicate tiers.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	seen := make(map[domain.Tier]bool, len(c.Tiers))
	for _, t := range c.Tiers {
		if seen[t.Tier] {
			return fmt.Errorf("invalid config: tier %q defined twice", t.Tier)
		}
		seen[t.Tier] = true
	}
	return nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
