// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package linkparse

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/AleutianParse/services/linkparse/telemetry"
)

// Config is the service configuration, loaded from YAML.
type Config struct {
	// ListenAddr is the HTTP listen address.
	ListenAddr string `yaml:"listen_addr" validate:"required"`

	// DictionaryPath points at a YAML dictionary. Empty uses the
	// built-in demonstration grammar.
	DictionaryPath string `yaml:"dictionary_path"`

	// MaxNullCount is the default null-link ceiling per request.
	MaxNullCount int `yaml:"max_null_count" validate:"min=0"`

	// LinkageLimit is the default accepted-linkage cap per request.
	LinkageLimit int `yaml:"linkage_limit" validate:"min=1"`

	// ParseTimeout bounds one parse search. Zero disables the budget.
	ParseTimeout time.Duration `yaml:"parse_timeout" validate:"min=0"`

	// Cache configures the badger-backed result cache.
	Cache CacheConfig `yaml:"cache"`

	// RateLimit configures per-client request throttling.
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	// Telemetry configures tracing and metrics exporters.
	Telemetry telemetry.Config `yaml:"telemetry"`
}

// CacheConfig configures the parse-result cache.
type CacheConfig struct {
	// Enabled turns the cache on.
	Enabled bool `yaml:"enabled"`

	// Path is the badger directory. Empty with Enabled uses an
	// in-memory database.
	Path string `yaml:"path"`

	// TTL is the entry lifetime. Zero uses the cache default.
	TTL time.Duration `yaml:"ttl" validate:"min=0"`
}

// RateLimitConfig configures per-client throttling on /v1/parse.
type RateLimitConfig struct {
	// Enabled turns rate limiting on.
	Enabled bool `yaml:"enabled"`

	// RPS is the sustained requests-per-second allowance per client.
	RPS float64 `yaml:"rps" validate:"min=0"`

	// Burst is the burst allowance per client.
	Burst int `yaml:"burst" validate:"min=0"`
}

// DefaultServiceConfig returns development defaults. The listen
// address honors LINKPARSE_LISTEN_ADDR.
func DefaultServiceConfig() Config {
	addr := ":8080"
	if env := os.Getenv("LINKPARSE_LISTEN_ADDR"); env != "" {
		addr = env
	}
	return Config{
		ListenAddr:   addr,
		MaxNullCount: 4,
		LinkageLimit: 100,
		ParseTimeout: 5 * time.Second,
		Cache: CacheConfig{
			Enabled: true,
			TTL:     24 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
			RPS:     20,
			Burst:   40,
		},
		Telemetry: telemetry.DefaultConfig(),
	}
}

var configValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration. Wraps ErrInvalidConfig.
func (c *Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// LoadConfig reads a YAML configuration file over the defaults, so a
// partial file only overrides what it names.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultServiceConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
