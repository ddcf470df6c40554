// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskHive Contributors

// Package config loads and validates server configuration.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Session and hashing defaults match the behavior the application was
// deployed with: 30 minute sessions extended by 5 minutes on activity,
// bcrypt cost 10.
const (
	DefaultHTTPAddr            = ":8080"
	DefaultMongoDatabase       = "taskhive"
	DefaultSessionDuration     = 30 * time.Minute
	DefaultSessionActiveWindow = 5 * time.Minute
	DefaultBcryptCost          = 10
	DefaultLogFormat           = "json"

	// MinSessionSecretLen is the minimum byte length for the HMAC secret.
	MinSessionSecretLen = 32
)

// envPrefix is stripped from environment variables, e.g.
// TASKHIVE_DATABASE_URL becomes database_url.
const envPrefix = "TASKHIVE_"

// Config holds all runtime configuration for the taskhive server.
type Config struct {
	HTTPAddr    string `koanf:"http_addr"`
	MetricsAddr string `koanf:"metrics_addr"`

	MongoURL      string `koanf:"mongo_url"`
	MongoDatabase string `koanf:"mongo_database"`
	DatabaseURL   string `koanf:"database_url"`

	SessionSecret       string        `koanf:"session_secret"`
	SessionDuration     time.Duration `koanf:"session_duration"`
	SessionActiveWindow time.Duration `koanf:"session_active_window"`

	BcryptCost int    `koanf:"bcrypt_cost"`
	LogFormat  string `koanf:"log_format"`
}

// Load builds the configuration from defaults, an optional YAML file,
// TASKHIVE_-prefixed environment variables, and command-line flags, in
// that order of increasing precedence. flags may be nil.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]any{
		"http_addr":             DefaultHTTPAddr,
		"mongo_database":        DefaultMongoDatabase,
		"session_duration":      DefaultSessionDuration,
		"session_active_window": DefaultSessionActiveWindow,
		"bcrypt_cost":           DefaultBcryptCost,
		"log_format":            DefaultLogFormat,
	}
	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return nil, oops.Code("CONFIG_DEFAULTS_FAILED").With("key", key).Wrap(err)
		}
	}

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_FILE_FAILED").
				With("path", configFile).
				Wrap(err)
		}
	}

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return nil, oops.Code("CONFIG_ENV_FAILED").Wrap(err)
	}

	if flags != nil {
		// Flag names use dashes (http-addr); koanf keys use underscores.
		provider := posflag.ProviderWithValue(flags, ".", k, func(key, value string) (string, any) {
			return strings.ReplaceAll(key, "-", "_"), value
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.Code("CONFIG_FLAGS_FAILED").Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_UNMARSHAL_FAILED").Wrap(err)
	}

	return &cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.HTTPAddr == "" {
		return oops.Code("CONFIG_INVALID").Errorf("http_addr is required")
	}
	if c.MongoURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("mongo_url is required")
	}
	if c.MongoDatabase == "" {
		return oops.Code("CONFIG_INVALID").Errorf("mongo_database is required")
	}
	if c.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database_url is required")
	}
	if len(c.SessionSecret) < MinSessionSecretLen {
		return oops.Code("CONFIG_INVALID").
			With("min_bytes", MinSessionSecretLen).
			Errorf("session_secret must be at least %d bytes", MinSessionSecretLen)
	}
	if c.SessionDuration <= 0 {
		return oops.Code("CONFIG_INVALID").Errorf("session_duration must be positive")
	}
	if c.SessionActiveWindow <= 0 {
		return oops.Code("CONFIG_INVALID").Errorf("session_active_window must be positive")
	}
	if c.SessionActiveWindow > c.SessionDuration {
		return oops.Code("CONFIG_INVALID").
			Errorf("session_active_window cannot exceed session_duration")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return oops.Code("CONFIG_INVALID").
			With("cost", c.BcryptCost).
			Errorf("bcrypt_cost must be between 4 and 31")
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return oops.Code("CONFIG_INVALID").
			Errorf("log_format must be 'json' or 'text', got %q", c.LogFormat)
	}
	return nil
}

// FileExists reports whether the given config file path exists. An empty
// path returns false without touching the filesystem.
func FileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
