// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rosterd Contributors

// Package config loads and validates server configuration from a YAML
// file, command-line flags and the environment. Flags take precedence
// over the file, the file over built-in defaults.
package config

import (
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Default values applied when neither the config file nor flags set a key.
const (
	DefaultHTTPAddr    = "127.0.0.1:8080"
	DefaultMetricsAddr = "127.0.0.1:9100"
	DefaultLogFormat   = "json"
	DefaultPageLimit   = 50
)

// Config holds the full rosterd server configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Log      LogConfig      `koanf:"log"`
}

// ServerConfig configures the HTTP and observability listeners.
type ServerConfig struct {
	// Addr is the HTTP API listen address in "host:port" form.
	Addr string `koanf:"addr"`
	// MetricsAddr is the metrics/health listen address. Empty disables
	// the observability server.
	MetricsAddr string `koanf:"metrics_addr"`
}

// DatabaseConfig configures the PostgreSQL connection.
type DatabaseConfig struct {
	// URL is the connection string. Falls back to the DATABASE_URL
	// environment variable when unset.
	URL string `koanf:"url"`
	// AutoMigrate runs pending schema migrations on startup.
	AutoMigrate bool `koanf:"auto_migrate"`
}

// LogConfig configures structured logging output.
type LogConfig struct {
	Format string `koanf:"format"`
}

// Validate checks that the configuration is complete and consistent.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Database.URL == "" {
		return fmt.Errorf("database.url is required (or set DATABASE_URL)")
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("log.format must be 'json' or 'text', got %q", c.Log.Format)
	}
	return nil
}

// Load builds a Config by layering the optional YAML file at path and
// the given flag set over built-in defaults. A missing path is not an
// error when it is empty; a named file that does not exist is.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// Flags the user explicitly set override file values.
	if flags != nil {
		if err := k.Load(posflag.Provider(changedOnly(flags), ".", k), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyDefaults(cfg, k)

	return cfg, nil
}

func applyDefaults(cfg *Config, k *koanf.Koanf) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultHTTPAddr
	}
	// An explicitly empty metrics_addr disables the observability
	// server. The flag default carries the usual address, so only
	// fill it in when the key was never provided at all.
	if cfg.Server.MetricsAddr == "" && !k.Exists("server.metrics_addr") {
		cfg.Server.MetricsAddr = DefaultMetricsAddr
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if cfg.Database.URL == "" {
		cfg.Database.URL = os.Getenv("DATABASE_URL")
	}
}

// Flags registers the server flags that Load understands. The flag
// names use dots so they map onto the same keys as the YAML file.
// Only flags the user actually changed override file values.
func Flags(fs *pflag.FlagSet) {
	fs.String("server.addr", "", "HTTP API listen address")
	fs.String("server.metrics_addr", "", "metrics/health HTTP address (empty = disabled)")
	fs.String("database.url", "", "PostgreSQL connection URL (default: DATABASE_URL env)")
	fs.Bool("database.auto_migrate", false, "run pending migrations on startup")
	fs.String("log.format", "", "log format (json or text)")
}

// changedOnly filters fs down to flags the user explicitly set, so the
// posflag provider does not clobber file values with empty defaults.
func changedOnly(fs *pflag.FlagSet) *pflag.FlagSet {
	out := pflag.NewFlagSet(fs.Name(), pflag.ContinueOnError)
	fs.Visit(func(f *pflag.Flag) {
		out.AddFlag(f)
	})
	return out
}
