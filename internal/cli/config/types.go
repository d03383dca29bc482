// Package config provides configuration management for the SQLWeave CLI.
//
// This package extends the shared project configuration from
// internal/config with CLI-specific fields: output shaping, run history,
// and the HTTP server settings. The shared types are re-exported here via
// type aliases so command code needs a single config import.
package config

import (
	"log/slog"

	sharedcfg "github.com/sqlweave-labs/sqlweave/internal/config"
	"github.com/sqlweave-labs/sqlweave/internal/engine"
	"github.com/sqlweave-labs/sqlweave/pkg/core"
)

// ProjectConfig is an alias for the shared project configuration.
type ProjectConfig = sharedcfg.ProjectConfig

// Default configuration values. The analysis defaults live in
// internal/config and are re-exported for command code.
const (
	DefaultDialect   = sharedcfg.DefaultDialect
	DefaultOutput    = sharedcfg.DefaultOutput
	DefaultStateFile = sharedcfg.DefaultStateFile
)

// ServeConfig holds configuration for the HTTP API server.
type ServeConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
}

// DefaultServeConfig returns a ServeConfig with default values.
func DefaultServeConfig() *ServeConfig {
	return &ServeConfig{
		Host: sharedcfg.DefaultServeHost,
		Port: sharedcfg.DefaultServePort,
	}
}

// GetServeConfig returns the serve config with defaults applied for any
// unset values.
func (c *Config) GetServeConfig() *ServeConfig {
	if c.Serve == nil {
		return DefaultServeConfig()
	}
	serve := c.Serve
	if serve.Host == "" {
		serve.Host = sharedcfg.DefaultServeHost
	}
	if serve.Port == 0 {
		serve.Port = sharedcfg.DefaultServePort
	}
	return serve
}

// Config holds all CLI configuration options.
type Config struct {
	// Analysis settings, mirrored from the shared project configuration.
	Dialect        string            `koanf:"dialect"`
	SchemaFiles    []string          `koanf:"schema_files"`
	SearchPath     []string          `koanf:"search_path"`
	DefaultCatalog string            `koanf:"default_catalog"`
	DefaultSchema  string            `koanf:"default_schema"`
	CaseOverride   core.CaseOverride `koanf:"case_override"`
	CaptureImplied bool              `koanf:"capture_implied"`

	// Output selects report rendering: auto, text, or json.
	Output string `koanf:"output"`

	// StatePath is the run history database location.
	StatePath string `koanf:"state_path"`

	// History records analysis runs in the state database.
	History bool `koanf:"history"`

	// Verbose enables debug logging.
	Verbose bool `koanf:"verbose"`

	// Serve configures the HTTP API server.
	Serve *ServeConfig `koanf:"serve"`

	// ProjectRoot is the resolved project directory. Set by LoadConfig,
	// never read from the file.
	ProjectRoot string `koanf:"-"`
}

// Project extracts the shared project configuration from the CLI config.
func (c *Config) Project() *ProjectConfig {
	return &ProjectConfig{
		Dialect:        c.Dialect,
		SchemaFiles:    c.SchemaFiles,
		SearchPath:     c.SearchPath,
		DefaultCatalog: c.DefaultCatalog,
		DefaultSchema:  c.DefaultSchema,
		CaseOverride:   c.CaseOverride,
		CaptureImplied: c.CaptureImplied,
	}
}

// EngineConfig builds the engine configuration for one analysis run.
func (c *Config) EngineConfig(logger *slog.Logger) engine.Config {
	return c.Project().EngineConfig(logger)
}
