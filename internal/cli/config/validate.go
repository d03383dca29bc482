package config

import (
	"fmt"
	"os"

	sharedcfg "github.com/sqlweave-labs/sqlweave/internal/config"
)

// DefaultSchemaForDialect returns the default schema for a dialect name.
// This is a convenience wrapper that delegates to the shared config function.
func DefaultSchemaForDialect(name string) string {
	return sharedcfg.DefaultSchemaForDialect(name)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := c.Project().Validate(); err != nil {
		return err
	}

	switch c.Output {
	case "", "auto", "text", "json":
	default:
		return fmt.Errorf("invalid output %q (want auto, text, or json)", c.Output)
	}

	if c.Serve != nil {
		if c.Serve.Port < 0 || c.Serve.Port > 65535 {
			return fmt.Errorf("invalid serve port %d", c.Serve.Port)
		}
	}
	return nil
}

// ValidateSchemaFiles checks that configured schema files exist.
// Split from Validate so help commands work without the files present.
func (c *Config) ValidateSchemaFiles() error {
	for _, path := range c.SchemaFiles {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("schema file does not exist: %s\nHint: Check the path or use --schema to point at a different file", path)
		}
	}
	return nil
}
