// Package config provides shared project configuration for SQLWeave.
// This package is decoupled from CLI concerns so the HTTP server and other
// tools can load project configuration without pulling in cobra or pflag.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/sqlweave-labs/sqlweave/internal/engine"
	"github.com/sqlweave-labs/sqlweave/pkg/core"
	"github.com/sqlweave-labs/sqlweave/pkg/dialect"
)

// ProjectConfig holds the analysis settings shared by every entry point.
type ProjectConfig struct {
	// Dialect selects the SQL dialect used for parsing and identifier
	// folding.
	Dialect string `koanf:"dialect"`

	// SchemaFiles are YAML schema documents loaded as imported schema.
	SchemaFiles []string `koanf:"schema_files"`

	// SearchPath orders the schemas probed when resolving bare table
	// names. Entries are plain schema names or catalog.schema pairs.
	SearchPath []string `koanf:"search_path"`

	// DefaultCatalog and DefaultSchema qualify table names that resolve
	// outside the search path.
	DefaultCatalog string `koanf:"default_catalog"`
	DefaultSchema  string `koanf:"default_schema"`

	// CaseOverride forces identifier folding regardless of the dialect's
	// strategy: default, lower, upper, or exact.
	CaseOverride core.CaseOverride `koanf:"case_override"`

	// CaptureImplied records schema implied by DDL statements.
	CaptureImplied bool `koanf:"capture_implied"`
}

// Metadata converts the project configuration into analysis metadata.
func (p *ProjectConfig) Metadata() *core.SchemaMetadata {
	return &core.SchemaMetadata{
		DefaultCatalog: p.DefaultCatalog,
		DefaultSchema:  p.DefaultSchema,
		SearchPath:     p.SearchPath,
		CaseOverride:   p.CaseOverride,
	}
}

// EngineConfig builds the engine configuration for one analysis run.
func (p *ProjectConfig) EngineConfig(logger *slog.Logger) engine.Config {
	return engine.Config{
		Dialect:        p.Dialect,
		SchemaFiles:    p.SchemaFiles,
		Metadata:       p.Metadata(),
		DisableImplied: !p.CaptureImplied,
		Logger:         logger,
	}
}

// Validate checks the project configuration against the dialect registry
// and the search path shape.
func (p *ProjectConfig) Validate() error {
	if p.Dialect == "" {
		return dialect.ErrDialectRequired
	}
	if _, ok := dialect.Get(p.Dialect); !ok {
		return fmt.Errorf("unknown dialect %q (available: %s)",
			p.Dialect, strings.Join(dialect.List(), ", "))
	}
	for _, entry := range p.SearchPath {
		if strings.TrimSpace(entry) == "" {
			return fmt.Errorf("empty search_path entry")
		}
		parts := strings.Split(entry, ".")
		if len(parts) > 2 {
			return fmt.Errorf("invalid search_path entry %q: at most catalog.schema", entry)
		}
		for _, part := range parts {
			if strings.TrimSpace(part) == "" {
				return fmt.Errorf("invalid search_path entry %q", entry)
			}
		}
	}
	return nil
}

// DefaultSchemaForDialect returns the default schema for a dialect name.
// Unknown dialects and dialects without a default fall back to "public".
func DefaultSchemaForDialect(name string) string {
	if d, ok := dialect.Get(name); ok && d.DefaultSchema != "" {
		return d.DefaultSchema
	}
	return "public"
}
