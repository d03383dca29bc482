package core

import (
	"strings"
	"time"
)

// SchemaColumn describes one column of a schema table.
type SchemaColumn struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
	// PrimaryKey is set when either an inline column constraint or a
	// table-level composite constraint marks the column.
	PrimaryKey bool `json:"primary_key,omitempty"`
	// References is the canonical dotted name of the foreign-key target
	// table, empty for non-FK columns.
	References string `json:"references,omitempty"`
}

// SchemaTable describes one table with its columns. Name parts are stored
// already normalized.
type SchemaTable struct {
	Catalog string         `json:"catalog,omitempty"`
	Schema  string         `json:"schema,omitempty"`
	Name    string         `json:"name"`
	Columns []SchemaColumn `json:"columns,omitempty"`
}

// Canonical returns the dotted canonical name, omitting empty levels.
func (t *SchemaTable) Canonical() string {
	parts := make([]string, 0, 3)
	if t.Catalog != "" {
		parts = append(parts, t.Catalog)
	}
	if t.Schema != "" {
		parts = append(parts, t.Schema)
	}
	parts = append(parts, t.Name)
	return strings.Join(parts, ".")
}

// ColumnNames returns the column names in declaration order.
func (t *SchemaTable) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// SchemaOrigin records how a registry entry was produced.
type SchemaOrigin string

// SchemaOrigin values.
const (
	// OriginImported marks an entry seeded from caller-supplied metadata.
	// Imported entries are never replaced by implied writes.
	OriginImported SchemaOrigin = "imported"
	// OriginImplied marks an entry captured from CREATE TABLE/VIEW/CTAS
	// processing.
	OriginImplied SchemaOrigin = "implied"
)

// SchemaTableEntry is one schema registry entry.
type SchemaTableEntry struct {
	Table  SchemaTable  `json:"table"`
	Origin SchemaOrigin `json:"origin"`
	// SourceStmt is the statement index that implied the entry, -1 for
	// imported entries.
	SourceStmt int  `json:"source_stmt"`
	Temporary  bool `json:"temporary,omitempty"`
	// View marks entries implied by CREATE VIEW, so later references bind
	// to a view rather than a table.
	View      bool      `json:"view,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CaseOverride lets a caller force identifier case handling regardless of
// the dialect's folding strategy.
type CaseOverride int

// CaseOverride values.
const (
	// CaseDefault defers to the dialect's normalization strategy.
	CaseDefault CaseOverride = iota
	// CaseLower always folds unquoted identifiers to lowercase.
	CaseLower
	// CaseUpper always folds unquoted identifiers to uppercase.
	CaseUpper
	// CaseExact disables folding entirely.
	CaseExact
)

// ParseCaseOverride converts a string to a CaseOverride value.
// Returns the override and true if valid, or CaseDefault and false if invalid.
func ParseCaseOverride(s string) (CaseOverride, bool) {
	switch strings.ToLower(s) {
	case "", "default":
		return CaseDefault, true
	case "lower":
		return CaseLower, true
	case "upper":
		return CaseUpper, true
	case "exact":
		return CaseExact, true
	default:
		return CaseDefault, false
	}
}

// SchemaMetadata is the caller-supplied context for one analysis run.
// The zero value is usable: no defaults, no imported tables, implied
// capture enabled.
type SchemaMetadata struct {
	DefaultCatalog string        `json:"default_catalog,omitempty"`
	DefaultSchema  string        `json:"default_schema,omitempty"`
	SearchPath     []string      `json:"search_path,omitempty"`
	CaseOverride   CaseOverride  `json:"-"`
	Tables         []SchemaTable `json:"tables,omitempty"`
	// DisableImplied turns off implied schema capture from DDL statements.
	DisableImplied bool `json:"disable_implied,omitempty"`
}

// TableResolution is the ephemeral result of resolving one raw table
// reference. Not persisted.
type TableResolution struct {
	// Canonical is the best-effort canonical dotted name.
	Canonical string
	// MatchedSchema reports whether the canonical name hit a known table.
	MatchedSchema bool
}
