// Package registry tracks table schemas during one analysis run. It maps
// canonical table names to imported or implied schema entries and maintains
// the known-tables set consulted by reference resolution.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sqlweave-labs/sqlweave/pkg/core"
)

// SchemaRegistry maps canonical table names to schema entries.
//
// Imported entries are seeded once before any statement is processed and
// are never replaced by implied writes; implied entries come from CREATE
// TABLE/VIEW/CTAS processing and may be replaced by later DDL. A registry
// is owned by a single analysis run and is not safe for concurrent use.
type SchemaRegistry struct {
	entries map[string]*core.SchemaTableEntry

	// known holds every canonical name ever registered, including names
	// whose schema write was skipped. Reference resolution is independent
	// of schema capture.
	known map[string]struct{}

	// views holds names defined by CREATE VIEW, tracked independently of
	// schema capture so references bind to a view node either way.
	views map[string]struct{}

	// captureImplied gates implied schema writes; the known and views sets
	// update either way.
	captureImplied bool
}

// NewSchemaRegistry creates an empty registry. captureImplied controls
// whether DDL statements write implied schema entries.
func NewSchemaRegistry(captureImplied bool) *SchemaRegistry {
	return &SchemaRegistry{
		entries:        make(map[string]*core.SchemaTableEntry),
		known:          make(map[string]struct{}),
		views:          make(map[string]struct{}),
		captureImplied: captureImplied,
	}
}

// RegisterImported seeds imported entries from caller-supplied metadata.
// Table names are expected to be normalized already.
func (r *SchemaRegistry) RegisterImported(tables []core.SchemaTable) {
	now := time.Now()
	for _, t := range tables {
		canonical := t.Canonical()
		r.entries[canonical] = &core.SchemaTableEntry{
			Table:      t,
			Origin:     core.OriginImported,
			SourceStmt: -1,
			UpdatedAt:  now,
		}
		r.known[canonical] = struct{}{}
	}
}

// RegisterImplied records schema implied by a DDL statement. The canonical
// name becomes known in every case. The schema write is skipped when the
// name is covered by an imported entry, when implied capture is disabled,
// or when the column list is empty.
//
// When the DDL contradicts an imported entry (different column-name sets),
// the imported entry stays untouched and a SCHEMA_CONFLICT warning is
// returned; otherwise the returned issue is nil.
func (r *SchemaRegistry) RegisterImplied(canonical string, columns []core.SchemaColumn, temporary bool, ddlKind string, stmtIndex int) *core.Issue {
	r.known[canonical] = struct{}{}

	if existing, ok := r.entries[canonical]; ok && existing.Origin == core.OriginImported {
		if !sameColumnNames(existing.Table.Columns, columns) {
			issue := core.NewIssue(core.SeverityWarning, core.IssueSchemaConflict,
				fmt.Sprintf("%s for %s conflicts with imported schema: %d imported column(s) vs %d declared; imported schema kept",
					ddlKind, canonical, len(existing.Table.Columns), len(columns)),
			).AtStatement(stmtIndex)
			return &issue
		}
		return nil
	}

	if strings.Contains(ddlKind, "VIEW") {
		r.views[canonical] = struct{}{}
	}

	if !r.captureImplied || len(columns) == 0 {
		return nil
	}

	table := splitCanonical(canonical)
	table.Columns = columns
	r.entries[canonical] = &core.SchemaTableEntry{
		Table:      table,
		Origin:     core.OriginImplied,
		SourceStmt: stmtIndex,
		Temporary:  temporary,
		View:       strings.Contains(ddlKind, "VIEW"),
		UpdatedAt:  time.Now(),
	}
	return nil
}

// Get returns the entry for a canonical name.
func (r *SchemaRegistry) Get(canonical string) (*core.SchemaTableEntry, bool) {
	e, ok := r.entries[canonical]
	return e, ok
}

// Known reports whether the canonical name refers to a known table.
func (r *SchemaRegistry) Known(canonical string) bool {
	_, ok := r.known[canonical]
	return ok
}

// IsView reports whether the canonical name was defined by CREATE VIEW.
func (r *SchemaRegistry) IsView(canonical string) bool {
	_, ok := r.views[canonical]
	return ok
}

// KnownTables returns a copy of the known-tables membership set.
func (r *SchemaRegistry) KnownTables() map[string]struct{} {
	result := make(map[string]struct{}, len(r.known))
	for name := range r.known {
		result[name] = struct{}{}
	}
	return result
}

// Entries returns all entries sorted by canonical name.
func (r *SchemaRegistry) Entries() []*core.SchemaTableEntry {
	entries := make([]*core.SchemaTableEntry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Table.Canonical() < entries[j].Table.Canonical()
	})
	return entries
}

// Count returns the number of entries holding schema.
func (r *SchemaRegistry) Count() int {
	return len(r.entries)
}

// sameColumnNames compares two column lists as name sets, ignoring order
// and types.
func sameColumnNames(a []core.SchemaColumn, b []core.SchemaColumn) bool {
	if len(a) != len(b) {
		return false
	}
	names := make(map[string]struct{}, len(a))
	for _, c := range a {
		names[c.Name] = struct{}{}
	}
	for _, c := range b {
		if _, ok := names[c.Name]; !ok {
			return false
		}
	}
	return true
}

// splitCanonical maps a dotted canonical name onto catalog/schema/name by
// part count: three or more parts fill all levels, two fill schema and
// name, one fills name only.
func splitCanonical(canonical string) core.SchemaTable {
	parts := strings.Split(canonical, ".")
	switch {
	case len(parts) >= 3:
		return core.SchemaTable{
			Catalog: strings.Join(parts[:len(parts)-2], "."),
			Schema:  parts[len(parts)-2],
			Name:    parts[len(parts)-1],
		}
	case len(parts) == 2:
		return core.SchemaTable{Schema: parts[0], Name: parts[1]}
	default:
		return core.SchemaTable{Name: canonical}
	}
}
