package lineage

import (
	"strings"

	"github.com/sqlweave-labs/sqlweave/pkg/core"
	"github.com/sqlweave-labs/sqlweave/pkg/dialect"
)

// KnownTables answers membership queries for canonical table names. The
// schema registry satisfies it.
type KnownTables interface {
	Known(canonical string) bool
}

// emptyKnown is the membership set used when no registry is wired in.
type emptyKnown struct{}

func (emptyKnown) Known(string) bool { return false }

// TableResolver turns raw table references into canonical dotted names
// using the dialect's folding rules, the run's default catalog and schema,
// the ordered search path, and the known-tables set. Resolution is
// best-effort and never fails; MatchedSchema reports whether the canonical
// name hit a known table.
type TableResolver struct {
	dialect *dialect.Dialect
	meta    *core.SchemaMetadata
	known   KnownTables

	// search path entries, pre-normalized
	path []string
}

// NewTableResolver builds a resolver for one analysis run. meta may be nil;
// known may be nil when no registry is in play.
func NewTableResolver(d *dialect.Dialect, meta *core.SchemaMetadata, known KnownTables) *TableResolver {
	if meta == nil {
		meta = &core.SchemaMetadata{}
	}
	if known == nil {
		known = emptyKnown{}
	}
	r := &TableResolver{dialect: d, meta: meta, known: known}
	for _, entry := range meta.SearchPath {
		if n := NormalizeQualified(entry, d, meta.CaseOverride); n != "" {
			r.path = append(r.path, n)
		}
	}
	return r
}

// Resolve splits and resolves a raw dotted reference.
func (r *TableResolver) Resolve(raw string) core.TableResolution {
	return r.ResolveParts(SplitQualified(raw))
}

// ResolveParts resolves an already-split reference. The algorithm depends
// on the part count after normalization:
//
//   - three or more parts: the name is fully qualified; membership is a
//     straight lookup
//   - two parts: try as-is, then prefixed with the default catalog
//   - one part: try the bare name, then each search path entry in order,
//     then fall back to the default schema qualification
func (r *TableResolver) ResolveParts(parts []core.NamePart) core.TableResolution {
	names := NormalizeParts(parts, r.dialect, r.meta.CaseOverride)

	switch {
	case len(names) >= 3:
		canonical := strings.Join(names, ".")
		return core.TableResolution{Canonical: canonical, MatchedSchema: r.known.Known(canonical)}

	case len(names) == 2:
		asIs := names[0] + "." + names[1]
		if r.known.Known(asIs) {
			return core.TableResolution{Canonical: asIs, MatchedSchema: true}
		}
		if cat := r.defaultCatalog(); cat != "" {
			prefixed := cat + "." + asIs
			if r.known.Known(prefixed) {
				return core.TableResolution{Canonical: prefixed, MatchedSchema: true}
			}
		}
		return core.TableResolution{Canonical: asIs}

	case len(names) == 1 && names[0] != "":
		return r.resolveBare(names[0])

	default:
		return core.TableResolution{}
	}
}

// resolveBare resolves a single-part name. The search path has priority
// over the default-schema fallback, and the first path hit wins.
func (r *TableResolver) resolveBare(name string) core.TableResolution {
	if r.known.Known(name) {
		return core.TableResolution{Canonical: name, MatchedSchema: true}
	}

	for _, entry := range r.path {
		candidate := entry + "." + name
		if r.known.Known(candidate) {
			return core.TableResolution{Canonical: candidate, MatchedSchema: true}
		}
	}

	if schema := r.defaultSchema(); schema != "" {
		qualified := schema + "." + name
		if cat := r.defaultCatalog(); cat != "" {
			qualified = cat + "." + qualified
		}
		return core.TableResolution{Canonical: qualified, MatchedSchema: r.known.Known(qualified)}
	}

	return core.TableResolution{Canonical: name}
}

// defaultCatalog is the metadata's default catalog when set, else the
// dialect's.
func (r *TableResolver) defaultCatalog() string {
	if r.meta.DefaultCatalog != "" {
		return NormalizeQualified(r.meta.DefaultCatalog, r.dialect, r.meta.CaseOverride)
	}
	return r.dialect.DefaultCatalog
}

// defaultSchema is the metadata's default schema when set, else the
// dialect's.
func (r *TableResolver) defaultSchema() string {
	if r.meta.DefaultSchema != "" {
		return NormalizeQualified(r.meta.DefaultSchema, r.dialect, r.meta.CaseOverride)
	}
	return r.dialect.DefaultSchema
}
