// Package dialect defines the runtime behavior of a SQL dialect: identifier
// folding, quoting, and function classification. Concrete dialects live in
// pkg/dialects and register themselves here; the parser and the lineage
// analyzer consume dialects through this package only.
package dialect

import (
	"strings"

	"github.com/sqlweave-labs/sqlweave/pkg/core"
)

// Dialect is one SQL dialect. Construct with New or NewDialect; the
// classification sets are immutable after Build.
type Dialect struct {
	Name        string
	Identifiers core.IdentifierConfig

	// DefaultCatalog and DefaultSchema anchor bare-name resolution.
	DefaultCatalog string
	DefaultSchema  string
	Placeholder    core.PlaceholderStyle

	// Classification sets, keyed by folded name.
	aggregates     map[string]struct{}
	generators     map[string]struct{}
	windows        map[string]struct{}
	tableFunctions map[string]struct{}

	reservedWords map[string]struct{}
	dataTypes     []string
}

// Config flattens the dialect back into its pure-data form.
func (d *Dialect) Config() *core.DialectConfig {
	return &core.DialectConfig{
		Name:           d.Name,
		Identifiers:    d.Identifiers,
		DefaultCatalog: d.DefaultCatalog,
		DefaultSchema:  d.DefaultSchema,
		Placeholder:    d.Placeholder,
		Aggregates:     setToSlice(d.aggregates),
		Generators:     setToSlice(d.generators),
		Windows:        setToSlice(d.windows),
		TableFunctions: setToSlice(d.tableFunctions),
		DataTypes:      d.dataTypes,
	}
}

func setToSlice(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}

// NormalizeName folds an unquoted identifier per the dialect's strategy.
// Quoted identifiers never pass through here.
func (d *Dialect) NormalizeName(name string) string {
	switch d.Identifiers.Normalization {
	case core.NormUppercase:
		return strings.ToUpper(name)
	case core.NormLowercase, core.NormCaseInsensitive:
		return strings.ToLower(name)
	default:
		return name
	}
}

// FunctionLineageType classifies how a function call shapes lineage.
// Table functions win over the other sets; anything unknown is a
// passthrough scalar.
func (d *Dialect) FunctionLineageType(name string) core.LineageType {
	folded := d.NormalizeName(name)
	if _, ok := d.tableFunctions[folded]; ok {
		return core.LineageTable
	}
	if _, ok := d.aggregates[folded]; ok {
		return core.LineageAggregate
	}
	if _, ok := d.generators[folded]; ok {
		return core.LineageGenerator
	}
	if _, ok := d.windows[folded]; ok {
		return core.LineageWindow
	}
	return core.LineagePassthrough
}

// IsAggregate reports whether name is an aggregate function.
func (d *Dialect) IsAggregate(name string) bool {
	return d.FunctionLineageType(name) == core.LineageAggregate
}

// IsGenerator reports whether name produces values with no upstream
// columns.
func (d *Dialect) IsGenerator(name string) bool {
	return d.FunctionLineageType(name) == core.LineageGenerator
}

// IsWindow reports whether name is window-only.
func (d *Dialect) IsWindow(name string) bool {
	return d.FunctionLineageType(name) == core.LineageWindow
}

// IsTableFunction reports whether name is a row source.
func (d *Dialect) IsTableFunction(name string) bool {
	return d.FunctionLineageType(name) == core.LineageTable
}

// IsReservedWord reports whether word must be quoted to serve as an
// identifier in this dialect.
func (d *Dialect) IsReservedWord(word string) bool {
	_, ok := d.reservedWords[d.NormalizeName(word)]
	return ok
}

// QuoteIdentifier wraps name in the dialect's identifier quotes, escaping
// embedded closers.
func (d *Dialect) QuoteIdentifier(name string) string {
	escaped := strings.ReplaceAll(name, d.Identifiers.QuoteEnd, d.Identifiers.Escape)
	return d.Identifiers.Quote + escaped + d.Identifiers.QuoteEnd
}

// DataTypes returns the dialect's type names.
func (d *Dialect) DataTypes() []string {
	return d.dataTypes
}

// Builder assembles a Dialect.
type Builder struct {
	dialect *Dialect
	config  *core.DialectConfig
}

// NewDialect starts a builder from scratch with ANSI identifier rules.
func NewDialect(name string) *Builder {
	return &Builder{dialect: emptyDialect(name, core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormLowercase,
	})}
}

// New starts a builder from a DialectConfig. Build merges the config's
// classification lists in. This is the constructor the pkg/dialects
// packages use.
func New(cfg *core.DialectConfig) *Builder {
	d := emptyDialect(cfg.Name, cfg.Identifiers)
	d.DefaultCatalog = cfg.DefaultCatalog
	d.DefaultSchema = cfg.DefaultSchema
	d.Placeholder = cfg.Placeholder
	return &Builder{config: cfg, dialect: d}
}

func emptyDialect(name string, ids core.IdentifierConfig) *Dialect {
	return &Dialect{
		Name:           name,
		Identifiers:    ids,
		aggregates:     map[string]struct{}{},
		generators:     map[string]struct{}{},
		windows:        map[string]struct{}{},
		tableFunctions: map[string]struct{}{},
		reservedWords:  map[string]struct{}{},
	}
}

// Identifiers overrides the quoting and folding rules.
func (b *Builder) Identifiers(quote, quoteEnd, escape string, norm core.NormalizationStrategy) *Builder {
	b.dialect.Identifiers = core.IdentifierConfig{
		Quote:         quote,
		QuoteEnd:      quoteEnd,
		Escape:        escape,
		Normalization: norm,
	}
	return b
}

// Aggregates adds aggregate function names.
func (b *Builder) Aggregates(funcs ...string) *Builder {
	b.add(b.dialect.aggregates, funcs)
	return b
}

// Generators adds functions that produce values without input columns.
func (b *Builder) Generators(funcs ...string) *Builder {
	b.add(b.dialect.generators, funcs)
	return b
}

// Windows adds window-only function names.
func (b *Builder) Windows(funcs ...string) *Builder {
	b.add(b.dialect.windows, funcs)
	return b
}

// TableFunctions adds table-valued function names.
func (b *Builder) TableFunctions(funcs ...string) *Builder {
	b.add(b.dialect.tableFunctions, funcs)
	return b
}

// WithReservedWords adds words needing quotes when used as identifiers.
func (b *Builder) WithReservedWords(words ...string) *Builder {
	b.add(b.dialect.reservedWords, words)
	return b
}

// WithDataTypes adds type names.
func (b *Builder) WithDataTypes(types ...string) *Builder {
	b.dialect.dataTypes = append(b.dialect.dataTypes, types...)
	return b
}

// DefaultCatalog sets the resolution default catalog.
func (b *Builder) DefaultCatalog(catalog string) *Builder {
	b.dialect.DefaultCatalog = catalog
	return b
}

// DefaultSchema sets the resolution default schema.
func (b *Builder) DefaultSchema(schema string) *Builder {
	b.dialect.DefaultSchema = schema
	return b
}

// PlaceholderStyle sets the parameter syntax.
func (b *Builder) PlaceholderStyle(style core.PlaceholderStyle) *Builder {
	b.dialect.Placeholder = style
	return b
}

func (b *Builder) add(set map[string]struct{}, names []string) {
	for _, n := range names {
		set[b.dialect.NormalizeName(n)] = struct{}{}
	}
}

// Build finalizes the dialect, folding in the source config's lists when
// the builder came from New.
func (b *Builder) Build() *Dialect {
	cfg := b.config
	if cfg == nil {
		return b.dialect
	}
	b.add(b.dialect.aggregates, cfg.Aggregates)
	b.add(b.dialect.generators, cfg.Generators)
	b.add(b.dialect.windows, cfg.Windows)
	b.add(b.dialect.tableFunctions, cfg.TableFunctions)
	b.dialect.dataTypes = append(b.dialect.dataTypes, cfg.DataTypes...)
	return b.dialect
}
