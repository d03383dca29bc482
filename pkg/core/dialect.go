package core

// DialectConfig is the static description of a SQL dialect: identifier
// rules, resolution defaults, and function classification data. Runtime
// behavior (folding, quoting, classification lookups) lives in
// pkg/dialect.Dialect, which wraps one of these.
type DialectConfig struct {
	Name string

	// Identifiers carries the quoting and case-folding rules.
	Identifiers IdentifierConfig

	// DefaultCatalog and DefaultSchema anchor bare-name resolution.
	// Both empty means the dialect resolves bare names as-is.
	DefaultCatalog string
	DefaultSchema  string

	Placeholder PlaceholderStyle

	// Function name sets, stored folded. Anything not listed is treated
	// as a passthrough scalar function.
	Aggregates     []string
	Generators     []string
	Windows        []string
	TableFunctions []string

	DataTypes []string
}

// NormalizationStrategy is what a dialect does to unquoted identifiers.
type NormalizationStrategy int

const (
	// NormLowercase folds unquoted identifiers to lowercase, the common
	// SQL behavior.
	NormLowercase NormalizationStrategy = iota
	// NormUppercase folds to uppercase (Snowflake).
	NormUppercase
	// NormCaseSensitive stores identifiers exactly as written.
	NormCaseSensitive
	// NormCaseInsensitive preserves case but compares case-blind, so
	// canonical names fold to lowercase (DuckDB, SQL Server).
	NormCaseInsensitive
)

// PlaceholderStyle is the dialect's query parameter syntax.
type PlaceholderStyle int

const (
	// PlaceholderQuestion is ?.
	PlaceholderQuestion PlaceholderStyle = iota
	// PlaceholderDollar is $1, $2, ...
	PlaceholderDollar
)

// IdentifierConfig describes how a dialect quotes identifiers.
type IdentifierConfig struct {
	// Quote and QuoteEnd delimit a quoted identifier. They differ only
	// for bracket quoting ([name]).
	Quote    string
	QuoteEnd string
	// Escape is the sequence standing for a literal closing quote inside
	// a quoted identifier ("" or ]] or ``).
	Escape string
	// Normalization is the folding applied to unquoted identifiers.
	Normalization NormalizationStrategy
}

// LineageType classifies how a function shapes column lineage.
type LineageType int

const (
	// LineagePassthrough: inputs flow to the output unchanged in kind.
	LineagePassthrough LineageType = iota
	// LineageAggregate: many rows collapse into one value.
	LineageAggregate
	// LineageGenerator: the value has no upstream columns.
	LineageGenerator
	// LineageWindow: computed over a window, needs OVER.
	LineageWindow
	// LineageTable: the function is a row source in FROM.
	LineageTable
)

func (t LineageType) String() string {
	switch t {
	case LineagePassthrough:
		return "passthrough"
	case LineageAggregate:
		return "aggregate"
	case LineageGenerator:
		return "generator"
	case LineageWindow:
		return "window"
	case LineageTable:
		return "table"
	default:
		return "unknown"
	}
}
