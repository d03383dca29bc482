// Package core defines the shared language of the SQLWeave system.
//
// This package contains:
//   - The SQL AST consumed by the lineage engine (Stmt, Expr, TableRef)
//   - Schema metadata types (SchemaTable, SchemaMetadata)
//   - Dialect configuration (DialectConfig, IdentifierConfig)
//   - Diagnostics (Issue, Severity)
//
// The Golden Rule: pkg/core imports ONLY pkg/token and stdlib.
// All other packages depend on core, not the reverse.
package core
