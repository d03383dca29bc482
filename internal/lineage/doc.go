// Package lineage extracts data lineage graphs from parsed SQL statements.
//
// The package works on the AST from pkg/parser and produces one
// StatementLineage per statement plus a merged GlobalLineage across a whole
// script. Nodes represent tables, views, CTEs, and columns; edges represent
// ownership, data flow, column derivation, join dependencies, and
// producer/consumer relationships between statements.
//
// This is an internal package designed for use within the SQLWeave project.
// External consumers should go through internal/engine, which wires parsing,
// schema loading, and lineage together.
//
// # Features
//
//   - Table Lineage: identifies source and target relations per statement
//   - Column Lineage: traces column-level flow through CTEs, subqueries,
//     set operations, and expressions
//   - Schema-aware: resolves references against imported metadata and the
//     schema implied by earlier DDL, with search-path qualification
//   - Deterministic: node and edge ids are derived from content, so the
//     same input always yields the same graph
//
// # Basic Usage
//
//	reg := registry.NewSchemaRegistry(true)
//	reg.RegisterImported(meta.Tables)
//	b := lineage.NewBuilder(d, meta, reg, logger)
//
//	var stmts []*lineage.StatementLineage
//	for i, parsed := range script.Statements {
//	    sl, issues := b.BuildStatement(parsed.Stmt, i, "script.sql")
//	    stmts = append(stmts, sl)
//	    _ = issues
//	}
//
//	global := lineage.BuildGlobal(stmts)
//	summary := lineage.BuildSummary(stmts, global, nil)
package lineage
