// Package main regenerates pkg/dialects/duckdb/metadata.go from a live
// DuckDB instance. DuckDB exposes its catalog through duckdb_functions()
// and duckdb_types(); running this after a driver upgrade keeps the static
// lists in step with the engine.
//
// Usage:
//
//	go run ./scripts/gendialect -out=pkg/dialects/duckdb/metadata.go
package main

import (
	"bytes"
	"context"
	"database/sql"
	"flag"
	"fmt"
	"go/format"
	"log"
	"os"
	"sort"

	_ "github.com/marcboeker/go-duckdb"
)

var outFlag = flag.String("out", "pkg/dialects/duckdb/metadata.go", "output file path")

// Window and generator functions are not classified by duckdb_functions()
// (they surface as plain scalars or not at all), so these lists are curated
// here and carried into the generated file unchanged.
var windowFunctions = []string{
	"cume_dist", "dense_rank", "first_value", "lag", "last_value",
	"lead", "nth_value", "ntile", "percent_rank", "rank", "row_number",
}

var generatorFunctions = []string{
	"current_catalog", "current_database", "current_date", "current_schema",
	"current_time", "current_timestamp", "e", "gen_random_uuid",
	"localtime", "localtimestamp", "now", "pi", "random", "today",
	"uuid", "version",
}

func main() {
	flag.Parse()

	db, err := sql.Open("duckdb", "")
	if err != nil {
		log.Fatalf("failed to open duckdb: %v", err)
	}

	ctx := context.Background()

	var version string
	if err := db.QueryRowContext(ctx, "SELECT version()").Scan(&version); err != nil {
		_ = db.Close()
		log.Fatalf("failed to get version: %v", err)
	}
	log.Printf("Connected to DuckDB %s", version)

	aggregates, err := queryNames(ctx, db, `
		SELECT DISTINCT lower(function_name)
		FROM duckdb_functions()
		WHERE function_type = 'aggregate'
		  AND (schema_name = 'main' OR schema_name IS NULL)
		ORDER BY 1`)
	if err != nil {
		_ = db.Close()
		log.Fatalf("failed to extract aggregates: %v", err)
	}
	log.Printf("Extracted %d aggregate functions", len(aggregates))

	tableFuncs, err := queryNames(ctx, db, `
		SELECT DISTINCT lower(function_name)
		FROM duckdb_functions()
		WHERE function_type = 'table'
		  AND (schema_name = 'main' OR schema_name IS NULL)
		ORDER BY 1`)
	if err != nil {
		_ = db.Close()
		log.Fatalf("failed to extract table functions: %v", err)
	}
	log.Printf("Extracted %d table functions", len(tableFuncs))

	dataTypes, err := queryNames(ctx, db, `
		SELECT DISTINCT type_name
		FROM duckdb_types()
		WHERE type_category NOT IN ('INVALID')
		ORDER BY 1`)
	if err != nil {
		_ = db.Close()
		log.Fatalf("failed to extract data types: %v", err)
	}
	log.Printf("Extracted %d data types", len(dataTypes))

	if err := db.Close(); err != nil {
		log.Printf("warning: failed to close db: %v", err)
	}

	code := generateCode(version, aggregates, tableFuncs, dataTypes)

	formatted, err := format.Source([]byte(code))
	if err != nil {
		log.Printf("Warning: failed to format generated code: %v", err)
		formatted = []byte(code)
	}

	if err := os.WriteFile(*outFlag, formatted, 0o600); err != nil {
		log.Fatalf("failed to write output: %v", err)
	}

	log.Printf("Generated %s", *outFlag)
}

func queryNames(ctx context.Context, db *sql.DB, query string) ([]string, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func generateCode(version string, aggregates, tableFuncs, dataTypes []string) string {
	var buf bytes.Buffer

	buf.WriteString("// Code generated by scripts/gendialect. DO NOT EDIT.\n")
	fmt.Fprintf(&buf, "// Source: DuckDB %s\n", version)
	buf.WriteString("\n")
	buf.WriteString("package duckdb\n\n")

	writeVar(&buf, "duckDBAggregates", "contains aggregate function names.", aggregates)
	writeVar(&buf, "duckDBGenerators",
		"contains functions that generate values with no\n// upstream columns.", generatorFunctions)
	writeVar(&buf, "duckDBWindows", "contains window function names.", windowFunctions)
	writeVar(&buf, "duckDBTableFunctions", "contains table-valued function names.", tableFuncs)
	writeVar(&buf, "duckDBTypes", "contains DuckDB data type names.", dataTypes)

	return buf.String()
}

func writeVar(buf *bytes.Buffer, name, doc string, items []string) {
	sorted := make([]string, len(items))
	copy(sorted, items)
	sort.Strings(sorted)

	fmt.Fprintf(buf, "// %s %s\n", name, doc)
	fmt.Fprintf(buf, "var %s = []string{\n", name)
	for _, item := range sorted {
		fmt.Fprintf(buf, "\t%q,\n", item)
	}
	buf.WriteString("}\n\n")
}
