package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/sqlweave-labs/sqlweave/internal/cli/output"
	"github.com/sqlweave-labs/sqlweave/internal/engine"
	"github.com/sqlweave-labs/sqlweave/internal/lineage"
	"github.com/sqlweave-labs/sqlweave/internal/loader"
	"github.com/sqlweave-labs/sqlweave/pkg/adapter"
	"github.com/sqlweave-labs/sqlweave/pkg/core"
	"github.com/sqlweave-labs/sqlweave/pkg/dialect"

	// Register the importable database adapters.
	_ "github.com/sqlweave-labs/sqlweave/pkg/adapters/duckdb"
	_ "github.com/sqlweave-labs/sqlweave/pkg/adapters/postgres"
	_ "github.com/sqlweave-labs/sqlweave/pkg/adapters/sqlite"
)

// NewSchemaCommand creates the schema command with subcommands.
func NewSchemaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Inspect and import table schemas",
		Long: `Work with the schema metadata that analysis resolves against: list what
is known, show one table's columns, or import schemas from a live
database into a YAML document.`,
	}

	cmd.AddCommand(newSchemaListCommand())
	cmd.AddCommand(newSchemaShowCommand())
	cmd.AddCommand(newSchemaImportCommand())

	return cmd
}

func newSchemaListCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list [files...]",
		Short: "List known tables and views",
		Long: `List every table and view the engine knows about: entries imported from
configured schema files plus, when SQL files are given, entries implied
by their DDL.`,
		Example: `  # Tables from configured schema files
  sqlweave schema list

  # Include tables a script creates
  sqlweave schema list etl.sql`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchemaList(cmd, args, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format (text or json, overrides configured output)")

	return cmd
}

func runSchemaList(cmd *cobra.Command, args []string, format string) error {
	cc := NewCommandContextWithoutEngine(cmd)
	r := cc.rendererFor(cmd, format)

	eng, err := loadRegistry(cmd.Context(), cc, args)
	if err != nil {
		return err
	}

	entries := eng.Registry().Entries()
	if r.JSON() {
		return r.Encode(entries)
	}

	if len(entries) == 0 {
		r.Println("No tables known. Configure schema_files or pass SQL files with DDL.")
		return nil
	}

	renderEntryList(r, entries)
	return nil
}

func newSchemaShowCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <relation> [files...]",
		Short: "Show the columns of one table or view",
		Example: `  # A table from configured schema files
  sqlweave schema show public.users

  # A table a script creates
  sqlweave schema show daily_revenue etl.sql`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchemaShow(cmd, args, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format (text or json, overrides configured output)")

	return cmd
}

func runSchemaShow(cmd *cobra.Command, args []string, format string) error {
	cc := NewCommandContextWithoutEngine(cmd)
	r := cc.rendererFor(cmd, format)

	eng, err := loadRegistry(cmd.Context(), cc, args[1:])
	if err != nil {
		return err
	}

	entry, err := findEntry(eng, args[0])
	if err != nil {
		return err
	}

	if r.JSON() {
		return r.Encode(entry)
	}

	renderEntryDetail(r, entry)
	return nil
}

func renderEntryList(r *output.Renderer, entries []*core.SchemaTableEntry) {
	rows := make([]table.Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, table.Row{e.Table.Canonical(), entryKind(e), len(e.Table.Columns), string(e.Origin)})
	}
	r.Table(table.Row{"Name", "Kind", "Columns", "Origin"}, rows)
}

func renderEntryDetail(r *output.Renderer, entry *core.SchemaTableEntry) {
	r.Printf("%s (%s, %s)\n", entry.Table.Canonical(), entryKind(entry), entry.Origin)
	if len(entry.Table.Columns) == 0 {
		r.Println("  (no column information)")
		return
	}

	rows := make([]table.Row, 0, len(entry.Table.Columns))
	for _, c := range entry.Table.Columns {
		pk := ""
		if c.PrimaryKey {
			pk = "yes"
		}
		rows = append(rows, table.Row{c.Name, c.Type, pk, c.References})
	}
	r.Table(table.Row{"Column", "Type", "Primary Key", "References"}, rows)
}

func newSchemaImportCommand() *cobra.Command {
	var (
		adapterType string
		dsn         string
		dbSchema    string
		outPath     string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import table schemas from a live database",
		Long: `Import introspects a database and writes its tables as a YAML schema
document. Point schema_files at the document (or pass --schema) and
analysis resolves references against the imported tables.`,
		Example: `  # PostgreSQL public schema to a file
  sqlweave schema import --type postgres --dsn postgres://localhost/app --out schema.yaml

  # A DuckDB database file, document on stdout
  sqlweave schema import --type duckdb --dsn warehouse.duckdb

  # A SQLite database
  sqlweave schema import --type sqlite --dsn app.db --out schema.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSchemaImport(cmd, adapterType, dsn, dbSchema, outPath)
		},
	}

	cmd.Flags().StringVar(&adapterType, "type", "", fmt.Sprintf("Database type (%s)", strings.Join(adapter.ListAdapters(), ", ")))
	cmd.Flags().StringVar(&dsn, "dsn", "", "Driver connection string")
	cmd.Flags().StringVar(&dbSchema, "db-schema", "", "Database schema to introspect (adapter default when empty)")
	cmd.Flags().StringVar(&outPath, "out", "", "Write the document to a file instead of stdout")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func runSchemaImport(cmd *cobra.Command, adapterType, dsn, dbSchema, outPath string) error {
	cc := NewCommandContextWithoutEngine(cmd)
	ctx := cmd.Context()

	acfg := adapter.Config{Type: adapterType, DSN: dsn}
	ad, err := adapter.NewAdapter(acfg, cc.Logger)
	if err != nil {
		return err
	}
	if err := ad.Connect(ctx, acfg); err != nil {
		return fmt.Errorf("failed to connect to %s: %w", adapterType, err)
	}
	defer ad.Close()

	names, err := ad.ListTables(ctx, dbSchema)
	if err != nil {
		return fmt.Errorf("failed to list tables: %w", err)
	}
	if len(names) == 0 {
		return errors.New("no tables found to import")
	}

	// Name the schema level explicitly in the document even when the
	// adapter filled in its default, so the YAML stands on its own.
	docSchema := dbSchema
	if docSchema == "" {
		if d, ok := dialect.Get(ad.Dialect()); ok {
			docSchema = d.DefaultSchema
		}
	}

	tables := make([]core.SchemaTable, 0, len(names))
	for _, name := range names {
		cols, err := ad.TableColumns(ctx, dbSchema, name)
		if err != nil {
			return fmt.Errorf("failed to introspect %s: %w", name, err)
		}
		t := core.SchemaTable{Schema: docSchema, Name: name, Columns: make([]core.SchemaColumn, 0, len(cols))}
		for _, c := range cols {
			t.Columns = append(t.Columns, core.SchemaColumn{Name: c.Name, Type: c.Type})
		}
		tables = append(tables, t)
	}

	cc.Logger.Debug("introspected database", "type", adapterType, "tables", len(tables))

	if outPath == "" {
		return loader.WriteSchemaDoc(cmd.OutOrStdout(), tables)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outPath, err)
	}
	if err := loader.WriteSchemaDoc(f, tables); err != nil {
		f.Close()
		return fmt.Errorf("failed to write schema document: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}

	cc.Renderer.Printf("Imported %d tables to %s\n", len(tables), outPath)
	return nil
}

// loadRegistry builds an engine from the current config and, when SQL
// files are given, analyzes them so DDL-implied tables land in the
// registry alongside the imported ones.
func loadRegistry(ctx context.Context, cc *CommandContext, files []string) (*engine.Engine, error) {
	eng, err := cc.NewEngine()
	if err != nil {
		return nil, err
	}
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		if _, err := eng.AnalyzeScript(ctx, string(data), file); err != nil {
			return nil, err
		}
	}
	return eng, nil
}

// findEntry resolves a user-supplied name against the registry, by exact
// canonical match first and unique suffix match second.
func findEntry(eng *engine.Engine, raw string) (*core.SchemaTableEntry, error) {
	name := lineage.NormalizeQualified(raw, eng.Dialect(), eng.Metadata().CaseOverride)
	if name == "" {
		return nil, fmt.Errorf("invalid relation name %q", raw)
	}
	if e, ok := eng.Registry().Get(name); ok {
		return e, nil
	}

	var matches []*core.SchemaTableEntry
	for _, e := range eng.Registry().Entries() {
		canonical := e.Table.Canonical()
		if strings.HasSuffix(canonical, "."+name) || e.Table.Name == name {
			matches = append(matches, e)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return nil, fmt.Errorf("table %q not found", raw)
	default:
		names := make([]string, len(matches))
		for i, e := range matches {
			names[i] = e.Table.Canonical()
		}
		return nil, fmt.Errorf("table %q is ambiguous: %s", raw, strings.Join(names, ", "))
	}
}

func entryKind(e *core.SchemaTableEntry) string {
	switch {
	case e.View:
		return "view"
	case e.Temporary:
		return "temp table"
	default:
		return "table"
	}
}
