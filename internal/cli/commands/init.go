package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sqlweave-labs/sqlweave/internal/cli/output"
)

const initConfigTemplate = `# SQLWeave project configuration.
# Flags and SQLWEAVE_* environment variables override these values.

# SQL dialect used for parsing and identifier folding.
# One of: ansi, databricks, duckdb, postgres, snowflake, sqlserver.
dialect: ansi

%s
# Schemas tried in order when a table reference is unqualified.
# search_path: [public]

# Record analysis runs in the state database.
history: true
state_path: .sqlweave/state.db

# Output format: auto, text, or json.
output: auto
`

const initSchemaFilesOff = `# YAML schema documents imported before analysis.
# schema_files:
#   - schemas/tables.yaml
`

const initSchemaFilesOn = `# YAML schema documents imported before analysis.
schema_files:
  - schemas/tables.yaml
`

const initSchemaTemplate = `# Known tables for analysis. "sqlweave schema import" generates this
# format from a live database.
tables:
  - name: users
    columns:
      - name: id
        type: INT
        primary_key: true
      - name: email
        type: TEXT
`

const initExampleSQL = `-- A small pipeline to try lineage on:
--   sqlweave analyze pipeline.sql
--   sqlweave lineage active_users pipeline.sql
CREATE TABLE active_users AS
SELECT id, email
FROM users
WHERE email IS NOT NULL;
`

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var example bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a SQLWeave project",
		Long: `Initialize a SQLWeave project with a sqlweave.yaml configuration file.

With --example, a starter schema document and SQL pipeline are written
alongside it, ready for sqlweave analyze.`,
		Example: `  # Initialize in the current directory
  sqlweave init

  # Initialize a new directory with example files
  sqlweave init my-pipeline --example

  # Overwrite an existing configuration
  sqlweave init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			cc := NewCommandContextWithoutEngine(cmd)
			return runInit(cc.Renderer, dir, force, example)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")
	cmd.Flags().BoolVar(&example, "example", false, "Also write a starter schema document and SQL pipeline")

	return cmd
}

func runInit(r *output.Renderer, dir string, force, example bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, "sqlweave.yaml")
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.New("sqlweave.yaml already exists (use --force to overwrite)")
	}

	schemaBlock := initSchemaFilesOff
	if example {
		schemaBlock = initSchemaFilesOn
	}

	type initFile struct {
		path    string
		content string
	}
	files := []initFile{
		{configPath, fmt.Sprintf(initConfigTemplate, schemaBlock)},
	}
	if example {
		files = append(files,
			initFile{filepath.Join(dir, "schemas", "tables.yaml"), initSchemaTemplate},
			initFile{filepath.Join(dir, "pipeline.sql"), initExampleSQL},
		)
	}

	for _, f := range files {
		if err := os.MkdirAll(filepath.Dir(f.path), 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(f.path), err)
		}
		if err := os.WriteFile(f.path, []byte(f.content), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.path, err)
		}
		r.Printf("  created %s\n", f.path)
	}

	r.Println()
	r.Println("SQLWeave project initialized!")
	r.Println()
	r.Println("Next steps:")
	if example {
		r.Println("  sqlweave analyze " + filepath.Join(dir, "pipeline.sql"))
		r.Println("  sqlweave lineage active_users " + filepath.Join(dir, "pipeline.sql"))
		r.Println("  sqlweave repl")
	} else {
		r.Println("  1. Point schema_files at your table definitions, or run 'sqlweave schema import'")
		r.Println("  2. Run 'sqlweave analyze <files>' to build lineage")
		r.Println("  3. Run 'sqlweave repl' to explore interactively")
	}

	return nil
}
