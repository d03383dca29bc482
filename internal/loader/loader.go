// Package loader reads YAML schema documents into imported table metadata.
package loader

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/sqlweave-labs/sqlweave/pkg/core"
	"gopkg.in/yaml.v3"
)

// schemaDocYAML is the on-disk shape of one schema document.
type schemaDocYAML struct {
	// DefaultCatalog and DefaultSchema fill in table entries that omit the
	// corresponding part. They scope this file only.
	DefaultCatalog string      `yaml:"default_catalog,omitempty"`
	DefaultSchema  string      `yaml:"default_schema,omitempty"`
	Tables         []tableYAML `yaml:"tables"`
}

type tableYAML struct {
	Catalog string       `yaml:"catalog,omitempty"`
	Schema  string       `yaml:"schema,omitempty"`
	Name    string       `yaml:"name"`
	Columns []columnYAML `yaml:"columns,omitempty"`
}

type columnYAML struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type,omitempty"`
	PrimaryKey bool   `yaml:"primary_key,omitempty"`
	// References is the dotted name of the foreign-key target table.
	References string `yaml:"references,omitempty"`
}

// SchemaFileError reports a problem with one schema document.
type SchemaFileError struct {
	File    string
	Message string
}

func (e *SchemaFileError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
	return e.Message
}

// ParseSchema decodes one schema document. Unknown fields are rejected so
// typos surface instead of silently dropping tables. The filename is used
// for error reporting only.
func ParseSchema(r io.Reader, filename string) ([]core.SchemaTable, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc schemaDocYAML
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, &SchemaFileError{File: filename, Message: fmt.Sprintf("invalid YAML: %v", err)}
	}

	tables := make([]core.SchemaTable, 0, len(doc.Tables))
	for i, t := range doc.Tables {
		if t.Name == "" {
			return nil, &SchemaFileError{File: filename, Message: fmt.Sprintf("table %d: missing name", i)}
		}
		tbl := core.SchemaTable{
			Catalog: t.Catalog,
			Schema:  t.Schema,
			Name:    t.Name,
		}
		if tbl.Catalog == "" {
			tbl.Catalog = doc.DefaultCatalog
		}
		if tbl.Schema == "" {
			tbl.Schema = doc.DefaultSchema
		}
		for j, c := range t.Columns {
			if c.Name == "" {
				return nil, &SchemaFileError{File: filename, Message: fmt.Sprintf("table %q: column %d: missing name", t.Name, j)}
			}
			tbl.Columns = append(tbl.Columns, core.SchemaColumn{
				Name:       c.Name,
				Type:       c.Type,
				PrimaryKey: c.PrimaryKey,
				References: c.References,
			})
		}
		tables = append(tables, tbl)
	}
	return tables, nil
}

// LoadSchemaFile reads and parses one schema document from disk.
func LoadSchemaFile(path string) ([]core.SchemaTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	return ParseSchema(bytes.NewReader(data), path)
}

// LoadSchemaFiles loads and merges multiple schema documents. Files merge
// in argument order; when two files declare the same canonical table name,
// the later file wins.
func LoadSchemaFiles(paths ...string) ([]core.SchemaTable, error) {
	var merged []core.SchemaTable
	index := make(map[string]int)
	for _, path := range paths {
		tables, err := LoadSchemaFile(path)
		if err != nil {
			return nil, err
		}
		for _, tbl := range tables {
			canonical := tbl.Canonical()
			if at, ok := index[canonical]; ok {
				merged[at] = tbl
				continue
			}
			index[canonical] = len(merged)
			merged = append(merged, tbl)
		}
	}
	return merged, nil
}

// WriteSchemaDoc renders tables back into document form, used by schema
// import to persist catalogs introspected from a live database.
func WriteSchemaDoc(w io.Writer, tables []core.SchemaTable) error {
	doc := schemaDocYAML{Tables: make([]tableYAML, 0, len(tables))}
	for _, t := range tables {
		out := tableYAML{
			Catalog: t.Catalog,
			Schema:  t.Schema,
			Name:    t.Name,
			Columns: make([]columnYAML, 0, len(t.Columns)),
		}
		for _, c := range t.Columns {
			out.Columns = append(out.Columns, columnYAML{
				Name:       c.Name,
				Type:       c.Type,
				PrimaryKey: c.PrimaryKey,
				References: c.References,
			})
		}
		doc.Tables = append(doc.Tables, out)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("failed to encode schema document: %w", err)
	}
	return enc.Close()
}
