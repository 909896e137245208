// Package frame provides a small in-memory, schema-bearing tabular dataset
// used as the unit of exchange for warehouse writes and reads.
package frame

import (
	"fmt"
)

// Type identifies a column's logical type. Mapping to concrete SQL types is
// the warehouse dialect's job.
type Type string

const (
	Text      Type = "text"
	Bigint    Type = "bigint"
	Double    Type = "double"
	Boolean   Type = "boolean"
	Timestamp Type = "timestamp"
)

// Field describes a single column.
type Field struct {
	Name string
	Type Type
}

// Schema is an ordered list of columns.
type Schema []Field

// Names returns the column names in schema order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	return names
}

// Frame holds rows conforming to a fixed schema. Values are stored as-is;
// type fidelity is delegated to the SQL driver at write time.
type Frame struct {
	schema Schema
	rows   [][]any
}

// New creates an empty frame with the given schema.
func New(schema Schema) (*Frame, error) {
	if len(schema) == 0 {
		return nil, fmt.Errorf("frame schema must have at least one column")
	}
	seen := make(map[string]bool, len(schema))
	for _, f := range schema {
		if f.Name == "" {
			return nil, fmt.Errorf("frame column name must not be empty")
		}
		if seen[f.Name] {
			return nil, fmt.Errorf("duplicate frame column %q", f.Name)
		}
		seen[f.Name] = true
	}
	return &Frame{schema: schema}, nil
}

// Append adds one row. The number of values must match the schema arity.
func (f *Frame) Append(vals ...any) error {
	if len(vals) != len(f.schema) {
		return fmt.Errorf("row has %d values, schema has %d columns", len(vals), len(f.schema))
	}
	row := make([]any, len(vals))
	copy(row, vals)
	f.rows = append(f.rows, row)
	return nil
}

// Schema returns the frame's schema.
func (f *Frame) Schema() Schema {
	return f.schema
}

// NumRows returns the number of rows held.
func (f *Frame) NumRows() int {
	return len(f.rows)
}

// Row returns the i-th row.
func (f *Frame) Row(i int) []any {
	return f.rows[i]
}

// Records returns the rows as column-name keyed maps, useful for JSON output.
func (f *Frame) Records() []map[string]any {
	out := make([]map[string]any, len(f.rows))
	for i, row := range f.rows {
		rec := make(map[string]any, len(f.schema))
		for j, field := range f.schema {
			rec[field.Name] = row[j]
		}
		out[i] = rec
	}
	return out
}
