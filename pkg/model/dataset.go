// pkg/model/dataset.go
package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Dataset is an ordered sequence of rows over a fixed schema.
// Row cells are positional and aligned with Schema.Columns.
type Dataset struct {
	Name   string
	Schema Schema
	Rows   [][]Value
}

// NewDataset creates a dataset and validates its shape
func NewDataset(name string, schema Schema, rows [][]Value) (*Dataset, error) {
	ds := &Dataset{Name: name, Schema: schema, Rows: rows}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

// Validate checks that the dataset is rectangular and type-consistent
func (d *Dataset) Validate() error {
	if d == nil {
		return NewFormatError("", "dataset is nil")
	}
	if len(d.Schema.Columns) == 0 {
		return NewFormatError(d.Name, "dataset has no columns")
	}

	seen := make(map[string]bool, len(d.Schema.Columns))
	for _, col := range d.Schema.Columns {
		if col.Name == "" {
			return NewFormatError(d.Name, "column with empty name")
		}
		if seen[col.Name] {
			return NewFormatError(d.Name, fmt.Sprintf("duplicate column %q", col.Name))
		}
		seen[col.Name] = true
	}

	for _, role := range []string{d.Schema.Roles.YearColumn, d.Schema.Roles.MonthColumn, d.Schema.Roles.EntityColumn} {
		if role != "" && !seen[role] {
			return NewFormatError(d.Name, fmt.Sprintf("role references unknown column %q", role))
		}
	}

	width := len(d.Schema.Columns)
	for i, row := range d.Rows {
		if len(row) != width {
			return &FormatError{
				Dataset: d.Name,
				Row:     i,
				Reason:  fmt.Sprintf("row has %d cells, expected %d", len(row), width),
			}
		}
		for j, cell := range row {
			if d.Schema.Columns[j].Kind.IsNumeric() && cell.Kind() == ValueText {
				return &FormatError{
					Dataset: d.Name,
					Row:     i,
					Reason:  fmt.Sprintf("text value in numeric column %q", d.Schema.Columns[j].Name),
				}
			}
		}
	}
	return nil
}

// RowCount returns the number of rows
func (d *Dataset) RowCount() int { return len(d.Rows) }

// ColumnCount returns the number of columns
func (d *Dataset) ColumnCount() int { return len(d.Schema.Columns) }

// Cell returns the value at a row for a named column
func (d *Dataset) Cell(row int, column string) (Value, bool) {
	idx := d.Schema.Index(column)
	if idx < 0 || row < 0 || row >= len(d.Rows) {
		return Value{}, false
	}
	return d.Rows[row][idx], true
}

// ColumnValues returns the present numeric values of a column in row order
func (d *Dataset) ColumnValues(column string) []float64 {
	idx := d.Schema.Index(column)
	if idx < 0 {
		return nil
	}
	values := make([]float64, 0, len(d.Rows))
	for _, row := range d.Rows {
		if f, ok := row[idx].Float(); ok {
			values = append(values, f)
		}
	}
	return values
}

// MissingCount returns the number of missing cells in a column
func (d *Dataset) MissingCount(column string) int {
	idx := d.Schema.Index(column)
	if idx < 0 {
		return 0
	}
	count := 0
	for _, row := range d.Rows {
		if row[idx].IsMissing() {
			count++
		}
	}
	return count
}

// RowKey renders a row so that identical rows produce identical keys
func RowKey(row []Value) string {
	var sb strings.Builder
	for i, cell := range row {
		if i > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(cell.key())
	}
	return sb.String()
}

// Clone returns a deep copy of the dataset
func (d *Dataset) Clone() *Dataset {
	rows := make([][]Value, len(d.Rows))
	for i, row := range d.Rows {
		rows[i] = append([]Value(nil), row...)
	}
	return &Dataset{Name: d.Name, Schema: d.Schema.Clone(), Rows: rows}
}

// WithRows returns a dataset sharing the schema copy but holding the given rows
func (d *Dataset) WithRows(rows [][]Value) *Dataset {
	return &Dataset{Name: d.Name, Schema: d.Schema.Clone(), Rows: rows}
}

// Records converts rows into column-name keyed maps
func (d *Dataset) Records() []map[string]interface{} {
	records := make([]map[string]interface{}, len(d.Rows))
	for i, row := range d.Rows {
		rec := make(map[string]interface{}, len(row))
		for j, cell := range row {
			rec[d.Schema.Columns[j].Name] = cell.Interface()
		}
		records[i] = rec
	}
	return records
}

// MarshalJSON encodes the dataset with its schema and row records
func (d *Dataset) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name    string                   `json:"name"`
		Schema  Schema                   `json:"schema"`
		Records []map[string]interface{} `json:"records"`
	}{
		Name:    d.Name,
		Schema:  d.Schema,
		Records: d.Records(),
	})
}
