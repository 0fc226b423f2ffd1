// pkg/model/metadata.go
package model

import "strings"

// ColumnKind is the nominal type of a column, consistent across all rows
type ColumnKind int

const (
	KindText ColumnKind = iota
	KindNumeric
	KindInteger
)

// String returns the kind name
func (k ColumnKind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindInteger:
		return "integer"
	default:
		return "text"
	}
}

// MarshalText encodes the kind by name
func (k ColumnKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// IsNumeric reports whether the kind holds numbers
func (k ColumnKind) IsNumeric() bool {
	return k == KindNumeric || k == KindInteger
}

// Column describes one dataset column
type Column struct {
	Name string     `json:"name"`
	Kind ColumnKind `json:"kind"`
}

// Roles declares the optional capabilities a schema provides.
// An empty name means the role is absent.
type Roles struct {
	YearColumn   string `json:"year_column,omitempty"`
	MonthColumn  string `json:"month_column,omitempty"`
	EntityColumn string `json:"entity_column,omitempty"`
}

// RoleHints lists the column names that are recognized for each role
type RoleHints struct {
	Year   []string
	Month  []string
	Entity []string
}

// DefaultRoleHints matches the integrated weather and retail tables
func DefaultRoleHints() RoleHints {
	return RoleHints{
		Year:   []string{"year"},
		Month:  []string{"month"},
		Entity: []string{"city"},
	}
}

// Schema is the fixed column set of a dataset plus its declared roles
type Schema struct {
	Columns []Column `json:"columns"`
	Roles   Roles    `json:"roles"`
}

// DetectRoles assigns roles by matching column names against hints (case-insensitive).
// Year and month roles are only given to numeric columns.
func DetectRoles(columns []Column, hints RoleHints) Roles {
	var roles Roles
	for _, col := range columns {
		name := normalizeColumnName(col.Name)
		switch {
		case roles.YearColumn == "" && col.Kind.IsNumeric() && matchesAny(name, hints.Year):
			roles.YearColumn = col.Name
		case roles.MonthColumn == "" && col.Kind.IsNumeric() && matchesAny(name, hints.Month):
			roles.MonthColumn = col.Name
		case roles.EntityColumn == "" && matchesAny(name, hints.Entity):
			roles.EntityColumn = col.Name
		}
	}
	// A month without a year is not a usable time key
	if roles.YearColumn == "" {
		roles.MonthColumn = ""
	}
	return roles
}

// HasTimeKey reports whether the schema declares a year column
func (s *Schema) HasTimeKey() bool { return s.Roles.YearColumn != "" }

// HasMonth reports whether the schema declares a month column
func (s *Schema) HasMonth() bool { return s.Roles.MonthColumn != "" }

// HasEntityGroup reports whether the schema declares an entity grouping column
func (s *Schema) HasEntityGroup() bool { return s.Roles.EntityColumn != "" }

// IsTimeKey reports whether the named column is the declared year or month column
func (s *Schema) IsTimeKey(name string) bool {
	return name != "" && (name == s.Roles.YearColumn || name == s.Roles.MonthColumn)
}

// Index returns the position of a column, or -1 if absent
func (s *Schema) Index(name string) int {
	for i, col := range s.Columns {
		if col.Name == name {
			return i
		}
	}
	return -1
}

// Names returns the column names in order
func (s *Schema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, col := range s.Columns {
		names[i] = col.Name
	}
	return names
}

// NumericColumns returns the names of numeric columns in order
func (s *Schema) NumericColumns() []string {
	var names []string
	for _, col := range s.Columns {
		if col.Kind.IsNumeric() {
			names = append(names, col.Name)
		}
	}
	return names
}

// Clone returns a copy that shares nothing with s
func (s Schema) Clone() Schema {
	cols := make([]Column, len(s.Columns))
	copy(cols, s.Columns)
	return Schema{Columns: cols, Roles: s.Roles}
}

func normalizeColumnName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func matchesAny(name string, candidates []string) bool {
	for _, c := range candidates {
		if normalizeColumnName(c) == name {
			return true
		}
	}
	return false
}
