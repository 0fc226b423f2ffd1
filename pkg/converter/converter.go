// pkg/converter/converter.go
package converter

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/David-Botos/data-quality/pkg/model"
)

// TypeConverter turns raw records handed over by the integration layer into typed datasets
type TypeConverter struct {
	logger *zap.Logger
	// Configuration options
	config TypeConverterConfig
}

// TypeConverterConfig provides configuration options for type inference
type TypeConverterConfig struct {
	// Column names recognized for the year, month and entity roles
	RoleHints model.RoleHints
	// Tokens treated as missing when they appear as text (compared case-insensitively)
	NullTokens []string
	// Whether numeric-looking strings make a column numeric
	ParseNumericStrings bool
}

// DefaultConfig returns the default configuration
func DefaultConfig() TypeConverterConfig {
	return TypeConverterConfig{
		RoleHints:           model.DefaultRoleHints(),
		NullTokens:          []string{"", "nan", "na", "n/a", "null", "none"},
		ParseNumericStrings: true,
	}
}

// NewTypeConverter creates a new TypeConverter with default configuration
func NewTypeConverter(logger *zap.Logger) *TypeConverter {
	return NewTypeConverterWithConfig(logger, DefaultConfig())
}

// NewTypeConverterWithConfig creates a TypeConverter with custom configuration
func NewTypeConverterWithConfig(logger *zap.Logger, config TypeConverterConfig) *TypeConverter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TypeConverter{
		logger: logger,
		config: config,
	}
}

// BuildDataset converts column-name keyed records into a typed dataset.
// When columns is empty the column order is taken from the first record's keys, sorted.
// Every record must carry exactly the same column set.
func (c *TypeConverter) BuildDataset(
	name string,
	columns []string,
	records []map[string]interface{},
) (*model.Dataset, error) {
	if len(columns) == 0 {
		if len(records) == 0 {
			return nil, model.NewFormatError(name, "no columns and no records")
		}
		for col := range records[0] {
			columns = append(columns, col)
		}
		sort.Strings(columns)
	}

	rows := make([][]interface{}, len(records))
	for i, rec := range records {
		if len(rec) != len(columns) {
			return nil, &model.FormatError{
				Dataset: name,
				Row:     i,
				Reason:  fmt.Sprintf("record has %d fields, expected %d", len(rec), len(columns)),
			}
		}
		row := make([]interface{}, len(columns))
		for j, col := range columns {
			val, ok := rec[col]
			if !ok {
				return nil, &model.FormatError{
					Dataset: name,
					Row:     i,
					Reason:  fmt.Sprintf("record is missing column %q", col),
				}
			}
			row[j] = val
		}
		rows[i] = row
	}

	return c.BuildDatasetFromRows(name, columns, rows)
}

// BuildDatasetFromRows converts positional rows into a typed dataset
func (c *TypeConverter) BuildDatasetFromRows(
	name string,
	columns []string,
	rows [][]interface{},
) (*model.Dataset, error) {
	return c.BuildDatasetWithHints(name, columns, rows, nil)
}

// BuildDatasetWithHints converts positional rows using source column types as hints.
// A hint only narrows an inferred numeric column to integer; content always wins.
func (c *TypeConverter) BuildDatasetWithHints(
	name string,
	columns []string,
	rows [][]interface{},
	hints map[string]model.ColumnKind,
) (*model.Dataset, error) {
	if len(columns) == 0 {
		return nil, model.NewFormatError(name, "dataset has no columns")
	}

	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, &model.FormatError{
				Dataset: name,
				Row:     i,
				Reason:  fmt.Sprintf("row has %d cells, expected %d", len(row), len(columns)),
			}
		}
	}

	schemaCols := make([]model.Column, len(columns))
	typed := make([][]model.Value, len(rows))
	for i := range typed {
		typed[i] = make([]model.Value, len(columns))
	}

	for j, colName := range columns {
		kind := c.inferKind(rows, j)
		if kind == model.KindNumeric && hints[colName] == model.KindInteger {
			kind = model.KindInteger
		}
		schemaCols[j] = model.Column{Name: colName, Kind: kind}
		for i, row := range rows {
			typed[i][j] = c.ConvertValue(row[j], kind)
		}
		c.logger.Debug("Inferred column type",
			zap.String("dataset", name),
			zap.String("column", colName),
			zap.String("kind", kind.String()))
	}

	schema := model.Schema{
		Columns: schemaCols,
		Roles:   model.DetectRoles(schemaCols, c.config.RoleHints),
	}

	ds, err := model.NewDataset(name, schema, typed)
	if err != nil {
		return nil, err
	}

	c.logger.Info("Built dataset",
		zap.String("dataset", name),
		zap.Int("rows", ds.RowCount()),
		zap.Int("columns", ds.ColumnCount()),
		zap.String("year_column", schema.Roles.YearColumn),
		zap.String("month_column", schema.Roles.MonthColumn),
		zap.String("entity_column", schema.Roles.EntityColumn))

	return ds, nil
}

// inferKind decides the column kind from its content. A column is numeric when it has
// at least one present value and every present value converts to a number.
func (c *TypeConverter) inferKind(rows [][]interface{}, col int) model.ColumnKind {
	present := 0
	for _, row := range rows {
		raw := row[col]
		if c.isNull(raw) {
			continue
		}
		present++
		if _, ok := c.toNumber(raw); !ok {
			return model.KindText
		}
	}
	if present == 0 {
		return model.KindText
	}
	return model.KindNumeric
}
