// pkg/converter/mapping.go
package converter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/David-Botos/data-quality/pkg/model"
)

// Patterns for type extraction
var precisionScalePattern = regexp.MustCompile(`NUMBER\((\d+)(?:,\s*(\d+))?\)`)

// getBaseType extracts the base type from a complex type definition
func getBaseType(fullType string) string {
	parts := strings.Split(fullType, "(")
	return strings.ToUpper(strings.TrimSpace(parts[0]))
}

// KindFromWarehouseType maps a Snowflake column type to a column kind.
// The second result is false when the type carries no usable hint.
func KindFromWarehouseType(fullType string) (model.ColumnKind, bool) {
	switch getBaseType(fullType) {
	case "NUMBER", "DECIMAL", "NUMERIC":
		if scale, ok := numberScale(strings.ToUpper(fullType)); ok && scale == 0 {
			return model.KindInteger, true
		}
		return model.KindNumeric, true
	case "INT", "INTEGER", "BIGINT", "SMALLINT", "TINYINT", "BYTEINT":
		return model.KindInteger, true
	case "FLOAT", "FLOAT4", "FLOAT8", "DOUBLE", "DOUBLE PRECISION", "REAL", "FIXED":
		return model.KindNumeric, true
	case "VARCHAR", "CHAR", "CHARACTER", "STRING", "TEXT":
		return model.KindText, true
	}
	return model.KindText, false
}

// numberScale extracts the scale of a NUMBER(p,s) type; a missing scale means 0
func numberScale(fullType string) (int, bool) {
	matches := precisionScalePattern.FindStringSubmatch(fullType)
	if len(matches) < 2 {
		return 0, false
	}
	if len(matches) < 3 || matches[2] == "" {
		return 0, true
	}
	scale, err := strconv.Atoi(matches[2])
	if err != nil {
		return 0, false
	}
	return scale, true
}

// PostgresType returns the Postgres column type for a column kind
func PostgresType(kind model.ColumnKind) string {
	switch kind {
	case model.KindInteger:
		return "BIGINT"
	case model.KindNumeric:
		return "DOUBLE PRECISION"
	default:
		return "TEXT"
	}
}

// ColumnDefinitions renders quoted Postgres column definitions for a schema
func ColumnDefinitions(schema model.Schema) []string {
	defs := make([]string, len(schema.Columns))
	for i, col := range schema.Columns {
		defs[i] = fmt.Sprintf("%s %s", pq.QuoteIdentifier(col.Name), PostgresType(col.Kind))
	}
	return defs
}
