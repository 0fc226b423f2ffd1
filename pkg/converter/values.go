// pkg/converter/values.go
package converter

import (
	"math"
	"strings"

	"github.com/spf13/cast"

	"github.com/David-Botos/data-quality/pkg/model"
)

// ConvertValue converts a raw value into a cell of the given column kind.
// Null tokens become missing; a numeric column never receives text.
func (c *TypeConverter) ConvertValue(raw interface{}, kind model.ColumnKind) model.Value {
	if c.isNull(raw) {
		return model.Missing()
	}

	if kind.IsNumeric() {
		f, ok := c.toNumber(raw)
		if !ok {
			return model.Missing()
		}
		if kind == model.KindInteger {
			f = math.Trunc(f)
		}
		return model.Number(f)
	}

	s, err := cast.ToStringE(raw)
	if err != nil {
		return model.Missing()
	}
	return model.Text(s)
}

// isNull determines if a value should be treated as missing
func (c *TypeConverter) isNull(raw interface{}) bool {
	switch v := raw.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(v)
	case float32:
		return math.IsNaN(float64(v))
	case []byte:
		return c.isNullToken(string(v))
	case string:
		return c.isNullToken(v)
	}
	return false
}

func (c *TypeConverter) isNullToken(s string) bool {
	s = strings.TrimSpace(s)
	for _, token := range c.config.NullTokens {
		if strings.EqualFold(s, token) {
			return true
		}
	}
	return false
}

// toNumber converts native numbers and numeric strings. Booleans are not numbers here.
func (c *TypeConverter) toNumber(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case bool:
		return 0, false
	case string:
		if !c.config.ParseNumericStrings {
			return 0, false
		}
		raw = strings.TrimSpace(v)
	case []byte:
		if !c.config.ParseNumericStrings {
			return 0, false
		}
		raw = strings.TrimSpace(string(v))
	}

	f, err := cast.ToFloat64E(raw)
	if err != nil || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// SQLValue converts a cell to a driver value for a column of the given kind
func SQLValue(v model.Value, kind model.ColumnKind) interface{} {
	if v.IsMissing() {
		return nil
	}
	if f, ok := v.Float(); ok {
		if kind == model.KindInteger {
			return int64(f)
		}
		return f
	}
	s, _ := v.Str()
	return s
}
