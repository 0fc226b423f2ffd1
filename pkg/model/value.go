// pkg/model/value.go
package model

import (
	"encoding/json"
	"math"
	"strconv"
)

// ValueKind identifies what a cell holds
type ValueKind int

const (
	ValueMissing ValueKind = iota
	ValueNumber
	ValueText
)

// Value is a single dataset cell: a number, a text string, or missing
type Value struct {
	kind ValueKind
	num  float64
	text string
}

// Number creates a numeric value. NaN is treated as missing.
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Missing()
	}
	// -0 and 0 compare equal and must share a row key
	if f == 0 {
		f = 0
	}
	return Value{kind: ValueNumber, num: f}
}

// Text creates a text value
func Text(s string) Value {
	return Value{kind: ValueText, text: s}
}

// Missing creates a missing value
func Missing() Value {
	return Value{kind: ValueMissing}
}

// Kind returns the value kind
func (v Value) Kind() ValueKind { return v.kind }

// IsMissing reports whether the cell has no value
func (v Value) IsMissing() bool { return v.kind == ValueMissing }

// Float returns the numeric content and whether the value is a number
func (v Value) Float() (float64, bool) {
	if v.kind != ValueNumber {
		return 0, false
	}
	return v.num, true
}

// Str returns the text content and whether the value is text
func (v Value) Str() (string, bool) {
	if v.kind != ValueText {
		return "", false
	}
	return v.text, true
}

// Equal compares two cells by kind and content
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case ValueNumber:
		return v.num == other.num
	case ValueText:
		return v.text == other.text
	default:
		return true
	}
}

// String renders the value for logs and text output
func (v Value) String() string {
	switch v.kind {
	case ValueNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case ValueText:
		return v.text
	default:
		return "<missing>"
	}
}

// key renders the value with a kind prefix so that 1 and "1" never collide
func (v Value) key() string {
	switch v.kind {
	case ValueNumber:
		return "n:" + strconv.FormatFloat(v.num, 'g', -1, 64)
	case ValueText:
		return "t:" + strconv.Quote(v.text)
	default:
		return "m:"
	}
}

// Interface returns the Go representation used for serialization and SQL
func (v Value) Interface() interface{} {
	switch v.kind {
	case ValueNumber:
		return v.num
	case ValueText:
		return v.text
	default:
		return nil
	}
}

// MarshalJSON encodes missing values as null
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}
