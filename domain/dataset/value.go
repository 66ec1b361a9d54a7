package dataset

import (
	"encoding/json"
	"math"
	"strconv"
)

// ValueType defines the storage type for values
type ValueType string

const (
	ValueTypeString  ValueType = "string"
	ValueTypeNumeric ValueType = "numeric"
	ValueTypeMissing ValueType = "missing"
)

// Value represents a typed cell after coercion.
// A numeric Value is always finite; absent data is ValueTypeMissing, never zero.
type Value struct {
	Type ValueType
	Num  float64
	Str  string
}

// NewStringValue creates a string value; empty strings are missing
func NewStringValue(s string) Value {
	if s == "" {
		return NewMissingValue()
	}
	return Value{Type: ValueTypeString, Str: s}
}

// NewNumericValue creates a numeric value; NaN and infinities are missing
func NewNumericValue(n float64) Value {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return NewMissingValue()
	}
	return Value{Type: ValueTypeNumeric, Num: n}
}

// NewMissingValue creates a missing value
func NewMissingValue() Value {
	return Value{Type: ValueTypeMissing}
}

// IsMissing reports whether the value is the missing sentinel
func (v Value) IsMissing() bool {
	return v.Type == ValueTypeMissing || v.Type == ""
}

// IsNumeric returns true if the value represents a valid number
func (v Value) IsNumeric() bool {
	return v.Type == ValueTypeNumeric
}

// IsString returns true if the value represents a valid string
func (v Value) IsString() bool {
	return v.Type == ValueTypeString
}

// Float returns the number and whether it is present
func (v Value) Float() (float64, bool) {
	if v.Type != ValueTypeNumeric {
		return 0, false
	}
	return v.Num, true
}

// String returns the string representation of the value
func (v Value) String() string {
	switch v.Type {
	case ValueTypeString:
		return v.Str
	case ValueTypeNumeric:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	}
	return "<missing>"
}

// MarshalJSON emits numbers as numbers, strings as strings and missing as null
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Type {
	case ValueTypeNumeric:
		return json.Marshal(v.Num)
	case ValueTypeString:
		return json.Marshal(v.Str)
	}
	return []byte("null"), nil
}
