package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Kind identifies which scalar a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return "null"
	}
}

// Value is a decoded cell: null, string, number or boolean.
// The zero Value is null. Values are comparable and can be used as map keys;
// two values are equal only when both kind and payload match, so Number(1)
// and String("1") are distinct.
type Value struct {
	kind Kind
	s    string
	f    float64
	b    bool
}

// Null returns the null value.
func Null() Value { return Value{} }

// String wraps s as a string cell.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Number wraps f as a numeric cell.
func Number(f float64) Value { return Value{kind: KindNumber, f: f} }

// Bool wraps b as a boolean cell.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }
func (v Value) Str() string { return v.s }
func (v Value) Float() float64 { return v.f }
func (v Value) BoolVal() bool { return v.b }

// IsBlank reports whether the cell counts as missing: null or the empty string.
func (v Value) IsBlank() bool {
	return v.kind == KindNull || (v.kind == KindString && v.s == "")
}

// String renders the value for display. Null renders as an empty string.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindNumber:
		return formatNumber(v.f)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// Interface returns the native Go value (nil, string, float64 or bool).
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.s
	case KindNumber:
		return v.f
	case KindBool:
		return v.b
	default:
		return nil
	}
}

func formatNumber(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	if math.Abs(f) >= 1e21 {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// MarshalJSON encodes the value as the matching JSON scalar.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.s)
	case KindNumber:
		if math.IsInf(v.f, 0) || math.IsNaN(v.f) {
			return []byte("null"), nil
		}
		return json.Marshal(v.f)
	case KindBool:
		return json.Marshal(v.b)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes any JSON scalar. Arrays and objects are not valid
// cells; they are kept as their raw JSON text so decoding never fails on shape.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*v = Null()
		return nil
	}
	switch data[0] {
	case 'n':
		*v = Null()
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode string cell: %w", err)
		}
		*v = String(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return fmt.Errorf("decode bool cell: %w", err)
		}
		*v = Bool(b)
	case '[', '{':
		*v = String(string(data))
	default:
		f, err := strconv.ParseFloat(string(data), 64)
		if errors.Is(err, strconv.ErrRange) {
			// out of float64 range; keep the literal text
			*v = String(string(data))
			return nil
		}
		if err != nil {
			return fmt.Errorf("decode number cell: %w", err)
		}
		*v = Number(f)
	}
	return nil
}

// MarshalYAML encodes the value as a native YAML scalar.
func (v Value) MarshalYAML() (any, error) {
	return v.Interface(), nil
}
