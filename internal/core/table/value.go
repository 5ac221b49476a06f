// Package table provides a small in-memory relation of named, typed, nullable columns
package table

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Kind is the storage type of a Value
type Kind uint8

const (
	// KindNull marks a missing value; the zero Value is null
	KindNull Kind = iota
	// KindInt is a nullable 64-bit integer
	KindInt
	// KindFloat is a nullable 64-bit float
	KindFloat
	// KindBool is a nullable boolean
	KindBool
	// KindString is a nullable string
	KindString
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "Int64"
	case KindFloat:
		return "Float64"
	case KindBool:
		return "boolean"
	case KindString:
		return "string"
	default:
		return "null"
	}
}

// Value is a comparable nullable scalar
// two null Values are equal, which is what grouping relies on
type Value struct {
	kind Kind
	i    int64
	f    float64
	b    bool
	s    string
}

// Null returns the null Value
func Null() Value { return Value{} }

// Int returns an Int64 Value
func Int(v int64) Value { return Value{kind: KindInt, i: v} }

// Float returns a Float64 Value; NaN is stored as null
func Float(v float64) Value {
	if math.IsNaN(v) {
		return Value{}
	}
	return Value{kind: KindFloat, f: v}
}

// Bool returns a boolean Value
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// String returns a string Value
func String(v string) Value { return Value{kind: KindString, s: v} }

// Kind returns the storage kind
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is missing
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsInt returns the integer payload; ok is false for non-int values
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInt }

// AsFloat returns a numeric payload as float64; ok is false for non-numeric values
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	}
	return 0, false
}

// AsBool returns the boolean payload
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsString returns the string payload
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// Text renders the persisted form of v
// null renders as the empty string and booleans as True/False
func (v Value) Text() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		if v.b {
			return "True"
		}
		return "False"
	case KindString:
		return v.s
	default:
		return ""
	}
}

// Any returns v as a plain Go value, nil for null
// used by sinks and JSON encoding
func (v Value) Any() any {
	switch v.kind {
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindBool:
		return v.b
	case KindString:
		return v.s
	default:
		return nil
	}
}

// MarshalJSON encodes v as its plain JSON scalar
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindInt:
		return []byte(strconv.FormatInt(v.i, 10)), nil
	case KindFloat:
		if math.IsInf(v.f, 0) {
			return []byte("null"), nil
		}
		return []byte(strconv.FormatFloat(v.f, 'g', -1, 64)), nil
	case KindBool:
		return []byte(strconv.FormatBool(v.b)), nil
	case KindString:
		return json.Marshal(v.s)
	default:
		return []byte("null"), nil
	}
}

// Compare orders two Values
// nulls sort last, ints and floats compare numerically, other kinds
// compare by kind first and then by payload
func Compare(a, b Value) int {
	switch {
	case a.IsNull() && b.IsNull():
		return 0
	case a.IsNull():
		return 1
	case b.IsNull():
		return -1
	}
	if af, ok := a.AsFloat(); ok {
		if bf, ok := b.AsFloat(); ok {
			if a.kind == KindInt && b.kind == KindInt {
				return cmpOrdered(a.i, b.i)
			}
			return cmpOrdered(af, bf)
		}
	}
	if a.kind != b.kind {
		return cmpOrdered(a.kind, b.kind)
	}
	switch a.kind {
	case KindBool:
		switch {
		case a.b == b.b:
			return 0
		case !a.b:
			return -1
		default:
			return 1
		}
	default:
		return strings.Compare(a.s, b.s)
	}
}

func cmpOrdered[T int64 | float64 | Kind](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Key encodes values into a null-aware composite grouping key
// nulls in the same position collapse together and never match a non-null
func Key(vals ...Value) string {
	var sb strings.Builder
	for _, v := range vals {
		sb.WriteByte(byte('0' + v.kind))
		var payload string
		switch v.kind {
		case KindInt:
			payload = strconv.FormatInt(v.i, 10)
		case KindFloat:
			payload = strconv.FormatFloat(v.f, 'g', -1, 64)
		case KindBool:
			payload = strconv.FormatBool(v.b)
		case KindString:
			payload = v.s
		}
		sb.WriteString(strconv.Itoa(len(payload)))
		sb.WriteByte(':')
		sb.WriteString(payload)
	}
	return sb.String()
}
