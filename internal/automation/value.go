package automation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	default:
		return "invalid"
	}
}

// Value is a param value: a bool, an integer, a float or a string.
// The zero Value is invalid.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
}

// BoolValue returns a boolean Value.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// IntValue returns an integer Value.
func IntValue(i int64) Value { return Value{kind: KindInt, i: i} }

// FloatValue returns a floating point Value.
func FloatValue(f float64) Value { return Value{kind: KindFloat, f: f} }

// StringValue returns a string Value.
func StringValue(s string) Value { return Value{kind: KindString, s: s} }

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsValid reports whether v holds one of the four variants.
func (v Value) IsValid() bool { return v.kind != KindInvalid }

// String returns the canonical text form used in summaries:
// true/false, base-10 integers, shortest non-exponent floats, strings verbatim.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindString:
		return v.s
	default:
		return ""
	}
}

// Interface returns v as a plain Go value, or nil when invalid.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	default:
		return nil
	}
}

// MarshalJSON encodes v as a JSON scalar. Invalid values encode as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindInvalid:
		return []byte("null"), nil
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return nil, fmt.Errorf("%w: %v cannot be encoded as JSON", ErrInvalidValue, v.f)
		}
		// Keep a float a float across a round trip.
		s := strconv.FormatFloat(v.f, 'f', -1, 64)
		if v.f == math.Trunc(v.f) {
			s += ".0"
		}
		return []byte(s), nil
	default:
		return json.Marshal(v.Interface())
	}
}

// UnmarshalJSON decodes a JSON scalar. Objects, arrays and null are rejected.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidValue, err)
	}

	parsed, err := ValueOf(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ValueOf converts a decoded JSON scalar or Go scalar into a Value.
//
// json.Number becomes an integer when it parses as int64 and a float
// otherwise, so "30" and "30.5" keep their kinds.
func ValueOf(x any) (Value, error) {
	switch val := x.(type) {
	case Value:
		return val, nil
	case bool:
		return BoolValue(val), nil
	case string:
		return StringValue(val), nil
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return IntValue(i), nil
		}
		f, err := val.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("%w: number %q", ErrInvalidValue, val.String())
		}
		return FloatValue(f), nil
	case nil:
		return Value{}, fmt.Errorf("%w: null", ErrInvalidValue)
	}

	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return IntValue(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return FloatValue(float64(u)), nil
		}
		return IntValue(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		return FloatValue(rv.Float()), nil
	default:
		return Value{}, fmt.Errorf("%w: unsupported %T", ErrInvalidValue, x)
	}
}
