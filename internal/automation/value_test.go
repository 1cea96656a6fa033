package automation

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueString(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"true", BoolValue(true), "true"},
		{"false", BoolValue(false), "false"},
		{"int", IntValue(40), "40"},
		{"negative int", IntValue(-3), "-3"},
		{"integral float", FloatValue(30), "30"},
		{"fractional float", FloatValue(21.25), "21.25"},
		{"large float", FloatValue(1e21), "1000000000000000000000"},
		{"string", StringValue("on"), "on"},
		{"empty string", StringValue(""), ""},
		{"invalid", Value{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.value.String())
		})
	}
}

func TestValueKind(t *testing.T) {
	assert.Equal(t, KindBool, BoolValue(true).Kind())
	assert.Equal(t, KindInt, IntValue(1).Kind())
	assert.Equal(t, KindFloat, FloatValue(1).Kind())
	assert.Equal(t, KindString, StringValue("x").Kind())
	assert.False(t, Value{}.IsValid())
	assert.True(t, StringValue("").IsValid())
	assert.Equal(t, "float", KindFloat.String())
}

func TestValueOf(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  Value
	}{
		{"bool", true, BoolValue(true)},
		{"string", "auto", StringValue("auto")},
		{"json int", json.Number("30"), IntValue(30)},
		{"json float", json.Number("30.5"), FloatValue(30.5)},
		{"json exponent", json.Number("1e3"), FloatValue(1000)},
		{"int", 7, IntValue(7)},
		{"int8", int8(-2), IntValue(-2)},
		{"uint16", uint16(9), IntValue(9)},
		{"float32", float32(0.5), FloatValue(0.5)},
		{"float64", 2.25, FloatValue(2.25)},
		{"value", IntValue(4), IntValue(4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValueOf(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValueOf_Rejects(t *testing.T) {
	for _, input := range []any{nil, map[string]any{"a": 1}, []any{1}, struct{}{}} {
		_, err := ValueOf(input)
		assert.True(t, errors.Is(err, ErrInvalidValue), "ValueOf(%#v) error = %v", input, err)
	}
}

func TestValueJSON(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		json  string
	}{
		{"bool", BoolValue(false), "false"},
		{"int", IntValue(40), "40"},
		{"integral float", FloatValue(30), "30.0"},
		{"float", FloatValue(0.125), "0.125"},
		{"string", StringValue("a\"b"), `"a\"b"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.json, string(data))

			var decoded Value
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.Equal(t, tt.value, decoded)
		})
	}
}

func TestValueJSON_Errors(t *testing.T) {
	_, err := json.Marshal(FloatValue(math.NaN()))
	assert.Error(t, err)

	_, err = json.Marshal(FloatValue(math.Inf(1)))
	assert.Error(t, err)

	data, err := json.Marshal(Value{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))

	for _, input := range []string{"null", "{}", "[1]"} {
		var v Value
		err := v.UnmarshalJSON([]byte(input))
		assert.True(t, errors.Is(err, ErrInvalidValue), "UnmarshalJSON(%s) error = %v", input, err)
	}
}
