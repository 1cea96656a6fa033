package automation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
)

var valueType = reflect.TypeOf(Value{})

// Decode converts a raw automation record, as produced by encoding/json
// into map[string]any, into an Automation.
//
// Param leaves must be scalars; nested objects or arrays fail with
// ErrInvalidValue. Timestamps are RFC 3339 strings. A record without
// "enabled" is treated as enabled.
func Decode(raw map[string]any) (*Automation, error) {
	a := &Automation{Enabled: true}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			valueDecodeHook,
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		),
		Result:  a,
		TagName: "mapstructure",
	})
	if err != nil {
		return nil, fmt.Errorf("building decoder: %w", err)
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAutomation, err)
	}

	// mapstructure skips null leaves without running hooks.
	for i, e := range a.Events {
		if err := validateParams(e.Params); err != nil {
			return nil, fmt.Errorf("%w: events[%d]: %w", ErrInvalidAutomation, i, err)
		}
	}
	for i, act := range a.Actions {
		if err := validateParams(act.Params); err != nil {
			return nil, fmt.Errorf("%w: actions[%d]: %w", ErrInvalidAutomation, i, err)
		}
	}
	return a, nil
}

// DecodeJSON parses a JSON automation record and decodes it with Decode.
// Numbers keep their integer or float form.
func DecodeJSON(data []byte) (*Automation, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAutomation, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: record is null", ErrInvalidAutomation)
	}
	return Decode(raw)
}

// valueDecodeHook turns JSON scalars into Value when the target is a Value.
func valueDecodeHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != valueType {
		return data, nil
	}
	return ValueOf(data)
}
