package automation

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	doc := []byte(`{
		"automation_id": "a1",
		"name": "Warm landing",
		"enabled": false,
		"node_id": "S1",
		"event_operator": "and",
		"events": [
			{"params": {"th": {"temp": 30.5, "hum": 60}}, "check": ">"},
			{"params": {"raw": {"mode": "away"}}}
		],
		"actions": [
			{"node_id": "N1", "params": {"sw": {"power": true}, "bulb": {"brightness": 40}}}
		],
		"retrigger": true,
		"metadata": {"source": "app", "rank": 2},
		"created_at": "2026-10-14T09:00:00Z"
	}`)

	a, err := DecodeJSON(doc)
	require.NoError(t, err)

	assert.Equal(t, "a1", a.ID)
	assert.Equal(t, "Warm landing", a.Name)
	assert.False(t, a.Enabled)
	assert.Equal(t, "S1", a.NodeID)
	assert.Equal(t, EventOperatorAnd, a.EventOperator)
	assert.True(t, a.Retrigger)
	assert.Equal(t, time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC), a.CreatedAt.UTC())

	require.Len(t, a.Events, 2)
	assert.Equal(t, FloatValue(30.5), a.Events[0].Params["th"]["temp"])
	assert.Equal(t, IntValue(60), a.Events[0].Params["th"]["hum"])
	require.NotNil(t, a.Events[0].Check)
	assert.Equal(t, ">", *a.Events[0].Check)
	assert.Nil(t, a.Events[1].Check)

	require.Len(t, a.Actions, 1)
	assert.Equal(t, "N1", a.Actions[0].NodeID)
	assert.Equal(t, BoolValue(true), a.Actions[0].Params["sw"]["power"])
	assert.Equal(t, IntValue(40), a.Actions[0].Params["bulb"]["brightness"])

	assert.Equal(t, "app", a.Metadata["source"])
}

func TestDecodeJSON_DefaultsEnabled(t *testing.T) {
	a, err := DecodeJSON([]byte(`{"name": "x", "node_id": "N1"}`))
	require.NoError(t, err)
	assert.True(t, a.Enabled)
	assert.Nil(t, a.Events)
	assert.Nil(t, a.Actions)
}

func TestDecodeJSON_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"malformed JSON", `{"name":`},
		{"null record", `null`},
		{"array record", `[]`},
		{"nested object value", `{"actions": [{"node_id": "N1", "params": {"sw": {"power": {"on": true}}}}]}`},
		{"array value", `{"actions": [{"node_id": "N1", "params": {"sw": {"power": [1]}}}]}`},
		{"null value", `{"actions": [{"node_id": "N1", "params": {"sw": {"power": null}}}]}`},
		{"wrong field type", `{"enabled": "yes"}`},
		{"bad timestamp", `{"created_at": "yesterday"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeJSON([]byte(tt.doc))
			if !errors.Is(err, ErrInvalidAutomation) {
				t.Errorf("DecodeJSON() error = %v, want ErrInvalidAutomation", err)
			}
		})
	}
}

func TestDecode_GoValues(t *testing.T) {
	raw := map[string]any{
		"name":    "Direct",
		"node_id": "N1",
		"actions": []any{
			map[string]any{
				"node_id": "N1",
				"params": map[string]any{
					"bulb": map[string]any{"brightness": 55, "power": true},
				},
			},
		},
	}

	a, err := Decode(raw)
	require.NoError(t, err)
	require.Len(t, a.Actions, 1)
	assert.Equal(t, IntValue(55), a.Actions[0].Params["bulb"]["brightness"])
	assert.Equal(t, "Bulb: power:true,brightness:55", DescribeActions(a.Actions, testCatalog()))
}

func TestDecodeJSON_NullValueKeepsCause(t *testing.T) {
	_, err := DecodeJSON([]byte(`{"actions": [{"node_id": "N1", "params": {"sw": {"power": null}}}]}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidValue)
	assert.Contains(t, err.Error(), "actions[0]")
}
