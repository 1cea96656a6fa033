package automation

import "time"

// ParamValues maps device key to param key to value.
type ParamValues map[string]map[string]Value

// ActionEntry is one group of param writes on a single node.
type ActionEntry struct {
	NodeID string      `json:"node_id" mapstructure:"node_id"`
	Params ParamValues `json:"params" mapstructure:"params"`
}

// EventEntry is one trigger condition on the automation's own node.
//
// Check is the comparison operator, for example "==" or ">". An entry with
// nil Params or nil Check is malformed and left out of summaries.
type EventEntry struct {
	Params ParamValues `json:"params,omitempty" mapstructure:"params"`
	Check  *string     `json:"check,omitempty" mapstructure:"check"`
}

// EventOperator combines multiple events.
type EventOperator string

const (
	EventOperatorNone EventOperator = ""
	EventOperatorAnd  EventOperator = "and"
	EventOperatorOr   EventOperator = "or"
)

// Automation pairs trigger conditions with device param writes.
type Automation struct {
	ID            string         `json:"automation_id" mapstructure:"automation_id"`
	Name          string         `json:"name" mapstructure:"name"`
	Enabled       bool           `json:"enabled" mapstructure:"enabled"`
	NodeID        string         `json:"node_id" mapstructure:"node_id"` // owning node; all events refer to it
	EventOperator EventOperator  `json:"event_operator,omitempty" mapstructure:"event_operator"`
	Events        []EventEntry   `json:"events" mapstructure:"events"`
	Actions       []ActionEntry  `json:"actions" mapstructure:"actions"`
	Retrigger     bool           `json:"retrigger" mapstructure:"retrigger"`
	Metadata      map[string]any `json:"metadata,omitempty" mapstructure:"metadata"`
	CreatedAt     time.Time      `json:"created_at" mapstructure:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" mapstructure:"updated_at"`
}

// Summary is the rendered, human-readable form of an automation.
type Summary struct {
	AutomationID string `json:"automation_id"`
	Name         string `json:"name"`
	Events       string `json:"events"`
	Actions      string `json:"actions"`
}

// References reports whether the automation owns or acts on nodeID.
func (a *Automation) References(nodeID string) bool {
	if a.NodeID == nodeID {
		return true
	}
	for _, act := range a.Actions {
		if act.NodeID == nodeID {
			return true
		}
	}
	return false
}

// DeepCopy creates an independent copy of the automation.
// Values are immutable, so copying the maps is enough.
func (a *Automation) DeepCopy() *Automation {
	if a == nil {
		return nil
	}

	cpy := *a
	if a.Events != nil {
		cpy.Events = make([]EventEntry, len(a.Events))
		for i, e := range a.Events {
			cpy.Events[i] = EventEntry{Params: e.Params.clone()}
			if e.Check != nil {
				check := *e.Check
				cpy.Events[i].Check = &check
			}
		}
	}
	if a.Actions != nil {
		cpy.Actions = make([]ActionEntry, len(a.Actions))
		for i, act := range a.Actions {
			cpy.Actions[i] = ActionEntry{NodeID: act.NodeID, Params: act.Params.clone()}
		}
	}
	cpy.Metadata = deepCopyMap(a.Metadata)
	return &cpy
}

func (p ParamValues) clone() ParamValues {
	if p == nil {
		return nil
	}
	out := make(ParamValues, len(p))
	for device, params := range p {
		if params == nil {
			out[device] = nil
			continue
		}
		inner := make(map[string]Value, len(params))
		for k, v := range params {
			inner[k] = v
		}
		out[device] = inner
	}
	return out
}

// deepCopyMap copies nested maps and slices of decoded JSON.
func deepCopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return deepCopyMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopyValue(item)
		}
		return out
	default:
		return v
	}
}
