package automation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Validation constants.
const (
	maxNameLength   = 100
	maxIDLength     = 100
	maxEvents       = 50
	maxActions      = 50
	maxMetadataKeys = 50
)

// ValidateAutomation checks an automation before it is stored.
//
// References to unknown nodes, devices or params are not errors; they are
// simply left out of summaries. Events without a check are accepted for
// the same reason.
func ValidateAutomation(a *Automation) error {
	if a == nil {
		return ErrInvalidAutomation
	}

	if err := ValidateName(a.Name); err != nil {
		return err
	}
	if len(a.ID) > maxIDLength {
		return fmt.Errorf("%w: automation_id exceeds %d characters", ErrInvalidAutomation, maxIDLength)
	}

	switch a.EventOperator {
	case EventOperatorNone, EventOperatorAnd, EventOperatorOr:
	default:
		return fmt.Errorf("%w: event_operator must be \"and\" or \"or\"", ErrInvalidAutomation)
	}

	if len(a.Events) > maxEvents {
		return fmt.Errorf("%w: exceeds maximum of %d events", ErrInvalidAutomation, maxEvents)
	}
	if len(a.Actions) > maxActions {
		return fmt.Errorf("%w: exceeds maximum of %d actions", ErrInvalidAutomation, maxActions)
	}
	if len(a.Metadata) > maxMetadataKeys {
		return fmt.Errorf("%w: metadata exceeds %d keys", ErrInvalidAutomation, maxMetadataKeys)
	}

	for i, e := range a.Events {
		if err := validateParams(e.Params); err != nil {
			return fmt.Errorf("events[%d]: %w", i, err)
		}
	}
	for i, act := range a.Actions {
		if err := validateParams(act.Params); err != nil {
			return fmt.Errorf("actions[%d]: %w", i, err)
		}
	}

	return nil
}

// ValidateName checks if an automation name is valid.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, maxNameLength)
	}
	return nil
}

func validateParams(params ParamValues) error {
	for device, values := range params {
		for key, v := range values {
			if !v.IsValid() {
				return fmt.Errorf("%w: %s.%s", ErrInvalidValue, device, key)
			}
		}
	}
	return nil
}

// GenerateID creates a new UUID for an automation.
func GenerateID() string {
	return uuid.New().String()
}
