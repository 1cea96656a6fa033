package automation

import "errors"

// Domain errors for the automation package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, automation.ErrAutomationNotFound) {
//	    // handle not found case
//	}
//
// Rendering summaries never fails; these errors come from storage,
// decoding and validation only.
var (
	// ErrAutomationNotFound is returned when an automation ID does not exist.
	ErrAutomationNotFound = errors.New("automation: not found")

	// ErrInvalidAutomation is returned when automation validation or decoding fails.
	ErrInvalidAutomation = errors.New("automation: invalid")

	// ErrInvalidName is returned when an automation name is empty or too long.
	ErrInvalidName = errors.New("automation: invalid name")

	// ErrInvalidValue is returned when a param value is not a bool, number or string.
	ErrInvalidValue = errors.New("automation: invalid value")

	// ErrMQTTUnavailable is returned when publishing without an MQTT client.
	ErrMQTTUnavailable = errors.New("automation: MQTT unavailable")
)
