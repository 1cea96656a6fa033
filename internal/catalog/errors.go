package catalog

import "errors"

// Domain errors for the catalog package.
//
// These errors can be checked using errors.Is():
//
//	if errors.Is(err, catalog.ErrNodeNotFound) {
//	    // handle not found case
//	}
var (
	// ErrNodeNotFound is returned when a node ID does not exist.
	ErrNodeNotFound = errors.New("catalog: node not found")

	// ErrInvalidNode is returned when node validation fails.
	ErrInvalidNode = errors.New("catalog: invalid node")

	// ErrDuplicateDevice is returned when a node lists the same device key twice.
	ErrDuplicateDevice = errors.New("catalog: duplicate device")

	// ErrDuplicateParam is returned when a device lists the same param key twice.
	ErrDuplicateParam = errors.New("catalog: duplicate param")

	// ErrInvalidDataType is returned when a param declares an unknown data type.
	ErrInvalidDataType = errors.New("catalog: invalid data type")

	// ErrInvalidConfig is returned when a node config document cannot be parsed.
	ErrInvalidConfig = errors.New("catalog: invalid node config")
)
