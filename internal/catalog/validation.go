package catalog

import "fmt"

// Validation limits.
const (
	maxIDLength        = 100
	maxNameLength      = 100
	maxDevicesPerNode  = 64
	maxParamsPerDevice = 64
)

var validDataTypes map[DataType]struct{}

func init() {
	validDataTypes = make(map[DataType]struct{}, len(AllDataTypes()))
	for _, t := range AllDataTypes() {
		validDataTypes[t] = struct{}{}
	}
}

// ValidateNode checks a node before it is stored.
//
// Device keys must be unique within the node and param keys unique within
// their device, so catalog lookups are unambiguous.
func ValidateNode(n *Node) error {
	if n == nil {
		return ErrInvalidNode
	}

	if n.ID == "" {
		return fmt.Errorf("%w: node_id is required", ErrInvalidNode)
	}
	if len(n.ID) > maxIDLength {
		return fmt.Errorf("%w: node_id exceeds %d characters", ErrInvalidNode, maxIDLength)
	}
	if len(n.Name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidNode, maxNameLength)
	}
	if len(n.Devices) > maxDevicesPerNode {
		return fmt.Errorf("%w: more than %d devices", ErrInvalidNode, maxDevicesPerNode)
	}

	seen := make(map[string]struct{}, len(n.Devices))
	for i := range n.Devices {
		d := &n.Devices[i]
		if d.Key == "" {
			return fmt.Errorf("%w: device %d has no name", ErrInvalidNode, i)
		}
		if _, dup := seen[d.Key]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateDevice, d.Key)
		}
		seen[d.Key] = struct{}{}

		if err := validateParams(d); err != nil {
			return err
		}
	}

	return nil
}

func validateParams(d *Device) error {
	if len(d.Params) > maxParamsPerDevice {
		return fmt.Errorf("%w: device %q has more than %d params", ErrInvalidNode, d.Key, maxParamsPerDevice)
	}

	seen := make(map[string]struct{}, len(d.Params))
	for i, p := range d.Params {
		if p.Key == "" {
			return fmt.Errorf("%w: device %q param %d has no name", ErrInvalidNode, d.Key, i)
		}
		if _, dup := seen[p.Key]; dup {
			return fmt.Errorf("%w: %q on device %q", ErrDuplicateParam, p.Key, d.Key)
		}
		seen[p.Key] = struct{}{}

		if _, ok := validDataTypes[p.DataType]; !ok {
			return fmt.Errorf("%w: %q on %s.%s", ErrInvalidDataType, p.DataType, d.Key, p.Key)
		}
	}
	return nil
}
