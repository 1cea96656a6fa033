package catalog

import "time"

// DataType is the declared value type of a param.
type DataType string

// Known data types.
const (
	DataTypeBool   DataType = "bool"
	DataTypeInt    DataType = "int"
	DataTypeFloat  DataType = "float"
	DataTypeString DataType = "string"
	DataTypeObject DataType = "object"
	DataTypeArray  DataType = "array"
)

// AllDataTypes returns every known data type.
func AllDataTypes() []DataType {
	return []DataType{
		DataTypeBool,
		DataTypeInt,
		DataTypeFloat,
		DataTypeString,
		DataTypeObject,
		DataTypeArray,
	}
}

// IsBool reports whether the data type is boolean.
func (t DataType) IsBool() bool {
	return t == DataTypeBool
}

// Param is a single readable or writable attribute of a device.
type Param struct {
	// Key is the machine name used in automation records.
	Key         string   `json:"name"`
	DisplayName string   `json:"display_name,omitempty"`
	Type        string   `json:"type,omitempty"`
	DataType    DataType `json:"data_type"`
	Properties  []string `json:"properties,omitempty"`
	UIType      string   `json:"ui_type,omitempty"`
}

// Device is a functional unit on a node, such as a switch or a bulb.
type Device struct {
	// Key is the machine name used in automation records.
	Key         string  `json:"name"`
	DisplayName string  `json:"display_name,omitempty"`
	Type        string  `json:"type,omitempty"`
	Primary     string  `json:"primary,omitempty"`
	Params      []Param `json:"params"`
}

// Label returns the name shown to users: the display name, or the key
// when no display name is set.
func (d Device) Label() string {
	if d.DisplayName != "" {
		return d.DisplayName
	}
	return d.Key
}

// Param looks up a param by key.
func (d Device) Param(key string) (Param, bool) {
	for _, p := range d.Params {
		if p.Key == key {
			return p, true
		}
	}
	return Param{}, false
}

// Node is a device-hosting unit identified by a stable ID.
type Node struct {
	ID              string    `json:"node_id"`
	Name            string    `json:"name,omitempty"`
	Type            string    `json:"type,omitempty"`
	FirmwareVersion string    `json:"fw_version,omitempty"`
	Devices         []Device  `json:"devices"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Device looks up a device by key.
func (n Node) Device(key string) (Device, bool) {
	for _, d := range n.Devices {
		if d.Key == key {
			return d, true
		}
	}
	return Device{}, false
}

// DeepCopy creates an independent copy of the node.
// Device, param and property slices are all cloned.
func (n *Node) DeepCopy() *Node {
	if n == nil {
		return nil
	}

	cpy := *n
	if n.Devices != nil {
		cpy.Devices = make([]Device, len(n.Devices))
		for i, d := range n.Devices {
			cpy.Devices[i] = d.deepCopy()
		}
	}
	return &cpy
}

func (d Device) deepCopy() Device {
	cpy := d
	if d.Params != nil {
		cpy.Params = make([]Param, len(d.Params))
		for i, p := range d.Params {
			cpy.Params[i] = p
			if p.Properties != nil {
				cpy.Params[i].Properties = append([]string(nil), p.Properties...)
			}
		}
	}
	return cpy
}
