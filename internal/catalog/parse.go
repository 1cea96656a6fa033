package catalog

import (
	"encoding/json"
	"fmt"
)

// nodeConfig is the node-config document published by nodes and the cloud:
//
//	{
//	  "node_id": "N1",
//	  "info": {"name": "Hallway", "type": "switch", "fw_version": "1.2"},
//	  "devices": [
//	    {"name": "sw", "display_name": "Switch", "params": [
//	      {"name": "power", "data_type": "bool", "properties": ["read", "write"]}
//	    ]}
//	  ]
//	}
type nodeConfig struct {
	NodeID string `json:"node_id"`
	Info   struct {
		Name      string `json:"name"`
		Type      string `json:"type"`
		FWVersion string `json:"fw_version"`
	} `json:"info"`
	Devices []Device `json:"devices"`
}

// ParseNodeConfig decodes a node-config document into a Node.
// The result is not validated; call ValidateNode before storing it.
func ParseNodeConfig(data []byte) (*Node, error) {
	var cfg nodeConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return &Node{
		ID:              cfg.NodeID,
		Name:            cfg.Info.Name,
		Type:            cfg.Info.Type,
		FirmwareVersion: cfg.Info.FWVersion,
		Devices:         cfg.Devices,
	}, nil
}
