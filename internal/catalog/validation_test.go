package catalog

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateNode(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(n *Node)
		wantErr error
	}{
		{
			name:   "valid node",
			mutate: func(*Node) {},
		},
		{
			name:   "node without devices",
			mutate: func(n *Node) { n.Devices = nil },
		},
		{
			name:    "missing id",
			mutate:  func(n *Node) { n.ID = "" },
			wantErr: ErrInvalidNode,
		},
		{
			name:    "id too long",
			mutate:  func(n *Node) { n.ID = strings.Repeat("n", 101) },
			wantErr: ErrInvalidNode,
		},
		{
			name:    "name too long",
			mutate:  func(n *Node) { n.Name = strings.Repeat("a", 101) },
			wantErr: ErrInvalidNode,
		},
		{
			name:    "device without key",
			mutate:  func(n *Node) { n.Devices[1].Key = "" },
			wantErr: ErrInvalidNode,
		},
		{
			name:    "duplicate device key",
			mutate:  func(n *Node) { n.Devices[1].Key = "sw" },
			wantErr: ErrDuplicateDevice,
		},
		{
			name:    "param without key",
			mutate:  func(n *Node) { n.Devices[0].Params[0].Key = "" },
			wantErr: ErrInvalidNode,
		},
		{
			name:    "duplicate param key",
			mutate:  func(n *Node) { n.Devices[1].Params[1].Key = "power" },
			wantErr: ErrDuplicateParam,
		},
		{
			name:    "unknown data type",
			mutate:  func(n *Node) { n.Devices[0].Params[0].DataType = "decimal" },
			wantErr: ErrInvalidDataType,
		},
		{
			name:    "empty data type",
			mutate:  func(n *Node) { n.Devices[0].Params[0].DataType = "" },
			wantErr: ErrInvalidDataType,
		},
		{
			name: "too many devices",
			mutate: func(n *Node) {
				n.Devices = make([]Device, maxDevicesPerNode+1)
				for i := range n.Devices {
					n.Devices[i].Key = strings.Repeat("d", i+1)
				}
			},
			wantErr: ErrInvalidNode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := testNode("N1")
			tt.mutate(n)

			err := ValidateNode(n)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateNode() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateNode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateNode_Nil(t *testing.T) {
	if err := ValidateNode(nil); !errors.Is(err, ErrInvalidNode) {
		t.Errorf("ValidateNode(nil) error = %v, want %v", err, ErrInvalidNode)
	}
}
