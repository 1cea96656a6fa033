package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceLabel(t *testing.T) {
	assert.Equal(t, "Switch", Device{Key: "sw", DisplayName: "Switch"}.Label())
	assert.Equal(t, "sw", Device{Key: "sw"}.Label())
}

func TestLookups(t *testing.T) {
	n := testNode("N1")

	d, ok := n.Device("bulb")
	require.True(t, ok)
	assert.Equal(t, "Bulb", d.DisplayName)

	p, ok := d.Param("brightness")
	require.True(t, ok)
	assert.Equal(t, DataTypeInt, p.DataType)

	_, ok = n.Device("missing")
	assert.False(t, ok)

	_, ok = d.Param("missing")
	assert.False(t, ok)
}

func TestNodeDeepCopy(t *testing.T) {
	orig := testNode("N1")
	cpy := orig.DeepCopy()

	cpy.Devices[0].DisplayName = "Changed"
	cpy.Devices[0].Params[0].Key = "changed"
	cpy.Devices[0].Params[0].Properties[0] = "changed"

	assert.Equal(t, "Switch", orig.Devices[0].DisplayName)
	assert.Equal(t, "power", orig.Devices[0].Params[0].Key)
	assert.Equal(t, "read", orig.Devices[0].Params[0].Properties[0])

	var nilNode *Node
	assert.Nil(t, nilNode.DeepCopy())
}

func TestDataTypeIsBool(t *testing.T) {
	for _, dt := range AllDataTypes() {
		assert.Equal(t, dt == DataTypeBool, dt.IsBool(), dt)
	}
}

func TestCatalogNew(t *testing.T) {
	first := *testNode("N1")
	dup := *testNode("N1")
	dup.Name = "Duplicate"
	other := *testNode("N0")

	c := New([]Node{first, dup, other})

	assert.Equal(t, 2, c.Len())

	n, ok := c.Node("N1")
	require.True(t, ok)
	assert.Equal(t, "Hallway", n.Name, "first node with a given ID wins")

	ids := make([]string, 0, c.Len())
	for _, n := range c.Nodes() {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"N1", "N0"}, ids, "input order is kept")

	_, ok = c.Node("nope")
	assert.False(t, ok)
}

func TestCatalogIsolatedFromInput(t *testing.T) {
	nodes := []Node{*testNode("N1")}
	c := New(nodes)

	nodes[0].Devices[0].DisplayName = "Mutated"

	n, _ := c.Node("N1")
	d, _ := n.Device("sw")
	assert.Equal(t, "Switch", d.DisplayName)

	copies := c.Nodes()
	copies[0].Devices[0].DisplayName = "Mutated again"
	n, _ = c.Node("N1")
	d, _ = n.Device("sw")
	assert.Equal(t, "Switch", d.DisplayName)
}

func TestNilCatalog(t *testing.T) {
	var c *Catalog
	_, ok := c.Node("N1")
	assert.False(t, ok)
	assert.Zero(t, c.Len())
	assert.Nil(t, c.Nodes())
}
