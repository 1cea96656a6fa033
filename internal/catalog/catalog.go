package catalog

// Catalog is an immutable, ordered snapshot of nodes.
//
// Values returned by lookups share storage with the snapshot and must be
// treated as read-only. Use Nodes for copies that can be modified.
type Catalog struct {
	nodes []Node
	index map[string]int
}

// New builds a catalog from nodes, keeping their order.
// The input is copied. When two nodes share an ID the first one wins.
func New(nodes []Node) *Catalog {
	c := &Catalog{
		nodes: make([]Node, 0, len(nodes)),
		index: make(map[string]int, len(nodes)),
	}
	for i := range nodes {
		if _, dup := c.index[nodes[i].ID]; dup {
			continue
		}
		c.index[nodes[i].ID] = len(c.nodes)
		c.nodes = append(c.nodes, *nodes[i].DeepCopy())
	}
	return c
}

// Node looks up a node by ID. A nil catalog contains no nodes.
func (c *Catalog) Node(id string) (Node, bool) {
	if c == nil {
		return Node{}, false
	}
	i, ok := c.index[id]
	if !ok {
		return Node{}, false
	}
	return c.nodes[i], true
}

// Nodes returns deep copies of all nodes in catalog order.
func (c *Catalog) Nodes() []Node {
	if c == nil {
		return nil
	}
	out := make([]Node, len(c.nodes))
	for i := range c.nodes {
		out[i] = *c.nodes[i].DeepCopy()
	}
	return out
}

// Len returns the number of nodes.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.nodes)
}
