package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Logger defines the logging interface used by the Registry.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Registry provides node management with caching and thread safety.
// It wraps a Repository and keeps every node in memory.
//
// Snapshot hands out an immutable *Catalog that is rebuilt lazily after
// any write, so readers never see a half-applied change.
//
// All public methods are thread-safe.
type Registry struct {
	repo     Repository
	cache    map[string]*Node
	snapshot *Catalog
	mu       sync.RWMutex
	logger   Logger
}

// NewRegistry creates a new catalog registry.
func NewRegistry(repo Repository) *Registry {
	return &Registry{
		repo:   repo,
		cache:  make(map[string]*Node),
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// RefreshCache reloads all nodes from the repository.
// This should be called on application startup.
func (r *Registry) RefreshCache(ctx context.Context) error {
	nodes, err := r.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("loading nodes: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache = make(map[string]*Node, len(nodes))
	for i := range nodes {
		r.cache[nodes[i].ID] = nodes[i].DeepCopy()
	}
	r.snapshot = nil

	r.logger.Info("catalog cache refreshed", "count", len(nodes))
	return nil
}

// GetNode retrieves a node by ID.
// Returns ErrNodeNotFound if the node does not exist.
// The returned node is a deep copy.
func (r *Registry) GetNode(ctx context.Context, id string) (*Node, error) {
	r.mu.RLock()
	cached, ok := r.cache[id]
	r.mu.RUnlock()
	if ok {
		return cached.DeepCopy(), nil
	}

	node, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cache[id] = node.DeepCopy()
	r.snapshot = nil
	r.mu.Unlock()

	return node, nil
}

// ListNodes returns deep copies of all cached nodes ordered by ID.
func (r *Registry) ListNodes() []Node {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedLocked()
}

// SaveNode validates and stores a node, replacing any node with the same ID.
func (r *Registry) SaveNode(ctx context.Context, node *Node) error {
	if err := ValidateNode(node); err != nil {
		return err
	}

	if err := r.repo.Upsert(ctx, node); err != nil {
		return err
	}

	r.mu.Lock()
	r.cache[node.ID] = node.DeepCopy()
	r.snapshot = nil
	r.mu.Unlock()

	r.logger.Info("catalog node saved", "node_id", node.ID, "devices", len(node.Devices))
	return nil
}

// DeleteNode removes a node.
func (r *Registry) DeleteNode(ctx context.Context, id string) error {
	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}

	r.mu.Lock()
	delete(r.cache, id)
	r.snapshot = nil
	r.mu.Unlock()

	r.logger.Info("catalog node deleted", "node_id", id)
	return nil
}

// Snapshot returns an immutable catalog of all cached nodes ordered by ID.
// The same *Catalog is returned until the next write.
func (r *Registry) Snapshot() *Catalog {
	r.mu.RLock()
	snap := r.snapshot
	r.mu.RUnlock()
	if snap != nil {
		return snap
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.snapshot == nil {
		r.snapshot = New(r.sortedLocked())
	}
	return r.snapshot
}

// NodeCount returns the number of cached nodes.
func (r *Registry) NodeCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}

// sortedLocked returns deep copies of cached nodes ordered by ID.
// Caller must hold r.mu.
func (r *Registry) sortedLocked() []Node {
	nodes := make([]Node, 0, len(r.cache))
	for _, n := range r.cache {
		nodes = append(nodes, *n.DeepCopy())
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	return nodes
}
