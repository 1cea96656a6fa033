package automation

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Logger defines the logging interface used by the Registry and Summariser.
// This allows different logging implementations to be used.
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

// Registry provides automation management with caching and thread safety.
// It wraps a Repository and keeps every automation in memory.
//
// The cache is populated on startup via RefreshCache() and kept in sync
// by the write methods.
//
// All public methods are thread-safe.
type Registry struct {
	repo    Repository
	cache   map[string]*Automation // Cached automations by ID
	cacheMu sync.RWMutex           // Protects cache
	logger  Logger
}

// NewRegistry creates a new automation registry.
func NewRegistry(repo Repository) *Registry {
	return &Registry{
		repo:   repo,
		cache:  make(map[string]*Automation),
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// RefreshCache reloads all automations from the repository into the cache.
// This should be called on application startup.
func (r *Registry) RefreshCache(ctx context.Context) error {
	automations, err := r.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("loading automations: %w", err)
	}

	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()

	r.cache = make(map[string]*Automation, len(automations))
	for i := range automations {
		r.cache[automations[i].ID] = automations[i].DeepCopy()
	}

	r.logger.Info("automation cache refreshed", "count", len(automations))
	return nil
}

// GetAutomation retrieves an automation by ID.
// The returned automation is a deep copy; callers can safely modify it.
func (r *Registry) GetAutomation(_ context.Context, id string) (*Automation, error) {
	r.cacheMu.RLock()
	cached, ok := r.cache[id]
	r.cacheMu.RUnlock()

	if ok {
		return cached.DeepCopy(), nil
	}
	return nil, ErrAutomationNotFound
}

// ListAutomations returns deep copies of all automations sorted by name then ID.
func (r *Registry) ListAutomations(_ context.Context) []Automation {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()

	automations := make([]Automation, 0, len(r.cache))
	for _, a := range r.cache {
		automations = append(automations, *a.DeepCopy())
	}
	sortAutomations(automations)
	return automations
}

// ListByNode returns automations that are owned by nodeID or act on it.
func (r *Registry) ListByNode(_ context.Context, nodeID string) []Automation {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()

	var automations []Automation
	for _, a := range r.cache {
		if a.References(nodeID) {
			automations = append(automations, *a.DeepCopy())
		}
	}
	sortAutomations(automations)
	return automations
}

// sortAutomations sorts by name then ID, matching the repository ordering.
func sortAutomations(automations []Automation) {
	sort.Slice(automations, func(i, j int) bool {
		if automations[i].Name != automations[j].Name {
			return automations[i].Name < automations[j].Name
		}
		return automations[i].ID < automations[j].ID
	})
}

// SaveAutomation validates, persists and caches an automation, replacing
// any stored automation with the same ID. An empty ID is assigned a UUID.
func (r *Registry) SaveAutomation(ctx context.Context, a *Automation) error {
	if a == nil {
		return ErrInvalidAutomation
	}
	if a.ID == "" {
		a.ID = GenerateID()
	}

	if err := ValidateAutomation(a); err != nil {
		return err
	}

	if err := r.repo.Upsert(ctx, a); err != nil {
		return err
	}

	r.cacheMu.Lock()
	r.cache[a.ID] = a.DeepCopy()
	r.cacheMu.Unlock()

	r.logger.Info("automation saved", "id", a.ID, "name", a.Name)
	return nil
}

// DeleteAutomation removes an automation from persistence and cache.
func (r *Registry) DeleteAutomation(ctx context.Context, id string) error {
	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}

	r.cacheMu.Lock()
	delete(r.cache, id)
	r.cacheMu.Unlock()

	r.logger.Info("automation deleted", "id", id)
	return nil
}

// Count returns the number of cached automations.
func (r *Registry) Count() int {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()
	return len(r.cache)
}
