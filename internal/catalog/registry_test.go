package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockRepository is a test implementation of Repository.
type MockRepository struct {
	mu        sync.Mutex
	nodes     map[string]*Node
	listErr   error
	upsertErr error
	gets      int
}

func NewMockRepository() *MockRepository {
	return &MockRepository{nodes: make(map[string]*Node)}
}

func (m *MockRepository) GetByID(_ context.Context, id string) (*Node, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.gets++
	if n, ok := m.nodes[id]; ok {
		return n.DeepCopy(), nil
	}
	return nil, ErrNodeNotFound
}

func (m *MockRepository) List(_ context.Context) ([]Node, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.listErr != nil {
		return nil, m.listErr
	}
	nodes := make([]Node, 0, len(m.nodes))
	for _, n := range m.nodes {
		nodes = append(nodes, *n.DeepCopy())
	}
	return nodes, nil
}

func (m *MockRepository) Upsert(_ context.Context, node *Node) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.nodes[node.ID] = node.DeepCopy()
	return nil
}

func (m *MockRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.nodes[id]; !ok {
		return ErrNodeNotFound
	}
	delete(m.nodes, id)
	return nil
}

func TestRegistry_RefreshCache(t *testing.T) {
	repo := NewMockRepository()
	repo.nodes["N1"] = testNode("N1")
	repo.nodes["N2"] = testNode("N2")

	reg := NewRegistry(repo)
	require.NoError(t, reg.RefreshCache(context.Background()))
	assert.Equal(t, 2, reg.NodeCount())

	repo.listErr = errors.New("disk on fire")
	assert.Error(t, reg.RefreshCache(context.Background()))
	assert.Equal(t, 2, reg.NodeCount(), "failed refresh keeps the old cache")
}

func TestRegistry_SaveNode(t *testing.T) {
	repo := NewMockRepository()
	reg := NewRegistry(repo)
	ctx := context.Background()

	require.NoError(t, reg.SaveNode(ctx, testNode("N1")))
	assert.Equal(t, 1, reg.NodeCount())
	assert.Contains(t, repo.nodes, "N1")

	bad := testNode("N2")
	bad.Devices[1].Key = "sw"
	err := reg.SaveNode(ctx, bad)
	assert.True(t, errors.Is(err, ErrDuplicateDevice))
	assert.NotContains(t, repo.nodes, "N2")

	repo.upsertErr = errors.New("write failed")
	assert.Error(t, reg.SaveNode(ctx, testNode("N3")))
	assert.Equal(t, 1, reg.NodeCount())
}

func TestRegistry_GetNode(t *testing.T) {
	repo := NewMockRepository()
	reg := NewRegistry(repo)
	ctx := context.Background()

	require.NoError(t, reg.SaveNode(ctx, testNode("N1")))

	got, err := reg.GetNode(ctx, "N1")
	require.NoError(t, err)
	got.Name = "mutated"

	again, err := reg.GetNode(ctx, "N1")
	require.NoError(t, err)
	assert.Equal(t, "Hallway", again.Name, "cache must not be mutated through returned copies")
	assert.Zero(t, repo.gets, "cached nodes are served without the repository")

	// Written behind the registry's back: falls through to the repository.
	repo.nodes["N9"] = testNode("N9")
	got, err = reg.GetNode(ctx, "N9")
	require.NoError(t, err)
	assert.Equal(t, "N9", got.ID)
	assert.Equal(t, 2, reg.NodeCount())

	_, err = reg.GetNode(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNodeNotFound))
}

func TestRegistry_DeleteNode(t *testing.T) {
	repo := NewMockRepository()
	reg := NewRegistry(repo)
	ctx := context.Background()

	require.NoError(t, reg.SaveNode(ctx, testNode("N1")))
	require.NoError(t, reg.DeleteNode(ctx, "N1"))
	assert.Zero(t, reg.NodeCount())

	assert.True(t, errors.Is(reg.DeleteNode(ctx, "N1"), ErrNodeNotFound))
}

func TestRegistry_ListNodesSorted(t *testing.T) {
	reg := NewRegistry(NewMockRepository())
	ctx := context.Background()

	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, reg.SaveNode(ctx, testNode(id)))
	}

	var ids []string
	for _, n := range reg.ListNodes() {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestRegistry_Snapshot(t *testing.T) {
	reg := NewRegistry(NewMockRepository())
	ctx := context.Background()

	empty := reg.Snapshot()
	require.NotNil(t, empty)
	assert.Zero(t, empty.Len())

	require.NoError(t, reg.SaveNode(ctx, testNode("N1")))
	snap := reg.Snapshot()
	assert.Equal(t, 1, snap.Len())
	assert.Same(t, snap, reg.Snapshot(), "snapshot is reused until the next write")

	require.NoError(t, reg.SaveNode(ctx, testNode("N2")))
	assert.Equal(t, 1, snap.Len(), "old snapshot is immutable")
	assert.Equal(t, 2, reg.Snapshot().Len())

	require.NoError(t, reg.DeleteNode(ctx, "N1"))
	_, ok := reg.Snapshot().Node("N1")
	assert.False(t, ok)
}

func TestRegistry_WithSQLite(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	reg := NewRegistry(NewSQLiteRepository(db.DB))
	require.NoError(t, reg.SaveNode(ctx, testNode("N1")))

	// A fresh registry over the same database sees the stored node.
	fresh := NewRegistry(NewSQLiteRepository(db.DB))
	require.NoError(t, fresh.RefreshCache(ctx))

	n, ok := fresh.Snapshot().Node("N1")
	require.True(t, ok)
	d, ok := n.Device("sw")
	require.True(t, ok)
	assert.Equal(t, "Switch", d.Label())
}

func TestRegistry_Concurrent(t *testing.T) {
	reg := NewRegistry(NewMockRepository())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i))
			_ = reg.SaveNode(ctx, testNode(id)) //nolint:errcheck // exercised for races
			_ = reg.Snapshot().Len()
			_ = reg.ListNodes()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 8, reg.NodeCount())
}
