package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Repository defines the interface for node persistence.
// This abstraction allows SQLite in production and fakes in tests.
type Repository interface {
	// GetByID retrieves a node by ID.
	// Returns ErrNodeNotFound if the node does not exist.
	GetByID(ctx context.Context, id string) (*Node, error)

	// List retrieves all nodes ordered by ID.
	List(ctx context.Context) ([]Node, error)

	// Upsert inserts a node or replaces the stored one with the same ID.
	// CreatedAt is kept from the first insert; UpdatedAt is set to now.
	Upsert(ctx context.Context, node *Node) error

	// Delete removes a node by ID.
	// Returns ErrNodeNotFound if the node does not exist.
	Delete(ctx context.Context, id string) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const selectNodeColumns = `SELECT id, name, type, fw_version, devices, created_at, updated_at FROM nodes`

// GetByID retrieves a node by ID.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Node, error) {
	row := r.db.QueryRowContext(ctx, selectNodeColumns+` WHERE id = ?`, id)
	node, err := scanNode(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNodeNotFound
		}
		return nil, fmt.Errorf("querying node by id: %w", err)
	}
	return node, nil
}

// List retrieves all nodes ordered by ID.
func (r *SQLiteRepository) List(ctx context.Context) ([]Node, error) {
	rows, err := r.db.QueryContext(ctx, selectNodeColumns+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying nodes: %w", err)
	}
	defer rows.Close()

	var nodes []Node
	for rows.Next() {
		node, err := scanNode(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning node: %w", err)
		}
		nodes = append(nodes, *node)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating nodes: %w", err)
	}
	return nodes, nil
}

// Upsert inserts or replaces a node.
func (r *SQLiteRepository) Upsert(ctx context.Context, node *Node) error {
	devicesJSON, err := json.Marshal(node.Devices)
	if err != nil {
		return fmt.Errorf("marshalling devices: %w", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	if node.CreatedAt.IsZero() {
		node.CreatedAt = now
	}
	node.UpdatedAt = now

	query := `
		INSERT INTO nodes (id, name, type, fw_version, devices, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			type = excluded.type,
			fw_version = excluded.fw_version,
			devices = excluded.devices,
			updated_at = excluded.updated_at
		RETURNING created_at`

	var createdAt string
	err = r.db.QueryRowContext(ctx, query,
		node.ID,
		node.Name,
		node.Type,
		node.FirmwareVersion,
		string(devicesJSON),
		node.CreatedAt.Format(time.RFC3339),
		node.UpdatedAt.Format(time.RFC3339),
	).Scan(&createdAt)
	if err != nil {
		return fmt.Errorf("upserting node: %w", err)
	}

	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		node.CreatedAt = t
	}
	return nil
}

// Delete removes a node by ID.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM nodes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting node: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNodeNotFound
	}
	return nil
}

// rowScanner is an interface that sql.Row and sql.Rows both implement.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanNode(scanner rowScanner) (*Node, error) {
	var n Node
	var devicesJSON, createdAt, updatedAt string

	if err := scanner.Scan(
		&n.ID,
		&n.Name,
		&n.Type,
		&n.FirmwareVersion,
		&devicesJSON,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if n.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if n.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	if err := json.Unmarshal([]byte(devicesJSON), &n.Devices); err != nil {
		return nil, fmt.Errorf("unmarshalling devices: %w", err)
	}
	return &n, nil
}
