package automation

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Repository defines the interface for automation persistence.
// This abstraction allows SQLite in production and mocks in tests.
type Repository interface {
	// GetByID retrieves an automation by ID.
	// Returns ErrAutomationNotFound if it does not exist.
	GetByID(ctx context.Context, id string) (*Automation, error)

	// List retrieves all automations ordered by name then ID.
	List(ctx context.Context) ([]Automation, error)

	// Upsert inserts an automation or replaces the one with the same ID.
	// CreatedAt is kept from the first insert; UpdatedAt is set to now.
	Upsert(ctx context.Context, a *Automation) error

	// Delete removes an automation by ID.
	// Returns ErrAutomationNotFound if it does not exist.
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

const selectAutomationColumns = `
	SELECT id, name, enabled, node_id, event_operator, events, actions,
		retrigger, metadata, created_at, updated_at
	FROM automations`

// GetByID retrieves an automation by ID.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Automation, error) {
	row := r.db.QueryRowContext(ctx, selectAutomationColumns+` WHERE id = ?`, id)
	a, err := scanAutomation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAutomationNotFound
		}
		return nil, fmt.Errorf("querying automation by id: %w", err)
	}
	return a, nil
}

// List retrieves all automations ordered by name then ID.
func (r *SQLiteRepository) List(ctx context.Context) ([]Automation, error) {
	rows, err := r.db.QueryContext(ctx, selectAutomationColumns+` ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("querying automations: %w", err)
	}
	defer rows.Close()

	var automations []Automation
	for rows.Next() {
		a, err := scanAutomation(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning automation: %w", err)
		}
		automations = append(automations, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating automations: %w", err)
	}
	return automations, nil
}

// Upsert inserts or replaces an automation.
func (r *SQLiteRepository) Upsert(ctx context.Context, a *Automation) error {
	eventsJSON, err := marshalJSONColumn(a.Events, "[]")
	if err != nil {
		return fmt.Errorf("marshalling events: %w", err)
	}
	actionsJSON, err := marshalJSONColumn(a.Actions, "[]")
	if err != nil {
		return fmt.Errorf("marshalling actions: %w", err)
	}
	metadataJSON, err := marshalJSONColumn(a.Metadata, "{}")
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now

	query := `
		INSERT INTO automations (id, name, enabled, node_id, event_operator, events,
			actions, retrigger, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			enabled = excluded.enabled,
			node_id = excluded.node_id,
			event_operator = excluded.event_operator,
			events = excluded.events,
			actions = excluded.actions,
			retrigger = excluded.retrigger,
			metadata = excluded.metadata,
			updated_at = excluded.updated_at
		RETURNING created_at`

	var createdAt string
	err = r.db.QueryRowContext(ctx, query,
		a.ID,
		a.Name,
		boolToInt(a.Enabled),
		a.NodeID,
		string(a.EventOperator),
		eventsJSON,
		actionsJSON,
		boolToInt(a.Retrigger),
		metadataJSON,
		a.CreatedAt.UTC().Format(time.RFC3339),
		a.UpdatedAt.Format(time.RFC3339),
	).Scan(&createdAt)
	if err != nil {
		return fmt.Errorf("upserting automation: %w", err)
	}

	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		a.CreatedAt = t
	}
	return nil
}

// Delete removes an automation by ID.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM automations WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting automation: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrAutomationNotFound
	}
	return nil
}

// rowScanner is an interface that sql.Row and sql.Rows both implement.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAutomation(scanner rowScanner) (*Automation, error) {
	var a Automation
	var enabled, retrigger int
	var eventOperator, eventsJSON, actionsJSON, metadataJSON string
	var createdAt, updatedAt string

	if err := scanner.Scan(
		&a.ID,
		&a.Name,
		&enabled,
		&a.NodeID,
		&eventOperator,
		&eventsJSON,
		&actionsJSON,
		&retrigger,
		&metadataJSON,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	a.Enabled = enabled != 0
	a.Retrigger = retrigger != 0
	a.EventOperator = EventOperator(eventOperator)

	var err error
	if a.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if a.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	if err := json.Unmarshal([]byte(eventsJSON), &a.Events); err != nil {
		return nil, fmt.Errorf("unmarshalling events: %w", err)
	}
	if err := json.Unmarshal([]byte(actionsJSON), &a.Actions); err != nil {
		return nil, fmt.Errorf("unmarshalling actions: %w", err)
	}
	if err := json.Unmarshal([]byte(metadataJSON), &a.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshalling metadata: %w", err)
	}
	if len(a.Metadata) == 0 {
		a.Metadata = nil
	}

	return &a, nil
}

// marshalJSONColumn encodes v, storing empty when v is nil or empty.
func marshalJSONColumn(v any, empty string) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if string(data) == "null" {
		return empty, nil
	}
	return string(data), nil
}

// boolToInt converts a boolean to 0/1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
