package catalog

import (
	"context"
	"testing"

	"github.com/nerrad567/gray-logic-companion/internal/infrastructure/database"
	"github.com/nerrad567/gray-logic-companion/migrations"
)

// setupTestDB opens an in-memory database with the production schema.
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	ctx := context.Background()
	db, err := database.Open(ctx, database.Config{Path: database.MemoryPath, BusyTimeout: 1})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	if err := db.Migrate(ctx, migrations.Source); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// testNode builds a node with a switch and a bulb.
func testNode(id string) *Node {
	return &Node{
		ID:              id,
		Name:            "Hallway",
		Type:            "lighting",
		FirmwareVersion: "1.2.0",
		Devices: []Device{
			{
				Key:         "sw",
				DisplayName: "Switch",
				Type:        "switch",
				Primary:     "power",
				Params: []Param{
					{Key: "power", DisplayName: "Power", DataType: DataTypeBool, Properties: []string{"read", "write"}, UIType: "toggle"},
				},
			},
			{
				Key:         "bulb",
				DisplayName: "Bulb",
				Params: []Param{
					{Key: "power", DataType: DataTypeBool},
					{Key: "brightness", DataType: DataTypeInt, UIType: "slider"},
				},
			},
		},
	}
}
