package automation

import (
	"context"
	"testing"

	"github.com/nerrad567/gray-logic-companion/internal/catalog"
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

// testCatalog returns a lighting node N1 and a sensor node S1.
func testCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Node{
		{
			ID:   "N1",
			Name: "Hallway",
			Devices: []catalog.Device{
				{
					Key:         "sw",
					DisplayName: "Switch",
					Params: []catalog.Param{
						{Key: "power", DataType: catalog.DataTypeBool},
					},
				},
				{
					Key:         "bulb",
					DisplayName: "Bulb",
					Params: []catalog.Param{
						{Key: "power", DataType: catalog.DataTypeBool},
						{Key: "brightness", DataType: catalog.DataTypeInt},
					},
				},
			},
		},
		{
			ID:   "S1",
			Name: "Landing",
			Devices: []catalog.Device{
				{
					Key:         "th",
					DisplayName: "Sensor",
					Params: []catalog.Param{
						{Key: "temp", DataType: catalog.DataTypeFloat},
						{Key: "hum", DataType: catalog.DataTypeInt},
					},
				},
				{
					Key: "raw",
					Params: []catalog.Param{
						{Key: "mode", DataType: catalog.DataTypeString},
					},
				},
			},
		},
	})
}

func check(op string) *string { return &op }

// testAutomation is owned by S1 and switches N1 on when it gets warm.
func testAutomation(id string) *Automation {
	return &Automation{
		ID:            id,
		Name:          "Warm landing",
		Enabled:       true,
		NodeID:        "S1",
		EventOperator: EventOperatorAnd,
		Events: []EventEntry{
			{Params: ParamValues{"th": {"temp": FloatValue(30)}}, Check: check(">")},
		},
		Actions: []ActionEntry{
			{NodeID: "N1", Params: ParamValues{"sw": {"power": BoolValue(true)}}},
		},
	}
}
