package database

import (
	"context"
	"embed"
	"testing"
	"testing/fstest"
	"time"
)

//go:embed testdata/*.sql
var testMigrationsFS embed.FS

// testSource points at the two fixture migrations in testdata/.
var testSource = Source{FS: testMigrationsFS, Dir: "testdata"}

// TestMigrate verifies migration application.
func TestMigrate(t *testing.T) {
	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Migrate(ctx, testSource); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	// Second migration added the colour column
	if _, err := db.ExecContext(ctx,
		"INSERT INTO test_widgets (id, label, colour) VALUES (?, ?, ?)", "w1", "Widget", "red",
	); err != nil {
		t.Fatalf("insert after migration: %v", err)
	}

	applied, pending, err := db.GetMigrationStatus(ctx, testSource)
	if err != nil {
		t.Fatalf("GetMigrationStatus() error = %v", err)
	}
	if len(applied) != 2 {
		t.Errorf("expected 2 applied migrations, got %d", len(applied))
	}
	if len(pending) != 0 {
		t.Errorf("expected 0 pending migrations, got %d", len(pending))
	}

	// Running again should be idempotent
	if err := db.Migrate(ctx, testSource); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
}

// TestMigrateDown verifies rollback of the newest migration.
func TestMigrateDown(t *testing.T) {
	src := Source{FS: fstest.MapFS{
		"20261001_100000_create_widgets.up.sql":   {Data: []byte("CREATE TABLE test_widgets (id TEXT PRIMARY KEY);")},
		"20261001_100000_create_widgets.down.sql": {Data: []byte("DROP TABLE test_widgets;")},
	}}

	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	ctx := context.Background()

	if err := db.Migrate(ctx, src); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if err := db.MigrateDown(ctx, src); err != nil {
		t.Fatalf("MigrateDown() error = %v", err)
	}

	var count int
	if err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='test_widgets'",
	).Scan(&count); err != nil {
		t.Fatalf("query error: %v", err)
	}
	if count != 0 {
		t.Error("table test_widgets should have been dropped")
	}

	applied, _, err := db.GetMigrationStatus(ctx, src)
	if err != nil {
		t.Fatalf("GetMigrationStatus() error = %v", err)
	}
	if len(applied) != 0 {
		t.Errorf("expected 0 applied migrations after rollback, got %d", len(applied))
	}
}

// TestMigrateDown_NoDownSQL verifies rollback refuses a one-way migration.
func TestMigrateDown_NoDownSQL(t *testing.T) {
	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	ctx := context.Background()
	if err := db.Migrate(ctx, testSource); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	// 20261002_110000 has no .down.sql
	if err := db.MigrateDown(ctx, testSource); err == nil {
		t.Error("MigrateDown() expected error for migration without down SQL")
	}
}

// TestMigrateNoMigrations verifies behaviour with no migrations.
func TestMigrateNoMigrations(t *testing.T) {
	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	if err := db.Migrate(context.Background(), Source{}); err != nil {
		t.Fatalf("Migrate() with no migrations error = %v", err)
	}
}

// TestMigrateFailureRollsBack verifies a broken migration leaves no record.
func TestMigrateFailureRollsBack(t *testing.T) {
	src := Source{FS: fstest.MapFS{
		"20261001_100000_broken.up.sql": {Data: []byte("CREATE TABLE oops (")},
	}}

	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	ctx := context.Background()
	if err := db.Migrate(ctx, src); err == nil {
		t.Fatal("Migrate() expected error for invalid SQL")
	}

	_, pending, err := db.GetMigrationStatus(ctx, src)
	if err != nil {
		t.Fatalf("GetMigrationStatus() error = %v", err)
	}
	if len(pending) != 1 {
		t.Errorf("expected broken migration to stay pending, got %d pending", len(pending))
	}
}

// TestGetMigrationStatus verifies status reporting before migrating.
func TestGetMigrationStatus(t *testing.T) {
	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	applied, pending, err := db.GetMigrationStatus(context.Background(), testSource)
	if err != nil {
		t.Fatalf("GetMigrationStatus() error = %v", err)
	}
	if len(applied) != 0 {
		t.Errorf("expected 0 applied, got %d", len(applied))
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending, got %d", len(pending))
	}
	if pending[0].Version != "20261001_100000" || pending[1].Version != "20261002_110000" {
		t.Errorf("pending not sorted by version: %s, %s", pending[0].Version, pending[1].Version)
	}
}

// TestParseMigrationFilename verifies filename parsing.
func TestParseMigrationFilename(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		wantVersion string
		wantIsUp    bool
		wantOk      bool
	}{
		{
			name:        "valid up migration",
			filename:    "20261014_090000_catalog.up.sql",
			wantVersion: "20261014_090000",
			wantIsUp:    true,
			wantOk:      true,
		},
		{
			name:        "valid down migration",
			filename:    "20261014_090000_catalog.down.sql",
			wantVersion: "20261014_090000",
			wantIsUp:    false,
			wantOk:      true,
		},
		{name: "not sql file", filename: "readme.txt"},
		{name: "missing direction", filename: "20261014_090000_catalog.sql"},
		{name: "invalid format", filename: "invalid.up.sql"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version, isUp, ok := parseMigrationFilename(tt.filename)
			if ok != tt.wantOk {
				t.Errorf("ok = %v, want %v", ok, tt.wantOk)
			}
			if ok {
				if version != tt.wantVersion {
					t.Errorf("version = %v, want %v", version, tt.wantVersion)
				}
				if isUp != tt.wantIsUp {
					t.Errorf("isUp = %v, want %v", isUp, tt.wantIsUp)
				}
			}
		})
	}
}

// TestExtractMigrationName verifies name extraction.
func TestExtractMigrationName(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"20261014_090000_catalog.up.sql", "catalog"},
		{"20261014_090100_automation_records.down.sql", "automation_records"},
		{"short.sql", "short"},
	}

	for _, tt := range tests {
		if got := extractMigrationName(tt.filename); got != tt.want {
			t.Errorf("extractMigrationName(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}
