// Package database provides SQLite connectivity for Gray Logic Companion.
//
// This package manages:
//   - Database connection with WAL mode for concurrent access
//   - Versioned schema migrations loaded from an fs.FS
//   - Connection lifecycle and health checks
//
// All queries use parameterised statements and the database file is
// created with 0600 permissions.
//
// Usage:
//
//	db, err := database.Open(ctx, database.Config{Path: cfg.Database.Path, WALMode: true})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx, migrations.Source); err != nil {
//	    return err
//	}
//
// Migration files are named YYYYMMDD_HHMMSS_description.{up,down}.sql.
// New columns must be NULLABLE or carry a DEFAULT so older binaries keep working.
package database
