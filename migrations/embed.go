// Package migrations embeds the companion's SQL migration files into the binary.
//
// The files are compiled into the executable so migrations run without the
// SQL being present on disk.
package migrations

import (
	"embed"

	"github.com/nerrad567/gray-logic-companion/internal/infrastructure/database"
)

//go:embed *.sql
var files embed.FS

// Source is the migration source for the companion schema.
var Source = database.Source{FS: files, Dir: "."}
