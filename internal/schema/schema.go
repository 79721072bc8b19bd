// Package schema holds the election-results database migrations.
package schema

import (
	"embed"
	"io/fs"

	"github.com/tallyhq/tallybench/internal/common/database"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

func TallybenchMigrations() ([]database.Migration, error) {
	vfs, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		return nil, err
	}
	return database.ReadMigrations(vfs)
}
