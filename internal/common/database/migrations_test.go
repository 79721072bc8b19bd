package database

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadMigrations_OrdersByNumericPrefix(t *testing.T) {
	vfs := fstest.MapFS{
		"002_add_index.sql":      {Data: []byte("CREATE INDEX idx ON t (c);")},
		"001_initial_schema.sql": {Data: []byte("CREATE TABLE t (c int);")},
		"010_widen_column.sql":   {Data: []byte("ALTER TABLE t ALTER COLUMN c TYPE bigint;")},
	}

	migrations, err := ReadMigrations(vfs)
	require.NoError(t, err)
	require.Len(t, migrations, 3)

	assert.Equal(t, 1, migrations[0].id)
	assert.Equal(t, "001_initial_schema.sql", migrations[0].name)
	assert.Equal(t, "CREATE TABLE t (c int);", migrations[0].sql)
	assert.Equal(t, 2, migrations[1].id)
	assert.Equal(t, 10, migrations[2].id)
}

func TestReadMigrations_IgnoresNonSqlFiles(t *testing.T) {
	vfs := fstest.MapFS{
		"001_initial_schema.sql": {Data: []byte("CREATE TABLE t (c int);")},
		"README.md":              {Data: []byte("notes")},
	}

	migrations, err := ReadMigrations(vfs)
	require.NoError(t, err)
	assert.Len(t, migrations, 1)
}

func TestReadMigrations_RejectsMissingNumericPrefix(t *testing.T) {
	vfs := fstest.MapFS{
		"initial_schema.sql": {Data: []byte("CREATE TABLE t (c int);")},
	}

	_, err := ReadMigrations(vfs)
	assert.ErrorContains(t, err, "numeric prefix")
}
