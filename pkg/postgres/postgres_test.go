package postgres

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/device-loans/pkg/db"
)

func TestPendingMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/002_more.sql":  {Data: []byte("SELECT 2")},
		"migrations/001_init.sql":  {Data: []byte("SELECT 1")},
		"migrations/README.md":     {Data: []byte("notes")},
		"migrations/003_later.sql": {Data: []byte("SELECT 3")},
	}

	pending, err := pendingMigrations(fsys, map[string]bool{"001_init.sql": true})
	require.NoError(t, err)
	assert.Equal(t, []string{"002_more.sql", "003_later.sql"}, pending)
}

func TestEmbeddedMigrationsAreOrdered(t *testing.T) {
	pending, err := pendingMigrations(migrationsFS, nil)
	require.NoError(t, err)
	require.NotEmpty(t, pending)
	assert.Equal(t, "001_init.sql", pending[0])
}

func TestMapWriteError(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
	assert.True(t, errors.Is(mapWriteError(unique), db.ErrConflict))

	fk := &pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"}
	assert.True(t, errors.Is(mapWriteError(fk), db.ErrConflict))

	other := errors.New("connection reset")
	assert.Equal(t, other, mapWriteError(other))
}

func TestExpectRows(t *testing.T) {
	assert.NoError(t, expectRows(pgconn.NewCommandTag("UPDATE 3"), 3, "resources"))

	err := expectRows(pgconn.NewCommandTag("UPDATE 2"), 3, "resources")
	require.Error(t, err)
	assert.ErrorIs(t, err, db.ErrConflict)
	assert.Contains(t, err.Error(), "affected 2 rows, expected 3")
}
