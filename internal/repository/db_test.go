package repository_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/botstudio/botstudio/internal/repository"
)

func newTestDB(t *testing.T) *repository.DB {
	t.Helper()

	db, err := repository.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}
