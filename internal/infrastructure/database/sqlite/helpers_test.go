package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "test.db"), false)
	require.NoError(t, err, "failed to create test database")

	t.Cleanup(func() {
		_ = Close(db)
	})
	return db
}
