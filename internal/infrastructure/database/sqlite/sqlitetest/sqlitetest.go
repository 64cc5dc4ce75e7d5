// Package sqlitetest provides a throwaway SQLite database for tests of
// packages that sit on top of the sqlite repositories.
package sqlitetest

import (
	"path/filepath"
	"testing"

	"remindme/internal/infrastructure/database/sqlite"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB opens a migrated SQLite database in a temporary directory.
// The database is closed when the test completes.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), false)
	require.NoError(t, err, "failed to create test database")

	t.Cleanup(func() {
		_ = sqlite.Close(db)
	})
	return db
}
