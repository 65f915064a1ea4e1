// Package dbtest opens throw-away migrated databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hobbyfarm/quizfarm/pkg/database"
)

// New returns a migrated sqlite database stored under t.TempDir().
func New(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open("sqlite://" + filepath.Join(t.TempDir(), "quizfarm.db"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return db
}
