// Package testutil builds throwaway stores for package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/database"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// NewDB opens a file-backed SQLite store under t.TempDir with the shared
// tables plus the given module models migrated.
func NewDB(t testing.TB, modelList ...interface{}) *gorm.DB {
	t.Helper()
	db, err := database.Open(sqlite.Open(filepath.Join(t.TempDir(), "nutrilife.db")))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.MigrateShared(db); err != nil {
		t.Fatalf("migrate shared: %v", err)
	}
	if err := database.MigrateModels(db, modelList); err != nil {
		t.Fatalf("migrate models: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
