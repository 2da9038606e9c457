// Package storetest opens throwaway SQLite-backed stores for tests.
package storetest

import (
	"cuentas_claras/internal/config"
	"cuentas_claras/internal/repositories/sqlconnect"
	"cuentas_claras/internal/repositories/store"
	"path/filepath"
	"testing"
)

// New returns a migrated store in a temp directory that is removed when the
// test ends.
func New(t testing.TB) *store.Store {
	t.Helper()

	cfg := &config.Config{
		DBDriver:     sqlconnect.DriverSQLite,
		SQLiteDBPath: filepath.Join(t.TempDir(), "ledger.db"),
	}

	db, err := sqlconnect.ConnectDb(cfg)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return store.New(db, store.DialectSQLite)
}
