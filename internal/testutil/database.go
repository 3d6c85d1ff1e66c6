// Package testutil provides a migrated sqlite database for tests.
package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/Lina3386/kontos-bot/internal/client/db"
	"github.com/Lina3386/kontos-bot/internal/client/db/migrations"
	"github.com/Lina3386/kontos-bot/internal/client/db/sqlite"
)

// SetupTestDB opens a fresh sqlite file in t.TempDir() with the schema applied.
// The database is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()
	cl, err := sqlite.New(ctx, filepath.Join(t.TempDir(), "kontos_test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = cl.Close() })

	if err := migrations.Up(ctx, cl.DB(), db.DriverSQLite); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return cl.DB()
}
