package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Lina3386/kontos-bot/internal/client/db"
	_ "modernc.org/sqlite"
)

type sqliteClient struct {
	db *sql.DB
}

// New opens (creating if needed) the database file at path.
func New(ctx context.Context, path string) (db.Client, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create db directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	// a single connection serializes writers and keeps pragmas consistent
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	return &sqliteClient{db: sqlDB}, nil
}

func (c *sqliteClient) DB() *sql.DB {
	return c.db
}

func (c *sqliteClient) Driver() string {
	return db.DriverSQLite
}

func (c *sqliteClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}
