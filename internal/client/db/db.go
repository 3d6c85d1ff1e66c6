package db

import (
	"database/sql"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Client owns the connection pool shared by every repository.
type Client interface {
	DB() *sql.DB
	Driver() string
	Close() error
}
