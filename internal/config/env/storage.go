package env

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/Lina3386/kontos-bot/internal/config"
)

const (
	dbDriverEnvName       = "DB_DRIVER"
	dbURLEnvName          = "DATABASE_URL"
	pgUserEnvName         = "DB_USER"
	pgPasswordEnvName     = "DB_PASSWORD"
	pgHostEnvName         = "DB_HOST"
	pgPortEnvName         = "DB_PORT"
	pgNameEnvName         = "DB_NAME"
	pgSSLModeEnvName      = "DB_SSLMODE"
	sqlitePathEnvName     = "SQLITE_DB_PATH"
	dbMaxOpenConnsEnvName = "DB_MAX_OPEN_CONNS"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultSQLitePath   = "./data/kontos.db"
	defaultMaxOpenConns = 10
)

type storageConfig struct {
	driver       string
	dsn          string
	maxOpenConns int
}

func NewStorageConfig() (config.StorageConfig, error) {
	driver := strings.ToLower(getEnv(dbDriverEnvName, DriverPostgres))

	maxOpen, err := getEnvInt(dbMaxOpenConnsEnvName, defaultMaxOpenConns)
	if err != nil {
		return nil, err
	}

	var dsn string
	switch driver {
	case DriverPostgres:
		dsn, err = postgresDSN()
		if err != nil {
			return nil, err
		}
	case DriverSQLite:
		dsn = getEnv(sqlitePathEnvName, defaultSQLitePath)
		// sqlite serializes writers; more than one open connection only adds lock contention
		maxOpen = 1
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	return &storageConfig{
		driver:       driver,
		dsn:          dsn,
		maxOpenConns: maxOpen,
	}, nil
}

func postgresDSN() (string, error) {
	if dsn := getEnv(dbURLEnvName, ""); dsn != "" {
		return dsn, nil
	}

	dbUser := getEnv(pgUserEnvName, "")
	dbPassword := getEnv(pgPasswordEnvName, "")
	dbName := getEnv(pgNameEnvName, "")
	if dbUser == "" || dbPassword == "" || dbName == "" {
		return "", errors.New("DB_USER, DB_PASSWORD, DB_NAME are required")
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(dbUser, dbPassword),
		Host:     net.JoinHostPort(getEnv(pgHostEnvName, "localhost"), getEnv(pgPortEnvName, "5432")),
		Path:     "/" + dbName,
		RawQuery: "sslmode=" + getEnv(pgSSLModeEnvName, "disable"),
	}
	return u.String(), nil
}

func (cfg *storageConfig) Driver() string {
	return cfg.driver
}

func (cfg *storageConfig) DSN() string {
	return cfg.dsn
}

func (cfg *storageConfig) MaxOpenConns() int {
	return cfg.maxOpenConns
}
