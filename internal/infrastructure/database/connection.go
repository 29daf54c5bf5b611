// Package database opens connections to the migration target. One package
// registers every supported driver so the CLI can reach any dialect.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/microsoft/go-mssqldb"

	"github.com/consentbase/schemasync/pkg/dialect"
)

// Config describes the migration target connection
type Config struct {
	Dialect  dialect.Dialect
	Host     string
	Port     string
	User     string
	Password string
	Database string

	// Path is the database file, SQLite only
	Path string
}

// ConfigFromEnv reads the connection settings from the environment
func ConfigFromEnv() (Config, error) {
	d, err := dialect.ParseDialect(envOr("DB_DIALECT", "mysql"))
	if err != nil {
		return Config{}, err
	}
	return Config{
		Dialect:  d,
		Host:     envOr("DB_HOST", "127.0.0.1"),
		Port:     os.Getenv("DB_PORT"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		Database: os.Getenv("DB_NAME"),
		Path:     os.Getenv("DB_PATH"),
	}, nil
}

// Open connects to the target database and verifies the connection
func Open(cfg Config) (*sql.DB, error) {
	driver, err := cfg.Dialect.DriverName()
	if err != nil {
		return nil, err
	}

	dsn, err := cfg.dsn()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.Dialect == dialect.SQLite {
		// A file database serializes writers anyway
		db.SetMaxOpenConns(1)
	} else {
		// MaxIdleConns matches MaxOpenConns so connections are not
		// closed and reopened under load, which exhausts ephemeral ports
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(5 * time.Minute)
		db.SetConnMaxIdleTime(3 * time.Minute)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func (cfg Config) dsn() (string, error) {
	switch cfg.Dialect {
	case dialect.MySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.User, cfg.Password, cfg.Host, portOr(cfg.Port, "3306"), cfg.Database), nil
	case dialect.Postgres:
		return fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
			cfg.User, cfg.Password, cfg.Host, portOr(cfg.Port, "5432"), cfg.Database), nil
	case dialect.SQLServer:
		return fmt.Sprintf("sqlserver://%s:%s@%s:%s?database=%s",
			cfg.User, cfg.Password, cfg.Host, portOr(cfg.Port, "1433"), cfg.Database), nil
	case dialect.SQLite:
		if cfg.Path == "" {
			return "", fmt.Errorf("sqlite requires DB_PATH")
		}
		return cfg.Path, nil
	}
	return "", fmt.Errorf("no DSN format for dialect '%s'", cfg.Dialect)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func portOr(port, fallback string) string {
	if port != "" {
		return port
	}
	return fallback
}
