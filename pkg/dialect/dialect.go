// Package dialect holds all dialect-specific type knowledge: resolving a
// field's native column type and testing whether a live column type is
// equivalent to a field's logical type.
package dialect

import (
	"strings"

	"github.com/consentbase/schemasync/pkg/errors"
)

// Dialect identifies one target relational database's SQL variant and type
// system. The set is closed; every switch over Dialect in this package is
// exhaustive so adding a dialect is a compile-time-visible change.
type Dialect int

const (
	unknown Dialect = iota
	Postgres
	MySQL
	SQLite
	SQLServer
)

// Valid reports whether d is one of the supported dialects
func (d Dialect) Valid() bool {
	switch d {
	case Postgres, MySQL, SQLite, SQLServer:
		return true
	}
	return false
}

func (d Dialect) String() string {
	switch d {
	case Postgres:
		return "postgres"
	case MySQL:
		return "mysql"
	case SQLite:
		return "sqlite"
	case SQLServer:
		return "sqlserver"
	}
	return "unknown"
}

// DriverName returns the database/sql driver name registered for d
func (d Dialect) DriverName() (string, error) {
	switch d {
	case Postgres:
		return "pgx", nil
	case MySQL:
		return "mysql", nil
	case SQLite:
		return "sqlite3", nil
	case SQLServer:
		return "sqlserver", nil
	}
	return "", errors.NewUnsupportedDialectError(d.String())
}

// ParseDialect resolves a dialect name, accepting common synonyms
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "postgres", "postgresql", "pg", "pgx":
		return Postgres, nil
	case "mysql", "mariadb", "tidb":
		return MySQL, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "sqlserver", "mssql":
		return SQLServer, nil
	}
	return unknown, errors.NewUnsupportedDialectError(name)
}

// All returns the supported dialects, for exhaustive tests
func All() []Dialect {
	return []Dialect{Postgres, MySQL, SQLite, SQLServer}
}
