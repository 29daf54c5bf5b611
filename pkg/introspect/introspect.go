// Package introspect reads the live structure of an already-provisioned
// database: the ground truth the differ compares the declared schema against.
package introspect

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/consentbase/schemasync/pkg/dialect"
	"github.com/consentbase/schemasync/pkg/errors"
)

// ColumnMetadata is one live column with its native-type spelling
type ColumnMetadata struct {
	Name       string
	NativeType string
	Nullable   bool
}

// TableMetadata is one live table. Read-only ground truth to the engine.
type TableMetadata struct {
	Name    string
	Columns []ColumnMetadata
}

// Column finds a column by name, case-insensitively
func (t TableMetadata) Column(name string) (ColumnMetadata, bool) {
	for _, col := range t.Columns {
		if strings.EqualFold(col.Name, name) {
			return col, true
		}
	}
	return ColumnMetadata{}, false
}

// Provider returns the live table metadata for the target schema/catalog
type Provider interface {
	Tables(ctx context.Context) ([]TableMetadata, error)
}

type sqlProvider struct {
	db *sql.DB
	d  dialect.Dialect
}

// NewProvider creates an introspection provider for one connection
func NewProvider(db *sql.DB, d dialect.Dialect) (Provider, error) {
	if db == nil {
		return nil, errors.NewMissingConnectionError("introspection connection")
	}
	if !d.Valid() {
		return nil, errors.NewUnsupportedDialectError(d.String())
	}
	return &sqlProvider{db: db, d: d}, nil
}

func (p *sqlProvider) Tables(ctx context.Context) ([]TableMetadata, error) {
	if p.d == dialect.SQLite {
		return p.sqliteTables(ctx)
	}
	return p.informationSchemaTables(ctx)
}

// informationSchemaTables reads INFORMATION_SCHEMA.COLUMNS, scoped to the
// connection's current schema/catalog
func (p *sqlProvider) informationSchemaTables(ctx context.Context) ([]TableMetadata, error) {
	var query string
	switch p.d {
	case dialect.MySQL:
		query = `
			SELECT TABLE_NAME, COLUMN_NAME, DATA_TYPE, IS_NULLABLE
			FROM INFORMATION_SCHEMA.COLUMNS
			WHERE TABLE_SCHEMA = DATABASE()
			ORDER BY TABLE_NAME, ORDINAL_POSITION
		`
	case dialect.Postgres:
		query = `
			SELECT table_name, column_name, data_type, is_nullable
			FROM information_schema.columns
			WHERE table_schema = current_schema()
			ORDER BY table_name, ordinal_position
		`
	case dialect.SQLServer:
		query = `
			SELECT TABLE_NAME, COLUMN_NAME, DATA_TYPE, IS_NULLABLE
			FROM INFORMATION_SCHEMA.COLUMNS
			WHERE TABLE_SCHEMA = SCHEMA_NAME()
			ORDER BY TABLE_NAME, ORDINAL_POSITION
		`
	default:
		return nil, errors.NewUnsupportedDialectError(p.d.String())
	}

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query information schema: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tables []TableMetadata
	byName := make(map[string]int)

	for rows.Next() {
		var tableName, columnName, dataType, isNullable string
		if err := rows.Scan(&tableName, &columnName, &dataType, &isNullable); err != nil {
			return nil, fmt.Errorf("failed to scan column metadata: %w", err)
		}
		idx, ok := byName[tableName]
		if !ok {
			tables = append(tables, TableMetadata{Name: tableName})
			idx = len(tables) - 1
			byName[tableName] = idx
		}
		tables[idx].Columns = append(tables[idx].Columns, ColumnMetadata{
			Name:       columnName,
			NativeType: dataType,
			Nullable:   strings.EqualFold(isNullable, "YES"),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read column metadata: %w", err)
	}

	return tables, nil
}

// sqliteTables walks sqlite_master and PRAGMA table_info per table
func (p *sqlProvider) sqliteTables(ctx context.Context) ([]TableMetadata, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sqlite tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan sqlite table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sqlite tables: %w", err)
	}

	var tables []TableMetadata
	for _, name := range names {
		table, err := p.sqliteTableInfo(ctx, name)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, nil
}

func (p *sqlProvider) sqliteTableInfo(ctx context.Context, name string) (TableMetadata, error) {
	rows, err := p.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%q)", name))
	if err != nil {
		return TableMetadata{}, fmt.Errorf("failed to read table info for %s: %w", name, err)
	}
	defer func() { _ = rows.Close() }()

	table := TableMetadata{Name: name}
	for rows.Next() {
		var (
			cid        int
			colName    string
			colType    string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &colName, &colType, &notNull, &defaultVal, &pk); err != nil {
			return TableMetadata{}, fmt.Errorf("failed to scan table info for %s: %w", name, err)
		}
		table.Columns = append(table.Columns, ColumnMetadata{
			Name:       colName,
			NativeType: colType,
			Nullable:   notNull == 0,
		})
	}
	if err := rows.Err(); err != nil {
		return TableMetadata{}, fmt.Errorf("failed to read table info for %s: %w", name, err)
	}
	return table, nil
}
