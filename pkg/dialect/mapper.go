package dialect

import (
	"strings"

	"github.com/consentbase/schemasync/pkg/errors"
	"github.com/consentbase/schemasync/pkg/schema"
)

// Referenced rows carry UUID-format ids, so reference columns and the
// synthetic primary key are fixed at 36 characters.
const idWidth = "36"

// ResolveColumnType returns the dialect-native column type for a field
func ResolveColumnType(f schema.Field, d Dialect) (string, error) {
	if !d.Valid() {
		return "", errors.NewUnsupportedDialectError(d.String())
	}

	switch f.Type {
	case schema.TypeString:
		return resolveStringType(f, d), nil
	case schema.TypeNumber:
		return resolveNumberType(f, d), nil
	case schema.TypeBoolean:
		return resolveBooleanType(d), nil
	case schema.TypeDate:
		return resolveDateType(d), nil
	case schema.TypeTimezone:
		// IANA identifier, always a bounded string, never a native type
		return "VARCHAR(64)", nil
	case schema.TypeJSON, schema.TypeStringArray, schema.TypeNumberArray:
		// Arrays are serialized JSON, never native array columns
		return resolveJSONType(d), nil
	}
	return "", errors.NewValidationError("", "", "invalid logical type '"+string(f.Type)+"'")
}

func resolveStringType(f schema.Field, d Dialect) string {
	if f.Reference != nil {
		// Fixed-width id type sized for the referenced row's id format
		return "VARCHAR(" + idWidth + ")"
	}
	if f.Unique {
		// Bounded so a unique index is legal on every dialect
		switch d {
		case SQLServer:
			return "NVARCHAR(255)"
		default:
			return "VARCHAR(255)"
		}
	}
	switch d {
	case Postgres, SQLite:
		return "TEXT"
	case MySQL:
		return "LONGTEXT"
	case SQLServer:
		return "NVARCHAR(MAX)"
	}
	return "TEXT"
}

func resolveNumberType(f schema.Field, d Dialect) string {
	if d == SQLite {
		// SQLite INTEGER is already 64-bit
		return "INTEGER"
	}
	if f.BigInt {
		return "BIGINT"
	}
	switch d {
	case Postgres:
		return "INTEGER"
	case MySQL, SQLServer:
		return "INT"
	}
	return "INTEGER"
}

func resolveBooleanType(d Dialect) string {
	switch d {
	case Postgres:
		return "BOOLEAN"
	case MySQL:
		return "TINYINT(1)"
	case SQLite:
		return "INTEGER"
	case SQLServer:
		return "BIT"
	}
	return "BOOLEAN"
}

func resolveDateType(d Dialect) string {
	switch d {
	case Postgres:
		return "TIMESTAMPTZ"
	case MySQL, SQLite:
		return "DATETIME"
	case SQLServer:
		return "DATETIMEOFFSET"
	}
	return "TIMESTAMP"
}

func resolveJSONType(d Dialect) string {
	switch d {
	case Postgres:
		return "JSONB"
	case MySQL:
		return "JSON"
	case SQLite:
		return "TEXT"
	case SQLServer:
		return "NVARCHAR(MAX)"
	}
	return "TEXT"
}

// IDColumnType returns the type of the synthetic primary key per dialect
func IDColumnType(d Dialect) string {
	if d == SQLite {
		return "TEXT"
	}
	return "VARCHAR(" + idWidth + ")"
}

// TypesEquivalent reports whether a live column's native type is an accepted
// spelling of the field's logical type in the given dialect. This is a
// syntactic compatibility check: the answer is "close enough, leave alone"
// vs. "different, warn". No ALTER TYPE is ever derived from it.
func TypesEquivalent(liveType string, f schema.Field, d Dialect) bool {
	live := normalizeNativeType(liveType)
	if live == "" {
		return false
	}

	// Dialects without a native JSON type introspect JSON columns under a
	// text family name; a JSON marker anywhere in the live spelling also
	// counts for JSON-backed logical types.
	if f.Type == schema.TypeJSON || f.Type.IsArray() {
		if strings.Contains(live, "json") {
			return true
		}
	}

	for _, spelling := range acceptedSpellings(f.Type, d) {
		if live == spelling {
			return true
		}
	}
	return false
}

// normalizeNativeType lowercases a native spelling and strips any length or
// precision suffix: "VARCHAR(255)" -> "varchar"
func normalizeNativeType(nativeType string) string {
	s := strings.ToLower(strings.TrimSpace(nativeType))
	if i := strings.Index(s, "("); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return s
}

// acceptedSpellings returns the native spellings treated as equivalent to a
// logical type in one dialect. Dialects have synonyms (integer/int4/bigint)
// and introspection output differs from DDL spellings, so the sets are
// deliberately generous: a wrong "equivalent" only suppresses a warning,
// never a structural change.
func acceptedSpellings(t schema.LogicalType, d Dialect) []string {
	switch d {
	case Postgres:
		switch t {
		case schema.TypeString:
			return []string{"text", "varchar", "character varying", "character", "char", "bpchar", "citext"}
		case schema.TypeNumber:
			return []string{"integer", "int", "int4", "bigint", "int8", "smallint", "int2", "numeric", "decimal"}
		case schema.TypeBoolean:
			return []string{"boolean", "bool"}
		case schema.TypeDate:
			return []string{"timestamptz", "timestamp with time zone", "timestamp", "timestamp without time zone", "date"}
		case schema.TypeTimezone:
			return []string{"varchar", "character varying", "text"}
		case schema.TypeJSON, schema.TypeStringArray, schema.TypeNumberArray:
			return []string{"jsonb", "json", "text"}
		}
	case MySQL:
		switch t {
		case schema.TypeString:
			return []string{"longtext", "mediumtext", "text", "tinytext", "varchar", "char"}
		case schema.TypeNumber:
			return []string{"int", "integer", "bigint", "smallint", "mediumint", "tinyint", "decimal", "numeric"}
		case schema.TypeBoolean:
			return []string{"tinyint", "boolean", "bool", "bit"}
		case schema.TypeDate:
			return []string{"datetime", "timestamp", "date"}
		case schema.TypeTimezone:
			return []string{"varchar", "char", "text"}
		case schema.TypeJSON, schema.TypeStringArray, schema.TypeNumberArray:
			return []string{"json", "longtext"}
		}
	case SQLite:
		switch t {
		case schema.TypeString:
			return []string{"text", "varchar", "clob", "char"}
		case schema.TypeNumber:
			return []string{"integer", "int", "bigint", "numeric"}
		case schema.TypeBoolean:
			return []string{"integer", "int", "boolean", "tinyint"}
		case schema.TypeDate:
			return []string{"datetime", "timestamp", "text", "numeric"}
		case schema.TypeTimezone:
			return []string{"varchar", "text"}
		case schema.TypeJSON, schema.TypeStringArray, schema.TypeNumberArray:
			return []string{"text", "json", "clob"}
		}
	case SQLServer:
		switch t {
		case schema.TypeString:
			return []string{"nvarchar", "varchar", "text", "ntext", "char", "nchar"}
		case schema.TypeNumber:
			return []string{"int", "integer", "bigint", "smallint", "tinyint", "decimal", "numeric"}
		case schema.TypeBoolean:
			return []string{"bit", "tinyint"}
		case schema.TypeDate:
			return []string{"datetimeoffset", "datetime2", "datetime", "smalldatetime", "date"}
		case schema.TypeTimezone:
			return []string{"nvarchar", "varchar"}
		case schema.TypeJSON, schema.TypeStringArray, schema.TypeNumberArray:
			return []string{"nvarchar", "ntext", "varchar", "text"}
		}
	}
	return nil
}
