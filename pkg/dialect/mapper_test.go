package dialect

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/consentbase/schemasync/pkg/schema"
)

func TestResolveColumnTypeRoundTrip(t *testing.T) {
	// For every supported logical type and dialect, the resolved native
	// type must be accepted back as equivalent.
	logicalTypes := []schema.LogicalType{
		schema.TypeString, schema.TypeNumber, schema.TypeBoolean, schema.TypeDate,
		schema.TypeTimezone, schema.TypeJSON, schema.TypeStringArray, schema.TypeNumberArray,
	}

	variants := []schema.Field{
		{},
		{Unique: true},
		{BigInt: true},
		{Reference: &schema.Reference{Table: "subject"}},
	}

	for _, d := range All() {
		for _, lt := range logicalTypes {
			for _, variant := range variants {
				field := variant
				field.Type = lt
				name := fmt.Sprintf("%s/%s/unique=%v/bigint=%v/ref=%v",
					d, lt, field.Unique, field.BigInt, field.Reference != nil)
				t.Run(name, func(t *testing.T) {
					native, err := ResolveColumnType(field, d)
					assert.NoError(t, err)
					assert.NotEmpty(t, native)
					assert.True(t, TypesEquivalent(native, field, d),
						"resolved type %q should round-trip for %s on %s", native, lt, d)
				})
			}
		}
	}
}

func TestResolveColumnTypeStringVariants(t *testing.T) {
	plain := schema.Field{Type: schema.TypeString}
	unique := schema.Field{Type: schema.TypeString, Unique: true}
	ref := schema.Field{Type: schema.TypeString, Reference: &schema.Reference{Table: "subject"}}

	got, _ := ResolveColumnType(plain, Postgres)
	assert.Equal(t, "TEXT", got)
	got, _ = ResolveColumnType(plain, MySQL)
	assert.Equal(t, "LONGTEXT", got)
	got, _ = ResolveColumnType(plain, SQLServer)
	assert.Equal(t, "NVARCHAR(MAX)", got)

	// Unique strings are bounded so a unique index is legal
	got, _ = ResolveColumnType(unique, MySQL)
	assert.Equal(t, "VARCHAR(255)", got)
	got, _ = ResolveColumnType(unique, SQLServer)
	assert.Equal(t, "NVARCHAR(255)", got)

	// References are fixed-width id columns on every dialect
	for _, d := range All() {
		got, _ = ResolveColumnType(ref, d)
		assert.Equal(t, "VARCHAR(36)", got, "dialect %s", d)
	}
}

func TestResolveColumnTypeNumberWidening(t *testing.T) {
	number := schema.Field{Type: schema.TypeNumber}
	big := schema.Field{Type: schema.TypeNumber, BigInt: true}

	got, _ := ResolveColumnType(number, MySQL)
	assert.Equal(t, "INT", got)
	got, _ = ResolveColumnType(big, MySQL)
	assert.Equal(t, "BIGINT", got)
	got, _ = ResolveColumnType(big, Postgres)
	assert.Equal(t, "BIGINT", got)

	// SQLite INTEGER is already 64-bit
	got, _ = ResolveColumnType(big, SQLite)
	assert.Equal(t, "INTEGER", got)
}

func TestResolveColumnTypeTimezoneNeverNative(t *testing.T) {
	field := schema.Field{Type: schema.TypeTimezone}
	for _, d := range All() {
		got, err := ResolveColumnType(field, d)
		assert.NoError(t, err)
		assert.Equal(t, "VARCHAR(64)", got, "dialect %s", d)
	}
}

func TestResolveColumnTypeRejectsInvalidInput(t *testing.T) {
	_, err := ResolveColumnType(schema.Field{Type: "varchar"}, Postgres)
	assert.Error(t, err)

	_, err = ResolveColumnType(schema.Field{Type: schema.TypeString}, Dialect(99))
	assert.Error(t, err)
}

func TestTypesEquivalentSynonyms(t *testing.T) {
	number := schema.Field{Type: schema.TypeNumber}
	assert.True(t, TypesEquivalent("int4", number, Postgres))
	assert.True(t, TypesEquivalent("bigint", number, Postgres))
	assert.True(t, TypesEquivalent("INTEGER", number, Postgres), "check is case-insensitive")
	assert.False(t, TypesEquivalent("text", number, Postgres))

	boolean := schema.Field{Type: schema.TypeBoolean}
	assert.True(t, TypesEquivalent("tinyint(1)", boolean, MySQL))
	assert.False(t, TypesEquivalent("varchar(255)", boolean, MySQL))
}

func TestTypesEquivalentJSONMarker(t *testing.T) {
	arr := schema.Field{Type: schema.TypeStringArray}
	// A JSON marker anywhere in the live spelling counts for array types
	assert.True(t, TypesEquivalent("jsonb", arr, Postgres))
	assert.True(t, TypesEquivalent("JSON", arr, MySQL))
	assert.True(t, TypesEquivalent("longtext", arr, MySQL))
	assert.False(t, TypesEquivalent("int", arr, MySQL))
}

func TestParseDialect(t *testing.T) {
	cases := map[string]Dialect{
		"postgres":   Postgres,
		"PostgreSQL": Postgres,
		"mysql":      MySQL,
		"mariadb":    MySQL,
		"sqlite3":    SQLite,
		"mssql":      SQLServer,
		"sqlserver":  SQLServer,
	}
	for name, want := range cases {
		got, err := ParseDialect(name)
		assert.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseDialect("oracle")
	assert.Error(t, err)
}

func TestIDColumnType(t *testing.T) {
	assert.Equal(t, "VARCHAR(36)", IDColumnType(Postgres))
	assert.Equal(t, "VARCHAR(36)", IDColumnType(MySQL))
	assert.Equal(t, "VARCHAR(36)", IDColumnType(SQLServer))
	assert.Equal(t, "TEXT", IDColumnType(SQLite))
}
