package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/consentbase/schemasync/pkg/dialect"
	"github.com/consentbase/schemasync/pkg/introspect"
	"github.com/consentbase/schemasync/pkg/schema"
)

func consentSchema() schema.CanonicalSchema {
	return schema.CanonicalSchema{
		"subject": {
			Order: 1,
			Fields: map[string]schema.Field{
				"email": {Type: schema.TypeString, Unique: true},
			},
			FieldOrder: []string{"email"},
		},
		"consent_record": {
			Order: 2,
			Fields: map[string]schema.Field{
				"subject_id": {Type: schema.TypeString, Reference: &schema.Reference{Table: "subject"}},
				"granted":    {Type: schema.TypeBoolean},
			},
			FieldOrder: []string{"subject_id", "granted"},
		},
	}
}

func TestDiffEmptyDatabaseCreatesEverything(t *testing.T) {
	res := Diff(consentSchema(), nil, dialect.MySQL)

	assert.Len(t, res.Create, 2)
	assert.Empty(t, res.Add)
	// Referenced table first: ascending by (order, name)
	assert.Equal(t, "subject", res.Create[0].Name)
	assert.Equal(t, "consent_record", res.Create[1].Name)
}

func TestDiffExistingTableUntouched(t *testing.T) {
	live := []introspect.TableMetadata{
		{Name: "subject", Columns: []introspect.ColumnMetadata{
			{Name: "id", NativeType: "varchar"},
			{Name: "email", NativeType: "varchar"},
		}},
	}

	res := Diff(consentSchema(), live, dialect.MySQL)

	assert.Len(t, res.Create, 1)
	assert.Equal(t, "consent_record", res.Create[0].Name)
	assert.Empty(t, res.Add, "complete live table must produce no column additions")
}

func TestDiffMissingColumn(t *testing.T) {
	live := []introspect.TableMetadata{
		{Name: "subject", Columns: []introspect.ColumnMetadata{
			{Name: "id", NativeType: "varchar"},
		}},
		{Name: "consent_record", Columns: []introspect.ColumnMetadata{
			{Name: "id", NativeType: "varchar"},
			{Name: "subject_id", NativeType: "varchar"},
			{Name: "granted", NativeType: "tinyint"},
		}},
	}

	res := Diff(consentSchema(), live, dialect.MySQL)

	assert.Empty(t, res.Create)
	assert.Len(t, res.Add, 1)
	assert.Equal(t, "subject", res.Add[0].Table)
	assert.Equal(t, []string{"email"}, res.Add[0].FieldOrder)
}

func TestDiffIdempotentOnMigratedDatabase(t *testing.T) {
	live := []introspect.TableMetadata{
		{Name: "subject", Columns: []introspect.ColumnMetadata{
			{Name: "id", NativeType: "varchar"},
			{Name: "email", NativeType: "varchar"},
		}},
		{Name: "consent_record", Columns: []introspect.ColumnMetadata{
			{Name: "id", NativeType: "varchar"},
			{Name: "subject_id", NativeType: "varchar"},
			{Name: "granted", NativeType: "tinyint"},
		}},
	}

	res := Diff(consentSchema(), live, dialect.MySQL)
	assert.True(t, res.Empty(), "diff against a migrated database must be empty")
}

func TestDiffTypeMismatchWarnsOnly(t *testing.T) {
	live := []introspect.TableMetadata{
		{Name: "subject", Columns: []introspect.ColumnMetadata{
			{Name: "id", NativeType: "varchar"},
			{Name: "email", NativeType: "datetime"},
		}},
	}

	s := schema.CanonicalSchema{
		"subject": consentSchema()["subject"],
	}
	res := Diff(s, live, dialect.MySQL)

	// No corrective action of any kind: warn and leave the column alone
	assert.Empty(t, res.Create)
	assert.Empty(t, res.Add)
	assert.Len(t, res.Mismatches, 1)
	assert.Equal(t, "subject", res.Mismatches[0].Table)
	assert.Equal(t, "email", res.Mismatches[0].Column)
	assert.Equal(t, "datetime", res.Mismatches[0].LiveType)
}

func TestDiffIgnoresLiveOnlyTables(t *testing.T) {
	live := []introspect.TableMetadata{
		{Name: "legacy_audit_log", Columns: []introspect.ColumnMetadata{
			{Name: "id", NativeType: "varchar"},
		}},
	}

	res := Diff(schema.CanonicalSchema{}, live, dialect.MySQL)
	assert.True(t, res.Empty(), "live tables absent from the schema are never touched")
}

func TestDiffTableNameMatchIsCaseInsensitive(t *testing.T) {
	live := []introspect.TableMetadata{
		{Name: "SUBJECT", Columns: []introspect.ColumnMetadata{
			{Name: "ID", NativeType: "varchar"},
			{Name: "EMAIL", NativeType: "varchar"},
		}},
	}

	s := schema.CanonicalSchema{"subject": consentSchema()["subject"]}
	res := Diff(s, live, dialect.MySQL)
	assert.True(t, res.Empty())
}

func TestDiffSkipsTableWithMalformedFields(t *testing.T) {
	s := schema.CanonicalSchema{
		"broken": {
			Fields: map[string]schema.Field{"name": {Type: "varchar"}},
		},
		"subject": consentSchema()["subject"],
	}

	res := Diff(s, nil, dialect.MySQL)

	// The malformed table is skipped, the rest still diffs
	assert.Len(t, res.Create, 1)
	assert.Equal(t, "subject", res.Create[0].Name)
}

func TestDiffZeroFieldTable(t *testing.T) {
	s := schema.CanonicalSchema{"audit_marker": {Order: 1}}
	res := Diff(s, nil, dialect.Postgres)
	assert.Len(t, res.Create, 1)
	assert.Empty(t, res.Create[0].Def.Fields)
}
