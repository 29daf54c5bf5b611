// Package diff compares the canonical schema against live introspection
// metadata. The comparison is pure and additive: it finds tables to create
// and columns to add, and only ever warns about type mismatches. Nothing is
// dropped, renamed or retyped.
package diff

import (
	"log"
	"strings"

	"github.com/consentbase/schemasync/pkg/dialect"
	"github.com/consentbase/schemasync/pkg/introspect"
	"github.com/consentbase/schemasync/pkg/schema"
)

// TableToCreate is a schema table with no live counterpart
type TableToCreate struct {
	Name string
	Def  schema.TableDefinition
}

// ColumnsToAdd accumulates the missing columns of one existing live table
type ColumnsToAdd struct {
	Table      string
	Fields     map[string]schema.Field
	FieldOrder []string
	Order      int
}

// TypeMismatch records a live column whose native type is not an accepted
// spelling of the declared logical type. Warning only; no ALTER TYPE is
// ever issued, to avoid data loss.
type TypeMismatch struct {
	Table    string
	Column   string
	LiveType string
	WantType string
}

// Result is the differ's output, consumed by the plan builder
type Result struct {
	Create     []TableToCreate
	Add        []ColumnsToAdd
	Mismatches []TypeMismatch
}

// Empty reports whether the live database already matches the schema
func (r Result) Empty() bool {
	return len(r.Create) == 0 && len(r.Add) == 0
}

// Diff computes the additive delta between the canonical schema and the live
// metadata. Create entries come out ascending by (order, name) so a table
// with a foreign key is created after its referenced table. Live tables
// absent from the schema are ignored.
func Diff(s schema.CanonicalSchema, live []introspect.TableMetadata, d dialect.Dialect) Result {
	liveByName := make(map[string]introspect.TableMetadata, len(live))
	for _, t := range live {
		liveByName[strings.ToLower(t.Name)] = t
	}

	var res Result
	// TableNames is ascending by (order, name); appending in this order
	// keeps the create list ascending without re-sorting.
	for _, name := range s.TableNames() {
		def := s[name]
		if !fieldsWellFormed(name, def) {
			continue
		}

		liveTable, exists := liveByName[strings.ToLower(name)]
		if !exists {
			res.Create = append(res.Create, TableToCreate{Name: name, Def: def})
			continue
		}

		add := diffTable(name, def, liveTable, d, &res.Mismatches)
		if len(add.FieldOrder) > 0 {
			res.Add = append(res.Add, add)
		}
	}

	return res
}

// diffTable finds the columns of one existing table that are missing live,
// and warns about columns whose live type diverges
func diffTable(name string, def schema.TableDefinition, liveTable introspect.TableMetadata, d dialect.Dialect, mismatches *[]TypeMismatch) ColumnsToAdd {
	add := ColumnsToAdd{
		Table:  name,
		Fields: make(map[string]schema.Field),
		Order:  def.Order,
	}

	for _, fieldName := range def.OrderedFieldNames() {
		field := def.Fields[fieldName]

		liveCol, ok := liveTable.Column(fieldName)
		if !ok {
			add.Fields[fieldName] = field
			add.FieldOrder = append(add.FieldOrder, fieldName)
			continue
		}

		if !dialect.TypesEquivalent(liveCol.NativeType, field, d) {
			want, _ := dialect.ResolveColumnType(field, d)
			log.Printf("⚠️  Type mismatch on %s.%s: live type '%s' does not match expected '%s' (%s); leaving column untouched",
				name, fieldName, liveCol.NativeType, want, field.Type)
			*mismatches = append(*mismatches, TypeMismatch{
				Table:    name,
				Column:   fieldName,
				LiveType: liveCol.NativeType,
				WantType: want,
			})
		}
	}

	return add
}

// fieldsWellFormed rejects a table whose field bag is malformed, degrading
// to a logged error for that table only
func fieldsWellFormed(name string, def schema.TableDefinition) bool {
	for fieldName, field := range def.Fields {
		if fieldName == "" || !field.Type.Valid() {
			log.Printf("❌ Skipping table '%s': field '%s' has invalid logical type '%s'",
				name, fieldName, field.Type)
			return false
		}
	}
	return true
}
