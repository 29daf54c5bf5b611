package plan

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/consentbase/schemasync/pkg/dialect"
	"github.com/consentbase/schemasync/pkg/diff"
	"github.com/consentbase/schemasync/pkg/errors"
	"github.com/consentbase/schemasync/pkg/schema"
)

// Build produces the ordered migration plan for a diff result. AddColumns
// operations precede CreateTable operations; within each group operations
// run ascending by (order, table name).
func Build(res diff.Result, d dialect.Dialect) (*Plan, error) {
	if !d.Valid() {
		return nil, errors.NewUnsupportedDialectError(d.String())
	}

	p := &Plan{}

	adds := append([]diff.ColumnsToAdd(nil), res.Add...)
	sort.SliceStable(adds, func(i, j int) bool {
		if adds[i].Order != adds[j].Order {
			return adds[i].Order < adds[j].Order
		}
		return adds[i].Table < adds[j].Table
	})
	for _, add := range adds {
		op, err := buildAddColumns(add, d)
		if err != nil {
			return nil, err
		}
		p.ops = append(p.ops, op)
	}

	creates := append([]diff.TableToCreate(nil), res.Create...)
	sort.SliceStable(creates, func(i, j int) bool {
		if creates[i].Def.Order != creates[j].Def.Order {
			return creates[i].Def.Order < creates[j].Def.Order
		}
		return creates[i].Name < creates[j].Name
	})
	for _, create := range creates {
		op, err := buildCreateTable(create, d)
		if err != nil {
			return nil, err
		}
		p.ops = append(p.ops, op)
	}

	return p, nil
}

func buildAddColumns(add diff.ColumnsToAdd, d dialect.Dialect) (AddColumns, error) {
	op := AddColumns{
		OpID:  uuid.NewString(),
		Table: add.Table,
		Order: add.Order,
	}
	for _, name := range add.FieldOrder {
		col, err := columnFor(add.Table, name, add.Fields[name], d)
		if err != nil {
			return AddColumns{}, err
		}
		op.Columns = append(op.Columns, col)
	}
	return op, nil
}

func buildCreateTable(create diff.TableToCreate, d dialect.Dialect) (CreateTable, error) {
	// A caller-declared 'id' would collide with the synthetic primary key.
	// Detect it here as a configuration conflict instead of letting it
	// surface later as a duplicate-column database error.
	for name := range create.Def.Fields {
		if strings.EqualFold(name, "id") {
			return CreateTable{}, errors.NewConflictError(create.Name, name,
				"the 'id' primary key is injected by the migration engine and cannot be declared")
		}
	}

	op := CreateTable{
		OpID:              uuid.NewString(),
		Table:             create.Name,
		Order:             create.Def.Order,
		UniqueConstraints: create.Def.UniqueConstraints,
		Indexes:           create.Def.Indexes,
	}

	// Synthetic primary key always comes first. A zero-field table is
	// legal and produces only this column.
	op.Columns = append(op.Columns, Column{
		Name:       "id",
		Label:      "ID",
		Type:       dialect.IDColumnType(d),
		NotNull:    true,
		PrimaryKey: true,
	})

	for _, name := range create.Def.OrderedFieldNames() {
		col, err := columnFor(create.Name, name, create.Def.Fields[name], d)
		if err != nil {
			return CreateTable{}, err
		}
		op.Columns = append(op.Columns, col)
	}

	return op, nil
}

func columnFor(table, name string, field schema.Field, d dialect.Dialect) (Column, error) {
	nativeType, err := dialect.ResolveColumnType(field, d)
	if err != nil {
		return Column{}, errors.NewValidationError(table, name, err.Error())
	}

	col := Column{
		Name:    name,
		Label:   deriveLabel(name),
		Type:    nativeType,
		NotNull: field.Required(),
		Unique:  field.Unique,
		Default: field.Default,
	}
	if field.Reference != nil {
		col.References = &ColumnRef{
			Table:  field.Reference.Table,
			Column: field.Reference.TargetField(),
		}
	}
	return col, nil
}

// deriveLabel turns a snake_case column name into a display label
// ("author_id" -> "Author Id") for plan reports and logs. The caser is
// constructed per call; cases.Caser is stateful and not safe to share
// across goroutines.
func deriveLabel(name string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(name, "_", " "))
}
