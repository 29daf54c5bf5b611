// Package sqlgen renders operation descriptors to dialect-correct DDL text.
// It is the default implementation of the SQL builder collaborator the
// executor consumes; callers with their own builder can supply one instead.
package sqlgen

import (
	"fmt"
	"strings"

	"github.com/consentbase/schemasync/pkg/dialect"
	"github.com/consentbase/schemasync/pkg/errors"
	"github.com/consentbase/schemasync/pkg/plan"
	"github.com/consentbase/schemasync/pkg/schema"
)

// Builder compiles one operation descriptor into executable SQL statements
type Builder interface {
	CreateTable(op plan.CreateTable) ([]string, error)
	AddColumns(op plan.AddColumns) ([]string, error)
}

type builder struct {
	d dialect.Dialect
}

// New creates a DDL builder for one dialect
func New(d dialect.Dialect) (Builder, error) {
	if !d.Valid() {
		return nil, errors.NewUnsupportedDialectError(d.String())
	}
	return &builder{d: d}, nil
}

// CreateTable renders one CREATE TABLE statement plus any index statements
// the dialect cannot carry inline
func (b *builder) CreateTable(op plan.CreateTable) ([]string, error) {
	var ddl strings.Builder
	ddl.WriteString(fmt.Sprintf("CREATE TABLE %s (\n", b.quote(op.Table)))

	var clauses []string
	for _, col := range op.Columns {
		clause, err := b.columnClause(col)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, "  "+clause)
	}

	for _, cols := range op.UniqueConstraints {
		clauses = append(clauses, "  UNIQUE ("+b.quoteList(cols)+")")
	}

	// MySQL carries plain indexes inline as KEY clauses; the other
	// dialects need separate CREATE INDEX statements.
	var indexStatements []string
	for _, cols := range op.Indexes {
		indexName := fmt.Sprintf("idx_%s_%s", op.Table, strings.Join(cols, "_"))
		if b.d == dialect.MySQL {
			clauses = append(clauses, fmt.Sprintf("  KEY %s (%s)", b.quote(indexName), b.quoteList(cols)))
		} else {
			indexStatements = append(indexStatements, fmt.Sprintf("CREATE INDEX %s ON %s (%s)",
				b.quote(indexName), b.quote(op.Table), b.quoteList(cols)))
		}
	}

	if b.d == dialect.MySQL {
		for _, col := range op.Columns {
			if col.References != nil {
				clauses = append(clauses, fmt.Sprintf("  FOREIGN KEY (%s) REFERENCES %s (%s)",
					b.quote(col.Name), b.quote(col.References.Table), b.quote(col.References.Column)))
			}
		}
	}

	ddl.WriteString(strings.Join(clauses, ",\n"))
	ddl.WriteString("\n)")
	if b.d == dialect.MySQL {
		ddl.WriteString(" ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci")
	}

	return append([]string{ddl.String()}, indexStatements...), nil
}

// AddColumns renders the ALTER TABLE statements adding one table's missing
// columns. SQLite only accepts one ADD COLUMN per statement and cannot add
// a UNIQUE column; MySQL foreign keys go in separate ADD CONSTRAINT
// statements.
func (b *builder) AddColumns(op plan.AddColumns) ([]string, error) {
	if len(op.Columns) == 0 {
		return nil, nil
	}

	var statements []string

	switch b.d {
	case dialect.SQLite:
		for _, col := range op.Columns {
			// SQLite rejects ADD COLUMN with an inline UNIQUE constraint;
			// the uniqueness becomes a separate unique index instead.
			inline := col
			inline.Unique = false
			clause, err := b.columnClause(inline)
			if err != nil {
				return nil, err
			}
			statements = append(statements, fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", b.quote(op.Table), clause))
			if col.Unique {
				uniqueName := fmt.Sprintf("uq_%s_%s", op.Table, col.Name)
				statements = append(statements, fmt.Sprintf("CREATE UNIQUE INDEX %s ON %s (%s)",
					b.quote(uniqueName), b.quote(op.Table), b.quote(col.Name)))
			}
		}
	case dialect.SQLServer:
		var clauses []string
		for _, col := range op.Columns {
			clause, err := b.columnClause(col)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, clause)
		}
		// SQL Server has no COLUMN keyword in ADD
		statements = append(statements, fmt.Sprintf("ALTER TABLE %s ADD %s", b.quote(op.Table), strings.Join(clauses, ", ")))
	case dialect.Postgres, dialect.MySQL:
		var clauses []string
		for _, col := range op.Columns {
			clause, err := b.columnClause(col)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, "ADD COLUMN "+clause)
		}
		statements = append(statements, fmt.Sprintf("ALTER TABLE %s %s", b.quote(op.Table), strings.Join(clauses, ", ")))
	default:
		return nil, errors.NewUnsupportedDialectError(b.d.String())
	}

	if b.d == dialect.MySQL {
		for _, col := range op.Columns {
			if col.References != nil {
				fkName := fmt.Sprintf("fk_%s_%s", op.Table, col.Name)
				statements = append(statements, fmt.Sprintf(
					"ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s)",
					b.quote(op.Table), b.quote(fkName), b.quote(col.Name),
					b.quote(col.References.Table), b.quote(col.References.Column)))
			}
		}
	}

	return statements, nil
}

// columnClause renders one column definition: name, type and constraints
func (b *builder) columnClause(col plan.Column) (string, error) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s %s", b.quote(col.Name), col.Type))

	if col.NotNull {
		sb.WriteString(" NOT NULL")
	}
	if col.Default.Kind == schema.DefaultStatic {
		literal, err := b.defaultLiteral(col.Default.Value)
		if err != nil {
			return "", errors.NewValidationError("", col.Name, err.Error())
		}
		sb.WriteString(" DEFAULT " + literal)
	}
	if col.PrimaryKey {
		sb.WriteString(" PRIMARY KEY")
	}
	if col.Unique {
		sb.WriteString(" UNIQUE")
	}
	// MySQL parses but ignores inline REFERENCES; its foreign keys are
	// emitted as table-level constraints instead.
	if col.References != nil && b.d != dialect.MySQL {
		sb.WriteString(fmt.Sprintf(" REFERENCES %s (%s)",
			b.quote(col.References.Table), b.quote(col.References.Column)))
	}

	return sb.String(), nil
}

// defaultLiteral renders a static default value as a SQL literal. Computed
// defaults are never rendered; the row-insertion collaborator evaluates them.
func (b *builder) defaultLiteral(value interface{}) (string, error) {
	switch v := value.(type) {
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'", nil
	case bool:
		if b.d == dialect.Postgres {
			if v {
				return "TRUE", nil
			}
			return "FALSE", nil
		}
		if v {
			return "1", nil
		}
		return "0", nil
	case int, int32, int64, float32, float64:
		return fmt.Sprintf("%v", v), nil
	case nil:
		return "", fmt.Errorf("static default has no value")
	}
	return "", fmt.Errorf("unsupported static default value type %T", value)
}

func (b *builder) quote(ident string) string {
	switch b.d {
	case dialect.MySQL:
		return "`" + ident + "`"
	case dialect.SQLServer:
		return "[" + ident + "]"
	default:
		return `"` + ident + `"`
	}
}

func (b *builder) quoteList(idents []string) string {
	quoted := make([]string, len(idents))
	for i, ident := range idents {
		quoted[i] = b.quote(ident)
	}
	return strings.Join(quoted, ", ")
}
