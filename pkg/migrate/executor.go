// Package migrate compiles migration plans to SQL text and executes them
// sequentially against a live connection.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/consentbase/schemasync/pkg/dialect"
	"github.com/consentbase/schemasync/pkg/errors"
	"github.com/consentbase/schemasync/pkg/plan"
	"github.com/consentbase/schemasync/pkg/sqlgen"
)

// Executor compiles and runs migration plans for one dialect
type Executor struct {
	db      *sql.DB
	builder sqlgen.Builder
	d       dialect.Dialect
}

// NewExecutor creates an executor with the default SQL builder. db may be
// nil for compile-only use; Run refuses a nil connection.
func NewExecutor(db *sql.DB, d dialect.Dialect) (*Executor, error) {
	builder, err := sqlgen.New(d)
	if err != nil {
		return nil, err
	}
	return &Executor{db: db, builder: builder, d: d}, nil
}

// NewExecutorWithBuilder creates an executor using a caller-supplied builder
func NewExecutorWithBuilder(db *sql.DB, d dialect.Dialect, builder sqlgen.Builder) (*Executor, error) {
	if !d.Valid() {
		return nil, errors.NewUnsupportedDialectError(d.String())
	}
	if builder == nil {
		return nil, errors.NewMissingConnectionError("SQL builder")
	}
	return &Executor{db: db, builder: builder, d: d}, nil
}

// Compile renders the whole plan as one SQL document for human review or
// external execution. Pure: no I/O, recommended preview path.
func (e *Executor) Compile(ops []plan.Operation) (string, error) {
	var statements []string
	for _, op := range ops {
		stmts, err := e.statementsFor(op)
		if err != nil {
			return "", err
		}
		statements = append(statements, stmts...)
	}
	if len(statements) == 0 {
		return "", nil
	}
	return strings.Join(statements, ";\n\n") + ";", nil
}

// Run executes the operations strictly in list order. On the first failure
// it logs the exact offending SQL and returns the driver error wrapped in an
// ExecutionError whose Unwrap exposes it unchanged. No partial-success
// continuation, no automatic rollback; whole-plan atomicity is the caller's
// responsibility where the dialect supports transactional DDL.
func (e *Executor) Run(ctx context.Context, ops []plan.Operation) error {
	if e.db == nil {
		return errors.NewMissingConnectionError("DDL connection")
	}
	if err := ValidateOperations(ops); err != nil {
		return err
	}

	for _, op := range ops {
		stmts, err := e.statementsFor(op)
		if err != nil {
			return err
		}

		logOperation(op)
		for _, stmt := range stmts {
			if e.d == dialect.MySQL {
				if err := VerifySQL(stmt); err != nil {
					return err
				}
			}
			if _, err := e.db.ExecContext(ctx, stmt); err != nil {
				log.Printf("❌ DDL execution failed for %s: %v\n%s", op.TableName(), err, stmt)
				return errors.NewExecutionError(op.TableName(), stmt, err)
			}
		}
	}

	log.Printf("✅ Applied %d migration operation(s)", len(ops))
	return nil
}

func (e *Executor) statementsFor(op plan.Operation) ([]string, error) {
	switch op := op.(type) {
	case plan.CreateTable:
		return e.builder.CreateTable(op)
	case plan.AddColumns:
		return e.builder.AddColumns(op)
	}
	return nil, fmt.Errorf("unsupported operation kind '%s'", op.Kind())
}

func logOperation(op plan.Operation) {
	switch op := op.(type) {
	case plan.CreateTable:
		log.Printf("📐 Creating table %s (%d columns)", op.Table, len(op.Columns))
	case plan.AddColumns:
		names := make([]string, len(op.Columns))
		for i, col := range op.Columns {
			names[i] = col.Name
		}
		log.Printf("➕ Adding columns to %s: %s", op.Table, strings.Join(names, ", "))
	}
}
