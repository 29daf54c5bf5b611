package migrate

import (
	"fmt"

	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver"

	"github.com/consentbase/schemasync/pkg/errors"
	"github.com/consentbase/schemasync/pkg/plan"
)

// ValidateOperations rejects any plan carrying an operation outside the
// additive set. The differ never produces such operations; this guards
// against hand-built plans.
func ValidateOperations(ops []plan.Operation) error {
	for _, op := range ops {
		switch op.Kind() {
		case plan.KindCreateTable, plan.KindAddColumns:
		default:
			return errors.NewValidationError(op.TableName(), "",
				fmt.Sprintf("operation kind '%s' is not additive DDL", op.Kind()))
		}
	}
	return nil
}

// VerifySQL parses one compiled MySQL-dialect statement and rejects anything
// that drops, renames or modifies existing structure. Belt-and-braces on top
// of ValidateOperations: the check runs on the SQL text that will actually
// hit the database.
func VerifySQL(sqlText string) error {
	stmtNodes, _, err := parser.New().Parse(sqlText, "", "")
	if err != nil {
		return fmt.Errorf("compiled DDL does not parse: %w", err)
	}

	for _, stmt := range stmtNodes {
		switch s := stmt.(type) {
		case *ast.CreateTableStmt, *ast.CreateIndexStmt:
		case *ast.AlterTableStmt:
			for _, spec := range s.Specs {
				switch spec.Tp {
				case ast.AlterTableAddColumns, ast.AlterTableAddConstraint:
				default:
					return errors.NewValidationError(s.Table.Name.O, "",
						"compiled ALTER TABLE contains a non-additive specification")
				}
			}
		default:
			return errors.NewValidationError("", "",
				fmt.Sprintf("compiled plan contains a non-DDL or destructive statement: %T", stmt))
		}
	}
	return nil
}
