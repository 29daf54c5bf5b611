// Package plan turns a diff result into an ordered list of DDL operation
// descriptors. Operations are typed and constrained; rendering them to SQL
// text is the builder collaborator's job, never this package's.
package plan

import (
	"github.com/consentbase/schemasync/pkg/schema"
)

// Kind discriminates the operation variants
type Kind string

const (
	KindCreateTable Kind = "create_table"
	KindAddColumns  Kind = "add_columns"
)

// ColumnRef names the target of a REFERENCES constraint
type ColumnRef struct {
	Table  string
	Column string
}

// Column is one ordered column tuple: name, resolved native type and
// constraint descriptors
type Column struct {
	Name       string
	Label      string
	Type       string
	NotNull    bool
	Unique     bool
	PrimaryKey bool
	Default    schema.DefaultValuePolicy
	References *ColumnRef
}

// Operation is one DDL operation descriptor
type Operation interface {
	// ID is a unique identifier for log correlation
	ID() string
	Kind() Kind
	TableName() string
	TableOrder() int
}

// CreateTable creates one new table. Its first column is always the
// synthetic 'id' primary key.
type CreateTable struct {
	OpID              string
	Table             string
	Columns           []Column
	Order             int
	UniqueConstraints [][]string
	Indexes           [][]string
}

func (op CreateTable) ID() string        { return op.OpID }
func (op CreateTable) Kind() Kind        { return KindCreateTable }
func (op CreateTable) TableName() string { return op.Table }
func (op CreateTable) TableOrder() int   { return op.Order }

// AddColumns adds all missing columns of one existing table
type AddColumns struct {
	OpID    string
	Table   string
	Columns []Column
	Order   int
}

func (op AddColumns) ID() string        { return op.OpID }
func (op AddColumns) Kind() Kind        { return KindAddColumns }
func (op AddColumns) TableName() string { return op.Table }
func (op AddColumns) TableOrder() int   { return op.Order }

// Plan is the ordered operation list computed fresh on every invocation.
// There is no persisted migration history; idempotency comes from re-diffing
// live state each run.
type Plan struct {
	ops []Operation
}

// Operations returns the operations in execution order
func (p *Plan) Operations() []Operation {
	if p == nil {
		return nil
	}
	return p.ops
}

// Empty reports whether the plan has nothing to do
func (p *Plan) Empty() bool {
	return p == nil || len(p.ops) == 0
}
