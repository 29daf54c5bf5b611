package schema

import "sort"

// TableDefinition represents one logical table: its fields, creation order
// and optional table-level constraints. Multiple fragments may contribute to
// the same logical table; Assemble merges them into one definition.
type TableDefinition struct {
	Fields map[string]Field `json:"fields" yaml:"fields"`

	// FieldOrder preserves declaration order for deterministic column order.
	// Names absent from the map are ignored; map keys absent from the list
	// are appended alphabetically.
	FieldOrder []string `json:"field_order,omitempty" yaml:"field_order,omitempty"`

	// Order controls creation order: lower runs first. A referenced table's
	// order must be <= the order of tables referencing it.
	Order int `json:"order" yaml:"order"`

	UniqueConstraints [][]string `json:"unique_constraints,omitempty" yaml:"unique_constraints,omitempty"`
	Indexes           [][]string `json:"indexes,omitempty" yaml:"indexes,omitempty"`
}

// OrderedFieldNames returns the field names in declaration order, with any
// undeclared map keys appended alphabetically for a stable result.
func (d TableDefinition) OrderedFieldNames() []string {
	names := make([]string, 0, len(d.Fields))
	seen := make(map[string]bool, len(d.Fields))
	for _, name := range d.FieldOrder {
		if _, ok := d.Fields[name]; ok && !seen[name] {
			names = append(names, name)
			seen[name] = true
		}
	}
	var rest []string
	for name := range d.Fields {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

// Fragment is a table-definition contribution, from the core schema or a
// plugin. Fragments targeting the same table are merged by Assemble.
type Fragment struct {
	Table      string          `json:"table" yaml:"table" validate:"required"`
	Definition TableDefinition `json:"definition" yaml:"definition"`

	// Source identifies the contributor for log messages
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// CanonicalSchema is the merged schema keyed by logical table name, the sole
// schema input to the differ. Table names are globally unique post-assembly.
type CanonicalSchema map[string]TableDefinition

// TableNames returns the table names sorted ascending by (order, name)
func (s CanonicalSchema) TableNames() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := s[names[i]], s[names[j]]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return names[i] < names[j]
	})
	return names
}
