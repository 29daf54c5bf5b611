package schema

// LogicalType is the database-agnostic type of a field. The physical column
// type varies per dialect; the logical type is fixed for a field's lifetime.
type LogicalType string

const (
	TypeString      LogicalType = "string"
	TypeNumber      LogicalType = "number"
	TypeBoolean     LogicalType = "boolean"
	TypeDate        LogicalType = "date"
	TypeTimezone    LogicalType = "timezone"
	TypeJSON        LogicalType = "json"
	TypeStringArray LogicalType = "string[]"
	TypeNumberArray LogicalType = "number[]"
)

// Valid reports whether t is one of the supported logical types
func (t LogicalType) Valid() bool {
	switch t {
	case TypeString, TypeNumber, TypeBoolean, TypeDate, TypeTimezone,
		TypeJSON, TypeStringArray, TypeNumberArray:
		return true
	}
	return false
}

// IsArray reports whether t is serialized as a JSON array column
func (t LogicalType) IsArray() bool {
	return t == TypeStringArray || t == TypeNumberArray
}

// DefaultKind discriminates the default-value policy variants
type DefaultKind string

const (
	DefaultNone     DefaultKind = "none"
	DefaultStatic   DefaultKind = "static"
	DefaultComputed DefaultKind = "computed"
)

// ComputedKind names a computed default evaluated by the row-insertion
// collaborator. This engine only records that the default exists.
type ComputedKind string

const (
	ComputedNow   ComputedKind = "now"
	ComputedFalse ComputedKind = "false"
)

// DefaultValuePolicy is a tagged variant: None, Static(value) or Computed(kind)
type DefaultValuePolicy struct {
	Kind     DefaultKind  `json:"kind,omitempty" yaml:"kind,omitempty"`
	Value    interface{}  `json:"value,omitempty" yaml:"value,omitempty"`
	Computed ComputedKind `json:"computed,omitempty" yaml:"computed,omitempty"`
}

// NoDefault returns the empty policy
func NoDefault() DefaultValuePolicy {
	return DefaultValuePolicy{Kind: DefaultNone}
}

// StaticDefault returns a policy carrying a literal value
func StaticDefault(value interface{}) DefaultValuePolicy {
	return DefaultValuePolicy{Kind: DefaultStatic, Value: value}
}

// ComputedDefault returns a policy deferring evaluation to the caller
func ComputedDefault(kind ComputedKind) DefaultValuePolicy {
	return DefaultValuePolicy{Kind: DefaultComputed, Computed: kind}
}

// IsZero reports whether the policy is absent
func (p DefaultValuePolicy) IsZero() bool {
	return p.Kind == "" || p.Kind == DefaultNone
}

// Reference expresses a foreign key to another logical table
type Reference struct {
	Table string `json:"table" yaml:"table" validate:"required"`
	Field string `json:"field,omitempty" yaml:"field,omitempty"`
}

// TargetField returns the referenced column, defaulting to the synthetic
// primary key when the fragment did not name one
func (r Reference) TargetField() string {
	if r.Field == "" {
		return "id"
	}
	return r.Field
}

// Field is the contract for one column. Fields are required unless Optional
// is set, so the zero value matches the default policy.
type Field struct {
	Type      LogicalType        `json:"type" yaml:"type" validate:"required"`
	Optional  bool               `json:"optional,omitempty" yaml:"optional,omitempty"`
	Unique    bool               `json:"unique,omitempty" yaml:"unique,omitempty"`
	BigInt    bool               `json:"bigint,omitempty" yaml:"bigint,omitempty"`
	Default   DefaultValuePolicy `json:"default,omitempty" yaml:"default,omitempty"`
	Reference *Reference         `json:"reference,omitempty" yaml:"reference,omitempty"`
}

// Required reports whether the column must be NOT NULL
func (f Field) Required() bool {
	return !f.Optional
}
