package schema

import (
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Assemble merges table-definition fragments into one canonical schema.
// Fragments targeting the same table are merged field-by-field with
// last-writer-wins semantics; the smaller declared creation order is kept.
// A malformed fragment is skipped with a logged warning so one bad plugin
// contribution cannot abort assembly for unrelated tables.
func Assemble(fragments []Fragment) CanonicalSchema {
	merged := make(CanonicalSchema)

	for _, frag := range fragments {
		if err := validateFragment(frag); err != nil {
			log.Printf("⚠️  Skipping schema fragment for table '%s' (source: %s): %v",
				frag.Table, sourceLabel(frag), err)
			continue
		}

		existing, ok := merged[frag.Table]
		if !ok {
			merged[frag.Table] = cloneDefinition(frag.Definition)
			continue
		}
		merged[frag.Table] = mergeDefinitions(existing, frag.Definition)
	}

	return merged
}

// validateFragment flags malformed entries before merge rather than
// silently coercing them
func validateFragment(frag Fragment) error {
	if err := validate.Struct(frag); err != nil {
		return err
	}
	for name, field := range frag.Definition.Fields {
		if name == "" {
			return fmt.Errorf("field with empty name")
		}
		if !field.Type.Valid() {
			return fmt.Errorf("field '%s' has invalid logical type '%s'", name, field.Type)
		}
		if field.Reference != nil && field.Reference.Table == "" {
			return fmt.Errorf("field '%s' has a reference without a target table", name)
		}
	}
	return nil
}

// mergeDefinitions merges overlay into base: overlay wins on field name
// collision, the smaller creation order is kept, constraints are appended
func mergeDefinitions(base, overlay TableDefinition) TableDefinition {
	out := cloneDefinition(base)
	for _, name := range overlay.OrderedFieldNames() {
		if _, exists := out.Fields[name]; !exists {
			out.FieldOrder = append(out.FieldOrder, name)
		}
		out.Fields[name] = overlay.Fields[name]
	}
	if overlay.Order < out.Order {
		out.Order = overlay.Order
	}
	out.UniqueConstraints = append(out.UniqueConstraints, overlay.UniqueConstraints...)
	out.Indexes = append(out.Indexes, overlay.Indexes...)
	return out
}

func cloneDefinition(def TableDefinition) TableDefinition {
	out := TableDefinition{
		Fields:            make(map[string]Field, len(def.Fields)),
		FieldOrder:        def.OrderedFieldNames(),
		Order:             def.Order,
		UniqueConstraints: append([][]string(nil), def.UniqueConstraints...),
		Indexes:           append([][]string(nil), def.Indexes...),
	}
	for name, field := range def.Fields {
		out.Fields[name] = field
	}
	return out
}

func sourceLabel(frag Fragment) string {
	if frag.Source == "" {
		return "core"
	}
	return frag.Source
}
