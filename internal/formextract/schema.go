package formextract

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/omerfarooq-dev/formflow/constants"
)

// BuildExtractionSchema returns the JSON-Schema (draft 2020-12 subset) every
// chunk response must satisfy: the three top-level keys are required, and
// each form field must at least carry its name, key, and type.
func BuildExtractionSchema() map[string]any {
	fieldTypes := make([]any, 0)
	for _, t := range constants.FieldTypeNames() {
		fieldTypes = append(fieldTypes, t)
	}

	fieldProps := map[string]any{
		"field_name": map[string]any{"type": "string"},
		"field_key":  map[string]any{"type": "string"},
		"field_type": map[string]any{"type": "string", "enum": fieldTypes},
		"required":   map[string]any{"type": "boolean"},
		"validation": map[string]any{"type": []any{"string", "null"}},
		"coordinates": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "number"},
		},
		"span": map[string]any{
			"type": []any{"object", "null"},
			"properties": map[string]any{
				"offset": map[string]any{"type": "number"},
				"length": map[string]any{"type": "number"},
			},
		},
		"page_number": map[string]any{"type": "number"},
	}

	areaProps := map[string]any{
		"type":         map[string]any{"type": "string"},
		"label":        map[string]any{"type": "string"},
		"requirements": map[string]any{"type": []any{"string", "null"}},
		"coordinates": map[string]any{
			"type":  []any{"array", "null"},
			"items": map[string]any{"type": "number"},
		},
		"page_number": map[string]any{"type": "number"},
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"form_fields": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":       "object",
					"properties": fieldProps,
					"required":   []any{"field_name", "field_key", "field_type"},
				},
			},
			"instructions": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"special_areas": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":       "object",
					"properties": areaProps,
				},
			},
		},
		"required": []any{"form_fields", "instructions", "special_areas"},
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
