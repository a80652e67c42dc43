package registry

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildRecordsJSONSchema returns the JSON-Schema (draft 2020-12 subset) that a
// registry config document must satisfy: a non-empty array of company records.
func BuildRecordsJSONSchema() map[string]any {
	record := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"company": map[string]any{"type": "string", "minLength": 1},
			"fields": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string", "minLength": 1},
			},
			"target_tables": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string", "minLength": 1},
			},
		},
		"required": []string{"company", "fields"},
	}
	return map[string]any{
		"type":     "array",
		"minItems": 1,
		"items":    record,
	}
}

// ValidateRecordsJSON validates raw config bytes against the records schema.
func ValidateRecordsJSON(data []byte) error {
	b, err := json.Marshal(BuildRecordsJSONSchema())
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("records.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("records.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("config does not match schema: %w", err)
	}
	return nil
}
