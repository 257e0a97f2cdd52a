package profiles

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Dnyaneshwarigund12/Invoice-extraction/constants"
)

// BuildProfilesJSONSchema returns the JSON-Schema for a profiles document as a generic map.
func BuildProfilesJSONSchema(allowedLayouts []string) map[string]any {
	named := func(keys ...string) map[string]any {
		props := map[string]any{"name": nonEmptyString()}
		for _, k := range keys {
			props[k] = nonEmptyString()
		}
		return props
	}

	field := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           named("pattern"),
		"required":             []string{"name", "pattern"},
	}

	spanProps := named("start")
	spanProps["end"] = map[string]any{"type": "string"} // empty: span runs to end of text
	span := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           spanProps,
		"required":             []string{"name", "start"},
	}

	layout := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"layout":     map[string]any{"type": "string", "enum": allowedLayouts},
			"indicators": stringList(1),
			"fields":     map[string]any{"type": "array", "items": field},
			"spans":      map[string]any{"type": "array", "items": span},
		},
		"required": []string{"layout", "indicators"},
	}

	fallback := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"header_keywords":  stringList(1),
			"product_keywords": stringList(0),
			"row_pattern":      nonEmptyString(),
		},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"layouts":  map[string]any{"type": "array", "minItems": 1, "items": layout},
			"fallback": fallback,
		},
		"required": []string{"layouts"},
	}
}

func nonEmptyString() map[string]any {
	return map[string]any{"type": "string", "minLength": 1}
}

func stringList(minItems int) map[string]any {
	return map[string]any{
		"type":     "array",
		"minItems": minItems,
		"items":    nonEmptyString(),
	}
}

// ValidateAgainstSchema validates a decoded profiles document against the profiles schema.
func ValidateAgainstSchema(doc any) error {
	b, err := json.Marshal(BuildProfilesJSONSchema(constants.AsStringSlice()))
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("profiles.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("profiles.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	// Round-trip through JSON so YAML scalars become the types the validator expects.
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal profiles: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal profiles: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("profiles do not match schema: %w", err)
	}
	return nil
}
