package output

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

var profileKeys = []string{
	"emp_no", "name", "department", "job_title", "pin", "nssf", "nhif", "id_no",
	"basic_pay", "gross_pay", "paye", "nssf_employee", "nhif_deduction", "net_pay",
}

var snapshotKeys = []string{"name", "gross_salary", "basic_pay", "paye", "nssf_employee", "nhif", "net_pay"}

// ResultSchema returns the JSON-Schema (draft 2020-12 subset) of the
// structured result as a generic map.
func ResultSchema() map[string]any {
	profileProps := map[string]any{}
	for _, k := range profileKeys {
		profileProps[k] = map[string]any{"type": "string", "minLength": 1}
	}
	profileProps["emp_no"] = map[string]any{"type": "string", "pattern": `^\d+$`}

	snapshotProps := map[string]any{}
	for _, k := range snapshotKeys {
		snapshotProps[k] = map[string]any{"type": "string", "minLength": 1}
	}

	profile := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           profileProps,
		"required":             []string{"emp_no", "name"},
	}
	snapshot := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           snapshotProps,
		"required":             snapshotKeys,
	}
	period := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"month":   map[string]any{"type": "string", "minLength": 1},
			"year":    map[string]any{"type": "string", "pattern": `^\d{4}$`},
			"records": map[string]any{"type": "array", "items": snapshot},
		},
		"required": []string{"month", "year", "records"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"workers":         map[string]any{"type": "array", "items": profile},
			"payroll_history": map[string]any{"type": "array", "items": period},
		},
		"required": []string{"workers", "payroll_history"},
	}
}

// Validate checks an encoded result against ResultSchema.
func Validate(data []byte) error {
	return validateAgainstSchema(ResultSchema(), data)
}

func validateAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("result.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("result.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("result does not match schema: %w", err)
	}
	return nil
}
