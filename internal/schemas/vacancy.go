package schemas

import (
	"encoding/json"

	"github.com/skillra/hh-harvester/internal/features"
)

// SchemaID identifies the generated vacancy record schema.
const SchemaID = "https://github.com/skillra/hh-harvester/schemas/vacancy-record.json"

// VacancySchema builds a JSON Schema for records rendered with
// features.AsMap over cols. Every column is required. Category columns are
// non-empty strings; every other column may be null.
func VacancySchema(cols []features.Column) (string, error) {
	properties := make(map[string]any, len(cols))
	for _, c := range cols {
		properties[c.Name] = columnSchema(c)
	}
	schema := map[string]any{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"$id":                  SchemaID,
		"title":                "Vacancy record",
		"type":                 "object",
		"properties":           properties,
		"required":             features.ColumnNames(cols),
		"additionalProperties": false,
	}
	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", &SchemaLoadError{Path: SchemaID, Message: "failed to encode schema", Cause: err}
	}
	return string(out), nil
}

func columnSchema(c features.Column) map[string]any {
	switch c.Kind {
	case features.KindInt:
		return map[string]any{"type": []string{"integer", "null"}}
	case features.KindFloat:
		return map[string]any{"type": []string{"number", "null"}}
	case features.KindBool:
		return map[string]any{"type": []string{"boolean", "null"}}
	case features.KindCategory:
		return map[string]any{"type": "string", "minLength": 1}
	case features.KindDate:
		return map[string]any{"type": []string{"string", "null"}, "pattern": `^\d{4}-\d{2}-\d{2}$`}
	case features.KindTime:
		return map[string]any{"type": "string", "format": "date-time"}
	}
	return map[string]any{"type": []string{"string", "null"}}
}

// ValidateRecord checks a rendered record against the schema for cols.
func ValidateRecord(cols []features.Column, record map[string]any) error {
	schema, err := VacancySchema(cols)
	if err != nil {
		return err
	}
	return ValidateGo(schema, record)
}
