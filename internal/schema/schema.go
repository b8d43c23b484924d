// Package schema provides JSON Schema value types used to declare tool
// parameters and structured-output shapes handed to the reasoning client.
package schema

import "encoding/json"

// JSONSchema represents a JSON Schema for validation compatible with draft-07.
type JSONSchema struct {
	Type                 string                 `json:"type"`
	Description          string                 `json:"description,omitempty"`
	Properties           map[string]SchemaField `json:"properties,omitempty"`
	Required             []string               `json:"required,omitempty"`
	Items                *SchemaField           `json:"items,omitempty"`
	AdditionalProperties *bool                  `json:"additionalProperties,omitempty"`
}

// SchemaField represents a field within a schema.
type SchemaField struct {
	Type        string                 `json:"type"`
	Description string                 `json:"description,omitempty"`
	Enum        []string               `json:"enum,omitempty"`
	Default     any                    `json:"default,omitempty"`
	Minimum     *float64               `json:"minimum,omitempty"`
	Maximum     *float64               `json:"maximum,omitempty"`
	Items       *SchemaField           `json:"items,omitempty"`
	Properties  map[string]SchemaField `json:"properties,omitempty"`
	Required    []string               `json:"required,omitempty"`
}

// NewObjectSchema creates a new object schema with the given properties and
// required fields.
func NewObjectSchema(properties map[string]SchemaField, required []string) JSONSchema {
	return JSONSchema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

// NewStringField creates a new string field with the given description.
func NewStringField(description string) SchemaField {
	return SchemaField{
		Type:        "string",
		Description: description,
	}
}

// NewNumberField creates a new number field with the given description.
func NewNumberField(description string) SchemaField {
	return SchemaField{
		Type:        "number",
		Description: description,
	}
}

// NewBooleanField creates a new boolean field with the given description.
func NewBooleanField(description string) SchemaField {
	return SchemaField{
		Type:        "boolean",
		Description: description,
	}
}

// NewArrayField creates a new array field whose elements match items.
func NewArrayField(description string, items SchemaField) SchemaField {
	return SchemaField{
		Type:        "array",
		Description: description,
		Items:       &items,
	}
}

// WithEnum adds an enum constraint to the field.
func (f SchemaField) WithEnum(values ...string) SchemaField {
	f.Enum = values
	return f
}

// WithMinMax adds minimum and maximum constraints to numeric fields.
func (f SchemaField) WithMinMax(min, max float64) SchemaField {
	f.Minimum = &min
	f.Maximum = &max
	return f
}

// MarshalIndent serializes the schema as indented JSON, typically for
// embedding in a structured-output prompt.
func (s JSONSchema) MarshalIndent() (string, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ToMap converts the schema to a generic map, the shape most provider SDKs
// accept for tool parameter declarations.
func (s JSONSchema) ToMap() (map[string]any, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}
