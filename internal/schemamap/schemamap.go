// Package schemamap maps JSON-schema fragments onto generated validation
// models and synthetic-value expressions for the emitted test project.
package schemamap

import (
	"encoding/json"
	"fmt"
	"strings"

	"api-scaffolder/internal/pyemit"
	"api-scaffolder/internal/types"
)

// ModelSet tracks model names already generated into one file, so repeated
// structurally-identical nested schemas collapse to a single declaration.
// The set is scoped to one file and discarded afterwards.
type ModelSet map[string]bool

// NewModelSet creates an empty per-file model set
func NewModelSet() ModelSet {
	return ModelSet{}
}

// SnakeToCamel converts snake_case to CamelCase
func SnakeToCamel(name string) string {
	parts := strings.Split(name, "_")
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(strings.ToLower(p[1:]))
	}
	return b.String()
}

// ModelName derives the deterministic validation-model name for a schema
// position: success models carry the field name they hang off, error models
// are always ResponseError
func ModelName(isSuccess bool, fieldName string) string {
	if !isSuccess {
		return "ResponseError"
	}
	if fieldName != "" {
		return "ResponseSuccessBody" + SnakeToCamel(fieldName)
	}
	return "ResponseSuccessBody"
}

// PyType maps a schema fragment to the generated validation type annotation
func PyType(schema *types.SchemaNode, fieldName string) string {
	if schema == nil {
		return "Any"
	}
	switch {
	case schema.Type == "string":
		return "str"
	case schema.Type == "integer":
		return "int"
	case schema.Type == "number":
		return "float"
	case schema.Type == "boolean":
		return "bool"
	case schema.Type == "array":
		return fmt.Sprintf("List[%s]", PyType(schema.Items, fieldName))
	case schema.IsObject():
		return ModelName(true, fieldName)
	}
	return "Any"
}

// BuildModels generates the validation-model declarations for a schema,
// nested models first, deduplicated through the given set. The returned
// slice is empty when the model name was already emitted into this file.
func BuildModels(schema *types.SchemaNode, modelName, fieldName string, set ModelSet) []pyemit.Decl {
	if set[modelName] {
		return nil
	}
	set[modelName] = true

	// Empty or shapeless schema degrades to a placeholder model instead of
	// aborting the endpoint
	if schema == nil || (!schema.IsObject() && schema.Type != "array" && schema.Type != "string") {
		return []pyemit.Decl{&pyemit.Class{Name: modelName, Bases: []string{"BaseModelWithConfig"}}}
	}

	// A bare string body (e.g. a uuid) validates through a root model
	if schema.Type == "string" {
		cls := &pyemit.Class{Name: modelName, Bases: []string{"RootModel"}}
		cls.Add(pyemit.Field{Name: "root", Type: "str", Value: "Field(...)"})
		return []pyemit.Decl{cls}
	}

	if schema.Type == "array" {
		itemName := ModelName(true, nonEmpty(fieldName, "items"))
		decls := BuildModels(schema.Items, itemName, fieldName, set)
		cls := &pyemit.Class{Name: modelName, Bases: []string{"BaseModelWithConfig"}}
		cls.Add(pyemit.Field{Name: "items", Type: fmt.Sprintf("List[%s]", itemName), Value: "Field(...)"})
		return append(decls, cls)
	}

	var nested []pyemit.Decl
	cls := &pyemit.Class{Name: modelName, Bases: []string{"BaseModelWithConfig"}}
	for _, prop := range schema.Properties {
		propType := PyType(prop.Schema, prop.Name)
		value := "Field(None)"
		if schema.IsRequired(prop.Name) {
			value = "Field(...)"
		}
		cls.Add(pyemit.Field{Name: prop.Name, Type: propType, Value: value})

		if prop.Schema == nil {
			continue
		}
		switch {
		case prop.Schema.IsObject():
			nested = append(nested, BuildModels(prop.Schema, ModelName(true, prop.Name), prop.Name, set)...)
		case prop.Schema.Type == "array" && prop.Schema.Items != nil && prop.Schema.Items.IsObject():
			nested = append(nested, BuildModels(prop.Schema.Items, ModelName(true, prop.Name), prop.Name, set)...)
		}
	}
	return append(nested, cls)
}

// FakerExpr returns the synthetic-value generator expression for a request
// property. Generators are keyed by property name for well-known shapes and
// fall back to a generic word.
func FakerExpr(schema *types.SchemaNode, propName string) string {
	if schema == nil {
		return "fake.word"
	}
	if len(schema.Enum) > 0 {
		return fmt.Sprintf("lambda: fake.random_element(%s)", PyLiteral(schema.Enum))
	}
	switch schema.Type {
	case "string":
		if schema.Format == "uuid" {
			return "fake.uuid4"
		}
		if schema.Format == "date-time" {
			return "lambda: fake.date_time().strftime('%Y-%m-%dT%H:%M:%S.%fZ')"
		}
		switch propName {
		case "phone", "phone_number":
			return "fake.phone_number"
		case "email":
			return "fake.email"
		case "first_name":
			return "fake.first_name"
		case "last_name":
			return "fake.last_name"
		case "url":
			return "fake.url"
		case "userAgent", "user_agent":
			return "lambda: user_a.random"
		case "userTimezone", "timezone":
			return "fake.timezone"
		case "address":
			return "fake.address"
		case "comment":
			return "fake.sentence"
		case "lat", "latitude":
			return "lambda: str(fake.latitude())"
		case "lon", "longitude":
			return "lambda: str(fake.longitude())"
		}
		return "fake.word"
	case "integer":
		if propName == "userTimestamp" || propName == "timestamp" {
			return "lambda: int(fake.unix_time())"
		}
		return "lambda: fake.random_int(min=1, max=100)"
	case "number":
		return "lambda: float(fake.random_int(min=1, max=100))"
	case "boolean":
		return "fake.boolean"
	case "object":
		return "lambda: {}"
	case "array":
		return "lambda: []"
	}
	return "fake.word"
}

// PyLiteral renders a Go value as a Python literal
func PyLiteral(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "None"
	case bool:
		if val {
			return "True"
		}
		return "False"
	case string:
		return pyemit.StringLiteral(val)
	case json.Number:
		return val.String()
	case []interface{}:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = PyLiteral(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case []string:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = pyemit.StringLiteral(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]interface{}:
		// Deterministic output needs no map ordering here: catalog values
		// that reach literals are scalars and lists
		data, err := json.Marshal(val)
		if err != nil {
			return "None"
		}
		return string(data)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
