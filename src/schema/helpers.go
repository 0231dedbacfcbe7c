package schema

import (
	jsonschema "github.com/swaggest/jsonschema-go"

	"github.com/CheYu0410/Bailu-Cli/src/bailucore"
)

// String creates a JSON schema for a string field.
func String(description string) *jsonschema.Schema {
	strType := jsonschema.SimpleType("string")
	return &jsonschema.Schema{
		Type:        &jsonschema.Type{SimpleTypes: &strType},
		Description: &description,
	}
}

// Bool creates a JSON schema for a boolean field with a default value.
func Bool(description string, defaultValue bool) *jsonschema.Schema {
	boolType := jsonschema.SimpleType("boolean")
	defVal := interface{}(defaultValue)
	return &jsonschema.Schema{
		Type:        &jsonschema.Type{SimpleTypes: &boolType},
		Description: &description,
		Default:     &defVal,
	}
}

// Number creates a JSON schema for a numeric field.
func Number(description string) *jsonschema.Schema {
	numType := jsonschema.SimpleType("number")
	return &jsonschema.Schema{
		Type:        &jsonschema.Type{SimpleTypes: &numType},
		Description: &description,
	}
}

// Array creates a JSON schema for an array field with the given item
// schema.
func Array(description string, items *jsonschema.Schema) *jsonschema.Schema {
	arrType := jsonschema.SimpleType("array")
	s := &jsonschema.Schema{
		Type:        &jsonschema.Type{SimpleTypes: &arrType},
		Description: &description,
	}
	if items != nil {
		s.Items = &jsonschema.Items{SchemaOrBool: &jsonschema.SchemaOrBool{TypeObject: items}}
	}
	return s
}

// Object creates a JSON schema for an object with properties and
// required field names.
func Object(properties map[string]*jsonschema.Schema, required []string) *jsonschema.Schema {
	schemaProps := make(map[string]jsonschema.SchemaOrBool, len(properties))
	for name, prop := range properties {
		schemaProps[name] = jsonschema.SchemaOrBool{TypeObject: prop}
	}

	objType := jsonschema.SimpleType("object")
	return &jsonschema.Schema{
		Type:       &jsonschema.Type{SimpleTypes: &objType},
		Properties: schemaProps,
		Required:   required,
	}
}

// FromParameters builds the object schema for a tool definition's
// parameter list, so every registered tool carries one canonical
// JSON-schema rendering of its inputs.
func FromParameters(params []bailucore.ToolParameter) *jsonschema.Schema {
	props := make(map[string]*jsonschema.Schema, len(params))
	var required []string
	for _, p := range params {
		var s *jsonschema.Schema
		switch p.Type {
		case bailucore.ParamBoolean:
			def, _ := p.Default.(bool)
			s = Bool(p.Description, def)
		case bailucore.ParamNumber:
			s = Number(p.Description)
		case bailucore.ParamArray:
			s = Array(p.Description, String(""))
		case bailucore.ParamObject:
			s = Object(nil, nil)
			s.Description = &p.Description
		default:
			s = String(p.Description)
		}
		props[p.Name] = s
		if p.Required {
			required = append(required, p.Name)
		}
	}
	return Object(props, required)
}
