package config

import (
	"encoding/json"
	"strings"

	"github.com/zoobzio/sentinel"
)

// Schema returns a JSON Schema describing the configuration file.
func Schema() string {
	schema := objectSchema[Config]()
	schema["$schema"] = "https://json-schema.org/draft/2020-12/schema"
	schema["title"] = "nudge configuration"

	jsonBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		// Fallback to simple representation
		return "{}"
	}
	return string(jsonBytes)
}

// objectSchema builds the schema object for a struct type using sentinel.
func objectSchema[T any]() map[string]interface{} {
	metadata := sentinel.Inspect[T]()

	return map[string]interface{}{
		"type":                 "object",
		"properties":           buildProperties(metadata.Fields),
		"required":             buildRequiredFields(metadata.Fields),
		"additionalProperties": false,
	}
}

// buildProperties converts field metadata to JSON Schema properties.
func buildProperties(fields []sentinel.FieldMetadata) map[string]interface{} {
	properties := make(map[string]interface{})

	for _, field := range fields {
		name := getFieldName(field)
		if name == "-" {
			continue
		}

		prop, ok := sectionSchema(typeName(field.Type))
		if !ok {
			prop = map[string]interface{}{
				"type": goTypeToJSONType(field.Type),
			}
		}

		if desc, ok := field.Tags["desc"]; ok {
			prop["description"] = desc
		}
		properties[name] = prop
	}

	return properties
}

// sectionSchema returns the schema of a nested config block by type name.
func sectionSchema(name string) (map[string]interface{}, bool) {
	switch name {
	case "GenerationConfig":
		return objectSchema[GenerationConfig](), true
	case "ErrorConfig":
		return objectSchema[ErrorConfig](), true
	case "InputConfig":
		return objectSchema[InputConfig](), true
	case "LogConfig":
		return objectSchema[LogConfig](), true
	default:
		return nil, false
	}
}

// typeName strips pointer and package qualifiers from a Go type string.
func typeName(goType string) string {
	goType = strings.TrimPrefix(goType, "*")
	return goType[strings.LastIndex(goType, ".")+1:]
}

// buildRequiredFields lists fields without omitempty.
func buildRequiredFields(fields []sentinel.FieldMetadata) []string {
	required := []string{}

	for _, field := range fields {
		name := getFieldName(field)
		if name == "-" {
			continue
		}
		if !hasOmitempty(field) {
			required = append(required, name)
		}
	}

	return required
}

// getFieldName extracts the config key from the json tag.
func getFieldName(field sentinel.FieldMetadata) string {
	if jsonTag, ok := field.Tags["json"]; ok {
		parts := strings.Split(jsonTag, ",")
		if len(parts) > 0 && parts[0] != "" {
			return parts[0]
		}
	}

	// Default to lowercase field name
	return strings.ToLower(field.Name[:1]) + field.Name[1:]
}

func hasOmitempty(field sentinel.FieldMetadata) bool {
	if jsonTag, ok := field.Tags["json"]; ok {
		return strings.Contains(jsonTag, "omitempty")
	}
	return false
}

// goTypeToJSONType maps Go types to JSON Schema types.
func goTypeToJSONType(goType string) string {
	switch {
	case goType == "time.Duration":
		return "string"
	case strings.HasPrefix(goType, "string"):
		return "string"
	case strings.HasPrefix(goType, "int"), strings.HasPrefix(goType, "uint"):
		return "integer"
	case strings.HasPrefix(goType, "float"):
		return "number"
	case strings.HasPrefix(goType, "bool"):
		return "boolean"
	case strings.HasPrefix(goType, "[]"):
		return "array"
	default:
		return "object"
	}
}
