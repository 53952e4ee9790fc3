package bowline

import (
	"encoding/json"
	"reflect"
	"slices"
	"strings"
)

// SchemaBuilder constructs the JSON Schema object describing a tool's
// parameters. Create one with SchemaFrom and finish with Build or Tool.
type SchemaBuilder struct {
	properties map[string]*property
	required   []string
}

// property is a single JSON Schema property definition.
type property struct {
	Type        string               `json:"type"`
	Description string               `json:"description,omitempty"`
	Enum        []any                `json:"enum,omitempty"`
	Items       *property            `json:"items,omitempty"`
	Properties  map[string]*property `json:"properties,omitempty"`
	Required    []string             `json:"required,omitempty"`
}

// SchemaFrom creates a SchemaBuilder by reflecting on a struct type.
// Property names come from json tags, descriptions from desc tags, and
// required properties from required:"true" tags:
//
//	type WeatherArgs struct {
//		Location string `json:"location" desc:"City name" required:"true"`
//		Unit     string `json:"unit" desc:"Temperature unit"`
//	}
//
//	tool := SchemaFrom[WeatherArgs]().
//		Enum("unit", "celsius", "fahrenheit").
//		Tool("get_weather", "Get the current weather for a location")
func SchemaFrom[T any]() *SchemaBuilder {
	var zero T
	t := reflect.TypeOf(zero)
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return &SchemaBuilder{properties: make(map[string]*property)}
	}
	return fieldsOf(t)
}

func fieldsOf(t reflect.Type) *SchemaBuilder {
	sb := &SchemaBuilder{properties: make(map[string]*property)}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name, ok := jsonName(field)
		if !ok {
			continue
		}

		prop := propertyOf(field.Type)
		if desc := field.Tag.Get("desc"); desc != "" {
			prop.Description = desc
		}
		sb.properties[name] = prop

		if field.Tag.Get("required") == "true" {
			sb.required = append(sb.required, name)
		}
	}

	return sb
}

// jsonName resolves the property name for a struct field, reporting
// false for fields excluded with json:"-".
func jsonName(field reflect.StructField) (string, bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		name = field.Name
	}
	return name, true
}

func propertyOf(t reflect.Type) *property {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.String:
		return &property{Type: "string"}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &property{Type: "integer"}

	case reflect.Float32, reflect.Float64:
		return &property{Type: "number"}

	case reflect.Bool:
		return &property{Type: "boolean"}

	case reflect.Slice, reflect.Array:
		return &property{Type: "array", Items: propertyOf(t.Elem())}

	case reflect.Struct:
		nested := fieldsOf(t)
		return &property{Type: "object", Properties: nested.properties, Required: nested.required}

	case reflect.Map:
		return &property{Type: "object"}

	default:
		// Remaining kinds map to string.
		return &property{Type: "string"}
	}
}

// Desc sets the description of a property. Unknown names are ignored.
func (sb *SchemaBuilder) Desc(name, description string) *SchemaBuilder {
	if prop, ok := sb.properties[name]; ok {
		prop.Description = description
	}
	return sb
}

// Required marks properties as required. Names already marked, whether
// here or via a required tag, are not duplicated.
func (sb *SchemaBuilder) Required(names ...string) *SchemaBuilder {
	for _, name := range names {
		if !slices.Contains(sb.required, name) {
			sb.required = append(sb.required, name)
		}
	}
	return sb
}

// Enum restricts a property to a fixed set of values. Unknown names are
// ignored.
func (sb *SchemaBuilder) Enum(name string, values ...any) *SchemaBuilder {
	if prop, ok := sb.properties[name]; ok {
		prop.Enum = values
	}
	return sb
}

// Build serializes the schema as a JSON Schema object.
func (sb *SchemaBuilder) Build() json.RawMessage {
	props := sb.properties
	if props == nil {
		props = map[string]*property{}
	}

	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(sb.required) > 0 {
		schema["required"] = sb.required
	}

	out, err := json.Marshal(schema)
	if err != nil {
		return json.RawMessage(`{"type":"object","properties":{}}`)
	}
	return out
}

// Tool builds a Tool using this schema as its parameters.
func (sb *SchemaBuilder) Tool(name, description string) Tool {
	return Tool{Name: name, Description: description, Parameters: sb.Build()}
}
