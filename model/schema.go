package model

type SchemaType string

const (
	TypeString  SchemaType = "string"
	TypeNumber  SchemaType = "number"
	TypeInteger SchemaType = "integer"
	TypeBoolean SchemaType = "boolean"
	TypeArray   SchemaType = "array"
	TypeObject  SchemaType = "object"
)

// Schema is a normalized schema object. Names of referenced definitions
// live in SchemaRef, never inside Schema.
type Schema struct {
	Type        SchemaType
	Format      string
	Description string
	Enum        []any
	Nullable    bool

	Items                *SchemaRef
	Properties           []Property
	Required             []string
	AdditionalProperties *SchemaRef
}

type Property struct {
	Name   string
	Schema SchemaRef
}

// SchemaRef is either an inline schema or the name of a definition.
type SchemaRef struct {
	Ref    string
	Schema *Schema
}

func (r SchemaRef) IsRef() bool {
	return r.Ref != ""
}

func Ref(name string) SchemaRef {
	return SchemaRef{Ref: name}
}

func Inline(s *Schema) SchemaRef {
	return SchemaRef{Schema: s}
}

// Definition is a named entry of the shared definitions table.
type Definition struct {
	Name   string
	Schema *Schema
}
