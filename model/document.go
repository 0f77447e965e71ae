package model

import "strings"

type Version string

const (
	Swagger2 Version = "2.0"
	OpenAPI3 Version = "3.0.3"
)

// RefPrefix returns the JSON pointer prefix of the definitions section.
func (v Version) RefPrefix() string {
	if v == OpenAPI3 {
		return "#/components/schemas/"
	}
	return "#/definitions/"
}

// ResponseRefPrefix returns the JSON pointer prefix of shared responses.
func (v Version) ResponseRefPrefix() string {
	if v == OpenAPI3 {
		return "#/components/responses/"
	}
	return "#/responses/"
}

type Document struct {
	Version     Version
	Info        Info
	Host        string
	BasePath    string
	Schemes     []string
	Tags        []Tag
	Paths       []PathItem
	Definitions []Definition
	Responses   []SharedResponse
}

// Definition returns the named definition, or nil.
func (d *Document) Definition(name string) *Definition {
	for i := range d.Definitions {
		if d.Definitions[i].Name == name {
			return &d.Definitions[i]
		}
	}
	return nil
}

// DefinitionByRef resolves a "#/definitions/Name" or
// "#/components/schemas/Name" pointer.
func (d *Document) DefinitionByRef(ref string) *Definition {
	if !strings.HasPrefix(ref, d.Version.RefPrefix()) {
		return nil
	}
	return d.Definition(strings.TrimPrefix(ref, d.Version.RefPrefix()))
}

// Path returns the item for the given display template, or nil.
func (d *Document) Path(template string) *PathItem {
	for i := range d.Paths {
		if d.Paths[i].Template == template {
			return &d.Paths[i]
		}
	}
	return nil
}

type Info struct {
	Title          string
	Version        string
	Description    string
	TermsOfService string
	Contact        *Contact
	License        *License
}

type Contact struct {
	Name  string
	URL   string
	Email string
}

type License struct {
	Name string
	URL  string
}

type Tag struct {
	Name        string
	Description string
}

// PathItem holds the operations of one path template in method
// precedence order.
type PathItem struct {
	Template   string
	Operations []Operation
}

// Operation returns the operation registered for method, or nil.
func (p *PathItem) Operation(method Method) *Operation {
	for i := range p.Operations {
		if p.Operations[i].Method == method {
			return &p.Operations[i]
		}
	}
	return nil
}

// Operation is an endpoint after its types have been normalized.
type Operation struct {
	Method      Method
	Path        string
	OperationID string
	Summary     string
	Description string
	Tags        []string
	Deprecated  bool
	Parameters  []OperationParameter
	RequestBody *RequestBody
	Responses   []OperationResponse
	Consumes    []string
	Produces    []string
}

type OperationParameter struct {
	Name        string
	In          ParameterLocation
	Description string
	Required    bool
	Schema      SchemaRef
}

// RequestBody is the operation payload. Name is used for the Swagger 2.0
// body parameter.
type RequestBody struct {
	Name        string
	Description string
	Required    bool
	Schema      SchemaRef
}

type OperationResponse struct {
	StatusCode  string
	Description string
	Schema      *SchemaRef
	Ref         string
}

type SharedResponse struct {
	Name        string
	Description string
	Schema      *SchemaRef
}
