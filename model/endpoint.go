// Package model holds the framework-neutral route descriptors consumed by
// the generator and the document model it produces.
package model

type Method string

const (
	MethodGet     Method = "GET"
	MethodPut     Method = "PUT"
	MethodPost    Method = "POST"
	MethodPatch   Method = "PATCH"
	MethodDelete  Method = "DELETE"
	MethodHead    Method = "HEAD"
	MethodOptions Method = "OPTIONS"
	MethodTrace   Method = "TRACE"
)

// Known reports whether m is one of the methods an operation may use.
func (m Method) Known() bool {
	switch m {
	case MethodGet, MethodPut, MethodPost, MethodPatch, MethodDelete,
		MethodHead, MethodOptions, MethodTrace:
		return true
	}
	return false
}

type ParameterLocation string

const (
	LocationPath   ParameterLocation = "path"
	LocationQuery  ParameterLocation = "query"
	LocationHeader ParameterLocation = "header"
	LocationBody   ParameterLocation = "body"
)

// Endpoint describes one registered route. Adapters build it; the
// generator never modifies it.
type Endpoint struct {
	Method      Method
	Path        string
	OperationID string
	Summary     string
	Description string
	Tags        []string
	Deprecated  bool
	Parameters  []Parameter
	RequestBody *TypeDescriptor
	// Responses is keyed by status code ("200", "404", "default").
	Responses map[string]Response
	Consumes  []string
	Produces  []string
}

type Parameter struct {
	Name        string
	In          ParameterLocation
	Description string
	Required    bool
	Type        *TypeDescriptor
}

// Response describes the body returned for a status code. When Ref is set
// it names a shared response and the other fields are ignored.
type Response struct {
	Description string
	Type        *TypeDescriptor
	Ref         string
}

// PathParameters returns the parameters declared with LocationPath.
func (e *Endpoint) PathParameters() []Parameter {
	var params []Parameter
	for _, p := range e.Parameters {
		if p.In == LocationPath {
			params = append(params, p)
		}
	}
	return params
}
