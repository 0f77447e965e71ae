// Package manifest reads route tables written as YAML or JSON files.
//
// A manifest lists named types, shared responses and endpoints:
//
//	types:
//	  User:
//	    type: object
//	    required: [id]
//	    properties:
//	      id: {type: integer, format: int64}
//	      friends: {type: array, items: {$ref: User}}
//	  Member: {$ref: User}
//	responses:
//	  NotFound:
//	    description: Resource not found
//	endpoints:
//	  - method: GET
//	    path: /users/{id}
//	    parameters:
//	      - {name: id, in: path, required: true, type: integer}
//	    responses:
//	      "200": {schema: {$ref: User}}
//	      "404": {$ref: NotFound}
//
// A type that is only a $ref is an alias: references to it use the target
// type, and it is not published as a definition of its own.
package manifest

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/kolah/routespec/model"
	"go.yaml.in/yaml/v4"
)

// Manifest is a decoded route table. It implements generator.Source.
type Manifest struct {
	types     []NamedType
	responses []SharedResponse
	endpoints []model.Endpoint
}

// NamedType is a type declared under types, in file order.
type NamedType struct {
	Name string
	Type *model.TypeDescriptor
}

// SharedResponse is a response declared under responses, in file order.
type SharedResponse struct {
	Name        string
	Description string
	Type        *model.TypeDescriptor
}

func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes a manifest. JSON input is accepted since it is valid YAML.
func Parse(data []byte) (*Manifest, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}
	return newTransformer().transform(&f)
}

func (m *Manifest) Endpoints(context.Context) ([]model.Endpoint, error) {
	return slices.Clone(m.endpoints), nil
}

// Types returns the declared types. Registering them as definitions keeps
// types no endpoint uses in the document.
func (m *Manifest) Types() []NamedType {
	return slices.Clone(m.types)
}

func (m *Manifest) Responses() []SharedResponse {
	return slices.Clone(m.responses)
}
