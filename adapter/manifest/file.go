package manifest

import "go.yaml.in/yaml/v4"

// file mirrors the document layout. Mappings whose key order matters are
// kept as nodes.
type file struct {
	Types     yaml.Node      `yaml:"types"`
	Responses yaml.Node      `yaml:"responses"`
	Endpoints []endpointSpec `yaml:"endpoints"`
}

type typeSpec struct {
	Ref                  string    `yaml:"$ref"`
	Type                 string    `yaml:"type"`
	Format               string    `yaml:"format"`
	Description          string    `yaml:"description"`
	Enum                 []any     `yaml:"enum"`
	Nullable             bool      `yaml:"nullable"`
	Required             []string  `yaml:"required"`
	Properties           yaml.Node `yaml:"properties"`
	Items                *typeSpec `yaml:"items"`
	AdditionalProperties *typeSpec `yaml:"additionalProperties"`
}

type endpointSpec struct {
	Method      string                  `yaml:"method"`
	Path        string                  `yaml:"path"`
	OperationID string                  `yaml:"operationId"`
	Summary     string                  `yaml:"summary"`
	Description string                  `yaml:"description"`
	Tags        []string                `yaml:"tags"`
	Deprecated  bool                    `yaml:"deprecated"`
	Parameters  []parameterSpec         `yaml:"parameters"`
	RequestBody *typeSpec               `yaml:"requestBody"`
	Responses   map[string]responseSpec `yaml:"responses"`
	Consumes    []string                `yaml:"consumes"`
	Produces    []string                `yaml:"produces"`
}

// parameterSpec takes the type either under schema or, Swagger 2.0
// style, directly on the parameter.
type parameterSpec struct {
	Name        string    `yaml:"name"`
	In          string    `yaml:"in"`
	Description string    `yaml:"description"`
	Required    bool      `yaml:"required"`
	Schema      *typeSpec `yaml:"schema"`

	Type   string    `yaml:"type"`
	Format string    `yaml:"format"`
	Enum   []any     `yaml:"enum"`
	Items  *typeSpec `yaml:"items"`
}

type responseSpec struct {
	Ref         string    `yaml:"$ref"`
	Description string    `yaml:"description"`
	Schema      *typeSpec `yaml:"schema"`
}
