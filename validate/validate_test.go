package validate

import (
	"context"
	"testing"

	"github.com/kolah/routespec/document"
	"github.com/kolah/routespec/model"
	"github.com/stretchr/testify/require"
)

func validDoc(version model.Version) *model.Document {
	user := model.Ref("User")
	return &model.Document{
		Version: version,
		Info:    model.Info{Title: "Users", Version: "1.0.0"},
		Paths: []model.PathItem{
			{
				Template: "/users/{id}",
				Operations: []model.Operation{
					{
						Method:      model.MethodGet,
						Path:        "/users/{id}",
						OperationID: "getUser",
						Parameters: []model.OperationParameter{
							{Name: "id", In: model.LocationPath, Required: true, Schema: model.Inline(&model.Schema{Type: model.TypeInteger, Format: "int64"})},
							{Name: "expand", In: model.LocationQuery, Schema: model.Inline(&model.Schema{
								Type:  model.TypeArray,
								Items: &model.SchemaRef{Schema: &model.Schema{Type: model.TypeString}},
							})},
						},
						Responses: []model.OperationResponse{
							{StatusCode: "200", Description: "OK", Schema: &user},
							{StatusCode: "default", Description: "Error"},
						},
					},
				},
			},
		},
		Definitions: []model.Definition{
			{Name: "User", Schema: &model.Schema{
				Type: model.TypeObject,
				Properties: []model.Property{
					{Name: "id", Schema: model.Inline(&model.Schema{Type: model.TypeInteger, Format: "int64"})},
					{Name: "name", Schema: model.Inline(&model.Schema{Type: model.TypeString})},
				},
				Required: []string{"id"},
			}},
		},
	}
}

func rules(v Violations) []string {
	out := make([]string, len(v))
	for i, e := range v {
		out[i] = e.Rule
	}
	return out
}

func TestStructuralValid(t *testing.T) {
	require.Empty(t, Structural(validDoc(model.Swagger2)))
	require.Empty(t, Structural(validDoc(model.OpenAPI3)))
}

func TestStructuralViolations(t *testing.T) {
	tests := []struct {
		name     string
		version  model.Version
		mutate   func(d *model.Document)
		wantRule string
		wantPath string
	}{
		{
			name:     "missing title",
			mutate:   func(d *model.Document) { d.Info.Title = "" },
			wantRule: RuleInfoRequired,
			wantPath: "/info/title",
		},
		{
			name:     "missing version",
			mutate:   func(d *model.Document) { d.Info.Version = " " },
			wantRule: RuleInfoRequired,
			wantPath: "/info/version",
		},
		{
			name: "dangling response ref",
			mutate: func(d *model.Document) {
				ref := model.Ref("Missing")
				d.Paths[0].Operations[0].Responses[0].Schema = &ref
			},
			wantRule: RuleRefResolves,
			wantPath: "/paths/~1users~1{id}/get/responses/200/schema",
		},
		{
			name: "dangling ref in definition",
			mutate: func(d *model.Document) {
				d.Definitions[0].Schema.Properties[1].Schema = model.Ref("Name")
			},
			wantRule: RuleRefResolves,
			wantPath: "/definitions/User/properties/name",
		},
		{
			name:    "dangling ref in components",
			version: model.OpenAPI3,
			mutate: func(d *model.Document) {
				d.Definitions[0].Schema.Properties[1].Schema = model.Ref("Name")
			},
			wantRule: RuleRefResolves,
			wantPath: "/components/schemas/User/properties/name",
		},
		{
			name: "dangling shared response",
			mutate: func(d *model.Document) {
				d.Paths[0].Operations[0].Responses[1] = model.OperationResponse{StatusCode: "default", Ref: "Error"}
			},
			wantRule: RuleRefResolves,
			wantPath: "/paths/~1users~1{id}/get/responses/default",
		},
		{
			name: "undeclared placeholder",
			mutate: func(d *model.Document) {
				d.Paths[0].Operations[0].Parameters = d.Paths[0].Operations[0].Parameters[1:]
			},
			wantRule: RulePathParams,
			wantPath: "/paths/~1users~1{id}/get/parameters",
		},
		{
			name: "path parameter outside template",
			mutate: func(d *model.Document) {
				d.Paths[0].Operations[0].Parameters[1].In = model.LocationPath
			},
			wantRule: RulePathParams,
			wantPath: "/paths/~1users~1{id}/get/parameters/1",
		},
		{
			name: "bad status code",
			mutate: func(d *model.Document) {
				d.Paths[0].Operations[0].Responses[0].StatusCode = "20"
			},
			wantRule: RuleStatusCode,
			wantPath: "/paths/~1users~1{id}/get/responses/20",
		},
		{
			name: "status code out of range",
			mutate: func(d *model.Document) {
				d.Paths[0].Operations[0].Responses[0].StatusCode = "600"
			},
			wantRule: RuleStatusCode,
			wantPath: "/paths/~1users~1{id}/get/responses/600",
		},
		{
			name: "no responses",
			mutate: func(d *model.Document) {
				d.Paths[0].Operations[0].Responses = nil
			},
			wantRule: RuleResponsesRequired,
			wantPath: "/paths/~1users~1{id}/get/responses",
		},
		{
			name: "object query parameter",
			mutate: func(d *model.Document) {
				d.Paths[0].Operations[0].Parameters[1].Schema = model.Inline(&model.Schema{Type: model.TypeObject})
			},
			wantRule: RuleParameterType,
			wantPath: "/paths/~1users~1{id}/get/parameters/1",
		},
		{
			name: "ref query parameter",
			mutate: func(d *model.Document) {
				d.Paths[0].Operations[0].Parameters[1].Schema = model.Ref("User")
			},
			wantRule: RuleParameterType,
			wantPath: "/paths/~1users~1{id}/get/parameters/1",
		},
		{
			name: "duplicate operation id",
			mutate: func(d *model.Document) {
				op := d.Paths[0].Operations[0]
				op.Method = model.MethodDelete
				d.Paths[0].Operations = append(d.Paths[0].Operations, op)
			},
			wantRule: RuleOperationID,
			wantPath: "/paths/~1users~1{id}/delete/operationId",
		},
		{
			name: "trace operation in swagger 2.0",
			mutate: func(d *model.Document) {
				d.Paths[0].Operations[0].Method = model.MethodTrace
			},
			wantRule: RuleMethod,
			wantPath: "/paths/~1users~1{id}/trace",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version := tt.version
			if version == "" {
				version = model.Swagger2
			}
			doc := validDoc(version)
			tt.mutate(doc)

			violations := Structural(doc)
			require.Len(t, violations, 1, violations.Error())
			require.Equal(t, tt.wantRule, violations[0].Rule)
			require.Equal(t, tt.wantPath, violations[0].Path)
		})
	}
}

func TestStructuralObjectQueryParameterAllowedIn3(t *testing.T) {
	doc := validDoc(model.OpenAPI3)
	doc.Paths[0].Operations[0].Parameters[1].Schema = model.Ref("User")
	require.Empty(t, Structural(doc))
}

func TestStructuralTraceAllowedIn3(t *testing.T) {
	doc := validDoc(model.OpenAPI3)
	doc.Paths[0].Operations[0].Method = model.MethodTrace
	require.Empty(t, Structural(doc))
}

func TestStructuralReportsAll(t *testing.T) {
	doc := validDoc(model.Swagger2)
	doc.Info = model.Info{}
	doc.Paths[0].Operations[0].Responses[0].StatusCode = "abc"

	violations := Structural(doc)
	require.Equal(t, []string{RuleInfoRequired, RuleInfoRequired, RuleStatusCode}, rules(violations))
	require.Error(t, violations.Err())
	require.Contains(t, violations.Error(), "3 violations")
}

func TestStructuralDoesNotMutate(t *testing.T) {
	doc := validDoc(model.Swagger2)
	doc.Info.Title = ""
	before := *doc
	Structural(doc)
	require.Equal(t, before, *doc)
}

func TestValidateRenderedDocuments(t *testing.T) {
	for _, version := range []model.Version{model.Swagger2, model.OpenAPI3} {
		t.Run(string(version), func(t *testing.T) {
			doc := validDoc(version)
			data, err := document.JSON(doc)
			require.NoError(t, err)

			violations := New().Validate(context.Background(), doc, data)
			require.Empty(t, violations, violations.Error())

			yamlData, err := document.YAML(doc)
			require.NoError(t, err)
			got, violations, err := New().Rendered(context.Background(), yamlData)
			require.NoError(t, err)
			require.Equal(t, version, got)
			require.Empty(t, violations, violations.Error())
		})
	}
}

func TestMetaSchemaReportsMissingVersion(t *testing.T) {
	tests := map[string]string{
		"swagger": `{"swagger":"2.0","info":{"title":"x"},"paths":{}}`,
		"openapi": `{"openapi":"3.0.3","info":{"title":"x"},"paths":{}}`,
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, violations, err := New().Rendered(context.Background(), []byte(data))
			require.NoError(t, err)
			require.NotEmpty(t, violations)
			for _, v := range violations {
				require.Equal(t, RuleMetaSchema, v.Rule)
			}
		})
	}
}

func TestValidateSkipsMetaSchema(t *testing.T) {
	doc := validDoc(model.Swagger2)
	violations := New(WithoutMetaSchema()).Validate(context.Background(), doc, []byte("not a document"))
	require.Empty(t, violations)
}

func TestDetectVersion(t *testing.T) {
	tests := []struct {
		input   string
		want    model.Version
		wantErr bool
	}{
		{input: "swagger: \"2.0\"\n", want: model.Swagger2},
		{input: `{"openapi": "3.0.1"}`, want: model.OpenAPI3},
		{input: "openapi: 3.1.0\n", wantErr: true},
		{input: "info: {}\n", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := DetectVersion([]byte(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestPointer(t *testing.T) {
	require.Equal(t, "/paths/~1a~0b/get", pointer("paths", "/a~b", "get"))
	require.Equal(t, "", pointer())
}
