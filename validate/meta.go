package validate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/kolah/routespec/model"
	"github.com/pb33f/libopenapi"
	validator "github.com/pb33f/libopenapi-validator"
	"go.yaml.in/yaml/v4"
)

// MetaSchema checks rendered JSON or YAML against the published schema of
// its version. Swagger 2.0 documents go through kin-openapi (after
// conversion to 3.0) and the libopenapi v2 model builder; 3.0 documents go
// through libopenapi-validator and the kin-openapi loader.
func MetaSchema(ctx context.Context, version model.Version, rendered []byte) Violations {
	data, err := toJSON(rendered)
	if err != nil {
		return Violations{{Message: err.Error(), Rule: RuleMetaSchema}}
	}
	if version == model.OpenAPI3 {
		return append(libopenapiV3(data), kinV3(ctx, data)...)
	}
	return append(libopenapiV2(data), kinV2(ctx, data)...)
}

func kinV2(ctx context.Context, data []byte) Violations {
	var v2 openapi2.T
	if err := json.Unmarshal(data, &v2); err != nil {
		return metaErrors(fmt.Errorf("decoding swagger 2.0 document: %w", err))
	}
	v3, err := openapi2conv.ToV3(&v2)
	if err != nil {
		return metaErrors(fmt.Errorf("converting swagger 2.0 document: %w", err))
	}
	if err := openapi3.NewLoader().ResolveRefsIn(v3, nil); err != nil {
		return metaErrors(fmt.Errorf("resolving references: %w", err))
	}
	return metaErrors(v3.Validate(ctx))
}

func kinV3(ctx context.Context, data []byte) Violations {
	doc, err := openapi3.NewLoader().LoadFromData(data)
	if err != nil {
		return metaErrors(fmt.Errorf("loading openapi 3.0 document: %w", err))
	}
	return metaErrors(doc.Validate(ctx))
}

func libopenapiV2(data []byte) Violations {
	doc, err := libopenapi.NewDocument(data)
	if err != nil {
		return metaErrors(fmt.Errorf("parsing document: %w", err))
	}
	if _, err := doc.BuildV2Model(); err != nil {
		return metaErrors(fmt.Errorf("building swagger 2.0 model: %w", err))
	}
	return nil
}

func libopenapiV3(data []byte) Violations {
	doc, err := libopenapi.NewDocument(data)
	if err != nil {
		return metaErrors(fmt.Errorf("parsing document: %w", err))
	}
	v, errs := validator.NewValidator(doc)
	if len(errs) > 0 {
		return metaErrors(errors.Join(errs...))
	}
	valid, results := v.ValidateDocument()
	if valid {
		return nil
	}
	var out Violations
	for _, r := range results {
		msg := r.Message
		if r.Reason != "" {
			msg += ": " + r.Reason
		}
		out = append(out, ValidationError{Message: msg, Rule: RuleMetaSchema})
	}
	return out
}

// metaErrors flattens joined and multi errors into one violation each.
func metaErrors(err error) Violations {
	if err == nil {
		return nil
	}
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		var out Violations
		for _, e := range multi {
			out = append(out, metaErrors(e)...)
		}
		return out
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out Violations
		for _, e := range joined.Unwrap() {
			out = append(out, metaErrors(e)...)
		}
		return out
	}
	return Violations{{Message: err.Error(), Rule: RuleMetaSchema}}
}

// toJSON accepts JSON or YAML input and returns JSON.
func toJSON(data []byte) ([]byte, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		return data, nil
	}
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decoding yaml: %w", err)
	}
	out, err := json.Marshal(stringKeys(v))
	if err != nil {
		return nil, fmt.Errorf("converting yaml to json: %w", err)
	}
	return out, nil
}

func stringKeys(v any) any {
	switch v := v.(type) {
	case map[string]any:
		for k, val := range v {
			v[k] = stringKeys(val)
		}
		return v
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[fmt.Sprint(k)] = stringKeys(val)
		}
		return out
	case []any:
		for i, val := range v {
			v[i] = stringKeys(val)
		}
		return v
	}
	return v
}

// DetectVersion reads the "swagger" or "openapi" field of a rendered
// document.
func DetectVersion(data []byte) (model.Version, error) {
	var head struct {
		Swagger string `yaml:"swagger"`
		OpenAPI string `yaml:"openapi"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return "", fmt.Errorf("reading document version: %w", err)
	}
	switch {
	case strings.HasPrefix(head.OpenAPI, "3.0"):
		return model.OpenAPI3, nil
	case head.Swagger == "2.0":
		return model.Swagger2, nil
	case head.OpenAPI != "":
		return "", fmt.Errorf("unsupported openapi version %q", head.OpenAPI)
	}
	return "", errors.New("document has neither a swagger nor an openapi field")
}
