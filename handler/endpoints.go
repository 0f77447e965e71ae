package handler

import "github.com/kolah/routespec/model"

// DocumentEndpoints describes the routes New serves, so a published
// document can list itself.
func DocumentEndpoints(opts ...Option) []model.Endpoint {
	o := &Options{jsonPath: DefaultJSONPath, yamlPath: DefaultYAMLPath}
	for _, opt := range opts {
		opt(o)
	}

	describe := func(path, summary, mediaType string) model.Endpoint {
		return model.Endpoint{
			Method:   model.MethodGet,
			Path:     path,
			Summary:  summary,
			Tags:     []string{"documentation"},
			Produces: []string{mediaType},
			Responses: map[string]model.Response{
				"200": {Description: "This API description document.", Type: &model.TypeDescriptor{Kind: model.KindAny}},
			},
		}
	}
	return []model.Endpoint{
		describe(o.jsonPath, "Get the API description in JSON format", "application/json"),
		describe(o.yamlPath, "Get the API description in YAML format", "application/yaml"),
	}
}
