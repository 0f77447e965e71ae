package route

import (
	"errors"
	"testing"

	"github.com/kolah/routespec/model"
	"github.com/stretchr/testify/require"
)

func idParam() model.Parameter {
	return model.Parameter{Name: "id", In: model.LocationPath, Required: true, Type: model.Integer()}
}

func TestCollectPreservesOrder(t *testing.T) {
	endpoints := []model.Endpoint{
		{Method: "post", Path: "/users"},
		{Method: model.MethodGet, Path: "/users/{id}", Parameters: []model.Parameter{idParam()}},
		{Method: model.MethodGet, Path: "/users", Tags: []string{"users", "admin", "users"}},
	}

	collected, err := Collect(endpoints)
	require.NoError(t, err)
	require.Len(t, collected, 3)

	require.Equal(t, model.MethodPost, collected[0].Method)
	require.Equal(t, "/users/{id}", collected[1].Path)
	require.Equal(t, []string{"admin", "users"}, collected[2].Tags)
	// input untouched
	require.Equal(t, []string{"users", "admin", "users"}, endpoints[2].Tags)
}

func TestCollectDuplicateRoute(t *testing.T) {
	endpoints := []model.Endpoint{
		{Method: model.MethodGet, Path: "/users"},
		{Method: "get", Path: "/users"},
	}

	collected, err := Collect(endpoints)
	require.Nil(t, collected)

	var dup *DuplicateRouteError
	require.True(t, errors.As(err, &dup))
	require.Equal(t, model.MethodGet, dup.Method)
	require.Equal(t, "/users", dup.Path)
}

func TestCollectInvalid(t *testing.T) {
	tests := []struct {
		name        string
		endpoint    model.Endpoint
		errContains string
	}{
		{
			name:        "unknown method",
			endpoint:    model.Endpoint{Method: "FETCH", Path: "/a"},
			errContains: "unknown method",
		},
		{
			name:        "relative path",
			endpoint:    model.Endpoint{Method: model.MethodGet, Path: "a"},
			errContains: "path must start with /",
		},
		{
			name:        "unclosed placeholder",
			endpoint:    model.Endpoint{Method: model.MethodGet, Path: "/a/{id"},
			errContains: "unclosed {",
		},
		{
			name:        "undeclared placeholder",
			endpoint:    model.Endpoint{Method: model.MethodGet, Path: "/users/{id}"},
			errContains: "placeholder {id} has no path parameter",
		},
		{
			name: "repeated placeholder",
			endpoint: model.Endpoint{
				Method:     model.MethodGet,
				Path:       "/users/{id}/friends/{id}",
				Parameters: []model.Parameter{idParam()},
			},
			errContains: "appears more than once",
		},
		{
			name: "path parameter not in template",
			endpoint: model.Endpoint{
				Method:     model.MethodGet,
				Path:       "/users",
				Parameters: []model.Parameter{idParam()},
			},
			errContains: "does not appear in the template",
		},
		{
			name: "optional path parameter",
			endpoint: model.Endpoint{
				Method:     model.MethodGet,
				Path:       "/users/{id}",
				Parameters: []model.Parameter{{Name: "id", In: model.LocationPath, Type: model.String()}},
			},
			errContains: "must be required",
		},
		{
			name: "two bodies",
			endpoint: model.Endpoint{
				Method:      model.MethodPost,
				Path:        "/users",
				RequestBody: model.Object("User"),
				Parameters:  []model.Parameter{{Name: "payload", In: model.LocationBody, Type: model.Object("User")}},
			},
			errContains: "more than one body",
		},
		{
			name: "unknown location",
			endpoint: model.Endpoint{
				Method:     model.MethodGet,
				Path:       "/users",
				Parameters: []model.Parameter{{Name: "session", In: "cookie", Type: model.String()}},
			},
			errContains: "unknown location",
		},
		{
			name: "parameter declared twice",
			endpoint: model.Endpoint{
				Method: model.MethodGet,
				Path:   "/users",
				Parameters: []model.Parameter{
					{Name: "limit", In: model.LocationQuery, Type: model.Integer()},
					{Name: "limit", In: model.LocationQuery, Type: model.Integer()},
				},
			},
			errContains: "declared twice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Collect([]model.Endpoint{tt.endpoint})
			var invalid *InvalidRouteError
			require.True(t, errors.As(err, &invalid))
			require.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestParseTemplate(t *testing.T) {
	tmpl, err := ParseTemplate("/Files/{name}.{ext}")
	require.NoError(t, err)
	require.Equal(t, []string{"name", "ext"}, tmpl.Params())
	require.Equal(t, "/files/{}.{}", tmpl.Key())
	require.Equal(t, "/Files/{file}.{kind}", tmpl.Rename([]string{"file", "kind"}))

	for _, bad := range []string{"", "users", "/a/{}", "/a/}", "/a/{b{c}}"} {
		_, err := ParseTemplate(bad)
		require.Error(t, err, bad)
	}
}
