package document

import (
	"testing"

	"github.com/kolah/routespec/model"
	"github.com/stretchr/testify/require"
)

func sampleItems() []model.PathItem {
	return []model.PathItem{
		{
			Template: "/users",
			Operations: []model.Operation{
				{
					Method: model.MethodPost,
					Path:   "/users",
					Tags:   []string{"users"},
					Responses: []model.OperationResponse{
						{StatusCode: "default"},
						{StatusCode: "201", Schema: refPtr("User")},
						{StatusCode: "400"},
					},
				},
				{Method: model.MethodGet, Path: "/users", Tags: []string{"admin", "users"}},
			},
		},
		{
			Template: "/health",
			Operations: []model.Operation{
				{Method: model.MethodGet, Path: "/health"},
			},
		},
	}
}

func refPtr(name string) *model.SchemaRef {
	r := model.Ref(name)
	return &r
}

func TestAssembleOrdering(t *testing.T) {
	defs := []model.Definition{
		{Name: "User", Schema: &model.Schema{Type: model.TypeObject}},
		{Name: "Address", Schema: &model.Schema{Type: model.TypeObject}},
	}
	items := sampleItems()

	doc := Assemble(Settings{Info: model.Info{Title: "API", Version: "1"}}, items, defs)

	require.Equal(t, model.Swagger2, doc.Version)
	require.Equal(t, "/health", doc.Paths[0].Template)
	require.Equal(t, "/users", doc.Paths[1].Template)
	require.Equal(t, model.MethodGet, doc.Paths[1].Operations[0].Method)
	require.Equal(t, model.MethodPost, doc.Paths[1].Operations[1].Method)

	var codes []string
	for _, r := range doc.Paths[1].Operations[1].Responses {
		codes = append(codes, r.StatusCode)
	}
	require.Equal(t, []string{"201", "400", "default"}, codes)

	require.Equal(t, "Address", doc.Definitions[0].Name)
	require.Equal(t, "User", doc.Definitions[1].Name)

	// inputs are left untouched
	require.Equal(t, "/users", items[0].Template)
	require.Equal(t, model.MethodPost, items[0].Operations[0].Method)
	require.Equal(t, "default", items[0].Operations[0].Responses[0].StatusCode)
	require.Equal(t, "User", defs[0].Name)
}

func TestAssembleTags(t *testing.T) {
	doc := Assemble(Settings{
		Tags: []model.Tag{
			{Name: "users", Description: "User management"},
			{Name: "unused", Description: "Listed anyway"},
		},
	}, sampleItems(), nil)

	require.Equal(t, []model.Tag{
		{Name: "admin"},
		{Name: "unused", Description: "Listed anyway"},
		{Name: "users", Description: "User management"},
	}, doc.Tags)
}

func TestCompareStatusCodes(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"200", "200", 0},
		{"200", "404", -1},
		{"500", "201", 1},
		{"default", "200", 1},
		{"200", "default", -1},
	}
	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			require.Equal(t, tt.want, CompareStatusCodes(tt.a, tt.b))
		})
	}
}
