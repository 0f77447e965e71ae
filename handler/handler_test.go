package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kolah/routespec/generator"
	"github.com/kolah/routespec/model"
	"github.com/stretchr/testify/require"
)

func testProvider() *generator.Provider {
	gen := generator.New(
		generator.WithInfo(model.Info{Title: "Pets", Version: "1.0.0"}),
		generator.WithoutMetaSchema(),
	)
	return generator.NewProvider(gen, generator.StaticSource{
		{
			Method:    model.MethodGet,
			Path:      "/pets",
			Responses: map[string]model.Response{"200": {Type: model.ArrayOf(model.String())}},
		},
	})
}

type failingProvider struct{}

func (failingProvider) Result(context.Context) (*generator.Result, error) {
	return nil, errors.New("no routes")
}

func TestHandlerServesDocument(t *testing.T) {
	p := testProvider()
	res, err := p.Result(context.Background())
	require.NoError(t, err)

	tests := []struct {
		path        string
		contentType string
		body        []byte
	}{
		{path: "/swagger.json", contentType: "application/json", body: res.JSON},
		{path: "/swagger.yaml", contentType: "application/yaml", body: res.YAML},
	}

	h := New(p)
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			require.Equal(t, http.StatusOK, rec.Code)
			require.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
			require.Equal(t, tt.body, rec.Body.Bytes())
		})
	}
}

func TestHandlerCustomPaths(t *testing.T) {
	h := New(testProvider(), JSONPath("/docs/api.json"), YAMLPath("/docs/api.yaml"))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/api.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger.json", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	New(testProvider()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/swagger.json", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandlerGenerationFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	New(failingProvider{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger.yaml", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestDocumentEndpoints(t *testing.T) {
	endpoints := DocumentEndpoints(YAMLPath("/api.yaml"))
	require.Len(t, endpoints, 2)
	require.Equal(t, "/swagger.json", endpoints[0].Path)
	require.Equal(t, "/api.yaml", endpoints[1].Path)
	require.Equal(t, []string{"application/yaml"}, endpoints[1].Produces)

	res, err := generator.New(generator.WithInfo(model.Info{Title: "Docs", Version: "1"})).
		Generate(context.Background(), endpoints)
	require.NoError(t, err)
	require.Empty(t, res.Violations, res.Violations.Error())
}
