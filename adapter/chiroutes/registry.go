// Package chiroutes builds endpoint descriptors from a chi route tree.
package chiroutes

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/kolah/routespec/model"
)

// Registry pairs a chi route tree with descriptions of its routes. Routes
// without a description are still listed, with parameters inferred from
// the pattern and a default response.
type Registry struct {
	routes chi.Routes
	descs  map[string]model.Endpoint
	order  []string
}

func New(routes chi.Routes) *Registry {
	return &Registry{routes: routes, descs: make(map[string]model.Endpoint)}
}

// Describe attaches ep to the route registered for method and pattern.
// The pattern may use chi regexp placeholders; ep.Method and ep.Path are
// taken from the route tree.
func (r *Registry) Describe(method, pattern string, ep model.Endpoint) {
	key := routeKey(method, ParsePattern(pattern).Path)
	if _, ok := r.descs[key]; !ok {
		r.order = append(r.order, key)
	}
	r.descs[key] = ep
}

// Endpoints walks the route tree. Wildcard routes and methods a document
// cannot describe are skipped. A description whose route is missing is an
// error.
func (r *Registry) Endpoints(ctx context.Context) ([]model.Endpoint, error) {
	var endpoints []model.Endpoint
	seen := make(map[string]bool)

	err := chi.Walk(r.routes, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		m := model.Method(strings.ToUpper(method))
		if !m.Known() || strings.Contains(route, "*") {
			return nil
		}
		p := ParsePattern(route)
		key := routeKey(method, p.Path)
		if seen[key] {
			return nil
		}
		seen[key] = true

		ep, described := r.descs[key]
		if !described {
			ep = model.Endpoint{
				Responses: map[string]model.Response{
					"default": {Description: "Default response"},
				},
			}
		}
		ep.Method = m
		ep.Path = p.Path
		ep.Parameters = withPathParams(ep.Parameters, p.Params)
		endpoints = append(endpoints, ep)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking routes: %w", err)
	}

	for _, key := range r.order {
		if !seen[key] {
			return nil, fmt.Errorf("described route %s is not registered", key)
		}
	}
	return endpoints, nil
}

// withPathParams adds inferred path parameters that params does not
// declare, keeping declared ones as they are.
func withPathParams(params []model.Parameter, inferred []model.Parameter) []model.Parameter {
	out := slices.Clone(params)
	for _, p := range inferred {
		declared := slices.ContainsFunc(params, func(d model.Parameter) bool {
			return d.In == model.LocationPath && d.Name == p.Name
		})
		if !declared {
			out = append(out, p)
		}
	}
	return out
}

func routeKey(method, path string) string {
	return strings.ToUpper(method) + " " + path
}
