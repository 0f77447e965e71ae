package generator

import (
	"context"
	"slices"

	"github.com/kolah/routespec/model"
)

// Source supplies endpoint descriptors. Adapters implement it; the
// generator never calls back into them after Endpoints returns.
type Source interface {
	Endpoints(ctx context.Context) ([]model.Endpoint, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]model.Endpoint, error)

func (f SourceFunc) Endpoints(ctx context.Context) ([]model.Endpoint, error) {
	return f(ctx)
}

// StaticSource is a fixed list of endpoints.
type StaticSource []model.Endpoint

func (s StaticSource) Endpoints(context.Context) ([]model.Endpoint, error) {
	return slices.Clone(s), nil
}
