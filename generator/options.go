package generator

import (
	"log/slog"

	"github.com/kolah/routespec/model"
)

type Option func(*Generator)

// WithVersion selects the output format. The default is Swagger 2.0.
func WithVersion(v model.Version) Option {
	return func(g *Generator) {
		g.settings.Version = v
	}
}

func WithInfo(info model.Info) Option {
	return func(g *Generator) {
		g.settings.Info = info
	}
}

func WithHost(host string) Option {
	return func(g *Generator) {
		g.settings.Host = host
	}
}

func WithBasePath(basePath string) Option {
	return func(g *Generator) {
		g.settings.BasePath = basePath
	}
}

func WithSchemes(schemes ...string) Option {
	return func(g *Generator) {
		g.settings.Schemes = append(g.settings.Schemes, schemes...)
	}
}

// WithTags adds tag descriptions. Tags used by operations are listed even
// without one.
func WithTags(tags ...model.Tag) Option {
	return func(g *Generator) {
		g.settings.Tags = append(g.settings.Tags, tags...)
	}
}

// WithDefinition registers a named definition ahead of the routes, so the
// name is reserved for t even when routes use a colliding type.
func WithDefinition(name string, t *model.TypeDescriptor) Option {
	return func(g *Generator) {
		g.definitions = append(g.definitions, namedType{name: name, typ: t})
	}
}

// WithResponse registers a shared response that endpoints reference
// through model.Response.Ref. t may be nil for a response without a body.
func WithResponse(name, description string, t *model.TypeDescriptor) Option {
	return func(g *Generator) {
		g.responses = append(g.responses, sharedResponse{name: name, description: description, typ: t})
	}
}

// WithStrict turns validation violations into an error.
func WithStrict() Option {
	return func(g *Generator) {
		g.strict = true
	}
}

// WithStrictCycles rejects anonymous recursive types instead of naming
// them after their traversal path.
func WithStrictCycles() Option {
	return func(g *Generator) {
		g.strictCycles = true
	}
}

// WithoutMetaSchema skips the meta-schema pass of validation.
func WithoutMetaSchema() Option {
	return func(g *Generator) {
		g.skipMetaSchema = true
	}
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}
