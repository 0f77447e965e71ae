// Package handler publishes the generated document over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kolah/routespec/generator"
)

const (
	DefaultJSONPath = "/swagger.json"
	DefaultYAMLPath = "/swagger.yaml"
)

// ResultProvider yields the document to serve. *generator.Provider
// implements it.
type ResultProvider interface {
	Result(ctx context.Context) (*generator.Result, error)
}

type Options struct {
	jsonPath string
	yamlPath string
	logger   *slog.Logger
}

type Option func(*Options)

func JSONPath(path string) Option {
	return func(o *Options) {
		o.jsonPath = path
	}
}

func YAMLPath(path string) Option {
	return func(o *Options) {
		o.yamlPath = path
	}
}

func Logger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.logger = logger
	}
}

// New returns a router serving the document as JSON and YAML. The
// document is generated on the first request.
func New(p ResultProvider, opts ...Option) chi.Router {
	o := &Options{
		jsonPath: DefaultJSONPath,
		yamlPath: DefaultYAMLPath,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(o)
	}

	r := chi.NewMux()
	r.Get(o.jsonPath, serve(p, o.logger, "application/json", func(res *generator.Result) []byte {
		return res.JSON
	}))
	r.Get(o.yamlPath, serve(p, o.logger, "application/yaml", func(res *generator.Result) []byte {
		return res.YAML
	}))
	return r
}

func serve(p ResultProvider, log *slog.Logger, contentType string, body func(*generator.Result) []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := p.Result(r.Context())
		if err != nil {
			log.ErrorContext(r.Context(), "failed to generate document",
				slog.String("path", r.URL.Path),
				slog.String("error", err.Error()),
			)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(body(res)); err != nil {
			log.ErrorContext(r.Context(), "failed to write document",
				slog.String("path", r.URL.Path),
				slog.String("error", err.Error()),
			)
		}
	}
}
