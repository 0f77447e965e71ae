// Package generator runs the full pipeline from endpoint descriptors to a
// validated, rendered document.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/kolah/routespec/document"
	"github.com/kolah/routespec/internal/naming"
	"github.com/kolah/routespec/model"
	"github.com/kolah/routespec/paths"
	"github.com/kolah/routespec/route"
	"github.com/kolah/routespec/schema"
	"github.com/kolah/routespec/validate"
)

const defaultBodyName = "payload"

type namedType struct {
	name string
	typ  *model.TypeDescriptor
}

type sharedResponse struct {
	name        string
	description string
	typ         *model.TypeDescriptor
}

// Generator holds the document settings. It keeps no state between calls
// to Generate and is safe for concurrent use.
type Generator struct {
	settings       document.Settings
	definitions    []namedType
	responses      []sharedResponse
	strict         bool
	strictCycles   bool
	skipMetaSchema bool
	logger         *slog.Logger
}

// Result is the outcome of one generation pass. It must not be modified.
type Result struct {
	Document   *model.Document
	Violations validate.Violations
	JSON       []byte
	YAML       []byte
}

func New(opts ...Option) *Generator {
	g := &Generator{}
	for _, opt := range opts {
		opt(g)
	}
	if g.settings.Version == "" {
		g.settings.Version = model.Swagger2
	}
	if g.logger == nil {
		g.logger = slog.New(slog.DiscardHandler)
	}
	return g
}

// Generate builds the document for endpoints. Collection, normalization
// and path errors abort the pass. Validation violations are returned in
// the Result, or as an error when the generator is strict.
func (g *Generator) Generate(ctx context.Context, endpoints []model.Endpoint) (*Result, error) {
	collected, err := route.Collect(endpoints)
	if err != nil {
		return nil, fmt.Errorf("collecting routes: %w", err)
	}

	var normOpts []schema.Option
	if g.strictCycles {
		normOpts = append(normOpts, schema.Strict())
	}
	norm := schema.New(normOpts...)

	for _, d := range g.definitions {
		if err := norm.Define(d.name, d.typ); err != nil {
			return nil, fmt.Errorf("defining %s: %w", d.name, err)
		}
	}

	settings := g.settings
	settings.Responses = nil
	for _, r := range g.responses {
		shared, err := g.sharedResponse(norm, r)
		if err != nil {
			return nil, fmt.Errorf("response %s: %w", r.name, err)
		}
		settings.Responses = append(settings.Responses, shared)
	}

	ops := make([]model.Operation, 0, len(collected))
	for _, ep := range collected {
		op, err := g.operation(norm, ep)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", ep.Method, ep.Path, err)
		}
		g.logger.DebugContext(ctx, "processed route",
			slog.String("method", string(ep.Method)),
			slog.String("path", ep.Path),
			slog.Int("parameters", len(op.Parameters)),
			slog.Int("responses", len(op.Responses)),
		)
		ops = append(ops, op)
	}

	items, err := paths.Build(ops)
	if err != nil {
		return nil, fmt.Errorf("building paths: %w", err)
	}

	doc := document.Assemble(settings, items, norm.Definitions())
	res := &Result{Document: doc}
	if res.JSON, err = document.JSON(doc); err != nil {
		return nil, err
	}
	if res.YAML, err = document.YAML(doc); err != nil {
		return nil, err
	}

	var valOpts []validate.Option
	if g.skipMetaSchema {
		valOpts = append(valOpts, validate.WithoutMetaSchema())
	}
	res.Violations = validate.New(valOpts...).Validate(ctx, doc, res.JSON)

	g.logger.InfoContext(ctx, "generated document",
		slog.String("version", string(doc.Version)),
		slog.Int("paths", len(doc.Paths)),
		slog.Int("operations", len(ops)),
		slog.Int("definitions", len(doc.Definitions)),
		slog.Int("violations", len(res.Violations)),
	)
	for _, v := range res.Violations {
		g.logger.WarnContext(ctx, "validation violation",
			slog.String("rule", v.Rule),
			slog.String("path", v.Path),
			slog.String("message", v.Message),
		)
	}

	if g.strict && len(res.Violations) > 0 {
		return nil, fmt.Errorf("validating document: %w", res.Violations)
	}
	return res, nil
}

func (g *Generator) sharedResponse(norm *schema.Normalizer, r sharedResponse) (model.SharedResponse, error) {
	shared := model.SharedResponse{Name: r.name, Description: r.description}
	if shared.Description == "" {
		shared.Description = r.name
	}
	if r.typ != nil {
		ref, err := norm.Normalize(r.typ, naming.PascalCase(r.name)+"Response")
		if err != nil {
			return shared, err
		}
		shared.Schema = &ref
	}
	return shared, nil
}

func (g *Generator) operation(norm *schema.Normalizer, ep model.Endpoint) (model.Operation, error) {
	op := model.Operation{
		Method:      ep.Method,
		Path:        ep.Path,
		OperationID: ep.OperationID,
		Summary:     ep.Summary,
		Description: ep.Description,
		Tags:        ep.Tags,
		Deprecated:  ep.Deprecated,
		Consumes:    ep.Consumes,
		Produces:    ep.Produces,
	}
	base := contextName(ep)

	for _, p := range ep.Parameters {
		ref, err := norm.Normalize(p.Type, base+naming.PascalCase(p.Name)+"Param")
		if err != nil {
			return op, fmt.Errorf("parameter %s: %w", p.Name, err)
		}
		if p.In == model.LocationBody {
			op.RequestBody = &model.RequestBody{
				Name:        p.Name,
				Description: p.Description,
				Required:    p.Required,
				Schema:      ref,
			}
			continue
		}
		op.Parameters = append(op.Parameters, model.OperationParameter{
			Name:        p.Name,
			In:          p.In,
			Description: p.Description,
			Required:    p.Required,
			Schema:      ref,
		})
	}

	if ep.RequestBody != nil {
		ref, err := norm.Normalize(ep.RequestBody, base+"Request")
		if err != nil {
			return op, fmt.Errorf("request body: %w", err)
		}
		op.RequestBody = &model.RequestBody{Name: defaultBodyName, Required: true, Schema: ref}
	}

	// Sorted so definition names do not depend on map order.
	codes := slices.SortedFunc(maps.Keys(ep.Responses), document.CompareStatusCodes)
	for _, code := range codes {
		r := ep.Responses[code]
		resp := model.OperationResponse{StatusCode: code, Description: r.Description}
		if r.Ref != "" {
			resp = model.OperationResponse{StatusCode: code, Ref: r.Ref}
		} else if r.Type != nil {
			ref, err := norm.Normalize(r.Type, base+"Response"+naming.PascalCase(code))
			if err != nil {
				return op, fmt.Errorf("response %s: %w", code, err)
			}
			resp.Schema = &ref
		}
		op.Responses = append(op.Responses, resp)
	}
	return op, nil
}

// contextName seeds synthetic schema names for an endpoint.
func contextName(ep model.Endpoint) string {
	if ep.OperationID != "" {
		return naming.PascalCase(ep.OperationID)
	}
	return naming.PascalCase(string(ep.Method) + " " + ep.Path)
}
