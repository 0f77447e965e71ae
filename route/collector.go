// Package route validates endpoint descriptors handed over by adapters.
package route

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kolah/routespec/model"
)

// Collect validates endpoints and returns normalized copies in input
// order. It fails on the first invalid or duplicate descriptor.
func Collect(endpoints []model.Endpoint) ([]model.Endpoint, error) {
	collected := make([]model.Endpoint, 0, len(endpoints))
	seen := make(map[string]bool, len(endpoints))

	for _, ep := range endpoints {
		ep.Method = model.Method(strings.ToUpper(string(ep.Method)))
		if err := check(ep); err != nil {
			return nil, err
		}

		key := string(ep.Method) + " " + ep.Path
		if seen[key] {
			return nil, &DuplicateRouteError{Method: ep.Method, Path: ep.Path}
		}
		seen[key] = true

		collected = append(collected, normalize(ep))
	}

	return collected, nil
}

func check(ep model.Endpoint) error {
	invalid := func(format string, args ...any) error {
		return &InvalidRouteError{Method: ep.Method, Path: ep.Path, Reason: fmt.Sprintf(format, args...)}
	}

	if !ep.Method.Known() {
		return invalid("unknown method")
	}

	tmpl, err := ParseTemplate(ep.Path)
	if err != nil {
		return invalid("%v", err)
	}

	placeholders := make(map[string]bool)
	for _, name := range tmpl.Params() {
		if placeholders[name] {
			return invalid("placeholder {%s} appears more than once", name)
		}
		placeholders[name] = true
	}

	declared := make(map[string]bool)
	bodies := 0
	if ep.RequestBody != nil {
		bodies++
	}
	for _, p := range ep.Parameters {
		if p.Name == "" {
			return invalid("parameter has no name")
		}
		switch p.In {
		case model.LocationPath, model.LocationQuery, model.LocationHeader:
		case model.LocationBody:
			bodies++
		default:
			return invalid("parameter %s has unknown location %q", p.Name, p.In)
		}

		key := string(p.In) + ":" + p.Name
		if declared[key] {
			return invalid("parameter %s declared twice in %s", p.Name, p.In)
		}
		declared[key] = true

		if p.In != model.LocationPath {
			continue
		}
		if !p.Required {
			return invalid("path parameter %s must be required", p.Name)
		}
		if !placeholders[p.Name] {
			return invalid("path parameter %s does not appear in the template", p.Name)
		}
	}

	for _, name := range tmpl.Params() {
		if !declared[string(model.LocationPath)+":"+name] {
			return invalid("placeholder {%s} has no path parameter", name)
		}
	}

	if bodies > 1 {
		return invalid("more than one body")
	}
	return nil
}

func normalize(ep model.Endpoint) model.Endpoint {
	ep.Parameters = slices.Clone(ep.Parameters)
	ep.Consumes = slices.Clone(ep.Consumes)
	ep.Produces = slices.Clone(ep.Produces)

	if len(ep.Tags) > 0 {
		tags := slices.Clone(ep.Tags)
		slices.Sort(tags)
		ep.Tags = slices.Compact(tags)
	}

	if ep.Responses != nil {
		responses := make(map[string]model.Response, len(ep.Responses))
		for code, r := range ep.Responses {
			responses[code] = r
		}
		ep.Responses = responses
	}
	return ep
}
