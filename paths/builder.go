// Package paths groups operations into path items.
package paths

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/kolah/routespec/model"
	"github.com/kolah/routespec/route"
	"github.com/kolah/routespec/schema"
)

// PathConflictError reports two templates that group together but give
// the same placeholder position different types.
type PathConflictError struct {
	Path       string
	Other      string
	Param      string
	OtherParam string
}

func (e *PathConflictError) Error() string {
	return fmt.Sprintf("path %s conflicts with %s: {%s} and {%s} have different types",
		e.Path, e.Other, e.Param, e.OtherParam)
}

var precedence = map[model.Method]int{
	model.MethodGet:    0,
	model.MethodPut:    1,
	model.MethodPost:   2,
	model.MethodPatch:  3,
	model.MethodDelete: 4,
}

// CompareMethods orders GET, PUT, POST, PATCH, DELETE first and every
// other method alphabetically after them.
func CompareMethods(a, b model.Method) int {
	pa, okA := precedence[a]
	pb, okB := precedence[b]
	switch {
	case okA && okB:
		return cmp.Compare(pa, pb)
	case okA:
		return -1
	case okB:
		return 1
	}
	return cmp.Compare(a, b)
}

type group struct {
	display string
	names   []string
	types   []string
	item    model.PathItem
}

// Build groups operations by normalized template. Items come back in the
// order their first operation was seen; operations inside an item follow
// CompareMethods.
func Build(ops []model.Operation) ([]model.PathItem, error) {
	var order []*group
	groups := make(map[string]*group)

	for _, op := range ops {
		tmpl, err := route.ParseTemplate(op.Path)
		if err != nil {
			return nil, &route.InvalidRouteError{Method: op.Method, Path: op.Path, Reason: err.Error()}
		}
		names := tmpl.Params()
		types := placeholderTypes(op, names)

		g, ok := groups[tmpl.Key()]
		if !ok {
			g = &group{
				display: op.Path,
				names:   names,
				types:   types,
				item:    model.PathItem{Template: op.Path},
			}
			groups[tmpl.Key()] = g
			order = append(order, g)
		} else if op.Path != g.display {
			for i := range names {
				if types[i] != g.types[i] {
					return nil, &PathConflictError{
						Path:       op.Path,
						Other:      g.display,
						Param:      names[i],
						OtherParam: g.names[i],
					}
				}
			}
			renamed, err := renamePathParams(op, names, g.names)
			if err != nil {
				return nil, err
			}
			op = renamed
			op.Path = g.display
		}

		if g.item.Operation(op.Method) != nil {
			return nil, &route.DuplicateRouteError{Method: op.Method, Path: tmpl.Raw, Other: g.display}
		}
		g.item.Operations = append(g.item.Operations, op)
	}

	items := make([]model.PathItem, 0, len(order))
	for _, g := range order {
		slices.SortStableFunc(g.item.Operations, func(a, b model.Operation) int {
			return CompareMethods(a.Method, b.Method)
		})
		items = append(items, g.item)
	}
	return items, nil
}

func placeholderTypes(op model.Operation, names []string) []string {
	types := make([]string, len(names))
	for i, name := range names {
		for _, p := range op.Parameters {
			if p.In == model.LocationPath && p.Name == name {
				types[i] = schema.Fingerprint(p.Schema)
				break
			}
		}
	}
	return types
}

// renamePathParams gives the path parameters of op the placeholder names
// of the first-seen template. A new name must not clash with another
// parameter of op.
func renamePathParams(op model.Operation, from, to []string) (model.Operation, error) {
	rename := make(map[string]string, len(from))
	for i := range from {
		if from[i] != to[i] {
			rename[from[i]] = to[i]
		}
	}
	for _, p := range op.Parameters {
		if p.In == model.LocationPath {
			continue
		}
		for i := range from {
			if from[i] != to[i] && p.Name == to[i] {
				return op, &route.InvalidRouteError{
					Method: op.Method,
					Path:   op.Path,
					Reason: fmt.Sprintf("path parameter %s is renamed to %s, which clashes with %s parameter %s", from[i], to[i], p.In, p.Name),
				}
			}
		}
	}

	params := make([]model.OperationParameter, len(op.Parameters))
	for i, p := range op.Parameters {
		if p.In == model.LocationPath {
			if name, ok := rename[p.Name]; ok {
				p.Name = name
			}
		}
		params[i] = p
	}
	op.Parameters = params
	return op, nil
}
