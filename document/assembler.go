// Package document assembles path items and definitions into the root
// document and renders it deterministically.
package document

import (
	"cmp"
	"slices"

	"github.com/kolah/routespec/model"
	"github.com/kolah/routespec/paths"
)

// Settings carries the document-level fields that do not come from
// routes.
type Settings struct {
	Version  model.Version
	Info     model.Info
	Host     string
	BasePath string
	Schemes  []string
	// Tags supplies descriptions. Every tag used by an operation is listed
	// whether or not it appears here.
	Tags      []model.Tag
	Responses []model.SharedResponse
}

// Assemble builds the root document. Paths are sorted by template,
// definitions, tags and shared responses by name, operations by method
// precedence and responses by status code with "default" last. Inputs are
// copied, not modified.
func Assemble(s Settings, items []model.PathItem, defs []model.Definition) *model.Document {
	doc := &model.Document{
		Version:  s.Version,
		Info:     s.Info,
		Host:     s.Host,
		BasePath: s.BasePath,
		Schemes:  slices.Clone(s.Schemes),
	}
	if doc.Version == "" {
		doc.Version = model.Swagger2
	}

	doc.Paths = make([]model.PathItem, 0, len(items))
	for _, item := range items {
		ops := make([]model.Operation, len(item.Operations))
		for i, op := range item.Operations {
			op.Responses = slices.Clone(op.Responses)
			slices.SortStableFunc(op.Responses, func(a, b model.OperationResponse) int {
				return CompareStatusCodes(a.StatusCode, b.StatusCode)
			})
			ops[i] = op
		}
		slices.SortStableFunc(ops, func(a, b model.Operation) int {
			return paths.CompareMethods(a.Method, b.Method)
		})
		doc.Paths = append(doc.Paths, model.PathItem{Template: item.Template, Operations: ops})
	}
	slices.SortFunc(doc.Paths, func(a, b model.PathItem) int {
		return cmp.Compare(a.Template, b.Template)
	})

	doc.Definitions = slices.Clone(defs)
	slices.SortFunc(doc.Definitions, func(a, b model.Definition) int {
		return cmp.Compare(a.Name, b.Name)
	})

	doc.Responses = slices.Clone(s.Responses)
	slices.SortFunc(doc.Responses, func(a, b model.SharedResponse) int {
		return cmp.Compare(a.Name, b.Name)
	})

	doc.Tags = collectTags(s.Tags, doc.Paths)
	return doc
}

func collectTags(configured []model.Tag, items []model.PathItem) []model.Tag {
	byName := make(map[string]model.Tag)
	for _, t := range configured {
		if t.Name != "" {
			byName[t.Name] = t
		}
	}
	for _, item := range items {
		for _, op := range item.Operations {
			for _, name := range op.Tags {
				if _, ok := byName[name]; !ok {
					byName[name] = model.Tag{Name: name}
				}
			}
		}
	}

	tags := make([]model.Tag, 0, len(byName))
	for _, t := range byName {
		tags = append(tags, t)
	}
	slices.SortFunc(tags, func(a, b model.Tag) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return tags
}

// CompareStatusCodes sorts status codes ascending with "default" last.
func CompareStatusCodes(a, b string) int {
	switch {
	case a == b:
		return 0
	case a == "default":
		return 1
	case b == "default":
		return -1
	}
	return cmp.Compare(a, b)
}
