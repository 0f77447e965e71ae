package manifest

import (
	"fmt"
	"strings"

	"github.com/kolah/routespec/model"
	"go.yaml.in/yaml/v4"
)

var refPrefixes = []string{"#/definitions/", "#/components/schemas/"}

var responseRefPrefixes = []string{"#/responses/", "#/components/responses/"}

type transformer struct {
	// named holds one descriptor per declared type so references share a
	// pointer and recursive types form a cycle. Aliases share the pointer
	// of their target.
	named map[string]*model.TypeDescriptor
}

func newTransformer() *transformer {
	return &transformer{named: make(map[string]*model.TypeDescriptor)}
}

func (t *transformer) transform(f *file) (*Manifest, error) {
	m := &Manifest{}

	types, err := orderedEntries(&f.Types, "types")
	if err != nil {
		return nil, err
	}
	specs := make([]typeSpec, len(types))
	aliases := make(map[string]string)
	for i, entry := range types {
		if _, ok := t.named[entry.key]; ok {
			return nil, fmt.Errorf("type %s declared twice", entry.key)
		}
		if _, ok := aliases[entry.key]; ok {
			return nil, fmt.Errorf("type %s declared twice", entry.key)
		}
		if err := entry.value.Decode(&specs[i]); err != nil {
			return nil, fmt.Errorf("type %s: %w", entry.key, err)
		}
		if specs[i].Ref != "" {
			aliases[entry.key] = trimAny(specs[i].Ref, refPrefixes)
			continue
		}
		t.named[entry.key] = &model.TypeDescriptor{Name: entry.key}
	}
	for _, entry := range types {
		if _, ok := aliases[entry.key]; !ok {
			continue
		}
		target, err := resolveAlias(entry.key, aliases)
		if err != nil {
			return nil, err
		}
		shell, ok := t.named[target]
		if !ok {
			return nil, fmt.Errorf("type %s: alias of undeclared type %q", entry.key, target)
		}
		t.named[entry.key] = shell
	}
	for i, entry := range types {
		if _, ok := aliases[entry.key]; ok {
			continue
		}
		shell := t.named[entry.key]
		desc, err := t.transformType(&specs[i], entry.key)
		if err != nil {
			return nil, fmt.Errorf("type %s: %w", entry.key, err)
		}
		*shell = *desc
		m.types = append(m.types, NamedType{Name: entry.key, Type: shell})
	}

	responses, err := orderedEntries(&f.Responses, "responses")
	if err != nil {
		return nil, err
	}
	for _, entry := range responses {
		var spec responseSpec
		if err := entry.value.Decode(&spec); err != nil {
			return nil, fmt.Errorf("response %s: %w", entry.key, err)
		}
		shared := SharedResponse{Name: entry.key, Description: spec.Description}
		if spec.Schema != nil {
			if shared.Type, err = t.transformType(spec.Schema, ""); err != nil {
				return nil, fmt.Errorf("response %s: %w", entry.key, err)
			}
		}
		m.responses = append(m.responses, shared)
	}

	for i, spec := range f.Endpoints {
		ep, err := t.transformEndpoint(&spec)
		if err != nil {
			return nil, fmt.Errorf("endpoint %d (%s %s): %w", i, spec.Method, spec.Path, err)
		}
		m.endpoints = append(m.endpoints, ep)
	}
	return m, nil
}

func (t *transformer) transformEndpoint(spec *endpointSpec) (model.Endpoint, error) {
	ep := model.Endpoint{
		Method:      model.Method(strings.ToUpper(spec.Method)),
		Path:        spec.Path,
		OperationID: spec.OperationID,
		Summary:     spec.Summary,
		Description: spec.Description,
		Tags:        spec.Tags,
		Deprecated:  spec.Deprecated,
		Consumes:    spec.Consumes,
		Produces:    spec.Produces,
	}

	for _, p := range spec.Parameters {
		param, err := t.transformParameter(&p)
		if err != nil {
			return ep, fmt.Errorf("parameter %s: %w", p.Name, err)
		}
		ep.Parameters = append(ep.Parameters, param)
	}

	if spec.RequestBody != nil {
		body, err := t.transformType(spec.RequestBody, "")
		if err != nil {
			return ep, fmt.Errorf("request body: %w", err)
		}
		ep.RequestBody = body
	}

	if len(spec.Responses) > 0 {
		ep.Responses = make(map[string]model.Response, len(spec.Responses))
	}
	for code, r := range spec.Responses {
		resp := model.Response{Description: r.Description}
		if r.Ref != "" {
			resp.Ref = trimAny(r.Ref, responseRefPrefixes)
		} else if r.Schema != nil {
			typ, err := t.transformType(r.Schema, "")
			if err != nil {
				return ep, fmt.Errorf("response %s: %w", code, err)
			}
			resp.Type = typ
		}
		ep.Responses[code] = resp
	}
	return ep, nil
}

func (t *transformer) transformParameter(p *parameterSpec) (model.Parameter, error) {
	param := model.Parameter{
		Name:        p.Name,
		In:          model.ParameterLocation(strings.ToLower(p.In)),
		Description: p.Description,
		Required:    p.Required,
	}
	spec := p.Schema
	if spec == nil {
		spec = &typeSpec{Type: p.Type, Format: p.Format, Enum: p.Enum, Items: p.Items}
	}
	typ, err := t.transformType(spec, "")
	if err != nil {
		return param, err
	}
	param.Type = typ
	return param, nil
}

// resolveAlias follows a chain of aliases to the first declared type.
func resolveAlias(name string, aliases map[string]string) (string, error) {
	seen := map[string]bool{name: true}
	target := aliases[name]
	for {
		next, ok := aliases[target]
		if !ok {
			return target, nil
		}
		if seen[target] {
			return "", fmt.Errorf("type %s: alias cycle through %s", name, target)
		}
		seen[target] = true
		target = next
	}
}

// transformType converts a schema entry. name is set for declared types
// only; inline objects stay anonymous.
func (t *transformer) transformType(spec *typeSpec, name string) (*model.TypeDescriptor, error) {
	if spec.Ref != "" {
		ref := trimAny(spec.Ref, refPrefixes)
		if named, ok := t.named[ref]; ok {
			return named, nil
		}
		return model.RefTo(ref), nil
	}

	desc := &model.TypeDescriptor{
		Format:      spec.Format,
		Description: spec.Description,
		Enum:        spec.Enum,
		Nullable:    spec.Nullable,
	}

	switch spec.Type {
	case "string":
		desc.Kind = model.KindString
	case "integer":
		desc.Kind = model.KindInteger
	case "number":
		desc.Kind = model.KindNumber
	case "boolean":
		desc.Kind = model.KindBoolean
	case "array":
		desc.Kind = model.KindArray
		if spec.Items == nil {
			return nil, fmt.Errorf("array has no items")
		}
		elem, err := t.transformType(spec.Items, "")
		if err != nil {
			return nil, fmt.Errorf("items: %w", err)
		}
		desc.Elem = elem
	case "object", "":
		if spec.Properties.Kind == 0 && spec.AdditionalProperties != nil {
			desc.Kind = model.KindMap
			elem, err := t.transformType(spec.AdditionalProperties, "")
			if err != nil {
				return nil, fmt.Errorf("additionalProperties: %w", err)
			}
			desc.Elem = elem
			return desc, nil
		}
		if spec.Type == "" && spec.Properties.Kind == 0 {
			desc.Kind = model.KindAny
			return desc, nil
		}
		desc.Kind = model.KindObject
		desc.Name = name
		fields, err := t.transformFields(spec)
		if err != nil {
			return nil, err
		}
		desc.Fields = fields
	default:
		return nil, fmt.Errorf("unknown type %q", spec.Type)
	}
	return desc, nil
}

func (t *transformer) transformFields(spec *typeSpec) ([]model.Field, error) {
	props, err := orderedEntries(&spec.Properties, "properties")
	if err != nil {
		return nil, err
	}
	required := make(map[string]bool, len(spec.Required))
	for _, name := range spec.Required {
		required[name] = true
	}

	fields := make([]model.Field, 0, len(props))
	for _, entry := range props {
		var prop typeSpec
		if err := entry.value.Decode(&prop); err != nil {
			return nil, fmt.Errorf("property %s: %w", entry.key, err)
		}
		typ, err := t.transformType(&prop, "")
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", entry.key, err)
		}
		fields = append(fields, model.Field{
			Name:        entry.key,
			Type:        typ,
			Required:    required[entry.key],
			Description: prop.Description,
		})
		delete(required, entry.key)
	}
	for _, name := range spec.Required {
		if required[name] {
			return nil, fmt.Errorf("required property %s is not declared", name)
		}
	}
	return fields, nil
}

type entry struct {
	key   string
	value *yaml.Node
}

// orderedEntries returns the pairs of a mapping node in document order. A
// zero node (absent key) yields nothing.
func orderedEntries(n *yaml.Node, what string) ([]entry, error) {
	if n.Kind == 0 {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%s must be a mapping (line %d)", what, n.Line)
	}
	entries := make([]entry, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		entries = append(entries, entry{key: n.Content[i].Value, value: n.Content[i+1]})
	}
	return entries, nil
}

func trimAny(s string, prefixes []string) string {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return strings.TrimPrefix(s, p)
		}
	}
	return s
}
