// Package schema converts type descriptors into schema objects and keeps
// the table of named definitions they share.
package schema

import (
	"fmt"
	"math"
	"strings"

	"github.com/kolah/routespec/internal/naming"
	"github.com/kolah/routespec/model"
)

// Normalizer turns type descriptors into schema refs. Named object types
// become definitions the first time they are seen and references after
// that. A Normalizer is not safe for concurrent use; it lives for one
// generation pass.
type Normalizer struct {
	strict bool

	defs       []model.Definition
	index      map[string]int
	byIdentity map[string]string
	byPointer  map[*model.TypeDescriptor]string
	synthetic  map[*model.TypeDescriptor]string
}

type Option func(*Normalizer)

// Strict makes anonymous recursive types an error instead of naming them
// after their traversal path.
func Strict() Option {
	return func(n *Normalizer) {
		n.strict = true
	}
}

func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		index:      make(map[string]int),
		byIdentity: make(map[string]string),
		byPointer:  make(map[*model.TypeDescriptor]string),
		synthetic:  make(map[*model.TypeDescriptor]string),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize converts t. context names the place t is used (for example
// "ListUsersResponse200") and seeds synthetic names of anonymous recursive
// types found below it.
func (n *Normalizer) Normalize(t *model.TypeDescriptor, context string) (model.SchemaRef, error) {
	if t == nil {
		return model.SchemaRef{}, &SchemaError{Path: context, Reason: "missing type"}
	}
	if err := n.markCycles(t, context); err != nil {
		return model.SchemaRef{}, err
	}
	return n.normalize(t, []string{context})
}

// Define registers t under name. An empty name falls back to the declared
// name of t.
func (n *Normalizer) Define(name string, t *model.TypeDescriptor) error {
	if t == nil {
		return &SchemaError{Type: name, Reason: "missing type"}
	}
	if name == "" {
		name = t.Name
	}
	name = naming.Identifier(name)
	if name == "" {
		return &SchemaError{Reason: "definition has no name"}
	}
	if _, taken := n.index[name]; taken {
		return &SchemaError{Type: name, Reason: "definition already exists"}
	}
	if err := n.markCycles(t, name); err != nil {
		return err
	}

	if t.Kind == model.KindObject {
		if existing, ok := n.byIdentity[t.Identity()]; ok && t.Identity() != "" {
			return &SchemaError{Type: name, Reason: "type already defined as " + existing}
		}
		_, err := n.register(t, name, []string{name})
		return err
	}

	ref, err := n.normalize(t, []string{name})
	if err != nil {
		return err
	}
	if ref.IsRef() {
		return &SchemaError{Type: name, Reason: "definition must not be a bare reference"}
	}
	n.index[name] = len(n.defs)
	n.defs = append(n.defs, model.Definition{Name: name, Schema: ref.Schema})
	return nil
}

// Definitions returns the table in insertion order.
func (n *Normalizer) Definitions() []model.Definition {
	defs := make([]model.Definition, len(n.defs))
	copy(defs, n.defs)
	return defs
}

// Resolve returns the schema registered under name.
func (n *Normalizer) Resolve(name string) (*model.Schema, bool) {
	i, ok := n.index[name]
	if !ok {
		return nil, false
	}
	return n.defs[i].Schema, true
}

func (n *Normalizer) normalize(t *model.TypeDescriptor, path []string) (model.SchemaRef, error) {
	if t == nil {
		return model.SchemaRef{}, &SchemaError{Path: joinPath(path), Reason: "missing type"}
	}

	switch t.Kind {
	case model.KindString, model.KindInteger, model.KindNumber, model.KindBoolean:
		if err := checkEnum(t, path); err != nil {
			return model.SchemaRef{}, err
		}
		return model.Inline(&model.Schema{
			Type:        model.SchemaType(t.Kind),
			Format:      t.Format,
			Description: t.Description,
			Enum:        t.Enum,
			Nullable:    t.Nullable,
		}), nil

	case model.KindAny:
		return model.Inline(&model.Schema{
			Description: t.Description,
			Nullable:    t.Nullable,
		}), nil

	case model.KindArray:
		if t.Elem == nil {
			return model.SchemaRef{}, &SchemaError{Type: t.Name, Path: joinPath(path), Reason: "array has no element type"}
		}
		items, err := n.normalize(t.Elem, extend(path, "Item"))
		if err != nil {
			return model.SchemaRef{}, err
		}
		return model.Inline(&model.Schema{
			Type:        model.TypeArray,
			Description: t.Description,
			Nullable:    t.Nullable,
			Items:       &items,
		}), nil

	case model.KindMap:
		elem := t.Elem
		if elem == nil {
			elem = &model.TypeDescriptor{Kind: model.KindAny}
		}
		values, err := n.normalize(elem, extend(path, "Value"))
		if err != nil {
			return model.SchemaRef{}, err
		}
		return model.Inline(&model.Schema{
			Type:                 model.TypeObject,
			Description:          t.Description,
			Nullable:             t.Nullable,
			AdditionalProperties: &values,
		}), nil

	case model.KindRef:
		name, ok := n.lookup(t.Ref)
		if !ok {
			return model.SchemaRef{}, &SchemaError{Type: t.Ref, Path: joinPath(path), Reason: "unknown definition"}
		}
		return model.Ref(name), nil

	case model.KindObject:
		if name, ok := n.byPointer[t]; ok {
			return model.Ref(name), nil
		}
		if t.Name != "" {
			return n.register(t, naming.Identifier(t.Name), []string{t.Name})
		}
		if synthetic, ok := n.synthetic[t]; ok {
			return n.register(t, synthetic, []string{synthetic})
		}
		s, err := n.objectSchema(t, path)
		if err != nil {
			return model.SchemaRef{}, err
		}
		return model.Inline(s), nil
	}

	return model.SchemaRef{}, &SchemaError{Type: t.Name, Path: joinPath(path), Reason: "unknown kind " + string(t.Kind)}
}

// register adds t as a definition, or returns the reference to its
// existing entry. The entry is reserved before the fields are walked so
// self references resolve.
func (n *Normalizer) register(t *model.TypeDescriptor, base string, path []string) (model.SchemaRef, error) {
	identity := t.Identity()
	if identity != "" {
		if name, ok := n.byIdentity[identity]; ok {
			n.byPointer[t] = name
			return model.Ref(name), nil
		}
	}
	if base == "" {
		return model.SchemaRef{}, &SchemaError{Path: joinPath(path), Reason: "definition has no name"}
	}

	name := n.reserve(base)
	i := len(n.defs)
	n.defs = append(n.defs, model.Definition{Name: name})
	n.index[name] = i
	n.byPointer[t] = name
	if identity != "" {
		n.byIdentity[identity] = name
	}

	s, err := n.objectSchema(t, path)
	if err != nil {
		return model.SchemaRef{}, err
	}
	n.defs[i].Schema = s
	return model.Ref(name), nil
}

func (n *Normalizer) reserve(base string) string {
	for i := 1; ; i++ {
		name := naming.WithSuffix(base, i)
		if _, taken := n.index[name]; !taken {
			return name
		}
	}
}

func (n *Normalizer) objectSchema(t *model.TypeDescriptor, path []string) (*model.Schema, error) {
	s := &model.Schema{
		Type:        model.TypeObject,
		Description: t.Description,
		Nullable:    t.Nullable,
	}
	seen := make(map[string]bool, len(t.Fields))
	for _, f := range t.Fields {
		if f.Name == "" {
			return nil, &SchemaError{Type: t.Name, Path: joinPath(path), Reason: "field has no name"}
		}
		if seen[f.Name] {
			return nil, &SchemaError{Type: t.Name, Path: joinPath(path), Reason: "duplicate field " + f.Name}
		}
		seen[f.Name] = true

		ref, err := n.normalize(f.Type, extend(path, f.Name))
		if err != nil {
			return nil, err
		}
		if f.Description != "" && !ref.IsRef() && ref.Schema.Description == "" {
			ref.Schema.Description = f.Description
		}
		s.Properties = append(s.Properties, model.Property{Name: f.Name, Schema: ref})
		if f.Required {
			s.Required = append(s.Required, f.Name)
		}
	}
	return s, nil
}

// checkEnum rejects enum values that have no JSON form.
func checkEnum(t *model.TypeDescriptor, path []string) error {
	for _, v := range t.Enum {
		var f float64
		switch v := v.(type) {
		case float64:
			f = v
		case float32:
			f = float64(v)
		default:
			continue
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return &SchemaError{Type: t.Name, Path: joinPath(path), Reason: fmt.Sprintf("enum value %v is not a finite number", f)}
		}
	}
	return nil
}

func (n *Normalizer) lookup(ref string) (string, bool) {
	if _, ok := n.index[ref]; ok {
		return ref, true
	}
	if name := naming.Identifier(ref); name != "" {
		if _, ok := n.index[name]; ok {
			return name, true
		}
	}
	return "", false
}

func extend(path []string, segment string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, segment)
}

func joinPath(path []string) string {
	return strings.Join(path, ".")
}
