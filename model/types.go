package model

type Kind string

const (
	KindString  Kind = "string"
	KindInteger Kind = "integer"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindArray   Kind = "array"
	KindObject  Kind = "object"
	KindMap     Kind = "map"
	KindAny     Kind = "any"
	// KindRef points at a definition registered by name elsewhere.
	KindRef Kind = "ref"
)

// TypeDescriptor is the host-language type as seen by an adapter. Graphs
// may be cyclic: a field can point back at an enclosing descriptor.
type TypeDescriptor struct {
	Kind Kind
	// Name is the declared identifier. Empty for anonymous types.
	Name string
	// ID distinguishes types sharing a Name (e.g. a package-qualified
	// name). Defaults to Name when empty.
	ID          string
	Format      string
	Description string
	Enum        []any
	Nullable    bool
	// Elem is the element type of arrays and the value type of maps.
	Elem   *TypeDescriptor
	Fields []Field
	// Ref names the definition a KindRef descriptor points at.
	Ref string
}

type Field struct {
	Name        string
	Type        *TypeDescriptor
	Required    bool
	Description string
}

// Identity returns the key used to tell named types apart.
func (t *TypeDescriptor) Identity() string {
	if t.ID != "" {
		return t.ID
	}
	return t.Name
}

// Primitive reports whether the kind is rendered as a scalar schema.
func (k Kind) Primitive() bool {
	switch k {
	case KindString, KindInteger, KindNumber, KindBoolean:
		return true
	}
	return false
}

func String() *TypeDescriptor  { return &TypeDescriptor{Kind: KindString} }
func Integer() *TypeDescriptor { return &TypeDescriptor{Kind: KindInteger} }
func Number() *TypeDescriptor  { return &TypeDescriptor{Kind: KindNumber} }
func Boolean() *TypeDescriptor { return &TypeDescriptor{Kind: KindBoolean} }

func ArrayOf(elem *TypeDescriptor) *TypeDescriptor {
	return &TypeDescriptor{Kind: KindArray, Elem: elem}
}

func MapOf(elem *TypeDescriptor) *TypeDescriptor {
	return &TypeDescriptor{Kind: KindMap, Elem: elem}
}

func RefTo(name string) *TypeDescriptor {
	return &TypeDescriptor{Kind: KindRef, Ref: name}
}

// Object builds a named object type. Pass an empty name for an anonymous
// object.
func Object(name string, fields ...Field) *TypeDescriptor {
	return &TypeDescriptor{Kind: KindObject, Name: name, Fields: fields}
}
