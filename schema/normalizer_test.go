package schema

import (
	"errors"
	"math"
	"testing"

	"github.com/kolah/routespec/model"
	"github.com/stretchr/testify/require"
)

func userType() *model.TypeDescriptor {
	return model.Object("User",
		model.Field{Name: "id", Type: model.Integer(), Required: true},
		model.Field{Name: "name", Type: model.String(), Description: "Display name"},
	)
}

func TestNormalizePrimitives(t *testing.T) {
	tests := []struct {
		name     string
		input    *model.TypeDescriptor
		wantType model.SchemaType
		format   string
	}{
		{"string", model.String(), model.TypeString, ""},
		{"integer", &model.TypeDescriptor{Kind: model.KindInteger, Format: "int64"}, model.TypeInteger, "int64"},
		{"number", model.Number(), model.TypeNumber, ""},
		{"boolean", model.Boolean(), model.TypeBoolean, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := New()
			ref, err := n.Normalize(tt.input, "Test")
			require.NoError(t, err)
			require.False(t, ref.IsRef())
			require.Equal(t, tt.wantType, ref.Schema.Type)
			require.Equal(t, tt.format, ref.Schema.Format)
			require.Empty(t, n.Definitions())
		})
	}
}

func TestNormalizeNamedObjectOnce(t *testing.T) {
	n := New()
	user := userType()

	first, err := n.Normalize(user, "GetUser")
	require.NoError(t, err)
	require.Equal(t, model.Ref("User"), first)

	list, err := n.Normalize(model.ArrayOf(user), "ListUsers")
	require.NoError(t, err)
	require.Equal(t, model.TypeArray, list.Schema.Type)
	require.Equal(t, model.Ref("User"), *list.Schema.Items)

	defs := n.Definitions()
	require.Len(t, defs, 1)
	require.Equal(t, "User", defs[0].Name)
	require.Equal(t, []string{"id"}, defs[0].Schema.Required)
	require.Equal(t, "Display name", defs[0].Schema.Properties[1].Schema.Schema.Description)
}

func TestNormalizeResolvesRefs(t *testing.T) {
	n := New()
	ref, err := n.Normalize(userType(), "GetUser")
	require.NoError(t, err)

	resolved, ok := n.Resolve(ref.Ref)
	require.True(t, ok)
	require.Equal(t, model.TypeObject, resolved.Type)
	require.Len(t, resolved.Properties, 2)
}

func TestNormalizeNameCollision(t *testing.T) {
	n := New()
	a := model.Object("User", model.Field{Name: "id", Type: model.Integer()})
	a.ID = "accounts.User"
	b := model.Object("User", model.Field{Name: "email", Type: model.String()})
	b.ID = "billing.User"

	refA, err := n.Normalize(a, "A")
	require.NoError(t, err)
	refB, err := n.Normalize(b, "B")
	require.NoError(t, err)
	again, err := n.Normalize(a, "C")
	require.NoError(t, err)

	require.Equal(t, "User", refA.Ref)
	require.Equal(t, "User2", refB.Ref)
	require.Equal(t, "User", again.Ref)
}

func TestNormalizeInsertionOrder(t *testing.T) {
	n := New()
	_, err := n.Normalize(model.Object("Zebra"), "A")
	require.NoError(t, err)
	_, err = n.Normalize(model.Object("Aardvark"), "B")
	require.NoError(t, err)

	defs := n.Definitions()
	require.Equal(t, "Zebra", defs[0].Name)
	require.Equal(t, "Aardvark", defs[1].Name)
}

func TestNormalizeNamedRecursion(t *testing.T) {
	node := model.Object("TreeNode", model.Field{Name: "value", Type: model.String()})
	node.Fields = append(node.Fields, model.Field{Name: "children", Type: model.ArrayOf(node)})

	n := New()
	ref, err := n.Normalize(node, "GetTree")
	require.NoError(t, err)
	require.Equal(t, "TreeNode", ref.Ref)

	def, ok := n.Resolve("TreeNode")
	require.True(t, ok)
	require.Equal(t, model.Ref("TreeNode"), *def.Properties[1].Schema.Schema.Items)
	require.Len(t, n.Definitions(), 1)
}

func TestNormalizeAnonymousRecursion(t *testing.T) {
	anon := model.Object("", model.Field{Name: "label", Type: model.String()})
	anon.Fields = append(anon.Fields, model.Field{Name: "children", Type: model.ArrayOf(anon)})
	wrapper := model.Object("", model.Field{Name: "root", Type: anon})

	n := New()
	ref, err := n.Normalize(wrapper, "GetTreeResponse200")
	require.NoError(t, err)
	require.False(t, ref.IsRef())

	root := ref.Schema.Properties[0].Schema
	require.Equal(t, "GetTreeResponse200Root", root.Ref)

	def, ok := n.Resolve("GetTreeResponse200Root")
	require.True(t, ok)
	require.Equal(t, model.Ref("GetTreeResponse200Root"), *def.Properties[1].Schema.Schema.Items)

	// Same input, fresh normalizer: same name.
	again, err := New().Normalize(wrapper, "GetTreeResponse200")
	require.NoError(t, err)
	require.Equal(t, root, again.Schema.Properties[0].Schema)
}

func TestNormalizeAnonymousRecursionStrict(t *testing.T) {
	anon := model.Object("")
	anon.Fields = []model.Field{{Name: "next", Type: anon}}

	_, err := New(Strict()).Normalize(anon, "Ctx")
	require.Error(t, err)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	require.Contains(t, schemaErr.Reason, "anonymous recursive type")
}

func TestNormalizeErrors(t *testing.T) {
	selfArray := &model.TypeDescriptor{Kind: model.KindArray}
	selfArray.Elem = selfArray

	tests := []struct {
		name        string
		input       *model.TypeDescriptor
		errContains string
	}{
		{"nil type", nil, "missing type"},
		{"array without element", &model.TypeDescriptor{Kind: model.KindArray}, "array has no element type"},
		{"unknown ref", model.RefTo("Missing"), "unknown definition"},
		{"unknown kind", &model.TypeDescriptor{Kind: "tuple"}, "unknown kind tuple"},
		{"unnamed field", model.Object("Bad", model.Field{Type: model.String()}), "field has no name"},
		{"duplicate field", model.Object("Bad",
			model.Field{Name: "a", Type: model.String()},
			model.Field{Name: "a", Type: model.String()},
		), "duplicate field a"},
		{"cycle without object", selfArray, "recursive type without an object"},
		{"infinite enum value", &model.TypeDescriptor{Kind: model.KindNumber, Enum: []any{1.5, math.Inf(1)}}, "enum value +Inf is not a finite number"},
		{"nan enum in field", model.Object("Bad",
			model.Field{Name: "ratio", Type: &model.TypeDescriptor{Kind: model.KindNumber, Enum: []any{math.NaN()}}},
		), "schema at Bad.ratio: enum value NaN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Normalize(tt.input, "Ctx")
			require.Error(t, err)
			var schemaErr *SchemaError
			require.True(t, errors.As(err, &schemaErr))
			require.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestDefine(t *testing.T) {
	n := New()
	require.NoError(t, n.Define("", userType()))
	require.NoError(t, n.Define("Status", &model.TypeDescriptor{Kind: model.KindString, Enum: []any{"active", "banned"}}))

	ref, err := n.Normalize(model.RefTo("Status"), "GetStatus")
	require.NoError(t, err)
	require.Equal(t, "Status", ref.Ref)

	ref, err = n.Normalize(userType(), "GetUser")
	require.NoError(t, err)
	require.Equal(t, "User", ref.Ref)

	require.Len(t, n.Definitions(), 2)
}

func TestDefineErrors(t *testing.T) {
	n := New()
	require.NoError(t, n.Define("User", userType()))

	err := n.Define("", model.Object(""))
	require.ErrorContains(t, err, "definition has no name")

	err = n.Define("User", model.Object("Other"))
	require.ErrorContains(t, err, "definition already exists")

	err = n.Define("Alias", model.RefTo("User"))
	require.ErrorContains(t, err, "bare reference")
}

func TestFingerprint(t *testing.T) {
	require.Equal(t, Fingerprint(model.Inline(&model.Schema{Type: model.TypeInteger})),
		Fingerprint(model.Inline(&model.Schema{Type: model.TypeInteger, Description: "ignored"})))
	require.NotEqual(t, Fingerprint(model.Inline(&model.Schema{Type: model.TypeInteger})),
		Fingerprint(model.Inline(&model.Schema{Type: model.TypeString})))
	require.Equal(t, "$User", Fingerprint(model.Ref("User")))
}
