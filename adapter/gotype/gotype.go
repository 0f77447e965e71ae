// Package gotype derives type descriptors from Go types.
//
// Structs become named objects keyed by package path and name. Field names
// follow json tags; a field is required unless it is a pointer or tagged
// omitempty. Embedded structs without a json name are flattened into the
// outer object.
package gotype

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/kolah/routespec/model"
)

var (
	timeType      = reflect.TypeFor[time.Time]()
	rawJSONType   = reflect.TypeFor[json.RawMessage]()
	byteSliceType = reflect.TypeFor[[]byte]()
)

// Describer converts Go types and remembers the structs it has seen, so a
// type reached twice yields the same descriptor and recursive types form a
// cycle. A Describer is not safe for concurrent use.
type Describer struct {
	structs map[reflect.Type]*model.TypeDescriptor
}

func New() *Describer {
	return &Describer{structs: make(map[reflect.Type]*model.TypeDescriptor)}
}

// Of describes the type of v.
func (d *Describer) Of(v any) (*model.TypeDescriptor, error) {
	if v == nil {
		return nil, fmt.Errorf("cannot describe untyped nil")
	}
	return d.Type(reflect.TypeOf(v))
}

// For describes T.
func For[T any](d *Describer) (*model.TypeDescriptor, error) {
	return d.Type(reflect.TypeFor[T]())
}

// Type describes t.
func (d *Describer) Type(t reflect.Type) (*model.TypeDescriptor, error) {
	nullable := false
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
		nullable = true
	}

	desc, err := d.describe(t)
	if err != nil {
		return nil, err
	}
	if nullable && desc.Kind != model.KindObject {
		cp := *desc
		cp.Nullable = true
		desc = &cp
	}
	return desc, nil
}

func (d *Describer) describe(t reflect.Type) (*model.TypeDescriptor, error) {
	switch t {
	case timeType:
		return &model.TypeDescriptor{Kind: model.KindString, Format: "date-time"}, nil
	case rawJSONType:
		return &model.TypeDescriptor{Kind: model.KindAny}, nil
	case byteSliceType:
		return &model.TypeDescriptor{Kind: model.KindString, Format: "byte"}, nil
	}

	switch t.Kind() {
	case reflect.String:
		return model.String(), nil
	case reflect.Bool:
		return model.Boolean(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Uint, reflect.Uint8, reflect.Uint16:
		return model.Integer(), nil
	case reflect.Int32, reflect.Uint32:
		return &model.TypeDescriptor{Kind: model.KindInteger, Format: "int32"}, nil
	case reflect.Int64, reflect.Uint64:
		return &model.TypeDescriptor{Kind: model.KindInteger, Format: "int64"}, nil
	case reflect.Float32:
		return &model.TypeDescriptor{Kind: model.KindNumber, Format: "float"}, nil
	case reflect.Float64:
		return &model.TypeDescriptor{Kind: model.KindNumber, Format: "double"}, nil
	case reflect.Interface:
		return &model.TypeDescriptor{Kind: model.KindAny}, nil
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 && t.Kind() == reflect.Slice {
			return &model.TypeDescriptor{Kind: model.KindString, Format: "byte"}, nil
		}
		elem, err := d.Type(t.Elem())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t, err)
		}
		return model.ArrayOf(elem), nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return nil, fmt.Errorf("%s: map keys must be strings", t)
		}
		elem, err := d.Type(t.Elem())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t, err)
		}
		return model.MapOf(elem), nil
	case reflect.Struct:
		return d.describeStruct(t)
	}
	return nil, fmt.Errorf("unsupported type %s", t)
}

func (d *Describer) describeStruct(t reflect.Type) (*model.TypeDescriptor, error) {
	if desc, ok := d.structs[t]; ok {
		return desc, nil
	}

	desc := &model.TypeDescriptor{Kind: model.KindObject}
	if t.Name() != "" {
		desc.Name = typeName(t)
		desc.ID = t.PkgPath() + "." + t.Name()
	}
	d.structs[t] = desc

	fields, err := d.fields(t)
	if err != nil {
		delete(d.structs, t)
		return nil, err
	}
	desc.Fields = fields
	return desc, nil
}

func (d *Describer) fields(t reflect.Type) ([]model.Field, error) {
	var fields []model.Field
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() && !sf.Anonymous {
			continue
		}
		tag := sf.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")

		ft := sf.Type
		if sf.Anonymous && name == "" {
			for ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				embedded, err := d.fields(ft)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", sf.Name, err)
				}
				fields = mergeFields(fields, embedded)
				continue
			}
			if !sf.IsExported() {
				continue
			}
		}

		if name == "" {
			name = sf.Name
		}
		typ, err := d.Type(sf.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", sf.Name, err)
		}
		fields = mergeFields(fields, []model.Field{{
			Name:        name,
			Type:        typ,
			Required:    sf.Type.Kind() != reflect.Pointer && !hasOption(opts, "omitempty") && !hasOption(opts, "omitzero"),
			Description: sf.Tag.Get("description"),
		}})
	}
	return fields, nil
}

// mergeFields appends add to fields; a later field with the same name
// replaces the earlier one, so outer fields shadow embedded ones.
func mergeFields(fields, add []model.Field) []model.Field {
	for _, f := range add {
		replaced := false
		for i := range fields {
			if fields[i].Name == f.Name {
				fields[i] = f
				replaced = true
				break
			}
		}
		if !replaced {
			fields = append(fields, f)
		}
	}
	return fields
}

func hasOption(opts, want string) bool {
	for opt := range strings.SplitSeq(opts, ",") {
		if opt == want {
			return true
		}
	}
	return false
}

// typeName drops package qualifiers from generic instantiations:
// Page[example.com/app/models.User] becomes Page[User].
func typeName(t reflect.Type) string {
	name := t.Name()
	if !strings.ContainsRune(name, '[') {
		return name
	}
	var b strings.Builder
	start := 0
	flush := func(end int) {
		seg := name[start:end]
		if dot := strings.LastIndexByte(seg, '.'); dot >= 0 {
			seg = seg[dot+1:]
		}
		b.WriteString(strings.TrimSpace(seg))
	}
	for i := 0; i < len(name); i++ {
		switch name[i] {
		case '[', ']', ',':
			flush(i)
			b.WriteByte(name[i])
			start = i + 1
		}
	}
	flush(len(name))
	return b.String()
}
