package route

import (
	"errors"
	"strings"
)

// Part is a piece of a path template: either literal text or a
// placeholder name.
type Part struct {
	Literal string
	Param   string
}

func (p Part) IsParam() bool {
	return p.Param != ""
}

// Template is a parsed path template such as /users/{id}.
type Template struct {
	Raw   string
	Parts []Part
}

// ParseTemplate splits path into literal parts and {name} placeholders.
func ParseTemplate(path string) (Template, error) {
	if !strings.HasPrefix(path, "/") {
		return Template{}, errors.New("path must start with /")
	}

	t := Template{Raw: path}
	var literal strings.Builder
	for i := 0; i < len(path); i++ {
		switch path[i] {
		case '{':
			end := strings.IndexByte(path[i:], '}')
			if end < 0 {
				return Template{}, errors.New("unclosed {")
			}
			name := path[i+1 : i+end]
			if name == "" {
				return Template{}, errors.New("empty placeholder")
			}
			if strings.ContainsAny(name, "{/") {
				return Template{}, errors.New("malformed placeholder {" + name + "}")
			}
			if literal.Len() > 0 {
				t.Parts = append(t.Parts, Part{Literal: literal.String()})
				literal.Reset()
			}
			t.Parts = append(t.Parts, Part{Param: name})
			i += end
		case '}':
			return Template{}, errors.New("unexpected }")
		default:
			literal.WriteByte(path[i])
		}
	}
	if literal.Len() > 0 {
		t.Parts = append(t.Parts, Part{Literal: literal.String()})
	}
	return t, nil
}

// Params returns placeholder names in template order.
func (t Template) Params() []string {
	var names []string
	for _, p := range t.Parts {
		if p.IsParam() {
			names = append(names, p.Param)
		}
	}
	return names
}

// Key is the grouping key: literal parts lower-cased, placeholders
// reduced to their position.
func (t Template) Key() string {
	var b strings.Builder
	for _, p := range t.Parts {
		if p.IsParam() {
			b.WriteString("{}")
			continue
		}
		b.WriteString(strings.ToLower(p.Literal))
	}
	return b.String()
}

// Rename returns the template with placeholders renamed positionally to
// names.
func (t Template) Rename(names []string) string {
	var b strings.Builder
	i := 0
	for _, p := range t.Parts {
		if !p.IsParam() {
			b.WriteString(p.Literal)
			continue
		}
		if i < len(names) {
			b.WriteString("{" + names[i] + "}")
		} else {
			b.WriteString("{" + p.Param + "}")
		}
		i++
	}
	return b.String()
}
