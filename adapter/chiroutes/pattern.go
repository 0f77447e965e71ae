package chiroutes

import (
	"strings"

	"github.com/kolah/routespec/model"
)

// Pattern is a chi route pattern converted to a path template.
type Pattern struct {
	// Path has regexp constraints removed: /users/{id:[0-9]+} becomes
	// /users/{id}.
	Path   string
	Params []model.Parameter
}

var integerPatterns = map[string]bool{
	`[0-9]+`: true,
	`\d+`:    true,
	`[0-9]*`: true,
	`\d*`:    true,
}

// ParsePattern strips regexp constraints from a chi pattern and infers a
// path parameter per placeholder. Digit-only constraints give integer
// parameters; everything else is a string. A trailing slash left by
// mounted sub-routers is dropped.
func ParsePattern(pattern string) Pattern {
	var (
		p     Pattern
		b     strings.Builder
		depth int
		param strings.Builder
	)
	for _, r := range pattern {
		switch {
		case r == '{':
			depth++
			if depth == 1 {
				param.Reset()
				continue
			}
		case r == '}':
			depth--
			if depth == 0 {
				name, constraint, _ := strings.Cut(param.String(), ":")
				b.WriteString("{" + name + "}")
				p.Params = append(p.Params, pathParam(name, constraint))
				continue
			}
		}
		if depth > 0 {
			param.WriteRune(r)
			continue
		}
		b.WriteRune(r)
	}

	p.Path = b.String()
	if len(p.Path) > 1 {
		p.Path = strings.TrimSuffix(p.Path, "/")
	}
	return p
}

func pathParam(name, constraint string) model.Parameter {
	typ := model.String()
	if integerPatterns[strings.Trim(constraint, "^$")] {
		typ = model.Integer()
	}
	return model.Parameter{Name: name, In: model.LocationPath, Required: true, Type: typ}
}
