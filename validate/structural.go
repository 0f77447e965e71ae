package validate

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/kolah/routespec/model"
	"github.com/kolah/routespec/route"
)

type checker struct {
	doc        *model.Document
	defs       map[string]bool
	responses  map[string]bool
	violations Violations
}

// Structural runs the document-model checks. It reports every violation
// and leaves doc untouched.
func Structural(doc *model.Document) Violations {
	c := &checker{
		doc:       doc,
		defs:      make(map[string]bool, len(doc.Definitions)),
		responses: make(map[string]bool, len(doc.Responses)),
	}
	for _, d := range doc.Definitions {
		c.defs[d.Name] = true
	}
	for _, r := range doc.Responses {
		c.responses[r.Name] = true
	}

	c.info()
	c.paths()
	c.definitions()
	return c.violations
}

func (c *checker) report(rule, path, format string, args ...any) {
	c.violations = append(c.violations, ValidationError{
		Path:    path,
		Message: fmt.Sprintf(format, args...),
		Rule:    rule,
	})
}

func (c *checker) v3() bool {
	return c.doc.Version == model.OpenAPI3
}

func (c *checker) info() {
	if strings.TrimSpace(c.doc.Info.Title) == "" {
		c.report(RuleInfoRequired, pointer("info", "title"), "title is required")
	}
	if strings.TrimSpace(c.doc.Info.Version) == "" {
		c.report(RuleInfoRequired, pointer("info", "version"), "version is required")
	}
}

func (c *checker) paths() {
	operationIDs := make(map[string]string)
	for _, item := range c.doc.Paths {
		tmpl, err := route.ParseTemplate(item.Template)
		if err != nil {
			c.report(RulePathParams, pointer("paths", item.Template), "%v", err)
			continue
		}
		placeholders := tmpl.Params()

		for _, op := range item.Operations {
			method := strings.ToLower(string(op.Method))
			base := []string{"paths", item.Template, method}

			if !c.v3() && op.Method == model.MethodTrace {
				c.report(RuleMethod, pointer(base...),
					"swagger 2.0 path items have no %s operation", method)
			}

			if op.OperationID != "" {
				if other, ok := operationIDs[op.OperationID]; ok {
					c.report(RuleOperationID, pointer(append(base, "operationId")...),
						"operationId %q is already used by %s", op.OperationID, other)
				} else {
					operationIDs[op.OperationID] = string(op.Method) + " " + item.Template
				}
			}

			c.pathParams(base, placeholders, op)
			for i, p := range op.Parameters {
				c.parameter(append(base, "parameters", strconv.Itoa(i)), p)
			}
			if op.RequestBody != nil {
				if c.v3() {
					c.schemaRef(append(base, "requestBody", "content"), op.RequestBody.Schema)
				} else {
					c.schemaRef(append(base, "parameters", strconv.Itoa(len(op.Parameters)), "schema"), op.RequestBody.Schema)
				}
			}
			c.operationResponses(append(base, "responses"), op.Responses)
		}
	}
}

func (c *checker) pathParams(base []string, placeholders []string, op model.Operation) {
	declared := make(map[string]bool)
	for i, p := range op.Parameters {
		if p.In != model.LocationPath {
			continue
		}
		declared[p.Name] = true
		if !slices.Contains(placeholders, p.Name) {
			c.report(RulePathParams, pointer(append(base, "parameters", strconv.Itoa(i))...),
				"path parameter %q does not appear in the template", p.Name)
		}
	}
	for _, name := range placeholders {
		if !declared[name] {
			c.report(RulePathParams, pointer(append(base, "parameters")...),
				"placeholder {%s} is not declared as a path parameter", name)
		}
	}
}

func (c *checker) parameter(at []string, p model.OperationParameter) {
	if c.v3() {
		c.schemaRef(append(at, "schema"), p.Schema)
		return
	}
	if p.Schema.IsRef() {
		c.report(RuleParameterType, pointer(at...),
			"%s parameter %q must be a primitive or an array, not a reference", p.In, p.Name)
		return
	}
	if !simpleSchema(p.Schema.Schema, true) {
		c.report(RuleParameterType, pointer(at...),
			"%s parameter %q must be a primitive or an array of primitives", p.In, p.Name)
	}
}

// simpleSchema reports whether s can be written in the Swagger 2.0
// non-body parameter form.
func simpleSchema(s *model.Schema, allowArray bool) bool {
	if s == nil {
		return false
	}
	switch s.Type {
	case model.TypeString, model.TypeInteger, model.TypeNumber, model.TypeBoolean:
		return true
	case model.TypeArray:
		if !allowArray || s.Items == nil || s.Items.IsRef() {
			return false
		}
		return simpleSchema(s.Items.Schema, true)
	}
	return false
}

func (c *checker) operationResponses(at []string, responses []model.OperationResponse) {
	if len(responses) == 0 {
		c.report(RuleResponsesRequired, pointer(at...), "operation declares no responses")
		return
	}
	for _, r := range responses {
		here := append(slices.Clone(at), r.StatusCode)
		if !validStatusCode(r.StatusCode) {
			c.report(RuleStatusCode, pointer(here...),
				"status code %q must be \"default\" or a number between 100 and 599", r.StatusCode)
		}
		if r.Ref != "" {
			if !c.responses[r.Ref] {
				c.report(RuleRefResolves, pointer(here...),
					"response reference %q does not resolve", c.doc.Version.ResponseRefPrefix()+r.Ref)
			}
			continue
		}
		if r.Schema != nil {
			c.schemaRef(c.responseSchemaPath(here), *r.Schema)
		}
	}
}

func (c *checker) responseSchemaPath(at []string) []string {
	if c.v3() {
		return append(at, "content")
	}
	return append(at, "schema")
}

func (c *checker) definitions() {
	section := []string{"definitions"}
	if c.v3() {
		section = []string{"components", "schemas"}
	}
	for _, d := range c.doc.Definitions {
		c.schema(append(slices.Clone(section), d.Name), d.Schema)
	}

	section = []string{"responses"}
	if c.v3() {
		section = []string{"components", "responses"}
	}
	for _, r := range c.doc.Responses {
		if r.Schema != nil {
			c.schemaRef(c.responseSchemaPath(append(slices.Clone(section), r.Name)), *r.Schema)
		}
	}
}

func (c *checker) schemaRef(at []string, ref model.SchemaRef) {
	if ref.IsRef() {
		if !c.defs[ref.Ref] {
			c.report(RuleRefResolves, pointer(at...),
				"reference %q does not resolve", c.doc.Version.RefPrefix()+ref.Ref)
		}
		return
	}
	c.schema(at, ref.Schema)
}

func (c *checker) schema(at []string, s *model.Schema) {
	if s == nil {
		return
	}
	if s.Items != nil {
		c.schemaRef(append(slices.Clone(at), "items"), *s.Items)
	}
	for _, p := range s.Properties {
		c.schemaRef(append(slices.Clone(at), "properties", p.Name), p.Schema)
	}
	if s.AdditionalProperties != nil {
		c.schemaRef(append(slices.Clone(at), "additionalProperties"), *s.AdditionalProperties)
	}
}

func validStatusCode(code string) bool {
	if code == "default" {
		return true
	}
	if len(code) != 3 {
		return false
	}
	n, err := strconv.Atoi(code)
	return err == nil && n >= 100 && n <= 599
}
