package document

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/kolah/routespec/model"
	"go.yaml.in/yaml/v4"
)

const defaultMediaType = "application/json"

// Node converts doc into an ordered YAML node tree. Both renderers walk
// this tree, so key order is fixed by construction.
func Node(doc *model.Document) *yaml.Node {
	b := &builder{version: doc.Version}
	return b.document(doc)
}

type builder struct {
	version model.Version
}

func (b *builder) document(doc *model.Document) *yaml.Node {
	root := newMapping()
	if b.version == model.OpenAPI3 {
		root.set("openapi", str(string(model.OpenAPI3)))
	} else {
		root.set("swagger", str(string(model.Swagger2)))
	}
	root.set("info", b.info(doc.Info).node)

	if b.version == model.OpenAPI3 {
		if servers := b.servers(doc); servers != nil {
			root.set("servers", servers)
		}
	} else {
		root.setString("host", doc.Host)
		root.setString("basePath", doc.BasePath)
		if len(doc.Schemes) > 0 {
			root.set("schemes", strings2seq(doc.Schemes))
		}
	}

	if len(doc.Tags) > 0 {
		tags := newSequence()
		for _, t := range doc.Tags {
			tag := newMapping()
			tag.setString("name", t.Name)
			tag.setString("description", t.Description)
			tags.Content = append(tags.Content, tag.node)
		}
		root.set("tags", tags)
	}

	pathsNode := newMapping()
	for _, item := range doc.Paths {
		pathsNode.set(item.Template, b.pathItem(item).node)
	}
	root.set("paths", pathsNode.node)

	defs := newMapping()
	for _, d := range doc.Definitions {
		defs.set(d.Name, b.schema(d.Schema))
	}
	responses := newMapping()
	for _, r := range doc.Responses {
		responses.set(r.Name, b.response(r.Description, r.Schema, nil).node)
	}

	if b.version == model.OpenAPI3 {
		components := newMapping()
		if len(doc.Definitions) > 0 {
			components.set("schemas", defs.node)
		}
		if len(doc.Responses) > 0 {
			components.set("responses", responses.node)
		}
		if len(components.node.Content) > 0 {
			root.set("components", components.node)
		}
		return root.node
	}

	if len(doc.Definitions) > 0 {
		root.set("definitions", defs.node)
	}
	if len(doc.Responses) > 0 {
		root.set("responses", responses.node)
	}
	return root.node
}

func (b *builder) info(info model.Info) mapping {
	m := newMapping()
	m.setString("title", info.Title)
	m.setString("description", info.Description)
	m.setString("termsOfService", info.TermsOfService)
	if c := info.Contact; c != nil {
		contact := newMapping()
		contact.setString("name", c.Name)
		contact.setString("url", c.URL)
		contact.setString("email", c.Email)
		m.set("contact", contact.node)
	}
	if l := info.License; l != nil {
		license := newMapping()
		license.setString("name", l.Name)
		license.setString("url", l.URL)
		m.set("license", license.node)
	}
	m.set("version", str(info.Version))
	return m
}

func (b *builder) servers(doc *model.Document) *yaml.Node {
	if doc.Host == "" && doc.BasePath == "" {
		return nil
	}
	seq := newSequence()
	schemes := doc.Schemes
	if doc.Host == "" || len(schemes) == 0 {
		schemes = []string{""}
	}
	for _, scheme := range schemes {
		url := doc.BasePath
		if doc.Host != "" {
			prefix := "//"
			if scheme != "" {
				prefix = scheme + "://"
			}
			url = prefix + doc.Host + doc.BasePath
		}
		server := newMapping()
		server.setString("url", url)
		seq.Content = append(seq.Content, server.node)
	}
	return seq
}

func (b *builder) pathItem(item model.PathItem) mapping {
	m := newMapping()
	for _, op := range item.Operations {
		m.set(strings.ToLower(string(op.Method)), b.operation(op).node)
	}
	return m
}

func (b *builder) operation(op model.Operation) mapping {
	m := newMapping()
	if len(op.Tags) > 0 {
		m.set("tags", strings2seq(op.Tags))
	}
	m.setString("summary", op.Summary)
	m.setString("description", op.Description)
	m.setString("operationId", op.OperationID)
	if b.version != model.OpenAPI3 {
		if len(op.Consumes) > 0 {
			m.set("consumes", strings2seq(op.Consumes))
		}
		if len(op.Produces) > 0 {
			m.set("produces", strings2seq(op.Produces))
		}
	}

	params := newSequence()
	for _, p := range op.Parameters {
		params.Content = append(params.Content, b.parameter(p).node)
	}
	if op.RequestBody != nil && b.version != model.OpenAPI3 {
		params.Content = append(params.Content, b.bodyParameter(op.RequestBody).node)
	}
	if len(params.Content) > 0 {
		m.set("parameters", params)
	}

	if op.RequestBody != nil && b.version == model.OpenAPI3 {
		body := newMapping()
		body.setString("description", op.RequestBody.Description)
		if op.RequestBody.Required {
			body.set("required", boolean(true))
		}
		body.set("content", b.content(op.RequestBody.Schema, op.Consumes))
		m.set("requestBody", body.node)
	}

	responses := newMapping()
	for _, r := range op.Responses {
		if r.Ref != "" {
			ref := newMapping()
			ref.setString("$ref", b.version.ResponseRefPrefix()+r.Ref)
			responses.set(r.StatusCode, ref.node)
			continue
		}
		description := r.Description
		if description == "" {
			description = defaultDescription(r.StatusCode)
		}
		responses.set(r.StatusCode, b.response(description, r.Schema, op.Produces).node)
	}
	m.set("responses", responses.node)

	if op.Deprecated {
		m.set("deprecated", boolean(true))
	}
	return m
}

func (b *builder) parameter(p model.OperationParameter) mapping {
	m := newMapping()
	m.setString("name", p.Name)
	m.setString("in", string(p.In))
	m.setString("description", p.Description)
	if p.Required {
		m.set("required", boolean(true))
	}
	if b.version == model.OpenAPI3 {
		m.set("schema", b.schemaRef(p.Schema))
		return m
	}
	if !p.Schema.IsRef() && p.Schema.Schema != nil {
		b.inlineFields(m, p.Schema.Schema, "items")
	}
	return m
}

// inlineFields writes the Swagger 2.0 non-body parameter form, where type
// information sits on the parameter itself and array items use the same
// restricted form.
func (b *builder) inlineFields(m mapping, s *model.Schema, itemsKey string) {
	m.setString("type", string(s.Type))
	m.setString("format", s.Format)
	if len(s.Enum) > 0 {
		m.set("enum", values2seq(s.Enum))
	}
	if s.Items != nil && !s.Items.IsRef() && s.Items.Schema != nil {
		items := newMapping()
		b.inlineFields(items, s.Items.Schema, itemsKey)
		m.set(itemsKey, items.node)
	}
}

func (b *builder) bodyParameter(body *model.RequestBody) mapping {
	name := body.Name
	if name == "" {
		name = "payload"
	}
	m := newMapping()
	m.setString("name", name)
	m.setString("in", string(model.LocationBody))
	m.setString("description", body.Description)
	if body.Required {
		m.set("required", boolean(true))
	}
	m.set("schema", b.schemaRef(body.Schema))
	return m
}

func (b *builder) response(description string, s *model.SchemaRef, produces []string) mapping {
	m := newMapping()
	m.set("description", str(description))
	if s == nil {
		return m
	}
	if b.version == model.OpenAPI3 {
		m.set("content", b.content(*s, produces))
	} else {
		m.set("schema", b.schemaRef(*s))
	}
	return m
}

func (b *builder) content(s model.SchemaRef, mediaTypes []string) *yaml.Node {
	if len(mediaTypes) == 0 {
		mediaTypes = []string{defaultMediaType}
	}
	content := newMapping()
	for _, mt := range mediaTypes {
		media := newMapping()
		media.set("schema", b.schemaRef(s))
		content.set(mt, media.node)
	}
	return content.node
}

func (b *builder) schemaRef(ref model.SchemaRef) *yaml.Node {
	if ref.IsRef() {
		m := newMapping()
		m.setString("$ref", b.version.RefPrefix()+ref.Ref)
		return m.node
	}
	return b.schema(ref.Schema)
}

func (b *builder) schema(s *model.Schema) *yaml.Node {
	m := newMapping()
	if s == nil {
		return m.node
	}
	m.setString("type", string(s.Type))
	m.setString("format", s.Format)
	m.setString("description", s.Description)
	if len(s.Enum) > 0 {
		m.set("enum", values2seq(s.Enum))
	}
	if s.Nullable {
		if b.version == model.OpenAPI3 {
			m.set("nullable", boolean(true))
		} else {
			m.set("x-nullable", boolean(true))
		}
	}
	if s.Items != nil {
		m.set("items", b.schemaRef(*s.Items))
	}
	if len(s.Required) > 0 {
		m.set("required", strings2seq(s.Required))
	}
	if len(s.Properties) > 0 {
		props := newMapping()
		for _, p := range s.Properties {
			props.set(p.Name, b.schemaRef(p.Schema))
		}
		m.set("properties", props.node)
	}
	if s.AdditionalProperties != nil {
		m.set("additionalProperties", b.schemaRef(*s.AdditionalProperties))
	}
	return m.node
}

func defaultDescription(code string) string {
	if n, err := strconv.Atoi(code); err == nil {
		if text := http.StatusText(n); text != "" {
			return text
		}
	}
	return "Default response"
}

type mapping struct {
	node *yaml.Node
}

func newMapping() mapping {
	return mapping{node: &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}}
}

func (m mapping) set(key string, value *yaml.Node) {
	m.node.Content = append(m.node.Content, str(key), value)
}

// setString adds key only when value is not empty.
func (m mapping) setString(key, value string) {
	if value == "" {
		return
	}
	m.set(key, str(value))
}

func newSequence() *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
}

func str(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func boolean(v bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v)}
}

func strings2seq(values []string) *yaml.Node {
	seq := newSequence()
	for _, v := range values {
		seq.Content = append(seq.Content, str(v))
	}
	return seq
}

func values2seq(values []any) *yaml.Node {
	seq := newSequence()
	for _, v := range values {
		seq.Content = append(seq.Content, value(v))
	}
	return seq
}

func value(v any) *yaml.Node {
	switch v := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case string:
		return str(v)
	case bool:
		return boolean(v)
	case int:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(v)}
	case int64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(v, 10)}
	case uint64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatUint(v, 10)}
	case float64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(v, 'g', -1, 64)}
	}
	return str(fmt.Sprint(v))
}
