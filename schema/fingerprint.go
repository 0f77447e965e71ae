package schema

import (
	"fmt"
	"strings"

	"github.com/kolah/routespec/model"
)

// Fingerprint renders the shape of ref as a string: two refs with equal
// fingerprints describe the same type. Descriptions are ignored.
func Fingerprint(ref model.SchemaRef) string {
	var b strings.Builder
	writeFingerprint(&b, ref)
	return b.String()
}

func writeFingerprint(b *strings.Builder, ref model.SchemaRef) {
	if ref.IsRef() {
		b.WriteString("$" + ref.Ref)
		return
	}
	s := ref.Schema
	if s == nil {
		b.WriteString("{}")
		return
	}
	b.WriteString(string(s.Type))
	if s.Format != "" {
		b.WriteString(":" + s.Format)
	}
	if len(s.Enum) > 0 {
		fmt.Fprintf(b, "%v", s.Enum)
	}
	if s.Nullable {
		b.WriteString("?")
	}
	if s.Items != nil {
		b.WriteString("[")
		writeFingerprint(b, *s.Items)
		b.WriteString("]")
	}
	if s.AdditionalProperties != nil {
		b.WriteString("<")
		writeFingerprint(b, *s.AdditionalProperties)
		b.WriteString(">")
	}
	if len(s.Properties) > 0 {
		b.WriteString("{")
		for i, p := range s.Properties {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(p.Name + "=")
			writeFingerprint(b, p.Schema)
		}
		b.WriteString("}")
	}
}
