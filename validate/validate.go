// Package validate checks a generated document before it is published.
package validate

import (
	"context"

	"github.com/kolah/routespec/model"
)

type Validator struct {
	metaSchema bool
}

type Option func(*Validator)

// WithoutMetaSchema limits validation to the structural checks.
func WithoutMetaSchema() Option {
	return func(v *Validator) {
		v.metaSchema = false
	}
}

func New(opts ...Option) *Validator {
	v := &Validator{metaSchema: true}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate runs the structural checks on doc and, unless disabled, the
// meta-schema pass on rendered. The meta-schema pass only runs on a
// structurally valid document.
func (v *Validator) Validate(ctx context.Context, doc *model.Document, rendered []byte) Violations {
	violations := Structural(doc)
	if len(violations) > 0 || !v.metaSchema || len(rendered) == 0 {
		return violations
	}
	return MetaSchema(ctx, doc.Version, rendered)
}

// Rendered validates a serialized document whose model is not available,
// such as a file on disk.
func (v *Validator) Rendered(ctx context.Context, data []byte) (model.Version, Violations, error) {
	version, err := DetectVersion(data)
	if err != nil {
		return "", nil, err
	}
	return version, MetaSchema(ctx, version, data), nil
}
