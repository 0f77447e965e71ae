package validate

import (
	"fmt"
	"strings"
)

// Rules reported by the structural checks and the meta-schema pass.
const (
	RuleRefResolves       = "ref-resolves"
	RulePathParams        = "path-params-declared"
	RuleStatusCode        = "status-code"
	RuleInfoRequired      = "info-required"
	RuleParameterType     = "parameter-type"
	RuleResponsesRequired = "responses-required"
	RuleOperationID       = "operation-id-unique"
	RuleMethod            = "method-allowed"
	RuleMetaSchema        = "meta-schema"
)

// ValidationError is one violation. Path is a JSON pointer into the
// rendered document; it is empty when the source did not report a location.
type ValidationError struct {
	Path    string
	Message string
	Rule    string
}

func (e ValidationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", e.Rule, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Rule, e.Path, e.Message)
}

// Violations is the full list of problems found in one document.
type Violations []ValidationError

func (v Violations) Error() string {
	switch len(v) {
	case 0:
		return "no violations"
	case 1:
		return v[0].Error()
	}
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d violations:\n  %s", len(v), strings.Join(msgs, "\n  "))
}

// Err returns v as an error, or nil when empty.
func (v Violations) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}
