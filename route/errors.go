package route

import (
	"fmt"

	"github.com/kolah/routespec/model"
)

// DuplicateRouteError reports two endpoints registered for the same
// method and path template.
type DuplicateRouteError struct {
	Method model.Method
	Path   string
	// Other is the template of the earlier registration when it differs
	// from Path only by placeholder names or case.
	Other string
}

func (e *DuplicateRouteError) Error() string {
	if e.Other != "" && e.Other != e.Path {
		return fmt.Sprintf("duplicate route %s %s (already registered as %s)", e.Method, e.Path, e.Other)
	}
	return fmt.Sprintf("duplicate route %s %s", e.Method, e.Path)
}

// InvalidRouteError reports an endpoint descriptor that breaks a
// descriptor invariant.
type InvalidRouteError struct {
	Method model.Method
	Path   string
	Reason string
}

func (e *InvalidRouteError) Error() string {
	return fmt.Sprintf("invalid route %s %s: %s", e.Method, e.Path, e.Reason)
}
