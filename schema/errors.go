package schema

import "fmt"

// SchemaError reports a type that cannot be turned into a schema.
type SchemaError struct {
	// Type is the declared name of the offending type, if it has one.
	Type string
	// Path is the traversal path that reached it.
	Path   string
	Reason string
}

func (e *SchemaError) Error() string {
	switch {
	case e.Type != "" && e.Path != "":
		return fmt.Sprintf("schema %s at %s: %s", e.Type, e.Path, e.Reason)
	case e.Type != "":
		return fmt.Sprintf("schema %s: %s", e.Type, e.Reason)
	case e.Path != "":
		return fmt.Sprintf("schema at %s: %s", e.Path, e.Reason)
	}
	return "schema: " + e.Reason
}
