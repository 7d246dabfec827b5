package schema

import "fmt"

// SchemaViolation reports input that does not match the declared shape.
type SchemaViolation struct {
	Column string
	Row    int // -1 when the whole column is at fault
	Value  any
	Reason string
}

func (e *SchemaViolation) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("schema violation: column %q: %s", e.Column, e.Reason)
	}
	return fmt.Sprintf("schema violation: column %q row %d: %s (value %q)", e.Column, e.Row, e.Reason, fmt.Sprint(e.Value))
}
