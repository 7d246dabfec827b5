package builtin

import (
	"fmt"
	"strings"
)

// DuplicateColumnError reports that column renaming collapsed two or more
// distinct columns onto the same name.
type DuplicateColumnError struct {
	Column  string   // the colliding normalized name
	Sources []string // original names that map to Column
}

func (e *DuplicateColumnError) Error() string {
	return fmt.Sprintf("duplicate column %q after normalization (from %s)", e.Column, strings.Join(e.Sources, ", "))
}

// InvalidTimestamp reports a date cell that is present but cannot be read as
// a date. Null cells never produce it.
type InvalidTimestamp struct {
	Column string
	Row    int
	Value  any
}

func (e *InvalidTimestamp) Error() string {
	return fmt.Sprintf("invalid timestamp in column %q row %d: %q", e.Column, e.Row, fmt.Sprint(e.Value))
}
