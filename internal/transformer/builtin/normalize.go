// Package builtin contains the pipeline's stock stages.
//
// Every stage is a small value type implementing transformer.Transformer:
//
//   - NormalizeColumns: literal substring replacement in column names
//   - SplitLocation:    "city, region" text into two derived columns
//   - DateParts:        year and month columns from a date column
//   - Sanitize:         strip symbols and digits from one label column
//   - DayDelta:         whole days between two date columns
//   - RowSum:           null-as-zero sum across numeric columns
//   - DropDuplicates:   remove repeated rows, keyed by an xxh3 row hash
//
// Derived columns are appended (or overwritten in place when they already
// exist), so running a stage twice yields the same table.
package builtin

import (
	"errors"
	"strings"

	"github.com/valdasjurk/Airplane-accidents-analysis/internal/frame"
)

// NormalizeColumns replaces every occurrence of Pattern with Replacement in
// each column name. Pattern is a literal substring, not a regular expression.
type NormalizeColumns struct {
	Pattern     string
	Replacement string
}

func (NormalizeColumns) Name() string { return "normalize_columns" }

// Apply returns a renamed copy of f. Row order and count are unchanged. If
// two distinct columns end up with the same name, Apply fails with
// *DuplicateColumnError and nothing is renamed.
func (n NormalizeColumns) Apply(f *frame.Frame) (*frame.Frame, error) {
	if n.Pattern == "" {
		return nil, errors.New("normalize_columns: empty pattern")
	}

	cols := f.Columns()
	names := make([]string, len(cols))
	sources := make(map[string][]string, len(cols))
	for i, c := range cols {
		names[i] = n.Rename(c)
		sources[names[i]] = append(sources[names[i]], c)
	}
	for _, name := range names {
		if src := sources[name]; len(src) > 1 {
			return nil, &DuplicateColumnError{Column: name, Sources: src}
		}
	}
	return f.Renamed(names)
}

// Rename returns the name Apply gives a column called name.
func (n NormalizeColumns) Rename(name string) string {
	return strings.ReplaceAll(name, n.Pattern, n.Replacement)
}
