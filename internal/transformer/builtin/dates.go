package builtin

import (
	"time"

	"github.com/valdasjurk/Airplane-accidents-analysis/internal/frame"
	"github.com/valdasjurk/Airplane-accidents-analysis/internal/schema"
)

// DateParts derives integer year and month columns from a date column.
type DateParts struct {
	Column      string
	YearColumn  string
	MonthColumn string

	// Layouts used for string cells; schema.DefaultDateLayouts when empty.
	Layouts []string
}

func (DateParts) Name() string { return "date_parts" }

// Apply appends YearColumn and MonthColumn as int64 cells. Null dates give
// null parts. A string cell that matches no layout, or a cell of any other
// non-date type, fails with *InvalidTimestamp.
func (d DateParts) Apply(f *frame.Frame) (*frame.Frame, error) {
	years := make([]any, f.Len())
	months := make([]any, f.Len())

	if j, ok := f.Index(d.Column); ok {
		for i := 0; i < f.Len(); i++ {
			v := f.Row(i)[j]
			if frame.IsNull(v) {
				continue
			}
			t, err := asDate(d.Column, i, v, d.Layouts)
			if err != nil {
				return nil, err
			}
			years[i] = int64(t.Year())
			months[i] = int64(t.Month())
		}
	}

	out, err := f.WithColumn(d.YearColumn, years)
	if err != nil {
		return nil, err
	}
	return out.WithColumn(d.MonthColumn, months)
}

// asDate reads a non-null cell as a date.
func asDate(column string, row int, v any, layouts []string) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return x, nil
	case string:
		if t, ok := schema.ParseDate(x, layouts); ok {
			return t, nil
		}
	}
	return time.Time{}, &InvalidTimestamp{Column: column, Row: row, Value: v}
}
