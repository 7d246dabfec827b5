package builtin

import (
	"time"

	"github.com/valdasjurk/Airplane-accidents-analysis/internal/frame"
)

// DayDelta derives Column = To − From in whole days, truncated toward zero.
// Negative results are kept: a publication dated before its event is a data
// problem worth surfacing, not an error.
type DayDelta struct {
	From    string
	To      string
	Column  string
	Layouts []string
}

func (DayDelta) Name() string { return "day_delta" }

// Apply appends Column as int64 cells, null when either date is null. Date
// cells that are present but unreadable fail with *InvalidTimestamp.
func (d DayDelta) Apply(f *frame.Frame) (*frame.Frame, error) {
	out := make([]any, f.Len())
	fi, okFrom := f.Index(d.From)
	ti, okTo := f.Index(d.To)
	if okFrom && okTo {
		for i := 0; i < f.Len(); i++ {
			row := f.Row(i)
			if frame.IsNull(row[fi]) || frame.IsNull(row[ti]) {
				continue
			}
			from, err := asDate(d.From, i, row[fi], d.Layouts)
			if err != nil {
				return nil, err
			}
			to, err := asDate(d.To, i, row[ti], d.Layouts)
			if err != nil {
				return nil, err
			}
			out[i] = DaysBetween(from, to)
		}
	}
	return f.WithColumn(d.Column, out)
}

// DaysBetween returns the whole days from a to b, truncated toward zero.
// It counts Unix seconds, so spans beyond time.Duration's range stay exact.
func DaysBetween(a, b time.Time) int64 {
	sec := b.Unix() - a.Unix()
	ns := b.Nanosecond() - a.Nanosecond()
	switch {
	case sec > 0 && ns < 0:
		sec--
	case sec < 0 && ns > 0:
		sec++
	}
	return sec / 86400
}

// RowSum derives Column as the sum of Columns per row, counting null and
// missing cells as zero. A row whose inputs are all null sums to 0.
type RowSum struct {
	Columns []string
	Column  string
}

func (RowSum) Name() string { return "row_sum" }

func (r RowSum) Apply(f *frame.Frame) (*frame.Frame, error) {
	idx := make([]int, 0, len(r.Columns))
	for _, c := range r.Columns {
		if j, ok := f.Index(c); ok {
			idx = append(idx, j)
		}
	}

	out := make([]any, f.Len())
	for i := 0; i < f.Len(); i++ {
		row := f.Row(i)
		var sum float64
		for _, j := range idx {
			if v, ok := frame.AsFloat(row[j]); ok {
				sum += v
			}
		}
		out[i] = sum
	}
	return f.WithColumn(r.Column, out)
}
