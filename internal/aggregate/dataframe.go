package aggregate

import (
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/valdasjurk/Airplane-accidents-analysis/internal/frame"
)

// toDataFrame copies the named columns of f into a gota DataFrame. A column
// whose non-null cells are all numeric becomes a Float series with NaN for
// nulls; anything else becomes a String series.
func toDataFrame(f *frame.Frame, cols ...string) (dataframe.DataFrame, error) {
	if err := frame.Require(f, cols...); err != nil {
		return dataframe.DataFrame{}, err
	}
	ss := make([]series.Series, 0, len(cols))
	for _, c := range cols {
		vals, _ := f.Column(c)
		ss = append(ss, toSeries(c, vals))
	}
	df := dataframe.New(ss...)
	return df, df.Err
}

func toSeries(name string, vals []any) series.Series {
	if numeric(vals) {
		out := make([]float64, len(vals))
		for i, v := range vals {
			if x, ok := frame.AsFloat(v); ok {
				out[i] = x
			} else {
				out[i] = math.NaN()
			}
		}
		return series.New(out, series.Float, name)
	}
	out := make([]any, len(vals))
	for i, v := range vals {
		if s, ok := frame.AsString(v); ok {
			out[i] = s
		}
	}
	// nil elements become NA in a String series.
	return series.New(out, series.String, name)
}

func numeric(vals []any) bool {
	seen := false
	for _, v := range vals {
		switch v.(type) {
		case nil:
		case float64, int64, int:
			seen = true
		default:
			return false
		}
	}
	return seen
}

// nullableFloats renders optional values as a Float series, NaN for nil.
func nullableFloats(name string, vals []*float64) series.Series {
	out := make([]float64, len(vals))
	for i, v := range vals {
		if v == nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = *v
	}
	return series.New(out, series.Float, name)
}

// Frame converts the table back to a Frame for export. Int columns become
// int64 cells, Float columns float64 (NaN becomes null) and the rest strings.
func (t Table) Frame() (*frame.Frame, error) {
	if t.Data.Err != nil {
		return nil, t.Data.Err
	}
	names := t.Data.Names()
	rows := make([][]any, t.Data.Nrow())
	for i := range rows {
		rows[i] = make([]any, len(names))
	}
	for c, name := range names {
		col := t.Data.Col(name)
		for r := range rows {
			rows[r][c] = cell(col, r)
		}
	}
	return frame.FromRows(names, rows)
}

func cell(s series.Series, i int) any {
	e := s.Elem(i)
	if e.IsNA() {
		return nil
	}
	switch s.Type() {
	case series.Int:
		n, err := e.Int()
		if err != nil {
			return nil
		}
		return int64(n)
	case series.Float:
		f := e.Float()
		if math.IsNaN(f) {
			return nil
		}
		return f
	}
	return e.String()
}
