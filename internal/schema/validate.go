package schema

import (
	"fmt"
	"math"
	"time"

	"github.com/valdasjurk/Airplane-accidents-analysis/internal/frame"
)

// Validate checks f against s and, when s.Coerce is set, returns a new Frame
// whose declared columns hold values of their declared types.
//
// Rules:
//   - A declared non-nullable column that is absent fails with
//     *SchemaViolation (Row = -1). Absent nullable columns are skipped and
//     not added.
//   - A null in a non-nullable column fails unless the column has a Default.
//   - A value that cannot be coerced fails unless the column has a Default
//     or NullOnError.
//   - Columns not declared in s are passed through unchanged.
//
// The first violation aborts validation. f is never modified.
func Validate(f *frame.Frame, s Schema) (*frame.Frame, error) {
	out := f
	for _, c := range s.Columns {
		vals, ok := out.Column(c.Name)
		if !ok {
			if !c.Nullable {
				return nil, &SchemaViolation{Column: c.Name, Row: -1, Reason: "required column is missing"}
			}
			continue
		}

		changed := false
		for i, v := range vals {
			nv, err := checkValue(c, s.Coerce, i, v)
			if err != nil {
				return nil, err
			}
			if !sameCell(nv, v) {
				vals[i] = nv
				changed = true
			}
		}
		if !changed {
			continue
		}
		next, err := out.WithColumn(c.Name, vals)
		if err != nil {
			return nil, fmt.Errorf("schema: %w", err)
		}
		out = next
	}
	if out == f {
		out = f.Clone()
	}
	return out, nil
}

func checkValue(c Column, coerce bool, row int, v any) (any, error) {
	if frame.IsNull(v) {
		if c.Default != nil {
			d, ok := convert(c, c.Default)
			if !ok {
				return nil, &SchemaViolation{Column: c.Name, Row: row, Value: c.Default, Reason: "default is not a valid " + string(c.Type)}
			}
			return d, nil
		}
		if !c.Nullable {
			return nil, &SchemaViolation{Column: c.Name, Row: row, Value: nil, Reason: "null in non-nullable column"}
		}
		return nil, nil
	}
	if !coerce {
		return v, nil
	}

	nv, ok := convert(c, v)
	if ok {
		return nv, nil
	}
	switch {
	case c.Default != nil:
		d, ok := convert(c, c.Default)
		if !ok {
			return nil, &SchemaViolation{Column: c.Name, Row: row, Value: c.Default, Reason: "default is not a valid " + string(c.Type)}
		}
		return d, nil
	case c.NullOnError && c.Nullable:
		return nil, nil
	}
	return nil, &SchemaViolation{Column: c.Name, Row: row, Value: v, Reason: "cannot coerce to " + string(c.Type)}
}

// convert coerces a non-null cell to the column's type.
func convert(c Column, v any) (any, bool) {
	switch c.Type {
	case Float:
		return frame.AsFloat(v)
	case Int:
		return frame.AsInt(v)
	case Date:
		switch x := v.(type) {
		case time.Time:
			return x, true
		case string:
			return ParseDate(x, c.Layouts)
		}
		return nil, false
	case String, "":
		if x, ok := v.(string); ok {
			return x, true
		}
		return frame.AsString(v)
	}
	return nil, false
}

func sameCell(a, b any) bool {
	switch x := a.(type) {
	case time.Time:
		y, ok := b.(time.Time)
		return ok && x.Equal(y)
	case float64:
		y, ok := b.(float64)
		return ok && (x == y || (math.IsNaN(x) && math.IsNaN(y)))
	}
	return a == b
}

// Drift reports the nullable declared columns f lacks and the columns f has
// that s does not declare. Neither is a violation; callers log them.
func Drift(f *frame.Frame, s Schema) (missing, extra []string) {
	declared := make(map[string]struct{}, len(s.Columns))
	for _, c := range s.Columns {
		declared[c.Name] = struct{}{}
		if !f.Has(c.Name) {
			missing = append(missing, c.Name)
		}
	}
	for _, name := range f.Columns() {
		if _, ok := declared[name]; !ok {
			extra = append(extra, name)
		}
	}
	return missing, extra
}
