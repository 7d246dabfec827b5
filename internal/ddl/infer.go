package ddl

import (
	"time"

	"github.com/valdasjurk/Airplane-accidents-analysis/internal/frame"
)

// Infer returns the logical kind of every column of f from its non-null
// cells. Ints widen to float, dates widen to timestamp, and any other mix
// (or a column of nulls) is text.
func Infer(f *frame.Frame) []Kind {
	kinds := make([]Kind, f.Width())
	for c, name := range f.Columns() {
		vals, _ := f.Column(name)
		var k Kind
		for _, v := range vals {
			if v == nil {
				continue
			}
			k = widen(k, cellKind(v))
			if k == KindText {
				break
			}
		}
		if k == "" {
			k = KindText
		}
		kinds[c] = k
	}
	return kinds
}

func cellKind(v any) Kind {
	switch x := v.(type) {
	case int64, int:
		return KindInt
	case float64:
		return KindFloat
	case time.Time:
		h, m, s := x.Clock()
		if h == 0 && m == 0 && s == 0 && x.Nanosecond() == 0 {
			return KindDate
		}
		return KindTimestamp
	}
	return KindText
}

func widen(have, next Kind) Kind {
	switch {
	case have == "" || have == next:
		return next
	case (have == KindInt && next == KindFloat) || (have == KindFloat && next == KindInt):
		return KindFloat
	case (have == KindDate && next == KindTimestamp) || (have == KindTimestamp && next == KindDate):
		return KindTimestamp
	}
	return KindText
}
