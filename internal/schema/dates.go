package schema

import (
	"strings"
	"time"
)

// DefaultDateLayouts are tried in order for Date columns that do not declare
// their own layouts. The export writes Event.Date as ISO and Publication.Date
// as dd-mm-yyyy.
var DefaultDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02-01-2006",
	"01/02/2006",
}

// ParseDate parses s with the first matching layout. Layouts default to
// DefaultDateLayouts when empty. Results are timezone-naive (UTC).
func ParseDate(s string, layouts []string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if len(layouts) == 0 {
		layouts = DefaultDateLayouts
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
