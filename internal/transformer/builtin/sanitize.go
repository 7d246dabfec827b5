package builtin

import (
	"strings"
	"unicode"

	"github.com/valdasjurk/Airplane-accidents-analysis/internal/frame"
)

// Sanitize rewrites one text column so that only letters and whitespace
// remain: "Fatal(2)" becomes "Fatal". It must be applied once per column.
type Sanitize struct {
	Column string
}

func (Sanitize) Name() string { return "sanitize" }

// Apply returns a copy of f with Column sanitized. Null and non-string cells
// pass through unchanged. A missing column leaves f as is.
func (s Sanitize) Apply(f *frame.Frame) (*frame.Frame, error) {
	vals, ok := f.Column(s.Column)
	if !ok {
		return f.Clone(), nil
	}
	for i, v := range vals {
		if text, ok := v.(string); ok {
			vals[i] = SanitizeText(text)
		}
	}
	return f.WithColumn(s.Column, vals)
}

// SanitizeText removes every rune that is not a letter, digit or whitespace,
// then removes every digit.
func SanitizeText(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return -1
		}
		return r
	}, stripSymbols(s))
}

func stripSymbols(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, s)
}
