// Package parser turns a raw input stream into a Frame. The csv and xlsx
// subpackages implement Parser; ForPath picks one from a file name.
package parser

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/valdasjurk/Airplane-accidents-analysis/internal/frame"
	"github.com/valdasjurk/Airplane-accidents-analysis/internal/parser/csv"
	"github.com/valdasjurk/Airplane-accidents-analysis/internal/parser/xlsx"
)

type Parser interface {
	Parse(ctx context.Context, r io.Reader) (*frame.Frame, error)
}

// ForPath returns the xlsx parser for .xlsx files (reading sheet, or the
// first sheet when empty) and the csv parser for everything else.
func ForPath(path string, csvOpt csv.Options, sheet string) Parser {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return xlsx.Parser{Sheet: sheet}
	}
	return csv.Parser{Options: csvOpt}
}
