// Package xlsx reads one worksheet of an Excel workbook into a Frame with the
// same conventions as the csv reader: the first row is the header, every
// non-null cell is a string, and blank or single-space cells are null.
package xlsx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tealeg/xlsx"

	"github.com/valdasjurk/Airplane-accidents-analysis/internal/frame"
	"github.com/valdasjurk/Airplane-accidents-analysis/internal/parser/csv"
)

// ErrNoSheet is returned when the workbook has no sheets or lacks the
// requested one.
var ErrNoSheet = errors.New("xlsx: sheet not found")

// Parser reads Sheet, or the first sheet when Sheet is empty.
type Parser struct {
	Sheet string
}

func (p Parser) Parse(ctx context.Context, r io.Reader) (*frame.Frame, error) {
	return ReadFrame(ctx, r, p.Sheet)
}

// ReadFrame reads the whole workbook from r and converts one sheet.
// Cancellation is checked between rows.
func ReadFrame(ctx context.Context, r io.Reader, sheet string) (*frame.Frame, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("xlsx: read: %w", err)
	}
	book, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, fmt.Errorf("xlsx: open: %w", err)
	}

	var sh *xlsx.Sheet
	switch {
	case sheet != "":
		sh = book.Sheet[sheet]
	case len(book.Sheets) > 0:
		sh = book.Sheets[0]
	}
	if sh == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoSheet, sheet)
	}
	return fromSheet(ctx, sh)
}

func fromSheet(ctx context.Context, sh *xlsx.Sheet) (*frame.Frame, error) {
	if len(sh.Rows) == 0 {
		return nil, fmt.Errorf("xlsx: sheet %q: empty input", sh.Name)
	}

	var header []string
	for _, c := range sh.Rows[0].Cells {
		header = append(header, strings.TrimSpace(c.String()))
	}
	for len(header) > 0 && header[len(header)-1] == "" {
		header = header[:len(header)-1]
	}
	header = csv.StripHeaderBOM(header)

	f, err := frame.New(header)
	if err != nil {
		return nil, fmt.Errorf("xlsx: sheet %q: %w", sh.Name, err)
	}

	for i, row := range sh.Rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if row == nil {
			continue
		}
		cells := make([]any, len(header))
		empty := true
		for j, c := range row.Cells {
			v := c.String()
			if v == "" || v == " " {
				continue
			}
			if j >= len(header) {
				return nil, fmt.Errorf("xlsx: sheet %q row %d: value in column %d beyond the %d header columns", sh.Name, i+2, j+1, len(header))
			}
			cells[j] = v
			empty = false
		}
		if empty {
			continue
		}
		if err := f.Append(cells); err != nil {
			return nil, fmt.Errorf("xlsx: sheet %q row %d: %w", sh.Name, i+2, err)
		}
	}
	return f, nil
}
