// Package csv reads and writes the accident table as delimited text.
//
// The reader is built for the NTSB export as it is distributed:
//
//   - Bytes are decoded from a single-byte Western code page (cp1252 by
//     default) into UTF-8 before encoding/csv sees them.
//   - A literal single space, and an empty field, mean "no value" and become
//     nil cells.
//   - A UTF-8 BOM on the first header cell is stripped.
//   - Rows shorter than the header are padded with nil; longer rows are an
//     error, since their cells cannot be attributed to a column.
//
// Every non-null cell is read as a string. Typing is the schema validator's
// job, which keeps this package free of dataset knowledge.
//
// The writer emits UTF-8 with a header row and no synthetic index column.
package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/valdasjurk/Airplane-accidents-analysis/internal/frame"
)

// Options configures ReadFrame. The zero value reads comma-separated UTF-8
// with the default null tokens.
type Options struct {
	// Comma is the field delimiter. When zero, ',' is used.
	Comma rune

	// Encoding names the source code page, e.g. "cp1252". Empty means UTF-8.
	Encoding string

	// NullTokens lists raw field values that mean "no value". When nil,
	// DefaultNullTokens is used.
	NullTokens []string

	// LazyQuotes relaxes quote handling (encoding/csv LazyQuotes).
	LazyQuotes bool
}

// DefaultNullTokens are the raw values treated as null when Options.NullTokens
// is nil.
var DefaultNullTokens = []string{"", " "}

// ReadFrame reads a header row and all data rows from r into a Frame.
//
// Cancellation is checked between rows; on cancel ReadFrame returns
// ctx.Err().
func ReadFrame(ctx context.Context, r io.Reader, opt Options) (*frame.Frame, error) {
	src, err := decodingReader(r, opt.Encoding)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(src)
	if opt.Comma != 0 {
		cr.Comma = opt.Comma
	}
	cr.LazyQuotes = opt.LazyQuotes
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	nulls := opt.NullTokens
	if nulls == nil {
		nulls = DefaultNullTokens
	}
	isNull := make(map[string]struct{}, len(nulls))
	for _, n := range nulls {
		isNull[n] = struct{}{}
	}

	hdr, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv: read header: empty input")
		}
		return nil, fmt.Errorf("csv: read header: %w", err)
	}
	header := StripHeaderBOM(append([]string(nil), hdr...))

	f, err := frame.New(header)
	if err != nil {
		return nil, fmt.Errorf("csv: header: %w", err)
	}

	row := make([]any, len(header))
	for line := 2; ; line++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read: %w", err)
		}
		if len(rec) > len(header) {
			return nil, fmt.Errorf("csv: line %d: %d fields, header has %d", line, len(rec), len(header))
		}

		for i := range row {
			row[i] = nil
			if i >= len(rec) {
				continue
			}
			if _, null := isNull[rec[i]]; null {
				continue
			}
			row[i] = rec[i]
		}
		if err := f.Append(row); err != nil {
			return nil, fmt.Errorf("csv: line %d: %w", line, err)
		}
	}
	return f, nil
}

// Parser reads CSV with fixed Options.
type Parser struct {
	Options Options
}

func (p Parser) Parse(ctx context.Context, r io.Reader) (*frame.Frame, error) {
	return ReadFrame(ctx, r, p.Options)
}
