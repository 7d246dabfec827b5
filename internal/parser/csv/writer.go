package csv

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/valdasjurk/Airplane-accidents-analysis/internal/frame"
)

// WriteFrame writes f to w as UTF-8 CSV: one header row, then one line per
// row with cells rendered by frame.Format. No index column is written.
func WriteFrame(w io.Writer, f *frame.Frame) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(f.Columns()); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}

	rec := make([]string, f.Width())
	for i := 0; i < f.Len(); i++ {
		for j, v := range f.Row(i) {
			rec[j] = frame.Format(v)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("csv: write row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("csv: flush: %w", err)
	}
	return nil
}
