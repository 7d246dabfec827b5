package frame

import (
	"errors"
	"fmt"
)

// ErrNotPrepared is the sentinel behind every MissingPreparedData error.
var ErrNotPrepared = errors.New("prepared data is missing")

// MissingPreparedData is returned by consumers (aggregation, reports,
// enrichment) when they are asked to work on a table that preprocessing never
// produced: a nil Frame, a processed snapshot that does not exist, or a Frame
// lacking a derived column.
type MissingPreparedData struct {
	// What names the missing piece, e.g. a column or a snapshot path.
	What string
}

func (e *MissingPreparedData) Error() string {
	if e.What == "" {
		return "missing prepared data: run preprocess first"
	}
	return fmt.Sprintf("missing prepared data: %s (run preprocess first)", e.What)
}

// Is lets errors.Is(err, ErrNotPrepared) match.
func (e *MissingPreparedData) Is(target error) bool { return target == ErrNotPrepared }

// Require returns *MissingPreparedData when f is nil or lacks any of cols.
func Require(f *Frame, cols ...string) error {
	if f == nil {
		return &MissingPreparedData{What: "table"}
	}
	for _, c := range cols {
		if !f.Has(c) {
			return &MissingPreparedData{What: "column " + c}
		}
	}
	return nil
}
