package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/valdasjurk/Airplane-accidents-analysis/internal/frame"
	"github.com/valdasjurk/Airplane-accidents-analysis/internal/metrics"
)

// DefaultBatchSize is used when SaveOptions.BatchSize is not positive.
const DefaultBatchSize = 5000

// SaveOptions describe one export of a Frame.
type SaveOptions struct {
	// Kind selects the DDL dialect used to create the table.
	Kind  string
	Table string
	// Columns, when set, exports only these columns in this order.
	Columns   []string
	BatchSize int
	// Job labels metrics.
	Job string
}

// SaveFrame creates opt.Table if needed and streams the rows of f into it in
// batches. It returns the number of rows written.
func SaveFrame(ctx context.Context, log *zap.Logger, repo Repository, f *frame.Frame, opt SaveOptions) (int64, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("storage").With(zap.String("table", opt.Table))
	if opt.BatchSize <= 0 {
		opt.BatchSize = DefaultBatchSize
	}

	if len(opt.Columns) > 0 {
		var err error
		if f, err = project(f, opt.Columns); err != nil {
			return 0, err
		}
	}
	if err := EnsureTable(ctx, opt.Kind, repo, opt.Table, f); err != nil {
		return 0, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	in := make(chan []any, opt.BatchSize)
	go func() {
		defer close(in)
		for i := 0; i < f.Len(); i++ {
			select {
			case in <- f.Row(i):
			case <-ctx.Done():
				return
			}
		}
	}()

	start := time.Now()
	total, batches, err := LoadBatches(ctx, log, f.Columns(), in, opt.BatchSize,
		func(ctx context.Context, columns []string, rows [][]any) (int64, error) {
			return repo.CopyFrom(ctx, opt.Table, columns, rows)
		})
	metrics.RecordRow(opt.Job, "exported", total)
	metrics.RecordBatches(opt.Job, batches)
	if err != nil {
		return total, fmt.Errorf("export %s: %w", opt.Table, err)
	}

	log.Info("table exported",
		zap.String("rows", humanize.Comma(total)),
		zap.Int64("batches", batches),
		zap.Duration("duration", time.Since(start)),
	)
	return total, nil
}

func project(f *frame.Frame, cols []string) (*frame.Frame, error) {
	if err := frame.Require(f, cols...); err != nil {
		return nil, err
	}
	out, err := frame.New(cols)
	if err != nil {
		return nil, err
	}
	for i := 0; i < f.Len(); i++ {
		row := make([]any, len(cols))
		for j, c := range cols {
			row[j] = f.Value(i, c)
		}
		if err := out.Append(row); err != nil {
			return nil, err
		}
	}
	return out, nil
}
