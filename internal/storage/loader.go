package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// CopyFn inserts one batch of rows aligned to columns and returns the number
// of rows written. It should cancel promptly when ctx is done.
type CopyFn func(ctx context.Context, columns []string, rows [][]any) (int64, error)

// LoadBatches drains rows from in, groups them into batches of batchSize and
// calls copyFn per non-empty batch. It returns the rows reported by copyFn
// and the first error. Progress is logged at debug level after every batch.
func LoadBatches(
	ctx context.Context,
	log *zap.Logger,
	columns []string,
	in <-chan []any,
	batchSize int,
	copyFn CopyFn,
) (total int64, batches int64, err error) {
	if batchSize <= 0 {
		return 0, 0, fmt.Errorf("batchSize must be > 0")
	}
	if copyFn == nil {
		return 0, 0, fmt.Errorf("copyFn must not be nil")
	}
	if log == nil {
		log = zap.NewNop()
	}

	var (
		batch     = make([][]any, 0, batchSize)
		start     = time.Now()
		lastFlush = start
		lastTotal int64
	)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := copyFn(ctx, columns, batch)
		total += n
		batch = batch[:0]
		if err != nil {
			log.Error("batch copy failed", zap.Int64("inserted", n), zap.Int64("total", total), zap.Error(err))
			return err
		}

		batches++
		now := time.Now()
		since := now.Sub(lastFlush)
		rps := float64(0)
		if since > 0 {
			rps = float64(total-lastTotal) / since.Seconds()
		}
		log.Debug("batch copied",
			zap.Int64("batch", batches),
			zap.Int64("inserted", n),
			zap.String("total", humanize.Comma(total)),
			zap.String("rows_per_sec", humanize.CommafWithDigits(rps, 0)),
			zap.Duration("elapsed", now.Sub(start).Truncate(time.Millisecond)),
		)
		lastFlush = now
		lastTotal = total
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return total, batches, ctx.Err()

		case row, ok := <-in:
			if !ok {
				if err := flush(); err != nil {
					return total, batches, err
				}
				return total, batches, nil
			}
			batch = append(batch, row)
			if len(batch) >= batchSize {
				if err := flush(); err != nil {
					return total, batches, err
				}
			}
		}
	}
}
