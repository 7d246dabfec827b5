package pipeline

import (
	"time"

	"go.uber.org/zap"

	"github.com/valdasjurk/Airplane-accidents-analysis/internal/frame"
	"github.com/valdasjurk/Airplane-accidents-analysis/internal/metrics"
	"github.com/valdasjurk/Airplane-accidents-analysis/internal/transformer"
)

// Instrument wraps t so each Apply logs the table shape before and after,
// the resulting column names and the duration, and records a metrics step.
// The wrapped stage's error is returned as is.
func Instrument(log *zap.Logger, job string, t transformer.Transformer) transformer.Transformer {
	if log == nil {
		log = zap.NewNop()
	}
	return &instrumented{log: log.Named("pipeline"), job: job, next: t}
}

type instrumented struct {
	log  *zap.Logger
	job  string
	next transformer.Transformer
}

func (i *instrumented) Name() string { return i.next.Name() }

func (i *instrumented) Apply(in *frame.Frame) (*frame.Frame, error) {
	stage := i.next.Name()
	rows, cols := in.Shape()
	i.log.Debug("stage start",
		zap.String("stage", stage),
		zap.Int("rows_before", rows),
		zap.Int("columns_before", cols),
	)

	start := time.Now()
	out, err := i.next.Apply(in)
	d := time.Since(start)
	metrics.RecordStep(i.job, stage, err, d)

	if err != nil {
		i.log.Error("stage failed", zap.String("stage", stage), zap.Duration("duration", d), zap.Error(err))
		return nil, err
	}
	outRows, outCols := out.Shape()
	i.log.Info("stage done",
		zap.String("stage", stage),
		zap.Int("rows_before", rows),
		zap.Int("columns_before", cols),
		zap.Int("rows", outRows),
		zap.Int("columns", outCols),
		zap.Strings("column_names", out.Columns()),
		zap.Duration("duration", d),
	)
	return out, nil
}
