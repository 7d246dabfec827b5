// Package pipeline runs accident preprocessing in its fixed order:
//
//  1. column names: "." becomes "_"
//  2. Location split into City and State
//  3. Event_Date split into Event_year and Event_month
//  4. Injury_Severity sanitized
//  5. days from event to publication
//  6. total people involved
//
// Each stage runs inside Instrument, which logs the table shape around the
// stage and records stage metrics. Stage errors are returned unchanged.
package pipeline

import (
	"slices"

	"go.uber.org/zap"

	"github.com/valdasjurk/Airplane-accidents-analysis/internal/frame"
	"github.com/valdasjurk/Airplane-accidents-analysis/internal/metrics"
	"github.com/valdasjurk/Airplane-accidents-analysis/internal/schema"
	"github.com/valdasjurk/Airplane-accidents-analysis/internal/transformer"
	"github.com/valdasjurk/Airplane-accidents-analysis/internal/transformer/builtin"
)

// DefaultJob labels metrics when Options.Job is empty.
const DefaultJob = "preprocess"

// Options tune Preprocess.
type Options struct {
	// Job labels metrics and log lines.
	Job string
	// DropDuplicates removes repeated rows before validation.
	DropDuplicates bool
	// Schema overrides schema.Accidents().
	Schema *schema.Schema
}

var normalize = builtin.NormalizeColumns{Pattern: ".", Replacement: "_"}

// Stages returns the preprocessing chain in order, uninstrumented.
func Stages() transformer.Chain {
	return transformer.Chain{
		normalize,
		builtin.SplitLocation{Column: schema.Location, CityColumn: schema.City, RegionColumn: schema.State},
		builtin.DateParts{Column: schema.EventDate, YearColumn: schema.EventYear, MonthColumn: schema.EventMonth},
		builtin.Sanitize{Column: schema.InjurySeverity},
		builtin.DayDelta{From: schema.EventDate, To: schema.PublicationDate, Column: schema.DaysToPublication},
		builtin.RowSum{Columns: schema.InjuryColumns, Column: schema.TotalPeople},
	}
}

// Instrumented wraps every stage of c with Instrument.
func Instrumented(log *zap.Logger, job string, c transformer.Chain) transformer.Chain {
	out := make(transformer.Chain, len(c))
	for i, t := range c {
		out[i] = Instrument(log, job, t)
	}
	return out
}

// Preprocess turns a raw table into the processed table: optional
// duplicate removal, schema validation, then the stage chain. raw is not
// modified.
func Preprocess(log *zap.Logger, raw *frame.Frame, opt Options) (*frame.Frame, error) {
	if log == nil {
		log = zap.NewNop()
	}
	job := opt.Job
	if job == "" {
		job = DefaultJob
	}
	s := schema.Accidents()
	if opt.Schema != nil {
		s = *opt.Schema
	}

	metrics.RecordRow(job, "read", int64(raw.Len()))

	var pre transformer.Chain
	if opt.DropDuplicates {
		pre = append(pre, builtin.DropDuplicates{})
	}
	pre = append(pre, validateStage(log, s))

	t, err := Instrumented(log, job, pre).Apply(raw)
	if err != nil {
		return nil, err
	}
	if d := raw.Len() - t.Len(); d > 0 {
		log.Info("dropped duplicate rows", zap.Int("count", d))
		metrics.RecordRow(job, "duplicates", int64(d))
	}

	if !slices.ContainsFunc(t.Columns(), func(c string) bool { return normalize.Rename(c) == schema.InjurySeverity }) {
		log.Warn("column missing, sanitize is a no-op", zap.String("column", schema.InjurySeverity))
	}
	out, err := Instrumented(log, job, Stages()).Apply(t)
	if err != nil {
		return nil, err
	}
	metrics.RecordRow(job, "processed", int64(out.Len()))
	return out, nil
}

// validateStage adapts schema.Validate to a stage and logs schema drift.
func validateStage(log *zap.Logger, s schema.Schema) transformer.Transformer {
	return transformer.Func{StageName: "validate", Fn: func(f *frame.Frame) (*frame.Frame, error) {
		missing, extra := schema.Drift(f, s)
		if len(missing) > 0 {
			log.Warn("declared columns absent", zap.String("schema", s.Name), zap.Strings("columns", missing))
		}
		if len(extra) > 0 {
			log.Debug("undeclared columns passed through", zap.String("schema", s.Name), zap.Strings("columns", extra))
		}
		return schema.Validate(f, s)
	}}
}
