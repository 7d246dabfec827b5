package weather

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/valdasjurk/Airplane-accidents-analysis/internal/frame"
	"github.com/valdasjurk/Airplane-accidents-analysis/internal/metrics"
	"github.com/valdasjurk/Airplane-accidents-analysis/internal/schema"
)

// Lookup is the temperature source an Enricher queries. *Client implements
// it.
type Lookup interface {
	DailyTemperature(ctx context.Context, city string, day time.Time) (float64, bool, error)
}

// Options select the rows to enrich and the lookup parallelism.
type Options struct {
	// Year and Month filter on Event_year and Event_month; 0 disables that
	// part of the filter.
	Year  int
	Month int
	// Concurrency bounds parallel lookups. Values below 2 run lookups one at
	// a time in row order.
	Concurrency int
}

// Enricher adds Temperatures_accident_day to processed accident rows.
type Enricher struct {
	Source Lookup
	Log    *zap.Logger
	// Job labels metrics; "enrich" when empty.
	Job string
}

type reading struct {
	temp float64
	ok   bool
}

// Enrich returns the rows of t matching opt with the temperature column
// added. A row gets null when its city or date is missing, when the service
// has no data, or when the lookup fails; failures are logged and counted but
// never abort the batch. Rows sharing a (city, day) key share one lookup.
// Cancelling ctx stops outstanding lookups and returns ctx.Err().
func (e *Enricher) Enrich(ctx context.Context, t *frame.Frame, opt Options) (*frame.Frame, error) {
	if err := frame.Require(t, schema.EventYear, schema.EventMonth, schema.City, schema.EventDate); err != nil {
		return nil, err
	}
	log := e.Log
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("weather")
	job := e.Job
	if job == "" {
		job = "enrich"
	}

	rows := t.Filter(func(i int) bool {
		return matches(t.Value(i, schema.EventYear), opt.Year) && matches(t.Value(i, schema.EventMonth), opt.Month)
	})
	log.Info("enriching rows", zap.Int("rows", rows.Len()), zap.Int("year", opt.Year), zap.Int("month", opt.Month))

	var (
		mu    sync.Mutex
		cache = make(map[string]reading)
		group singleflight.Group
	)
	lookup := func(ctx context.Context, city string, day time.Time) (reading, error) {
		key := city + "|" + day.Format(frame.DateLayout)
		mu.Lock()
		r, hit := cache[key]
		mu.Unlock()
		if hit {
			return r, nil
		}
		v, err, _ := group.Do(key, func() (any, error) {
			start := time.Now()
			temp, ok, err := e.Source.DailyTemperature(ctx, city, day)
			r := reading{temp: temp, ok: ok}
			switch {
			case err != nil && ctx.Err() != nil:
				return nil, ctx.Err()
			case err != nil:
				metrics.RecordLookup("weatherbit", "error", time.Since(start))
				log.Warn("lookup failed", zap.String("city", city), zap.Time("day", day), zap.Error(err))
				r = reading{}
			case ok:
				metrics.RecordLookup("weatherbit", "hit", time.Since(start))
			default:
				metrics.RecordLookup("weatherbit", "miss", time.Since(start))
			}
			mu.Lock()
			cache[key] = r
			mu.Unlock()
			return r, nil
		})
		if err != nil {
			return reading{}, err
		}
		return v.(reading), nil
	}

	limit := opt.Concurrency
	if limit < 1 {
		limit = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	temps := make([]any, rows.Len())
	for i := 0; i < rows.Len(); i++ {
		city, ok := frame.AsString(rows.Value(i, schema.City))
		if !ok {
			continue
		}
		day, ok := eventDay(rows.Value(i, schema.EventDate))
		if !ok {
			continue
		}
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := lookup(gctx, city, day)
			if err != nil {
				return err
			}
			if r.ok {
				temps[i] = r.temp
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var found int64
	for _, v := range temps {
		if v != nil {
			found++
		}
	}
	metrics.RecordRow(job, "enriched", found)
	log.Info("enrichment done", zap.Int("rows", rows.Len()), zap.Int64("with_temperature", found), zap.Int("lookups", len(cache)))

	return rows.WithColumn(schema.TemperatureOnEventDay, temps)
}

func matches(v any, want int) bool {
	if want == 0 {
		return true
	}
	got, ok := frame.AsInt(v)
	return ok && got == int64(want)
}

func eventDay(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case string:
		return schema.ParseDate(x, nil)
	}
	return time.Time{}, false
}
