// Package metrics records operational metrics from the accident pipeline
// through a small, backend-agnostic facade.
//
//   - Backend is a narrow interface over counters and timings.
//   - The installed backend defaults to a no-op, so instrumented code never
//     has to check whether metrics are configured.
//   - Concrete systems live in subpackages (prompush, datadog), the same way
//     SQL engines live under storage.
//
// Callers are the pipeline stage wrapper, the storage loader and the weather
// enricher.
package metrics

import (
	"sync"
	"time"
)

// Metric names emitted by the helpers below.
const (
	StepTotal      = "accidents_step_total"
	StepDuration   = "accidents_step_duration_seconds"
	RowsTotal      = "accidents_rows_total"
	BatchesTotal   = "accidents_batches_total"
	LookupsTotal   = "accidents_lookups_total"
	LookupDuration = "accidents_lookup_duration_seconds"

	statusSuccess = "success"
	statusFailure = "failure"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a duration-style observation.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes buffered metrics, if the backend needs it.
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

var (
	mu      sync.RWMutex
	backend Backend = nopBackend{}
)

// SetBackend installs a concrete backend. Passing nil keeps the existing one.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	mu.Lock()
	backend = b
	mu.Unlock()
}

func current() Backend {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

// Flush delegates to the current backend.
func Flush() error {
	return current().Flush()
}

// RecordStep counts one execution of a pipeline stage and records its
// duration, labelled by job, step and outcome.
func RecordStep(job, step string, err error, d time.Duration) {
	lbls := Labels{"job": job, "step": step, "status": status(err)}
	b := current()
	b.IncCounter(StepTotal, 1, lbls)
	b.ObserveHistogram(StepDuration, d.Seconds(), lbls)
}

// RecordRow adds delta rows of the given kind, e.g.:
//   - "read"
//   - "duplicates"
//   - "processed"
//   - "exported"
//   - "enriched"
func RecordRow(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	current().IncCounter(RowsTotal, float64(delta), Labels{"job": job, "kind": kind})
}

// RecordBatches counts storage batches flushed for job.
func RecordBatches(job string, delta int64) {
	if delta <= 0 {
		return
	}
	current().IncCounter(BatchesTotal, float64(delta), Labels{"job": job})
}

// RecordLookup counts one external lookup (weather, airports) by service and
// result, where result is "hit", "miss" or "error".
func RecordLookup(service, result string, d time.Duration) {
	lbls := Labels{"service": service, "result": result}
	b := current()
	b.IncCounter(LookupsTotal, 1, lbls)
	b.ObserveHistogram(LookupDuration, d.Seconds(), lbls)
}

func status(err error) string {
	if err != nil {
		return statusFailure
	}
	return statusSuccess
}
