// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package.
//
// The accident commands are short-lived, so nothing is scraped: collectors
// live in a private registry and Flush pushes it to the gateway under the
// configured job name. The job label itself is the Pushgateway grouping key
// and is not repeated on individual series.
package prompush

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/valdasjurk/Airplane-accidents-analysis/internal/metrics"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string
	jobName    string
	reg        *prometheus.Registry

	stepCounter    *prometheus.CounterVec
	stepDuration   *prometheus.SummaryVec
	rowCounter     *prometheus.CounterVec
	batchCounter   prometheus.Counter
	lookupCounter  *prometheus.CounterVec
	lookupDuration *prometheus.SummaryVec
}

var objectives = map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001}

// NewBackend constructs a Pushgateway backend. jobName defaults to
// "accidents".
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "accidents"
	}

	b := &Backend{
		gatewayURL: gatewayURL,
		jobName:    jobName,
		reg:        prometheus.NewRegistry(),
		stepCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.StepTotal,
			Help: "Pipeline stage executions by step and status.",
		}, []string{"step", "status"}),
		stepDuration: prometheus.NewSummaryVec(prometheus.SummaryOpts{
			Name:       metrics.StepDuration,
			Help:       "Pipeline stage duration in seconds by step and status.",
			Objectives: objectives,
		}, []string{"step", "status"}),
		rowCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.RowsTotal,
			Help: "Rows by kind (read, duplicates, processed, exported, enriched).",
		}, []string{"kind"}),
		batchCounter: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metrics.BatchesTotal,
			Help: "Storage batches flushed.",
		}),
		lookupCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.LookupsTotal,
			Help: "External lookups by service and result.",
		}, []string{"service", "result"}),
		lookupDuration: prometheus.NewSummaryVec(prometheus.SummaryOpts{
			Name:       metrics.LookupDuration,
			Help:       "External lookup latency in seconds by service and result.",
			Objectives: objectives,
		}, []string{"service", "result"}),
	}

	for name, c := range map[string]prometheus.Collector{
		"step counter":   b.stepCounter,
		"step summary":   b.stepDuration,
		"row counter":    b.rowCounter,
		"batch counter":  b.batchCounter,
		"lookup counter": b.lookupCounter,
		"lookup summary": b.lookupDuration,
	} {
		if err := b.reg.Register(c); err != nil {
			return nil, fmt.Errorf("prompush: register %s: %w", name, err)
		}
	}
	return b, nil
}

func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case metrics.StepTotal:
		if b.stepCounter != nil {
			b.stepCounter.WithLabelValues(labels["step"], labels["status"]).Add(delta)
		}
	case metrics.RowsTotal:
		if b.rowCounter != nil {
			b.rowCounter.WithLabelValues(labels["kind"]).Add(delta)
		}
	case metrics.BatchesTotal:
		if b.batchCounter != nil {
			b.batchCounter.Add(delta)
		}
	case metrics.LookupsTotal:
		if b.lookupCounter != nil {
			b.lookupCounter.WithLabelValues(labels["service"], labels["result"]).Add(delta)
		}
	}
}

func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	switch name {
	case metrics.StepDuration:
		if b.stepDuration != nil {
			b.stepDuration.WithLabelValues(labels["step"], labels["status"]).Observe(value)
		}
	case metrics.LookupDuration:
		if b.lookupDuration != nil {
			b.lookupDuration.WithLabelValues(labels["service"], labels["result"]).Observe(value)
		}
	}
}

// Flush pushes the registry to the Pushgateway, replacing the job's group.
func (b *Backend) Flush() error {
	return push.New(b.gatewayURL, b.jobName).
		Gatherer(b.reg).
		Push()
}
