package prompush

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/valdasjurk/Airplane-accidents-analysis/internal/metrics"
)

func readCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		t.Fatalf("Counter.Write: %v", err)
	}
	if m.GetCounter() == nil {
		t.Fatalf("metric did not contain a counter")
	}
	return m.GetCounter().GetValue()
}

func readSummaryCountSum(t *testing.T, v *prometheus.SummaryVec, labels ...string) (uint64, float64) {
	t.Helper()
	metric, ok := v.WithLabelValues(labels...).(prometheus.Metric)
	if !ok {
		t.Fatalf("summary observer is not a prometheus.Metric")
	}
	m := &dto.Metric{}
	if err := metric.Write(m); err != nil {
		t.Fatalf("Summary.Write: %v", err)
	}
	return m.GetSummary().GetSampleCount(), m.GetSummary().GetSampleSum()
}

func TestNewBackend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		jobName     string
		gatewayURL  string
		wantErr     bool
		wantJobName string
	}{
		{name: "missing gateway URL", jobName: "x", wantErr: true},
		{name: "default job name", gatewayURL: "http://pushgateway:9091", wantJobName: "accidents"},
		{name: "explicit job name", jobName: "nightly", gatewayURL: "http://pushgateway:9091", wantJobName: "nightly"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b, err := NewBackend(tt.jobName, tt.gatewayURL)
			if tt.wantErr {
				if err == nil || b != nil {
					t.Fatalf("NewBackend = %v, %v; want nil, error", b, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewBackend: %v", err)
			}
			if b.jobName != tt.wantJobName || b.gatewayURL != tt.gatewayURL {
				t.Fatalf("backend = %q @ %q", b.jobName, b.gatewayURL)
			}
		})
	}
}

func TestIncCounter(t *testing.T) {
	t.Parallel()

	b, err := NewBackend("accidents", "http://example.com")
	if err != nil {
		t.Fatal(err)
	}

	b.IncCounter(metrics.StepTotal, 3, metrics.Labels{"step": "sanitize", "status": "success"})
	b.IncCounter(metrics.RowsTotal, 5, metrics.Labels{"kind": "processed"})
	b.IncCounter(metrics.BatchesTotal, 2, nil)
	b.IncCounter(metrics.BatchesTotal, 0.5, nil)
	b.IncCounter(metrics.LookupsTotal, 1, metrics.Labels{"service": "weatherbit", "result": "hit"})
	b.IncCounter("unknown_metric", 10, metrics.Labels{"foo": "bar"})

	if got := readCounterValue(t, b.stepCounter.WithLabelValues("sanitize", "success")); got != 3 {
		t.Errorf("step counter = %v, want 3", got)
	}
	if got := readCounterValue(t, b.rowCounter.WithLabelValues("processed")); got != 5 {
		t.Errorf("row counter = %v, want 5", got)
	}
	if got := readCounterValue(t, b.batchCounter); got != 2.5 {
		t.Errorf("batch counter = %v, want 2.5", got)
	}
	if got := readCounterValue(t, b.lookupCounter.WithLabelValues("weatherbit", "hit")); got != 1 {
		t.Errorf("lookup counter = %v, want 1", got)
	}
}

func TestZeroBackendIsSafe(t *testing.T) {
	t.Parallel()

	b := &Backend{}
	b.IncCounter(metrics.StepTotal, 1, metrics.Labels{"step": "s", "status": "success"})
	b.IncCounter(metrics.RowsTotal, 1, metrics.Labels{"kind": "read"})
	b.IncCounter(metrics.BatchesTotal, 1, nil)
	b.ObserveHistogram(metrics.StepDuration, 1, nil)
	b.ObserveHistogram(metrics.LookupDuration, 1, nil)
}

func TestObserveHistogram(t *testing.T) {
	t.Parallel()

	b, err := NewBackend("accidents", "http://example.com")
	if err != nil {
		t.Fatal(err)
	}
	b.ObserveHistogram(metrics.StepDuration, 1.5, metrics.Labels{"step": "row_sum", "status": "success"})
	b.ObserveHistogram(metrics.LookupDuration, 0.25, metrics.Labels{"service": "airlabs", "result": "error"})
	b.ObserveHistogram("other_metric", 2, metrics.Labels{"step": "row_sum", "status": "success"})

	if n, sum := readSummaryCountSum(t, b.stepDuration, "row_sum", "success"); n != 1 || sum != 1.5 {
		t.Errorf("step summary = %d/%v, want 1/1.5", n, sum)
	}
	if n, sum := readSummaryCountSum(t, b.lookupDuration, "airlabs", "error"); n != 1 || sum != 0.25 {
		t.Errorf("lookup summary = %d/%v, want 1/0.25", n, sum)
	}
}

func TestFlush(t *testing.T) {
	t.Parallel()

	type pushed struct {
		method, path, body string
	}
	reqCh := make(chan pushed, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		reqCh <- pushed{r.Method, r.URL.Path, string(body)}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	b, err := NewBackend("accidents-test", srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	b.IncCounter(metrics.StepTotal, 1, metrics.Labels{"step": "normalize_columns", "status": "success"})

	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	var got pushed
	select {
	case got = <-reqCh:
	default:
		t.Fatalf("Flush sent no request")
	}
	if got.method != http.MethodPut {
		t.Errorf("method = %s, want PUT", got.method)
	}
	if !strings.Contains(got.path, "accidents-test") {
		t.Errorf("path = %q, want job grouping", got.path)
	}
	if got.body == "" {
		t.Errorf("empty push body")
	}
}
