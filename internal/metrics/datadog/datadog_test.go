package datadog

import (
	"reflect"
	"testing"

	"github.com/valdasjurk/Airplane-accidents-analysis/internal/metrics"
)

type sent struct {
	kind  string
	name  string
	value float64
	tags  []string
}

type fakeClient struct {
	sent    []sent
	flushed bool
	closed  bool
}

func (f *fakeClient) Count(name string, value int64, tags []string, _ float64) error {
	f.sent = append(f.sent, sent{"count", name, float64(value), tags})
	return nil
}

func (f *fakeClient) Histogram(name string, value float64, tags []string, _ float64) error {
	f.sent = append(f.sent, sent{"histogram", name, value, tags})
	return nil
}

func (f *fakeClient) Flush() error { f.flushed = true; return nil }
func (f *fakeClient) Close() error { f.closed = true; return nil }

func TestNewBackend_RequiresAddr(t *testing.T) {
	t.Parallel()
	if _, err := NewBackend(Config{}); err == nil {
		t.Fatal("expected error for empty Addr")
	}
}

func TestBackend_ForwardsWithTags(t *testing.T) {
	t.Parallel()

	fc := &fakeClient{}
	b := &Backend{client: fc}

	b.IncCounter(metrics.RowsTotal, 3.9, metrics.Labels{"kind": "exported", "job": "export"})
	b.ObserveHistogram(metrics.StepDuration, 0.5, nil)
	if err := b.Flush(); err != nil {
		t.Fatal(err)
	}

	want := []sent{
		{"count", metrics.RowsTotal, 3, []string{"job:export", "kind:exported"}},
		{"histogram", metrics.StepDuration, 0.5, nil},
	}
	if !reflect.DeepEqual(fc.sent, want) {
		t.Fatalf("sent = %#v, want %#v", fc.sent, want)
	}
	if !fc.flushed || !fc.closed {
		t.Fatalf("flush=%v close=%v", fc.flushed, fc.closed)
	}
}

func TestBackend_NilClient(t *testing.T) {
	t.Parallel()

	b := &Backend{}
	b.IncCounter("x", 1, nil)
	b.ObserveHistogram("x", 1, nil)
	if err := b.Flush(); err != nil {
		t.Fatal(err)
	}
}
