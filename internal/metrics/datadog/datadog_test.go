package datadog

import (
	"reflect"
	"testing"

	"orderetl/internal/metrics"
)

type fakeStatsd struct {
	counts  []string
	hists   []float64
	tags    [][]string
	flushed bool
	closed  bool
}

func (f *fakeStatsd) Count(name string, value int64, tags []string, _ float64) error {
	f.counts = append(f.counts, name)
	f.tags = append(f.tags, tags)
	return nil
}

func (f *fakeStatsd) Histogram(name string, value float64, tags []string, _ float64) error {
	f.hists = append(f.hists, value)
	return nil
}

func (f *fakeStatsd) Flush() error { f.flushed = true; return nil }
func (f *fakeStatsd) Close() error { f.closed = true; return nil }

func TestNewBackend_RequiresAddr(t *testing.T) {
	t.Parallel()

	if _, err := NewBackend(Config{}); err == nil {
		t.Fatalf("expected error for empty Addr")
	}
}

/*
TestBackend_ForwardsWithSortedTags verifies counters and histograms reach the
client with deterministic tag order, and Flush both flushes and closes.
*/
func TestBackend_ForwardsWithSortedTags(t *testing.T) {
	t.Parallel()

	fc := &fakeStatsd{}
	b := &Backend{client: fc}

	b.IncCounter(metrics.StepTotal, 1, metrics.Labels{"step": "join", "job": "olist", "status": "success"})
	b.ObserveHistogram(metrics.StepDuration, 0.5, nil)

	if !reflect.DeepEqual(fc.counts, []string{metrics.StepTotal}) {
		t.Fatalf("counts=%v", fc.counts)
	}
	want := []string{"job:olist", "status:success", "step:join"}
	if !reflect.DeepEqual(fc.tags[0], want) {
		t.Fatalf("tags=%v want %v", fc.tags[0], want)
	}
	if !reflect.DeepEqual(fc.hists, []float64{0.5}) {
		t.Fatalf("hists=%v", fc.hists)
	}
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if !fc.flushed || !fc.closed {
		t.Fatalf("flushed=%v closed=%v", fc.flushed, fc.closed)
	}
}
