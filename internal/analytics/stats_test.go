package analytics

import (
	"reflect"
	"testing"
)

func TestMeanMedianPct(t *testing.T) {
	t.Parallel()

	if Mean(nil) != nil || Median(nil) != nil || Pct(1, 0) != nil {
		t.Fatalf("empty inputs should give nil")
	}
	if m := *Mean([]float64{1, 2, 3, 6}); m != 3 {
		t.Errorf("mean=%v want 3", m)
	}
	xs := []float64{9, 1, 5}
	if m := *Median(xs); m != 5 {
		t.Errorf("odd median=%v want 5", m)
	}
	if !reflect.DeepEqual(xs, []float64{9, 1, 5}) {
		t.Errorf("Median reordered its input: %v", xs)
	}
	if m := *Median([]float64{4, 1, 3, 2}); m != 2.5 {
		t.Errorf("even median=%v want 2.5", m)
	}
	if p := *Pct(1, 4); p != 25 {
		t.Errorf("pct=%v want 25", p)
	}
}

/*
TestHistogram checks bin edges, that the maximum lands in the last bin and
the degenerate single-value case.
*/
func TestHistogram(t *testing.T) {
	t.Parallel()

	bins := Histogram([]float64{0, 1, 2, 3, 4, 10}, 5)
	if len(bins) != 5 {
		t.Fatalf("bins=%d want 5", len(bins))
	}
	counts := make([]int, len(bins))
	total := 0
	for i, b := range bins {
		counts[i] = b.Count
		total += b.Count
	}
	if !reflect.DeepEqual(counts, []int{2, 2, 1, 0, 1}) {
		t.Errorf("counts=%v", counts)
	}
	if total != 6 || bins[0].Lo != 0 || bins[4].Hi != 10 {
		t.Errorf("edges lo=%v hi=%v total=%d", bins[0].Lo, bins[4].Hi, total)
	}

	if one := Histogram([]float64{7, 7}, 30); len(one) != 1 || one[0].Count != 2 {
		t.Errorf("single value histogram=%v", one)
	}
	if Histogram(nil, 30) != nil {
		t.Errorf("empty histogram should be nil")
	}
}

func TestCounterOrdering(t *testing.T) {
	t.Parallel()

	c := Counter{}
	for _, k := range []string{"SP", "RJ", "SP", "MG", "SP", "RJ", "BA"} {
		c.Add(k)
	}
	want := []Count{{"SP", 3}, {"RJ", 2}, {"BA", 1}, {"MG", 1}}
	if got := c.Sorted(); !reflect.DeepEqual(got, want) {
		t.Fatalf("sorted=%v", got)
	}
	if got := c.Top(2); !reflect.DeepEqual(got, want[:2]) {
		t.Errorf("top=%v", got)
	}
	if got := c.Bottom(2); !reflect.DeepEqual(got, want[2:]) {
		t.Errorf("bottom=%v", got)
	}
	if got := c.Top(10); len(got) != 4 {
		t.Errorf("top beyond size=%v", got)
	}
}
