package analytics

import (
	"math"
	"sort"
)

// Mean returns the arithmetic mean, or nil for an empty input.
func Mean(xs []float64) *float64 {
	if len(xs) == 0 {
		return nil
	}
	var s float64
	for _, x := range xs {
		s += x
	}
	m := s / float64(len(xs))
	return &m
}

// Median returns the middle value (mean of the two middle values for even
// lengths), or nil for an empty input. xs is not reordered.
func Median(xs []float64) *float64 {
	if len(xs) == 0 {
		return nil
	}
	s := append([]float64(nil), xs...)
	sort.Float64s(s)
	mid := len(s) / 2
	m := s[mid]
	if len(s)%2 == 0 {
		m = (s[mid-1] + s[mid]) / 2
	}
	return &m
}

// Pct returns 100*part/total, or nil when total is zero.
func Pct(part, total int) *float64 {
	if total == 0 {
		return nil
	}
	p := 100 * float64(part) / float64(total)
	return &p
}

// Bin is one histogram bucket covering [Lo, Hi); the last bucket is closed.
type Bin struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Count int     `json:"count"`
}

// Histogram splits the range of xs into n equal-width bins.
func Histogram(xs []float64, n int) []Bin {
	if len(xs) == 0 || n <= 0 {
		return nil
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, x := range xs {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	if lo == hi {
		return []Bin{{Lo: lo, Hi: hi, Count: len(xs)}}
	}
	width := (hi - lo) / float64(n)
	bins := make([]Bin, n)
	for i := range bins {
		bins[i].Lo = lo + float64(i)*width
		bins[i].Hi = lo + float64(i+1)*width
	}
	bins[n-1].Hi = hi
	for _, x := range xs {
		i := int((x - lo) / width)
		if i >= n {
			i = n - 1
		}
		bins[i].Count++
	}
	return bins
}

// Count is a label with its occurrence count.
type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Counter tallies string keys.
type Counter map[string]int

func (c Counter) Add(k string) { c[k]++ }

// Sorted returns every key by count descending, then key ascending.
func (c Counter) Sorted() []Count {
	out := make([]Count, 0, len(c))
	for k, n := range c {
		out = append(out, Count{Key: k, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// Top returns the n most frequent keys.
func (c Counter) Top(n int) []Count {
	s := c.Sorted()
	if n >= 0 && len(s) > n {
		s = s[:n]
	}
	return s
}

// Bottom returns the n least frequent keys, least frequent last, matching
// the tail of Sorted.
func (c Counter) Bottom(n int) []Count {
	s := c.Sorted()
	if n >= 0 && len(s) > n {
		s = s[len(s)-n:]
	}
	return s
}
