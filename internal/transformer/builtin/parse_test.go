package builtin

import (
	"math"
	"testing"
	"time"
)

/*
TestParseDate covers the accepted layouts. ISO text must never be read
day-first, and day-first text is only used as a fallback.
*/
func TestParseDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		want time.Time
		ok   bool
	}{
		{"iso datetime", "2018-03-04 10:20:30", time.Date(2018, 3, 4, 10, 20, 30, 0, time.UTC), true},
		{"iso T", "2018-03-04T10:20:30", time.Date(2018, 3, 4, 10, 20, 30, 0, time.UTC), true},
		{"iso date", "2018-03-04", time.Date(2018, 3, 4, 0, 0, 0, 0, time.UTC), true},
		{"day first", "04/03/2018 10:20", time.Date(2018, 3, 4, 10, 20, 0, 0, time.UTC), true},
		{"day first date", "4/3/2018", time.Date(2018, 3, 4, 0, 0, 0, 0, time.UTC), true},
		{"padded", "  2018-03-04  ", time.Date(2018, 3, 4, 0, 0, 0, 0, time.UTC), true},
		{"bytes", []byte("2018-03-04"), time.Date(2018, 3, 4, 0, 0, 0, 0, time.UTC), true},
		{"typed", time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"empty", "", time.Time{}, false},
		{"NaT", "NaT", time.Time{}, false},
		{"garbage", "not a date", time.Time{}, false},
		{"nil", nil, time.Time{}, false},
		{"zero time", time.Time{}, time.Time{}, false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseDate(tc.in)
			if ok != tc.ok || !got.Equal(tc.want) {
				t.Fatalf("ParseDate(%v) = %v,%v want %v,%v", tc.in, got, ok, tc.want, tc.ok)
			}
		})
	}
}

/*
TestParseNumber checks comma decimals, typed inputs and placeholders.
*/
func TestParseNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   any
		want float64
		ok   bool
	}{
		{"29,99", 29.99, true},
		{"29.99", 29.99, true},
		{" 10 ", 10, true},
		{int64(7), 7, true},
		{3.5, 3.5, true},
		{"abc", 0, false},
		{"", 0, false},
		{"nan", 0, false},
		{math.NaN(), 0, false},
		{math.Inf(1), 0, false},
		{nil, 0, false},
	}
	for _, tc := range tests {
		got, ok := ParseNumber(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseNumber(%#v) = %v,%v want %v,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestMoneyOrZero(t *testing.T) {
	t.Parallel()

	if got := MoneyOrZero("abc"); got != 0 {
		t.Fatalf("malformed money = %v want 0", got)
	}
	if got := MoneyOrZero(nil); got != 0 {
		t.Fatalf("nil money = %v want 0", got)
	}
	if got := MoneyOrZero("15,5"); got != 15.5 {
		t.Fatalf("money = %v want 15.5", got)
	}
}

func TestParseInt(t *testing.T) {
	t.Parallel()

	if v, ok := ParseInt("3"); !ok || v != 3 {
		t.Fatalf("ParseInt(3) = %v,%v", v, ok)
	}
	if v, ok := ParseInt("3.0"); !ok || v != 3 {
		t.Fatalf("ParseInt(3.0) = %v,%v", v, ok)
	}
	if _, ok := ParseInt("3.5"); ok {
		t.Fatalf("fractional accepted")
	}
}

func TestParseText(t *testing.T) {
	t.Parallel()

	if s, ok := ParseText(int64(1310)); !ok || s != "1310" {
		t.Fatalf("int64 = %q,%v", s, ok)
	}
	if s, ok := ParseText(" sao paulo "); !ok || s != "sao paulo" {
		t.Fatalf("text = %q,%v", s, ok)
	}
	if _, ok := ParseText("None"); ok {
		t.Fatalf("placeholder accepted")
	}
}
