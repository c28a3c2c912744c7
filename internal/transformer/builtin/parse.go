package builtin

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// isoLayouts are tried first. Any text failing all of them is retried with
// dayFirstLayouts, never the other way round: an ISO string read day-first
// can silently swap day and month when the day is <= 12.
var isoLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
	"2006-01-02",
}

var dayFirstLayouts = []string{
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2/1/2006",
	"2-1-2006",
}

// missingTokens are textual placeholders that mean "no value". They show up
// when dumps are produced by tools that stringify nulls.
var missingTokens = map[string]struct{}{
	"":     {},
	"nan":  {},
	"NaN":  {},
	"None": {},
	"NaT":  {},
	"null": {},
	"NULL": {},
	"<NA>": {},
}

// IsMissingToken reports whether s (already trimmed) is a null placeholder.
func IsMissingToken(s string) bool {
	_, ok := missingTokens[s]
	return ok
}

// textOf returns the trimmed textual form of v for string-like values.
func textOf(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), true
	case []byte:
		return strings.TrimSpace(string(t)), true
	}
	return "", false
}

// ParseDate returns the timestamp held in v. Typed values pass through; text
// is parsed ISO-first, then day-first. The second result is false for nil,
// zero times, placeholders and anything unparseable.
func ParseDate(v any) (time.Time, bool) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil || t.IsZero() {
			return time.Time{}, false
		}
		return *t, true
	}

	s, ok := textOf(v)
	if !ok || IsMissingToken(s) {
		return time.Time{}, false
	}
	for _, layout := range isoLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	for _, layout := range dayFirstLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// ParseNumber parses numeric values, accepting a comma as decimal separator.
// NaN and infinities count as missing.
func ParseNumber(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	default:
		s, ok := textOf(v)
		if !ok || IsMissingToken(s) {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// MoneyOrZero parses v like ParseNumber but yields zero when v is missing or
// malformed. Use it only for columns that are summed.
func MoneyOrZero(v any) float64 {
	f, _ := ParseNumber(v)
	return f
}

// ParseInt parses integral values. Fractional numbers are rejected so that a
// malformed count never silently rounds.
func ParseInt(v any) (int, bool) {
	f, ok := ParseNumber(v)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// ParseText returns the trimmed text of v, or false when it is empty or a
// placeholder. Numeric values are formatted without exponent so ids and zip
// prefixes read back the way they were written.
func ParseText(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case int64:
		return strconv.FormatInt(t, 10), true
	case int:
		return strconv.Itoa(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	}
	s, ok := textOf(v)
	if !ok || IsMissingToken(s) {
		return "", false
	}
	return s, true
}
