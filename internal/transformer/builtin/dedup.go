package builtin

import (
	"fmt"
	"strings"
	"time"

	"orderetl/pkg/records"
)

// Dedup policies.
const (
	PolicyKeepFirst = "keep-first"
	PolicyKeepLast  = "keep-last"
	PolicyMaxBy     = "max-by"
)

// DeDup collapses records sharing the same key to a single winner.
//
//   - keep-first: earliest occurrence wins (default)
//   - keep-last:  latest occurrence wins
//   - max-by:     record with the greatest OrderBy value wins; a missing
//     value loses to any present one and ties keep the earliest record
//
// Winners are emitted in the order their key first appeared. Records whose
// key field is absent or nil pass through untouched after the winners.
type DeDup struct {
	Keys    []string
	Policy  string
	OrderBy string
}

func (d DeDup) Apply(in []records.Record) []records.Record {
	if len(in) == 0 || len(d.Keys) == 0 {
		return in
	}
	policy := strings.ToLower(strings.TrimSpace(d.Policy))
	if policy == "" {
		policy = PolicyKeepFirst
	}

	slots := make(map[string]int, len(in)) // key -> index into winners
	winners := make([]records.Record, 0, len(in))
	var unkeyed []records.Record

	for _, r := range in {
		key, ok := d.keyOf(r)
		if !ok {
			unkeyed = append(unkeyed, r)
			continue
		}
		at, seen := slots[key]
		if !seen {
			slots[key] = len(winners)
			winners = append(winners, r)
			continue
		}
		switch policy {
		case PolicyKeepLast:
			winners[at] = r
		case PolicyMaxBy:
			if greater(r[d.OrderBy], winners[at][d.OrderBy]) {
				winners[at] = r
			}
		}
	}
	return append(winners, unkeyed...)
}

func (d DeDup) keyOf(r records.Record) (string, bool) {
	var b strings.Builder
	for i, k := range d.Keys {
		v := r[k]
		if v == nil {
			return "", false
		}
		if i > 0 {
			b.WriteByte('\x1f')
		}
		switch t := v.(type) {
		case string:
			b.WriteString(t)
		default:
			b.WriteString(fmt.Sprint(t))
		}
	}
	return b.String(), true
}

// greater reports whether a strictly outranks b. Missing values never win.
func greater(a, b any) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			return at.After(bt)
		}
	}
	af, aok := ParseNumber(a)
	bf, bok := ParseNumber(b)
	switch {
	case aok && bok:
		return af > bf
	case aok:
		return true
	}
	return false
}
