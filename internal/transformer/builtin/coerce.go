package builtin

import (
	"orderetl/internal/schema"
	"orderetl/pkg/records"
)

// Coerce converts raw values into the canonical Go type for each configured
// field kind (see schema.Kind*):
//
//	text  -> string   | nil
//	int   -> int      | nil
//	float -> float64  | nil
//	score -> float64  | nil
//	money -> float64  (0 when missing or malformed, even if the column is absent)
//	date  -> time.Time | nil
//
// Coerce never drops a record and never fails; unparseable values become the
// missing marker of their kind.
type Coerce struct {
	Types map[string]string // field -> kind
}

func (c Coerce) Apply(in []records.Record) []records.Record {
	if len(c.Types) == 0 {
		return in
	}
	for _, r := range in {
		for field, kind := range c.Types {
			v, present := r[field]
			if !present && kind != schema.KindMoney {
				continue
			}
			r[field] = coerceValue(kind, v)
		}
	}
	return in
}

func coerceValue(kind string, v any) any {
	switch kind {
	case schema.KindMoney:
		return MoneyOrZero(v)
	case schema.KindScore, schema.KindFloat:
		if f, ok := ParseNumber(v); ok {
			return f
		}
	case schema.KindInt:
		if i, ok := ParseInt(v); ok {
			return i
		}
	case schema.KindDate:
		if ts, ok := ParseDate(v); ok {
			return ts
		}
	default:
		if s, ok := ParseText(v); ok {
			return s
		}
	}
	return nil
}
