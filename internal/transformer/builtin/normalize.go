package builtin

import (
	"strings"

	"orderetl/pkg/records"
)

const nbspace = "\u00a0"

// Normalize trims text values, folds no-break spaces, decodes []byte into
// string and turns empty text or null placeholders into nil. Non-text values
// are left alone. Records are changed in place.
type Normalize struct{}

func (Normalize) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		for k, v := range r {
			var s string
			switch t := v.(type) {
			case string:
				s = t
			case []byte:
				s = string(t)
			default:
				continue
			}
			s = strings.TrimSpace(strings.ReplaceAll(s, nbspace, " "))
			if IsMissingToken(s) {
				r[k] = nil
				continue
			}
			r[k] = s
		}
	}
	return in
}
