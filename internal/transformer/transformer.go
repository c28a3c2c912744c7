// Package transformer defines the batch transformation contract applied to raw
// source tables before they are lifted into typed relations.
package transformer

import "orderetl/pkg/records"

// Transformer rewrites a batch of records. Implementations may mutate the
// records in place and may return a shorter slice.
type Transformer interface{ Apply([]records.Record) []records.Record }

// Chain is an ordered list of transformers.
type Chain []Transformer

// Apply runs every transformer in order, feeding each the previous output.
func (c Chain) Apply(in []records.Record) []records.Record {
	out := in
	for _, t := range c {
		out = t.Apply(out)
	}
	return out
}
