package pipeline

import (
	"orderetl/internal/schema"
	"orderetl/internal/transformer/builtin"
	"orderetl/pkg/records"
)

// dominantPayments keeps one payment per order: the largest payment_value,
// missing values last, ties resolved by source order.
func dominantPayments(payments []schema.Payment) map[string]schema.Payment {
	recs := make([]records.Record, len(payments))
	for i, p := range payments {
		var v any
		if p.Value != nil {
			v = *p.Value
		}
		recs[i] = records.Record{"order_id": p.OrderID, "payment_value": v, "i": i}
	}
	kept := builtin.DeDup{Keys: []string{"order_id"}, Policy: builtin.PolicyMaxBy, OrderBy: "payment_value"}.Apply(recs)

	out := make(map[string]schema.Payment, len(kept))
	for _, r := range kept {
		p := payments[r["i"].(int)]
		out[p.OrderID] = p
	}
	return out
}

// firstReviews keeps the first review per order in source order. Empty
// comments were already turned into missing values by the normalizer.
func firstReviews(reviews []schema.Review) map[string]schema.Review {
	return firstBy(reviews, func(r schema.Review) string { return r.OrderID })
}

// attachSides merges the deduplicated payment and review relations into rows
// by order id and returns a new slice. An empty side relation is skipped and
// its columns stay missing. It returns how many side rows were collapsed.
func attachSides(in []Row, payments []schema.Payment, reviews []schema.Review) (out []Row, paymentsCollapsed, reviewsCollapsed int) {
	out = make([]Row, len(in))
	copy(out, in)

	if len(payments) > 0 {
		dom := dominantPayments(payments)
		paymentsCollapsed = len(payments) - len(dom)
		for i := range out {
			if p, ok := dom[out[i].OrderID]; ok {
				out[i].PaymentType = p.Type
				out[i].PaymentInstallments = p.Installments
				out[i].PaymentValue = p.Value
			}
		}
	}

	if len(reviews) > 0 {
		first := firstReviews(reviews)
		reviewsCollapsed = len(reviews) - len(first)
		for i := range out {
			if r, ok := first[out[i].OrderID]; ok {
				out[i].ReviewScore = r.Score
				out[i].ReviewComment = r.Comment
			}
		}
	}
	return out, paymentsCollapsed, reviewsCollapsed
}
