// Package pipeline turns the seven raw Olist tables into one consolidated,
// item-grained relation with derived business columns, and exposes it as
// three named views.
//
// Stages run in a fixed order, each producing a new value:
//
//	validate -> normalize -> join -> dedup -> derive -> views
//
// The input tables are never mutated.
package pipeline

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"orderetl/internal/metrics"
	"orderetl/pkg/records"
)

// Options configure a run.
type Options struct {
	// Job labels metrics and log lines.
	Job string
	// MinDays and MaxDays bound plausible delivery durations for the
	// delivery view. Use DefaultOptions for the standard 0..180 window.
	MinDays int
	MaxDays int
	// Logger receives one debug line per stage. Nil disables logging.
	Logger *zap.Logger
}

// DefaultOptions returns options with the standard outlier window.
func DefaultOptions() Options {
	return Options{Job: "olist", MinDays: DefaultMinDays, MaxDays: DefaultMaxDays}
}

// Stats summarises what each stage did.
type Stats struct {
	Orders            int `json:"orders"`
	Items             int `json:"items"`
	DroppedRaw        int `json:"dropped_raw"`
	Rows              int `json:"rows"`
	PaymentsCollapsed int `json:"payments_collapsed"`
	ReviewsCollapsed  int `json:"reviews_collapsed"`
	DeliveryOutliers  int `json:"delivery_outliers"`
}

// Result carries the three views of one run.
type Result struct {
	// Full is the consolidated relation, one row per (order, item).
	Full *Relation
	// Orders keeps the first row of each order, for order-level counts.
	Orders *Relation
	// Delivery drops implausible delivery durations. Use it for delivery
	// statistics only.
	Delivery *Relation

	Stats Stats
}

// View returns the relation registered under name.
func (r *Result) View(name string) (*Relation, bool) {
	switch name {
	case ViewFull:
		return r.Full, true
	case ViewOrders:
		return r.Orders, true
	case ViewDelivery:
		return r.Delivery, true
	}
	return nil, false
}

// Run executes the pipeline over tables keyed by logical table name (see
// schema.LogicalTables). It fails with a *MissingInputError when a table or a
// required column is absent; no other input problem is fatal.
func Run(tables map[string]records.Table, opts Options) (*Result, error) {
	if opts.MinDays > opts.MaxDays {
		return nil, fmt.Errorf("pipeline: min_days %d exceeds max_days %d", opts.MinDays, opts.MaxDays)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("job", opts.Job))

	step := func(name string, fn func() error) error {
		start := time.Now()
		err := fn()
		metrics.RecordStep(opts.Job, name, err, time.Since(start))
		log.Debug("pipeline step", zap.String("step", name), zap.Duration("took", time.Since(start)), zap.Error(err))
		return err
	}

	if err := step("validate", func() error { return ValidateInputs(tables) }); err != nil {
		return nil, err
	}

	var (
		n        *normalized
		rows     []Row
		payments int
		reviews  int
	)
	_ = step("normalize", func() error { n = normalizeTables(tables); return nil })
	_ = step("join", func() error { rows = join(n); return nil })
	_ = step("dedup", func() error { rows, payments, reviews = attachSides(rows, n.payments, n.reviews); return nil })
	_ = step("derive", func() error { rows = derive(rows); return nil })

	res := &Result{Full: newRelation(ViewFull, rows)}
	_ = step("views", func() error {
		res.Orders = ordersView(res.Full)
		res.Delivery = deliveryView(res.Full, opts.MinDays, opts.MaxDays)
		return nil
	})

	res.Stats = Stats{
		Orders:            len(n.orders),
		Items:             len(n.items),
		DroppedRaw:        n.dropped,
		Rows:              res.Full.Len(),
		PaymentsCollapsed: payments,
		ReviewsCollapsed:  reviews,
		DeliveryOutliers:  res.Full.Len() - res.Delivery.Len(),
	}

	metrics.RecordRows(opts.Job, "dropped", int64(n.dropped))
	metrics.RecordRows(opts.Job, "joined", int64(res.Stats.Rows))
	metrics.RecordRows(opts.Job, "payments_collapsed", int64(payments))
	metrics.RecordRows(opts.Job, "reviews_collapsed", int64(reviews))
	metrics.RecordRows(opts.Job, "outliers", int64(res.Stats.DeliveryOutliers))

	log.Info("pipeline finished",
		zap.Int("orders", res.Stats.Orders),
		zap.Int("rows", res.Stats.Rows),
		zap.Int("order_rows", res.Orders.Len()),
		zap.Int("delivery_rows", res.Delivery.Len()),
		zap.Int("dropped_raw", res.Stats.DroppedRaw),
	)
	return res, nil
}
