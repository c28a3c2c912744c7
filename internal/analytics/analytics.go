// Package analytics computes the dashboard aggregates from the pipeline
// views. Each view reads exactly one relation and never modifies it.
package analytics

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"orderetl/internal/metrics"
	"orderetl/internal/pipeline"
)

// Options tune the aggregates.
type Options struct {
	TopN          int
	BottomN       int
	HistogramBins int
	// RevenueStatuses restricts the sales view to these order statuses.
	// Empty keeps every status, canceled orders included.
	RevenueStatuses []string
}

// DefaultOptions returns the dashboard defaults: top and bottom ten, 30 bins.
func DefaultOptions() Options {
	return Options{TopN: 10, BottomN: 10, HistogramBins: 30}
}

// Report holds every view of one run.
type Report struct {
	Logistics    Logistics    `json:"logistics"`
	Sales        Sales        `json:"sales"`
	Satisfaction Satisfaction `json:"satisfaction"`
	Products     Products     `json:"products"`
	Geography    Geography    `json:"geography"`
	Repeat       Repeat       `json:"repeat"`
}

// ViewNames lists the report sections addressable by name.
var ViewNames = []string{"logistics", "sales", "satisfaction", "products", "geography", "repeat"}

// Section returns the named report section.
func (r *Report) Section(name string) (any, bool) {
	switch name {
	case "logistics":
		return r.Logistics, true
	case "sales":
		return r.Sales, true
	case "satisfaction":
		return r.Satisfaction, true
	case "products":
		return r.Products, true
	case "geography":
		return r.Geography, true
	case "repeat":
		return r.Repeat, true
	}
	return nil, false
}

// Build computes every view concurrently. Each goroutine writes only its own
// Report field.
func Build(ctx context.Context, res *pipeline.Result, opts Options, job string, log *zap.Logger) (*Report, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if len(opts.RevenueStatuses) == 0 {
		log.Info("sales revenue includes every order status; set analytics.revenue_statuses to restrict it")
	} else {
		log.Info("sales revenue restricted by status", zap.Strings("statuses", opts.RevenueStatuses))
	}

	start := time.Now()
	rep := &Report{}
	g, ctx := errgroup.WithContext(ctx)
	spawn := func(fn func()) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn()
			return nil
		})
	}
	spawn(func() { rep.Logistics = buildLogistics(res.Delivery, opts.HistogramBins) })
	spawn(func() { rep.Sales = buildSales(res.Full, opts.RevenueStatuses) })
	spawn(func() { rep.Satisfaction = buildSatisfaction(res.Orders) })
	spawn(func() { rep.Products = buildProducts(res.Full, opts.TopN, opts.BottomN) })
	spawn(func() { rep.Geography = buildGeography(res.Full, opts.TopN) })
	spawn(func() { rep.Repeat = buildRepeat(res.Full, opts.TopN) })

	err := g.Wait()
	metrics.RecordStep(job, "analytics", err, time.Since(start))
	if err != nil {
		return nil, err
	}
	return rep, nil
}
