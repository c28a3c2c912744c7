package analytics

import (
	"sort"
	"strconv"

	"orderetl/internal/pipeline"
)

// Logistics summarises delivery performance. It reads the delivery view.
type Logistics struct {
	Rows           int         `json:"rows"`
	MeanDays       *float64    `json:"mean_days"`
	MedianDays     *float64    `json:"median_days"`
	Histogram      []Bin       `json:"histogram"`
	OnTimePct      *float64    `json:"on_time_pct"`
	StatusCounts   []Count     `json:"status_counts"`
	LateByLocality []Count     `json:"late_by_locality"`
	FreightWeight  FreightStat `json:"freight_by_weight"`
	FreightVolume  FreightStat `json:"freight_by_volume"`
}

// FreightStat describes freight over rows with a positive measure (weight
// or volume) and positive freight.
type FreightStat struct {
	Rows        int      `json:"rows"`
	MeanMeasure *float64 `json:"mean_measure"`
	MeanFreight *float64 `json:"mean_freight"`
}

func buildLogistics(v *pipeline.Relation, bins int) Logistics {
	var days, weights, wFreight, volumes, vFreight []float64
	var onTime, withStatus int
	status, late := Counter{}, Counter{}
	v.Each(func(r pipeline.Row) bool {
		if r.DaysToDelivery != nil {
			days = append(days, float64(*r.DaysToDelivery))
		}
		if r.DeliveryStatus != nil {
			withStatus++
			status.Add(*r.DeliveryStatus)
			if *r.DeliveryStatus == pipeline.StatusOnTime {
				onTime++
			} else {
				late.Add(r.ShippingLocality)
			}
		}
		if r.Freight != nil && *r.Freight > 0 {
			if r.WeightG != nil && *r.WeightG > 0 {
				weights = append(weights, *r.WeightG)
				wFreight = append(wFreight, *r.Freight)
			}
			if r.PackageVolume != nil {
				volumes = append(volumes, *r.PackageVolume)
				vFreight = append(vFreight, *r.Freight)
			}
		}
		return true
	})

	return Logistics{
		Rows:           v.Len(),
		MeanDays:       Mean(days),
		MedianDays:     Median(days),
		Histogram:      Histogram(days, bins),
		OnTimePct:      Pct(onTime, withStatus),
		StatusCounts:   status.Sorted(),
		LateByLocality: late.Sorted(),
		FreightWeight:  FreightStat{Rows: len(weights), MeanMeasure: Mean(weights), MeanFreight: Mean(wFreight)},
		FreightVolume:  FreightStat{Rows: len(volumes), MeanMeasure: Mean(volumes), MeanFreight: Mean(vFreight)},
	}
}

// MonthSales aggregates item rows purchased in one calendar month.
type MonthSales struct {
	Month   string  `json:"month"` // YYYY-MM
	Items   int     `json:"items"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// Sales is the monthly revenue view. Revenue is Σ line_total; payment values
// are never added.
type Sales struct {
	Statuses      []string     `json:"statuses,omitempty"` // empty means every status
	Months        []MonthSales `json:"months"`
	TotalRevenue  float64      `json:"total_revenue"`
	PeakByItems   string       `json:"peak_by_items,omitempty"`
	PeakByRevenue string       `json:"peak_by_revenue,omitempty"`
}

func buildSales(v *pipeline.Relation, statuses []string) Sales {
	allow := make(map[string]struct{}, len(statuses))
	for _, s := range statuses {
		allow[s] = struct{}{}
	}

	byMonth := map[string]*MonthSales{}
	orders := map[string]map[string]struct{}{}
	var total float64
	v.Each(func(r pipeline.Row) bool {
		if r.PurchasedAt == nil {
			return true
		}
		if len(allow) > 0 {
			if r.OrderStatus == nil {
				return true
			}
			if _, ok := allow[*r.OrderStatus]; !ok {
				return true
			}
		}
		month := r.PurchasedAt.Format("2006-01")
		m, ok := byMonth[month]
		if !ok {
			m = &MonthSales{Month: month}
			byMonth[month] = m
			orders[month] = map[string]struct{}{}
		}
		m.Items++
		m.Revenue += r.LineTotal
		orders[month][r.OrderID] = struct{}{}
		total += r.LineTotal
		return true
	})

	out := Sales{Statuses: statuses, TotalRevenue: total}
	for month, m := range byMonth {
		m.Orders = len(orders[month])
		out.Months = append(out.Months, *m)
	}
	sort.Slice(out.Months, func(i, j int) bool { return out.Months[i].Month < out.Months[j].Month })

	// Months are sorted, so strict comparisons keep the earliest peak.
	var bestItems, bestRevenue *MonthSales
	for i := range out.Months {
		m := &out.Months[i]
		if bestItems == nil || m.Items > bestItems.Items {
			bestItems = m
		}
		if bestRevenue == nil || m.Revenue > bestRevenue.Revenue {
			bestRevenue = m
		}
	}
	if bestItems != nil {
		out.PeakByItems = bestItems.Month
		out.PeakByRevenue = bestRevenue.Month
	}
	return out
}

// Satisfaction summarises review scores per order. It reads the orders view.
type Satisfaction struct {
	Orders           int                           `json:"orders"`
	MeanScore        *float64                      `json:"mean_score"`
	CommentPct       *float64                      `json:"comment_pct"`
	Distribution     []Count                       `json:"distribution"`
	ByDeliveryStatus map[string]StatusSatisfaction `json:"by_delivery_status"`
}

// StatusSatisfaction is the score summary for one delivery status.
type StatusSatisfaction struct {
	MeanScore    *float64 `json:"mean_score"`
	Distribution []Count  `json:"distribution"`
}

func buildSatisfaction(v *pipeline.Relation) Satisfaction {
	var scores []float64
	var comments int
	dist := Counter{}
	perStatus := map[string][]float64{}
	perDist := map[string]Counter{}
	v.Each(func(r pipeline.Row) bool {
		if r.ReviewComment != nil {
			comments++
		}
		if r.ReviewScore == nil {
			return true
		}
		s := *r.ReviewScore
		scores = append(scores, s)
		dist.Add(scoreKey(s))
		if r.DeliveryStatus != nil {
			st := *r.DeliveryStatus
			perStatus[st] = append(perStatus[st], s)
			if perDist[st] == nil {
				perDist[st] = Counter{}
			}
			perDist[st].Add(scoreKey(s))
		}
		return true
	})

	out := Satisfaction{
		Orders:           v.Len(),
		MeanScore:        Mean(scores),
		CommentPct:       Pct(comments, v.Len()),
		Distribution:     byKey(dist),
		ByDeliveryStatus: make(map[string]StatusSatisfaction, len(perStatus)),
	}
	for st, xs := range perStatus {
		out.ByDeliveryStatus[st] = StatusSatisfaction{MeanScore: Mean(xs), Distribution: byKey(perDist[st])}
	}
	return out
}

func scoreKey(s float64) string { return strconv.FormatFloat(s, 'f', -1, 64) }

// byKey orders counts by key, for distributions over an ordinal scale.
func byKey(c Counter) []Count {
	out := c.Sorted()
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Products ranks categories by items sold. It reads the full view and skips
// rows without a category.
type Products struct {
	Top        []Count        `json:"top"`
	Bottom     []Count        `json:"bottom"`
	Categories []CategoryStat `json:"categories"`
	ByPhotos   []PhotoStat    `json:"by_photos"`
}

// CategoryStat is the per-category performance line.
type CategoryStat struct {
	Category  string   `json:"category"`
	Items     int      `json:"items"`
	MeanPrice *float64 `json:"mean_price"`
}

// PhotoStat groups items by listing photo count.
type PhotoStat struct {
	Photos    int      `json:"photos"`
	Items     int      `json:"items"`
	MeanPrice *float64 `json:"mean_price"`
}

func buildProducts(v *pipeline.Relation, topN, bottomN int) Products {
	items := Counter{}
	prices := map[string][]float64{}
	photoItems := map[int]int{}
	photoPrices := map[int][]float64{}

	v.Each(func(r pipeline.Row) bool {
		if r.CategoryLabel == nil {
			return true
		}
		c := *r.CategoryLabel
		items.Add(c)
		if r.Price != nil {
			prices[c] = append(prices[c], *r.Price)
		}
		if r.PhotosQty != nil && *r.PhotosQty > 0 {
			n := *r.PhotosQty
			photoItems[n]++
			if r.Price != nil {
				photoPrices[n] = append(photoPrices[n], *r.Price)
			}
		}
		return true
	})

	out := Products{Top: items.Top(topN), Bottom: items.Bottom(bottomN)}
	for _, c := range items.Sorted() {
		out.Categories = append(out.Categories, CategoryStat{Category: c.Key, Items: c.Count, MeanPrice: Mean(prices[c.Key])})
	}
	for n, cnt := range photoItems {
		out.ByPhotos = append(out.ByPhotos, PhotoStat{Photos: n, Items: cnt, MeanPrice: Mean(photoPrices[n])})
	}
	sort.Slice(out.ByPhotos, func(i, j int) bool { return out.ByPhotos[i].Photos < out.ByPhotos[j].Photos })
	return out
}

// Geography ranks states by item rows for buyers and sellers.
type Geography struct {
	CustomerStates []Count `json:"customer_states"`
	SellerStates   []Count `json:"seller_states"`
}

func buildGeography(v *pipeline.Relation, topN int) Geography {
	customers, sellers := Counter{}, Counter{}
	v.Each(func(r pipeline.Row) bool {
		if r.CustomerState != nil {
			customers.Add(*r.CustomerState)
		}
		if r.SellerState != nil {
			sellers.Add(*r.SellerState)
		}
		return true
	})
	return Geography{CustomerStates: customers.Top(topN), SellerStates: sellers.Top(topN)}
}

// Repeat profiles rows of repeat customers in the full view. Ticket, states
// and categories are item-level; score, installments, payment type and
// delivery status are counted once per order.
type Repeat struct {
	Customers        int      `json:"customers"`
	Orders           int      `json:"orders"`
	Rows             int      `json:"rows"`
	MeanTicket       *float64 `json:"mean_ticket"`
	MeanScore        *float64 `json:"mean_score"`
	MeanInstallments *float64 `json:"mean_installments"`
	OnTimePct        *float64 `json:"on_time_pct"`
	TopState         string   `json:"top_state,omitempty"`
	PaymentTypes     []Count  `json:"payment_types"`
	TopCategories    []Count  `json:"top_categories"`
	States           []Count  `json:"states"`
	Installments     []Count  `json:"installments"`
}

func buildRepeat(v *pipeline.Relation, topN int) Repeat {
	var tickets, scores, install []float64
	var onTime, withStatus, rows int
	keys := map[string]struct{}{}
	orders := map[string]struct{}{}
	states, payments, cats := Counter{}, Counter{}, Counter{}
	installDist := map[int]int{}
	v.Each(func(r pipeline.Row) bool {
		if !r.RepeatCustomer {
			return true
		}
		rows++
		keys[*r.CustomerProxyKey] = struct{}{}
		tickets = append(tickets, r.LineTotal)
		if r.CustomerState != nil {
			states.Add(*r.CustomerState)
		}
		if r.CategoryLabel != nil {
			cats.Add(*r.CategoryLabel)
		}

		if _, seen := orders[r.OrderID]; seen {
			return true
		}
		orders[r.OrderID] = struct{}{}
		if r.ReviewScore != nil {
			scores = append(scores, *r.ReviewScore)
		}
		if r.PaymentInstallments != nil {
			install = append(install, float64(*r.PaymentInstallments))
			installDist[*r.PaymentInstallments]++
		}
		if r.PaymentType != nil {
			payments.Add(*r.PaymentType)
		}
		if r.DeliveryStatus != nil {
			withStatus++
			if *r.DeliveryStatus == pipeline.StatusOnTime {
				onTime++
			}
		}
		return true
	})

	out := Repeat{
		Customers:        len(keys),
		Orders:           len(orders),
		Rows:             rows,
		MeanTicket:       Mean(tickets),
		MeanScore:        Mean(scores),
		MeanInstallments: Mean(install),
		OnTimePct:        Pct(onTime, withStatus),
		PaymentTypes:     payments.Sorted(),
		TopCategories:    cats.Top(5),
		States:           states.Top(topN),
	}
	if len(out.States) > 0 {
		out.TopState = out.States[0].Key
	}
	ns := make([]int, 0, len(installDist))
	for n := range installDist {
		ns = append(ns, n)
	}
	sort.Ints(ns)
	for _, n := range ns {
		out.Installments = append(out.Installments, Count{Key: strconv.Itoa(n), Count: installDist[n]})
	}
	return out
}
