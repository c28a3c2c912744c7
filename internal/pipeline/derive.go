package pipeline

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Labels produced by the metric deriver.
const (
	StatusOnTime = "On-time-or-early"
	StatusLate   = "Late"

	LocalityLocal      = "Local"
	LocalityInterstate = "Interstate"

	CustomerRepeat = "Repeat"
	CustomerNew    = "New"
)

// derive returns a copy of in with every derived column filled. Row-level
// columns are pure functions of the row; order_revenue, order_item_count and
// repeat_customer need one pass over the whole relation first.
func derive(in []Row) []Row {
	out := make([]Row, len(in))
	copy(out, in)

	title := cases.Title(language.BrazilianPortuguese)
	revenue := make(map[string]float64)
	itemCount := make(map[string]int)
	ordersByKey := make(map[string]map[string]struct{})

	for i := range out {
		r := &out[i]
		r.LineTotal = lineTotal(*r)
		r.DaysToDelivery = DaysBetween(r.ApprovedAt, r.DeliveredAt)
		r.OnTime, r.DeliveryStatus = onTime(r.DeliveredAt, r.EstimatedAt)
		r.PackageVolume = packageVolume(r.LengthCM, r.HeightCM, r.WidthCM)
		r.ShippingLocality = Locality(r.CustomerState, r.SellerState)
		r.CustomerProxyKey = ProxyKey(r.CustomerZip, r.CustomerCity)
		r.CategoryLabel = categoryLabel(title, r.Category)

		revenue[r.OrderID] += r.LineTotal
		if r.Price != nil {
			itemCount[r.OrderID]++
		}
		if k := r.CustomerProxyKey; k != nil {
			set, ok := ordersByKey[*k]
			if !ok {
				set = make(map[string]struct{})
				ordersByKey[*k] = set
			}
			set[r.OrderID] = struct{}{}
		}
	}

	for i := range out {
		r := &out[i]
		r.OrderRevenue = revenue[r.OrderID]
		r.OrderItemCount = itemCount[r.OrderID]
		r.RepeatCustomer = r.CustomerProxyKey != nil && len(ordersByKey[*r.CustomerProxyKey]) > 1
		r.CustomerType = CustomerNew
		if r.RepeatCustomer {
			r.CustomerType = CustomerRepeat
		}
	}
	return out
}

// lineTotal is price + freight; an order without items contributes zero.
func lineTotal(r Row) float64 {
	var t float64
	if r.Price != nil {
		t += *r.Price
	}
	if r.Freight != nil {
		t += *r.Freight
	}
	return t
}

// DaysBetween returns the whole days from start to end, rounded towards
// negative infinity, or nil if either endpoint is missing.
func DaysBetween(start, end *time.Time) *int {
	if start == nil || end == nil {
		return nil
	}
	const day = 24 * time.Hour
	d := end.Sub(*start)
	days := int(d / day)
	if d < 0 && d%day != 0 {
		days--
	}
	return &days
}

func onTime(delivered, estimated *time.Time) (*bool, *string) {
	if delivered == nil || estimated == nil {
		return nil, nil
	}
	ok := !delivered.After(*estimated)
	label := StatusLate
	if ok {
		label = StatusOnTime
	}
	return &ok, &label
}

func packageVolume(length, height, width *float64) *float64 {
	if length == nil || height == nil || width == nil {
		return nil
	}
	if *length <= 0 || *height <= 0 || *width <= 0 {
		return nil
	}
	v := *length * *height * *width
	return &v
}

// Locality is Local only when both states are known and equal.
func Locality(customerState, sellerState *string) string {
	if customerState != nil && sellerState != nil && *customerState == *sellerState {
		return LocalityLocal
	}
	return LocalityInterstate
}

// ProxyKey joins zip prefix and city into the repeat-customer identity, or
// returns nil when either part is missing.
func ProxyKey(zip, city *string) *string {
	if zip == nil || city == nil {
		return nil
	}
	k := *zip + "_" + *city
	return &k
}

func categoryLabel(title cases.Caser, category *string) *string {
	if category == nil {
		return nil
	}
	l := title.String(strings.ReplaceAll(*category, "_", " "))
	return &l
}
