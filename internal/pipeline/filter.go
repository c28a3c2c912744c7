package pipeline

// View names.
const (
	ViewFull     = "full"
	ViewOrders   = "orders"
	ViewDelivery = "delivery"
)

// ViewNames lists the views every Result carries.
var ViewNames = []string{ViewFull, ViewOrders, ViewDelivery}

// Default delivery-duration bounds in days.
const (
	DefaultMinDays = 0
	DefaultMaxDays = 180
)

// IsDeliveryOutlier reports whether days falls outside [minDays, maxDays].
// A missing duration is never an outlier.
func IsDeliveryOutlier(days *int, minDays, maxDays int) bool {
	return days != nil && (*days < minDays || *days > maxDays)
}

// deliveryView keeps every row whose delivery duration is plausible. It is
// meant for delivery-time statistics only.
func deliveryView(full *Relation, minDays, maxDays int) *Relation {
	return full.Filter(ViewDelivery, func(r Row) bool {
		return !IsDeliveryOutlier(r.DaysToDelivery, minDays, maxDays)
	})
}

// ordersView keeps the first row of each order.
func ordersView(full *Relation) *Relation {
	seen := make(map[string]struct{}, full.Len())
	return full.Filter(ViewOrders, func(r Row) bool {
		if _, ok := seen[r.OrderID]; ok {
			return false
		}
		seen[r.OrderID] = struct{}{}
		return true
	})
}
