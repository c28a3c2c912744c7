package pipeline

import "orderetl/internal/schema"

// firstBy indexes items by key, keeping the first occurrence of a duplicated
// key so lookups stay many-to-one.
func firstBy[T any](items []T, key func(T) string) map[string]T {
	out := make(map[string]T, len(items))
	for _, it := range items {
		k := key(it)
		if _, seen := out[k]; !seen {
			out[k] = it
		}
	}
	return out
}

// join builds the flat relation: orders ⋈ customers ⋈ items ⋈ products ⋈
// sellers, all left outer. The item join is the fan-out point: an order with
// n items yields n rows, an order with none yields one row with empty item
// columns. Rows follow order source order, then item source order.
func join(n *normalized) []Row {
	customers := firstBy(n.customers, func(c schema.Customer) string { return c.CustomerID })
	products := firstBy(n.products, func(p schema.Product) string { return p.ProductID })
	sellers := firstBy(n.sellers, func(s schema.Seller) string { return s.SellerID })

	itemsByOrder := make(map[string][]schema.OrderItem, len(n.orders))
	for _, it := range n.items {
		itemsByOrder[it.OrderID] = append(itemsByOrder[it.OrderID], it)
	}

	rows := make([]Row, 0, len(n.items)+len(n.orders))
	for _, o := range n.orders {
		base := Row{
			OrderID:     o.OrderID,
			CustomerID:  o.CustomerID,
			OrderStatus: o.Status,
			PurchasedAt: o.PurchasedAt,
			ApprovedAt:  o.ApprovedAt,
			DeliveredAt: o.DeliveredAt,
			EstimatedAt: o.EstimatedAt,
		}
		if o.CustomerID != nil {
			if c, ok := customers[*o.CustomerID]; ok {
				base.CustomerZip = c.ZipPrefix
				base.CustomerCity = c.City
				base.CustomerState = c.State
			}
		}

		items := itemsByOrder[o.OrderID]
		if len(items) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, it := range items {
			row := base
			price, freight := it.Price, it.Freight
			row.OrderItemID = it.OrderItemID
			row.ProductID = it.ProductID
			row.SellerID = it.SellerID
			row.Price = &price
			row.Freight = &freight
			if it.ProductID != nil {
				if p, ok := products[*it.ProductID]; ok {
					row.Category = p.Category
					row.WeightG = p.WeightG
					row.LengthCM = p.LengthCM
					row.HeightCM = p.HeightCM
					row.WidthCM = p.WidthCM
					row.PhotosQty = p.Photos
				}
			}
			if it.SellerID != nil {
				if s, ok := sellers[*it.SellerID]; ok {
					row.SellerState = s.State
				}
			}
			rows = append(rows, row)
		}
	}
	return rows
}
