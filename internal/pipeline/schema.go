package pipeline

import (
	"time"

	"orderetl/internal/schema"
)

// Additional kinds used by derived columns.
const (
	KindBool = "bool"
)

// Column describes one column of the consolidated relation.
type Column struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Derived bool   `json:"derived,omitempty"`

	value func(*Row) any
}

// Schema is the ordered column list of every relation the pipeline returns.
// Source columns come first, derived ones after.
var Schema = []Column{
	{Name: "order_id", Kind: schema.KindText, value: func(r *Row) any { return r.OrderID }},
	{Name: "customer_id", Kind: schema.KindText, value: func(r *Row) any { return str(r.CustomerID) }},
	{Name: "order_status", Kind: schema.KindText, value: func(r *Row) any { return str(r.OrderStatus) }},
	{Name: "order_purchase_timestamp", Kind: schema.KindDate, value: func(r *Row) any { return ts(r.PurchasedAt) }},
	{Name: "order_approved_at", Kind: schema.KindDate, value: func(r *Row) any { return ts(r.ApprovedAt) }},
	{Name: "order_delivered_customer_date", Kind: schema.KindDate, value: func(r *Row) any { return ts(r.DeliveredAt) }},
	{Name: "order_estimated_delivery_date", Kind: schema.KindDate, value: func(r *Row) any { return ts(r.EstimatedAt) }},
	{Name: "customer_zip_code_prefix", Kind: schema.KindText, value: func(r *Row) any { return str(r.CustomerZip) }},
	{Name: "customer_city", Kind: schema.KindText, value: func(r *Row) any { return str(r.CustomerCity) }},
	{Name: "customer_state", Kind: schema.KindText, value: func(r *Row) any { return str(r.CustomerState) }},
	{Name: "order_item_id", Kind: schema.KindInt, value: func(r *Row) any { return num(r.OrderItemID) }},
	{Name: "product_id", Kind: schema.KindText, value: func(r *Row) any { return str(r.ProductID) }},
	{Name: "seller_id", Kind: schema.KindText, value: func(r *Row) any { return str(r.SellerID) }},
	{Name: "price", Kind: schema.KindMoney, value: func(r *Row) any { return flt(r.Price) }},
	{Name: "freight_value", Kind: schema.KindMoney, value: func(r *Row) any { return flt(r.Freight) }},
	{Name: "product_category_name", Kind: schema.KindText, value: func(r *Row) any { return str(r.Category) }},
	{Name: "product_weight_g", Kind: schema.KindFloat, value: func(r *Row) any { return flt(r.WeightG) }},
	{Name: "product_length_cm", Kind: schema.KindFloat, value: func(r *Row) any { return flt(r.LengthCM) }},
	{Name: "product_height_cm", Kind: schema.KindFloat, value: func(r *Row) any { return flt(r.HeightCM) }},
	{Name: "product_width_cm", Kind: schema.KindFloat, value: func(r *Row) any { return flt(r.WidthCM) }},
	{Name: "product_photos_qty", Kind: schema.KindInt, value: func(r *Row) any { return num(r.PhotosQty) }},
	{Name: "seller_state", Kind: schema.KindText, value: func(r *Row) any { return str(r.SellerState) }},
	{Name: "payment_type", Kind: schema.KindText, value: func(r *Row) any { return str(r.PaymentType) }},
	{Name: "payment_installments", Kind: schema.KindInt, value: func(r *Row) any { return num(r.PaymentInstallments) }},
	{Name: "payment_value", Kind: schema.KindScore, value: func(r *Row) any { return flt(r.PaymentValue) }},
	{Name: "review_score", Kind: schema.KindScore, value: func(r *Row) any { return flt(r.ReviewScore) }},
	{Name: "review_comment_message", Kind: schema.KindText, value: func(r *Row) any { return str(r.ReviewComment) }},

	{Name: "line_total", Kind: schema.KindMoney, Derived: true, value: func(r *Row) any { return r.LineTotal }},
	{Name: "order_revenue", Kind: schema.KindMoney, Derived: true, value: func(r *Row) any { return r.OrderRevenue }},
	{Name: "order_item_count", Kind: schema.KindInt, Derived: true, value: func(r *Row) any { return r.OrderItemCount }},
	{Name: "days_to_delivery", Kind: schema.KindInt, Derived: true, value: func(r *Row) any { return num(r.DaysToDelivery) }},
	{Name: "on_time", Kind: KindBool, Derived: true, value: func(r *Row) any {
		if r.OnTime == nil {
			return nil
		}
		return *r.OnTime
	}},
	{Name: "delivery_status", Kind: schema.KindText, Derived: true, value: func(r *Row) any { return str(r.DeliveryStatus) }},
	{Name: "package_volume_cm3", Kind: schema.KindFloat, Derived: true, value: func(r *Row) any { return flt(r.PackageVolume) }},
	{Name: "shipping_locality", Kind: schema.KindText, Derived: true, value: func(r *Row) any { return r.ShippingLocality }},
	{Name: "customer_proxy_key", Kind: schema.KindText, Derived: true, value: func(r *Row) any { return str(r.CustomerProxyKey) }},
	{Name: "repeat_customer", Kind: KindBool, Derived: true, value: func(r *Row) any { return r.RepeatCustomer }},
	{Name: "customer_type", Kind: schema.KindText, Derived: true, value: func(r *Row) any { return r.CustomerType }},
	{Name: "product_category_label", Kind: schema.KindText, Derived: true, value: func(r *Row) any { return str(r.CategoryLabel) }},
}

// ColumnNames returns the schema column names in order.
func ColumnNames() []string {
	out := make([]string, len(Schema))
	for i, c := range Schema {
		out[i] = c.Name
	}
	return out
}

func str(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func flt(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func num(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func ts(p *time.Time) any {
	if p == nil {
		return nil
	}
	return *p
}

// Value returns the column's value for r: nil when missing, otherwise a
// string, int, float64, bool or time.Time.
func (c Column) Value(r *Row) any { return c.value(r) }

// Values returns r's values in Schema order.
func Values(r *Row) []any {
	out := make([]any, len(Schema))
	for i, c := range Schema {
		out[i] = c.value(r)
	}
	return out
}
