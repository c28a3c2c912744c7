// Package schema holds the typed shapes of the seven source relations and the
// contracts describing which raw columns each one must provide.
package schema

import "time"

// Logical table names. Physical names are configurable and default to the
// public Olist dataset names (see DefaultTableNames).
const (
	TableOrders    = "orders"
	TableItems     = "order_items"
	TableProducts  = "products"
	TableCustomers = "customers"
	TableSellers   = "sellers"
	TablePayments  = "order_payments"
	TableReviews   = "order_reviews"
)

// LogicalTables lists every table the pipeline consumes, in load order.
var LogicalTables = []string{
	TableOrders,
	TableItems,
	TableProducts,
	TableCustomers,
	TableSellers,
	TablePayments,
	TableReviews,
}

// DefaultTableNames maps logical names to the physical table names used by the
// Olist dump.
func DefaultTableNames() map[string]string {
	return map[string]string{
		TableOrders:    "olist_orders_dataset",
		TableItems:     "olist_order_items_dataset",
		TableProducts:  "olist_products_dataset",
		TableCustomers: "olist_customers_dataset",
		TableSellers:   "olist_sellers_dataset",
		TablePayments:  "olist_order_payments_dataset",
		TableReviews:   "olist_order_reviews_dataset",
	}
}

type Order struct {
	OrderID     string     `json:"order_id"`
	CustomerID  *string    `json:"customer_id"`
	Status      *string    `json:"order_status"`
	PurchasedAt *time.Time `json:"order_purchase_timestamp"`
	ApprovedAt  *time.Time `json:"order_approved_at"`
	DeliveredAt *time.Time `json:"order_delivered_customer_date"`
	EstimatedAt *time.Time `json:"order_estimated_delivery_date"`
}

type OrderItem struct {
	OrderID     string  `json:"order_id"`
	OrderItemID *int    `json:"order_item_id"`
	ProductID   *string `json:"product_id"`
	SellerID    *string `json:"seller_id"`
	Price       float64 `json:"price"`         // zero when missing or malformed
	Freight     float64 `json:"freight_value"` // zero when missing or malformed
}

type Product struct {
	ProductID string   `json:"product_id"`
	Category  *string  `json:"product_category_name"`
	WeightG   *float64 `json:"product_weight_g"`
	LengthCM  *float64 `json:"product_length_cm"`
	HeightCM  *float64 `json:"product_height_cm"`
	WidthCM   *float64 `json:"product_width_cm"`
	Photos    *int     `json:"product_photos_qty"`
}

// Customer is one anonymized customer id. The same person may appear under
// several ids, one per order.
type Customer struct {
	CustomerID string  `json:"customer_id"`
	ZipPrefix  *string `json:"customer_zip_code_prefix"`
	City       *string `json:"customer_city"`
	State      *string `json:"customer_state"`
}

type Seller struct {
	SellerID string  `json:"seller_id"`
	State    *string `json:"seller_state"`
}

// Payment is one payment leg; an order may be split across several.
type Payment struct {
	OrderID      string   `json:"order_id"`
	Type         *string  `json:"payment_type"`
	Installments *int     `json:"payment_installments"`
	Value        *float64 `json:"payment_value"`
}

type Review struct {
	OrderID string   `json:"order_id"`
	Score   *float64 `json:"review_score"` // missing, never zero, when malformed
	Comment *string  `json:"review_comment_message"`
}
