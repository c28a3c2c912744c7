package schema

// Field kinds understood by the type normalizer.
const (
	KindText  = "text"
	KindInt   = "int"
	KindFloat = "float"
	KindDate  = "date"
	// KindMoney parses comma-decimal values and falls back to zero, for
	// columns that are summed.
	KindMoney = "money"
	// KindScore parses like KindMoney but stays missing on failure, for
	// columns that are averaged.
	KindScore = "score"
)

// Field describes one raw column of a source table.
type Field struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required,omitempty"`
}

// Contract describes the raw shape of one logical table.
type Contract struct {
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
}

// RequiredColumns returns the names of the columns the table must provide.
func (c Contract) RequiredColumns() []string {
	out := make([]string, 0, len(c.Fields))
	for _, f := range c.Fields {
		if f.Required {
			out = append(out, f.Name)
		}
	}
	return out
}

// Types returns field name -> kind for every field in the contract.
func (c Contract) Types() map[string]string {
	out := make(map[string]string, len(c.Fields))
	for _, f := range c.Fields {
		out[f.Name] = f.Type
	}
	return out
}

// Contracts returns the contract for every logical table.
func Contracts() map[string]Contract {
	return map[string]Contract{
		TableOrders: {Name: TableOrders, Fields: []Field{
			{Name: "order_id", Type: KindText, Required: true},
			{Name: "customer_id", Type: KindText, Required: true},
			{Name: "order_status", Type: KindText, Required: true},
			{Name: "order_purchase_timestamp", Type: KindDate, Required: true},
			{Name: "order_approved_at", Type: KindDate, Required: true},
			{Name: "order_delivered_customer_date", Type: KindDate, Required: true},
			{Name: "order_estimated_delivery_date", Type: KindDate, Required: true},
		}},
		TableItems: {Name: TableItems, Fields: []Field{
			{Name: "order_id", Type: KindText, Required: true},
			{Name: "order_item_id", Type: KindInt},
			{Name: "product_id", Type: KindText, Required: true},
			{Name: "seller_id", Type: KindText, Required: true},
			{Name: "price", Type: KindMoney, Required: true},
			{Name: "freight_value", Type: KindMoney, Required: true},
		}},
		TableProducts: {Name: TableProducts, Fields: []Field{
			{Name: "product_id", Type: KindText, Required: true},
			{Name: "product_category_name", Type: KindText, Required: true},
			{Name: "product_weight_g", Type: KindFloat, Required: true},
			{Name: "product_length_cm", Type: KindFloat, Required: true},
			{Name: "product_height_cm", Type: KindFloat, Required: true},
			{Name: "product_width_cm", Type: KindFloat, Required: true},
			{Name: "product_photos_qty", Type: KindInt, Required: true},
		}},
		TableCustomers: {Name: TableCustomers, Fields: []Field{
			{Name: "customer_id", Type: KindText, Required: true},
			{Name: "customer_zip_code_prefix", Type: KindText, Required: true},
			{Name: "customer_city", Type: KindText, Required: true},
			{Name: "customer_state", Type: KindText, Required: true},
		}},
		TableSellers: {Name: TableSellers, Fields: []Field{
			{Name: "seller_id", Type: KindText, Required: true},
			{Name: "seller_state", Type: KindText, Required: true},
		}},
		TablePayments: {Name: TablePayments, Fields: []Field{
			{Name: "order_id", Type: KindText, Required: true},
			{Name: "payment_type", Type: KindText, Required: true},
			{Name: "payment_installments", Type: KindInt, Required: true},
			{Name: "payment_value", Type: KindScore, Required: true},
		}},
		TableReviews: {Name: TableReviews, Fields: []Field{
			{Name: "order_id", Type: KindText, Required: true},
			{Name: "review_score", Type: KindScore, Required: true},
			{Name: "review_comment_message", Type: KindText},
		}},
	}
}
