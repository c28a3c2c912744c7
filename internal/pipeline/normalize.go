package pipeline

import (
	"time"

	"orderetl/internal/schema"
	"orderetl/internal/transformer"
	"orderetl/internal/transformer/builtin"
	"orderetl/pkg/records"
)

// keyColumns are the join keys a raw row cannot be used without.
var keyColumns = map[string][]string{
	schema.TableOrders:    {"order_id"},
	schema.TableItems:     {"order_id"},
	schema.TableProducts:  {"product_id"},
	schema.TableCustomers: {"customer_id"},
	schema.TableSellers:   {"seller_id"},
	schema.TablePayments:  {"order_id"},
	schema.TableReviews:   {"order_id"},
}

// normalized holds the typed form of the seven source tables.
type normalized struct {
	orders    []schema.Order
	items     []schema.OrderItem
	products  []schema.Product
	customers []schema.Customer
	sellers   []schema.Seller
	payments  []schema.Payment
	reviews   []schema.Review

	dropped int // raw rows rejected for a missing key
}

// ValidateInputs checks that every logical table is present and reports every
// required column. A table with neither rows nor columns counts as an empty
// relation and is accepted.
func ValidateInputs(tables map[string]records.Table) error {
	contracts := schema.Contracts()
	for _, name := range schema.LogicalTables {
		tbl, ok := tables[name]
		if !ok {
			return &MissingInputError{Table: name}
		}
		if len(tbl.Rows) == 0 && len(tbl.Columns) == 0 {
			continue
		}
		for _, col := range contracts[name].RequiredColumns() {
			if !tbl.HasColumn(col) {
				return &MissingInputError{Table: name, Column: col}
			}
		}
	}
	return nil
}

// normalizeTables copies each raw table, runs the type normalizer over the
// copy and lifts the rows into typed entities. The input is left untouched.
func normalizeTables(tables map[string]records.Table) *normalized {
	contracts := schema.Contracts()
	out := &normalized{}

	rows := func(name string) []records.Record {
		raw := tables[name].CloneRows().Rows
		chain := transformer.Chain{
			builtin.Normalize{},
			builtin.Coerce{Types: contracts[name].Types()},
			builtin.Require{Fields: keyColumns[name]},
		}
		kept := chain.Apply(raw)
		out.dropped += len(tables[name].Rows) - len(kept)
		return kept
	}

	for _, r := range rows(schema.TableOrders) {
		out.orders = append(out.orders, schema.Order{
			OrderID:     r["order_id"].(string),
			CustomerID:  textField(r, "customer_id"),
			Status:      textField(r, "order_status"),
			PurchasedAt: dateField(r, "order_purchase_timestamp"),
			ApprovedAt:  dateField(r, "order_approved_at"),
			DeliveredAt: dateField(r, "order_delivered_customer_date"),
			EstimatedAt: dateField(r, "order_estimated_delivery_date"),
		})
	}
	for _, r := range rows(schema.TableItems) {
		out.items = append(out.items, schema.OrderItem{
			OrderID:     r["order_id"].(string),
			OrderItemID: intField(r, "order_item_id"),
			ProductID:   textField(r, "product_id"),
			SellerID:    textField(r, "seller_id"),
			Price:       r["price"].(float64),
			Freight:     r["freight_value"].(float64),
		})
	}
	for _, r := range rows(schema.TableProducts) {
		out.products = append(out.products, schema.Product{
			ProductID: r["product_id"].(string),
			Category:  textField(r, "product_category_name"),
			WeightG:   floatField(r, "product_weight_g"),
			LengthCM:  floatField(r, "product_length_cm"),
			HeightCM:  floatField(r, "product_height_cm"),
			WidthCM:   floatField(r, "product_width_cm"),
			Photos:    intField(r, "product_photos_qty"),
		})
	}
	for _, r := range rows(schema.TableCustomers) {
		out.customers = append(out.customers, schema.Customer{
			CustomerID: r["customer_id"].(string),
			ZipPrefix:  textField(r, "customer_zip_code_prefix"),
			City:       textField(r, "customer_city"),
			State:      textField(r, "customer_state"),
		})
	}
	for _, r := range rows(schema.TableSellers) {
		out.sellers = append(out.sellers, schema.Seller{
			SellerID: r["seller_id"].(string),
			State:    textField(r, "seller_state"),
		})
	}
	for _, r := range rows(schema.TablePayments) {
		out.payments = append(out.payments, schema.Payment{
			OrderID:      r["order_id"].(string),
			Type:         textField(r, "payment_type"),
			Installments: intField(r, "payment_installments"),
			Value:        floatField(r, "payment_value"),
		})
	}
	for _, r := range rows(schema.TableReviews) {
		out.reviews = append(out.reviews, schema.Review{
			OrderID: r["order_id"].(string),
			Score:   floatField(r, "review_score"),
			Comment: textField(r, "review_comment_message"),
		})
	}
	return out
}

func textField(r records.Record, k string) *string {
	if s, ok := r[k].(string); ok {
		return &s
	}
	return nil
}

func floatField(r records.Record, k string) *float64 {
	if f, ok := r[k].(float64); ok {
		return &f
	}
	return nil
}

func intField(r records.Record, k string) *int {
	if i, ok := r[k].(int); ok {
		return &i
	}
	return nil
}

func dateField(r records.Record, k string) *time.Time {
	if t, ok := r[k].(time.Time); ok {
		return &t
	}
	return nil
}
