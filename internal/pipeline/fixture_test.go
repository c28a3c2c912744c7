package pipeline

import (
	"orderetl/internal/schema"
	"orderetl/pkg/records"
)

// table builds a raw table from positional rows.
func table(name string, cols []string, rows ...[]any) records.Table {
	t := records.Table{Name: name, Columns: cols}
	for _, vals := range rows {
		r := make(records.Record, len(cols))
		for i, c := range cols {
			r[c] = vals[i]
		}
		t.Rows = append(t.Rows, r)
	}
	return t
}

var (
	orderCols    = []string{"order_id", "customer_id", "order_status", "order_purchase_timestamp", "order_approved_at", "order_delivered_customer_date", "order_estimated_delivery_date"}
	itemCols     = []string{"order_id", "order_item_id", "product_id", "seller_id", "price", "freight_value"}
	productCols  = []string{"product_id", "product_category_name", "product_weight_g", "product_length_cm", "product_height_cm", "product_width_cm", "product_photos_qty"}
	customerCols = []string{"customer_id", "customer_zip_code_prefix", "customer_city", "customer_state"}
	sellerCols   = []string{"seller_id", "seller_state"}
	paymentCols  = []string{"order_id", "payment_type", "payment_installments", "payment_value"}
	reviewCols   = []string{"order_id", "review_score", "review_comment_message"}
)

// fixture is a small dataset touching every join and derivation rule:
//
//	o1: two items, SP->SP, delivered on time after 4 days, split payment
//	o2: one item, RJ customer, SP seller, late, delivered before approval
//	o3: no items, not delivered
//	o4: one item, same proxy key as o1 (repeat), 200 days to deliver
//	o5: unknown customer, unknown product
func fixture() map[string]records.Table {
	return map[string]records.Table{
		schema.TableOrders: table(schema.TableOrders, orderCols,
			[]any{"o1", "c1", "delivered", "2024-01-01 08:00:00", "2024-01-01 10:00:00", "2024-01-05 10:00:00", "2024-01-10 00:00:00"},
			[]any{"o2", "c2", "delivered", "2024-02-01 08:00:00", "2024-02-03 12:00:00", "2024-02-03 00:00:00", "2024-02-02 00:00:00"},
			[]any{"o3", "c3", "canceled", "2024-03-01 08:00:00", "", "", "2024-03-20 00:00:00"},
			[]any{"o4", "c4", "delivered", "10/04/2024 09:00", "10/04/2024 09:00", "2024-10-27 09:00:00", "2024-05-01 00:00:00"},
			[]any{"o5", "c-missing", "shipped", "2024-05-01 08:00:00", "2024-05-01 09:00:00", "NaT", "2024-05-20 00:00:00"},
		),
		schema.TableItems: table(schema.TableItems, itemCols,
			[]any{"o1", "1", "p1", "s1", "10,50", "2,00"},
			[]any{"o1", "2", "p2", "s1", "20.00", "abc"},
			[]any{"o2", "1", "p1", "s1", "100", "15"},
			[]any{"o4", "1", "p2", "s2", "5", "1"},
			[]any{"o5", "1", "p-missing", "s-missing", "7", "3"},
		),
		schema.TableProducts: table(schema.TableProducts, productCols,
			[]any{"p1", "cama_mesa_banho", "500", "10", "20", "30", "2"},
			[]any{"p2", "informatica_acessorios", "0", "10", "", "30", "0"},
			[]any{"p1", "duplicate_should_be_ignored", "1", "1", "1", "1", "1"},
		),
		schema.TableCustomers: table(schema.TableCustomers, customerCols,
			[]any{"c1", "01310", "sao paulo", "SP"},
			[]any{"c2", "20000", "rio de janeiro", "RJ"},
			[]any{"c3", "30000", "belo horizonte", "MG"},
			[]any{"c4", "01310", "sao paulo", "SP"},
		),
		schema.TableSellers: table(schema.TableSellers, sellerCols,
			[]any{"s1", "SP"},
			[]any{"s2", "MG"},
		),
		schema.TablePayments: table(schema.TablePayments, paymentCols,
			[]any{"o1", "voucher", "1", "5,00"},
			[]any{"o1", "credit_card", "3", "27,50"},
			[]any{"o1", "boleto", "1", "27.5"},
			[]any{"o2", "boleto", "1", "115"},
		),
		schema.TableReviews: table(schema.TableReviews, reviewCols,
			[]any{"o1", "5", ""},
			[]any{"o1", "1", "second review ignored"},
			[]any{"o2", "abc", "chegou atrasado"},
		),
	}
}
