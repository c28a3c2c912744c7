package analytics

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"orderetl/internal/pipeline"
	"orderetl/internal/schema"
	"orderetl/pkg/records"
)

func tbl(cols []string, rows ...[]any) records.Table {
	t := records.Table{Columns: cols}
	for _, vals := range rows {
		r := records.Record{}
		for i, c := range cols {
			r[c] = vals[i]
		}
		t.Rows = append(t.Rows, r)
	}
	return t
}

// result runs the pipeline over a four-order dataset:
//
//	a1 Jan, two items, on time in 2 days, repeat customer (01310/sp)
//	a2 Jan, one item, late after 10 days, RJ buyer from SP seller
//	a3 Feb, canceled, never delivered
//	a4 Feb, one item, on time in 4 days, same proxy key as a1
func result(t *testing.T) *pipeline.Result {
	t.Helper()
	in := map[string]records.Table{
		schema.TableOrders: tbl([]string{"order_id", "customer_id", "order_status", "order_purchase_timestamp", "order_approved_at", "order_delivered_customer_date", "order_estimated_delivery_date"},
			[]any{"a1", "c1", "delivered", "2024-01-05 00:00:00", "2024-01-05 00:00:00", "2024-01-07 00:00:00", "2024-01-10 00:00:00"},
			[]any{"a2", "c2", "delivered", "2024-01-20 00:00:00", "2024-01-20 00:00:00", "2024-01-30 00:00:00", "2024-01-25 00:00:00"},
			[]any{"a3", "c3", "canceled", "2024-02-01 00:00:00", nil, nil, "2024-02-15 00:00:00"},
			[]any{"a4", "c4", "delivered", "2024-02-10 00:00:00", "2024-02-10 00:00:00", "2024-02-14 00:00:00", "2024-02-20 00:00:00"},
		),
		schema.TableItems: tbl([]string{"order_id", "order_item_id", "product_id", "seller_id", "price", "freight_value"},
			[]any{"a1", "1", "p1", "s1", "100", "10"},
			[]any{"a1", "2", "p2", "s1", "50", "5"},
			[]any{"a2", "1", "p1", "s1", "30", "0"},
			[]any{"a3", "1", "p2", "s1", "500", "0"},
			[]any{"a4", "1", "p1", "s2", "20", "2"},
		),
		schema.TableProducts: tbl([]string{"product_id", "product_category_name", "product_weight_g", "product_length_cm", "product_height_cm", "product_width_cm", "product_photos_qty"},
			[]any{"p1", "cama_mesa", "100", "1", "1", "1", "1"},
			[]any{"p2", "moveis", "0", "2", "2", "2", "0"},
		),
		schema.TableCustomers: tbl([]string{"customer_id", "customer_zip_code_prefix", "customer_city", "customer_state"},
			[]any{"c1", "01310", "sao paulo", "SP"},
			[]any{"c2", "20000", "rio de janeiro", "RJ"},
			[]any{"c3", "40000", "belo horizonte", "MG"},
			[]any{"c4", "01310", "sao paulo", "SP"},
		),
		schema.TableSellers: tbl([]string{"seller_id", "seller_state"},
			[]any{"s1", "SP"},
			[]any{"s2", "SP"},
		),
		schema.TablePayments: tbl([]string{"order_id", "payment_type", "payment_installments", "payment_value"},
			[]any{"a1", "credit_card", "3", "165"},
			[]any{"a2", "boleto", "1", "30"},
			[]any{"a4", "credit_card", "2", "22"},
		),
		schema.TableReviews: tbl([]string{"order_id", "review_score", "review_comment_message"},
			[]any{"a1", "5", "otimo"},
			[]any{"a2", "2", ""},
			[]any{"a4", "4", "bom"},
		),
	}
	res, err := pipeline.Run(in, pipeline.DefaultOptions())
	if err != nil {
		t.Fatalf("pipeline.Run: %v", err)
	}
	return res
}

func build(t *testing.T, opts Options) *Report {
	t.Helper()
	rep, err := Build(context.Background(), result(t), opts, "test", nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return rep
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestBuild_Logistics(t *testing.T) {
	t.Parallel()
	l := build(t, DefaultOptions()).Logistics

	if l.Rows != 5 {
		t.Errorf("rows=%d want 5", l.Rows)
	}
	if !near(*l.MeanDays, 4.5) || !near(*l.MedianDays, 3) {
		t.Errorf("mean=%v median=%v", *l.MeanDays, *l.MedianDays)
	}
	if !near(*l.OnTimePct, 75) {
		t.Errorf("on time pct=%v want 75", *l.OnTimePct)
	}
	if !reflect.DeepEqual(l.LateByLocality, []Count{{pipeline.LocalityInterstate, 1}}) {
		t.Errorf("late by locality=%v", l.LateByLocality)
	}
	if len(l.Histogram) != 30 {
		t.Errorf("histogram bins=%d want 30", len(l.Histogram))
	}
	if l.FreightWeight.Rows != 2 || !near(*l.FreightWeight.MeanFreight, 6) {
		t.Errorf("freight by weight=%+v", l.FreightWeight)
	}
	if l.FreightVolume.Rows != 3 {
		t.Errorf("freight by volume rows=%d want 3", l.FreightVolume.Rows)
	}
}

/*
TestBuild_SalesPolicy compares the default all-status revenue with a
delivered-only policy. Payment values never enter revenue.
*/
func TestBuild_SalesPolicy(t *testing.T) {
	t.Parallel()

	all := build(t, DefaultOptions()).Sales
	want := []MonthSales{
		{Month: "2024-01", Items: 3, Orders: 2, Revenue: 195},
		{Month: "2024-02", Items: 2, Orders: 2, Revenue: 522},
	}
	if !reflect.DeepEqual(all.Months, want) {
		t.Fatalf("months=%+v", all.Months)
	}
	if all.PeakByItems != "2024-01" || all.PeakByRevenue != "2024-02" || all.TotalRevenue != 717 {
		t.Errorf("peaks items=%s revenue=%s total=%v", all.PeakByItems, all.PeakByRevenue, all.TotalRevenue)
	}

	opts := DefaultOptions()
	opts.RevenueStatuses = []string{"delivered"}
	delivered := build(t, opts).Sales
	if delivered.PeakByRevenue != "2024-01" || delivered.TotalRevenue != 217 {
		t.Errorf("delivered-only peak=%s total=%v", delivered.PeakByRevenue, delivered.TotalRevenue)
	}
}

func TestBuild_Satisfaction(t *testing.T) {
	t.Parallel()
	s := build(t, DefaultOptions()).Satisfaction

	if s.Orders != 4 {
		t.Errorf("orders=%d want 4", s.Orders)
	}
	if !near(*s.MeanScore, 11.0/3) {
		t.Errorf("mean score=%v", *s.MeanScore)
	}
	if !near(*s.CommentPct, 50) {
		t.Errorf("comment pct=%v want 50", *s.CommentPct)
	}
	if !reflect.DeepEqual(s.Distribution, []Count{{"2", 1}, {"4", 1}, {"5", 1}}) {
		t.Errorf("distribution=%v", s.Distribution)
	}
	if m := s.ByDeliveryStatus[pipeline.StatusOnTime].MeanScore; m == nil || !near(*m, 4.5) {
		t.Errorf("on-time mean=%v", m)
	}
	if m := s.ByDeliveryStatus[pipeline.StatusLate].MeanScore; m == nil || !near(*m, 2) {
		t.Errorf("late mean=%v", m)
	}
}

func TestBuild_ProductsAndGeography(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.BottomN = 1
	rep := build(t, opts)

	p := rep.Products
	if !reflect.DeepEqual(p.Top, []Count{{"Cama Mesa", 3}, {"Moveis", 2}}) {
		t.Errorf("top=%v", p.Top)
	}
	if !reflect.DeepEqual(p.Bottom, []Count{{"Moveis", 2}}) {
		t.Errorf("bottom=%v", p.Bottom)
	}
	if len(p.ByPhotos) != 1 || p.ByPhotos[0].Photos != 1 || p.ByPhotos[0].Items != 3 || !near(*p.ByPhotos[0].MeanPrice, 50) {
		t.Errorf("by photos=%+v", p.ByPhotos)
	}

	g := rep.Geography
	if !reflect.DeepEqual(g.CustomerStates, []Count{{"SP", 3}, {"MG", 1}, {"RJ", 1}}) {
		t.Errorf("customer states=%v", g.CustomerStates)
	}
	if !reflect.DeepEqual(g.SellerStates, []Count{{"SP", 5}}) {
		t.Errorf("seller states=%v", g.SellerStates)
	}
}

/*
TestBuild_Repeat covers the repeat proxy key spanning a1 and a4. a1 has two
items sharing score 5, three installments and one credit card payment, so
order-level fields must weigh a1 once against a4 (score 4, two installments)
while ticket and states stay per item.
*/
func TestBuild_Repeat(t *testing.T) {
	t.Parallel()
	r := build(t, DefaultOptions()).Repeat

	if r.Customers != 1 || r.Orders != 2 || r.Rows != 3 {
		t.Fatalf("customers=%d orders=%d rows=%d want 1,2,3", r.Customers, r.Orders, r.Rows)
	}
	if !near(*r.MeanTicket, 187.0/3) {
		t.Errorf("ticket=%v want %v", *r.MeanTicket, 187.0/3)
	}
	if !near(*r.MeanScore, 4.5) || !near(*r.MeanInstallments, 2.5) {
		t.Errorf("score=%v installments=%v want 4.5,2.5", *r.MeanScore, *r.MeanInstallments)
	}
	if !near(*r.OnTimePct, 100) || r.TopState != "SP" {
		t.Errorf("on time=%v top state=%s", *r.OnTimePct, r.TopState)
	}
	if !reflect.DeepEqual(r.States, []Count{{"SP", 3}}) {
		t.Errorf("states=%v", r.States)
	}
	if !reflect.DeepEqual(r.Installments, []Count{{"2", 1}, {"3", 1}}) {
		t.Errorf("installments=%v", r.Installments)
	}
	if !reflect.DeepEqual(r.PaymentTypes, []Count{{"credit_card", 2}}) {
		t.Errorf("payment types=%v", r.PaymentTypes)
	}
}

/*
TestBuild_DoesNotMutateViews builds twice and compares fingerprints.
*/
func TestBuild_DoesNotMutateViews(t *testing.T) {
	t.Parallel()

	res := result(t)
	before := res.Full.Fingerprint()
	for i := 0; i < 2; i++ {
		if _, err := Build(context.Background(), res, DefaultOptions(), "test", nil); err != nil {
			t.Fatalf("Build: %v", err)
		}
	}
	if res.Full.Fingerprint() != before {
		t.Fatalf("full view changed")
	}
}

func TestBuild_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Build(ctx, result(t), DefaultOptions(), "test", nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v want context.Canceled", err)
	}
}

func TestReport_Section(t *testing.T) {
	t.Parallel()

	rep := build(t, DefaultOptions())
	for _, name := range ViewNames {
		if _, ok := rep.Section(name); !ok {
			t.Errorf("section %s missing", name)
		}
	}
	if _, ok := rep.Section("nope"); ok {
		t.Errorf("unknown section found")
	}
}
