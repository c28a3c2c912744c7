package builtin

import (
	"reflect"
	"testing"

	"orderetl/pkg/records"
)

func pay(id string, value any, kind string) records.Record {
	return records.Record{"order_id": id, "payment_value": value, "payment_type": kind}
}

/*
TestDeDup_Policies exercises each policy on the same duplicate-bearing batch.
Winners keep first-appearance order and unkeyed rows trail.
*/
func TestDeDup_Policies(t *testing.T) {
	t.Parallel()

	batch := func() []records.Record {
		return []records.Record{
			pay("o1", 10.0, "boleto"),
			pay("o2", 5.0, "credit_card"),
			pay("o1", 30.0, "voucher"),
			pay("o1", nil, "debit_card"),
			{"order_id": nil, "payment_type": "orphan"},
		}
	}

	tests := []struct {
		name string
		d    DeDup
		want []string // payment_type per output row
	}{
		{"default keep-first", DeDup{Keys: []string{"order_id"}}, []string{"boleto", "credit_card", "orphan"}},
		{"keep-last", DeDup{Keys: []string{"order_id"}, Policy: PolicyKeepLast}, []string{"debit_card", "credit_card", "orphan"}},
		{"max-by", DeDup{Keys: []string{"order_id"}, Policy: PolicyMaxBy, OrderBy: "payment_value"}, []string{"voucher", "credit_card", "orphan"}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			out := tc.d.Apply(batch())
			got := make([]string, 0, len(out))
			for _, r := range out {
				got = append(got, r["payment_type"].(string))
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}
}

/*
TestDeDup_MaxByTiesAndMissing verifies ties keep the earliest record and that
a present value beats a missing one regardless of position.
*/
func TestDeDup_MaxByTiesAndMissing(t *testing.T) {
	t.Parallel()

	d := DeDup{Keys: []string{"order_id"}, Policy: PolicyMaxBy, OrderBy: "payment_value"}

	out := d.Apply([]records.Record{pay("o1", 10.0, "a"), pay("o1", 10.0, "b")})
	if len(out) != 1 || out[0]["payment_type"] != "a" {
		t.Fatalf("tie: %#v", out)
	}

	out = d.Apply([]records.Record{pay("o1", nil, "a"), pay("o1", 0.0, "b")})
	if len(out) != 1 || out[0]["payment_type"] != "b" {
		t.Fatalf("missing vs present: %#v", out)
	}
}

func TestDeDup_NoKeys(t *testing.T) {
	t.Parallel()

	in := []records.Record{pay("o1", 1.0, "a"), pay("o1", 2.0, "b")}
	if out := (DeDup{}).Apply(in); len(out) != 2 {
		t.Fatalf("no keys should pass through, got %d", len(out))
	}
}
