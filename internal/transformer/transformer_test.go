package transformer

import (
	"reflect"
	"testing"

	"orderetl/pkg/records"
)

// setField writes key=val into every record in place.
type setField struct {
	key string
	val any
}

func (t setField) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		r[t.key] = t.val
	}
	return in
}

// dropMissing keeps records that carry a non-nil value for key.
type dropMissing struct{ key string }

func (t dropMissing) Apply(in []records.Record) []records.Record {
	out := in[:0]
	for _, r := range in {
		if r[t.key] != nil {
			out = append(out, r)
		}
	}
	return out
}

// countingTransformer counts how many times Apply is invoked.
type countingTransformer struct{ n *int }

func (t countingTransformer) Apply(in []records.Record) []records.Record {
	*t.n++
	return in
}

/*
TestChainApply_Order verifies that transformers run left to right, so a later
writer of the same key wins.
*/
func TestChainApply_Order(t *testing.T) {
	t.Parallel()

	in := []records.Record{{"order_id": "o1"}}
	got := Chain{
		setField{key: "order_status", val: "created"},
		setField{key: "order_status", val: "delivered"},
	}.Apply(in)

	want := []records.Record{{"order_id": "o1", "order_status": "delivered"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v want %#v", got, want)
	}
}

/*
TestChainApply_FilterThenMutate verifies that a filtering step shortens the
batch seen by the following step.
*/
func TestChainApply_FilterThenMutate(t *testing.T) {
	t.Parallel()

	in := []records.Record{
		{"order_id": "o1"},
		{"order_id": nil},
		{"order_id": "o3"},
	}
	got := Chain{
		dropMissing{key: "order_id"},
		setField{key: "seen", val: true},
	}.Apply(in)

	if len(got) != 2 {
		t.Fatalf("len=%d want 2", len(got))
	}
	for _, r := range got {
		if r["seen"] != true {
			t.Fatalf("record not mutated: %#v", r)
		}
	}
}

/*
TestChainApply_EmptyChain verifies that nil and empty chains return the input
unchanged, including a nil input.
*/
func TestChainApply_EmptyChain(t *testing.T) {
	t.Parallel()

	in := []records.Record{{"k": 1}}
	var nilChain Chain
	if got := nilChain.Apply(in); !reflect.DeepEqual(got, in) {
		t.Fatalf("nil chain changed input: %#v", got)
	}
	if got := (Chain{}).Apply(nil); got != nil {
		t.Fatalf("empty chain on nil input = %#v", got)
	}
}

/*
TestChainApply_CalledOnce verifies each transformer is applied exactly once
per Apply call.
*/
func TestChainApply_CalledOnce(t *testing.T) {
	t.Parallel()

	var a, b int
	c := Chain{countingTransformer{&a}, countingTransformer{&b}}
	c.Apply([]records.Record{{}})
	if a != 1 || b != 1 {
		t.Fatalf("calls a=%d b=%d want 1,1", a, b)
	}
}

func BenchmarkChain_SetField(b *testing.B) {
	batch := make([]records.Record, 1000)
	for i := range batch {
		batch[i] = records.Record{"order_id": i}
	}
	c := Chain{setField{key: "x", val: 1}, setField{key: "y", val: 2}}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Apply(batch)
	}
}
