package builtin

import (
	"reflect"
	"testing"
	"time"

	"orderetl/pkg/records"
)

/*
TestNormalizeApply_TableDriven verifies the core normalization semantics:

  - NBSP folds to an ASCII space and text is trimmed.
  - Empty text and null placeholders become nil.
  - []byte values are decoded to string.
  - Non-text values are left alone.
*/
func TestNormalizeApply_TableDriven(t *testing.T) {
	t.Parallel()

	ts := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		in   records.Record
		want records.Record
	}{
		{
			name: "trim and nbsp",
			in:   records.Record{"city": " sao paulo \t"},
			want: records.Record{"city": "sao paulo"},
		},
		{
			name: "placeholders",
			in:   records.Record{"a": "", "b": "nan", "c": "NaT", "d": "  None "},
			want: records.Record{"a": nil, "b": nil, "c": nil, "d": nil},
		},
		{
			name: "bytes",
			in:   records.Record{"order_id": []byte(" o1 ")},
			want: records.Record{"order_id": "o1"},
		},
		{
			name: "non text untouched",
			in:   records.Record{"n": 3, "f": 1.5, "t": ts, "x": nil},
			want: records.Record{"n": 3, "f": 1.5, "t": ts, "x": nil},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			out := Normalize{}.Apply([]records.Record{tc.in})
			if len(out) != 1 || !reflect.DeepEqual(out[0], tc.want) {
				t.Fatalf("got %#v want %#v", out, tc.want)
			}
		})
	}
}
