package httpds

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

/*
TestTables_LoadTable serves two CSV exports and a 404, checking the URL
layout and that non-200 responses become errors.
*/
func TestTables_LoadTable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/dump/olist_sellers_dataset.csv":
			_, _ = w.Write([]byte("seller_id,seller_state\ns1,SP\ns2,RJ\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	tables := NewTables(NewClient(Config{}), srv.URL+"/dump/", 0, nil)
	defer tables.Close()

	tbl, err := tables.LoadTable(context.Background(), "olist_sellers_dataset")
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	if tbl.Len() != 2 || tbl.Rows[1]["seller_state"] != "RJ" {
		t.Fatalf("table=%+v", tbl)
	}

	_, err = tables.LoadTable(context.Background(), "missing")
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("err=%v want 404", err)
	}
}
