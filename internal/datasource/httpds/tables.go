package httpds

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"orderetl/internal/datasource"
	"orderetl/internal/parser/csv"
	"orderetl/pkg/records"
)

// Tables loads table <name> from <baseURL>/<name>.csv.
type Tables struct {
	client  *Client
	baseURL string
	opt     csv.Options
}

// NewTables returns a table source rooted at baseURL.
func NewTables(client *Client, baseURL string, comma rune, log *zap.Logger) *Tables {
	return &Tables{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		opt:     csv.Options{Comma: comma, TrimSpace: true, Logger: log},
	}
}

func (t *Tables) LoadTable(ctx context.Context, name string) (records.Table, error) {
	src := &download{client: t.client, url: t.baseURL + "/" + url.PathEscape(name) + ".csv"}
	return datasource.DecodeCSV(ctx, src, name, t.opt)
}

func (t *Tables) Close() error { return nil }

// download is a datasource.Source over one URL.
type download struct {
	client *Client
	url    string
}

func (d *download) Open(ctx context.Context) (io.ReadCloser, error) {
	resp, err := d.client.Get(ctx, d.url, http.Header{"Accept": {"text/csv"}})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("httpds: GET %s: %s", d.url, resp.Status)
	}
	return resp.Body, nil
}
