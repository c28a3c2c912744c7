// Package datasource loads the raw source tables the pipeline consumes.
//
// A TableSource fetches one table by physical name. Concrete sources live in
// subpackages: sqlds (MySQL, Postgres, SQLite, SQL Server), file (a
// directory of CSV exports) and httpds (CSV exports behind a base URL).
package datasource

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"orderetl/internal/metrics"
	"orderetl/internal/parser/csv"
	"orderetl/pkg/records"
)

// Source opens a byte stream, e.g. a local file or an HTTP download.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// TableSource loads whole tables by physical name.
type TableSource interface {
	LoadTable(ctx context.Context, name string) (records.Table, error)
	Close() error
}

// LoadAll fetches every table in names (logical -> physical) concurrently.
// The first failure cancels the remaining loads and is returned; a partial
// set of tables is never returned. Results are keyed by logical name.
func LoadAll(ctx context.Context, src TableSource, names map[string]string, job string, log *zap.Logger) (map[string]records.Table, error) {
	if log == nil {
		log = zap.NewNop()
	}
	start := time.Now()

	var mu sync.Mutex
	out := make(map[string]records.Table, len(names))

	g, ctx := errgroup.WithContext(ctx)
	for logical, physical := range names {
		logical, physical := logical, physical
		g.Go(func() error {
			tbl, err := src.LoadTable(ctx, physical)
			if err != nil {
				return fmt.Errorf("load %s (%s): %w", logical, physical, err)
			}
			log.Debug("table loaded", zap.String("table", logical), zap.String("source", physical), zap.Int("rows", tbl.Len()))
			metrics.RecordRows(job, "loaded", int64(tbl.Len()))

			mu.Lock()
			out[logical] = tbl
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()
	metrics.RecordStep(job, "load", err, time.Since(start))
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeCSV opens src and parses it as a CSV table named name. Skipped rows
// are logged by the parser.
func DecodeCSV(ctx context.Context, src Source, name string, opt csv.Options) (records.Table, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return records.Table{}, err
	}
	defer rc.Close()

	if opt.Logger != nil {
		opt.Logger = opt.Logger.With(zap.String("table", name))
	}
	tbl, skipped, err := csv.NewParser(opt).Parse(rc)
	if err != nil {
		return records.Table{}, fmt.Errorf("parse %s: %w", name, err)
	}
	tbl.Name = name
	if skipped > 0 && opt.Logger != nil {
		opt.Logger.Warn("csv rows skipped", zap.Int("skipped", skipped))
	}
	return tbl, nil
}
