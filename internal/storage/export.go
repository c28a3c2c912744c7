package storage

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"orderetl/internal/metrics"
	"orderetl/internal/pipeline"
)

// ExportOptions controls Export.
type ExportOptions struct {
	Kind          string
	Table         string
	AutoCreate    bool
	Replace       bool
	BatchSize     int
	ChannelBuffer int
	Job           string
	Logger        *zap.Logger
}

// Export writes every row of rel to repo in schema column order. With
// AutoCreate the table is created first; with Replace it is emptied before
// the load.
func Export(ctx context.Context, repo Repository, rel *pipeline.Relation, opt ExportOptions) (int64, error) {
	log := opt.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if opt.BatchSize <= 0 {
		opt.BatchSize = 5000
	}
	if opt.ChannelBuffer <= 0 {
		opt.ChannelBuffer = opt.BatchSize
	}
	start := time.Now()

	if opt.AutoCreate {
		if err := EnsureTable(ctx, opt.Kind, repo, opt.Table); err != nil {
			return 0, err
		}
	}
	if opt.Replace {
		if err := Truncate(ctx, opt.Kind, repo, opt.Table); err != nil {
			return 0, err
		}
	}

	rows := make(chan []any, opt.ChannelBuffer)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(rows)
		var err error
		rel.Each(func(r pipeline.Row) bool {
			select {
			case rows <- pipeline.Values(&r):
				return true
			case <-gctx.Done():
				err = gctx.Err()
				return false
			}
		})
		return err
	})

	var total int64
	g.Go(func() error {
		n, err := LoadBatches(gctx, pipeline.ColumnNames(), rows, opt.BatchSize, repo.CopyFrom, opt.Job, log)
		total = n
		return err
	})

	err := g.Wait()
	metrics.RecordStep(opt.Job, "export", err, time.Since(start))
	if err != nil {
		return total, fmt.Errorf("export %s: %w", opt.Table, err)
	}
	metrics.RecordRows(opt.Job, "exported", total)
	log.Info("relation exported",
		zap.String("kind", opt.Kind),
		zap.String("table", opt.Table),
		zap.Int64("rows", total),
		zap.Duration("elapsed", time.Since(start)),
	)
	return total, nil
}
