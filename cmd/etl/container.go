// Package main wires the order consolidation pipeline end-to-end: load the
// seven raw tables, run the typed stages, build the analytical report and
// hand the result to the optional sink, notifier and HTTP server. This file
// keeps the CLI layer thin: it depends only on storage-agnostic interfaces
// and never imports database drivers or backend-specific packages directly.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"orderetl/internal/analytics"
	"orderetl/internal/config"
	"orderetl/internal/datasource"
	"orderetl/internal/datasource/sources"
	"orderetl/internal/logging"
	"orderetl/internal/notify"
	"orderetl/internal/pipeline"
	"orderetl/internal/server"
	"orderetl/internal/storage"
)

// runtimeConfig contains the resolved batching configuration for the export.
// Values come from the pipeline file with optional environment overrides.
type runtimeConfig struct {
	batchSize  int
	bufferSize int
}

// Function variables used to introduce test seams.
// In production these point to real implementations; tests can override them.
var (
	newRepositoryFn = storage.New

	openTableSourceFn = sources.Open

	newNotifierFn = notify.New

	newRunID = uuid.NewString

	now = time.Now
)

// runner executes pipeline runs for one config.
type runner struct {
	spec config.Pipeline
	log  *zap.Logger

	// appendOnce limits non-replacing exports to the first successful run.
	// Set when snapshots are reloaded by the server.
	appendOnce bool

	mu       sync.Mutex
	exported bool
}

func newRunner(spec config.Pipeline, log *zap.Logger) *runner {
	if log == nil {
		log = zap.NewNop()
	}
	if spec.Job == "" {
		spec.Job = "olist"
	}
	return &runner{spec: spec, log: log.With(zap.String("job", spec.Job))}
}

// snapshot performs one full run: load, transform, analyse, export and
// notify. Export failures fail the run; notification failures are logged.
func (r *runner) snapshot(ctx context.Context) (*server.Snapshot, error) {
	started := now()
	runID := newRunID()
	log := r.log.With(zap.String("run_id", runID))

	src, err := openTableSourceFn(ctx, r.spec.Source, log)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			log.Warn("close source", zap.Error(cerr))
		}
	}()

	tables, err := datasource.LoadAll(ctx, src, sources.TableNames(r.spec.Source), r.spec.Job, log)
	if err != nil {
		return nil, err
	}

	res, err := pipeline.Run(tables, pipelineOptions(r.spec, log))
	if err != nil {
		return nil, err
	}

	rep, err := analytics.Build(ctx, res, analyticsOptions(r.spec), r.spec.Job, log)
	if err != nil {
		return nil, fmt.Errorf("analytics: %w", err)
	}

	if err := r.export(ctx, res.Full, log); err != nil {
		return nil, err
	}

	took := now().Sub(started)
	r.notify(ctx, notify.NewSummary(runID, r.spec.Job, started, took, res), log)

	log.Info("run complete",
		zap.Int("orders", res.Stats.Orders),
		zap.Int("rows", res.Stats.Rows),
		zap.Int("delivery_outliers", res.Stats.DeliveryOutliers),
		zap.Duration("took", took.Truncate(time.Millisecond)),
	)
	return &server.Snapshot{RunID: runID, GeneratedAt: started, Result: res, Report: rep}, nil
}

// export writes rel to the configured sink. An empty storage kind is a no-op,
// as is a repeat append when appendOnce is set.
func (r *runner) export(ctx context.Context, rel *pipeline.Relation, log *zap.Logger) error {
	st := r.spec.Storage
	if strings.TrimSpace(st.Kind) == "" {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.appendOnce && !st.DB.Replace && r.exported {
		log.Info("export skipped; rows already appended by this process", zap.String("table", st.DB.Table))
		return nil
	}
	log.Info("export",
		zap.String("kind", st.Kind),
		zap.String("dsn", logging.MaskDSN(st.DB.DSN)),
		zap.String("table", st.DB.Table),
	)

	repo, err := newRepositoryFn(ctx, storage.Config{
		Kind:    st.Kind,
		DSN:     st.DB.DSN,
		Table:   st.DB.Table,
		Columns: pipeline.ColumnNames(),
	})
	if err != nil {
		return fmt.Errorf("init repo: %w", err)
	}
	defer repo.Close()

	rc := newRuntimeConfig(r.spec)
	_, err = storage.Export(ctx, repo, rel, storage.ExportOptions{
		Kind:          st.Kind,
		Table:         st.DB.Table,
		AutoCreate:    st.DB.AutoCreateTable,
		Replace:       st.DB.Replace,
		BatchSize:     rc.batchSize,
		ChannelBuffer: rc.bufferSize,
		Job:           r.spec.Job,
		Logger:        log,
	})
	if err != nil {
		return err
	}
	r.exported = true
	return nil
}

func (r *runner) notify(ctx context.Context, s notify.Summary, log *zap.Logger) {
	n := r.spec.Notify
	if n.Kind == "" || n.Kind == "none" {
		return
	}
	nt, err := newNotifierFn(n.Kind, n.URL, n.Queue, log)
	if err != nil {
		log.Warn("notify: init", zap.String("url", logging.MaskDSN(n.URL)), zap.Error(err))
		return
	}
	defer nt.Close()
	if err := nt.Notify(ctx, s); err != nil {
		log.Warn("notify: publish", zap.Error(err))
	}
}

func pipelineOptions(spec config.Pipeline, log *zap.Logger) pipeline.Options {
	opts := pipeline.DefaultOptions()
	opts.Job = spec.Job
	opts.Logger = log
	o := spec.TransformOptions("outlier")
	opts.MinDays = o.Int("min_days", opts.MinDays)
	opts.MaxDays = o.Int("max_days", opts.MaxDays)
	return opts
}

func analyticsOptions(spec config.Pipeline) analytics.Options {
	opts := analytics.DefaultOptions()
	a := spec.Analytics
	opts.TopN = a.Int("top_n", opts.TopN)
	opts.BottomN = a.Int("bottom_n", opts.BottomN)
	opts.HistogramBins = a.Int("histogram_bins", opts.HistogramBins)
	opts.RevenueStatuses = a.StringSlice("revenue_statuses")
	return opts
}

func newRuntimeConfig(spec config.Pipeline) runtimeConfig {
	return runtimeConfig{
		batchSize:  pickInt(spec.Runtime.BatchSize, getenvInt("ETL_BATCH_SIZE", 5000)),
		bufferSize: pickInt(spec.Runtime.ChannelBuffer, getenvInt("ETL_CH_BUFFER", 4096)),
	}
}

// reportDocument is the JSON written by -out.
type reportDocument struct {
	RunID        string            `json:"run_id"`
	Job          string            `json:"job"`
	GeneratedAt  time.Time         `json:"generated_at"`
	Stats        pipeline.Stats    `json:"stats"`
	Fingerprints map[string]string `json:"fingerprints"`
	Report       *analytics.Report `json:"report"`
}

// writeReport encodes snap as indented JSON.
func writeReport(w io.Writer, job string, snap *server.Snapshot) error {
	doc := reportDocument{
		RunID:        snap.RunID,
		Job:          job,
		GeneratedAt:  snap.GeneratedAt.UTC(),
		Stats:        snap.Result.Stats,
		Fingerprints: map[string]string{},
		Report:       snap.Report,
	}
	for _, name := range []string{pipeline.ViewFull, pipeline.ViewOrders, pipeline.ViewDelivery} {
		if rel, ok := snap.Result.View(name); ok && rel != nil {
			doc.Fingerprints[name] = fmt.Sprintf("%016x", rel.Fingerprint())
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// writeReportFile writes to path, or stdout when path is "-".
func writeReportFile(path, job string, snap *server.Snapshot) error {
	if path == "-" {
		return writeReport(os.Stdout, job, snap)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := writeReport(f, job, snap); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ----------------------------------------------------------------------------

// getenvInt reads an int from environment, returning def when unset/invalid.
func getenvInt(k string, def int) int {
	if s := os.Getenv(k); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return def
}

// pickInt chooses the first positive value 'a', otherwise returns 'b'.
func pickInt(a, b int) int {
	if a > 0 {
		return a
	}
	return b
}
