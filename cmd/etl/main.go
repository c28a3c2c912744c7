package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"orderetl/internal/config"
	"orderetl/internal/logging"
	"orderetl/internal/metrics"
	"orderetl/internal/metrics/datadog"
	"orderetl/internal/metrics/prompush"
	"orderetl/internal/server"

	// register all backends with the storage factory.
	// config specifies which to use but we need to build in support for all of them.
	_ "orderetl/internal/storage/all"
)

// main is the entry point for the ETL binary. It loads the pipeline config,
// optionally initializes a metrics backend, and then either executes one run
// or serves the views over HTTP.
func main() {
	var (
		cfgPath           string
		metricsBackendFlg string
		pushGatewayURLFlg string
		datadogAddrFlg    string
		serveAddr         string
		outPath           string
		logFormat         string
		validate          bool
	)

	flag.StringVar(&cfgPath, "config", "configs/pipelines/olist.json", "pipeline config JSON path")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "", "metrics backend to use (pushgateway, datadog, none); env METRICS_BACKEND")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.StringVar(&datadogAddrFlg, "datadog-addr", "", "DogStatsD address (overrides env DD_AGENT_ADDR)")
	flag.StringVar(&serveAddr, "serve", "", "serve the views on this address instead of running once, e.g. :8080")
	flag.StringVar(&outPath, "out", "-", "report output path for single runs; - for stdout")
	flag.StringVar(&logFormat, "log-format", "console", "log format: console or json")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	logger, err := logging.New(*verbose, logFormat)
	if err != nil {
		fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	p, err := config.Load(cfgPath)
	if err != nil {
		fatalf("load config: %v", err)
	}

	// Validate pipeline config.
	issues := config.ValidatePipeline(p)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		logger.Error("configuration is invalid", zap.String("config", cfgPath))
		os.Exit(1)
	}

	// If validate flag is set, only validate the configuration and exit
	if validate {
		logger.Info("configuration is valid", zap.String("config", cfgPath))
		os.Exit(0)
	}

	flush := setupMetrics(metricsOptions{
		backend:     firstNonEmpty(metricsBackendFlg, os.Getenv("METRICS_BACKEND")),
		job:         p.Job,
		gatewayURL:  firstNonEmpty(pushGatewayURLFlg, os.Getenv("PUSHGATEWAY_URL"), "http://localhost:9091"),
		datadogAddr: firstNonEmpty(datadogAddrFlg, os.Getenv("DD_AGENT_ADDR"), "127.0.0.1:8125"),
	}, logger)
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := newRunner(p, logger)
	if serveAddr != "" {
		r.appendOnce = true
		srv := server.New(r.snapshot, p.Cache.TTL(), logger)
		if err := srv.Warm(ctx); err != nil {
			logger.Warn("initial run failed; serving anyway", zap.Error(err))
		}
		if err := srv.ListenAndServe(ctx, serveAddr); err != nil {
			logger.Error("server", zap.Error(err))
			exit(1, flush)
		}
		return
	}

	start := time.Now()
	snap, err := r.snapshot(ctx)
	if err != nil {
		logger.Error("run failed", zap.Error(err))
		exit(1, flush)
	}
	if err := writeReportFile(outPath, r.spec.Job, snap); err != nil {
		logger.Error("write report", zap.Error(err))
		exit(1, flush)
	}
	logger.Debug("completed", zap.Duration("took", time.Since(start).Truncate(time.Millisecond)))
}

type metricsOptions struct {
	backend     string
	job         string
	gatewayURL  string
	datadogAddr string
}

// setupMetrics installs the selected backend and returns its flush func.
// Init failures leave the nop backend in place.
func setupMetrics(o metricsOptions, log *zap.Logger) func() {
	nop := func() {}
	job := o.job
	if job == "" {
		job = "olist"
	}

	var (
		b   metrics.Backend
		err error
	)
	switch o.backend {
	case "pushgateway", "prometheus":
		b, err = prompush.NewBackend(job, o.gatewayURL)
	case "datadog":
		b, err = datadog.NewBackend(datadog.Config{
			Addr:       o.datadogAddr,
			Namespace:  "orderetl.",
			GlobalTags: []string{"job:" + job},
		})
	case "", "none":
		log.Debug("metrics: disabled", zap.String("backend", o.backend))
		return nop
	default:
		log.Warn("metrics: unknown backend; metrics disabled", zap.String("backend", o.backend))
		return nop
	}
	if err != nil {
		log.Warn("metrics: init failed; using nop", zap.String("backend", o.backend), zap.Error(err))
		return nop
	}

	log.Info("metrics", zap.String("backend", o.backend), zap.String("job", job))
	metrics.SetBackend(b)
	return func() {
		if err := metrics.Flush(); err != nil {
			log.Warn("metrics: flush error", zap.Error(err))
		}
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// exit flushes metrics before leaving; deferred calls do not run on os.Exit.
func exit(code int, flush func()) {
	flush()
	os.Exit(code)
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
