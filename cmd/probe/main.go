package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"orderetl/internal/config"
	"orderetl/internal/datasource/sources"
	"orderetl/internal/logging"
	"orderetl/internal/probe"
)

// main is the entrypoint for the source probing CLI. It loads the source
// section of a pipeline config, samples every raw table and reports missing
// columns and values that will not parse. The exit code is 1 when a table
// fails to load or lacks a required column.
func main() {
	var (
		flagConfig = flag.String(
			"config",
			"configs/pipelines/olist.json",
			"pipeline config JSON path; only the source section is used",
		)
		flagSample = flag.Int(
			"sample",
			10000,
			"rows per table to parse; 0 parses every row",
		)
		flagJSON = flag.Bool(
			"json",
			false,
			"print the report as JSON instead of a table",
		)
		flagTimeout = flag.Duration(
			"timeout",
			5*time.Minute,
			"overall time limit",
		)
		verbose = flag.Bool("v", false, "enable verbose logs")
	)
	flag.Parse()

	logger, err := logging.New(*verbose, "console")
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(2)
	}
	defer func() { _ = logger.Sync() }()

	p, err := config.Load(*flagConfig)
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), *flagTimeout)
	defer cancel()

	src, err := sources.Open(ctx, p.Source, logger)
	if err != nil {
		logger.Fatal("open source", zap.Error(err))
	}
	defer src.Close()

	rep, err := probe.Run(ctx, src, sources.TableNames(p.Source), probe.Options{
		SampleRows: *flagSample,
		Job:        p.Job,
		Logger:     logger,
	})
	if err != nil {
		logger.Fatal("probe", zap.Error(err))
	}

	if *flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		err = enc.Encode(rep)
	} else {
		err = probe.WriteText(os.Stdout, rep)
	}
	if err != nil {
		logger.Fatal("write report", zap.Error(err))
	}
	if !rep.OK() {
		os.Exit(1)
	}
}
