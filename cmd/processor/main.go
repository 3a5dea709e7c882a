package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"paystream/internal/config"
	"paystream/internal/ledger"
	"paystream/internal/logging"
	"paystream/internal/pipeline"
	"paystream/internal/report"
	"paystream/internal/repository/memory"
	"paystream/internal/source"
	"paystream/pkg/metrics"
)

const appName = "paystream"

func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	files := flag.Args()
	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "usage: %s [-debug] <transactions.csv> [more.csv ...]\n", appName)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(1)
	}

	level := cfg.LogLevel
	if *debug {
		level = "debug"
	}
	logger := logging.New(level)
	logger.Info("Starting application",
		slog.String("name", appName),
		slog.Int("input_sets", len(files)))

	collector := metrics.NewCollector(logger)
	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		metricsServer = collector.StartMetricsServer(cfg.MetricsAddr)
	}

	accounts := memory.NewAccountRepository()
	history := memory.NewHistoryRepository()
	engine := ledger.NewEngine(accounts, history, ledger.Options{
		LockedPolicy: cfg.LockedPolicy,
		Precision:    cfg.Precision,
	}, logger)
	pipe := pipeline.New(engine, cfg.RelayCapacity, collector, logger)

	ctx := context.Background()

	// Sets are applied strictly one after another: a later set may
	// reference transactions or disputes established by an earlier one.
	for _, path := range files {
		if err := runSet(ctx, pipe, path, cfg.MalformedPolicy, logger); err != nil {
			logger.Error("run failed", slog.String("error", err.Error()))
			shutdownMetrics(metricsServer, logger)
			os.Exit(1)
		}
	}

	if err := report.WriteCSV(os.Stdout, engine.Snapshots(), cfg.Precision); err != nil {
		logger.Error("writing report failed", slog.String("error", err.Error()))
		shutdownMetrics(metricsServer, logger)
		os.Exit(1)
	}

	shutdownMetrics(metricsServer, logger)
	logger.Info("Application shutdown complete")
}

func runSet(
	ctx context.Context,
	pipe *pipeline.Pipeline,
	path string,
	policy source.MalformedPolicy,
	logger *slog.Logger,
) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening record set: %w", err)
	}
	defer f.Close()

	return pipe.Run(ctx, source.NewCSVSource(path, f, policy, logger))
}

func shutdownMetrics(server *http.Server, logger *slog.Logger) {
	if server == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Metrics server shutdown failed", slog.String("error", err.Error()))
	}
}
