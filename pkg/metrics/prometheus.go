package metrics

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector wraps the process-local Prometheus registry. A nil *Collector is
// valid and records nothing, so callers never need to branch on whether
// metrics are enabled.
type Collector struct {
	registry         *prometheus.Registry
	recordsProcessed *prometheus.CounterVec
	runDuration      prometheus.Histogram
	accountsTracked  prometheus.Gauge
	logger           *slog.Logger
}

func NewCollector(logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}

	registry := prometheus.NewRegistry()

	return &Collector{
		registry: registry,
		recordsProcessed: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "records_processed_total",
			Help: "Total number of processed records by apply outcome",
		}, []string{"outcome"}),
		runDuration: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name:    "record_set_duration_seconds",
			Help:    "Time taken to drain one record set",
			Buckets: prometheus.DefBuckets,
		}),
		accountsTracked: promauto.With(registry).NewGauge(prometheus.GaugeOpts{
			Name: "accounts_tracked",
			Help: "Number of client accounts known to the ledger",
		}),
		logger: logger,
	}
}

func (m *Collector) RecordOutcome(outcome string) {
	if m == nil {
		return
	}
	m.recordsProcessed.WithLabelValues(outcome).Inc()
}

func (m *Collector) ObserveRun(duration time.Duration) {
	if m == nil {
		return
	}
	m.runDuration.Observe(duration.Seconds())
}

func (m *Collector) SetAccountsTracked(n int) {
	if m == nil {
		return
	}
	m.accountsTracked.Set(float64(n))
}

func (m *Collector) GetHandler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Collector) StartMetricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.GetHandler())

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		m.logger.Info("Starting metrics server", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			m.logger.Error("Metrics server failed", slog.String("error", err.Error()))
		}
	}()

	return server
}

func (m *Collector) Shutdown(ctx context.Context) error {
	if m == nil {
		return nil
	}
	m.logger.Info("Metrics collector shutdown complete")
	return nil
}
