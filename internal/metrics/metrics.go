// Package metrics exposes the reconstructor's running counters as
// Prometheus collectors, optionally served over HTTP.
package metrics

import (
	"context"
	"net/http"

	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for one reconstruction run.
type Metrics struct {
	registry *prometheus.Registry
	logger   log.Logger

	actionsProcessed  prometheus.Counter
	tradesAggregated  prometheus.Counter
	errorsEncountered prometheus.Counter
	parseErrors       prometheus.Counter

	snapshotsGenerated prometheus.Counter
	snapshotsSkipped   prometheus.Counter

	activeOrders prometheus.Gauge
	priceLevels  prometheus.Gauge
}

// New creates a registered set of collectors under the "mbp10" namespace.
func New() *Metrics {
	logger := log.Root().New("module", "metrics")
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		logger:   logger,

		actionsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mbp10",
			Name:      "actions_processed_total",
			Help:      "Total number of MBO actions dispatched to the book.",
		}),
		tradesAggregated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mbp10",
			Name:      "trades_aggregated_total",
			Help:      "Total Trade->Fill->Cancel sequences applied as one execution.",
		}),
		errorsEncountered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mbp10",
			Name:      "errors_encountered_total",
			Help:      "Total actions rejected by the book or the action engine.",
		}),
		parseErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mbp10",
			Name:      "parse_errors_total",
			Help:      "Total input lines that failed to parse as an MBO event.",
		}),
		snapshotsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mbp10",
			Name:      "snapshots_generated_total",
			Help:      "Total MBP-10 rows emitted.",
		}),
		snapshotsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mbp10",
			Name:      "snapshots_skipped_total",
			Help:      "Total snapshot opportunities suppressed as unchanged.",
		}),
		activeOrders: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "mbp10",
			Name:      "active_orders",
			Help:      "Current number of resident orders in the book.",
		}),
		priceLevels: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "mbp10",
			Name:      "price_levels",
			Help:      "Current number of occupied price levels across both sides.",
		}),
	}

	registry.MustRegister(
		m.actionsProcessed,
		m.tradesAggregated,
		m.errorsEncountered,
		m.parseErrors,
		m.snapshotsGenerated,
		m.snapshotsSkipped,
		m.activeOrders,
		m.priceLevels,
	)

	return m
}

// AddActionsProcessed increments the actions-processed counter by delta.
func (m *Metrics) AddActionsProcessed(delta uint64) { m.actionsProcessed.Add(float64(delta)) }

// AddTradesAggregated increments the trades-aggregated counter by delta.
func (m *Metrics) AddTradesAggregated(delta uint64) { m.tradesAggregated.Add(float64(delta)) }

// AddErrorsEncountered increments the errors-encountered counter by delta.
func (m *Metrics) AddErrorsEncountered(delta uint64) { m.errorsEncountered.Add(float64(delta)) }

// IncParseErrors increments the parse-error counter by one.
func (m *Metrics) IncParseErrors() { m.parseErrors.Inc() }

// AddSnapshotsGenerated increments the snapshots-generated counter by delta.
func (m *Metrics) AddSnapshotsGenerated(delta uint64) { m.snapshotsGenerated.Add(float64(delta)) }

// AddSnapshotsSkipped increments the snapshots-skipped counter by delta.
func (m *Metrics) AddSnapshotsSkipped(delta uint64) { m.snapshotsSkipped.Add(float64(delta)) }

// SetActiveOrders sets the active-orders gauge.
func (m *Metrics) SetActiveOrders(v int) { m.activeOrders.Set(float64(v)) }

// SetPriceLevels sets the price-levels gauge.
func (m *Metrics) SetPriceLevels(v int) { m.priceLevels.Set(float64(v)) }

// Serve starts the Prometheus metrics endpoint on addr and blocks until
// the server exits or ctx is canceled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	m.logger.Info("metrics endpoint listening", "addr", addr)

	select {
	case <-ctx.Done():
		return srv.Shutdown(context.Background())
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
