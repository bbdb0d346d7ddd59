// Package metrics collects Prometheus metrics for backtest runs and writes
// them in the text exposition format, for a node_exporter textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors of one CLI invocation.
type Metrics struct {
	Registry *prometheus.Registry

	Runs        *prometheus.CounterVec   // labels: strategy
	Trades      *prometheus.CounterVec   // labels: strategy
	RunDuration *prometheus.HistogramVec // labels: strategy
	ReturnPct   *prometheus.GaugeVec     // labels: strategy, symbol
	Sharpe      *prometheus.GaugeVec     // labels: strategy, symbol
	SweepPoints prometheus.Counter
	SweepBest   *prometheus.GaugeVec // labels: strategy; best Sharpe of the last sweep
}

// New registers and returns all metrics on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),

		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "backtester_runs_total",
			Help: "Backtests completed",
		}, []string{"strategy"}),
		Trades: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "backtester_trades_total",
			Help: "Trades closed across completed backtests",
		}, []string{"strategy"}),
		RunDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "backtester_run_duration_seconds",
			Help:    "Wall time of a single backtest or sweep",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		}, []string{"strategy"}),
		ReturnPct: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "backtester_return_pct",
			Help: "Total return of the last run",
		}, []string{"strategy", "symbol"}),
		Sharpe: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "backtester_sharpe",
			Help: "Annualised Sharpe ratio of the last run",
		}, []string{"strategy", "symbol"}),
		SweepPoints: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "backtester_sweep_points_total",
			Help: "Grid points evaluated by sweeps",
		}),
		SweepBest: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "backtester_sweep_best_sharpe",
			Help: "Best Sharpe ratio found by the last sweep",
		}, []string{"strategy"}),
	}

	m.Registry.MustRegister(
		m.Runs,
		m.Trades,
		m.RunDuration,
		m.ReturnPct,
		m.Sharpe,
		m.SweepPoints,
		m.SweepBest,
	)
	return m
}

// ObserveRun records one finished backtest.
func (m *Metrics) ObserveRun(strategy, symbol string, trades int, returnPct, sharpe float64, elapsed time.Duration) {
	m.Runs.WithLabelValues(strategy).Inc()
	m.Trades.WithLabelValues(strategy).Add(float64(trades))
	m.RunDuration.WithLabelValues(strategy).Observe(elapsed.Seconds())
	m.ReturnPct.WithLabelValues(strategy, symbol).Set(returnPct)
	m.Sharpe.WithLabelValues(strategy, symbol).Set(sharpe)
}

// ObserveSweep records a finished sweep of points grid points.
func (m *Metrics) ObserveSweep(strategy string, points int, bestSharpe float64, elapsed time.Duration) {
	m.SweepPoints.Add(float64(points))
	m.Runs.WithLabelValues(strategy).Add(float64(points))
	m.RunDuration.WithLabelValues(strategy).Observe(elapsed.Seconds())
	m.SweepBest.WithLabelValues(strategy).Set(bestSharpe)
}

// WriteFile writes all metrics to path atomically.
func (m *Metrics) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
