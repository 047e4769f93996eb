package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	ordersPlaced *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	balance      prometheus.Gauge
	dailyPL      prometheus.Gauge
	latency      *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		ordersPlaced: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "optionpulse_orders_placed_total",
				Help: "Total number of orders submitted to the gateway",
			},
			[]string{"asset", "direction"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "optionpulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		balance: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "optionpulse_account_balance",
				Help: "Last observed account balance",
			},
		),
		dailyPL: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "optionpulse_daily_pl_percent",
				Help: "Realized profit/loss percent for the trading day",
			},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "optionpulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordOrderPlaced records a submitted order.
func (r *Recorder) RecordOrderPlaced(asset, direction string) {
	r.ordersPlaced.WithLabelValues(asset, direction).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordBalance records the last observed account balance.
func (r *Recorder) RecordBalance(balance float64) {
	r.balance.Set(balance)
}

// RecordDailyPL records the day's realized P/L percent.
func (r *Recorder) RecordDailyPL(plPercent float64) {
	r.dailyPL.Set(plPercent)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
