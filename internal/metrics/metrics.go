package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"StockPulse/internal/model"
)

// Recorder exposes analysis metrics to Prometheus.
type Recorder struct {
	decisions   *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	lastPrice   *prometheus.GaugeVec
	confidence  *prometheus.GaugeVec
	score       *prometheus.GaugeVec
	latency     *prometheus.HistogramVec
}

// New registers the metrics on reg; nil means the default registerer.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Recorder{
		decisions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpulse_decisions_total",
				Help: "Total number of decisions produced",
			},
			[]string{"symbol", "label"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpulse_errors_total",
				Help: "Total number of analysis errors",
			},
			[]string{"kind"},
		),
		lastPrice: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockpulse_last_close",
				Help: "Latest close seen for a symbol",
			},
			[]string{"symbol"},
		),
		confidence: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockpulse_decision_confidence",
				Help: "Confidence of the latest decision for a symbol",
			},
			[]string{"symbol"},
		),
		score: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockpulse_decision_score",
				Help: "Raw score of the latest decision for a symbol",
			},
			[]string{"symbol"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockpulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordAnalysis records the outcome of one successful analysis.
func (r *Recorder) RecordAnalysis(a *model.Analysis) {
	r.decisions.WithLabelValues(a.Symbol, string(a.Decision.Label)).Inc()
	r.lastPrice.WithLabelValues(a.Symbol).Set(a.Latest.Close)
	r.confidence.WithLabelValues(a.Symbol).Set(float64(a.Decision.Confidence))
	r.score.WithLabelValues(a.Symbol).Set(float64(a.Decision.Score))
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
