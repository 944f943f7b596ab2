package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain/repository.Metrics using Prometheus.
type Recorder struct {
	uploadsTotal     *prometheus.CounterVec
	rowsTotal        *prometheus.CounterVec
	predictionsTotal *prometheus.CounterVec
	evaluationsTotal prometheus.Counter
	errorsTotal      *prometheus.CounterVec
	latency          *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		uploadsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "maifast_uploads_total",
				Help: "Total number of processed upload requests",
			},
			[]string{"result"},
		),
		rowsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "maifast_rows_total",
				Help: "Total data point rows seen by ingestion",
			},
			[]string{"outcome"}, // added or skipped
		),
		predictionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "maifast_predictions_total",
				Help: "Total predictions generated",
			},
			[]string{"algorithm"},
		),
		evaluationsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "maifast_evaluations_total",
				Help: "Total retroactive evaluations recorded",
			},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "maifast_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "maifast_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordUpload records an upload request outcome (accepted or rejected).
func (r *Recorder) RecordUpload(result string) {
	r.uploadsTotal.WithLabelValues(result).Inc()
}

// RecordRows records row counts by ingestion outcome.
func (r *Recorder) RecordRows(outcome string, n int) {
	r.rowsTotal.WithLabelValues(outcome).Add(float64(n))
}

// RecordPrediction records a generated prediction.
func (r *Recorder) RecordPrediction(algorithm string) {
	r.predictionsTotal.WithLabelValues(algorithm).Inc()
}

// RecordEvaluation records a retroactive evaluation.
func (r *Recorder) RecordEvaluation() {
	r.evaluationsTotal.Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
