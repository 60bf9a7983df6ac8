package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"SentiPull/internal/domain/models"
)

// Recorder implements domain repository.Metrics using Prometheus.
// The sentiment_* names are the service's stable external metric contract:
// the positive/negative counters are lifetime totals (they never follow
// window eviction) while sentiment_score tracks the current window only.
type Recorder struct {
	requestsTotal  prometheus.Counter
	requestLatency prometheus.Histogram
	positiveTotal  prometheus.Counter
	negativeTotal  prometheus.Counter
	sentimentScore prometheus.Gauge
	windowSize     prometheus.Gauge
	messagesSent   *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	latency        *prometheus.HistogramVec
}

// New creates a Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		requestsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sentiment_requests_total",
			Help: "Total sentiment analysis requests",
		}),
		requestLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "sentiment_request_duration_seconds",
			Help:    "Request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		positiveTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sentiment_positive_total",
			Help: "Total positive sentiments",
		}),
		negativeTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sentiment_negative_total",
			Help: "Total negative sentiments",
		}),
		sentimentScore: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "sentiment_score",
			Help: "Current sentiment score over the window (-1 to 1)",
		}),
		windowSize: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "sentiment_window_size",
			Help: "Current number of records in the sentiment window",
		}),
		messagesSent: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentipull_messages_sent_total",
				Help: "Total observations sent to a backend",
			},
			[]string{"backend", "source"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentipull_errors_total",
				Help: "Total errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sentipull_operation_duration_seconds",
				Help:    "Duration of internal operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

func (r *Recorder) RecordRequest() {
	r.requestsTotal.Inc()
}

func (r *Recorder) RecordRequestLatency(seconds float64) {
	r.requestLatency.Observe(seconds)
}

func (r *Recorder) RecordLabel(label models.Label) {
	if label == models.LabelPositive {
		r.positiveTotal.Inc()
	} else {
		r.negativeTotal.Inc()
	}
}

func (r *Recorder) RecordSentimentScore(score float64) {
	r.sentimentScore.Set(score)
}

func (r *Recorder) RecordWindowSize(n int) {
	r.windowSize.Set(float64(n))
}

func (r *Recorder) RecordMessageSent(backend, source string) {
	r.messagesSent.WithLabelValues(backend, source).Inc()
}

func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
