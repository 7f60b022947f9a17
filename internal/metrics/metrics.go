package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/maltedev/ekatra-normalizer/internal/response"
)

// Recorder owns the normalizer's collectors on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	// TransformTotal counts envelopes by entry point, status and shape
	TransformTotal *prometheus.CounterVec
	// TransformDuration tracks time spent building an envelope
	TransformDuration *prometheus.HistogramVec
	// ValidationErrors counts individual validation messages
	ValidationErrors *prometheus.CounterVec
	// BatchItems tracks batch sizes
	BatchItems prometheus.Histogram
	// PublishTotal counts product events sent to the stream
	PublishTotal *prometheus.CounterVec
}

func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		TransformTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ekatra_transform_total",
				Help: "Product transformations by entry point, status and detected shape",
			},
			[]string{"entry", "status", "shape"},
		),
		TransformDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ekatra_transform_duration_seconds",
				Help:    "Time spent transforming one payload",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
			},
			[]string{"entry"},
		),
		ValidationErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ekatra_validation_errors_total",
				Help: "Validation messages reported by entry point",
			},
			[]string{"entry"},
		),
		BatchItems: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ekatra_batch_items",
				Help:    "Items per batch request",
				Buckets: []float64{1, 5, 10, 25, 50, 100},
			},
		),
		PublishTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ekatra_publish_total",
				Help: "Product events published to the ingest stream",
			},
			[]string{"status"},
		),
	}
}

// Observe records one envelope produced by entry.
func (r *Recorder) Observe(entry string, env response.Envelope, started time.Time) {
	shape := "unknown"
	if s, ok := env.Metadata["dataType"]; ok && s != nil {
		shape = toLabel(s)
	}
	r.TransformTotal.WithLabelValues(entry, env.Status, shape).Inc()
	r.TransformDuration.WithLabelValues(entry).Observe(time.Since(started).Seconds())

	if res, ok := env.Validation(); ok && !res.Valid {
		r.ValidationErrors.WithLabelValues(entry).Add(float64(len(res.Errors)))
	}
}

func (r *Recorder) Published(err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.PublishTotal.WithLabelValues(status).Inc()
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func toLabel(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case interface{ String() string }:
		return s.String()
	}
	return "unknown"
}
