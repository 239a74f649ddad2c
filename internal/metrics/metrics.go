// Package metrics exposes suggestion counters for Prometheus.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	detections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopmate_detections_total",
			Help: "Total category detections by outcome",
		},
		[]string{"outcome"},
	)

	reasons = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopmate_reasons_total",
			Help: "Total suggestion reasons by source",
		},
		[]string{"source"},
	)

	modelDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shopmate_model_request_duration_seconds",
			Help:    "Latency of language model requests",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"provider", "outcome"},
	)

	registerOnce sync.Once
)

// Init registers the collectors with reg, or the default registerer when reg
// is nil. Must be called once at startup; later calls are no-ops.
func Init(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		reg.MustRegister(detections, reasons, modelDuration)
	})
}

// RecordDetection counts one suggestion request by its outcome.
func RecordDetection(outcome string) {
	detections.WithLabelValues(outcome).Inc()
}

// RecordReasons counts n reasons produced by source ("model" or "fallback").
func RecordReasons(source string, n int) {
	if n <= 0 {
		return
	}
	reasons.WithLabelValues(source).Add(float64(n))
}

// ObserveModelRequest records the latency of one model call.
func ObserveModelRequest(provider string, err error, d time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	modelDuration.WithLabelValues(provider, outcome).Observe(d.Seconds())
}
