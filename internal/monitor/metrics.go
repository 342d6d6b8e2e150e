// Package monitor exposes receive pipeline counters to Prometheus.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"goremoteid/pkg/remoteid"
)

// Error kinds used as the "kind" label of the decode error counter.
const (
	KindUnknownType    = "unknown_type"
	KindTruncated      = "truncated"
	KindInvalidAppCode = "invalid_app_code"
	KindMalformedPack  = "malformed_pack"
	KindOther          = "other"
)

// Metrics holds the collectors of one receiver. Each instance has its own
// registry so several can coexist in one process.
type Metrics struct {
	FramesReceived     prometheus.Counter
	BytesReceived      prometheus.Counter
	MessagesDecoded    *prometheus.CounterVec
	DecodeErrors       *prometheus.CounterVec
	PublishErrors      prometheus.Counter
	ProcessingDuration prometheus.Histogram
	Goroutines         prometheus.Gauge
	MemoryUsage        prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		FramesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "remoteid_frames_received_total",
			Help: "Service data frames read from the input.",
		}),
		BytesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "remoteid_bytes_received_total",
			Help: "Bytes of service data read from the input.",
		}),
		MessagesDecoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "remoteid_messages_decoded_total",
			Help: "Decoded messages by type. Packed messages count once per member.",
		}, []string{"type"}),
		DecodeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "remoteid_decode_errors_total",
			Help: "Frames that failed to decode, by error kind.",
		}, []string{"kind"}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "remoteid_publish_errors_total",
			Help: "Decoded messages that could not be published.",
		}),
		ProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "remoteid_processing_duration_seconds",
			Help:    "Time to decode and record one frame.",
			Buckets: prometheus.DefBuckets,
		}),
		Goroutines: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "remoteid_goroutines",
			Help: "Current number of goroutines.",
		}),
		MemoryUsage: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "remoteid_memory_usage_bytes",
			Help: "Allocated heap bytes.",
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.FramesReceived,
		m.BytesReceived,
		m.MessagesDecoded,
		m.DecodeErrors,
		m.PublishErrors,
		m.ProcessingDuration,
		m.Goroutines,
		m.MemoryUsage,
	)
	return m
}

// ObserveFrame counts a frame of n bytes read from the input.
func (m *Metrics) ObserveFrame(n int) {
	m.FramesReceived.Inc()
	m.BytesReceived.Add(float64(n))
}

// ObserveMessage counts one decoded message.
func (m *Metrics) ObserveMessage(t remoteid.MessageType) {
	m.MessagesDecoded.WithLabelValues(t.String()).Inc()
}

// ObserveError counts a decode failure under its kind.
func (m *Metrics) ObserveError(err error) {
	m.DecodeErrors.WithLabelValues(ErrorKind(err)).Inc()
}

// ErrorKind maps a codec error to its label value.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, remoteid.ErrUnknownMessageType):
		return KindUnknownType
	case errors.Is(err, remoteid.ErrTruncatedBuffer):
		return KindTruncated
	case errors.Is(err, remoteid.ErrInvalidAppCode):
		return KindInvalidAppCode
	case errors.Is(err, remoteid.ErrMalformedMessagePack):
		return KindMalformedPack
	}
	return KindOther
}

// UpdateRuntime samples goroutine count and heap usage.
func (m *Metrics) UpdateRuntime() {
	m.Goroutines.Set(float64(runtime.NumGoroutine()))

	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	m.MemoryUsage.Set(float64(stats.Alloc))
}

// Handler serves /metrics and /health.
func (m *Metrics) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	return mux
}

// Monitor runs the metrics HTTP server and the runtime sampler.
type Monitor struct {
	metrics *Metrics
	log     *logrus.Logger
	server  *http.Server
}

// NewMonitor returns a Monitor serving metrics on port.
func NewMonitor(metrics *Metrics, port int, log *logrus.Logger) *Monitor {
	return &Monitor{
		metrics: metrics,
		log:     log,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           metrics.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// StartMetricsServer serves in the background until Shutdown.
func (m *Monitor) StartMetricsServer() {
	m.log.WithField("addr", m.server.Addr).Info("Metrics server starting")

	go func() {
		if err := m.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.log.WithError(err).Error("Metrics server error")
		}
	}()
}

// StartRuntimeMonitor samples runtime gauges every interval until ctx is
// done.
func (m *Monitor) StartRuntimeMonitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.metrics.UpdateRuntime()
			m.log.WithFields(logrus.Fields{
				"goroutines": runtime.NumGoroutine(),
			}).Debug("Runtime sampled")
		}
	}
}

// Shutdown stops the HTTP server.
func (m *Monitor) Shutdown(ctx context.Context) error {
	if err := m.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to stop metrics server: %w", err)
	}
	return nil
}
