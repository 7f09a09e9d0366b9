package observability

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ajitpratap0/discord-ipc-go/pkg/ipc"
)

// MetricsConfig configures the Prometheus metrics provider.
type MetricsConfig struct {
	// Service identification, attached to every metric as const labels.
	ServiceName    string
	ServiceVersion string
	Environment    string

	MetricsPath string // HTTP path for the scrape endpoint (default: /metrics)
	MetricsPort int    // port for the scrape server (default: 9090)

	Namespace        string    // Prometheus namespace (default: discord_ipc)
	Subsystem        string    // Prometheus subsystem
	HistogramBuckets []float64 // connect latency buckets in milliseconds

	// Labels to add to all metrics
	ConstLabels prometheus.Labels
}

// Metrics is the Prometheus-backed ipc.Instrumentation. Wire it into a
// client with ipc.WithInstrumentation and, optionally, serve the scrape
// endpoint with Start.
type Metrics struct {
	config MetricsConfig
	server *http.Server

	probeTotal      *prometheus.CounterVec
	connectTotal    *prometheus.CounterVec
	connectDuration *prometheus.HistogramVec
	frameTotal      *prometheus.CounterVec
	framePayload    *prometheus.HistogramVec
	dispatchTotal   *prometheus.CounterVec
	callbackTotal   *prometheus.CounterVec
	connectionState *prometheus.GaugeVec
}

var _ ipc.Instrumentation = (*Metrics)(nil)

// connectionStates is the full label set of the one-hot state gauge.
var connectionStates = []string{
	ipc.StatusUninitialized.String(),
	ipc.StatusConnecting.String(),
	ipc.StatusConnected.String(),
	ipc.StatusClosing.String(),
	ipc.StatusClosed.String(),
	ipc.StatusDisconnected.String(),
}

// NewMetrics creates a Prometheus metrics provider and registers its
// collectors with the default registry. Already-registered collectors are
// tolerated, so constructing more than one provider per process is safe.
func NewMetrics(config MetricsConfig) (*Metrics, error) {
	// Set defaults
	if config.Namespace == "" {
		config.Namespace = "discord_ipc"
	}
	if config.MetricsPath == "" {
		config.MetricsPath = "/metrics"
	}
	if config.MetricsPort == 0 {
		config.MetricsPort = 9090
	}
	if config.HistogramBuckets == nil {
		// Default buckets for milliseconds
		config.HistogramBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000}
	}

	if config.ConstLabels == nil {
		config.ConstLabels = prometheus.Labels{}
	}
	config.ConstLabels["service"] = config.ServiceName
	config.ConstLabels["version"] = config.ServiceVersion
	config.ConstLabels["environment"] = config.Environment

	m := &Metrics{config: config}
	m.initializeMetrics()

	if err := m.registerMetrics(); err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	return m, nil
}

// initializeMetrics creates all metric collectors.
func (m *Metrics) initializeMetrics() {
	m.probeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.config.Namespace,
			Subsystem:   m.config.Subsystem,
			Name:        "discovery_probe_total",
			Help:        "Total discovery probes by pipe index and outcome",
			ConstLabels: m.config.ConstLabels,
		},
		[]string{"index", "outcome"},
	)

	m.connectTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.config.Namespace,
			Subsystem:   m.config.Subsystem,
			Name:        "connect_total",
			Help:        "Total connect attempts by outcome",
			ConstLabels: m.config.ConstLabels,
		},
		[]string{"outcome"},
	)

	m.connectDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.config.Namespace,
			Subsystem:   m.config.Subsystem,
			Name:        "connect_duration_milliseconds",
			Help:        "Duration of connect attempts in milliseconds",
			Buckets:     m.config.HistogramBuckets,
			ConstLabels: m.config.ConstLabels,
		},
		[]string{"outcome"},
	)

	m.frameTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.config.Namespace,
			Subsystem:   m.config.Subsystem,
			Name:        "frame_total",
			Help:        "Total wire frames by direction and opcode",
			ConstLabels: m.config.ConstLabels,
		},
		[]string{"direction", "opcode"},
	)

	m.framePayload = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.config.Namespace,
			Subsystem:   m.config.Subsystem,
			Name:        "frame_payload_bytes",
			Help:        "Frame payload sizes in bytes",
			Buckets:     []float64{64, 256, 1024, 4096, 16384, 65536, 262144, 1048576},
			ConstLabels: m.config.ConstLabels,
		},
		[]string{"direction"},
	)

	m.dispatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.config.Namespace,
			Subsystem:   m.config.Subsystem,
			Name:        "event_dispatch_total",
			Help:        "Total inbound events routed to listener hooks",
			ConstLabels: m.config.ConstLabels,
		},
		[]string{"event"},
	)

	m.callbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.config.Namespace,
			Subsystem:   m.config.Subsystem,
			Name:        "callback_total",
			Help:        "Total command callbacks resolved, by outcome",
			ConstLabels: m.config.ConstLabels,
		},
		[]string{"outcome"},
	)

	m.connectionState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace:   m.config.Namespace,
			Subsystem:   m.config.Subsystem,
			Name:        "connection_state",
			Help:        "Current connection state (1 for the active state, 0 otherwise)",
			ConstLabels: m.config.ConstLabels,
		},
		[]string{"state"},
	)
}

// registerMetrics registers all collectors with the default registry.
func (m *Metrics) registerMetrics() error {
	collectors := []prometheus.Collector{
		m.probeTotal,
		m.connectTotal,
		m.connectDuration,
		m.frameTotal,
		m.framePayload,
		m.dispatchTotal,
		m.callbackTotal,
		m.connectionState,
	}

	for _, collector := range collectors {
		if err := prometheus.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}

	return nil
}

// RecordProbe counts one discovery probe.
func (m *Metrics) RecordProbe(index int, outcome string) {
	m.probeTotal.WithLabelValues(strconv.Itoa(index), outcome).Inc()
}

// RecordConnect counts one connect attempt and observes its duration.
func (m *Metrics) RecordConnect(outcome string, d time.Duration) {
	m.connectTotal.WithLabelValues(outcome).Inc()
	m.connectDuration.WithLabelValues(outcome).Observe(float64(d.Milliseconds()))
}

// RecordFrame counts one wire frame and observes its payload size.
func (m *Metrics) RecordFrame(direction, opcode string, payloadBytes int) {
	m.frameTotal.WithLabelValues(direction, opcode).Inc()
	m.framePayload.WithLabelValues(direction).Observe(float64(payloadBytes))
}

// RecordDispatch counts one inbound event handed to listener hooks.
func (m *Metrics) RecordDispatch(event string) {
	m.dispatchTotal.WithLabelValues(event).Inc()
}

// RecordCallback counts one resolved command callback.
func (m *Metrics) RecordCallback(outcome string) {
	m.callbackTotal.WithLabelValues(outcome).Inc()
}

// RecordStatus moves the one-hot connection state gauge.
func (m *Metrics) RecordStatus(status string) {
	for _, state := range connectionStates {
		m.connectionState.WithLabelValues(state).Set(0)
	}
	m.connectionState.WithLabelValues(status).Set(1)
}

// Start serves the scrape endpoint in the background.
func (m *Metrics) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle(m.config.MetricsPath, promhttp.Handler())

	m.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", m.config.MetricsPort),
		Handler: mux,
	}

	go func() {
		_ = m.server.ListenAndServe()
	}()

	return nil
}

// Shutdown gracefully stops the scrape server.
func (m *Metrics) Shutdown(ctx context.Context) error {
	if m.server != nil {
		return m.server.Shutdown(ctx)
	}
	return nil
}
