package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Service metrics
	ServiceCalls    *prometheus.CounterVec
	ServiceDuration *prometheus.HistogramVec

	// Terminal metrics
	SessionsActive      prometheus.Gauge
	SessionsStarted     prometheus.Counter
	SessionExits        *prometheus.CounterVec
	SpawnFailures       prometheus.Counter
	AppearanceRefreshes prometheus.Counter
	SurfaceUpdates      prometheus.Counter
	ViewsAttached       prometheus.Gauge
	ViewOutputDropped   prometheus.Counter
	WorkspacesOpen      prometheus.Gauge

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	startTime time.Time

	// Snapshot for JSON API - track current values
	snapshot MetricsSnapshot

	mu sync.RWMutex
}

// MetricsSnapshot holds current metric values for JSON API
type MetricsSnapshot struct {
	TotalRequests     int64   `json:"total_requests"`
	TotalErrors       int64   `json:"total_errors"`
	ActiveSessions    int64   `json:"active_sessions"`
	SpawnFailures     int64   `json:"spawn_failures"`
	AttachedViews     int64   `json:"attached_views"`
	ActiveConnections int64   `json:"active_connections"`
	TotalDuration     float64 `json:"-"` // sum of all request durations
	RequestCount      int64   `json:"-"` // count for averaging
	AvgLatencyMS      float64 `json:"avg_latency_ms"`
	UptimeSeconds     float64 `json:"uptime_seconds"`
}

// NewMetrics creates a metrics collector with its own Prometheus registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		// HTTP metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termhost_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "termhost_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "termhost_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "termhost_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),

		// Service metrics
		ServiceCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termhost_service_calls_total",
				Help: "Total number of service tool calls",
			},
			[]string{"service", "method", "status"},
		),
		ServiceDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "termhost_service_duration_seconds",
				Help:    "Service tool duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"service", "method"},
		),

		// Terminal metrics
		SessionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "termhost_sessions_active",
				Help: "Number of running shell processes",
			},
		),
		SessionsStarted: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "termhost_sessions_started_total",
				Help: "Total number of shells spawned",
			},
		),
		SessionExits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termhost_session_exits_total",
				Help: "Total number of shell exits by exit code",
			},
			[]string{"code"},
		),
		SpawnFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "termhost_spawn_failures_total",
				Help: "Total number of failed shell spawns",
			},
		),
		AppearanceRefreshes: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "termhost_appearance_refreshes_total",
				Help: "Total number of appearance refreshes",
			},
		),
		SurfaceUpdates: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "termhost_surface_updates_total",
				Help: "Total number of surface properties changed by refreshes",
			},
		),
		ViewsAttached: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "termhost_views_attached",
				Help: "Number of views attached to sessions",
			},
		),
		ViewOutputDropped: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "termhost_view_output_dropped_total",
				Help: "Total number of output chunks dropped by views that fell behind",
			},
		),
		WorkspacesOpen: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "termhost_workspaces_open",
				Help: "Number of open workspaces",
			},
		),

		// WebSocket metrics
		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "termhost_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termhost_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "termhost_uptime_seconds",
			Help: "Uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Registry returns the Prometheus registry the metrics are registered with
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	// Update snapshot
	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.TotalDuration += duration.Seconds()
	m.snapshot.RequestCount++
	if status[0] == '4' || status[0] == '5' {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordServiceCall records a service call
func (m *Metrics) RecordServiceCall(service, method, status string, duration time.Duration) {
	m.ServiceCalls.WithLabelValues(service, method, status).Inc()
	m.ServiceDuration.WithLabelValues(service, method).Observe(duration.Seconds())
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
	m.mu.Lock()
	m.snapshot.ActiveConnections++
	m.mu.Unlock()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
	m.mu.Lock()
	m.snapshot.ActiveConnections--
	m.mu.Unlock()
}

// SetWorkspacesOpen sets the number of open workspaces
func (m *Metrics) SetWorkspacesOpen(count int) {
	m.WorkspacesOpen.Set(float64(count))
}

// SessionStarted records a successful spawn
func (m *Metrics) SessionStarted() {
	m.SessionsStarted.Inc()
	m.SessionsActive.Inc()
	m.mu.Lock()
	m.snapshot.ActiveSessions++
	m.mu.Unlock()
}

// SessionExited records a shell exit
func (m *Metrics) SessionExited(code int) {
	m.SessionExits.WithLabelValues(strconv.Itoa(code)).Inc()
	m.SessionsActive.Dec()
	m.mu.Lock()
	m.snapshot.ActiveSessions--
	m.mu.Unlock()
}

// SpawnFailed records a failed spawn
func (m *Metrics) SpawnFailed() {
	m.SpawnFailures.Inc()
	m.mu.Lock()
	m.snapshot.SpawnFailures++
	m.mu.Unlock()
}

// AppearanceRefreshed records a refresh that changed applied surface properties
func (m *Metrics) AppearanceRefreshed(applied int) {
	m.AppearanceRefreshes.Inc()
	m.SurfaceUpdates.Add(float64(applied))
}

// ViewAttached records a view binding to a session
func (m *Metrics) ViewAttached() {
	m.ViewsAttached.Inc()
	m.mu.Lock()
	m.snapshot.AttachedViews++
	m.mu.Unlock()
}

// ViewDetached records a view unbinding
func (m *Metrics) ViewDetached() {
	m.ViewsAttached.Dec()
	m.mu.Lock()
	m.snapshot.AttachedViews--
	m.mu.Unlock()
}

// OutputDropped records output chunks a slow view could not keep up with
func (m *Metrics) OutputDropped(chunks int) {
	m.ViewOutputDropped.Add(float64(chunks))
}
