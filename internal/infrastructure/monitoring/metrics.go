package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "launcher"

// Metrics holds all Prometheus metrics on a private registry
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Process supervisor metrics
	ProcessesRunning prometheus.Gauge
	ProcessesStarted prometheus.Counter
	ProcessStops     *prometheus.CounterVec
	TaskRuns         *prometheus.CounterVec

	// Terminal metrics
	TerminalSessions prometheus.Gauge
	TerminalCommands *prometheus.CounterVec

	// Output streaming
	LogLines *prometheus.CounterVec

	// Port allocation
	PortReassignments prometheus.Counter
	PortExhaustions   prometheus.Counter

	// Process tree killing
	KillFailures prometheus.Counter

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	startTime time.Time

	// Snapshot for the JSON summary endpoint
	snapshot Snapshot
	mu       sync.RWMutex
}

// Snapshot holds current metric values for the JSON summary endpoint
type Snapshot struct {
	TotalRequests     int64   `json:"total_requests"`
	TotalErrors       int64   `json:"total_errors"`
	RunningProcesses  int64   `json:"running_processes"`
	OpenTerminals     int64   `json:"open_terminals"`
	ActiveConnections int64   `json:"active_connections"`
	AvgRequestSeconds float64 `json:"avg_request_seconds"`
	UptimeSeconds     float64 `json:"uptime_seconds"`

	totalDuration float64
}

// NewMetrics creates a metrics collector with its own registry
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

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_size_bytes",
				Help:      "HTTP request size in bytes",
				Buckets:   []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_response_size_bytes",
				Help:      "HTTP response size in bytes",
				Buckets:   []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),

		ProcessesRunning: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "processes_running",
				Help:      "Number of supervised dev-server processes",
			},
		),
		ProcessesStarted: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "processes_started_total",
				Help:      "Total number of dev-server processes started",
			},
		),
		ProcessStops: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "process_stops_total",
				Help:      "Total number of stop requests by result",
			},
			[]string{"result"},
		),
		TaskRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "task_runs_total",
				Help:      "Total number of one-shot tasks by kind and result",
			},
			[]string{"task", "result"},
		),

		TerminalSessions: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "terminal_sessions_open",
				Help:      "Number of open terminal sessions",
			},
		),
		TerminalCommands: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "terminal_commands_total",
				Help:      "Total number of terminal commands by final status",
			},
			[]string{"status"},
		),

		LogLines: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "log_lines_total",
				Help:      "Total number of child output lines published",
			},
			[]string{"source", "stream"},
		),

		PortReassignments: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "port_reassignments_total",
				Help:      "Total number of ports moved by conflict resolution",
			},
		),
		PortExhaustions: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "port_exhaustions_total",
				Help:      "Total number of resolutions that ran out of ports",
			},
		),

		KillFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "kill_failures_total",
				Help:      "Total number of process trees that could not be killed",
			},
		),

		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "ws_connections",
				Help:      "Number of active WebSocket connections",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ws_messages_total",
				Help:      "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "uptime_seconds",
			Help:      "Backend uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Registry exposes the private registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.totalDuration += duration.Seconds()
	if len(status) > 0 && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// SetProcessesRunning sets the number of supervised processes
func (m *Metrics) SetProcessesRunning(count int) {
	m.ProcessesRunning.Set(float64(count))
	m.mu.Lock()
	m.snapshot.RunningProcesses = int64(count)
	m.mu.Unlock()
}

// IncProcessesStarted increments the started processes counter
func (m *Metrics) IncProcessesStarted() {
	m.ProcessesStarted.Inc()
}

// RecordStop records a stop request outcome
func (m *Metrics) RecordStop(result string) {
	m.ProcessStops.WithLabelValues(result).Inc()
}

// RecordTask records a one-shot task outcome
func (m *Metrics) RecordTask(task, result string) {
	m.TaskRuns.WithLabelValues(task, result).Inc()
}

// SetTerminalSessions sets the number of open terminal sessions
func (m *Metrics) SetTerminalSessions(count int) {
	m.TerminalSessions.Set(float64(count))
	m.mu.Lock()
	m.snapshot.OpenTerminals = int64(count)
	m.mu.Unlock()
}

// RecordTerminalCommand records the final status of a terminal command
func (m *Metrics) RecordTerminalCommand(status string) {
	m.TerminalCommands.WithLabelValues(status).Inc()
}

// IncLogLines counts one published output line
func (m *Metrics) IncLogLines(source, stream string) {
	m.LogLines.WithLabelValues(source, stream).Inc()
}

// AddPortReassignments counts ports moved by one resolution pass
func (m *Metrics) AddPortReassignments(n int) {
	m.PortReassignments.Add(float64(n))
}

// IncPortExhaustions counts a resolution that ran out of ports
func (m *Metrics) IncPortExhaustions() {
	m.PortExhaustions.Inc()
}

// IncKillFailures counts a failed tree kill
func (m *Metrics) IncKillFailures() {
	m.KillFailures.Inc()
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
