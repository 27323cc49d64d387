// Package metrics records Prometheus counters for backend requests and
// command runs. A CLI process is short-lived, so nothing is served over
// HTTP: the registry is written in the node_exporter textfile format when
// metrics.textfile is configured.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for siaga-admin. A nil *Metrics
// records nothing.
type Metrics struct {
	// Backend request metrics
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	AuthFailures    prometheus.Counter

	// Command execution metrics
	CommandExecutions *prometheus.CounterVec
	CommandDuration   *prometheus.HistogramVec

	// Errors by structured error code
	Errors *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance registered on registry.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "siaga_admin_requests_total",
				Help: "Total number of backend requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "siaga_admin_request_duration_seconds",
				Help:    "Backend request duration in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"method", "route"},
		),
		AuthFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "siaga_admin_auth_failures_total",
				Help: "Responses that cleared the session (401 or 403)",
			},
		),
		CommandExecutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "siaga_admin_command_executions_total",
				Help: "Total number of command executions",
			},
			[]string{"command", "success"},
		),
		CommandDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "siaga_admin_command_duration_seconds",
				Help:    "Command execution duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"command"},
		),
		Errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "siaga_admin_errors_total",
				Help: "Command errors by error code",
			},
			[]string{"code"},
		),
	}
}

// NewRegistry creates a private registry with all metrics registered.
func NewRegistry() (*prometheus.Registry, *Metrics) {
	reg := prometheus.NewRegistry()
	return reg, NewMetrics(reg)
}

// ObserveRequest records one backend round trip. status 0 means the
// request never got a response.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.Requests.WithLabelValues(method, route, label).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
	if status == 401 || status == 403 {
		m.AuthFailures.Inc()
	}
}

// coded is implemented by errors that carry a stable code.
type coded interface {
	ErrorCode() string
}

// ObserveCommand records a finished command.
func (m *Metrics) ObserveCommand(command string, err error, d time.Duration) {
	if m == nil {
		return
	}
	m.CommandExecutions.WithLabelValues(command, strconv.FormatBool(err == nil)).Inc()
	m.CommandDuration.WithLabelValues(command).Observe(d.Seconds())
	if err == nil {
		return
	}
	code := "unknown"
	var c coded
	if errors.As(err, &c) {
		code = c.ErrorCode()
	}
	m.Errors.WithLabelValues(code).Inc()
}
