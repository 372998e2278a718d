package middleware

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/viewroute/pkg/router"
	"github.com/vango-dev/viewroute/pkg/routepath"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "viewroute").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for navigation duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "viewroute",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the router's Prometheus collectors.
type Metrics struct {
	navigationsTotal   *prometheus.CounterVec
	navigationDuration *prometheus.HistogramVec
	navigationErrors   *prometheus.CounterVec
	patchesSent        prometheus.Counter
	activeSessions     prometheus.Gauge
}

// NewMetrics creates and registers the collectors. Registering twice on the
// same registry panics, as with promauto.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		navigationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_total",
			Help:        "Total number of navigations processed",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "status"}),

		navigationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_duration_seconds",
			Help:        "Navigation handler chain duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route"}),

		navigationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_errors_total",
			Help:        "Total number of failed navigations",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "error_type"}),

		patchesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patches_sent_total",
			Help:        "Total number of patches sent to preview clients",
			ConstLabels: config.ConstLabels,
		}),

		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_sessions",
			Help:        "Number of connected preview sessions",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// Middleware returns router middleware recording every navigation.
//
// The route label is the matched route's name, or its pattern when the
// chain stopped before the terminal handler, or "unmatched".
func (m *Metrics) Middleware() router.Middleware {
	return router.MiddlewareFunc(func(ctx *router.Context, next func() error) error {
		start := time.Now()
		err := next()

		route := routeLabel(ctx)
		m.navigationDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())

		status := "success"
		switch {
		case err != nil:
			status = "error"
			m.navigationErrors.WithLabelValues(route, categorizeError(err)).Inc()
		case ctx.Name == "" && ctx.Pattern != "":
			status = "blocked"
		}
		m.navigationsTotal.WithLabelValues(route, status).Inc()

		return err
	})
}

// RecordPatches records the number of patches sent.
func (m *Metrics) RecordPatches(count int) {
	m.patchesSent.Add(float64(count))
}

// SessionOpened increments the active session gauge.
func (m *Metrics) SessionOpened() {
	m.activeSessions.Inc()
}

// SessionClosed decrements the active session gauge.
func (m *Metrics) SessionClosed() {
	m.activeSessions.Dec()
}

func routeLabel(ctx *router.Context) string {
	switch {
	case ctx.Name != "":
		return ctx.Name
	case ctx.Pattern != "":
		return ctx.Pattern
	default:
		return "unmatched"
	}
}

// categorizeError returns a category for the error type.
// This prevents high-cardinality labels from error messages.
func categorizeError(err error) string {
	switch {
	case errors.Is(err, router.ErrNoRoute):
		return "not_found"
	case errors.Is(err, router.ErrOutsideBase):
		return "outside_base"
	case errors.Is(err, router.ErrTooManyRedirects):
		return "redirect_loop"
	case errors.Is(err, routepath.ErrInvalidPath),
		errors.Is(err, routepath.ErrInvalidPercentEscape),
		errors.Is(err, routepath.ErrPathEscapesRoot),
		errors.Is(err, routepath.ErrBackslashInPath),
		errors.Is(err, routepath.ErrNullByteInPath),
		errors.Is(err, routepath.ErrEncodedSlashInSegment):
		return "invalid_path"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "unauthorized"), strings.Contains(errStr, "forbidden"), strings.Contains(errStr, "denied"):
		return "denied"
	case strings.Contains(errStr, "panic"):
		return "panic"
	default:
		return "internal"
	}
}

// globalMetrics backs Prometheus so that several routers in one process
// share the default registry.
var (
	globalMetrics   *Metrics
	globalMetricsMu sync.Mutex
)

// Prometheus returns navigation middleware backed by collectors registered
// on the default registry. The options of the first call win.
func Prometheus(opts ...MetricsOption) router.Middleware {
	return Global(opts...).Middleware()
}

// Global returns the process-wide Metrics, creating it on first use.
func Global(opts ...MetricsOption) *Metrics {
	globalMetricsMu.Lock()
	defer globalMetricsMu.Unlock()
	if globalMetrics == nil {
		globalMetrics = NewMetrics(opts...)
	}
	return globalMetrics
}
