package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/HSouheill/admarket_backend/workflow"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "admarket",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "admarket",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	transitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "admarket",
			Subsystem: "applications",
			Name:      "transitions_total",
			Help:      "Committed application status transitions.",
		},
		[]string{"action", "from", "to"},
	)

	rejectedTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "admarket",
			Subsystem: "applications",
			Name:      "rejected_transitions_total",
			Help:      "Transition requests refused by the workflow, by error kind.",
		},
		[]string{"action", "reason"},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		transitions,
		rejectedTransitions,
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency per route template. The
// error handler must skip responses that are already committed.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// Render now so the recorded status is the one sent
				c.Error(err)
			}
			status := c.Response().Status
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			httpRequests.WithLabelValues(c.Request().Method, path, strconv.Itoa(status)).Inc()
			httpDuration.WithLabelValues(c.Request().Method, path).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// RecordTransition counts a committed transition.
func RecordTransition(action workflow.Action, from, to string) {
	transitions.WithLabelValues(action.String(), from, to).Inc()
}

// RecordRejection counts a refused transition request.
func RecordRejection(action workflow.Action, err error) {
	rejectedTransitions.WithLabelValues(action.String(), Reason(err)).Inc()
}

// Reason maps a workflow error to a low-cardinality label.
func Reason(err error) string {
	switch {
	case errors.Is(err, workflow.ErrValidation):
		return "validation"
	case errors.Is(err, workflow.ErrNotFound):
		return "not_found"
	case errors.Is(err, workflow.ErrNotAuthorized):
		return "not_authorized"
	case errors.Is(err, workflow.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, workflow.ErrStaleState):
		return "stale_state"
	}
	return "internal"
}
