package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "beanbags/internal/errors"
)

const (
	ReservationCreated   = "created"
	ReservationCancelled = "cancelled"
	ReservationSold      = "sold"
)

type Metrics struct {
	UnitsSold       prometheus.Counter
	Reservations    *prometheus.CounterVec
	Failures        *prometheus.CounterVec
	RequestTotal    *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// New registers every collector with reg. Passing prometheus.NewRegistry() keeps tests
// isolated from the default registry.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		UnitsSold: factory.NewCounter(prometheus.CounterOpts{
			Name: "beanbags_units_sold_total",
			Help: "Bean bags sold through direct sales",
		}),
		Reservations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "beanbags_reservations_total",
				Help: "Reservation lifecycle events",
			},
			[]string{"event"},
		),
		Failures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "beanbags_operation_failures_total",
				Help: "Rejected store operations by failure kind",
			},
			[]string{"operation", "kind"},
		),
		RequestTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		gatherer: reg,
	}
}

func (m *Metrics) Sold(quantity int) {
	m.UnitsSold.Add(float64(quantity))
}

func (m *Metrics) Reservation(event string) {
	m.Reservations.WithLabelValues(event).Inc()
}

// Failure counts a rejected operation under its store error kind, or INTERNAL for
// errors that carry none.
func (m *Metrics) Failure(operation string, err error) {
	kind := "INTERNAL"
	if k, ok := apperrors.KindOf(err); ok {
		kind = string(k)
	}
	m.Failures.WithLabelValues(operation, kind).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Middleware records request count and latency labelled by the matched route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		duration := time.Since(start).Seconds()

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		path := routePattern(r)
		m.RequestTotal.WithLabelValues(r.Method, path, strconv.Itoa(status)).Inc()
		m.RequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return NormalizePath(r.URL.Path)
}

// NormalizePath keeps only the first path segment so unmatched URLs cannot blow up label
// cardinality.
func NormalizePath(p string) string {
	p = strings.TrimPrefix(p, "/")
	if idx := strings.Index(p, "/"); idx >= 0 {
		p = p[:idx]
	}
	if p == "" {
		return "root"
	}
	return p
}
