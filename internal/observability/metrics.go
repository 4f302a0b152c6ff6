package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics mengumpulkan metrik Prometheus untuk aplikasi.
type Metrics struct {
	registry            *prometheus.Registry
	handler             http.Handler
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	movementsTotal      *prometheus.CounterVec
	rejectionsTotal     *prometheus.CounterVec
	persistenceFailures *prometheus.CounterVec
}

// NewMetrics menginisialisasi registry, metrik HTTP, dan metrik stok.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "itstock_http_requests_total",
		Help: "HTTP requests by route and status.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "itstock_http_request_duration_seconds",
		Help:    "HTTP request duration per route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	movements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "itstock_movements_total",
		Help: "Stock movements applied by kind.",
	}, []string{"kind"})
	rejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "itstock_movement_rejections_total",
		Help: "Stock movements rejected by reason.",
	}, []string{"reason"})
	persistence := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "itstock_persistence_failures_total",
		Help: "Failed loads and saves per collection.",
	}, []string{"collection", "op"})
	registry.MustRegister(requests, duration, movements, rejections, persistence)
	return &Metrics{
		registry:            registry,
		handler:             promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:       requests,
		requestDuration:     duration,
		movementsTotal:      movements,
		rejectionsTotal:     rejections,
		persistenceFailures: persistence,
	}
}

// Handler mengembalikan http.Handler untuk endpoint /metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware mencatat metrik untuk setiap permintaan HTTP.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// MovementApplied counts an applied movement.
func (m *Metrics) MovementApplied(kind string) {
	if m == nil {
		return
	}
	m.movementsTotal.WithLabelValues(kind).Inc()
}

// MovementRejected counts a rejected movement.
func (m *Metrics) MovementRejected(reason string) {
	if m == nil {
		return
	}
	m.rejectionsTotal.WithLabelValues(reason).Inc()
}

// PersistenceFailure counts a failed load or save.
func (m *Metrics) PersistenceFailure(collection, op string) {
	if m == nil {
		return
	}
	m.persistenceFailures.WithLabelValues(collection, op).Inc()
}

// Registerer mengekspos registry untuk pendaftaran metrik khusus.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
