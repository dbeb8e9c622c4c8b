package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry with the solve, cache and HTTP collectors
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	solveDuration   *prometheus.HistogramVec
	requiredHours   prometheus.Counter
	placedHours     prometheus.Counter
	unplacedHours   prometheus.Counter
	solveFailures   prometheus.Counter
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	solveDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "timetable_solve_duration_seconds",
		Help:    "Duration of timetable solves in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	}, []string{"outcome"})

	requiredHours := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timetable_required_hours_total",
		Help: "Weekly hours requested across all solved sections",
	})

	placedHours := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timetable_placed_hours_total",
		Help: "Weekly hours placed across all solved sections",
	})

	unplacedHours := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timetable_unplaced_hours_total",
		Help: "Weekly hours left unplaced across all solved sections",
	})

	solveFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timetable_solve_failures_total",
		Help: "Solves rejected or aborted before producing a timetable",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timetable_cache_hits_total",
		Help: "Total timetable cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timetable_cache_misses_total",
		Help: "Total timetable cache misses",
	})

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	registry.MustRegister(solveDuration, requiredHours, placedHours, unplacedHours, solveFailures, cacheHits, cacheMisses, requestDuration, requestTotal)

	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		solveDuration:   solveDuration,
		requiredHours:   requiredHours,
		placedHours:     placedHours,
		unplacedHours:   unplacedHours,
		solveFailures:   solveFailures,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
	}
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveSolve records a successful solve; placed never exceeds required
func (m *Metrics) ObserveSolve(duration time.Duration, required, placed int) {
	if m == nil {
		return
	}
	m.solveDuration.WithLabelValues("success").Observe(duration.Seconds())
	m.requiredHours.Add(float64(required))
	m.placedHours.Add(float64(placed))
	m.unplacedHours.Add(float64(required - placed))
}

func (m *Metrics) ObserveSolveFailure(duration time.Duration) {
	if m == nil {
		return
	}
	m.solveDuration.WithLabelValues("failure").Observe(duration.Seconds())
	m.solveFailures.Inc()
}

func (m *Metrics) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}

func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// Middleware records request metrics labelled by route template
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		m.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
