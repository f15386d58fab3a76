package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns a private registry so several instances can coexist in tests.
// Record methods are no-ops on a nil *Collector.
type Collector struct {
	registry *prometheus.Registry

	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	bookingsTotal        *prometheus.CounterVec
	bookingRejections    *prometheus.CounterVec
	prescriptionsTotal   *prometheus.CounterVec
	prescriptionsExpired prometheus.Counter
}

func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status_code"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		bookingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bookings_total",
				Help:      "Booking lifecycle transitions by resulting status",
			},
			[]string{"status"},
		),
		bookingRejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "booking_rejections_total",
				Help:      "Booking attempts refused by the booking guard",
			},
			[]string{"reason"},
		),
		prescriptionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "prescriptions_total",
				Help:      "Prescription lifecycle transitions by resulting status",
			},
			[]string{"status"},
		),
		prescriptionsExpired: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "prescriptions_expired_total",
				Help:      "Prescriptions expired by the background worker",
			},
		),
	}

	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.httpRequestsTotal,
		c.httpRequestDuration,
		c.bookingsTotal,
		c.bookingRejections,
		c.prescriptionsTotal,
		c.prescriptionsExpired,
	)

	return c
}

// RecordHTTPRequest records HTTP request metrics
func (c *Collector) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	if c == nil {
		return
	}
	c.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	c.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (c *Collector) RecordBooking(status string) {
	if c == nil {
		return
	}
	c.bookingsTotal.WithLabelValues(status).Inc()
}

func (c *Collector) RecordBookingRejection(reason string) {
	if c == nil {
		return
	}
	c.bookingRejections.WithLabelValues(reason).Inc()
}

func (c *Collector) RecordPrescription(status string) {
	if c == nil {
		return
	}
	c.prescriptionsTotal.WithLabelValues(status).Inc()
}

func (c *Collector) RecordPrescriptionsExpired(n int64) {
	if c != nil && n > 0 {
		c.prescriptionsExpired.Add(float64(n))
	}
}

// Handler returns the Prometheus metrics HTTP handler
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// HTTPMiddleware records one observation per request, labelled by the mux
// route template so path ids do not explode cardinality.
func (c *Collector) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		c.RecordHTTPRequest(r.Method, routeOf(r), wrapper.statusCode, time.Since(start))
	})
}

func routeOf(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			return tmpl
		}
	}
	return "unmatched"
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
