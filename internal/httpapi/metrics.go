package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "modelops",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "modelops",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)

	httpInflight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "modelops",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "In-flight HTTP requests",
		},
		[]string{"path"},
	)

	reloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "modelops",
			Subsystem: "serving",
			Name:      "reloads_total",
			Help:      "Total reload directives handled, by outcome",
		},
		[]string{"outcome"},
	)

	predictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "modelops",
			Subsystem: "serving",
			Name:      "predictions_total",
			Help:      "Total prediction requests handled, by outcome",
		},
		[]string{"outcome"},
	)

	modelLoads = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "modelops",
			Subsystem: "serving",
			Name:      "model_loads",
			Help:      "Successful model loads since process start",
		},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal, httpRequestDuration, httpInflight,
		reloadsTotal, predictionsTotal, modelLoads)
}

// statusRecorder wraps http.ResponseWriter to capture status code
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// MetricsMiddleware instruments requests for Prometheus
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := routePatternOrPath(r)
		method := r.Method
		httpInflight.WithLabelValues(path).Inc()
		defer httpInflight.WithLabelValues(path).Dec()

		sr := &statusRecorder{ResponseWriter: w, status: 200}
		start := time.Now()
		next.ServeHTTP(sr, r)
		statusLabel := strconv.Itoa(sr.status)
		dur := time.Since(start).Seconds()
		httpRequestsTotal.WithLabelValues(path, method, statusLabel).Inc()
		httpRequestDuration.WithLabelValues(path, method, statusLabel).Observe(dur)
	})
}

// routePatternOrPath returns the chi route pattern if available, otherwise
// falls back to URL path. This avoids high-cardinality label values.
func routePatternOrPath(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

// IncrementReload counts one handled reload directive ("ok" or "error").
func IncrementReload(outcome string) {
	if outcome == "" {
		outcome = "unspecified"
	}
	reloadsTotal.WithLabelValues(outcome).Inc()
}

// IncrementPrediction counts one handled prediction ("ok" or "error").
func IncrementPrediction(outcome string) {
	if outcome == "" {
		outcome = "unspecified"
	}
	predictionsTotal.WithLabelValues(outcome).Inc()
}

// SetModelLoads mirrors the serving manager's load counter into a gauge.
func SetModelLoads(n uint64) {
	modelLoads.Set(float64(n))
}
