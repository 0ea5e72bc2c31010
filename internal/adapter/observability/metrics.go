package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"route", "method"},
	)

	AIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_requests_total",
			Help: "Total number of AI requests by provider and operation",
		},
		[]string{"provider", "operation"},
	)
	AIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_request_duration_seconds",
			Help:    "AI request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"provider", "operation"},
	)

	AnalysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillmap_analyses_total",
			Help: "Total number of syllabus analyses by primary detection source",
		},
		[]string{"source"},
	)
	AgentOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillmap_agent_outcomes_total",
			Help: "Concept-mapping agent outcomes (ok, empty, malformed, error, timeout, open_circuit, cache_hit)",
		},
		[]string{"outcome"},
	)
	DetectedSkillsHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "skillmap_detected_skills",
			Help:    "Distribution of detected skill counts per analysis",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
	)
	TaxonomyRoles = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "skillmap_taxonomy_roles",
			Help: "Number of roles in the loaded taxonomy",
		},
	)
)

var registerOnce sync.Once

// InitMetrics registers the collectors with the default registry. Safe to call more than once.
func InitMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(HTTPRequestsTotal)
		prometheus.MustRegister(HTTPRequestDuration)
		prometheus.MustRegister(AIRequestsTotal)
		prometheus.MustRegister(AIRequestDuration)
		prometheus.MustRegister(AnalysesTotal)
		prometheus.MustRegister(AgentOutcomesTotal)
		prometheus.MustRegister(DetectedSkillsHistogram)
		prometheus.MustRegister(TaxonomyRoles)
	})
}

// HTTPMetricsMiddleware records Prometheus metrics for each request.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		dur := time.Since(start).Seconds()
		// Route pattern may be unavailable outside chi router; guard nil
		var route string
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			route = r.URL.Path
		}
		HTTPRequestsTotal.WithLabelValues(route, r.Method, http.StatusText(ww.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(dur)
	})
}

// ObserveAIRequest records one provider call.
func ObserveAIRequest(provider, operation string, d time.Duration) {
	AIRequestsTotal.WithLabelValues(provider, operation).Inc()
	AIRequestDuration.WithLabelValues(provider, operation).Observe(d.Seconds())
}

// ObserveAnalysis records a finished analysis.
func ObserveAnalysis(source string, detected int) {
	AnalysesTotal.WithLabelValues(source).Inc()
	if detected >= 0 {
		DetectedSkillsHistogram.Observe(float64(detected))
	}
}

// AgentOutcome counts one concept-mapping agent outcome.
func AgentOutcome(outcome string) {
	AgentOutcomesTotal.WithLabelValues(outcome).Inc()
}

// SetTaxonomyRoles publishes the loaded taxonomy size.
func SetTaxonomyRoles(n int) {
	TaxonomyRoles.Set(float64(n))
}
