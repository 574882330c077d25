package metrics

import (
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Reservation outcomes.
const (
	OutcomeReserved = "reserved"
	OutcomeConflict = "conflict"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "obsplan_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "obsplan_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	planRunsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "obsplan_plan_runs_total",
			Help: "Total number of planning runs.",
		},
	)

	planDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "obsplan_plan_duration_seconds",
			Help:    "Duration of a planning run in seconds.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	targetsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "obsplan_targets_total",
			Help: "Targets evaluated, by category and result status.",
		},
		[]string{"category", "status"},
	)

	samplingDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "obsplan_target_sampling_seconds",
			Help:    "Time to compute one day of samples for a target.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"category"},
	)

	windowsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "obsplan_windows_total",
			Help: "Observability windows reported.",
		},
	)

	overnightMergesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "obsplan_overnight_merges_total",
			Help: "Windows joined across midnight.",
		},
	)

	reservationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "obsplan_reservations_total",
			Help: "Plan reservations by outcome.",
		},
		[]string{"outcome"},
	)

	catalogLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "obsplan_catalog_lookups_total",
			Help: "Catalog name lookups by source and result.",
		},
		[]string{"source", "result"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpDurationSeconds)
	prometheus.MustRegister(planRunsTotal)
	prometheus.MustRegister(planDurationSeconds)
	prometheus.MustRegister(targetsTotal)
	prometheus.MustRegister(samplingDurationSeconds)
	prometheus.MustRegister(windowsTotal)
	prometheus.MustRegister(overnightMergesTotal)
	prometheus.MustRegister(reservationsTotal)
	prometheus.MustRegister(catalogLookupsTotal)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// WriteTextfile writes every registered metric to path in the text
// exposition format, for node_exporter's textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}

// RecordPlanRun records one planning run.
func RecordPlanRun(d time.Duration) {
	planRunsTotal.Inc()
	planDurationSeconds.Observe(d.Seconds())
}

// RecordTarget records the outcome of one target and how long sampling took.
func RecordTarget(category, status string, sampling time.Duration, windows int, merged bool) {
	targetsTotal.WithLabelValues(category, status).Inc()
	if sampling > 0 {
		samplingDurationSeconds.WithLabelValues(category).Observe(sampling.Seconds())
	}
	windowsTotal.Add(float64(windows))
	if merged {
		overnightMergesTotal.Inc()
	}
}

// RecordReservation counts a reservation attempt.
func RecordReservation(outcome string) {
	reservationsTotal.WithLabelValues(outcome).Inc()
}

// RecordCatalogLookup counts a catalog lookup answered (or not) by source.
func RecordCatalogLookup(source string, found bool) {
	result := "miss"
	if found {
		result = "hit"
	}
	catalogLookupsTotal.WithLabelValues(source, result).Inc()
}

// knownRoutes are the fixed paths served by the API.
var knownRoutes = map[string]bool{
	"/":               true,
	"/healthz":        true,
	"/readyz":         true,
	"/metrics":        true,
	"/api/v1/site":    true,
	"/api/v1/windows": true,
	"/api/v1/plan":    true,
}

var chartRoute = regexp.MustCompile(`^/api/v1/chart/\d{4}\.\d{2}\.\d{2}$`)

// normalizeRoute maps a request path to a bounded label set so arbitrary
// paths cannot blow up metric cardinality.
func normalizeRoute(path string) string {
	if knownRoutes[path] {
		return path
	}
	if chartRoute.MatchString(path) {
		return "/api/v1/chart/{date}"
	}
	return "other"
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and duration for each request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		code := strconv.Itoa(rw.statusCode)
		route := normalizeRoute(r.URL.Path)

		httpRequestsTotal.WithLabelValues(route, r.Method, code).Inc()
		httpDurationSeconds.WithLabelValues(route, r.Method).Observe(duration)
	})
}
