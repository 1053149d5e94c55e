package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the service's Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "jobboard",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jobboard",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jobboard",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "route"},
	)

	applicationsSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jobboard",
			Subsystem: "applications",
			Name:      "submitted_total",
			Help:      "Successful applies, split by first submission and reapply.",
		},
		[]string{"kind"},
	)

	applicationTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jobboard",
			Subsystem: "applications",
			Name:      "status_transitions_total",
			Help:      "Company decisions by target status.",
		},
		[]string{"status"},
	)

	applicationWithdrawals = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "jobboard",
			Subsystem: "applications",
			Name:      "withdrawals_total",
			Help:      "Applications withdrawn by their applicant.",
		},
	)

	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jobboard",
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Search cache lookups by result.",
		},
		[]string{"result"},
	)

	liveClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "jobboard",
			Subsystem: "live",
			Name:      "clients",
			Help:      "Connected live-query clients.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		applicationsSubmitted,
		applicationTransitions,
		applicationWithdrawals,
		cacheLookups,
		liveClients,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler exposes the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func RequestStarted() {
	httpInFlight.Inc()
}

// RecordRequest closes a request opened with RequestStarted. route is the
// matched route pattern, never the raw path.
func RecordRequest(method, route string, status int, duration time.Duration) {
	httpInFlight.Dec()
	if route == "" {
		route = "unmatched"
	}
	method = strings.ToUpper(method)
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordApplicationSubmitted(reapply bool) {
	kind := "new"
	if reapply {
		kind = "reapply"
	}
	applicationsSubmitted.WithLabelValues(kind).Inc()
}

func RecordStatusTransition(status string) {
	applicationTransitions.WithLabelValues(status).Inc()
}

func RecordWithdrawal() {
	applicationWithdrawals.Inc()
}

func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookups.WithLabelValues(result).Inc()
}

func SetLiveClients(n int) {
	liveClients.Set(float64(n))
}
