package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

var (
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	ActiveSessions      prometheus.Gauge
	ViewCacheRequests   *prometheus.CounterVec

	SearchesTotal   *prometheus.CounterVec
	PagesTotal      *prometheus.CounterVec
	PageDuration    *prometheus.HistogramVec
	RecordsExported *prometheus.CounterVec

	initOnce sync.Once
)

// Init registers all collectors with the default registry. Safe to call more than once.
func Init() {
	initOnce.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dashboard_sessions_active",
			Help: "Current number of dashboard sessions holding a dataset copy.",
		},
	)

	ViewCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_view_cache_requests_total",
			Help: "View cache lookups by result.",
		},
		[]string{"result"}, // hit, miss, error
	)

	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_searches_total",
			Help: "Keyword searches by outcome.",
		},
		[]string{"status"}, // success, failure
	)

	PagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_pages_total",
			Help: "Detail page extractions by outcome.",
		},
		[]string{"status", "error_type"},
	)

	PageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scraper_page_duration_seconds",
			Help:    "Duration of browser operations.",
			Buckets: []float64{1, 2, 5, 10, 15, 30, 60},
		},
		[]string{"stage"}, // search, page
	)

	RecordsExported = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_records_exported_total",
			Help: "Records written per partition.",
		},
		[]string{"partition"}, // with_fee, no_fee
	)
}

// Push sends everything in the default registry to a Prometheus Pushgateway.
func Push(gatewayURL, job string) error {
	return push.New(gatewayURL, job).
		Gatherer(prometheus.DefaultGatherer).
		Push()
}
