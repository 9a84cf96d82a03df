package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "newsboard"

var (
	// DBQueries считает запросы к БД по операции и результату (ok / error).
	DBQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "db",
		Name:      "queries_total",
		Help:      "Number of database operations by operation and status.",
	}, []string{"op", "status"})

	// DBQueryDuration — время выполнения запросов к БД.
	DBQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "db",
		Name:      "query_duration_seconds",
		Help:      "Database operation latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"op"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Number of HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// FeedItemsImported — количество новостей, сохранённых из RSS-лент.
	FeedItemsImported = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "feeds",
		Name:      "items_imported_total",
		Help:      "Number of news items imported from feeds.",
	})

	FeedErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "feeds",
		Name:      "errors_total",
		Help:      "Number of failed feed imports.",
	})
)

// ObserveQuery фиксирует одну операцию с БД.
func ObserveQuery(op string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	DBQueries.WithLabelValues(op, status).Inc()
	DBQueryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
