package common

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects the counters the services and the HTTP layer report.
type Metrics struct {
	httpRequests *prometheus.CounterVec
	cacheHits    prometheus.Counter
	cacheMisses  prometheus.Counter
	blogReads    prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chapterpress_http_requests_total",
			Help: "Number of HTTP responses by status code.",
		}, []string{"status_code"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chapterpress_listing_cache_hits_total",
			Help: "Number of blog listing requests served from the cache.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chapterpress_listing_cache_misses_total",
			Help: "Number of blog listing requests that fell through to the database.",
		}),
		blogReads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chapterpress_blog_reads_total",
			Help: "Number of single published blog fetches.",
		}),
	}

	reg.MustRegister(
		m.httpRequests,
		m.cacheHits,
		m.cacheMisses,
		m.blogReads,
	)

	return m
}

func (m *Metrics) RecordHTTPRequest(statusCode int) {
	m.httpRequests.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

func (m *Metrics) RecordCacheHit() {
	m.cacheHits.Inc()
}

func (m *Metrics) RecordCacheMiss() {
	m.cacheMisses.Inc()
}

func (m *Metrics) RecordBlogRead() {
	m.blogReads.Inc()
}

// MetricsHandler returns the scrape endpoint for the given registry.
func MetricsHandler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
