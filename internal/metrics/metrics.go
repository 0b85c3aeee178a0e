// Package metrics exposes Prometheus collectors for feed paging and
// engagement activity.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "moments"

// Metrics owns a private registry so tests can create independent instances
type Metrics struct {
	registry *prometheus.Registry

	pageFetches     *prometheus.CounterVec
	pageFetchTime   prometheus.Histogram
	likeToggles     *prometheus.CounterVec
	commentsAdded   prometheus.Counter
	postsCreated    prometheus.Counter
	httpRequests    *prometheus.CounterVec
	httpRequestTime *prometheus.HistogramVec
}

// New registers all collectors plus the Go and process collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		pageFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_page_fetches_total",
			Help:      "Feed page fetches by outcome.",
		}, []string{"outcome"}),
		pageFetchTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "feed_page_fetch_seconds",
			Help:      "Time spent fetching one feed page.",
			Buckets:   prometheus.DefBuckets,
		}),
		likeToggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "like_toggles_total",
			Help:      "Like toggles by resulting state.",
		}, []string{"state"}),
		commentsAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "comments_recorded_total",
			Help:      "Comments submitted to local threads.",
		}),
		postsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "posts_created_total",
			Help:      "Posts appended to the post store.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"method", "route", "status"}),
		httpRequestTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.pageFetches,
		m.pageFetchTime,
		m.likeToggles,
		m.commentsAdded,
		m.postsCreated,
		m.httpRequests,
		m.httpRequestTime,
	)
	return m
}

// PageFetched records one feed page fetch
func (m *Metrics) PageFetched(page int, elapsed time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.pageFetches.WithLabelValues(outcome).Inc()
	m.pageFetchTime.Observe(elapsed.Seconds())
}

// LikeToggled records a like toggle
func (m *Metrics) LikeToggled(liked bool) {
	state := "unliked"
	if liked {
		state = "liked"
	}
	m.likeToggles.WithLabelValues(state).Inc()
}

// CommentRecorded records a submitted comment
func (m *Metrics) CommentRecorded() {
	m.commentsAdded.Inc()
}

// PostCreated records a created post
func (m *Metrics) PostCreated() {
	m.postsCreated.Inc()
}

// ObserveRequest records one HTTP request
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestTime.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
