package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the Prometheus metrics for one process. Each collector owns
// its registry so tests can create as many as they like.
type Collector struct {
	registry  *prometheus.Registry
	namespace string

	UpstreamRequests *prometheus.CounterVec
	UpstreamDuration prometheus.Histogram
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
	CacheEvictions   *prometheus.CounterVec
	Summaries        *prometheus.CounterVec
	PipelineRuns     *prometheus.CounterVec
	PipelineDuration prometheus.Histogram
	HTTPRequests     *prometheus.CounterVec
}

func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry:  prometheus.NewRegistry(),
		namespace: namespace,
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "string_requests_total",
			Help:      "Requests sent to the STRING API by outcome.",
		}, []string{"outcome"}),
		UpstreamDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "string_request_duration_seconds",
			Help:      "STRING API request latency.",
			Buckets:   prometheus.DefBuckets,
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_cache_hits_total",
			Help:      "Interaction queries answered from the cache.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_cache_misses_total",
			Help:      "Interaction queries that missed the cache.",
		}),
		CacheEvictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_cache_evictions_total",
			Help:      "Cache entries dropped, by reason.",
		}, []string{"reason"}),
		Summaries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summaries_total",
			Help:      "Summary generations by outcome.",
		}, []string{"outcome"}),
		PipelineRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_runs_total",
			Help:      "Pipeline runs by final stage reached.",
		}, []string{"stage"}),
		PipelineDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_duration_seconds",
			Help:      "End-to-end pipeline duration.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served by route and status.",
		}, []string{"method", "route", "status"}),
	}

	c.registry.MustRegister(
		c.UpstreamRequests,
		c.UpstreamDuration,
		c.CacheHits,
		c.CacheMisses,
		c.CacheEvictions,
		c.Summaries,
		c.PipelineRuns,
		c.PipelineDuration,
		c.HTTPRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) ObserveUpstream(outcome string, d time.Duration) {
	if c == nil {
		return
	}
	c.UpstreamRequests.WithLabelValues(outcome).Inc()
	c.UpstreamDuration.Observe(d.Seconds())
}

func (c *Collector) ObserveCache(hit bool) {
	if c == nil {
		return
	}
	if hit {
		c.CacheHits.Inc()
	} else {
		c.CacheMisses.Inc()
	}
}

func (c *Collector) ObserveCacheEviction(reason string) {
	if c == nil {
		return
	}
	c.CacheEvictions.WithLabelValues(reason).Inc()
}

// WatchCacheSize exports size as the query cache entry gauge. Call it once
// per collector.
func (c *Collector) WatchCacheSize(size func() int) {
	if c == nil {
		return
	}
	c.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: c.namespace,
		Name:      "query_cache_entries",
		Help:      "Entries currently held by the query cache, expired ones included until dropped.",
	}, func() float64 { return float64(size()) }))
}

func (c *Collector) ObserveSummary(outcome string) {
	if c == nil {
		return
	}
	c.Summaries.WithLabelValues(outcome).Inc()
}

func (c *Collector) ObservePipeline(stage string, d time.Duration) {
	if c == nil {
		return
	}
	c.PipelineRuns.WithLabelValues(stage).Inc()
	c.PipelineDuration.Observe(d.Seconds())
}

func (c *Collector) ObserveHTTP(method, route string, status int) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
