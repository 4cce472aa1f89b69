// Package metrics owns the prometheus registry and the collectors trendlens exports
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	perr "trendlens/internal/platform/errors"
	"trendlens/internal/platform/store/pg"
)

const namespace = "trendlens"

// Metrics groups every collector. A nil *Metrics is a valid no-op sink
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	analysisDuration *prometheus.HistogramVec
	analysisEntities *prometheus.GaugeVec

	sourceLoads    *prometheus.CounterVec
	sourceDuration *prometheus.HistogramVec
	sourceRows     *prometheus.GaugeVec
	cacheLookups   *prometheus.CounterVec

	relayRequests *prometheus.CounterVec
	relayDuration prometheus.Histogram

	pgQueries  *prometheus.CounterVec
	pgDuration prometheus.Histogram
}

// New builds the collectors on a fresh registry, with the go and process collectors
func New() (*Metrics, error) {
	reg := prometheus.NewRegistry()
	m := &Metrics{registry: reg}
	m.init()
	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) init() {
	m.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route pattern and status code",
	}, []string{"method", "route", "status_code"})
	m.httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// analyses run from sub millisecond on small uploads to seconds on full history
	m.analysisDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "analysis_duration_seconds",
		Help:      "Time spent in one analysis",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
	}, []string{"kind"})
	m.analysisEntities = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "analysis_entities",
		Help:      "Entities classified by the last analysis",
	}, []string{"kind"})

	m.sourceLoads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "source_loads_total",
		Help:      "Raw source loads by source, backend and result",
	}, []string{"source", "backend", "result"})
	m.sourceDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "source_load_duration_seconds",
		Help:      "Time spent loading one raw source",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
	}, []string{"source", "backend"})
	m.sourceRows = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "source_rows",
		Help:      "Rows held for each source after the last load",
	}, []string{"source"})
	m.cacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "source_cache_lookups_total",
		Help:      "Raw load cache lookups by result",
	}, []string{"result"})

	m.relayRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "relay_requests_total",
		Help:      "Chat relay attempts by outcome",
	}, []string{"outcome"})
	m.relayDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "relay_request_duration_seconds",
		Help:      "Chat relay latency including retries",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
	})

	m.pgQueries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pg_queries_total",
		Help:      "Postgres statements by result",
	}, []string{"result"})
	m.pgDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "pg_query_duration_seconds",
		Help:      "Postgres statement latency, scan included",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
	})
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.httpRequests, m.httpDuration,
		m.analysisDuration, m.analysisEntities,
		m.sourceLoads, m.sourceDuration, m.sourceRows, m.cacheLookups,
		m.relayRequests, m.relayDuration,
		m.pgQueries, m.pgDuration,
	}
}

// Describe implements prometheus.Collector
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	for _, c := range m.collectors() {
		c.Describe(ch)
	}
}

// Collect implements prometheus.Collector
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	for _, c := range m.collectors() {
		c.Collect(ch)
	}
}

// Handler serves the registry in the exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
		Registry:      m.registry,
	})
}

// ObserveHTTP records one finished request, it matches middleware.Observer
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveAnalysis records one analysis of kind (trajectory, search, content)
func (m *Metrics) ObserveAnalysis(kind string, entities int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.analysisDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
	m.analysisEntities.WithLabelValues(kind).Set(float64(entities))
}

// ObserveLoad records one raw load; result is "ok" or the error code name
func (m *Metrics) ObserveLoad(source, backend string, rows int, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = perr.CodeOf(err).String()
	} else {
		m.sourceRows.WithLabelValues(source).Set(float64(rows))
	}
	m.sourceLoads.WithLabelValues(source, backend, result).Inc()
	m.sourceDuration.WithLabelValues(source, backend).Observe(elapsed.Seconds())
}

// CacheLookup counts a raw load cache lookup: hit, miss or shared
func (m *Metrics) CacheLookup(result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// ObserveRelay records one chat relay call by outcome (ok, retry, error)
func (m *Metrics) ObserveRelay(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.relayRequests.WithLabelValues(outcome).Inc()
	if outcome != "retry" {
		m.relayDuration.Observe(elapsed.Seconds())
	}
}

// PGTracer feeds postgres statement timings into the registry
func (m *Metrics) PGTracer() pg.QueryTracer {
	if m == nil {
		return nil
	}
	return pg.TracerFunc(func(_ context.Context, ev pg.QueryEvent) {
		result := "ok"
		if ev.Err != nil {
			result = "error"
		}
		m.pgQueries.WithLabelValues(result).Inc()
		m.pgDuration.Observe(ev.Elapsed.Seconds())
	})
}
