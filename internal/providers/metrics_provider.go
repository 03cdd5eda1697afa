package providers

import (
	"plantao/internal/store"
	"plantao/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(duration time.Duration)
	IncReadOutcome(outcome string)
	IncWrites(result string)
	IncRateLimited()
}

// RecordStatter is the part of the record store the file gauges need.
type RecordStatter interface {
	Stat() (store.FileVersion, bool)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration prometheus.Histogram
	readOutcomes        *prometheus.CounterVec
	writesTotal         *prometheus.CounterVec
	rateLimited         prometheus.Counter
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncReadOutcome(outcome string) {
	m.readOutcomes.WithLabelValues(outcome).Inc()
}

func (m *MetricsProvider) IncWrites(result string) {
	m.writesTotal.WithLabelValues(result).Inc()
}

func (m *MetricsProvider) IncRateLimited() {
	m.rateLimited.Inc()
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config, records RecordStatter) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	factory := promauto.With(prometheus.DefaultRegisterer)

	m := &MetricsProvider{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "plantao_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "plantao_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "plantao_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "plantao_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		persistenceDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "plantao_persistence_duration_seconds",
			Help:    "Duration of record writes in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		readOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "plantao_record_reads_total",
			Help: "Record reads by outcome (ok, missing, corrupt)",
		}, []string{"outcome"}),

		writesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "plantao_record_writes_total",
			Help: "Record writes by result",
		}, []string{"result"}),

		rateLimited: factory.NewCounter(prometheus.CounterOpts{
			Name: "plantao_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		}),
	}

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "plantao_record_file_bytes",
		Help: "Size of the record file, 0 when absent",
	}, func() float64 {
		v, ok := records.Stat()
		if !ok {
			return 0
		}
		return float64(v.Size)
	})

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "plantao_record_modified_timestamp_seconds",
		Help: "Last modification time of the record file",
	}, func() float64 {
		v, ok := records.Stat()
		if !ok {
			return 0
		}
		return float64(v.ModTime.UnixNano()) / 1e9
	})

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) IncReadOutcome(_ string)                          {}
func (n *noopMetrics) IncWrites(_ string)                               {}
func (n *noopMetrics) IncRateLimited()                                  {}
