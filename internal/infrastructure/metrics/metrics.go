package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the prometheus instruments for the service. A nil *Metrics
// is valid everywhere; the Inc helpers become no-ops, which keeps tests and
// optional wiring free of registration concerns.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	LatestRequestsTotal     prometheus.Counter
	ConversionRequestsTotal prometheus.Counter
	HistoricalRequestsTotal prometheus.Counter

	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter

	ProviderCallsTotal    prometheus.Counter
	ProviderFailuresTotal prometheus.Counter
}

// NewMetrics registers the service metrics with the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"path", "method", "status_code"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),

		LatestRequestsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "latest_rate_requests_total",
				Help: "Total number of latest exchange rate requests",
			},
		),

		ConversionRequestsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "conversion_requests_total",
				Help: "Total number of currency conversion requests",
			},
		),

		HistoricalRequestsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "historical_requests_total",
				Help: "Total number of historical exchange rate requests",
			},
		),

		CacheHitsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "rate_cache_hits_total",
				Help: "Total number of rate cache hits",
			},
		),

		CacheMissesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "rate_cache_misses_total",
				Help: "Total number of rate cache misses",
			},
		),

		ProviderCallsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "provider_calls_total",
				Help: "Total number of upstream provider calls attempted",
			},
		),

		ProviderFailuresTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "provider_failures_total",
				Help: "Total number of upstream provider calls that failed",
			},
		),
	}
}

// IncLatest counts one latest-rate request.
func (m *Metrics) IncLatest() {
	if m != nil {
		m.LatestRequestsTotal.Inc()
	}
}

// IncConversion counts one conversion request.
func (m *Metrics) IncConversion() {
	if m != nil {
		m.ConversionRequestsTotal.Inc()
	}
}

// IncHistorical counts one historical request.
func (m *Metrics) IncHistorical() {
	if m != nil {
		m.HistoricalRequestsTotal.Inc()
	}
}

// IncCacheHit counts one rate cache hit.
func (m *Metrics) IncCacheHit() {
	if m != nil {
		m.CacheHitsTotal.Inc()
	}
}

// IncCacheMiss counts one rate cache miss.
func (m *Metrics) IncCacheMiss() {
	if m != nil {
		m.CacheMissesTotal.Inc()
	}
}

// IncProviderCall counts one attempted upstream call.
func (m *Metrics) IncProviderCall() {
	if m != nil {
		m.ProviderCallsTotal.Inc()
	}
}

// IncProviderFailure counts one failed upstream call.
func (m *Metrics) IncProviderFailure() {
	if m != nil {
		m.ProviderFailuresTotal.Inc()
	}
}
