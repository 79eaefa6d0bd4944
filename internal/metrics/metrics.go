// file: internal/metrics/metrics.go
// version: 2.0.0
// guid: 9f8e7d6c-5b4a-3210-9fed-cba876543210

package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	cacheHits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pokedex",
		Name:      "cache_hits_total",
		Help:      "Total number of cache reads that returned a live entry, by key prefix",
	}, []string{"prefix"})
	cacheMisses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pokedex",
		Name:      "cache_misses_total",
		Help:      "Total number of cache reads that found nothing, by key prefix",
	}, []string{"prefix"})
	cacheExpired = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pokedex",
		Name:      "cache_expired_total",
		Help:      "Total number of entries evicted on read because they outlived the TTL",
	}, []string{"prefix"})
	cacheCorrupt = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pokedex",
		Name:      "cache_corrupt_total",
		Help:      "Total number of entries removed because they could not be parsed",
	}, []string{"prefix"})

	fetchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pokedex",
		Name:      "fetch_requests_total",
		Help:      "Total number of upstream API requests by resource and outcome",
	}, []string{"resource", "outcome"})
	fetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "pokedex",
		Name:      "fetch_duration_seconds",
		Help:      "Histogram of upstream API request durations in seconds by resource",
		Buckets:   prometheus.ExponentialBuckets(0.05, 1.6, 10),
	}, []string{"resource"})

	historyGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "pokedex",
		Name:      "history_entries",
		Help:      "Current number of entries in the search history",
	})
	favoritesGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "pokedex",
		Name:      "favorites_entries",
		Help:      "Current number of favorited creatures",
	})
)

// Register initializes metrics with the global Prometheus registry (idempotent)
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(cacheHits, cacheMisses, cacheExpired, cacheCorrupt,
			fetchTotal, fetchDuration, historyGauge, favoritesGauge)
	})
}

// Cache helpers
func IncCacheHit(prefix string)     { cacheHits.WithLabelValues(prefix).Inc() }
func IncCacheMiss(prefix string)    { cacheMisses.WithLabelValues(prefix).Inc() }
func IncCacheExpired(prefix string) { cacheExpired.WithLabelValues(prefix).Inc() }
func IncCacheCorrupt(prefix string) { cacheCorrupt.WithLabelValues(prefix).Inc() }

// Fetch helpers
func IncFetch(resource, outcome string) { fetchTotal.WithLabelValues(resource, outcome).Inc() }
func ObserveFetchDuration(resource string, d time.Duration) {
	fetchDuration.WithLabelValues(resource).Observe(d.Seconds())
}

// Gauges
func SetHistory(n int)   { historyGauge.Set(float64(n)) }
func SetFavorites(n int) { favoritesGauge.Set(float64(n)) }
