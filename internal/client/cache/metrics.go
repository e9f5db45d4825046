package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ministry_query_cache_hits_total",
		Help: "Reads answered from the query cache, fresh or stale.",
	}, []string{"entity", "freshness"})
	cacheMissesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ministry_query_cache_misses_total",
		Help: "Reads that had to wait for the network.",
	}, []string{"entity"})
	fetchErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ministry_query_fetch_errors_total",
		Help: "Failed fetches, including retried attempts.",
	}, []string{"entity"})
)
