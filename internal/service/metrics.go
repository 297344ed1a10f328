package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "order_store",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total number of order lookups served from the cache.",
	})

	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "order_store",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total number of order lookups that went to the database.",
	})
)
