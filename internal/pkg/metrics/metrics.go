package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricPrefix = "statement_engine_"

var (
	GenerationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: metricPrefix + "generations_total",
		Help: "Statement generations by statement code and result",
	}, []string{"statement_code", "result"})

	GenerationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    metricPrefix + "generation_duration_seconds",
		Help:    "End-to-end statement generation duration",
		Buckets: prometheus.DefBuckets,
	}, []string{"statement_code"})

	CacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: metricPrefix + "cache_hits_total",
		Help: "Statement cache hits",
	})

	CacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: metricPrefix + "cache_misses_total",
		Help: "Statement cache misses",
	})

	UnmappedActivitiesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: metricPrefix + "unmapped_activities_total",
		Help: "Activity records matching no event mapping",
	}, []string{"statement_code"})

	EvaluationWarningsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: metricPrefix + "evaluation_warnings_total",
		Help: "Soft conditions met during formula evaluation",
	}, []string{"kind"})
)
