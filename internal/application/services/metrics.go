package services

import "github.com/prometheus/client_golang/prometheus"

var cacheOperationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "cache_operations_total",
		Help: "Cache operations by operation (get, set, invalidate) and result (hit, miss, ok, error)",
	},
	[]string{"operation", "result"},
)

func init() {
	prometheus.MustRegister(cacheOperationsTotal)
}
