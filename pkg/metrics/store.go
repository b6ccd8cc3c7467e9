package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	StoreQueryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "store_query_duration_seconds",
		Help:    "Latency of store queries issued by the feed",
		Buckets: prometheus.DefBuckets,
	}, []string{"store", "operation", "status"})

	StoreQueryTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "store_query_total",
		Help: "Store queries issued by the feed",
	}, []string{"store", "operation", "status"})
)

func Init() {
	prometheus.MustRegister(StoreQueryDuration, StoreQueryTotal)
}

// ObserveStoreQuery records duration and outcome of one store call.
func ObserveStoreQuery(store, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	StoreQueryDuration.WithLabelValues(store, operation, status).Observe(time.Since(start).Seconds())
	StoreQueryTotal.WithLabelValues(store, operation, status).Inc()
}
