package feed

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	FeedBuildsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_builds_total",
			Help: "Feed builds by outcome (primary, fallback, exhausted, error, stale).",
		},
		[]string{"outcome"},
	)

	FeedSwipesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_swipes_total",
			Help: "Swipe decisions by decision and result.",
		},
		[]string{"decision", "result"},
	)

	FeedUndoTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_undo_total",
			Help: "Undo requests by result.",
		},
		[]string{"result"},
	)

	FeedContextDegradedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_ranking_context_degraded_total",
			Help: "Ranking signals that fell back to their neutral value.",
		},
		[]string{"signal"},
	)

	FeedCandidatesServed = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feed_candidates_per_build",
			Help:    "Number of candidates installed per feed build.",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100, 200},
		},
	)
)

func init() {
	prometheus.MustRegister(
		FeedBuildsTotal,
		FeedSwipesTotal,
		FeedUndoTotal,
		FeedContextDegradedTotal,
		FeedCandidatesServed,
	)
}
