package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Dashboard metrics track what users do through the web and terminal dashboards.
// HTTP-level metrics live with the HTTP middleware; API call metrics live with the API client.
var (
	// FeedLoadsTotal counts article feed loads by result (success|failure|stale)
	FeedLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_loads_total",
			Help: "Total number of article feed loads",
		},
		[]string{"result"},
	)

	// FactChecksTotal counts fact-check requests by target (article|paper) and result
	FactChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fact_checks_total",
			Help: "Total number of fact-check requests",
		},
		[]string{"target", "result"},
	)

	// PaperLoadsTotal counts paper loads by how they resolved (found|generated|failure|stale)
	PaperLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paper_loads_total",
			Help: "Total number of paper loads",
		},
		[]string{"result"},
	)

	// SourceChangesTotal counts source mutations by action (add|remove|refresh) and result
	SourceChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_changes_total",
			Help: "Total number of source add/remove/refresh requests",
		},
		[]string{"action", "result"},
	)

	// SwipesTotal counts classified swipe gestures on the sources grid
	SwipesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_swipes_total",
			Help: "Total number of swipe gestures on the sources grid",
		},
		[]string{"direction"},
	)

	// SourcesKnown tracks the size of the most recently loaded sources list
	SourcesKnown = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sources_known",
			Help: "Number of sources in the most recently loaded list",
		},
	)
)
