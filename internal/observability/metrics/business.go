package metrics

// Result labels shared by the dashboard counters.
const (
	ResultSuccess   = "success"
	ResultFailure   = "failure"
	ResultStale     = "stale"
	ResultFound     = "found"
	ResultGenerated = "generated"
)

func resultOf(success bool) string {
	if success {
		return ResultSuccess
	}
	return ResultFailure
}

// RecordFeedLoad records the outcome of an article feed load.
func RecordFeedLoad(result string) {
	FeedLoadsTotal.WithLabelValues(result).Inc()
}

// RecordFactCheck records a fact-check request on an article or paper.
func RecordFactCheck(target string, success bool) {
	FactChecksTotal.WithLabelValues(target, resultOf(success)).Inc()
}

// RecordPaperLoad records how a paper load resolved.
func RecordPaperLoad(result string) {
	PaperLoadsTotal.WithLabelValues(result).Inc()
}

// RecordSourceChange records a source add, remove or refresh request.
func RecordSourceChange(action string, success bool) {
	SourceChangesTotal.WithLabelValues(action, resultOf(success)).Inc()
}

// RecordSwipe records a classified swipe gesture.
// Direction should be "advance", "retreat" or "none".
func RecordSwipe(direction string) {
	SwipesTotal.WithLabelValues(direction).Inc()
}

// UpdateSourcesKnown updates the size of the loaded sources list.
func UpdateSourcesKnown(count int) {
	SourcesKnown.Set(float64(count))
}
