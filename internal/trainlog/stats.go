package trainlog

import "sort"

// DefaultRecentLimit is how many recent sessions Aggregate narrates when
// the caller passes limit <= 0.
const DefaultRecentLimit = 10

// TagCount is one entry of the tag frequency ranking.
type TagCount struct {
	Tag   string
	Count int
}

// Stats holds the aggregate view of a session history.
type Stats struct {
	TotalSessions int
	TotalHours    float64

	// AverageQuality is 0 when TotalSessions is 0. The division is
	// guarded here so no caller ever sees NaN.
	AverageQuality float64

	// TagFrequency ranks every tag across ALL sessions (not just the
	// recent subset), count descending, ties broken by first-seen order.
	TagFrequency []TagCount

	// Recent is the newest-first subset selected for detailed narration.
	Recent []SessionRecord
}

// Aggregate computes statistics over an ordered (newest-first) session
// list. It is a pure function.
func Aggregate(sessions []SessionRecord, limit int) Stats {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	st := Stats{
		TotalSessions: len(sessions),
		TagFrequency:  TagFrequency(sessions, 0),
	}

	var qualitySum float64
	for _, s := range sessions {
		st.TotalHours += ParseNumber(s.DurationHours)
		qualitySum += ParseNumber(s.QualityLevel)
	}
	if st.TotalSessions > 0 {
		st.AverageQuality = qualitySum / float64(st.TotalSessions)
	}

	if len(sessions) > limit {
		sessions = sessions[:limit]
	}
	st.Recent = sessions

	return st
}

// TagFrequency counts tag occurrences across all sessions and ranks them
// count descending with a stable first-seen tie-break. topN truncates the
// ranking; topN <= 0 returns the full ranking.
func TagFrequency(sessions []SessionRecord, topN int) []TagCount {
	counts := make(map[string]int)
	var order []string

	for _, s := range sessions {
		for _, tag := range s.Tags {
			if _, seen := counts[tag]; !seen {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}

	ranking := make([]TagCount, 0, len(order))
	for _, tag := range order {
		ranking = append(ranking, TagCount{Tag: tag, Count: counts[tag]})
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Count > ranking[j].Count
	})

	if topN > 0 && len(ranking) > topN {
		ranking = ranking[:topN]
	}
	return ranking
}
