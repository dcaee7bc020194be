package challenge

import (
	"fmt"
	"time"
)

// StarterCatalog returns the fixed fallback set: three non-personalized
// challenges served when a user has no history or when generation fails.
// Content is stable; only the synthesized ids and createdAt vary per call.
// Keep titles and difficulty order stable — tests and clients rely on them.
func StarterCatalog(now time.Time) []Challenge {
	createdAt := now.UTC().Format(time.RFC3339)

	catalog := []Challenge{
		{
			Title:             "Build Your Foundation",
			Description:       "Train at least three times this week and log every session. Consistency on the mat beats intensity — the goal is simply to show up and write it down.",
			Difficulty:        DifficultyBeginner,
			FocusAreas:        []string{"consistency", "fundamentals"},
			EstimatedDuration: "1 week",
		},
		{
			Title:             "Quality Over Quantity",
			Description:       "Pick one technique and drill it deliberately in each of your next five sessions. Rate your quality honestly afterward and note what changed.",
			Difficulty:        DifficultyBeginner,
			FocusAreas:        []string{"technique", "deliberate practice"},
			EstimatedDuration: "2 weeks",
		},
		{
			Title:             "Explore & Experiment",
			Description:       "Work a position or style you normally avoid in at least two sessions. Losing exchanges in unfamiliar territory is how your game grows.",
			Difficulty:        DifficultyIntermediate,
			FocusAreas:        []string{"breadth", "experimentation"},
			EstimatedDuration: "2 weeks",
		},
	}

	for i := range catalog {
		catalog[i].ID = syntheticID(now, i)
		catalog[i].CreatedAt = createdAt
	}
	return catalog
}

// syntheticID builds a request-scoped challenge key. Not a content hash:
// repeated identical generations produce different ids.
func syntheticID(now time.Time, idx int) string {
	return fmt.Sprintf("challenge-%d-%d", now.UnixMilli(), idx)
}
