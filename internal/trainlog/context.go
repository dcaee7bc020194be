package trainlog

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxNoteChars is where session notes are cut in the rendered context.
const maxNoteChars = 150

// BuildContext renders a bounded text summary of a session history for
// prompt construction: aggregate figures, the top-5 tag ranking, then a
// numbered newest-first narration of up to limit sessions. Deterministic
// and side-effect-free.
func BuildContext(sessions []SessionRecord, limit int) string {
	st := Aggregate(sessions, limit)

	var b strings.Builder

	b.WriteString("Training history summary:\n")
	fmt.Fprintf(&b, "totalSessions: %d\n", st.TotalSessions)
	fmt.Fprintf(&b, "totalHours: %.1f\n", st.TotalHours)
	fmt.Fprintf(&b, "averageQuality: %.1f\n", st.AverageQuality)

	b.WriteString("Most trained areas: ")
	b.WriteString(formatTagRanking(TagFrequency(sessions, 5)))
	b.WriteString("\n")

	b.WriteString("\nRecent sessions (newest first):\n")
	if len(st.Recent) == 0 {
		b.WriteString("None\n")
		return b.String()
	}

	for i, s := range st.Recent {
		fmt.Fprintf(&b, "%d. %s (%s) - %sh, quality %s/10\n",
			i+1, s.Title, s.Date, s.DurationHours, s.QualityLevel)
		fmt.Fprintf(&b, "   Tags: %s\n", formatTags(s.Tags))
		if s.Notes != "" {
			fmt.Fprintf(&b, "   Notes: %s\n", truncateNotes(s.Notes))
		}
	}

	return b.String()
}

func formatTagRanking(ranking []TagCount) string {
	if len(ranking) == 0 {
		return "none"
	}
	parts := make([]string, len(ranking))
	for i, tc := range ranking {
		parts[i] = fmt.Sprintf("%s (%d)", tc.Tag, tc.Count)
	}
	return strings.Join(parts, ", ")
}

func formatTags(tags []string) string {
	if len(tags) == 0 {
		return "none"
	}
	return strings.Join(tags, ", ")
}

// truncateNotes cuts at a rune boundary so multi-byte notes stay valid UTF-8.
func truncateNotes(notes string) string {
	if utf8.RuneCountInString(notes) <= maxNoteChars {
		return notes
	}
	runes := []rune(notes)
	return string(runes[:maxNoteChars]) + "..."
}
