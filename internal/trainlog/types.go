// Package trainlog turns raw stored training-session records into canonical
// session data, aggregate statistics, and the bounded text context used for
// prompt construction.
package trainlog

// SessionRecord is the canonical in-memory form of one logged training
// session. Scalar fields stay strings because the remote store holds them
// that way; numeric interpretation is always permissive and happens at the
// aggregation boundary. Fields are never absent downstream: missing values
// normalize to "" (title, date, notes) or "0" (durationHours, qualityLevel).
type SessionRecord struct {
	ID            string
	Title         string
	Date          string // free-form date string
	DurationHours string // numeric string, e.g. "1.5"
	Notes         string
	Tags          []string // ordered, possibly empty, never nil after Normalize
	QualityLevel  string   // numeric string on a 0-10 scale
}
