// Package challenge generates AI training challenges and insights from a
// user's session history and persists the challenge lifecycle.
package challenge

// Difficulty grades a challenge.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Challenge is a generated training recommendation. Immutable once created;
// it lives only in memory until accepted.
type Challenge struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	Difficulty        Difficulty `json:"difficulty"`
	FocusAreas        []string   `json:"focusAreas"`
	EstimatedDuration string     `json:"estimatedDuration"` // free-form, e.g. "1 week"
	CreatedAt         string     `json:"createdAt"`         // RFC 3339
}

// Status is the lifecycle state of an accepted challenge.
type Status string

const (
	StatusAccepted   Status = "accepted"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// AcceptedChallenge is a Challenge wrapped in its lifecycle envelope — one
// tagged variant with a status discriminant, not a type hierarchy.
// CompletedAt is non-empty iff Status is StatusCompleted.
type AcceptedChallenge struct {
	Challenge
	AcceptedAt  string `json:"acceptedAt"` // RFC 3339
	Status      Status `json:"status"`
	CompletedAt string `json:"completedAt,omitempty"` // RFC 3339
}
