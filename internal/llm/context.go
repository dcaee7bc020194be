package llm

import "context"

// Purpose labels a model call for the event log. Tatami has exactly two
// generation paths, so the labels are closed constants rather than free
// strings.
type Purpose string

const (
	PurposeChallengeGen Purpose = "challenge-gen"
	PurposeInsight      Purpose = "insight"
	PurposeUnknown      Purpose = "unknown"
)

type contextKey string

const purposeKey contextKey = "llm_purpose"

// WithPurpose attaches a purpose label to the context for event logging.
func WithPurpose(ctx context.Context, purpose Purpose) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom extracts the purpose label from the context, defaulting to
// PurposeUnknown for calls made outside a labeled path.
func PurposeFrom(ctx context.Context) Purpose {
	if v, ok := ctx.Value(purposeKey).(Purpose); ok {
		return v
	}
	return PurposeUnknown
}
