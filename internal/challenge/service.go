package challenge

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/anirud/tatami/internal/llm"
	"github.com/anirud/tatami/internal/store"
	"github.com/anirud/tatami/internal/trainlog"
)

// Fixed insight strings. The first is served on empty history, the second
// on any generation failure — callers never see a generation error.
const (
	insightNoSessions = "You haven't logged any training sessions yet. Log your first session and I'll start spotting patterns in your training."
	insightFallback   = "Keep showing up and logging your sessions — consistent mat time is what every strong game is built on."
)

// Config controls generation behavior.
type Config struct {
	// MaxTokens is the token budget for model responses.
	MaxTokens int

	// Temperature controls model output randomness (0.0-1.0).
	Temperature float64

	// ContextLimit is how many recent sessions are narrated in the
	// challenge-generation context.
	ContextLimit int

	// InsightContextLimit is how many recent sessions are narrated in
	// the insight context.
	InsightContextLimit int
}

// DefaultConfig returns the recommended generation settings.
func DefaultConfig() Config {
	return Config{
		MaxTokens:           1024,
		Temperature:         0.7,
		ContextLimit:        10,
		InsightContextLimit: 5,
	}
}

// Service orchestrates challenge and insight generation: it fetches and
// normalizes the user's history, renders the prompt context, calls the
// model, and degrades to fixed content when generation fails.
type Service struct {
	provider llm.Provider
	records  store.RecordStore
	cfg      Config

	// now is injectable for deterministic ids in tests.
	now func() time.Time
}

// NewService creates a Service.
func NewService(provider llm.Provider, records store.RecordStore, cfg Config) *Service {
	return &Service{
		provider: provider,
		records:  records,
		cfg:      cfg,
		now:      time.Now,
	}
}

// source marks which branch produced a challenge list. Kept internal so the
// fallback-vs-generated distinction stays testable without leaking into the
// public contract.
type source int

const (
	sourceGenerated source = iota
	sourceFallback
)

// GenerateChallenges produces count personalized challenges for the user.
// A user with no history gets the fixed three-challenge starter catalog,
// and ANY generation failure (transport, rate limit, malformed or
// wrong-sized output) silently degrades to the same catalog. The returned
// error is non-nil only when the record store itself fails.
func (s *Service) GenerateChallenges(ctx context.Context, userID string, count int) ([]Challenge, error) {
	list, _, err := s.generateChallenges(ctx, userID, count)
	return list, err
}

func (s *Service) generateChallenges(ctx context.Context, userID string, count int) ([]Challenge, source, error) {
	sessions, err := s.sessions(ctx, userID)
	if err != nil {
		return nil, sourceFallback, err
	}

	if len(sessions) == 0 {
		return StarterCatalog(s.now()), sourceFallback, nil
	}

	generated, err := s.callModel(ctx, sessions, count)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: challenge generation failed, serving starter catalog: %v\n", err)
		return StarterCatalog(s.now()), sourceFallback, nil
	}
	return generated, sourceGenerated, nil
}

// challengeOutput is one element of the raw model reply.
type challengeOutput struct {
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Difficulty        string   `json:"difficulty"`
	FocusAreas        []string `json:"focusAreas"`
	EstimatedDuration string   `json:"estimatedDuration"`
}

func (s *Service) callModel(ctx context.Context, sessions []trainlog.SessionRecord, count int) ([]Challenge, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeChallengeGen)

	history := trainlog.BuildContext(sessions, s.cfg.ContextLimit)

	req := llm.Request{
		System: buildChallengeSystemPrompt(count),
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildChallengeUserMessage(history)},
		},
		Schema:      ListSchema(count),
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("model call: %w", err)
	}

	var items []challengeOutput
	if err := json.Unmarshal(llm.StripFences(resp.Content), &items); err != nil {
		return nil, fmt.Errorf("parse challenge response: %w", err)
	}
	if len(items) != count {
		return nil, fmt.Errorf("model returned %d challenges, want %d", len(items), count)
	}

	now := s.now()
	createdAt := now.UTC().Format(time.RFC3339)

	out := make([]Challenge, len(items))
	for i, item := range items {
		focus := item.FocusAreas
		if focus == nil {
			focus = []string{}
		}
		out[i] = Challenge{
			ID:                syntheticID(now, i),
			Title:             item.Title,
			Description:       item.Description,
			Difficulty:        Difficulty(item.Difficulty),
			FocusAreas:        focus,
			EstimatedDuration: item.EstimatedDuration,
			CreatedAt:         createdAt,
		}
	}
	return out, nil
}

// TrainingInsight produces a short encouraging observation about the
// user's recent training. Like challenge generation it never surfaces a
// model failure: empty history and failed requests each map to a fixed
// string. The returned error is non-nil only on record-store failure.
func (s *Service) TrainingInsight(ctx context.Context, userID string) (string, error) {
	sessions, err := s.sessions(ctx, userID)
	if err != nil {
		return "", err
	}

	if len(sessions) == 0 {
		return insightNoSessions, nil
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeInsight)

	history := trainlog.BuildContext(sessions, s.cfg.InsightContextLimit)

	req := llm.Request{
		System: insightSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildInsightUserMessage(history)},
		},
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: insight generation failed, serving fallback: %v\n", err)
		return insightFallback, nil
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return insightFallback, nil
	}
	return text, nil
}

// Sessions returns the user's normalized history, newest first.
func (s *Service) Sessions(ctx context.Context, userID string) ([]trainlog.SessionRecord, error) {
	return s.sessions(ctx, userID)
}

func (s *Service) sessions(ctx context.Context, userID string) ([]trainlog.SessionRecord, error) {
	raw, ok, err := s.records.Get(ctx, sessionsPath(userID))
	if err != nil {
		return nil, fmt.Errorf("fetch sessions for %s: %w", userID, err)
	}
	if !ok {
		return []trainlog.SessionRecord{}, nil
	}
	return trainlog.Normalize(raw), nil
}

func sessionsPath(userID string) string {
	return fmt.Sprintf("users/%s/sessions", userID)
}
