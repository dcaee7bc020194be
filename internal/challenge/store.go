package challenge

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/anirud/tatami/internal/store"
	"github.com/anirud/tatami/internal/trainlog"
)

// Store persists the challenge lifecycle against the record store. Each
// record is namespaced under its owner ("users/{uid}/challenges/{id}") and
// is never deleted; status writes only ever add or update fields.
type Store struct {
	records store.RecordStore

	// now is injectable for deterministic timestamps in tests.
	now func() time.Time
}

// NewStore creates a challenge lifecycle store.
func NewStore(records store.RecordStore) *Store {
	return &Store{records: records, now: time.Now}
}

// Accept writes the full challenge with status=accepted and acceptedAt=now
// at a key derived from its id. Idempotent by id: re-accepting overwrites.
func (s *Store) Accept(ctx context.Context, userID string, ch Challenge) (AcceptedChallenge, error) {
	acc := AcceptedChallenge{
		Challenge:  ch,
		AcceptedAt: s.now().UTC().Format(time.RFC3339),
		Status:     StatusAccepted,
	}

	if err := s.records.Set(ctx, challengePath(userID, ch.ID), acc); err != nil {
		return AcceptedChallenge{}, fmt.Errorf("accept challenge %s: %w", ch.ID, err)
	}
	return acc, nil
}

// UpdateStatus partially updates a challenge's status. Transitioning to
// completed also stamps completedAt; other transitions touch only status.
// The store does not enforce forward-only transitions — a completed
// challenge can be moved back, which callers currently rely on not being
// rejected.
func (s *Store) UpdateStatus(ctx context.Context, userID, challengeID string, status Status) error {
	fields := map[string]any{
		"status": status,
	}
	if status == StatusCompleted {
		fields["completedAt"] = s.now().UTC().Format(time.RFC3339)
	}

	if err := s.records.Update(ctx, challengePath(userID, challengeID), fields); err != nil {
		return fmt.Errorf("update challenge %s status: %w", challengeID, err)
	}
	return nil
}

// Accepted returns the user's challenges that are not yet completed,
// sorted by acceptedAt descending.
func (s *Store) Accepted(ctx context.Context, userID string) ([]AcceptedChallenge, error) {
	all, err := s.fetchAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	open := make([]AcceptedChallenge, 0, len(all))
	for _, c := range all {
		if c.Status != StatusCompleted {
			open = append(open, c)
		}
	}

	sort.SliceStable(open, func(i, j int) bool {
		return trainlog.ParseDate(open[i].AcceptedAt).After(trainlog.ParseDate(open[j].AcceptedAt))
	})
	return open, nil
}

// Completed returns the user's completed challenges sorted by completedAt
// descending. A missing completedAt is treated as now for ordering only;
// the stored record is never touched.
func (s *Store) Completed(ctx context.Context, userID string) ([]AcceptedChallenge, error) {
	all, err := s.fetchAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	done := make([]AcceptedChallenge, 0, len(all))
	for _, c := range all {
		if c.Status == StatusCompleted {
			done = append(done, c)
		}
	}

	now := s.now()
	sortKey := func(c AcceptedChallenge) time.Time {
		if c.CompletedAt == "" {
			return now
		}
		return trainlog.ParseDate(c.CompletedAt)
	}
	sort.SliceStable(done, func(i, j int) bool {
		return sortKey(done[i]).After(sortKey(done[j]))
	})
	return done, nil
}

// storedChallenge decodes a persisted challenge permissively: focusAreas
// may be stored as an array or an index-keyed object.
type storedChallenge struct {
	ID                string           `json:"id"`
	Title             string           `json:"title"`
	Description       string           `json:"description"`
	Difficulty        string           `json:"difficulty"`
	FocusAreas        store.StringList `json:"focusAreas"`
	EstimatedDuration string           `json:"estimatedDuration"`
	CreatedAt         string           `json:"createdAt"`
	AcceptedAt        string           `json:"acceptedAt"`
	Status            string           `json:"status"`
	CompletedAt       string           `json:"completedAt"`
}

func (s *Store) fetchAll(ctx context.Context, userID string) ([]AcceptedChallenge, error) {
	raw, ok, err := s.records.Get(ctx, challengesPath(userID))
	if err != nil {
		return nil, fmt.Errorf("fetch challenges for %s: %w", userID, err)
	}
	if !ok {
		return []AcceptedChallenge{}, nil
	}

	container, err := decodeChallengeContainer(raw)
	if err != nil {
		return nil, fmt.Errorf("decode challenges for %s: %w", userID, err)
	}

	// Deterministic pre-sort order: iterate keys sorted.
	ids := make([]string, 0, len(container))
	for id := range container {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]AcceptedChallenge, 0, len(ids))
	for _, id := range ids {
		c := container[id]
		focus := []string(c.FocusAreas)
		if focus == nil {
			focus = []string{}
		}
		out = append(out, AcceptedChallenge{
			Challenge: Challenge{
				ID:                defaultString(c.ID, id),
				Title:             c.Title,
				Description:       c.Description,
				Difficulty:        Difficulty(c.Difficulty),
				FocusAreas:        focus,
				EstimatedDuration: c.EstimatedDuration,
				CreatedAt:         c.CreatedAt,
			},
			AcceptedAt:  c.AcceptedAt,
			Status:      Status(c.Status),
			CompletedAt: c.CompletedAt,
		})
	}
	return out, nil
}

func decodeChallengeContainer(raw []byte) (map[string]storedChallenge, error) {
	var container map[string]storedChallenge
	if err := json.Unmarshal(raw, &container); err != nil {
		return nil, err
	}
	return container, nil
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func challengesPath(userID string) string {
	return fmt.Sprintf("users/%s/challenges", userID)
}

func challengePath(userID, challengeID string) string {
	return fmt.Sprintf("users/%s/challenges/%s", userID, challengeID)
}
