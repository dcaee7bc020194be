package challenge

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/anirud/tatami/internal/llm"
	"github.com/anirud/tatami/internal/store"
)

func seedSessions(t *testing.T, records *store.MemoryRecords, userID string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		path := "users/" + userID + "/sessions/s" + string(rune('a'+i))
		err := records.Set(context.Background(), path, map[string]any{
			"title":         "Open mat",
			"date":          "2024-03-01",
			"durationHours": "1.5",
			"tags":          []string{"guard", "kimura"},
			"qualityLevel":  "8",
		})
		if err != nil {
			t.Fatalf("seed session: %v", err)
		}
	}
}

func newTestService(provider llm.Provider, records *store.MemoryRecords) *Service {
	svc := NewService(provider, records, DefaultConfig())
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return svc
}

func validChallengeListJSON() json.RawMessage {
	return json.RawMessage(`[
		{"title": "Sharpen Your Guard", "description": "Drill guard retention.", "difficulty": "intermediate", "focusAreas": ["guard"], "estimatedDuration": "1 week"},
		{"title": "Slow It Down", "description": "One flow roll per session.", "difficulty": "beginner", "focusAreas": ["pacing", "control"], "estimatedDuration": "2 weeks"}
	]`)
}

func TestGenerateChallenges_EmptyHistoryReturnsStarterCatalog(t *testing.T) {
	mock := llm.NewMockProvider()
	svc := newTestService(mock, store.NewMemoryRecords())

	challenges, err := svc.GenerateChallenges(context.Background(), "u1", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(challenges) != 3 {
		t.Fatalf("expected 3 starter challenges, got %d", len(challenges))
	}

	wantTitles := []string{"Build Your Foundation", "Quality Over Quantity", "Explore & Experiment"}
	wantDifficulties := []Difficulty{DifficultyBeginner, DifficultyBeginner, DifficultyIntermediate}
	for i, ch := range challenges {
		if ch.Title != wantTitles[i] {
			t.Errorf("challenge %d title = %q, want %q", i, ch.Title, wantTitles[i])
		}
		if ch.Difficulty != wantDifficulties[i] {
			t.Errorf("challenge %d difficulty = %q, want %q", i, ch.Difficulty, wantDifficulties[i])
		}
		if !strings.HasPrefix(ch.ID, "challenge-") {
			t.Errorf("challenge %d id = %q, want challenge- prefix", i, ch.ID)
		}
		if _, perr := time.Parse(time.RFC3339, ch.CreatedAt); perr != nil {
			t.Errorf("challenge %d createdAt %q is not RFC 3339: %v", i, ch.CreatedAt, perr)
		}
	}

	// The model is never consulted for an empty history.
	if mock.CallCount() != 0 {
		t.Errorf("expected no model calls, got %d", mock.CallCount())
	}
}

func TestGenerateChallenges_HappyPath(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validChallengeListJSON()})
	records := store.NewMemoryRecords()
	seedSessions(t, records, "u1", 2)
	svc := newTestService(mock, records)

	challenges, src, err := svc.generateChallenges(context.Background(), "u1", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src != sourceGenerated {
		t.Fatalf("expected generated source")
	}
	if len(challenges) != 2 {
		t.Fatalf("expected 2 challenges, got %d", len(challenges))
	}

	first := challenges[0]
	if first.Title != "Sharpen Your Guard" {
		t.Errorf("title = %q", first.Title)
	}
	if first.Difficulty != DifficultyIntermediate {
		t.Errorf("difficulty = %q", first.Difficulty)
	}
	if len(first.FocusAreas) != 1 || first.FocusAreas[0] != "guard" {
		t.Errorf("focusAreas = %v", first.FocusAreas)
	}
	if first.EstimatedDuration != "1 week" {
		t.Errorf("estimatedDuration = %q", first.EstimatedDuration)
	}
	if first.ID == challenges[1].ID {
		t.Errorf("ids must be distinct per index")
	}

	// Session fetch feeds the prompt: the user message embeds the context.
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 model call, got %d", mock.CallCount())
	}
	userMsg := mock.LastCall().Messages[0].Content
	if !strings.Contains(userMsg, "totalSessions: 2") {
		t.Errorf("user message must embed the rendered context, got:\n%s", userMsg)
	}
}

func TestGenerateChallenges_FocusAreasDefaultedWhenAbsent(t *testing.T) {
	raw := json.RawMessage(`[
		{"title": "A", "description": "a", "difficulty": "beginner", "estimatedDuration": "1 week"}
	]`)
	mock := llm.NewMockProvider(llm.MockResponse{Content: raw})
	records := store.NewMemoryRecords()
	seedSessions(t, records, "u1", 1)
	svc := newTestService(mock, records)

	challenges, err := svc.GenerateChallenges(context.Background(), "u1", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if challenges[0].FocusAreas == nil || len(challenges[0].FocusAreas) != 0 {
		t.Errorf("focusAreas must default to an empty list, got %v", challenges[0].FocusAreas)
	}
}

func TestGenerateChallenges_FallbackOnProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
	records := store.NewMemoryRecords()
	seedSessions(t, records, "u1", 2)
	svc := newTestService(mock, records)

	challenges, src, err := svc.generateChallenges(context.Background(), "u1", 5)
	if err != nil {
		t.Fatalf("fallback must be silent, got error: %v", err)
	}
	if src != sourceFallback {
		t.Fatalf("expected fallback source")
	}
	if len(challenges) != 3 {
		t.Fatalf("fallback must serve the 3-item starter catalog, got %d", len(challenges))
	}
	if challenges[0].Title != "Build Your Foundation" {
		t.Errorf("unexpected fallback content: %q", challenges[0].Title)
	}
}

func TestGenerateChallenges_FallbackOnInvalidJSON(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`here are your challenges!`)})
	records := store.NewMemoryRecords()
	seedSessions(t, records, "u1", 2)
	svc := newTestService(mock, records)

	challenges, src, err := svc.generateChallenges(context.Background(), "u1", 3)
	if err != nil {
		t.Fatalf("fallback must be silent, got error: %v", err)
	}
	if src != sourceFallback || len(challenges) != 3 {
		t.Fatalf("expected 3-item fallback, got %d (src %v)", len(challenges), src)
	}
}

func TestGenerateChallenges_FallbackOnWrongCount(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validChallengeListJSON()})
	records := store.NewMemoryRecords()
	seedSessions(t, records, "u1", 2)
	svc := newTestService(mock, records)

	// Mock returns 2 items; ask for 4.
	challenges, src, err := svc.generateChallenges(context.Background(), "u1", 4)
	if err != nil {
		t.Fatalf("fallback must be silent, got error: %v", err)
	}
	if src != sourceFallback || len(challenges) != 3 {
		t.Fatalf("expected 3-item fallback, got %d (src %v)", len(challenges), src)
	}
}

func TestGenerateChallenges_StripsCodeFences(t *testing.T) {
	fenced := json.RawMessage("```json\n" + string(validChallengeListJSON()) + "\n```")
	mock := llm.NewMockProvider(llm.MockResponse{Content: fenced})
	records := store.NewMemoryRecords()
	seedSessions(t, records, "u1", 1)
	svc := newTestService(mock, records)

	challenges, src, err := svc.generateChallenges(context.Background(), "u1", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src != sourceGenerated || len(challenges) != 2 {
		t.Fatalf("fenced JSON must still generate, got %d (src %v)", len(challenges), src)
	}
}

func TestGenerateChallenges_StoreFailurePropagates(t *testing.T) {
	records := store.NewMemoryRecords()
	records.FailGet = errors.New("store offline")
	svc := newTestService(llm.NewMockProvider(), records)

	_, err := svc.GenerateChallenges(context.Background(), "u1", 3)
	if err == nil {
		t.Fatal("store failures must propagate")
	}
}

func TestTrainingInsight_EmptyHistory(t *testing.T) {
	mock := llm.NewMockProvider()
	svc := newTestService(mock, store.NewMemoryRecords())

	got, err := svc.TrainingInsight(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != insightNoSessions {
		t.Errorf("expected the fixed get-started string, got %q", got)
	}
	if mock.CallCount() != 0 {
		t.Errorf("expected no model calls, got %d", mock.CallCount())
	}
}

func TestTrainingInsight_HappyPath(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage("Your guard work is trending up. Keep at it."),
	})
	records := store.NewMemoryRecords()
	seedSessions(t, records, "u1", 2)
	svc := newTestService(mock, records)

	got, err := svc.TrainingInsight(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Your guard work is trending up. Keep at it." {
		t.Errorf("unexpected insight: %q", got)
	}

	if mock.LastCall().Schema != nil {
		t.Errorf("insight requests must not carry a schema")
	}
}

func TestTrainingInsight_FallbackOnError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRateLimit{}})
	records := store.NewMemoryRecords()
	seedSessions(t, records, "u1", 1)
	svc := newTestService(mock, records)

	got, err := svc.TrainingInsight(context.Background(), "u1")
	if err != nil {
		t.Fatalf("fallback must be silent, got error: %v", err)
	}
	if got != insightFallback {
		t.Errorf("expected the fixed fallback string, got %q", got)
	}
}

func TestTrainingInsight_FallbackOnEmptyContent(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage("   ")})
	records := store.NewMemoryRecords()
	seedSessions(t, records, "u1", 1)
	svc := newTestService(mock, records)

	got, err := svc.TrainingInsight(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != insightFallback {
		t.Errorf("expected the fixed fallback string, got %q", got)
	}
}
