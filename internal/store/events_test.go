package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEvents_AppendAndQuery(t *testing.T) {
	st, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer st.Close()

	events := st.Events()
	ctx := context.Background()

	require.NoError(t, events.AppendLLMRequest(ctx, LLMRequestEventData{
		Model: "gpt-4o-mini", Purpose: "challenge-gen",
		InputTokens: 500, OutputTokens: 200, LatencyMs: 850, Success: true,
	}))
	require.NoError(t, events.AppendLLMRequest(ctx, LLMRequestEventData{
		Model: "gpt-4o-mini", Purpose: "insight",
		Success: false, ErrorMessage: "rate limited",
	}))

	recent, err := events.RecentLLMRequests(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, 2)

	// Newest first.
	require.Equal(t, "insight", recent[0].Purpose)
	require.False(t, recent[0].Success)
	require.Equal(t, "rate limited", recent[0].ErrorMessage)

	require.Equal(t, "challenge-gen", recent[1].Purpose)
	require.True(t, recent[1].Success)
	require.Equal(t, 500, recent[1].InputTokens)

	limited, err := events.RecentLLMRequests(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
}
