package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// LLMRequestEventData captures one model API call for the event log.
type LLMRequestEventData struct {
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMRequestEventRecord is a stored event row.
type LLMRequestEventRecord struct {
	ID        int64
	Timestamp time.Time
	LLMRequestEventData
}

// EventRepo provides access to the LLM request event log.
type EventRepo interface {
	// AppendLLMRequest records a model API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// RecentLLMRequests returns the most recent events, newest first.
	// limit <= 0 means no limit.
	RecentLLMRequests(ctx context.Context, limit int) ([]LLMRequestEventRecord, error)
}

type sqliteEvents struct {
	db *sql.DB
}

func (e *sqliteEvents) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	_, err := e.db.ExecContext(ctx,
		`INSERT INTO llm_requests
			(timestamp, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339),
		data.Model, data.Purpose,
		data.InputTokens, data.OutputTokens, data.LatencyMs,
		boolToInt(data.Success), data.ErrorMessage)
	if err != nil {
		return fmt.Errorf("append llm request event: %w", err)
	}
	return nil
}

func (e *sqliteEvents) RecentLLMRequests(ctx context.Context, limit int) ([]LLMRequestEventRecord, error) {
	q := `SELECT id, timestamp, model, purpose, input_tokens, output_tokens,
			latency_ms, success, error_message
		  FROM llm_requests ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := e.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query llm request events: %w", err)
	}
	defer rows.Close()

	var out []LLMRequestEventRecord
	for rows.Next() {
		var rec LLMRequestEventRecord
		var ts string
		var success int
		if err := rows.Scan(&rec.ID, &ts, &rec.Model, &rec.Purpose,
			&rec.InputTokens, &rec.OutputTokens, &rec.LatencyMs,
			&success, &rec.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scan llm request event: %w", err)
		}
		rec.Timestamp, _ = time.Parse(time.RFC3339, ts)
		rec.Success = success != 0
		out = append(out, rec)
	}
	return out, rows.Err()
}

// NopEvents is an EventRepo that discards everything. Used by tests and by
// callers that run without a database.
type NopEvents struct{}

func (NopEvents) AppendLLMRequest(context.Context, LLMRequestEventData) error {
	return nil
}

func (NopEvents) RecentLLMRequests(context.Context, int) ([]LLMRequestEventRecord, error) {
	return nil, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
