package trainlog

import (
	"context"
	"fmt"

	"github.com/anirud/tatami/internal/store"
)

// Save writes one session record into the user's session container and
// returns the record key. A record without an ID gets a store-assigned one.
func Save(ctx context.Context, records store.RecordStore, userID string, rec SessionRecord) (string, error) {
	id := rec.ID
	if id == "" {
		id = store.NewKey()
	}

	doc := map[string]any{
		"title":         rec.Title,
		"date":          rec.Date,
		"durationHours": defaultNumeric(rec.DurationHours),
		"notes":         rec.Notes,
		"tags":          rec.Tags,
		"qualityLevel":  defaultNumeric(rec.QualityLevel),
	}

	path := fmt.Sprintf("users/%s/sessions/%s", userID, id)
	if err := records.Set(ctx, path, doc); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	return id, nil
}
