package challenge

import (
	"fmt"

	"github.com/anirud/tatami/internal/llm"
)

// ListSchema builds the JSON schema for a generated challenge list of
// exactly count items. The count is baked into the schema name so compiled
// schemas cache correctly per size.
func ListSchema(count int) *llm.Schema {
	return &llm.Schema{
		Name:        fmt.Sprintf("challenge-list-%d", count),
		Description: "A list of personalized training challenges",
		Definition: map[string]any{
			"type":     "array",
			"minItems": count,
			"maxItems": count,
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title": map[string]any{
						"type":        "string",
						"description": "Short, motivating challenge title",
					},
					"description": map[string]any{
						"type":        "string",
						"description": "What to do and why, 2-3 sentences, grounded in the user's history",
					},
					"difficulty": map[string]any{
						"type":        "string",
						"enum":        []any{"beginner", "intermediate", "advanced"},
						"description": "Difficulty relative to the user's current level",
					},
					"focusAreas": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type": "string",
						},
						"description": "Short labels for the areas this challenge trains",
					},
					"estimatedDuration": map[string]any{
						"type":        "string",
						"description": "Free-form duration, e.g. \"1 week\"",
					},
				},
				"required":             []any{"title", "description", "difficulty", "focusAreas", "estimatedDuration"},
				"additionalProperties": false,
			},
		},
	}
}
