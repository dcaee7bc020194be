package challenge

import "fmt"

// challengeSystemPrompt is the fixed coach persona for challenge
// generation. The count constraint is substituted per request.
const challengeSystemPrompt = `You are an experienced martial-arts training coach who designs personal training challenges.

Rules:
- Respond with ONLY a JSON array of exactly %d objects. No prose, no markdown, no code fences.
- Each object has exactly these fields: "title", "description", "difficulty", "focusAreas", "estimatedDuration".
- "difficulty" is one of: "beginner", "intermediate", "advanced".
- "focusAreas" is an array of short lowercase labels.
- "estimatedDuration" is a free-form duration like "1 week".
- Ground every challenge in the training history you are given: reference the user's actual volume, quality trend, and most-trained areas.
- Challenges must be concrete and achievable within the stated duration.`

// buildChallengeSystemPrompt fills the count into the system instruction.
func buildChallengeSystemPrompt(count int) string {
	return fmt.Sprintf(challengeSystemPrompt, count)
}

// buildChallengeUserMessage wraps the rendered history context.
func buildChallengeUserMessage(context string) string {
	return fmt.Sprintf("Here is my training history. Generate my challenges.\n\n%s", context)
}

// insightSystemPrompt is the fixed persona for the short free-text insight.
const insightSystemPrompt = `You are an encouraging martial-arts training coach.

Given a user's recent training history, reply with a 2-3 sentence encouraging observation about their training. Mention something specific from their history. Plain text only — no lists, no markdown, no JSON.`

// buildInsightUserMessage wraps the rendered history context.
func buildInsightUserMessage(context string) string {
	return fmt.Sprintf("Here is my recent training history. What do you notice?\n\n%s", context)
}
