package llm

import (
	"context"
	"encoding/json"
)

// Provider is the abstraction over chat-completion style model endpoints.
// Consumers call Generate with a Request and receive either structured JSON
// (when a Schema is set) or free text.
type Provider interface {
	// Generate sends a prompt to the model and returns its output.
	// When the request carries a Schema, the response Content is JSON
	// validated against it. Otherwise Content is the raw text reply.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured with.
	ModelID() string
}

// Request describes a single model call.
type Request struct {
	// System sets the model's role and output constraints.
	System string

	// Messages is the conversation. Tatami only ever sends one user
	// message per request, but the slice keeps providers uniform.
	Messages []Message

	// Schema, when set, asks the provider for structured output and
	// triggers validation of the reply. Nil means free text (insights).
	Schema *Schema

	// MaxTokens caps the response length.
	MaxTokens int

	// Temperature controls randomness, 0.0-1.0. Zero means deterministic.
	Temperature float64
}

// Message is one turn of the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema names a JSON Schema the reply must conform to.
type Schema struct {
	// Name identifies the schema (tool name for Anthropic, schema name
	// for OpenAI). Kebab-case, e.g. "challenge-list".
	Name string

	// Description tells the model what the schema represents.
	Description string

	// Definition is the JSON Schema as a map.
	Definition map[string]any
}

// Response holds the model's output.
type Response struct {
	// Content is the validated JSON when a Schema was requested, or the
	// raw text reply otherwise.
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is normalized to: "end", "max_tokens", "error".
	StopReason string
}

// Text returns the response content as a plain string.
func (r *Response) Text() string {
	return string(r.Content)
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
