package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is one step of a scripted model transcript: either canned
// content (a challenge list, an insight sentence) or the error the step
// should fail with.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider replays a scripted transcript in order and records every
// request it receives. Exhausting the script yields ErrProviderUnavailable,
// so a test that seeds no responses doubles as a "model must not be
// consulted" assertion.
type MockProvider struct {
	mu     sync.Mutex
	script []MockResponse
	next   int
	Calls  []Request
}

// NewMockProvider creates a MockProvider with the given transcript.
func NewMockProvider(script ...MockResponse) *MockProvider {
	return &MockProvider{script: script}
}

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	if m.next >= len(m.script) {
		return nil, &ErrProviderUnavailable{}
	}

	step := m.script[m.next]
	m.next++

	if step.Err != nil {
		return nil, step.Err
	}

	return &Response{
		Content:    step.Content,
		Usage:      step.Usage,
		Model:      "mock",
		StopReason: "end",
	}, nil
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends a step to the transcript.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, resp)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// LastCall returns the most recent request, or the zero Request when no
// call has been made.
func (m *MockProvider) LastCall() Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return Request{}
	}
	return m.Calls[len(m.Calls)-1]
}
