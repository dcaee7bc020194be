package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// MemoryRecords is an in-memory RecordStore for tests and ephemeral use.
// It mirrors the branch-assembly semantics of the SQLite implementation.
type MemoryRecords struct {
	mu   sync.RWMutex
	docs map[string]json.RawMessage

	// FailGet, when set, makes every Get return this error. Lets tests
	// exercise the store-failure propagation path.
	FailGet error
}

// NewMemoryRecords creates an empty in-memory record store.
func NewMemoryRecords() *MemoryRecords {
	return &MemoryRecords{docs: make(map[string]json.RawMessage)}
}

func (m *MemoryRecords) Get(_ context.Context, path string) (json.RawMessage, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.FailGet != nil {
		return nil, false, m.FailGet
	}

	if doc, ok := m.docs[path]; ok {
		return doc, true, nil
	}

	prefix := path + "/"
	children := make(map[string]json.RawMessage)
	for _, k := range sortedKeys(m.docs) {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		rest := strings.TrimPrefix(k, prefix)
		if strings.Contains(rest, "/") {
			continue
		}
		children[rest] = m.docs[k]
	}

	if len(children) == 0 {
		return nil, false, nil
	}

	assembled, err := json.Marshal(children)
	if err != nil {
		return nil, false, fmt.Errorf("assemble children of %s: %w", path, err)
	}
	return assembled, true, nil
}

func (m *MemoryRecords) Set(_ context.Context, path string, value any) error {
	doc, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value for %s: %w", path, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[path] = doc
	return nil
}

func (m *MemoryRecords) Update(_ context.Context, path string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	merged := make(map[string]any)
	if doc, ok := m.docs[path]; ok {
		if err := json.Unmarshal(doc, &merged); err != nil {
			return fmt.Errorf("update %s: existing document is not an object: %w", path, err)
		}
	}

	for k, v := range fields {
		merged[k] = v
	}

	out, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("update %s: marshal: %w", path, err)
	}
	m.docs[path] = out
	return nil
}

// Doc returns the raw document stored at path, for test assertions.
func (m *MemoryRecords) Doc(path string) (json.RawMessage, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[path]
	return doc, ok
}
