package summary

import (
	"context"
	"sync"
)

// MockLLMClient answers every prompt with Response, or fails with Err.
// It is shared with other packages' tests, so it records calls under a lock.
type MockLLMClient struct {
	Response string
	Err      error

	mu         sync.Mutex
	Calls      int
	LastPrompt string
}

func (m *MockLLMClient) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	m.LastPrompt = prompt
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}
