package mocks

import (
	"context"
	"sync"
)

// MockSummarizer is a mock implementation of Summarizer for testing
type MockSummarizer struct {
	mu      sync.Mutex
	Err     error
	Reply   string
	Prompts []string // prompts received, in call order
}

// NewMockSummarizer creates a new MockSummarizer
func NewMockSummarizer() *MockSummarizer {
	return &MockSummarizer{Reply: "- mock summary"}
}

func (m *MockSummarizer) Summarize(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Reply, nil
}

func (m *MockSummarizer) Model() string {
	return "mock-summarizer-model"
}

func (m *MockSummarizer) Close() error {
	return nil
}
