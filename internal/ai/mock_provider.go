package ai

import (
	"context"
	"sync"
)

// MockProvider is a test provider that records calls and returns configurable responses
type MockProvider struct {
	name      string
	responses []MockResponse
	prompts   []string
	mu        sync.Mutex
	respIndex int
}

// MockResponse represents a pre-configured response for the mock provider
type MockResponse struct {
	Content string
	Error   error
}

// NewMockProvider creates a new mock provider for testing
func NewMockProvider(name string) *MockProvider {
	return &MockProvider{name: name}
}

// Name returns the provider name
func (m *MockProvider) Name() string {
	return m.name
}

// Generate records the prompt and returns the next configured response
func (m *MockProvider) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.prompts = append(m.prompts, prompt)

	if m.respIndex < len(m.responses) {
		resp := m.responses[m.respIndex]
		m.respIndex++
		if resp.Error != nil {
			return "", resp.Error
		}
		return resp.Content, nil
	}

	return "Mock response", nil
}

// SetResponses configures the responses returned by Generate, in order
func (m *MockProvider) SetResponses(responses ...MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = responses
	m.respIndex = 0
}

// Prompts returns the prompts Generate was called with
func (m *MockProvider) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}
