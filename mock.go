package nudge

import (
	"context"
	"fmt"
	"strings"
)

// MockProvider simulates a hint backend for testing.
// It returns deterministic hints based on input patterns.
type MockProvider struct {
	name      string
	available bool
}

// NewMockProvider creates a new mock provider for testing.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		name:      "mock",
		available: true,
	}
}

// NewMockProviderWithName creates a new mock provider with a specific name.
func NewMockProviderWithName(name string) *MockProvider {
	return &MockProvider{
		name:      name,
		available: true,
	}
}

// Name returns the provider identifier.
func (m *MockProvider) Name() string {
	return m.name
}

// Call simulates a provider call with deterministic responses.
func (m *MockProvider) Call(_ context.Context, messages []Message, _ GenerationConfig) (*ProviderResponse, error) {
	if !m.available {
		return nil, NetworkError(fmt.Errorf("provider %s is unavailable", m.name))
	}

	return &ProviderResponse{
		Content:      m.generateHint(lastUserMessage(messages)),
		FinishReason: "STOP",
	}, nil
}

// SetAvailable sets the availability status (for testing failures).
func (m *MockProvider) SetAvailable(available bool) {
	m.available = available
}

// generateHint creates a hint based on input patterns.
func (*MockProvider) generateHint(input string) string {
	lower := strings.ToLower(input)
	switch {
	case strings.Contains(lower, "two sum") || strings.Contains(lower, "two-sum"):
		return "🔍 Analysis: You need pairs that add up to a target.\n💡 Hint: Can a hash map remember what you have seen?"
	case strings.Contains(lower, "func ") || strings.Contains(lower, "def ") || strings.Contains(lower, "{"):
		return "🔍 Analysis: This is code.\n💡 Hint: Trace the loop bounds by hand for a two-element input."
	default:
		return "💡 Hint: Start by writing down the input size and the time budget."
	}
}

func lastUserMessage(messages []Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			return messages[i].Content
		}
	}
	return ""
}

// NewMockProviderWithResponse creates a mock that always returns a specific response.
func NewMockProviderWithResponse(response string) Provider {
	return &mockProviderFixed{response: response}
}

// NewMockProviderWithError creates a mock that always fails with err.
func NewMockProviderWithError(err error) Provider {
	return &mockProviderCallback{callback: func([]Message, GenerationConfig) (string, error) {
		return "", err
	}}
}

// NewMockProviderWithCallback creates a mock that calls a function to generate responses.
func NewMockProviderWithCallback(callback func(messages []Message, generation GenerationConfig) (string, error)) Provider {
	return &mockProviderCallback{callback: callback}
}

// mockProviderFixed always returns a fixed response.
type mockProviderFixed struct {
	response string
}

func (*mockProviderFixed) Name() string {
	return "mock-fixed"
}

func (m *mockProviderFixed) Call(_ context.Context, _ []Message, _ GenerationConfig) (*ProviderResponse, error) {
	return &ProviderResponse{Content: m.response}, nil
}

// mockProviderCallback uses a callback to generate responses.
type mockProviderCallback struct {
	callback func([]Message, GenerationConfig) (string, error)
}

func (*mockProviderCallback) Name() string {
	return "mock-callback"
}

func (m *mockProviderCallback) Call(_ context.Context, messages []Message, generation GenerationConfig) (*ProviderResponse, error) {
	content, err := m.callback(messages, generation)
	if err != nil {
		return nil, err
	}
	return &ProviderResponse{Content: content}, nil
}
