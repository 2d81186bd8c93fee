package llm

import (
	"context"
	"sync"
)

// Mock implements Backend for testing. It records prompts and returns a
// configured response or error.
type Mock struct {
	mu        sync.Mutex
	response  string
	err       error
	calls     int
	lastSys   string
	lastUser  string
	modelName string
}

// NewMock creates a Mock that returns response from Generate.
func NewMock(response string) *Mock {
	return &Mock{response: response, modelName: "mock-model"}
}

// SetError makes subsequent Generate calls fail with err.
func (m *Mock) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// SetResponse changes the response returned by Generate.
func (m *Mock) SetResponse(response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.response = response
}

// Name implements Backend.
func (m *Mock) Name() string { return "mock" }

// Model implements Backend.
func (m *Mock) Model() string { return m.modelName }

// Generate implements Backend.
func (m *Mock) Generate(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastSys = systemPrompt
	m.lastUser = userMessage
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

// Calls returns how many times Generate was invoked.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastPrompts returns the system and user messages from the latest call.
func (m *Mock) LastPrompts() (string, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSys, m.lastUser
}
