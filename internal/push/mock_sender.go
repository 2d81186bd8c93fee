package push

import (
	"context"
	"errors"
	"sync"

	"github.com/kingcader/attache/internal/models"
)

// MockSender implements Sender for testing. Outcomes are configured per
// endpoint; unconfigured endpoints deliver successfully.
type MockSender struct {
	mu       sync.Mutex
	outcomes map[string]Result
	sent     []string // endpoints, in delivery order
	payloads map[string][]byte
}

// NewMockSender creates a MockSender where every send succeeds.
func NewMockSender() *MockSender {
	return &MockSender{
		outcomes: make(map[string]Result),
		payloads: make(map[string][]byte),
	}
}

// SetOutcome fixes the result for an endpoint.
func (m *MockSender) SetOutcome(endpoint string, r Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes[endpoint] = r
}

// Send implements Sender.
func (m *MockSender) Send(ctx context.Context, sub models.PushSubscription, payload []byte) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sub.Endpoint)
	m.payloads[sub.Endpoint] = payload
	switch m.outcomes[sub.Endpoint] {
	case Expired:
		return Expired, errors.New("mock sender: subscription gone")
	case Failed:
		return Failed, errors.New("mock sender: service unavailable")
	default:
		return Delivered, nil
	}
}

// SentTo returns the endpoints delivery was attempted against.
func (m *MockSender) SentTo() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.sent))
	copy(out, m.sent)
	return out
}

// PayloadFor returns the last payload sent to an endpoint.
func (m *MockSender) PayloadFor(endpoint string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.payloads[endpoint]
}
