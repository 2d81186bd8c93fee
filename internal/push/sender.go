// Package push manages Web Push subscriptions and notification delivery.
// Registration is an upsert keyed by endpoint; dispatch fans out to every
// active subscription with per-subscription failure isolation.
package push

import (
	"context"

	"github.com/kingcader/attache/internal/models"
)

// Result classifies one delivery attempt.
type Result int

const (
	// Delivered means the push service accepted the message.
	Delivered Result = iota
	// Expired means the subscription is gone or invalid and must be
	// deactivated. Only this outcome touches subscription state.
	Expired
	// Failed means a transient failure. The subscription stays active and
	// no automatic retry happens; the next scheduled dispatch is the retry.
	Failed
)

// String returns the outcome name for logs.
func (r Result) String() string {
	switch r {
	case Delivered:
		return "delivered"
	case Expired:
		return "expired"
	default:
		return "failed"
	}
}

// Sender delivers a payload to one subscription. Implementations must
// classify the outcome; they never mutate subscription state themselves.
type Sender interface {
	Send(ctx context.Context, sub models.PushSubscription, payload []byte) (Result, error)
}

// NopSender is used when web push is not configured. Notifications are
// still recorded in-app; delivery is a no-op.
type NopSender struct{}

func (NopSender) Send(ctx context.Context, sub models.PushSubscription, payload []byte) (Result, error) {
	return Delivered, nil
}
