package push

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kingcader/attache/internal/fault"
	"github.com/kingcader/attache/internal/models"
	"go.uber.org/zap"
)

// SubscriptionStore is the subscription persistence capability.
type SubscriptionStore interface {
	UpsertSubscription(ctx context.Context, sub *models.PushSubscription) error
	DeactivateEndpoint(ctx context.Context, endpoint string) error
	DeactivateSubscription(ctx context.Context, id string) error
	ActiveSubscriptions(ctx context.Context) ([]models.PushSubscription, error)
	SubscriptionByEndpoint(ctx context.Context, endpoint string) (*models.PushSubscription, error)
}

// Registry handles subscription lifecycle: registration and removal.
type Registry struct {
	subs SubscriptionStore
	log  *zap.Logger
}

// NewRegistry creates a Registry.
func NewRegistry(subs SubscriptionStore, log *zap.Logger) (*Registry, error) {
	if subs == nil {
		return nil, fmt.Errorf("push: subscription store is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{subs: subs, log: log}, nil
}

// RegisterInput carries the browser-supplied subscription details.
type RegisterInput struct {
	Endpoint   string
	P256dh     string
	Auth       string
	DeviceName string
}

// Register upserts a subscription keyed by endpoint. Re-registering an
// endpoint updates its keys and device metadata and reactivates it; it
// never creates a second row.
func (r *Registry) Register(ctx context.Context, in RegisterInput) (*models.PushSubscription, error) {
	if in.Endpoint == "" {
		return nil, &fault.ValidationError{Field: "endpoint", Msg: "endpoint is required"}
	}
	if in.P256dh == "" {
		return nil, &fault.ValidationError{Field: "keys.p256dh", Msg: "keys.p256dh is required"}
	}
	if in.Auth == "" {
		return nil, &fault.ValidationError{Field: "keys.auth", Msg: "keys.auth is required"}
	}

	sub := &models.PushSubscription{
		ID:         uuid.NewString(),
		Endpoint:   in.Endpoint,
		P256dh:     in.P256dh,
		Auth:       in.Auth,
		DeviceName: in.DeviceName,
		Active:     true,
	}
	if err := r.subs.UpsertSubscription(ctx, sub); err != nil {
		return nil, err
	}

	// The upsert may have kept an existing row; report what is stored.
	stored, err := r.subs.SubscriptionByEndpoint(ctx, in.Endpoint)
	if err != nil {
		return nil, err
	}
	r.log.Info("push subscription registered",
		zap.String("endpoint", stored.Endpoint),
		zap.String("device", stored.DeviceName))
	return stored, nil
}

// Remove deactivates the subscription for an endpoint. The row is kept;
// it simply stops receiving deliveries.
func (r *Registry) Remove(ctx context.Context, endpoint string) error {
	if endpoint == "" {
		return &fault.ValidationError{Field: "endpoint", Msg: "endpoint is required"}
	}
	if err := r.subs.DeactivateEndpoint(ctx, endpoint); err != nil {
		return err
	}
	r.log.Info("push subscription removed", zap.String("endpoint", endpoint))
	return nil
}
