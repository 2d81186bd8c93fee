package push

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/kingcader/attache/internal/models"
	"go.uber.org/zap"
)

// NotificationStore is the notification persistence capability.
type NotificationStore interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
}

// Note is one logical notification event to deliver.
type Note struct {
	Title    string
	Body     string
	Kind     string
	ThreadID *string
}

// Receipt summarizes a dispatch: the persisted notification plus
// per-outcome delivery counts.
type Receipt struct {
	NotificationID string `json:"notification_id"`
	Delivered      int    `json:"delivered"`
	Expired        int    `json:"expired"`
	Failed         int    `json:"failed"`
}

// Dispatcher persists notifications and fans deliveries out to every
// active subscription.
type Dispatcher struct {
	subs   SubscriptionStore
	notes  NotificationStore
	sender Sender
	log    *zap.Logger
}

// DispatcherOpts holds parameters for creating a Dispatcher.
type DispatcherOpts struct {
	Subscriptions SubscriptionStore
	Notifications NotificationStore
	Sender        Sender
	Logger        *zap.Logger
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(opts DispatcherOpts) (*Dispatcher, error) {
	if opts.Subscriptions == nil {
		return nil, fmt.Errorf("push: subscription store is required")
	}
	if opts.Notifications == nil {
		return nil, fmt.Errorf("push: notification store is required")
	}
	if opts.Sender == nil {
		return nil, fmt.Errorf("push: sender is required")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		subs:   opts.Subscriptions,
		notes:  opts.Notifications,
		sender: opts.Sender,
		log:    log,
	}, nil
}

// Dispatch persists the notification, then delivers it concurrently to
// every active subscription. The notification row is committed before any
// delivery attempt references it. One subscription's failure never aborts
// delivery to the others: an expired subscription is deactivated, a
// transient failure is logged and left for the next dispatch.
func (d *Dispatcher) Dispatch(ctx context.Context, note Note) (*Receipt, error) {
	n := &models.Notification{
		ID:       uuid.NewString(),
		Title:    note.Title,
		Body:     note.Body,
		Kind:     note.Kind,
		ThreadID: note.ThreadID,
	}
	if err := d.notes.CreateNotification(ctx, n); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(map[string]string{
		"notification_id": n.ID,
		"title":           note.Title,
		"body":            note.Body,
		"kind":            note.Kind,
	})
	if err != nil {
		return nil, fmt.Errorf("push: marshal payload: %w", err)
	}

	subs, err := d.subs.ActiveSubscriptions(ctx)
	if err != nil {
		return nil, err
	}

	receipt := &Receipt{NotificationID: n.ID}
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, sub := range subs {
		wg.Add(1)
		go func(sub models.PushSubscription) {
			defer wg.Done()
			result, sendErr := d.sender.Send(ctx, sub, payload)

			mu.Lock()
			switch result {
			case Delivered:
				receipt.Delivered++
			case Expired:
				receipt.Expired++
			default:
				receipt.Failed++
			}
			mu.Unlock()

			switch result {
			case Delivered:
			case Expired:
				if err := d.subs.DeactivateSubscription(ctx, sub.ID); err != nil {
					d.log.Error("deactivate expired subscription",
						zap.String("endpoint", sub.Endpoint), zap.Error(err))
				} else {
					d.log.Info("subscription expired, deactivated",
						zap.String("endpoint", sub.Endpoint))
				}
			default:
				d.log.Warn("push delivery failed",
					zap.String("endpoint", sub.Endpoint), zap.Error(sendErr))
			}
		}(sub)
	}
	wg.Wait()

	return receipt, nil
}

// DispatchTest sends a debug notification through the exact same pipeline
// as production dispatch; only the payload differs.
func (d *Dispatcher) DispatchTest(ctx context.Context) (*Receipt, error) {
	return d.Dispatch(ctx, Note{
		Title: "Test notification",
		Body:  "Push delivery is working.",
		Kind:  models.NoteTest,
	})
}
