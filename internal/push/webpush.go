package push

import (
	"context"
	"fmt"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/kingcader/attache/internal/config"
	"github.com/kingcader/attache/internal/models"
)

// WebPushSender is the production Sender, delivering over the Web Push
// protocol with VAPID authentication.
type WebPushSender struct {
	subscriber string
	publicKey  string
	privateKey string
	ttl        int
}

// NewWebPushSender builds a sender from push configuration.
func NewWebPushSender(cfg config.PushConfig) *WebPushSender {
	return &WebPushSender{
		subscriber: cfg.Subscriber,
		publicKey:  cfg.VAPIDPublicKey,
		privateKey: cfg.VAPIDPrivateKey,
		ttl:        cfg.TTLSeconds,
	}
}

// Send implements Sender. 404 and 410 from the push service mean the
// subscription no longer exists.
func (w *WebPushSender) Send(ctx context.Context, sub models.PushSubscription, payload []byte) (Result, error) {
	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &webpush.Options{
		Subscriber:      w.subscriber,
		VAPIDPublicKey:  w.publicKey,
		VAPIDPrivateKey: w.privateKey,
		TTL:             w.ttl,
	})
	if err != nil {
		return Failed, fmt.Errorf("push: send to %s: %w", sub.Endpoint, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return Expired, fmt.Errorf("push: subscription gone (status %d)", resp.StatusCode)
	case resp.StatusCode >= 400:
		return Failed, fmt.Errorf("push: push service returned status %d", resp.StatusCode)
	default:
		return Delivered, nil
	}
}
