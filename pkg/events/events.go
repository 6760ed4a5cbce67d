package events

import (
	"context"

	"github.com/zedx/codeshop/pkg/api"
)

// Publisher defines the interface for a component that publishes purchase
// events to downstream consumers (reporting, export, alerting).
type Publisher interface {
	// PublishPurchase emits one event per committed purchase. Publishing is
	// best effort; a failure never unwinds the purchase itself.
	PublishPurchase(ctx context.Context, event *api.PurchaseEvent) error
}

// NoOpPublisher is a Publisher that discards events. It is used in tests and
// in deployments without a queue configured.
type NoOpPublisher struct{}

// PublishPurchase does nothing.
func (p *NoOpPublisher) PublishPurchase(ctx context.Context, event *api.PurchaseEvent) error {
	return nil
}
