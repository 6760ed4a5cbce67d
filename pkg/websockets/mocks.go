package websockets

import "context"

// NoOpPublisher discards storefront updates. It stands in for the real
// publisher in tests and in deployments without a websocket API configured.
type NoOpPublisher struct{}

// Publish drops the message.
func (p *NoOpPublisher) Publish(ctx context.Context, message Message) error {
	return nil
}
