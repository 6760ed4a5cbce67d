package websockets

import (
	"context"
)

// ConnectionManager maintains the storefront connection registry. The
// lifecycle handlers register connections on $connect and remove them on
// $disconnect; the publisher prunes entries it finds gone mid-broadcast.
type ConnectionManager interface {
	AddConnection(ctx context.Context, connectionID string) error
	RemoveConnection(ctx context.Context, connectionID string) error
}

// Publisher broadcasts one storefront update to every connected client.
type Publisher interface {
	Publish(ctx context.Context, message Message) error
}
