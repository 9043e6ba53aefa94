package messaging

import "context"

// Publisher is the sole outbound channel used to alert collaborators.
// Implementations must treat the payload as opaque JSON.
type Publisher interface {
	PublishToQueue(ctx context.Context, queue string, payload []byte) error
	Close()
}
