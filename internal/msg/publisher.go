package msg

import "context"

// Publisher separates "serialize and publish a message" from the concrete
// broker client, so tests can substitute an in-memory double.
type Publisher interface {
	// Publish JSON-encodes payload and sends it to topic under key.
	Publish(ctx context.Context, topic, key string, payload any) error
	Close()
}
