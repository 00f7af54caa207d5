// Package messagequeue defines the port interface for publishing run events
// to external consumers.
package messagequeue

import "context"

// Handler processes one message from a subscription.
type Handler func(subject string, data []byte) error

// Queue is the port interface for a publish/subscribe message queue.
type Queue interface {
	Publish(ctx context.Context, subject string, data []byte) error
	Subscribe(ctx context.Context, subject string, handler Handler) (func(), error)
	Close() error
}
