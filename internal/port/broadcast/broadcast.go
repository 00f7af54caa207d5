// Package broadcast defines the port interface for pushing run events to
// connected frontends.
package broadcast

import "context"

// Broadcaster fans a typed event out to all connected clients. Delivery is
// best-effort; slow or disconnected clients never block the orchestrator.
type Broadcaster interface {
	BroadcastEvent(ctx context.Context, eventType string, payload any)
}
