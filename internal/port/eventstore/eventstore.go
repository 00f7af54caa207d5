// Package eventstore defines the port interface for the append-only run
// event store.
package eventstore

import (
	"context"

	"github.com/strandwork/overseer/internal/domain/event"
)

// Store is the port interface for appending and loading run events.
type Store interface {
	// Append persists a new event; the store assigns the sequence number.
	Append(ctx context.Context, ev event.Event) error

	// LoadByRun returns all events for the given run in append order.
	LoadByRun(ctx context.Context, runID string) ([]event.Event, error)

	// DeleteRun drops all events for the given run.
	DeleteRun(ctx context.Context, runID string) error
}
