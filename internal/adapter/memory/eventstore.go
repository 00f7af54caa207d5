// Package memory implements the event store port with per-run in-memory
// append-only logs. Nothing survives a process restart, by contract.
package memory

import (
	"context"
	"sync"

	"github.com/strandwork/overseer/internal/domain/event"
)

// EventStore keeps one append-only log per run id.
type EventStore struct {
	mu   sync.Mutex
	logs map[string]*event.Log
}

// NewEventStore creates an empty in-memory event store.
func NewEventStore() *EventStore {
	return &EventStore{logs: make(map[string]*event.Log)}
}

// Append adds ev to its run's log, creating the log on first use.
func (s *EventStore) Append(_ context.Context, ev event.Event) error {
	s.mu.Lock()
	log, ok := s.logs[ev.RunID]
	if !ok {
		log = &event.Log{}
		s.logs[ev.RunID] = log
	}
	s.mu.Unlock()

	log.Append(ev)
	return nil
}

// LoadByRun returns all events for the run in append order. An unknown run
// id yields an empty slice, not an error: a run with no events is
// indistinguishable from one that never started.
func (s *EventStore) LoadByRun(_ context.Context, runID string) ([]event.Event, error) {
	s.mu.Lock()
	log, ok := s.logs[runID]
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return log.All(), nil
}

// DeleteRun drops the log for a run, freeing its memory when a session is
// removed.
func (s *EventStore) DeleteRun(_ context.Context, runID string) error {
	s.mu.Lock()
	delete(s.logs, runID)
	s.mu.Unlock()
	return nil
}
