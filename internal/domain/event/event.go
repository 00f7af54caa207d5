// Package event defines the append-only run event log. The log replaces the
// implicit message-accumulation convention of earlier designs with an
// explicit type and a single merge rule: events are appended in sequence
// order and never rewritten.
package event

import (
	"encoding/json"
	"sync"
	"time"
)

// Type identifies the kind of run event.
type Type string

const (
	TypeRunStarted    Type = "run.started"
	TypePlanRequested Type = "plan.requested"
	TypeTaskStarted   Type = "task.started"
	TypeTaskCompleted Type = "task.completed"
	TypeTaskFailed    Type = "task.failed"
	TypeRunFinalized  Type = "run.finalized"
)

// Event is one entry in a run's trajectory.
type Event struct {
	RunID   string          `json:"run_id"`
	Seq     int             `json:"seq"`
	Type    Type            `json:"type"`
	At      time.Time       `json:"at"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Log is an append-only sequence of events for one run. Append assigns the
// next sequence number; existing entries are never modified or removed.
type Log struct {
	mu     sync.Mutex
	events []Event
}

// Append adds ev to the log, stamping its sequence number and timestamp if
// unset, and returns the stored event.
func (l *Log) Append(ev Event) Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	ev.Seq = len(l.events) + 1
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	l.events = append(l.events, ev)
	return ev
}

// All returns a copy of the log in append order.
func (l *Log) All() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// Len returns the number of events appended so far.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

// Marshal encodes v as the payload for an event, ignoring encode errors by
// returning a nil payload. Payloads are advisory context for observers, not
// load-bearing state.
func Marshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}
