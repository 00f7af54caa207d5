// Package task defines the Task domain entity and its status lifecycle.
package task

import (
	"fmt"
	"time"

	"github.com/strandwork/overseer/internal/domain"
	"github.com/strandwork/overseer/internal/domain/tool"
)

// Status represents the current state of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// ParseStatus validates a raw status string against the closed status set.
func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusPending, StatusInProgress, StatusCompleted, StatusFailed:
		return Status(raw), nil
	default:
		return "", fmt.Errorf("%w: %q (must be one of: pending, in_progress, completed, failed)",
			domain.ErrInvalidStatus, raw)
	}
}

// Terminal reports whether s is a terminal status.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Task is one unit of work in the ledger. IDs are strictly increasing in
// order of creation and never reused. Artifacts is populated only once the
// task reaches a terminal status.
type Task struct {
	ID            int         `json:"id"`
	Description   string      `json:"description"`
	Status        Status      `json:"status"`
	AssignedTools []tool.Name `json:"assigned_tools"`
	Artifacts     []string    `json:"artifacts,omitempty"`
	Result        string      `json:"result,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// Clone returns a deep copy so callers cannot mutate ledger internals.
func (t Task) Clone() Task {
	out := t
	out.AssignedTools = append([]tool.Name(nil), t.AssignedTools...)
	out.Artifacts = append([]string(nil), t.Artifacts...)
	return out
}

// CloneAll deep-copies a task slice.
func CloneAll(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
