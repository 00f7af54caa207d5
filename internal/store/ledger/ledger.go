// Package ledger implements the ordered task queue and history for one run.
// Task ids are strictly increasing and never reused; completed and failed
// tasks stay in the ledger as history while leaving the pending view.
//
// Ledgers are created per run and passed by handle into the orchestrator,
// never shared across sessions.
package ledger

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/strandwork/overseer/internal/domain"
	"github.com/strandwork/overseer/internal/domain/task"
	"github.com/strandwork/overseer/internal/domain/tool"
)

// Ledger owns the full task collection plus the next-id counter.
type Ledger struct {
	mu     sync.Mutex
	tasks  []task.Task
	nextID int
}

// New creates an empty ledger. Ids start at 1.
func New() *Ledger {
	return &Ledger{nextID: 1}
}

// CreateFromDescriptions creates one pending task per non-blank line.
// Lines may themselves contain newlines; every logical line break splits.
// defaultTools, when given, is validated against the tool registry and used
// for tasks where no assignment rule matches.
func (l *Ledger) CreateFromDescriptions(lines []string, defaultTools []string) ([]task.Task, error) {
	defaults, err := tool.Normalize(defaultTools)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var created []task.Task
	for _, line := range lines {
		for _, desc := range strings.Split(line, "\n") {
			desc = strings.TrimSpace(desc)
			if desc == "" {
				continue
			}
			created = append(created, l.appendTask(desc, defaults))
		}
	}
	return task.CloneAll(created), nil
}

// Add appends one task with the same id and tool-assignment logic as
// CreateFromDescriptions.
func (l *Ledger) Add(description string, defaultTools []string) (task.Task, error) {
	desc := strings.TrimSpace(description)
	if desc == "" {
		return task.Task{}, fmt.Errorf("%w: empty task description", domain.ErrValidation)
	}
	defaults, err := tool.Normalize(defaultTools)
	if err != nil {
		return task.Task{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.appendTask(desc, defaults).Clone(), nil
}

// appendTask must be called with l.mu held.
func (l *Ledger) appendTask(description string, defaults []tool.Name) task.Task {
	now := time.Now().UTC()
	t := task.Task{
		ID:            l.nextID,
		Description:   description,
		Status:        task.StatusPending,
		AssignedTools: assignTools(description, defaults),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	l.tasks = append(l.tasks, t)
	l.nextID++
	return t
}

// UpdateStatus transitions the task with the given id to newStatus.
func (l *Ledger) UpdateStatus(id int, newStatus string) (task.Task, error) {
	return l.update(id, newStatus, nil, false)
}

// UpdateStatusWithArtifacts transitions the task and attaches the artifact
// paths it produced.
func (l *Ledger) UpdateStatusWithArtifacts(id int, newStatus string, artifacts []string) (task.Task, error) {
	return l.update(id, newStatus, artifacts, true)
}

func (l *Ledger) update(id int, newStatus string, artifacts []string, withArtifacts bool) (task.Task, error) {
	status, err := task.ParseStatus(newStatus)
	if err != nil {
		return task.Task{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.tasks {
		if l.tasks[i].ID != id {
			continue
		}
		// A task never returns to pending once it has left that state.
		if status == task.StatusPending && l.tasks[i].Status != task.StatusPending {
			return task.Task{}, fmt.Errorf("%w: task %d cannot return to pending from %s",
				domain.ErrInvalidStatus, id, l.tasks[i].Status)
		}
		l.tasks[i].Status = status
		l.tasks[i].UpdatedAt = time.Now().UTC()
		if withArtifacts {
			l.tasks[i].Artifacts = append([]string(nil), artifacts...)
		}
		return l.tasks[i].Clone(), nil
	}
	return task.Task{}, fmt.Errorf("task %d: %w", id, domain.ErrNotFound)
}

// SetResult attaches the free-text result to a task record.
func (l *Ledger) SetResult(id int, result string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.tasks {
		if l.tasks[i].ID == id {
			l.tasks[i].Result = result
			l.tasks[i].UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return fmt.Errorf("task %d: %w", id, domain.ErrNotFound)
}

// Pending returns the tasks still pending, in ledger order.
func (l *Ledger) Pending() []task.Task {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []task.Task
	for _, t := range l.tasks {
		if t.Status == task.StatusPending {
			out = append(out, t.Clone())
		}
	}
	return out
}

// ByID returns the task with the given id.
func (l *Ledger) ByID(id int) (task.Task, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, t := range l.tasks {
		if t.ID == id {
			return t.Clone(), nil
		}
	}
	return task.Task{}, fmt.Errorf("task %d: %w", id, domain.ErrNotFound)
}

// All returns a copy of the full collection; mutating it does not affect the
// ledger.
func (l *Ledger) All() []task.Task {
	l.mu.Lock()
	defer l.mu.Unlock()
	return task.CloneAll(l.tasks)
}

// ClearCompleted removes completed tasks from the collection and returns the
// count removed. Ids of removed tasks are never reused.
func (l *Ledger) ClearCompleted() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	kept := l.tasks[:0]
	removed := 0
	for _, t := range l.tasks {
		if t.Status == task.StatusCompleted {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	l.tasks = kept
	return removed
}

// Len returns the total number of tasks, pending and terminal alike.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks)
}
