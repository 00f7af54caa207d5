package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/strandwork/overseer/internal/domain"
	"github.com/strandwork/overseer/internal/domain/workflow"
	"github.com/strandwork/overseer/internal/store/artifact"
	"github.com/strandwork/overseer/internal/store/ledger"
)

// Session owns the per-run state: workflow state, task ledger, and artifact
// store. Each run gets fresh instances; nothing is shared across sessions.
type Session struct {
	ID        string
	State     *workflow.State
	Ledger    *ledger.Ledger
	Artifacts *artifact.Store
}

// Snapshot renders the session as a read-only view.
func (s *Session) Snapshot() workflow.Snapshot {
	tasks := s.Ledger.All()
	snap := workflow.Snapshot{
		State:          *s.State,
		Tasks:          tasks,
		AvailableFiles: s.Artifacts.List(),
	}
	for _, t := range tasks {
		switch {
		case t.Status.Terminal():
			snap.CompletedTasks = append(snap.CompletedTasks, t)
		default:
			snap.PendingTasks = append(snap.PendingTasks, t)
		}
	}
	return snap
}

// SessionManager creates, tracks, and removes run sessions, and caps how
// many orchestration loops run concurrently.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	orch *Orchestrator
	sem  *semaphore.Weighted

	maxIterations int
}

// NewSessionManager creates a manager that allows up to maxConcurrent runs
// at once. maxIterations <= 0 selects the default iteration cap.
func NewSessionManager(orch *Orchestrator, maxConcurrent int64, maxIterations int) *SessionManager {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &SessionManager{
		sessions:      make(map[string]*Session),
		orch:          orch,
		sem:           semaphore.NewWeighted(maxConcurrent),
		maxIterations: maxIterations,
	}
}

// Run is the synchronous entry point: it creates a session for the objective,
// drives the full orchestration loop, and returns the final workflow state.
// maxIterations <= 0 selects the manager's configured cap.
func (m *SessionManager) Run(ctx context.Context, objective string, maxIterations int) (*workflow.State, error) {
	sess, err := m.create(objective, maxIterations)
	if err != nil {
		return nil, err
	}

	if err := m.sem.Acquire(ctx, 1); err != nil {
		m.remove(sess.ID)
		return nil, fmt.Errorf("acquire run slot: %w", err)
	}
	defer m.sem.Release(1)

	if err := m.orch.Run(ctx, sess); err != nil {
		return nil, err
	}
	return sess.State, nil
}

// StartRun creates a session and drives it in the background, returning
// immediately. The session remains inspectable through Get while it runs.
func (m *SessionManager) StartRun(ctx context.Context, objective string, maxIterations int) (*Session, error) {
	sess, err := m.create(objective, maxIterations)
	if err != nil {
		return nil, err
	}

	go func() {
		if err := m.sem.Acquire(ctx, 1); err != nil {
			slog.Warn("run slot acquisition failed", "run_id", sess.ID, "error", err)
			m.remove(sess.ID)
			return
		}
		defer m.sem.Release(1)

		if err := m.orch.Run(ctx, sess); err != nil {
			slog.Error("run failed", "run_id", sess.ID, "error", err)
		}
	}()
	return sess, nil
}

// Get returns the session with the given run id.
func (m *SessionManager) Get(runID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[runID]
	if !ok {
		return nil, fmt.Errorf("run %q: %w", runID, domain.ErrNotFound)
	}
	return sess, nil
}

// List returns all tracked sessions ordered by start time.
func (m *SessionManager) List() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].State.StartedAt.Before(out[j].State.StartedAt)
	})
	return out
}

// Delete removes a session and its event history.
func (m *SessionManager) Delete(ctx context.Context, runID string) error {
	m.mu.Lock()
	_, ok := m.sessions[runID]
	delete(m.sessions, runID)
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("run %q: %w", runID, domain.ErrNotFound)
	}
	return m.orch.DeleteRunEvents(ctx, runID)
}

func (m *SessionManager) create(objective string, maxIterations int) (*Session, error) {
	if objective == "" {
		return nil, fmt.Errorf("%w: empty objective", domain.ErrValidation)
	}
	if maxIterations <= 0 {
		maxIterations = m.maxIterations
	}

	sess := &Session{
		ID:        uuid.NewString(),
		Ledger:    ledger.New(),
		Artifacts: artifact.New(),
	}
	sess.State = workflow.NewState(sess.ID, objective, maxIterations)

	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()
	return sess, nil
}

func (m *SessionManager) remove(runID string) {
	m.mu.Lock()
	delete(m.sessions, runID)
	m.mu.Unlock()
}
