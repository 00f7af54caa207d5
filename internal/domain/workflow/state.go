// Package workflow defines the per-run orchestration state and the pure
// decision rules that drive the DECIDE → EXECUTE/PLAN/FINALIZE → SYNC loop.
package workflow

import (
	"time"

	"github.com/strandwork/overseer/internal/domain/task"
)

// DefaultMaxIterations caps the orchestration loop when the caller does not
// supply a limit.
const DefaultMaxIterations = 20

// State is the mutable workflow state for a single run. The objective is
// immutable for the lifetime of the run; the state stops mutating once
// FinalResult is set.
type State struct {
	RunID          string    `json:"run_id"`
	Objective      string    `json:"objective"`
	CurrentTaskID  int       `json:"current_task_id,omitempty"`
	IterationCount int       `json:"iteration_count"`
	MaxIterations  int       `json:"max_iterations"`
	FinalResult    string    `json:"final_result,omitempty"`
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at,omitempty"`
}

// NewState creates the initial state for a run. maxIterations <= 0 selects
// the default cap.
func NewState(runID, objective string, maxIterations int) *State {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	return &State{
		RunID:         runID,
		Objective:     objective,
		MaxIterations: maxIterations,
		StartedAt:     time.Now().UTC(),
	}
}

// Done reports whether the run has produced its final result.
func (s *State) Done() bool {
	return s.FinalResult != ""
}

// Snapshot is a read-only view of a run combining workflow state with the
// derived task views, rendered to API and MCP clients.
type Snapshot struct {
	State          State       `json:"state"`
	Tasks          []task.Task `json:"tasks"`
	PendingTasks   []task.Task `json:"pending_tasks"`
	CompletedTasks []task.Task `json:"completed_tasks"`
	AvailableFiles []string    `json:"available_files"`
}
