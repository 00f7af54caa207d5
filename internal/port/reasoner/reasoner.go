// Package reasoner defines the port for the external reasoning collaborator:
// the opaque engine that plans task lists, performs individual tasks with its
// own tools, and optionally writes the closing synthesis. The orchestration
// core never depends on a concrete implementation.
package reasoner

import (
	"context"

	"github.com/strandwork/overseer/internal/domain/task"
)

// TaskBoard is the narrow ledger surface handed to the collaborator during
// planning. Its only required observable effect is zero or more calls into
// these two operations.
type TaskBoard interface {
	CreateFromDescriptions(lines []string, defaultTools []string) ([]task.Task, error)
	Add(description string, defaultTools []string) (task.Task, error)
}

// ArtifactAccess is the artifact surface the collaborator uses while
// executing a task. All content is UTF-8 text.
type ArtifactAccess interface {
	Read(path string) (string, error)
	Write(path, content string) error
	List() []string
}

// PlanRequest carries the workflow state the collaborator needs to decompose
// an objective into tasks.
type PlanRequest struct {
	RunID     string
	Objective string
	Iteration int
}

// ExecuteRequest is the task execution contract. Tools have already been
// alias-normalized and validated by the caller; Context carries completed
// prior work and the current artifact listing.
type ExecuteRequest struct {
	RunID           string
	TaskID          int
	Description     string
	AssignedTools   []string
	Context         map[string]any
	SuccessCriteria string
}

// ExecuteResult is the structured outcome of one task execution. A failed
// task is reported with Success == false, never with an error: transport and
// contract errors are the only error returns.
type ExecuteResult struct {
	Success   bool     `json:"success"`
	Result    string   `json:"result"`
	Artifacts []string `json:"artifacts,omitempty"`
	Details   string   `json:"details,omitempty"`
}

// FinalizeRequest asks the collaborator for a closing synthesis. The
// orchestrator falls back to a locally synthesized summary when the returned
// text is empty or the call errors.
type FinalizeRequest struct {
	RunID     string
	Objective string
	Tasks     []task.Task
}

// Reasoner is the port interface for the external collaborator.
type Reasoner interface {
	// Plan decomposes the objective into tasks by calling into board.
	Plan(ctx context.Context, req PlanRequest, board TaskBoard) error

	// Execute performs one task against the run's artifact store.
	Execute(ctx context.Context, req ExecuteRequest, files ArtifactAccess) (*ExecuteResult, error)

	// Finalize produces a closing synthesis, or "" to delegate it back.
	Finalize(ctx context.Context, req FinalizeRequest) (string, error)
}
