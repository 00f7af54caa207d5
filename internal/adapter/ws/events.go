package ws

// Event type constants for WebSocket messages.
const (
	EventRunStatus    = "run.status"
	EventTaskStatus   = "task.status"
	EventArtifact     = "artifact.changed"
	EventRunFinalized = "run.finalized"
)

// RunStatusEvent is broadcast on every orchestrator loop transition.
type RunStatusEvent struct {
	RunID     string `json:"run_id"`
	Action    string `json:"action"`
	Reason    string `json:"reason,omitempty"`
	Iteration int    `json:"iteration"`
}

// TaskStatusEvent is broadcast when a task's status changes.
type TaskStatusEvent struct {
	RunID       string   `json:"run_id"`
	TaskID      int      `json:"task_id"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Artifacts   []string `json:"artifacts,omitempty"`
}

// ArtifactEvent is broadcast when a task run produces or removes files.
type ArtifactEvent struct {
	RunID string   `json:"run_id"`
	Paths []string `json:"paths"`
}

// RunFinalizedEvent is broadcast once per run with the closing summary.
type RunFinalizedEvent struct {
	RunID       string `json:"run_id"`
	FinalResult string `json:"final_result"`
	Iterations  int    `json:"iterations"`
}
