package workflow

import "github.com/strandwork/overseer/internal/domain/task"

// Action is the next step selected by the DECIDE rule.
type Action string

const (
	ActionPlan     Action = "plan"
	ActionExecute  Action = "execute"
	ActionFinalize Action = "finalize"
)

// Decision is the outcome of one DECIDE evaluation.
type Decision struct {
	Action     Action `json:"action"`
	Reason     string `json:"reason"`
	NextTaskID int    `json:"next_task_id,omitempty"`
}

// Decide evaluates the per-iteration decision rule against a ledger snapshot.
// The rules, in order:
//  1. iteration cap reached → finalize (safety net, not an error)
//  2. empty ledger on the first pass → plan
//  3. any pending task → execute the lowest-id pending task (strict FIFO)
//  4. otherwise → finalize
func Decide(st *State, tasks []task.Task) Decision {
	if st.IterationCount >= st.MaxIterations {
		return Decision{Action: ActionFinalize, Reason: "maximum iterations reached"}
	}

	if len(tasks) == 0 && st.IterationCount == 1 {
		return Decision{Action: ActionPlan, Reason: "no tasks exist, need to create initial plan"}
	}

	if next, ok := lowestPending(tasks); ok {
		return Decision{
			Action:     ActionExecute,
			Reason:     "execute task " + next.Description,
			NextTaskID: next.ID,
		}
	}

	return Decision{Action: ActionFinalize, Reason: "all tasks completed"}
}

// ShouldContinue is the loop-continuation policy evaluated after each SYNC.
// It is independent of Decide: a run ends when a final result exists, when
// planning has produced nothing after two passes, when no pending work
// remains, or when the iteration cap is hit.
func ShouldContinue(st *State, tasks []task.Task) bool {
	if st.Done() {
		return false
	}
	if len(tasks) == 0 {
		// Give planning one more chance on the first pass only.
		return st.IterationCount < 2
	}
	if _, ok := lowestPending(tasks); !ok {
		return false
	}
	return st.IterationCount < st.MaxIterations
}

// lowestPending returns the pending task with the lowest id, not the first
// in creation order. Ids normally coincide with creation order, but the
// scheduling contract is on the id.
func lowestPending(tasks []task.Task) (task.Task, bool) {
	var best task.Task
	found := false
	for _, t := range tasks {
		if t.Status != task.StatusPending {
			continue
		}
		if !found || t.ID < best.ID {
			best = t
			found = true
		}
	}
	return best, found
}

// PendingCount returns the number of tasks still pending.
func PendingCount(tasks []task.Task) int {
	n := 0
	for _, t := range tasks {
		if t.Status == task.StatusPending {
			n++
		}
	}
	return n
}
