package workflow

import (
	"testing"

	"github.com/strandwork/overseer/internal/domain/task"
)

func pending(id int) task.Task {
	return task.Task{ID: id, Status: task.StatusPending}
}

func done(id int) task.Task {
	return task.Task{ID: id, Status: task.StatusCompleted}
}

func TestDecideEmptyLedgerFirstIterationPlans(t *testing.T) {
	st := NewState("r1", "objective", 10)
	st.IterationCount = 1

	d := Decide(st, nil)
	if d.Action != ActionPlan {
		t.Errorf("Action = %s, want plan", d.Action)
	}
}

func TestDecideEmptyLedgerLaterIterationFinalizes(t *testing.T) {
	st := NewState("r1", "objective", 10)
	st.IterationCount = 2

	d := Decide(st, nil)
	if d.Action != ActionFinalize {
		t.Errorf("Action = %s, want finalize", d.Action)
	}
	if d.Reason != "all tasks completed" {
		t.Errorf("Reason = %q", d.Reason)
	}
}

func TestDecideSelectsLowestPendingID(t *testing.T) {
	st := NewState("r1", "objective", 10)
	st.IterationCount = 2

	// Ledger order deliberately differs from id order.
	tasks := []task.Task{pending(3), pending(1), pending(2)}
	d := Decide(st, tasks)
	if d.Action != ActionExecute {
		t.Fatalf("Action = %s, want execute", d.Action)
	}
	if d.NextTaskID != 1 {
		t.Errorf("NextTaskID = %d, want 1", d.NextTaskID)
	}
}

func TestDecideSkipsTerminalTasks(t *testing.T) {
	st := NewState("r1", "objective", 10)
	st.IterationCount = 3

	tasks := []task.Task{done(1), {ID: 2, Status: task.StatusFailed}, pending(3)}
	d := Decide(st, tasks)
	if d.Action != ActionExecute || d.NextTaskID != 3 {
		t.Errorf("Decision = %+v, want execute task 3", d)
	}
}

func TestDecideAllTerminalFinalizes(t *testing.T) {
	st := NewState("r1", "objective", 10)
	st.IterationCount = 4

	d := Decide(st, []task.Task{done(1), done(2)})
	if d.Action != ActionFinalize {
		t.Errorf("Action = %s, want finalize", d.Action)
	}
	if d.Reason != "all tasks completed" {
		t.Errorf("Reason = %q", d.Reason)
	}
}

func TestDecideIterationCapWinsOverPendingWork(t *testing.T) {
	st := NewState("r1", "objective", 5)
	st.IterationCount = 5

	d := Decide(st, []task.Task{pending(1)})
	if d.Action != ActionFinalize {
		t.Errorf("Action = %s, want finalize", d.Action)
	}
	if d.Reason != "maximum iterations reached" {
		t.Errorf("Reason = %q", d.Reason)
	}
}

func TestShouldContinue(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*State)
		tasks []task.Task
		want  bool
	}{
		{
			name:  "final result ends the run",
			setup: func(s *State) { s.IterationCount = 2; s.FinalResult = "done" },
			tasks: []task.Task{pending(1)},
			want:  false,
		},
		{
			name:  "empty ledger gets one more pass",
			setup: func(s *State) { s.IterationCount = 1 },
			tasks: nil,
			want:  true,
		},
		{
			name:  "empty ledger after second pass stops",
			setup: func(s *State) { s.IterationCount = 2 },
			tasks: nil,
			want:  false,
		},
		{
			name:  "pending work continues",
			setup: func(s *State) { s.IterationCount = 3 },
			tasks: []task.Task{done(1), pending(2)},
			want:  true,
		},
		{
			name:  "no pending work stops",
			setup: func(s *State) { s.IterationCount = 3 },
			tasks: []task.Task{done(1), done(2)},
			want:  false,
		},
		{
			name:  "iteration cap stops",
			setup: func(s *State) { s.IterationCount = 10 },
			tasks: []task.Task{pending(1)},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := NewState("r1", "objective", 10)
			tt.setup(st)
			if got := ShouldContinue(st, tt.tasks); got != tt.want {
				t.Errorf("ShouldContinue = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewStateDefaultCap(t *testing.T) {
	st := NewState("r1", "objective", 0)
	if st.MaxIterations != DefaultMaxIterations {
		t.Errorf("MaxIterations = %d, want %d", st.MaxIterations, DefaultMaxIterations)
	}
	if st.Done() {
		t.Error("fresh state must not be done")
	}
}

func TestPendingCount(t *testing.T) {
	tasks := []task.Task{pending(1), done(2), pending(3), {ID: 4, Status: task.StatusInProgress}}
	if got := PendingCount(tasks); got != 2 {
		t.Errorf("PendingCount = %d, want 2", got)
	}
}
