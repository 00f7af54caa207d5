// Package service wires the orchestration loop: per-run sessions, the
// decide/plan/execute/finalize state machine, and the observers that watch a
// run progress.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	obs "github.com/strandwork/overseer/internal/adapter/otel"
	"github.com/strandwork/overseer/internal/adapter/ws"
	"github.com/strandwork/overseer/internal/domain/event"
	"github.com/strandwork/overseer/internal/domain/task"
	"github.com/strandwork/overseer/internal/domain/tool"
	"github.com/strandwork/overseer/internal/domain/workflow"
	"github.com/strandwork/overseer/internal/port/broadcast"
	"github.com/strandwork/overseer/internal/port/eventstore"
	"github.com/strandwork/overseer/internal/port/messagequeue"
	"github.com/strandwork/overseer/internal/port/reasoner"
	"github.com/strandwork/overseer/internal/store/artifact"
)

// Orchestrator drives the run state machine. It owns no per-run state: each
// call to Run operates on the session it is handed, so sessions can run
// concurrently without shared stores.
type Orchestrator struct {
	reasoner reasoner.Reasoner
	events   eventstore.Store
	hub      broadcast.Broadcaster // optional
	queue    messagequeue.Queue    // optional
	metrics  *obs.Metrics          // optional
}

// NewOrchestrator creates an orchestrator. hub, queue, and metrics may be
// nil; only the reasoner and event store are required.
func NewOrchestrator(r reasoner.Reasoner, events eventstore.Store, hub broadcast.Broadcaster, queue messagequeue.Queue, metrics *obs.Metrics) *Orchestrator {
	return &Orchestrator{
		reasoner: r,
		events:   events,
		hub:      hub,
		queue:    queue,
		metrics:  metrics,
	}
}

// Run drives one session from its current state to finalization. It returns
// only after the final result is set; a collaborator failure mid-run marks
// the affected task failed and the loop proceeds, so the only error returns
// are event-store failures and context cancellation.
func (o *Orchestrator) Run(ctx context.Context, sess *Session) error {
	st := sess.State
	ctx, runSpan := obs.StartRunSpan(ctx, st.RunID, st.Objective)
	defer runSpan.End()

	if o.metrics != nil {
		o.metrics.RunsStarted.Add(ctx, 1)
	}
	o.record(ctx, st.RunID, event.TypeRunStarted, map[string]any{
		"objective":      st.Objective,
		"max_iterations": st.MaxIterations,
	})
	slog.Info("run started", "run_id", st.RunID, "objective", st.Objective)

	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("run %s: %w", st.RunID, err)
		}

		st.IterationCount++
		decision := workflow.Decide(st, sess.Ledger.All())

		iterCtx, iterSpan := obs.StartIterationSpan(ctx, st.RunID, st.IterationCount, string(decision.Action))
		slog.Debug("iteration decided",
			"run_id", st.RunID,
			"iteration", st.IterationCount,
			"action", decision.Action,
			"reason", decision.Reason)
		o.broadcast(iterCtx, ws.EventRunStatus, ws.RunStatusEvent{
			RunID:     st.RunID,
			Action:    string(decision.Action),
			Reason:    decision.Reason,
			Iteration: st.IterationCount,
		})

		switch decision.Action {
		case workflow.ActionPlan:
			o.plan(iterCtx, sess)
		case workflow.ActionExecute:
			o.execute(iterCtx, sess, decision.NextTaskID)
		case workflow.ActionFinalize:
			o.finalize(iterCtx, sess)
		}
		iterSpan.End()

		if st.Done() {
			break
		}
		if !workflow.ShouldContinue(st, sess.Ledger.All()) {
			o.finalize(ctx, sess)
			break
		}
	}

	if o.metrics != nil {
		o.metrics.RunsCompleted.Add(ctx, 1)
		o.metrics.RunIterations.Record(ctx, float64(st.IterationCount))
		o.metrics.RunDuration.Record(ctx, st.FinishedAt.Sub(st.StartedAt).Seconds())
	}
	slog.Info("run finished",
		"run_id", st.RunID,
		"iterations", st.IterationCount,
		"tasks", sess.Ledger.Len())
	return nil
}

// DeleteRunEvents drops a run's event history.
func (o *Orchestrator) DeleteRunEvents(ctx context.Context, runID string) error {
	return o.events.DeleteRun(ctx, runID)
}

// plan delegates task decomposition to the collaborator. The only observable
// effect is tasks appearing in the ledger; a planning failure leaves the
// ledger empty and the continuation policy ends the run on the next check.
func (o *Orchestrator) plan(ctx context.Context, sess *Session) {
	st := sess.State
	o.record(ctx, st.RunID, event.TypePlanRequested, map[string]any{
		"iteration": st.IterationCount,
	})

	err := o.reasoner.Plan(ctx, reasoner.PlanRequest{
		RunID:     st.RunID,
		Objective: st.Objective,
		Iteration: st.IterationCount,
	}, sess.Ledger)
	if err != nil {
		slog.Warn("planning failed", "run_id", st.RunID, "error", err)
		return
	}
	slog.Info("plan created", "run_id", st.RunID, "tasks", sess.Ledger.Len())
}

// execute runs one task through the collaborator and applies the outcome to
// the ledger. Collaborator errors become failed-task records, never run
// aborts.
func (o *Orchestrator) execute(ctx context.Context, sess *Session, taskID int) {
	st := sess.State
	t, err := sess.Ledger.ByID(taskID)
	if err != nil {
		slog.Error("decided task missing from ledger", "run_id", st.RunID, "task_id", taskID, "error", err)
		return
	}

	ctx, span := obs.StartTaskSpan(ctx, st.RunID, t.ID, tool.Strings(t.AssignedTools))
	defer span.End()

	st.CurrentTaskID = t.ID
	defer func() { st.CurrentTaskID = 0 }()

	if _, err := sess.Ledger.UpdateStatus(t.ID, string(task.StatusInProgress)); err != nil {
		slog.Error("task transition failed", "run_id", st.RunID, "task_id", t.ID, "error", err)
		return
	}
	o.record(ctx, st.RunID, event.TypeTaskStarted, map[string]any{
		"task_id":     t.ID,
		"description": t.Description,
		"tools":       tool.Strings(t.AssignedTools),
	})
	o.broadcast(ctx, ws.EventTaskStatus, ws.TaskStatusEvent{
		RunID:       st.RunID,
		TaskID:      t.ID,
		Description: t.Description,
		Status:      string(task.StatusInProgress),
	})

	before := sess.Artifacts.List()
	result := o.delegate(ctx, sess, t, before)

	// The authoritative artifact list is the store delta, not whatever the
	// collaborator self-reports.
	delta := listDelta(before, sess.Artifacts.List())

	status := task.StatusCompleted
	if !result.Success {
		status = task.StatusFailed
	}
	if _, err := sess.Ledger.UpdateStatusWithArtifacts(t.ID, string(status), delta); err != nil {
		slog.Error("task outcome not recorded", "run_id", st.RunID, "task_id", t.ID, "error", err)
		return
	}
	if err := sess.Ledger.SetResult(t.ID, result.Result); err != nil {
		slog.Error("task result not recorded", "run_id", st.RunID, "task_id", t.ID, "error", err)
	}

	evType := event.TypeTaskCompleted
	if status == task.StatusFailed {
		evType = event.TypeTaskFailed
		if o.metrics != nil {
			o.metrics.TasksFailed.Add(ctx, 1)
		}
	} else if o.metrics != nil {
		o.metrics.TasksCompleted.Add(ctx, 1)
	}
	o.record(ctx, st.RunID, evType, map[string]any{
		"task_id":   t.ID,
		"result":    result.Result,
		"artifacts": delta,
		"details":   result.Details,
	})
	o.broadcast(ctx, ws.EventTaskStatus, ws.TaskStatusEvent{
		RunID:       st.RunID,
		TaskID:      t.ID,
		Description: t.Description,
		Status:      string(status),
		Artifacts:   delta,
	})
	if len(delta) > 0 {
		o.broadcast(ctx, ws.EventArtifact, ws.ArtifactEvent{RunID: st.RunID, Paths: delta})
	}

	slog.Info("task finished",
		"run_id", st.RunID,
		"task_id", t.ID,
		"status", status,
		"artifacts", len(delta))
}

// delegate performs the collaborator call for one task, converting every
// failure mode into a structured result.
func (o *Orchestrator) delegate(ctx context.Context, sess *Session, t task.Task, files []string) *reasoner.ExecuteResult {
	// Tools were validated at creation time; revalidate at the contract
	// boundary so a malformed assignment surfaces as a failure report.
	if _, err := tool.Normalize(tool.Strings(t.AssignedTools)); err != nil {
		return &reasoner.ExecuteResult{
			Success: false,
			Result:  "task execution rejected: invalid tool assignment",
			Details: err.Error(),
		}
	}

	st := sess.State
	req := reasoner.ExecuteRequest{
		RunID:           st.RunID,
		TaskID:          t.ID,
		Description:     t.Description,
		AssignedTools:   tool.Strings(t.AssignedTools),
		Context:         BuildExecutionContext(st.Objective, st.IterationCount, sess.Ledger.All(), t.ID, files),
		SuccessCriteria: SuccessCriteria(t.Description, t.AssignedTools),
	}

	result, err := o.reasoner.Execute(ctx, req, artifactAccess{sess.Artifacts})
	if err != nil {
		slog.Warn("task execution errored", "run_id", st.RunID, "task_id", t.ID, "error", err)
		return &reasoner.ExecuteResult{
			Success: false,
			Result:  fmt.Sprintf("task execution failed: %v", err),
			Details: err.Error(),
		}
	}
	if result == nil {
		return &reasoner.ExecuteResult{
			Success: false,
			Result:  "task execution failed: collaborator returned no result",
		}
	}
	return result
}

// finalize sets the run's final result. A collaborator synthesis wins when
// it produces one; otherwise the summary is synthesized locally so the run
// never ends without a final result.
func (o *Orchestrator) finalize(ctx context.Context, sess *Session) {
	st := sess.State
	if st.Done() {
		return
	}

	tasks := sess.Ledger.All()
	text, err := o.reasoner.Finalize(ctx, reasoner.FinalizeRequest{
		RunID:     st.RunID,
		Objective: st.Objective,
		Tasks:     tasks,
	})
	if err != nil {
		slog.Warn("collaborator finalize failed, synthesizing locally", "run_id", st.RunID, "error", err)
		text = ""
	}
	if text == "" {
		text = Synthesize(st.Objective, tasks, st.IterationCount)
	}

	st.FinalResult = text
	st.FinishedAt = time.Now().UTC()

	o.record(ctx, st.RunID, event.TypeRunFinalized, map[string]any{
		"iterations":   st.IterationCount,
		"final_result": text,
	})
	o.broadcast(ctx, ws.EventRunFinalized, ws.RunFinalizedEvent{
		RunID:       st.RunID,
		FinalResult: text,
		Iterations:  st.IterationCount,
	})
}

// record appends a run event and mirrors it onto the message queue.
func (o *Orchestrator) record(ctx context.Context, runID string, evType event.Type, payload any) {
	ev := event.Event{RunID: runID, Type: evType, Payload: event.Marshal(payload)}
	if err := o.events.Append(ctx, ev); err != nil {
		slog.Error("event append failed", "run_id", runID, "type", evType, "error", err)
	}
	if o.queue != nil {
		data := event.Marshal(ev)
		if err := o.queue.Publish(ctx, runSubject(runID), data); err != nil {
			slog.Warn("event publish failed", "run_id", runID, "type", evType, "error", err)
		}
	}
}

func (o *Orchestrator) broadcast(ctx context.Context, eventType string, payload any) {
	if o.hub != nil {
		o.hub.BroadcastEvent(ctx, eventType, payload)
	}
}

func runSubject(runID string) string {
	return "runs." + runID + ".events"
}

// listDelta returns the paths present in after but not in before, preserving
// the store's insertion order.
func listDelta(before, after []string) []string {
	seen := make(map[string]struct{}, len(before))
	for _, p := range before {
		seen[p] = struct{}{}
	}
	var delta []string
	for _, p := range after {
		if _, ok := seen[p]; !ok {
			delta = append(delta, p)
		}
	}
	return delta
}

// artifactAccess narrows the artifact store to the collaborator-facing port.
type artifactAccess struct {
	store *artifact.Store
}

func (a artifactAccess) Read(path string) (string, error) {
	return a.store.Read(path)
}

func (a artifactAccess) Write(path, content string) error {
	_, err := a.store.Write(path, content)
	return err
}

func (a artifactAccess) List() []string {
	return a.store.List()
}
