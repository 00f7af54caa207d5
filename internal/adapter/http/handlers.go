// Package http exposes the run and artifact surface over a chi-routed REST
// API.
package http

import (
	"context"
	"net/http"

	"github.com/strandwork/overseer/internal/domain/event"
	"github.com/strandwork/overseer/internal/domain/workflow"
	"github.com/strandwork/overseer/internal/port/eventstore"
	"github.com/strandwork/overseer/internal/service"
	"github.com/strandwork/overseer/internal/store/artifact"
)

// Handlers holds the HTTP handler dependencies.
type Handlers struct {
	Sessions *service.SessionManager
	Events   eventstore.Store
	Health   func(ctx context.Context) map[string]any // optional extra health detail
}

type startRunRequest struct {
	Objective     string `json:"objective"`
	MaxIterations int    `json:"max_iterations,omitempty"`
	Wait          bool   `json:"wait,omitempty"` // true runs synchronously
}

// StartRun creates a new run for an objective. With wait=true the response
// carries the finished run; otherwise the run executes in the background and
// the response carries the initial snapshot.
func (h *Handlers) StartRun(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[startRunRequest](w, r)
	if !ok {
		return
	}
	if !requireField(w, req.Objective, "objective") {
		return
	}

	if req.Wait {
		st, err := h.Sessions.Run(r.Context(), req.Objective, req.MaxIterations)
		if err != nil {
			writeDomainError(w, err, "run failed")
			return
		}
		sess, err := h.Sessions.Get(st.RunID)
		if err != nil {
			writeDomainError(w, err, "run not found")
			return
		}
		writeJSON(w, http.StatusOK, sess.Snapshot())
		return
	}

	// Detach the run from the request context so client disconnects do not
	// cancel it.
	sess, err := h.Sessions.StartRun(context.WithoutCancel(r.Context()), req.Objective, req.MaxIterations)
	if err != nil {
		writeDomainError(w, err, "run not started")
		return
	}
	writeJSON(w, http.StatusAccepted, sess.Snapshot())
}

// ListRuns returns a snapshot of every tracked run.
func (h *Handlers) ListRuns(w http.ResponseWriter, _ *http.Request) {
	sessions := h.Sessions.List()
	out := make([]workflow.Snapshot, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.Snapshot())
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": out})
}

// GetRun returns the snapshot for one run.
func (h *Handlers) GetRun(w http.ResponseWriter, r *http.Request) {
	sess, err := h.Sessions.Get(urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "run not found")
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

// DeleteRun removes a run's session, artifacts, and event history.
func (h *Handlers) DeleteRun(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Delete(r.Context(), urlParam(r, "id")); err != nil {
		writeDomainError(w, err, "run not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ListRunEvents returns the append-only event log for a run.
func (h *Handlers) ListRunEvents(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")
	if _, err := h.Sessions.Get(id); err != nil {
		writeDomainError(w, err, "run not found")
		return
	}
	events, err := h.Events.LoadByRun(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "events unavailable")
		return
	}
	if events == nil {
		events = []event.Event{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

// ListArtifacts returns size metadata for every artifact of a run, in
// insertion order.
func (h *Handlers) ListArtifacts(w http.ResponseWriter, r *http.Request) {
	sess, err := h.Sessions.Get(urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "run not found")
		return
	}

	paths := sess.Artifacts.List()
	files := make([]artifact.FileInfo, 0, len(paths))
	for _, p := range paths {
		info, infoErr := sess.Artifacts.Info(p)
		if infoErr != nil {
			continue
		}
		files = append(files, info)
	}
	writeJSON(w, http.StatusOK, map[string]any{"files": files})
}

// ReadArtifact returns one artifact's content.
func (h *Handlers) ReadArtifact(w http.ResponseWriter, r *http.Request) {
	sess, err := h.Sessions.Get(urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "run not found")
		return
	}

	path := urlParam(r, "*")
	content, err := sess.Artifacts.Read(path)
	if err != nil {
		writeDomainError(w, err, "file not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"path": path, "content": content})
}

type writeArtifactRequest struct {
	Content string `json:"content"`
}

// WriteArtifact creates or fully replaces one artifact.
func (h *Handlers) WriteArtifact(w http.ResponseWriter, r *http.Request) {
	sess, err := h.Sessions.Get(urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "run not found")
		return
	}
	req, ok := readJSON[writeArtifactRequest](w, r)
	if !ok {
		return
	}

	result, err := sess.Artifacts.Write(urlParam(r, "*"), req.Content)
	if err != nil {
		writeDomainError(w, err, "write failed")
		return
	}
	status := http.StatusCreated
	if result.Status == artifact.StatusOverwritten {
		status = http.StatusOK
	}
	writeJSON(w, status, result)
}

type editArtifactRequest struct {
	Mode  string                 `json:"mode,omitempty"`
	Text  string                 `json:"text,omitempty"`
	Pairs []artifact.FindReplace `json:"pairs,omitempty"`
}

// EditArtifact applies an append, find_replace, or replace edit and returns
// the unified diff of the change.
func (h *Handlers) EditArtifact(w http.ResponseWriter, r *http.Request) {
	sess, err := h.Sessions.Get(urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "run not found")
		return
	}
	req, ok := readJSON[editArtifactRequest](w, r)
	if !ok {
		return
	}

	mode, err := artifact.ParseEditMode(req.Mode)
	if err != nil {
		writeDomainError(w, err, "invalid edit mode")
		return
	}

	result, err := sess.Artifacts.Edit(urlParam(r, "*"), artifact.EditSpec{
		Text:  req.Text,
		Pairs: req.Pairs,
	}, mode)
	if err != nil {
		writeDomainError(w, err, "file not found")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// DeleteArtifact removes one artifact.
func (h *Handlers) DeleteArtifact(w http.ResponseWriter, r *http.Request) {
	sess, err := h.Sessions.Get(urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "run not found")
		return
	}

	path := urlParam(r, "*")
	if err := sess.Artifacts.Delete(path); err != nil {
		writeDomainError(w, err, "file not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"path": path, "status": "deleted"})
}

// ClearArtifacts removes every artifact of a run and reports the count.
func (h *Handlers) ClearArtifacts(w http.ResponseWriter, r *http.Request) {
	sess, err := h.Sessions.Get(urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "run not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"removed": sess.Artifacts.Clear()})
}

// HealthCheck reports service liveness plus optional component detail.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status": "ok",
		"runs":   len(h.Sessions.List()),
	}
	if h.Health != nil {
		for k, v := range h.Health(r.Context()) {
			resp[k] = v
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
