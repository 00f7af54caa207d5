package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/strandwork/overseer/internal/port/reasoner"
)

// Reasoner implements the reasoner port on top of a chat completions client.
type Reasoner struct {
	client *Client
}

// NewReasoner wraps a chat completions client as a reasoning collaborator.
func NewReasoner(client *Client) *Reasoner {
	return &Reasoner{client: client}
}

// Plan asks the model to decompose the objective and records the resulting
// tasks on the board.
func (r *Reasoner) Plan(ctx context.Context, req reasoner.PlanRequest, board reasoner.TaskBoard) error {
	content, err := r.client.Complete(ctx, []Message{
		{Role: "system", Content: planSystemPrompt},
		{Role: "user", Content: buildPlanPrompt(req)},
	})
	if err != nil {
		return fmt.Errorf("plan completion: %w", err)
	}

	var parsed struct {
		Tasks []string `json:"tasks"`
	}
	if err := json.Unmarshal([]byte(stripFence(content)), &parsed); err != nil {
		return fmt.Errorf("parse plan response: %w", err)
	}
	if len(parsed.Tasks) == 0 {
		return fmt.Errorf("plan response contained no tasks")
	}

	if _, err := board.CreateFromDescriptions(parsed.Tasks, nil); err != nil {
		return fmt.Errorf("record planned tasks: %w", err)
	}
	return nil
}

// executeResponse is the execute contract as the model emits it. Artifacts
// carrying inline content are written into the run's store; bare path strings
// are accepted as self-reported names and left unwritten.
type executeResponse struct {
	Success   bool           `json:"success"`
	Result    string         `json:"result"`
	Artifacts []artifactSpec `json:"artifacts"`
	Details   string         `json:"details"`
}

type artifactSpec struct {
	Path    string
	Content string
	inline  bool
}

func (a *artifactSpec) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &a.Path)
	}
	var v struct {
		Path    string  `json:"path"`
		Content *string `json:"content"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	a.Path = v.Path
	if v.Content != nil {
		a.Content = *v.Content
		a.inline = true
	}
	return nil
}

// Execute asks the model to perform one task and writes the files it emits
// into the run's artifact store. A well-formed failure report from the model
// is returned as a result with Success == false; only transport and contract
// errors become error returns.
func (r *Reasoner) Execute(ctx context.Context, req reasoner.ExecuteRequest, files reasoner.ArtifactAccess) (*reasoner.ExecuteResult, error) {
	content, err := r.client.Complete(ctx, []Message{
		{Role: "system", Content: executeSystemPrompt},
		{Role: "user", Content: buildExecutePrompt(req, files.List())},
	})
	if err != nil {
		return nil, fmt.Errorf("execute completion: %w", err)
	}

	var parsed executeResponse
	if err := json.Unmarshal([]byte(stripFence(content)), &parsed); err != nil {
		// Models occasionally answer in prose. Treat non-JSON output as a
		// successful free-form result rather than failing the task.
		return &reasoner.ExecuteResult{Success: true, Result: content}, nil
	}

	result := &reasoner.ExecuteResult{
		Success: parsed.Success,
		Result:  parsed.Result,
		Details: parsed.Details,
	}
	for _, a := range parsed.Artifacts {
		if a.Path == "" {
			continue
		}
		if a.inline {
			if err := files.Write(a.Path, a.Content); err != nil {
				return nil, fmt.Errorf("write artifact %s: %w", a.Path, err)
			}
		}
		result.Artifacts = append(result.Artifacts, a.Path)
	}
	return result, nil
}

// Finalize asks the model for a closing synthesis.
func (r *Reasoner) Finalize(ctx context.Context, req reasoner.FinalizeRequest) (string, error) {
	content, err := r.client.Complete(ctx, []Message{
		{Role: "system", Content: finalizeSystemPrompt},
		{Role: "user", Content: buildFinalizePrompt(req)},
	})
	if err != nil {
		return "", fmt.Errorf("finalize completion: %w", err)
	}
	return strings.TrimSpace(content), nil
}

// stripFence removes a surrounding markdown code fence if present.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
