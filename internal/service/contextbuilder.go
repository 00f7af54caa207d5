package service

import (
	"github.com/strandwork/overseer/internal/domain/task"
	"github.com/strandwork/overseer/internal/domain/tool"
	"github.com/strandwork/overseer/internal/domain/workflow"
)

// completedTaskContext is the view of one finished task handed to the
// collaborator as prior-work context.
type completedTaskContext struct {
	Description string   `json:"description"`
	Result      string   `json:"result"`
	Artifacts   []string `json:"artifacts,omitempty"`
}

// BuildExecutionContext assembles the context map for executing the task with
// currentID. Only tasks completed with an id lower than the current one are
// included: a task is never shown results from work that logically comes
// later, even when that work happened to finish first.
func BuildExecutionContext(objective string, iteration int, tasks []task.Task, currentID int, files []string) map[string]any {
	var completed []completedTaskContext
	for _, t := range tasks {
		if t.Status != task.StatusCompleted || t.ID >= currentID {
			continue
		}
		completed = append(completed, completedTaskContext{
			Description: t.Description,
			Result:      t.Result,
			Artifacts:   append([]string(nil), t.Artifacts...),
		})
	}

	return map[string]any{
		"objective":           objective,
		"iteration_count":     iteration,
		"completed_tasks":     completed,
		"pending_tasks_count": workflow.PendingCount(tasks),
		"available_files":     append([]string(nil), files...),
	}
}

// SuccessCriteria derives the advisory "done" description for a task from
// its assigned tools: one clause per matching tool plus a generic completion
// clause. The text guides the collaborator and is never validated against.
func SuccessCriteria(description string, tools []tool.Name) string {
	criteria := "Complete the task: " + description

	for _, t := range tools {
		switch t {
		case tool.ExecuteCode:
			criteria += " and provide the execution results"
		case tool.WriteFile:
			criteria += " and save any important results to files"
		case tool.SearchInternet:
			criteria += " and provide relevant information found"
		case tool.WebScrape:
			criteria += " and extract the requested content"
		}
	}

	criteria += ". Ensure the task is completed successfully and any artifacts are created as needed."
	return criteria
}
