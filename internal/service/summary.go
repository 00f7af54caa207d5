package service

import (
	"fmt"
	"strings"

	"github.com/strandwork/overseer/internal/domain/task"
)

const resultSnippetLen = 200

// Synthesize builds the local run summary used when the collaborator does
// not supply a final result. Completed and failed tasks are both listed so a
// partially-failed run still yields a coherent report.
func Synthesize(objective string, tasks []task.Task, iterations int) string {
	var completed, failed, pending []task.Task
	for _, t := range tasks {
		switch t.Status {
		case task.StatusCompleted:
			completed = append(completed, t)
		case task.StatusFailed:
			failed = append(failed, t)
		default:
			pending = append(pending, t)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Objective: %s\n\n", objective)
	fmt.Fprintf(&b, "Run finished after %d iteration(s): %d completed, %d failed, %d pending.\n",
		iterations, len(completed), len(failed), len(pending))

	if len(tasks) == 0 {
		b.WriteString("\nNo tasks were planned or executed for this objective.\n")
		return b.String()
	}

	if len(completed) > 0 {
		b.WriteString("\nCompleted tasks:\n")
		for _, t := range completed {
			writeTaskLine(&b, t)
		}
	}
	if len(failed) > 0 {
		b.WriteString("\nFailed tasks:\n")
		for _, t := range failed {
			writeTaskLine(&b, t)
		}
	}
	if len(pending) > 0 {
		b.WriteString("\nPending tasks (not executed):\n")
		for _, t := range pending {
			fmt.Fprintf(&b, "  %d. %s\n", t.ID, t.Description)
		}
	}

	if len(failed) == 0 && len(pending) == 0 {
		b.WriteString("\nAll planned tasks completed successfully.\n")
	} else {
		b.WriteString("\nThe run ended with partial results; see the task list above.\n")
	}
	return b.String()
}

func writeTaskLine(b *strings.Builder, t task.Task) {
	fmt.Fprintf(b, "  %d. %s", t.ID, t.Description)
	if t.Result != "" {
		fmt.Fprintf(b, "\n     Result: %s", snippet(t.Result))
	}
	if len(t.Artifacts) > 0 {
		fmt.Fprintf(b, "\n     Artifacts: %s", strings.Join(t.Artifacts, ", "))
	}
	b.WriteString("\n")
}

func snippet(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= resultSnippetLen {
		return s
	}
	return s[:resultSnippetLen] + "..."
}
