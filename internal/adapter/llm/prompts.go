package llm

import (
	"fmt"
	"sort"
	"strings"

	"github.com/strandwork/overseer/internal/port/reasoner"
)

const planSystemPrompt = `You are a planning coordinator that decomposes complex objectives into manageable, actionable tasks.

Break the objective into clear, sequential task descriptions. Each task should be completable by a focused worker with a small set of tools.

Respond with a JSON object of the form:
{"tasks": ["first task description", "second task description"]}

Return JSON only, no surrounding prose.`

const executeSystemPrompt = `You are a specialized worker completing one specific task.

Be focused and efficient. Save important findings to files so later tasks can build on them: every entry in "artifacts" with a "content" field is written to that path for you.

Respond with a JSON object of the form:
{"success": true, "result": "summary of what was accomplished", "artifacts": [{"path": "results/output.txt", "content": "full file content"}], "details": "optional longer notes"}

Return JSON only, no surrounding prose.`

const finalizeSystemPrompt = `You are a coordinator synthesizing the final results of a multi-task run.

Summarize what was accomplished across all tasks, highlight key findings, and reference the files that were created. Respond with plain text.`

func buildPlanPrompt(req reasoner.PlanRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## OBJECTIVE\n%s\n\n", req.Objective)
	fmt.Fprintf(&b, "## ITERATION\n%d\n\n", req.Iteration)
	b.WriteString("Decompose this objective into an ordered task list.")
	return b.String()
}

func buildExecutePrompt(req reasoner.ExecuteRequest, files []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## TASK\n%s\n\n", req.Description)

	fmt.Fprintf(&b, "## ASSIGNED TOOLS\n%s\n\n", formatList(req.AssignedTools))

	b.WriteString("## CONTEXT FROM PREVIOUS WORK\n")
	if len(req.Context) == 0 {
		b.WriteString("No previous context available\n\n")
	} else {
		keys := make([]string, 0, len(req.Context))
		for k := range req.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "- %s: %v\n", k, req.Context[k])
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## AVAILABLE FILES\n%s\n\n", formatList(files))
	fmt.Fprintf(&b, "## SUCCESS CRITERIA\n%s\n", req.SuccessCriteria)
	return b.String()
}

func buildFinalizePrompt(req reasoner.FinalizeRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## OBJECTIVE\n%s\n\n", req.Objective)
	b.WriteString("## TASKS\n")
	if len(req.Tasks) == 0 {
		b.WriteString("No tasks were executed.\n")
	}
	for _, t := range req.Tasks {
		fmt.Fprintf(&b, "- [%s] %s", t.Status, t.Description)
		if t.Result != "" {
			fmt.Fprintf(&b, " | Result: %s", truncate(t.Result, 200))
		}
		if len(t.Artifacts) > 0 {
			fmt.Fprintf(&b, " | Artifacts: %s", strings.Join(t.Artifacts, ", "))
		}
		b.WriteString("\n")
	}
	b.WriteString("\nSynthesize the final result for this run.")
	return b.String()
}

func formatList(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- " + item)
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
