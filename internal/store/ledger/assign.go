package ledger

import (
	"strings"

	"github.com/strandwork/overseer/internal/domain/tool"
)

// assignRule contributes one tool when its predicate matches the lowercased
// task description. Rules are evaluated top to bottom; each tool appears at
// most once in the result, in rule order.
type assignRule struct {
	tool  tool.Name
	match func(desc string) bool
}

func anyKeyword(keywords ...string) func(string) bool {
	return func(desc string) bool {
		for _, kw := range keywords {
			if strings.Contains(desc, kw) {
				return true
			}
		}
		return false
	}
}

// reportWords mark tasks that summarize prior work rather than compute
// something new; they suppress the secondary calculation keywords.
var reportWords = []string{"report", "summary", "show", "display"}

func calculationMatch(desc string) bool {
	primary := anyKeyword("calculate", "compute", "algorithm", "formula", "math", "number", "sequence")
	if primary(desc) {
		return true
	}
	secondary := anyKeyword("fibonacci", "sum", "total")
	if !secondary(desc) {
		return false
	}
	return !anyKeyword(reportWords...)(desc)
}

// assignRules is the ordered keyword→tool table. First-listed rules have
// priority in the resulting tool order; the fallback when nothing matches is
// the caller-supplied default set, or write_file alone.
var assignRules = []assignRule{
	{tool.ExecuteCode, calculationMatch},
	{tool.WriteFile, anyKeyword("save", "write", "create file", "store", "output to file", "save to")},
	{tool.ReadFile, anyKeyword(
		"read", "load", "open file", "from file", "read file",
		"summary", "report", "show", "display", "based on", "using",
		"from", "with", "containing", "including", "combine", "merge")},
	{tool.EditFile, anyKeyword("edit", "modify", "update file", "change")},
	{tool.SearchInternet, anyKeyword("search", "find", "look up", "research", "web", "internet")},
	{tool.WebScrape, anyKeyword("scrape", "extract from", "crawl", "get content from url")},
}

// assignTools derives the tool set for a task description from the rule
// table. The table is deterministic and independent of orchestration logic
// so the heuristic stays testable and swappable.
func assignTools(description string, defaults []tool.Name) []tool.Name {
	desc := strings.ToLower(description)

	var tools []tool.Name
	for _, r := range assignRules {
		if r.match(desc) {
			tools = append(tools, r.tool)
		}
	}
	if len(tools) > 0 {
		return tools
	}
	if len(defaults) > 0 {
		return append([]tool.Name(nil), defaults...)
	}
	return []tool.Name{tool.WriteFile}
}
