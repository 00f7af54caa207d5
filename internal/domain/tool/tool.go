// Package tool defines the closed set of tool identifiers that can be
// assigned to tasks, and the alias normalization applied to incoming names.
package tool

import (
	"fmt"
	"strings"

	"github.com/strandwork/overseer/internal/domain"
)

// Name identifies a tool a subagent may use while executing a task.
type Name string

const (
	ExecuteCode    Name = "execute_code"
	WriteFile      Name = "write_file"
	ReadFile       Name = "read_file"
	EditFile       Name = "edit_file"
	SearchInternet Name = "search_internet"
	WebScrape      Name = "web_scrape"
)

// all lists every registered tool in a stable order.
var all = []Name{ExecuteCode, WriteFile, ReadFile, EditFile, SearchInternet, WebScrape}

// aliases maps historically-seen tool name variants to their canonical form.
var aliases = map[string]Name{
	"execute_code_tool":    ExecuteCode,
	"write_file_tool":      WriteFile,
	"read_file_tool":       ReadFile,
	"edit_file_tool":       EditFile,
	"search_internet_tool": SearchInternet,
	"web_scrape_tool":      WebScrape,
}

// All returns the registered tool names in registration order.
func All() []Name {
	out := make([]Name, len(all))
	copy(out, all)
	return out
}

// AllStrings returns the registered tool names as plain strings.
func AllStrings() []string {
	out := make([]string, len(all))
	for i, n := range all {
		out[i] = string(n)
	}
	return out
}

// Canonical resolves a raw tool name to its canonical registered form.
// Known aliases (the "_tool"-suffixed variants) are normalized; ok is false
// when the name does not resolve to any registered tool.
func Canonical(raw string) (Name, bool) {
	trimmed := strings.TrimSpace(raw)
	if canon, found := aliases[trimmed]; found {
		return canon, true
	}
	n := Name(trimmed)
	for _, known := range all {
		if n == known {
			return n, true
		}
	}
	return n, false
}

// Normalize canonicalizes each name in raw and returns the resolved set.
// Unresolvable names are collected into an ErrInvalidTools error that lists
// both the offending names and the full valid set.
func Normalize(raw []string) ([]Name, error) {
	out := make([]Name, 0, len(raw))
	var invalid []string
	for _, r := range raw {
		canon, ok := Canonical(r)
		if !ok {
			invalid = append(invalid, r)
			continue
		}
		out = append(out, canon)
	}
	if len(invalid) > 0 {
		return nil, fmt.Errorf("%w: %s (valid tools: %s)",
			domain.ErrInvalidTools,
			strings.Join(invalid, ", "),
			strings.Join(AllStrings(), ", "))
	}
	return out, nil
}

// Strings converts a tool name slice to plain strings for wire payloads.
func Strings(names []Name) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return out
}
