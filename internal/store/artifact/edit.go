package artifact

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/strandwork/overseer/internal/domain"
)

// NoChanges is returned as the diff when the edited content is textually
// identical to the original.
const NoChanges = "No changes detected"

// EditMode selects how an Edit is applied.
type EditMode string

const (
	ModeAuto        EditMode = "auto"
	ModeAppend      EditMode = "append"
	ModeFindReplace EditMode = "find_replace"
	ModeReplace     EditMode = "replace"
)

// ParseEditMode validates a raw mode string; empty selects auto.
func ParseEditMode(raw string) (EditMode, error) {
	switch EditMode(raw) {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModeAppend, ModeFindReplace, ModeReplace:
		return EditMode(raw), nil
	default:
		return "", fmt.Errorf("%w: edit mode %q (must be auto, append, find_replace, or replace)",
			domain.ErrValidation, raw)
	}
}

// FindReplace is one ordered find/replace pair. Pairs apply to the current,
// possibly already-modified content in list order.
type FindReplace struct {
	Find    string `json:"find"`
	Replace string `json:"replace"`
}

// EditSpec carries the edit payload. Pairs is used by find_replace; Text by
// append and replace. Auto mode infers find_replace when Pairs is non-nil
// and replace otherwise.
type EditSpec struct {
	Text  string        `json:"text,omitempty"`
	Pairs []FindReplace `json:"pairs,omitempty"`
}

// ChangeReport records one applied find/replace pair. A pair with zero
// occurrences is a no-op but is still reported, with Occurrences == 0.
type ChangeReport struct {
	Find        string `json:"find"`
	Replace     string `json:"replace"`
	Occurrences int    `json:"occurrences"`
}

// EditResult reports the outcome of a successful Edit, including a unified
// diff of original vs. new content.
type EditResult struct {
	Path              string         `json:"path"`
	Operation         string         `json:"operation"`
	Diff              string         `json:"diff"`
	BytesWritten      int            `json:"bytes_written,omitempty"`
	BytesAdded        int            `json:"bytes_added,omitempty"`
	TotalReplacements int            `json:"total_replacements,omitempty"`
	Changes           []ChangeReport `json:"changes,omitempty"`
}

// Edit applies spec to the existing file at path. Editing a non-existent
// path is an error, never an implicit create.
func (s *Store) Edit(path string, spec EditSpec, mode EditMode) (EditResult, error) {
	if err := validPath(path); err != nil {
		return EditResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.files[path]
	if !ok {
		return EditResult{}, fmt.Errorf("file %q: %w", path, domain.ErrNotFound)
	}

	if mode == ModeAuto || mode == "" {
		if spec.Pairs != nil {
			mode = ModeFindReplace
		} else {
			mode = ModeReplace
		}
	}

	switch mode {
	case ModeAppend:
		return s.applyAppend(path, original, spec.Text), nil
	case ModeReplace:
		// Deliberately not content-equality-checked: every invocation
		// reports success, and the diff says "No changes detected" when
		// the new content matches the old.
		s.files[path] = spec.Text
		return EditResult{
			Path:         path,
			Operation:    OpReplace,
			Diff:         unifiedDiff(original, spec.Text),
			BytesWritten: len(spec.Text),
		}, nil
	case ModeFindReplace:
		return s.applyFindReplace(path, original, spec.Pairs), nil
	default:
		return EditResult{}, fmt.Errorf("%w: edit mode %q", domain.ErrValidation, mode)
	}
}

// applyAppend concatenates text, inserting a separating newline only when the
// existing content is non-empty and does not already end in one.
func (s *Store) applyAppend(path, original, text string) EditResult {
	separator := ""
	if original != "" && original[len(original)-1] != '\n' {
		separator = "\n"
	}
	next := original + separator + text
	s.files[path] = next
	return EditResult{
		Path:       path,
		Operation:  OpAppend,
		Diff:       unifiedDiff(original, next),
		BytesAdded: len(text),
	}
}

func (s *Store) applyFindReplace(path, original string, pairs []FindReplace) EditResult {
	current := original
	total := 0
	changes := make([]ChangeReport, 0, len(pairs))
	for _, p := range pairs {
		count := 0
		if p.Find != "" {
			count = strings.Count(current, p.Find)
		}
		if count > 0 {
			current = strings.ReplaceAll(current, p.Find, p.Replace)
			total += count
		}
		changes = append(changes, ChangeReport{
			Find:        truncate(p.Find, 50),
			Replace:     truncate(p.Replace, 50),
			Occurrences: count,
		})
	}
	s.files[path] = current
	return EditResult{
		Path:              path,
		Operation:         OpFindReplace,
		Diff:              unifiedDiff(original, current),
		TotalReplacements: total,
		Changes:           changes,
	}
}

// unifiedDiff renders original vs. modified as a unified diff, or NoChanges
// when the two are textually identical.
func unifiedDiff(original, modified string) string {
	if original == modified {
		return NoChanges
	}
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(modified),
		FromFile: "original",
		ToFile:   "modified",
		Context:  3,
	})
	if err != nil {
		return fmt.Sprintf("error generating diff: %v", err)
	}
	if text == "" {
		return NoChanges
	}
	return text
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
