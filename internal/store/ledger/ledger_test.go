package ledger

import (
	"errors"
	"strings"
	"testing"

	"github.com/strandwork/overseer/internal/domain"
	"github.com/strandwork/overseer/internal/domain/task"
	"github.com/strandwork/overseer/internal/domain/tool"
)

func TestCreateFromDescriptionsAssignsIncreasingIDs(t *testing.T) {
	l := New()

	created, err := l.CreateFromDescriptions([]string{
		"Search the web for prices",
		"Save results to a file",
	}, nil)
	if err != nil {
		t.Fatalf("CreateFromDescriptions: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("created %d tasks, want 2", len(created))
	}
	if created[0].ID != 1 || created[1].ID != 2 {
		t.Errorf("ids = %d, %d, want 1, 2", created[0].ID, created[1].ID)
	}
	for _, c := range created {
		if c.Status != task.StatusPending {
			t.Errorf("task %d status = %s, want pending", c.ID, c.Status)
		}
	}

	// A later batch continues the sequence.
	more, err := l.CreateFromDescriptions([]string{"Write the summary"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if more[0].ID != 3 {
		t.Errorf("next id = %d, want 3", more[0].ID)
	}
}

func TestCreateFromDescriptionsSplitsEmbeddedNewlines(t *testing.T) {
	l := New()

	created, err := l.CreateFromDescriptions([]string{
		"First task\nSecond task\n\n  \nThird task",
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(created) != 3 {
		t.Fatalf("created %d tasks, want 3: %+v", len(created), created)
	}
	if created[1].Description != "Second task" {
		t.Errorf("description = %q", created[1].Description)
	}
}

func TestAddRejectsBlankDescription(t *testing.T) {
	l := New()
	if _, err := l.Add("   ", nil); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}

func TestInvalidDefaultToolsRejected(t *testing.T) {
	l := New()
	_, err := l.CreateFromDescriptions([]string{"Do something"}, []string{"nonexistent_tool"})
	if !errors.Is(err, domain.ErrInvalidTools) {
		t.Fatalf("err = %v, want ErrInvalidTools", err)
	}
	// The error names the offender and the valid set.
	if !strings.Contains(err.Error(), "nonexistent_tool") {
		t.Errorf("error does not name the invalid tool: %v", err)
	}
	if !strings.Contains(err.Error(), "execute_code") {
		t.Errorf("error does not list valid tools: %v", err)
	}
	if l.Len() != 0 {
		t.Errorf("ledger gained tasks despite validation error")
	}
}

func TestUpdateStatusNeverBackToPending(t *testing.T) {
	l := New()
	created, _ := l.CreateFromDescriptions([]string{"A task"}, nil)
	id := created[0].ID

	if _, err := l.UpdateStatus(id, "in_progress"); err != nil {
		t.Fatal(err)
	}
	_, err := l.UpdateStatus(id, "pending")
	if !errors.Is(err, domain.ErrInvalidStatus) {
		t.Errorf("err = %v, want ErrInvalidStatus", err)
	}

	got, _ := l.ByID(id)
	if got.Status != task.StatusInProgress {
		t.Errorf("status = %s, want in_progress", got.Status)
	}
}

func TestUpdateStatusUnknownValues(t *testing.T) {
	l := New()
	created, _ := l.CreateFromDescriptions([]string{"A task"}, nil)

	if _, err := l.UpdateStatus(created[0].ID, "done"); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Errorf("err = %v, want ErrInvalidStatus", err)
	}
	if _, err := l.UpdateStatus(99, "completed"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateStatusWithArtifacts(t *testing.T) {
	l := New()
	created, _ := l.CreateFromDescriptions([]string{"Produce files"}, nil)

	got, err := l.UpdateStatusWithArtifacts(created[0].ID, "completed", []string{"a.txt", "b.txt"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Artifacts) != 2 || got.Artifacts[0] != "a.txt" {
		t.Errorf("Artifacts = %v", got.Artifacts)
	}
}

func TestPendingExcludesTerminalTasks(t *testing.T) {
	l := New()
	created, _ := l.CreateFromDescriptions([]string{"one", "two", "three"}, nil)

	if _, err := l.UpdateStatus(created[0].ID, "completed"); err != nil {
		t.Fatal(err)
	}
	if _, err := l.UpdateStatus(created[1].ID, "failed"); err != nil {
		t.Fatal(err)
	}

	pending := l.Pending()
	if len(pending) != 1 || pending[0].ID != created[2].ID {
		t.Errorf("Pending = %+v, want only task %d", pending, created[2].ID)
	}
	if l.Len() != 3 {
		t.Errorf("Len = %d, want 3 (terminal tasks stay as history)", l.Len())
	}
}

func TestClearCompletedDoesNotReuseIDs(t *testing.T) {
	l := New()
	created, _ := l.CreateFromDescriptions([]string{"one", "two"}, nil)
	_, _ = l.UpdateStatus(created[0].ID, "completed")

	if removed := l.ClearCompleted(); removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	next, err := l.Add("three", nil)
	if err != nil {
		t.Fatal(err)
	}
	if next.ID != 3 {
		t.Errorf("next id = %d, want 3 (ids of removed tasks are never reused)", next.ID)
	}
}

func TestSetResult(t *testing.T) {
	l := New()
	created, _ := l.CreateFromDescriptions([]string{"A task"}, nil)

	if err := l.SetResult(created[0].ID, "computed 42"); err != nil {
		t.Fatal(err)
	}
	got, _ := l.ByID(created[0].ID)
	if got.Result != "computed 42" {
		t.Errorf("Result = %q", got.Result)
	}

	if err := l.SetResult(99, "x"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestAllReturnsCopies(t *testing.T) {
	l := New()
	_, _ = l.CreateFromDescriptions([]string{"Save data to disk"}, nil)

	all := l.All()
	all[0].Description = "mutated"
	all[0].AssignedTools[0] = tool.Name("bogus")

	got, _ := l.ByID(1)
	if got.Description == "mutated" {
		t.Error("All leaked a mutable reference to the ledger")
	}
	if got.AssignedTools[0] == "bogus" {
		t.Error("AssignedTools slice is shared with the caller")
	}
}
