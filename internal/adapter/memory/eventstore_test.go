package memory

import (
	"context"
	"testing"

	"github.com/strandwork/overseer/internal/domain/event"
)

func TestAppendAndLoadByRun(t *testing.T) {
	s := NewEventStore()
	ctx := context.Background()

	if err := s.Append(ctx, event.Event{RunID: "r1", Type: event.TypeRunStarted}); err != nil {
		t.Fatal(err)
	}
	if err := s.Append(ctx, event.Event{RunID: "r1", Type: event.TypeRunFinalized}); err != nil {
		t.Fatal(err)
	}
	if err := s.Append(ctx, event.Event{RunID: "r2", Type: event.TypeRunStarted}); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadByRun(ctx, "r1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Seq != 1 || got[1].Seq != 2 {
		t.Errorf("LoadByRun(r1) = %+v", got)
	}

	// Runs are isolated from each other.
	got, _ = s.LoadByRun(ctx, "r2")
	if len(got) != 1 {
		t.Errorf("LoadByRun(r2) = %+v", got)
	}
}

func TestLoadUnknownRun(t *testing.T) {
	s := NewEventStore()
	got, err := s.LoadByRun(context.Background(), "missing")
	if err != nil {
		t.Fatalf("LoadByRun: %v", err)
	}
	if got != nil {
		t.Errorf("LoadByRun = %v, want nil", got)
	}
}

func TestDeleteRunDropsLog(t *testing.T) {
	s := NewEventStore()
	ctx := context.Background()
	_ = s.Append(ctx, event.Event{RunID: "r1", Type: event.TypeRunStarted})

	if err := s.DeleteRun(ctx, "r1"); err != nil {
		t.Fatal(err)
	}
	got, _ := s.LoadByRun(ctx, "r1")
	if got != nil {
		t.Errorf("events survived delete: %v", got)
	}

	// Deleting an unknown run is a no-op.
	if err := s.DeleteRun(ctx, "missing"); err != nil {
		t.Errorf("DeleteRun(missing) = %v", err)
	}
}
