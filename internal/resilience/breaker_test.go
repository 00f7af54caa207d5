package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestBreakerClosedAllowsCalls(t *testing.T) {
	b := NewBreaker(3, time.Minute)

	calls := 0
	err := b.Execute(func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if got := b.State(); got != "closed" {
		t.Errorf("State() = %q, want closed", got)
	}
}

func TestBreakerOpensAfterMaxFailures(t *testing.T) {
	b := NewBreaker(2, time.Minute)
	fail := errors.New("boom")

	for i := 0; i < 2; i++ {
		if err := b.Execute(func() error { return fail }); !errors.Is(err, fail) {
			t.Fatalf("Execute() error = %v, want %v", err, fail)
		}
	}

	err := b.Execute(func() error {
		t.Fatal("fn should not be called while open")
		return nil
	})
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("Execute() error = %v, want ErrCircuitOpen", err)
	}
	if got := b.State(); got != "open" {
		t.Errorf("State() = %q, want open", got)
	}
}

func TestBreakerHalfOpenAfterTimeout(t *testing.T) {
	b := NewBreaker(1, time.Minute)
	now := time.Now()
	b.now = func() time.Time { return now }

	if err := b.Execute(func() error { return errors.New("boom") }); err == nil {
		t.Fatal("Execute() error = nil, want failure")
	}
	if got := b.State(); got != "open" {
		t.Fatalf("State() = %q, want open", got)
	}

	now = now.Add(2 * time.Minute)

	if err := b.Execute(func() error { return nil }); err != nil {
		t.Fatalf("Execute() after timeout error = %v", err)
	}
	if got := b.State(); got != "closed" {
		t.Errorf("State() = %q, want closed after successful probe", got)
	}
}

func TestBreakerReopensOnHalfOpenFailure(t *testing.T) {
	b := NewBreaker(1, time.Minute)
	now := time.Now()
	b.now = func() time.Time { return now }

	_ = b.Execute(func() error { return errors.New("boom") })
	now = now.Add(2 * time.Minute)

	if err := b.Execute(func() error { return errors.New("still broken") }); err == nil {
		t.Fatal("Execute() error = nil, want failure")
	}
	if err := b.Execute(func() error { return nil }); !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("Execute() error = %v, want ErrCircuitOpen after failed probe", err)
	}
}

func TestBreakerSuccessResetsFailureCount(t *testing.T) {
	b := NewBreaker(2, time.Minute)

	_ = b.Execute(func() error { return errors.New("boom") })
	if err := b.Execute(func() error { return nil }); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	_ = b.Execute(func() error { return errors.New("boom") })

	// Failure count reset by the success, so the circuit stays closed.
	if err := b.Execute(func() error { return nil }); err != nil {
		t.Errorf("Execute() error = %v, want nil", err)
	}
}
