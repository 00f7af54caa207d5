package logger

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"
)

// recordingHandler collects slog.Records for test assertions.
type recordingHandler struct {
	mu      sync.Mutex
	records []slog.Record
	delay   time.Duration // optional per-record processing delay
}

func (h *recordingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordingHandler) Handle(_ context.Context, rec slog.Record) error { //nolint:gocritic // slog.Handler interface requires value receiver
	if h.delay > 0 {
		time.Sleep(h.delay)
	}
	h.mu.Lock()
	h.records = append(h.records, rec)
	h.mu.Unlock()
	return nil
}

func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordingHandler) WithGroup(string) slog.Handler      { return h }

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.records)
}

func TestAsyncHandlerWriteAndFlush(t *testing.T) {
	inner := &recordingHandler{}
	ah := NewAsyncHandler(inner, 100, 2)

	const total = 50
	for range total {
		rec := slog.NewRecord(time.Now(), slog.LevelInfo, "hello", 0)
		_ = ah.Handle(context.Background(), rec)
	}

	// Close blocks until all enqueued records are drained.
	ah.Close()

	if got := inner.count(); got != total {
		t.Fatalf("expected %d records after close, got %d", total, got)
	}
}

func TestAsyncHandlerChannelFullDrops(t *testing.T) {
	// A slow inner handler with a tiny channel forces drops.
	inner := &recordingHandler{delay: 10 * time.Millisecond}
	ah := NewAsyncHandler(inner, 1, 1)

	for range 50 {
		rec := slog.NewRecord(time.Now(), slog.LevelInfo, "flood", 0)
		_ = ah.Handle(context.Background(), rec)
	}

	ah.Close()

	if ah.Dropped() == 0 {
		t.Fatal("expected some records to be dropped, got 0")
	}
}

func TestAsyncHandlerDefaultSizing(t *testing.T) {
	inner := &recordingHandler{}
	ah := NewAsyncHandler(inner, 0, 0)

	rec := slog.NewRecord(time.Now(), slog.LevelInfo, "sized by defaults", 0)
	_ = ah.Handle(context.Background(), rec)
	ah.Close()

	if got := inner.count(); got != 1 {
		t.Fatalf("expected 1 record, got %d", got)
	}
	if ah.Dropped() != 0 {
		t.Fatalf("expected no drops with default sizing, got %d", ah.Dropped())
	}
}
