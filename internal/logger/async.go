package logger

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Closer flushes and stops a handler that buffers records.
type Closer interface {
	Close()
}

// nopCloser is the Closer for synchronous mode.
type nopCloser struct{}

func (nopCloser) Close() {}

// Queue sizing used when the config leaves the values unset.
const (
	defaultQueueSize = 1024
	defaultWorkers   = 2
)

// AsyncHandler decouples log emission from log encoding: Handle enqueues the
// record and a small worker pool feeds the wrapped handler. When the queue is
// full the record is dropped rather than blocking the caller.
type AsyncHandler struct {
	inner slog.Handler
	queue chan slog.Record
	wg    *sync.WaitGroup
	drops *atomic.Int64
}

// NewAsyncHandler wraps inner with a record queue of the given capacity and
// worker count. Non-positive values select the defaults.
func NewAsyncHandler(inner slog.Handler, queueSize, workers int) *AsyncHandler {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	if workers <= 0 {
		workers = defaultWorkers
	}
	h := &AsyncHandler{
		inner: inner,
		queue: make(chan slog.Record, queueSize),
		wg:    &sync.WaitGroup{},
		drops: &atomic.Int64{},
	}
	for range workers {
		h.wg.Add(1)
		go h.worker()
	}
	return h
}

func (h *AsyncHandler) worker() {
	defer h.wg.Done()
	for rec := range h.queue {
		_ = h.inner.Handle(context.Background(), rec)
	}
}

// Enabled delegates to the inner handler.
func (h *AsyncHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle enqueues the record, dropping it when the queue is full.
func (h *AsyncHandler) Handle(_ context.Context, rec slog.Record) error { //nolint:gocritic // slog.Handler interface requires value receiver
	select {
	case h.queue <- rec:
	default:
		h.drops.Add(1)
	}
	return nil
}

// WithAttrs derives a handler over the same queue with the attrs applied to
// the inner handler.
func (h *AsyncHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AsyncHandler{
		inner: h.inner.WithAttrs(attrs),
		queue: h.queue,
		wg:    h.wg,
		drops: h.drops,
	}
}

// WithGroup derives a handler over the same queue with the group applied to
// the inner handler.
func (h *AsyncHandler) WithGroup(name string) slog.Handler {
	return &AsyncHandler{
		inner: h.inner.WithGroup(name),
		queue: h.queue,
		wg:    h.wg,
		drops: h.drops,
	}
}

// Dropped reports how many records were discarded on a full queue.
func (h *AsyncHandler) Dropped() int64 {
	return h.drops.Load()
}

// Close stops accepting records and waits for the workers to drain the queue.
func (h *AsyncHandler) Close() {
	close(h.queue)
	h.wg.Wait()
}
