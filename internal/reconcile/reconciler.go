// Package reconcile implements the optimistic write-then-verify-then-retry
// protocol that papers over the store's lack of guaranteed write durability.
//
// Every write is issued fire-and-forget, raced against a bounded ack wait so
// callers never block on slow or partitioned peers, and re-checked after a
// delay long enough for the store's typical propagation. A write that did not
// persist is re-issued exactly once (read-repair, not a backoff loop). A
// write that fails even the retry is logged and counted, never reported to
// the original caller, who long since received a settled result: an
// availability-over-strict-consistency trade-off this layer makes on
// purpose.
package reconcile

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/forgeboard/gamegraph/internal/metrics"
	"github.com/forgeboard/gamegraph/internal/store"
)

// Options bound the reconciliation timers.
type Options struct {
	// AckTimeout caps how long a Task stays unsettled waiting for a store
	// ack. Typical values are 500-800ms.
	AckTimeout time.Duration

	// VerifyDelay is how long after the original write the verification read
	// runs. Typical values are 500-1000ms, past the store's usual
	// propagation delay.
	VerifyDelay time.Duration
}

// DefaultOptions returns the production timer bounds.
func DefaultOptions() Options {
	return Options{
		AckTimeout:  650 * time.Millisecond,
		VerifyDelay: 800 * time.Millisecond,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.AckTimeout <= 0 {
		o.AckTimeout = d.AckTimeout
	}
	if o.VerifyDelay <= 0 {
		o.VerifyDelay = d.VerifyDelay
	}
	return o
}

// Reconciler issues verified writes against one store. Construct with New;
// Close stops the background verification passes.
type Reconciler struct {
	store store.Store
	opts  Options
	log   *slog.Logger

	mu     sync.Mutex
	stop   chan struct{}
	closed bool
	tasks  sync.WaitGroup
}

// New creates a reconciler. A nil store yields a reconciler whose tasks
// settle immediately without writing (store-unavailable degradation). A nil
// logger falls back to slog.Default().
func New(st store.Store, opts Options, log *slog.Logger) *Reconciler {
	if log == nil {
		log = slog.Default()
	}
	return &Reconciler{
		store: st,
		opts:  opts.withDefaults(),
		log:   log,
		stop:  make(chan struct{}),
	}
}

// Task is the observable handle on one reconciled write. Production callers
// discard it; tests and diagnostics watch it.
type Task struct {
	path string

	ackOnce  sync.Once
	acked    chan struct{}
	done     chan struct{}
	mu       sync.Mutex
	timedOut bool
	retried  bool
	lost     bool
}

// Acked is closed when the store acks the write or the ack timeout fires,
// whichever happens first. This is the point a caller would consider the
// write "settled".
func (t *Task) Acked() <-chan struct{} { return t.acked }

// Done is closed when verification, including any retry, has finished.
func (t *Task) Done() <-chan struct{} { return t.done }

// TimedOut reports whether the task settled on the timeout rather than a
// store ack. Meaningful once Acked is closed.
func (t *Task) TimedOut() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timedOut
}

// Retried reports whether the verification pass had to re-issue the write.
// Meaningful once Done is closed.
func (t *Task) Retried() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.retried
}

// Lost reports whether the write failed verification even after the retry.
// Meaningful once Done is closed.
func (t *Task) Lost() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lost
}

func (t *Task) settle(timedOut bool) {
	t.ackOnce.Do(func() {
		t.mu.Lock()
		t.timedOut = timedOut
		t.mu.Unlock()
		close(t.acked)
	})
}

func newTask(path string) *Task {
	return &Task{
		path:  path,
		acked: make(chan struct{}),
		done:  make(chan struct{}),
	}
}

// Put issues a reconciled write of value at path. It never blocks beyond
// submission and the returned task never carries an error: all failure
// handling is internal.
func (r *Reconciler) Put(ctx context.Context, path string, value any) *Task {
	t := newTask(path)

	r.mu.Lock()
	live := !r.closed && r.store != nil
	if live {
		r.tasks.Add(1)
	}
	r.mu.Unlock()

	if !live {
		t.settle(false)
		close(t.done)
		return t
	}

	if err := r.store.Write(ctx, path, value, func(a store.Ack) {
		if a.Err != "" {
			r.log.Debug("write ack reported error",
				slog.String("path", path),
				slog.String("error", a.Err))
		}
		t.settle(false)
	}); err != nil {
		// Local submission failure: nothing in flight to verify beyond the
		// retry the verification pass will attempt anyway.
		r.log.Warn("write submission failed",
			slog.String("path", path),
			slog.String("error", err.Error()))
	}
	metrics.WritesSubmitted.Inc()

	ackTimer := time.AfterFunc(r.opts.AckTimeout, func() {
		metrics.AckTimeouts.Inc()
		t.settle(true)
	})

	go func() {
		defer r.tasks.Done()
		defer close(t.done)
		defer ackTimer.Stop()
		r.verify(ctx, t, value)
	}()
	return t
}

// verify runs the delayed read-repair pass for one task.
func (r *Reconciler) verify(ctx context.Context, t *Task, value any) {
	if !r.sleep(r.opts.VerifyDelay) {
		return
	}
	if r.persisted(ctx, t.path, value) {
		return
	}

	t.mu.Lock()
	t.retried = true
	t.mu.Unlock()
	metrics.WritesRetried.Inc()
	r.log.Debug("write did not persist, re-issuing",
		slog.String("path", t.path))

	if err := r.store.Write(ctx, t.path, value, nil); err != nil {
		r.log.Warn("retry submission failed",
			slog.String("path", t.path),
			slog.String("error", err.Error()))
	}

	if !r.sleep(r.opts.VerifyDelay) {
		return
	}
	if r.persisted(ctx, t.path, value) {
		return
	}

	t.mu.Lock()
	t.lost = true
	t.mu.Unlock()
	metrics.WritesLost.Inc()
	r.log.Error("write lost after retry",
		slog.String("path", t.path))
}

// persisted reads back the path and compares against intent. A tombstone
// write verifies as persisted when the read reports not-found.
func (r *Reconciler) persisted(ctx context.Context, path string, value any) bool {
	got, err := r.store.Read(ctx, path)
	if err != nil {
		if value == nil && errors.Is(err, store.ErrNotFound) {
			return true
		}
		return false
	}
	return store.DeepEqual(got, value)
}

// sleep waits d unless the reconciler closes first.
func (r *Reconciler) sleep(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-r.stop:
		return false
	}
}

// Close stops pending verification passes and waits for their goroutines.
// Put calls after Close settle immediately without writing.
func (r *Reconciler) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.stop)
	r.mu.Unlock()
	r.tasks.Wait()
}
