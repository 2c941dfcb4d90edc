package analyzer

import (
	"context"
	"sync/atomic"
)

// ProgressFunc is called to report analysis progress.
// current is the number of items processed, total is the best known total,
// and path is the item that was just processed.
type ProgressFunc func(current, total int, path string)

// Tracker tracks progress for analysis operations.
// It is safe for concurrent use from multiple goroutines.
type Tracker struct {
	total    atomic.Int32
	current  atomic.Int32
	callback ProgressFunc
}

// NewTracker creates a new progress tracker with the given callback.
func NewTracker(callback ProgressFunc) *Tracker {
	return &Tracker{callback: callback}
}

// SetTotal sets the total count. This replaces any previous total.
func (t *Tracker) SetTotal(n int) {
	t.total.Store(int32(n))
}

// Tick marks one item as completed and invokes the callback if set.
func (t *Tracker) Tick(path string) {
	current := int(t.current.Add(1))
	if t.callback != nil {
		t.callback(current, int(t.total.Load()), path)
	}
}

type trackerKey struct{}

// WithTracker returns a context that carries a progress tracker.
func WithTracker(ctx context.Context, t *Tracker) context.Context {
	return context.WithValue(ctx, trackerKey{}, t)
}

// TrackerFromContext extracts the progress tracker from the context.
// Returns nil if no tracker was set.
func TrackerFromContext(ctx context.Context) *Tracker {
	if t, ok := ctx.Value(trackerKey{}).(*Tracker); ok {
		return t
	}
	return nil
}
