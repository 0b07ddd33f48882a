package listview

import (
	"context"
	"sync"
	"time"
)

// Debouncer runs only the last of a burst of calls, once no call came for the wait period.
type Debouncer struct {
	wait time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	fn      func(context.Context) error
	ctx     context.Context
	waiters []chan error
}

func NewDebouncer(wait time.Duration) *Debouncer {
	return &Debouncer{wait: wait}
}

// Do schedules fn and blocks until the burst it belongs to has run.
// Every caller of a burst receives the error of its last fn, which runs with the last caller's ctx.
func (d *Debouncer) Do(ctx context.Context, fn func(context.Context) error) error {
	done := make(chan error, 1)

	d.mu.Lock()
	d.fn = fn
	d.ctx = ctx
	d.waiters = append(d.waiters, done)
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, d.fire)
	d.mu.Unlock()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	fn, ctx, waiters := d.fn, d.ctx, d.waiters
	d.fn, d.ctx, d.waiters, d.timer = nil, nil, nil, nil
	d.mu.Unlock()

	if fn == nil {
		return
	}
	err := fn(ctx)
	for _, w := range waiters {
		w <- err
	}
}
