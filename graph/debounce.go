package graph

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of graph mutations into single evaluation
// passes.
//
// The core itself never schedules anything: mutation marks the graph dirty
// and the host decides when to re-evaluate. Debouncer is the reference
// implementation of that host concern: a slider drag firing dozens of
// literal updates collapses into one callback after the edits settle.
//
// Usage:
//
//	d := graph.NewDebouncer(16*time.Millisecond, func() {
//	    g.ClearDirty()
//	    preview.Update(engine.Evaluate(sink))
//	})
//	defer d.Stop()
//
//	// from the mutation path, e.g. an emitter:
//	d.Trigger()
//
// The callback runs on a timer goroutine; Debouncer serializes its own
// callbacks, but the callback must not race the UI thread's mutations;
// hosts typically marshal it back onto their event loop.
type Debouncer struct {
	mu       sync.Mutex
	interval time.Duration
	fn       func()
	timer    *time.Timer
	stopped  bool
}

// NewDebouncer creates a debouncer that invokes fn once per burst, after
// interval of quiet.
func NewDebouncer(interval time.Duration, fn func()) *Debouncer {
	return &Debouncer{interval: interval, fn: fn}
}

// Trigger requests a callback. Repeated triggers within the interval
// reset the timer; only the final one fires.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, d.run)
}

func (d *Debouncer) run() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	fn := d.fn
	d.mu.Unlock()
	fn()
}

// Flush fires the pending callback immediately, if one is scheduled.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	pending := d.timer != nil && d.timer.Stop()
	d.mu.Unlock()
	if pending {
		d.run()
	}
}

// Stop cancels any pending callback and refuses further triggers.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
