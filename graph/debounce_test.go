package graph

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerCoalescesBurst(t *testing.T) {
	var fired atomic.Int32
	d := NewDebouncer(20*time.Millisecond, func() { fired.Add(1) })
	defer d.Stop()

	for i := 0; i < 10; i++ {
		d.Trigger()
		time.Sleep(2 * time.Millisecond)
	}

	deadline := time.Now().Add(2 * time.Second)
	for fired.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := fired.Load(); got != 1 {
		t.Errorf("burst fired %d times, want 1", got)
	}
}

func TestDebouncerFlush(t *testing.T) {
	var fired atomic.Int32
	d := NewDebouncer(time.Hour, func() { fired.Add(1) })
	defer d.Stop()

	d.Trigger()
	d.Flush()
	if got := fired.Load(); got != 1 {
		t.Errorf("Flush fired %d times, want 1", got)
	}

	// Nothing pending: Flush is a no-op.
	d.Flush()
	if got := fired.Load(); got != 1 {
		t.Errorf("idle Flush fired, count = %d", got)
	}
}

func TestDebouncerStop(t *testing.T) {
	var fired atomic.Int32
	d := NewDebouncer(10*time.Millisecond, func() { fired.Add(1) })

	d.Trigger()
	d.Stop()
	time.Sleep(50 * time.Millisecond)
	if got := fired.Load(); got != 0 {
		t.Errorf("stopped debouncer fired %d times", got)
	}

	d.Trigger() // refused after Stop
	time.Sleep(50 * time.Millisecond)
	if got := fired.Load(); got != 0 {
		t.Errorf("post-Stop trigger fired %d times", got)
	}
}
