package trigger

import (
	"sync"
	"testing"
	"time"
)

// fakeClock fires timers when Advance moves past their deadline.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	at      time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*fakeTimer
	kept := c.timers[:0]
	for _, t := range c.timers {
		switch {
		case t.stopped:
		case t.at <= c.now:
			due = append(due, t)
		default:
			kept = append(kept, t)
		}
	}
	c.timers = kept
	c.mu.Unlock()

	for _, t := range due {
		t.stopped = true
		t.f()
	}
}

func newTestDebouncer(run func()) (*Debouncer, *fakeClock) {
	clk := &fakeClock{}
	return NewDebouncer(run, &Options{Clock: clk}), clk
}

func TestDebouncerCoalescesBurst(t *testing.T) {
	runs := 0
	d, clk := newTestDebouncer(func() { runs++ })

	for range 5 {
		d.Trigger()
		clk.Advance(30 * time.Millisecond)
	}
	if runs != 0 {
		t.Fatalf("ran %d times during burst, want 0", runs)
	}
	if !d.Pending() {
		t.Error("Pending() = false during burst")
	}

	clk.Advance(DefaultSettle)
	if runs != 1 {
		t.Errorf("ran %d times after settle, want 1", runs)
	}
	if d.Pending() {
		t.Error("Pending() = true after run")
	}
}

func TestDebouncerReadyOnce(t *testing.T) {
	d, clk := newTestDebouncer(func() {})
	readyCalls := 0
	d.OnReady(func() { readyCalls++ })

	if d.Ready() {
		t.Fatal("Ready() = true before first run")
	}

	d.Trigger()
	clk.Advance(DefaultSettle)
	d.Trigger()
	clk.Advance(DefaultSettle)

	if !d.Ready() {
		t.Error("Ready() = false after first run")
	}
	if readyCalls != 1 {
		t.Errorf("OnReady fired %d times, want 1", readyCalls)
	}
	if d.Runs() != 2 {
		t.Errorf("Runs() = %d, want 2", d.Runs())
	}

	late := 0
	d.OnReady(func() { late++ })
	if late != 1 {
		t.Errorf("late OnReady fired %d times, want immediately once", late)
	}
}

func TestDebouncerOnReadyUnsubscribe(t *testing.T) {
	d, clk := newTestDebouncer(func() {})
	called := false
	sub := d.OnReady(func() { called = true })
	sub.Unsubscribe()

	d.Trigger()
	clk.Advance(DefaultSettle)
	if called {
		t.Error("unsubscribed OnReady handler fired")
	}
}

func TestDebouncerFlush(t *testing.T) {
	runs := 0
	d, clk := newTestDebouncer(func() { runs++ })

	if d.Flush() {
		t.Error("Flush() with nothing pending reported a run")
	}
	d.Trigger()
	if !d.Flush() {
		t.Error("Flush() with pending run reported no run")
	}
	clk.Advance(time.Second)
	if runs != 1 {
		t.Errorf("ran %d times, want 1 (timer must be cancelled by Flush)", runs)
	}
}

func TestDebouncerStop(t *testing.T) {
	runs := 0
	d, clk := newTestDebouncer(func() { runs++ })

	d.Trigger()
	d.Stop()
	clk.Advance(time.Second)
	d.Trigger()
	clk.Advance(time.Second)

	if runs != 0 {
		t.Errorf("ran %d times after Stop, want 0", runs)
	}
	if d.Pending() {
		t.Error("Pending() = true after Stop")
	}
}

func TestDebouncerStaleTimerIgnored(t *testing.T) {
	runs := 0
	d, clk := newTestDebouncer(func() { runs++ })

	d.Trigger()
	stale := clk.timers[0]
	d.Trigger()

	// A superseded timer that fires anyway must not run.
	stale.f()
	if runs != 0 {
		t.Errorf("stale timer ran the callback")
	}
	clk.Advance(DefaultSettle)
	if runs != 1 {
		t.Errorf("ran %d times, want 1", runs)
	}
}

func TestDebouncerWallClock(t *testing.T) {
	done := make(chan struct{})
	d := NewDebouncer(func() { close(done) }, &Options{Settle: 5 * time.Millisecond})
	d.Trigger()
	d.Trigger()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced run never happened")
	}
}

func TestDebouncerRunsDoNotOverlap(t *testing.T) {
	var mu sync.Mutex
	active, maxActive := 0, 0
	d := NewDebouncer(func() {
		mu.Lock()
		active++
		maxActive = max(maxActive, active)
		mu.Unlock()
		time.Sleep(2 * time.Millisecond)
		mu.Lock()
		active--
		mu.Unlock()
	}, &Options{Settle: time.Millisecond})

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Trigger()
			d.Flush()
		}()
	}
	wg.Wait()
	time.Sleep(20 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if maxActive > 1 {
		t.Errorf("%d runs overlapped", maxActive)
	}
}
