package trigger

import (
	"sync"
	"time"
)

// DefaultSettle is the quiet period after the last trigger before a run.
const DefaultSettle = 80 * time.Millisecond

// Timer is the part of *time.Timer the debouncer uses.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. The zero Options use the wall clock.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type wallClock struct{}

func (wallClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Options configures a Debouncer.
type Options struct {
	Settle time.Duration // default DefaultSettle
	Clock  Clock         // default wall clock
}

// Debouncer coalesces triggers into serialized runs.
type Debouncer struct {
	run    func()
	settle time.Duration
	clock  Clock

	mu      sync.Mutex
	timer   Timer
	gen     uint64
	pending bool
	stopped bool
	ready   bool
	runs    int

	runMu sync.Mutex
	onRdy Bus[struct{}]
}

// NewDebouncer returns a debouncer that calls run after triggers settle.
// A nil opts uses the defaults.
func NewDebouncer(run func(), opts *Options) *Debouncer {
	d := &Debouncer{run: run, settle: DefaultSettle, clock: wallClock{}}
	if opts != nil {
		if opts.Settle > 0 {
			d.settle = opts.Settle
		}
		if opts.Clock != nil {
			d.clock = opts.Clock
		}
	}
	return d
}

// Trigger marks a run pending and restarts the settle timer. Triggers
// after Stop are ignored.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.pending = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.settle, func() { d.fire(gen) })
}

// fire runs the callback if gen is still the latest arming. A timer that
// was superseded but could not be stopped in time is a no-op.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if d.stopped || gen != d.gen || !d.pending {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.timer = nil
	d.mu.Unlock()

	d.execute()
}

// Flush runs immediately if a run is pending, cancelling the timer. It
// reports whether a run happened.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	if d.stopped || !d.pending {
		d.mu.Unlock()
		return false
	}
	d.pending = false
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	d.execute()
	return true
}

func (d *Debouncer) execute() {
	d.runMu.Lock()
	d.run()
	d.runMu.Unlock()

	d.mu.Lock()
	d.runs++
	first := !d.ready
	d.ready = true
	d.mu.Unlock()

	if first {
		d.onRdy.Emit(struct{}{})
	}
}

// OnReady registers fn to be called once after the first completed run.
// If the debouncer is already ready, fn is called immediately and the
// returned subscription is inert.
func (d *Debouncer) OnReady(fn func()) *Subscription {
	d.mu.Lock()
	ready := d.ready
	var sub *Subscription
	if !ready {
		sub = d.onRdy.Once(func(struct{}) { fn() })
	}
	d.mu.Unlock()

	if ready {
		fn()
		return &Subscription{}
	}
	return sub
}

// Pending reports whether a run is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Ready reports whether at least one run has completed.
func (d *Debouncer) Ready() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ready
}

// Runs returns the number of completed runs.
func (d *Debouncer) Runs() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.runs
}

// Stop cancels any pending run and ignores later triggers. A run already
// executing completes.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
