// Package guard decides whether user interactions should be honored while
// a page is still settling.
//
// Right after load, stray clicks (a double click that navigated here, a
// tap landing as the layout moves) must not open dialogs. A [Guard] starts
// in [Initializing], becomes [Ready] after a short delay, and can be put
// into [Suppressed] for a window at any time, for example while a dialog
// closes. Handlers ask [Guard.Allow] before acting.
package guard

import (
	"sync"
	"time"
)

// State is the interaction state of a page.
type State int

const (
	// Initializing: the page has not finished its first layout.
	Initializing State = iota
	// Suppressed: interactions are ignored until a deadline.
	Suppressed
	// Ready: interactions are honored.
	Ready
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Suppressed:
		return "suppressed"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// Defaults used by the portfolio pages.
const (
	DefaultReadyDelay = 450 * time.Millisecond
	DefaultSuppress   = 500 * time.Millisecond
)

// Options configures a Guard. Zero fields use the defaults; a negative
// value disables that phase.
//
// Suppress is the ghost-click window opened at load. Completing
// initialization closes it early, the way the page script clears its
// suppression timestamp when modals become ready, so it only outlasts
// Initializing when ReadyDelay is disabled.
type Options struct {
	ReadyDelay time.Duration
	Suppress   time.Duration
}

// Guard is safe for concurrent use.
type Guard struct {
	mu             sync.Mutex
	readyAt        time.Time
	suppressedTill time.Time
	initial        bool // suppressedTill is still the load window
}

// New returns a guard for a page loaded at start. With nil opts the page
// is initializing for 450ms and interactions are honored afterwards.
func New(start time.Time, opts *Options) *Guard {
	o := Options{ReadyDelay: DefaultReadyDelay, Suppress: DefaultSuppress}
	if opts != nil {
		if opts.ReadyDelay != 0 {
			o.ReadyDelay = opts.ReadyDelay
		}
		if opts.Suppress != 0 {
			o.Suppress = opts.Suppress
		}
	}
	g := &Guard{
		readyAt:        start.Add(max(o.ReadyDelay, 0)),
		suppressedTill: start.Add(max(o.Suppress, 0)),
		initial:        true,
	}
	if o.ReadyDelay > 0 {
		g.suppressedTill = minTime(g.suppressedTill, g.readyAt)
	}
	return g
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

// State returns the state at now. Initializing takes precedence over
// Suppressed.
func (g *Guard) State(now time.Time) State {
	g.mu.Lock()
	defer g.mu.Unlock()
	switch {
	case now.Before(g.readyAt):
		return Initializing
	case now.Before(g.suppressedTill):
		return Suppressed
	default:
		return Ready
	}
}

// Allow reports whether an interaction at now should be honored.
func (g *Guard) Allow(now time.Time) bool {
	return g.State(now) == Ready
}

// MarkReady ends initialization at now, for pages that finish early. The
// load suppression window ends with it.
func (g *Guard) MarkReady(now time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if now.Before(g.readyAt) {
		g.readyAt = now
	}
	if g.initial {
		g.suppressedTill = minTime(g.suppressedTill, now)
	}
}

// Suppress ignores interactions until now+d. It never shortens an
// existing suppression window.
func (g *Guard) Suppress(now time.Time, d time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if until := now.Add(d); until.After(g.suppressedTill) {
		g.suppressedTill = until
		g.initial = false
	}
}

// SuppressedUntil returns the end of the current suppression window.
func (g *Guard) SuppressedUntil() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.suppressedTill
}
