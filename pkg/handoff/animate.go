package handoff

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// DefaultFlightDuration matches the CSS transition on the arrow.
const DefaultFlightDuration = 550 * time.Millisecond

// Frame is the arrow's state at one point of a flight.
type Frame struct {
	X, Y float64
	Rot  float64
}

// Animation steps a Flight. Call Update each frame.
type Animation struct {
	x, y, rot *gween.Tween
	elapsed   time.Duration
	timeout   time.Duration
	last      Frame
	end       Frame

	// Done is set when the tweens finish or the timeout elapses.
	Done bool
	// TimedOut is set when Done was forced by the timeout.
	TimedOut bool
}

// Animate returns an animation of f over d. A non-positive d uses
// DefaultFlightDuration; a nil easing uses ease.InOutCubic. The animation
// is forced to its end after FlightTimeout.
func (f Flight) Animate(d time.Duration, fn ease.TweenFunc) *Animation {
	if d <= 0 {
		d = DefaultFlightDuration
	}
	if fn == nil {
		fn = ease.InOutCubic
	}
	secs := float32(d.Seconds())
	return &Animation{
		x:       gween.New(float32(f.From.X), float32(f.To.X), secs, fn),
		y:       gween.New(float32(f.From.Y), float32(f.To.Y), secs, fn),
		rot:     gween.New(float32(f.FromRot), float32(f.ToRot), secs, fn),
		timeout: FlightTimeout,
		last:    Frame{X: f.From.X, Y: f.From.Y, Rot: f.FromRot},
		end:     Frame{X: f.To.X, Y: f.To.Y, Rot: f.ToRot},
	}
}

// Update advances the animation by dt and returns the current frame.
func (a *Animation) Update(dt time.Duration) Frame {
	if a.Done {
		return a.last
	}
	a.elapsed += dt
	step := float32(dt.Seconds())
	x, dx := a.x.Update(step)
	y, dy := a.y.Update(step)
	r, dr := a.rot.Update(step)
	a.last = Frame{X: float64(x), Y: float64(y), Rot: float64(r)}

	switch {
	case dx && dy && dr:
		a.Done = true
		a.last = a.end
	case a.elapsed >= a.timeout:
		a.Done = true
		a.TimedOut = true
		a.last = a.end
	}
	return a.last
}

// Frame returns the most recent frame without advancing.
func (a *Animation) Frame() Frame { return a.last }
