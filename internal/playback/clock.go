// Package playback implements the playback clock: the state machine
// that maps wall-clock time onto the shared timeline.
package playback

import (
	"math"
	"sync"
	"time"

	"github.com/dronescope/playback/internal/model/core"
	"github.com/dronescope/playback/internal/util"
)

// State is the clock's lifecycle state.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// Speed multiplier bounds.
const (
	MinSpeed = 0.1
	MaxSpeed = 4.0
)

// Clock owns the current playback time. While playing it derives time
// from a wall-clock reference instead of accumulating per-tick deltas,
// so tick jitter never drifts the timeline. All methods are safe for
// concurrent use; the scheduler goroutine calls Advance while input
// handlers call everything else.
type Clock struct {
	mu sync.Mutex

	state   State
	speed   float64
	loop    bool
	current float64

	// duration is the timeline total, pushed in by the timeline
	// whenever it recomputes.
	duration float64
	rng      core.PlaybackRange

	// base is the playback time at the last re-base; ref is the wall
	// clock at that same instant. While playing,
	// candidate = base + (now-ref)*speed.
	base float64
	ref  time.Time

	now func() time.Time
}

// Option configures a Clock.
type Option func(*Clock)

// WithNowFunc overrides the wall-clock source, for tests.
func WithNowFunc(now func() time.Time) Option {
	return func(c *Clock) {
		if now != nil {
			c.now = now
		}
	}
}

// NewClock creates a stopped clock at time 0 with speed 1.
func NewClock(opts ...Option) *Clock {
	c := &Clock{
		speed: 1.0,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current lifecycle state.
func (c *Clock) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// CurrentTime returns the playback time as of the last Advance,
// seek or transition.
func (c *Clock) CurrentTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Speed returns the playback speed multiplier.
func (c *Clock) Speed() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.speed
}

// Loop reports whether playback wraps at the effective end.
func (c *Clock) Loop() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loop
}

// Range returns the active playback range.
func (c *Clock) Range() core.PlaybackRange {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rng
}

// Duration returns the timeline total the clock is bounded by.
func (c *Clock) Duration() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.duration
}

// effectiveStart and effectiveEnd are the playback bounds, honoring an
// enabled range. Callers hold c.mu.
func (c *Clock) effectiveStart() float64 {
	if c.rng.Enabled {
		return util.Clamp(c.rng.Start, 0, c.duration)
	}
	return 0
}

func (c *Clock) effectiveEnd() float64 {
	if c.rng.Enabled {
		return util.Clamp(c.rng.End, 0, c.duration)
	}
	return c.duration
}

// rebase locks the wall-clock reference to the current playback time.
// Callers hold c.mu.
func (c *Clock) rebase() {
	c.base = c.current
	c.ref = c.now()
}

// freeze folds elapsed wall time into current, so speed changes and
// pauses take effect from this instant without rescaling the past.
// Callers hold c.mu; only meaningful while playing.
func (c *Clock) freeze() {
	elapsed := c.now().Sub(c.ref).Seconds()
	c.current = util.Clamp(c.base+elapsed*c.speed, 0, c.effectiveEnd())
}

// Play starts or resumes playback from the current time. A stopped
// clock keeps a time placed by Seek as long as it sits inside the
// effective range; outside it (a fresh clock, or a range installed
// since) playback begins at the effective start.
func (c *Clock) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Playing {
		return
	}
	if c.state == Stopped {
		if c.current < c.effectiveStart() || c.current > c.effectiveEnd() {
			c.current = c.effectiveStart()
		}
	}
	c.state = Playing
	c.rebase()
}

// Pause freezes playback at the current time.
func (c *Clock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Playing {
		return
	}
	c.freeze()
	c.state = Paused
	c.rebase()
}

// Stop halts playback and resets to the effective start.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Stopped
	c.current = c.effectiveStart()
	c.rebase()
}

// Seek jumps to t, clamped to [0, duration]. Playback state is
// unchanged; a playing clock keeps playing from the new time.
func (c *Clock) Seek(t float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = util.Clamp(t, 0, c.duration)
	c.rebase()
}

// SetSpeed changes the multiplier, clamped to [MinSpeed, MaxSpeed].
// Time already played is not rescaled.
func (c *Clock) SetSpeed(speed float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Playing {
		c.freeze()
	}
	c.speed = util.Clamp(speed, MinSpeed, MaxSpeed)
	c.rebase()
}

// SetLoop toggles wrap-at-end behavior.
func (c *Clock) SetLoop(loop bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loop = loop
}

// SetRange installs or clears a playback sub-range.
func (c *Clock) SetRange(rng core.PlaybackRange) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if rng.Enabled && rng.End < rng.Start {
		rng.Start, rng.End = rng.End, rng.Start
	}
	c.rng = rng
}

// SetDuration is called by the timeline whenever the total duration is
// recomputed. A shrinking timeline pulls the current time back inside.
func (c *Clock) SetDuration(d float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d < 0 {
		d = 0
	}
	c.duration = d
	if c.current > d {
		c.current = d
		c.rebase()
	}
}

// Advance moves the clock for one scheduler tick and returns the
// playback time to render. Anything but a playing clock is a no-op.
// On overshoot a looping clock wraps past the effective start by the
// overshoot amount and re-bases; otherwise it clamps to the effective
// end and pauses.
func (c *Clock) Advance(now time.Time) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Playing {
		return c.current
	}

	elapsed := now.Sub(c.ref).Seconds()
	candidate := c.base + elapsed*c.speed

	start := c.effectiveStart()
	end := c.effectiveEnd()

	if candidate <= end {
		if candidate < start {
			candidate = start
		}
		c.current = candidate
		return c.current
	}

	if !c.loop {
		c.current = end
		c.state = Paused
		c.base = c.current
		c.ref = now
		return c.current
	}

	span := end - start
	if span <= 0 {
		c.current = start
	} else {
		c.current = start + math.Mod(candidate-end, span)
	}
	c.base = c.current
	c.ref = now
	return c.current
}
