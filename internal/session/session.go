// Package session owns one playback session: the clock, the timeline,
// the sample store and the frame sink, driven by a scheduler. All
// mutation goes through named action methods so every input path is
// explicit and testable.
package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/dronescope/playback/internal/model/core"
	"github.com/dronescope/playback/internal/playback"
	"github.com/dronescope/playback/internal/present"
	"github.com/dronescope/playback/internal/store"
	"github.com/dronescope/playback/internal/timeline"
	"github.com/dronescope/playback/internal/worker"
	"github.com/dronescope/playback/pkg/render"
)

// TickRecorder receives per-tick measurements. Implemented by the
// influx metrics recorder; nil disables recording.
type TickRecorder interface {
	RecordTick(duration time.Duration, trackCount int)
}

// Dependencies holds all collaborators of a session controller.
type Dependencies struct {
	Logger  *slog.Logger
	Store   *store.Store
	Ingest  *worker.Manager
	Sink    render.FrameSink
	Metrics TickRecorder
}

// Controller is the single owner of playback state. One instance per
// session; the scheduler calls Tick, the frontend calls actions.
type Controller struct {
	deps  Dependencies
	clock *playback.Clock
	tl    *timeline.State
	sched playback.Scheduler

	mu       sync.Mutex
	opts     present.Options
	lastTick time.Duration
}

// New wires a controller. The timeline's derived duration feeds the
// clock bound directly, so mutators can never leave the two apart.
func New(deps Dependencies, sched playback.Scheduler, viewportWidth float64) *Controller {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Store == nil {
		deps.Store = store.New()
	}
	if deps.Sink == nil {
		deps.Sink = render.NullSink{}
	}

	c := &Controller{
		deps:  deps,
		clock: playback.NewClock(),
		tl:    timeline.New(viewportWidth),
		sched: sched,
		opts:  present.DefaultOptions(),
	}
	c.tl.SetDurationListener(c.clock.SetDuration)
	return c
}

// Start begins ticking on the scheduler.
func (c *Controller) Start() {
	c.sched.Start(c.Tick)
	c.deps.Logger.Info("session started")
}

// Close stops the scheduler; no frame is pushed after Close returns.
func (c *Controller) Close() {
	c.sched.Cancel()
	c.deps.Logger.Info("session closed")
}

// Clock exposes the playback clock for read access.
func (c *Controller) Clock() *playback.Clock {
	return c.clock
}

// Timeline exposes the timeline state for read access.
func (c *Controller) Timeline() *timeline.State {
	return c.tl
}

// Tick is the per-frame pipeline, in fixed order: adopt finished
// ingest loads, advance the clock, resolve poses, push the frame.
func (c *Controller) Tick(now time.Time) {
	started := time.Now()

	c.adoptPendingTracks()

	t := c.clock.Advance(now)
	frame := present.BuildFrame(t, c.tl.Tracks(), c.tl.PlayMode(), c.Options())
	c.deps.Sink.PushFrame(frame)

	elapsed := time.Since(started)
	c.mu.Lock()
	c.lastTick = elapsed
	c.mu.Unlock()

	if c.deps.Metrics != nil {
		c.deps.Metrics.RecordTick(elapsed, c.tl.TrackCount())
	}
}

// adoptPendingTracks registers finished background loads. Failed
// loads were already logged by the worker; they register nothing.
func (c *Controller) adoptPendingTracks() {
	if c.deps.Ingest == nil {
		return
	}
	for _, res := range c.deps.Ingest.Drain() {
		if res.Err != nil || res.Track == nil {
			continue
		}
		c.deps.Store.Put(res.Track.ID, res.Track.Samples)
		c.tl.AddTrack(res.Track)
		c.deps.Logger.Info("track registered",
			"track", res.Track.ID,
			"samples", len(res.Track.Samples),
			"total_duration", c.tl.TotalDuration(),
		)
	}
}

// Options returns the current presentation options.
func (c *Controller) Options() present.Options {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opts
}

// LastTickDuration returns how long the previous Tick took.
func (c *Controller) LastTickDuration() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastTick
}

// Snapshot is the session status the monitor reports.
type Snapshot struct {
	ClockState   string        `json:"clockState"`
	CurrentTime  float64       `json:"currentTime"`
	Duration     float64       `json:"duration"`
	Speed        float64       `json:"speed"`
	PlayMode     string        `json:"playMode"`
	TrackCount   int           `json:"trackCount"`
	PendingLoads int           `json:"pendingLoads"`
	LastTick     time.Duration `json:"lastTick"`
}

// Status collects the current session state.
func (c *Controller) Status() Snapshot {
	pending := 0
	if c.deps.Ingest != nil {
		pending = c.deps.Ingest.PendingCount()
	}
	return Snapshot{
		ClockState:   c.clock.State().String(),
		CurrentTime:  c.clock.CurrentTime(),
		Duration:     c.tl.TotalDuration(),
		Speed:        c.clock.Speed(),
		PlayMode:     c.tl.PlayMode().String(),
		TrackCount:   c.tl.TrackCount(),
		PendingLoads: pending,
		LastTick:     c.LastTickDuration(),
	}
}

// RemoveTrack drops a track from the timeline and the store.
func (c *Controller) RemoveTrack(id core.TrackID) bool {
	if !c.tl.RemoveTrack(id) {
		return false
	}
	c.deps.Store.Delete(id)
	return true
}
