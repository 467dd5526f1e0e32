package session

import (
	"github.com/dronescope/playback/internal/model/core"
	"github.com/dronescope/playback/internal/timeline"
)

// Transport actions.

func (c *Controller) Play() {
	c.clock.Play()
}

func (c *Controller) Pause() {
	c.clock.Pause()
}

func (c *Controller) Stop() {
	c.clock.Stop()
}

// SetSpeed sets the playback multiplier; out-of-range values clamp.
func (c *Controller) SetSpeed(speed float64) {
	c.clock.SetSpeed(speed)
}

// SetLoop toggles looping at the effective end.
func (c *Controller) SetLoop(loop bool) {
	c.clock.SetLoop(loop)
}

// SetPlaybackRange restricts playback to [start, end] seconds.
func (c *Controller) SetPlaybackRange(start, end float64, enabled bool) {
	c.clock.SetRange(core.PlaybackRange{Start: start, End: end, Enabled: enabled})
}

// SeekToTime jumps to a timeline second, clamped to the duration.
func (c *Controller) SeekToTime(t float64) {
	c.clock.Seek(t)
}

// SeekToPixel handles a ruler click: the viewport x coordinate is
// mapped through the current zoom and pan, then sought.
func (c *Controller) SeekToPixel(px float64) {
	c.clock.Seek(c.tl.PixelToTime(px))
}

// Viewport actions.

// WheelZoom scales the timeline about the cursor position.
func (c *Controller) WheelZoom(factor, cursorPx float64) {
	c.tl.ZoomAtCursor(factor, cursorPx)
}

// DragPan shifts the viewport by a pixel delta.
func (c *Controller) DragPan(deltaPx float64) {
	c.tl.PanBy(deltaPx)
}

// Track actions.

// DragTrackOffset moves a track by a horizontal pixel delta, snapping
// the resulting offset to the minor tick step.
func (c *Controller) DragTrackOffset(id core.TrackID, deltaPx float64) bool {
	t, ok := c.tl.Track(id)
	if !ok {
		return false
	}
	raw := t.TimeOffset + deltaPx/c.tl.PixelsPerSecond()
	return c.tl.SetTrackOffset(id, c.tl.SnapToMinorStep(raw))
}

// SetTrackOffset sets an exact offset in seconds, unsnapped.
func (c *Controller) SetTrackOffset(id core.TrackID, seconds float64) bool {
	return c.tl.SetTrackOffset(id, seconds)
}

func (c *Controller) SetTrackIncluded(id core.TrackID, included bool) bool {
	return c.tl.SetTrackIncluded(id, included)
}

func (c *Controller) SetTrackVisible(id core.TrackID, visible bool) bool {
	return c.tl.SetTrackVisible(id, visible)
}

func (c *Controller) SetTrackHidden(id core.TrackID, hidden bool) bool {
	return c.tl.SetTrackHidden(id, hidden)
}

func (c *Controller) ToggleTrackSelection(id core.TrackID) {
	c.tl.ToggleSelect(id)
}

// TogglePlayMode flips simultaneous/synchronous playback.
func (c *Controller) TogglePlayMode() timeline.PlayMode {
	return c.tl.TogglePlayMode()
}

// Marker actions.

// AddMarkerAtTime pins a marker at a timeline second.
func (c *Controller) AddMarkerAtTime(t float64, label string, kind core.MarkerKind, color core.RGB) core.Marker {
	return c.tl.AddMarker(t, label, kind, color)
}

// AddMarkerAtPixel pins a marker under a viewport x coordinate.
func (c *Controller) AddMarkerAtPixel(px float64, label string, kind core.MarkerKind, color core.RGB) core.Marker {
	return c.tl.AddMarker(c.tl.PixelToTime(px), label, kind, color)
}

func (c *Controller) RemoveMarker(id uint) bool {
	return c.tl.RemoveMarker(id)
}

// Presentation actions.

// SetScaleFactor scales the rendered scene; values at or below zero
// are ignored.
func (c *Controller) SetScaleFactor(f float64) {
	if f <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opts.ScaleFactor = f
}

func (c *Controller) SetShowGrid(show bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opts.ShowGrid = show
}

func (c *Controller) SetShowAxes(show bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opts.ShowAxes = show
}

func (c *Controller) SetShowFlightPaths(show bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opts.ShowFlightPaths = show
}

// LoadTelemetry queues a background file load; the track appears on a
// later tick.
func (c *Controller) LoadTelemetry(path string) {
	if c.deps.Ingest != nil {
		c.deps.Ingest.LoadFile(path)
	}
}
