package timeline

import (
	"github.com/dronescope/playback/internal/model/core"
	"github.com/dronescope/playback/internal/util"
)

// durationFloor keeps an empty or very short timeline usable: the
// pixel scale never stretches fewer than this many seconds across the
// viewport.
const durationFloor = 60.0

// pixelsPerSecond is the horizontal scale at the current zoom.
// Callers hold s.mu.
func (s *State) pixelsPerSecond() float64 {
	d := s.duration
	if d < durationFloor {
		d = durationFloor
	}
	return s.viewWidth * s.zoom / d
}

// clampPan keeps the viewport inside the rendered timeline. Callers
// hold s.mu for writing.
func (s *State) clampPan() {
	d := s.duration
	if d < durationFloor {
		d = durationFloor
	}
	totalPixels := d * s.pixelsPerSecond()
	maxOffset := totalPixels - s.viewWidth
	if maxOffset < 0 {
		maxOffset = 0
	}
	s.viewOffset = util.Clamp(s.viewOffset, 0, maxOffset)
}

// PixelsPerSecond returns the horizontal scale at the current zoom.
func (s *State) PixelsPerSecond() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pixelsPerSecond()
}

// TimeToPixel maps a timeline second to a viewport-relative x
// coordinate. Results outside [0, width) are off screen.
func (s *State) TimeToPixel(t float64) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return t*s.pixelsPerSecond() - s.viewOffset
}

// PixelToTime is the inverse of TimeToPixel.
func (s *State) PixelToTime(px float64) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return (px + s.viewOffset) / s.pixelsPerSecond()
}

// Zoom returns the current zoom multiplier.
func (s *State) Zoom() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.zoom
}

// SetZoom sets the zoom multiplier, clamped to [MinZoom, MaxZoom].
func (s *State) SetZoom(z float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.zoom = util.Clamp(z, MinZoom, MaxZoom)
	s.clampPan()
}

// ZoomAtCursor scales the zoom by factor while keeping the time under
// the cursor (a viewport-relative x coordinate) stationary on screen.
func (s *State) ZoomAtCursor(factor, cursorPx float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	anchored := (cursorPx + s.viewOffset) / s.pixelsPerSecond()
	s.zoom = util.Clamp(s.zoom*factor, MinZoom, MaxZoom)
	s.viewOffset = anchored*s.pixelsPerSecond() - cursorPx
	s.clampPan()
}

// ViewportOffset returns the pan position in pixels.
func (s *State) ViewportOffset() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewOffset
}

// SetViewportOffset pans to an absolute pixel offset, clamped.
func (s *State) SetViewportOffset(px float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewOffset = px
	s.clampPan()
}

// PanBy shifts the viewport by a pixel delta, clamped.
func (s *State) PanBy(deltaPx float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewOffset += deltaPx
	s.clampPan()
}

// ViewportWidth returns the viewport width in pixels.
func (s *State) ViewportWidth() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewWidth
}

// SetViewportWidth resizes the viewport, repinning the pan clamp.
func (s *State) SetViewportWidth(w float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w <= 0 {
		w = 1
	}
	s.viewWidth = w
	s.clampPan()
}

// TrackSpan is a track's row geometry in viewport pixels, ready for
// the timeline widget to draw.
type TrackSpan struct {
	ID      core.TrackID
	Label   string
	Color   core.RGB
	StartPx float64
	WidthPx float64
	Hidden  bool
}

// TrackSpans returns one span per track in display order.
func (s *State) TrackSpans() []TrackSpan {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pps := s.pixelsPerSecond()
	out := make([]TrackSpan, 0, len(s.order))
	for _, id := range s.order {
		t := s.tracks[id]
		out = append(out, TrackSpan{
			ID:      t.ID,
			Label:   t.DisplayName,
			Color:   t.Color,
			StartPx: t.TimeOffset*pps - s.viewOffset,
			WidthPx: t.LastSampleTime() * pps,
			Hidden:  t.TrackHidden,
		})
	}
	return out
}

// MarkerPixel is a marker with its viewport x position.
type MarkerPixel struct {
	Marker core.Marker
	Px     float64
}

// MarkerPixels returns every marker with its on-screen position.
func (s *State) MarkerPixels() []MarkerPixel {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pps := s.pixelsPerSecond()
	out := make([]MarkerPixel, len(s.markers))
	for i, m := range s.markers {
		out[i] = MarkerPixel{Marker: m, Px: m.Time*pps - s.viewOffset}
	}
	return out
}
