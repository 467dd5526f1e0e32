// Package render defines the contract between the playback engine and
// a 3D renderer. The engine pushes one Frame per scheduler tick; any
// renderer implementing FrameSink can be plugged in.
package render

import "github.com/dronescope/playback/internal/model/core"

// Frame is everything the renderer needs to draw one tick. A track
// absent from Poses has no pose at this time and must not be drawn.
type Frame struct {
	// Time is the playback time the frame was resolved at, seconds.
	Time float64 `json:"time"`

	Poses map[core.TrackID]core.Pose `json:"poses"`

	// Paths carries flight-path overlay polylines, only populated
	// when ShowFlightPaths is set.
	Paths map[core.TrackID]core.Polyline `json:"paths,omitempty"`

	// ScaleFactor scales the whole scene uniformly.
	ScaleFactor float64 `json:"scaleFactor"`

	ShowGrid       bool `json:"showGrid"`
	ShowAxes       bool `json:"showAxes"`
	ShowFlightPaths bool `json:"showFlightPaths"`
}

// FrameSink consumes frames. PushFrame is called from the scheduler
// goroutine and must not block for long; slow sinks drop or buffer on
// their own.
type FrameSink interface {
	PushFrame(Frame)
}

// NullSink discards every frame. Useful for headless runs and tests.
type NullSink struct{}

func (NullSink) PushFrame(Frame) {}
