// Package present turns clock time plus track state into renderable
// frames. Frame building is a pure derivation: no state is mutated and
// every input resolves to a frame, never an error.
package present

import (
	"github.com/dronescope/playback/internal/model/core"
	"github.com/dronescope/playback/internal/store"
	"github.com/dronescope/playback/internal/timeline"
	"github.com/dronescope/playback/pkg/render"
)

// Options are the presentation toggles carried into every frame.
type Options struct {
	ScaleFactor     float64
	ShowGrid        bool
	ShowAxes        bool
	ShowFlightPaths bool
}

// DefaultOptions is the render state of a fresh session.
func DefaultOptions() Options {
	return Options{
		ScaleFactor: 1.0,
		ShowGrid:    true,
		ShowAxes:    true,
	}
}

// BuildFrame resolves one frame at the given clock time.
//
// In simultaneous mode each track samples at clock minus its offset;
// synchronous mode ignores offsets and plays every track against the
// raw clock. A track whose effective time falls before its first or
// after its last sample contributes no pose, so drones appear only
// while their flight is live.
func BuildFrame(clockTime float64, tracks []*core.Track, mode timeline.PlayMode, opts Options) render.Frame {
	frame := render.Frame{
		Time:            clockTime,
		Poses:           make(map[core.TrackID]core.Pose, len(tracks)),
		ScaleFactor:     opts.ScaleFactor,
		ShowGrid:        opts.ShowGrid,
		ShowAxes:        opts.ShowAxes,
		ShowFlightPaths: opts.ShowFlightPaths,
	}
	if frame.ScaleFactor <= 0 {
		frame.ScaleFactor = 1.0
	}

	for _, t := range tracks {
		if !t.IncludedInTimeline || !t.Visible || len(t.Samples) == 0 {
			continue
		}

		effective := clockTime
		if mode == timeline.Simultaneous {
			effective = clockTime - t.TimeOffset
		}
		if effective < 0 || effective > t.LastSampleTime() {
			continue
		}

		idx := store.Resolve(t.Samples, effective)
		frame.Poses[t.ID] = t.Samples[idx].Pose()
	}

	if opts.ShowFlightPaths {
		frame.Paths = make(map[core.TrackID]core.Polyline)
		for _, t := range tracks {
			if t.Visible && len(t.Path) > 0 {
				frame.Paths[t.ID] = t.Path
			}
		}
	}

	return frame
}
