// internal/model/core/track.go
package core

// TrackID identifies one drone's flight within a session. IDs are
// derived from the source file name at ingest time and treated as
// opaque everywhere else.
type TrackID string

// Track is one drone's flight: its ordered samples plus the per-track
// presentation and timeline state that the session mutates.
type Track struct {
	ID          TrackID `json:"id"`
	DisplayName string  `json:"displayName"`
	Color       RGB     `json:"color"`

	// Visible toggles the drone model in the 3D scene.
	Visible bool `json:"visible"`
	// IncludedInTimeline controls whether the track participates in
	// duration derivation and playback.
	IncludedInTimeline bool `json:"includedInTimeline"`
	// TrackHidden hides the track's row without excluding it.
	TrackHidden bool `json:"trackHidden"`

	// TimeOffset shifts the track on the shared timeline, seconds,
	// never negative.
	TimeOffset float64 `json:"timeOffset"`

	// Samples are ascending by Time and immutable after load.
	Samples []Sample `json:"-"`

	// Path is the simplified planar flight path for the renderer's
	// flight-path overlay, precomputed at ingest.
	Path Polyline `json:"-"`
}

// LastSampleTime returns the time of the final sample, or 0 for an
// empty track.
func (t *Track) LastSampleTime() float64 {
	if len(t.Samples) == 0 {
		return 0
	}
	return t.Samples[len(t.Samples)-1].Time
}

// EndOnTimeline is where the track ends on the shared timeline once
// its offset is applied.
func (t *Track) EndOnTimeline() float64 {
	return t.TimeOffset + t.LastSampleTime()
}
