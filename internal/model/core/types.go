// internal/model/core/types.go
package core

// Position3D is a point in scene space, metres.
type Position3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Position2D is a planar point, used for flight-path overlays.
type Position2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Polyline is an ordered planar path.
type Polyline []Position2D

// Attitude is vehicle orientation in radians.
type Attitude struct {
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}

// Pose is what the renderer needs to place one drone for one frame.
type Pose struct {
	Position Position3D `json:"position"`
	Attitude Attitude   `json:"attitude"`
}

// RGB is an 8-bit display color.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// PlaybackRange restricts playback to a sub-range of the timeline.
// Start and End are playback seconds; the zero value is disabled.
type PlaybackRange struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Enabled bool    `json:"enabled"`
}
