// internal/model/core/sample.go
package core

// Sample is one telemetry row: where the drone was and how it was
// oriented at Time seconds after the start of its flight. Samples are
// immutable once loaded and kept in ascending Time order within a
// track; duplicate times are allowed.
type Sample struct {
	Position Position3D `json:"position"`
	Attitude Attitude   `json:"attitude"`
	Time     float64    `json:"time"`
}

// Pose returns the renderable pose of the sample.
func (s Sample) Pose() Pose {
	return Pose{Position: s.Position, Attitude: s.Attitude}
}
