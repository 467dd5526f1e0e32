// internal/model/core/marker.go
package core

// MarkerKind classifies a timeline marker.
type MarkerKind string

const (
	MarkerEvent    MarkerKind = "event"
	MarkerBookmark MarkerKind = "bookmark"
	MarkerSync     MarkerKind = "sync"
)

// Marker is an annotation pinned to a point on the shared timeline.
// Markers are never moved after creation, only added and removed.
type Marker struct {
	ID    uint       `json:"id"`
	Time  float64    `json:"time"`
	Label string     `json:"label"`
	Color RGB        `json:"color"`
	Kind  MarkerKind `json:"kind"`
}
