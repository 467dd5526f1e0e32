// Package timeline holds the shared multi-drone timeline: which
// tracks participate, their offsets, markers, the play mode, and the
// viewport mapping between seconds and pixels.
package timeline

import (
	"math"
	"sort"
	"sync"

	"github.com/dronescope/playback/internal/model/core"
)

// PlayMode selects how multiple tracks share the timeline.
type PlayMode int

const (
	// Simultaneous plays all tracks against one clock, honoring
	// per-track offsets.
	Simultaneous PlayMode = iota
	// Synchronous chains tracks end to end; offsets are ignored.
	Synchronous
)

func (m PlayMode) String() string {
	if m == Synchronous {
		return "synchronous"
	}
	return "simultaneous"
}

// Zoom multiplier bounds.
const (
	MinZoom = 0.1
	MaxZoom = 20.0
)

// State is the timeline model. All mutators recompute the derived
// total duration before returning, so it can never go stale.
type State struct {
	mu sync.RWMutex

	tracks map[core.TrackID]*core.Track
	order  []core.TrackID

	markers      []core.Marker
	nextMarkerID uint

	selection map[core.TrackID]struct{}
	playMode  PlayMode

	zoom       float64
	viewOffset float64
	viewWidth  float64

	duration float64

	onDuration func(float64)
}

// New creates an empty timeline with the given viewport width in
// pixels and zoom 1.
func New(viewportWidth float64) *State {
	if viewportWidth <= 0 {
		viewportWidth = 1
	}
	return &State{
		tracks:       make(map[core.TrackID]*core.Track),
		selection:    make(map[core.TrackID]struct{}),
		nextMarkerID: 1,
		zoom:         1.0,
		viewWidth:    viewportWidth,
	}
}

// SetDurationListener registers a callback fired with the new total
// whenever the derived duration changes. Used to keep the playback
// clock's bound in step.
func (s *State) SetDurationListener(fn func(float64)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onDuration = fn
}

// recomputeDuration derives the total from the included tracks.
// Callers hold s.mu for writing.
func (s *State) recomputeDuration() {
	var total float64
	switch s.playMode {
	case Synchronous:
		for _, t := range s.tracks {
			if t.IncludedInTimeline {
				total += t.LastSampleTime()
			}
		}
	default:
		for _, t := range s.tracks {
			if t.IncludedInTimeline && t.EndOnTimeline() > total {
				total = t.EndOnTimeline()
			}
		}
	}

	changed := total != s.duration
	s.duration = total
	s.clampPan()
	if changed && s.onDuration != nil {
		s.onDuration(total)
	}
}

// TotalDuration returns the derived timeline length in seconds.
func (s *State) TotalDuration() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.duration
}

// AddTrack registers a track, replacing any previous track with the
// same ID. A negative offset is clamped to zero.
func (s *State) AddTrack(t *core.Track) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.TimeOffset < 0 {
		t.TimeOffset = 0
	}
	if _, exists := s.tracks[t.ID]; !exists {
		s.order = append(s.order, t.ID)
	}
	s.tracks[t.ID] = t
	s.recomputeDuration()
}

// RemoveTrack drops a track and everything referencing it.
func (s *State) RemoveTrack(id core.TrackID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tracks[id]; !ok {
		return false
	}
	delete(s.tracks, id)
	delete(s.selection, id)
	for i, tid := range s.order {
		if tid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.recomputeDuration()
	return true
}

// Track returns the track with the given ID.
func (s *State) Track(id core.TrackID) (*core.Track, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tracks[id]
	return t, ok
}

// Tracks returns all tracks in display order.
func (s *State) Tracks() []*core.Track {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*core.Track, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.tracks[id])
	}
	return out
}

// TrackCount returns the number of registered tracks.
func (s *State) TrackCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tracks)
}

// SetTrackIncluded toggles a track's participation in playback and
// duration derivation.
func (s *State) SetTrackIncluded(id core.TrackID, included bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tracks[id]
	if !ok {
		return false
	}
	t.IncludedInTimeline = included
	s.recomputeDuration()
	return true
}

// SetTrackVisible toggles the drone model in the scene.
func (s *State) SetTrackVisible(id core.TrackID, visible bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tracks[id]
	if !ok {
		return false
	}
	t.Visible = visible
	s.recomputeDuration()
	return true
}

// SetTrackHidden hides or shows a track's timeline row.
func (s *State) SetTrackHidden(id core.TrackID, hidden bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tracks[id]
	if !ok {
		return false
	}
	t.TrackHidden = hidden
	s.recomputeDuration()
	return true
}

// SetTrackOffset moves a track on the shared timeline. Offsets are
// clamped to be non-negative; callers wanting drag snapping quantize
// with SnapToMinorStep first.
func (s *State) SetTrackOffset(id core.TrackID, seconds float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tracks[id]
	if !ok {
		return false
	}
	if seconds < 0 {
		seconds = 0
	}
	t.TimeOffset = seconds
	s.recomputeDuration()
	return true
}

// ToggleSelect flips a track in or out of the selection set.
func (s *State) ToggleSelect(id core.TrackID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tracks[id]; !ok {
		return
	}
	if _, sel := s.selection[id]; sel {
		delete(s.selection, id)
	} else {
		s.selection[id] = struct{}{}
	}
}

// IsSelected reports whether a track is selected.
func (s *State) IsSelected(id core.TrackID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.selection[id]
	return ok
}

// SelectedIDs returns the selected track IDs in display order.
func (s *State) SelectedIDs() []core.TrackID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.TrackID, 0, len(s.selection))
	for _, id := range s.order {
		if _, ok := s.selection[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// ClearSelection empties the selection set.
func (s *State) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = make(map[core.TrackID]struct{})
}

// PlayMode returns the active play mode.
func (s *State) PlayMode() PlayMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.playMode
}

// SetPlayMode switches between simultaneous and synchronous playback.
func (s *State) SetPlayMode(m PlayMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playMode = m
	s.recomputeDuration()
}

// TogglePlayMode flips the play mode and returns the new one.
func (s *State) TogglePlayMode() PlayMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.playMode == Simultaneous {
		s.playMode = Synchronous
	} else {
		s.playMode = Simultaneous
	}
	s.recomputeDuration()
	return s.playMode
}

// AddMarker pins an annotation to the timeline, keeping the marker
// list sorted by time. Times are clamped to be non-negative.
func (s *State) AddMarker(at float64, label string, kind core.MarkerKind, color core.RGB) core.Marker {
	s.mu.Lock()
	defer s.mu.Unlock()

	if at < 0 {
		at = 0
	}
	m := core.Marker{
		ID:    s.nextMarkerID,
		Time:  at,
		Label: label,
		Color: color,
		Kind:  kind,
	}
	s.nextMarkerID++

	i := sort.Search(len(s.markers), func(i int) bool {
		return s.markers[i].Time > m.Time
	})
	s.markers = append(s.markers, core.Marker{})
	copy(s.markers[i+1:], s.markers[i:])
	s.markers[i] = m

	s.recomputeDuration()
	return m
}

// RemoveMarker deletes a marker by ID.
func (s *State) RemoveMarker(id uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.markers {
		if m.ID == id {
			s.markers = append(s.markers[:i], s.markers[i+1:]...)
			s.recomputeDuration()
			return true
		}
	}
	return false
}

// Markers returns a copy of the marker list, sorted by time.
func (s *State) Markers() []core.Marker {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Marker, len(s.markers))
	copy(out, s.markers)
	return out
}

// SnapToMinorStep quantizes a time to the nearest minor tick at the
// current zoom, matching what offset drags snap to.
func (s *State) SnapToMinorStep(t float64) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	minor := minorStepFor(majorStepFor(s.pixelsPerSecond()))
	if minor <= 0 {
		return t
	}
	snapped := math.Round(t/minor) * minor
	if snapped < 0 {
		snapped = 0
	}
	return snapped
}
