package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dronescope/playback/internal/model/core"
)

func trackWithEnd(id core.TrackID, last float64) *core.Track {
	return &core.Track{
		ID:                 id,
		DisplayName:        string(id),
		Visible:            true,
		IncludedInTimeline: true,
		Samples:            []core.Sample{{Time: 0}, {Time: last}},
	}
}

func TestDuration_NoTracks(t *testing.T) {
	s := New(800)
	assert.Equal(t, 0.0, s.TotalDuration())
}

func TestDuration_SimultaneousUsesMaxOffsetEnd(t *testing.T) {
	s := New(800)
	s.AddTrack(trackWithEnd("a", 100))
	b := trackWithEnd("b", 50)
	s.AddTrack(b)
	require.True(t, s.SetTrackOffset("b", 80))

	// b ends at 130, later than a's 100.
	assert.Equal(t, 130.0, s.TotalDuration())
}

func TestDuration_SynchronousSumsIgnoringOffsets(t *testing.T) {
	s := New(800)
	s.AddTrack(trackWithEnd("a", 100))
	s.AddTrack(trackWithEnd("b", 50))
	require.True(t, s.SetTrackOffset("b", 500))

	s.SetPlayMode(Synchronous)
	assert.Equal(t, 150.0, s.TotalDuration())
}

func TestDuration_ExcludedTrackDoesNotCount(t *testing.T) {
	s := New(800)
	s.AddTrack(trackWithEnd("a", 100))
	s.AddTrack(trackWithEnd("b", 400))

	require.True(t, s.SetTrackIncluded("b", false))
	assert.Equal(t, 100.0, s.TotalDuration())

	require.True(t, s.SetTrackIncluded("b", true))
	assert.Equal(t, 400.0, s.TotalDuration())
}

func TestDuration_ListenerFires(t *testing.T) {
	s := New(800)
	var got []float64
	s.SetDurationListener(func(d float64) { got = append(got, d) })

	s.AddTrack(trackWithEnd("a", 100))
	s.AddTrack(trackWithEnd("b", 50)) // total unchanged, no callback
	require.True(t, s.SetTrackOffset("b", 80))

	assert.Equal(t, []float64{100, 130}, got)
}

func TestRemoveTrack_CascadesAndRecomputes(t *testing.T) {
	s := New(800)
	s.AddTrack(trackWithEnd("a", 100))
	s.AddTrack(trackWithEnd("b", 200))
	s.ToggleSelect("b")

	require.True(t, s.RemoveTrack("b"))
	assert.Equal(t, 100.0, s.TotalDuration())
	assert.False(t, s.IsSelected("b"))
	assert.Equal(t, 1, s.TrackCount())

	assert.False(t, s.RemoveTrack("b"))
}

func TestAddTrack_ReplaceKeepsOrder(t *testing.T) {
	s := New(800)
	s.AddTrack(trackWithEnd("a", 100))
	s.AddTrack(trackWithEnd("b", 50))
	s.AddTrack(trackWithEnd("a", 70))

	tracks := s.Tracks()
	require.Len(t, tracks, 2)
	assert.Equal(t, core.TrackID("a"), tracks[0].ID)
	assert.Equal(t, 70.0, tracks[0].LastSampleTime())
}

func TestSetTrackOffset_ClampsNegative(t *testing.T) {
	s := New(800)
	s.AddTrack(trackWithEnd("a", 100))
	require.True(t, s.SetTrackOffset("a", -10))

	trk, ok := s.Track("a")
	require.True(t, ok)
	assert.Equal(t, 0.0, trk.TimeOffset)
}

func TestSelection(t *testing.T) {
	s := New(800)
	s.AddTrack(trackWithEnd("a", 10))
	s.AddTrack(trackWithEnd("b", 10))

	s.ToggleSelect("a")
	s.ToggleSelect("b")
	assert.Equal(t, []core.TrackID{"a", "b"}, s.SelectedIDs())

	s.ToggleSelect("a")
	assert.False(t, s.IsSelected("a"))
	assert.True(t, s.IsSelected("b"))

	s.ToggleSelect("missing")
	assert.Len(t, s.SelectedIDs(), 1)

	s.ClearSelection()
	assert.Empty(t, s.SelectedIDs())
}

func TestTogglePlayMode(t *testing.T) {
	s := New(800)
	assert.Equal(t, Simultaneous, s.PlayMode())
	assert.Equal(t, Synchronous, s.TogglePlayMode())
	assert.Equal(t, Simultaneous, s.TogglePlayMode())
}

func TestMarkers_SortedInsert(t *testing.T) {
	s := New(800)
	s.AddMarker(10, "b", core.MarkerEvent, core.RGB{})
	s.AddMarker(5, "a", core.MarkerBookmark, core.RGB{})
	s.AddMarker(20, "c", core.MarkerSync, core.RGB{})
	s.AddMarker(10, "b2", core.MarkerEvent, core.RGB{})

	markers := s.Markers()
	require.Len(t, markers, 4)
	times := []float64{markers[0].Time, markers[1].Time, markers[2].Time, markers[3].Time}
	assert.Equal(t, []float64{5, 10, 10, 20}, times)

	// Duplicate times preserve insertion order.
	assert.Equal(t, "b", markers[1].Label)
	assert.Equal(t, "b2", markers[2].Label)
}

func TestMarkers_UniqueIDsAndRemove(t *testing.T) {
	s := New(800)
	m1 := s.AddMarker(1, "one", core.MarkerEvent, core.RGB{})
	m2 := s.AddMarker(2, "two", core.MarkerEvent, core.RGB{})
	assert.NotEqual(t, m1.ID, m2.ID)

	assert.True(t, s.RemoveMarker(m1.ID))
	assert.False(t, s.RemoveMarker(m1.ID))

	markers := s.Markers()
	require.Len(t, markers, 1)
	assert.Equal(t, "two", markers[0].Label)
}

func TestAddMarker_ClampsNegativeTime(t *testing.T) {
	s := New(800)
	m := s.AddMarker(-3, "pre", core.MarkerEvent, core.RGB{})
	assert.Equal(t, 0.0, m.Time)
}

func TestPlayMode_String(t *testing.T) {
	assert.Equal(t, "simultaneous", Simultaneous.String())
	assert.Equal(t, "synchronous", Synchronous.String())
}
