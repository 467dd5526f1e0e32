package session

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dronescope/playback/internal/dispatcher"
	"github.com/dronescope/playback/internal/model/core"
	"github.com/dronescope/playback/internal/playback"
	"github.com/dronescope/playback/internal/timeline"
	"github.com/dronescope/playback/internal/worker"
	"github.com/dronescope/playback/pkg/render"
)

type captureSink struct {
	frames []render.Frame
}

func (s *captureSink) PushFrame(f render.Frame) {
	s.frames = append(s.frames, f)
}

func (s *captureSink) last() render.Frame {
	return s.frames[len(s.frames)-1]
}

func testTrack(id core.TrackID, last float64) *core.Track {
	samples := []core.Sample{
		{Time: 0, Position: core.Position3D{X: 1}},
		{Time: last, Position: core.Position3D{X: 2}},
	}
	return &core.Track{
		ID:                 id,
		DisplayName:        string(id),
		Visible:            true,
		IncludedInTimeline: true,
		Samples:            samples,
	}
}

func newTestController() (*Controller, *captureSink, *playback.ManualScheduler) {
	sink := &captureSink{}
	sched := playback.NewManualScheduler()
	c := New(Dependencies{
		Sink:   sink,
		Ingest: worker.NewManager(worker.Dependencies{}),
	}, sched, 800)
	return c, sink, sched
}

func TestController_TickPushesFrames(t *testing.T) {
	c, sink, sched := newTestController()
	c.Start()
	defer c.Close()

	sched.Step(time.Now())
	require.Len(t, sink.frames, 1)
	assert.Equal(t, 0.0, sink.frames[0].Time)
	assert.True(t, sink.frames[0].ShowGrid)
	assert.Equal(t, 1.0, sink.frames[0].ScaleFactor)
}

func TestController_NoFramesAfterClose(t *testing.T) {
	c, sink, sched := newTestController()
	c.Start()
	sched.Step(time.Now())
	c.Close()

	sched.Step(time.Now())
	assert.Len(t, sink.frames, 1)
}

func TestController_AdoptsIngestOnTick(t *testing.T) {
	c, sink, sched := newTestController()
	c.Start()
	defer c.Close()

	csv := "time,x,y,z\n0,1,0,0\n10,2,0,0\n"
	c.deps.Ingest.LoadReader("flight", strings.NewReader(csv))
	c.deps.Ingest.Wait()

	// Nothing registered until the next tick.
	assert.Equal(t, 0, c.Timeline().TrackCount())

	sched.Step(time.Now())
	assert.Equal(t, 1, c.Timeline().TrackCount())
	assert.Equal(t, 10.0, c.Timeline().TotalDuration())
	assert.Equal(t, 10.0, c.Clock().Duration())

	_, ok := c.deps.Store.Get("flight")
	assert.True(t, ok)

	// The track renders on the tick that adopted it.
	require.Contains(t, sink.last().Poses, core.TrackID("flight"))
}

func TestController_PlaybackAdvancesFrames(t *testing.T) {
	c, sink, sched := newTestController()
	c.Start()
	defer c.Close()

	c.Timeline().AddTrack(testTrack("a", 100))

	base := time.Now()
	c.Play()
	sched.Step(base.Add(time.Second))

	require.NotEmpty(t, sink.frames)
	assert.InDelta(t, 1.0, sink.last().Time, 0.1)
	require.Contains(t, sink.last().Poses, core.TrackID("a"))
}

func TestController_SeekToPixel(t *testing.T) {
	c, _, _ := newTestController()
	c.Timeline().AddTrack(testTrack("a", 120))

	// 800 px over 120 s at zoom 1.
	c.SeekToPixel(400)
	assert.InDelta(t, 60.0, c.Clock().CurrentTime(), 1e-9)
}

func TestController_DragTrackOffsetSnaps(t *testing.T) {
	c, _, _ := newTestController()
	c.Timeline().AddTrack(testTrack("a", 120))

	// 120 s across 800 px: major step 15 s, minor step 3 s.
	pps := c.Timeline().PixelsPerSecond()
	require.True(t, c.DragTrackOffset("a", 3.2*pps))

	trk, ok := c.Timeline().Track("a")
	require.True(t, ok)
	assert.InDelta(t, 3.0, trk.TimeOffset, 1e-9)

	assert.False(t, c.DragTrackOffset("missing", 10))
}

func TestController_Status(t *testing.T) {
	c, _, sched := newTestController()
	c.Start()
	defer c.Close()

	c.Timeline().AddTrack(testTrack("a", 50))
	sched.Step(time.Now())

	st := c.Status()
	assert.Equal(t, "stopped", st.ClockState)
	assert.Equal(t, 50.0, st.Duration)
	assert.Equal(t, 1, st.TrackCount)
	assert.Equal(t, "simultaneous", st.PlayMode)
	assert.Equal(t, 0, st.PendingLoads)
}

func TestController_RemoveTrackCascades(t *testing.T) {
	c, _, _ := newTestController()
	trk := testTrack("a", 50)
	c.deps.Store.Put(trk.ID, trk.Samples)
	c.Timeline().AddTrack(trk)

	require.True(t, c.RemoveTrack("a"))
	assert.Equal(t, 0, c.Timeline().TrackCount())
	_, ok := c.deps.Store.Get("a")
	assert.False(t, ok)

	assert.False(t, c.RemoveTrack("a"))
}

func TestController_PresentationToggles(t *testing.T) {
	c, sink, sched := newTestController()
	c.Start()
	defer c.Close()

	c.SetScaleFactor(2.5)
	c.SetShowGrid(false)
	c.SetShowFlightPaths(true)
	c.SetScaleFactor(-1) // ignored

	sched.Step(time.Now())
	frame := sink.last()
	assert.Equal(t, 2.5, frame.ScaleFactor)
	assert.False(t, frame.ShowGrid)
	assert.True(t, frame.ShowFlightPaths)
}

func newTestDispatcher(t *testing.T) *dispatcher.Dispatcher {
	t.Helper()
	d, err := dispatcher.New(noopLogger{})
	require.NoError(t, err)
	return d
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

func TestHandlers_TransportCommands(t *testing.T) {
	c, _, _ := newTestController()
	d := newTestDispatcher(t)
	c.RegisterHandlers(d)

	c.Timeline().AddTrack(testTrack("a", 100))

	_, err := d.Dispatch(dispatcher.Event{Command: "playback:play"})
	require.NoError(t, err)
	assert.Equal(t, playback.Playing, c.Clock().State())

	_, err = d.Dispatch(dispatcher.Event{Command: "playback:pause"})
	require.NoError(t, err)
	assert.Equal(t, playback.Paused, c.Clock().State())

	result, err := d.Dispatch(dispatcher.Event{Command: "playback:seek", Args: []string{"42.5"}})
	require.NoError(t, err)
	assert.Equal(t, 42.5, result)

	result, err = d.Dispatch(dispatcher.Event{Command: "playback:speed", Args: []string{"99"}})
	require.NoError(t, err)
	assert.Equal(t, playback.MaxSpeed, result)

	_, err = d.Dispatch(dispatcher.Event{Command: "playback:stop"})
	require.NoError(t, err)
	assert.Equal(t, playback.Stopped, c.Clock().State())
}

func TestHandlers_BadArguments(t *testing.T) {
	c, _, _ := newTestController()
	d := newTestDispatcher(t)
	c.RegisterHandlers(d)

	_, err := d.Dispatch(dispatcher.Event{Command: "playback:seek"})
	assert.Error(t, err)

	_, err = d.Dispatch(dispatcher.Event{Command: "playback:seek", Args: []string{"not-a-number"}})
	assert.Error(t, err)

	_, err = d.Dispatch(dispatcher.Event{Command: "playback:loop", Args: []string{"maybe"}})
	assert.Error(t, err)

	_, err = d.Dispatch(dispatcher.Event{Command: "track:include", Args: []string{"ghost", "true"}})
	assert.Error(t, err)
}

func TestHandlers_MarkerAndModeCommands(t *testing.T) {
	c, _, _ := newTestController()
	d := newTestDispatcher(t)
	c.RegisterHandlers(d)

	id, err := d.Dispatch(dispatcher.Event{Command: "marker:add", Args: []string{"12.5", "takeoff", "bookmark"}})
	require.NoError(t, err)

	markers := c.Timeline().Markers()
	require.Len(t, markers, 1)
	assert.Equal(t, 12.5, markers[0].Time)
	assert.Equal(t, "takeoff", markers[0].Label)
	assert.Equal(t, core.MarkerBookmark, markers[0].Kind)
	assert.Equal(t, id, markers[0].ID)

	mode, err := d.Dispatch(dispatcher.Event{Command: "playback:toggleMode"})
	require.NoError(t, err)
	assert.Equal(t, "synchronous", mode)
	assert.Equal(t, timeline.Synchronous, c.Timeline().PlayMode())
}

func TestHandlers_TrackCommands(t *testing.T) {
	c, _, _ := newTestController()
	d := newTestDispatcher(t)
	c.RegisterHandlers(d)
	c.Timeline().AddTrack(testTrack("a", 100))

	_, err := d.Dispatch(dispatcher.Event{Command: "track:include", Args: []string{"a", "false"}})
	require.NoError(t, err)
	assert.Equal(t, 0.0, c.Timeline().TotalDuration())

	_, err = d.Dispatch(dispatcher.Event{Command: "track:select", Args: []string{"a"}})
	require.NoError(t, err)
	assert.True(t, c.Timeline().IsSelected("a"))

	_, err = d.Dispatch(dispatcher.Event{Command: "track:remove", Args: []string{"a"}})
	require.NoError(t, err)
	assert.Equal(t, 0, c.Timeline().TrackCount())
}
