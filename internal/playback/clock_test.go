package playback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dronescope/playback/internal/model/core"
)

type fakeWall struct {
	t time.Time
}

func newFakeWall() *fakeWall {
	return &fakeWall{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeWall) now() time.Time {
	return f.t
}

func (f *fakeWall) advance(d time.Duration) time.Time {
	f.t = f.t.Add(d)
	return f.t
}

func newTestClock(duration float64) (*Clock, *fakeWall) {
	wall := newFakeWall()
	c := NewClock(WithNowFunc(wall.now))
	c.SetDuration(duration)
	return c, wall
}

func TestClock_InitialState(t *testing.T) {
	c, _ := newTestClock(10)
	assert.Equal(t, Stopped, c.State())
	assert.Equal(t, 0.0, c.CurrentTime())
	assert.Equal(t, 1.0, c.Speed())
	assert.False(t, c.Loop())
}

func TestClock_AdvanceAtUnitSpeed(t *testing.T) {
	c, wall := newTestClock(10)
	c.Play()

	got := c.Advance(wall.advance(time.Second))
	assert.InDelta(t, 1.0, got, 1e-9)

	got = c.Advance(wall.advance(500 * time.Millisecond))
	assert.InDelta(t, 1.5, got, 1e-9)
}

func TestClock_AdvanceScalesWithSpeed(t *testing.T) {
	c, wall := newTestClock(10)
	c.SetSpeed(2.5)
	c.Play()

	got := c.Advance(wall.advance(time.Second))
	assert.InDelta(t, 2.5, got, 1e-9)
}

func TestClock_AdvanceWhenNotPlaying(t *testing.T) {
	c, wall := newTestClock(10)
	c.Seek(3.0)

	got := c.Advance(wall.advance(time.Second))
	assert.Equal(t, 3.0, got)
	assert.Equal(t, Stopped, c.State())
}

func TestClock_OvershootClampsAndPauses(t *testing.T) {
	c, wall := newTestClock(10)
	c.Seek(9.5)
	c.Play()

	got := c.Advance(wall.advance(time.Second))
	assert.Equal(t, 10.0, got)
	assert.Equal(t, Paused, c.State())

	// Paused at the end: further ticks hold.
	got = c.Advance(wall.advance(time.Second))
	assert.Equal(t, 10.0, got)
}

func TestClock_OvershootWrapsWhenLooping(t *testing.T) {
	c, wall := newTestClock(10)
	c.SetLoop(true)
	c.Seek(9.5)
	c.Play()

	got := c.Advance(wall.advance(time.Second))
	assert.InDelta(t, 0.5, got, 1e-9)
	assert.Equal(t, Playing, c.State())

	// Wrap re-bases: the next second lands at 1.5, not further.
	got = c.Advance(wall.advance(time.Second))
	assert.InDelta(t, 1.5, got, 1e-9)
}

func TestClock_PauseFreezesResumeContinues(t *testing.T) {
	c, wall := newTestClock(10)
	c.Play()
	c.Advance(wall.advance(2 * time.Second))

	c.Pause()
	assert.Equal(t, Paused, c.State())
	assert.InDelta(t, 2.0, c.CurrentTime(), 1e-9)

	// Wall time passing while paused is not accumulated.
	wall.advance(5 * time.Second)
	c.Play()
	got := c.Advance(wall.advance(time.Second))
	assert.InDelta(t, 3.0, got, 1e-9)
}

func TestClock_StopResetsToStart(t *testing.T) {
	c, wall := newTestClock(10)
	c.Play()
	c.Advance(wall.advance(4 * time.Second))

	c.Stop()
	assert.Equal(t, Stopped, c.State())
	assert.Equal(t, 0.0, c.CurrentTime())
}

func TestClock_SeekClamps(t *testing.T) {
	c, _ := newTestClock(10)

	c.Seek(-5)
	assert.Equal(t, 0.0, c.CurrentTime())

	c.Seek(50)
	assert.Equal(t, 10.0, c.CurrentTime())

	c.Seek(7.25)
	assert.Equal(t, 7.25, c.CurrentTime())
}

func TestClock_SeekWhileStoppedThenPlayResumes(t *testing.T) {
	c, wall := newTestClock(100)
	c.Seek(40)
	assert.Equal(t, Stopped, c.State())

	// Play must pick up from the seek target, not rewind to zero.
	c.Play()
	got := c.Advance(wall.advance(time.Second))
	assert.InDelta(t, 41.0, got, 1e-9)
}

func TestClock_SeekWhilePlayingRebases(t *testing.T) {
	c, wall := newTestClock(100)
	c.Play()
	c.Advance(wall.advance(2 * time.Second))

	c.Seek(50)
	got := c.Advance(wall.advance(time.Second))
	assert.InDelta(t, 51.0, got, 1e-9)
	assert.Equal(t, Playing, c.State())
}

func TestClock_SetSpeedClamps(t *testing.T) {
	c, _ := newTestClock(10)

	c.SetSpeed(0.01)
	assert.Equal(t, MinSpeed, c.Speed())

	c.SetSpeed(100)
	assert.Equal(t, MaxSpeed, c.Speed())

	c.SetSpeed(1.5)
	assert.Equal(t, 1.5, c.Speed())
}

func TestClock_SetSpeedDoesNotRescalePast(t *testing.T) {
	c, wall := newTestClock(100)
	c.Play()
	c.Advance(wall.advance(2 * time.Second))

	c.SetSpeed(4.0)
	got := c.Advance(wall.advance(time.Second))
	assert.InDelta(t, 6.0, got, 1e-9)
}

func TestClock_RangePlayback(t *testing.T) {
	c, wall := newTestClock(100)
	c.SetRange(core.PlaybackRange{Start: 10, End: 20, Enabled: true})

	// Play from stopped at time 0 snaps to the range start.
	c.Play()
	got := c.Advance(wall.advance(time.Second))
	assert.InDelta(t, 11.0, got, 1e-9)

	// Overshoot pauses at the range end.
	got = c.Advance(wall.advance(20 * time.Second))
	assert.Equal(t, 20.0, got)
	assert.Equal(t, Paused, c.State())
}

func TestClock_RangeLoopWraps(t *testing.T) {
	c, wall := newTestClock(100)
	c.SetRange(core.PlaybackRange{Start: 10, End: 20, Enabled: true})
	c.SetLoop(true)
	c.Seek(19.5)
	c.Play()

	got := c.Advance(wall.advance(time.Second))
	assert.InDelta(t, 10.5, got, 1e-9)
	assert.Equal(t, Playing, c.State())
}

func TestClock_InvertedRangeNormalized(t *testing.T) {
	c, _ := newTestClock(100)
	c.SetRange(core.PlaybackRange{Start: 20, End: 10, Enabled: true})

	rng := c.Range()
	assert.Equal(t, 10.0, rng.Start)
	assert.Equal(t, 20.0, rng.End)
}

func TestClock_ShrinkingDurationClampsCurrent(t *testing.T) {
	c, _ := newTestClock(100)
	c.Seek(80)

	c.SetDuration(50)
	assert.Equal(t, 50.0, c.CurrentTime())
}

func TestClock_ZeroDuration(t *testing.T) {
	c, wall := newTestClock(0)
	c.Play()
	got := c.Advance(wall.advance(time.Second))
	assert.Equal(t, 0.0, got)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "stopped", Stopped.String())
	assert.Equal(t, "playing", Playing.String())
	assert.Equal(t, "paused", Paused.String())
}
