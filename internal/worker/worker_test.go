package worker

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dronescope/playback/internal/model/core"
	"github.com/dronescope/playback/internal/telemetry"
)

const sampleCSV = "time,x,y,z,roll,pitch,yaw\n0,0,0,10,0,0,0\n1,5,0,12,0,0,0.5\n2,10,0,14,0,0,1\n"

func TestManager_LoadReader(t *testing.T) {
	m := NewManager(Dependencies{})
	m.LoadReader("flight-a", strings.NewReader(sampleCSV))
	m.Wait()

	results := m.Drain()
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)

	track := results[0].Track
	require.NotNil(t, track)
	assert.Equal(t, core.TrackID("flight-a"), track.ID)
	assert.Equal(t, "flight-a", track.DisplayName)
	assert.True(t, track.Visible)
	assert.True(t, track.IncludedInTimeline)
	assert.Len(t, track.Samples, 3)
	assert.Equal(t, 2.0, track.LastSampleTime())
	assert.NotEmpty(t, track.Path)

	// Drained once, gone.
	assert.Empty(t, m.Drain())
}

func TestManager_LoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "survey_flight.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0644))

	m := NewManager(Dependencies{})
	m.LoadFile(path)
	m.Wait()

	results := m.Drain()
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	assert.Equal(t, core.TrackID("survey_flight"), results[0].Track.ID)
	assert.Equal(t, path, results[0].Source)
}

func TestManager_LoadError(t *testing.T) {
	m := NewManager(Dependencies{})
	m.LoadReader("broken", strings.NewReader(""))
	m.Wait()

	results := m.Drain()
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, telemetry.ErrEmptyFile)
	assert.Nil(t, results[0].Track)
}

func TestManager_DistinctColors(t *testing.T) {
	m := NewManager(Dependencies{})
	m.LoadReader("a", strings.NewReader(sampleCSV))
	m.LoadReader("b", strings.NewReader(sampleCSV))
	m.Wait()

	results := m.Drain()
	require.Len(t, results, 2)
	require.NoError(t, results[0].Err)
	require.NoError(t, results[1].Err)
	assert.NotEqual(t, results[0].Track.Color, results[1].Track.Color)
}

func TestManager_PendingCount(t *testing.T) {
	m := NewManager(Dependencies{})
	assert.Equal(t, 0, m.PendingCount())

	m.LoadReader("a", strings.NewReader(sampleCSV))
	m.Wait()
	assert.Equal(t, 1, m.PendingCount())

	m.Drain()
	assert.Equal(t, 0, m.PendingCount())
}

func TestTrackIDFromPath(t *testing.T) {
	assert.Equal(t, core.TrackID("flight1"), trackIDFromPath("/data/flight1.csv"))
	assert.Equal(t, core.TrackID("flight2"), trackIDFromPath("flight2"))
}
