package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dronescope/playback/internal/model/core"
)

func TestPlanarFromLatLon(t *testing.T) {
	x, y, err := PlanarFromLatLon(0, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0, x, 1e-6)
	assert.InDelta(t, 0, y, 1e-6)

	// One degree of longitude at the equator is ~111.3 km in
	// web mercator.
	x, _, err = PlanarFromLatLon(1, 0)
	require.NoError(t, err)
	assert.InDelta(t, 111319.49, x, 1.0)
}

func TestPlanarFromLatLon_OutOfDomain(t *testing.T) {
	_, _, err := PlanarFromLatLon(0, 91)
	assert.ErrorIs(t, err, ErrInvalidCoordinates)

	_, _, err = PlanarFromLatLon(-181, 0)
	assert.ErrorIs(t, err, ErrInvalidCoordinates)
}

func TestPositionFromLatLon_OriginShift(t *testing.T) {
	ox, oy, err := PlanarFromLatLon(8.54, 47.37)
	require.NoError(t, err)
	origin := core.Position2D{X: ox, Y: oy}

	pos, err := PositionFromLatLon(8.54, 47.37, 120.5, origin)
	require.NoError(t, err)
	assert.InDelta(t, 0, pos.X, 1e-6)
	assert.InDelta(t, 0, pos.Y, 1e-6)
	assert.Equal(t, 120.5, pos.Z)
}

func TestFlightPath_Thinning(t *testing.T) {
	samples := []core.Sample{
		{Position: core.Position3D{X: 0, Y: 0}},
		{Position: core.Position3D{X: 0.1, Y: 0}},  // within tolerance, dropped
		{Position: core.Position3D{X: 5, Y: 0}},
		{Position: core.Position3D{X: 5.2, Y: 0}},  // within tolerance, dropped
		{Position: core.Position3D{X: 10, Y: 10}},
	}

	path := FlightPath(samples, 1.0)
	require.Len(t, path, 3)
	assert.Equal(t, core.Position2D{X: 0, Y: 0}, path[0])
	assert.Equal(t, core.Position2D{X: 5, Y: 0}, path[1])
	assert.Equal(t, core.Position2D{X: 10, Y: 10}, path[2])
}

func TestFlightPath_KeepsLandingPoint(t *testing.T) {
	samples := []core.Sample{
		{Position: core.Position3D{X: 0, Y: 0}},
		{Position: core.Position3D{X: 100, Y: 0}},
		{Position: core.Position3D{X: 100.2, Y: 0}},
	}

	path := FlightPath(samples, 1.0)
	require.Len(t, path, 3)
	assert.Equal(t, core.Position2D{X: 100.2, Y: 0}, path[2])
}

func TestFlightPath_Empty(t *testing.T) {
	assert.Nil(t, FlightPath(nil, 1.0))
}

func TestPathLength(t *testing.T) {
	path := core.Polyline{{X: 0, Y: 0}, {X: 3, Y: 4}, {X: 3, Y: 14}}
	assert.InDelta(t, 15.0, PathLength(path), 1e-9)
	assert.Equal(t, 0.0, PathLength(core.Polyline{{X: 1, Y: 1}}))
}

func TestLineString(t *testing.T) {
	path := core.Polyline{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 0}}
	ls, err := LineString(path)
	require.NoError(t, err)
	assert.Equal(t, 3, ls.Coordinates().Length())

	// A single vertex cannot form a linestring.
	_, err = LineString(core.Polyline{{X: 5, Y: 5}})
	assert.Error(t, err)
}
