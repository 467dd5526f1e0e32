// Package geo converts GPS-flavored telemetry into the planar scene
// space the renderer works in, and builds flight-path overlays.
//
// Planar coordinates are EPSG:3857 metres. GPS inputs are converted
// once at ingest; everything downstream is planar.
package geo

import (
	"errors"
	"math"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"

	"github.com/dronescope/playback/internal/model/core"
)

// ErrInvalidCoordinates is returned when a GPS coordinate is outside
// the WGS84 domain.
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// PlanarFromLatLon converts a WGS84 longitude/latitude pair to
// EPSG:3857 metres.
func PlanarFromLatLon(longitude, latitude float64) (x, y float64, err error) {
	if latitude < -90 || latitude > 90 || longitude < -180 || longitude > 180 {
		return 0, 0, ErrInvalidCoordinates
	}
	epsg := wgs84.EPSG()
	f := epsg.Transform(4326, 3857)
	x, y, _ = f(longitude, latitude, 0)
	return x, y, nil
}

// PositionFromLatLon converts a GPS fix to a scene position. The
// origin shifts the planar result so scenes sit near (0,0) instead of
// at raw web-mercator magnitudes; pass the first fix of the flight.
func PositionFromLatLon(longitude, latitude, altitude float64, origin core.Position2D) (core.Position3D, error) {
	x, y, err := PlanarFromLatLon(longitude, latitude)
	if err != nil {
		return core.Position3D{}, err
	}
	return core.Position3D{
		X: x - origin.X,
		Y: y - origin.Y,
		Z: altitude,
	}, nil
}

// FlightPath projects a track's samples onto the ground plane and
// thins them to a renderable overlay polyline. Tolerance is the
// minimum planar distance, metres, between kept vertices; the first
// and last vertices always survive.
func FlightPath(samples []core.Sample, tolerance float64) core.Polyline {
	if len(samples) == 0 {
		return nil
	}

	path := make(core.Polyline, 0, len(samples))
	last := core.Position2D{X: samples[0].Position.X, Y: samples[0].Position.Y}
	path = append(path, last)

	for _, s := range samples[1:] {
		p := core.Position2D{X: s.Position.X, Y: s.Position.Y}
		if math.Hypot(p.X-last.X, p.Y-last.Y) < tolerance {
			continue
		}
		path = append(path, p)
		last = p
	}

	// The final position anchors the path at the landing point even
	// when it fell inside the tolerance of the previous vertex.
	end := samples[len(samples)-1]
	tail := core.Position2D{X: end.Position.X, Y: end.Position.Y}
	if path[len(path)-1] != tail {
		path = append(path, tail)
	}
	return path
}

// LineString converts a polyline into a simplefeatures LineString for
// geometry consumers (length measurement, WKB export).
func LineString(path core.Polyline) (geom.LineString, error) {
	flat := make([]float64, 0, len(path)*2)
	for _, p := range path {
		flat = append(flat, p.X, p.Y)
	}
	seq := geom.NewSequence(flat, geom.DimXY)
	return geom.NewLineString(seq)
}

// PathLength returns the planar length of a polyline in metres.
func PathLength(path core.Polyline) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += math.Hypot(path[i].X-path[i-1].X, path[i].Y-path[i-1].Y)
	}
	return total
}
