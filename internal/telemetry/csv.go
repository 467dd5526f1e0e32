// Package telemetry parses drone flight logs (CSV) into sample
// sequences. Parsing is pure: no registration side effects, and a
// failed parse never leaves a partial track behind.
package telemetry

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/dronescope/playback/internal/geo"
	"github.com/dronescope/playback/internal/model/core"
	"github.com/dronescope/playback/internal/util"
)

// ErrEmptyFile is returned for a CSV with no data rows.
var ErrEmptyFile = errors.New("CSV file is empty")

// MissingColumnError reports a required column absent from the header
// under all of its accepted names.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column: %s", e.Column)
}

// Column aliases, first match wins. Exported telemetry uses the
// drone_-prefixed names; bare names cover hand-trimmed logs.
var (
	timeAliases  = []string{"elapsed_time", "time"}
	xAliases     = []string{"drone_x", "x"}
	yAliases     = []string{"drone_y", "y"}
	zAliases     = []string{"drone_z", "z"}
	rollAliases  = []string{"drone_roll", "roll"}
	pitchAliases = []string{"drone_pitch", "pitch"}
	yawAliases   = []string{"drone_yaw", "yaw"}

	latAliases = []string{"latitude", "lat"}
	lonAliases = []string{"longitude", "lon", "lng"}
	altAliases = []string{"altitude", "alt", "elevation"}
)

type columnMap struct {
	time              int
	x, y, z           int
	roll, pitch, yaw  int
	lat, lon, alt     int
	gps               bool
}

func findColumn(header []string, aliases []string) int {
	for _, alias := range aliases {
		for i, cell := range header {
			if util.NormalizeHeader(cell) == alias {
				return i
			}
		}
	}
	return -1
}

func mapColumns(header []string) (columnMap, error) {
	m := columnMap{
		time:  findColumn(header, timeAliases),
		x:     findColumn(header, xAliases),
		y:     findColumn(header, yAliases),
		z:     findColumn(header, zAliases),
		roll:  findColumn(header, rollAliases),
		pitch: findColumn(header, pitchAliases),
		yaw:   findColumn(header, yawAliases),
		lat:   findColumn(header, latAliases),
		lon:   findColumn(header, lonAliases),
		alt:   findColumn(header, altAliases),
	}

	if m.time < 0 {
		return m, &MissingColumnError{Column: timeAliases[0]}
	}

	// Planar x/y/z is the primary schema; GPS lat/lon is the fallback
	// for logs straight off a flight controller.
	if m.x >= 0 && m.y >= 0 && m.z >= 0 {
		return m, nil
	}
	if m.lat >= 0 && m.lon >= 0 {
		m.gps = true
		return m, nil
	}

	switch {
	case m.x < 0:
		return m, &MissingColumnError{Column: xAliases[0]}
	case m.y < 0:
		return m, &MissingColumnError{Column: yAliases[0]}
	default:
		return m, &MissingColumnError{Column: zAliases[0]}
	}
}

// cellFloat parses one cell, treating malformed numerics as 0 so a
// single corrupt value degrades one field instead of dropping the row.
func cellFloat(row []string, idx int) float64 {
	if idx < 0 || idx >= len(row) {
		return 0
	}
	v, err := strconv.ParseFloat(util.CleanCell(row[idx]), 64)
	if err != nil {
		return 0
	}
	return v
}

// Parse reads CSV telemetry into samples sorted ascending by time.
func Parse(r io.Reader) ([]core.Sample, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	cols, err := mapColumns(rows[0])
	if err != nil {
		return nil, err
	}

	data := rows[1:]
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	// A usable row must reach every required column: time plus the
	// position columns of the active schema. Attitude cells, and
	// altitude in GPS logs, stay optional and read as zero.
	required := []int{cols.time, cols.x, cols.y, cols.z}
	if cols.gps {
		required = []int{cols.time, cols.lat, cols.lon}
	}
	minWidth := 0
	for _, idx := range required {
		if idx >= minWidth {
			minWidth = idx + 1
		}
	}

	var origin core.Position2D
	originSet := false

	samples := make([]core.Sample, 0, len(data))
	for _, row := range data {
		// Rows truncated before a required column have no usable fix.
		if len(row) < minWidth {
			continue
		}

		s := core.Sample{
			Time: cellFloat(row, cols.time),
			Attitude: core.Attitude{
				Roll:  cellFloat(row, cols.roll),
				Pitch: cellFloat(row, cols.pitch),
				Yaw:   cellFloat(row, cols.yaw),
			},
		}

		if cols.gps {
			lon := cellFloat(row, cols.lon)
			lat := cellFloat(row, cols.lat)
			if !originSet {
				ox, oy, oerr := geo.PlanarFromLatLon(lon, lat)
				if oerr == nil {
					origin = core.Position2D{X: ox, Y: oy}
					originSet = true
				}
			}
			pos, perr := geo.PositionFromLatLon(lon, lat, cellFloat(row, cols.alt), origin)
			if perr != nil {
				// Out-of-domain fix, treat like a malformed row.
				continue
			}
			s.Position = pos
		} else {
			s.Position = core.Position3D{
				X: cellFloat(row, cols.x),
				Y: cellFloat(row, cols.y),
				Z: cellFloat(row, cols.z),
			}
		}

		samples = append(samples, s)
	}

	if len(samples) == 0 {
		return nil, ErrEmptyFile
	}

	// Logs are usually already ordered; a stable sort repairs the
	// ones that are not without reshuffling duplicate times.
	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].Time < samples[j].Time
	})

	return samples, nil
}

// ParseFile reads and parses one telemetry file.
func ParseFile(path string) ([]core.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open telemetry file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}
