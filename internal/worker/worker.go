// Package worker loads telemetry files off the playback path. Each
// load parses in its own goroutine and lands on a pending queue; the
// session drains the queue on its next tick, so registration always
// happens between frames and a half-parsed track is never visible.
package worker

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dronescope/playback/internal/geo"
	"github.com/dronescope/playback/internal/model/core"
	"github.com/dronescope/playback/internal/queue"
	"github.com/dronescope/playback/internal/telemetry"
)

// pathTolerance is the flight-path overlay thinning distance, metres.
const pathTolerance = 1.0

// palette is cycled through as tracks load, so every drone gets a
// distinct default color.
var palette = []core.RGB{
	{R: 230, G: 80, B: 60},
	{R: 60, G: 150, B: 230},
	{R: 70, G: 190, B: 100},
	{R: 240, G: 180, B: 40},
	{R: 180, G: 100, B: 230},
	{R: 60, G: 200, B: 200},
	{R: 240, G: 120, B: 180},
	{R: 160, G: 160, B: 160},
}

// Result is one finished load: either a ready track or the error that
// stopped it.
type Result struct {
	Source string
	Track  *core.Track
	Err    error
}

// Dependencies holds all dependencies for the ingest manager.
type Dependencies struct {
	Logger *slog.Logger
}

// Manager runs background telemetry loads.
type Manager struct {
	deps    Dependencies
	pending *queue.Queue[Result]

	mu       sync.Mutex
	colorIdx int

	wg sync.WaitGroup
}

// NewManager creates an ingest manager.
func NewManager(deps Dependencies) *Manager {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Manager{
		deps:    deps,
		pending: queue.New[Result](),
	}
}

// LoadFile parses a telemetry CSV in the background. The result shows
// up in the next Drain.
func (m *Manager) LoadFile(path string) {
	m.load(trackIDFromPath(path), path, func() ([]core.Sample, error) {
		return telemetry.ParseFile(path)
	})
}

// LoadReader parses telemetry from a reader under the given name.
// The reader must stay valid until the load finishes.
func (m *Manager) LoadReader(name string, r io.Reader) {
	m.load(core.TrackID(name), name, func() ([]core.Sample, error) {
		return telemetry.Parse(r)
	})
}

func (m *Manager) load(id core.TrackID, source string, parse func() ([]core.Sample, error)) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		samples, err := parse()
		if err != nil {
			m.deps.Logger.Error("telemetry load failed", "source", source, "error", err)
			m.pending.Push(Result{Source: source, Err: err})
			return
		}

		track := &core.Track{
			ID:                 id,
			DisplayName:        string(id),
			Color:              m.nextColor(),
			Visible:            true,
			IncludedInTimeline: true,
			Samples:            samples,
			Path:               geo.FlightPath(samples, pathTolerance),
		}

		m.deps.Logger.Info("telemetry loaded",
			"source", source,
			"track", track.ID,
			"samples", len(samples),
			"duration", track.LastSampleTime(),
		)
		m.pending.Push(Result{Source: source, Track: track})
	}()
}

// Drain returns the loads finished since the last call.
func (m *Manager) Drain() []Result {
	return m.pending.Drain()
}

// PendingCount returns how many finished loads await draining.
func (m *Manager) PendingCount() int {
	return m.pending.Len()
}

// Wait blocks until all in-flight loads have finished.
func (m *Manager) Wait() {
	m.wg.Wait()
}

func (m *Manager) nextColor() core.RGB {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := palette[m.colorIdx%len(palette)]
	m.colorIdx++
	return c
}

// trackIDFromPath derives the track ID from the file name, without
// directory or extension.
func trackIDFromPath(path string) core.TrackID {
	base := filepath.Base(path)
	return core.TrackID(strings.TrimSuffix(base, filepath.Ext(base)))
}
