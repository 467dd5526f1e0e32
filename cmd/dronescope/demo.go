package main

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/dronescope/playback/internal/dispatcher"
	"github.com/dronescope/playback/pkg/render"
)

// logSink reports frame flow to the log instead of a 3D view, so a
// headless run still shows that playback is resolving poses.
type logSink struct {
	logger *slog.Logger
	frames atomic.Uint64
}

func newLogSink(logger *slog.Logger) *logSink {
	return &logSink{logger: logger}
}

// PushFrame logs one frame out of every 60 to keep the log readable at
// display rates.
func (s *logSink) PushFrame(f render.Frame) {
	n := s.frames.Add(1)
	if n%60 != 1 {
		return
	}
	s.logger.Debug("frame",
		"time", fmt.Sprintf("%.2f", f.Time),
		"poses", len(f.Poses),
		"paths", len(f.Paths),
	)
}

// demoFlight describes one synthetic helix flight.
type demoFlight struct {
	name     string
	radius   float64
	climb    float64
	duration float64
}

// runDemo generates synthetic flights, feeds them through the regular
// ingest path and plays them back for the given wall time.
func runDemo(d *dispatcher.Dispatcher, runFor time.Duration) error {
	dir, err := os.MkdirTemp("", "dronescope-demo-")
	if err != nil {
		return fmt.Errorf("creating demo dir: %w", err)
	}
	defer os.RemoveAll(dir)

	flights := []demoFlight{
		{name: "alpha", radius: 40, climb: 1.5, duration: 90},
		{name: "bravo", radius: 25, climb: 2.0, duration: 60},
	}

	for _, f := range flights {
		path := filepath.Join(dir, f.name+".csv")
		if err := writeDemoFlight(path, f); err != nil {
			return fmt.Errorf("writing demo flight %s: %w", f.name, err)
		}
		if _, err := d.Dispatch(dispatcher.Event{
			Command:   "ingest:load",
			Args:      []string{path},
			Timestamp: time.Now(),
		}); err != nil {
			return err
		}
	}

	script := []dispatcher.Event{
		{Command: "playback:loop", Args: []string{"true"}},
		{Command: "playback:speed", Args: []string{"2.0"}},
		{Command: "marker:add", Args: []string{"5", "takeoff"}},
		{Command: "marker:add", Args: []string{"45", "waypoint", "bookmark"}},
		{Command: "render:flightPaths", Args: []string{"true"}},
		{Command: "playback:play"},
	}
	for _, e := range script {
		e.Timestamp = time.Now()
		if _, err := d.Dispatch(e); err != nil {
			return fmt.Errorf("demo command %s: %w", e.Command, err)
		}
	}

	deadline := time.After(runFor)
	status := time.NewTicker(time.Second)
	defer status.Stop()

	for {
		select {
		case <-deadline:
			_, err := d.Dispatch(dispatcher.Event{Command: "playback:stop", Timestamp: time.Now()})
			return err
		case <-status.C:
			snap, err := d.Dispatch(dispatcher.Event{Command: "session:status", Timestamp: time.Now()})
			if err != nil {
				return err
			}
			Logger.Info("demo status", "session", snap)
		}
	}
}

// writeDemoFlight renders a climbing helix as a telemetry CSV in the
// exported column layout, sampled at 10 Hz.
func writeDemoFlight(path string, f demoFlight) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := file.WriteString("elapsed_time,drone_x,drone_y,drone_z,drone_roll,drone_pitch,drone_yaw\n"); err != nil {
		return err
	}

	const hz = 10.0
	steps := int(f.duration * hz)
	for i := 0; i <= steps; i++ {
		t := float64(i) / hz
		angle := 2 * math.Pi * t / 30 // one lap every 30 seconds
		x := f.radius * math.Cos(angle)
		y := f.radius * math.Sin(angle)
		z := f.climb * t
		yaw := math.Mod(angle*180/math.Pi+90, 360)

		line := fmt.Sprintf("%.1f,%.2f,%.2f,%.2f,%.1f,%.1f,%.1f\n",
			t, x, y, z, 2.0, -1.5, yaw)
		if _, err := file.WriteString(line); err != nil {
			return err
		}
	}

	return nil
}
