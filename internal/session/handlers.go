package session

import (
	"fmt"
	"strconv"

	"github.com/dronescope/playback/internal/dispatcher"
	"github.com/dronescope/playback/internal/model/core"
)

// RegisterHandlers binds every session action to a dispatcher command,
// so any frontend that can emit (command, args) pairs can drive the
// session.
func (c *Controller) RegisterHandlers(d *dispatcher.Dispatcher) {
	// Transport.
	d.Register("playback:play", func(e dispatcher.Event) (any, error) {
		c.Play()
		return "ok", nil
	}, dispatcher.Logged())

	d.Register("playback:pause", func(e dispatcher.Event) (any, error) {
		c.Pause()
		return "ok", nil
	}, dispatcher.Logged())

	d.Register("playback:stop", func(e dispatcher.Event) (any, error) {
		c.Stop()
		return "ok", nil
	}, dispatcher.Logged())

	d.Register("playback:seek", func(e dispatcher.Event) (any, error) {
		t, err := argFloat(e, 0)
		if err != nil {
			return nil, err
		}
		c.SeekToTime(t)
		return c.clock.CurrentTime(), nil
	})

	d.Register("playback:seekPixel", func(e dispatcher.Event) (any, error) {
		px, err := argFloat(e, 0)
		if err != nil {
			return nil, err
		}
		c.SeekToPixel(px)
		return c.clock.CurrentTime(), nil
	})

	d.Register("playback:speed", func(e dispatcher.Event) (any, error) {
		v, err := argFloat(e, 0)
		if err != nil {
			return nil, err
		}
		c.SetSpeed(v)
		return c.clock.Speed(), nil
	}, dispatcher.Logged())

	d.Register("playback:loop", func(e dispatcher.Event) (any, error) {
		v, err := argBool(e, 0)
		if err != nil {
			return nil, err
		}
		c.SetLoop(v)
		return "ok", nil
	})

	d.Register("playback:range", func(e dispatcher.Event) (any, error) {
		start, err := argFloat(e, 0)
		if err != nil {
			return nil, err
		}
		end, err := argFloat(e, 1)
		if err != nil {
			return nil, err
		}
		enabled, err := argBool(e, 2)
		if err != nil {
			return nil, err
		}
		c.SetPlaybackRange(start, end, enabled)
		return "ok", nil
	})

	d.Register("playback:toggleMode", func(e dispatcher.Event) (any, error) {
		return c.TogglePlayMode().String(), nil
	}, dispatcher.Logged())

	// Viewport.
	d.Register("timeline:zoom", func(e dispatcher.Event) (any, error) {
		factor, err := argFloat(e, 0)
		if err != nil {
			return nil, err
		}
		cursor, err := argFloat(e, 1)
		if err != nil {
			return nil, err
		}
		c.WheelZoom(factor, cursor)
		return c.tl.Zoom(), nil
	})

	d.Register("timeline:pan", func(e dispatcher.Event) (any, error) {
		delta, err := argFloat(e, 0)
		if err != nil {
			return nil, err
		}
		c.DragPan(delta)
		return c.tl.ViewportOffset(), nil
	})

	// Tracks.
	d.Register("track:dragOffset", func(e dispatcher.Event) (any, error) {
		id, err := argTrack(e, 0)
		if err != nil {
			return nil, err
		}
		delta, err := argFloat(e, 1)
		if err != nil {
			return nil, err
		}
		if !c.DragTrackOffset(id, delta) {
			return nil, fmt.Errorf("unknown track: %s", id)
		}
		return "ok", nil
	})

	d.Register("track:include", c.trackBoolHandler(c.SetTrackIncluded))
	d.Register("track:visible", c.trackBoolHandler(c.SetTrackVisible))
	d.Register("track:hidden", c.trackBoolHandler(c.SetTrackHidden))

	d.Register("track:select", func(e dispatcher.Event) (any, error) {
		id, err := argTrack(e, 0)
		if err != nil {
			return nil, err
		}
		c.ToggleTrackSelection(id)
		return "ok", nil
	})

	d.Register("track:remove", func(e dispatcher.Event) (any, error) {
		id, err := argTrack(e, 0)
		if err != nil {
			return nil, err
		}
		if !c.RemoveTrack(id) {
			return nil, fmt.Errorf("unknown track: %s", id)
		}
		return "ok", nil
	}, dispatcher.Logged())

	// Markers.
	d.Register("marker:add", func(e dispatcher.Event) (any, error) {
		t, err := argFloat(e, 0)
		if err != nil {
			return nil, err
		}
		label := argString(e, 1)
		kind := core.MarkerKind(argString(e, 2))
		if kind == "" {
			kind = core.MarkerEvent
		}
		m := c.AddMarkerAtTime(t, label, kind, core.RGB{R: 255, G: 200, B: 0})
		return m.ID, nil
	}, dispatcher.Logged())

	d.Register("marker:remove", func(e dispatcher.Event) (any, error) {
		raw, err := argFloat(e, 0)
		if err != nil {
			return nil, err
		}
		if !c.RemoveMarker(uint(raw)) {
			return nil, fmt.Errorf("unknown marker: %d", uint(raw))
		}
		return "ok", nil
	})

	// Presentation.
	d.Register("render:scale", func(e dispatcher.Event) (any, error) {
		f, err := argFloat(e, 0)
		if err != nil {
			return nil, err
		}
		c.SetScaleFactor(f)
		return "ok", nil
	})

	d.Register("render:grid", c.optionBoolHandler(c.SetShowGrid))
	d.Register("render:axes", c.optionBoolHandler(c.SetShowAxes))
	d.Register("render:flightPaths", c.optionBoolHandler(c.SetShowFlightPaths))

	// Ingest. Buffered so a burst of drops from the file picker never
	// blocks the input source.
	d.Register("ingest:load", func(e dispatcher.Event) (any, error) {
		path := argString(e, 0)
		if path == "" {
			return nil, fmt.Errorf("ingest:load: missing path")
		}
		c.LoadTelemetry(path)
		return "queued", nil
	}, dispatcher.Buffered(16), dispatcher.Logged())

	// Status.
	d.Register("session:status", func(e dispatcher.Event) (any, error) {
		return c.Status(), nil
	})
}

func (c *Controller) trackBoolHandler(set func(core.TrackID, bool) bool) dispatcher.HandlerFunc {
	return func(e dispatcher.Event) (any, error) {
		id, err := argTrack(e, 0)
		if err != nil {
			return nil, err
		}
		v, err := argBool(e, 1)
		if err != nil {
			return nil, err
		}
		if !set(id, v) {
			return nil, fmt.Errorf("unknown track: %s", id)
		}
		return "ok", nil
	}
}

func (c *Controller) optionBoolHandler(set func(bool)) dispatcher.HandlerFunc {
	return func(e dispatcher.Event) (any, error) {
		v, err := argBool(e, 0)
		if err != nil {
			return nil, err
		}
		set(v)
		return "ok", nil
	}
}

func argString(e dispatcher.Event, i int) string {
	if i >= len(e.Args) {
		return ""
	}
	return e.Args[i]
}

func argTrack(e dispatcher.Event, i int) (core.TrackID, error) {
	s := argString(e, i)
	if s == "" {
		return "", fmt.Errorf("%s: missing track id argument %d", e.Command, i)
	}
	return core.TrackID(s), nil
}

func argFloat(e dispatcher.Event, i int) (float64, error) {
	if i >= len(e.Args) {
		return 0, fmt.Errorf("%s: missing numeric argument %d", e.Command, i)
	}
	v, err := strconv.ParseFloat(e.Args[i], 64)
	if err != nil {
		return 0, fmt.Errorf("%s: bad numeric argument %q", e.Command, e.Args[i])
	}
	return v, nil
}

func argBool(e dispatcher.Event, i int) (bool, error) {
	if i >= len(e.Args) {
		return false, fmt.Errorf("%s: missing boolean argument %d", e.Command, i)
	}
	v, err := strconv.ParseBool(e.Args[i])
	if err != nil {
		return false, fmt.Errorf("%s: bad boolean argument %q", e.Command, e.Args[i])
	}
	return v, nil
}
