// Package stream pushes playback frames to a remote viewer over
// WebSocket. It implements the render.FrameSink contract, so a session
// can stream to a browser-based 3D view instead of an in-process one.
package stream

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dronescope/playback/pkg/render"
	"github.com/dronescope/playback/pkg/streaming"
)

// Config holds WebSocket sink configuration.
type Config struct {
	URL    string
	Secret string
}

// Sink streams frames to a remote viewer. Frames are fire-and-forget;
// session boundaries wait for a viewer ack.
type Sink struct {
	conn *connection
	cfg  Config
}

// New creates a WebSocket frame sink. Call Init before streaming.
func New(cfg Config, logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{
		conn: newConnection(logger),
		cfg:  cfg,
	}
}

// Init connects to the viewer.
func (s *Sink) Init() error {
	return s.conn.open(s.cfg.URL, s.cfg.Secret)
}

// Close disconnects from the viewer.
func (s *Sink) Close() error {
	return s.conn.close()
}

// marshalEnvelope builds a JSON-encoded Envelope from a message type and payload.
func marshalEnvelope(msgType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	env := streaming.Envelope{Type: msgType, Payload: raw}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", msgType, err)
	}
	return data, nil
}

// Begin announces the session and waits for the viewer ack. The
// message is cached so a reconnect can replay it.
func (s *Sink) Begin(p streaming.BeginSessionPayload) error {
	data, err := marshalEnvelope(streaming.TypeBeginSession, p)
	if err != nil {
		return err
	}

	s.conn.rememberHello(data)
	return s.conn.sendAndWait(data, streaming.TypeBeginSession, ackTimeout)
}

// End sends end_session and waits for the viewer ack.
func (s *Sink) End() error {
	data, err := marshalEnvelope(streaming.TypeEndSession, nil)
	if err != nil {
		return err
	}

	err = s.conn.sendAndWait(data, streaming.TypeEndSession, ackTimeout)
	s.conn.forgetHello()
	return err
}

// PushFrame streams one resolved frame. Fire-and-forget: a slow viewer
// drops frames rather than stalling the playback tick.
func (s *Sink) PushFrame(f render.Frame) {
	data, err := marshalEnvelope(streaming.TypeFrame, f)
	if err != nil {
		s.conn.logger.Error("Failed to marshal frame", "error", err)
		return
	}
	s.conn.send(data)
}
