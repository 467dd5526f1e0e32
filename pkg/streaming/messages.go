// Package streaming defines the wire protocol for pushing playback
// frames to a remote viewer over WebSocket.
package streaming

import (
	"encoding/json"
	"time"
)

// Message type constants matching the streaming protocol.
const (
	TypeBeginSession = "begin_session"
	TypeEndSession   = "end_session"
	TypeFrame        = "frame"
)

// Envelope wraps all messages sent over the WebSocket.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// AckMessage is the server's acknowledgement response.
type AckMessage struct {
	Type string `json:"type"` // always "ack"
	For  string `json:"for"`  // the message type being acknowledged
}

// BeginSessionPayload announces a playback session to the viewer.
type BeginSessionPayload struct {
	Name          string    `json:"name"`
	StartedAt     time.Time `json:"startedAt"`
	ViewportWidth float64   `json:"viewportWidth"`
	Version       string    `json:"version"`
}
