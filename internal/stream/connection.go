package stream

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"

	"github.com/dronescope/playback/pkg/streaming"
)

const (
	sendBuffer = 10_000
	ackBuffer  = 16
	redialMax  = 10
	redialCap  = 30 * time.Second
	writeWait  = 10 * time.Second
	ackTimeout = 10 * time.Second
)

// connection owns one socket to the viewer: a buffered outbound pump,
// an inbound ack reader, and redial with session-hello replay.
type connection struct {
	sendCh chan []byte
	ackCh  chan streaming.AckMessage
	done   chan struct{} // closed on shutdown

	mu        sync.Mutex
	conn      *ws.Conn
	closed    bool
	redialing bool

	wsURL  string
	secret string

	// hello is the begin_session envelope, replayed after a redial so
	// the viewer re-binds the frames to their session.
	hello []byte

	logger *slog.Logger
}

func newConnection(logger *slog.Logger) *connection {
	return &connection{
		sendCh: make(chan []byte, sendBuffer),
		ackCh:  make(chan streaming.AckMessage, ackBuffer),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// open dials the viewer and starts the pump goroutines.
func (c *connection) open(rawURL, secret string) error {
	c.wsURL = rawURL
	c.secret = secret

	conn, err := c.dial()
	if err != nil {
		return err
	}
	c.adopt(conn)
	return nil
}

// dial performs a single connect with the shared secret as a query
// parameter.
func (c *connection) dial() (*ws.Conn, error) {
	u, err := url.Parse(c.wsURL)
	if err != nil {
		return nil, fmt.Errorf("invalid websocket URL: %w", err)
	}
	q := u.Query()
	q.Set("secret", c.secret)
	u.RawQuery = q.Encode()

	conn, _, err := ws.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("websocket dial failed: %w", err)
	}
	return conn, nil
}

// adopt installs a live socket and starts its pumps.
func (c *connection) adopt(conn *ws.Conn) {
	c.mu.Lock()
	c.conn = conn
	c.redialing = false
	c.mu.Unlock()

	go c.pumpOut(conn)
	go c.pumpIn(conn)
}

// write sends one text message with the write deadline applied.
func write(conn *ws.Conn, data []byte) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(ws.TextMessage, data)
}

// pumpOut drains sendCh onto the socket until an error or shutdown.
func (c *connection) pumpOut(conn *ws.Conn) {
	for {
		select {
		case <-c.done:
			return
		case data := <-c.sendCh:
			if err := write(conn, data); err != nil {
				c.lost("write", err)
				return
			}
		}
	}
}

// pumpIn routes viewer acks to ackCh; anything else is logged and
// dropped.
func (c *connection) pumpIn(conn *ws.Conn) {
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			default:
				c.lost("read", err)
			}
			return
		}

		var ack streaming.AckMessage
		if err := json.Unmarshal(message, &ack); err != nil || ack.Type != "ack" {
			c.logger.Debug("Non-ack message from viewer", "raw", string(message))
			continue
		}
		select {
		case c.ackCh <- ack:
		default:
			c.logger.Debug("Ack channel full, dropping", "for", ack.For)
		}
	}
}

// lost records a broken socket and kicks off a single redial; the
// second pump to fail on the same socket finds redialing set and
// returns.
func (c *connection) lost(op string, err error) {
	c.logger.Warn("Viewer connection lost", "op", op, "error", err)

	c.mu.Lock()
	if c.closed || c.redialing {
		c.mu.Unlock()
		return
	}
	c.redialing = true
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.mu.Unlock()

	go c.redial()
}

// redial re-establishes the socket with exponential backoff, replays
// the session hello and restarts the pumps.
func (c *connection) redial() {
	backoff := time.Second
	for attempt := 1; attempt <= redialMax; attempt++ {
		select {
		case <-c.done:
			return
		case <-time.After(backoff):
		}
		if backoff < redialCap {
			backoff *= 2
		}

		conn, err := c.dial()
		if err != nil {
			c.logger.Warn("Redial failed", "attempt", attempt, "error", err)
			continue
		}

		c.mu.Lock()
		hello := c.hello
		c.mu.Unlock()
		if hello != nil {
			if err := write(conn, hello); err != nil {
				c.logger.Warn("Failed to replay session hello", "error", err)
				_ = conn.Close()
				continue
			}
		}

		c.adopt(conn)
		c.logger.Info("Viewer connection restored", "attempt", attempt)
		return
	}

	c.logger.Error("Giving up on viewer redial", "attempts", redialMax)
	c.mu.Lock()
	c.redialing = false
	c.mu.Unlock()
}

// rememberHello caches the begin_session envelope for redial replay.
func (c *connection) rememberHello(data []byte) {
	c.mu.Lock()
	c.hello = data
	c.mu.Unlock()
}

// forgetHello clears the cached envelope once the session has ended.
func (c *connection) forgetHello() {
	c.mu.Lock()
	c.hello = nil
	c.mu.Unlock()
}

// send queues data without blocking; a full buffer drops the message.
func (c *connection) send(data []byte) {
	select {
	case c.sendCh <- data:
	default:
		c.logger.Warn("Viewer send buffer full, dropping message")
	}
}

// sendAndWait queues data and blocks for a matching viewer ack.
func (c *connection) sendAndWait(data []byte, ackFor string, timeout time.Duration) error {
	c.send(data)

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case ack := <-c.ackCh:
			if ack.For == ackFor {
				return nil
			}
		case <-timer.C:
			return fmt.Errorf("timeout waiting for ack of %q", ackFor)
		case <-c.done:
			return fmt.Errorf("connection closed while waiting for ack of %q", ackFor)
		}
	}
}

// close sends a close frame and shuts down the pumps.
func (c *connection) close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.done)
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		_ = conn.WriteMessage(ws.CloseMessage, ws.FormatCloseMessage(ws.CloseNormalClosure, ""))
		return conn.Close()
	}
	return nil
}
