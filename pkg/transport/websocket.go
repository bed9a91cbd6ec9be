package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
)

// WebSocketDialer is the default Dialer, built on github.com/coder/websocket.
type WebSocketDialer struct {
	// Options are passed through to websocket.Dial. Nil uses
	// http.DefaultClient.
	Options *websocket.DialOptions
	// WriteTimeout bounds every Send. Zero means 5s.
	WriteTimeout time.Duration
	// ReadLimit caps inbound frame size. Zero means 1MB.
	ReadLimit int64
}

// Dial opens a WebSocket connection and starts its read pump.
func (d *WebSocketDialer) Dial(ctx context.Context, serverURL string) (Conn, error) {
	opts := d.Options
	if opts == nil {
		opts = &websocket.DialOptions{HTTPClient: http.DefaultClient}
	}
	conn, resp, err := websocket.Dial(ctx, serverURL, opts)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("transport: dial %s (status %s): %w", serverURL, resp.Status, err)
		}
		return nil, fmt.Errorf("transport: dial %s: %w", serverURL, err)
	}

	limit := d.ReadLimit
	if limit <= 0 {
		limit = defaultReadLimit
	}
	conn.SetReadLimit(limit)

	writeTimeout := d.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}

	c := &wsConn{
		conn:         conn,
		writeTimeout: writeTimeout,
		events:       make(chan Event, eventBuffer),
		done:         make(chan struct{}),
	}
	go c.readPump()
	return c, nil
}

type wsConn struct {
	conn         *websocket.Conn
	writeTimeout time.Duration
	events       chan Event
	done         chan struct{}
	closeOnce    sync.Once
}

func (c *wsConn) readPump() {
	defer close(c.events)
	for {
		_, data, err := c.conn.Read(context.Background())
		if err != nil {
			c.emit(closedEvent(err))
			return
		}
		if !c.emit(Event{Kind: EventFrame, Data: data}) {
			return
		}
	}
}

// emit delivers ev unless the consumer already closed the connection.
func (c *wsConn) emit(ev Event) bool {
	select {
	case c.events <- ev:
		return true
	case <-c.done:
		return false
	}
}

func closedEvent(err error) Event {
	var ce websocket.CloseError
	if errors.As(err, &ce) {
		ev := Event{Kind: EventClosed, Code: int(ce.Code), Reason: ce.Reason}
		if ce.Code != websocket.StatusNormalClosure && ce.Code != websocket.StatusGoingAway {
			ev.Err = err
		}
		return ev
	}
	return Event{Kind: EventClosed, Code: CloseAbnormal, Err: err}
}

func (c *wsConn) Send(ctx context.Context, data []byte) error {
	select {
	case <-c.done:
		return ErrConnClosed
	default:
	}
	ctx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()
	return c.conn.Write(ctx, websocket.MessageText, data)
}

func (c *wsConn) Close(code int, reason string) error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.conn.Close(websocket.StatusCode(code), reason)
	})
	return err
}

func (c *wsConn) Events() <-chan Event {
	return c.events
}
