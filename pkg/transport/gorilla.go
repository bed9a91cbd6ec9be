package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// GorillaDialer is an alternative Dialer built on github.com/gorilla/websocket
// for applications already standardized on that stack.
type GorillaDialer struct {
	// Dialer is used for the handshake. Nil uses websocket.DefaultDialer.
	Dialer *websocket.Dialer
	// Header is sent with the handshake request.
	Header http.Header
	// WriteTimeout bounds every Send. Zero means 5s.
	WriteTimeout time.Duration
	// ReadLimit caps inbound frame size. Zero means 1MB.
	ReadLimit int64
}

// Dial opens a WebSocket connection and starts its read pump.
func (d *GorillaDialer) Dial(ctx context.Context, serverURL string) (Conn, error) {
	dialer := d.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	conn, resp, err := dialer.DialContext(ctx, serverURL, d.Header)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
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

	c := &gorillaConn{
		conn:         conn,
		writeTimeout: writeTimeout,
		events:       make(chan Event, eventBuffer),
		done:         make(chan struct{}),
	}
	go c.readPump()
	return c, nil
}

type gorillaConn struct {
	conn         *websocket.Conn
	writeTimeout time.Duration
	writeMu      sync.Mutex
	events       chan Event
	done         chan struct{}
	closeOnce    sync.Once
}

func (c *gorillaConn) readPump() {
	defer close(c.events)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.emit(gorillaClosedEvent(err))
			return
		}
		if !c.emit(Event{Kind: EventFrame, Data: data}) {
			return
		}
	}
}

func (c *gorillaConn) emit(ev Event) bool {
	select {
	case c.events <- ev:
		return true
	case <-c.done:
		return false
	}
}

func gorillaClosedEvent(err error) Event {
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		ev := Event{Kind: EventClosed, Code: ce.Code, Reason: ce.Text}
		if ce.Code != websocket.CloseNormalClosure && ce.Code != websocket.CloseGoingAway {
			ev.Err = err
		}
		return ev
	}
	return Event{Kind: EventClosed, Code: CloseAbnormal, Err: err}
}

func (c *gorillaConn) Send(ctx context.Context, data []byte) error {
	select {
	case <-c.done:
		return ErrConnClosed
	default:
	}

	deadline := time.Now().Add(c.writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	// gorilla connections allow a single concurrent writer.
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *gorillaConn) Close(code int, reason string) error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		message := websocket.FormatCloseMessage(code, reason)
		deadline := time.Now().Add(c.writeTimeout)
		writeErr := c.conn.WriteControl(websocket.CloseMessage, message, deadline)
		err = c.conn.Close()
		if err == nil && writeErr != nil && !errors.Is(writeErr, websocket.ErrCloseSent) {
			err = writeErr
		}
	})
	return err
}

func (c *gorillaConn) Events() <-chan Event {
	return c.events
}
