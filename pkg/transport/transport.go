// Package transport abstracts the bidirectional message channel the protocol
// engine runs over. The engine depends only on Dialer and Conn, so tests and
// alternative WebSocket stacks can swap the wire without touching the engine.
package transport

import (
	"context"
	"errors"
	"time"
)

// Close codes mirroring the RFC 6455 status codes both implementations use.
const (
	CloseNormal    = 1000
	CloseGoingAway = 1001
	CloseAbnormal  = 1006
)

const (
	defaultReadLimit    = 1024 * 1024 // 1MB
	defaultWriteTimeout = 5 * time.Second
	eventBuffer         = 16
)

// ErrConnClosed is returned by Send after the connection has been closed.
var ErrConnClosed = errors.New("transport: connection closed")

// EventKind tags entries of a Conn's event stream.
type EventKind uint8

const (
	// EventFrame carries one complete inbound message.
	EventFrame EventKind = iota
	// EventClosed is the terminal event; the stream closes after it.
	EventClosed
)

// Event is one entry of a Conn's event stream. For EventClosed, Code and
// Reason carry the peer's close frame when one was received, and Err is
// non-nil when the connection failed rather than closed cleanly.
type Event struct {
	Kind   EventKind
	Data   []byte
	Code   int
	Reason string
	Err    error
}

// Conn is an established bidirectional message connection.
//
// Events delivers inbound frames and exactly one terminal EventClosed, after
// which the channel is closed. A Conn stops feeding the stream once Close has
// been called, so a consumer that initiated the close must not wait for the
// terminal event. Close is idempotent.
type Conn interface {
	// Send writes one complete message. The connection's write timeout
	// applies in addition to ctx.
	Send(ctx context.Context, data []byte) error
	// Close performs the closing handshake with the given status code.
	Close(code int, reason string) error
	// Events returns the inbound event stream.
	Events() <-chan Event
}

// Dialer opens connections. A successful Dial returns a usable Conn; there is
// no separate "opened" event.
type Dialer interface {
	Dial(ctx context.Context, serverURL string) (Conn, error)
}
