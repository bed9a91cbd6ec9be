package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/WuKongIM/WuKongEasySDK-Go/pkg/transport"
)

// FakeConn is an in-memory transport.Conn. Tests push inbound frames and
// terminal events by hand and inspect everything the client wrote.
type FakeConn struct {
	mu     sync.Mutex
	sent   [][]byte
	done   bool
	code   int
	reason string

	events chan transport.Event
}

func NewFakeConn() *FakeConn {
	return &FakeConn{events: make(chan transport.Event, 16)}
}

func (c *FakeConn) Send(ctx context.Context, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done {
		return transport.ErrConnClosed
	}
	c.sent = append(c.sent, append([]byte(nil), data...))
	return nil
}

func (c *FakeConn) Close(code int, reason string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done {
		return nil
	}
	c.done = true
	c.code, c.reason = code, reason
	close(c.events)
	return nil
}

func (c *FakeConn) Events() <-chan transport.Event { return c.events }

// PushFrame delivers one inbound frame to the client.
func (c *FakeConn) PushFrame(data []byte) {
	c.events <- transport.Event{Kind: transport.EventFrame, Data: data}
}

// CloseFromPeer ends the stream as a clean remote close with the given close
// frame.
func (c *FakeConn) CloseFromPeer(code int, reason string) {
	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		return
	}
	c.done = true
	c.mu.Unlock()
	c.events <- transport.Event{Kind: transport.EventClosed, Code: code, Reason: reason}
	close(c.events)
}

// FailFromPeer ends the stream as an abnormal connection failure.
func (c *FakeConn) FailFromPeer(err error) {
	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		return
	}
	c.done = true
	c.mu.Unlock()
	c.events <- transport.Event{Kind: transport.EventClosed, Code: transport.CloseAbnormal, Err: err}
	close(c.events)
}

// Sent returns a copy of every frame written so far.
func (c *FakeConn) Sent() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]byte, len(c.sent))
	copy(out, c.sent)
	return out
}

// CloseCode returns the code and reason of a client-initiated close, or
// (0, "") when the client has not closed the connection.
func (c *FakeConn) CloseCode() (int, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.code, c.reason
}

// FakeDialer hands out prepared connections in order and fails once they run
// out.
type FakeDialer struct {
	mu    sync.Mutex
	conns []*FakeConn
	dials int
}

func NewFakeDialer(conns ...*FakeConn) *FakeDialer {
	return &FakeDialer{conns: conns}
}

func (d *FakeDialer) Dial(ctx context.Context, serverURL string) (transport.Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dials++
	if len(d.conns) == 0 {
		return nil, errors.New("fake dialer: out of connections")
	}
	conn := d.conns[0]
	d.conns = d.conns[1:]
	return conn, nil
}

// Dials reports how many times Dial has been called.
func (d *FakeDialer) Dials() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dials
}
