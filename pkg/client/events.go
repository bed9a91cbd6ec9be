package client

import (
	"time"

	"github.com/WuKongIM/WuKongEasySDK-Go/pkg/eventbus"
	"github.com/WuKongIM/WuKongEasySDK-Go/pkg/wire"
)

// Direction tags a diagnostic record with the flow direction of its frame.
type Direction string

const (
	DirectionOutbound Direction = "out"
	DirectionInbound  Direction = "in"
)

// DiagnosticRecord is the payload of diagnostic events: one protocol frame
// rendered as JSON with credential fields masked and the length capped.
type DiagnosticRecord struct {
	Direction Direction
	Kind      string
	JSON      string
}

// SendAck is the payload of sendack events, emitted once a send request has
// been acknowledged by the server.
type SendAck struct {
	ClientMsgNo string
	MessageID   string
	MessageSeq  int64
}

// ReconnectingEvent is the payload of reconnecting events. Attempt is 1-based
// and Delay is how long the client waits before dialing.
type ReconnectingEvent struct {
	Attempt int
	Delay   time.Duration
}

// Bus exposes the event dispatcher for advanced subscription management such
// as Unsubscribe, UnsubscribeAll and context-bound subscriptions.
func (c *Client) Bus() *eventbus.Bus { return c.bus }

// OnConnect registers fn for successful authentications.
func (c *Client) OnConnect(fn func(*wire.ConnectResult), opts ...eventbus.SubscribeOption) *eventbus.Subscription {
	return c.bus.Subscribe(eventbus.EventConnect, func(p interface{}) {
		if r, ok := p.(*wire.ConnectResult); ok {
			fn(r)
		}
	}, opts...)
}

// OnDisconnect registers fn for session ends, both user-initiated and
// server-initiated.
func (c *Client) OnDisconnect(fn func(*wire.DisconnectInfo), opts ...eventbus.SubscribeOption) *eventbus.Subscription {
	return c.bus.Subscribe(eventbus.EventDisconnect, func(p interface{}) {
		if info, ok := p.(*wire.DisconnectInfo); ok {
			fn(info)
		}
	}, opts...)
}

// OnMessage registers fn for incoming channel messages.
func (c *Client) OnMessage(fn func(*wire.Message), opts ...eventbus.SubscribeOption) *eventbus.Subscription {
	return c.bus.Subscribe(eventbus.EventMessage, func(p interface{}) {
		if m, ok := p.(*wire.Message); ok {
			fn(m)
		}
	}, opts...)
}

// OnError registers fn for connection-level failures.
func (c *Client) OnError(fn func(*ClientError), opts ...eventbus.SubscribeOption) *eventbus.Subscription {
	return c.bus.Subscribe(eventbus.EventError, func(p interface{}) {
		if e, ok := p.(*ClientError); ok {
			fn(e)
		}
	}, opts...)
}

// OnSendAck registers fn for send acknowledgments.
func (c *Client) OnSendAck(fn func(*SendAck), opts ...eventbus.SubscribeOption) *eventbus.Subscription {
	return c.bus.Subscribe(eventbus.EventSendAck, func(p interface{}) {
		if ack, ok := p.(*SendAck); ok {
			fn(ack)
		}
	}, opts...)
}

// OnReconnecting registers fn for scheduled reconnection attempts.
func (c *Client) OnReconnecting(fn func(*ReconnectingEvent), opts ...eventbus.SubscribeOption) *eventbus.Subscription {
	return c.bus.Subscribe(eventbus.EventReconnecting, func(p interface{}) {
		if ev, ok := p.(*ReconnectingEvent); ok {
			fn(ev)
		}
	}, opts...)
}

// OnDiagnostic registers fn for masked frame traces.
func (c *Client) OnDiagnostic(fn func(*DiagnosticRecord), opts ...eventbus.SubscribeOption) *eventbus.Subscription {
	return c.bus.Subscribe(eventbus.EventDiagnostic, func(p interface{}) {
		if rec, ok := p.(*DiagnosticRecord); ok {
			fn(rec)
		}
	}, opts...)
}
