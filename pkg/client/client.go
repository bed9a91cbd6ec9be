// Package client implements the WuKongIM client protocol engine: an
// authenticated WebSocket session speaking JSON-RPC 2.0, with request
// correlation, keepalive pings, exponential backoff reconnection and an event
// bus for pushed messages.
//
// All connection state is owned by a single run loop goroutine. Public
// methods never touch that state directly; they post closures onto the loop
// and wait for their outcome, so no mutex guards the session.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/WuKongIM/WuKongEasySDK-Go/pkg/eventbus"
	"github.com/WuKongIM/WuKongEasySDK-Go/pkg/transport"
	"github.com/WuKongIM/WuKongEasySDK-Go/pkg/wire"
)

const opsBuffer = 16

// Client is a WuKongIM messaging client. Create one with New or
// NewWithOptions, connect with Connect, and release it with Close.
type Client struct {
	opts    Options
	logger  *slog.Logger
	bus     *eventbus.Bus
	limiter *rate.Limiter

	ops      chan func()
	quit     chan struct{}
	loopDone chan struct{}

	closeMu sync.Mutex
	closed  bool

	state atomic.Int32

	// Everything below is owned by the run loop.
	conn             transport.Conn
	events           <-chan transport.Event
	reachCh          <-chan bool
	epoch            uint64
	pending          *pendingRegistry
	policy           backoff
	attempts         int
	reconnectTimer   *time.Timer
	pingTimer        *time.Timer
	outstandingPing  string
	userDisconnected bool
	connectRequested bool
	connectWaiter    func(*wire.ConnectResult, error)
}

// New creates a client for the given endpoint and credentials. The returned
// client is idle; call Connect to open the session.
func New(serverURL, uid, token string, opts ...Option) (*Client, error) {
	o := DefaultOptions()
	o.ServerURL = serverURL
	o.UID = uid
	o.Token = token
	for _, opt := range opts {
		opt(&o)
	}
	return NewWithOptions(o)
}

// NewWithOptions creates a client from a fully populated Options struct.
// Zero values are filled with library defaults before validation.
func NewWithOptions(opts Options) (*Client, error) {
	applyDefaults(&opts)
	if err := validateOptions(&opts); err != nil {
		return nil, err
	}
	if opts.DeviceID == "" {
		opts.DeviceID = uuid.NewString()
	}
	c := &Client{
		opts:     opts,
		logger:   opts.Logger,
		bus:      eventbus.New(opts.Logger, opts.EventQueueLength),
		ops:      make(chan func(), opsBuffer),
		quit:     make(chan struct{}),
		loopDone: make(chan struct{}),
		policy: backoff{
			initial: opts.ReconnectInitialDelay,
			max:     opts.ReconnectMaxDelay,
			factor:  opts.ReconnectFactor,
		},
	}
	c.pending = newPendingRegistry(c.post)
	if opts.SendRatePerSec > 0 {
		burst := opts.SendBurst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.SendRatePerSec), burst)
	}
	if opts.Reachability != nil {
		c.reachCh = opts.Reachability.Changes()
	}
	go c.run()
	return c, nil
}

// State reports the current connection state. Safe from any goroutine.
func (c *Client) State() State { return State(c.state.Load()) }

// Connect dials the server and authenticates. It returns the server's
// connect result once the session is authenticated, or the error that ended
// the attempt. ctx only bounds the caller's wait; the attempt itself is
// bounded by ConnectTimeout and RequestTimeout.
//
// Connect fails immediately when a connection attempt is already in flight
// or the session is already authenticated. Calling it while a reconnect
// timer is pending supersedes the timer and dials at once.
func (c *Client) Connect(ctx context.Context) (*wire.ConnectResult, error) {
	type outcome struct {
		res *wire.ConnectResult
		err error
	}
	ch := make(chan outcome, 1)
	waiter := func(res *wire.ConnectResult, err error) {
		ch <- outcome{res: res, err: err}
	}
	if !c.post(func() { c.connectOp(waiter) }) {
		return nil, newError(KindNotInitialized, "client is closed")
	}
	select {
	case out := <-ch:
		return out.res, out.err
	case <-ctx.Done():
		return nil, wrapError(KindCancelled, "connect cancelled", ctx.Err())
	}
}

// Disconnect closes the session deliberately. No reconnection is attempted
// until the next Connect call. Disconnecting an already disconnected client
// is a no-op.
func (c *Client) Disconnect() error {
	done := make(chan struct{})
	if !c.post(func() { c.disconnectOp("client disconnect"); close(done) }) {
		return newError(KindNotInitialized, "client is closed")
	}
	<-done
	return nil
}

// SendOption adjusts a single Send call.
type SendOption func(*sendConfig)

type sendConfig struct {
	clientMsgNo string
	header      wire.MessageHeader
}

// WithClientMsgNo pins the client-side dedup identifier instead of
// generating one.
func WithClientMsgNo(no string) SendOption {
	return func(s *sendConfig) { s.clientMsgNo = no }
}

// WithHeader replaces the default message header.
func WithHeader(h wire.MessageHeader) SendOption {
	return func(s *sendConfig) { s.header = h }
}

// Send delivers payload to a channel and waits for the server's
// acknowledgment. It fails without any network traffic when the session is
// not authenticated. Errors are returned to the caller only; they do not
// appear as error events.
func (c *Client) Send(ctx context.Context, channelID string, channelType wire.ChannelType, payload wire.Map, opts ...SendOption) (*wire.SendResult, error) {
	if channelID == "" {
		return nil, newError(KindInvalidChannel, "channel id is required")
	}
	if payload == nil {
		return nil, newError(KindInvalidPayload, "payload is required")
	}
	cfg := sendConfig{header: wire.DefaultMessageHeader()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.clientMsgNo == "" {
		cfg.clientMsgNo = uuid.NewString()
	}
	if c.opts.MaxPayloadBytes > 0 {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, wrapError(KindInvalidPayload, "encode payload", err)
		}
		if len(raw) > c.opts.MaxPayloadBytes {
			return nil, newError(KindMessageTooLarge,
				fmt.Sprintf("payload is %d bytes, limit is %d", len(raw), c.opts.MaxPayloadBytes))
		}
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, wrapError(KindCancelled, "send throttled", err)
		}
	}

	params := wire.SendParams{
		ClientMsgNo: cfg.clientMsgNo,
		ChannelID:   channelID,
		ChannelType: channelType,
		Payload:     payload,
		Header:      cfg.header,
	}
	type outcome struct {
		res *wire.SendResult
		err error
	}
	ch := make(chan outcome, 1)
	done := func(res *wire.SendResult, err error) {
		ch <- outcome{res: res, err: err}
	}
	if !c.post(func() { c.sendOp(params, done) }) {
		return nil, newError(KindNotInitialized, "client is closed")
	}
	select {
	case out := <-ch:
		return out.res, out.err
	case <-ctx.Done():
		return nil, wrapError(KindCancelled, "send cancelled", ctx.Err())
	}
}

// Close disconnects, stops the run loop and shuts down the event bus. It is
// idempotent. Close must not be called from inside an event handler: it
// waits for handlers to drain.
func (c *Client) Close() error {
	c.closeMu.Lock()
	if c.closed {
		c.closeMu.Unlock()
		return nil
	}
	c.closed = true
	c.closeMu.Unlock()

	done := make(chan struct{})
	c.ops <- func() { c.disconnectOp("client closed"); close(done) }
	<-done
	close(c.quit)
	<-c.loopDone
	// Ops that slipped in before the closed flag was set still hold
	// resources (a late dial's connection, waiters). Run them here; every op
	// is state-guarded, so they only clean up.
	for {
		select {
		case op := <-c.ops:
			op()
		default:
			c.bus.Close()
			return nil
		}
	}
}

// post queues op onto the run loop. It reports false once the client is
// closed, meaning op will never run.
func (c *Client) post(op func()) bool {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.ops <- op:
		return true
	case <-c.loopDone:
		return false
	}
}

func (c *Client) run() {
	defer close(c.loopDone)
	for {
		select {
		case op := <-c.ops:
			op()
		case ev, ok := <-c.events:
			if !ok {
				// The stream ended without a terminal event; treat it as an
				// abnormal loss.
				c.events = nil
				c.handleTransportClosed(transport.Event{
					Kind: transport.EventClosed,
					Code: transport.CloseAbnormal,
					Err:  transport.ErrConnClosed,
				})
				continue
			}
			c.handleTransportEvent(ev)
		case up, ok := <-c.reachCh:
			if !ok {
				c.reachCh = nil
				continue
			}
			c.handleReachability(up)
		case <-c.quit:
			return
		}
	}
}

func (c *Client) currentState() State { return State(c.state.Load()) }

func (c *Client) setState(s State) {
	old := State(c.state.Swap(int32(s)))
	if old != s {
		c.logger.Debug("state changed", "from", old.String(), "to", s.String())
	}
}

func (c *Client) nextID() string { return uuid.NewString() }

// resolveConnect delivers the outcome of an explicit Connect call exactly
// once. Every path funnels through here, so a waiter can never fire twice.
func (c *Client) resolveConnect(res *wire.ConnectResult, err error) {
	if c.connectWaiter == nil {
		return
	}
	waiter := c.connectWaiter
	c.connectWaiter = nil
	waiter(res, err)
}

// connectOp handles an explicit Connect call on the loop.
func (c *Client) connectOp(waiter func(*wire.ConnectResult, error)) {
	switch c.currentState() {
	case StateDisconnected:
	case StateReconnecting:
		// An explicit connect supersedes the pending backoff timer.
		c.stopReconnectTimer()
		c.setState(StateDisconnected)
	case StateAuthenticated:
		waiter(nil, newError(KindConnectionFailed, "already connected"))
		return
	default:
		waiter(nil, newError(KindConnectionFailed, "connect already in progress"))
		return
	}
	if c.connectWaiter != nil {
		waiter(nil, newError(KindConnectionFailed, "connect already in progress"))
		return
	}
	c.attempts = 0
	c.beginSession(waiter)
}

// beginSession starts one dial+authenticate attempt. waiter is non-nil only
// for explicit Connect calls; reconnects pass nil.
func (c *Client) beginSession(waiter func(*wire.ConnectResult, error)) {
	c.connectRequested = true
	c.userDisconnected = false
	if c.opts.Reachability != nil && !c.opts.Reachability.Reachable() {
		err := newError(KindNetworkUnavailable, "network unavailable")
		c.bus.Emit(eventbus.EventError, err)
		c.setState(StateDisconnected)
		if waiter != nil {
			waiter(nil, err)
			return
		}
		c.scheduleReconnect()
		return
	}
	if waiter != nil {
		c.connectWaiter = waiter
	}
	c.setState(StateConnecting)

	epoch := c.epoch
	dialer := c.opts.Dialer
	url := c.opts.ServerURL
	timeout := c.opts.ConnectTimeout
	go func() {
		dialCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		conn, err := dialer.Dial(dialCtx, url)
		if !c.post(func() { c.dialDone(epoch, conn, err) }) && conn != nil {
			conn.Close(transport.CloseGoingAway, "client closed")
		}
	}()
}

func (c *Client) dialDone(epoch uint64, conn transport.Conn, err error) {
	if epoch != c.epoch || c.currentState() != StateConnecting {
		// A teardown superseded this attempt while the dial was in flight.
		if conn != nil {
			conn.Close(transport.CloseGoingAway, "session superseded")
		}
		return
	}
	if err != nil {
		kind := KindConnectionFailed
		if errors.Is(err, context.DeadlineExceeded) {
			kind = KindConnectionTimeout
		}
		c.failSession(wrapError(kind, "dial "+c.opts.ServerURL, err))
		return
	}
	c.conn = conn
	c.events = conn.Events()
	c.setState(StateConnected)
	c.logger.Debug("transport open", "url", c.opts.ServerURL)
	c.startAuthentication()
}

// failSession ends a failed connection attempt: error event, waiter
// resolution, teardown, then backoff scheduling.
func (c *Client) failSession(err *ClientError) {
	c.bus.Emit(eventbus.EventError, err)
	c.resolveConnect(nil, err)
	c.teardown(transport.CloseGoingAway, "session failed")
	c.scheduleReconnect()
}

func (c *Client) startAuthentication() {
	c.setState(StateAuthenticating)
	params := wire.ConnectParams{
		UID:             c.opts.UID,
		Token:           c.opts.Token,
		DeviceID:        c.opts.DeviceID,
		DeviceFlag:      c.opts.DeviceFlag,
		ClientTimestamp: time.Now().UnixMilli(),
	}
	env, err := wire.NewRequest(c.nextID(), wire.MethodConnect, params)
	if err != nil {
		c.failSession(wrapError(KindUnknown, "encode connect request", err))
		return
	}
	c.pending.register(env.ID, c.opts.RequestTimeout,
		newError(KindConnectionTimeout, "authentication timed out"), c.authDone)
	if wErr := c.writeEnvelope(env); wErr != nil {
		c.pending.fail(env.ID, wrapError(KindConnectionFailed, "write connect request", wErr))
	}
}

func (c *Client) authDone(result json.RawMessage, err error) {
	if err != nil {
		cerr := toClientError(err)
		if cerr.Kind == KindCancelled {
			// The session was torn down underneath the handshake; whoever
			// tore it down already decided what happens next.
			c.resolveConnect(nil, cerr)
			return
		}
		if cerr.Kind == KindProtocolError {
			cerr = &ClientError{Kind: KindAuthenticationFailed, Code: cerr.Code, Message: cerr.Message, cause: cerr}
		}
		c.failSession(cerr)
		return
	}
	var res wire.ConnectResult
	if len(result) == 0 {
		c.failSession(newError(KindUnexpectedResponse, "empty connect result"))
		return
	}
	if jErr := json.Unmarshal(result, &res); jErr != nil {
		c.failSession(wrapError(KindUnexpectedResponse, "malformed connect result", jErr))
		return
	}
	if res.ReasonCode != 0 {
		c.failSession(&ClientError{
			Kind:    KindAuthenticationFailed,
			Code:    res.ReasonCode,
			Message: "server rejected credentials",
		})
		return
	}
	c.setState(StateAuthenticated)
	c.attempts = 0
	c.schedulePing()
	c.logger.Info("authenticated", "uid", c.opts.UID, "serverVersion", res.ServerVersion, "timeDiff", res.TimeDiff)
	c.bus.Emit(eventbus.EventConnect, &res)
	c.resolveConnect(&res, nil)
}

// sendOp runs a Send call on the loop once validation and throttling have
// passed.
func (c *Client) sendOp(params wire.SendParams, done func(*wire.SendResult, error)) {
	if c.currentState() != StateAuthenticated {
		done(nil, newError(KindNotConnected, "not connected"))
		return
	}
	env, err := wire.NewRequest(c.nextID(), wire.MethodSend, params)
	if err != nil {
		done(nil, wrapError(KindInvalidPayload, "encode send request", err))
		return
	}
	timeout := c.opts.SendTimeout
	if timeout <= 0 {
		timeout = c.opts.RequestTimeout
	}
	clientMsgNo := params.ClientMsgNo
	c.pending.register(env.ID, timeout,
		newError(KindSendTimeout, "send timed out"),
		func(raw json.RawMessage, err error) { c.sendDone(clientMsgNo, raw, err, done) })
	if wErr := c.writeEnvelope(env); wErr != nil {
		c.pending.fail(env.ID, wrapError(KindSendFailed, "write send request", wErr))
	}
}

func (c *Client) sendDone(clientMsgNo string, raw json.RawMessage, err error, done func(*wire.SendResult, error)) {
	if err != nil {
		done(nil, toClientError(err))
		return
	}
	var res wire.SendResult
	if len(raw) == 0 {
		done(nil, newError(KindUnexpectedResponse, "empty send result"))
		return
	}
	if jErr := json.Unmarshal(raw, &res); jErr != nil {
		done(nil, wrapError(KindUnexpectedResponse, "malformed send result", jErr))
		return
	}
	c.bus.Emit(eventbus.EventSendAck, &SendAck{
		ClientMsgNo: clientMsgNo,
		MessageID:   res.MessageID,
		MessageSeq:  res.MessageSeq,
	})
	done(&res, nil)
}

func (c *Client) schedulePing() {
	c.stopPingTimer()
	if c.opts.PingInterval <= 0 {
		return
	}
	epoch := c.epoch
	c.pingTimer = time.AfterFunc(c.opts.PingInterval, func() {
		c.post(func() { c.pingFired(epoch) })
	})
}

func (c *Client) pingFired(epoch uint64) {
	if epoch != c.epoch {
		return
	}
	c.pingTimer = nil
	if c.currentState() != StateAuthenticated || c.conn == nil {
		return
	}
	c.schedulePing()
	if c.outstandingPing != "" {
		c.logger.Debug("previous ping still outstanding, skipping")
		return
	}
	env, err := wire.NewRequest(c.nextID(), wire.MethodPing, nil)
	if err != nil {
		return
	}
	c.outstandingPing = env.ID
	c.pending.register(env.ID, c.opts.PongTimeout,
		newError(KindConnectionTimeout, "pong timed out"), c.pingDone)
	if wErr := c.writeEnvelope(env); wErr != nil {
		c.pending.fail(env.ID, wrapError(KindSendFailed, "write ping", wErr))
	}
}

func (c *Client) pingDone(_ json.RawMessage, err error) {
	c.outstandingPing = ""
	if err == nil {
		return
	}
	cerr := toClientError(err)
	if cerr.Kind == KindCancelled {
		return
	}
	c.logger.Warn("keepalive failed", "error", cerr)
	c.bus.Emit(eventbus.EventError, cerr)
	c.resolveConnect(nil, cerr)
	c.teardown(transport.CloseAbnormal, "keepalive failed")
	c.scheduleReconnect()
}

func (c *Client) handleTransportEvent(ev transport.Event) {
	switch ev.Kind {
	case transport.EventFrame:
		c.handleFrame(ev.Data)
	case transport.EventClosed:
		c.handleTransportClosed(ev)
	}
}

func (c *Client) handleFrame(data []byte) {
	env, err := wire.Decode(data)
	if err != nil {
		kind := KindInvalidJSON
		if errors.Is(err, wire.ErrProtocol) {
			kind = KindProtocolError
		}
		// Malformed frames are reported but do not end the session.
		c.logger.Warn("dropping malformed frame", "error", err)
		c.bus.Emit(eventbus.EventError, wrapError(kind, "malformed inbound frame", err))
		return
	}
	c.recordTraffic(DirectionInbound, env)
	switch env.Kind() {
	case wire.KindResponse:
		if env.Error != nil {
			if !c.pending.fail(env.ID, protocolError(env.Error)) {
				c.logger.Debug("error response for unknown request", "id", env.ID)
			}
			return
		}
		if !c.pending.complete(env.ID, env.Result) {
			c.logger.Debug("response for unknown request", "id", env.ID)
		}
	case wire.KindNotification:
		c.handleNotification(env)
	case wire.KindRequest:
		c.logger.Debug("ignoring server request", "method", env.Method, "id", env.ID)
	default:
		c.logger.Warn("dropping envelope with indeterminate shape")
		c.bus.Emit(eventbus.EventError, newError(KindProtocolError, "envelope is neither request, notification nor response"))
	}
}

func (c *Client) handleNotification(env *wire.Envelope) {
	switch env.Method {
	case wire.MethodRecv:
		var msg wire.Message
		if err := env.DecodeParams(&msg); err != nil {
			c.logger.Warn("malformed recv notification", "error", err)
			c.bus.Emit(eventbus.EventError, wrapError(KindProtocolError, "malformed recv notification", err))
			return
		}
		c.bus.Emit(eventbus.EventMessage, &msg)
		c.acknowledge(msg)
	case wire.MethodPong:
		if c.outstandingPing == "" {
			c.logger.Debug("pong without outstanding ping")
			return
		}
		c.pending.complete(c.outstandingPing, nil)
	case wire.MethodDisconnect:
		var info wire.DisconnectInfo
		if err := env.DecodeParams(&info); err != nil {
			c.logger.Warn("malformed disconnect notification", "error", err)
		}
		c.handleServerDisconnect(info)
	default:
		c.logger.Debug("ignoring notification", "method", env.Method)
	}
}

// acknowledge confirms receipt of one pushed message. Acks are
// fire-and-forget; a failed write is only logged because the connection
// teardown that caused it surfaces on its own.
func (c *Client) acknowledge(msg wire.Message) {
	ack, err := wire.NewNotification(wire.MethodRecvAck, wire.RecvAckParams{
		MessageID:  msg.MessageID,
		MessageSeq: msg.MessageSeq,
	})
	if err != nil {
		return
	}
	if wErr := c.writeEnvelope(ack); wErr != nil {
		c.logger.Debug("recvack write failed", "messageId", msg.MessageID, "error", wErr)
	}
}

func (c *Client) handleServerDisconnect(info wire.DisconnectInfo) {
	c.logger.Info("server closed the session", "reasonCode", info.ReasonCode, "reason", info.Reason)
	c.bus.Emit(eventbus.EventDisconnect, &info)
	c.resolveConnect(nil, &ClientError{Kind: KindServerDisconnected, Code: info.ReasonCode, Message: info.Reason})
	c.teardown(transport.CloseNormal, "server disconnect")
	c.scheduleReconnect()
}

func (c *Client) handleTransportClosed(ev transport.Event) {
	if c.currentState() == StateDisconnected {
		return
	}
	var cerr *ClientError
	if ev.Err != nil {
		cerr = wrapError(KindConnectionFailed, "connection lost", ev.Err)
	} else {
		reason := ev.Reason
		if reason == "" {
			reason = "connection closed by server"
		}
		cerr = &ClientError{Kind: KindServerDisconnected, Code: ev.Code, Message: reason}
	}
	c.logger.Warn("transport closed", "code", ev.Code, "error", ev.Err)
	c.bus.Emit(eventbus.EventError, cerr)
	c.resolveConnect(nil, cerr)
	c.teardown(transport.CloseAbnormal, "transport closed")
	c.scheduleReconnect()
}

func (c *Client) handleReachability(up bool) {
	c.logger.Debug("reachability changed", "reachable", up)
	if !up {
		return
	}
	// Only an idle client redials opportunistically; anything scheduled or in
	// flight already has its own path forward.
	if c.currentState() != StateDisconnected {
		return
	}
	if !c.connectRequested || c.userDisconnected || !c.opts.AutoReconnect {
		return
	}
	c.logger.Info("network available again, dialing")
	c.attempts = 0
	c.beginSession(nil)
}

// scheduleReconnect arms the backoff timer after a failure. At most one
// reconnect timer exists at any time.
func (c *Client) scheduleReconnect() {
	if c.userDisconnected || !c.opts.AutoReconnect {
		return
	}
	c.stopReconnectTimer()
	c.attempts++
	if c.opts.MaxReconnectAttempts > 0 && c.attempts > c.opts.MaxReconnectAttempts {
		c.logger.Warn("reconnect attempts exhausted", "attempts", c.opts.MaxReconnectAttempts)
		c.bus.Emit(eventbus.EventError, newError(KindConnectionFailed, "reconnect attempts exhausted"))
		// Stay idle until the application connects explicitly.
		c.connectRequested = false
		return
	}
	delay := c.policy.delay(c.attempts)
	c.setState(StateReconnecting)
	c.logger.Info("reconnecting", "attempt", c.attempts, "delay", delay)
	c.bus.Emit(eventbus.EventReconnecting, &ReconnectingEvent{Attempt: c.attempts, Delay: delay})
	epoch := c.epoch
	c.reconnectTimer = time.AfterFunc(delay, func() {
		c.post(func() { c.reconnectFired(epoch) })
	})
}

func (c *Client) reconnectFired(epoch uint64) {
	if epoch != c.epoch || c.currentState() != StateReconnecting {
		return
	}
	c.reconnectTimer = nil
	c.beginSession(nil)
}

// disconnectOp is the loop half of Disconnect and Close: a deliberate
// teardown that suppresses reconnection.
func (c *Client) disconnectOp(reason string) {
	prev := c.currentState()
	c.userDisconnected = true
	c.teardown(transport.CloseNormal, reason)
	if prev != StateDisconnected {
		c.bus.Emit(eventbus.EventDisconnect, &wire.DisconnectInfo{Reason: reason})
	}
}

// teardown releases the current session: timers, pending requests, the
// transport, and any connect waiter. It emits no events; callers decide what
// the teardown means.
func (c *Client) teardown(code int, reason string) {
	c.epoch++
	c.stopReconnectTimer()
	c.stopPingTimer()
	c.outstandingPing = ""
	c.pending.cancelAll(newError(KindCancelled, "connection torn down"))
	if c.conn != nil {
		c.conn.Close(code, reason)
		c.conn = nil
	}
	c.events = nil
	c.setState(StateDisconnected)
	c.resolveConnect(nil, newError(KindCancelled, "connection torn down"))
}

func (c *Client) stopReconnectTimer() {
	if c.reconnectTimer != nil {
		c.reconnectTimer.Stop()
		c.reconnectTimer = nil
	}
}

func (c *Client) stopPingTimer() {
	if c.pingTimer != nil {
		c.pingTimer.Stop()
		c.pingTimer = nil
	}
}

// writeEnvelope encodes, transmits and traces one outbound frame.
func (c *Client) writeEnvelope(env *wire.Envelope) error {
	data, err := env.Encode()
	if err != nil {
		return err
	}
	if err := c.conn.Send(context.Background(), data); err != nil {
		return err
	}
	c.recordTraffic(DirectionOutbound, env)
	return nil
}

// recordTraffic logs and publishes a masked rendering of one frame.
func (c *Client) recordTraffic(dir Direction, env *wire.Envelope) {
	masked := wire.MaskedJSON(env, c.opts.DiagnosticLimit)
	c.logger.Debug("frame", "direction", string(dir), "kind", env.Kind().String(), "frame", masked)
	c.bus.Emit(eventbus.EventDiagnostic, &DiagnosticRecord{
		Direction: dir,
		Kind:      env.Kind().String(),
		JSON:      masked,
	})
}
