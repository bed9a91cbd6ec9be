// Package eventbus is the publish/subscribe hub that decouples the protocol
// engine from application callbacks. Emissions are queued through a
// cskr/pubsub instance and delivered by one worker per category, so a slow or
// reentrant subscriber can never block protocol processing.
package eventbus

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/cskr/pubsub"
)

const defaultQueueLength = 64

// Event is a subscription category.
type Event string

const (
	EventConnect      Event = "connect"
	EventDisconnect   Event = "disconnect"
	EventMessage      Event = "message"
	EventError        Event = "error"
	EventSendAck      Event = "sendack"
	EventReconnecting Event = "reconnecting"
	EventDiagnostic   Event = "diagnostic"
)

// Events lists every category the bus delivers.
func Events() []Event {
	return []Event{
		EventConnect,
		EventDisconnect,
		EventMessage,
		EventError,
		EventSendAck,
		EventReconnecting,
		EventDiagnostic,
	}
}

// Handler receives event payloads. All subscribers of one Emit call see the
// same payload value.
type Handler func(payload interface{})

// Subscription identifies one registered handler.
type Subscription struct {
	event   Event
	fn      Handler
	ctx     context.Context
	removed atomic.Bool
}

// Event returns the category the subscription belongs to.
func (s *Subscription) Event() Event { return s.event }

func (s *Subscription) dead() bool {
	if s.removed.Load() {
		return true
	}
	return s.ctx != nil && s.ctx.Err() != nil
}

// SubscribeOption configures a subscription.
type SubscribeOption func(*Subscription)

// WithContext binds the subscription's life to ctx. Once ctx is done the
// handler is never invoked again and the entry is pruned during the next
// emission or count on its category.
func WithContext(ctx context.Context) SubscribeOption {
	return func(s *Subscription) {
		s.ctx = ctx
	}
}

// Bus fans event payloads out to subscribers. Delivery order across the
// subscribers of one category is insertion order.
type Bus struct {
	logger *slog.Logger
	queue  *pubsub.PubSub

	subsMu sync.Mutex
	subs   map[Event][]*Subscription

	closeMu sync.RWMutex
	closed  bool

	wg sync.WaitGroup
}

// New creates a bus and starts one delivery worker per category. queueLen is
// the emission buffer per category; <= 0 uses the default.
func New(logger *slog.Logger, queueLen int) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	if queueLen <= 0 {
		queueLen = defaultQueueLength
	}
	b := &Bus{
		logger: logger,
		queue:  pubsub.New(queueLen),
		subs:   make(map[Event][]*Subscription),
	}
	for _, ev := range Events() {
		ch := b.queue.Sub(string(ev))
		b.wg.Add(1)
		go b.deliverLoop(ev, ch)
	}
	return b
}

// Subscribe registers fn for the category and returns its handle.
func (b *Bus) Subscribe(ev Event, fn Handler, opts ...SubscribeOption) *Subscription {
	sub := &Subscription{event: ev, fn: fn}
	for _, opt := range opts {
		opt(sub)
	}
	if fn == nil {
		sub.removed.Store(true)
		return sub
	}
	b.subsMu.Lock()
	b.subs[ev] = append(b.subs[ev], sub)
	b.subsMu.Unlock()
	return sub
}

// Unsubscribe removes the handle. It reports whether the handle was still
// registered. An emission already queued may still reach the handler.
func (b *Bus) Unsubscribe(sub *Subscription) bool {
	if sub == nil || sub.removed.Swap(true) {
		return false
	}
	b.subsMu.Lock()
	defer b.subsMu.Unlock()
	list := b.subs[sub.event]
	for i, s := range list {
		if s == sub {
			b.subs[sub.event] = append(list[:i], list[i+1:]...)
			return true
		}
	}
	return false
}

// UnsubscribeAll removes every subscription of the given categories, or every
// subscription of every category when none are given.
func (b *Bus) UnsubscribeAll(events ...Event) {
	if len(events) == 0 {
		events = Events()
	}
	b.subsMu.Lock()
	defer b.subsMu.Unlock()
	for _, ev := range events {
		for _, s := range b.subs[ev] {
			s.removed.Store(true)
		}
		delete(b.subs, ev)
	}
}

// SubscriberCount reports the live subscriptions of a category, pruning dead
// ones as a side effect.
func (b *Bus) SubscriberCount(ev Event) int {
	b.subsMu.Lock()
	defer b.subsMu.Unlock()
	return len(b.pruneLocked(ev))
}

// Emit queues payload for delivery to the category's subscribers. It returns
// once the payload is queued, not once it is delivered. After Close, Emit is
// a no-op.
func (b *Bus) Emit(ev Event, payload interface{}) {
	b.closeMu.RLock()
	defer b.closeMu.RUnlock()
	if b.closed {
		return
	}
	b.queue.Pub(payload, string(ev))
}

// Close shuts the emission queue down and waits for the delivery workers to
// drain. Subscriptions registered after Close never fire.
func (b *Bus) Close() {
	b.closeMu.Lock()
	if b.closed {
		b.closeMu.Unlock()
		return
	}
	b.closed = true
	b.closeMu.Unlock()

	b.queue.Shutdown()
	b.wg.Wait()
}

func (b *Bus) deliverLoop(ev Event, ch chan interface{}) {
	defer b.wg.Done()
	for payload := range ch {
		b.deliver(ev, payload)
	}
}

func (b *Bus) deliver(ev Event, payload interface{}) {
	b.subsMu.Lock()
	live := b.pruneLocked(ev)
	snapshot := make([]*Subscription, len(live))
	copy(snapshot, live)
	b.subsMu.Unlock()

	for _, sub := range snapshot {
		if sub.dead() {
			continue
		}
		b.invoke(sub, payload)
	}
}

// pruneLocked drops dead subscriptions of ev in place and returns the live
// remainder. Caller holds subsMu.
func (b *Bus) pruneLocked(ev Event) []*Subscription {
	list := b.subs[ev]
	live := list[:0]
	for _, s := range list {
		if s.dead() {
			continue
		}
		live = append(live, s)
	}
	for i := len(live); i < len(list); i++ {
		list[i] = nil
	}
	if len(live) == 0 {
		delete(b.subs, ev)
		return nil
	}
	b.subs[ev] = live
	return live
}

// invoke runs one handler, isolating panics so a broken subscriber cannot
// take down delivery for the rest.
func (b *Bus) invoke(sub *Subscription, payload interface{}) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked", "event", string(sub.event), "panic", r)
		}
	}()
	sub.fn(payload)
}
