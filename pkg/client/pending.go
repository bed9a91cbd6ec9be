package client

import (
	"encoding/json"
	"time"
)

// pendingRequest is one in-flight request waiting for its response.
type pendingRequest struct {
	timer *time.Timer
	done  func(result json.RawMessage, err error)
}

// pendingRegistry matches responses to in-flight requests by id. It is owned
// by the engine loop and never locked: timeout timers re-enter through post,
// so every completion runs on the loop. An entry is removed before its
// continuation is invoked, which makes completion exactly-once even when a
// response and a timeout race.
type pendingRegistry struct {
	post    func(func()) bool
	entries map[string]*pendingRequest
}

func newPendingRegistry(post func(func()) bool) *pendingRegistry {
	return &pendingRegistry{post: post, entries: make(map[string]*pendingRequest)}
}

// register stores an entry and arms its one-shot timeout. timeoutErr is the
// failure delivered if the timer wins. A timeout <= 0 means no timer.
func (r *pendingRegistry) register(id string, timeout time.Duration, timeoutErr error, done func(json.RawMessage, error)) {
	entry := &pendingRequest{done: done}
	r.entries[id] = entry
	if timeout > 0 {
		entry.timer = time.AfterFunc(timeout, func() {
			r.post(func() { r.fail(id, timeoutErr) })
		})
	}
}

// complete resolves id with a successful result. It reports false when id is
// unknown or already resolved.
func (r *pendingRegistry) complete(id string, result json.RawMessage) bool {
	entry := r.take(id)
	if entry == nil {
		return false
	}
	entry.done(result, nil)
	return true
}

// fail resolves id with err. It reports false when id is unknown or already
// resolved.
func (r *pendingRegistry) fail(id string, err error) bool {
	entry := r.take(id)
	if entry == nil {
		return false
	}
	entry.done(nil, err)
	return true
}

// cancelAll fails every pending entry with reason and stops their timers.
func (r *pendingRegistry) cancelAll(reason error) {
	for id, entry := range r.entries {
		delete(r.entries, id)
		if entry.timer != nil {
			entry.timer.Stop()
		}
		entry.done(nil, reason)
	}
}

func (r *pendingRegistry) take(id string) *pendingRequest {
	entry, ok := r.entries[id]
	if !ok {
		return nil
	}
	delete(r.entries, id)
	if entry.timer != nil {
		entry.timer.Stop()
	}
	return entry
}

func (r *pendingRegistry) size() int { return len(r.entries) }
