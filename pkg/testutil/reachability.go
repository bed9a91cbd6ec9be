package testutil

import "sync"

// ManualReachability is a hand-driven network availability source satisfying
// the client's Reachability interface.
type ManualReachability struct {
	mu sync.Mutex
	up bool
	ch chan bool
}

// NewManualReachability starts in the given state.
func NewManualReachability(up bool) *ManualReachability {
	return &ManualReachability{up: up, ch: make(chan bool, 8)}
}

// Reachable reports the current state.
func (m *ManualReachability) Reachable() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.up
}

// Changes delivers transitions made through Set.
func (m *ManualReachability) Changes() <-chan bool { return m.ch }

// Set flips availability and notifies the listener when the state changed.
func (m *ManualReachability) Set(up bool) {
	m.mu.Lock()
	changed := m.up != up
	m.up = up
	m.mu.Unlock()
	if changed {
		m.ch <- up
	}
}
