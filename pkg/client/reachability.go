package client

// Reachability reports whether a usable network path to the server exists.
// Reachable is consulted before each dial so the client can fail fast while
// offline. Changes delivers availability transitions; when the network comes
// back while the client sits idle in disconnected after losing a session, the
// client dials again immediately instead of waiting for a backoff timer.
//
// A nil Reachability in Options means the network is assumed reachable.
type Reachability interface {
	Reachable() bool
	Changes() <-chan bool
}
