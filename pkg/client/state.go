package client

// State is the connection lifecycle state of a Client.
type State int32

const (
	// StateDisconnected means no transport is open and nothing is scheduled.
	StateDisconnected State = iota
	// StateConnecting means a dial is in flight.
	StateConnecting
	// StateConnected means the transport is open but the session has not been
	// authenticated yet.
	StateConnected
	// StateAuthenticating means the connect request has been sent and the
	// client is waiting for the server's verdict.
	StateAuthenticating
	// StateAuthenticated means the session is fully usable. Send is accepted
	// only in this state.
	StateAuthenticated
	// StateReconnecting means a backoff timer is armed and a new attempt will
	// start when it fires.
	StateReconnecting
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateReconnecting:
		return "reconnecting"
	default:
		return "unknown"
	}
}
