package client

import (
	"log/slog"
	"net/url"
	"time"

	"github.com/WuKongIM/WuKongEasySDK-Go/pkg/transport"
	"github.com/WuKongIM/WuKongEasySDK-Go/pkg/wire"
)

const (
	defaultConnectTimeout        = 10 * time.Second
	defaultRequestTimeout        = 10 * time.Second
	defaultPingInterval          = 25 * time.Second
	defaultPongTimeout           = 10 * time.Second
	defaultReconnectInitialDelay = 1 * time.Second
	defaultReconnectMaxDelay     = 30 * time.Second
	defaultReconnectFactor       = 2.0
	defaultEventQueueLength      = 64
	defaultDiagnosticLimit       = 1024
)

// Options contains configuration values for a Client. Start from
// DefaultOptions and override what you need; NewWithOptions fills remaining
// zero values with the library defaults.
type Options struct {
	// ServerURL is the WebSocket endpoint, e.g. "ws://host:5200" or
	// "wss://host/ws". Required.
	ServerURL string
	// UID identifies the user to authenticate as. Required.
	UID string
	// Token is the credential presented during authentication. Required.
	Token string
	// DeviceID identifies this device to the server. Defaults to a random
	// UUID generated once per client.
	DeviceID string
	// DeviceFlag tells the server what kind of device is connecting.
	// Defaults to wire.DeviceFlagApp.
	DeviceFlag wire.DeviceFlag

	// Logger receives structured diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
	// Dialer opens the underlying transport. Defaults to a zero
	// transport.WebSocketDialer.
	Dialer transport.Dialer

	// ConnectTimeout bounds the transport dial. Default 10s.
	ConnectTimeout time.Duration
	// RequestTimeout bounds request/response exchanges, including the
	// authentication request. Default 10s.
	RequestTimeout time.Duration
	// SendTimeout, when positive, overrides RequestTimeout for send requests.
	SendTimeout time.Duration

	// PingInterval is the keepalive cadence while authenticated. Default 25s.
	// Zero or negative disables the keepalive entirely.
	PingInterval time.Duration
	// PongTimeout bounds how long a ping may stay unanswered. Default 10s.
	PongTimeout time.Duration

	// AutoReconnect enables backoff reconnection after connection loss.
	// DefaultOptions enables it.
	AutoReconnect bool
	// MaxReconnectAttempts caps consecutive failed attempts before the client
	// gives up until the next explicit Connect. Zero means unlimited.
	MaxReconnectAttempts int
	// ReconnectInitialDelay is the delay before the first attempt. Default 1s.
	ReconnectInitialDelay time.Duration
	// ReconnectMaxDelay caps the delay growth. Default 30s.
	ReconnectMaxDelay time.Duration
	// ReconnectFactor is the delay multiplier per attempt. Default 2.0.
	ReconnectFactor float64

	// Reachability, when set, gates dialing on network availability and
	// triggers an immediate dial when the network returns. Nil means the
	// network is assumed reachable.
	Reachability Reachability

	// SendRatePerSec, when positive, throttles Send calls to this sustained
	// rate. SendBurst is the burst allowance (minimum 1).
	SendRatePerSec float64
	SendBurst      int

	// MaxPayloadBytes, when positive, rejects send payloads whose JSON
	// encoding exceeds this size.
	MaxPayloadBytes int

	// EventQueueLength is the per-event buffered queue between Emit and the
	// handler workers. Default 64.
	EventQueueLength int
	// DiagnosticLimit caps the length of masked frames carried by diagnostic
	// events. Negative disables truncation. Default 1024.
	DiagnosticLimit int
}

// DefaultOptions returns an Options struct populated with library defaults.
// ServerURL, UID and Token must still be filled in by the caller.
func DefaultOptions() Options {
	return Options{
		DeviceFlag:            wire.DeviceFlagApp,
		ConnectTimeout:        defaultConnectTimeout,
		RequestTimeout:        defaultRequestTimeout,
		PingInterval:          defaultPingInterval,
		PongTimeout:           defaultPongTimeout,
		AutoReconnect:         true,
		ReconnectInitialDelay: defaultReconnectInitialDelay,
		ReconnectMaxDelay:     defaultReconnectMaxDelay,
		ReconnectFactor:       defaultReconnectFactor,
		EventQueueLength:      defaultEventQueueLength,
		DiagnosticLimit:       defaultDiagnosticLimit,
	}
}

// Option mutates Options in the functional style accepted by New.
type Option func(*Options)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithDialer swaps the transport dialer, e.g. for a transport.GorillaDialer
// or a test fake.
func WithDialer(d transport.Dialer) Option {
	return func(o *Options) { o.Dialer = d }
}

// WithDeviceID pins the device identifier instead of generating one.
func WithDeviceID(id string) Option {
	return func(o *Options) { o.DeviceID = id }
}

// WithDeviceFlag sets the device kind presented during authentication.
func WithDeviceFlag(f wire.DeviceFlag) Option {
	return func(o *Options) { o.DeviceFlag = f }
}

// WithConnectTimeout bounds the transport dial.
func WithConnectTimeout(d time.Duration) Option {
	return func(o *Options) { o.ConnectTimeout = d }
}

// WithRequestTimeout bounds request/response exchanges.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *Options) { o.RequestTimeout = d }
}

// WithSendTimeout overrides the request timeout for send requests only.
func WithSendTimeout(d time.Duration) Option {
	return func(o *Options) { o.SendTimeout = d }
}

// WithPingInterval sets the keepalive cadence. Zero or negative disables the
// keepalive.
func WithPingInterval(d time.Duration) Option {
	return func(o *Options) { o.PingInterval = d }
}

// WithPongTimeout bounds how long a ping may stay unanswered.
func WithPongTimeout(d time.Duration) Option {
	return func(o *Options) { o.PongTimeout = d }
}

// WithAutoReconnect toggles backoff reconnection.
func WithAutoReconnect(enabled bool) Option {
	return func(o *Options) { o.AutoReconnect = enabled }
}

// WithReconnectPolicy sets the full backoff policy in one call. maxAttempts
// of zero means unlimited.
func WithReconnectPolicy(maxAttempts int, initial, max time.Duration, factor float64) Option {
	return func(o *Options) {
		o.MaxReconnectAttempts = maxAttempts
		o.ReconnectInitialDelay = initial
		o.ReconnectMaxDelay = max
		o.ReconnectFactor = factor
	}
}

// WithReachability installs a network availability source.
func WithReachability(r Reachability) Option {
	return func(o *Options) { o.Reachability = r }
}

// WithSendRateLimit throttles Send calls to perSec with the given burst.
func WithSendRateLimit(perSec float64, burst int) Option {
	return func(o *Options) {
		o.SendRatePerSec = perSec
		o.SendBurst = burst
	}
}

// WithMaxPayloadBytes caps the encoded size of send payloads.
func WithMaxPayloadBytes(n int) Option {
	return func(o *Options) { o.MaxPayloadBytes = n }
}

// WithEventQueueLength sizes the per-event delivery queue.
func WithEventQueueLength(n int) Option {
	return func(o *Options) { o.EventQueueLength = n }
}

// WithDiagnosticLimit caps the length of masked frames in diagnostic events.
func WithDiagnosticLimit(n int) Option {
	return func(o *Options) { o.DiagnosticLimit = n }
}

// applyDefaults fills zero values. AutoReconnect is left alone: it is a plain
// bool, so callers building Options by hand choose it explicitly and callers
// going through New or DefaultOptions inherit true.
func applyDefaults(o *Options) {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Dialer == nil {
		o.Dialer = &transport.WebSocketDialer{}
	}
	if o.DeviceFlag == 0 {
		o.DeviceFlag = wire.DeviceFlagApp
	}
	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = defaultConnectTimeout
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = defaultRequestTimeout
	}
	if o.PongTimeout <= 0 {
		o.PongTimeout = defaultPongTimeout
	}
	if o.ReconnectInitialDelay <= 0 {
		o.ReconnectInitialDelay = defaultReconnectInitialDelay
	}
	if o.ReconnectMaxDelay <= 0 {
		o.ReconnectMaxDelay = defaultReconnectMaxDelay
	}
	if o.ReconnectMaxDelay < o.ReconnectInitialDelay {
		o.ReconnectMaxDelay = o.ReconnectInitialDelay
	}
	if o.ReconnectFactor == 0 {
		o.ReconnectFactor = defaultReconnectFactor
	}
	if o.EventQueueLength <= 0 {
		o.EventQueueLength = defaultEventQueueLength
	}
	if o.DiagnosticLimit == 0 {
		o.DiagnosticLimit = defaultDiagnosticLimit
	}
}

func validateOptions(o *Options) error {
	if o.ServerURL == "" {
		return newError(KindInvalidServerURL, "server url is required")
	}
	u, err := url.Parse(o.ServerURL)
	if err != nil {
		return wrapError(KindInvalidServerURL, "parse server url", err)
	}
	switch u.Scheme {
	case "ws", "wss", "http", "https":
	default:
		return newError(KindInvalidServerURL, "server url scheme must be ws, wss, http or https")
	}
	if u.Host == "" {
		return newError(KindInvalidServerURL, "server url has no host")
	}
	if o.UID == "" {
		return newError(KindMissingParameters, "uid is required")
	}
	if o.Token == "" {
		return newError(KindMissingParameters, "token is required")
	}
	if o.ReconnectFactor < 1 {
		return newError(KindInvalidConfiguration, "reconnect factor must be >= 1")
	}
	if o.MaxReconnectAttempts < 0 {
		return newError(KindInvalidConfiguration, "max reconnect attempts must be >= 0")
	}
	if o.SendRatePerSec < 0 {
		return newError(KindInvalidConfiguration, "send rate must be >= 0")
	}
	if o.MaxPayloadBytes < 0 {
		return newError(KindInvalidConfiguration, "max payload bytes must be >= 0")
	}
	return nil
}
