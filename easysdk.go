// Package easysdk is the top-level entry point of the WuKongIM Go SDK. It
// re-exports the client engine and wire types so most applications only need
// this one import.
package easysdk

import (
	"github.com/WuKongIM/WuKongEasySDK-Go/pkg/client"
	"github.com/WuKongIM/WuKongEasySDK-Go/pkg/wire"
)

// Re-export core types
type (
	Client       = client.Client
	Options      = client.Options
	Option       = client.Option
	SendOption   = client.SendOption
	State        = client.State
	ClientError  = client.ClientError
	ErrorKind    = client.ErrorKind
	Reachability = client.Reachability

	SendAck           = client.SendAck
	ReconnectingEvent = client.ReconnectingEvent
	DiagnosticRecord  = client.DiagnosticRecord

	Message        = wire.Message
	MessageHeader  = wire.MessageHeader
	ConnectResult  = wire.ConnectResult
	DisconnectInfo = wire.DisconnectInfo
	SendResult     = wire.SendResult
	ChannelType    = wire.ChannelType
	DeviceFlag     = wire.DeviceFlag
	Map            = wire.Map
	Value          = wire.Value
)

// Re-export connection states
const (
	StateDisconnected   = client.StateDisconnected
	StateConnecting     = client.StateConnecting
	StateConnected      = client.StateConnected
	StateAuthenticating = client.StateAuthenticating
	StateAuthenticated  = client.StateAuthenticated
	StateReconnecting   = client.StateReconnecting
)

// Re-export channel and device kinds
const (
	ChannelTypePerson = wire.ChannelTypePerson
	ChannelTypeGroup  = wire.ChannelTypeGroup

	DeviceFlagApp = wire.DeviceFlagApp
	DeviceFlagWeb = wire.DeviceFlagWeb
	DeviceFlagPC  = wire.DeviceFlagPC
)

// Re-export error values
var (
	ErrConnectionFailed     = client.ErrConnectionFailed
	ErrAuthenticationFailed = client.ErrAuthenticationFailed
	ErrNotConnected         = client.ErrNotConnected
	ErrConnectionTimeout    = client.ErrConnectionTimeout
	ErrServerDisconnected   = client.ErrServerDisconnected
	ErrNetworkUnavailable   = client.ErrNetworkUnavailable
	ErrInvalidChannel       = client.ErrInvalidChannel
	ErrInvalidPayload       = client.ErrInvalidPayload
	ErrMessageTooLarge      = client.ErrMessageTooLarge
	ErrSendTimeout          = client.ErrSendTimeout
	ErrInvalidServerURL     = client.ErrInvalidServerURL
	ErrMissingParameters    = client.ErrMissingParameters
	ErrCancelled            = client.ErrCancelled
	ErrNotInitialized       = client.ErrNotInitialized
)

// Re-export client options
var (
	WithLogger           = client.WithLogger
	WithDialer           = client.WithDialer
	WithDeviceID         = client.WithDeviceID
	WithDeviceFlag       = client.WithDeviceFlag
	WithConnectTimeout   = client.WithConnectTimeout
	WithRequestTimeout   = client.WithRequestTimeout
	WithSendTimeout      = client.WithSendTimeout
	WithPingInterval     = client.WithPingInterval
	WithPongTimeout      = client.WithPongTimeout
	WithAutoReconnect    = client.WithAutoReconnect
	WithReconnectPolicy  = client.WithReconnectPolicy
	WithReachability     = client.WithReachability
	WithSendRateLimit    = client.WithSendRateLimit
	WithMaxPayloadBytes  = client.WithMaxPayloadBytes
	WithEventQueueLength = client.WithEventQueueLength
	WithDiagnosticLimit  = client.WithDiagnosticLimit
	WithClientMsgNo      = client.WithClientMsgNo
	WithHeader           = client.WithHeader
)

// New creates a client for the given endpoint and credentials. The returned
// client is idle until Connect is called.
func New(serverURL, uid, token string, opts ...Option) (*Client, error) {
	return client.New(serverURL, uid, token, opts...)
}

// NewWithOptions creates a client from a fully populated Options struct.
func NewWithOptions(opts Options) (*Client, error) {
	return client.NewWithOptions(opts)
}

// DefaultOptions returns the library defaults: automatic reconnection on and
// the app device flag.
func DefaultOptions() Options {
	return client.DefaultOptions()
}

// Str wraps a string as a payload value.
func Str(s string) Value { return wire.String(s) }

// Num wraps an integer as a payload value.
func Num(i int64) Value { return wire.Int(i) }

// Float wraps a float as a payload value.
func Float(f float64) Value { return wire.Float(f) }

// Flag wraps a boolean as a payload value.
func Flag(b bool) Value { return wire.Bool(b) }

// List wraps values as a payload array.
func List(items ...Value) Value { return wire.Array(items...) }

// Obj wraps a map as a payload object.
func Obj(m Map) Value { return wire.Object(m) }
