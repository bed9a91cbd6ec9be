package client

import (
	"errors"
	"fmt"

	"github.com/WuKongIM/WuKongEasySDK-Go/pkg/wire"
)

// ErrorKind classifies every error surfaced by the client, either as a return
// value or as the payload of an error event.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindConnectionFailed
	KindAuthenticationFailed
	KindNotConnected
	KindConnectionTimeout
	KindServerDisconnected
	KindNetworkUnavailable
	KindInvalidChannel
	KindInvalidPayload
	KindMessageTooLarge
	KindSendTimeout
	KindSendFailed
	KindInvalidConfiguration
	KindMissingParameters
	KindInvalidServerURL
	KindProtocolError
	KindInvalidJSON
	KindUnexpectedResponse
	KindCancelled
	KindNotInitialized
)

func (k ErrorKind) String() string {
	switch k {
	case KindConnectionFailed:
		return "connection failed"
	case KindAuthenticationFailed:
		return "authentication failed"
	case KindNotConnected:
		return "not connected"
	case KindConnectionTimeout:
		return "connection timeout"
	case KindServerDisconnected:
		return "server disconnected"
	case KindNetworkUnavailable:
		return "network unavailable"
	case KindInvalidChannel:
		return "invalid channel"
	case KindInvalidPayload:
		return "invalid payload"
	case KindMessageTooLarge:
		return "message too large"
	case KindSendTimeout:
		return "send timeout"
	case KindSendFailed:
		return "send failed"
	case KindInvalidConfiguration:
		return "invalid configuration"
	case KindMissingParameters:
		return "missing parameters"
	case KindInvalidServerURL:
		return "invalid server url"
	case KindProtocolError:
		return "protocol error"
	case KindInvalidJSON:
		return "invalid json"
	case KindUnexpectedResponse:
		return "unexpected response"
	case KindCancelled:
		return "cancelled"
	case KindNotInitialized:
		return "not initialized"
	default:
		return "unknown"
	}
}

// ClientError is the concrete error type of this package. Code carries the
// protocol reason code when the server supplied one.
type ClientError struct {
	Kind    ErrorKind
	Code    int
	Message string
	cause   error
}

func (e *ClientError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Code != 0 {
		msg = fmt.Sprintf("%s (code %d)", msg, e.Code)
	}
	if e.cause != nil {
		return msg + ": " + e.cause.Error()
	}
	return msg
}

func (e *ClientError) Unwrap() error { return e.cause }

// Is matches by kind, so errors.Is(err, ErrNotConnected) holds for every
// not-connected error regardless of message or code.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinel errors, one per kind, for errors.Is checks.
var (
	ErrConnectionFailed     = &ClientError{Kind: KindConnectionFailed}
	ErrAuthenticationFailed = &ClientError{Kind: KindAuthenticationFailed}
	ErrNotConnected         = &ClientError{Kind: KindNotConnected}
	ErrConnectionTimeout    = &ClientError{Kind: KindConnectionTimeout}
	ErrServerDisconnected   = &ClientError{Kind: KindServerDisconnected}
	ErrNetworkUnavailable   = &ClientError{Kind: KindNetworkUnavailable}
	ErrInvalidChannel       = &ClientError{Kind: KindInvalidChannel}
	ErrInvalidPayload       = &ClientError{Kind: KindInvalidPayload}
	ErrMessageTooLarge      = &ClientError{Kind: KindMessageTooLarge}
	ErrSendTimeout          = &ClientError{Kind: KindSendTimeout}
	ErrSendFailed           = &ClientError{Kind: KindSendFailed}
	ErrInvalidConfiguration = &ClientError{Kind: KindInvalidConfiguration}
	ErrMissingParameters    = &ClientError{Kind: KindMissingParameters}
	ErrInvalidServerURL     = &ClientError{Kind: KindInvalidServerURL}
	ErrProtocol             = &ClientError{Kind: KindProtocolError}
	ErrInvalidJSON          = &ClientError{Kind: KindInvalidJSON}
	ErrUnexpectedResponse   = &ClientError{Kind: KindUnexpectedResponse}
	ErrCancelled            = &ClientError{Kind: KindCancelled}
	ErrNotInitialized       = &ClientError{Kind: KindNotInitialized}
)

func newError(kind ErrorKind, message string) *ClientError {
	return &ClientError{Kind: kind, Message: message}
}

func wrapError(kind ErrorKind, message string, cause error) *ClientError {
	return &ClientError{Kind: kind, Message: message, cause: cause}
}

// protocolError converts a JSON-RPC error object into a client error.
func protocolError(p *wire.ErrorPayload) *ClientError {
	return &ClientError{Kind: KindProtocolError, Code: p.Code, Message: p.Message, cause: p}
}

// toClientError returns err as a *ClientError, wrapping foreign errors as
// KindUnknown.
func toClientError(err error) *ClientError {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce
	}
	return &ClientError{Kind: KindUnknown, Message: "internal error", cause: err}
}

// KindOf extracts the kind of err, or KindUnknown for foreign errors.
func KindOf(err error) ErrorKind {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnknown
}
