package wire

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Version is the JSON-RPC protocol version carried by every envelope.
const Version = "2.0"

// Method names understood by the protocol.
const (
	MethodConnect    = "connect"    // request, client -> server
	MethodSend       = "send"       // request, client -> server
	MethodPing       = "ping"       // request, client -> server
	MethodRecv       = "recv"       // notification, server -> client
	MethodRecvAck    = "recvack"    // notification, client -> server
	MethodPong       = "pong"       // notification, server -> client
	MethodDisconnect = "disconnect" // notification, server -> client
)

// ErrProtocol marks an envelope that is valid JSON but violates the JSON-RPC
// shape: wrong version, or a response carrying both result and error.
var ErrProtocol = errors.New("wire: protocol violation")

// Kind classifies an envelope by its populated fields.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindRequest
	KindNotification
	KindResponse
)

func (k Kind) String() string {
	switch k {
	case KindRequest:
		return "request"
	case KindNotification:
		return "notification"
	case KindResponse:
		return "response"
	default:
		return "invalid"
	}
}

// ErrorPayload is the JSON-RPC error object of a failed response.
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    Map    `json:"data,omitempty"`
}

func (e *ErrorPayload) Error() string {
	return fmt.Sprintf("code %d: %s", e.Code, e.Message)
}

// Envelope is one JSON-RPC message unit. Requests carry Method and ID,
// notifications carry Method only, responses carry ID plus exactly one of
// Result or Error.
type Envelope struct {
	Version string          `json:"jsonrpc"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      string          `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *ErrorPayload   `json:"error,omitempty"`
}

// NewRequest builds a request envelope. A nil params produces a request
// without a params field.
func NewRequest(id, method string, params interface{}) (*Envelope, error) {
	raw, err := marshalParams(params)
	if err != nil {
		return nil, fmt.Errorf("wire: marshal params for %q: %w", method, err)
	}
	return &Envelope{Version: Version, Method: method, Params: raw, ID: id}, nil
}

// NewNotification builds a notification envelope, which expects no reply.
func NewNotification(method string, params interface{}) (*Envelope, error) {
	raw, err := marshalParams(params)
	if err != nil {
		return nil, fmt.Errorf("wire: marshal params for %q: %w", method, err)
	}
	return &Envelope{Version: Version, Method: method, Params: raw}, nil
}

func marshalParams(params interface{}) (json.RawMessage, error) {
	if params == nil {
		return nil, nil
	}
	return json.Marshal(params)
}

// Kind infers the envelope shape. Responses are recognized by an ID without
// a method; correlation is by ID only, never by arrival order.
func (e *Envelope) Kind() Kind {
	switch {
	case e.Method != "" && e.ID != "":
		return KindRequest
	case e.Method != "":
		return KindNotification
	case e.ID != "" && (e.Result != nil || e.Error != nil):
		return KindResponse
	default:
		return KindInvalid
	}
}

// Encode renders the envelope as a single JSON frame.
func (e *Envelope) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// Decode parses a frame into an envelope. Invalid JSON returns the decode
// error unchanged; well-formed JSON with an illegal JSON-RPC shape returns an
// error wrapping ErrProtocol.
func Decode(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	if env.Version != Version {
		return nil, fmt.Errorf("%w: jsonrpc version %q", ErrProtocol, env.Version)
	}
	if env.Result != nil && env.Error != nil {
		return nil, fmt.Errorf("%w: response %q carries both result and error", ErrProtocol, env.ID)
	}
	return &env, nil
}

// DecodeParams unmarshals the params field into v. Missing or null params
// leave v untouched.
func (e *Envelope) DecodeParams(v interface{}) error {
	return decodeRaw(e.Params, v)
}

// DecodeResult unmarshals the result field into v. Missing or null results
// leave v untouched.
func (e *Envelope) DecodeResult(v interface{}) error {
	return decodeRaw(e.Result, v)
}

func decodeRaw(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, v)
}
