package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/WuKongIM/WuKongEasySDK-Go/pkg/wire"
)

// MockServer is a scripted WuKongIM endpoint for client tests. Inbound
// requests and notifications are routed to handlers keyed by JSON-RPC method;
// a non-nil returned envelope is written back to the client.
type MockServer struct {
	T      *testing.T
	Server *httptest.Server
	WsURL  string

	connMu sync.Mutex
	conn   *websocket.Conn
	conns  int

	handlerMu sync.Mutex
	handlers  map[string]func(env *wire.Envelope) *wire.Envelope
}

// NewMockServer starts a server with no handlers registered. It accepts any
// number of consecutive connections; the most recent one is the active one.
func NewMockServer(t *testing.T) *MockServer {
	t.Helper()
	ms := &MockServer{
		T:        t,
		handlers: make(map[string]func(env *wire.Envelope) *wire.Envelope),
	}
	ms.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			ms.T.Logf("MockServer: accept error: %v", err)
			return
		}
		ms.connMu.Lock()
		ms.conn = conn
		ms.conns++
		ms.connMu.Unlock()
		ms.readLoop(conn)
	}))
	ms.WsURL = "ws" + ms.Server.URL[4:] // http:// -> ws://
	t.Cleanup(ms.Close)
	return ms
}

// NewAuthServer starts a server that accepts any credentials and answers
// pings, the baseline most client tests need.
func NewAuthServer(t *testing.T) *MockServer {
	t.Helper()
	ms := NewMockServer(t)
	ms.Handle(wire.MethodConnect, func(env *wire.Envelope) *wire.Envelope {
		return Result(env, wire.ConnectResult{ServerKey: "srv-key", Salt: "salt", ServerVersion: 5})
	})
	ms.Handle(wire.MethodPing, func(env *wire.Envelope) *wire.Envelope {
		pong, _ := wire.NewNotification(wire.MethodPong, nil)
		return pong
	})
	return ms
}

// Handle registers fn for one method. Returning nil sends no reply.
func (ms *MockServer) Handle(method string, fn func(env *wire.Envelope) *wire.Envelope) {
	ms.handlerMu.Lock()
	ms.handlers[method] = fn
	ms.handlerMu.Unlock()
}

func (ms *MockServer) readLoop(conn *websocket.Conn) {
	for {
		var env wire.Envelope
		if err := wsjson.Read(context.Background(), conn, &env); err != nil {
			return
		}
		ms.handlerMu.Lock()
		handler := ms.handlers[env.Method]
		ms.handlerMu.Unlock()
		if handler == nil {
			ms.T.Logf("MockServer: no handler for method %q", env.Method)
			continue
		}
		if resp := handler(&env); resp != nil {
			if err := ms.write(resp); err != nil {
				ms.T.Logf("MockServer: write error: %v", err)
				return
			}
		}
	}
}

func (ms *MockServer) write(env *wire.Envelope) error {
	ms.connMu.Lock()
	conn := ms.conn
	ms.connMu.Unlock()
	if conn == nil {
		return fmt.Errorf("mock server: no active connection")
	}
	return wsjson.Write(context.Background(), conn, env)
}

// SendNotification pushes a server-initiated notification to the client.
func (ms *MockServer) SendNotification(method string, params interface{}) error {
	env, err := wire.NewNotification(method, params)
	if err != nil {
		return err
	}
	return ms.write(env)
}

// SendRaw pushes an arbitrary text frame to the client, bypassing envelope
// encoding. Useful for feeding the client malformed input.
func (ms *MockServer) SendRaw(data string) error {
	ms.connMu.Lock()
	conn := ms.conn
	ms.connMu.Unlock()
	if conn == nil {
		return fmt.Errorf("mock server: no active connection")
	}
	return conn.Write(context.Background(), websocket.MessageText, []byte(data))
}

// Connections reports how many connections the server has accepted.
func (ms *MockServer) Connections() int {
	ms.connMu.Lock()
	defer ms.connMu.Unlock()
	return ms.conns
}

// CloseCurrentConnection drops the active connection, simulating a network
// loss from the client's point of view.
func (ms *MockServer) CloseCurrentConnection() {
	ms.connMu.Lock()
	defer ms.connMu.Unlock()
	if ms.conn != nil {
		ms.conn.Close(websocket.StatusGoingAway, "test closing connection")
		ms.conn = nil
	}
}

// Close shuts the server down. Registered via t.Cleanup by the constructors.
func (ms *MockServer) Close() {
	ms.CloseCurrentConnection()
	if ms.Server != nil {
		ms.Server.Close()
	}
}

// Result builds a success response to req carrying payload.
func Result(req *wire.Envelope, payload interface{}) *wire.Envelope {
	raw, _ := json.Marshal(payload)
	return &wire.Envelope{Version: wire.Version, ID: req.ID, Result: raw}
}

// RPCError builds an error response to req.
func RPCError(req *wire.Envelope, code int, message string) *wire.Envelope {
	return &wire.Envelope{
		Version: wire.Version,
		ID:      req.ID,
		Error:   &wire.ErrorPayload{Code: code, Message: message},
	}
}
