package wire

import (
	"errors"
	"testing"
)

func TestEnvelopeKindInference(t *testing.T) {
	cases := []struct {
		name string
		env  Envelope
		want Kind
	}{
		{"request", Envelope{Version: Version, Method: MethodPing, ID: "1"}, KindRequest},
		{"notification", Envelope{Version: Version, Method: MethodPong}, KindNotification},
		{"result response", Envelope{Version: Version, ID: "1", Result: []byte(`{}`)}, KindResponse},
		{"error response", Envelope{Version: Version, ID: "1", Error: &ErrorPayload{Code: 1, Message: "x"}}, KindResponse},
		{"empty", Envelope{Version: Version}, KindInvalid},
		{"bare id", Envelope{Version: Version, ID: "1"}, KindInvalid},
	}
	for _, tc := range cases {
		if got := tc.env.Kind(); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestDecodeRejectsWrongVersion(t *testing.T) {
	_, err := Decode([]byte(`{"jsonrpc":"1.0","method":"ping","id":"1"}`))
	if !errors.Is(err, ErrProtocol) {
		t.Fatalf("got %v, want ErrProtocol", err)
	}
}

func TestDecodeRejectsResultAndError(t *testing.T) {
	_, err := Decode([]byte(`{"jsonrpc":"2.0","id":"1","result":{},"error":{"code":1,"message":"x"}}`))
	if !errors.Is(err, ErrProtocol) {
		t.Fatalf("got %v, want ErrProtocol", err)
	}
}

func TestDecodeInvalidJSONIsNotProtocolError(t *testing.T) {
	_, err := Decode([]byte(`{"jsonrpc":`))
	if err == nil {
		t.Fatal("expected an error")
	}
	if errors.Is(err, ErrProtocol) {
		t.Fatalf("invalid JSON reported as protocol violation: %v", err)
	}
}

func TestRequestParamsRoundTrip(t *testing.T) {
	env, err := NewRequest("42", MethodConnect, ConnectParams{
		UID:             "u1",
		Token:           "t1",
		DeviceID:        "d1",
		DeviceFlag:      DeviceFlagApp,
		ClientTimestamp: 1700000000000,
	})
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}

	frame, err := env.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := Decode(frame)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.Kind() != KindRequest {
		t.Fatalf("kind: got %v, want request", decoded.Kind())
	}
	if decoded.ID != "42" || decoded.Method != MethodConnect {
		t.Fatalf("id/method: got %q %q", decoded.ID, decoded.Method)
	}

	var params ConnectParams
	if err := decoded.DecodeParams(&params); err != nil {
		t.Fatalf("DecodeParams: %v", err)
	}
	if params.UID != "u1" || params.DeviceFlag != DeviceFlagApp || params.ClientTimestamp != 1700000000000 {
		t.Errorf("params: got %+v", params)
	}
}

func TestNotificationHasNoID(t *testing.T) {
	env, err := NewNotification(MethodRecvAck, RecvAckParams{MessageID: "m1", MessageSeq: 7})
	if err != nil {
		t.Fatalf("NewNotification: %v", err)
	}
	if env.ID != "" {
		t.Errorf("notification carries id %q", env.ID)
	}
	if env.Kind() != KindNotification {
		t.Errorf("kind: got %v", env.Kind())
	}
}

func TestDecodeResultIntoTypedPayload(t *testing.T) {
	env, err := Decode([]byte(`{"jsonrpc":"2.0","id":"9","result":{"messageId":"m1","messageSeq":7}}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	var res SendResult
	if err := env.DecodeResult(&res); err != nil {
		t.Fatalf("DecodeResult: %v", err)
	}
	if res.MessageID != "m1" || res.MessageSeq != 7 {
		t.Errorf("result: got %+v", res)
	}
}
