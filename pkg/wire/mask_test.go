package wire

import (
	"strings"
	"testing"
)

func TestMaskedJSONHidesCredentialFields(t *testing.T) {
	env, err := NewRequest("1", MethodConnect, ConnectParams{
		UID:             "u1",
		Token:           "super-secret-token-value",
		DeviceID:        "d1",
		DeviceFlag:      DeviceFlagApp,
		ClientTimestamp: 1700000000000,
	})
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}

	out := MaskedJSON(env, 0)
	if out == "" {
		t.Fatal("empty rendering")
	}
	if strings.Contains(out, "super-secret-token-value") {
		t.Errorf("token plaintext leaked: %s", out)
	}
	if !strings.Contains(out, MaskedField) {
		t.Errorf("mask placeholder missing: %s", out)
	}
	if !strings.Contains(out, `"uid":"u1"`) {
		t.Errorf("non-sensitive field lost: %s", out)
	}
}

func TestMaskedJSONCoversNestedFields(t *testing.T) {
	env, err := NewNotification(MethodRecv, Map{
		"payload": Object(Map{
			"password": String("hunter2"),
			"apiKey":   String("k-123"),
			"text":     String("visible"),
		}),
	})
	if err != nil {
		t.Fatalf("NewNotification: %v", err)
	}

	out := MaskedJSON(env, 0)
	if strings.Contains(out, "hunter2") || strings.Contains(out, "k-123") {
		t.Errorf("nested credential leaked: %s", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("non-sensitive nested field lost: %s", out)
	}
}

func TestMaskedJSONMasksServerKeyInResults(t *testing.T) {
	env, err := Decode([]byte(`{"jsonrpc":"2.0","id":"1","result":{"serverKey":"sk-raw","salt":"s","reasonCode":0,"timeDiff":0}}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	out := MaskedJSON(env, 0)
	if strings.Contains(out, "sk-raw") {
		t.Errorf("serverKey leaked: %s", out)
	}
}

func TestMaskedJSONTruncates(t *testing.T) {
	env, err := NewNotification(MethodRecv, Map{
		"payload": Object(Map{"text": String(strings.Repeat("x", 4096))}),
	})
	if err != nil {
		t.Fatalf("NewNotification: %v", err)
	}

	out := MaskedJSON(env, 128)
	if !strings.HasSuffix(out, Truncated) {
		t.Fatalf("missing truncation marker: %s", out)
	}
	if len(out) != 128+len(Truncated) {
		t.Errorf("length: got %d, want %d", len(out), 128+len(Truncated))
	}
}
