package client

import (
	"errors"
	"testing"
	"time"
)

func TestValidateOptionsRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Options)
		want   ErrorKind
	}{
		{"missing url", func(o *Options) { o.ServerURL = "" }, KindInvalidServerURL},
		{"bad scheme", func(o *Options) { o.ServerURL = "ftp://host:5200" }, KindInvalidServerURL},
		{"no host", func(o *Options) { o.ServerURL = "ws://" }, KindInvalidServerURL},
		{"missing uid", func(o *Options) { o.UID = "" }, KindMissingParameters},
		{"missing token", func(o *Options) { o.Token = "" }, KindMissingParameters},
		{"factor below one", func(o *Options) { o.ReconnectFactor = 0.5 }, KindInvalidConfiguration},
		{"negative attempts", func(o *Options) { o.MaxReconnectAttempts = -1 }, KindInvalidConfiguration},
		{"negative send rate", func(o *Options) { o.SendRatePerSec = -1 }, KindInvalidConfiguration},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := DefaultOptions()
			o.ServerURL = "ws://localhost:5200"
			o.UID = "u1"
			o.Token = "t1"
			tc.mutate(&o)
			err := validateOptions(&o)
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if KindOf(err) != tc.want {
				t.Fatalf("kind = %v, want %v", KindOf(err), tc.want)
			}
		})
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	if _, err := New("", "u1", "t1"); !errors.Is(err, ErrInvalidServerURL) {
		t.Fatalf("missing url: err = %v", err)
	}
	if _, err := New("ws://localhost:5200", "", "t1"); !errors.Is(err, ErrMissingParameters) {
		t.Fatalf("missing uid: err = %v", err)
	}
	if _, err := New("ws://localhost:5200", "u1", ""); !errors.Is(err, ErrMissingParameters) {
		t.Fatalf("missing token: err = %v", err)
	}
}

func TestApplyDefaultsFillsZeroValues(t *testing.T) {
	o := Options{}
	applyDefaults(&o)
	if o.Logger == nil {
		t.Error("Logger not defaulted")
	}
	if o.Dialer == nil {
		t.Error("Dialer not defaulted")
	}
	if o.ConnectTimeout != defaultConnectTimeout {
		t.Errorf("ConnectTimeout = %v", o.ConnectTimeout)
	}
	if o.RequestTimeout != defaultRequestTimeout {
		t.Errorf("RequestTimeout = %v", o.RequestTimeout)
	}
	if o.PongTimeout != defaultPongTimeout {
		t.Errorf("PongTimeout = %v", o.PongTimeout)
	}
	if o.ReconnectFactor != defaultReconnectFactor {
		t.Errorf("ReconnectFactor = %v", o.ReconnectFactor)
	}
	if o.EventQueueLength != defaultEventQueueLength {
		t.Errorf("EventQueueLength = %d", o.EventQueueLength)
	}
}

func TestApplyDefaultsClampsMaxDelay(t *testing.T) {
	o := Options{ReconnectInitialDelay: 5 * time.Second, ReconnectMaxDelay: time.Second}
	applyDefaults(&o)
	if o.ReconnectMaxDelay != 5*time.Second {
		t.Fatalf("ReconnectMaxDelay = %v, want clamped to initial", o.ReconnectMaxDelay)
	}
}

func TestDefaultOptionsEnableReconnect(t *testing.T) {
	o := DefaultOptions()
	if !o.AutoReconnect {
		t.Fatal("DefaultOptions should enable auto reconnect")
	}
	if o.PingInterval != defaultPingInterval {
		t.Fatalf("PingInterval = %v", o.PingInterval)
	}
}
