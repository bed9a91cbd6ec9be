package client

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorsIsMatchesByKind(t *testing.T) {
	err := newError(KindNotConnected, "cannot send yet")
	if !errors.Is(err, ErrNotConnected) {
		t.Fatal("errors.Is should match the sentinel of the same kind")
	}
	if errors.Is(err, ErrSendTimeout) {
		t.Fatal("errors.Is must not match a different kind")
	}
}

func TestErrorsWrapPreservesCause(t *testing.T) {
	cause := errors.New("boom")
	err := wrapError(KindConnectionFailed, "dial", cause)
	if !errors.Is(err, cause) {
		t.Fatal("wrapped cause lost")
	}
	if !errors.Is(err, ErrConnectionFailed) {
		t.Fatal("kind lost")
	}
	if KindOf(err) != KindConnectionFailed {
		t.Fatalf("KindOf = %v", KindOf(err))
	}
}

func TestKindOfForeignErrors(t *testing.T) {
	if KindOf(errors.New("plain")) != KindUnknown {
		t.Fatal("foreign errors should map to KindUnknown")
	}
	wrapped := fmt.Errorf("outer: %w", newError(KindCancelled, "stop"))
	if KindOf(wrapped) != KindCancelled {
		t.Fatal("KindOf should unwrap")
	}
}

func TestErrorStringIncludesCode(t *testing.T) {
	err := &ClientError{Kind: KindAuthenticationFailed, Code: 4, Message: "server rejected credentials"}
	want := "server rejected credentials (code 4)"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestErrorStringFallsBackToKind(t *testing.T) {
	err := &ClientError{Kind: KindSendTimeout}
	if err.Error() != "send timeout" {
		t.Fatalf("Error() = %q", err.Error())
	}
}
