// Package testutil provides helpers shared by the SDK's tests: a scripted
// mock server, polling waits and a hand-driven reachability source.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/WuKongIM/WuKongEasySDK-Go/pkg/client"
)

// WaitFor is a generic utility to wait for a condition to become true.
// It returns nil if condition holds within the timeout, an error otherwise.
func WaitFor(t *testing.T, description string, timeout time.Duration, condition func() bool) error {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return nil
		}
		time.Sleep(10 * time.Millisecond)
	}
	return fmt.Errorf("condition '%s' not met within %v", description, timeout)
}

// WaitForState waits for the client to reach the given connection state.
func WaitForState(t *testing.T, c *client.Client, want client.State, timeout time.Duration) error {
	t.Helper()
	return WaitFor(t, fmt.Sprintf("client state %s", want), timeout, func() bool {
		return c.State() == want
	})
}

// WaitForWithContext is like WaitFor but gives up when ctx ends.
func WaitForWithContext(ctx context.Context, t *testing.T, description string, condition func() bool) error {
	t.Helper()
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("context canceled while waiting for condition '%s': %v", description, ctx.Err())
		case <-ticker.C:
			if condition() {
				return nil
			}
		}
	}
}
