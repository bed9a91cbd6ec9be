package client

import (
	"testing"
	"time"
)

func TestBackoffSequence(t *testing.T) {
	b := backoff{initial: time.Second, max: 30 * time.Second, factor: 2.0}
	want := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
		30 * time.Second,
		30 * time.Second,
	}
	for i, w := range want {
		if got := b.delay(i + 1); got != w {
			t.Errorf("attempt %d: delay = %v, want %v", i+1, got, w)
		}
	}
}

func TestBackoffNeverDecreasesAndNeverExceedsMax(t *testing.T) {
	b := backoff{initial: 250 * time.Millisecond, max: 10 * time.Second, factor: 1.7}
	prev := time.Duration(0)
	for attempt := 1; attempt <= 25; attempt++ {
		d := b.delay(attempt)
		if d < prev {
			t.Fatalf("attempt %d: delay %v below previous %v", attempt, d, prev)
		}
		if d > b.max {
			t.Fatalf("attempt %d: delay %v above max %v", attempt, d, b.max)
		}
		prev = d
	}
	if prev != b.max {
		t.Fatalf("delay never reached the cap, last %v", prev)
	}
}

func TestBackoffAttemptFloor(t *testing.T) {
	b := backoff{initial: time.Second, max: 30 * time.Second, factor: 2.0}
	if got := b.delay(0); got != b.initial {
		t.Errorf("delay(0) = %v, want %v", got, b.initial)
	}
	if got := b.delay(-3); got != b.initial {
		t.Errorf("delay(-3) = %v, want %v", got, b.initial)
	}
}
