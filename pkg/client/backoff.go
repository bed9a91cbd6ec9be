package client

import (
	"math"
	"time"
)

// backoff computes reconnect delays as initial*factor^(attempt-1), capped at
// max. Attempts are 1-based.
type backoff struct {
	initial time.Duration
	max     time.Duration
	factor  float64
}

func (b backoff) delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := float64(b.initial) * math.Pow(b.factor, float64(attempt-1))
	if d <= 0 || d > float64(b.max) {
		return b.max
	}
	return time.Duration(d)
}
