package util

import (
	"context"
	"time"
)

// Pacer enforces a fixed delay between successive requests. The first call to
// Wait returns immediately; each later call sleeps for the configured delay.
type Pacer struct {
	delay   time.Duration
	started bool
}

// NewPacer creates a Pacer with the given delay between calls. A zero or
// negative delay disables sleeping.
func NewPacer(delay time.Duration) *Pacer {
	return &Pacer{delay: delay}
}

// Seconds converts a fractional number of seconds into a time.Duration.
func Seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Wait blocks until the delay since the previous call has elapsed or the
// context is cancelled.
func (p *Pacer) Wait(ctx context.Context) error {
	if !p.started {
		p.started = true
		return ctx.Err()
	}
	if p.delay <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(p.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
