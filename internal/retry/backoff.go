// Package retry paces repeated connection attempts with exponential
// backoff.
package retry

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// ── Backoff ──────────────────────────────────────────────────────────

const (
	defaultInitialDelay = time.Second
	defaultMaxDelay     = 30 * time.Second
	defaultMultiplier   = 2.0
)

// Backoff retries an operation with exponentially growing pauses.
// Zero fields fall back to 1s initial delay, 30s cap, and factor 2.
type Backoff struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	// MaxAttempts counts the first try.  0 retries until ctx ends.
	MaxAttempts int
	// Jitter spreads each pause by ±25%.
	Jitter bool

	// RetryIf filters which errors are worth another attempt.  Nil
	// retries every error.
	RetryIf func(err error) bool
	// OnRetry is called before each pause.
	OnRetry func(attempt int, err error, wait time.Duration)
}

// ForConnect returns the policy used for opening a chat connection:
// attempts tries starting delay apart, doubling up to eight times
// delay, with jitter.
func ForConnect(attempts int, delay time.Duration) *Backoff {
	if attempts < 1 {
		attempts = 1
	}
	return &Backoff{
		InitialDelay: delay,
		MaxDelay:     8 * delay,
		Multiplier:   defaultMultiplier,
		MaxAttempts:  attempts,
		Jitter:       true,
	}
}

// Do calls fn until it succeeds, returns an error RetryIf rejects,
// runs out of attempts, or ctx ends.  attempt is 1-based.
func (b *Backoff) Do(ctx context.Context, fn func(attempt int) error) error {
	delay := b.InitialDelay
	if delay <= 0 {
		delay = defaultInitialDelay
	}

	for attempt := 1; ; attempt++ {
		err := fn(attempt)
		if err == nil {
			return nil
		}
		if b.RetryIf != nil && !b.RetryIf(err) {
			return err
		}
		if b.MaxAttempts > 0 && attempt >= b.MaxAttempts {
			if b.MaxAttempts == 1 {
				return err
			}
			return fmt.Errorf("gave up after %d attempts: %w", attempt, err)
		}

		wait := delay
		if b.Jitter {
			wait = addJitter(delay)
		}
		if b.OnRetry != nil {
			b.OnRetry(attempt, err, wait)
		}

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-t.C:
		}

		delay = b.next(delay)
	}
}

// next grows delay by the multiplier, capped at MaxDelay.
func (b *Backoff) next(delay time.Duration) time.Duration {
	mult := b.Multiplier
	if mult <= 0 {
		mult = defaultMultiplier
	}
	limit := b.MaxDelay
	if limit <= 0 {
		limit = defaultMaxDelay
	}
	delay = time.Duration(float64(delay) * mult)
	if delay > limit {
		delay = limit
	}
	return delay
}

// addJitter adds ±25% randomisation to a duration.
func addJitter(d time.Duration) time.Duration {
	quarter := float64(d) * 0.25
	delta := (rand.Float64() * 2 * quarter) - quarter
	return time.Duration(math.Max(float64(d)+delta, float64(time.Millisecond)))
}
