package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errRefused = errors.New("connection refused")

func TestBackoff_SuccessAfterRetries(t *testing.T) {
	b := &Backoff{InitialDelay: time.Millisecond, MaxDelay: 10 * time.Millisecond, MaxAttempts: 10}
	calls := 0

	err := b.Do(context.Background(), func(attempt int) error {
		calls++
		if attempt < 3 {
			return errRefused
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestBackoff_SingleAttemptReturnsRawError(t *testing.T) {
	b := ForConnect(1, time.Millisecond)
	err := b.Do(context.Background(), func(int) error { return errRefused })
	if err != errRefused {
		t.Errorf("got %v, want the unwrapped error", err)
	}
}

func TestBackoff_MaxAttempts(t *testing.T) {
	b := ForConnect(3, time.Millisecond)
	calls := 0

	err := b.Do(context.Background(), func(int) error {
		calls++
		return errRefused
	})
	if !errors.Is(err, errRefused) {
		t.Fatalf("err = %v, want wrapped errRefused", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestBackoff_RetryIf(t *testing.T) {
	fatal := errors.New("bad address")
	b := ForConnect(5, time.Millisecond)
	b.RetryIf = func(err error) bool { return errors.Is(err, errRefused) }

	calls := 0
	err := b.Do(context.Background(), func(int) error {
		calls++
		return fatal
	})
	if err != fatal {
		t.Errorf("got %v, want %v", err, fatal)
	}
	if calls != 1 {
		t.Errorf("filtered error should stop after 1 call, got %d", calls)
	}
}

func TestBackoff_OnRetry(t *testing.T) {
	b := &Backoff{InitialDelay: time.Millisecond, MaxDelay: 4 * time.Millisecond, MaxAttempts: 4}
	var waits []time.Duration
	b.OnRetry = func(_ int, _ error, wait time.Duration) { waits = append(waits, wait) }

	_ = b.Do(context.Background(), func(int) error { return errRefused })

	want := []time.Duration{time.Millisecond, 2 * time.Millisecond, 4 * time.Millisecond}
	if len(waits) != len(want) {
		t.Fatalf("waits = %v, want %v", waits, want)
	}
	for i := range want {
		if waits[i] != want[i] {
			t.Errorf("wait %d = %v, want %v", i, waits[i], want[i])
		}
	}
}

func TestBackoff_ContextCancelled(t *testing.T) {
	b := &Backoff{InitialDelay: 5 * time.Second, MaxAttempts: 100}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := b.Do(ctx, func(int) error { return errRefused })
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("cancellation did not interrupt the pause")
	}
}

func TestForConnect(t *testing.T) {
	b := ForConnect(0, 100*time.Millisecond)
	if b.MaxAttempts != 1 {
		t.Errorf("attempts = %d, want at least 1", b.MaxAttempts)
	}
	if b.MaxDelay != 800*time.Millisecond {
		t.Errorf("max delay = %v", b.MaxDelay)
	}
	if !b.Jitter {
		t.Error("connect policy should jitter")
	}
}

func TestJitter_Range(t *testing.T) {
	d := 100 * time.Millisecond
	lower := time.Duration(float64(d) * 0.74)
	upper := time.Duration(float64(d) * 1.26)
	for i := 0; i < 100; i++ {
		if j := addJitter(d); j < lower || j > upper {
			t.Errorf("jitter %v out of expected range [%v, %v]", j, lower, upper)
		}
	}
}
