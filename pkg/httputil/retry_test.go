package httputil

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errTransient = errors.New("connection reset")

type hintedError struct{ wait time.Duration }

func (e *hintedError) Error() string             { return "slow down" }
func (e *hintedError) RetryDelay() time.Duration { return e.wait }

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := Retryable(errTransient)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if err.Error() != errTransient.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if !errors.Is(err, errTransient) {
		t.Error("wrapped error should unwrap to its cause")
	}
	if IsRetryable(errTransient) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetry(t *testing.T) {
	ctx := context.Background()

	t.Run("success on first try", func(t *testing.T) {
		calls := 0
		err := Retry(ctx, 3, time.Millisecond, func() error {
			calls++
			return nil
		})
		if err != nil {
			t.Errorf("Should succeed: %v", err)
		}
		if calls != 1 {
			t.Errorf("Should call once: %d", calls)
		}
	})

	t.Run("non-retryable stops immediately", func(t *testing.T) {
		calls := 0
		err := Retry(ctx, 3, time.Millisecond, func() error {
			calls++
			return errTransient
		})
		if err != errTransient {
			t.Errorf("Should return non-retryable error: %v", err)
		}
		if calls != 1 {
			t.Errorf("Should not retry non-retryable error: %d", calls)
		}
	})

	t.Run("retryable error triggers retries", func(t *testing.T) {
		calls := 0
		err := Retry(ctx, 3, time.Millisecond, func() error {
			calls++
			if calls < 2 {
				return Retryable(errTransient)
			}
			return nil
		})
		if err != nil {
			t.Errorf("Should succeed after retry: %v", err)
		}
		if calls != 2 {
			t.Errorf("Should retry once: %d", calls)
		}
	})

	t.Run("returns last error when attempts exhausted", func(t *testing.T) {
		calls := 0
		err := Retry(ctx, 3, time.Millisecond, func() error {
			calls++
			return Retryable(errTransient)
		})
		if !errors.Is(err, errTransient) {
			t.Errorf("got %v, want %v", err, errTransient)
		}
		if calls != 3 {
			t.Errorf("calls = %d, want 3", calls)
		}
	})

	t.Run("zero attempts runs once", func(t *testing.T) {
		calls := 0
		_ = Retry(ctx, 0, time.Millisecond, func() error {
			calls++
			return Retryable(errTransient)
		})
		if calls != 1 {
			t.Errorf("calls = %d, want 1", calls)
		}
	})
}

func TestRetryHonoursHint(t *testing.T) {
	calls := 0
	start := time.Now()
	err := Retry(context.Background(), 2, time.Millisecond, func() error {
		calls++
		if calls == 1 {
			return Retryable(&hintedError{wait: 30 * time.Millisecond})
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Retry() error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("Retry waited %v, want at least the 30ms hint", elapsed)
	}
}

func TestHintedDelayCapped(t *testing.T) {
	got := hintedDelay(Retryable(&hintedError{wait: time.Hour}))
	if got != maxRetryAfter {
		t.Errorf("hintedDelay() = %v, want %v", got, maxRetryAfter)
	}
	if hintedDelay(errTransient) != 0 {
		t.Error("hintedDelay() should be zero without a hint")
	}
}

func TestRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(errTransient)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
