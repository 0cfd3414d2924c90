package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestDo_SuccessFirstAttempt(t *testing.T) {
	cfg := Config{
		MaxRetries:     3,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     1 * time.Second,
	}

	attempts := 0
	op := func(ctx context.Context) error {
		attempts++
		return nil
	}

	err := Do(context.Background(), cfg, op)
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
}

func TestDo_SuccessAfterRetries(t *testing.T) {
	cfg := Config{
		MaxRetries:     5,
		InitialBackoff: 10 * time.Millisecond,
		MaxBackoff:     100 * time.Millisecond,
		Multiplier:     2.0,
	}

	attempts := 0
	op := func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("temporary failure")
		}
		return nil
	}

	start := time.Now()
	err := Do(context.Background(), cfg, op)
	elapsed := time.Since(start)

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}

	// 10ms before the second attempt, 20ms before the third
	if elapsed < 30*time.Millisecond {
		t.Errorf("expected at least 30ms elapsed, got %v", elapsed)
	}
}

func TestDo_ZeroValueConfigIsSingleAttempt(t *testing.T) {
	attempts := 0
	expectedErr := errors.New("failure")
	op := func(ctx context.Context) error {
		attempts++
		return expectedErr
	}

	err := Do(context.Background(), Config{}, op)
	if err == nil {
		t.Error("expected error, got nil")
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt with zero-value config, got %d", attempts)
	}
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected wrapped error to be %v, got %v", expectedErr, err)
	}
}

func TestDo_ExhaustsRetries(t *testing.T) {
	cfg := Config{
		MaxRetries:     3,
		InitialBackoff: 10 * time.Millisecond,
		MaxBackoff:     100 * time.Millisecond,
		Multiplier:     2.0,
	}

	attempts := 0
	expectedErr := errors.New("permanent failure")
	op := func(ctx context.Context) error {
		attempts++
		return expectedErr
	}

	err := Do(context.Background(), cfg, op)
	if err == nil {
		t.Error("expected error, got nil")
	}
	if attempts != 4 {
		t.Errorf("expected 4 attempts (1 initial + 3 retries), got %d", attempts)
	}
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected wrapped error to be %v, got %v", expectedErr, err)
	}
}

func TestDo_ContextCancellation(t *testing.T) {
	cfg := Config{
		MaxRetries:     10,
		InitialBackoff: 50 * time.Millisecond,
		MaxBackoff:     1 * time.Second,
		Multiplier:     2.0,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	attempts := 0
	op := func(ctx context.Context) error {
		attempts++
		return errors.New("always fails")
	}

	err := Do(ctx, cfg, op)
	if err == nil {
		t.Error("expected error due to context cancellation, got nil")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded, got %v", err)
	}

	if attempts == 0 {
		t.Error("expected at least one attempt")
	}
	if attempts > 5 {
		t.Errorf("expected fewer attempts due to context timeout, got %d", attempts)
	}
}

func TestBackoffFor_ExponentialGrowth(t *testing.T) {
	cfg := Config{
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     30 * time.Second,
		Multiplier:     2.0,
	}

	tests := []struct {
		retryNumber int
		want        time.Duration
	}{
		{0, 0},
		{1, 1 * time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{4, 8 * time.Second},
		{5, 16 * time.Second},
		{6, 30 * time.Second}, // 32s capped at 30s
		{7, 30 * time.Second},
		{10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("retry_%d", tt.retryNumber), func(t *testing.T) {
			got := backoffFor(tt.retryNumber, cfg)
			if got != tt.want {
				t.Errorf("backoffFor(%d) = %v, want %v", tt.retryNumber, got, tt.want)
			}
		})
	}
}

func TestBackoffFor_DefaultMultiplier(t *testing.T) {
	cfg := Config{
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     30 * time.Second,
	}

	if got := backoffFor(3, cfg); got != 4*time.Second {
		t.Errorf("expected unset multiplier to behave as 2.0, got %v", got)
	}
}

func TestBackoffFor_WithJitter(t *testing.T) {
	cfg := Config{
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     10 * time.Second,
		Multiplier:     2.0,
		Jitter:         true,
	}

	retryNumber := 3
	expectedBase := 4 * time.Second

	results := make(map[time.Duration]bool)
	for i := 0; i < 20; i++ {
		backoff := backoffFor(retryNumber, cfg)

		minExpected := time.Duration(float64(expectedBase) * 0.75)
		maxExpected := time.Duration(float64(expectedBase) * 1.25)

		if backoff < minExpected || backoff > maxExpected {
			t.Errorf("backoff %v outside expected range [%v, %v]", backoff, minExpected, maxExpected)
		}
		if backoff > cfg.MaxBackoff {
			t.Errorf("backoff %v exceeds max backoff %v", backoff, cfg.MaxBackoff)
		}

		results[backoff] = true
	}

	if len(results) < 5 {
		t.Error("jitter not producing enough variation in backoff durations")
	}
}

func TestDo_UnlimitedRetries(t *testing.T) {
	cfg := Config{
		MaxRetries:     -1,
		InitialBackoff: 1 * time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Multiplier:     2.0,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	attempts := 0
	op := func(ctx context.Context) error {
		attempts++
		if attempts == 10 {
			return nil
		}
		return errors.New("keep retrying")
	}

	err := Do(ctx, cfg, op)
	if err != nil {
		t.Errorf("expected success after 10 attempts, got error: %v", err)
	}
	if attempts != 10 {
		t.Errorf("expected 10 attempts, got %d", attempts)
	}
}
