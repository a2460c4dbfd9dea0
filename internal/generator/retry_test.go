package generator

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestCallWithRetry_SucceedsFirstTry(t *testing.T) {
	calls := 0
	got, err := callWithRetry(context.Background(), "test", func(ctx context.Context) (string, error) {
		calls++
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if got != "ok" || calls != 1 {
		t.Errorf("expected single successful call, got %q after %d calls", got, calls)
	}
}

func TestCallWithRetry_ExhaustsAttempts(t *testing.T) {
	restore := initialBackoff
	initialBackoff = time.Millisecond
	defer func() { initialBackoff = restore }()

	calls := 0
	_, err := callWithRetry(context.Background(), "test", func(ctx context.Context) (int, error) {
		calls++
		return 0, fmt.Errorf("boom")
	})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if calls != maxRetries {
		t.Errorf("expected %d calls, got %d", maxRetries, calls)
	}
}

func TestCallWithRetry_ContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := callWithRetry(ctx, "test", func(ctx context.Context) (int, error) {
			return 0, fmt.Errorf("boom")
		})
		done <- err
	}()

	// Cancel while the first backoff is pending.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("expected context.Canceled, got: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("retry did not abort on context cancellation")
	}
}
