package database

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWaitForPing_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	ping := func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	}
	if err := waitForPing(context.Background(), ping, 5, time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestWaitForPing_GivesUp(t *testing.T) {
	calls := 0
	refused := errors.New("connection refused")
	err := waitForPing(context.Background(), func(context.Context) error {
		calls++
		return refused
	}, 3, time.Millisecond)
	if !errors.Is(err, refused) {
		t.Fatalf("err = %v, want wrapped refusal", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestWaitForPing_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := waitForPing(ctx, func(context.Context) error {
		calls++
		cancel()
		return errors.New("connection refused")
	}, 5, time.Hour)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
