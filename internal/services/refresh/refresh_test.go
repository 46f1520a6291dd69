package refresh

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetry(t *testing.T) {
	errFlaky := errors.New("flaky")

	tests := []struct {
		name      string
		failures  int
		attempts  int
		wantCalls int
		wantErr   bool
	}{
		{"first try", 0, 3, 1, false},
		{"recovers", 2, 3, 3, false},
		{"exhausted", 5, 3, 3, true},
		{"single attempt", 5, 1, 1, true},
		{"default attempts", 5, 0, DefaultAttempts, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(context.Background(), tt.attempts, time.Millisecond, func(context.Context) error {
				calls++
				if calls <= tt.failures {
					return errFlaky
				}
				return nil
			})

			if (err != nil) != tt.wantErr {
				t.Errorf("Retry() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, errFlaky) {
				t.Errorf("Retry() should return the last error, got %v", err)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetry_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := Retry(ctx, 5, time.Hour, func(context.Context) error {
		calls++
		cancel()
		return errors.New("down")
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Retry() error = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestTicker(t *testing.T) {
	tk := NewTicker(10 * time.Millisecond)
	defer func() { _ = tk.Close() }()

	select {
	case tick := <-tk.Ticks():
		if tick.At.IsZero() {
			t.Error("tick without time")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for tick")
	}
}

func TestTicker_Disabled(t *testing.T) {
	tk := NewTicker(0)
	defer func() { _ = tk.Close() }()

	select {
	case <-tk.Ticks():
		t.Error("disabled ticker ticked")
	case <-time.After(50 * time.Millisecond):
	}
	if err := tk.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
}
