// Package refresh provides the auto-refresh ticker and connection retry.
package refresh

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/j-veylop/warehouse-finops-tui/internal/logger"
)

// Retry defaults.
const (
	DefaultAttempts = 3
	DefaultBackoff  = 500 * time.Millisecond
)

// Retry calls fn until it succeeds, the attempts are exhausted or ctx is
// done, doubling the wait between attempts. It returns the last error, or
// the context error once ctx is done.
func Retry(ctx context.Context, attempts int, initial time.Duration, fn func(context.Context) error) error {
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	if initial <= 0 {
		initial = DefaultBackoff
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = initial
	b.Multiplier = 2
	b.RandomizationFactor = 0
	if attempts < 32 {
		b.MaxInterval = initial << attempts
	}

	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		return struct{}{}, fn(ctx)
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(attempts)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, wait time.Duration) {
			logger.Debug("retrying", "attempt", attempt, "backoff", wait, "error", err)
		}),
	)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// Tick is sent on every refresh interval.
type Tick struct {
	At time.Time
}

// Ticker emits Ticks at a fixed interval until closed.
type Ticker struct {
	tickChan  chan Tick
	stopChan  chan struct{}
	interval  time.Duration
	closeOnce sync.Once
}

// NewTicker starts a ticker. A non-positive interval never ticks.
func NewTicker(interval time.Duration) *Ticker {
	t := &Ticker{
		tickChan: make(chan Tick, 1),
		stopChan: make(chan struct{}),
		interval: interval,
	}
	if interval > 0 {
		go t.loop()
	}
	return t
}

// Ticks returns the tick channel.
func (t *Ticker) Ticks() <-chan Tick {
	return t.tickChan
}

// Interval returns the configured interval.
func (t *Ticker) Interval() time.Duration {
	return t.interval
}

func (t *Ticker) loop() {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			// A pending tick is enough; consumers only need to know one is due.
			select {
			case t.tickChan <- Tick{At: now}:
			default:
			}
		case <-t.stopChan:
			return
		}
	}
}

// Close stops the ticker.
func (t *Ticker) Close() error {
	t.closeOnce.Do(func() { close(t.stopChan) })
	return nil
}
