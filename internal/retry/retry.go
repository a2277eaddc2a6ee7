// Package retry implements the exponential backoff policy shared by
// provider calls that should tolerate transient failures.
package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/moodtune/moodtune-music-go/internal/metrics"
)

const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = 500 * time.Millisecond
	defaultJitter      = 250 * time.Millisecond
)

// terminalError marks a failure that must not be retried (client errors,
// invalid input). The first raise propagates unchanged.
type terminalError struct {
	err error
}

func (e *terminalError) Error() string { return e.err.Error() }
func (e *terminalError) Unwrap() error { return e.err }

// Terminal wraps err so the policy stops after the first attempt.
func Terminal(err error) error {
	if err == nil {
		return nil
	}
	return &terminalError{err: err}
}

// IsTerminal reports whether err was marked with Terminal.
func IsTerminal(err error) bool {
	var te *terminalError
	return errors.As(err, &te)
}

// Policy retries an operation with exponential backoff and jitter.
// Each Do call gets its own fresh attempt counter.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Jitter      time.Duration

	// sleep is replaceable in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// New returns a policy with the default attempt budget and delays.
func New() Policy {
	return Policy{
		MaxAttempts: defaultMaxAttempts,
		BaseDelay:   defaultBaseDelay,
		Jitter:      defaultJitter,
	}
}

// Do runs op until it succeeds, returns a terminal failure, or the
// attempt budget is exhausted. The last failure propagates unchanged
// (unwrapped from its Terminal marker when present).
func (p Policy) Do(ctx context.Context, operation string, op func() error) error {
	maxAttempts := p.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	baseDelay := p.BaseDelay
	if baseDelay <= 0 {
		baseDelay = defaultBaseDelay
	}
	sleep := p.sleep
	if sleep == nil {
		sleep = sleepWithContext
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		metrics.RetryAttempts.WithLabelValues(operation).Inc()

		err := op()
		if err == nil {
			return nil
		}

		var te *terminalError
		if errors.As(err, &te) {
			return te.err
		}

		lastErr = err
		if attempt == maxAttempts-1 {
			break
		}

		// #nosec G404 -- jitter only spreads retry timing, not security-sensitive
		delay := baseDelay*time.Duration(1<<attempt) + time.Duration(rand.Int63n(int64(p.jitter())+1))
		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}

	return lastErr
}

func (p Policy) jitter() time.Duration {
	if p.Jitter <= 0 {
		return defaultJitter
	}
	return p.Jitter
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
