package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Policy holds the backoff parameters.
type Policy struct {
	Attempts     int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// Option adjusts a Policy.
type Option func(*Policy)

// DefaultPolicy is used when no options are given.
func DefaultPolicy() Policy {
	return Policy{
		Attempts:     5,
		InitialDelay: time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

// Do calls operation until it succeeds, returns a Permanent error, the
// attempts are exhausted, or ctx is done.
func Do(ctx context.Context, operation func() error, opts ...Option) error {
	p := DefaultPolicy()
	for _, opt := range opts {
		opt(&p)
	}
	if p.Attempts < 1 {
		p.Attempts = 1
	}

	delay := p.InitialDelay
	var lastErr error
	for attempt := 1; attempt <= p.Attempts; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}
		if IsPermanent(err) {
			return err
		}
		lastErr = err

		if attempt == p.Attempts {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("gave up after %d attempts: %w", attempt, ctx.Err())
		case <-time.After(delay):
		}
		delay = time.Duration(float64(delay) * p.Multiplier)
		if delay > p.MaxDelay {
			delay = p.MaxDelay
		}
	}

	return fmt.Errorf("failed after %d attempts: %w", p.Attempts, lastErr)
}

// Attempts sets the total number of calls, including the first.
func Attempts(n int) Option {
	return func(p *Policy) { p.Attempts = n }
}

// InitialDelay sets the wait before the second attempt.
func InitialDelay(d time.Duration) Option {
	return func(p *Policy) { p.InitialDelay = d }
}

// MaxDelay caps the wait between attempts.
func MaxDelay(d time.Duration) Option {
	return func(p *Policy) { p.MaxDelay = d }
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying, such as an authentication
// failure.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}
