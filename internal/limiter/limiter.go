// Package limiter throttles repeated failed credential checks.
package limiter

import (
	"context"
	"time"
)

// Limiter controls credential-check attempts and temporary lockouts.
type Limiter interface {
	// Allow reports whether a check is currently allowed and, if not, how long to wait.
	Allow(ctx context.Context, subject string, ipHash []byte) (bool, time.Duration, error)
	// Success resets counters after a successful check.
	Success(ctx context.Context, subject string, ipHash []byte) error
	// Failure records a failed attempt; may place a temporary block.
	Failure(ctx context.Context, subject string, ipHash []byte) (bool, time.Duration, error)
}

// Policy configures the sliding window and the lockout.
type Policy struct {
	Window   time.Duration
	MaxFails int
	BlockFor time.Duration
}

// Nop never throttles.
type Nop struct{}

func (Nop) Allow(context.Context, string, []byte) (bool, time.Duration, error) { return true, 0, nil }
func (Nop) Success(context.Context, string, []byte) error                     { return nil }
func (Nop) Failure(context.Context, string, []byte) (bool, time.Duration, error) {
	return false, 0, nil
}
