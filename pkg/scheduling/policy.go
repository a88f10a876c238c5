package scheduling

import (
	"context"
	"time"

	"go.uber.org/zap"

	"ViewTracker/pkg/logging"
)

// Policy bounds how often one cycle retries a failed operation.
// The zero Policy fails on the first error.
type Policy struct {
	Retries int
	Backoff time.Duration

	// Sleep waits between attempts. Nil means Sleep from this package.
	Sleep func(context.Context, time.Duration) error
}

// NoRetry returns the fail-fast policy.
func NoRetry() Policy {
	return Policy{}
}

// Attempts returns the total number of tries the policy allows.
func (p Policy) Attempts() int {
	if p.Retries < 0 {
		return 1
	}
	return p.Retries + 1
}

// Do runs fn until it succeeds or the attempts are used up. The wait before
// retry n is n*Backoff. The last error is returned unchanged.
func (p Policy) Do(ctx context.Context, fn func(context.Context) error) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = Sleep
	}

	var err error
	for attempt := 1; attempt <= p.Attempts(); attempt++ {
		if attempt > 1 {
			wait := time.Duration(attempt-1) * p.Backoff
			logging.Component("scheduling").Warn("retrying",
				zap.Int("attempt", attempt),
				zap.Duration("wait", wait),
				zap.Error(err),
			)
			if serr := sleep(ctx, wait); serr != nil {
				return err
			}
		}
		if err = fn(ctx); err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return err
		}
	}
	return err
}
