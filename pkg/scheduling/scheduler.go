// Package scheduling paces a polling loop against fixed anchors so that
// fetch latency does not accumulate into drift.
package scheduling

import (
	"context"
	"time"
)

// Scheduler tracks the anchor of the current cycle. Cycle k starts at
// anchor0 + k*period no matter how long earlier cycles took.
type Scheduler struct {
	anchor time.Time
	period time.Duration
}

// New returns a scheduler whose first cycle is anchored at anchor.
func New(anchor time.Time, period time.Duration) *Scheduler {
	return &Scheduler{anchor: anchor, period: period}
}

// Anchor returns the start time of the current cycle.
func (s *Scheduler) Anchor() time.Time {
	return s.anchor
}

// Period returns the cycle length.
func (s *Scheduler) Period() time.Duration {
	return s.period
}

// NextSleep returns how long to wait at now before the next cycle starts.
// A cycle that overran its period gets zero.
func (s *Scheduler) NextSleep(now time.Time) time.Duration {
	d := s.period - now.Sub(s.anchor)
	if d < 0 {
		return 0
	}
	return d
}

// Advance moves the anchor forward by exactly one period.
func (s *Scheduler) Advance() {
	s.anchor = s.anchor.Add(s.period)
}

// Sleep blocks for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
