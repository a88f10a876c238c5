package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestAnchorsDoNotDrift(t *testing.T) {
	start := time.Unix(1700000000, 0)
	period := 10 * time.Second
	s := New(start, period)

	// Each cycle's work takes a different amount of time.
	work := []time.Duration{0, 300 * time.Millisecond, 2 * time.Second, 9 * time.Second, 50 * time.Millisecond}
	now := start
	for k, w := range work {
		if !s.Anchor().Equal(start.Add(time.Duration(k) * period)) {
			t.Fatalf("cycle %d anchor = %v; want %v", k, s.Anchor(), start.Add(time.Duration(k)*period))
		}
		now = now.Add(w)
		sleep := s.NextSleep(now)
		if want := period - w; sleep != want {
			t.Errorf("cycle %d sleep = %v; want %v", k, sleep, want)
		}
		now = now.Add(sleep)
		s.Advance()
	}

	if want := start.Add(time.Duration(len(work)) * period); !now.Equal(want) {
		t.Errorf("after %d cycles now = %v; want %v", len(work), now, want)
	}
}

func TestOverrunClampsToZero(t *testing.T) {
	start := time.Unix(1700000000, 0)
	s := New(start, 10*time.Second)

	if got := s.NextSleep(start.Add(15 * time.Second)); got != 0 {
		t.Errorf("NextSleep after overrun = %v; want 0", got)
	}

	// The anchor still advances by exactly one period.
	s.Advance()
	if want := start.Add(10 * time.Second); !s.Anchor().Equal(want) {
		t.Errorf("Anchor = %v; want %v", s.Anchor(), want)
	}
	if got := s.NextSleep(start.Add(15 * time.Second)); got != 5*time.Second {
		t.Errorf("NextSleep = %v; want 5s", got)
	}
}

func TestSleepHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	if err := Sleep(ctx, time.Minute); !errors.Is(err, context.Canceled) {
		t.Errorf("Sleep err = %v; want context.Canceled", err)
	}
	if time.Since(start) > time.Second {
		t.Error("Sleep did not return promptly on cancellation")
	}
	if err := Sleep(context.Background(), 0); err != nil {
		t.Errorf("Sleep(0) = %v", err)
	}
}

func TestPolicyAttempts(t *testing.T) {
	errFetch := errors.New("fetch failed")

	tests := []struct {
		name      string
		policy    Policy
		failFirst int
		wantCalls int
		wantErr   bool
		wantWaits []time.Duration
	}{
		{"no retry fails fast", NoRetry(), 1, 1, true, nil},
		{"no retry success", NoRetry(), 0, 1, false, nil},
		{"recovers on second try", Policy{Retries: 2, Backoff: time.Second}, 1, 2, false, []time.Duration{time.Second}},
		{"gives up", Policy{Retries: 2, Backoff: time.Second}, 10, 3, true, []time.Duration{time.Second, 2 * time.Second}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var waits []time.Duration
			p := tt.policy
			p.Sleep = func(_ context.Context, d time.Duration) error {
				waits = append(waits, d)
				return nil
			}

			calls := 0
			err := p.Do(context.Background(), func(context.Context) error {
				calls++
				if calls <= tt.failFirst {
					return errFetch
				}
				return nil
			})

			if calls != tt.wantCalls {
				t.Errorf("calls = %d; want %d", calls, tt.wantCalls)
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v; wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, errFetch) {
				t.Errorf("err = %v; want the fetch error", err)
			}
			if len(waits) != len(tt.wantWaits) {
				t.Fatalf("waits = %v; want %v", waits, tt.wantWaits)
			}
			for i := range waits {
				if waits[i] != tt.wantWaits[i] {
					t.Errorf("wait %d = %v; want %v", i, waits[i], tt.wantWaits[i])
				}
			}
		})
	}
}

func TestPolicyStopsWhenCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Policy{Retries: 5}.Do(ctx, func(context.Context) error {
		calls++
		cancel()
		return errors.New("boom")
	})
	if err == nil || calls != 1 {
		t.Errorf("calls = %d, err = %v; want 1 call and an error", calls, err)
	}
}
