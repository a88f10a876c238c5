package collecting

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"ViewTracker/pkg/scheduling"
	"ViewTracker/pkg/series"
)

// fakeClock advances only when the collector sleeps or a fetch takes time.
type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	f.sleeps = append(f.sleeps, d)
	f.now = f.now.Add(d)
	return ctx.Err()
}

// scriptedSource returns values in order, spending the matching latency on
// the fake clock. After the script runs out it cancels the run.
type scriptedSource struct {
	clock   *fakeClock
	values  []float64
	latency []time.Duration
	errs    []error
	cancel  context.CancelFunc
	calls   int
	starts  []time.Time
}

func (s *scriptedSource) Fetch(ctx context.Context) (float64, error) {
	i := s.calls
	s.calls++
	if i >= len(s.values) {
		s.cancel()
		return 0, ctx.Err()
	}
	s.starts = append(s.starts, s.clock.now)
	if i < len(s.latency) {
		s.clock.now = s.clock.now.Add(s.latency[i])
	}
	if i < len(s.errs) && s.errs[i] != nil {
		return 0, s.errs[i]
	}
	return s.values[i], nil
}

func TestRunKeepsFixedCadence(t *testing.T) {
	start := time.Unix(1700000000, 0)
	clock := &fakeClock{now: start}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := &scriptedSource{
		clock:   clock,
		values:  []float64{5, 8, 8, 15, 20},
		latency: []time.Duration{100 * time.Millisecond, 3 * time.Second, 0, 9900 * time.Millisecond, time.Second},
		cancel:  cancel,
	}
	store := series.Open(filepath.Join(t.TempDir(), "views.csv"))
	c := New(src, store, 10*time.Second, WithClock(clock.Now, clock.Sleep))

	if err := c.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run = %v; want context.Canceled", err)
	}
	if c.Count() != 5 {
		t.Fatalf("Count = %d; want 5", c.Count())
	}

	for k, got := range src.starts {
		want := start.Add(time.Duration(k) * 10 * time.Second)
		if !got.Equal(want) {
			t.Errorf("fetch %d started at %v; want %v", k, got, want)
		}
	}

	snap := store.Snapshot()
	if snap.Len() != 5 {
		t.Fatalf("store holds %d samples; want 5", snap.Len())
	}
	for i, v := range []float64{5, 8, 8, 15, 20} {
		if snap.Samples[i].Views != v {
			t.Errorf("sample %d views = %v; want %v", i, snap.Samples[i].Views, v)
		}
	}
	// Timestamps are taken after each fetch returns.
	if got, want := snap.Samples[1].Time, series.UnixSeconds(start.Add(13*time.Second)); got != want {
		t.Errorf("sample 1 time = %v; want %v", got, want)
	}

	onDisk, err := series.Read(store.Path())
	if err != nil || onDisk.Len() != 5 {
		t.Errorf("file holds %d samples (err %v); want 5", onDisk.Len(), err)
	}
}

func TestRunSlowFetchSleepsZero(t *testing.T) {
	start := time.Unix(1700000000, 0)
	clock := &fakeClock{now: start}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := &scriptedSource{
		clock:   clock,
		values:  []float64{1, 2, 3},
		latency: []time.Duration{15 * time.Second, 0, 0},
		cancel:  cancel,
	}
	c := New(src, series.Open(filepath.Join(t.TempDir(), "v.csv")), 10*time.Second, WithClock(clock.Now, clock.Sleep))
	_ = c.Run(ctx)

	if len(clock.sleeps) < 2 {
		t.Fatalf("sleeps = %v; want at least 2", clock.sleeps)
	}
	if clock.sleeps[0] != 0 {
		t.Errorf("sleep after slow fetch = %v; want 0", clock.sleeps[0])
	}
	// The second cycle starts late at 15s; its anchor is 10s, so it only
	// waits until 20s.
	if clock.sleeps[1] != 5*time.Second {
		t.Errorf("second sleep = %v; want 5s", clock.sleeps[1])
	}
}

func TestRunFetchErrorIsFatal(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errFetch := errors.New("page changed")
	src := &scriptedSource{
		clock:  clock,
		values: []float64{1, 2},
		errs:   []error{nil, errFetch},
		cancel: cancel,
	}
	store := series.Open(filepath.Join(t.TempDir(), "v.csv"))
	c := New(src, store, time.Second, WithClock(clock.Now, clock.Sleep))

	if err := c.Run(ctx); !errors.Is(err, errFetch) {
		t.Fatalf("Run = %v; want %v", err, errFetch)
	}
	if store.Len() != 1 {
		t.Errorf("store Len = %d; want 1", store.Len())
	}
}

func TestRunRetriesWithinCycle(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := &scriptedSource{
		clock:  clock,
		values: []float64{0, 7},
		errs:   []error{errors.New("timeout")},
		cancel: cancel,
	}
	store := series.Open(filepath.Join(t.TempDir(), "v.csv"))
	policy := scheduling.Policy{Retries: 1, Sleep: clock.Sleep}
	c := New(src, store, time.Second, WithPolicy(policy), WithClock(clock.Now, clock.Sleep))

	if err := c.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run = %v; want cancellation", err)
	}
	snap := store.Snapshot()
	if snap.Len() != 1 || snap.Samples[0].Views != 7 {
		t.Errorf("samples = %+v; want one reading of 7", snap.Samples)
	}
}

type failingSink struct{}

func (failingSink) Append(series.Sample) error { return errors.New("disk full") }
func (failingSink) Len() int                   { return 0 }

func TestRunWriteErrorIsFatal(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := &scriptedSource{clock: clock, values: []float64{1}, cancel: cancel}
	c := New(src, failingSink{}, time.Second, WithClock(clock.Now, clock.Sleep))

	err := c.Run(ctx)
	if err == nil || errors.Is(err, context.Canceled) {
		t.Fatalf("Run = %v; want write error", err)
	}
}

func TestRunRejectsNonPositivePeriod(t *testing.T) {
	c := New(&scriptedSource{}, failingSink{}, 0)
	if err := c.Run(context.Background()); err == nil {
		t.Error("Run with zero period succeeded")
	}
}
