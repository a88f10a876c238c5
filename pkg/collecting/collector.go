// Package collecting runs the fixed-cadence polling loop that feeds a series.
package collecting

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"ViewTracker/pkg/logging"
	"ViewTracker/pkg/scheduling"
	"ViewTracker/pkg/series"
)

// MetricSource produces one metric reading per call.
type MetricSource interface {
	Fetch(ctx context.Context) (float64, error)
}

// SampleSink persists readings. *series.Store implements it.
type SampleSink interface {
	Append(series.Sample) error
	Len() int
}

// Collector polls a MetricSource on a drift-free schedule and appends every
// reading to a SampleSink.
type Collector struct {
	source MetricSource
	sink   SampleSink
	period time.Duration
	policy scheduling.Policy

	now   func() time.Time
	sleep func(context.Context, time.Duration) error

	count int
	log   *zap.Logger
}

// Option configures a Collector.
type Option func(*Collector)

// WithPolicy sets the per-cycle retry policy.
func WithPolicy(p scheduling.Policy) Option {
	return func(c *Collector) {
		c.policy = p
	}
}

// WithClock replaces the wall clock and the sleep function.
func WithClock(now func() time.Time, sleep func(context.Context, time.Duration) error) Option {
	return func(c *Collector) {
		c.now = now
		c.sleep = sleep
	}
}

// New creates a collector. The default policy makes the first fetch error fatal.
func New(source MetricSource, sink SampleSink, period time.Duration, opts ...Option) *Collector {
	c := &Collector{
		source: source,
		sink:   sink,
		period: period,
		policy: scheduling.NoRetry(),
		now:    time.Now,
		sleep:  scheduling.Sleep,
		log:    logging.Component("collector"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Count returns the number of samples collected by Run so far.
func (c *Collector) Count() int {
	return c.count
}

// Run polls until ctx is canceled or a cycle fails. Cancellation returns
// ctx.Err(); a fetch that exhausts the policy or a failed write is returned
// as is.
func (c *Collector) Run(ctx context.Context) error {
	if c.period <= 0 {
		return fmt.Errorf("period must be positive, got %v", c.period)
	}

	sched := scheduling.New(c.now(), c.period)
	c.log.Info("collecting",
		zap.Duration("period", c.period),
		zap.Int("existing", c.sink.Len()),
		zap.Int("retries", c.policy.Retries),
	)

	for {
		if err := c.cycle(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		if err := c.sleep(ctx, sched.NextSleep(c.now())); err != nil {
			return err
		}
		sched.Advance()
	}
}

func (c *Collector) cycle(ctx context.Context) error {
	var value float64
	err := c.policy.Do(ctx, func(ctx context.Context) error {
		v, err := c.source.Fetch(ctx)
		if err != nil {
			return err
		}
		value = v
		return nil
	})
	if err != nil {
		return err
	}

	ts := c.now()
	sample := series.NewSample(ts, value)
	if err := c.sink.Append(sample); err != nil {
		return fmt.Errorf("failed to persist sample: %w", err)
	}
	c.count++

	c.log.Info("Scraped at "+strconv.FormatFloat(sample.Time, 'f', -1, 64)+": "+strconv.FormatFloat(value, 'f', -1, 64)+" views",
		zap.Int("samples", c.sink.Len()),
	)
	return nil
}
