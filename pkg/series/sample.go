// Package series holds the view-count time series and its file formats.
package series

import (
	"math"
	"time"
)

// Column names shared by every file format.
const (
	ColumnTime  = "time"
	ColumnViews = "views"
)

// Sample is one reading: Unix seconds and the metric value at that time.
type Sample struct {
	Time  float64 `parquet:"time" json:"time"`
	Views float64 `parquet:"views" json:"views"`
}

// NewSample stamps a value with t.
func NewSample(t time.Time, views float64) Sample {
	return Sample{Time: UnixSeconds(t), Views: views}
}

// UnixSeconds converts t to fractional seconds since the epoch.
func UnixSeconds(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/1e9
}

// TimeOf converts fractional Unix seconds back to a time.Time.
func TimeOf(sec float64) time.Time {
	whole, frac := math.Modf(sec)
	return time.Unix(int64(whole), int64(math.Round(frac*1e9)))
}

// Series is an append-only sequence of samples in collection order.
type Series struct {
	Samples []Sample
}

// New returns a series holding the given samples.
func New(samples ...Sample) *Series {
	return &Series{Samples: samples}
}

// Len returns the number of samples.
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Samples)
}

// Append adds a sample at the end. The store never reorders.
func (s *Series) Append(sample Sample) {
	s.Samples = append(s.Samples, sample)
}

// Times returns the timestamp column.
func (s *Series) Times() []float64 {
	out := make([]float64, s.Len())
	for i := range out {
		out[i] = s.Samples[i].Time
	}
	return out
}

// Values returns the views column.
func (s *Series) Values() []float64 {
	out := make([]float64, s.Len())
	for i := range out {
		out[i] = s.Samples[i].Views
	}
	return out
}

// Span returns the wall time between the first and the last sample.
func (s *Series) Span() time.Duration {
	if s.Len() < 2 {
		return 0
	}
	first := TimeOf(s.Samples[0].Time)
	last := TimeOf(s.Samples[len(s.Samples)-1].Time)
	return last.Sub(first)
}
