package analysis

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/DataDog/sketches-go/ddsketch"
	"gonum.org/v1/gonum/stat"
)

// quantileAccuracy is the relative accuracy of the quantile sketch.
const quantileAccuracy = 0.01

// ColumnSummary describes the finite values of one feature column.
type ColumnSummary struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Min   float64 `json:"min"`
	Q25   float64 `json:"q25"`
	Q50   float64 `json:"q50"`
	Q75   float64 `json:"q75"`
	Max   float64 `json:"max"`
}

// MarshalJSON encodes undefined statistics as null.
func (c ColumnSummary) MarshalJSON() ([]byte, error) {
	num := func(v float64) *float64 {
		if !finite(v) {
			return nil
		}
		return &v
	}
	return json.Marshal(struct {
		Name  string   `json:"name"`
		Count int      `json:"count"`
		Mean  *float64 `json:"mean"`
		Std   *float64 `json:"std"`
		Min   *float64 `json:"min"`
		Q25   *float64 `json:"q25"`
		Q50   *float64 `json:"q50"`
		Q75   *float64 `json:"q75"`
		Max   *float64 `json:"max"`
	}{c.Name, c.Count, num(c.Mean), num(c.Std), num(c.Min), num(c.Q25), num(c.Q50), num(c.Q75), num(c.Max)})
}

// Describe summarizes the time, views, elapsed, rate and delta_time columns.
func Describe(f *Features) ([]ColumnSummary, error) {
	columns := []struct {
		name   string
		values []float64
	}{
		{"time", f.Time},
		{"views", f.Views},
		{"elapsed", f.Elapsed},
		{"rate", f.Rate},
		{"delta_time", f.DeltaTime},
	}

	out := make([]ColumnSummary, 0, len(columns))
	for _, c := range columns {
		s, err := Summarize(c.name, c.values)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Summarize computes count, mean, sample standard deviation, extremes and
// quartiles of the finite entries of values. Quartiles come from a DDSketch
// fed with offsets from the column minimum, so the error is relative to the
// column's spread rather than its magnitude. Statistics that need more
// values than are available are NaN.
func Summarize(name string, values []float64) (ColumnSummary, error) {
	s := ColumnSummary{Name: name}

	vals := make([]float64, 0, len(values))
	for _, v := range values {
		if finite(v) {
			vals = append(vals, v)
		}
	}
	s.Count = len(vals)

	nan := math.NaN()
	if s.Count == 0 {
		s.Mean, s.Std, s.Min, s.Q25, s.Q50, s.Q75, s.Max = nan, nan, nan, nan, nan, nan, nan
		return s, nil
	}

	s.Min, s.Max = vals[0], vals[0]
	for _, v := range vals {
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}

	if s.Count == 1 {
		s.Mean, s.Std = vals[0], nan
	} else {
		s.Mean, s.Std = stat.MeanStdDev(vals, nil)
	}

	sketch, err := ddsketch.NewDefaultDDSketch(quantileAccuracy)
	if err != nil {
		return s, fmt.Errorf("failed to create sketch: %w", err)
	}
	for _, v := range vals {
		if err := sketch.Add(v - s.Min); err != nil {
			return s, fmt.Errorf("failed to sketch %s: %w", name, err)
		}
	}
	qs, err := sketch.GetValuesAtQuantiles([]float64{0.25, 0.5, 0.75})
	if err != nil {
		return s, fmt.Errorf("failed to read quantiles of %s: %w", name, err)
	}
	clamp := func(q float64) float64 {
		return math.Max(s.Min, math.Min(s.Max, s.Min+q))
	}
	s.Q25, s.Q50, s.Q75 = clamp(qs[0]), clamp(qs[1]), clamp(qs[2])
	return s, nil
}
