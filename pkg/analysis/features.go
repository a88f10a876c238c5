// Package analysis derives time-aligned features from a view-count series:
// rate of change, its moving average, the linear trend and its residual,
// plus the autocorrelation and spectrogram used by the dashboard.
package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"ViewTracker/pkg/series"
)

// Features holds columns aligned index by index with the source series.
// Undefined entries are NaN.
type Features struct {
	Time         []float64 `json:"-"`
	Views        []float64 `json:"-"`
	Elapsed      []float64 `json:"-"`
	Rate         []float64 `json:"-"`
	DeltaTime    []float64 `json:"-"`
	SmoothedRate []float64 `json:"-"`
	Detrended    []float64 `json:"-"`

	Window     int        `json:"window"`
	Regression Regression `json:"regression"`
}

// Len returns the number of aligned rows.
func (f *Features) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Time)
}

// Derive computes all features of s. window is the moving average width in
// samples. An empty or single-sample series is not an error: the columns
// are still aligned and the regression is marked invalid.
func Derive(s *series.Series, window int) *Features {
	n := s.Len()
	f := &Features{
		Time:      s.Times(),
		Views:     s.Values(),
		Elapsed:   make([]float64, n),
		Rate:      make([]float64, n),
		DeltaTime: make([]float64, n),
		Detrended: make([]float64, n),
		Window:    window,
	}

	for i := 0; i < n; i++ {
		f.Elapsed[i] = f.Time[i] - f.Time[0]
		if i == 0 {
			f.Rate[i] = math.NaN()
			f.DeltaTime[i] = math.NaN()
			continue
		}
		dt := f.Elapsed[i] - f.Elapsed[i-1]
		f.DeltaTime[i] = dt
		f.Rate[i] = (f.Views[i] - f.Views[i-1]) / dt
	}

	f.SmoothedRate = MovingAverage(f.Rate, window)
	f.Regression = LinearRegression(f.Elapsed, f.Views)
	for i := range f.Detrended {
		f.Detrended[i] = f.Views[i] - f.Regression.Predict(f.Elapsed[i])
	}
	return f
}

// MovingAverage is a centered rolling mean of width w. Entry i averages the
// finite values in x[i-w/2 : i-w/2+w]; the first and last w/2 entries are NaN
// because their window does not fit inside x.
func MovingAverage(x []float64, w int) []float64 {
	n := len(x)
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	if w < 1 {
		return out
	}

	h := w / 2
	buf := make([]float64, 0, w)
	for i := h; i < n-h; i++ {
		out[i] = finiteMean(x[i-h:i-h+w], buf)
	}
	return out
}

// SampleRate returns 1 / mean(DeltaTime), or 1 when no finite spacing exists.
func (f *Features) SampleRate() float64 {
	mean := finiteMean(f.DeltaTime, nil)
	if !finite(mean) || mean <= 0 {
		return 1
	}
	fs := 1 / mean
	if !finite(fs) {
		return 1
	}
	return fs
}

// CenteredRate returns Rate minus its finite mean with non-finite entries
// set to zero.
func (f *Features) CenteredRate() []float64 {
	mean := finiteMean(f.Rate, nil)
	if !finite(mean) {
		mean = 0
	}

	out := make([]float64, len(f.Rate))
	for i, v := range f.Rate {
		if finite(v) {
			out[i] = v - mean
		}
	}
	return out
}

// finiteMean is the mean of the finite values in x, NaN when there are none.
// buf is scratch space reused across calls.
func finiteMean(x, buf []float64) float64 {
	buf = buf[:0]
	for _, v := range x {
		if finite(v) {
			buf = append(buf, v)
		}
	}
	if len(buf) == 0 {
		return math.NaN()
	}
	return stat.Mean(buf, nil)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
