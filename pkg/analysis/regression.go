package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Regression is an ordinary least squares fit of y on x.
type Regression struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	R         float64 `json:"r"`
	RSquared  float64 `json:"r_squared"`
	PValue    float64 `json:"p_value"`
	StdErr    float64 `json:"std_err"`
	N         int     `json:"n"`
	Valid     bool    `json:"valid"`
}

// tiny keeps the t statistic finite for a perfect fit.
const tiny = 1.0e-20

// LinearRegression fits y = Intercept + Slope*x. PValue is the two-sided
// probability of a zero slope under a Student t distribution with n-2
// degrees of freedom and StdErr is the standard error of the slope.
// Fewer than two points or a constant x give an invalid zero Regression.
func LinearRegression(x, y []float64) Regression {
	n := len(x)
	if n != len(y) || n < 2 {
		return Regression{N: n}
	}

	xmean := stat.Mean(x, nil)
	ymean := stat.Mean(y, nil)
	var ssxm, ssym, ssxym float64
	for i := range x {
		dx, dy := x[i]-xmean, y[i]-ymean
		ssxm += dx * dx
		ssym += dy * dy
		ssxym += dx * dy
	}
	fn := float64(n)
	ssxm, ssym, ssxym = ssxm/fn, ssym/fn, ssxym/fn
	if ssxm == 0 || math.IsNaN(ssxm) {
		return Regression{N: n}
	}

	intercept, slope := stat.LinearRegression(x, y, nil, false)

	var r float64
	if ssym != 0 {
		r = stat.Correlation(x, y, nil)
		r = math.Max(-1, math.Min(1, r))
	}

	reg := Regression{
		Slope:     slope,
		Intercept: intercept,
		R:         r,
		RSquared:  r * r,
		N:         n,
		Valid:     true,
	}

	if n == 2 {
		if y[0] != y[1] {
			reg.PValue = 0
		} else {
			reg.PValue = 1
		}
		return reg
	}

	df := fn - 2
	t := r * math.Sqrt(df/((1-r+tiny)*(1+r+tiny)))
	reg.PValue = 2 * distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}.CDF(-math.Abs(t))
	reg.StdErr = math.Sqrt((1 - r*r) * ssym / ssxm / df)
	return reg
}

// Predict evaluates the fitted line at x.
func (r Regression) Predict(x float64) float64 {
	return r.Intercept + r.Slope*x
}
