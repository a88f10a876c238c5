package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Autocorrelation returns the sample autocorrelation of x for lags
// 0..min(maxLag, len(x)-1). The autocovariance at every lag is normalized
// by n, not n-k, so values shrink toward zero at long lags. A constant
// input has no defined autocorrelation and yields NaN at every lag.
func Autocorrelation(x []float64, maxLag int) []float64 {
	n := len(x)
	if n == 0 || maxLag < 0 {
		return nil
	}
	nlags := maxLag
	if nlags > n-1 {
		nlags = n - 1
	}

	mean := stat.Mean(x, nil)
	centered := make([]float64, n)
	for i, v := range x {
		centered[i] = v - mean
	}

	acf := make([]float64, nlags+1)
	var denom float64
	for _, v := range centered {
		denom += v * v
	}
	for k := range acf {
		if denom == 0 {
			acf[k] = math.NaN()
			continue
		}
		var sum float64
		for t := 0; t+k < n; t++ {
			sum += centered[t] * centered[t+k]
		}
		acf[k] = sum / denom
	}
	return acf
}
