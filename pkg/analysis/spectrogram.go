package analysis

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
)

// dbFloor bounds power before the log so empty bins stay finite.
const dbFloor = 1e-20

// Spectrogram is a one-sided power spectral density per segment.
// Power[f][t] is the density at Freqs[f] for the segment centered at Times[t].
type Spectrogram struct {
	Freqs []float64
	Times []float64
	Power [][]float64
}

// Empty reports whether the spectrogram has no segments.
func (s *Spectrogram) Empty() bool {
	return s == nil || len(s.Times) == 0 || len(s.Freqs) == 0
}

// DB returns Power in decibels.
func (s *Spectrogram) DB() [][]float64 {
	out := make([][]float64, len(s.Power))
	for i, row := range s.Power {
		out[i] = make([]float64, len(row))
		for j, p := range row {
			out[i][j] = 10 * math.Log10(math.Max(p, dbFloor))
		}
	}
	return out
}

// ComputeSpectrogram splits x into Hann-windowed segments of nfft samples
// overlapping by noverlap and returns the PSD of each, scaled by
// 1/(fs*sum(w^2)) with non-edge bins doubled. Input shorter than one segment
// is zero-padded to nfft. Empty input or invalid sizes give an empty result.
func ComputeSpectrogram(x []float64, nfft, noverlap int, fs float64) *Spectrogram {
	if len(x) == 0 || nfft < 2 || noverlap < 0 || noverlap >= nfft {
		return &Spectrogram{}
	}
	if !finite(fs) || fs <= 0 {
		fs = 1
	}

	if len(x) < nfft {
		padded := make([]float64, nfft)
		copy(padded, x)
		x = padded
	}

	step := nfft - noverlap
	segments := (len(x) - noverlap) / step

	ones := make([]float64, nfft)
	for i := range ones {
		ones[i] = 1
	}
	win := window.Hann(ones)
	var winPower float64
	for _, w := range win {
		winPower += w * w
	}

	numFreqs := nfft/2 + 1
	spec := &Spectrogram{
		Freqs: make([]float64, numFreqs),
		Times: make([]float64, segments),
		Power: make([][]float64, numFreqs),
	}
	for k := range spec.Freqs {
		spec.Freqs[k] = float64(k) * fs / float64(nfft)
		spec.Power[k] = make([]float64, segments)
	}

	fft := fourier.NewFFT(nfft)
	seg := make([]float64, nfft)
	coeff := make([]complex128, numFreqs)
	scale := 1 / (fs * winPower)
	for t := 0; t < segments; t++ {
		start := t * step
		for i := range seg {
			seg[i] = x[start+i] * win[i]
		}
		fft.Coefficients(coeff, seg)

		for k, c := range coeff {
			p := cmplx.Abs(c)
			p *= p * scale
			if k > 0 && (nfft%2 == 1 || k < nfft/2) {
				p *= 2
			}
			spec.Power[k][t] = p
		}
		spec.Times[t] = (float64(nfft)/2 + float64(start)) / fs
	}
	return spec
}
