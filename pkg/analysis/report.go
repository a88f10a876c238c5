package analysis

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"ViewTracker/pkg/series"
)

// Options sets the window sizes used by Analyze.
type Options struct {
	Window   int
	MaxLag   int
	NFFT     int
	NOverlap int
}

// Report bundles every derived view of one series snapshot.
type Report struct {
	Series      *series.Series  `json:"-"`
	Features    *Features       `json:"features"`
	Summary     []ColumnSummary `json:"summary"`
	ACF         []float64       `json:"-"`
	Spectrogram *Spectrogram    `json:"-"`
	SampleRate  float64         `json:"sample_rate"`
	Span        time.Duration   `json:"span"`
	Elapsed     string          `json:"elapsed"`
}

// Analyze derives features, statistics, the ACF of the detrended views and
// the spectrogram of the centered rate.
func Analyze(s *series.Series, opts Options) (*Report, error) {
	f := Derive(s, opts.Window)
	summary, err := Describe(f)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize: %w", err)
	}

	fs := f.SampleRate()
	span := s.Span()
	return &Report{
		Series:      s,
		Features:    f,
		Summary:     summary,
		ACF:         Autocorrelation(f.Detrended, opts.MaxLag),
		Spectrogram: ComputeSpectrogram(f.CenteredRate(), opts.NFFT, opts.NOverlap, fs),
		SampleRate:  fs,
		Span:        span,
		Elapsed:     FormatElapsed(span),
	}, nil
}

// Print writes the series table, the summary table and the regression.
func (r *Report) Print(w io.Writer) {
	PrintSeries(w, r.Series)
	fmt.Fprintln(w, "Statistical summary:")
	PrintSummary(w, r.Summary)
	PrintRegression(w, r.Features.Regression)
}

// headTail is how many rows PrintSeries keeps at each end of a long series.
const headTail = 5

// PrintSeries writes the samples as a table, eliding the middle of series
// longer than ten rows.
func PrintSeries(w io.Writer, s *series.Series) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"", series.ColumnTime, series.ColumnViews})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	n := s.Len()
	row := func(i int) []string {
		return []string{strconv.Itoa(i), formatNumber(s.Samples[i].Time), formatNumber(s.Samples[i].Views)}
	}
	if n <= 2*headTail {
		for i := 0; i < n; i++ {
			table.Append(row(i))
		}
	} else {
		for i := 0; i < headTail; i++ {
			table.Append(row(i))
		}
		table.Append([]string{"...", "...", "..."})
		for i := n - headTail; i < n; i++ {
			table.Append(row(i))
		}
	}
	table.Render()
	fmt.Fprintf(w, "[%d rows x 2 columns]\n", n)
}

// PrintSummary writes one row per statistic and one column per feature.
func PrintSummary(w io.Writer, summary []ColumnSummary) {
	table := tablewriter.NewWriter(w)
	header := []string{""}
	for _, c := range summary {
		header = append(header, c.Name)
	}
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	stats := []struct {
		label string
		get   func(ColumnSummary) float64
	}{
		{"count", func(c ColumnSummary) float64 { return float64(c.Count) }},
		{"mean", func(c ColumnSummary) float64 { return c.Mean }},
		{"std", func(c ColumnSummary) float64 { return c.Std }},
		{"min", func(c ColumnSummary) float64 { return c.Min }},
		{"25%", func(c ColumnSummary) float64 { return c.Q25 }},
		{"50%", func(c ColumnSummary) float64 { return c.Q50 }},
		{"75%", func(c ColumnSummary) float64 { return c.Q75 }},
		{"max", func(c ColumnSummary) float64 { return c.Max }},
	}
	for _, st := range stats {
		row := []string{st.label}
		for _, c := range summary {
			row = append(row, formatNumber(st.get(c)))
		}
		table.Append(row)
	}
	table.Render()
}

// PrintRegression writes the fit coefficients with four decimals.
func PrintRegression(w io.Writer, reg Regression) {
	if !reg.Valid {
		fmt.Fprintf(w, "Regression unavailable: need at least two samples at distinct times (have %d)\n", reg.N)
		return
	}
	fmt.Fprintf(w, "Slope: %.4f\n", reg.Slope)
	fmt.Fprintf(w, "Intercept: %.4f\n", reg.Intercept)
	fmt.Fprintf(w, "R-squared: %.4f\n", reg.RSquared)
	fmt.Fprintf(w, "P-value: %.4f\n", reg.PValue)
	fmt.Fprintf(w, "Standard Error: %.4f\n", reg.StdErr)
}

func formatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case v == math.Trunc(v) && math.Abs(v) < 1e15:
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}
