package graphing

import (
	"fmt"
	"math"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"ViewTracker/pkg/analysis"
)

// missing is the ECharts placeholder for an absent data point.
const missing = "-"

func chartInit() charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "400px"})
}

// xyData pairs x and y into value-axis points, leaving gaps for NaN and Inf.
func xyData(x, y []float64) []opts.LineData {
	data := make([]opts.LineData, 0, len(x))
	for i := range x {
		var v interface{} = missing
		if i < len(y) && finite(y[i]) {
			v = y[i]
		}
		data = append(data, opts.LineData{Value: []interface{}{x[i], v}})
	}
	return data
}

// createViewsChart plots the raw counter against elapsed seconds.
func createViewsChart(r *analysis.Report, o Options) *charts.Line {
	line := charts.NewLine()
	f := r.Features

	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    viewsTitle(r, o),
			Subtitle: regressionSubtitle(f.Regression),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10%"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "Time from Start (seconds)"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "Views", Scale: opts.Bool(true)}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
		chartInit(),
	)

	line.AddSeries("Views", xyData(f.Elapsed, f.Views),
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
	)

	if f.Regression.Valid {
		trend := make([]float64, len(f.Elapsed))
		for i, e := range f.Elapsed {
			trend[i] = f.Regression.Predict(e)
		}
		line.AddSeries("Linear trend", xyData(f.Elapsed, trend),
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
			charts.WithLineStyleOpts(opts.LineStyle{Type: "dashed"}),
		)
	}
	return line
}

// createRateChart plots the derivative and its centered moving average.
func createRateChart(r *analysis.Report, o Options) *charts.Line {
	line := charts.NewLine()
	f := r.Features

	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Derivative of Views with Moving Average"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10%"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "Time from Start (seconds)"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "Derivative [views/second]", Min: o.RateMin, Max: o.RateMax}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
		chartInit(),
	)

	line.AddSeries("Derivative", xyData(f.Elapsed, f.Rate),
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
	)
	line.AddSeries(fmt.Sprintf("Moving Average (%d)", f.Window), xyData(f.Elapsed, f.SmoothedRate),
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "orange"}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: "orange", Width: 2}),
	)
	return line
}

// createSpectrogramChart renders the rate spectrogram in decibels.
func createSpectrogramChart(r *analysis.Report) *charts.HeatMap {
	heatmap := charts.NewHeatMap()
	spec := r.Spectrogram

	timeLabels := make([]string, len(spec.Times))
	for i, t := range spec.Times {
		timeLabels[i] = strconv.FormatFloat(t, 'f', 0, 64)
	}
	freqLabels := make([]string, len(spec.Freqs))
	for i, fr := range spec.Freqs {
		freqLabels[i] = strconv.FormatFloat(fr, 'g', 3, 64)
	}

	db := spec.DB()
	minVal, maxVal := math.Inf(1), math.Inf(-1)
	data := make([]opts.HeatMapData, 0, len(spec.Times)*len(spec.Freqs))
	for xi := range spec.Times {
		for yi := range spec.Freqs {
			v := db[yi][xi]
			minVal = math.Min(minVal, v)
			maxVal = math.Max(maxVal, v)
			data = append(data, opts.HeatMapData{Value: [3]interface{}{xi, yi, v}})
		}
	}
	if len(data) == 0 {
		minVal, maxVal = 0, 0
	}

	heatmap.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Spectrogram of Derivative of Views",
			Subtitle: fmt.Sprintf("PSD in dB, fs = %.4g Hz", r.SampleRate),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Name: "Time from Start (seconds)"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Name: "Frequency (Hz)", Data: freqLabels}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        float32(minVal),
			Max:        float32(maxVal),
			InRange: &opts.VisualMapInRange{
				Color: []string{
					"#000080", "#0000ff", "#00bfff", "#00ff7f", "#7fff00",
					"#ffff00", "#ff7f00", "#ff0000", "#ff00ff", "#ffffff",
				},
			},
		}),
		chartInit(),
	)

	heatmap.SetXAxis(timeLabels).AddSeries("PSD", data)
	return heatmap
}

// createACFChart draws the autocorrelation of the detrended views as a stem
// plot: thin bars with a marker on top.
func createACFChart(r *analysis.Report) *charts.Bar {
	bar := charts.NewBar()

	lags := make([]string, len(r.ACF))
	data := make([]opts.BarData, len(r.ACF))
	for i, v := range r.ACF {
		lags[i] = strconv.Itoa(i)
		if finite(v) {
			data[i] = opts.BarData{Value: v}
		} else {
			data[i] = opts.BarData{Value: missing}
		}
	}

	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "ACF(Views - Linear Trend)"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Name: "Lag [samples]"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "Autocorrelation", Min: -1, Max: 1}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
		chartInit(),
	)

	bar.SetXAxis(lags).AddSeries("ACF", data,
		charts.WithBarChartOpts(opts.BarChart{BarWidth: "1"}),
	)
	return bar
}

func viewsTitle(r *analysis.Report, o Options) string {
	title := fmt.Sprintf("'Views' Over Time (%s)", r.Elapsed)
	if o.Source != "" {
		title += " on " + o.Source
	}
	return title
}

func regressionSubtitle(reg analysis.Regression) string {
	if !reg.Valid {
		return "regression needs at least two samples"
	}
	return fmt.Sprintf("slope %.4f views/s, R² %.4f, p %.4f", reg.Slope, reg.RSquared, reg.PValue)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
