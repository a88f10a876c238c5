// Package graphing renders view-count analyses as an HTML dashboard and as
// PNG images.
package graphing

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"ViewTracker/pkg/analysis"
	"ViewTracker/pkg/logging"
)

const (
	defaultWidth  = 12 * vg.Inch
	defaultHeight = 4 * vg.Inch

	// DashboardFile is the HTML file name written by Generate.
	DashboardFile = "dashboard.html"
)

// Graph formats accepted by Generate.
const (
	FormatHTML = "html"
	FormatPNG  = "png"
	FormatAll  = "all"
)

// Generator writes dashboards and images for one report.
type Generator struct {
	outputDir string
	opts      Options
	log       *zap.Logger
}

// NewGenerator creates a generator writing into outputDir.
func NewGenerator(outputDir string, o Options) (*Generator, error) {
	if outputDir == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	return &Generator{
		outputDir: outputDir,
		opts:      o,
		log:       logging.Component("graphing"),
	}, nil
}

// Generate writes the requested formats and returns the files created.
func (g *Generator) Generate(r *analysis.Report, format string) ([]string, error) {
	if err := os.MkdirAll(g.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var files []string
	if format == FormatHTML || format == FormatAll {
		path := filepath.Join(g.outputDir, DashboardFile)
		if err := WriteDashboard(path, r, g.opts); err != nil {
			return files, err
		}
		files = append(files, path)
	}
	if format == FormatPNG || format == FormatAll {
		pngs, err := g.WriteImages(r)
		files = append(files, pngs...)
		if err != nil {
			return files, err
		}
	}
	if format != FormatHTML && format != FormatPNG && format != FormatAll {
		return nil, fmt.Errorf("unsupported graph format: %s", format)
	}

	g.log.Info("generated graphs", zap.String("dir", g.outputDir), zap.Int("files", len(files)))
	return files, nil
}

// WriteImages renders each panel to its own PNG. Panels without data are
// skipped with a warning.
func (g *Generator) WriteImages(r *analysis.Report) ([]string, error) {
	if r.Series.Len() < 2 {
		return nil, fmt.Errorf("need at least 2 samples to generate graphs, got %d", r.Series.Len())
	}

	renderers := []struct {
		name   string
		render func(*analysis.Report) (*plot.Plot, error)
	}{
		{"views.png", g.viewsPlot},
		{"rate.png", g.ratePlot},
		{"spectrogram.png", g.spectrogramPlot},
		{"acf.png", g.acfPlot},
	}

	var files []string
	for _, rd := range renderers {
		p, err := rd.render(r)
		if err != nil {
			g.log.Warn("skipping graph", zap.String("file", rd.name), zap.Error(err))
			continue
		}
		path := filepath.Join(g.outputDir, rd.name)
		if err := p.Save(defaultWidth, defaultHeight, path); err != nil {
			return files, fmt.Errorf("failed to save %s: %w", rd.name, err)
		}
		files = append(files, path)
	}
	return files, nil
}

// finiteXYs keeps the points where both coordinates are finite.
func finiteXYs(x, y []float64) plotter.XYs {
	var pts plotter.XYs
	for i := range x {
		if i < len(y) && finite(x[i]) && finite(y[i]) {
			pts = append(pts, plotter.XY{X: x[i], Y: y[i]})
		}
	}
	return pts
}

func (g *Generator) viewsPlot(r *analysis.Report) (*plot.Plot, error) {
	f := r.Features
	p := plot.New()
	p.Title.Text = viewsTitle(r, g.opts)
	p.X.Label.Text = "Time from Start (seconds)"
	p.Y.Label.Text = "Views"

	line, err := plotter.NewLine(finiteXYs(f.Elapsed, f.Views))
	if err != nil {
		return nil, err
	}
	line.Color = plotutil.Color(0)
	p.Add(line, plotter.NewGrid())
	p.Legend.Add("Views", line)

	if f.Regression.Valid {
		first, last := f.Elapsed[0], f.Elapsed[len(f.Elapsed)-1]
		trend, err := plotter.NewLine(plotter.XYs{
			{X: first, Y: f.Regression.Predict(first)},
			{X: last, Y: f.Regression.Predict(last)},
		})
		if err != nil {
			return nil, err
		}
		trend.Color = plotutil.Color(1)
		trend.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(trend)
		p.Legend.Add("Linear trend", trend)
	}
	p.Legend.Top = true
	return p, nil
}

func (g *Generator) ratePlot(r *analysis.Report) (*plot.Plot, error) {
	f := r.Features
	p := plot.New()
	p.Title.Text = "Derivative of Views with Moving Average"
	p.X.Label.Text = "Time from Start (seconds)"
	p.Y.Label.Text = "Derivative [views/second]"

	rate, err := plotter.NewLine(finiteXYs(f.Elapsed, f.Rate))
	if err != nil {
		return nil, err
	}
	rate.Color = plotutil.Color(0)
	p.Add(rate, plotter.NewGrid())
	p.Legend.Add("Derivative", rate)

	if smoothed := finiteXYs(f.Elapsed, f.SmoothedRate); len(smoothed) > 0 {
		avg, err := plotter.NewLine(smoothed)
		if err != nil {
			return nil, err
		}
		avg.Color = color.RGBA{R: 255, G: 165, A: 255}
		avg.Width = vg.Points(2)
		p.Add(avg)
		p.Legend.Add("Moving Average", avg)
	}

	p.Y.Min = g.opts.RateMin
	p.Y.Max = g.opts.RateMax
	p.Legend.Top = true
	return p, nil
}

// specGrid adapts a spectrogram to plotter.GridXYZ, in decibels.
type specGrid struct {
	spec *analysis.Spectrogram
	db   [][]float64
}

func (s specGrid) Dims() (c, r int)   { return len(s.spec.Times), len(s.spec.Freqs) }
func (s specGrid) Z(c, r int) float64 { return s.db[r][c] }
func (s specGrid) X(c int) float64    { return s.spec.Times[c] }
func (s specGrid) Y(r int) float64    { return s.spec.Freqs[r] }

func (g *Generator) spectrogramPlot(r *analysis.Report) (*plot.Plot, error) {
	if r.Spectrogram.Empty() {
		return nil, fmt.Errorf("spectrogram is empty")
	}

	p := plot.New()
	p.Title.Text = "Spectrogram of Derivative of Views"
	p.X.Label.Text = "Time from Start (seconds)"
	p.Y.Label.Text = "Frequency (Hz)"

	grid := specGrid{spec: r.Spectrogram, db: r.Spectrogram.DB()}
	p.Add(plotter.NewHeatMap(grid, palette.Heat(64, 1)))
	return p, nil
}

func (g *Generator) acfPlot(r *analysis.Report) (*plot.Plot, error) {
	if len(r.ACF) == 0 {
		return nil, fmt.Errorf("autocorrelation is empty")
	}

	p := plot.New()
	p.Title.Text = "ACF(Views - Linear Trend)"
	p.X.Label.Text = "Lag [samples]"
	p.Y.Label.Text = "Autocorrelation"

	values := make(plotter.Values, len(r.ACF))
	heads := make(plotter.XYs, 0, len(r.ACF))
	for i, v := range r.ACF {
		if !finite(v) {
			continue
		}
		values[i] = v
		heads = append(heads, plotter.XY{X: float64(i), Y: v})
	}

	stems, err := plotter.NewBarChart(values, vg.Points(1))
	if err != nil {
		return nil, err
	}
	stems.Color = plotutil.Color(0)
	stems.LineStyle.Width = 0
	p.Add(stems, plotter.NewGrid())

	if len(heads) > 0 {
		markers, err := plotter.NewScatter(heads)
		if err != nil {
			return nil, err
		}
		markers.Color = plotutil.Color(0)
		markers.Radius = vg.Points(1.5)
		p.Add(markers)
	}
	return p, nil
}
