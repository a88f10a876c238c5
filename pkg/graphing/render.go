package graphing

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/components"

	"ViewTracker/pkg/analysis"
)

// Options controls titles, axis limits and the page refresh.
type Options struct {
	// Source names the scraped site in titles.
	Source    string
	SessionID string

	RateMin float64
	RateMax float64

	// Refresh adds a meta refresh to the page when positive.
	Refresh time.Duration
}

// InfoData feeds the "info" template.
type InfoData struct {
	Title      string
	SessionID  string
	Generated  time.Time
	Source     string
	Samples    int
	Elapsed    string
	SampleRate float64
	Regression analysis.Regression
	Summary    []analysis.ColumnSummary
}

// HeadData feeds the "head" template.
type HeadData struct {
	RefreshSeconds int
}

// RenderDashboard writes a standalone HTML page with the four panels:
// views, rate, spectrogram and autocorrelation.
func RenderDashboard(w io.Writer, r *analysis.Report, o Options) error {
	page := components.NewPage()
	page.SetPageTitle("ViewTracker " + o.Source)
	page.SetLayout(components.PageFlexLayout)

	page.AddCharts(
		createViewsChart(r, o),
		createRateChart(r, o),
	)
	if !r.Spectrogram.Empty() {
		page.AddCharts(createSpectrogramChart(r))
	}
	if len(r.ACF) > 0 {
		page.AddCharts(createACFChart(r))
	}

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return fmt.Errorf("failed to render charts: %w", err)
	}

	var info bytes.Buffer
	if err := templates.ExecuteTemplate(&info, "info", InfoData{
		Title:      viewsTitle(r, o),
		SessionID:  o.SessionID,
		Generated:  time.Now(),
		Source:     o.Source,
		Samples:    r.Series.Len(),
		Elapsed:    r.Elapsed,
		SampleRate: r.SampleRate,
		Regression: r.Features.Regression,
		Summary:    r.Summary,
	}); err != nil {
		return fmt.Errorf("failed to execute info template: %w", err)
	}

	var head bytes.Buffer
	if err := templates.ExecuteTemplate(&head, "head", HeadData{
		RefreshSeconds: int(o.Refresh / time.Second),
	}); err != nil {
		return fmt.Errorf("failed to execute head template: %w", err)
	}

	html := buf.String()
	html = strings.Replace(html, "</head>", head.String()+"</head>", 1)
	html = strings.Replace(html, "<body>", "<body>\n"+info.String(), 1)

	_, err := io.WriteString(w, html)
	return err
}

// WriteDashboard renders the dashboard to path.
func WriteDashboard(path string, r *analysis.Report, o Options) error {
	var buf bytes.Buffer
	if err := RenderDashboard(&buf, r, o); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write dashboard: %w", err)
	}
	return nil
}
