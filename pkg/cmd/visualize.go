package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ViewTracker/pkg/analysis"
	"ViewTracker/pkg/graphing"
	"ViewTracker/pkg/scheduling"
	"ViewTracker/pkg/series"
)

const shutdownTimeout = 5 * time.Second

// dashboard holds the most recently rendered page.
type dashboard struct {
	mu      sync.RWMutex
	page    []byte
	report  *analysis.Report
	updated time.Time
}

// featuresResponse is the body of GET /features.
type featuresResponse struct {
	SessionID  string                   `json:"session_id"`
	Updated    time.Time                `json:"updated"`
	Samples    int                      `json:"samples"`
	Elapsed    string                   `json:"elapsed"`
	SampleRate float64                  `json:"sample_rate"`
	Regression analysis.Regression      `json:"regression"`
	Summary    []analysis.ColumnSummary `json:"summary"`
}

func (d *dashboard) set(page []byte, r *analysis.Report, at time.Time) {
	d.mu.Lock()
	d.page = page
	d.report = r
	d.updated = at
	d.mu.Unlock()
}

func (d *dashboard) handler(sessionID string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", d.handlePage)
	mux.HandleFunc("/health", handleHealth)
	mux.HandleFunc("/features", func(w http.ResponseWriter, r *http.Request) {
		d.handleFeatures(w, r, sessionID)
	})
	return mux
}

func (d *dashboard) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	d.mu.RLock()
	page := d.page
	d.mu.RUnlock()

	if page == nil {
		http.Error(w, "dashboard not rendered yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (d *dashboard) handleFeatures(w http.ResponseWriter, r *http.Request, sessionID string) {
	d.mu.RLock()
	report, updated := d.report, d.updated
	d.mu.RUnlock()

	if report == nil {
		http.Error(w, "no analysis available yet", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(featuresResponse{
		SessionID:  sessionID,
		Updated:    updated,
		Samples:    report.Series.Len(),
		Elapsed:    report.Elapsed,
		SampleRate: report.SampleRate,
		Regression: report.Features.Regression,
		Summary:    report.Summary,
	})
}

// Visualize reloads the series file every refresh interval, prints the
// tables to stdout and serves the rendered dashboard over HTTP until ctx is
// canceled. An empty -addr disables the server.
func Visualize(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	c, cleanup, err := InitCmd("visualize", args, stderr)
	if err != nil {
		return err
	}
	defer cleanup()
	cfg := c.Config

	d := &dashboard{}
	g, gctx := errgroup.WithContext(ctx)

	if cfg.Addr != "" {
		srv := &http.Server{
			Addr:         cfg.Addr,
			Handler:      d.handler(cfg.SessionID),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		}
		g.Go(func() error {
			c.Log.Info("HTTP server listening", zap.String("addr", cfg.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		for {
			if err := refresh(c, d, stdout); err != nil {
				c.Log.Warn("refresh failed", zap.Error(err))
			}
			if err := scheduling.Sleep(gctx, cfg.Refresh); err != nil {
				return err
			}
		}
	})

	err = g.Wait()
	if err != nil && ctx.Err() == nil {
		c.Log.Error("visualizer stopped", zap.Error(err))
		return err
	}
	c.Log.Info("shutting down")
	return nil
}

// refresh runs one reload, derive, print and render pass.
func refresh(c *CmdContext, d *dashboard, stdout io.Writer) error {
	cfg := c.Config
	s := series.Load(c.Path)

	r, err := analysis.Analyze(s, analysisOptions(cfg))
	if err != nil {
		return err
	}
	r.Print(stdout)

	var buf bytes.Buffer
	if err := graphing.RenderDashboard(&buf, r, graphOptions(cfg)); err != nil {
		return err
	}
	d.set(buf.Bytes(), r, time.Now())
	c.Log.Debug("dashboard refreshed", zap.Int("samples", s.Len()))

	if cfg.OutputDir != "" {
		path := filepath.Join(cfg.OutputDir, graphing.DashboardFile)
		if err := graphing.WriteDashboard(path, r, graphOptions(cfg)); err != nil {
			return err
		}
	}
	return nil
}
