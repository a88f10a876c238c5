// Package cmd implements the vtrack subcommands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"ViewTracker/pkg/analysis"
	"ViewTracker/pkg/config"
	"ViewTracker/pkg/graphing"
	"ViewTracker/pkg/logging"
)

// ErrMissingPath is returned when a command is run without its series file.
var ErrMissingPath = errors.New("series file path is required")

// CmdContext holds initialized command resources.
type CmdContext struct {
	Config *config.Config
	Path   string
	Log    *zap.Logger
}

// InitCmd parses flags for a subcommand, takes the series path from the
// single positional argument and initializes logging. The returned cleanup
// flushes the logger.
func InitCmd(name string, args []string, stderr io.Writer) (*CmdContext, func(), error) {
	cfg, rest, err := config.Parse(name, args, stderr)
	if err != nil {
		return nil, nil, err
	}
	switch {
	case len(rest) == 0:
		return nil, nil, ErrMissingPath
	case len(rest) > 1:
		return nil, nil, fmt.Errorf("expected one series file, got %d arguments", len(rest))
	}

	if err := logging.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, nil, err
	}

	ctx := &CmdContext{
		Config: cfg,
		Path:   rest[0],
		Log:    logging.Component(name).With(zap.String("session", cfg.SessionID)),
	}
	return ctx, logging.Sync, nil
}

// SignalContext returns a context canceled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func analysisOptions(cfg *config.Config) analysis.Options {
	return analysis.Options{
		Window:   cfg.Window,
		MaxLag:   cfg.MaxLag,
		NFFT:     cfg.NFFT,
		NOverlap: cfg.NOverlap,
	}
}

func graphOptions(cfg *config.Config) graphing.Options {
	return graphing.Options{
		Source:    sourceHost(cfg.URL),
		SessionID: cfg.SessionID,
		RateMin:   cfg.RateMin,
		RateMax:   cfg.RateMax,
		Refresh:   cfg.Refresh,
	}
}

// sourceHost returns the host part of a URL, or the URL itself when it
// does not parse.
func sourceHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return u.Hostname()
}
