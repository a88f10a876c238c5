package cmd

import (
	"context"
	"io"

	"go.uber.org/zap"

	"ViewTracker/pkg/collecting"
	"ViewTracker/pkg/scheduling"
	"ViewTracker/pkg/scraping"
	"ViewTracker/pkg/series"
)

// Collect polls the configured page every period and appends each reading to
// the series file until ctx is canceled. A fetch or write failure that
// outlasts the retry policy stops collection with an error.
func Collect(ctx context.Context, args []string, stderr io.Writer) error {
	c, cleanup, err := InitCmd("collect", args, stderr)
	if err != nil {
		return err
	}
	defer cleanup()
	cfg := c.Config

	store := series.Open(c.Path)
	fetcher := scraping.NewFetcher(cfg.URL,
		scraping.WithTimeout(cfg.Timeout),
		scraping.WithElementID(cfg.ElementID),
		scraping.WithKeyPath(cfg.KeyPath),
		scraping.WithUserAgent(cfg.UserAgent),
	)
	collector := collecting.New(fetcher, store, cfg.Period,
		collecting.WithPolicy(scheduling.Policy{Retries: cfg.Retries, Backoff: cfg.Backoff}),
	)

	c.Log.Info("opened series", zap.String("url", cfg.URL), zap.String("path", c.Path))

	err = collector.Run(ctx)
	if ctx.Err() != nil {
		c.Log.Info("shutting down", zap.Int("collected", collector.Count()), zap.Int("total", store.Len()))
		return nil
	}
	if err != nil {
		fields := []zap.Field{zap.Error(err), zap.Int("collected", collector.Count())}
		if fe, ok := scraping.IsFetchError(err); ok {
			fields = append(fields, zap.String("kind", string(fe.Kind)))
		}
		c.Log.Error("collection stopped", fields...)
		return err
	}
	return nil
}
