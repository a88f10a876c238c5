package config

import (
	"flag"
	"fmt"
	"io"
)

// AddSourceFlags adds scrape target flags.
func (c *Config) AddSourceFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.URL, "url", c.URL, "Page to scrape")
	fs.StringVar(&c.ElementID, "element-id", c.ElementID, "id of the script element holding the JSON payload")
	fs.StringVar(&c.KeyPath, "key-path", c.KeyPath, "Dotted path of the metric inside the payload")
	fs.StringVar(&c.UserAgent, "user-agent", c.UserAgent, "User-Agent header")
	fs.DurationVar(&c.Timeout, "timeout", c.Timeout, "Per-request timeout")
}

// AddCollectionFlags adds polling loop flags.
func (c *Config) AddCollectionFlags(fs *flag.FlagSet) {
	fs.DurationVar(&c.Period, "period", c.Period, "Polling period")
	fs.IntVar(&c.Retries, "retries", c.Retries, "Fetch retries per cycle before giving up (0 = fail on first error)")
	fs.DurationVar(&c.Backoff, "backoff", c.Backoff, "Delay between fetch retries, multiplied by the attempt number")
}

// AddAnalysisFlags adds feature derivation flags.
func (c *Config) AddAnalysisFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.Window, "window", c.Window, "Moving average window (samples)")
	fs.IntVar(&c.MaxLag, "max-lag", c.MaxLag, "Maximum autocorrelation lag (samples)")
	fs.IntVar(&c.NFFT, "nfft", c.NFFT, "Spectrogram segment length")
	fs.IntVar(&c.NOverlap, "noverlap", c.NOverlap, "Spectrogram segment overlap")
	fs.Float64Var(&c.RateMin, "rate-min", c.RateMin, "Lower bound of the rate panel")
	fs.Float64Var(&c.RateMax, "rate-max", c.RateMax, "Upper bound of the rate panel")
}

// AddDisplayFlags adds dashboard and graph output flags.
func (c *Config) AddDisplayFlags(fs *flag.FlagSet) {
	fs.DurationVar(&c.Refresh, "refresh", c.Refresh, "Dashboard refresh interval")
	fs.StringVar(&c.Addr, "addr", c.Addr, "Dashboard listen address (empty disables the server)")
	fs.StringVar(&c.OutputDir, "output", c.OutputDir, "Graph output directory")
	fs.StringVar(&c.GraphFormat, "graph-format", c.GraphFormat, "Graph format (html, png, all)")
}

// AddLogFlags adds logging flags.
func (c *Config) AddLogFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "Also write JSON logs to this file")
}

// AddAllFlags adds all flags to a flag set.
func (c *Config) AddAllFlags(fs *flag.FlagSet) {
	c.AddSourceFlags(fs)
	c.AddCollectionFlags(fs)
	c.AddAnalysisFlags(fs)
	c.AddDisplayFlags(fs)
	c.AddLogFlags(fs)
}

// Parse builds a Config for a subcommand. Values are layered as
// defaults < YAML file (-config) < VTRACK_* environment < flags.
// The remaining positional arguments are returned.
func Parse(name string, args []string, output io.Writer) (*Config, []string, error) {
	// First pass only discovers -config; errors surface in the second pass.
	probe := flag.NewFlagSet(name, flag.ContinueOnError)
	probe.SetOutput(io.Discard)
	configPath := probe.String("config", "", "")
	New().AddAllFlags(probe)
	_ = probe.Parse(args)

	cfg := New()
	if *configPath != "" {
		if err := cfg.LoadFile(*configPath); err != nil {
			return nil, nil, err
		}
	}
	if err := cfg.LoadEnv(); err != nil {
		return nil, nil, err
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)
	fs.String("config", *configPath, "YAML configuration file")
	cfg.AddAllFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, fs.Args(), nil
}
