package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"ViewTracker/pkg/cmd"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	ctx, stop := cmd.SignalContext()
	defer stop()

	var err error
	switch command {
	case "collect", "c":
		err = cmd.Collect(ctx, args, os.Stderr)
	case "visualize", "v":
		err = cmd.Visualize(ctx, args, os.Stdout, os.Stderr)
	case "graph", "g":
		err = cmd.Graph(args, os.Stdout, os.Stderr)
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	switch {
	case err == nil:
	case errors.Is(err, flag.ErrHelp):
	case errors.Is(err, cmd.ErrMissingPath):
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		printUsage()
		stop()
		os.Exit(1)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`vtrack - page view counter tracker

Usage:
  vtrack <command> [flags] <file>

Commands:
  collect, c      Poll the page and append readings to <file> until Ctrl+C
  visualize, v    Reload <file> periodically and serve a live dashboard
  graph, g        Analyze <file> once and write graphs

The series format follows the file extension: .csv (default), .tsv, .jsonl,
.parquet.

Configuration:
  -config string       YAML configuration file
  Values are layered as defaults < config file < VTRACK_* environment < flags.

Source Flags:
  -url string          Page to scrape (default: http://skillhouse.gentv.com)
  -element-id string   id of the script element holding the JSON payload (default: __NEXT_DATA__)
  -key-path string     Dotted path of the value inside the payload (default: props.pageProps.media.views)
  -user-agent string   User-Agent header
  -timeout duration    Per-request timeout (default: 10s)

Collection Flags:
  -period duration     Polling period (default: 10s)
  -retries int         Fetch retries per cycle (default: 0, fail on first error)
  -backoff duration    Delay between retries, multiplied by the attempt number

Analysis Flags:
  -window int          Moving average window (default: 100)
  -max-lag int         Maximum autocorrelation lag (default: 360)
  -nfft int            Spectrogram segment length (default: 120)
  -noverlap int        Spectrogram segment overlap (default: 110)
  -rate-min float      Lower bound of the rate panel (default: 0)
  -rate-max float      Upper bound of the rate panel (default: 30)

Display Flags:
  -refresh duration    Dashboard refresh interval (default: 20s)
  -addr string         Dashboard listen address, empty disables (default: :8080)
  -output string       Graph output directory
  -graph-format string Graph format: html, png, all (default: all)

Log Flags:
  -log-level string    debug, info, warn, error (default: info)
  -log-file string     Also write JSON logs to this file

Examples:
  # Collect every 10 seconds
  vtrack collect views.csv

  # Live dashboard on port 9090
  vtrack visualize -addr :9090 views.csv

  # Write PNG graphs
  vtrack graph -graph-format png -output graphs/ views.parquet
`)
}
