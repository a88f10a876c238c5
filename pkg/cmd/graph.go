package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"ViewTracker/pkg/analysis"
	"ViewTracker/pkg/graphing"
	"ViewTracker/pkg/series"
)

// Graph analyzes the series file once and writes the dashboard and PNG
// panels selected by -graph-format.
func Graph(args []string, stdout, stderr io.Writer) error {
	c, cleanup, err := InitCmd("graph", args, stderr)
	if err != nil {
		return err
	}
	defer cleanup()
	cfg := c.Config

	s, err := series.Read(c.Path)
	if err != nil {
		return err
	}

	r, err := analysis.Analyze(s, analysisOptions(cfg))
	if err != nil {
		return err
	}
	r.Print(stdout)

	outputDir := cfg.OutputDir
	if outputDir == "" {
		outputDir = defaultGraphDir(c.Path)
	}

	opts := graphOptions(cfg)
	opts.Refresh = 0
	gen, err := graphing.NewGenerator(outputDir, opts)
	if err != nil {
		return fmt.Errorf("failed to create generator: %w", err)
	}

	files, err := gen.Generate(r, cfg.GraphFormat)
	if err != nil {
		return fmt.Errorf("failed to generate graphs: %w", err)
	}
	for _, f := range files {
		c.Log.Info("wrote graph", zap.String("file", f))
	}
	return nil
}

// defaultGraphDir places graphs next to the input as <name>_graphs.
func defaultGraphDir(inputPath string) string {
	base := filepath.Base(inputPath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(inputPath), name+"_graphs")
}
