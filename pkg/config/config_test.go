package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := New()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if cfg.Period != 10*time.Second || cfg.Window != 100 || cfg.MaxLag != 360 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.SessionID == "" {
		t.Error("session id not generated")
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty url", func(c *Config) { c.URL = "" }},
		{"zero period", func(c *Config) { c.Period = 0 }},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }},
		{"negative retries", func(c *Config) { c.Retries = -1 }},
		{"negative backoff", func(c *Config) { c.Backoff = -time.Second }},
		{"zero window", func(c *Config) { c.Window = 0 }},
		{"negative max lag", func(c *Config) { c.MaxLag = -1 }},
		{"tiny nfft", func(c *Config) { c.NFFT = 1 }},
		{"overlap equals nfft", func(c *Config) { c.NOverlap = c.NFFT }},
		{"empty rate range", func(c *Config) { c.RateMin, c.RateMax = 5, 5 }},
		{"zero refresh", func(c *Config) { c.Refresh = 0 }},
		{"bad graph format", func(c *Config) { c.GraphFormat = "svg" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate accepted invalid config")
			}
		})
	}
}

func TestParseLayering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vtrack.yaml")
	yaml := "url: http://file.example\nperiod: 30s\nwindow: 20\nretries: 2\n"
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("VTRACK_PERIOD", "15s")
	t.Setenv("VTRACK_WINDOW", "40")

	cfg, rest, err := Parse("collect", []string{"-config", path, "-window", "60", "views.csv"}, io.Discard)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.URL != "http://file.example" {
		t.Errorf("url = %q; want value from file", cfg.URL)
	}
	if cfg.Retries != 2 {
		t.Errorf("retries = %d; want 2 from file", cfg.Retries)
	}
	if cfg.Period != 15*time.Second {
		t.Errorf("period = %v; want 15s from environment", cfg.Period)
	}
	if cfg.Window != 60 {
		t.Errorf("window = %d; want 60 from flag", cfg.Window)
	}
	if cfg.NFFT != DefaultNFFT {
		t.Errorf("nfft = %d; want default", cfg.NFFT)
	}
	if len(rest) != 1 || rest[0] != "views.csv" {
		t.Errorf("rest = %v", rest)
	}
}

func TestParseErrors(t *testing.T) {
	tests := map[string][]string{
		"unknown flag":   {"-nope", "views.csv"},
		"missing config": {"-config", filepath.Join(t.TempDir(), "absent.yaml")},
		"invalid value":  {"-noverlap", "500"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			if _, _, err := Parse("graph", args, io.Discard); err == nil {
				t.Error("Parse succeeded")
			}
		})
	}
}

func TestParseBadEnvironment(t *testing.T) {
	t.Setenv("VTRACK_RETRIES", "many")
	if _, _, err := Parse("collect", []string{"views.csv"}, io.Discard); err == nil {
		t.Error("Parse accepted a non-numeric VTRACK_RETRIES")
	}
}
