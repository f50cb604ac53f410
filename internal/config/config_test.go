package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaultsAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load missing file: %v", err)
	}
	if c.HistogramBins != 10 || c.HTTPTimeoutSec != 30 || c.NCBITool != "biotab" || c.SOFTAllowMissingMarker {
		t.Fatalf("unexpected defaults: %+v", c)
	}

	if err := c.Set("histogram_bins", "25"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Set("soft_allow_missing_marker", "true"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := Save(c, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.HistogramBins != 25 || !reloaded.SOFTAllowMissingMarker {
		t.Fatalf("values not persisted: %+v", reloaded)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("BIOTAB_PLOT_WIDTH", "1024")
	c, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.PlotWidth != 1024 {
		t.Fatalf("plot_width = %d", c.PlotWidth)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("plot_width: [unterminated\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for malformed config")
	}
}

func TestSetValidation(t *testing.T) {
	c := &Global{}
	bad := map[string]string{
		"histogram_bins":            "0",
		"plot_width":                "wide",
		"soft_allow_missing_marker": "maybe",
		"log_level":                 "chatty",
		"ncbi_base_url":             "ftp://example.org",
		"nope":                      "1",
	}
	for k, v := range bad {
		if err := c.Set(k, v); err == nil {
			t.Fatalf("Set(%s, %s) should fail", k, v)
		}
	}
	if err := c.Set("log_level", "DEBUG"); err != nil || c.LogLevel != "debug" {
		t.Fatalf("log_level = %q, err %v", c.LogLevel, err)
	}
}

func TestLinesMaskKey(t *testing.T) {
	c := &Global{NCBIAPIKey: "abcdef123456"}
	joined := strings.Join(c.Lines(), "\n")
	if strings.Contains(joined, "abcdef123456") || !strings.Contains(joined, "ncbi_api_key: abc****456") {
		t.Fatalf("key not masked:\n%s", joined)
	}
	if Mask("abc") != "******" || Mask("") != "" {
		t.Fatalf("Mask short values")
	}
}
