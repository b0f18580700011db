package cliconfig

import (
	"os"
	"testing"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load("/nonexistent/dbcctl.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("got %+v, want defaults", cfg)
	}
}

func TestLoadOverlaysDefinedKeys(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/dbcctl.toml"
	content := []byte("log_level = \"debug\"\nstrict_boundaries = true\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("os.WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("got LogLevel=%q", cfg.LogLevel)
	}
	if !cfg.StrictBoundaries {
		t.Fatal("expected StrictBoundaries to be true")
	}
	if cfg.LogFormat != Default().LogFormat {
		t.Fatalf("unset key should keep its default, got %q", cfg.LogFormat)
	}
}
