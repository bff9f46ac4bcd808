package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadFromDefaults(t *testing.T) {
	home := t.TempDir()
	cfg, err := LoadFrom(filepath.Join(home, "missing.toml"), home)
	if err != nil {
		t.Fatalf("expected no error for missing config file, got: %v", err)
	}
	if cfg.RunsRoot != "results" || cfg.EvalsRoot != "evals" {
		t.Errorf("roots = %s, %s", cfg.RunsRoot, cfg.EvalsRoot)
	}
	if cfg.DBPath != filepath.Join(home, ".config", "aev", "aev.db") {
		t.Errorf("db_path = %s", cfg.DBPath)
	}
	if !cfg.OpenReports {
		t.Error("open_reports should default to true")
	}
	if cfg.ComponentPath != filepath.Join("src", "routes", "+page.svelte") {
		t.Errorf("component_path = %s", cfg.ComponentPath)
	}
	if cfg.Experiment.Agent != "vercel-ai-gateway/opencode" || cfg.Experiment.Timeout != 600 {
		t.Errorf("experiment defaults = %+v", cfg.Experiment)
	}
}

func TestLoadFromFile(t *testing.T) {
	home := t.TempDir()
	path := filepath.Join(home, "config.toml")
	data := `
runs_root = "~/runs"
db_path = "/tmp/x.db"
open_reports = false
log_level = "debug"

[experiment]
runs = 3
models = ["vercel/a", "vercel/b"]

[experiments.mcp]
timeout = 900
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path, home)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.RunsRoot != filepath.Join(home, "runs") {
		t.Errorf("runs_root = %s", cfg.RunsRoot)
	}
	if cfg.DBPath != "/tmp/x.db" || cfg.OpenReports || cfg.LogLevel != "debug" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Experiment.Runs != 3 || !reflect.DeepEqual(cfg.Experiment.Models, []string{"vercel/a", "vercel/b"}) {
		t.Errorf("experiment = %+v", cfg.Experiment)
	}
	// keys absent from the file keep their defaults
	if cfg.Experiment.Sandbox != "docker" {
		t.Errorf("sandbox = %q, want docker", cfg.Experiment.Sandbox)
	}
	if cfg.Experiments["mcp"].Timeout != 900 {
		t.Errorf("experiments.mcp = %+v", cfg.Experiments["mcp"])
	}
}

func TestLoadFromInvalid(t *testing.T) {
	home := t.TempDir()
	path := filepath.Join(home, "config.toml")
	if err := os.WriteFile(path, []byte("runs_root = ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path, home); err == nil {
		t.Error("expected parse error")
	}
}

func TestExpandHome(t *testing.T) {
	if got := expandHome("~/a/b", "/home/u"); got != "/home/u/a/b" {
		t.Errorf("expandHome = %s", got)
	}
	if got := expandHome("~x", "/home/u"); got != "~x" {
		t.Errorf("expandHome = %s", got)
	}
}
