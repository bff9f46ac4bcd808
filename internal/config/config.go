package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/Zuo-Peng/ai-evals/internal/experiment"
)

type Config struct {
	RunsRoot      string `toml:"runs_root"`
	EvalsRoot     string `toml:"evals_root"`
	DBPath        string `toml:"db_path"`
	ComponentPath string `toml:"component_path"`
	OpenReports   bool   `toml:"open_reports"`
	LogLevel      string `toml:"log_level"`

	Experiment  experiment.Config            `toml:"experiment"`
	Experiments map[string]experiment.Config `toml:"experiments"`
}

func defaultConfigPath(home string) string {
	return filepath.Join(home, ".config", "aev", "config.toml")
}

func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(defaultConfigPath(home), home)
}

// LoadFrom reads cfgPath over the defaults. A missing file yields the
// defaults.
func LoadFrom(cfgPath, home string) (*Config, error) {
	cfg := &Config{
		RunsRoot:      "results",
		EvalsRoot:     "evals",
		DBPath:        filepath.Join(home, ".config", "aev", "aev.db"),
		ComponentPath: filepath.Join("src", "routes", "+page.svelte"),
		OpenReports:   true,
		LogLevel:      "info",
		Experiment:    experiment.Default(),
	}

	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	// expand ~ in paths
	cfg.RunsRoot = expandHome(cfg.RunsRoot, home)
	cfg.EvalsRoot = expandHome(cfg.EvalsRoot, home)
	cfg.DBPath = expandHome(cfg.DBPath, home)

	return cfg, nil
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
