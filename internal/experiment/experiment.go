// Package experiment holds the run settings shared by every benchmark
// experiment and merges per-experiment overrides onto them.
package experiment

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sort"
)

type Config struct {
	Agent     string   `toml:"agent" json:"agent"`
	Runs      int      `toml:"runs" json:"runs"`
	EarlyExit *bool    `toml:"early_exit" json:"earlyExit"`
	Models    []string `toml:"models" json:"model"`
	Scripts   []string `toml:"scripts" json:"scripts"`
	Timeout   int      `toml:"timeout" json:"timeout"`
	Sandbox   string   `toml:"sandbox" json:"sandbox"`

	// PromptSuffix is appended to every scenario prompt after a blank line.
	PromptSuffix string `toml:"prompt_suffix" json:"promptSuffix,omitempty"`
	// SetupFiles are written into the sandbox before the agent runs,
	// keyed by path relative to the sandbox root.
	SetupFiles map[string]string `toml:"setup_files" json:"setupFiles,omitempty"`
}

const pluginConfig = `{"plugin":["@sveltejs/opencode"]}`

// Builtins returns the experiments that ship with the harness. "mcp" runs
// the svelte plugin with skills off; "skill" runs it with MCP, subagents
// and instructions off and nudges the agent towards the skill.
func Builtins() map[string]Config {
	return map[string]Config{
		"mcp": {
			SetupFiles: map[string]string{
				".opencode/opencode.json": pluginConfig,
				".opencode/svelte.json":   `{"skills":{"enabled":false}}`,
			},
		},
		"skill": {
			PromptSuffix: "Use the svelte skill if needed.",
			SetupFiles: map[string]string{
				".opencode/opencode.json": pluginConfig,
				".opencode/svelte.json":   `{"mcp":{"enabled":false},"subagent":{"enabled":false},"instructions":{"enabled":false}}`,
			},
		},
	}
}

// EditPrompt applies the prompt suffix, if any.
func (c Config) EditPrompt(prompt string) string {
	if c.PromptSuffix == "" {
		return prompt
	}
	return prompt + "\n\n" + c.PromptSuffix
}

// SandboxFiles returns the files a run starts from: the scenario files
// overlaid with the experiment's setup files.
func (c Config) SandboxFiles(scenario map[string]string) map[string]string {
	out := make(map[string]string, len(scenario)+len(c.SetupFiles))
	maps.Copy(out, scenario)
	maps.Copy(out, c.SetupFiles)
	return out
}

// WriteFiles writes files under dir, creating parent directories. Paths
// that escape dir are rejected.
func WriteFiles(dir string, files map[string]string) error {
	names := make([]string, 0, len(files))
	for n := range files {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, name := range names {
		rel := filepath.FromSlash(name)
		if !filepath.IsLocal(rel) {
			return fmt.Errorf("setup file %q escapes the sandbox", name)
		}
		dst := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(dst, []byte(files[name]), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func Default() Config {
	earlyExit := true
	return Config{
		Agent:     "vercel-ai-gateway/opencode",
		Runs:      1,
		EarlyExit: &earlyExit,
		Scripts:   []string{"build", "test"},
		Timeout:   600,
		Sandbox:   "docker",
	}
}

// Merge returns base with every set field of override applied on top.
func Merge(base, override Config) Config {
	out := base
	if override.Agent != "" {
		out.Agent = override.Agent
	}
	if override.Runs != 0 {
		out.Runs = override.Runs
	}
	if override.EarlyExit != nil {
		v := *override.EarlyExit
		out.EarlyExit = &v
	}
	if override.Models != nil {
		out.Models = append([]string(nil), override.Models...)
	}
	if override.Scripts != nil {
		out.Scripts = append([]string(nil), override.Scripts...)
	}
	if override.Timeout != 0 {
		out.Timeout = override.Timeout
	}
	if override.Sandbox != "" {
		out.Sandbox = override.Sandbox
	}
	if override.PromptSuffix != "" {
		out.PromptSuffix = override.PromptSuffix
	}
	if override.SetupFiles != nil {
		files := make(map[string]string, len(out.SetupFiles)+len(override.SetupFiles))
		maps.Copy(files, out.SetupFiles)
		maps.Copy(files, override.SetupFiles)
		out.SetupFiles = files
	}
	return out
}

type Named struct {
	Name   string `json:"name"`
	Config Config `json:"config"`
}

// WithBuiltins layers user overrides onto the built-in experiments. A user
// entry sharing a built-in's name refines it field by field.
func WithBuiltins(user map[string]Config) map[string]Config {
	out := Builtins()
	for name, c := range user {
		if b, ok := out[name]; ok {
			out[name] = Merge(b, c)
			continue
		}
		out[name] = c
	}
	return out
}

// Resolve merges each named override onto base, sorted by name.
func Resolve(base Config, overrides map[string]Config) []Named {
	names := make([]string, 0, len(overrides))
	for n := range overrides {
		names = append(names, n)
	}
	sort.Strings(names)

	out := make([]Named, 0, len(names))
	for _, n := range names {
		out = append(out, Named{Name: n, Config: Merge(base, overrides[n])})
	}
	return out
}
