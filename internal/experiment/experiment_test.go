package experiment

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestMerge(t *testing.T) {
	base := Default()
	base.Models = []string{"vercel/a"}

	off := false
	got := Merge(base, Config{Runs: 5, EarlyExit: &off, Sandbox: "local"})

	if got.Runs != 5 || got.Sandbox != "local" || *got.EarlyExit {
		t.Errorf("merged = %+v", got)
	}
	if got.Agent != base.Agent || got.Timeout != 600 {
		t.Errorf("unset fields should keep base values: %+v", got)
	}
	if !reflect.DeepEqual(got.Models, []string{"vercel/a"}) {
		t.Errorf("models = %v", got.Models)
	}
	if !*base.EarlyExit {
		t.Error("merge mutated the base config")
	}
}

func TestResolve(t *testing.T) {
	base := Default()
	got := Resolve(base, map[string]Config{
		"skill": {Scripts: []string{"test"}},
		"mcp":   {Timeout: 900},
	})
	if len(got) != 2 || got[0].Name != "mcp" || got[1].Name != "skill" {
		t.Fatalf("resolved = %+v", got)
	}
	if got[0].Config.Timeout != 900 || !reflect.DeepEqual(got[1].Config.Scripts, []string{"test"}) {
		t.Errorf("resolved = %+v", got)
	}
}

func TestBuiltins(t *testing.T) {
	b := Builtins()
	mcp, skill := b["mcp"], b["skill"]

	if mcp.PromptSuffix != "" || mcp.EditPrompt("Build it.") != "Build it." {
		t.Errorf("mcp prompt = %q", mcp.EditPrompt("Build it."))
	}
	if got := skill.EditPrompt("Build it."); got != "Build it.\n\nUse the svelte skill if needed." {
		t.Errorf("skill prompt = %q", got)
	}
	for name, c := range b {
		if c.SetupFiles[".opencode/opencode.json"] != `{"plugin":["@sveltejs/opencode"]}` {
			t.Errorf("%s: opencode.json = %q", name, c.SetupFiles[".opencode/opencode.json"])
		}
	}
	if mcp.SetupFiles[".opencode/svelte.json"] != `{"skills":{"enabled":false}}` {
		t.Errorf("mcp svelte.json = %q", mcp.SetupFiles[".opencode/svelte.json"])
	}
	if skill.SetupFiles[".opencode/svelte.json"] != `{"mcp":{"enabled":false},"subagent":{"enabled":false},"instructions":{"enabled":false}}` {
		t.Errorf("skill svelte.json = %q", skill.SetupFiles[".opencode/svelte.json"])
	}
}

func TestMergeSetupFiles(t *testing.T) {
	base := Builtins()["skill"]
	got := Merge(base, Config{
		PromptSuffix: "Think first.",
		SetupFiles:   map[string]string{".opencode/svelte.json": "{}", "extra.txt": "x"},
	})
	if got.PromptSuffix != "Think first." {
		t.Errorf("suffix = %q", got.PromptSuffix)
	}
	want := map[string]string{
		".opencode/opencode.json": base.SetupFiles[".opencode/opencode.json"],
		".opencode/svelte.json":   "{}",
		"extra.txt":               "x",
	}
	if !reflect.DeepEqual(got.SetupFiles, want) {
		t.Errorf("setup files = %v", got.SetupFiles)
	}
	if base.SetupFiles[".opencode/svelte.json"] == "{}" {
		t.Error("merge mutated the base setup files")
	}
}

func TestWithBuiltins(t *testing.T) {
	got := WithBuiltins(map[string]Config{
		"skill":  {Timeout: 900},
		"custom": {Runs: 2},
	})
	if len(got) != 3 {
		t.Fatalf("experiments = %v", got)
	}
	if got["skill"].Timeout != 900 || got["skill"].PromptSuffix == "" {
		t.Errorf("skill = %+v", got["skill"])
	}
	if got["mcp"].SetupFiles == nil || got["custom"].Runs != 2 {
		t.Errorf("experiments = %+v", got)
	}
}

func TestSandboxFiles(t *testing.T) {
	c := Builtins()["mcp"]
	files := c.SandboxFiles(map[string]string{
		"src/App.svelte":          "<p/>",
		".opencode/opencode.json": "old",
	})
	if len(files) != 3 || files["src/App.svelte"] != "<p/>" || files[".opencode/opencode.json"] != pluginConfig {
		t.Errorf("files = %v", files)
	}

	dir := t.TempDir()
	if err := WriteFiles(dir, files); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, ".opencode", "svelte.json"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"skills":{"enabled":false}}` {
		t.Errorf("svelte.json = %q", data)
	}
	if _, err := os.Stat(filepath.Join(dir, "src", "App.svelte")); err != nil {
		t.Error(err)
	}

	if err := WriteFiles(dir, map[string]string{"../out.txt": "x"}); err == nil {
		t.Error("expected error for a path outside the sandbox")
	}
}
