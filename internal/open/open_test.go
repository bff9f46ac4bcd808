package open

import (
	"bytes"
	"log/slog"
	"os/exec"
	"reflect"
	"runtime"
	"strings"
	"testing"
)

func TestViewerCommand(t *testing.T) {
	tests := []struct {
		goos string
		want []string
	}{
		{"darwin", []string{"open", "/tmp/r.html"}},
		{"windows", []string{"cmd", "/c", "start", "", "/tmp/r.html"}},
		{"linux", []string{"xdg-open", "/tmp/r.html"}},
		{"freebsd", []string{"xdg-open", "/tmp/r.html"}},
	}
	for _, tt := range tests {
		cmd := viewerCommand(tt.goos, "/tmp/r.html")
		if !reflect.DeepEqual(cmd.Args, tt.want) {
			t.Errorf("viewerCommand(%s) = %v, want %v", tt.goos, cmd.Args, tt.want)
		}
	}
}

func TestEditorCommand(t *testing.T) {
	tests := []struct {
		editor string
		want   []string
	}{
		{"nvim", []string{"nvim", "+12", "a.jsonl"}},
		{"code", []string{"code", "--goto", "a.jsonl:12"}},
		{"less", []string{"less", "+12", "a.jsonl"}},
		{"nano", []string{"nano", "a.jsonl"}},
	}
	for _, tt := range tests {
		cmd := editorCommand(tt.editor, "a.jsonl", 12)
		if !reflect.DeepEqual(cmd.Args, tt.want) {
			t.Errorf("editorCommand(%s) = %v, want %v", tt.editor, cmd.Args, tt.want)
		}
	}
}

func TestOpenInViewerStartFailure(t *testing.T) {
	orig := execCommand
	t.Cleanup(func() { execCommand = orig })
	execCommand = func(name string, args ...string) *exec.Cmd {
		return orig("/nonexistent/viewer-binary", args...)
	}

	if err := OpenInViewer("/tmp/r.html"); err == nil {
		t.Error("expected error when the viewer cannot start")
	}
}

func TestWaitViewerLogsFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs sh")
	}
	var buf bytes.Buffer
	orig := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(orig) })

	cmd := exec.Command("sh", "-c", "exit 3")
	if err := cmd.Start(); err != nil {
		t.Fatal(err)
	}
	waitViewer(cmd, "/tmp/r.html")

	out := buf.String()
	if !strings.Contains(out, "viewer exited with error") || !strings.Contains(out, "exit status 3") {
		t.Errorf("log = %q", out)
	}

	buf.Reset()
	ok := exec.Command("sh", "-c", "exit 0")
	if err := ok.Start(); err != nil {
		t.Fatal(err)
	}
	waitViewer(ok, "/tmp/r.html")
	if buf.Len() != 0 {
		t.Errorf("clean exit logged %q", buf.String())
	}
}
