package open

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
)

// execCommand is swapped in tests.
var execCommand = exec.Command

// viewerCommand returns the host's "open with default app" command.
func viewerCommand(goos, path string) *exec.Cmd {
	switch goos {
	case "darwin":
		return execCommand("open", path)
	case "windows":
		return execCommand("cmd", "/c", "start", "", path)
	default:
		return execCommand("xdg-open", path)
	}
}

// OpenInViewer hands path to the default viewer and returns once the
// viewer process has been started.
func OpenInViewer(path string) error {
	cmd := viewerCommand(runtime.GOOS, path)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	go waitViewer(cmd, path)
	return nil
}

// waitViewer reaps the viewer and logs when it exits with an error.
func waitViewer(cmd *exec.Cmd, path string) {
	if err := cmd.Wait(); err != nil {
		slog.Warn("viewer exited with error", "path", path, "err", err)
	}
}

// OpenInEditor opens a transcript in $EDITOR at the given line.
func OpenInEditor(filePath string, lineNum int) error {
	if _, err := os.Stat(filePath); err != nil {
		return fmt.Errorf("file not found: %s", filePath)
	}
	if lineNum < 1 {
		lineNum = 1
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "less"
	}

	cmd := editorCommand(editor, filePath, lineNum)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func editorCommand(editor, filePath string, lineNum int) *exec.Cmd {
	switch {
	case strings.Contains(editor, "vim") || strings.Contains(editor, "nvim"):
		return execCommand(editor, fmt.Sprintf("+%d", lineNum), filePath)
	case strings.Contains(editor, "code"):
		return execCommand(editor, "--goto", filePath+":"+strconv.Itoa(lineNum))
	case strings.Contains(editor, "less"):
		return execCommand(editor, "+"+strconv.Itoa(lineNum), filePath)
	default:
		return execCommand(editor, filePath)
	}
}
