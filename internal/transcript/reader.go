package transcript

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"
)

const maxLogLine = 100 // characters of a bad line kept in the warning

// linePrefixRe matches the "00004| " numbering some log tooling prepends.
var linePrefixRe = regexp.MustCompile(`^(\d+)\|\s*(.+)$`)

// ReadFile reads and parses a JSONL transcript.
func ReadFile(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	events, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return events, nil
}

// Parse decodes one event per line. Lines that fail to decode are logged
// and skipped; only read errors are returned.
func Parse(r io.Reader) ([]Event, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	content := strings.TrimSpace(string(data))
	if content == "" {
		return []Event{}, nil
	}

	lines := strings.Split(content, "\n")
	events := make([]Event, 0, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		jsonStr := SanitizeJSON(StripLinePrefix(line))

		var ev Event
		if err := json.Unmarshal([]byte(jsonStr), &ev); err != nil {
			slog.Warn("failed to parse line",
				"line", i+1,
				"content", truncateRunes(line, maxLogLine),
				"err", err)
			continue
		}
		ev.Line = i + 1
		events = append(events, ev)
	}
	return events, nil
}

// StripLinePrefix removes a leading "NNNN|" line number tag.
func StripLinePrefix(line string) string {
	if m := linePrefixRe.FindStringSubmatch(line); m != nil {
		return m[2]
	}
	return line
}

// SanitizeJSON drops ASCII control characters other than tab, newline and
// carriage return.
func SanitizeJSON(s string) string {
	clean := true
	for i := 0; i < len(s); i++ {
		if isStrippedControl(s[i]) {
			clean = false
			break
		}
	}
	if clean {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if !isStrippedControl(s[i]) {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func isStrippedControl(c byte) bool {
	return c <= 0x08 || c == 0x0B || c == 0x0C || (c >= 0x0E && c <= 0x1F)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
