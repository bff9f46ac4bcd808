// Package viz converts transcript files into HTML reports, one file or a
// whole directory tree at a time.
package viz

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Zuo-Peng/ai-evals/internal/report"
	"github.com/Zuo-Peng/ai-evals/internal/scan"
	"github.com/Zuo-Peng/ai-evals/internal/transcript"
)

var (
	ErrPathNotFound  = errors.New("path not found")
	ErrNoTranscripts = errors.New("no .jsonl files found")
)

// Stats describes one conversion.
type Stats struct {
	Output    string
	Events    int
	Steps     int
	ToolCalls int
}

// Converter writes progress lines to Out and, when Open is set, hands the
// finished report to it.
type Converter struct {
	Out    io.Writer
	Open   func(path string) error
	Report report.Options
}

func New(out io.Writer) *Converter {
	return &Converter{Out: out}
}

func (c *Converter) printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

// ConvertFile reads one transcript and writes its report to out.
func (c *Converter) ConvertFile(in, out string) (Stats, error) {
	c.printf("Parsing %s...\n", in)
	events, err := transcript.ReadFile(in)
	if err != nil {
		return Stats{}, err
	}
	c.printf("Parsed %d events\n", len(events))

	c.printf("Grouping by step...\n")
	steps := transcript.GroupSteps(events)
	c.printf("Found %d steps\n", len(steps))

	tools := 0
	for _, s := range steps {
		tools += s.Count(transcript.TypeToolUse)
	}
	c.printf("Found %d tool calls\n", tools)

	c.printf("Generating HTML...\n")
	html, err := report.Render(steps, c.Report)
	if err != nil {
		return Stats{}, err
	}
	if err := os.WriteFile(out, []byte(html), 0o644); err != nil {
		return Stats{}, fmt.Errorf("write report: %w", err)
	}

	c.printf("\n✓ Generated: %s\n", out)
	c.printf("  Steps: %d\n", len(steps))
	c.printf("  Events: %d\n", len(events))
	c.printf("  Tool Calls: %d\n", tools)
	return Stats{Output: out, Events: len(events), Steps: len(steps), ToolCalls: tools}, nil
}

// Run converts input, which is either a transcript file or a directory
// searched recursively. output overrides the report path in single-file
// mode and is ignored for directories. The first failing file aborts the
// batch. The report is opened when a single file was converted.
func (c *Converter) Run(input, output string) ([]Stats, error) {
	info, err := os.Stat(input)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrPathNotFound, input)
		}
		return nil, err
	}

	if !info.IsDir() {
		if output == "" {
			output = scan.ReportPath(input)
		}
		st, err := c.ConvertFile(input, output)
		if err != nil {
			return nil, err
		}
		c.open(st.Output)
		return []Stats{st}, nil
	}

	files, err := scan.FindTranscripts(input)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", input, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoTranscripts, input)
	}

	c.printf("Found %d .jsonl file(s) in %s\n\n", len(files), input)
	var all []Stats
	for _, f := range files {
		st, err := c.ConvertFile(f.Path, scan.ReportPath(f.Path))
		if err != nil {
			return all, fmt.Errorf("convert %s: %w", f.Path, err)
		}
		all = append(all, st)
		c.printf("\n")
	}
	c.printf("Done! Converted %d file(s).\n", len(files))

	if len(all) == 1 {
		c.open(all[0].Output)
	}
	return all, nil
}

func (c *Converter) open(path string) {
	if c.Open == nil {
		return
	}
	c.printf("Opening %s...\n", path)
	if err := c.Open(path); err != nil {
		slog.Warn("could not open report automatically", "path", path, "err", err)
	}
}
