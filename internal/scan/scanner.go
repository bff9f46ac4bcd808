package scan

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const TranscriptExt = ".jsonl"

type FileInfo struct {
	Path  string
	Mtime int64
	Size  int64
}

// FindTranscripts walks root and returns every .jsonl file under it in
// lexical path order. Unreadable subdirectories are skipped.
func FindTranscripts(root string) ([]FileInfo, error) {
	var files []FileInfo
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil // skip unreadable dirs
		}
		if info.IsDir() {
			base := filepath.Base(path)
			if path != root && (base == "node_modules" || base == ".git") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != TranscriptExt {
			return nil
		}
		files = append(files, FileInfo{
			Path:  path,
			Mtime: info.ModTime().Unix(),
			Size:  info.Size(),
		})
		return nil
	})
	return files, err
}

// ReportPath returns the HTML path that sits next to a transcript.
func ReportPath(transcriptPath string) string {
	return strings.TrimSuffix(transcriptPath, TranscriptExt) + ".html"
}

type Scenario struct {
	Name string
	Dir  string
}

// FindScenarios lists the scenario directories directly under root, sorted
// by name. Hidden directories are ignored.
func FindScenarios(root string) ([]Scenario, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var scenarios []Scenario
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		scenarios = append(scenarios, Scenario{
			Name: e.Name(),
			Dir:  filepath.Join(root, e.Name()),
		})
	}
	sort.Slice(scenarios, func(i, j int) bool {
		return scenarios[i].Name < scenarios[j].Name
	})
	return scenarios, nil
}

// ReadTree returns the contents of every regular file under root keyed by
// its slash-separated path relative to root, prefixed with base.
func ReadTree(root, base string) (map[string]string, error) {
	files := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(filepath.Join(base, rel))] = string(data)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
