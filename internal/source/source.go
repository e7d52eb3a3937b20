// Package source implements the transpiler's Source Loader (spec §4.1): it
// reads a root template, from disk or from an in-memory stream, into an
// ordered sequence of annotated lines.
package source

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/cruffinoni/pugc/internal/diagnostic"
)

// Line is one annotated line: literal text plus its origin.
type Line struct {
	Text string
	Path string
	Line int // 1-based
}

// FromFile reads path from disk into annotated lines. A missing file is
// reported as diagnostic.TemplateNotFound.
func FromFile(path string) ([]Line, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, diagnostic.New(diagnostic.TemplateNotFound, path, 0, "template not found: "+path)
		}
		return nil, err
	}
	defer f.Close()

	return scan(f, path)
}

// FromString splits an in-memory template into annotated lines, attributing
// them to path (used for diagnostics and for relative include resolution).
func FromString(path string, content string) []Line {
	lines, _ := scan(strings.NewReader(content), path)
	return lines
}

type reader interface {
	Read(p []byte) (int, error)
}

func scan(r reader, path string) ([]Line, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var out []Line
	n := 0
	for scanner.Scan() {
		n++
		out = append(out, Line{Text: scanner.Text(), Path: path, Line: n})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Dir returns the directory a path should be considered relative to for
// subsequent include/extends resolution.
func Dir(path string) string {
	return filepath.Dir(path)
}
