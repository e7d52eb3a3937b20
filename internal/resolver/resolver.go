// Package resolver implements the Resolver (spec §4.2): two sequential
// passes — inheritance (`extends`/`block` override) then file inclusion
// (`include` with optional filter chain) — recursively expanding a root
// template into one flat annotated-line sequence, plus the dependency map
// an external cache collaborator can key on (spec §5).
package resolver

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cruffinoni/pugc/internal/diagnostic"
	"github.com/cruffinoni/pugc/internal/flags"
	"github.com/cruffinoni/pugc/internal/source"
)

// DepMap is path → last-modified timestamp for every file the Resolver
// opened, the optional contract spec §4.2 describes.
type DepMap map[string]time.Time

// Resolve expands the root template at path into a single flat annotated
// line sequence plus its dependency map.
func Resolve(path string, fl flags.Flags) ([]source.Line, DepMap, error) {
	deps := DepMap{}
	lines, err := resolveFile(path, map[string]bool{}, fl, deps)
	return lines, deps, err
}

// ResolveString expands an in-memory root template, attributed to path for
// diagnostics and relative include resolution, but never stat'd on disk
// itself (it has no mtime dependency entry).
func ResolveString(path, content string, fl flags.Flags) ([]source.Line, DepMap, error) {
	deps := DepMap{}
	lines := source.FromString(path, content)
	afterA, err := passA(lines, fl, map[string]bool{path: true}, deps)
	if err != nil {
		return nil, deps, err
	}
	out, err := passB(afterA, fl, map[string]bool{path: true}, deps)
	return out, deps, err
}

func resolveFile(path string, ancestors map[string]bool, fl flags.Flags, deps DepMap) ([]source.Line, error) {
	if ancestors[path] {
		return nil, diagnostic.New(diagnostic.CyclicExtends, path, 0, "cyclic extends/include detected at "+path)
	}

	recordDep(path, deps)

	lines, err := source.FromFile(path)
	if err != nil {
		return nil, err
	}

	next := map[string]bool{path: true}
	for k := range ancestors {
		next[k] = true
	}

	afterA, err := passA(lines, fl, next, deps)
	if err != nil {
		return nil, err
	}
	return passB(afterA, fl, next, deps)
}

func recordDep(path string, deps DepMap) {
	if deps == nil {
		return
	}
	if info, err := os.Stat(path); err == nil {
		deps[path] = info.ModTime()
	}
}

// resolvePath implements the shared absolute/relative resolution rule used
// by both extends and include (spec §4.2): absolute (`/` or `\`-prefixed)
// resolves against base_dir if set else the current file's directory;
// relative always resolves against the current file's directory. A missing
// result with no extension retries with the configured extension, then
// with the literal ".pug" (spec §9 open question — fallback preserved).
func resolvePath(currentFile string, fl flags.Flags, target string) (string, bool) {
	var root string
	if strings.HasPrefix(target, "/") || strings.HasPrefix(target, "\\") {
		if fl.BaseDir != "" {
			root = fl.BaseDir
		} else {
			root = filepath.Dir(currentFile)
		}
		target = strings.TrimLeft(target, "/\\")
	} else {
		root = filepath.Dir(currentFile)
	}

	candidate := filepath.Join(root, target)
	if exists(candidate) {
		return candidate, true
	}
	if filepath.Ext(target) == "" {
		if c := candidate + "." + fl.Extension; exists(c) {
			return c, true
		}
		if c := candidate + ".pug"; exists(c) {
			return c, true
		}
	}
	return candidate, false
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
