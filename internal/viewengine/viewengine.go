// Package viewengine implements the compile-cache collaborator (spec §5,
// §6): compiled artifacts keyed by (root path, flags), each entry dropped
// when the watcher reports a change to any file in its dependency set.
// The recorded dependency mtimes are not compared.
// Grounded on open2b-scriggo's cmd/scriggo/templatefs.go watcher/changed-
// channel shape, adapted from a virtual fs.FS wrapper to a cache sitting in
// front of internal/resolver + internal/compiler.
package viewengine

import (
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/cruffinoni/pugc/internal/compiler"
	"github.com/cruffinoni/pugc/internal/flags"
	"github.com/cruffinoni/pugc/internal/resolver"
)

// Key identifies one cache entry: the same root template compiled under
// different flags is a different artifact (spec §5 "cache key").
type Key struct {
	RootPath string
	Flags    flags.Flags
}

type entry struct {
	result compiler.Result
	deps   resolver.DepMap
}

// Cache is a compiled-artifact cache invalidated by a background fsnotify
// watcher over every path any cached entry's dependency set names.
type Cache struct {
	watcher *fsnotify.Watcher
	changed chan string
	errs    chan error

	mu      sync.Mutex
	entries map[Key]*entry
	watched map[string]bool
}

// New starts the background watcher goroutine and returns a ready cache.
func New() (*Cache, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	c := &Cache{
		watcher: watcher,
		changed: make(chan string),
		errs:    make(chan error),
		entries: map[Key]*entry{},
		watched: map[string]bool{},
	}
	go c.run()
	return c, nil
}

func (c *Cache) run() {
	for {
		select {
		case event, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				c.invalidate(event.Name)
			}
		case err, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
			c.errs <- err
		}
	}
}

// Changed streams the root path of every cache entry invalidated by a
// filesystem event — the view-engine demo loop's `watch` subcommand
// consumes this to trigger a recompile.
func (c *Cache) Changed() <-chan string { return c.changed }

// Errors streams watcher errors (e.g. a watched path removed out from under
// the watcher).
func (c *Cache) Errors() <-chan error { return c.errs }

// Close stops the watcher.
func (c *Cache) Close() error { return c.watcher.Close() }

// Compile returns a cached artifact for (path, fl) if present, else runs the
// Resolver and Code Generator, caches the result, and starts watching every
// path in the resolved dependency map.
func (c *Cache) Compile(path string, fl flags.Flags) (compiler.Result, error) {
	key := Key{RootPath: path, Flags: fl}

	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return e.result, nil
	}
	c.mu.Unlock()

	lines, deps, err := resolver.Resolve(path, fl)
	if err != nil {
		return compiler.Result{}, err
	}
	result, err := compiler.Compile(lines, fl)
	if err != nil {
		return compiler.Result{}, err
	}

	c.mu.Lock()
	c.entries[key] = &entry{result: result, deps: deps}
	c.mu.Unlock()

	for dep := range deps {
		if err := c.watch(dep); err != nil {
			return compiler.Result{}, err
		}
	}
	return result, nil
}

func (c *Cache) watch(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.watched[path] {
		return nil
	}
	if err := c.watcher.Add(path); err != nil {
		return err
	}
	c.watched[path] = true
	return nil
}

// invalidate drops every cache entry whose dependency set names changed,
// normalizing path separators the way templateFS.Changed does for
// cross-platform event paths.
func (c *Cache) invalidate(changedPath string) {
	changedPath = strings.ReplaceAll(changedPath, "\\", "/")

	c.mu.Lock()
	var roots []string
	for key, e := range c.entries {
		if _, ok := e.deps[changedPath]; ok {
			roots = append(roots, key.RootPath)
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()

	for _, root := range roots {
		c.changed <- root
	}
}
