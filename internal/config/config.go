// Package config stores runtime options for one `pugc compile` invocation:
// the batch discovery settings (spec §6 CLI collaborator) plus the compiler
// flag set (spec §3 "Compiler flags") those options get translated into.
// Grounded on the teacher's config.Config/Default/Validate shape, its fields
// renamed from FreeMarker-conversion options to this module's own.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cruffinoni/pugc/internal/flags"
)

const (
	DefaultGlob      = "**/*.pug"
	DefaultOutputExt = ".pugjs"
)

// Config stores runtime options for one `compile` run.
type Config struct {
	In   string
	Out  string
	Glob string
	Ext  string

	// Extension, BaseDir, Properties, VoidSelfClose, ContainerSelfClose,
	// KebabCase and ErrorContext mirror flags.Flags one-for-one (spec §3);
	// they are duplicated here, rather than embedding flags.Flags directly,
	// so cobra can bind each one to its own CLI flag with its own help text.
	Extension          string
	BaseDir            string
	Properties         bool
	VoidSelfClose      bool
	ContainerSelfClose bool
	KebabCase          bool
	ErrorContext       int

	ReportJSON string
	ReportCSV  string

	Strict bool
}

// Default returns baseline configuration values used by CLI flags.
func Default() Config {
	fl := flags.Default()
	return Config{
		Glob:               DefaultGlob,
		Ext:                DefaultOutputExt,
		Extension:          fl.Extension,
		BaseDir:            fl.BaseDir,
		Properties:         fl.Properties,
		VoidSelfClose:      fl.VoidSelfClose,
		ContainerSelfClose: fl.ContainerSelfClose,
		KebabCase:          fl.KebabCase,
		ErrorContext:       fl.ErrorContext,
		Strict:             false,
	}
}

// Validate normalizes and checks the configuration before execution.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.In) == "" {
		return fmt.Errorf("--in is required")
	}
	if strings.TrimSpace(c.Out) == "" {
		return fmt.Errorf("--out is required")
	}

	if strings.TrimSpace(c.Glob) == "" {
		c.Glob = DefaultGlob
	}
	if strings.TrimSpace(c.Ext) == "" {
		c.Ext = DefaultOutputExt
	}
	if !strings.HasPrefix(c.Ext, ".") {
		return fmt.Errorf("--ext must start with '.', got %q", c.Ext)
	}
	if strings.TrimSpace(c.Extension) == "" {
		c.Extension = flags.Default().Extension
	}
	if c.ErrorContext < 0 {
		return fmt.Errorf("--error-context must be >= 0, got %d", c.ErrorContext)
	}

	c.In = filepath.Clean(c.In)
	c.Out = filepath.Clean(c.Out)

	info, err := os.Stat(c.In)
	if err != nil {
		return fmt.Errorf("input path %q is not accessible: %w", c.In, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("input path %q must be a directory", c.In)
	}

	return nil
}

// Flags translates this run's options into the compiler flag set threaded
// through the Resolver and Code Generator (spec §3).
func (c Config) Flags() flags.Flags {
	return flags.Flags{
		Extension:          c.Extension,
		BaseDir:            c.BaseDir,
		Properties:         c.Properties,
		VoidSelfClose:      c.VoidSelfClose,
		ContainerSelfClose: c.ContainerSelfClose,
		KebabCase:          c.KebabCase,
		ErrorContext:       c.ErrorContext,
	}
}
