package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cruffinoni/pugc/internal/compiler"
	"github.com/cruffinoni/pugc/internal/config"
	"github.com/cruffinoni/pugc/internal/fswalk"
	"github.com/cruffinoni/pugc/internal/report"
	"github.com/cruffinoni/pugc/internal/resolver"
)

func writeReports(cfg config.Config, summary report.Summary, files []report.FileItem) error {
	if cfg.ReportJSON != "" {
		if err := report.WriteJSON(cfg.ReportJSON, report.NewJSONReport(summary, files)); err != nil {
			return err
		}
	}
	if cfg.ReportCSV != "" {
		if err := report.WriteCSV(cfg.ReportCSV, files); err != nil {
			return err
		}
	}
	return nil
}

// runCompile discovers every template under cfg.In matching cfg.Glob,
// transpiles each one independently (spec §6 "transpile-and-render" minus
// the render half, a spec.md Non-goal), and mirrors the resulting
// host-script artifact under cfg.Out. It is the batch analogue of a single
// compiler.Compile call: the Resolver and Code Generator do not know about
// batches at all, this loop just drives them file by file.
func runCompile(ctx context.Context, cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	files, err := fswalk.DiscoverTemplates(cfg.In, cfg.Glob)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no template files matched %q under %q", cfg.Glob, cfg.In)
	}

	fl := cfg.Flags()
	var (
		compiled int
		failed   int
		warned   int

		fileItems = make([]report.FileItem, 0, len(files))

		stopErr  error
		stopCode = ExitCodeSuccess
	)

	for _, f := range files {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		item := report.FileItem{File: f.RelPath}

		lines, deps, err := resolver.Resolve(f.AbsPath, fl)
		if err != nil {
			failed++
			item.Status = report.StatusCompileError
			item.Diagnostics = []report.DiagnosticItem{report.ToDiagnosticItem(f.RelPath, err)}
			fileItems = append(fileItems, item)
			slog.Warn("resolve failed", "file", f.RelPath, "error", err)
			if cfg.Strict {
				stopErr = fmt.Errorf("resolve failed on %s: %w", f.RelPath, err)
				stopCode = ExitCodeCompileFailed
				break
			}
			continue
		}
		item.Dependents = len(deps)

		result, err := compiler.Compile(lines, fl)
		if err != nil {
			failed++
			item.Status = report.StatusCompileError
			item.Diagnostics = []report.DiagnosticItem{report.ToDiagnosticItem(f.RelPath, err)}
			fileItems = append(fileItems, item)
			slog.Warn("compile failed", "file", f.RelPath, "error", err)
			if cfg.Strict {
				stopErr = fmt.Errorf("compile failed on %s: %w", f.RelPath, err)
				stopCode = ExitCodeCompileFailed
				break
			}
			continue
		}

		outPath := fswalk.MirrorOutputPath(cfg.Out, f.RelPath, cfg.Ext)
		if err := fswalk.EnsureParentDir(outPath); err != nil {
			return fmt.Errorf("prepare output path %q: %w", outPath, err)
		}
		if err := os.WriteFile(outPath, []byte(result.Script), 0o644); err != nil {
			return fmt.Errorf("write artifact %q: %w", outPath, err)
		}
		item.OutputPath = outPath

		if len(result.Warnings) > 0 {
			warned++
			item.Status = report.StatusCompiledWarned
			item.Warnings = report.ToWarningItems(result.Warnings)
			for _, w := range result.Warnings {
				slog.Warn("compile warning", "file", f.RelPath, "line", w.Line, "message", w.Message)
			}
		} else {
			item.Status = report.StatusCompiled
		}
		compiled++
		fileItems = append(fileItems, item)
	}

	slog.Info(
		"compile summary",
		"discovered", len(files),
		"compiled", compiled,
		"compile_failed", failed,
		"with_warnings", warned,
		"input", filepath.Clean(cfg.In),
		"output", filepath.Clean(cfg.Out),
	)

	summary := report.Summary{
		Discovered:    len(files),
		Compiled:      compiled,
		CompileFailed: failed,
		WithWarnings:  warned,
	}

	if err := writeReports(cfg, summary, fileItems); err != nil {
		return fmt.Errorf("write report artifacts: %w", err)
	}
	if cfg.ReportJSON != "" || cfg.ReportCSV != "" {
		slog.Info("reports written", "json", cfg.ReportJSON, "csv", cfg.ReportCSV)
	}

	if stopErr != nil {
		return newExitError(stopCode, stopErr)
	}
	if failed > 0 {
		return newExitError(ExitCodeCompileFailed, fmt.Errorf("compile finished with %d failed files", failed))
	}

	return nil
}
