// Package report builds the JSON/CSV artifacts the `compile` command writes
// when --report-json/--report-csv are set (spec §6 CLI collaborator).
// Grounded on the teacher's report.FileItem/Summary/JSONReport shape,
// statuses renamed from conversion/render-check stages (this module has no
// render stage: executing the compiled artifact is a spec.md Non-goal) to
// compile/warning stages.
package report

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/cruffinoni/pugc/internal/diagnostic"
)

// FileStatus is the per-template processing status used in reports.
type FileStatus string

const (
	StatusCompiled       FileStatus = "compiled"
	StatusCompiledWarned FileStatus = "compiled_with_warnings"
	StatusCompileError   FileStatus = "failed_compile"
)

// DiagnosticItem is the report-friendly representation of one error.
type DiagnosticItem struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
	Line    int    `json:"line,omitempty"`
}

// WarningItem is the report-friendly representation of one non-fatal
// compile warning (spec §9 open question on unquoted switch arms).
type WarningItem struct {
	Path    string `json:"path,omitempty"`
	Line    int    `json:"line,omitempty"`
	Message string `json:"message"`
}

// FileItem describes compilation for one template file.
type FileItem struct {
	File        string           `json:"file"`
	Status      FileStatus       `json:"status"`
	Diagnostics []DiagnosticItem `json:"diagnostics,omitempty"`
	Warnings    []WarningItem    `json:"warnings,omitempty"`
	Dependents  int              `json:"dependents"`
	OutputPath  string           `json:"output_path,omitempty"`
}

// Summary contains aggregate counters for a compile run.
type Summary struct {
	Discovered    int `json:"discovered"`
	Compiled      int `json:"compiled"`
	CompileFailed int `json:"compile_failed"`
	WithWarnings  int `json:"with_warnings"`
}

// JSONReport is the structured report persisted by --report-json.
type JSONReport struct {
	GeneratedAt string     `json:"generated_at"`
	Summary     Summary    `json:"summary"`
	Files       []FileItem `json:"files"`
}

// NewJSONReport builds a report payload with RFC3339 generation timestamp.
func NewJSONReport(summary Summary, files []FileItem) JSONReport {
	return JSONReport{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Summary:     summary,
		Files:       files,
	}
}

// ToDiagnosticItem converts a core error into a typed report diagnostic,
// unwrapping a diagnostic.Diagnostic when the error is one.
func ToDiagnosticItem(file string, err error) DiagnosticItem {
	if d, ok := err.(diagnostic.Diagnostic); ok {
		return DiagnosticItem{
			Code:    string(d.Code),
			Message: d.Message,
			Path:    d.Path,
			Line:    d.Line,
		}
	}
	return DiagnosticItem{
		Code:    "ERROR",
		Message: err.Error(),
		Path:    file,
	}
}

// ToWarningItems converts the compiler's warning slice into report items.
func ToWarningItems(warnings []diagnostic.Warning) []WarningItem {
	if len(warnings) == 0 {
		return nil
	}
	out := make([]WarningItem, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, WarningItem{Path: w.Path, Line: w.Line, Message: w.Message})
	}
	return out
}

// WriteJSON writes the full JSON report if path is non-empty.
func WriteJSON(path string, report JSONReport) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	raw = append(raw, '\n')
	return os.WriteFile(path, raw, 0o644)
}

func intToString(v int) string {
	return strconv.Itoa(v)
}

// WriteCSV writes the flattened CSV report if path is non-empty.
func WriteCSV(path string, files []FileItem) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fh.Close()

	w := csv.NewWriter(fh)
	defer w.Flush()

	header := []string{
		"file",
		"status",
		"diagnostics_count",
		"warnings_count",
		"dependents",
		"output_path",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	copied := append([]FileItem(nil), files...)
	sort.Slice(copied, func(i, j int) bool { return copied[i].File < copied[j].File })

	for _, item := range copied {
		row := []string{
			item.File,
			string(item.Status),
			intToString(len(item.Diagnostics)),
			intToString(len(item.Warnings)),
			intToString(item.Dependents),
			item.OutputPath,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}
