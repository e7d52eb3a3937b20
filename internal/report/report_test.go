package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cruffinoni/pugc/internal/diagnostic"
)

func TestWriteJSONAndCSV(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "audit", "report.json")
	csvPath := filepath.Join(dir, "audit", "report.csv")

	files := []FileItem{
		{
			File:       "a.pug",
			Status:     StatusCompiled,
			Dependents: 2,
			OutputPath: "out/a.pugjs",
		},
		{
			File:        "b.pug",
			Status:      StatusCompileError,
			Diagnostics: []DiagnosticItem{{Code: "ParseError", Message: "boom"}},
		},
	}
	summary := Summary{
		Discovered:    2,
		Compiled:      1,
		CompileFailed: 1,
	}

	rep := NewJSONReport(summary, files)
	require.NoError(t, WriteJSON(jsonPath, rep))
	require.NoError(t, WriteCSV(csvPath, files))

	raw, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var decoded JSONReport
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, 2, decoded.Summary.Discovered)
	require.NotEmpty(t, decoded.GeneratedAt)

	_, err = os.Stat(csvPath)
	require.NoError(t, err)
}

func TestWriteJSONAndCSVNoopWhenPathEmpty(t *testing.T) {
	require.NoError(t, WriteJSON("", JSONReport{}))
	require.NoError(t, WriteCSV("", nil))
}

func TestToDiagnosticItemUnwrapsDiagnostic(t *testing.T) {
	d := diagnostic.New(diagnostic.ParseError, "view.pug", 7, "unexpected token")
	item := ToDiagnosticItem("view.pug", d)
	require.Equal(t, "ParseError", item.Code)
	require.Equal(t, "view.pug", item.Path)
	require.Equal(t, 7, item.Line)
}

func TestToDiagnosticItemFallsBackForPlainError(t *testing.T) {
	item := ToDiagnosticItem("view.pug", os.ErrNotExist)
	require.Equal(t, "ERROR", item.Code)
	require.Equal(t, "view.pug", item.Path)
}

func TestToWarningItems(t *testing.T) {
	warnings := []diagnostic.Warning{{Path: "a.pug", Line: 3, Message: "unquoted case arm"}}
	items := ToWarningItems(warnings)
	require.Len(t, items, 1)
	require.Equal(t, "a.pug", items[0].Path)
	require.Equal(t, 3, items[0].Line)

	require.Nil(t, ToWarningItems(nil))
}
