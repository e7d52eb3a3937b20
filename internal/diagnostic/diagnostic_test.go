package diagnostic

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorWithLine(t *testing.T) {
	d := New(ParseError, "a.pug", 4, "bad line")
	require.Equal(t, `a.pug:4 [ParseError]: bad line`, d.Error())
}

func TestErrorWithPathNoLine(t *testing.T) {
	d := New(TemplateNotFound, "a.pug", 0, "not found")
	require.Equal(t, `a.pug [TemplateNotFound]: not found`, d.Error())
}

func TestErrorNoPathNoLine(t *testing.T) {
	d := New(FilterNotFound, "", 0, "unknown filter")
	require.Equal(t, `[FilterNotFound]: unknown filter`, d.Error())
}

func TestFormatMissingFileDegrades(t *testing.T) {
	got := Format("/no/such/file.pug", 3, "template not found", 2)
	require.Equal(t, "template not found\n(File not found: /no/such/file.pug:3)", got)
}

func TestFormatRendersContextWindowWithMarker(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.pug")
	content := "line1\nline2\nline3\nline4\nline5\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got := Format(path, 3, "bad expr", 1)
	require.Contains(t, got, path+":3\n")
	require.Contains(t, got, "> 3 | line3")
	require.Contains(t, got, "  2 | line2")
	require.Contains(t, got, "  4 | line4")
	require.NotContains(t, got, "line1")
	require.NotContains(t, got, "line5")
	require.Contains(t, got, "\nbad expr")
}

func TestFormatClampsContextAtFileBoundaries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.pug")
	require.NoError(t, os.WriteFile(path, []byte("only one line\n"), 0o644))

	got := Format(path, 1, "oops", 5)
	require.Contains(t, got, "> 1 | only one line")
}

func TestFormatDiagnosticAppendsDetail(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.pug")
	require.NoError(t, os.WriteFile(path, []byte("p hi\n"), 0o644))

	d := Diagnostic{Code: ParseError, Path: path, Line: 1, Message: "bad", Detail: "extra context"}
	got := FormatDiagnostic(d, 1)
	require.Contains(t, got, "bad\nextra context")
}
