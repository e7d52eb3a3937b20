package resolver

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cruffinoni/pugc/internal/diagnostic"
	"github.com/cruffinoni/pugc/internal/flags"
	"github.com/cruffinoni/pugc/internal/source"
)

func textsOf(lines []source.Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}
	return out
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestResolveNoDirectivesPassesLinesThrough(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plain.pug")
	writeFile(t, path, "div\n  p hi\n")

	lines, deps, err := Resolve(path, flags.Default())
	require.NoError(t, err)
	require.Len(t, lines, 2)
	require.Equal(t, "div", lines[0].Text)
	require.Equal(t, "  p hi", lines[1].Text)
	require.Contains(t, deps, path)
}

func TestInheritanceOverridesMatchingBlock(t *testing.T) {
	dir := t.TempDir()
	parent := filepath.Join(dir, "parent.pug")
	child := filepath.Join(dir, "child.pug")

	writeFile(t, parent, "html\n  body\n    block content\n      p default\n")
	writeFile(t, child, "extends parent.pug\nblock content\n  p overridden\n")

	lines, _, err := Resolve(child, flags.Default())
	require.NoError(t, err)
	require.Len(t, lines, 3)
	require.Equal(t, "html", lines[0].Text)
	require.Equal(t, "  body", lines[1].Text)
	require.Equal(t, "    p overridden", lines[2].Text)
	require.Equal(t, child, lines[2].Path)
}

func TestInheritanceKeepsParentDefaultWhenNoOverride(t *testing.T) {
	dir := t.TempDir()
	parent := filepath.Join(dir, "parent.pug")
	child := filepath.Join(dir, "child.pug")

	writeFile(t, parent, "html\n  body\n    block content\n      p default\n")
	writeFile(t, child, "extends parent.pug\n")

	lines, _, err := Resolve(child, flags.Default())
	require.NoError(t, err)
	require.Len(t, lines, 3)
	require.Equal(t, "      p default", lines[2].Text)
	require.Equal(t, parent, lines[2].Path)
}

func TestInheritanceHoistsChildMixinsAboveParent(t *testing.T) {
	dir := t.TempDir()
	parent := filepath.Join(dir, "parent.pug")
	child := filepath.Join(dir, "child.pug")

	writeFile(t, parent, "html\n  block content\n")
	writeFile(t, child, "extends parent.pug\nmixin card(title)\n  .card= title\nblock content\n  +card(\"x\")\n")

	lines, _, err := Resolve(child, flags.Default())
	require.NoError(t, err)
	require.Equal(t, "mixin card(title)", lines[0].Text)
	require.Equal(t, "  .card= title", lines[1].Text)
	require.Equal(t, "html", lines[2].Text)
}

func TestIncludePugFileIsRecursivelyResolvedAndReindented(t *testing.T) {
	dir := t.TempDir()
	main := filepath.Join(dir, "main.pug")
	partial := filepath.Join(dir, "partial.pug")

	writeFile(t, main, "div\n  include partial.pug\n")
	writeFile(t, partial, "p hi\n")

	lines, deps, err := Resolve(main, flags.Default())
	require.NoError(t, err)
	require.Equal(t, []string{"div", "  p hi"}, textsOf(lines))
	require.Contains(t, deps, partial)
}

func TestIncludeNonTemplateFileBecomesPipeLiteral(t *testing.T) {
	dir := t.TempDir()
	main := filepath.Join(dir, "main.pug")
	other := filepath.Join(dir, "notes.txt")

	writeFile(t, main, "div\n  include notes.txt\n")
	writeFile(t, other, "raw line one\nraw line two\n")

	lines, _, err := Resolve(main, flags.Default())
	require.NoError(t, err)
	require.Equal(t, []string{"div", "| raw line one", "| raw line two"}, textsOf(lines))
}

func TestIncludeFilterChainSplicesSyntheticHeaderAndIndentedBlock(t *testing.T) {
	dir := t.TempDir()
	main := filepath.Join(dir, "main.pug")
	doc := filepath.Join(dir, "doc.md")

	writeFile(t, main, "section\n  include:markdown doc.md\n")
	writeFile(t, doc, "# Title\ntext\n")

	lines, _, err := Resolve(main, flags.Default())
	require.NoError(t, err)
	require.Equal(t, []string{"section", "  :markdown", "    # Title", "    text"}, textsOf(lines))
}

func TestCyclicExtendsIsDetected(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.pug")
	b := filepath.Join(dir, "b.pug")

	writeFile(t, a, "extends b.pug\n")
	writeFile(t, b, "extends a.pug\n")

	_, _, err := Resolve(a, flags.Default())
	require.Error(t, err)
	var d diagnostic.Diagnostic
	require.True(t, errors.As(err, &d))
	require.Equal(t, diagnostic.CyclicExtends, d.Code)
}

func TestExtendsNotFoundReportsDiagnostic(t *testing.T) {
	dir := t.TempDir()
	child := filepath.Join(dir, "child.pug")
	writeFile(t, child, "extends missing.pug\n")

	_, _, err := Resolve(child, flags.Default())
	require.Error(t, err)
	var d diagnostic.Diagnostic
	require.True(t, errors.As(err, &d))
	require.Equal(t, diagnostic.ExtendsNotFound, d.Code)
}

func TestIncludeNotFoundReportsDiagnostic(t *testing.T) {
	dir := t.TempDir()
	main := filepath.Join(dir, "main.pug")
	writeFile(t, main, "div\n  include missing.pug\n")

	_, _, err := Resolve(main, flags.Default())
	require.Error(t, err)
	var d diagnostic.Diagnostic
	require.True(t, errors.As(err, &d))
	require.Equal(t, diagnostic.IncludeNotFound, d.Code)
}

func TestExtendsFallsBackToDotPugWhenConfiguredExtensionMissing(t *testing.T) {
	dir := t.TempDir()
	parent := filepath.Join(dir, "parent.pug")
	child := filepath.Join(dir, "child.pug")
	writeFile(t, parent, "html\n")
	writeFile(t, child, "extends parent\n")

	fl := flags.Default()
	fl.Extension = "html"

	lines, _, err := Resolve(child, fl)
	require.NoError(t, err)
	require.Equal(t, []string{"html"}, textsOf(lines))
}

func TestDependencyMapRecordsEveryOpenedFile(t *testing.T) {
	dir := t.TempDir()
	main := filepath.Join(dir, "main.pug")
	parent := filepath.Join(dir, "parent.pug")
	partial := filepath.Join(dir, "partial.pug")

	writeFile(t, parent, "html\n  block content\n")
	writeFile(t, partial, "p hi\n")
	writeFile(t, main, "extends parent.pug\nblock content\n  include partial.pug\n")

	_, deps, err := Resolve(main, flags.Default())
	require.NoError(t, err)
	require.Contains(t, deps, main)
	require.Contains(t, deps, parent)
	require.Contains(t, deps, partial)
}

