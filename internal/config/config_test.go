package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateRequiresInAndOut(t *testing.T) {
	c := Default()
	require.EqualError(t, c.Validate(), "--in is required")

	c.In = "."
	require.EqualError(t, c.Validate(), "--out is required")
}

func TestValidateFillsDefaultsAndNormalizesPaths(t *testing.T) {
	dir := t.TempDir()
	c := Default()
	c.In = dir + string(filepath.Separator) + "."
	c.Out = dir
	c.Glob = ""
	c.Ext = ""
	c.Extension = ""

	require.NoError(t, c.Validate())
	require.Equal(t, DefaultGlob, c.Glob)
	require.Equal(t, DefaultOutputExt, c.Ext)
	require.Equal(t, "pug", c.Extension)
	require.Equal(t, filepath.Clean(dir), c.In)
}

func TestValidateRejectsExtWithoutLeadingDot(t *testing.T) {
	dir := t.TempDir()
	c := Default()
	c.In = dir
	c.Out = dir
	c.Ext = "pugjs"

	require.EqualError(t, c.Validate(), `--ext must start with '.', got "pugjs"`)
}

func TestValidateRejectsNegativeErrorContext(t *testing.T) {
	dir := t.TempDir()
	c := Default()
	c.In = dir
	c.Out = dir
	c.ErrorContext = -1

	require.EqualError(t, c.Validate(), "--error-context must be >= 0, got -1")
}

func TestValidateRejectsMissingInputDirectory(t *testing.T) {
	c := Default()
	c.In = filepath.Join(t.TempDir(), "nope")
	c.Out = t.TempDir()

	require.Error(t, c.Validate())
}

func TestValidateRejectsInputThatIsAFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.pug")
	require.NoError(t, os.WriteFile(file, []byte("div\n"), 0o644))

	c := Default()
	c.In = file
	c.Out = dir

	require.EqualError(t, c.Validate(), `input path "`+file+`" must be a directory`)
}

func TestFlagsTranslatesConfigIntoFlagSet(t *testing.T) {
	c := Default()
	c.Extension = "html"
	c.KebabCase = false

	fl := c.Flags()
	require.Equal(t, "html", fl.Extension)
	require.False(t, fl.KebabCase)
	require.Equal(t, c.ErrorContext, fl.ErrorContext)
}
