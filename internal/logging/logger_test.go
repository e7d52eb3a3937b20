package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestColorizingWriterWrapsEachLevelInItsColor(t *testing.T) {
	var buf bytes.Buffer
	w := colorizingWriter{out: &buf}

	n, err := w.Write([]byte("level=ERROR msg=boom\n"))
	require.NoError(t, err)
	require.Equal(t, len("level=ERROR msg=boom\n"), n)
	require.Equal(t, "level="+ansiRed+"ERROR"+ansiReset+" msg=boom\n", buf.String())
}

func TestColorizingWriterLeavesUnrecognizedLevelsUntouched(t *testing.T) {
	var buf bytes.Buffer
	w := colorizingWriter{out: &buf}

	_, err := w.Write([]byte("no level field here\n"))
	require.NoError(t, err)
	require.Equal(t, "no level field here\n", buf.String())
}

func TestColorizingWriterHandlesEachKnownLevel(t *testing.T) {
	cases := map[string]string{
		"level=WARN":  "level=" + ansiYellow + "WARN" + ansiReset,
		"level=INFO":  "level=" + ansiGreen + "INFO" + ansiReset,
		"level=DEBUG": "level=" + ansiCyan + "DEBUG" + ansiReset,
	}
	for in, want := range cases {
		var buf bytes.Buffer
		w := colorizingWriter{out: &buf}
		_, err := w.Write([]byte(in))
		require.NoError(t, err)
		require.Equal(t, want, buf.String())
	}
}
