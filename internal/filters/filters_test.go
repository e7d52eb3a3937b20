package filters

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarkdownRendersParagraphAndEmphasis(t *testing.T) {
	out, err := Markdown("hello *world*")
	require.NoError(t, err)
	require.Equal(t, "<p>hello <em>world</em></p>", out)
}

func TestMarkdownHeading(t *testing.T) {
	out, err := Markdown("# Title")
	require.NoError(t, err)
	require.Equal(t, "<h1>Title</h1>", out)
}

func TestYAMLQuotesPlainText(t *testing.T) {
	out, err := YAML("hello: world")
	require.NoError(t, err)
	require.Equal(t, `'hello: world'`, out)
}

func TestCDATAWrapsText(t *testing.T) {
	require.Equal(t, "<![CDATA[plain text]]>", CDATA("plain text"))
}

func TestCDATASplitsEmbeddedCloseSequence(t *testing.T) {
	out := CDATA("a]]>b")
	require.Equal(t, "<![CDATA[a]]]]><![CDATA[>b]]>", out)
}

func TestJSONNormalizesWhitespace(t *testing.T) {
	out, err := JSON(`{ "a" :   1,  "b": [1,2] }`)
	require.NoError(t, err)
	require.Equal(t, `{"a":1,"b":[1,2]}`, out)
}

func TestJSONInvalidInputErrors(t *testing.T) {
	_, err := JSON("not json")
	require.Error(t, err)
}
