// Package filters implements the filters-provider collaborator (spec §6):
// the fixed set of named host functions a compiled artifact's
// `pug_filters.<name>` calls resolve to at render time. Grounded on
// open2b-scriggo's `cmd/scriggo/build.go` MarkdownConverter wiring
// (goldmark.New + Convert into a buffer) for the markdown half, and on
// gopkg.in/yaml.v3's Marshal for the yaml half.
package filters

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"
)

// md is constructed once: goldmark's default extension set (no GFM tables or
// footnotes) matches what spec §6's example fixtures exercise.
var md = goldmark.New()

// Markdown renders text as GitHub-flavored-lite markdown into an HTML
// fragment (spec §6's `markdown` filter), matching a `:markdown` block's raw
// dedented child text.
func Markdown(text string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// YAML pretty-prints a filter block's raw text as a YAML-quoted string
// literal (spec §6's `yaml` filter), useful for embedding a structured
// fixture verbatim inside generated host script.
func YAML(text string) (string, error) {
	out, err := yaml.Marshal(text)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(out), "\n"), nil
}

// CDATA wraps text in an XML CDATA section (spec §6's `cdata` filter).
// text's own "]]>" occurrences are split across adjacent sections, the
// standard XML escape for the one sequence CDATA cannot represent literally.
func CDATA(text string) string {
	escaped := strings.ReplaceAll(text, "]]>", "]]]]><![CDATA[>")
	return "<![CDATA[" + escaped + "]]>"
}

// JSON re-serializes text, parsed as JSON, back into compact form (spec §6's
// `json` filter): a cheap normalization pass for inline JSON fixtures.
func JSON(text string) (string, error) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return "", err
	}
	out, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
