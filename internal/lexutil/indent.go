// Package lexutil holds the tokenizer helpers shared by the Resolver and the
// Code Generator (spec §4.3): indentation measurement, balanced-delimiter
// extraction, attribute-list splitting, and filter-chain parsing.
package lexutil

import "strings"

// Indent measures the leading-whitespace width of line and returns the
// width plus the remainder of the line with that whitespace stripped. Each
// leading space or tab character counts as one indent unit; templates are
// expected to use one style consistently, as in the source language.
func Indent(line string) (int, string) {
	n := 0
	for n < len(line) && (line[n] == ' ' || line[n] == '\t') {
		n++
	}
	return n, line[n:]
}

// IsBlank reports whether a line is empty once its indentation is removed.
func IsBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// CommentKind classifies a line as a silent (`//-`) or visible (`//`)
// comment opener, or neither. Shared by the Resolver's include-skip logic
// (spec §4.2) and the Code Generator's line dispatch (spec §4.5) so both
// stages agree on what a comment line looks like.
type CommentKind int

const (
	NotComment CommentKind = iota
	SilentComment
	VisibleComment
)

// ClassifyComment inspects the indent-stripped content of a line.
func ClassifyComment(trimmed string) CommentKind {
	switch {
	case strings.HasPrefix(trimmed, "//-"):
		return SilentComment
	case strings.HasPrefix(trimmed, "//"):
		return VisibleComment
	default:
		return NotComment
	}
}
