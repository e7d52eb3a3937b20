package lexutil

import "strings"

// AttrPair is one parsed attribute-list entry (spec §4.3 "Attribute-pair
// split"). A bare boolean attribute has Expr == "" and Boolean == true; an
// unescaped value (`name!=expr`) has Raw == true.
type AttrPair struct {
	Name    string
	Expr    string
	Boolean bool
	Raw     bool
}

// SplitAttributePairs splits the inside of a `(...)` attribute list into
// pairs. Commas at depth 0 always separate; spaces at depth 0 separate only
// when the text to their right cleanly opens a new `name`, `name=`, or
// `name!=` attribute, so expression values containing spaces (string
// concatenation, function calls) are not torn apart.
func SplitAttributePairs(inside string) ([]AttrPair, error) {
	inside = strings.TrimSpace(inside)
	if inside == "" {
		return nil, nil
	}

	var pairs []AttrPair
	for _, segment := range splitTopLevel(inside, ',') {
		for _, piece := range splitSpaceSafe(segment) {
			piece = strings.TrimSpace(piece)
			if piece == "" {
				continue
			}
			pairs = append(pairs, parsePair(piece))
		}
	}
	return pairs, nil
}

func parsePair(piece string) AttrPair {
	if idx := topLevelIndex(piece, "!="); idx >= 0 {
		return AttrPair{
			Name: strings.TrimSpace(piece[:idx]),
			Expr: strings.TrimSpace(piece[idx+2:]),
			Raw:  true,
		}
	}
	if idx := topLevelIndex(piece, "="); idx >= 0 {
		return AttrPair{
			Name: strings.TrimSpace(piece[:idx]),
			Expr: strings.TrimSpace(piece[idx+1:]),
		}
	}
	return AttrPair{Name: strings.TrimSpace(piece), Boolean: true}
}

// splitTopLevel splits s on sep at paren/bracket/brace depth 0, outside
// quotes.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	quote := byte(0)
	escaped := false
	start := 0
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == quote:
				quote = 0
			}
			continue
		}
		switch ch {
		case '"', '\'':
			quote = ch
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		default:
			if ch == sep && depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// topLevelIndex finds the first occurrence of needle at depth 0, outside
// quotes.
func topLevelIndex(s string, needle string) int {
	depth := 0
	quote := byte(0)
	escaped := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == quote:
				quote = 0
			}
			continue
		}
		switch ch {
		case '"', '\'':
			quote = ch
			continue
		case '(', '[', '{':
			depth++
			continue
		case ')', ']', '}':
			depth--
			continue
		}
		if depth == 0 && strings.HasPrefix(s[i:], needle) {
			return i
		}
	}
	return -1
}

// splitSpaceSafe splits segment on depth-0 spaces, but only where the text
// to the right cleanly opens a new attribute name.
func splitSpaceSafe(segment string) []string {
	var parts []string
	depth := 0
	quote := byte(0)
	escaped := false
	start := 0
	i := 0
	for i < len(segment) {
		ch := segment[i]
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == quote:
				quote = 0
			}
			i++
			continue
		}
		switch ch {
		case '"', '\'':
			quote = ch
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ' ':
			if depth == 0 {
				j := i
				for j < len(segment) && segment[j] == ' ' {
					j++
				}
				if n := identLen(segment[j:]); n > 0 {
					after := j + n
					ok := after >= len(segment)
					if !ok {
						nc := segment[after]
						ok = nc == '=' || nc == '!' || nc == ' '
					}
					if ok && start < i {
						parts = append(parts, segment[start:i])
						start = j
						i = j
						continue
					}
				}
			}
		}
		i++
	}
	if start < len(segment) {
		parts = append(parts, segment[start:])
	}
	return parts
}

func identLen(s string) int {
	n := 0
	for n < len(s) {
		ch := s[n]
		if ch == '_' || ch == '-' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			n++
			continue
		}
		break
	}
	return n
}
