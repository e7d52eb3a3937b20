package lexutil

// ExtractBalanced scans s starting at an index pointing at the open
// delimiter and returns the inner substring (exclusive of both delimiters)
// plus the index of the matching close delimiter. Quoted substrings
// ('...' and "...") are opaque to depth counting. ok is false if the input
// is unterminated (grounded on the teacher's findMatchingBracket in
// internal/convert/expressions.go, generalized to arbitrary delimiter
// pairs and quote-awareness).
func ExtractBalanced(s string, start int, open, close byte) (inner string, end int, ok bool) {
	if start >= len(s) || s[start] != open {
		return "", -1, false
	}
	depth := 0
	quote := byte(0)
	escaped := false
	for i := start; i < len(s); i++ {
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
		switch {
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == open:
			depth++
		case ch == close:
			depth--
			if depth == 0 {
				return s[start+1 : i], i, true
			}
		}
	}
	return "", -1, false
}

// UnterminatedParen reports whether s, read so far, has an unterminated `(`
// at depth 0 (ignoring quoted substrings) — used by the multi-line
// parenthesis joiner (spec §4.3).
func UnterminatedParen(s string) bool {
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
		switch {
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == '(':
			depth++
		case ch == ')':
			depth--
		}
	}
	return depth > 0
}

// JoinContinuations concatenates subsequent physical lines (trimmed,
// space-joined) onto first as long as first has an unterminated `(`,
// consuming from rest. It returns the joined logical line and the number of
// extra physical lines consumed from rest (spec §4.3 "Multi-line parenthesis
// join").
func JoinContinuations(first string, rest []string) (joined string, consumed int) {
	joined = first
	for consumed < len(rest) && UnterminatedParen(joined) {
		joined += " " + trimSpace(rest[consumed])
		consumed++
	}
	return joined, consumed
}

func trimSpace(s string) string {
	start := 0
	for start < len(s) && isSpace(s[start]) {
		start++
	}
	end := len(s)
	for end > start && isSpace(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
