// Package escape implements the Escaper/Interpolator (spec §4.4): it
// converts raw template content text into a host-script string expression,
// honoring backslash/backtick escapes and the three interpolation forms
// (HTML-escaped `#{}`/`#()`, raw `${}`, and inline-tag `#[...]`).
package escape

import (
	"strings"

	"github.com/cruffinoni/pugc/internal/lexutil"
)

// InlineTagRenderer renders a `#[...]` inline-tag interpolation's inner text
// (parsed with the same grammar as a content-line tag, spec §4.5) into a
// host-script expression. The Code Generator supplies this callback so
// Package escape never needs to import the compiler.
type InlineTagRenderer func(tagSource string) (string, error)

// Interpolate converts raw text into a host-script expression that
// evaluates to the text's rendered form. An empty input yields the empty
// string literal `""`. The result is a `+`-joined sequence of string
// literals and evaluated-expression terms, never a single opaque call, so
// generated artifacts stay inspectable.
func Interpolate(text string, renderInline InlineTagRenderer) (string, error) {
	var terms []string
	var literal strings.Builder

	flush := func() {
		if literal.Len() > 0 {
			terms = append(terms, StringLiteral(literal.String()))
			literal.Reset()
		}
	}

	i := 0
	for i < len(text) {
		ch := text[i]

		if (ch == '\\' || ch == '`') && i+1 < len(text) {
			next := text[i+1]
			if next == '$' || next == '`' || next == '\\' {
				literal.WriteByte(next)
				i += 2
				continue
			}
		}

		switch {
		case strings.HasPrefix(text[i:], "#{"), strings.HasPrefix(text[i:], "#("):
			open, close := byte('{'), byte('}')
			if text[i+1] == '(' {
				open, close = '(', ')'
			}
			inner, end, ok := lexutil.ExtractBalanced(text, i+1, open, close)
			if !ok {
				literal.WriteByte(ch)
				i++
				continue
			}
			flush()
			terms = append(terms, "out_enc("+strings.TrimSpace(inner)+")")
			i = end + 1

		case strings.HasPrefix(text[i:], "#["):
			inner, end, ok := lexutil.ExtractBalanced(text, i+1, '[', ']')
			if !ok {
				literal.WriteByte(ch)
				i++
				continue
			}
			flush()
			rendered, err := renderInline(strings.TrimSpace(inner))
			if err != nil {
				return "", err
			}
			terms = append(terms, rendered)
			i = end + 1

		case strings.HasPrefix(text[i:], "${"):
			inner, end, ok := lexutil.ExtractBalanced(text, i+1, '{', '}')
			if !ok {
				literal.WriteByte(ch)
				i++
				continue
			}
			flush()
			terms = append(terms, "("+strings.TrimSpace(inner)+")")
			i = end + 1

		default:
			literal.WriteByte(ch)
			i++
		}
	}
	flush()

	if len(terms) == 0 {
		return `""`, nil
	}
	return strings.Join(terms, " + "), nil
}

// StringLiteral renders s as a quoted host-script string literal, escaping
// the host language's string metacharacters (spec §4.4 "with host-language
// string metacharacters escaped").
func StringLiteral(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
