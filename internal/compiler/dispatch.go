package compiler

import (
	"strconv"
	"strings"

	"github.com/cruffinoni/pugc/internal/diagnostic"
	"github.com/cruffinoni/pugc/internal/escape"
	"github.com/cruffinoni/pugc/internal/flags"
	"github.com/cruffinoni/pugc/internal/lexutil"
	"github.com/cruffinoni/pugc/internal/scopestack"
	"github.com/cruffinoni/pugc/internal/source"
)

// controlKeywords is the generic control-flow keyword set spec §4.5's `-
// <expr>` row dispatches on, supplemented per SPEC_FULL.md §4 with `each`
// as an alternate spelling of `foreach`/`for`.
var controlKeywords = map[string]bool{
	"if": true, "elseif": true, "else": true,
	"foreach": true, "for": true, "each": true, "while": true,
	"switch": true, "try": true, "catch": true, "finally": true,
	"default": true,
}

// controlKeyword returns the leading word of expr and whether it names a
// control keyword.
func controlKeyword(expr string) (string, bool) {
	word := expr
	for i, r := range expr {
		if r == ' ' || r == '(' || r == '\t' {
			word = expr[:i]
			break
		}
	}
	return word, controlKeywords[word]
}

// dispatch classifies trimmed and routes to the matching spec §4.5 rule.
func (g *generator) dispatch(trimmed string, indent int, line source.Line) error {
	switch {
	case lexutil.ClassifyComment(trimmed) == lexutil.SilentComment:
		g.takeBlock(indent) // silent comment: consume and discard
		return nil

	case lexutil.ClassifyComment(trimmed) == lexutil.VisibleComment:
		return g.dispatchComment(trimmed, indent, line)

	case trimmed == "-":
		return g.dispatchRawCode(indent)

	case strings.HasPrefix(trimmed, "- "):
		return g.dispatchDashExpr(strings.TrimSpace(trimmed[2:]), indent, line)

	case strings.HasPrefix(trimmed, ":"):
		return g.dispatchFilter(trimmed, indent, line)

	case strings.HasPrefix(trimmed, "doctype"):
		return g.dispatchDoctype(trimmed, line)

	case strings.HasPrefix(trimmed, "<"):
		g.pushOutputExpr(escape.StringLiteral(trimmed), line, false)
		return nil

	case trimmed == "block":
		if _, ok := g.stack.InMixinBody(); ok {
			g.writeCode("if (pug_block) { pug_block(" + g.currentDepthExpr() + "); }")
			return nil
		}
		return diagnostic.New(diagnostic.ParseError, line.Path, line.Line, "block outside mixin body")

	case strings.HasPrefix(trimmed, "mixin "):
		return g.dispatchMixinDef(trimmed, indent, line)

	case strings.HasPrefix(trimmed, "+"):
		return g.dispatchMixinCall(trimmed, indent, line)

	case strings.HasPrefix(trimmed, "!="):
		expr := strings.TrimSpace(trimmed[2:])
		g.pushOutputExpr(expr, line, true)
		return nil

	case strings.HasPrefix(trimmed, "="):
		expr := strings.TrimSpace(trimmed[1:])
		g.pushOutputExpr("out_enc(" + expr + ")", line, true)
		return nil

	case strings.HasPrefix(trimmed, "|"):
		text := strings.TrimPrefix(trimmed, "|")
		text = strings.TrimPrefix(text, " ")
		return g.emitInterpolatedLine(text, line)

	default:
		return g.dispatchTagOrBlock(trimmed, indent, line)
	}
}

// dispatchComment implements the visible-comment row: `<!-- … -->` wrapping
// the body, or inline when there is no child block; inside a switch parent,
// comments degrade to host-language comments (spec §4.5).
func (g *generator) dispatchComment(trimmed string, indent int, line source.Line) error {
	inline := strings.TrimSpace(strings.TrimPrefix(trimmed, "//"))
	var bodyText string
	if g.peekDeeper(indent) {
		block := g.takeBlock(indent)
		width := minIndent(block)
		bodyText = strings.Join(dedent(block, width), "\n")
	} else {
		bodyText = inline
	}

	if g.stack.InSwitch() {
		g.writeCode("/* " + strings.ReplaceAll(bodyText, "*/", "* /") + " */")
		return nil
	}

	rendered, err := escape.Interpolate(bodyText, g.renderInlineTag)
	if err != nil {
		return err
	}
	g.pushOutputExpr(`"<!-- " + `+rendered+` + " -->"`, line, true)
	return nil
}

// dispatchRawCode implements the bare `-` row: every deeper line is raw
// host code, emitted verbatim with no frame pushed.
func (g *generator) dispatchRawCode(indent int) error {
	block := g.takeBlock(indent)
	for _, l := range block {
		if lexutil.IsBlank(l.Text) {
			continue
		}
		_, trimmed := lexutil.Indent(l.Text)
		g.writeCode(trimmed)
	}
	return nil
}

// dispatchDashExpr implements the control-flow half of the `- <expr>` row
// (spec §4.5), including the switch-parent case-arm auto-open and the
// explicit-brace opt-out of auto-close.
func (g *generator) dispatchDashExpr(expr string, indent int, line source.Line) error {
	parentSwitch := g.stack.InSwitch()
	kw, isControl := controlKeyword(expr)
	endsBrace := strings.HasSuffix(strings.TrimSpace(expr), "{")

	if !parentSwitch {
		g.emitTrace(line)
	}

	switch {
	case endsBrace:
		g.writeCode(expr)
		g.stack.Push(scopestack.Frame{
			Kind: scopestack.CodeBlock, Indent: indent,
			IsExplicitBrace: true, IsSwitch: kw == "switch",
			IsCaseArm: parentSwitch && kw != "switch",
		})
	case isControl:
		g.writeCode(expr + " {")
		g.stack.Push(scopestack.Frame{
			Kind: scopestack.CodeBlock, Indent: indent,
			IsSwitch: kw == "switch", IsCaseArm: parentSwitch && kw != "switch",
		})
	case parentSwitch:
		if w := switchArmWarning(expr, line); w != nil {
			g.warnings = append(g.warnings, *w)
		}
		g.writeCode("case " + expr + ": {")
		g.stack.Push(scopestack.Frame{Kind: scopestack.CodeBlock, Indent: indent, IsCaseArm: true})
	default:
		g.writeCode(expr + ";")
	}
	return nil
}

// switchArmWarning implements spec §9's open question: warn (not error)
// when a switch case arm's expr parses as neither a quoted string nor a
// numeric literal, since the host language's acceptance of it as a case
// label is then unverified at compile time.
func switchArmWarning(expr string, line source.Line) *diagnostic.Warning {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil
	}
	if expr[0] == '"' || expr[0] == '\'' {
		return nil
	}
	if _, err := strconv.ParseFloat(expr, 64); err == nil {
		return nil
	}
	return &diagnostic.Warning{
		Path:    line.Path,
		Line:    line.Line,
		Message: "switch case arm \"" + expr + "\" is neither a quoted string nor a numeric literal",
	}
}

// dispatchDoctype implements the `doctype <kind>` row: looks up the table,
// sets XML mode, and appends the literal doctype string (spec §3, §4.5).
func (g *generator) dispatchDoctype(trimmed string, line source.Line) error {
	kind := strings.TrimSpace(strings.TrimPrefix(trimmed, "doctype"))
	if flags.IsXMLDoctype(kind) {
		g.fl.SetXML()
	}
	g.pushOutputLiteral(flags.Doctype(kind))
	return nil
}

// emitInterpolatedLine is the shared implementation behind `| text` and
// dot-block literal text lines: interpolate, then push with indentation.
func (g *generator) emitInterpolatedLine(text string, line source.Line) error {
	rendered, err := escape.Interpolate(text, g.renderInlineTag)
	if err != nil {
		return err
	}
	g.pushOutputExpr(rendered, line, textMayRaise(text))
	return nil
}

// textMayRaise reports whether text contains any interpolation form, in
// which case a trace assignment should precede its emitted push.
func textMayRaise(text string) bool {
	return strings.Contains(text, "#{") || strings.Contains(text, "#(") ||
		strings.Contains(text, "${") || strings.Contains(text, "#[")
}

// renderInlineTag implements the Escaper's InlineTagRenderer callback
// (spec §4.4 "#[...]` inline-tag interpolation"): parse the inner text with
// the same grammar as a content-line tag and splice its rendered expression
// inline, without touching the scope stack (an inline tag never opens a
// persistent frame; it is fully self-contained).
func (g *generator) renderInlineTag(tagSource string) (string, error) {
	spec, err := parseTagLine(tagSource)
	if err != nil {
		return "", err
	}
	return g.renderInlineTagSpec(spec)
}
