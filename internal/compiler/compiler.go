// Package compiler implements the Code Generator and Artifact Assembler
// (spec §4.5, §4.7): a single-pass walk over resolved annotated lines,
// maintaining an explicit scope stack, that emits a self-contained
// host-script artifact. Grounded on the teacher's emitter.emitNode
// switch-dispatch shape (internal/convert/emitter.go, directives.go),
// generalized from six FreeMarker node kinds to this module's line
// classification table, and on open2b-scriggo/compiler/emitter.go for the
// "emit, push/pop explicit frames, never panic/recover for control flow"
// discipline spec §9 calls for.
package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cruffinoni/pugc/internal/diagnostic"
	"github.com/cruffinoni/pugc/internal/escape"
	"github.com/cruffinoni/pugc/internal/flags"
	"github.com/cruffinoni/pugc/internal/lexutil"
	"github.com/cruffinoni/pugc/internal/scopestack"
	"github.com/cruffinoni/pugc/internal/source"
)

// Result is the output of one compilation: the host-script artifact plus
// any non-fatal warnings (spec §9 open question on unquoted switch arms).
type Result struct {
	Script   string
	Warnings []diagnostic.Warning
}

// Compile runs the Code Generator over a resolved (already extends/include
// expanded) sequence of annotated lines and assembles the final artifact
// (spec §4.5 + §4.7).
func Compile(lines []source.Line, fl flags.Flags) (Result, error) {
	g := &generator{
		lines:      lines,
		fl:         fl,
		stack:      scopestack.New(),
		mixinArity: map[string]int{},
	}
	if err := g.run(); err != nil {
		return Result{}, err
	}
	script := buildPreamble(g.fl) + "\n" + g.mixins.String() + "\n" + buildEpilogue(g.body.String())
	return Result{Script: script, Warnings: g.warnings}, nil
}

// generator holds the single-pass code generator's mutable state. It is
// created fresh per compilation (spec §5: "no shared mutable state in the
// core").
type generator struct {
	lines []source.Line
	pos   int

	fl    flags.Flags
	stack *scopestack.Stack

	// body accumulates the render() function's statements; mixins
	// accumulates top-level mixin function declarations, kept separate so
	// they can be emitted before render() regardless of where in the
	// template they were defined (spec §4.2 Pass A already hoists child
	// mixins to the front of the resolved line sequence; this separation
	// additionally hoists parent-template mixins defined mid-document).
	body   strings.Builder
	mixins strings.Builder

	warnings []diagnostic.Warning

	// mixinArity records each defined mixin's declared positional parameter
	// count, used by call sites to pad missing trailing arguments with
	// "null" the way default-less optional calls expect.
	mixinArity map[string]int
}

func (g *generator) run() error {
	g.collectMixinArities()
	for g.pos < len(g.lines) {
		line := g.readLogicalLine()
		if lexutil.IsBlank(line.Text) {
			g.pos++
			continue
		}
		indent, trimmed := lexutil.Indent(line.Text)
		g.closeTo(indent)
		if err := g.dispatch(trimmed, indent, line); err != nil {
			return err
		}
		g.pos++
	}
	g.closeTo(-1)
	return nil
}

// readLogicalLine returns the current physical line, first joining any
// unterminated-parenthesis continuations onto it (spec §4.3 "Multi-line
// parenthesis join"), advancing g.pos past whatever continuation lines it
// consumed. Pure comment/pipe-text lines are left alone: their own
// unbalanced parens are literal content, not a continuation.
func (g *generator) readLogicalLine() source.Line {
	line := g.lines[g.pos]
	_, trimmed := lexutil.Indent(line.Text)
	if strings.HasPrefix(trimmed, "|") || strings.HasPrefix(trimmed, "//") {
		return line
	}

	rest := make([]string, 0, len(g.lines)-g.pos-1)
	for i := g.pos + 1; i < len(g.lines); i++ {
		rest = append(rest, g.lines[i].Text)
	}
	joined, consumed := lexutil.JoinContinuations(line.Text, rest)
	if consumed == 0 {
		return line
	}
	g.pos += consumed
	return source.Line{Text: joined, Path: line.Path, Line: line.Line}
}

// closeTo pops every scope-stack frame whose indent is >= indent, emitting
// each frame's closing fragment (spec §3 invariant: "every pop must emit
// the closing fragment, no matter the cause"). Pass -1 to close everything
// remaining at end of compilation (spec §4.7 epilogue).
func (g *generator) closeTo(indent int) {
	g.stack.PopAbove(indent, func(f scopestack.Frame) {
		g.closeFrame(f)
	})
}

func (g *generator) closeFrame(f scopestack.Frame) {
	switch f.Kind {
	case scopestack.Element:
		if f.IsVoid {
			return
		}
		g.writeCode("pug_html.push(" + g.withIndentPrefix(escape.StringLiteral("</"+f.Tag+">")) + ");")
	case scopestack.CodeBlock:
		if f.IsExplicitBrace {
			return
		}
		if f.IsCaseArm {
			g.writeCode("break;")
		}
		g.writeCode("}")
	case scopestack.Mixin:
		if f.IsDefinition {
			// The frame is already off the stack by the time PopAbove
			// invokes this callback, so activeBuilder() would (wrongly)
			// resolve to g.body for the very last statement of the
			// definition; write the closing brace directly to g.mixins.
			g.mixins.WriteString("}\n\n")
		} else {
			g.writeCode("});")
		}
	}
}

// writeCode appends a raw host-script statement to whichever builder is
// currently active (the render() body, or a mixin definition's body).
func (g *generator) writeCode(stmt string) {
	g.activeBuilder().WriteString(stmt)
	g.activeBuilder().WriteString("\n")
}

// activeBuilder returns g.mixins while any mixin-definition frame is open
// (so the function declaration and its whole body land in the hoisted
// mixins section), else g.body.
func (g *generator) activeBuilder() *strings.Builder {
	if _, ok := g.stack.InMixinBody(); ok {
		return &g.mixins
	}
	return &g.body
}

// pushOutputLiteral emits `pug_html.push(<literal>);` for a fragment whose
// full text is already known at compile time.
func (g *generator) pushOutputLiteral(text string) {
	g.writeCode("pug_html.push(" + escape.StringLiteral(text) + ");")
}

// pushOutputExpr emits `pug_html.push(<expr>);`, prefixed with the current
// indentation (spec §4.5 "Indentation of emitted output") and preceded by a
// trace-coordinate assignment when the expression's evaluation may raise
// (spec §4.5 "Trace emission").
func (g *generator) pushOutputExpr(expr string, line source.Line, mayRaise bool) {
	prefixed := g.withIndentPrefix(expr)
	if mayRaise && !g.stack.InSwitch() {
		g.emitTrace(line)
	}
	g.writeCode("pug_html.push(" + prefixed + ");")
}

// emitTrace updates src_line/src_path immediately before an expression that
// may raise at render time (spec §4.5, spec §8 property 9 "Trace
// fidelity").
func (g *generator) emitTrace(line source.Line) {
	g.writeCode(fmt.Sprintf("src_line = %d; src_path = %s;", line.Line, escape.StringLiteral(line.Path)))
}

// withIndentPrefix prepends the current indentation to a content
// expression, as either a baked-in string literal (the common, compile-time
// case) or a `tabs(pug_indent + N)` runtime expression inside a mixin
// definition body (spec §3 "Mixin frame").
func (g *generator) withIndentPrefix(expr string) string {
	if g.stack.InLiteral() {
		return expr
	}
	depth := g.currentDepthExpr()
	if depth == "0" {
		return expr
	}
	if n, err := strconv.Atoi(depth); err == nil {
		return escape.StringLiteral(strings.Repeat("\t", n)) + " + " + expr
	}
	return "tabs(" + depth + ") + " + expr
}

// currentDepthExpr returns the current element-nesting depth as either a
// compile-time integer literal, or — inside a mixin definition body — the
// runtime expression "pug_indent + N" (spec §3 "Mixin frame": "indent
// emission uses a relative depth plus a runtime pug_indent parameter
// carried at the call site").
func (g *generator) currentDepthExpr() string {
	if def, ok := g.stack.NearestMixinFrame(); ok {
		n := g.stack.RelativeElementDepth(def.BaseDepth)
		if n == 0 {
			return "pug_indent"
		}
		return fmt.Sprintf("pug_indent + %d", n)
	}
	return strconv.Itoa(g.stack.ElementDepth())
}

// peekDeeper reports whether the next physical line (if any) is indented
// strictly deeper than indent, i.e. whether the current line has children.
func (g *generator) peekDeeper(indent int) bool {
	if g.pos+1 >= len(g.lines) {
		return false
	}
	for i := g.pos + 1; i < len(g.lines); i++ {
		if lexutil.IsBlank(g.lines[i].Text) {
			continue
		}
		next, _ := lexutil.Indent(g.lines[i].Text)
		return next > indent
	}
	return false
}

// takeBlock consumes and returns every following line indented strictly
// deeper than indent, advancing g.pos to the last line consumed (the caller
// still needs to g.pos++ as usual at the end of the main loop iteration).
func (g *generator) takeBlock(indent int) []source.Line {
	var out []source.Line
	for g.pos+1 < len(g.lines) {
		next := g.lines[g.pos+1]
		if lexutil.IsBlank(next.Text) {
			out = append(out, next)
			g.pos++
			continue
		}
		ind, _ := lexutil.Indent(next.Text)
		if ind <= indent {
			break
		}
		out = append(out, next)
		g.pos++
	}
	for len(out) > 0 && lexutil.IsBlank(out[len(out)-1].Text) {
		out = out[:len(out)-1]
	}
	return out
}

// minIndent returns the smallest leading-whitespace width among lines'
// non-blank entries, or 0 if there are none.
func minIndent(lines []source.Line) int {
	min := -1
	for _, l := range lines {
		if lexutil.IsBlank(l.Text) {
			continue
		}
		ind, _ := lexutil.Indent(l.Text)
		if min == -1 || ind < min {
			min = ind
		}
	}
	if min == -1 {
		return 0
	}
	return min
}

// dedent strips the given width of leading whitespace from every non-blank
// line; blank lines become empty strings.
func dedent(lines []source.Line, width int) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		if lexutil.IsBlank(l.Text) {
			out[i] = ""
			continue
		}
		if len(l.Text) >= width {
			out[i] = l.Text[width:]
		} else {
			out[i] = strings.TrimLeft(l.Text, " \t")
		}
	}
	return out
}
