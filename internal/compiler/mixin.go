package compiler

import (
	"strings"

	"github.com/cruffinoni/pugc/internal/diagnostic"
	"github.com/cruffinoni/pugc/internal/lexutil"
	"github.com/cruffinoni/pugc/internal/scopestack"
	"github.com/cruffinoni/pugc/internal/source"
)

// mixinFuncName sanitizes a declared mixin name into a valid host-script
// function identifier: pug mixin names may contain hyphens
// (`mixin list-item`), which most host languages don't allow in bare
// identifiers, so hyphens become underscores and the result is prefixed to
// keep it out of any builtin namespace.
func mixinFuncName(name string) string {
	return "mixin_" + strings.ReplaceAll(strings.TrimSpace(name), "-", "_")
}

// parseMixinHeader splits `mixin name(params)` (or `mixin name` with no
// parameter list) into the sanitized function name and parsed parameters.
func parseMixinHeader(trimmed string) (string, []lexutil.AttrPair, error) {
	rest := strings.TrimSpace(strings.TrimPrefix(trimmed, "mixin"))
	if open := strings.IndexByte(rest, '('); open >= 0 {
		inner, _, ok := lexutil.ExtractBalanced(rest, open, '(', ')')
		if !ok {
			return "", nil, errUnterminated
		}
		name := strings.TrimSpace(rest[:open])
		params, err := lexutil.SplitAttributePairs(inner)
		if err != nil {
			return "", nil, err
		}
		return mixinFuncName(name), params, nil
	}
	return mixinFuncName(rest), nil, nil
}

// collectMixinArities pre-scans every line for `mixin name(...)`
// declarations before the main pass runs, so a call site that textually
// precedes its mixin's definition (legal: resolved output may call a mixin
// defined later in the same file, or one hoisted in from a child template)
// still knows how many positional parameters to pad against.
func (g *generator) collectMixinArities() {
	for _, l := range g.lines {
		_, trimmed := lexutil.Indent(l.Text)
		if !strings.HasPrefix(trimmed, "mixin ") && trimmed != "mixin" {
			continue
		}
		name, params, err := parseMixinHeader(trimmed)
		if err != nil {
			continue
		}
		g.mixinArity[name] = len(params)
	}
}

// dispatchMixinDef implements the `mixin name(params)` row (spec §3 "Mixin
// frame", spec §4.5): declares a top-level function taking a leading
// pug_indent parameter and a trailing pug_block callback, assigns declared
// defaults for omitted positional parameters, and opens a Mixin definition
// frame so the body's indentation and statement placement route correctly.
func (g *generator) dispatchMixinDef(trimmed string, indent int, line source.Line) error {
	name, params, err := parseMixinHeader(trimmed)
	if err != nil {
		if d, ok := err.(diagnostic.Diagnostic); ok {
			d.Path, d.Line = line.Path, line.Line
			return d
		}
		return err
	}

	var sig strings.Builder
	sig.WriteString("function ")
	sig.WriteString(name)
	sig.WriteString("(pug_indent")
	for _, p := range params {
		sig.WriteString(", ")
		sig.WriteString(p.Name)
	}
	sig.WriteString(", pug_block) {")

	g.stack.Push(scopestack.Frame{
		Kind: scopestack.Mixin, Indent: indent,
		IsDefinition: true, BaseDepth: g.stack.Len() - 1,
	})
	g.writeCode(sig.String())
	for _, p := range params {
		if p.Boolean || p.Expr == "" {
			continue
		}
		g.writeCode("if (typeof(" + p.Name + ") == \"null\") { " + p.Name + " = " + p.Expr + "; }")
	}
	return nil
}

// dispatchMixinCall implements the `+name(args)` row (spec §3, spec §4.5):
// a bare call when it has no deeper block, or a call passing an anonymous
// `function(pug_indent) { ... }` as pug_block when it does.
func (g *generator) dispatchMixinCall(trimmed string, indent int, line source.Line) error {
	rest := strings.TrimSpace(strings.TrimPrefix(trimmed, "+"))
	name := rest
	var argsInner string
	if open := strings.IndexByte(rest, '('); open >= 0 {
		inner, _, ok := lexutil.ExtractBalanced(rest, open, '(', ')')
		if !ok {
			return diagnostic.New(diagnostic.UnterminatedAttribute, line.Path, line.Line, "unterminated mixin call arguments")
		}
		name = strings.TrimSpace(rest[:open])
		argsInner = inner
	}
	funcName := mixinFuncName(name)

	args := splitCallArgs(argsInner)
	if n, ok := g.mixinArity[funcName]; ok {
		for len(args) < n {
			args = append(args, "null")
		}
	}

	callArgs := append([]string{g.currentDepthExpr()}, args...)

	if g.peekDeeper(indent) {
		g.emitTrace(line)
		g.writeCode(funcName + "(" + strings.Join(callArgs, ", ") + ", function(pug_indent) {")
		g.stack.Push(scopestack.Frame{
			Kind: scopestack.Mixin, Indent: indent,
			IsDefinition: false, BaseDepth: g.stack.Len() - 1,
		})
		return nil
	}

	g.emitTrace(line)
	g.writeCode(funcName + "(" + strings.Join(callArgs, ", ") + ", null);")
	return nil
}

// splitCallArgs splits a mixin call's argument list on top-level commas
// (quote/paren/bracket/brace aware). Unlike lexutil.SplitAttributePairs,
// call arguments are plain positional expressions, not name[=value] pairs,
// so no further per-piece parsing applies.
func splitCallArgs(inside string) []string {
	inside = strings.TrimSpace(inside)
	if inside == "" {
		return nil
	}
	var out []string
	depth := 0
	quote := byte(0)
	escaped := false
	start := 0
	for i := 0; i < len(inside); i++ {
		ch := inside[i]
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
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(inside[start:i]))
				start = i + 1
			}
		}
	}
	out = append(out, strings.TrimSpace(inside[start:]))
	return out
}
