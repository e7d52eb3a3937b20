package compiler

import (
	"strings"

	"github.com/cruffinoni/pugc/internal/diagnostic"
	"github.com/cruffinoni/pugc/internal/escape"
	"github.com/cruffinoni/pugc/internal/lexutil"
	"github.com/cruffinoni/pugc/internal/source"
)

// dispatchFilter implements the `:name(args)[:name2(args2)...]` row (spec
// §4.3 "Filter-chain parse", spec §4.5): the chain is applied left to
// right — each link wraps the previous link's output — against either the
// trailing inline remainder of the line or, more commonly, the dedented
// child block as one literal multi-line string. The core does not enforce
// which filter names exist — that is the filters provider's own namespace
// (spec §6); an unknown name fails at artifact execution time and is
// relayed through the same annotated-trace mechanism as any other runtime
// evaluation error (spec §7 "FilterNotFound").
func (g *generator) dispatchFilter(trimmed string, indent int, line source.Line) error {
	chain, rest, ok := lexutil.ParseFilterChain(trimmed)
	if !ok {
		return diagnostic.New(diagnostic.ParseError, line.Path, line.Line, "malformed filter chain: "+trimmed)
	}

	var content string
	if strings.TrimSpace(rest) != "" {
		content = strings.TrimSpace(rest)
	} else if g.peekDeeper(indent) {
		block := g.takeBlock(indent)
		width := minIndent(block)
		content = strings.Join(dedent(block, width), "\n")
	}

	expr := escape.StringLiteral(content)
	for _, fc := range chain {
		expr = buildFilterCall(fc, expr)
	}
	g.pushOutputExpr(expr, line, true)
	return nil
}

// buildFilterCall renders one filter-chain link as a call into the filters
// provider's host-script binding, `pug_filters.<name>`, with valueExpr as
// the first positional argument and every chain argument appended
// positionally after it. Keyword arguments (`name = expr`) are passed
// through as plain expressions too — internal/filters' functions take a
// fixed argument order, not a dict, the same way the teacher's directive
// helpers take positional FreeMarker macro parameters
// (internal/convert/directives.go).
func buildFilterCall(fc lexutil.FilterCall, valueExpr string) string {
	parts := []string{valueExpr}
	for _, a := range fc.Args {
		parts = append(parts, a.Expr)
	}
	return "pug_filters." + strings.ReplaceAll(fc.Name, "-", "_") + "(" + strings.Join(parts, ", ") + ")"
}
