package compiler

import (
	"strings"

	"github.com/cruffinoni/pugc/internal/escape"
	"github.com/cruffinoni/pugc/internal/lexutil"
)

// buildAttrsExpr builds the host-script expression that evaluates to the
// full attribute-fragment string for one tag (spec §4.5 "Attribute
// emission"): every plain pair becomes an out_attr(...) call, class sources
// (static `.foo` suffixes and any `class=` pair) are combined into a single
// out_attr("class", @[...], false) call so out_class's dedup/order rules
// apply uniformly, and style pairs route through out_attr("style", ...)
// the same way. When the line carries &attributes(expr), the static
// attributes are instead folded into a dict and merged at runtime via
// out_merged_attrs/out_attrs_from_dict (spec §4.5 "&attributes(expr)
// merge"). The second return value reports whether any constituent
// expression is not a compile-time literal, so callers can gate trace
// emission.
func (g *generator) buildAttrsExpr(spec tagSpec) (string, bool) {
	var classSources []string
	for _, c := range spec.Classes {
		classSources = append(classSources, escape.StringLiteral(c))
	}

	var styleExpr string
	var plain []lexutil.AttrPair
	raises := false
	for _, p := range spec.Attrs {
		switch p.Name {
		case "class":
			classSources = append(classSources, p.Expr)
			raises = true
		case "style":
			styleExpr = p.Expr
			raises = true
		default:
			plain = append(plain, p)
			if !p.Boolean {
				raises = true
			}
		}
	}

	if spec.MergeExpr != "" {
		return g.buildMergedAttrsExpr(spec.ID, classSources, styleExpr, plain, spec.MergeExpr), true
	}

	var parts []string
	if spec.ID != "" {
		parts = append(parts, `out_attr("id", `+escape.StringLiteral(spec.ID)+`, false)`)
	}
	for _, p := range plain {
		if p.Boolean {
			parts = append(parts, `out_attr("`+p.Name+`", true, false)`)
			continue
		}
		escFlag := "true"
		if p.Raw {
			escFlag = "false"
		}
		parts = append(parts, `out_attr("`+p.Name+`", `+p.Expr+`, `+escFlag+`)`)
	}
	if len(classSources) > 0 {
		parts = append(parts, `out_attr("class", @[`+strings.Join(classSources, ", ")+`], false)`)
	}
	if styleExpr != "" {
		parts = append(parts, `out_attr("style", `+styleExpr+`, false)`)
	}

	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, " + "), raises
}

// buildMergedAttrsExpr implements the &attributes(expr) merge path: fold
// every static attribute source into an inline dict literal, merge it with
// the runtime expr via out_merged_attrs, then flatten the merged dict back
// into markup text via out_attrs_from_dict.
func (g *generator) buildMergedAttrsExpr(id string, classSources []string, styleExpr string, plain []lexutil.AttrPair, mergeExpr string) string {
	var entries []string
	if id != "" {
		entries = append(entries, "id = "+escape.StringLiteral(id))
	}
	if len(classSources) > 0 {
		entries = append(entries, "class = @["+strings.Join(classSources, ", ")+"]")
	}
	if styleExpr != "" {
		entries = append(entries, "style = "+styleExpr)
	}
	for _, p := range plain {
		if p.Boolean {
			entries = append(entries, p.Name+" = true")
			continue
		}
		entries = append(entries, p.Name+" = "+p.Expr)
	}
	dict := "@{ " + strings.Join(entries, "; ") + " }"
	return "out_attrs_from_dict(out_merged_attrs(" + dict + ", " + mergeExpr + "))"
}
