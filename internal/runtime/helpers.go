// Package runtime is the reference Go implementation of the host-script
// runtime helpers the Code Generator's preamble declares (spec §4.5):
// out_attr, out_class, out_style, out_enc, out_merged_attrs. It exists so
// these helpers' semantics are pinned down and unit-tested directly in Go,
// rather than only described in generated host-script prose that no Go test
// can execute. Grounded on open2b-scriggo/template/escapers.go
// (htmlEscape/attributeEscape byte-table escaping), reimplemented for this
// module's own escape table rather than copied.
package runtime

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cruffinoni/pugc/internal/lexutil"
)

// OutEnc HTML-escapes s for use in text content or a quoted attribute
// value (spec §4.5's `out_enc`, also used directly by the Escaper for
// `#{}`/`#(...)` interpolation, spec §4.4).
func OutEnc(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&#39;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// OutAttr renders one HTML/XML attribute per spec §4.5 "Attribute
// emission": nil/false render nothing, true renders a bare or
// properties-style boolean attribute, class/style values are delegated to
// OutClass/OutStyle, and everything else renders `key="value"` with the
// value HTML-escaped iff escape is true.
func OutAttr(key string, value any, escape bool, properties bool) string {
	if value == nil {
		return ""
	}
	if b, ok := value.(bool); ok {
		if !b {
			return ""
		}
		if properties {
			return " " + key
		}
		return fmt.Sprintf(` %s="%s"`, key, key)
	}

	switch key {
	case "class":
		return fmt.Sprintf(` class="%s"`, OutClass(value))
	case "style":
		return fmt.Sprintf(` style="%s"`, OutStyle(value))
	}

	s := stringify(value)
	if escape {
		s = OutEnc(s)
	}
	return fmt.Sprintf(` %s="%s"`, key, s)
}

// OutClass flattens nested sequences, merges dictionary entries keyed by
// truthy values, and deduplicates class tokens while preserving first-seen
// order (spec §4.5, spec §8 property 7).
func OutClass(value any) string {
	var tokens []string
	seen := map[string]bool{}
	add := func(tok string) {
		tok = strings.TrimSpace(tok)
		if tok == "" || seen[tok] {
			return
		}
		seen[tok] = true
		tokens = append(tokens, tok)
	}

	var walk func(v any)
	walk = func(v any) {
		switch t := v.(type) {
		case nil:
			return
		case string:
			for _, tok := range strings.Fields(t) {
				add(tok)
			}
		case []any:
			for _, e := range t {
				walk(e)
			}
		case []string:
			for _, e := range t {
				walk(e)
			}
		case map[string]any:
			keys := make([]string, 0, len(t))
			for k := range t {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				if truthy(t[k]) {
					add(k)
				}
			}
		case map[string]bool:
			keys := make([]string, 0, len(t))
			for k := range t {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				if t[k] {
					add(k)
				}
			}
		default:
			add(stringify(v))
		}
	}
	walk(value)
	return strings.Join(tokens, " ")
}

// OutStyle accepts a string or a dictionary and emits `kebab-case-key:
// value` pairs joined by "; " (spec §4.5, spec §8 property 8).
func OutStyle(value any) string {
	switch t := value.(type) {
	case nil:
		return ""
	case string:
		return t
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s: %s", cssKey(k), stringify(t[k])))
		}
		return strings.Join(parts, "; ")
	default:
		return stringify(value)
	}
}

func cssKey(k string) string {
	if lexutil.HasUpper(k) {
		return lexutil.KebabCase(k)
	}
	return k
}

// OutMergedAttrs implements `&attributes(expr)` merge (spec §4.5): runtime
// values win for scalar keys, class sequences concatenate, style strings
// are semicolon-joined.
func OutMergedAttrs(inline map[string]any, runtimeAttrs map[string]any) map[string]any {
	out := make(map[string]any, len(inline)+len(runtimeAttrs))
	for k, v := range inline {
		out[k] = v
	}
	for k, v := range runtimeAttrs {
		switch k {
		case "class":
			out["class"] = mergeClass(out["class"], v)
		case "style":
			out["style"] = mergeStyle(out["style"], v)
		default:
			out[k] = v
		}
	}
	return out
}

func mergeClass(a, b any) any {
	var parts []any
	if a != nil {
		parts = append(parts, a)
	}
	if b != nil {
		parts = append(parts, b)
	}
	return parts
}

func mergeStyle(a, b any) any {
	as := OutStyle(a)
	bs := OutStyle(b)
	switch {
	case as == "":
		return bs
	case bs == "":
		return as
	default:
		return strings.TrimSuffix(as, ";") + "; " + bs
	}
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	default:
		return true
	}
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
