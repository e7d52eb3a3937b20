package resolver

import (
	"path/filepath"
	"strings"

	"github.com/cruffinoni/pugc/internal/diagnostic"
	"github.com/cruffinoni/pugc/internal/flags"
	"github.com/cruffinoni/pugc/internal/lexutil"
	"github.com/cruffinoni/pugc/internal/source"
)

// passB implements spec §4.2 Pass B: a linear walk splicing `include` (with
// an optional filter chain) directives, skipping lines inside `//`/`//-`
// comment regions.
func passB(lines []source.Line, fl flags.Flags, ancestors map[string]bool, deps DepMap) ([]source.Line, error) {
	var out []source.Line

	i := 0
	commentBase := -1
	for i < len(lines) {
		line := lines[i]
		indent, trimmed := lexutil.Indent(line.Text)

		if commentBase >= 0 {
			if !lexutil.IsBlank(line.Text) && indent <= commentBase {
				commentBase = -1
			} else {
				out = append(out, line)
				i++
				continue
			}
		}

		if kind := lexutil.ClassifyComment(trimmed); kind != lexutil.NotComment {
			commentBase = indent
			out = append(out, line)
			i++
			continue
		}

		if !strings.HasPrefix(trimmed, "include") {
			out = append(out, line)
			i++
			continue
		}
		afterKeyword := trimmed[len("include"):]
		if afterKeyword != "" && afterKeyword[0] != ':' && afterKeyword[0] != ' ' {
			// e.g. "includeFoo" is not the directive.
			out = append(out, line)
			i++
			continue
		}

		chain, remainder, hasChain := lexutil.ParseFilterChain(afterKeyword)
		targetPath := strings.TrimSpace(remainder)
		if !hasChain {
			targetPath = strings.TrimSpace(afterKeyword)
		}

		spliced, err := spliceInclude(line, indent, targetPath, chain, fl, ancestors, deps)
		if err != nil {
			return nil, err
		}
		out = append(out, spliced...)
		i++
	}
	return out, nil
}

func spliceInclude(site source.Line, indent int, target string, chain []lexutil.FilterCall, fl flags.Flags, ancestors map[string]bool, deps DepMap) ([]source.Line, error) {
	resolved, ok := resolvePath(site.Path, fl, target)
	if !ok {
		return nil, diagnostic.New(diagnostic.IncludeNotFound, site.Path, site.Line, "include target not found: "+target)
	}

	if len(chain) > 0 {
		return spliceFilteredInclude(site, indent, resolved, chain, deps)
	}

	ext := strings.TrimPrefix(filepath.Ext(resolved), ".")
	if ext == fl.Extension || ext == "pug" {
		nested, err := resolveFile(resolved, ancestors, fl, deps)
		if err != nil {
			return nil, err
		}
		return prefixIndent(nested, indent), nil
	}

	recordDep(resolved, deps)
	raw, err := source.FromFile(resolved)
	if err != nil {
		return nil, err
	}
	out := make([]source.Line, len(raw))
	for i, l := range raw {
		out[i] = source.Line{Text: "| " + l.Text, Path: l.Path, Line: l.Line}
	}
	return out, nil
}

// spliceFilteredInclude emits a synthetic filter header at the include
// site's indent, followed by the raw file contents indented by two more
// columns (spec §4.2 Pass B: "the filter itself handles content semantics;
// no recursive Pug processing occurs" — and spec §9's open question: the
// minimum indent of that raw content is intentionally NOT normalized).
func spliceFilteredInclude(site source.Line, indent int, resolved string, chain []lexutil.FilterCall, deps DepMap) ([]source.Line, error) {
	recordDep(resolved, deps)
	raw, err := source.FromFile(resolved)
	if err != nil {
		return nil, err
	}

	header := source.Line{
		Text: strings.Repeat(" ", indent) + renderFilterChain(chain),
		Path: site.Path,
		Line: site.Line,
	}

	out := make([]source.Line, 0, len(raw)+1)
	out = append(out, header)
	childIndent := indent + 2
	for _, l := range raw {
		out = append(out, source.Line{
			Text: strings.Repeat(" ", childIndent) + l.Text,
			Path: l.Path,
			Line: l.Line,
		})
	}
	return out, nil
}

func renderFilterChain(chain []lexutil.FilterCall) string {
	var b strings.Builder
	for _, c := range chain {
		b.WriteByte(':')
		b.WriteString(c.Name)
		if len(c.Args) > 0 {
			b.WriteByte('(')
			for i, a := range c.Args {
				if i > 0 {
					b.WriteString(", ")
				}
				if a.Name != "" {
					b.WriteString(a.Name)
					b.WriteByte('=')
				}
				b.WriteString(a.Expr)
			}
			b.WriteByte(')')
		}
	}
	return b.String()
}

func prefixIndent(lines []source.Line, indent int) []source.Line {
	if indent == 0 {
		return lines
	}
	out := make([]source.Line, len(lines))
	pad := strings.Repeat(" ", indent)
	for i, l := range lines {
		if lexutil.IsBlank(l.Text) {
			out[i] = l
			continue
		}
		out[i] = source.Line{Text: pad + l.Text, Path: l.Path, Line: l.Line}
	}
	return out
}
