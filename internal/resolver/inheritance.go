package resolver

import (
	"strings"

	"github.com/cruffinoni/pugc/internal/diagnostic"
	"github.com/cruffinoni/pugc/internal/flags"
	"github.com/cruffinoni/pugc/internal/lexutil"
	"github.com/cruffinoni/pugc/internal/source"
)

// passA implements spec §4.2 Pass A: if the first non-empty line is
// `extends <path>`, recursively resolve the parent, scan the child for
// block overrides and top-level mixin definitions, then emit the child's
// mixins followed by the parent with each matching `block <name>` replaced.
func passA(lines []source.Line, fl flags.Flags, ancestors map[string]bool, deps DepMap) ([]source.Line, error) {
	first, firstIdx := firstNonEmpty(lines)
	if first == nil {
		return lines, nil
	}

	trimmed := strings.TrimSpace(first.Text)
	if !strings.HasPrefix(trimmed, "extends ") {
		return lines, nil
	}

	targetPath := strings.TrimSpace(strings.TrimPrefix(trimmed, "extends "))
	resolved, ok := resolvePath(first.Path, fl, targetPath)
	if !ok {
		return nil, diagnostic.New(diagnostic.ExtendsNotFound, first.Path, first.Line, "extends target not found: "+targetPath)
	}

	parentLines, err := resolveFile(resolved, ancestors, fl, deps)
	if err != nil {
		return nil, err
	}

	blocks, mixins := scanChild(lines[firstIdx+1:])

	merged, err := spliceBlocks(parentLines, blocks)
	if err != nil {
		return nil, err
	}

	out := make([]source.Line, 0, len(mixins)+len(merged))
	out = append(out, mixins...)
	out = append(out, merged...)
	return out, nil
}

// childBlock is one captured `block <name>` body from a child template.
type childBlock struct {
	name string
	body []source.Line
}

// scanChild walks a child template's lines (the portion after its
// `extends` directive) collecting block overrides and top-level mixin
// definitions, ignoring `//-` comment regions (spec §4.2 Pass A step 3).
func scanChild(lines []source.Line) (map[string][]source.Line, []source.Line) {
	blocks := map[string][]source.Line{}
	var mixins []source.Line

	i := 0
	for i < len(lines) {
		line := lines[i]
		indent, trimmed := lexutil.Indent(line.Text)

		if lexutil.ClassifyComment(trimmed) == lexutil.SilentComment {
			i = skipDeeperBlock(lines, i, indent)
			continue
		}

		if strings.HasPrefix(trimmed, "block ") {
			name := strings.TrimSpace(strings.TrimPrefix(trimmed, "block"))
			bodyEnd := blockEnd(lines, i+1, indent)
			blocks[name] = lines[i+1 : bodyEnd]
			i = bodyEnd
			continue
		}

		if indent == 0 && (strings.HasPrefix(trimmed, "mixin ")) {
			bodyEnd := blockEnd(lines, i+1, indent)
			mixins = append(mixins, lines[i:bodyEnd]...)
			i = bodyEnd
			continue
		}

		i++
	}
	return blocks, mixins
}

// spliceBlocks walks the parent lines, replacing each `block <name>`
// directive (and its default body) with the child's override, reindented,
// when present; otherwise the parent's default body is kept intact.
func spliceBlocks(parent []source.Line, overrides map[string][]source.Line) ([]source.Line, error) {
	out := make([]source.Line, 0, len(parent))
	i := 0
	for i < len(parent) {
		line := parent[i]
		indent, trimmed := lexutil.Indent(line.Text)

		if strings.HasPrefix(trimmed, "block ") {
			name := strings.TrimSpace(strings.TrimPrefix(trimmed, "block"))
			bodyEnd := blockEnd(parent, i+1, indent)

			if override, ok := overrides[name]; ok {
				out = append(out, reindent(override, indent)...)
			} else {
				out = append(out, parent[i+1:bodyEnd]...)
			}
			i = bodyEnd
			continue
		}

		out = append(out, line)
		i++
	}
	return out, nil
}

// reindent shifts body so its minimum non-blank content indent aligns with
// targetIndent, preserving blank lines verbatim (spec §4.2 Pass A step 4).
func reindent(body []source.Line, targetIndent int) []source.Line {
	minIndent := -1
	for _, l := range body {
		if lexutil.IsBlank(l.Text) {
			continue
		}
		ind, _ := lexutil.Indent(l.Text)
		if minIndent == -1 || ind < minIndent {
			minIndent = ind
		}
	}
	if minIndent == -1 {
		return body
	}
	delta := targetIndent - minIndent

	out := make([]source.Line, len(body))
	for i, l := range body {
		if lexutil.IsBlank(l.Text) {
			out[i] = l
			continue
		}
		ind, rest := lexutil.Indent(l.Text)
		newIndent := ind + delta
		if newIndent < 0 {
			newIndent = 0
		}
		out[i] = source.Line{
			Text: strings.Repeat(" ", newIndent) + rest,
			Path: l.Path,
			Line: l.Line,
		}
	}
	return out
}

// blockEnd returns the index of the first line at or below baseIndent
// starting from start, i.e. one past the end of a block opened at
// baseIndent.
func blockEnd(lines []source.Line, start, baseIndent int) int {
	i := start
	for i < len(lines) {
		if lexutil.IsBlank(lines[i].Text) {
			i++
			continue
		}
		ind, _ := lexutil.Indent(lines[i].Text)
		if ind <= baseIndent {
			break
		}
		i++
	}
	return i
}

// skipDeeperBlock returns the index just past a silent-comment region
// opened at baseIndent.
func skipDeeperBlock(lines []source.Line, start, baseIndent int) int {
	return blockEnd(lines, start+1, baseIndent)
}

func firstNonEmpty(lines []source.Line) (*source.Line, int) {
	for i := range lines {
		if !lexutil.IsBlank(lines[i].Text) {
			return &lines[i], i
		}
	}
	return nil, -1
}
