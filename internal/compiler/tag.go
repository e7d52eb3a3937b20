package compiler

import (
	"strings"

	"github.com/cruffinoni/pugc/internal/diagnostic"
	"github.com/cruffinoni/pugc/internal/escape"
	"github.com/cruffinoni/pugc/internal/flags"
	"github.com/cruffinoni/pugc/internal/lexutil"
	"github.com/cruffinoni/pugc/internal/scopestack"
	"github.com/cruffinoni/pugc/internal/source"
)

// tagSpec is one parsed tag-grammar line (spec §4.5 "Tag grammar").
type tagSpec struct {
	Head      string
	ID        string
	Classes   []string
	Attrs     []lexutil.AttrPair
	MergeExpr string
	SelfClose bool
	Op        string // "", "=", "!="
	Content   string
	Chain     string // non-empty when this is a `tag: tag2 …` block-expansion line
	DotBlock  bool
	HeadEmpty bool
}

func isIdentStart(b byte) bool {
	return b == '_' || b == '-' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentChar(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

func isTagNameChar(b byte) bool {
	return isIdentChar(b) || b == ':'
}

// parseTagLine implements spec §4.5's tag grammar by hand-scanning rather
// than one large regex, since the attribute list needs paren/quote-aware
// balanced extraction (spec §4.3), not something a single regex can do
// safely.
func parseTagLine(text string) (tagSpec, error) {
	var spec tagSpec
	s := text
	i := 0

	if i < len(s) && isIdentStart(s[i]) && s[i] != '-' {
		start := i
		for i < len(s) && isTagNameChar(s[i]) {
			i++
		}
		spec.Head = s[start:i]
	}

	for i < len(s) && (s[i] == '#' || s[i] == '.') {
		if s[i] == '.' {
			if i+1 >= len(s) || !isIdentStart(s[i+1]) {
				break
			}
			i++
			start := i
			for i < len(s) && isIdentChar(s[i]) {
				i++
			}
			spec.Classes = append(spec.Classes, s[start:i])
			continue
		}
		i++
		start := i
		for i < len(s) && isIdentChar(s[i]) {
			i++
		}
		spec.ID = s[start:i]
	}
	spec.HeadEmpty = spec.Head == "" && spec.ID == "" && len(spec.Classes) == 0

	if i < len(s) && s[i] == '(' {
		inner, end, ok := lexutil.ExtractBalanced(s, i, '(', ')')
		if !ok {
			return spec, errUnterminated
		}
		pairs, err := lexutil.SplitAttributePairs(inner)
		if err != nil {
			return spec, err
		}
		spec.Attrs = pairs
		i = end + 1
	}

	if strings.HasPrefix(s[i:], "&attributes(") {
		open := i + len("&attributes")
		inner, end, ok := lexutil.ExtractBalanced(s, open, '(', ')')
		if !ok {
			return spec, errUnterminated
		}
		spec.MergeExpr = strings.TrimSpace(inner)
		i = end + 1
	}

	if i < len(s) && s[i] == '/' {
		spec.SelfClose = true
		i++
	}

	for i < len(s) && s[i] == ' ' {
		i++
	}

	if i < len(s) && s[i] == ':' && !strings.HasPrefix(s[i:], ":=") {
		spec.Chain = strings.TrimSpace(s[i+1:])
		return spec, nil
	}

	switch {
	case strings.HasPrefix(s[i:], "!="):
		spec.Op = "!="
		i += 2
	case strings.HasPrefix(s[i:], "="):
		spec.Op = "="
		i++
	}
	for i < len(s) && s[i] == ' ' {
		i++
	}

	content := s[i:]
	if content == "." {
		spec.DotBlock = true
	} else {
		spec.Content = content
	}
	return spec, nil
}

var errUnterminated = diagnostic.New(diagnostic.UnterminatedAttribute, "", 0, "unterminated attribute list")

// tagName resolves the final emitted tag name: default "div" when head is
// omitted, kebab-cased when the flag is on and XML mode is off.
func (g *generator) tagName(head string) string {
	if head == "" {
		head = "div"
	}
	if g.fl.KebabCase && !g.fl.XML && lexutil.HasUpper(head) {
		return lexutil.KebabCase(head)
	}
	return head
}

// dispatchTagOrBlock handles every row of spec §4.5 that is not claimed by
// an earlier, more specific prefix check: the tag grammar itself, its
// block-expansion (`tag: tag2`) and dot-block (`tag.`) variants, and the
// final ParseError fallback.
func (g *generator) dispatchTagOrBlock(trimmed string, indent int, line source.Line) error {
	first := trimmed[0]
	if !isIdentStart(first) && first != '#' && first != '.' {
		return diagnostic.New(diagnostic.ParseError, line.Path, line.Line, "unrecognized line: "+trimmed)
	}

	spec, err := parseTagLine(trimmed)
	if err != nil {
		if d, ok := err.(diagnostic.Diagnostic); ok {
			d.Path, d.Line = line.Path, line.Line
			return d
		}
		return err
	}

	if spec.Chain != "" {
		return g.emitChainedTag(spec, indent, line)
	}
	if spec.DotBlock {
		return g.emitDotBlock(spec, indent, line)
	}
	return g.emitTag(spec, indent, line)
}

// emitChainedTag implements "Block expansion" (spec §4.5): open <tag>, push
// it, then re-inject the chain remainder as a synthetic line two columns
// deeper, reusing the same dispatch.
func (g *generator) emitChainedTag(spec tagSpec, indent int, line source.Line) error {
	name := g.tagName(spec.Head)
	attrsExpr, raises := g.buildAttrsExpr(spec)
	g.openTagLine(name, attrsExpr, raises, line)
	g.stack.Push(scopestack.Frame{
		Kind: scopestack.Element, Indent: indent, Tag: name,
		IsVoid: flags.VoidTags[name], IsLiteral: flags.LiteralTags[name],
	})

	synthIndent, synthText := indent+2, spec.Chain
	childTrimmed := strings.TrimSpace(synthText)
	return g.dispatch(childTrimmed, synthIndent, line)
}

// emitDotBlock implements the `tag.` row: open <tag> (unless head/id/class
// were all empty — spec's "empty tag name" case) then emit every child line
// verbatim, indent-stripped by the minimum child indent.
func (g *generator) emitDotBlock(spec tagSpec, indent int, line source.Line) error {
	block := g.takeBlock(indent)
	width := minIndent(block)
	raw := dedent(block, width)

	if !spec.HeadEmpty {
		name := g.tagName(spec.Head)
		attrsExpr, raises := g.buildAttrsExpr(spec)
		g.openTagLine(name, attrsExpr, raises, line)
		g.stack.Push(scopestack.Frame{
			Kind: scopestack.Element, Indent: indent, Tag: name,
			IsVoid: flags.VoidTags[name], IsLiteral: true,
		})
	}

	for i, text := range raw {
		if lexutil.IsBlank(text) {
			continue
		}
		rendered, err := escape.Interpolate(text, g.renderInlineTag)
		if err != nil {
			return err
		}
		g.pushOutputExpr(rendered, block[i], textMayRaise(text))
	}
	return nil
}

// openTagLine emits the opening-tag fragment. It never touches the scope
// stack itself: callers that know the tag has children push the Element
// frame right after calling this; callers that know it is self-contained
// (inline content, self-close) build the rest of the fragment separately
// instead of calling this at all.
func (g *generator) openTagLine(name, attrsExpr string, attrsRaise bool, line source.Line) {
	lit := "<" + name
	if attrsExpr == "" {
		lit += ">"
		g.pushOutputExpr(escape.StringLiteral(lit), line, false)
		return
	}
	expr := escape.StringLiteral(lit) + " + " + attrsExpr + ` + ">"`
	g.pushOutputExpr(expr, line, attrsRaise)
}

// emitTag is the ordinary tag-grammar row (spec §4.5), dispatching further
// to the inline-content, has-children, or self-close-matrix case.
func (g *generator) emitTag(spec tagSpec, indent int, line source.Line) error {
	name := g.tagName(spec.Head)
	isVoid := flags.VoidTags[name]
	isLiteral := flags.LiteralTags[name]
	attrsExpr, attrsRaise := g.buildAttrsExpr(spec)

	hasInlineContent := spec.Content != "" || spec.Op != ""
	hasChildren := !hasInlineContent && g.peekDeeper(indent)

	switch {
	case hasInlineContent && g.peekDeeper(indent):
		return diagnostic.New(diagnostic.ParseError, line.Path, line.Line, "tag has both inline content and a child block: "+name)

	case hasInlineContent:
		contentExpr, contentRaises, err := g.tagContentExpr(spec, line)
		if err != nil {
			return err
		}
		open := "<" + name
		var full string
		if attrsExpr == "" {
			full = escape.StringLiteral(open+">") + " + " + contentExpr
		} else {
			full = escape.StringLiteral(open) + " + " + attrsExpr + ` + ">" + ` + contentExpr
		}
		if !isVoid {
			full += ` + ` + escape.StringLiteral("</"+name+">")
		}
		g.pushOutputExpr(full, line, attrsRaise || contentRaises)
		return nil

	case hasChildren:
		g.openTagLine(name, attrsExpr, attrsRaise, line)
		g.stack.Push(scopestack.Frame{
			Kind: scopestack.Element, Indent: indent, Tag: name,
			IsVoid: isVoid, IsLiteral: isLiteral,
		})
		return nil

	default:
		return g.emitSelfClosed(name, attrsExpr, attrsRaise, spec.SelfClose, isVoid, line)
	}
}

// emitSelfClosed implements spec §4.5's "Self-closing rules for a tag
// without children and without content" matrix.
func (g *generator) emitSelfClosed(name, attrsExpr string, attrsRaise, explicitSlash, isVoid bool, line source.Line) error {
	var tail string
	switch {
	case explicitSlash:
		tail = " />"
	case isVoid:
		if g.fl.VoidSelfClose {
			tail = " />"
		} else {
			tail = ">"
		}
	default:
		if g.fl.ContainerSelfClose {
			tail = " />"
		} else {
			tail = "></" + name + ">"
		}
	}

	open := "<" + name
	if attrsExpr == "" {
		g.pushOutputExpr(escape.StringLiteral(open+tail), line, false)
		return nil
	}
	expr := escape.StringLiteral(open) + " + " + attrsExpr + " + " + escape.StringLiteral(tail)
	g.pushOutputExpr(expr, line, attrsRaise)
	return nil
}

// tagContentExpr builds the host-script expression for a tag line's inline
// content, honoring the `=`/`!=` operators and plain interpolated text.
func (g *generator) tagContentExpr(spec tagSpec, line source.Line) (string, bool, error) {
	switch spec.Op {
	case "=":
		return "out_enc(" + spec.Content + ")", true, nil
	case "!=":
		return spec.Content, true, nil
	default:
		rendered, err := escape.Interpolate(spec.Content, g.renderInlineTag)
		if err != nil {
			return "", false, err
		}
		return rendered, textMayRaise(spec.Content), nil
	}
}

// renderInlineTagSpec renders a parsed inline-tag (`#[...]`) spec into a
// single host-script string expression (spec §4.4): inline tags are always
// self-contained — no children, no scope-stack frame.
func (g *generator) renderInlineTagSpec(spec tagSpec) (string, error) {
	name := g.tagName(spec.Head)
	isVoid := flags.VoidTags[name]
	attrsExpr, _ := g.buildAttrsExpr(spec)

	open := "<" + name
	var parts []string
	if attrsExpr == "" {
		parts = append(parts, escape.StringLiteral(open+">"))
	} else {
		parts = append(parts, escape.StringLiteral(open), attrsExpr, `">"`)
	}

	if spec.Content != "" || spec.Op != "" {
		switch spec.Op {
		case "=":
			parts = append(parts, "out_enc("+spec.Content+")")
		case "!=":
			parts = append(parts, spec.Content)
		default:
			rendered, err := escape.Interpolate(spec.Content, g.renderInlineTag)
			if err != nil {
				return "", err
			}
			parts = append(parts, rendered)
		}
	}
	if !isVoid {
		parts = append(parts, escape.StringLiteral("</"+name+">"))
	}
	return strings.Join(parts, " + "), nil
}
