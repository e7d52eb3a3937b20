package lexutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIndentMeasuresLeadingWhitespace(t *testing.T) {
	n, rest := Indent("  p hi")
	require.Equal(t, 2, n)
	require.Equal(t, "p hi", rest)

	n, rest = Indent("\t\tp hi")
	require.Equal(t, 2, n)
	require.Equal(t, "p hi", rest)

	n, rest = Indent("p hi")
	require.Equal(t, 0, n)
	require.Equal(t, "p hi", rest)
}

func TestIsBlank(t *testing.T) {
	require.True(t, IsBlank(""))
	require.True(t, IsBlank("   \t"))
	require.False(t, IsBlank("  x"))
}

func TestClassifyComment(t *testing.T) {
	require.Equal(t, SilentComment, ClassifyComment("//- hidden"))
	require.Equal(t, VisibleComment, ClassifyComment("// visible"))
	require.Equal(t, NotComment, ClassifyComment("p hi"))
}

func TestExtractBalancedSimple(t *testing.T) {
	inner, end, ok := ExtractBalanced("(a, b)", 0, '(', ')')
	require.True(t, ok)
	require.Equal(t, "a, b", inner)
	require.Equal(t, 5, end)
}

func TestExtractBalancedNested(t *testing.T) {
	s := "(a, (b, c))"
	inner, end, ok := ExtractBalanced(s, 0, '(', ')')
	require.True(t, ok)
	require.Equal(t, "a, (b, c)", inner)
	require.Equal(t, len(s)-1, end)
}

func TestExtractBalancedQuotedDelimiterIsOpaque(t *testing.T) {
	s := `("a)b")`
	inner, end, ok := ExtractBalanced(s, 0, '(', ')')
	require.True(t, ok)
	require.Equal(t, `"a)b"`, inner)
	require.Equal(t, len(s)-1, end)
}

func TestExtractBalancedUnterminated(t *testing.T) {
	_, _, ok := ExtractBalanced("(abc", 0, '(', ')')
	require.False(t, ok)
}

func TestExtractBalancedStartNotAtOpener(t *testing.T) {
	_, _, ok := ExtractBalanced("x(abc)", 0, '(', ')')
	require.False(t, ok)
}

func TestUnterminatedParen(t *testing.T) {
	require.False(t, UnterminatedParen("foo(bar)"))
	require.True(t, UnterminatedParen("foo(bar"))
	require.False(t, UnterminatedParen(`foo("a(b)c")`))
}

func TestJoinContinuationsConsumesUntilBalanced(t *testing.T) {
	joined, consumed := JoinContinuations("div(foo=", []string{"bar,", "baz)", "trailing"})
	require.Equal(t, "div(foo= bar, baz)", joined)
	require.Equal(t, 2, consumed)
}

func TestJoinContinuationsNoopWhenBalanced(t *testing.T) {
	joined, consumed := JoinContinuations("div(foo)", []string{"other"})
	require.Equal(t, "div(foo)", joined)
	require.Equal(t, 0, consumed)
}

func TestSplitAttributePairsBoolean(t *testing.T) {
	pairs, err := SplitAttributePairs("disabled")
	require.NoError(t, err)
	require.Equal(t, []AttrPair{{Name: "disabled", Boolean: true}}, pairs)
}

func TestSplitAttributePairsCommaSeparated(t *testing.T) {
	pairs, err := SplitAttributePairs(`href="#", disabled`)
	require.NoError(t, err)
	require.Equal(t, []AttrPair{
		{Name: "href", Expr: `"#"`},
		{Name: "disabled", Boolean: true},
	}, pairs)
}

func TestSplitAttributePairsSpaceSeparated(t *testing.T) {
	pairs, err := SplitAttributePairs(`type="text" value="hi" disabled`)
	require.NoError(t, err)
	require.Equal(t, []AttrPair{
		{Name: "type", Expr: `"text"`},
		{Name: "value", Expr: `"hi"`},
		{Name: "disabled", Boolean: true},
	}, pairs)
}

func TestSplitAttributePairsRawUnescaped(t *testing.T) {
	pairs, err := SplitAttributePairs("data!=$raw()")
	require.NoError(t, err)
	require.Equal(t, []AttrPair{{Name: "data", Expr: "$raw()", Raw: true}}, pairs)
}

func TestSplitAttributePairsQuotedValueWithSpacesStaysWhole(t *testing.T) {
	pairs, err := SplitAttributePairs(`title="hello world"`)
	require.NoError(t, err)
	require.Equal(t, []AttrPair{{Name: "title", Expr: `"hello world"`}}, pairs)
}

func TestSplitAttributePairsExpressionWithSpaceStaysWhole(t *testing.T) {
	pairs, err := SplitAttributePairs("data=$a + $b")
	require.NoError(t, err)
	require.Equal(t, []AttrPair{{Name: "data", Expr: "$a + $b"}}, pairs)
}

func TestSplitAttributePairsEmpty(t *testing.T) {
	pairs, err := SplitAttributePairs("   ")
	require.NoError(t, err)
	require.Nil(t, pairs)
}

func TestKebabCase(t *testing.T) {
	require.Equal(t, "my-widget", KebabCase("MyWidget"))
	require.Equal(t, "x-m-l-http", KebabCase("xMLHttp"))
	require.Equal(t, "plain", KebabCase("plain"))
}

func TestHasUpper(t *testing.T) {
	require.True(t, HasUpper("myWidget"))
	require.False(t, HasUpper("lowercase"))
}

func TestParseFilterChainSingleNoArgs(t *testing.T) {
	chain, rest, ok := ParseFilterChain(":markdown")
	require.True(t, ok)
	require.Equal(t, "", rest)
	require.Equal(t, []FilterCall{{Name: "markdown"}}, chain)
}

func TestParseFilterChainWithArgs(t *testing.T) {
	chain, rest, ok := ParseFilterChain(`:markdown(gfm, flavor="strict")`)
	require.True(t, ok)
	require.Equal(t, "", rest)
	require.Len(t, chain, 1)
	require.Equal(t, "markdown", chain[0].Name)
	require.Equal(t, []FilterArg{
		{Expr: "gfm"},
		{Name: "flavor", Expr: `"strict"`},
	}, chain[0].Args)
}

func TestParseFilterChainMultipleLinks(t *testing.T) {
	chain, rest, ok := ParseFilterChain(":yaml:markdown")
	require.True(t, ok)
	require.Equal(t, "", rest)
	require.Equal(t, []FilterCall{{Name: "yaml"}, {Name: "markdown"}}, chain)
}

func TestParseFilterChainNoLeadingColonFails(t *testing.T) {
	_, _, ok := ParseFilterChain("markdown")
	require.False(t, ok)
}

func TestParseFilterChainUnterminatedArgsFails(t *testing.T) {
	_, _, ok := ParseFilterChain(":markdown(unterminated")
	require.False(t, ok)
}

func TestParseFilterChainLeavesTrailingInlineContent(t *testing.T) {
	chain, rest, ok := ParseFilterChain(":markdown some trailing text")
	require.True(t, ok)
	require.Equal(t, []FilterCall{{Name: "markdown"}}, chain)
	require.Equal(t, " some trailing text", rest)
}
