package scopestack

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPushTopPop(t *testing.T) {
	s := New()
	_, ok := s.Top()
	require.False(t, ok)

	s.Push(Frame{Kind: Element, Indent: 0, Tag: "div"})
	top, ok := s.Top()
	require.True(t, ok)
	require.Equal(t, "div", top.Tag)
	require.Equal(t, 1, s.Len())

	popped := s.Pop()
	require.Equal(t, "div", popped.Tag)
	require.Equal(t, 0, s.Len())
}

func TestPopAboveClosesInTopDownOrderAndStopsAtFloor(t *testing.T) {
	s := New()
	s.Push(Frame{Kind: Element, Indent: 0, Tag: "div"})
	s.Push(Frame{Kind: Element, Indent: 2, Tag: "section"})
	s.Push(Frame{Kind: Element, Indent: 4, Tag: "p"})

	var closed []string
	s.PopAbove(2, func(f Frame) { closed = append(closed, f.Tag) })

	require.Equal(t, []string{"p", "section"}, closed)
	require.Equal(t, 1, s.Len())
	top, _ := s.Top()
	require.Equal(t, "div", top.Tag)
}

func TestPopAboveNegativeOneClosesEverything(t *testing.T) {
	s := New()
	s.Push(Frame{Kind: Element, Indent: 0, Tag: "div"})
	s.Push(Frame{Kind: Element, Indent: 2, Tag: "p"})

	var closed []string
	s.PopAbove(-1, func(f Frame) { closed = append(closed, f.Tag) })

	require.Equal(t, []string{"p", "div"}, closed)
	require.Equal(t, 0, s.Len())
}

func TestPopAboveNoopWhenNothingMeetsFloor(t *testing.T) {
	s := New()
	s.Push(Frame{Kind: Element, Indent: 0, Tag: "div"})

	var closed []string
	s.PopAbove(1, func(f Frame) { closed = append(closed, f.Tag) })

	require.Empty(t, closed)
	require.Equal(t, 1, s.Len())
}

func TestElementDepthCountsOnlyElementFrames(t *testing.T) {
	s := New()
	s.Push(Frame{Kind: Element, Indent: 0, Tag: "div"})
	s.Push(Frame{Kind: CodeBlock, Indent: 2})
	s.Push(Frame{Kind: Element, Indent: 4, Tag: "p"})

	require.Equal(t, 2, s.ElementDepth())
}

func TestInLiteralTrueUnderLiteralAncestor(t *testing.T) {
	s := New()
	require.False(t, s.InLiteral())

	s.Push(Frame{Kind: Element, Indent: 0, Tag: "pre", IsLiteral: true})
	require.True(t, s.InLiteral())

	s.Push(Frame{Kind: Element, Indent: 2, Tag: "span"})
	require.True(t, s.InLiteral())
}

func TestInSwitchOnlyTrueWhenTopIsSwitchCodeBlock(t *testing.T) {
	s := New()
	require.False(t, s.InSwitch())

	s.Push(Frame{Kind: CodeBlock, Indent: 0, IsSwitch: true})
	require.True(t, s.InSwitch())

	s.Push(Frame{Kind: CodeBlock, Indent: 2, IsCaseArm: true})
	require.False(t, s.InSwitch())
}

func TestInMixinBodyFindsNearestDefinitionFrame(t *testing.T) {
	s := New()
	_, ok := s.InMixinBody()
	require.False(t, ok)

	s.Push(Frame{Kind: Mixin, Indent: 0, IsDefinition: true, BaseDepth: -1})
	s.Push(Frame{Kind: Element, Indent: 2, Tag: "div"})

	frame, ok := s.InMixinBody()
	require.True(t, ok)
	require.Equal(t, -1, frame.BaseDepth)
}

func TestInMixinBodyIgnoresNonDefinitionMixinFrame(t *testing.T) {
	s := New()
	s.Push(Frame{Kind: Mixin, Indent: 0, IsDefinition: false})

	_, ok := s.InMixinBody()
	require.False(t, ok)
}

func TestNearestMixinFrameMatchesEitherKind(t *testing.T) {
	s := New()
	s.Push(Frame{Kind: Mixin, Indent: 0, IsDefinition: false, BaseDepth: 3})

	frame, ok := s.NearestMixinFrame()
	require.True(t, ok)
	require.Equal(t, 3, frame.BaseDepth)
}

func TestRelativeElementDepthCountsOnlyFramesOpenedAfterBaseline(t *testing.T) {
	s := New()
	s.Push(Frame{Kind: Element, Indent: 0, Tag: "div"})
	base := s.Len() - 1
	s.Push(Frame{Kind: Mixin, Indent: 2, IsDefinition: true, BaseDepth: base})
	s.Push(Frame{Kind: Element, Indent: 4, Tag: "p"})
	s.Push(Frame{Kind: Element, Indent: 6, Tag: "span"})

	require.Equal(t, 2, s.RelativeElementDepth(base))
}

func TestRelativeElementDepthHandlesEmptyStackBaseline(t *testing.T) {
	s := New()
	s.Push(Frame{Kind: Mixin, Indent: 0, IsDefinition: true, BaseDepth: -1})
	s.Push(Frame{Kind: Element, Indent: 2, Tag: "div"})

	require.Equal(t, 1, s.RelativeElementDepth(-1))
}
