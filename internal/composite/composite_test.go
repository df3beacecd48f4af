package composite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elaurentium/fresh/internal/buffer"
	"github.com/elaurentium/fresh/internal/decoration"
	"github.com/elaurentium/fresh/pkg/goturbotui"
)

// TestSynthesizeFramesSingleSection grounds the basic box/gutter shape: a
// section's content sits between a titled top rule and a bare bottom rule,
// each content row bordered by vertical bars with an optional gutter.
func TestSynthesizeFramesSingleSection(t *testing.T) {
	buf := buffer.New("a.txt", "hi")
	decos := decoration.NewStore(buf.Markers(), 0)

	sec := SectionDescriptor{
		Buffer:      buf,
		Decorations: decos,
		Height:      1,
		Width:       4,
		IsEditable:  true,
		Title:       "a",
		ShowGutter:  false,
	}

	frame := Synthesize([]SectionDescriptor{sec})
	require.Len(t, frame.Lines, 3) // top rule + 1 content row + bottom rule

	top := frame.Lines[0]
	assert.Equal(t, rune(topLeft), top.Cells[0].Char)
	assert.Equal(t, rune(topRight), top.Cells[len(top.Cells)-1].Char)
	// boxInner = gutterW(0) + width(4) cells between the corners.
	assert.Len(t, top.Cells, 4+2)

	content := frame.Lines[1]
	assert.Equal(t, rune(vertical), content.Cells[0].Char)
	assert.Equal(t, rune(vertical), content.Cells[len(content.Cells)-1].Char)
	assert.Equal(t, "h", string(content.Cells[1].Char))
	assert.Equal(t, "i", string(content.Cells[2].Char))

	bottom := frame.Lines[2]
	assert.Equal(t, rune(bottomLeft), bottom.Cells[0].Char)
	assert.Equal(t, rune(bottomRight), bottom.Cells[len(bottom.Cells)-1].Char)
}

// TestSynthesizeStacksSectionsVertically grounds composite layout: several
// sections render one after another, each keeping its own frame.
func TestSynthesizeStacksSectionsVertically(t *testing.T) {
	bufA := buffer.New("a.txt", "x")
	decosA := decoration.NewStore(bufA.Markers(), 0)
	bufB := buffer.New("b.txt", "y")
	decosB := decoration.NewStore(bufB.Markers(), 0)

	secA := SectionDescriptor{Buffer: bufA, Decorations: decosA, Height: 1, Width: 2, IsEditable: true, Title: "A"}
	secB := SectionDescriptor{Buffer: bufB, Decorations: decosB, Height: 1, Width: 2, IsEditable: false, Title: "B"}

	frame := Synthesize([]SectionDescriptor{secA, secB})
	// Each section contributes top rule + content + bottom rule.
	require.Len(t, frame.Lines, 6)
}

// TestCompositeMappingRoutesToSourceBuffer grounds scenario E4: a cell
// inside a section's content carries that section's buffer id and offset,
// while framing/gutter cells carry no mapping at all, so InputRouter can
// tell editable content from decoration.
func TestCompositeMappingRoutesToSourceBuffer(t *testing.T) {
	buf := buffer.New("doc.txt", "hi")
	decos := decoration.NewStore(buf.Markers(), 0)

	sec := SectionDescriptor{
		Buffer:      buf,
		Decorations: decos,
		Height:      1,
		Width:       2,
		IsEditable:  true,
		ShowGutter:  true,
	}

	frame := Synthesize([]SectionDescriptor{sec})
	content := frame.Lines[1]

	// cell 0: left bar, no mapping.
	assert.False(t, content.Mapping[0].HasOffset)
	// cell 1: gutter, no mapping.
	assert.False(t, content.Mapping[1].HasOffset)
	// cell 2/3: "h"/"i", mapped to doc.txt offsets 0/1.
	require.True(t, content.Mapping[2].HasOffset)
	assert.Equal(t, buf.ID(), content.Mapping[2].Buffer)
	assert.Equal(t, 0, content.Mapping[2].Offset)
	require.True(t, content.Mapping[3].HasOffset)
	assert.Equal(t, 1, content.Mapping[3].Offset)
	// trailing right bar, no mapping.
	assert.False(t, content.Mapping[4].HasOffset)
}

// TestRuleTruncatesOverlongTitle grounds the box rule's bounds-safety: a
// title longer than the box's inner width never desyncs the rule's cell
// count from the fixed-width content rows below it.
func TestRuleTruncatesOverlongTitle(t *testing.T) {
	buf := buffer.New("c.txt", "z")
	decos := decoration.NewStore(buf.Markers(), 0)

	sec := SectionDescriptor{
		Buffer:      buf,
		Decorations: decos,
		Height:      1,
		Width:       3,
		IsEditable:  true,
		Title:       "a much longer title than the box",
	}

	frame := Synthesize([]SectionDescriptor{sec})
	top := frame.Lines[0]
	content := frame.Lines[1]
	assert.Equal(t, len(content.Cells), len(top.Cells))
	assert.Equal(t, rune(topLeft), top.Cells[0].Char)
	assert.Equal(t, rune(topRight), top.Cells[len(top.Cells)-1].Char)
}

// TestOverlayStyleSurvivesIntoCompositeSection grounds that Stage B's
// overlay resolution still applies inside a composite section's content,
// not just in the standalone ViewPipeline.
func TestOverlayStyleSurvivesIntoCompositeSection(t *testing.T) {
	buf := buffer.New("md.txt", "hi")
	decos := decoration.NewStore(buf.Markers(), 0)
	s, _ := buf.MintMarker(0, buffer.BiasLeft)
	e, _ := buf.MintMarker(2, buffer.BiasRight)
	decos.Add(decoration.Decoration{
		Namespace: "md", Kind: decoration.KindOverlay, Start: s, End: e,
		OverlayStyle: decoration.OverlayStyle{Style: goturbotui.NewStyle().WithAttributes(goturbotui.AttrBold)},
	})

	sec := SectionDescriptor{Buffer: buf, Decorations: decos, Height: 1, Width: 2, IsEditable: true}
	frame := Synthesize([]SectionDescriptor{sec})
	content := frame.Lines[1]
	assert.NotZero(t, content.Cells[1].Style.Attributes&goturbotui.AttrBold)
	assert.NotZero(t, content.Cells[2].Style.Attributes&goturbotui.AttrBold)
}
