package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elaurentium/fresh/internal/buffer"
	"github.com/elaurentium/fresh/internal/decoration"
	"github.com/elaurentium/fresh/internal/viewstate"
	"github.com/elaurentium/fresh/pkg/goturbotui"
)

func goturbotuiBoldStyle() goturbotui.Style {
	return goturbotui.NewStyle().WithAttributes(goturbotui.AttrBold)
}

func lineText(dl DisplayLine) string {
	s := make([]rune, 0, len(dl.Cells))
	for _, c := range dl.Cells {
		s = append(s, c.Char)
	}
	return string(s)
}

// TestSoftBreakWrap grounds scenario E1: explicit SoftBreak markers split
// a single logical line into several display lines with hanging indent,
// without the hard-width fallback ever firing.
func TestSoftBreakWrap(t *testing.T) {
	text := "alpha beta gamma delta epsilon"
	buf := buffer.New("doc.txt", text)
	decos := decoration.NewStore(buf.Markers(), 0)

	firstSpaceAfter := func(word string) int {
		idx := -1
		for i := 0; i+len(word) <= len(text); i++ {
			if text[i:i+len(word)] == word && i+len(word) < len(text) && text[i+len(word)] == ' ' {
				idx = i + len(word)
				break
			}
		}
		require.NotEqual(t, -1, idx, "fixture word %q must be followed by a space", word)
		return idx
	}

	betaSpace := firstSpaceAfter("beta")
	deltaSpace := firstSpaceAfter("delta")

	m1, _ := buf.MintMarker(betaSpace, buffer.BiasLeft)
	decos.Add(decoration.Decoration{Namespace: "wrap", Kind: decoration.KindSoftBreak, Start: m1, HangingIndent: 2})
	m2, _ := buf.MintMarker(deltaSpace, buffer.BiasLeft)
	decos.Add(decoration.Decoration{Namespace: "wrap", Kind: decoration.KindSoftBreak, Start: m2, HangingIndent: 2})

	width := 14
	frame := Render(buf, decos, Params{
		Viewport:    viewstate.Viewport{Width: 80, Height: 10},
		ComposeMode: true,
		ComposeWidth: &width,
	})

	// Stage D centers the 14-column text in the 80-column viewport, so
	// every line starts with (80-14)/2 = 33 margin cells.
	margin := strings.Repeat(" ", (80-width)/2)

	require.Len(t, frame.Lines, 3)
	assert.Equal(t, margin+"alpha beta", lineText(frame.Lines[0]))
	assert.Equal(t, margin+"  gamma delta", lineText(frame.Lines[1]))
	assert.Equal(t, margin+"  epsilon", lineText(frame.Lines[2]))

	// The hanging-indent spaces on line 2 carry no mapping.
	assert.False(t, frame.Lines[1].Mapping[len(margin)+0].HasOffset)
	assert.False(t, frame.Lines[1].Mapping[len(margin)+1].HasOffset)
	// 'g' of "gamma" maps back to the source buffer.
	assert.True(t, frame.Lines[1].Mapping[len(margin)+2].HasOffset)
}

// TestConcealWithOverlay grounds scenario E2: a conceal with an empty
// replacement hides bytes outright, and an overlay spanning the concealed
// boundary still paints the surviving "bold" text.
func TestConcealWithOverlay(t *testing.T) {
	text := "**bold** text"
	buf := buffer.New("doc.md", text)
	decos := decoration.NewStore(buf.Markers(), 0)

	leftStart, _ := buf.MintMarker(0, buffer.BiasLeft)
	leftEnd, _ := buf.MintMarker(2, buffer.BiasRight)
	decos.Add(decoration.Decoration{Namespace: "md", Kind: decoration.KindConceal, Start: leftStart, End: leftEnd})

	rightStart, _ := buf.MintMarker(6, buffer.BiasLeft)
	rightEnd, _ := buf.MintMarker(8, buffer.BiasRight)
	decos.Add(decoration.Decoration{Namespace: "md", Kind: decoration.KindConceal, Start: rightStart, End: rightEnd})

	boldStart, _ := buf.MintMarker(2, buffer.BiasLeft)
	boldEnd, _ := buf.MintMarker(6, buffer.BiasRight)
	decos.Add(decoration.Decoration{
		Namespace: "md", Kind: decoration.KindOverlay, Start: boldStart, End: boldEnd,
		OverlayStyle: decoration.OverlayStyle{Style: goturbotuiBoldStyle()},
	})

	frame := Render(buf, decos, Params{Viewport: viewstate.Viewport{Width: 80, Height: 10}})

	require.Len(t, frame.Lines, 1)
	assert.Equal(t, "bold text", lineText(frame.Lines[0]))

	// 'b' of "bold" maps to buffer offset 2.
	assert.True(t, frame.Lines[0].Mapping[0].HasOffset)
	assert.Equal(t, 2, frame.Lines[0].Mapping[0].Offset)

	for i := 0; i < len("bold"); i++ {
		assert.NotZero(t, frame.Lines[0].Cells[i].Style.Attributes&goturbotui.AttrBold, "bold cells must carry the overlay's bold attribute")
	}
	assert.Zero(t, frame.Lines[0].Cells[len("bold")].Style.Attributes&goturbotui.AttrBold, "the space after bold must not carry the overlay's bold attribute")
}

func TestDeterministicAcrossRepeatedRenders(t *testing.T) {
	buf := buffer.New("d", "hello world")
	decos := decoration.NewStore(buf.Markers(), 0)
	params := Params{Viewport: viewstate.Viewport{Width: 5, Height: 10}}

	first := Render(buf, decos, params)
	second := Render(buf, decos, params)
	require.Equal(t, len(first.Lines), len(second.Lines))
	for i := range first.Lines {
		assert.Equal(t, lineText(first.Lines[i]), lineText(second.Lines[i]))
	}
}

func TestHardWidthFallbackBreaksAtLastSpace(t *testing.T) {
	buf := buffer.New("d", "the quick brown fox")
	decos := decoration.NewStore(buf.Markers(), 0)
	frame := Render(buf, decos, Params{Viewport: viewstate.Viewport{Width: 10, Height: 10}})

	require.True(t, len(frame.Lines) >= 2)
	assert.Equal(t, "the quick", lineText(frame.Lines[0]))
}

func TestCursorMappingFallsBackWhenConcealed(t *testing.T) {
	buf := buffer.New("d", "**x** y")
	decos := decoration.NewStore(buf.Markers(), 0)
	s, _ := buf.MintMarker(0, buffer.BiasLeft)
	e, _ := buf.MintMarker(2, buffer.BiasRight)
	decos.Add(decoration.Decoration{Namespace: "md", Kind: decoration.KindConceal, Start: s, End: e})

	frame := Render(buf, decos, Params{Viewport: viewstate.Viewport{Width: 80, Height: 10}})

	// Offset 1 sits inside the concealed "**" — must fall back, not vanish.
	line, col, ok := MapCursorToCell(frame, buf, buf.ID(), 1)
	require.True(t, ok)
	assert.Equal(t, 0, line)
	assert.GreaterOrEqual(t, col, 0)
}
