package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elaurentium/fresh/internal/buffer"
	"github.com/elaurentium/fresh/internal/composite"
	"github.com/elaurentium/fresh/internal/decoration"
	"github.com/elaurentium/fresh/internal/pipeline"
	"github.com/elaurentium/fresh/internal/viewstate"
	"github.com/elaurentium/fresh/pkg/goturbotui"
)

func TestClassifyEventRuneInsert(t *testing.T) {
	ev := goturbotui.Event{Type: goturbotui.EventKey, Rune: 'x'}
	intent := ClassifyEvent(ev)
	assert.Equal(t, IntentInsertRune, intent.Kind)
	assert.Equal(t, 'x', intent.Rune)
}

func TestClassifyEventNavigation(t *testing.T) {
	ev := goturbotui.Event{Type: goturbotui.EventKey, Key: goturbotui.Key{Code: goturbotui.KeyLeft}}
	intent := ClassifyEvent(ev)
	assert.Equal(t, IntentMove, intent.Kind)
	assert.Equal(t, MoveLeft, intent.Move)

	ev = goturbotui.Event{Type: goturbotui.EventKey, Key: goturbotui.Key{Code: goturbotui.KeyLeft, Modifiers: goturbotui.ModCtrl}}
	intent = ClassifyEvent(ev)
	assert.Equal(t, MoveWordLeft, intent.Move)
}

// TestRouteEventPassesThroughNavigation grounds that movement is never
// blocked by section editability, even over a framing cell.
func TestRouteEventPassesThroughNavigation(t *testing.T) {
	buf := buffer.New("a.txt", "hi")
	decos := decoration.NewStore(buf.Markers(), 0)
	sec := composite.SectionDescriptor{Buffer: buf, Decorations: decos, Height: 1, Width: 2, IsEditable: false}
	frame := composite.Synthesize([]composite.SectionDescriptor{sec})

	r := New()
	ev := goturbotui.Event{Type: goturbotui.EventKey, Key: goturbotui.Key{Code: goturbotui.KeyRight}}
	intent, _, ok := r.RouteEvent(frame, 0, 0, AlwaysEditable, ev)
	require.True(t, ok)
	assert.Equal(t, IntentMove, intent.Kind)
	assert.Empty(t, r.Blocked)
}

// TestRouteEventBlocksEditOnFramingCell grounds scenario E4: typing over a
// box border or gutter cell (no mapped offset) blocks the edit.
func TestRouteEventBlocksEditOnFramingCell(t *testing.T) {
	buf := buffer.New("a.txt", "hi")
	decos := decoration.NewStore(buf.Markers(), 0)
	sec := composite.SectionDescriptor{Buffer: buf, Decorations: decos, Height: 1, Width: 2, IsEditable: true}
	frame := composite.Synthesize([]composite.SectionDescriptor{sec})

	content := frame.Lines[1]
	require.False(t, content.Mapping[0].HasOffset) // left bar

	r := New()
	ev := goturbotui.Event{Type: goturbotui.EventKey, Rune: 'z'}
	_, _, ok := r.RouteEvent(frame, 1, 0, AlwaysEditable, ev)
	assert.False(t, ok)
	assert.Equal(t, "editing disabled here", r.Blocked)
}

// TestRouteEventBlocksEditOnReadOnlySection grounds scenario E4's other
// half: a cell that does carry a mapped offset is still blocked when its
// owning section is not editable.
func TestRouteEventBlocksEditOnReadOnlySection(t *testing.T) {
	bufA := buffer.New("editable.txt", "hi")
	decosA := decoration.NewStore(bufA.Markers(), 0)
	bufB := buffer.New("readonly.txt", "yo")
	decosB := decoration.NewStore(bufB.Markers(), 0)

	secA := composite.SectionDescriptor{Buffer: bufA, Decorations: decosA, Height: 1, Width: 2, IsEditable: true}
	secB := composite.SectionDescriptor{Buffer: bufB, Decorations: decosB, Height: 1, Width: 2, IsEditable: false}
	frame := composite.Synthesize([]composite.SectionDescriptor{secA, secB})

	editable := func(id buffer.ID) bool { return id == bufA.ID() }

	// Line index 4 is secB's content row (top rule, content, bottom rule
	// for secA = lines 0-2, then secB's top rule at 3, content at 4).
	secBContent := frame.Lines[4]
	require.True(t, secBContent.Mapping[1].HasOffset)

	r := New()
	ev := goturbotui.Event{Type: goturbotui.EventKey, Rune: 'z'}
	_, _, ok := r.RouteEvent(frame, 4, 1, editable, ev)
	assert.False(t, ok)
	assert.Equal(t, "editing disabled here", r.Blocked)

	// The same event against secA's editable content succeeds.
	secAContent := frame.Lines[1]
	require.True(t, secAContent.Mapping[1].HasOffset)
	_, target, ok := r.RouteEvent(frame, 1, 1, editable, ev)
	require.True(t, ok)
	assert.Equal(t, bufA.ID(), target.Buffer)
}

// TestRouteEventOrdinarySplitAlwaysEditable grounds the non-composite
// pass-through case: a plain ViewPipeline frame has one buffer and the
// router never blocks an edit over its own content.
func TestRouteEventOrdinarySplitAlwaysEditable(t *testing.T) {
	buf := buffer.New("a.txt", "hi")
	decos := decoration.NewStore(buf.Markers(), 0)
	frame := pipeline.Render(buf, decos, pipeline.Params{Viewport: viewstate.Viewport{Width: 80, Height: 10}})

	r := New()
	ev := goturbotui.Event{Type: goturbotui.EventKey, Rune: 'z'}
	_, target, ok := r.RouteEvent(frame, 0, 0, AlwaysEditable, ev)
	require.True(t, ok)
	assert.Equal(t, buf.ID(), target.Buffer)
	assert.Equal(t, 0, target.Offset)
}
