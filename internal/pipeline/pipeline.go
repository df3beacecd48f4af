// Package pipeline implements Fresh's ViewPipeline: the pure function that
// turns a Buffer snapshot, a DecorationStore snapshot, and a
// BufferViewState into painted display lines plus the mapping table that
// cursor placement, hit-testing, and input routing all key off.
//
// The five stages (source ingest, decoration merge, soft-break & wrap,
// centering & margins, mapping build) are deliberately kept as separate
// passes over a token slice rather than fused into one scan — grounded on
// the teacher's internal/editor/wordwrap.go, which does the same
// measure-then-break split instead of wrapping while scanning.
package pipeline

import (
	"github.com/elaurentium/fresh/internal/buffer"
	"github.com/elaurentium/fresh/internal/decoration"
	"github.com/elaurentium/fresh/internal/viewstate"
	"github.com/elaurentium/fresh/pkg/goturbotui"
)

// CellRef is one mapping-table entry: the (buffer, byte_offset) a display
// cell represents, or the zero value with HasOffset false for injected
// content (§4.1 DisplayLine).
type CellRef struct {
	Buffer    buffer.ID
	Offset    int
	HasOffset bool
}

// DisplayLine is one painted visual row plus its per-cell mapping.
type DisplayLine struct {
	Cells   []goturbotui.Cell
	Mapping []CellRef
}

// Frame is one pipeline invocation's complete output.
type Frame struct {
	Lines []DisplayLine
}

// Params bundles a render invocation's non-buffer inputs.
type Params struct {
	Viewport       viewstate.Viewport
	ComposeWidth   *int
	ColumnGuides   []int
	ComposeMode    bool
	WrapOwnedByPlugin bool // layout hint: plugin has claimed wrap ownership
	TabWidth       int
}

// MarginStyle is the style painted into Stage D's centering padding and
// column guides.
var MarginStyle = goturbotui.NewStyle()

// Render runs Stages A through E and returns the resulting Frame. It reads
// only its arguments — no package state — so repeated calls with identical
// inputs are guaranteed to produce identical output (§4.3 Determinism).
func Render(buf *buffer.Buffer, decos *decoration.Store, params Params) Frame {
	tokens := stageSourceIngest(buf, params)
	tokens, overlays, virtuals, softBreaks := stageDecorationMerge(buf, decos, tokens, params)
	anchors := precomputeVirtualAnchors(buf, virtuals)
	lines := stageSoftBreakAndWrap(tokens, anchors, softBreaks, params)
	lines = stageCenterAndMargin(lines, params)
	return stageMappingBuild(buf.ID(), lines, overlays, params)
}
