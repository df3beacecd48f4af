// Package composite implements Fresh's CompositeSynthesizer: it stitches
// several buffers' sections into one display surface, framing each with a
// box (plus a one-cell gutter when the section's ShowGutter is set), and
// keeps a per-cell mapping table whose
// BufferId varies by cell so InputRouter can route an edit to the right
// source buffer (§4.4).
package composite

import (
	"github.com/elaurentium/fresh/internal/buffer"
	"github.com/elaurentium/fresh/internal/decoration"
	"github.com/elaurentium/fresh/internal/pipeline"
	"github.com/elaurentium/fresh/internal/viewstate"
	"github.com/elaurentium/fresh/pkg/goturbotui"
)

func sectionParams(sec SectionDescriptor) pipeline.Params {
	return pipeline.Params{
		Viewport: viewstate.Viewport{TopByte: sec.TopByte, Width: sec.Width, Height: sec.Height},
	}
}

// SectionDescriptor is one source buffer's slice of a composite view.
type SectionDescriptor struct {
	Buffer      *buffer.Buffer
	Decorations *decoration.Store
	TopByte     int
	Height      int // content rows, excluding top/bottom frame rules
	Width       int // content columns, excluding frame bars and gutter
	IsEditable  bool
	Title       string
	ShowGutter  bool
}

// FrameStyle is the style painted into box rules, bars, and gutters —
// distinct from any section's content syntax colors (§4.4).
var FrameStyle = goturbotui.NewStyle().WithForeground(goturbotui.ColorDarkCyan)

const (
	topLeft     = '┌'
	topRight    = '┐'
	bottomLeft  = '└'
	bottomRight = '┘'
	horizontal  = '─'
	vertical    = '│'
)

// framingCell is an injected, non-editable cell: HasOffset is always
// false, matching DisplayLine's mapping contract for injected content.
func framingCell(r rune) (goturbotui.Cell, pipeline.CellRef) {
	return goturbotui.Cell{Char: r, Style: FrameStyle}, pipeline.CellRef{}
}

// Synthesize lays out sections top to bottom, each in its own framed box,
// and returns the stitched Frame. Section content runs Stages A-B of the
// ViewPipeline against its own buffer+decorations, then is expanded to
// cells without the general wrap — a composite section's layout is this
// synthesizer's framing, not ViewPipeline's soft-break/hard-width wrap.
func Synthesize(sections []SectionDescriptor) pipeline.Frame {
	var out pipeline.Frame
	for _, sec := range sections {
		out.Lines = append(out.Lines, renderSection(sec)...)
	}
	return out
}

func renderSection(sec SectionDescriptor) []pipeline.DisplayLine {
	gutterW := 0
	if sec.ShowGutter {
		gutterW = 1
	}
	boxInner := gutterW + sec.Width

	var lines []pipeline.DisplayLine
	lines = append(lines, topRule(sec.Title, boxInner))

	tokens, styleFn := pipeline.SectionTokens(sec.Buffer, sec.Decorations, sectionParams(sec))
	contentLines := pipeline.ExpandToCells(tokens, sec.Buffer.ID(), styleFn)

	for i := 0; i < sec.Height; i++ {
		var content pipeline.DisplayLine
		if i < len(contentLines) {
			content = contentLines[i]
		}
		lines = append(lines, frameContentRow(content, sec, gutterW))
	}

	lines = append(lines, bottomRule(boxInner))
	return lines
}

func frameContentRow(content pipeline.DisplayLine, sec SectionDescriptor, gutterW int) pipeline.DisplayLine {
	row := pipeline.DisplayLine{}
	lc, lr := framingCell(vertical)
	row.Cells = append(row.Cells, lc)
	row.Mapping = append(row.Mapping, lr)

	if gutterW > 0 {
		gc, gr := framingCell(' ')
		row.Cells = append(row.Cells, gc)
		row.Mapping = append(row.Mapping, gr)
	}

	for i := 0; i < sec.Width; i++ {
		if i < len(content.Cells) {
			row.Cells = append(row.Cells, content.Cells[i])
			ref := content.Mapping[i]
			if ref.HasOffset && !sec.IsEditable {
				// Read-only sections still report their offset for
				// hit-testing, InputRouter decides editability from
				// SectionDescriptor, not from the mapping itself.
			}
			row.Mapping = append(row.Mapping, ref)
		} else {
			pc, pr := framingCell(' ')
			row.Cells = append(row.Cells, pc)
			row.Mapping = append(row.Mapping, pr)
		}
	}

	rc, rr := framingCell(vertical)
	row.Cells = append(row.Cells, rc)
	row.Mapping = append(row.Mapping, rr)
	return row
}

func topRule(title string, inner int) pipeline.DisplayLine {
	return rule(topLeft, topRight, title, inner)
}

func bottomRule(inner int) pipeline.DisplayLine {
	return rule(bottomLeft, bottomRight, "", inner)
}

func rule(left, right rune, title string, inner int) pipeline.DisplayLine {
	row := pipeline.DisplayLine{}
	push := func(r rune) {
		c, ref := framingCell(r)
		row.Cells = append(row.Cells, c)
		row.Mapping = append(row.Mapping, ref)
	}
	push(left)

	remaining := inner
	if title != "" && inner > 2 {
		label := []rune(title)
		if len(label) > inner-2 {
			label = label[:inner-2]
		}
		push(horizontal)
		for _, r := range label {
			push(r)
		}
		remaining = inner - 1 - len(label)
	}
	for i := 0; i < remaining; i++ {
		push(horizontal)
	}
	push(right)
	return row
}
