package pipeline

import (
	"github.com/elaurentium/fresh/internal/buffer"
	"github.com/elaurentium/fresh/pkg/goturbotui"
)

// stageMappingBuild expands the wrapped token lines into painted cells plus
// the per-cell (BufferId, byte_offset) mapping table (§4.3 Stage E), and
// paints column guides through blank cells now that cell positions exist.
func stageMappingBuild(bufID buffer.ID, lines [][]Token, overlays []styleRange, params Params) Frame {
	frame := Frame{Lines: make([]DisplayLine, 0, len(lines))}

	for _, line := range lines {
		dl := DisplayLine{}
		if len(line) == 1 && line[0].Kind == TokenVirtualLine {
			for _, span := range line[0].VirtualSpans {
				style := goturbotui.Style{
					Foreground: span.Style.Foreground,
					Background: span.Style.Background,
					Attributes: span.Style.Attributes,
				}
				for _, r := range span.Text {
					dl.Cells = append(dl.Cells, goturbotui.Cell{Char: r, Style: style})
					dl.Mapping = append(dl.Mapping, CellRef{})
				}
			}
			frame.Lines = append(frame.Lines, dl)
			continue
		}

		for _, t := range line {
			switch t.Kind {
			case TokenSpace:
				style := MarginStyle
				ref := CellRef{}
				if !t.Margin {
					if t.SourceOffset != nil {
						style = resolveStyle(overlays, *t.SourceOffset, goturbotui.NewStyle())
						ref = CellRef{Buffer: bufID, Offset: *t.SourceOffset, HasOffset: true}
					} else if t.StyleAnchor != nil {
						style = resolveStyle(overlays, *t.StyleAnchor, goturbotui.NewStyle())
					} else {
						style = goturbotui.NewStyle()
					}
				}
				dl.Cells = append(dl.Cells, goturbotui.Cell{Char: ' ', Style: style})
				dl.Mapping = append(dl.Mapping, ref)
			case TokenText:
				byteOff := 0
				for _, r := range t.Text {
					var ref CellRef
					var style goturbotui.Style
					if t.SourceOffset != nil {
						off := *t.SourceOffset + byteOff
						ref = CellRef{Buffer: bufID, Offset: off, HasOffset: true}
						style = resolveStyle(overlays, off, goturbotui.NewStyle())
					} else if t.StyleAnchor != nil {
						style = resolveStyle(overlays, *t.StyleAnchor, goturbotui.NewStyle())
					} else {
						style = goturbotui.NewStyle()
					}
					dl.Cells = append(dl.Cells, goturbotui.Cell{Char: r, Style: style})
					dl.Mapping = append(dl.Mapping, ref)
					byteOff += len(string(r))
				}
			}
		}

		for _, g := range params.ColumnGuides {
			if g >= 0 && g < len(dl.Cells) && dl.Cells[g].Char == ' ' {
				dl.Cells[g] = goturbotui.Cell{Char: '│', Style: MarginStyle}
			}
		}

		frame.Lines = append(frame.Lines, dl)
	}
	return frame
}

// resolveStyle returns the style of the last (highest-Seq) overlay whose
// range covers offset — last-write-wins per §4.2 — or def if none match.
func resolveStyle(overlays []styleRange, offset int, def goturbotui.Style) goturbotui.Style {
	style := def
	for _, o := range overlays {
		if offset >= o.start && offset < o.end {
			style = goturbotui.Style{
				Foreground: o.style.Foreground,
				Background: o.style.Background,
				Attributes: o.style.Attributes,
			}
		}
	}
	return style
}
