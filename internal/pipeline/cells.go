package pipeline

import (
	"github.com/elaurentium/fresh/internal/buffer"
	"github.com/elaurentium/fresh/pkg/goturbotui"
)

// ExpandToCells turns a Stage A/B token stream into display lines without
// wrapping — splitting only on Newline tokens. CompositeSynthesizer uses
// this for section content, where layout is the synthesizer's framing, not
// ViewPipeline's soft-break/hard-width wrap.
func ExpandToCells(tokens []Token, bufID buffer.ID, styleFn func(offset int) goturbotui.Style) []DisplayLine {
	var lines []DisplayLine
	current := DisplayLine{}
	flush := func() {
		lines = append(lines, current)
		current = DisplayLine{}
	}

	styleFor := func(t Token) goturbotui.Style {
		if t.SourceOffset != nil {
			return styleFn(*t.SourceOffset)
		}
		if t.StyleAnchor != nil {
			return styleFn(*t.StyleAnchor)
		}
		return goturbotui.NewStyle()
	}

	for _, t := range tokens {
		switch t.Kind {
		case TokenNewline:
			flush()
		case TokenSpace:
			ref := CellRef{}
			if t.SourceOffset != nil {
				ref = CellRef{Buffer: bufID, Offset: *t.SourceOffset, HasOffset: true}
			}
			current.Cells = append(current.Cells, goturbotui.Cell{Char: ' ', Style: styleFor(t)})
			current.Mapping = append(current.Mapping, ref)
		case TokenText:
			byteOff := 0
			for _, r := range t.Text {
				var ref CellRef
				style := goturbotui.NewStyle()
				if t.SourceOffset != nil {
					off := *t.SourceOffset + byteOff
					ref = CellRef{Buffer: bufID, Offset: off, HasOffset: true}
					style = styleFn(off)
				} else if t.StyleAnchor != nil {
					style = styleFn(*t.StyleAnchor)
				}
				current.Cells = append(current.Cells, goturbotui.Cell{Char: r, Style: style})
				current.Mapping = append(current.Mapping, ref)
				byteOff += len(string(r))
			}
		}
	}
	lines = append(lines, current)
	return lines
}
