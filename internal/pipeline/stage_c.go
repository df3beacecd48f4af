package pipeline

import (
	"github.com/mattn/go-runewidth"

	"github.com/elaurentium/fresh/internal/buffer"
	"github.com/elaurentium/fresh/internal/decoration"
)

// stageSoftBreakAndWrap walks the post-conceal token stream left to right,
// splicing in VirtualLine decorations at their anchor lines, honoring
// explicit SoftBreak markers, and falling back to hard-width wrap when the
// plugin hasn't claimed wrap ownership. Returns one token slice per
// display line (no Newline tokens survive into the output).
func stageSoftBreakAndWrap(tokens []Token, virtuals map[int][]decoration.Decoration, softBreaks map[int]uint16, params Params) [][]Token {
	width := params.Viewport.Width
	if params.ComposeMode && params.ComposeWidth != nil {
		width = *params.ComposeWidth
	}
	fallbackEnabled := !(params.ComposeMode && params.WrapOwnedByPlugin)

	var lines [][]Token
	var current []Token
	column := 0
	lastSpaceIdx := -1

	flush := func() {
		lines = append(lines, current)
		current = nil
		column = 0
		lastSpaceIdx = -1
	}

	emitVirtuals := func(vs []decoration.Decoration) {
		for _, v := range vs {
			lines = append(lines, []Token{{Kind: TokenVirtualLine, VirtualSpans: v.VirtualContent}})
		}
	}

	appendToken := func(t Token, w int) {
		if fallbackEnabled && width > 0 && column+w > width {
			if lastSpaceIdx >= 0 {
				rest := append([]Token(nil), current[lastSpaceIdx+1:]...)
				current = current[:lastSpaceIdx]
				flushed := current
				lines = append(lines, flushed)
				current = rest
				column = 0
				for _, rt := range rest {
					column += displayWidth(rt)
				}
				lastSpaceIdx = -1
				for i, rt := range current {
					if rt.Kind == TokenSpace {
						lastSpaceIdx = i
					}
				}
			} else if len(current) > 0 {
				lines = append(lines, current)
				current = nil
				column = 0
				lastSpaceIdx = -1
			}
			// Mid-token hard split: if the token alone still overflows an
			// empty line, slice it rune by rune until it fits.
			for t.Kind == TokenText && width > 0 && runewidth.StringWidth(t.Text) > width {
				head, tail := splitTextAtWidth(t, width)
				current = append(current, head)
				lines = append(lines, current)
				current = nil
				column = 0
				t = tail
				w = displayWidth(t)
			}
		}
		if t.Kind == TokenSpace {
			lastSpaceIdx = len(current)
		}
		current = append(current, t)
		column += w
	}

	for i := 0; i < len(tokens); i++ {
		t := tokens[i]

		if t.SourceOffset != nil {
			if vs, ok := virtuals[*t.SourceOffset]; ok {
				if len(current) > 0 {
					flush()
				}
				emitVirtuals(vs)
			}
		}

		switch t.Kind {
		case TokenNewline:
			flush()
		case TokenSpace:
			if t.SourceOffset != nil {
				if indent, ok := softBreaks[*t.SourceOffset]; ok {
					flush()
					for k := uint16(0); k < indent; k++ {
						s := injectedSpace()
						current = append(current, s)
						column++
					}
					continue
				}
			}
			appendToken(t, 1)
		default:
			appendToken(t, displayWidth(t))
		}
	}
	if len(current) > 0 || len(lines) == 0 {
		lines = append(lines, current)
	}
	return lines
}

func displayWidth(t Token) int {
	switch t.Kind {
	case TokenSpace:
		return 1
	case TokenText:
		return runewidth.StringWidth(t.Text)
	default:
		return 0
	}
}

// splitTextAtWidth splits a Text token into a head that fits within width
// display columns and a tail carrying the remainder, preserving source
// offsets on both pieces.
func splitTextAtWidth(t Token, width int) (Token, Token) {
	base := 0
	if t.SourceOffset != nil {
		base = *t.SourceOffset
	}
	col := 0
	byteIdx := 0
	for _, r := range t.Text {
		rw := runewidth.RuneWidth(r)
		if col+rw > width && byteIdx > 0 {
			break
		}
		col += rw
		byteIdx += len(string(r))
	}
	if byteIdx == 0 {
		byteIdx = len(t.Text)
	}
	head := textToken(t.Text[:byteIdx], base)
	var tail Token
	if byteIdx < len(t.Text) {
		tail = textToken(t.Text[byteIdx:], base+byteIdx)
	}
	return head, tail
}

// precomputeVirtualAnchors expands a VirtualLine decoration's line-relative
// position into the absolute source offset stageSoftBreakAndWrap should key
// on: the start of the anchor's own line (Above, At) or the start of the
// following line (Below).
func precomputeVirtualAnchors(buf *buffer.Buffer, raw map[int][]decoration.Decoration) map[int][]decoration.Decoration {
	out := make(map[int][]decoration.Decoration)
	for anchor, vs := range raw {
		line := buf.LineOf(anchor)
		for _, v := range vs {
			switch v.VirtualPosition {
			case decoration.VirtualBelow:
				next, err := buf.OffsetOf(line+1, 0)
				if err != nil {
					next = buf.Len()
				}
				out[next] = append(out[next], v)
			default: // VirtualAbove, VirtualAt
				lineStart, err := buf.OffsetOf(line, 0)
				if err != nil {
					lineStart = anchor
				}
				out[lineStart] = append(out[lineStart], v)
			}
		}
	}
	return out
}
