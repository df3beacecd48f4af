package pipeline

import (
	"sort"

	"github.com/elaurentium/fresh/internal/buffer"
	"github.com/elaurentium/fresh/internal/decoration"
)

// styleRange is an Overlay's resolved byte interval, kept in insertion
// order (Seq) so Stage E can apply last-write-wins per §4.2.
type styleRange struct {
	start, end int
	style      decoration.OverlayStyle
	seq        int
}

type concealRange struct {
	start, end  int
	replacement *string
}

// stageDecorationMerge splits tokens at Conceal boundaries (replacing or
// dropping concealed bytes), collects Overlay ranges for Stage E's
// per-cell style lookup, and collects VirtualLine decorations keyed by
// their anchor offset for Stage C to splice in as dedicated display lines.
func stageDecorationMerge(buf *buffer.Buffer, decos *decoration.Store, tokens []Token, params Params) ([]Token, []styleRange, map[int][]decoration.Decoration, map[int]uint16) {
	if decos == nil || len(tokens) == 0 {
		return tokens, nil, nil, nil
	}

	lo, hi := tokenSpan(tokens)
	all := decos.Query(lo, hi+1)

	var conceals []concealRange
	var overlays []styleRange
	virtuals := make(map[int][]decoration.Decoration)
	softBreaks := make(map[int]uint16)

	for _, d := range all {
		if d.Inert {
			continue
		}
		switch d.Kind {
		case decoration.KindConceal:
			s, e, ok := resolvePair(buf, d)
			if !ok {
				continue
			}
			conceals = append(conceals, concealRange{start: s, end: e, replacement: d.ConcealReplacement})
		case decoration.KindOverlay:
			s, e, ok := resolvePair(buf, d)
			if !ok {
				continue
			}
			overlays = append(overlays, styleRange{start: s, end: e, style: d.OverlayStyle, seq: d.Seq})
		case decoration.KindVirtualLine:
			anchor, ok := buf.Resolve(d.Start)
			if !ok {
				continue
			}
			virtuals[anchor] = append(virtuals[anchor], d)
		case decoration.KindSoftBreak:
			anchor, ok := buf.Resolve(d.Start)
			if !ok {
				continue
			}
			softBreaks[anchor] = d.HangingIndent
		}
	}
	sort.Slice(conceals, func(i, j int) bool { return conceals[i].start < conceals[j].start })
	sort.Slice(overlays, func(i, j int) bool { return overlays[i].seq < overlays[j].seq })

	out := make([]Token, 0, len(tokens))
	lastConcealEmitted := -1 // start offset of the last conceal we already emitted a replacement for

	for _, t := range tokens {
		if t.SourceOffset == nil {
			out = append(out, t)
			continue
		}
		start := *t.SourceOffset
		end := start + tokenByteLen(t)

		if concealCovering(conceals, start) == nil && !concealIntersectsRange(conceals, start, end) {
			out = append(out, t)
			continue
		}

		// Walk the token's byte range left to right, splitting off plain
		// slices and conceal replacements wherever a conceal boundary
		// falls, so a single token can straddle more than one conceal
		// (e.g. "**bold**" conceals at both 0..2 and 6..8).
		pos := start
		for pos < end {
			c := concealCovering(conceals, pos)
			if c == nil {
				next := end
				if n := nextConcealStart(conceals, pos); n != -1 && n < next {
					next = n
				}
				out = append(out, sliceToken(t, pos, next))
				pos = next
				continue
			}
			if c.start != lastConcealEmitted {
				lastConcealEmitted = c.start
				if c.replacement != nil && *c.replacement != "" {
					rep := injectedText(*c.replacement)
					rep.StyleAnchor = offset(c.start)
					out = append(out, rep)
				}
			}
			segEnd := c.end
			if segEnd > end {
				segEnd = end
			}
			pos = segEnd
		}
	}

	return out, overlays, virtuals, softBreaks
}

func concealIntersectsRange(conceals []concealRange, start, end int) bool {
	for _, c := range conceals {
		if start < c.end && end > c.start {
			return true
		}
	}
	return false
}

func nextConcealStart(conceals []concealRange, after int) int {
	best := -1
	for _, c := range conceals {
		if c.start > after && (best == -1 || c.start < best) {
			best = c.start
		}
	}
	return best
}

func tokenSpan(tokens []Token) (int, int) {
	lo, hi := -1, -1
	for _, t := range tokens {
		if t.SourceOffset == nil {
			continue
		}
		o := *t.SourceOffset
		end := o + tokenByteLen(t)
		if lo == -1 || o < lo {
			lo = o
		}
		if end > hi {
			hi = end
		}
	}
	if lo == -1 {
		return 0, 0
	}
	return lo, hi
}

func tokenByteLen(t Token) int {
	switch t.Kind {
	case TokenText:
		return len(t.Text)
	case TokenSpace, TokenNewline:
		return 1
	default:
		return 0
	}
}

// sliceToken returns the portion of a Text token's bytes between the
// absolute offsets [from, to), re-anchored at from. Only ever called on
// Text tokens: Space/Newline are 1 byte and never partially conceal.
func sliceToken(t Token, from, to int) Token {
	base := *t.SourceOffset
	return textToken(t.Text[from-base:to-base], from)
}

func concealCovering(conceals []concealRange, offset int) *concealRange {
	for i := range conceals {
		if offset >= conceals[i].start && offset < conceals[i].end {
			return &conceals[i]
		}
	}
	return nil
}

func resolvePair(buf *buffer.Buffer, d decoration.Decoration) (int, int, bool) {
	start, ok := buf.Resolve(d.Start)
	if !ok {
		return 0, 0, false
	}
	if d.End.IsZero() {
		return start, start, true
	}
	end, ok := buf.Resolve(d.End)
	if !ok {
		return 0, 0, false
	}
	return start, end, true
}
