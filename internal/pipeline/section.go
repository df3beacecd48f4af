package pipeline

import (
	"github.com/elaurentium/fresh/internal/buffer"
	"github.com/elaurentium/fresh/internal/decoration"
	"github.com/elaurentium/fresh/pkg/goturbotui"
)

// SectionTokens runs Stages A and B only: source ingest plus decoration
// merge, no soft-break/wrap or centering. CompositeSynthesizer calls this
// per section (§4.4) since a composite section's layout is driven by the
// synthesizer's own framing, not the general ViewPipeline wrap.
func SectionTokens(buf *buffer.Buffer, decos *decoration.Store, params Params) ([]Token, func(offset int) goturbotui.Style) {
	tokens := stageSourceIngest(buf, params)
	tokens, overlays, _, _ := stageDecorationMerge(buf, decos, tokens, params)
	styleFn := func(offset int) goturbotui.Style { return resolveStyle(overlays, offset, goturbotui.NewStyle()) }
	return tokens, styleFn
}
