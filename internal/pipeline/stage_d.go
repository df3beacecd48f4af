package pipeline

// stageCenterAndMargin left-pads every display line when compose_width is
// narrower than the viewport, centering the composed column within it.
// Column guides are painted later, in Stage E, once cell positions exist.
func stageCenterAndMargin(lines [][]Token, params Params) [][]Token {
	if params.ComposeWidth == nil || params.Viewport.Width <= *params.ComposeWidth {
		return lines
	}
	pad := (params.Viewport.Width - *params.ComposeWidth) / 2
	if pad <= 0 {
		return lines
	}
	out := make([][]Token, len(lines))
	for i, line := range lines {
		if len(line) == 1 && line[0].Kind == TokenVirtualLine {
			out[i] = line
			continue
		}
		padded := make([]Token, 0, pad+len(line))
		for k := 0; k < pad; k++ {
			s := injectedSpace()
			s.Margin = true
			padded = append(padded, s)
		}
		padded = append(padded, line...)
		out[i] = padded
	}
	return out
}
