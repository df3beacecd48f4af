package pipeline

import "github.com/elaurentium/fresh/internal/buffer"

// stageSourceIngest scans the buffer forward from params.Viewport.TopByte,
// producing a base token stream covering at least params.Viewport.Height
// source lines (one more partial line is included so wrapping on the last
// visible line has its full token, matching §4.3 Stage A).
func stageSourceIngest(buf *buffer.Buffer, params Params) []Token {
	top := params.Viewport.TopByte
	text, err := buf.Text(top, buf.Len())
	if err != nil {
		return nil
	}

	tabWidth := params.TabWidth
	if tabWidth <= 0 {
		tabWidth = 8
	}

	var tokens []Token
	newlines := 0
	i := 0
	data := []byte(text)
	n := len(data)

	for i < n {
		if newlines > params.Viewport.Height {
			break
		}
		c := data[i]
		switch {
		case c == '\n':
			tokens = append(tokens, newlineToken(top+i))
			newlines++
			i++
		case c == '\t':
			for k := 0; k < tabWidth; k++ {
				tokens = append(tokens, spaceToken(top+i))
			}
			i++
		case c == ' ':
			tokens = append(tokens, spaceToken(top+i))
			i++
		default:
			start := i
			for i < n && data[i] != '\n' && data[i] != '\t' && data[i] != ' ' {
				i++
			}
			tokens = append(tokens, textToken(string(data[start:i]), top+start))
		}
	}
	return tokens
}
