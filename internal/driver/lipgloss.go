package driver

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/elaurentium/fresh/internal/pipeline"
	"github.com/elaurentium/fresh/pkg/goturbotui"
)

// RenderFrame renders frame to a single string for cmd/fresh's local
// bubbletea Model.View(), one pipeline.DisplayLine per screen row joined
// by "\n". Styling goes through lipgloss rather than raw ANSI so the
// output composes with bubbletea's own layout helpers (lipgloss.JoinVertical,
// borders, etc.) instead of fighting them with hand-written escapes.
func RenderFrame(frame pipeline.Frame) string {
	rows := make([]string, len(frame.Lines))
	for i, line := range frame.Lines {
		rows[i] = renderLineLipgloss(line)
	}
	return strings.Join(rows, "\n")
}

func renderLineLipgloss(line pipeline.DisplayLine) string {
	var b strings.Builder
	styleRuns(line.Cells, func(style goturbotui.Style, text []rune) {
		b.WriteString(lipglossStyle(style).Render(string(text)))
	})
	return b.String()
}

// lipglossStyle translates a pipeline cell's Style into the equivalent
// lipgloss.Style, reusing the teacher's ANSI-index-as-string convention
// from internal/usereditor/colors.go (lipgloss.Color("8"), not hex).
func lipglossStyle(s goturbotui.Style) lipgloss.Style {
	ls := lipgloss.NewStyle().
		Foreground(lipgloss.Color(strconv.Itoa(int(s.Foreground)))).
		Background(lipgloss.Color(strconv.Itoa(int(s.Background))))

	if s.Attributes&goturbotui.AttrBold != 0 {
		ls = ls.Bold(true)
	}
	if s.Attributes&goturbotui.AttrDim != 0 {
		ls = ls.Faint(true)
	}
	if s.Attributes&goturbotui.AttrItalic != 0 {
		ls = ls.Italic(true)
	}
	if s.Attributes&goturbotui.AttrUnderline != 0 {
		ls = ls.Underline(true)
	}
	if s.Attributes&goturbotui.AttrBlink != 0 {
		ls = ls.Blink(true)
	}
	if s.Attributes&goturbotui.AttrReverse != 0 {
		ls = ls.Reverse(true)
	}
	if s.Attributes&goturbotui.AttrStrikethrough != 0 {
		ls = ls.Strikethrough(true)
	}
	return ls
}
