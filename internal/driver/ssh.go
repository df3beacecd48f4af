package driver

import (
	"io"
	"strings"

	"github.com/elaurentium/fresh/internal/ansi"
	"github.com/elaurentium/fresh/internal/buffer"
	"github.com/elaurentium/fresh/internal/pipeline"
	"github.com/elaurentium/fresh/internal/terminalio"
	"github.com/elaurentium/fresh/pkg/goturbotui"
)

const clearToEOL = "\x1b[K"

// Writer paints a pipeline.Frame onto a raw terminal or SSH session
// (gliderlabs/ssh, golang.org/x/crypto/ssh, golang.org/x/term), one row
// at a time, repainting only rows whose rendered content changed since
// the last Paint call. This is internal/editor/screen.go's
// Screen.RefreshLine/physicalLines idiom generalized from a BBS message
// buffer's plain-text lines to pipeline.DisplayLine's styled cells: same
// cache-compare-skip structure, different line representation.
type Writer struct {
	out  io.Writer
	mode ansi.OutputMode
	rows []string // cached rendered content of each row, by screen row index
}

// NewWriter returns a Writer that paints to out using mode. Writer never
// sniffs the session: it hands mode to terminalio unchanged, which treats
// OutputModeAuto the same as OutputModeUTF8.
func NewWriter(out io.Writer, mode ansi.OutputMode) *Writer {
	return &Writer{out: out, mode: mode}
}

// Paint repaints every row of frame whose content changed since the
// previous Paint, and clears any row the previous frame painted that
// frame no longer has (e.g. after a split closes or the viewport
// shrinks).
func (w *Writer) Paint(frame pipeline.Frame) error {
	total := len(frame.Lines)
	if len(w.rows) > total {
		total = len(w.rows)
	}

	for row := 0; row < total; row++ {
		var content string
		if row < len(frame.Lines) {
			content = lineToANSI(frame.Lines[row])
		}

		var prev string
		if row < len(w.rows) {
			prev = w.rows[row]
		}
		if content == prev {
			continue
		}
		if err := w.paintRow(row, content); err != nil {
			return err
		}
	}

	if len(w.rows) < len(frame.Lines) {
		grown := make([]string, len(frame.Lines))
		copy(grown, w.rows)
		w.rows = grown
	} else {
		w.rows = w.rows[:len(frame.Lines)]
	}
	for row, line := range frame.Lines {
		w.rows[row] = lineToANSI(line)
	}
	return nil
}

func (w *Writer) paintRow(row int, content string) error {
	if err := terminalio.WriteProcessedBytes(w.out, []byte(ansi.MoveCursor(row+1, 1)), w.mode); err != nil {
		return err
	}
	if content != "" {
		if err := terminalio.WriteProcessedBytes(w.out, []byte(content), w.mode); err != nil {
			return err
		}
	}
	return terminalio.WriteProcessedBytes(w.out, []byte(clearToEOL), w.mode)
}

// PositionCursor moves the terminal's real cursor to (row, col), 0-based
// to match pipeline.DisplayLine indexing. Called once per frame after
// Paint, using the primary cursor's screen position resolved via
// FindCell.
func (w *Writer) PositionCursor(row, col int) error {
	return terminalio.WriteProcessedBytes(w.out, []byte(ansi.MoveCursor(row+1, col+1)), w.mode)
}

// ClearCache forces the next Paint to repaint every row, for use after
// ClearScreen or a session resize invalidates whatever the terminal is
// currently showing.
func (w *Writer) ClearCache() {
	w.rows = nil
}

// ClearScreen clears the physical screen and drops the repaint cache, so
// the next Paint performs a full redraw against a known-blank terminal.
func (w *Writer) ClearScreen() error {
	w.ClearCache()
	return terminalio.WriteProcessedBytes(w.out, []byte(ansi.ClearScreen()), w.mode)
}

// lineToANSI renders one DisplayLine's cells to a styled ANSI string,
// grouping consecutive cells that share a Style into one SGR run instead
// of re-emitting a style per cell, and resetting style at the line's end
// so a shorter repaint never bleeds color into whatever clearToEOL
// leaves behind.
func lineToANSI(line pipeline.DisplayLine) string {
	var b strings.Builder
	styleRuns(line.Cells, func(style goturbotui.Style, text []rune) {
		b.WriteString(style.ToANSI())
		b.WriteString(string(text))
	})
	if len(line.Cells) > 0 {
		b.WriteString(goturbotui.Reset())
	}
	return b.String()
}

// FindCell returns the screen row/column of the first display cell in
// frame whose Mapping entry resolves to (buf, offset), for placing the
// terminal cursor at a buffer position after Paint. ok is false if no
// cell maps to that offset (e.g. it scrolled out of the viewport).
func FindCell(frame pipeline.Frame, buf buffer.ID, offset int) (row, col int, ok bool) {
	for r, line := range frame.Lines {
		for c, ref := range line.Mapping {
			if ref.HasOffset && ref.Buffer == buf && ref.Offset == offset {
				return r, c, true
			}
		}
	}
	return 0, 0, false
}
