// Package driver is the sketched, out-of-scope-per-contract-but-needed-
// to-run collaborator that turns a pipeline.Frame into actual terminal
// output. It is the only package allowed to import a terminal/SSH
// package directly — internal/pipeline and internal/bridge hand it an
// abstract cell grid and never see an escape sequence.
//
// Two renderers live here, grounded on two different parts of the
// teacher: Writer (ssh.go) repaints an SSH/raw-terminal session byte by
// byte, diffing against the previous frame the way
// internal/editor/screen.go's Screen.RefreshLine diffs physicalLines
// before writing; RenderFrame (lipgloss.go) renders a frame to a single
// string for cmd/fresh's local bubbletea View(), the way
// internal/usereditor/colors.go builds lipgloss styles for its own
// local-mode views.
package driver

import "github.com/elaurentium/fresh/pkg/goturbotui"

// styleRuns walks line's cells, invoking emit once per maximal run of
// cells sharing the same Style, in order. Both renderers group styling
// this way instead of re-emitting a style per cell.
func styleRuns(cells []goturbotui.Cell, emit func(style goturbotui.Style, text []rune)) {
	if len(cells) == 0 {
		return
	}
	cur := cells[0].Style
	run := make([]rune, 0, len(cells))
	for _, cell := range cells {
		if cell.Style != cur {
			emit(cur, run)
			cur = cell.Style
			run = run[:0]
		}
		run = append(run, cell.Char)
	}
	emit(cur, run)
}
