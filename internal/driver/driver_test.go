package driver

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elaurentium/fresh/internal/ansi"
	"github.com/elaurentium/fresh/internal/buffer"
	"github.com/elaurentium/fresh/internal/pipeline"
	"github.com/elaurentium/fresh/pkg/goturbotui"
)

func cell(r rune, style goturbotui.Style) goturbotui.Cell {
	return goturbotui.Cell{Char: r, Style: style}
}

func lineOf(text string, style goturbotui.Style) pipeline.DisplayLine {
	cells := make([]goturbotui.Cell, 0, len(text))
	mapping := make([]pipeline.CellRef, 0, len(text))
	for i, r := range text {
		cells = append(cells, cell(r, style))
		mapping = append(mapping, pipeline.CellRef{Buffer: "a", Offset: i, HasOffset: true})
	}
	return pipeline.DisplayLine{Cells: cells, Mapping: mapping}
}

func TestStyleRunsGroupsConsecutiveMatchingStyles(t *testing.T) {
	plain := goturbotui.NewStyle()
	bold := plain.WithAttributes(goturbotui.AttrBold)

	cells := []goturbotui.Cell{
		cell('a', plain), cell('b', plain), cell('c', bold), cell('d', bold), cell('e', plain),
	}

	var runs []string
	styleRuns(cells, func(style goturbotui.Style, text []rune) {
		runs = append(runs, string(text))
	})

	assert.Equal(t, []string{"ab", "cd", "e"}, runs)
}

func TestRenderFrameJoinsStyledRowsWithNewlines(t *testing.T) {
	frame := pipeline.Frame{Lines: []pipeline.DisplayLine{
		lineOf("hi", goturbotui.NewStyle()),
		lineOf("bye", goturbotui.NewStyle().WithAttributes(goturbotui.AttrBold)),
	}}

	out := RenderFrame(frame)
	rows := strings.Split(out, "\n")
	require.Len(t, rows, 2)
	assert.Contains(t, rows[0], "hi")
	assert.Contains(t, rows[1], "bye")
}

func TestWriterPaintOnlyRepaintsChangedRows(t *testing.T) {
	var out bytes.Buffer
	w := NewWriter(&out, ansi.OutputModeCP437)

	frame := pipeline.Frame{Lines: []pipeline.DisplayLine{
		lineOf("one", goturbotui.NewStyle()),
		lineOf("two", goturbotui.NewStyle()),
	}}
	require.NoError(t, w.Paint(frame))
	first := out.String()
	assert.Contains(t, first, "one")
	assert.Contains(t, first, "two")

	out.Reset()
	require.NoError(t, w.Paint(frame))
	assert.Empty(t, out.String(), "repainting an unchanged frame should write nothing")

	out.Reset()
	changed := pipeline.Frame{Lines: []pipeline.DisplayLine{
		lineOf("one", goturbotui.NewStyle()),
		lineOf("TWO", goturbotui.NewStyle()),
	}}
	require.NoError(t, w.Paint(changed))
	second := out.String()
	assert.NotContains(t, second, "one")
	assert.Contains(t, second, "TWO")
}

func TestWriterPaintClearsStaleRowsWhenFrameShrinks(t *testing.T) {
	var out bytes.Buffer
	w := NewWriter(&out, ansi.OutputModeCP437)

	require.NoError(t, w.Paint(pipeline.Frame{Lines: []pipeline.DisplayLine{
		lineOf("one", goturbotui.NewStyle()),
		lineOf("two", goturbotui.NewStyle()),
	}}))

	out.Reset()
	require.NoError(t, w.Paint(pipeline.Frame{Lines: []pipeline.DisplayLine{
		lineOf("one", goturbotui.NewStyle()),
	}}))

	got := out.String()
	assert.Contains(t, got, ansi.MoveCursor(2, 1))
	assert.Contains(t, got, "\x1b[K")
	assert.NotContains(t, got, "two")
}

func TestWriterClearCacheForcesFullRepaint(t *testing.T) {
	var out bytes.Buffer
	w := NewWriter(&out, ansi.OutputModeCP437)

	frame := pipeline.Frame{Lines: []pipeline.DisplayLine{lineOf("same", goturbotui.NewStyle())}}
	require.NoError(t, w.Paint(frame))

	out.Reset()
	w.ClearCache()
	require.NoError(t, w.Paint(frame))
	assert.Contains(t, out.String(), "same")
}

func TestFindCellLocatesMappedOffset(t *testing.T) {
	frame := pipeline.Frame{Lines: []pipeline.DisplayLine{
		lineOf("ab", goturbotui.NewStyle()),
		lineOf("cd", goturbotui.NewStyle()),
	}}

	row, col, ok := FindCell(frame, buffer.ID("a"), 1)
	require.True(t, ok)
	assert.Equal(t, 0, row)
	assert.Equal(t, 1, col)

	_, _, ok = FindCell(frame, buffer.ID("missing"), 0)
	assert.False(t, ok)
}
