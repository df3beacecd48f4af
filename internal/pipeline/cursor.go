package pipeline

import "github.com/elaurentium/fresh/internal/buffer"

// MapCursorToCell resolves a cursor at (bufID, offset) to a (line, column)
// cell position within frame, applying the §4.3 fallback chain when the
// exact offset is concealed or fell inside a wrap boundary:
//  1. the exact cell whose mapping equals (bufID, offset);
//  2. the last preceding visible cell in the same source line;
//  3. the start of the display line containing the source line's range;
//  4. hide the cursor (ok == false).
func MapCursorToCell(frame Frame, buf *buffer.Buffer, bufID buffer.ID, offset int) (line, col int, ok bool) {
	for li, dl := range frame.Lines {
		for ci, ref := range dl.Mapping {
			if ref.HasOffset && ref.Buffer == bufID && ref.Offset == offset {
				return li, ci, true
			}
		}
	}

	srcLine := buf.LineOf(offset)
	lineStart, err := buf.OffsetOf(srcLine, 0)
	if err != nil {
		return 0, 0, false
	}
	lineEnd, err := buf.OffsetOf(srcLine+1, 0)
	if err != nil {
		lineEnd = buf.Len()
	}

	bestLine, bestCol, bestOffset := -1, -1, -1
	firstContaining := -1
	for li, dl := range frame.Lines {
		for ci, ref := range dl.Mapping {
			if !ref.HasOffset || ref.Buffer != bufID {
				continue
			}
			if ref.Offset < lineStart || ref.Offset >= lineEnd {
				continue
			}
			if firstContaining == -1 {
				firstContaining = li
			}
			if ref.Offset <= offset && ref.Offset > bestOffset {
				bestLine, bestCol, bestOffset = li, ci, ref.Offset
			}
		}
	}
	if bestLine != -1 {
		return bestLine, bestCol, true
	}
	if firstContaining != -1 {
		return firstContaining, 0, true
	}
	return 0, 0, false
}
