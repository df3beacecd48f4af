// Package dispatcher implements Fresh's EventDispatcher (§4.7): per-buffer
// seen-byte-range bookkeeping that turns "what changed since the plugin
// last looked" into a minimal lines_changed delta, plus cross-frame
// debouncing for viewport_changed. Generalized from
// internal/scheduler.Scheduler's mutex-guarded bookkeeping maps
// (runningEvents, history) and concurrency-gated dispatch, with
// robfig/cron's minute-granularity schedule replaced by a plain
// *time.Ticker-paced frame loop — see DESIGN.md for why cron itself is
// dropped.
package dispatcher

import (
	"sort"
	"sync"
	"time"

	"github.com/elaurentium/fresh/internal/bridge"
	"github.com/elaurentium/fresh/internal/buffer"
)

// byteRange is a half-open [start, end) byte interval.
type byteRange struct{ start, end int }

func (r byteRange) intersects(o byteRange) bool {
	return r.start < o.end && o.start < r.end
}

type viewportKey struct {
	plugin string
	split  string
}

// Dispatcher tracks, per buffer, which byte ranges have already been
// reported to plugins via lines_changed, and rate-limits viewport_changed
// across frames.
type Dispatcher struct {
	mu               sync.Mutex
	seen             map[buffer.ID][]byteRange
	lastViewportSend map[viewportKey]time.Time
	debounce         time.Duration
}

// New creates a Dispatcher. debounce bounds how often
// DispatchViewportChanged may queue a new event for the same (plugin,
// split) pair — spec.md's default is ~16ms, one frame at 60Hz.
func New(debounce time.Duration) *Dispatcher {
	return &Dispatcher{
		seen:             make(map[buffer.ID][]byteRange),
		lastViewportSend: make(map[viewportKey]time.Time),
		debounce:         debounce,
	}
}

// OnEdit clears seen ranges intersecting [start, end) for bufID, so the
// next DispatchVisibleLines call re-reports the edited region as changed
// (§4.7: "On edit, clear seen ranges intersecting the edit").
func (d *Dispatcher) OnEdit(bufID buffer.ID, start, end int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	edit := byteRange{start, end}
	existing := d.seen[bufID]
	kept := make([]byteRange, 0, len(existing))
	for _, r := range existing {
		if !r.intersects(edit) {
			kept = append(kept, r)
			continue
		}
		if r.start < edit.start {
			kept = append(kept, byteRange{r.start, edit.start})
		}
		if r.end > edit.end {
			kept = append(kept, byteRange{edit.end, r.end})
		}
	}
	d.seen[bufID] = kept
}

// OnBufferClosed drops a closed buffer's seen-range bookkeeping, the
// dispatcher's half of §5 Cancellation (the bridge half is
// Bridge.DiscardBuffer).
func (d *Dispatcher) OnBufferClosed(bufID buffer.ID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.seen, bufID)
}

// DispatchVisibleLines computes the delta between [viewStart, viewEnd) and
// what has already been reported for buf, emits lines_changed for exactly
// that delta (split into per-line snapshots), and marks the whole range
// seen. Emits nothing if the range is already fully covered.
func (d *Dispatcher) DispatchVisibleLines(br *bridge.Bridge, plugin string, buf *buffer.Buffer, viewStart, viewEnd int) {
	query := byteRange{viewStart, viewEnd}

	d.mu.Lock()
	gaps := subtract(d.seen[buf.ID()], query)
	d.seen[buf.ID()] = mergeInsert(d.seen[buf.ID()], query)
	d.mu.Unlock()

	if len(gaps) == 0 {
		return
	}

	var lines []bridge.LineSnapshot
	for _, g := range gaps {
		lines = append(lines, linesIn(buf, g)...)
	}
	br.Emit(plugin, bridge.Event{Type: bridge.EventLinesChanged, Buffer: buf.ID(), Lines: lines})
}

func linesIn(buf *buffer.Buffer, g byteRange) []bridge.LineSnapshot {
	var out []bridge.LineSnapshot
	startLine := buf.LineOf(g.start)
	endOffset := g.end
	if endOffset > g.start {
		endOffset--
	}
	endLine := buf.LineOf(endOffset)

	for ln := startLine; ln <= endLine; ln++ {
		lineStart, err := buf.OffsetOf(ln, 0)
		if err != nil {
			continue
		}
		lineEnd, err := buf.OffsetOf(ln, 1<<30)
		if err != nil {
			continue
		}
		text, err := buf.Text(lineStart, lineEnd)
		if err != nil {
			continue
		}
		out = append(out, bridge.LineSnapshot{
			LineNumber: int(ln),
			ByteStart:  lineStart,
			ByteEnd:    lineEnd,
			Content:    text,
		})
	}
	return out
}

// subtract returns the portions of q not covered by any range in seen
// (which must be sorted and non-overlapping, as mergeInsert maintains).
func subtract(seen []byteRange, q byteRange) []byteRange {
	var gaps []byteRange
	cur := q.start
	for _, r := range seen {
		if r.end <= cur || r.start >= q.end {
			continue
		}
		if r.start > cur {
			gaps = append(gaps, byteRange{cur, r.start})
		}
		if r.end > cur {
			cur = r.end
		}
	}
	if cur < q.end {
		gaps = append(gaps, byteRange{cur, q.end})
	}
	return gaps
}

// mergeInsert adds add to seen and merges any overlapping or adjacent
// ranges, keeping the per-buffer seen list sorted and disjoint.
func mergeInsert(seen []byteRange, add byteRange) []byteRange {
	all := append(append([]byteRange(nil), seen...), add)
	sort.Slice(all, func(i, j int) bool { return all[i].start < all[j].start })

	merged := all[:0]
	for _, r := range all {
		if len(merged) > 0 && r.start <= merged[len(merged)-1].end {
			if r.end > merged[len(merged)-1].end {
				merged[len(merged)-1].end = r.end
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

// DispatchViewportChanged rate-limits viewport_changed for (plugin, split)
// to at most once per debounce window (§4.7: "debounces viewport_changed
// across frames (<=1 per ~16ms)"); calls inside the window are dropped
// outright rather than queued, on the assumption that the next allowed
// call will carry the current viewport anyway. Calls that pass the gate
// are handed to Bridge.CoalesceViewportChanged, which folds multiple
// pending updates for the same split into the latest one before delivery.
func (d *Dispatcher) DispatchViewportChanged(br *bridge.Bridge, plugin, split string, ev bridge.Event, now time.Time) {
	if !d.allowViewportSend(plugin, split, now) {
		return
	}
	br.CoalesceViewportChanged(plugin, ev)
}

func (d *Dispatcher) allowViewportSend(plugin, split string, now time.Time) bool {
	key := viewportKey{plugin: plugin, split: split}
	d.mu.Lock()
	defer d.mu.Unlock()
	last, ok := d.lastViewportSend[key]
	if ok && now.Sub(last) < d.debounce {
		return false
	}
	d.lastViewportSend[key] = now
	return true
}

// DispatchCursorMoved emits cursor_moved unconditionally — §4.7 only
// calls out viewport_changed for coalescing/debounce.
func (d *Dispatcher) DispatchCursorMoved(br *bridge.Bridge, plugin string, ev bridge.Event) {
	br.Emit(plugin, ev)
}
