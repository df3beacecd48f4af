// Package viewstate holds the per-(split x buffer) state the view
// pipeline needs but the buffer itself must never know about: cursors,
// viewport, view mode, and opaque plugin state. BufferViewState never
// references its SplitViewState or the pipeline that renders it — state
// flows buffer+decorations+viewstate in, display lines out, never back
// (see DESIGN.md's note on the teacher's old "active_state cache" bug).
package viewstate

import (
	"container/list"
	"encoding/json"

	"github.com/elaurentium/fresh/internal/buffer"
)

// ViewMode selects how a buffer's content is interpreted by the pipeline.
type ViewMode int

const (
	// Source renders raw buffer text with only the built-in hard-width
	// wrap fallback.
	Source ViewMode = iota
	// Compose applies plugin-driven flow and styling.
	Compose
	// Composite renders a CompositeSynthesizer-stitched surface.
	Composite
)

// Cursor is one insertion point (or selection) within a buffer.
type Cursor struct {
	Position      buffer.Marker
	Anchor        buffer.Marker // zero Marker ⇔ no selection
	Primary       bool
	StickyColumn  *int // preserves desired display column across short lines
}

// HasSelection reports whether the cursor has an anchor distinct from its
// position.
func (c Cursor) HasSelection() bool {
	return !c.Anchor.IsZero()
}

// Viewport is the visible window into a buffer's display lines.
type Viewport struct {
	TopByte          int
	Width            int
	Height           int
	HorizontalScroll int
}

// BufferViewState is the state a pipeline invocation needs for one
// (split, buffer) pair.
type BufferViewState struct {
	Cursors              []Cursor
	Viewport             Viewport
	ViewMode             ViewMode
	ComposeWidth         *int
	ComposeColumnGuides  []int
	PluginState          map[string]json.RawMessage
}

// NewBufferViewState creates the default state for a buffer's first view
// in a split: one primary cursor at the buffer start, Source mode.
func NewBufferViewState(startMarker buffer.Marker) *BufferViewState {
	return &BufferViewState{
		Cursors:      []Cursor{{Position: startMarker, Primary: true}},
		ViewMode:     Source,
		PluginState:  make(map[string]json.RawMessage),
	}
}

// PrimaryCursor returns the view's primary cursor, or the zero Cursor if
// none is marked primary (should not happen in a well-formed state).
func (s *BufferViewState) PrimaryCursor() (Cursor, bool) {
	for _, c := range s.Cursors {
		if c.Primary {
			return c, true
		}
	}
	return Cursor{}, false
}

// bufferLRU is a bounded most-recently-used set of closed buffers' view
// states, keyed by buffer.ID, so reopening a recently closed buffer in the
// same split restores its cursor/viewport/view-mode without plugins having
// to recompute them. No LRU library appears anywhere in the retrieval
// pack, so this is built on container/list (stdlib) — see DESIGN.md.
type bufferLRU struct {
	capacity int
	ll       *list.List
	index    map[buffer.ID]*list.Element
}

type lruEntry struct {
	id    buffer.ID
	state *BufferViewState
}

func newBufferLRU(capacity int) *bufferLRU {
	return &bufferLRU{
		capacity: capacity,
		ll:       list.New(),
		index:    make(map[buffer.ID]*list.Element),
	}
}

func (l *bufferLRU) put(id buffer.ID, state *BufferViewState) {
	if el, ok := l.index[id]; ok {
		el.Value.(*lruEntry).state = state
		l.ll.MoveToFront(el)
		return
	}
	el := l.ll.PushFront(&lruEntry{id: id, state: state})
	l.index[id] = el
	for l.ll.Len() > l.capacity {
		oldest := l.ll.Back()
		if oldest == nil {
			break
		}
		l.ll.Remove(oldest)
		delete(l.index, oldest.Value.(*lruEntry).id)
	}
}

func (l *bufferLRU) take(id buffer.ID) (*BufferViewState, bool) {
	el, ok := l.index[id]
	if !ok {
		return nil, false
	}
	l.ll.Remove(el)
	delete(l.index, id)
	return el.Value.(*lruEntry).state, true
}

// SplitViewState is the set of buffers open in one split: which one is
// active, the per-buffer states keyed by buffer, and split-global fields
// that do not belong to any single buffer.
type SplitViewState struct {
	ActiveBuffer         buffer.ID
	OpenBuffers          []buffer.ID
	KeyedStates          map[buffer.ID]*BufferViewState
	closed               *bufferLRU

	TabScrollOffset      int
	FocusHistory         []buffer.ID
	SyncGroup            string
	CompositeViewBinding *buffer.ID
}

// NewSplitViewState creates an empty split with a bounded LRU of at most
// lruSize recently closed buffers' states (spec.md's default is 20).
func NewSplitViewState(lruSize int) *SplitViewState {
	return &SplitViewState{
		KeyedStates: make(map[buffer.ID]*BufferViewState),
		closed:      newBufferLRU(lruSize),
	}
}

// OpenBuffer makes id open in this split, restoring its state from the LRU
// if it was recently closed here, or creating fresh state anchored at
// startMarker otherwise. Does not change ActiveBuffer.
func (s *SplitViewState) OpenBuffer(id buffer.ID, startMarker buffer.Marker) *BufferViewState {
	if existing, ok := s.KeyedStates[id]; ok {
		return existing
	}
	state, restored := s.closed.take(id)
	if !restored {
		state = NewBufferViewState(startMarker)
	}
	s.KeyedStates[id] = state
	s.OpenBuffers = append(s.OpenBuffers, id)
	if s.ActiveBuffer == "" {
		s.ActiveBuffer = id
	}
	return state
}

// CloseBuffer removes id from the open set, moving its state into the
// bounded LRU, and repoints ActiveBuffer if it was the closed buffer.
func (s *SplitViewState) CloseBuffer(id buffer.ID) {
	state, ok := s.KeyedStates[id]
	if !ok {
		return
	}
	delete(s.KeyedStates, id)
	s.closed.put(id, state)

	for i, b := range s.OpenBuffers {
		if b == id {
			s.OpenBuffers = append(s.OpenBuffers[:i], s.OpenBuffers[i+1:]...)
			break
		}
	}
	if s.ActiveBuffer == id {
		if len(s.OpenBuffers) > 0 {
			s.ActiveBuffer = s.OpenBuffers[len(s.OpenBuffers)-1]
		} else {
			s.ActiveBuffer = ""
		}
	}
}

// Activate switches the active buffer within the split. No-op (false) if
// id is not currently open.
func (s *SplitViewState) Activate(id buffer.ID) bool {
	if _, ok := s.KeyedStates[id]; !ok {
		return false
	}
	s.ActiveBuffer = id
	for i, b := range s.FocusHistory {
		if b == id {
			s.FocusHistory = append(s.FocusHistory[:i], s.FocusHistory[i+1:]...)
			break
		}
	}
	s.FocusHistory = append(s.FocusHistory, id)
	return true
}

// Valid reports whether the split's core invariant holds: ActiveBuffer is
// open, and every open buffer has exactly one keyed state.
func (s *SplitViewState) Valid() bool {
	if s.ActiveBuffer != "" {
		if _, ok := s.KeyedStates[s.ActiveBuffer]; !ok {
			return false
		}
	}
	if len(s.KeyedStates) != len(s.OpenBuffers) {
		return false
	}
	for _, id := range s.OpenBuffers {
		if _, ok := s.KeyedStates[id]; !ok {
			return false
		}
	}
	return true
}
