// Package workspace defines the session-persistence wire format (§6
// "Workspace file") and the glue that rehydrates it into viewstate.
// Actually reading/writing the file from disk is the out-of-scope "file
// I/O" collaborator per §1 Non-goals — this package only knows how to
// (un)marshal the JSON shape and replay it against already-open buffers,
// the same division scheduler.LoadHistory/SaveHistory draw between disk
// access and the in-memory map it hydrates.
package workspace

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/elaurentium/fresh/internal/bridge"
	"github.com/elaurentium/fresh/internal/buffer"
	"github.com/elaurentium/fresh/internal/viewstate"
)

// CursorState is one persisted cursor: a byte offset and an optional
// selection anchor. Markers are process-local handles minted at buffer-
// open time, so the wire format carries plain offsets instead.
type CursorState struct {
	Position int  `json:"position"`
	Anchor   *int `json:"anchor,omitempty"`
}

// ViewportState is the persisted slice of viewstate.Viewport that survives
// a restart — width/height are recomputed from the terminal on restore,
// so only scroll position persists.
type ViewportState struct {
	Top              int `json:"top"`
	HorizontalScroll int `json:"horizontal_scroll"`
}

// ViewModeName is the wire spelling of a viewstate.ViewMode.
type ViewModeName string

const (
	ViewModeSource    ViewModeName = "source"
	ViewModeCompose   ViewModeName = "compose"
	ViewModeComposite ViewModeName = "composite"
)

func (n ViewModeName) toViewMode() viewstate.ViewMode {
	switch n {
	case ViewModeCompose:
		return viewstate.Compose
	case ViewModeComposite:
		return viewstate.Composite
	default:
		return viewstate.Source
	}
}

func fromViewMode(m viewstate.ViewMode) ViewModeName {
	switch m {
	case viewstate.Compose:
		return ViewModeCompose
	case viewstate.Composite:
		return ViewModeComposite
	default:
		return ViewModeSource
	}
}

// BufferState is one open buffer's persisted view state, keyed by path in
// Document.KeyedStates.
type BufferState struct {
	Cursors             []CursorState              `json:"cursors"`
	Viewport            ViewportState               `json:"viewport"`
	ViewMode            ViewModeName                `json:"view_mode"`
	ComposeWidth        *int                        `json:"compose_width,omitempty"`
	ComposeColumnGuides []int                       `json:"compose_column_guides,omitempty"`
	PluginState         map[string]json.RawMessage  `json:"plugin_state,omitempty"`
}

// Document is one split's persisted session, matching §6's wire shape
// exactly (split_id, active_tab_index, open_buffers, keyed_states).
type Document struct {
	SplitID         string                 `json:"split_id"`
	ActiveTabIndex  int                    `json:"active_tab_index"`
	OpenBuffers     []string               `json:"open_buffers"`
	KeyedStates     map[string]BufferState `json:"keyed_states"`
}

// Load decodes a Document from r. Unknown fields inside plugin_state are
// preserved verbatim as json.RawMessage — "unknown or malformed plugin
// state is passed through verbatim; plugins are responsible for schema
// migration" (§6).
func Load(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("workspace: decode: %w", err)
	}
	return &doc, nil
}

// Save encodes doc to w.
func Save(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("workspace: encode: %w", err)
	}
	return nil
}

// PathOpener opens (or returns the already-open) buffer for path, the
// caller's job since workspace has no notion of a filesystem or an open-
// buffer registry of its own.
type PathOpener func(path string) (*buffer.Buffer, error)

// Restore replays doc against a fresh SplitViewState: it opens every
// listed buffer via open, applies each buffer's persisted cursors and
// viewport by minting new markers at the recorded offsets, sets the
// active buffer, and fires buffer_view_restored per buffer so plugins can
// rehydrate (e.g. re-enable compose rendering) — §6 "On restore".
//
// A buffer whose path fails to open is skipped; the rest of the document
// still restores (a missing file should not sink the whole session).
func Restore(doc *Document, split *viewstate.SplitViewState, open PathOpener, br *bridge.Bridge) error {
	idForPath := make(map[string]buffer.ID, len(doc.OpenBuffers))

	for _, path := range doc.OpenBuffers {
		buf, err := open(path)
		if err != nil {
			continue
		}

		startMarker, err := buf.MintMarker(0, buffer.BiasLeft)
		if err != nil {
			return fmt.Errorf("workspace: mint start marker for %s: %w", path, err)
		}
		state := split.OpenBuffer(buf.ID(), startMarker)
		idForPath[path] = buf.ID()

		if saved, ok := doc.KeyedStates[path]; ok {
			if err := applyBufferState(buf, state, saved); err != nil {
				return fmt.Errorf("workspace: restore %s: %w", path, err)
			}
		}

		if br != nil {
			br.Emit("", bridge.Event{Type: bridge.EventBufferViewRestored, Buffer: buf.ID()})
		}
	}

	if doc.ActiveTabIndex >= 0 && doc.ActiveTabIndex < len(doc.OpenBuffers) {
		if id, ok := idForPath[doc.OpenBuffers[doc.ActiveTabIndex]]; ok {
			split.Activate(id)
		}
	}
	return nil
}

func applyBufferState(buf *buffer.Buffer, state *viewstate.BufferViewState, saved BufferState) error {
	cursors := make([]viewstate.Cursor, 0, len(saved.Cursors))
	for i, cs := range saved.Cursors {
		pos, err := buf.MintMarker(cs.Position, buffer.BiasLeft)
		if err != nil {
			return fmt.Errorf("cursor %d position: %w", i, err)
		}
		cursor := viewstate.Cursor{Position: pos, Primary: i == 0}
		if cs.Anchor != nil {
			anchor, err := buf.MintMarker(*cs.Anchor, buffer.BiasLeft)
			if err != nil {
				return fmt.Errorf("cursor %d anchor: %w", i, err)
			}
			cursor.Anchor = anchor
		}
		cursors = append(cursors, cursor)
	}
	if len(cursors) > 0 {
		state.Cursors = cursors
	}

	state.Viewport.TopByte = saved.Viewport.Top
	state.Viewport.HorizontalScroll = saved.Viewport.HorizontalScroll
	state.ViewMode = saved.ViewMode.toViewMode()
	state.ComposeWidth = saved.ComposeWidth
	state.ComposeColumnGuides = saved.ComposeColumnGuides
	if saved.PluginState != nil {
		state.PluginState = saved.PluginState
	}
	return nil
}

// BufferLookup resolves a buffer.ID to its live *buffer.Buffer, so Snapshot
// can resolve cursor markers to the offsets §6's wire format persists.
type BufferLookup func(buffer.ID) (*buffer.Buffer, bool)

// Snapshot captures a split's current state into a Document, the inverse
// of Restore, keyed by the caller-supplied path for each open buffer (the
// package has no notion of which buffer.ID maps to which filesystem path,
// so paths come in parallel to split.OpenBuffers).
func Snapshot(splitID string, split *viewstate.SplitViewState, pathOf func(buffer.ID) string, lookup BufferLookup) *Document {
	doc := &Document{
		SplitID:     splitID,
		KeyedStates: make(map[string]BufferState),
	}

	for i, id := range split.OpenBuffers {
		path := pathOf(id)
		doc.OpenBuffers = append(doc.OpenBuffers, path)
		if id == split.ActiveBuffer {
			doc.ActiveTabIndex = i
		}

		state, ok := split.KeyedStates[id]
		if !ok {
			continue
		}
		buf, ok := lookup(id)
		if !ok {
			continue
		}
		doc.KeyedStates[path] = snapshotBufferState(buf, state)
	}
	return doc
}

func snapshotBufferState(buf *buffer.Buffer, state *viewstate.BufferViewState) BufferState {
	bs := BufferState{
		Viewport: ViewportState{
			Top:              state.Viewport.TopByte,
			HorizontalScroll: state.Viewport.HorizontalScroll,
		},
		ViewMode:            fromViewMode(state.ViewMode),
		ComposeWidth:        state.ComposeWidth,
		ComposeColumnGuides: state.ComposeColumnGuides,
		PluginState:         state.PluginState,
	}
	for _, c := range state.Cursors {
		cs := CursorState{}
		if pos, ok := buf.Resolve(c.Position); ok {
			cs.Position = pos
		}
		if c.HasSelection() {
			if anchor, ok := buf.Resolve(c.Anchor); ok {
				anchor := anchor
				cs.Anchor = &anchor
			}
		}
		bs.Cursors = append(bs.Cursors, cs)
	}
	return bs
}
