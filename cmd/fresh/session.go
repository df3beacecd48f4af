package main

import (
	"sync"

	"github.com/elaurentium/fresh/internal/bridge"
	"github.com/elaurentium/fresh/internal/buffer"
	"github.com/elaurentium/fresh/internal/config"
	"github.com/elaurentium/fresh/internal/decoration"
	"github.com/elaurentium/fresh/internal/dispatcher"
	"github.com/elaurentium/fresh/internal/driver"
	"github.com/elaurentium/fresh/internal/logging"
	"github.com/elaurentium/fresh/internal/pipeline"
	"github.com/elaurentium/fresh/internal/router"
	"github.com/elaurentium/fresh/internal/viewstate"
	"github.com/elaurentium/fresh/pkg/goturbotui"
)

// editorSession holds one buffer's full core-side state: the buffer
// itself, its decorations, one split's view state, and the collaborators
// (bridge, dispatcher, router) that turn input events into edits and
// edits into plugin-visible events. Both the local bubbletea Model and
// each SSH session's raw loop (ssh.go) drive the same editorSession
// through Step, so the editing semantics never fork between transports —
// only internal/driver, on the output side, differs per transport.
type editorSession struct {
	mu sync.Mutex

	path string
	buf  *buffer.Buffer
	decs *decoration.Store
	cfg  config.Config

	split *viewstate.SplitViewState
	br    *bridge.Bridge
	disp  *dispatcher.Dispatcher
	rtr   *router.Router

	plugins []string
}

func newEditorSession(path, content string, cfg config.Config) *editorSession {
	buf := buffer.New(buffer.ID(path), content)
	decs := decoration.NewStore(buf.Markers(), cfg.DecorationNamespaceCap)

	split := viewstate.NewSplitViewState(cfg.ViewStateLRUSize)
	startMarker, err := buf.MintMarker(0, buffer.BiasLeft)
	if err != nil {
		logging.Error("failed to mint start marker for %s: %v", path, err)
	}
	split.OpenBuffer(buf.ID(), startMarker)
	split.Activate(buf.ID())

	return &editorSession{
		path:  path,
		buf:   buf,
		decs:  decs,
		cfg:   cfg,
		split: split,
		br:    bridge.New(cfg.PluginOpQueueSize),
		disp:  dispatcher.New(cfg.ViewportChangedDebounce),
		rtr:   router.New(),
	}
}

func (s *editorSession) registerPlugin(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.br.Register(name)
	for _, p := range s.plugins {
		if p == name {
			return
		}
	}
	s.plugins = append(s.plugins, name)
}

func (s *editorSession) crashPlugin(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	namespaces := s.br.Crash(name)
	for _, ns := range namespaces {
		s.decs.ClearNamespace(ns)
	}
}

func (s *editorSession) viewState() *viewstate.BufferViewState {
	return s.split.KeyedStates[s.buf.ID()]
}

// render runs the pipeline with the session's current viewport size and
// view mode, returning the resulting frame.
func (s *editorSession) render(width, height int) pipeline.Frame {
	vs := s.viewState()
	vs.Viewport.Width = width
	vs.Viewport.Height = height

	params := pipeline.Params{
		Viewport:     vs.Viewport,
		ComposeWidth: vs.ComposeWidth,
		ColumnGuides: vs.ComposeColumnGuides,
		ComposeMode:  vs.ViewMode == viewstate.Compose,
		TabWidth:     s.cfg.TabWidth,
	}
	return pipeline.Render(s.buf, s.decs, params)
}

// cursorScreenPosition resolves the view's primary cursor to a (row, col)
// pair within frame, falling back to (0, 0) if it has scrolled out of the
// rendered viewport.
func (s *editorSession) cursorScreenPosition(frame pipeline.Frame) (row, col int) {
	vs := s.viewState()
	cursor, ok := vs.PrimaryCursor()
	if !ok {
		return 0, 0
	}
	offset, ok := s.buf.Resolve(cursor.Position)
	if !ok {
		return 0, 0
	}
	if r, c, ok := driver.FindCell(frame, s.buf.ID(), offset); ok {
		return r, c
	}
	return 0, 0
}

// Step applies one input event against the session: it renders the
// current frame, routes ev through the cursor's screen position, applies
// the resulting edit or cursor move, and drains/delivers one bridge frame
// boundary the way §5's single-threaded cooperative loop requires —
// ops in, pipeline render, events out, once per step. It returns the
// frame produced *before* the edit (what PositionCursor/driver.Writer
// painted this step against) and whether the event asked to quit.
func (s *editorSession) Step(ev goturbotui.Event, width, height int) (pipeline.Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	frame := s.render(width, height)
	row, col := s.cursorScreenPosition(frame)

	s.br.DrainFrame(func(plugin string, op bridge.Op) error {
		logging.Debug("plugin %s submitted op %s (no live plugin transport to apply it against)", plugin, op.Type)
		return nil
	})

	intent, target, ok := s.rtr.RouteEvent(frame, row, col, router.AlwaysEditable, ev)
	if !ok {
		logging.Debug("edit blocked: %s", s.rtr.Blocked)
		return frame, false
	}

	quit := s.applyIntent(intent, target)

	for _, name := range s.plugins {
		vs := s.viewState()
		s.disp.DispatchVisibleLines(s.br, name, s.buf, vs.Viewport.TopByte, vs.Viewport.TopByte+s.buf.Len())
	}
	s.br.DeliverFrame(func(plugin string, ev bridge.Event) {
		logging.Debug("plugin %s delivered %s", plugin, ev.Type)
	})

	return frame, quit
}

func (s *editorSession) applyIntent(intent router.Intent, target router.Target) bool {
	vs := s.viewState()
	cursorIdx := -1
	for i, c := range vs.Cursors {
		if c.Primary {
			cursorIdx = i
			break
		}
	}
	if cursorIdx < 0 {
		return false
	}
	cursor := &vs.Cursors[cursorIdx]
	pos, ok := s.buf.Resolve(cursor.Position)
	if !ok {
		return false
	}

	switch intent.Kind {
	case router.IntentQuit:
		return true
	case router.IntentSave:
		return false
	case router.IntentInsertRune:
		s.insertAt(cursor, pos, string(intent.Rune))
	case router.IntentInsertNewline:
		s.insertAt(cursor, pos, "\n")
	case router.IntentDeleteBackward:
		if pos > 0 {
			s.deleteRange(cursor, pos-1, pos)
		}
	case router.IntentDeleteForward:
		if pos < s.buf.Len() {
			s.deleteRange(cursor, pos, pos+1)
		}
	case router.IntentMove:
		s.moveCursor(cursor, pos, intent.Move)
	}
	_ = target
	return false
}

func (s *editorSession) insertAt(cursor *viewstate.Cursor, pos int, text string) {
	if _, err := s.buf.Insert(pos, []byte(text)); err != nil {
		logging.Debug("insert at %d rejected: %v", pos, err)
		return
	}
	newPos := pos + len(text)
	s.setCursorOffset(cursor, newPos)
	s.disp.OnEdit(s.buf.ID(), pos, newPos)
	s.br.Emit("", bridge.Event{Type: bridge.EventAfterInsert, Buffer: s.buf.ID(), Position: pos, Text: text})
}

func (s *editorSession) deleteRange(cursor *viewstate.Cursor, start, end int) {
	text, err := s.buf.Text(start, end)
	if err != nil {
		return
	}
	if _, err := s.buf.Delete(start, end); err != nil {
		logging.Debug("delete [%d,%d) rejected: %v", start, end, err)
		return
	}
	s.setCursorOffset(cursor, start)
	s.disp.OnEdit(s.buf.ID(), start, end)
	s.br.Emit("", bridge.Event{Type: bridge.EventAfterDelete, Buffer: s.buf.ID(), Start: start, End: end, DeletedText: text, DeletedLen: len(text)})
}

func (s *editorSession) moveCursor(cursor *viewstate.Cursor, pos int, dir router.MoveDirection) {
	line := s.buf.LineOf(pos)
	newOffset := pos
	switch dir {
	case router.MoveLeft:
		if pos > 0 {
			newOffset = pos - 1
		}
	case router.MoveRight:
		if pos < s.buf.Len() {
			newOffset = pos + 1
		}
	case router.MoveHome:
		newOffset, _ = s.buf.OffsetOf(line, 0)
	case router.MoveEnd:
		newOffset, _ = s.buf.OffsetOf(line, 1<<30)
	case router.MoveUp:
		if line > 0 {
			newOffset, _ = s.buf.OffsetOf(line-1, 0)
		}
	case router.MoveDown:
		newOffset, _ = s.buf.OffsetOf(line+1, 0)
	}
	old := pos
	s.setCursorOffset(cursor, newOffset)
	s.br.Emit("", bridge.Event{Type: bridge.EventCursorMoved, Buffer: s.buf.ID(), OldPosition: old, NewPosition: newOffset, Line: int(line)})
}

func (s *editorSession) setCursorOffset(cursor *viewstate.Cursor, offset int) {
	marker, err := s.buf.MintMarker(offset, buffer.BiasLeft)
	if err != nil {
		logging.Debug("mint cursor marker at %d failed: %v", offset, err)
		return
	}
	cursor.Position = marker
}
