// Package router implements Fresh's InputRouter (§4.5): it classifies a
// transport-neutral input event into an edit intent and, for composite
// splits, rewrites that intent's target to the source buffer the mapping
// table says owns the cell under the cursor — or blocks it outright.
package router

import (
	"github.com/elaurentium/fresh/internal/buffer"
	"github.com/elaurentium/fresh/internal/pipeline"
	"github.com/elaurentium/fresh/pkg/goturbotui"
)

// Target is where a routed edit intent applies: a source buffer and the
// byte offset within it that the cursor's mapping cell resolved to.
type Target struct {
	Buffer buffer.ID
	Offset int
}

// EditableFunc reports whether the cell mapped to buffer id may currently
// be edited. A composite view's editability varies per section; an
// ordinary (non-composite) split always answers true via AlwaysEditable.
type EditableFunc func(buffer.ID) bool

// AlwaysEditable is the EditableFunc an ordinary split passes: it has
// exactly one source buffer and the router is pass-through for it.
func AlwaysEditable(buffer.ID) bool { return true }

// MoveDirection is a cursor-navigation intent. Navigation is never blocked
// by section editability — only edits are (§4.5 only speaks of blocking
// "the edit").
type MoveDirection int

const (
	MoveNone MoveDirection = iota
	MoveUp
	MoveDown
	MoveLeft
	MoveRight
	MoveWordLeft
	MoveWordRight
	MoveHome
	MoveEnd
	MovePageUp
	MovePageDown
)

// IntentKind classifies what an event asks the editor to do.
type IntentKind int

const (
	IntentNone IntentKind = iota
	IntentInsertRune
	IntentInsertNewline
	IntentDeleteBackward
	IntentDeleteForward
	IntentDeleteWord
	IntentMove
	IntentQuit
	IntentSave
)

// Intent is the decoded shape of a goturbotui.Event, before it has been
// routed to a Target. ClassifyEvent never blocks anything — blocking is
// RouteEvent's job, since only RouteEvent knows the section under the
// cursor.
type Intent struct {
	Kind IntentKind
	Rune rune
	Move MoveDirection
}

// ClassifyEvent decodes a transport-neutral event into an Intent from
// goturbotui's portable KeyCode/KeyMod pairs: arrow, Home/End and
// PageUp/PageDown keys move, Ctrl+Left/Right move by word, Enter,
// Backspace and Delete edit, Escape quits, Ctrl+S saves, and any other
// rune is inserted. WordStar-style Ctrl-letter navigation (Ctrl+E/X/S/D)
// is not decoded.
func ClassifyEvent(ev goturbotui.Event) Intent {
	if ev.Type != goturbotui.EventKey {
		return Intent{Kind: IntentNone}
	}

	k := ev.Key
	switch k.Code {
	case goturbotui.KeyUp:
		return Intent{Kind: IntentMove, Move: MoveUp}
	case goturbotui.KeyDown:
		return Intent{Kind: IntentMove, Move: MoveDown}
	case goturbotui.KeyLeft:
		if k.Modifiers&goturbotui.ModCtrl != 0 {
			return Intent{Kind: IntentMove, Move: MoveWordLeft}
		}
		return Intent{Kind: IntentMove, Move: MoveLeft}
	case goturbotui.KeyRight:
		if k.Modifiers&goturbotui.ModCtrl != 0 {
			return Intent{Kind: IntentMove, Move: MoveWordRight}
		}
		return Intent{Kind: IntentMove, Move: MoveRight}
	case goturbotui.KeyHome:
		return Intent{Kind: IntentMove, Move: MoveHome}
	case goturbotui.KeyEnd:
		return Intent{Kind: IntentMove, Move: MoveEnd}
	case goturbotui.KeyPageUp:
		return Intent{Kind: IntentMove, Move: MovePageUp}
	case goturbotui.KeyPageDown:
		return Intent{Kind: IntentMove, Move: MovePageDown}
	case goturbotui.KeyEnter:
		return Intent{Kind: IntentInsertNewline}
	case goturbotui.KeyBackspace:
		if k.Modifiers&goturbotui.ModCtrl != 0 {
			return Intent{Kind: IntentDeleteWord}
		}
		return Intent{Kind: IntentDeleteBackward}
	case goturbotui.KeyDelete:
		return Intent{Kind: IntentDeleteForward}
	case goturbotui.KeyEscape:
		return Intent{Kind: IntentQuit}
	}

	if k.Modifiers&goturbotui.ModCtrl != 0 && ev.Rune == 's' {
		return Intent{Kind: IntentSave}
	}
	if ev.Rune != 0 {
		return Intent{Kind: IntentInsertRune, Rune: ev.Rune}
	}
	return Intent{Kind: IntentNone}
}

func (k IntentKind) editing() bool {
	switch k {
	case IntentInsertRune, IntentInsertNewline, IntentDeleteBackward, IntentDeleteForward, IntentDeleteWord:
		return true
	default:
		return false
	}
}

// Router carries the last "editing disabled here" message, mirroring the
// status-bar line internal/editor/editor.go's View() renders underneath
// the text area.
type Router struct {
	Blocked string
}

// New creates a Router.
func New() *Router {
	return &Router{}
}

// RouteEvent decodes ev and, for an editing intent, resolves its Target
// from the mapping cell at (line, col) in frame. Non-editing intents
// (navigation, quit, save) pass through with a zero Target and ok=true —
// §4.5 only blocks edits, never cursor movement. ok is false exactly when
// the intent is an edit and the cell under the cursor is framing (no
// mapped offset) or its buffer is not editable, in which case Router.
// Blocked holds the message to surface to the status area.
func (r *Router) RouteEvent(frame pipeline.Frame, line, col int, editable EditableFunc, ev goturbotui.Event) (Intent, Target, bool) {
	r.Blocked = ""
	intent := ClassifyEvent(ev)
	if !intent.Kind.editing() {
		return intent, Target{}, true
	}

	target, ok := r.resolveTarget(frame, line, col, editable)
	if !ok {
		return intent, Target{}, false
	}
	return intent, target, true
}

// resolveTarget inspects the mapping cell under the cursor per §4.5: a
// cell mapped to (buffer, offset) whose buffer is editable becomes the
// edit target; a framing cell (no offset) or a read-only section's cell
// blocks the edit.
func (r *Router) resolveTarget(frame pipeline.Frame, line, col int, editable EditableFunc) (Target, bool) {
	if line < 0 || line >= len(frame.Lines) {
		r.Blocked = "editing disabled here"
		return Target{}, false
	}
	dl := frame.Lines[line]
	if col < 0 || col >= len(dl.Mapping) {
		r.Blocked = "editing disabled here"
		return Target{}, false
	}
	ref := dl.Mapping[col]
	if !ref.HasOffset {
		r.Blocked = "editing disabled here"
		return Target{}, false
	}
	if editable != nil && !editable(ref.Buffer) {
		r.Blocked = "editing disabled here"
		return Target{}, false
	}
	return Target{Buffer: ref.Buffer, Offset: ref.Offset}, true
}
