package bridge

import "github.com/elaurentium/fresh/internal/buffer"

// EventType discriminates an Event's JSON shape (§4.6).
type EventType string

const (
	EventLinesChanged       EventType = "lines_changed"
	EventAfterInsert        EventType = "after_insert"
	EventAfterDelete        EventType = "after_delete"
	EventCursorMoved        EventType = "cursor_moved"
	EventViewportChanged    EventType = "viewport_changed"
	EventBufferActivated    EventType = "buffer_activated"
	EventBufferClosed       EventType = "buffer_closed"
	EventBufferViewInit     EventType = "buffer_view_init"
	EventBufferViewRestored EventType = "buffer_view_restored"
	EventDiagnosticsUpdated EventType = "diagnostics_updated"
	EventPromptConfirmed    EventType = "prompt_confirmed"
)

// LineSnapshot is one line's content as of event emission time (§4.6
// ordering guarantee 4: plugins must validate stale replies against
// current markers, not assume this snapshot is still current).
type LineSnapshot struct {
	LineNumber int    `json:"line_number"`
	ByteStart  int    `json:"byte_start"`
	ByteEnd    int    `json:"byte_end"`
	Content    string `json:"content"`
}

// Event is the core-to-plugin tagged union of §4.6's event surface. As
// with Op, only the fields relevant to Type are populated.
type Event struct {
	Type EventType `json:"type"`

	Buffer buffer.ID `json:"buffer,omitempty"`

	// lines_changed
	Lines []LineSnapshot `json:"lines,omitempty"`

	// after_insert
	Position      int    `json:"position,omitempty"`
	Text          string `json:"text,omitempty"`
	AffectedStart int    `json:"affected_start,omitempty"`
	AffectedEnd   int    `json:"affected_end,omitempty"`

	// after_delete
	Start       int    `json:"start,omitempty"`
	End         int    `json:"end,omitempty"`
	DeletedText string `json:"deleted_text,omitempty"`
	DeletedLen  int    `json:"deleted_len,omitempty"`

	// cursor_moved
	CursorID    string `json:"cursor_id,omitempty"`
	OldPosition int    `json:"old_position,omitempty"`
	NewPosition int    `json:"new_position,omitempty"`
	Line        int    `json:"line,omitempty"`

	// viewport_changed
	Split  string `json:"split,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	// TopByte doubles for both viewport_changed (top_byte) and is left
	// zero for other event types.
	TopByte int `json:"top_byte,omitempty"`

	// diagnostics_updated
	URI   string `json:"uri,omitempty"`
	Count int    `json:"count,omitempty"`

	// prompt_confirmed
	PromptType string `json:"prompt_type,omitempty"`
	Input      string `json:"input,omitempty"`
}
