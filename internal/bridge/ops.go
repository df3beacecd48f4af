package bridge

import (
	"encoding/json"

	"github.com/elaurentium/fresh/internal/buffer"
	"github.com/elaurentium/fresh/internal/decoration"
	"github.com/elaurentium/fresh/internal/viewstate"
)

// OpType discriminates an Op's JSON shape, matching vision3's own
// `{"type": ..., ...}` config-file convention (internal/config/config.go).
type OpType string

const (
	OpAddOverlay               OpType = "addOverlay"
	OpAddConceal               OpType = "addConceal"
	OpAddSoftBreak             OpType = "addSoftBreak"
	OpAddVirtualLine           OpType = "addVirtualLine"
	OpClearNamespace           OpType = "clearNamespace"
	OpClearConcealsInRange     OpType = "clearConcealsInRange"
	OpClearOverlaysInRange     OpType = "clearOverlaysInRange"
	OpClearSoftBreaksInRange   OpType = "clearSoftBreaksInRange"
	OpSetViewMode              OpType = "setViewMode"
	OpSetLineNumbers           OpType = "setLineNumbers"
	OpSetLineWrap              OpType = "setLineWrap"
	OpSetLayoutHints           OpType = "setLayoutHints"
	OpRefreshLines             OpType = "refreshLines"
	OpSetViewState             OpType = "setViewState"
	OpGetViewState             OpType = "getViewState"
	OpSetCompositeLayout       OpType = "setCompositeLayout"
	OpGetBufferInfo            OpType = "getBufferInfo"
	OpGetBufferText            OpType = "getBufferText"
	OpGetCursorPosition        OpType = "getCursorPosition"
	OpGetViewport              OpType = "getViewport"
	OpSetBufferCursor          OpType = "setBufferCursor"
	OpExecuteAction            OpType = "executeAction"
	OpExecuteActions           OpType = "executeActions"
)

// ActionCall is one entry of an executeActions batch (§5 ordering
// guarantee 3: applied in order, with no event dispatch between entries).
type ActionCall struct {
	Action string `json:"action"`
	Count  int    `json:"count,omitempty"`
}

// Op is the plugin-to-core tagged union of §4.6's operation surface. Only
// the fields relevant to Type are populated; the zero value of the rest is
// never consulted. JSON (un)marshaling keys every variant under "type" so
// the wire shape matches one flat, self-describing object per message.
type Op struct {
	Type OpType `json:"type"`

	Buffer    buffer.ID `json:"buffer,omitempty"`
	Namespace string    `json:"namespace,omitempty"`
	Start     int       `json:"start,omitempty"`
	End       int       `json:"end,omitempty"`

	// addOverlay
	OverlayStyle decoration.OverlayStyle `json:"overlay_style,omitempty"`

	// addConceal
	Replacement *string `json:"replacement,omitempty"`

	// addSoftBreak
	At            int    `json:"at,omitempty"`
	HangingIndent uint16 `json:"hanging_indent,omitempty"`

	// addVirtualLine
	Anchor          int                        `json:"anchor,omitempty"`
	VirtualPosition decoration.VirtualPosition `json:"virtual_position,omitempty"`
	VirtualSpans    []decoration.StyledSpan    `json:"virtual_spans,omitempty"`

	// setViewMode / setLineNumbers / setLineWrap / setLayoutHints
	ViewMode       viewstate.ViewMode `json:"view_mode,omitempty"`
	LineNumbers    bool               `json:"line_numbers,omitempty"`
	WrapWidth      *int               `json:"wrap_width,omitempty"`
	WrapForce      bool               `json:"wrap_force,omitempty"`
	Split          string             `json:"split,omitempty"`
	ComposeWidth   *int               `json:"compose_width,omitempty"`
	ColumnGuides   []int              `json:"column_guides,omitempty"`

	// setViewState / getViewState
	StateKey   string          `json:"state_key,omitempty"`
	StateValue json.RawMessage `json:"state_value,omitempty"`

	// setCompositeLayout
	Sections []SectionSpec `json:"sections,omitempty"`

	// getBufferText
	RangeStart int `json:"range_start,omitempty"`
	RangeEnd   int `json:"range_end,omitempty"`

	// setBufferCursor
	Offset int `json:"offset,omitempty"`

	// executeAction / executeActions
	Actions []ActionCall `json:"actions,omitempty"`
}

// SectionSpec is the wire shape of a composite SectionDescriptor (§4.4),
// decoupled from internal/composite's own struct so the bridge's JSON
// contract doesn't change shape just because the renderer's internals do.
type SectionSpec struct {
	ID           string    `json:"id"`
	SourceBuffer buffer.ID `json:"source_buffer"`
	ByteStart    int       `json:"byte_start"`
	ByteEnd      int       `json:"byte_end"`
	Border       string    `json:"border,omitempty"`
	GutterMarker string    `json:"gutter_marker,omitempty"`
	Padding      int       `json:"padding,omitempty"`
	Heading      string    `json:"heading,omitempty"`
	IsEditable   bool      `json:"is_editable"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
}
