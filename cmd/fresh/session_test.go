package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elaurentium/fresh/internal/bridge"
	"github.com/elaurentium/fresh/internal/config"
	"github.com/elaurentium/fresh/internal/decoration"
	"github.com/elaurentium/fresh/pkg/goturbotui"
)

func newTestSession(t *testing.T, content string) *editorSession {
	t.Helper()
	cfg := config.Defaults()
	return newEditorSession("scratch.txt", content, cfg)
}

func runeEv(r rune) goturbotui.Event {
	return goturbotui.Event{Type: goturbotui.EventKey, Rune: r}
}

func keyEv(code goturbotui.KeyCode) goturbotui.Event {
	return goturbotui.Event{Type: goturbotui.EventKey, Key: goturbotui.Key{Code: code}}
}

func TestStepInsertRuneAdvancesCursorPastInsertedText(t *testing.T) {
	sess := newTestSession(t, "ac")

	vs := sess.viewState()
	cursor := &vs.Cursors[0]
	sess.setCursorOffset(cursor, 1)

	sess.Step(runeEv('b'), 80, 24)

	text, err := sess.buf.Text(0, sess.buf.Len())
	require.NoError(t, err)
	assert.Equal(t, "abc", text)

	pos, ok := sess.buf.Resolve(vs.Cursors[0].Position)
	require.True(t, ok)
	assert.Equal(t, 2, pos, "cursor must land right after the inserted rune, not at its old offset")
}

func TestStepDeleteBackwardRemovesPrecedingByteAndMovesCursorBack(t *testing.T) {
	sess := newTestSession(t, "abc")
	vs := sess.viewState()
	sess.setCursorOffset(&vs.Cursors[0], 2)

	sess.Step(keyEv(goturbotui.KeyBackspace), 80, 24)

	text, err := sess.buf.Text(0, sess.buf.Len())
	require.NoError(t, err)
	assert.Equal(t, "ac", text)

	pos, ok := sess.buf.Resolve(vs.Cursors[0].Position)
	require.True(t, ok)
	assert.Equal(t, 1, pos)
}

func TestStepMoveRightAdvancesCursorWithoutEditingBuffer(t *testing.T) {
	sess := newTestSession(t, "abc")
	vs := sess.viewState()
	sess.setCursorOffset(&vs.Cursors[0], 0)

	sess.Step(keyEv(goturbotui.KeyRight), 80, 24)

	pos, ok := sess.buf.Resolve(vs.Cursors[0].Position)
	require.True(t, ok)
	assert.Equal(t, 1, pos)

	text, err := sess.buf.Text(0, sess.buf.Len())
	require.NoError(t, err)
	assert.Equal(t, "abc", text)
}

func TestStepEscapeRequestsQuit(t *testing.T) {
	sess := newTestSession(t, "abc")
	_, quit := sess.Step(keyEv(goturbotui.KeyEscape), 80, 24)
	assert.True(t, quit)
}

func TestCrashPluginClearsItsNamespaces(t *testing.T) {
	sess := newTestSession(t, "abc")
	sess.registerPlugin("outline")

	start, err := sess.buf.MintMarker(0, 0)
	require.NoError(t, err)
	end, err := sess.buf.MintMarker(1, 0)
	require.NoError(t, err)
	sess.decs.Add(decoration.Decoration{
		Namespace: "outline",
		Kind:      decoration.KindOverlay,
		Start:     start,
		End:       end,
	})
	require.Len(t, sess.decs.Query(0, sess.buf.Len()), 1)

	ok := sess.br.Submit("outline", bridge.Op{Type: bridge.OpAddOverlay, Buffer: sess.buf.ID(), Namespace: "outline"})
	assert.True(t, ok)

	sess.crashPlugin("outline")

	assert.Empty(t, sess.decs.Query(0, sess.buf.Len()), "crashing a plugin must clear the namespaces it wrote to")
	assert.False(t, sess.br.Healthy("outline"))
}
