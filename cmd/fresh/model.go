package main

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/elaurentium/fresh/internal/driver"
	"github.com/elaurentium/fresh/pkg/goturbotui"
)

// model is the bubbletea Model for local TUI mode. It owns nothing of the
// editor's own state — that all lives in editorSession — and exists only
// to translate tea.Msg into the goturbotui.Event Step expects and render
// the resulting frame through driver.RenderFrame, the same way
// internal/usereditor's Model wraps a tea.Program around its own state
// without tea ever seeing the underlying data structures directly.
type model struct {
	sess          *editorSession
	width, height int
	quitting      bool
}

func newModel(sess *editorSession) *model {
	return &model{sess: sess, width: 80, height: 24}
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		ev, ok := translateKeyMsg(msg)
		if !ok {
			return m, nil
		}
		_, quit := m.sess.Step(ev, m.width, m.height)
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}
	return m, nil
}

func (m *model) View() string {
	if m.quitting {
		return ""
	}
	frame := m.sess.render(m.width, m.height)
	return driver.RenderFrame(frame)
}

// translateKeyMsg turns a bubbletea KeyMsg into the same transport-neutral
// goturbotui.Event that driver.ReadEvent produces for an SSH session, so
// editorSession.Step never needs to know which transport it's being
// driven from.
func translateKeyMsg(msg tea.KeyMsg) (goturbotui.Event, bool) {
	switch msg.Type {
	case tea.KeyUp:
		return keyEvent(goturbotui.KeyUp), true
	case tea.KeyDown:
		return keyEvent(goturbotui.KeyDown), true
	case tea.KeyLeft:
		return keyEvent(goturbotui.KeyLeft), true
	case tea.KeyRight:
		return keyEvent(goturbotui.KeyRight), true
	case tea.KeyHome:
		return keyEvent(goturbotui.KeyHome), true
	case tea.KeyEnd:
		return keyEvent(goturbotui.KeyEnd), true
	case tea.KeyPgUp:
		return keyEvent(goturbotui.KeyPageUp), true
	case tea.KeyPgDown:
		return keyEvent(goturbotui.KeyPageDown), true
	case tea.KeyDelete:
		return keyEvent(goturbotui.KeyDelete), true
	case tea.KeyEnter:
		return keyEvent(goturbotui.KeyEnter), true
	case tea.KeyBackspace:
		return keyEvent(goturbotui.KeyBackspace), true
	case tea.KeyTab:
		return keyEvent(goturbotui.KeyTab), true
	case tea.KeyEsc:
		return keyEvent(goturbotui.KeyEscape), true
	case tea.KeyCtrlS:
		return goturbotui.Event{Type: goturbotui.EventKey, Rune: 's', Key: goturbotui.Key{Modifiers: goturbotui.ModCtrl}}, true
	case tea.KeyCtrlC:
		return keyEvent(goturbotui.KeyEscape), true
	case tea.KeySpace:
		return goturbotui.Event{Type: goturbotui.EventKey, Rune: ' '}, true
	case tea.KeyRunes:
		if len(msg.Runes) == 0 {
			return goturbotui.Event{}, false
		}
		return goturbotui.Event{Type: goturbotui.EventKey, Rune: msg.Runes[0]}, true
	default:
		return goturbotui.Event{}, false
	}
}

func keyEvent(code goturbotui.KeyCode) goturbotui.Event {
	return goturbotui.Event{Type: goturbotui.EventKey, Key: goturbotui.Key{Code: code}}
}
