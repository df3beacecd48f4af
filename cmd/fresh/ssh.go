package main

import (
	"bufio"

	gssh "github.com/gliderlabs/ssh"

	"github.com/elaurentium/fresh/internal/ansi"
	"github.com/elaurentium/fresh/internal/driver"
	"github.com/elaurentium/fresh/internal/logging"
)

// handleSSHSession is the per-connection SSH loop: read one event, step
// the session, repaint only what changed. It never touches bubbletea —
// §6 keeps the local-TUI lipgloss path and the raw-terminal diffing path
// as two renderers over the same Frame, and a remote session gets the
// latter, driven directly off driver.ReadEvent/driver.Writer the way the
// teacher's own BBS session loops read and wrote a raw connection without
// an intervening UI framework.
func handleSSHSession(s gssh.Session, mode ansi.OutputMode, sess *editorSession) {
	pty, winCh, isPty := s.Pty()
	width, height := 80, 24
	if isPty {
		width, height = pty.Window.Width, pty.Window.Height
	}

	w := driver.NewWriter(s, mode)
	if err := w.ClearScreen(); err != nil {
		logging.Warn("ssh session: failed to clear screen: %v", err)
		return
	}

	r := bufio.NewReader(s)
	done := make(chan struct{})
	defer close(done)

	if isPty {
		go func() {
			for {
				select {
				case win, ok := <-winCh:
					if !ok {
						return
					}
					width, height = win.Width, win.Height
				case <-done:
					return
				}
			}
		}()
	}

	repaint := func() {
		frame := sess.render(width, height)
		if err := w.Paint(frame); err != nil {
			logging.Warn("ssh session: paint failed: %v", err)
			return
		}
		row, col := sess.cursorScreenPosition(frame)
		if err := w.PositionCursor(row, col); err != nil {
			logging.Warn("ssh session: cursor position failed: %v", err)
		}
	}
	repaint()

	for {
		ev, err := driver.ReadEvent(r, s)
		if err != nil {
			logging.Debug("ssh session ended: %v", err)
			return
		}

		_, quit := sess.Step(ev, width, height)
		if quit {
			return
		}
		repaint()
	}
}
