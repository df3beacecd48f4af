package driver

import (
	"bufio"
	"io"
	"time"

	"github.com/elaurentium/fresh/pkg/goturbotui"
)

// readByteWithTimeout generalizes internal/editor/input.go's
// InputHandler.readByteWithTimeout: CSI sequences arrive from a terminal
// in one burst, so once inside an escape sequence a short deadline lets
// ReadEvent tell "more sequence bytes are coming" from "that was the
// whole sequence" without blocking forever on an unterminated one.
func readByteWithTimeout(r *bufio.Reader, deadline interface{ SetReadDeadline(time.Time) error }, timeout time.Duration) (byte, error) {
	if deadline != nil {
		if err := deadline.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			return 0, err
		}
		defer deadline.SetReadDeadline(time.Time{})
	}
	return r.ReadByte()
}

func key(code goturbotui.KeyCode) goturbotui.Event {
	return goturbotui.Event{Type: goturbotui.EventKey, Key: goturbotui.Key{Code: code}}
}

func runeEvent(r rune) goturbotui.Event {
	return goturbotui.Event{Type: goturbotui.EventKey, Rune: r}
}

func ctrlEvent(r rune) goturbotui.Event {
	return goturbotui.Event{Type: goturbotui.EventKey, Rune: r, Key: goturbotui.Key{Modifiers: goturbotui.ModCtrl}}
}

// ReadEvent reads one key from r (conn is the same stream, used only to
// find an optional read deadline for CSI-sequence pacing) and decodes it
// into a transport-neutral goturbotui.Event — the input-side counterpart
// to this package's output-side Writer. Generalized from
// internal/editor/input.go's InputHandler.ReadKey/parseCSISequence/
// parseSS3Sequence: same ESC-then-peek structure, but the decoded result
// is a goturbotui.Event (what router.ClassifyEvent consumes) instead of
// the teacher's WordStar-era int key codes.
func ReadEvent(r *bufio.Reader, conn io.Reader) (goturbotui.Event, error) {
	deadline, _ := conn.(interface{ SetReadDeadline(time.Time) error })

	b, err := r.ReadByte()
	if err != nil {
		return goturbotui.Event{}, err
	}

	switch {
	case b == 0x1b:
		peek, err := r.Peek(1)
		if err != nil || len(peek) == 0 {
			return key(goturbotui.KeyEscape), nil
		}
		switch peek[0] {
		case '[':
			r.ReadByte()
			return parseCSI(r, deadline), nil
		case 'O':
			r.ReadByte()
			return parseSS3(r), nil
		}
		return key(goturbotui.KeyEscape), nil
	case b == 0x7f || b == 0x08:
		return key(goturbotui.KeyBackspace), nil
	case b == '\r' || b == '\n':
		return key(goturbotui.KeyEnter), nil
	case b == '\t':
		return key(goturbotui.KeyTab), nil
	case b < 0x20:
		return ctrlEvent(rune(b) + 'a' - 1), nil
	default:
		r2 := decodeRune(r, b)
		return runeEvent(r2), nil
	}
}

func parseCSI(r *bufio.Reader, deadline interface{ SetReadDeadline(time.Time) error }) goturbotui.Event {
	seq := make([]byte, 0, 8)
	for {
		b, err := readByteWithTimeout(r, deadline, 100*time.Millisecond)
		if err != nil {
			break
		}
		seq = append(seq, b)
		if (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || b == '~' {
			break
		}
		if len(seq) > 16 {
			break
		}
	}
	if len(seq) == 0 {
		return key(goturbotui.KeyEscape)
	}

	final := seq[len(seq)-1]
	switch final {
	case 'A':
		return key(goturbotui.KeyUp)
	case 'B':
		return key(goturbotui.KeyDown)
	case 'C':
		return key(goturbotui.KeyRight)
	case 'D':
		return key(goturbotui.KeyLeft)
	case 'H':
		return key(goturbotui.KeyHome)
	case 'F':
		return key(goturbotui.KeyEnd)
	case '~':
		if len(seq) >= 2 {
			switch seq[0] {
			case '1':
				return key(goturbotui.KeyHome)
			case '3':
				return key(goturbotui.KeyDelete)
			case '4':
				return key(goturbotui.KeyEnd)
			case '5':
				return key(goturbotui.KeyPageUp)
			case '6':
				return key(goturbotui.KeyPageDown)
			}
		}
	}
	return key(goturbotui.KeyEscape)
}

func parseSS3(r *bufio.Reader) goturbotui.Event {
	b, err := r.ReadByte()
	if err != nil {
		return goturbotui.Event{}
	}
	switch b {
	case 'H':
		return key(goturbotui.KeyHome)
	case 'F':
		return key(goturbotui.KeyEnd)
	}
	return key(goturbotui.KeyEscape)
}

// decodeRune reassembles a UTF-8 rune starting with lead, pulling
// continuation bytes from r as needed. Invalid leads are returned as-is,
// matching the teacher's "never block the session on a garbled byte"
// posture elsewhere in input handling.
func decodeRune(r *bufio.Reader, lead byte) rune {
	var n int
	switch {
	case lead&0xE0 == 0xC0:
		n = 1
	case lead&0xF0 == 0xE0:
		n = 2
	case lead&0xF8 == 0xF0:
		n = 3
	default:
		return rune(lead)
	}
	buf := make([]byte, 0, n+1)
	buf = append(buf, lead)
	for i := 0; i < n; i++ {
		b, err := r.ReadByte()
		if err != nil {
			break
		}
		buf = append(buf, b)
	}
	runes := []rune(string(buf))
	if len(runes) == 0 {
		return rune(lead)
	}
	return runes[0]
}
