// Package ansi provides the CP437/UTF-8 codec and escape-sequence
// builders internal/driver needs to paint a pipeline.Frame to a terminal
// or SSH session, trimmed from vision3's BBS-art display package down to
// the encoding and cursor-control primitives a non-art terminal renderer
// actually calls.
package ansi

import (
	"fmt"
	"strings"
)

// OutputMode selects the character encoding strategy for terminal output.
type OutputMode int

const (
	OutputModeAuto  OutputMode = iota // Detect based on the session's TERM/encoding negotiation.
	OutputModeUTF8                    // Force UTF-8 character output.
	OutputModeCP437                   // Force raw CP437 byte output.
)

// Cp437ToUnicode maps CP437 bytes (0-255) to their Unicode equivalents.
var Cp437ToUnicode = [256]rune{
	// ASCII characters (0-127)
	0x0000, 0x0001, 0x0002, 0x0003, 0x0004, 0x0005, 0x0006, 0x0007,
	0x0008, 0x0009, 0x000A, 0x000B, 0x000C, 0x000D, 0x000E, 0x000F,
	0x0010, 0x0011, 0x0012, 0x0013, 0x0014, 0x0015, 0x0016, 0x0017,
	0x0018, 0x0019, 0x001A, 0x001B, 0x001C, 0x001D, 0x001E, 0x001F,
	0x0020, 0x0021, 0x0022, 0x0023, 0x0024, 0x0025, 0x0026, 0x0027,
	0x0028, 0x0029, 0x002A, 0x002B, 0x002C, 0x002D, 0x002E, 0x002F,
	0x0030, 0x0031, 0x0032, 0x0033, 0x0034, 0x0035, 0x0036, 0x0037,
	0x0038, 0x0039, 0x003A, 0x003B, 0x003C, 0x003D, 0x003E, 0x003F,
	0x0040, 0x0041, 0x0042, 0x0043, 0x0044, 0x0045, 0x0046, 0x0047,
	0x0048, 0x0049, 0x004A, 0x004B, 0x004C, 0x004D, 0x004E, 0x004F,
	0x0050, 0x0051, 0x0052, 0x0053, 0x0054, 0x0055, 0x0056, 0x0057,
	0x0058, 0x0059, 0x005A, 0x005B, 0x005C, 0x005D, 0x005E, 0x005F,
	0x0060, 0x0061, 0x0062, 0x0063, 0x0064, 0x0065, 0x0066, 0x0067,
	0x0068, 0x0069, 0x006A, 0x006B, 0x006C, 0x006D, 0x006E, 0x006F,
	0x0070, 0x0071, 0x0072, 0x0073, 0x0074, 0x0075, 0x0076, 0x0077,
	0x0078, 0x0079, 0x007A, 0x007B, 0x007C, 0x007D, 0x007E, 0x007F,
	// Extended CP437 characters (128-255)
	0x00C7, 0x00FC, 0x00E9, 0x00E2, 0x00E4, 0x00E0, 0x00E5, 0x00E7,
	0x00EA, 0x00EB, 0x00E8, 0x00EF, 0x00EE, 0x00EC, 0x00C4, 0x00C5,
	0x00C9, 0x00E6, 0x00C6, 0x00F4, 0x00F6, 0x00F2, 0x00FB, 0x00F9,
	0x00FF, 0x00D6, 0x00DC, 0x00A2, 0x00A3, 0x00A5, 0x20A7, 0x0192,
	0x00E1, 0x00ED, 0x00F3, 0x00FA, 0x00F1, 0x00D1, 0x00AA, 0x00BA,
	0x00BF, 0x2310, 0x00AC, 0x00BD, 0x00BC, 0x00A1, 0x00AB, 0x00BB,
	0x2591, 0x2592, 0x2593, 0x2502, 0x2524, 0x2561, 0x2562, 0x2556,
	0x2555, 0x2563, 0x2551, 0x2557, 0x255D, 0x255C, 0x255B, 0x2510,
	0x2514, 0x2534, 0x252C, 0x251C, 0x2500, 0x253C, 0x255E, 0x255F,
	0x255A, 0x2554, 0x2569, 0x2566, 0x2560, 0x2550, 0x256C, 0x2567,
	0x2568, 0x2564, 0x2565, 0x2559, 0x2558, 0x2552, 0x2553, 0x256B,
	0x256A, 0x2518, 0x250C, 0x2588, 0x2584, 0x258C, 0x2590, 0x2580,
	0x03B1, 0x00DF, 0x0393, 0x03C0, 0x03A3, 0x03C3, 0x00B5, 0x03C4,
	0x03A6, 0x0398, 0x03A9, 0x03B4, 0x221E, 0x03C6, 0x03B5, 0x2229,
	0x2261, 0x00B1, 0x2265, 0x2264, 0x2320, 0x2321, 0x00F7, 0x2248,
	0x00B0, 0x2219, 0x00B7, 0x221A, 0x207F, 0x00B2, 0x25A0, 0x00A0,
}

// UnicodeToCP437 maps the Unicode runes Fresh's box-drawing and style
// glyphs actually use back to their CP437 byte, for OutputModeCP437
// sessions. Generated to avoid duplicates where multiple runes would
// otherwise map from one byte.
var UnicodeToCP437 = map[rune]byte{
	'█': 0xDB, '▄': 0xDC, '▌': 0xDD, '▐': 0xDE, '▀': 0xDF,
	'■': 0xFE,
	'─': 0xC4, '│': 0xB3, '┌': 0xDA, '┐': 0xBF, '└': 0xC0, '┘': 0xD9,
	'├': 0xC3, '┤': 0xB4, '┬': 0xC2, '┴': 0xC1, '┼': 0xC5,
	'═': 0xCD, '║': 0xBA, '╔': 0xC9, '╗': 0xBB, '╚': 0xC8, '╝': 0xBC,
	'╠': 0xCC, '╣': 0xB9, '╦': 0xCB, '╩': 0xCA, '╬': 0xCE,
	'░': 0xB0, '▒': 0xB1, '▓': 0xB2,

	'Ç': 0x80, 'ü': 0x81, 'é': 0x82, 'â': 0x83, 'ä': 0x84, 'à': 0x85, 'å': 0x86, 'ç': 0x87,
	'ê': 0x88, 'ë': 0x89, 'è': 0x8A, 'ï': 0x8B, 'î': 0x8C, 'ì': 0x8D, 'Ä': 0x8E, 'Å': 0x8F,
	'É': 0x90, 'æ': 0x91, 'Æ': 0x92, 'ô': 0x93, 'ö': 0x94, 'ò': 0x95, 'û': 0x96, 'ù': 0x97,
	'ÿ': 0x98, 'Ö': 0x99, 'Ü': 0x9A, '¢': 0x9B, '£': 0x9C, '¥': 0x9D, '₧': 0x9E, 'ƒ': 0x9F,
	'á': 0xA0, 'í': 0xA1, 'ó': 0xA2, 'ú': 0xA3, 'ñ': 0xA4, 'Ñ': 0xA5, 'ª': 0xA6, 'º': 0xA7,
	'¿': 0xA8, '⌐': 0xA9, '¬': 0xAA, '½': 0xAB, '¼': 0xAC, '¡': 0xAD, '«': 0xAE, '»': 0xAF,
	'╡': 0xB5, '╢': 0xB6, '╖': 0xB7, '╕': 0xB8,
	'╞': 0xC6, '╟': 0xC7,
	'╧': 0xCF, '╨': 0xD0, '╤': 0xD1, '╥': 0xD2, '╙': 0xD3, '╘': 0xD4, '╒': 0xD5, '╓': 0xD6, '╫': 0xD7,
	'╪': 0xD8,
	'α': 0xE0, 'ß': 0xE1, 'Γ': 0xE2, 'π': 0xE3, 'Σ': 0xE4, 'σ': 0xE5, 'µ': 0xE6, 'τ': 0xE7,
	'Φ': 0xE8, 'Θ': 0xE9, 'Ω': 0xEA, 'δ': 0xEB, '∞': 0xEC, 'φ': 0xED, 'ε': 0xEE, '∩': 0xEF,
	'≡': 0xF0, '±': 0xF1, '≥': 0xF2, '≤': 0xF3, '⌠': 0xF4, '⌡': 0xF5, '÷': 0xF6, '≈': 0xF7,
	'°': 0xF8, '∙': 0xF9, '·': 0xFA, '√': 0xFB, 'ⁿ': 0xFC, '²': 0xFD,
}

// CP437BytesToUTF8 converts a byte stream that mixes CP437 high bytes and
// passthrough ANSI escape sequences into UTF-8, leaving escape sequences
// untouched so SGR styling survives the conversion.
func CP437BytesToUTF8(data []byte) []byte {
	out := make([]byte, 0, len(data)*2)
	i := 0
	for i < len(data) {
		b := data[i]

		if b == 0x1B && i+1 < len(data) {
			start := i
			i++ // skip ESC
			if data[i] == '[' {
				i++ // skip '['
				for i < len(data) {
					c := data[i]
					i++
					if c >= '@' && c <= '~' {
						break
					}
					if i-start > 32 {
						break
					}
				}
			} else if data[i] == '(' || data[i] == ')' {
				i++ // skip charset designator
				if i < len(data) {
					i++ // skip charset ID
				}
			} else {
				i++ // simple two-byte ESC sequence
			}
			out = append(out, data[start:i]...)
			continue
		}

		if b < 0x80 {
			out = append(out, b)
			i++
			continue
		}

		r := Cp437ToUnicode[b]
		out = append(out, []byte(string(r))...)
		i++
	}
	return out
}

// ClearScreen returns the escape sequence that clears the screen and
// homes the cursor.
func ClearScreen() string {
	return "\x1B[2J\x1B[H"
}

// MoveCursor returns an ANSI escape sequence to move the cursor to the
// specified row and column. Rows and columns are 1-indexed (1,1 is
// top-left).
func MoveCursor(row, col int) string {
	return fmt.Sprintf("\x1B[%d;%dH", row, col)
}

// SaveCursor returns ANSI escape sequences to save the current cursor
// position. Both SCO (\x1b[s) and DEC (DECSC: \x1b7) forms are emitted so
// that the widest range of terminal emulators will honor at least one.
func SaveCursor() string {
	return "\x1B[s\x1B7"
}

// RestoreCursor returns ANSI escape sequences to restore the cursor to
// the previously saved position. Both SCO (\x1b[u) and DEC (DECRC: \x1b8)
// forms are emitted for broad compatibility.
func RestoreCursor() string {
	return "\x1B[u\x1B8"
}

// CursorBackward returns a CSI CUB sequence that moves the cursor left by
// n columns. This is universally supported and avoids reliance on cursor
// save/restore, which is inconsistent across terminal emulators.
func CursorBackward(n int) string {
	if n <= 0 {
		return ""
	}
	return fmt.Sprintf("\x1B[%dD", n)
}

// StripAnsi removes CSI escape sequences from str, for logging/diagnostic
// paths that must not carry raw escapes.
func StripAnsi(str string) string {
	var result strings.Builder
	inEscape := false
	for i := 0; i < len(str); i++ {
		if str[i] == '\x1b' && i+1 < len(str) && str[i+1] == '[' {
			inEscape = true
			i++ // skip '['
		} else if inEscape && (str[i] >= 'a' && str[i] <= 'z' || str[i] >= 'A' && str[i] <= 'Z') {
			inEscape = false
		} else if !inEscape {
			result.WriteByte(str[i])
		}
	}
	return result.String()
}
