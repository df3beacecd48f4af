package pipeline

import "github.com/elaurentium/fresh/internal/decoration"

// TokenKind distinguishes the token shapes flowing through Stages A-C.
// VirtualLine is a Stage C addition, never produced by Stage A.
type TokenKind int

const (
	TokenText TokenKind = iota
	TokenSpace
	TokenNewline
	TokenVirtualLine
)

// Token is one unit of Stage A/B's intermediate stream. SourceOffset is
// nil for injected content (conceal replacements, hanging-indent padding,
// framing) — exactly the cells whose mapping entry must be None.
type Token struct {
	Kind         TokenKind
	Text         string // rune(s) this token paints; "" for Newline/VirtualLine
	SourceOffset *int

	// StyleAnchor carries the byte offset an injected conceal replacement
	// stood in for, so Stage E can still apply an Overlay covering that
	// offset to the replacement's cells (§4.2: "the overlay style applies
	// to the replacement cells"). Nil for ordinary source-anchored tokens,
	// which use SourceOffset for style lookup instead.
	StyleAnchor *int

	// VirtualSpans carries a TokenVirtualLine's content; each span becomes
	// its own run of injected cells on a dedicated display line.
	VirtualSpans []decoration.StyledSpan

	// Margin marks Stage D's centering padding, painted with MarginStyle
	// instead of the buffer's default style.
	Margin bool
}

func offset(o int) *int { return &o }

// textToken, spaceToken, newlineToken construct source-anchored tokens.
func textToken(text string, src int) Token  { return Token{Kind: TokenText, Text: text, SourceOffset: offset(src)} }
func spaceToken(src int) Token              { return Token{Kind: TokenSpace, Text: " ", SourceOffset: offset(src)} }
func newlineToken(src int) Token            { return Token{Kind: TokenNewline, SourceOffset: offset(src)} }

// injectedText builds a Text token with no source offset, e.g. a conceal
// replacement.
func injectedText(text string) Token { return Token{Kind: TokenText, Text: text} }

// injectedSpace builds a Space token with no source offset, e.g. a
// hanging-indent padding space.
func injectedSpace() Token { return Token{Kind: TokenSpace, Text: " "} }
