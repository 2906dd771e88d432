package lr

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/parsekit"
)

// TokenFlags are flags for tokens.
type TokenFlags uint8

// Token flags.
const (
	TokenIsIncomplete TokenFlags = 1 << iota // partial token, continued on a subsequent line
)

// Token is a unit of input, produced by a terminal.
//
// An example would be a token for a floating point number:
//
//    Terminal = number     // the terminal which recognized the token
//    Text     = "3.1416"   // lexeme as it appeared in the input
//    Value    = 3.1416     // a float64 value
//    Location = (1:67)     // position in the input
//
type Token struct {
	Terminal Terminal
	KeyTerm  *KeyTerm // set if the text of an identifier matches a key term
	Location parsekit.Location
	Text     string
	Value    interface{}
	Details  interface{} // terminal-specific details, e.g. prefix and suffix of a number
	Flags    TokenFlags
}

// Length is the length of the token text in bytes.
func (t *Token) Length() int {
	return len(t.Text)
}

// Span returns the input span covered by the token.
func (t *Token) Span() parsekit.Span {
	return parsekit.Span{Location: t.Location, Length: len(t.Text)}
}

// Category returns the category of the token's terminal.
func (t *Token) Category() TokenCategory {
	return t.Terminal.Terminal().Category
}

// IsError is true for tokens signalling a scanner error. The value of an
// error token is the error message.
func (t *Token) IsError() bool {
	return t.Category() == CategoryError
}

// IsIncomplete is true for partial tokens.
func (t *Token) IsIncomplete() bool {
	return t.Flags&TokenIsIncomplete != 0
}

// SetTerminal replaces the token's terminal, e.g. when an identifier is to
// be treated as a key term.
func (t *Token) SetTerminal(term Terminal) {
	t.Terminal = term
}

func (t *Token) String() string {
	if t.IsError() {
		return fmt.Sprintf("<error %v @%s>", t.Value, t.Location)
	}
	return fmt.Sprintf("<%s %q @%s>", t.Terminal, t.Text, t.Location)
}

// --- Scanner state --------------------------------------------------------

// ScannerState is the state a line scanner keeps between lines. It is
// packed into 32 bits to be easily stored by editors for every line:
//
//    bits  0– 7   1-based index of the multiline terminal to continue with (0 = none)
//    bits  8–15   terminal-specific sub-type (e.g. which kind of string literal)
//    bits 16–31   terminal-specific flags
//
type ScannerState uint32

// PackScannerState creates a scanner state.
func PackScannerState(terminalIndex int, subType int, flags uint16) ScannerState {
	return ScannerState(uint32(terminalIndex&0xff) | uint32(subType&0xff)<<8 | uint32(flags)<<16)
}

// TerminalIndex returns the 1-based index of the multiline terminal to resume.
func (s ScannerState) TerminalIndex() int {
	return int(s & 0xff)
}

// TokenSubType returns the terminal-specific sub-type.
func (s ScannerState) TokenSubType() int {
	return int(s>>8) & 0xff
}

// Flags returns terminal-specific flags.
func (s ScannerState) Flags() uint16 {
	return uint16(s >> 16)
}

// IsContinuation is true if a partial token has to be continued.
func (s ScannerState) IsContinuation() bool {
	return s.TerminalIndex() != 0
}

func (s ScannerState) String() string {
	return fmt.Sprintf("[term=%d sub=%d flags=%#x]", s.TerminalIndex(), s.TokenSubType(), s.Flags())
}

// ScanContext is the context a terminal matches input in.
type ScanContext struct {
	Grammar *Grammar
	Partial bool         // partial tokens are allowed (line-by-line scanning)
	State   ScannerState // resume state for partial tokens, read and written by terminals
}

// CaseSensitive reports the grammar's case sensitivity.
func (ctx *ScanContext) CaseSensitive() bool {
	return ctx.Grammar == nil || ctx.Grammar.CaseSensitive
}

// IsWhitespaceOrDelimiter checks for white space and delimiter characters.
func (ctx *ScanContext) IsWhitespaceOrDelimiter(r rune) bool {
	if ctx.Grammar == nil {
		return r == EOFChar || strings.ContainsRune(" \t\r\n"+DefaultDelimiters, r)
	}
	return ctx.Grammar.IsWhitespaceOrDelimiter(r)
}

// ErrorToken creates an error token covering the input from the current
// location to the preview position (at least one character).
func (ctx *ScanContext) ErrorToken(src *SourceStream, format string, args ...interface{}) *Token {
	if src.PreviewPosition() <= src.Position() && !src.EOF() {
		src.SetPreviewPosition(src.Position())
		src.Advance()
	}
	var errTerm Terminal
	if ctx.Grammar != nil {
		errTerm = ctx.Grammar.SyntaxError
	} else {
		errTerm = newSpecialTerminal("SyntaxError", CategoryError, IsError)
	}
	return src.CreateToken(errTerm, fmt.Sprintf(format, args...))
}

// --- Source stream --------------------------------------------------------

// EOFChar is returned when reading beyond the end of input.
const EOFChar rune = 0

// SourceStream is the input for terminals. It maintains the location of the
// next token to scan and a preview position, which terminals advance while
// matching input.
type SourceStream struct {
	text     string
	location parsekit.Location
	preview  int
	tabWidth int
}

// NewSourceStream creates a source stream for a text.
func NewSourceStream(text string, tabWidth int) *SourceStream {
	if tabWidth <= 0 {
		tabWidth = 8
	}
	return &SourceStream{text: text, tabWidth: tabWidth}
}

// Text returns the complete input text.
func (s *SourceStream) Text() string {
	return s.text
}

// Location returns the location of the next token.
func (s *SourceStream) Location() parsekit.Location {
	return s.location
}

// SetLocation resets the stream to a location. The preview position is
// set to the same position.
func (s *SourceStream) SetLocation(loc parsekit.Location) {
	s.location = loc
	s.preview = loc.Position
}

// Position returns the byte position of the next token.
func (s *SourceStream) Position() int {
	return s.location.Position
}

// PreviewPosition returns the byte position a terminal has read up to.
func (s *SourceStream) PreviewPosition() int {
	return s.preview
}

// SetPreviewPosition sets the preview position.
func (s *SourceStream) SetPreviewPosition(p int) {
	if p > len(s.text) {
		p = len(s.text)
	}
	s.preview = p
}

// PreviewChar returns the character at the preview position.
func (s *SourceStream) PreviewChar() rune {
	if s.preview >= len(s.text) {
		return EOFChar
	}
	r, _ := utf8.DecodeRuneInString(s.text[s.preview:])
	return r
}

// NextPreviewChar returns the character following the preview character.
func (s *SourceStream) NextPreviewChar() rune {
	if s.preview >= len(s.text) {
		return EOFChar
	}
	_, w := utf8.DecodeRuneInString(s.text[s.preview:])
	if s.preview+w >= len(s.text) {
		return EOFChar
	}
	r, _ := utf8.DecodeRuneInString(s.text[s.preview+w:])
	return r
}

// Advance moves the preview position one character ahead.
func (s *SourceStream) Advance() {
	if s.preview < len(s.text) {
		_, w := utf8.DecodeRuneInString(s.text[s.preview:])
		s.preview += w
	}
}

// MatchSymbol checks if the input at the preview position starts with sym.
func (s *SourceStream) MatchSymbol(sym string, caseSensitive bool) bool {
	end := s.preview + len(sym)
	if end > len(s.text) {
		return false
	}
	if caseSensitive {
		return s.text[s.preview:end] == sym
	}
	return strings.EqualFold(s.text[s.preview:end], sym)
}

// EOF is true if the location of the next token is at the end of input.
func (s *SourceStream) EOF() bool {
	return s.location.Position >= len(s.text)
}

// PreviewEOF is true if the preview position is at the end of input.
func (s *SourceStream) PreviewEOF() bool {
	return s.preview >= len(s.text)
}

// PreviewText returns the text between the location and the preview position.
func (s *SourceStream) PreviewText() string {
	if s.preview <= s.location.Position {
		return ""
	}
	return s.text[s.location.Position:s.preview]
}

// CreateToken creates a token for the text between the location and the
// preview position. It does not move the location.
func (s *SourceStream) CreateToken(term Terminal, value interface{}) *Token {
	return &Token{
		Terminal: term,
		Location: s.location,
		Text:     s.PreviewText(),
		Value:    value,
	}
}

// MoveLocationToPreviewPosition moves the location ahead to the preview
// position, tracking lines and columns.
func (s *SourceStream) MoveLocationToPreviewPosition() {
	loc := s.location
	for loc.Position < s.preview && loc.Position < len(s.text) {
		r, w := utf8.DecodeRuneInString(s.text[loc.Position:])
		switch r {
		case '\n':
			loc.Line++
			loc.Column = 0
		case '\t':
			loc.Column += s.tabWidth - loc.Column%s.tabWidth
		case '\r':
		default:
			loc.Column++
		}
		loc.Position += w
	}
	s.location = loc
}
