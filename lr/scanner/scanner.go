/*
Package scanner turns source text into tokens for the parser of package
lr/parser.

Scanners are driven by terminals: Data indexes the terminals of a grammar by
their first characters, and Scanner asks the candidate terminals for the
current input to match (see lr.Terminal.TryMatch). If more than one terminal
applies, the parser's expected terminals narrow down the choice, and the
longest match wins. Priorities decide between matches of equal length.

For editors, LineScanner scans input line by line. Tokens spanning more than
one line, e.g. block comments, are reported as partial tokens, and the
scanner state at the end of a line tells how to continue.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package scanner

import (
	"unicode"

	"github.com/npillmayer/parsekit/lr"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'parsekit.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("parsekit.scanner")
}

// Scanner produces tokens from a source text. A scanner is not safe for
// concurrent use, but scanners for different inputs may share their Data.
type Scanner struct {
	data     *Data
	src      *lr.SourceStream
	ctx      *lr.ScanContext
	tabWidth int
	Error    func(tok *lr.Token) // called for every error token
}

// Option configures a scanner.
type Option func(s *Scanner)

// TabWidth sets the tab width for column counting (default 8).
func TabWidth(w int) Option {
	return func(s *Scanner) {
		s.tabWidth = w
	}
}

// Partial lets terminals produce partial tokens at the end of input.
func Partial(b bool) Option {
	return func(s *Scanner) {
		s.ctx.Partial = b
	}
}

// ErrorHandler sets a handler for error tokens. The default handler
// traces scanner errors.
func ErrorHandler(h func(tok *lr.Token)) Option {
	return func(s *Scanner) {
		if h == nil {
			h = logError
		}
		s.Error = h
	}
}

// Default error reporting function for scanners
func logError(tok *lr.Token) {
	tracer().Errorf("scanner error at %s: %v", tok.Location, tok.Value)
}

// New creates a scanner for a grammar's scanner data.
func New(data *Data, opts ...Option) *Scanner {
	s := &Scanner{
		data:     data,
		ctx:      &lr.ScanContext{},
		tabWidth: 8,
		Error:    logError,
	}
	if data.Grammar != nil {
		s.ctx.Grammar = data.Grammar.Grammar
	}
	for _, opt := range opts {
		opt(s)
	}
	s.SetSource("")
	return s
}

// SetSource starts scanning a new input text. The scanner state is reset.
func (s *Scanner) SetSource(text string) {
	s.src = lr.NewSourceStream(text, s.tabWidth)
	s.ctx.State = 0
}

// Source returns the source stream of the scanner.
func (s *Scanner) Source() *lr.SourceStream {
	return s.src
}

// State returns the scanner state, i.e. how to continue a partial token.
func (s *Scanner) State() lr.ScannerState {
	return s.ctx.State
}

// SetState sets the scanner state, e.g. to continue a partial token from
// a previous line.
func (s *Scanner) SetState(state lr.ScannerState) {
	s.ctx.State = state
}

// NextToken returns the next token. expected may be nil; if not, it is used
// to choose between terminals applicable to the current input. At the end
// of input, NextToken returns a token for the grammar's EOF terminal.
func (s *Scanner) NextToken(expected *lr.TermSet) *lr.Token {
	var tok *lr.Token
	if s.ctx.State.IsContinuation() {
		if s.src.EOF() { // partial token continues on the next line
			return s.eofToken()
		}
		tok = s.resume()
	} else {
		s.skipWhitespace()
		if s.src.EOF() {
			return s.eofToken()
		}
		tok = s.scan(expected)
	}
	s.src.MoveLocationToPreviewPosition()
	if tok.IsError() && s.Error != nil {
		s.Error(tok)
	}
	tracer().Debugf("scanned %v", tok)
	return tok
}

func (s *Scanner) eofToken() *lr.Token {
	s.src.SetPreviewPosition(s.src.Position())
	var eof lr.Terminal
	if s.ctx.Grammar != nil {
		eof = s.ctx.Grammar.EOF
	}
	return &lr.Token{Terminal: eof, Location: s.src.Location()}
}

func (s *Scanner) skipWhitespace() {
	s.src.SetPreviewPosition(s.src.Position())
	for !s.src.PreviewEOF() && unicode.IsSpace(s.src.PreviewChar()) {
		s.src.Advance()
	}
	s.src.MoveLocationToPreviewPosition()
}

// resume continues a partial token with the multiline terminal recorded in
// the scanner state.
func (s *Scanner) resume() *lr.Token {
	s.src.SetPreviewPosition(s.src.Position())
	term := s.data.MultilineTerminal(s.ctx.State.TerminalIndex())
	if term == nil {
		state := s.ctx.State
		s.ctx.State = 0
		return s.ctx.ErrorToken(s.src, "invalid scanner state %s", state)
	}
	if tok := term.TryMatch(s.ctx, s.src); tok != nil {
		return tok
	}
	s.ctx.State = 0
	return s.ctx.ErrorToken(s.src, "cannot continue %s", term)
}

func (s *Scanner) scan(expected *lr.TermSet) *lr.Token {
	terms := s.data.Candidates(s.src.PreviewChar())
	candidates := terms
	if len(terms) > 1 && expected != nil {
		candidates = filterExpected(terms, expected)
	}
	tok := s.matchTerminals(candidates)
	if tok == nil && len(candidates) < len(terms) {
		tok = s.matchTerminals(terms)
	}
	if tok == nil {
		tok = s.matchTerminals(s.data.Terminals())
	}
	if tok == nil {
		tok = s.invalidCharacter()
	}
	return tok
}

func filterExpected(terms []lr.Terminal, expected *lr.TermSet) []lr.Terminal {
	filtered := make([]lr.Terminal, 0, len(terms))
	for _, t := range terms {
		if expected.Contains(t) || t.Terminal().Is(lr.IsNonGrammar) {
			filtered = append(filtered, t)
		}
	}
	if len(filtered) == 0 {
		return terms
	}
	return filtered
}

// matchTerminals lets every terminal try to match the input. The longest
// match wins; terminals are sorted by priority, and lower priority
// terminals are not tried once a match has been found. An error token
// stops the search.
func (s *Scanner) matchTerminals(terms []lr.Terminal) *lr.Token {
	var best *lr.Token
	bestEnd := s.src.Position()
	var bestState lr.ScannerState
	start := s.src.Position()
	for _, t := range terms {
		if best != nil && best.Terminal.Terminal().Priority > t.Terminal().Priority {
			break
		}
		s.src.SetPreviewPosition(start)
		s.ctx.State = 0
		tok := t.TryMatch(s.ctx, s.src)
		if tok == nil {
			continue
		}
		if validate := t.Terminal().ValidateToken; validate != nil {
			if tok = validate(s.ctx, tok); tok == nil {
				continue
			}
		}
		if best == nil || best.IsError() || tok.Length() > best.Length() {
			best, bestEnd, bestState = tok, s.src.PreviewPosition(), s.ctx.State
		}
		if best.IsError() {
			break
		}
	}
	s.src.SetPreviewPosition(bestEnd)
	s.ctx.State = bestState
	return best
}

// invalidCharacter creates an error token and skips input up to the next
// white space or delimiter.
func (s *Scanner) invalidCharacter() *lr.Token {
	s.src.SetPreviewPosition(s.src.Position())
	r := s.src.PreviewChar()
	s.src.Advance()
	for !s.src.PreviewEOF() && !s.ctx.IsWhitespaceOrDelimiter(s.src.PreviewChar()) {
		s.src.Advance()
	}
	return s.ctx.ErrorToken(s.src, "invalid character %q", r)
}
