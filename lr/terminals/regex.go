package terminals

import (
	"fmt"
	"strings"

	"github.com/npillmayer/parsekit/lr"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// RegexTerminal recognizes tokens by a regular expression, compiled to a
// DFA by lexmachine. Matches do not extend beyond the end of a line.
//
//    hexColor := NewRegexTerminal("color", `#[0-9a-fA-F]+`, "#")
//
// The pattern syntax is lexmachine's, which differs from package regexp:
// e.g. there are no anchors, and '.' does not match newlines.
type RegexTerminal struct {
	lr.TerminalBase
	Pattern string
	// Convert, if set, converts the matched text to the token value.
	Convert    func(text string) (interface{}, error)
	firsts     []string
	lexer      *lexmachine.Lexer
	compileErr error
}

var _ lr.Terminal = (*RegexTerminal)(nil)

// NewRegexTerminal creates a terminal for a regular expression. firsts are
// the prefixes a match may start with; without firsts the terminal is
// tried for every input character.
func NewRegexTerminal(name, pattern string, firsts ...string) *RegexTerminal {
	r := &RegexTerminal{
		TerminalBase: lr.MakeTerminalBase(name, lr.CategoryContent),
		Pattern:      pattern,
		firsts:       firsts,
	}
	r.lexer = lexmachine.NewLexer()
	r.lexer.Add([]byte(pattern), func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(0, string(m.Bytes), m), nil
	})
	if err := compile(r.lexer); err != nil {
		tracer().Errorf("regex terminal %s: cannot compile %q: %v", name, pattern, err)
		r.compileErr = err
	}
	return r
}

// compile builds the DFA of a lexer. lexmachine panics for some malformed
// patterns instead of returning an error.
func compile(lexer *lexmachine.Lexer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pattern: %v", r)
		}
	}()
	return lexer.Compile()
}

// Firsts is part of interface lr.Terminal.
func (r *RegexTerminal) Firsts() []string {
	return r.firsts
}

// Init is part of interface lr.TerminalInitializer.
func (r *RegexTerminal) Init(gd *lr.GrammarData, errs *lr.GrammarErrorList) {
	if r.compileErr != nil {
		errs.Add(lr.LevelError, nil, "regex terminal %s: %v", r.Name, r.compileErr)
	}
}

// TryMatch is part of interface lr.Terminal.
func (r *RegexTerminal) TryMatch(ctx *lr.ScanContext, src *lr.SourceStream) *lr.Token {
	if r.compileErr != nil {
		return nil
	}
	text := src.Text()[src.PreviewPosition():]
	if eol := strings.IndexByte(text, '\n'); eol >= 0 {
		text = text[:eol]
	}
	if text == "" {
		return nil
	}
	scanner, err := r.lexer.Scanner([]byte(text))
	if err != nil {
		return nil
	}
	t, err, eof := scanner.Next()
	if err != nil || eof {
		return nil
	}
	match := t.(*lexmachine.Token)
	if match.TC != 0 || len(match.Lexeme) == 0 {
		return nil
	}
	src.SetPreviewPosition(src.PreviewPosition() + len(match.Lexeme))
	tok := src.CreateToken(r, string(match.Lexeme))
	if r.Convert != nil {
		v, err := r.Convert(tok.Text)
		if err != nil {
			return ctx.ErrorToken(src, "invalid %s: %v", r.Name, err)
		}
		tok.Value = v
	}
	return tok
}
