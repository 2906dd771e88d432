package scanner

import (
	"strings"

	"github.com/npillmayer/parsekit"
	"github.com/npillmayer/parsekit/lr"
)

// LineScanner scans input line by line, as editors do for syntax
// highlighting. Tokens spanning lines are reported as partial tokens for
// every line they touch; the scanner state after a line (see State)
// records how to continue.
//
// Besides the tokens per line, a line scanner collects the complete token
// stream, with multi-line tokens re-assembled (see Tokens).
type LineScanner struct {
	scanner *Scanner
	line    int
	pending []*lr.Token // pieces of a multi-line token
	tokens  []*lr.Token
}

// NewLineScanner creates a line scanner.
func NewLineScanner(data *Data, opts ...Option) *LineScanner {
	opts = append(opts, Partial(true))
	return &LineScanner{scanner: New(data, opts...)}
}

// State returns the scanner state at the end of the last line scanned.
func (ls *LineScanner) State() lr.ScannerState {
	return ls.scanner.State()
}

// SetState sets the scanner state for the next line. Editors store the
// state for every line and restore it when re-scanning a line.
func (ls *LineScanner) SetState(state lr.ScannerState) {
	ls.scanner.SetState(state)
}

// ScanLine scans a single line of input, without line terminator, and
// returns its tokens. The last token may be a partial token.
func (ls *LineScanner) ScanLine(line string) []*lr.Token {
	state := ls.scanner.State()
	ls.scanner.SetSource(line)
	ls.scanner.SetState(state)
	ls.scanner.Source().SetLocation(parsekit.Location{Line: ls.line})
	ls.line++
	var tokens []*lr.Token
	if line == "" && state.IsContinuation() {
		if term := ls.scanner.data.MultilineTerminal(state.TerminalIndex()); term != nil {
			empty := &lr.Token{Terminal: term, Location: ls.scanner.Source().Location()}
			empty.Flags |= lr.TokenIsIncomplete
			ls.collect(empty)
			return []*lr.Token{empty}
		}
	}
	for {
		continues := ls.scanner.State().IsContinuation()
		tok := ls.scanner.NextToken(nil)
		if tok.Terminal == ls.eof() {
			break
		}
		tokens = append(tokens, tok)
		if continues || tok.IsIncomplete() {
			ls.collect(tok)
		} else {
			ls.tokens = append(ls.tokens, tok)
		}
	}
	tracer().Debugf("line %d: %d tokens, state %s", ls.line, len(tokens), ls.State())
	return tokens
}

func (ls *LineScanner) eof() lr.Terminal {
	if ls.scanner.ctx.Grammar == nil {
		return nil
	}
	return ls.scanner.ctx.Grammar.EOF
}

// collect gathers the pieces of a multi-line token. The completed token is
// re-scanned from the joined text of its pieces.
func (ls *LineScanner) collect(tok *lr.Token) {
	ls.pending = append(ls.pending, tok)
	if tok.IsIncomplete() {
		return
	}
	pieces := ls.pending
	ls.pending = nil
	if tok.IsError() {
		ls.tokens = append(ls.tokens, tok)
		return
	}
	texts := make([]string, len(pieces))
	for i, p := range pieces {
		texts[i] = p.Text
	}
	joined := strings.Join(texts, "\n")
	ctx := &lr.ScanContext{Grammar: ls.scanner.ctx.Grammar}
	src := lr.NewSourceStream(joined, ls.scanner.tabWidth)
	full := tok.Terminal.TryMatch(ctx, src)
	if full == nil || full.Length() != len(joined) {
		tracer().Errorf("cannot re-assemble multi-line token %q", joined)
		full = &lr.Token{Terminal: tok.Terminal, Text: joined, Value: joined}
	}
	full.Location = pieces[0].Location
	ls.tokens = append(ls.tokens, full)
}

// Tokens returns all complete tokens scanned so far. Multi-line tokens
// are re-assembled into a single token, located at the first line.
func (ls *LineScanner) Tokens() []*lr.Token {
	return ls.tokens
}
