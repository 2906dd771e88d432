package terminals

import (
	"strings"
	"unicode"

	"github.com/npillmayer/parsekit/lr"
)

// Scan flags of identifiers.
const (
	IdentifierIsNotKeyword ScanFlags = 1 << iota // e.g. "@if" in C#
)

// IdentifierTerminal recognizes identifiers. By default, identifiers start
// with a Unicode letter or underscore, followed by letters, digits or
// underscores.
//
// If an identifier spells a key term of the grammar, the token is tagged
// with the key term (lr.Token.KeyTerm). For reserved words, the key term
// replaces the identifier terminal.
type IdentifierTerminal struct {
	CompoundTerminal
	FirstChars string // if set, restricts the first character
	Chars      string // if set, additional characters allowed after the first one
}

var _ lr.Terminal = (*IdentifierTerminal)(nil)

// NewIdentifier creates an identifier terminal.
func NewIdentifier(name string) *IdentifierTerminal {
	id := &IdentifierTerminal{}
	id.CompoundTerminal = makeCompoundTerminal(name, id)
	return id
}

// Firsts is part of interface lr.Terminal. Without explicit first
// characters, identifiers are tried for every input character.
func (id *IdentifierTerminal) Firsts() []string {
	if id.FirstChars == "" {
		return nil
	}
	return append(id.prefixFirsts(), strings.Split(id.FirstChars, "")...)
}

// TryMatch is part of interface lr.Terminal.
func (id *IdentifierTerminal) TryMatch(ctx *lr.ScanContext, src *lr.SourceStream) *lr.Token {
	return id.match(ctx, src)
}

func (id *IdentifierTerminal) isFirst(r rune) bool {
	if id.FirstChars != "" {
		return strings.ContainsRune(id.FirstChars, r)
	}
	return r == '_' || unicode.IsLetter(r)
}

func (id *IdentifierTerminal) isChar(r rune) bool {
	return lr.IsIdentifierRune(r) || (id.Chars != "" && strings.ContainsRune(id.Chars, r))
}

// quickParse reads identifiers consisting of plain ASCII characters up to
// a delimiter.
func (id *IdentifierTerminal) quickParse(ctx *lr.ScanContext, src *lr.SourceStream) *lr.Token {
	if len(id.Prefixes) > 0 || len(id.Suffixes) > 0 {
		return nil
	}
	if r := src.PreviewChar(); r >= unicode.MaxASCII || !id.isFirst(r) {
		return nil
	}
	for {
		src.Advance()
		r := src.PreviewChar()
		if ctx.IsWhitespaceOrDelimiter(r) {
			break
		}
		if r >= unicode.MaxASCII || !id.isChar(r) {
			return nil
		}
	}
	d := &TokenDetails{Body: src.PreviewText()}
	d.Value = d.Body
	return id.createToken(ctx, src, d)
}

func (id *IdentifierTerminal) readBody(ctx *lr.ScanContext, src *lr.SourceStream, d *TokenDetails) bool {
	start := src.PreviewPosition()
	if !id.isFirst(src.PreviewChar()) {
		return false
	}
	src.Advance()
	for id.isChar(src.PreviewChar()) {
		src.Advance()
	}
	d.Body = src.Text()[start:src.PreviewPosition()]
	return true
}

func (id *IdentifierTerminal) convertValue(ctx *lr.ScanContext, src *lr.SourceStream, d *TokenDetails) bool {
	d.Value = d.Body
	return true
}

func (id *IdentifierTerminal) createToken(ctx *lr.ScanContext, src *lr.SourceStream, d *TokenDetails) *lr.Token {
	tok := id.CompoundTerminal.createToken(ctx, src, d)
	if d.Flags.IsSet(IdentifierIsNotKeyword) || ctx.Grammar == nil {
		return tok
	}
	if k := ctx.Grammar.KeyTerm(d.Body); k != nil {
		tok.KeyTerm = k
		if k.Is(lr.IsReservedWord) {
			tok.SetTerminal(k)
		}
	}
	return tok
}
