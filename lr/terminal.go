package lr

import (
	"unicode"
	"unicode/utf8"
)

// TokenCategory classifies tokens (and the terminals producing them).
type TokenCategory int8

// Token categories.
const (
	CategoryContent   TokenCategory = iota // regular input for the parser
	CategoryOutline                        // line breaks, indentation
	CategoryComment                        // comments
	CategoryDirective                      // compiler directives, pragmas
	CategoryError                          // scanner errors
)

func (c TokenCategory) String() string {
	switch c {
	case CategoryContent:
		return "Content"
	case CategoryOutline:
		return "Outline"
	case CategoryComment:
		return "Comment"
	case CategoryDirective:
		return "Directive"
	}
	return "Error"
}

// Terminal priorities. If more than one terminal matches input of the same
// length, the terminal with higher priority wins.
const (
	LowestPriority        = -1000
	NormalPriority        = 0
	ReservedWordsPriority = 900
	HighestPriority       = 1000
)

// Terminal is the interface for all terms the scanner produces tokens for.
type Terminal interface {
	BnfTerm
	Terminal() *TerminalBase
	// Firsts returns the prefixes a match may start with. A nil result
	// signals that the terminal has to be tried for every input character.
	Firsts() []string
	// TryMatch tries to recognize a token at the current position of src.
	// It returns nil if there is no match, or an error token if the
	// input matched but is invalid.
	TryMatch(ctx *ScanContext, src *SourceStream) *Token
}

// TerminalInitializer is implemented by terminals which need to check their
// configuration when a grammar is analysed.
type TerminalInitializer interface {
	Init(gd *GrammarData, errs *GrammarErrorList)
}

// TerminalBase is the data common to all terminals.
type TerminalBase struct {
	BaseTerm
	Category       TokenCategory
	Priority       int
	MultilineIndex int // 1-based index into the scanner's multiline terminals; 0 if single-line
	// ValidateToken, if set, is called for every token the terminal produced.
	// It may return a replacement token or nil to reject the match.
	ValidateToken func(ctx *ScanContext, tok *Token) *Token
}

// MakeTerminalBase creates the common part of a terminal.
func MakeTerminalBase(name string, cat TokenCategory, flags ...TermFlags) TerminalBase {
	return TerminalBase{
		BaseTerm: MakeBaseTerm(name, flags...),
		Category: cat,
		Priority: NormalPriority,
	}
}

// Terminal is part of interface Terminal.
func (tb *TerminalBase) Terminal() *TerminalBase {
	return tb
}

// --- Key terms ------------------------------------------------------------

// KeyTerm is a terminal for a fixed symbol, like "+", "(" or "while".
type KeyTerm struct {
	TerminalBase
	Text    string
	PairFor *KeyTerm // counterpart of a brace
}

var _ Terminal = (*KeyTerm)(nil)

// NewKeyTerm creates a key term. Clients usually get key terms from
// a grammar builder (GrammarBuilder.Key), which caches them per grammar.
//
// Key terms have low priority, so that identifiers get the first chance
// to match a word like "while". Identifier tokens are tagged with the key
// term they spell, and the parser tries the key term first. Reserved words
// have high priority instead and always win against identifiers.
func NewKeyTerm(text string) *KeyTerm {
	k := &KeyTerm{
		TerminalBase: MakeTerminalBase(text, CategoryContent),
		Text:         text,
	}
	k.Priority = LowestPriority + len(text) // longer symbols first
	if isWordSymbol(text) {
		k.SetFlag(IsKeyword)
	}
	return k
}

// Firsts is part of interface Terminal.
func (k *KeyTerm) Firsts() []string {
	return []string{k.Text}
}

// TryMatch is part of interface Terminal.
func (k *KeyTerm) TryMatch(ctx *ScanContext, src *SourceStream) *Token {
	if k.Text == "" || !src.MatchSymbol(k.Text, ctx.CaseSensitive()) {
		return nil
	}
	src.SetPreviewPosition(src.PreviewPosition() + len(k.Text))
	if k.Is(IsKeyword) && IsIdentifierRune(src.PreviewChar()) {
		return nil // "if" must not match the prefix of "iffy"
	}
	return src.CreateToken(k, k.Text)
}

// Init is part of interface TerminalInitializer.
func (k *KeyTerm) Init(gd *GrammarData, errs *GrammarErrorList) {
	if k.Text == "" {
		errs.Add(LevelError, nil, "key term %q has an empty symbol", k.Name)
	}
}

// IsIdentifierRune is true for letters, digits and underscore.
func IsIdentifierRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isWordSymbol(s string) bool {
	if s == "" {
		return false
	}
	first, _ := utf8.DecodeRuneInString(s)
	last, _ := utf8.DecodeLastRuneInString(s)
	return IsIdentifierRune(first) && IsIdentifierRune(last)
}

// --- Special terminals ----------------------------------------------------

// specialTerminal is used for EOF and the syntax error pseudo-terminal.
// The scanner never tries to match them.
type specialTerminal struct {
	TerminalBase
}

func newSpecialTerminal(name string, cat TokenCategory, flags ...TermFlags) *specialTerminal {
	t := &specialTerminal{TerminalBase: MakeTerminalBase(name, cat, flags...)}
	t.SetFlag(IsNonScanner)
	return t
}

func (t *specialTerminal) Firsts() []string {
	return nil
}

func (t *specialTerminal) TryMatch(ctx *ScanContext, src *SourceStream) *Token {
	return nil
}
