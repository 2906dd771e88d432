package lr

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// Grammar is a context-free grammar composed of BNF terms, together with
// some language-level settings. Grammars are created by a GrammarBuilder.
type Grammar struct {
	Name                string
	Root                *NonTerminal
	CaseSensitive       bool
	Delimiters          string // characters which terminate numbers and key words
	NonGrammarTerminals []Terminal
	EOF                 Terminal
	SyntaxError         Terminal
	keyTerms            map[string]*KeyTerm
	nonTerminals        []*NonTerminal
}

// DefaultDelimiters is the default set of delimiter characters.
const DefaultDelimiters = ",;[](){}"

// KeyTerm looks up the key term for a symbol. Returns nil if no key term
// for text is part of the grammar.
func (g *Grammar) KeyTerm(text string) *KeyTerm {
	return g.keyTerms[g.keyTermKey(text)]
}

// KeyTerms returns all key terms of the grammar, sorted by symbol.
func (g *Grammar) KeyTerms() []*KeyTerm {
	r := make([]*KeyTerm, 0, len(g.keyTerms))
	for _, k := range g.keyTerms {
		r = append(r, k)
	}
	sort.Slice(r, func(i, j int) bool { return r[i].Text < r[j].Text })
	return r
}

func (g *Grammar) keyTermKey(text string) string {
	if g.CaseSensitive {
		return text
	}
	return strings.ToLower(text)
}

// IsWhitespaceOrDelimiter is true for white space, delimiter characters
// and the end of input.
func (g *Grammar) IsWhitespaceOrDelimiter(r rune) bool {
	if r == EOFChar || unicode.IsSpace(r) {
		return true
	}
	return strings.ContainsRune(g.Delimiters, r)
}

// NonTerminals returns the non-terminals created by the grammar builder.
func (g *Grammar) NonTerminals() []*NonTerminal {
	return g.nonTerminals
}

func (g *Grammar) String() string {
	return fmt.Sprintf("<grammar %s>", g.Name)
}

// --- Grammar Builder ------------------------------------------------------

// GrammarOption configures a grammar.
type GrammarOption func(*Grammar)

// CaseSensitive sets the case sensitivity of key terms (default true).
func CaseSensitive(b bool) GrammarOption {
	return func(g *Grammar) {
		g.CaseSensitive = b
	}
}

// WithDelimiters replaces the default set of delimiter characters.
func WithDelimiters(delims string) GrammarOption {
	return func(g *Grammar) {
		g.Delimiters = delims
	}
}

// GrammarBuilder is a builder type to construct grammars. Builder methods
// record problems and GrammarBuilder.Grammar reports them. A builder is
// not safe for concurrent use.
type GrammarBuilder struct {
	g    *Grammar
	errs []string
}

// NewGrammarBuilder gets a new grammar builder, given the name of the grammar
// to build.
func NewGrammarBuilder(name string, opts ...GrammarOption) *GrammarBuilder {
	g := &Grammar{
		Name:          name,
		CaseSensitive: true,
		Delimiters:    DefaultDelimiters,
		keyTerms:      make(map[string]*KeyTerm),
	}
	g.EOF = newSpecialTerminal("EOF", CategoryContent)
	g.SyntaxError = newSpecialTerminal("SyntaxError", CategoryError, IsError)
	for _, opt := range opts {
		opt(g)
	}
	return &GrammarBuilder{g: g}
}

func (b *GrammarBuilder) errorf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	tracer().Errorf("grammar %s: %s", b.g.Name, msg)
	b.errs = append(b.errs, msg)
}

// NonTerminal creates a new non-terminal.
func (b *GrammarBuilder) NonTerminal(name string, flags ...TermFlags) *NonTerminal {
	nt := NewNonTerminal(name, flags...)
	b.g.nonTerminals = append(b.g.nonTerminals, nt)
	return nt
}

// Key returns the key term for a symbol, creating it if necessary.
// Key terms are unique per grammar and symbol.
func (b *GrammarBuilder) Key(text string) *KeyTerm {
	key := b.g.keyTermKey(text)
	if k, ok := b.g.keyTerms[key]; ok {
		return k
	}
	k := NewKeyTerm(text)
	b.g.keyTerms[key] = k
	return k
}

// EOF returns the end-of-input terminal.
func (b *GrammarBuilder) EOF() Terminal {
	return b.g.EOF
}

// SyntaxError returns the pseudo-terminal used in error productions:
//
//    b.Rule(stmt).Is(assignment).Or(b.SyntaxError(), ";")
//
func (b *GrammarBuilder) SyntaxError() Terminal {
	return b.g.SyntaxError
}

// term converts a rule operand to a term. Strings denote key terms.
func (b *GrammarBuilder) term(context string, operand interface{}) BnfTerm {
	switch x := operand.(type) {
	case string:
		return b.Key(x)
	case *NonTerminal:
		if x == nil {
			break
		}
		return x
	case BnfTerm:
		if x == nil {
			break
		}
		return x
	default:
		if operand != nil {
			b.errorf("%s: unsupported operand type %T", context, operand)
			return nil
		}
	}
	b.errorf("%s: nil operand", context)
	return nil
}

func (b *GrammarBuilder) sequence(context string, operands []interface{}) []BnfTerm {
	seq := make([]BnfTerm, 0, len(operands))
	for _, op := range operands {
		if t := b.term(context, op); t != nil {
			seq = append(seq, t)
		}
	}
	return seq
}

// RuleBuilder adds alternatives to a non-terminal's rule.
type RuleBuilder struct {
	b  *GrammarBuilder
	nt *NonTerminal
}

// Rule starts (or continues) the rule for non-terminal nt.
func (b *GrammarBuilder) Rule(nt *NonTerminal) *RuleBuilder {
	if nt == nil {
		b.errorf("rule for nil non-terminal")
		nt = NewNonTerminal("<nil>")
	}
	if nt.Rule == nil {
		nt.Rule = &BnfExpression{}
	}
	return &RuleBuilder{b: b, nt: nt}
}

// Is adds an alternative. Operands may be terms, grammar hints or strings
// (for key terms).
func (rb *RuleBuilder) Is(operands ...interface{}) *RuleBuilder {
	seq := rb.b.sequence("rule for "+rb.nt.Name, operands)
	rb.nt.Rule.Add(seq...)
	return rb
}

// Or adds another alternative. It is a synonym for Is.
func (rb *RuleBuilder) Or(operands ...interface{}) *RuleBuilder {
	return rb.Is(operands...)
}

// Empty adds an epsilon alternative.
func (rb *RuleBuilder) Empty() *RuleBuilder {
	rb.nt.Rule.Add()
	return rb
}

// Plus creates a rule for a list of one or more members, optionally separated
// by a delimiter (which may be nil):
//
//    list ➞ member | list delimiter member
//
func (b *GrammarBuilder) Plus(list *NonTerminal, delimiter interface{}, member interface{}) {
	m := b.term("list "+list.Name, member)
	if m == nil {
		return
	}
	list.SetFlag(IsList)
	rb := b.Rule(list).Is(m)
	if delimiter == nil {
		rb.Or(list, m)
	} else if d := b.term("list "+list.Name, delimiter); d != nil {
		rb.Or(list, d, m)
	}
}

// Star creates a rule for a list of zero or more members. With a delimiter
// present, a helper list non-terminal is introduced so that lists cannot
// start with a delimiter:
//
//    list ➞ ε | list member                 (no delimiter)
//    list ➞ ε | list+                       (with delimiter)
//    list+ ➞ member | list+ delimiter member
//
func (b *GrammarBuilder) Star(list *NonTerminal, delimiter interface{}, member interface{}) {
	m := b.term("list "+list.Name, member)
	if m == nil {
		return
	}
	if delimiter == nil {
		list.SetFlag(IsList)
		b.Rule(list).Empty().Or(list, m)
		return
	}
	plus := b.NonTerminal(m.String() + "+")
	b.Plus(plus, delimiter, m)
	list.SetFlag(IsListContainer)
	b.Rule(list).Empty().Or(plus)
}

// Operators registers terms as operators with a precedence (higher binds
// tighter) and an associativity.
func (b *GrammarBuilder) Operators(precedence int, assoc Associativity, ops ...interface{}) {
	for _, op := range ops {
		if t := b.term("operators", op); t != nil {
			bt := t.Base()
			bt.Precedence = precedence
			bt.Associativity = assoc
			bt.SetFlag(IsOperator)
		}
	}
}

// Punctuation marks terms as punctuation. Punctuation does not show up in
// parse trees.
func (b *GrammarBuilder) Punctuation(terms ...interface{}) {
	for _, x := range terms {
		if t := b.term("punctuation", x); t != nil {
			t.Base().SetFlag(IsPunctuation)
		}
	}
}

// Transient marks non-terminals as transient. Transient non-terminals are
// replaced in the parse tree by their single meaningful child.
func (b *GrammarBuilder) Transient(nts ...*NonTerminal) {
	for _, nt := range nts {
		nt.SetFlag(IsTransient)
	}
}

// ReservedWords marks key terms as reserved words. Reserved words are
// preferred over other terminals by the scanner.
func (b *GrammarBuilder) ReservedWords(words ...string) {
	for _, w := range words {
		k := b.Key(w)
		k.SetFlag(IsReservedWord)
		k.Priority = ReservedWordsPriority + len(w)
	}
}

// Brackets registers a pair of braces. The parser checks that braces are
// properly nested.
func (b *GrammarBuilder) Brackets(open, close string) {
	o, c := b.Key(open), b.Key(close)
	o.SetFlag(IsOpenBrace)
	c.SetFlag(IsCloseBrace)
	o.PairFor = c
	c.PairFor = o
}

// NonGrammar registers terminals which are scanned but not fed into the
// parser, e.g. comments.
func (b *GrammarBuilder) NonGrammar(terms ...Terminal) {
	for _, t := range terms {
		t.Base().SetFlag(IsNonGrammar)
		b.g.NonGrammarTerminals = append(b.g.NonGrammarTerminals, t)
	}
}

// Root sets the start symbol of the grammar.
func (b *GrammarBuilder) Root(nt *NonTerminal) {
	if b.g.Root != nil && b.g.Root != nt {
		b.errorf("duplicate start symbol %s, root already set to %s", nt, b.g.Root)
		return
	}
	b.g.Root = nt
}

// Grammar returns the grammar built so far, together with an error if the
// builder recorded problems.
func (b *GrammarBuilder) Grammar() (*Grammar, error) {
	if b.g.Root == nil {
		b.errorf("no root non-terminal set")
	}
	if len(b.errs) > 0 {
		return b.g, fmt.Errorf("grammar %s: %s", b.g.Name, strings.Join(b.errs, "; "))
	}
	return b.g, nil
}
