/*
Package ebnf loads grammars written in EBNF, as understood by package
golang.org/x/exp/ebnf (the notation of the Go language specification):

    Program    = Statement { Statement } .
    Statement  = ident "=" Expr ";" .
    Expr       = Term { "+" Term } .
    Term       = ident | number .
    ident      = letter { letter | digit } .
    letter     = "a" … "z" .
    digit      = "0" … "9" .
    number     = digit { digit } .

Productions with upper case names become non-terminals. Options, groups and
repetitions get helper non-terminals, which are transient or lists,
respectively, and therefore do not clutter the parse tree. Tokens within
non-terminal productions become key terms.

Productions with lower case names are lexical: they become regex terminals,
unless a terminal has been supplied for the name with option WithTerminal.
Supplied terminals need not be defined in the EBNF source. Grammars with
keywords should supply an identifier terminal (see lr/terminals), which
lets the parser recognize keywords spelled like identifiers.

The loader returns a grammar builder, so clients are able to declare
operators, punctuation etc. before creating the grammar.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package ebnf

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/npillmayer/parsekit/lr"
	"github.com/npillmayer/parsekit/lr/terminals"
	"github.com/npillmayer/schuko/tracing"
	xebnf "golang.org/x/exp/ebnf"
)

// tracer traces with key 'parsekit.lr'.
func tracer() tracing.Trace {
	return tracing.Select("parsekit.lr")
}

// Option configures the loader.
type Option func(l *loader)

// WithTerminal supplies the terminal for a lexical production.
func WithTerminal(name string, t lr.Terminal) Option {
	return func(l *loader) {
		l.terminals[name] = t
	}
}

// GrammarOptions passes options to the grammar builder.
func GrammarOptions(opts ...lr.GrammarOption) Option {
	return func(l *loader) {
		l.grammarOpts = append(l.grammarOpts, opts...)
	}
}

type loader struct {
	g           xebnf.Grammar
	b           *lr.GrammarBuilder
	terminals   map[string]lr.Terminal
	nonterms    map[string]*lr.NonTerminal
	grammarOpts []lr.GrammarOption
	helpers     int
	inlining    map[string]bool // lexical productions being translated
	err         error
}

// Load reads an EBNF grammar from r and translates it, starting at
// production start. fileName is used for error messages.
func Load(r io.Reader, fileName, start string, opts ...Option) (*lr.GrammarBuilder, error) {
	g, err := xebnf.Parse(fileName, r)
	if err != nil {
		return nil, err
	}
	l := &loader{
		g:         g,
		terminals: make(map[string]lr.Terminal),
		nonterms:  make(map[string]*lr.NonTerminal),
		inlining:  make(map[string]bool),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.addSuppliedTerminals(start)
	if err = xebnf.Verify(g, start); err != nil {
		return nil, err
	}
	if isLexical(start) {
		return nil, fmt.Errorf("%s: start production %s is lexical", fileName, start)
	}
	l.b = lr.NewGrammarBuilder(fileName, l.grammarOpts...)
	root := l.symbol(start)
	if l.err != nil {
		return nil, l.err
	}
	l.b.Root(root.(*lr.NonTerminal))
	tracer().Infof("loaded EBNF grammar %s: %d non-terminals, %d helpers", fileName,
		len(l.nonterms), l.helpers)
	return l.b, nil
}

// LoadGrammar is Load followed by creating the grammar.
func LoadGrammar(r io.Reader, fileName, start string, opts ...Option) (*lr.Grammar, error) {
	b, err := Load(r, fileName, start, opts...)
	if err != nil {
		return nil, err
	}
	return b.Grammar()
}

// addSuppliedTerminals adds stub productions for supplied terminals which
// are referenced, but not defined in the source. Otherwise Verify would
// complain about missing productions.
func (l *loader) addSuppliedTerminals(start string) {
	seen := make(map[string]bool)
	var walk func(e xebnf.Expression)
	walk = func(e xebnf.Expression) {
		switch x := e.(type) {
		case xebnf.Alternative:
			for _, a := range x {
				walk(a)
			}
		case xebnf.Sequence:
			for _, s := range x {
				walk(s)
			}
		case *xebnf.Group:
			walk(x.Body)
		case *xebnf.Option:
			walk(x.Body)
		case *xebnf.Repetition:
			walk(x.Body)
		case *xebnf.Name:
			if seen[x.String] {
				return
			}
			seen[x.String] = true
			if p, ok := l.g[x.String]; ok {
				walk(p.Expr)
			} else if _, ok := l.terminals[x.String]; ok {
				l.g[x.String] = &xebnf.Production{
					Name: &xebnf.Name{StringPos: x.StringPos, String: x.String},
					Expr: &xebnf.Token{StringPos: x.StringPos, String: x.String},
				}
			}
		}
	}
	walk(&xebnf.Name{String: start})
}

func isLexical(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return !unicode.IsUpper(r)
}

func (l *loader) errorf(format string, args ...interface{}) {
	if l.err == nil {
		l.err = fmt.Errorf(format, args...)
	}
}

// symbol returns the term for a production name.
func (l *loader) symbol(name string) lr.BnfTerm {
	if t, ok := l.terminals[name]; ok {
		return t
	}
	if nt, ok := l.nonterms[name]; ok {
		return nt
	}
	p := l.g[name]
	if p == nil {
		l.errorf("undefined production %s", name)
		return nil
	}
	if isLexical(name) {
		pattern := l.regex(p.Expr)
		tracer().Debugf("lexical production %s = /%s/", name, pattern)
		t := terminals.NewRegexTerminal(name, pattern)
		l.terminals[name] = t
		return t
	}
	nt := l.b.NonTerminal(name)
	l.nonterms[name] = nt
	l.rule(nt, p.Expr)
	return nt
}

// rule adds the alternatives of e to the rule of nt.
func (l *loader) rule(nt *lr.NonTerminal, e xebnf.Expression) {
	rb := l.b.Rule(nt)
	alts, ok := e.(xebnf.Alternative)
	if !ok {
		alts = xebnf.Alternative{e}
	}
	for _, alt := range alts {
		seq := l.sequence(alt)
		if len(seq) == 0 {
			rb.Empty()
		} else {
			rb.Is(seq...)
		}
	}
}

func (l *loader) sequence(e xebnf.Expression) []interface{} {
	switch x := e.(type) {
	case nil:
		return nil
	case xebnf.Sequence:
		var seq []interface{}
		for _, s := range x {
			seq = append(seq, l.sequence(s)...)
		}
		return seq
	case *xebnf.Group:
		if _, ok := x.Body.(xebnf.Alternative); !ok {
			return l.sequence(x.Body)
		}
	}
	if t := l.term(e); t != nil {
		return []interface{}{t}
	}
	return nil
}

func (l *loader) helper(kind string) *lr.NonTerminal {
	l.helpers++
	return l.b.NonTerminal(fmt.Sprintf("%s#%d", kind, l.helpers))
}

func (l *loader) term(e xebnf.Expression) lr.BnfTerm {
	switch x := e.(type) {
	case *xebnf.Name:
		return l.symbol(x.String)
	case *xebnf.Token:
		return l.b.Key(x.String)
	case *xebnf.Group:
		h := l.helper("group")
		l.rule(h, x.Body)
		l.b.Transient(h)
		return h
	case xebnf.Alternative:
		h := l.helper("alt")
		l.rule(h, x)
		l.b.Transient(h)
		return h
	case xebnf.Sequence:
		h := l.helper("seq")
		l.rule(h, x)
		l.b.Transient(h)
		return h
	case *xebnf.Option:
		h := l.helper("opt")
		l.rule(h, x.Body)
		l.b.Rule(h).Empty()
		l.b.Transient(h)
		return h
	case *xebnf.Repetition:
		member := l.term(x.Body)
		if member == nil {
			return nil
		}
		h := l.helper("rep")
		l.b.Star(h, nil, member)
		return h
	case *xebnf.Range:
		l.errorf("%s: range in non-lexical production", x.Pos())
		return nil
	}
	l.errorf("unsupported EBNF expression %T", e)
	return nil
}

// --- Lexical productions ------------------------------------------------

// regex translates a lexical production into a lexmachine pattern.
func (l *loader) regex(e xebnf.Expression) string {
	var b strings.Builder
	l.writeRegex(&b, e)
	return b.String()
}

func (l *loader) writeRegex(b *strings.Builder, e xebnf.Expression) {
	switch x := e.(type) {
	case nil:
	case xebnf.Alternative:
		b.WriteString("(")
		for i, a := range x {
			if i > 0 {
				b.WriteString("|")
			}
			l.writeRegex(b, a)
		}
		b.WriteString(")")
	case xebnf.Sequence:
		for _, s := range x {
			l.writeRegex(b, s)
		}
	case *xebnf.Group:
		b.WriteString("(")
		l.writeRegex(b, x.Body)
		b.WriteString(")")
	case *xebnf.Option:
		b.WriteString("(")
		l.writeRegex(b, x.Body)
		b.WriteString(")?")
	case *xebnf.Repetition:
		b.WriteString("(")
		l.writeRegex(b, x.Body)
		b.WriteString(")*")
	case *xebnf.Token:
		for _, r := range x.String {
			b.WriteString(quoteRune(r))
		}
	case *xebnf.Range:
		fmt.Fprintf(b, "[%s-%s]", quoteClassRune(x.Begin.String), quoteClassRune(x.End.String))
	case *xebnf.Name:
		p := l.g[x.String]
		if p == nil {
			l.errorf("undefined production %s", x.String)
			return
		}
		if l.inlining[x.String] {
			l.errorf("%s: lexical production %s is recursive", x.Pos(), x.String)
			return
		}
		l.inlining[x.String] = true
		b.WriteString("(")
		l.writeRegex(b, p.Expr)
		b.WriteString(")")
		delete(l.inlining, x.String)
	default:
		l.errorf("unsupported EBNF expression %T", e)
	}
}

func quoteRune(r rune) string {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return string(r)
	}
	return "[" + quoteClassRune(string(r)) + "]"
}

func quoteClassRune(s string) string {
	switch s {
	case "]", "\\", "^", "-":
		return "\\" + s
	}
	return s
}
