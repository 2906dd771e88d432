/*
Package parser provides an LALR(1) parser driver. Clients have to use
package lr/language to prepare a language from a grammar. The parser
utilizes the parser tables of the language to create a parse tree for a
given input, reading tokens from a scanner of package lr/scanner.

The main focus for this implementation is adaptability and on-the-fly usage.
Clients are able to construct the parse tables from a grammar and use the
parser directly, without a code-generation or compile step.

Usage

Clients construct a grammar with a grammar builder, build a language from
it and parse some input:

	b := lr.NewGrammarBuilder("Signed Variables Grammar")
	v, sign := b.NonTerminal("Var"), b.NonTerminal("Sign")
	b.Rule(v).Is(sign, terminals.NewIdentifier("id"))  // Var  ➞ Sign id
	b.Rule(sign).Is("+").Or("-").Empty()                // Sign ➞ + | - | ε
	b.Root(v)
	g, err := b.Grammar()
	...
	lang, err := language.Build(g)
	...
	p := parser.New(lang)
	tree := p.Parse("+a", "input")

The parse tree carries error messages, if any. On syntax errors the parser
tries to recover by means of error productions, i.e. productions containing
the grammar's SyntaxError pseudo-terminal:

	b.Rule(stmt).Is(assignment, ";").Or(b.SyntaxError(), ";")

Parse tree construction may be influenced by flagging terms: punctuation
is dropped from the tree, transient non-terminals are replaced by their
single child, and list non-terminals collect their members in a single
node.

A parser is not safe for concurrent use, but any number of parsers may
share a language.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package parser

import (
	"fmt"
	"strings"
	"time"

	"github.com/npillmayer/parsekit"
	"github.com/npillmayer/parsekit/lr"
	"github.com/npillmayer/parsekit/lr/language"
	"github.com/npillmayer/parsekit/lr/scanner"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'parsekit.parser'.
func tracer() tracing.Trace {
	return tracing.Select("parsekit.parser")
}

// Status is the status of a parser.
type Status int8

// Parser states.
const (
	Preparing Status = iota
	Parsing
	Recovering
	Accepted
	Error
)

func (s Status) String() string {
	return [...]string{"preparing", "parsing", "recovering", "accepted", "error"}[s]
}

// DefaultMaxErrors is the default for the maximum number of error messages.
const DefaultMaxErrors = 20

// Parser is an LALR(1) parser. Create one with New.
type Parser struct {
	lang      *language.Language
	data      *lr.ParserData
	scanner   *scanner.Scanner
	maxErrors int
	tracing   bool
	scanOpts  []scanner.Option
	// per-parse state
	status   Status
	tree     *lr.ParseTree
	stack    []*lr.ParseTreeNode // parser stack, nodes carry their state
	input    *lr.ParseTreeNode   // current input, nil if a token has to be read
	comments []*lr.Token         // comments preceding the next input
	braces   []*lr.Token         // open braces
	errCount int
	steps    []Step
}

// Option configures a parser.
type Option func(p *Parser)

// MaxErrors caps the number of error messages. When the cap is reached,
// parsing stops.
func MaxErrors(n int) Option {
	return func(p *Parser) {
		p.maxErrors = n
	}
}

// Trace lets the parser record the actions it executes (see Steps).
func Trace(b bool) Option {
	return func(p *Parser) {
		p.tracing = b
	}
}

// ScannerOptions passes options to the scanner.
func ScannerOptions(opts ...scanner.Option) Option {
	return func(p *Parser) {
		p.scanOpts = append(p.scanOpts, opts...)
	}
}

// New creates a parser for a language.
func New(lang *language.Language, opts ...Option) *Parser {
	p := &Parser{
		lang:      lang,
		data:      lang.ParserData(),
		maxErrors: DefaultMaxErrors,
	}
	for _, opt := range opts {
		opt(p)
	}
	if lang.ScannerData != nil {
		p.scanner = scanner.New(lang.ScannerData, p.scanOpts...)
	}
	return p
}

// Status returns the status of the parser.
func (p *Parser) Status() Status {
	return p.status
}

// Steps returns the actions executed during the last parse, if tracing has
// been enabled.
func (p *Parser) Steps() []Step {
	return p.steps
}

// Parse parses a source text. fileName is used for messages only. The
// resulting tree carries the tokens and all messages. If the input has
// been accepted, the tree's root is set, even if there have been errors
// the parser recovered from.
func (p *Parser) Parse(source, fileName string) *lr.ParseTree {
	tracer().Debugf("~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~")
	p.reset(source, fileName)
	if !p.lang.CanParse() {
		p.addMessage(parsekit.Error, parsekit.Location{}, "language %s cannot parse: %v",
			p.lang.Grammar, p.lang.Errors.AsError(lr.LevelError))
		p.status = Error
		p.tree.Status = lr.TreeError
		return p.tree
	}
	start := time.Now()
	p.scanner.SetSource(source)
	p.stack = append(p.stack, &lr.ParseTreeNode{
		Term:  p.lang.GrammarData.AugmentedRoot,
		State: p.data.InitialState,
	})
	p.status = Parsing
	for p.status == Parsing || p.status == Recovering {
		p.step()
	}
	p.tree.ParseTime = time.Since(start)
	if p.status == Accepted && !p.tree.HasErrors() {
		p.tree.Status = lr.TreeParsed
	} else {
		p.tree.Status = lr.TreeError
	}
	tracer().Infof("parsed %s: %s, %d tokens, %d messages in %s", fileName, p.status,
		len(p.tree.Tokens), len(p.tree.Messages), p.tree.ParseTime)
	return p.tree
}

func (p *Parser) reset(source, fileName string) {
	p.status = Preparing
	p.tree = lr.NewParseTree(source, fileName)
	p.stack = p.stack[:0]
	p.input = nil
	p.comments = nil
	p.braces = nil
	p.errCount = 0
	p.steps = nil
}

func (p *Parser) top() *lr.ParseTreeNode {
	return p.stack[len(p.stack)-1]
}

func (p *Parser) currentState() *lr.ParserState {
	return p.top().State
}

// step executes a single parser action.
func (p *Parser) step() {
	state := p.currentState()
	if def := state.DefaultAction; def != nil {
		// only default reductions go without looking at the input
		if _, reduce := def.(*lr.ReduceAction); !reduce && p.input == nil {
			if p.readInput(); p.status == Error {
				return
			}
		}
		p.execute(def)
		return
	}
	if p.input == nil {
		p.readInput()
	}
	action := p.findAction()
	if action == nil {
		p.syntaxError()
		return
	}
	p.execute(action)
}

// findAction looks up the action for the current input. Identifiers
// spelling a key term are parsed as the key term, if the current state has
// an action for it.
func (p *Parser) findAction() lr.ParserAction {
	state := p.currentState()
	if tok := p.input.Token; tok != nil && tok.KeyTerm != nil && lr.BnfTerm(tok.KeyTerm) != p.input.Term {
		if action := state.Actions[tok.KeyTerm]; action != nil {
			tracer().Debugf("treating %q as key term", tok.Text)
			tok.SetTerminal(tok.KeyTerm)
			p.input.Term = tok.KeyTerm
			p.input.Precedence = tok.KeyTerm.Precedence
			p.input.Associativity = tok.KeyTerm.Associativity
			return action
		}
	}
	return state.Actions[p.input.Term]
}

func (p *Parser) execute(action lr.ParserAction) {
	tracer().Debugf("%s: %v", p.currentState(), action)
	switch a := action.(type) {
	case *lr.ShiftAction:
		p.shift(a)
	case *lr.ReduceAction:
		p.reduce(a)
	case *lr.AcceptAction:
		p.accept()
	case *lr.ConditionalAction:
		if selected := a.Select(p); selected != nil {
			p.execute(selected)
		} else {
			p.syntaxError()
		}
	case *lr.CustomAction:
		p.custom(a)
	case *lr.ErrorRecoveryAction:
		p.recover()
	default:
		p.fatal("unknown parser action %v", action)
	}
}

// --- Input ----------------------------------------------------------------

// readInput fetches the next grammar token from the scanner. Comments are
// collected and attached to the next input node.
func (p *Parser) readInput() {
	for {
		tok := p.scanner.NextToken(p.currentState().ExpectedTerminals)
		p.tree.Tokens = append(p.tree.Tokens, tok)
		if tok.IsError() {
			p.addError(tok.Location, "%v", tok.Value)
		} else if tok.Terminal.Base().Is(lr.IsNonGrammar) {
			if tok.Category() == lr.CategoryComment {
				p.comments = append(p.comments, tok)
			}
			continue
		} else if tok = p.checkBraces(tok); tok.IsError() {
			p.addError(tok.Location, "%v", tok.Value)
		}
		p.input = lr.NewTokenNode(tok)
		p.input.Comments = p.comments
		p.comments = nil
		return
	}
}

// checkBraces keeps track of open braces. A closing brace without a matching
// open brace is replaced by an error token.
func (p *Parser) checkBraces(tok *lr.Token) *lr.Token {
	k, ok := tok.Terminal.(*lr.KeyTerm)
	if !ok || !k.Is(lr.IsBrace) {
		return tok
	}
	if k.Is(lr.IsOpenBrace) {
		p.braces = append(p.braces, tok)
		return tok
	}
	if n := len(p.braces); n > 0 && p.braces[n-1].Terminal == lr.Terminal(k.PairFor) {
		p.braces = p.braces[:n-1]
		return tok
	}
	return &lr.Token{
		Terminal: p.lang.Grammar.SyntaxError,
		Location: tok.Location,
		Text:     tok.Text,
		Value:    fmt.Sprintf("unmatched closing brace %q", tok.Text),
	}
}

// --- Actions --------------------------------------------------------------

func (p *Parser) shift(a *lr.ShiftAction) {
	if p.input == nil {
		p.readInput()
	}
	node := p.input
	if h := node.Term.Base().Shifting; h != nil {
		h(node)
	}
	node.State = a.NewState
	p.stack = append(p.stack, node)
	p.input = nil
	p.record(Step{Kind: lr.ShiftKind, State: a.NewState.Index, Term: node.Term, Token: node.Token})
}

func (p *Parser) reduce(a *lr.ReduceAction) {
	prod := a.Production
	n := len(prod.RValues)
	if n >= len(p.stack) {
		p.fatal("parser stack underflow reducing %s", prod)
		return
	}
	children := append([]*lr.ParseTreeNode(nil), p.stack[len(p.stack)-n:]...)
	loc := p.location()
	p.stack = p.stack[:len(p.stack)-n]
	node := buildNode(a, children, loc)
	if h := prod.LValue.Reduced; h != nil {
		h(prod, node)
	}
	p.record(Step{Kind: lr.ReduceKind, Production: prod, Location: loc})
	if !p.gotoState(node, prod.LValue) {
		return
	}
	tracer().Debugf("reduced %s, now in %s", prod, p.currentState())
}

// gotoState pushes a node for a reduced non-terminal, moving to the state
// the exposed state shifts nt to.
func (p *Parser) gotoState(node *lr.ParseTreeNode, nt *lr.NonTerminal) bool {
	shift, ok := p.currentState().Actions[nt].(*lr.ShiftAction)
	if !ok {
		p.fatal("no transition for %s in state %s", nt, p.currentState())
		return false
	}
	node.State = shift.NewState
	p.stack = append(p.stack, node)
	return true
}

func (p *Parser) accept() {
	root := p.top()
	p.tree.Root = root
	p.status = Accepted
	p.record(Step{Kind: lr.AcceptKind})
	tracer().Debugf("accepted, root = %v", root)
}

// custom executes a custom action. The action must advance the parse,
// otherwise parsing is aborted.
func (p *Parser) custom(a *lr.CustomAction) {
	depth, state, input := len(p.stack), p.currentState(), p.input
	if err := a.Method(&customContext{p}, a); err != nil {
		p.fatal("custom action failed: %v", err)
		return
	}
	if p.status == Parsing && depth == len(p.stack) && state == p.currentState() && input == p.input {
		p.fatal("custom action in state %s did not advance", state)
	}
}

type customContext struct {
	*Parser
}

// Execute is part of interface lr.CustomActionContext.
func (ctx *customContext) Execute(action lr.ParserAction) error {
	if action == nil {
		return fmt.Errorf("custom action selected no action")
	}
	ctx.Parser.execute(action)
	return nil
}

// --- Errors and recovery --------------------------------------------------

func (p *Parser) syntaxError() {
	if !p.input.IsError { // scanner errors have been reported already
		state := p.currentState()
		if p.input.Term == lr.BnfTerm(p.lang.Grammar.EOF) {
			p.addError(p.input.Span.Location, "unexpected end of input, expected %s",
				strings.Join(state.ReportedExpected(), ", "))
		} else {
			p.addError(p.input.Span.Location, "syntax error at %q, expected %s", p.input.Text(),
				strings.Join(state.ReportedExpected(), ", "))
		}
	}
	if p.status == Error {
		return
	}
	p.execute(p.data.ErrorAction)
}

// recover tries to resume parsing after a syntax error. It looks for a
// state on the stack which shifts the grammar's SyntaxError term, shifts an
// error node and skips input until an error production can be reduced.
func (p *Parser) recover() {
	p.status = Recovering
	errTerm := p.lang.Grammar.SyntaxError
	var shift *lr.ShiftAction
	for len(p.stack) > 0 {
		if s, ok := p.currentState().Actions[errTerm].(*lr.ShiftAction); ok {
			shift = s
			break
		}
		if len(p.stack) == 1 {
			break
		}
		p.stack = p.stack[:len(p.stack)-1]
	}
	if shift == nil {
		tracer().Infof("no error production applicable, cannot recover")
		p.status = Error
		return
	}
	saved := p.input
	p.input = lr.NewTokenNode(&lr.Token{
		Terminal: errTerm,
		Location: saved.Span.Location,
		Value:    "syntax error",
	})
	p.shift(shift)
	p.input = saved
	for {
		if p.input == nil {
			p.readInput()
		}
		if p.input.Term == lr.BnfTerm(p.lang.Grammar.EOF) {
			tracer().Infof("reached end of input while recovering")
			p.status = Error
			return
		}
		if reduce := p.reduceAction(); reduce != nil {
			p.reduce(reduce)
			if p.status == Recovering {
				p.status = Parsing
			}
			tracer().Debugf("recovered in state %s", p.currentState())
			return
		}
		if s, ok := p.findAction().(*lr.ShiftAction); ok {
			p.shift(s)
		} else {
			tracer().Debugf("skipping %v", p.input)
			p.input = nil
		}
	}
}

func (p *Parser) reduceAction() *lr.ReduceAction {
	state := p.currentState()
	if r, ok := state.DefaultAction.(*lr.ReduceAction); ok {
		return r
	}
	r, _ := state.Actions[p.input.Term].(*lr.ReduceAction)
	return r
}

// addError adds an error message. If the maximum number of errors is
// reached, parsing stops.
func (p *Parser) addError(loc parsekit.Location, format string, args ...interface{}) {
	if p.errCount >= p.maxErrors {
		p.status = Error
		return
	}
	p.errCount++
	p.addMessage(parsekit.Error, loc, format, args...)
	if p.errCount == p.maxErrors {
		tracer().Infof("maximum number of errors reached")
		p.status = Error
	}
}

func (p *Parser) addMessage(lvl parsekit.MessageLevel, loc parsekit.Location, format string, args ...interface{}) {
	msg := parsekit.LogMessage{
		Level:    lvl,
		Location: loc,
		Message:  fmt.Sprintf(format, args...),
	}
	if len(p.stack) > 0 {
		msg.ParserState = p.currentState()
	}
	tracer().Infof("%s: %s", p.tree.FileName, msg)
	p.tree.Messages = append(p.tree.Messages, msg)
}

// fatal stops parsing because of an internal problem.
func (p *Parser) fatal(format string, args ...interface{}) {
	loc := parsekit.Location{}
	if p.input != nil {
		loc = p.input.Span.Location
	}
	p.addMessage(parsekit.Error, loc, "parser error: "+format, args...)
	p.status = Error
}

// location is the location of the current input, used for the empty span of
// epsilon reductions.
func (p *Parser) location() parsekit.Location {
	if p.input != nil {
		return p.input.Span.Location
	}
	return p.scanner.Source().Location()
}

// --- lr.ParsingContext ----------------------------------------------------

// CurrentInput is part of interface lr.ParsingContext.
func (p *Parser) CurrentInput() *lr.ParseTreeNode {
	return p.input
}

// CurrentState is part of interface lr.ParsingContext.
func (p *Parser) CurrentState() *lr.ParserState {
	return p.currentState()
}

// StackDepth is part of interface lr.ParsingContext.
func (p *Parser) StackDepth() int {
	return len(p.stack)
}

// StackNode is part of interface lr.ParsingContext. Node 0 is the top of
// the stack.
func (p *Parser) StackNode(i int) *lr.ParseTreeNode {
	if i < 0 || i >= len(p.stack) {
		return nil
	}
	return p.stack[len(p.stack)-1-i]
}

var _ lr.ParsingContext = (*Parser)(nil)
var _ lr.CustomActionContext = (*customContext)(nil)
