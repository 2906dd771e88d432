package lr

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
)

// TermFlags is a set of flags for grammar terms.
type TermFlags uint32

// Flags for terms. Some of them are set by clients when composing a grammar,
// others (e.g. IsNullable) are derived during grammar analysis.
const (
	IsOperator TermFlags = 1 << iota
	IsOpenBrace
	IsCloseBrace
	IsLiteral
	IsConstant
	IsPunctuation
	IsDelimiter
	IsReservedWord
	InheritPrecedence
	IsNonScanner // never produced by the scanner, e.g. EOF
	IsNonGrammar // tokens are not fed into the parser, e.g. comments
	IsTransient
	IsNotReported
	IsError
	IsList
	IsListContainer
	IsMultiline
	IsKeyword
	IsNullable
	NoAstNode

	IsBrace = IsOpenBrace | IsCloseBrace
)

// IsSet checks if any of the flags in mask is set.
func (f TermFlags) IsSet(mask TermFlags) bool {
	return f&mask != 0
}

// Associativity of operators.
type Associativity int8

// Operator associativity, used for conflict resolution at parse time.
const (
	Neutral Associativity = iota
	Left
	Right
)

func (a Associativity) String() string {
	switch a {
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "neutral"
}

// NoPrecedence is the precedence of terms which are not operators.
const NoPrecedence = 0

// BnfTerm is the interface every grammar term implements: non-terminals,
// terminals, key terms and grammar hints. All the common data lives in
// an embedded BaseTerm.
type BnfTerm interface {
	Base() *BaseTerm
	String() string
}

var termSerial int64

// BaseTerm holds the data common to all grammar terms.
type BaseTerm struct {
	Name          string
	ErrorAlias    string // name to use in error messages
	Flags         TermFlags
	Precedence    int
	Associativity Associativity
	Shifting      func(node *ParseTreeNode) // called before the parser shifts this term
	id            int64
}

// MakeBaseTerm creates the common part of a term. Every term receives an ID
// which is unique for the lifetime of the process.
func MakeBaseTerm(name string, flags ...TermFlags) BaseTerm {
	bt := BaseTerm{
		Name: name,
		id:   atomic.AddInt64(&termSerial, 1),
	}
	for _, f := range flags {
		bt.Flags |= f
	}
	return bt
}

// Base is part of interface BnfTerm.
func (t *BaseTerm) Base() *BaseTerm {
	return t
}

// ID returns the process-unique serial number of a term.
func (t *BaseTerm) ID() int64 {
	return t.id
}

// Is checks for flags.
func (t *BaseTerm) Is(mask TermFlags) bool {
	return t.Flags.IsSet(mask)
}

// SetFlag sets flags.
func (t *BaseTerm) SetFlag(flags TermFlags) {
	t.Flags |= flags
}

// ClearFlag clears flags.
func (t *BaseTerm) ClearFlag(flags TermFlags) {
	t.Flags &^= flags
}

// ReportedName is the name to use in error messages.
func (t *BaseTerm) ReportedName() string {
	if t.ErrorAlias != "" {
		return t.ErrorAlias
	}
	return t.Name
}

func (t *BaseTerm) String() string {
	return t.Name
}

// --- Non-terminals --------------------------------------------------------

// BnfExpression is the right hand side of a non-terminal's rule: a list of
// alternatives, each of which is a sequence of terms (possibly including
// grammar hints).
type BnfExpression struct {
	Alternatives [][]BnfTerm
}

// Add appends an alternative.
func (e *BnfExpression) Add(seq ...BnfTerm) {
	e.Alternatives = append(e.Alternatives, seq)
}

func (e *BnfExpression) String() string {
	if e == nil {
		return "<no rule>"
	}
	var alts []string
	for _, seq := range e.Alternatives {
		var b []string
		for _, t := range seq {
			b = append(b, t.String())
		}
		if len(b) == 0 {
			alts = append(alts, "ε")
		} else {
			alts = append(alts, strings.Join(b, " "))
		}
	}
	return strings.Join(alts, " | ")
}

// NonTerminal is a grammar term defined by a rule.
type NonTerminal struct {
	BaseTerm
	Rule        *BnfExpression
	Productions []*Production // created during grammar analysis
	// Reduced is called after the parser reduced a production for this non-terminal.
	Reduced func(p *Production, node *ParseTreeNode)
}

// NewNonTerminal creates a non-terminal without a rule. Clients usually
// use GrammarBuilder.NonTerminal instead.
func NewNonTerminal(name string, flags ...TermFlags) *NonTerminal {
	return &NonTerminal{BaseTerm: MakeBaseTerm(name, flags...)}
}

// IsTerminal is a predicate helper for terms.
func IsTerminal(t BnfTerm) bool {
	_, ok := t.(Terminal)
	return ok
}

// --- Term sets ------------------------------------------------------------

// TermSet is an insertion-ordered set of terms. Iteration order is
// deterministic, which is important for reproducible parser construction.
// The zero value is not usable, create with NewTermSet.
type TermSet struct {
	terms []BnfTerm
	index map[BnfTerm]int
}

// NewTermSet creates a set, optionally initialized with terms.
func NewTermSet(terms ...BnfTerm) *TermSet {
	s := &TermSet{index: make(map[BnfTerm]int)}
	for _, t := range terms {
		s.Add(t)
	}
	return s
}

// Add adds a term, returning false if it has already been present.
func (s *TermSet) Add(t BnfTerm) bool {
	if _, ok := s.index[t]; ok {
		return false
	}
	s.index[t] = len(s.terms)
	s.terms = append(s.terms, t)
	return true
}

// AddAll adds all terms of another set. Returns true if s changed.
func (s *TermSet) AddAll(other *TermSet) bool {
	if other == nil {
		return false
	}
	changed := false
	for _, t := range other.terms {
		if s.Add(t) {
			changed = true
		}
	}
	return changed
}

// Contains checks for membership.
func (s *TermSet) Contains(t BnfTerm) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[t]
	return ok
}

// Remove removes a term, keeping the order of the remaining terms.
func (s *TermSet) Remove(t BnfTerm) bool {
	i, ok := s.index[t]
	if !ok {
		return false
	}
	s.terms = append(s.terms[:i], s.terms[i+1:]...)
	delete(s.index, t)
	for j := i; j < len(s.terms); j++ {
		s.index[s.terms[j]] = j
	}
	return true
}

// Len returns the size of the set.
func (s *TermSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.terms)
}

// Terms returns the terms in insertion order. Clients must not modify the
// returned slice.
func (s *TermSet) Terms() []BnfTerm {
	if s == nil {
		return nil
	}
	return s.terms
}

// Copy creates a shallow copy of s.
func (s *TermSet) Copy() *TermSet {
	return NewTermSet(s.Terms()...)
}

// Sorted returns the terms sorted by name (ties broken by term ID).
func (s *TermSet) Sorted() []BnfTerm {
	ts := treeset.NewWith(termComparator)
	for _, t := range s.Terms() {
		ts.Add(t)
	}
	r := make([]BnfTerm, 0, ts.Size())
	for _, x := range ts.Values() {
		r = append(r, x.(BnfTerm))
	}
	return r
}

func (s *TermSet) String() string {
	var names []string
	for _, t := range s.Sorted() {
		names = append(names, t.String())
	}
	return fmt.Sprintf("{%s}", strings.Join(names, " "))
}

// termComparator orders terms by name, then by serial ID.
func termComparator(a, b interface{}) int {
	t1 := a.(BnfTerm).Base()
	t2 := b.(BnfTerm).Base()
	if c := utils.StringComparator(t1.Name, t2.Name); c != 0 {
		return c
	}
	return utils.Int64Comparator(t1.id, t2.id)
}
