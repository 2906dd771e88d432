package lr

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
)

// ParserState is a state of the LALR(1) automaton.
type ParserState struct {
	Name              string
	Index             int
	Actions           map[BnfTerm]ParserAction
	DefaultAction     ParserAction // if set, executed without looking at the input
	ExpectedTerminals *TermSet
	KernelItems       []*LR0Item
	reported          atomic.Value // []string, computed on first use
}

// NewParserState creates an empty state.
func NewParserState(index int) *ParserState {
	return &ParserState{
		Name:              fmt.Sprintf("S%d", index),
		Index:             index,
		Actions:           make(map[BnfTerm]ParserAction),
		ExpectedTerminals: NewTermSet(),
	}
}

// Action returns the action for a term, or nil.
func (s *ParserState) Action(t BnfTerm) ParserAction {
	return s.Actions[t]
}

// ReportedExpected returns the sorted names of the terminals to list in a
// syntax error message. The result is computed lazily and cached; concurrent
// callers may compute it more than once, but will all see a complete result.
func (s *ParserState) ReportedExpected() []string {
	if r, ok := s.reported.Load().([]string); ok {
		return r
	}
	names := treeset.NewWith(utils.StringComparator)
	for _, t := range s.ExpectedTerminals.Terms() {
		bt := t.Base()
		if bt.Is(IsNotReported | IsError) {
			continue
		}
		names.Add(bt.ReportedName())
	}
	r := make([]string, 0, names.Size())
	for _, n := range names.Values() {
		r = append(r, n.(string))
	}
	s.reported.Store(r)
	return r
}

func (s *ParserState) String() string {
	return s.Name
}

// ParserData is the LALR(1) automaton for a grammar.
type ParserData struct {
	States       []*ParserState
	InitialState *ParserState
	FinalState   *ParserState // state after the root has been recognized
	ErrorAction  ParserAction
}

// --- Actions --------------------------------------------------------------

// ActionKind identifies the kind of a parser action.
type ActionKind int8

// Kinds of parser actions.
const (
	ShiftKind ActionKind = iota
	ReduceKind
	AcceptKind
	ConditionalKind
	CustomKind
	ErrorRecoveryKind
)

// ParserAction is an entry in a parser state's action table. Actions are
// data; package lr/parser executes them.
type ParserAction interface {
	Kind() ActionKind
	String() string
}

// ShiftAction pushes the current input onto the parser stack and moves to
// a new state.
type ShiftAction struct {
	Term     BnfTerm
	NewState *ParserState
}

// Kind is part of interface ParserAction.
func (a *ShiftAction) Kind() ActionKind { return ShiftKind }

func (a *ShiftAction) String() string {
	return fmt.Sprintf("shift %s → %s", a.Term, a.NewState)
}

// ReduceMode selects the way a reduce action builds parse tree nodes.
type ReduceMode int8

// Reduce modes.
const (
	PlainReduce         ReduceMode = iota // new node with all non-punctuation children
	ListBuilderReduce                     // append the new member to the existing list node
	ListContainerReduce                   // new node adopting the members of a helper list
	TransientReduce                       // promote the single meaningful child
)

// ReduceAction reduces a production.
type ReduceAction struct {
	Production *Production
	Mode       ReduceMode
}

// NewReduceAction creates a reduce action, selecting the reduce mode from
// the flags of the production's left hand side.
func NewReduceAction(p *Production) *ReduceAction {
	nt := p.LValue
	mode := PlainReduce
	switch {
	case nt.Is(IsList) && len(p.RValues) > 0 && p.RValues[0] == BnfTerm(nt):
		mode = ListBuilderReduce
	case nt.Is(IsListContainer):
		mode = ListContainerReduce
	case nt.Is(IsTransient):
		mode = TransientReduce
	}
	return &ReduceAction{Production: p, Mode: mode}
}

// Kind is part of interface ParserAction.
func (a *ReduceAction) Kind() ActionKind { return ReduceKind }

func (a *ReduceAction) String() string {
	return fmt.Sprintf("reduce %s", a.Production)
}

// AcceptAction signals successful recognition of the input.
type AcceptAction struct{}

// Kind is part of interface ParserAction.
func (a *AcceptAction) Kind() ActionKind { return AcceptKind }

func (a *AcceptAction) String() string { return "accept" }

// ErrorRecoveryAction starts error recovery.
type ErrorRecoveryAction struct{}

// Kind is part of interface ParserAction.
func (a *ErrorRecoveryAction) Kind() ActionKind { return ErrorRecoveryKind }

func (a *ErrorRecoveryAction) String() string { return "recover" }

// ParsingContext gives conditional and custom actions read access to a
// running parse.
type ParsingContext interface {
	CurrentInput() *ParseTreeNode
	CurrentState() *ParserState
	StackDepth() int
	StackNode(i int) *ParseTreeNode // i = 0 is top of stack
}

// CustomActionContext additionally lets a custom action execute the action
// it selected.
type CustomActionContext interface {
	ParsingContext
	Execute(action ParserAction) error
}

// ConditionalEntry is a condition together with the action to execute if
// the condition holds.
type ConditionalEntry struct {
	Condition   func(ctx ParsingContext) bool
	Action      ParserAction
	Description string
}

// ConditionalAction selects between actions at parse time. Entries are
// checked in order; if none applies, Default is executed.
type ConditionalAction struct {
	Entries []ConditionalEntry
	Default ParserAction
}

// Kind is part of interface ParserAction.
func (a *ConditionalAction) Kind() ActionKind { return ConditionalKind }

// Select returns the action to execute for the current parse situation.
func (a *ConditionalAction) Select(ctx ParsingContext) ParserAction {
	for _, e := range a.Entries {
		if e.Condition(ctx) {
			return e.Action
		}
	}
	return a.Default
}

func (a *ConditionalAction) String() string {
	var b strings.Builder
	b.WriteString("if ")
	for i, e := range a.Entries {
		if i > 0 {
			b.WriteString(" elif ")
		}
		fmt.Fprintf(&b, "%s then %s", e.Description, e.Action)
	}
	fmt.Fprintf(&b, " else %s", a.Default)
	return b.String()
}

// NewPrecedenceAction creates a conditional action resolving a
// shift/reduce conflict on an operator: reduce if the nearest operator on
// the stack binds tighter than the input operator (or equally tight with
// left associativity), shift otherwise.
func NewPrecedenceAction(term BnfTerm, shiftTo *ParserState, reduce *Production) *ConditionalAction {
	reduceAction := NewReduceAction(reduce)
	return &ConditionalAction{
		Entries: []ConditionalEntry{{
			Condition: func(ctx ParsingContext) bool {
				return MustReduceByPrecedence(ctx, len(reduce.RValues))
			},
			Action:      reduceAction,
			Description: "(precedence comparison)",
		}},
		Default: &ShiftAction{Term: term, NewState: shiftTo},
	}
}

// MustReduceByPrecedence compares the precedence of the input with the
// nearest operator within the top n stack nodes.
func MustReduceByPrecedence(ctx ParsingContext, n int) bool {
	input := ctx.CurrentInput()
	for i := 0; i < n && i < ctx.StackDepth(); i++ {
		prev := ctx.StackNode(i)
		if prev == nil || prev.Precedence == NoPrecedence {
			continue
		}
		if prev.Precedence == input.Precedence {
			return input.Associativity == Left
		}
		return prev.Precedence > input.Precedence
	}
	return false
}

// CustomActionMethod decides between the shift and reduce actions of a
// CustomAction at parse time and executes one of them via ctx.Execute.
type CustomActionMethod func(ctx CustomActionContext, action *CustomAction) error

// CustomAction delegates the decision between conflicting actions to
// client code.
type CustomAction struct {
	Method        CustomActionMethod
	Conflicts     []BnfTerm
	ShiftActions  []*ShiftAction
	ReduceActions []*ReduceAction
}

// Kind is part of interface ParserAction.
func (a *CustomAction) Kind() ActionKind { return CustomKind }

func (a *CustomAction) String() string {
	return fmt.Sprintf("custom(%d shifts, %d reduces)", len(a.ShiftActions), len(a.ReduceActions))
}
