package lalr

import (
	"fmt"
	"strings"

	"github.com/npillmayer/parsekit/lr"
)

// Automaton is the result of LALR(1) construction: the parser data to drive
// a parser with, plus construction details for reporting.
type Automaton struct {
	Data      *lr.ParserData
	Grammar   *lr.GrammarData
	Conflicts []Conflict // conflicts not resolved by grammar hints
	states    []*stateData
}

// ConflictKind is the kind of a parser conflict.
type ConflictKind int8

// Kinds of conflicts.
const (
	ShiftReduce ConflictKind = iota
	ReduceReduce
)

func (k ConflictKind) String() string {
	if k == ShiftReduce {
		return "shift/reduce"
	}
	return "reduce/reduce"
}

// Conflict is a conflict left unresolved by grammar hints. The parser
// resolves it with a default: shift for shift/reduce conflicts, the first
// production for reduce/reduce conflicts.
type Conflict struct {
	Kind  ConflictKind
	State *lr.ParserState
	Term  lr.BnfTerm
}

func (c Conflict) String() string {
	return fmt.Sprintf("%s conflict in state %s on %s", c.Kind, c.State, c.Term)
}

// builder holds the construction-time data.
type builder struct {
	gd             *lr.GrammarData
	errs           *lr.GrammarErrorList
	data           *lr.ParserData
	states         []*stateData
	byKernel       map[string]*stateData
	transitions    []*transition // arena
	needLookaheads []*lrItem
	conflicts      []Conflict
}

// Build constructs the LALR(1) automaton for grammar data gd. Problems are
// reported to errs: unresolved conflicts with LevelConflict, violated
// construction invariants with LevelInternalError. If errs already contains
// errors, nothing is built and the automaton's Data is nil.
func Build(gd *lr.GrammarData, errs *lr.GrammarErrorList) (a *Automaton) {
	a = &Automaton{Grammar: gd}
	if gd == nil || gd.AugmentedRoot == nil || errs.MaxLevel() >= lr.LevelError {
		errs.Add(lr.LevelError, nil, "cannot build parser for erroneous grammar")
		return a
	}
	b := &builder{
		gd:       gd,
		errs:     errs,
		data:     &lr.ParserData{},
		byKernel: make(map[string]*stateData),
	}
	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(internalError)
			if !ok {
				panic(r)
			}
			errs.Add(lr.LevelInternalError, nil, "parser construction failed: %s", ie)
			a.Data = nil
		}
	}()
	b.build()
	a.Data = b.data
	a.Conflicts = b.conflicts
	a.states = b.states
	return a
}

func (b *builder) build() {
	tracer().Debugf("building LALR(1) automaton for grammar %s", b.gd.Grammar.Name)
	b.createParserStates()
	b.createAcceptAction()
	b.computeTransitions()
	b.computeLookaheads()
	b.computeExpectedTerminals()
	b.computeConflicts()
	b.applyHints()
	b.handleUnresolvedConflicts()
	b.createRemainingReduceActions()
	if b.data.ErrorAction == nil {
		b.data.ErrorAction = &lr.ErrorRecoveryAction{}
	}
	tracer().Infof("grammar %s: %d parser states, %d unresolved conflicts",
		b.gd.Grammar.Name, len(b.data.States), len(b.conflicts))
}

// --- States ---------------------------------------------------------------

func (b *builder) createParserStates() {
	var kernel []*lr.LR0Item
	for _, p := range b.gd.AugmentedRoot.Productions {
		kernel = append(kernel, p.LR0Items[0])
	}
	initial := b.findOrCreateState(kernel)
	b.data.InitialState = initial.state
	b.expandStates()
}

func (b *builder) findOrCreateState(kernel []*lr.LR0Item) *stateData {
	key := lr.LR0ItemKey(kernel)
	if sd, ok := b.byKernel[key]; ok {
		return sd
	}
	state := lr.NewParserState(len(b.states))
	sd := newStateData(state, kernel)
	b.states = append(b.states, sd)
	b.data.States = append(b.data.States, state)
	b.byKernel[key] = sd
	return sd
}

// expandStates creates shift actions and successor states, for new states
// as they appear.
func (b *builder) expandStates() {
	for i := 0; i < len(b.states); i++ {
		sd := b.states[i]
		for _, term := range sd.shiftTerms.Terms() {
			items := sd.shiftItemsFor(term)
			shifted := make([]*lr.LR0Item, len(items))
			for j, item := range items {
				shifted[j] = item.core.ShiftedItem()
			}
			target := b.findOrCreateState(shifted)
			sd.state.Actions[term] = &lr.ShiftAction{Term: term, NewState: target.state}
			for _, item := range items {
				item.shiftedItem = target.cores[item.core.ShiftedItem()]
			}
		}
	}
}

// createAcceptAction replaces the shift over EOF in the state reached by
// shifting the root.
func (b *builder) createAcceptAction() {
	root := b.gd.AugmentedRoot.Productions[0].RValues[0]
	initial := b.states[0]
	final := initial.nextState(root)
	if final == nil {
		panic(internalError(fmt.Sprintf("no shift over root %s in initial state", root)))
	}
	final.state.Actions[b.gd.Grammar.EOF] = &lr.AcceptAction{}
	b.data.FinalState = final.state
}

func (b *builder) computeExpectedTerminals() {
	g := b.gd.Grammar
	for _, sd := range b.states {
		expected := sd.state.ExpectedTerminals
		expected.AddAll(sd.shiftTerminals)
		for _, item := range sd.reduceItems {
			expected.AddAll(item.lookaheads)
		}
		expected.Remove(g.SyntaxError)
		expected.Remove(g.EOF)
	}
}

// --- Conflicts ------------------------------------------------------------

func (b *builder) computeConflicts() {
	for _, sd := range b.states {
		if !sd.isInadequate {
			continue
		}
		all := lr.NewTermSet()
		for _, item := range sd.reduceItems {
			for _, la := range item.lookaheads.Terms() {
				if !all.Add(la) {
					sd.conflicts.Add(la) // reduce/reduce
				}
			}
		}
		for _, t := range sd.shiftTerminals.Terms() {
			if all.Contains(t) {
				sd.conflicts.Add(t) // shift/reduce
			}
		}
		if sd.conflicts.Len() > 0 {
			tracer().Debugf("state %s has conflicts on %v", sd.state, sd.conflicts)
		}
	}
}

// applyHints adds precedence hints for conflicts on operators and then
// applies all hints of a state's items, in item order.
func (b *builder) applyHints() {
	for _, sd := range b.states {
		for _, c := range sd.conflicts.Terms() {
			if !c.Base().Is(lr.IsOperator) {
				continue
			}
			if items := sd.reduceItemsFor(c); len(items) > 0 {
				item := items[0]
				item.hints = append(item.hints[:len(item.hints):len(item.hints)], lr.NewPrecedenceHint())
			}
		}
		for _, item := range sd.allItems {
			for _, h := range item.hints {
				b.applyHint(h, item)
			}
		}
	}
}

func (b *builder) applyHint(hint lr.GrammarHint, item *lrItem) {
	switch h := hint.(type) {
	case *lr.PrecedenceHint:
		b.applyPrecedenceHint(item)
	case *lr.PreferredActionHint:
		b.applyPreferredActionHint(h, item)
	case *lr.CustomActionHint:
		b.applyCustomActionHint(h, item)
	default:
		b.errs.Add(lr.LevelWarning, item.state.state, "unknown grammar hint %s", hint)
	}
}

// applyPrecedenceHint installs precedence actions for all operator
// conflicts of a state which have exactly one competing reduce item.
func (b *builder) applyPrecedenceHint(item *lrItem) {
	sd := item.state
	for _, c := range append([]lr.BnfTerm(nil), sd.conflicts.Terms()...) {
		if !c.Base().Is(lr.IsOperator) {
			continue
		}
		next := sd.nextState(c)
		reduceItems := sd.reduceItemsFor(c)
		if next == nil || len(reduceItems) != 1 {
			continue // cannot be resolved by precedence
		}
		sd.state.Actions[c] = lr.NewPrecedenceAction(c, next.state, reduceItems[0].core.Production)
		sd.conflicts.Remove(c)
	}
}

func (b *builder) applyPreferredActionHint(h *lr.PreferredActionHint, item *lrItem) {
	sd := item.state
	if sd.conflicts.Len() == 0 {
		return
	}
	switch h.Preferred {
	case lr.PreferShiftAction:
		cur := item.core.Current()
		if _, ok := cur.(lr.Terminal); !ok || !sd.conflicts.Contains(cur) {
			return
		}
		sd.state.Actions[cur] = &lr.ShiftAction{Term: cur, NewState: item.shiftedItem.state.state}
		sd.conflicts.Remove(cur)
	case lr.PreferReduceAction:
		if !item.core.IsFinal() {
			return
		}
		var reduce *lr.ReduceAction
		for _, la := range item.lookaheads.Terms() {
			if !sd.conflicts.Contains(la) {
				continue
			}
			if reduce == nil {
				reduce = lr.NewReduceAction(item.core.Production)
			}
			sd.state.Actions[la] = reduce
			sd.conflicts.Remove(la)
		}
	}
}

// applyCustomActionHint installs a custom action, which takes over every
// conflict of the state.
func (b *builder) applyCustomActionHint(h *lr.CustomActionHint, item *lrItem) {
	sd := item.state
	action := &lr.CustomAction{
		Method:    h.Method,
		Conflicts: append([]lr.BnfTerm(nil), sd.conflicts.Terms()...),
	}
	for _, t := range sd.shiftTerminals.Terms() {
		if shift, ok := sd.state.Actions[t].(*lr.ShiftAction); ok {
			action.ShiftActions = append(action.ShiftActions, shift)
		}
	}
	for _, ri := range sd.reduceItems {
		action.ReduceActions = append(action.ReduceActions, lr.NewReduceAction(ri.core.Production))
	}
	switch {
	case !sd.isInadequate:
		sd.state.DefaultAction = action
	case item.core.Current() != nil:
		sd.state.Actions[item.core.Current()] = action
	default:
		for _, la := range item.lookaheads.Terms() {
			sd.state.Actions[la] = action
		}
	}
	for _, c := range action.Conflicts {
		sd.conflicts.Remove(c)
	}
}

// handleUnresolvedConflicts reports conflicts left after hint application
// and installs default resolutions. For shift/reduce conflicts the shift
// action is already in place.
func (b *builder) handleUnresolvedConflicts() {
	for _, sd := range b.states {
		if sd.conflicts.Len() == 0 {
			continue
		}
		var sr, rr []lr.BnfTerm
		for _, c := range sd.conflicts.Terms() {
			if sd.shiftTerminals.Contains(c) {
				sr = append(sr, c)
				b.conflicts = append(b.conflicts, Conflict{Kind: ShiftReduce, State: sd.state, Term: c})
			} else {
				rr = append(rr, c)
				b.conflicts = append(b.conflicts, Conflict{Kind: ReduceReduce, State: sd.state, Term: c})
			}
		}
		if len(sr) > 0 {
			b.errs.Add(lr.LevelConflict, sd.state, "shift-reduce conflict on %v, resolved to shift; items: %s",
				lr.NewTermSet(sr...), sd.itemsString())
		}
		if len(rr) > 0 {
			b.errs.Add(lr.LevelConflict, sd.state, "reduce-reduce conflict on %v, resolved to first production; items: %s",
				lr.NewTermSet(rr...), sd.itemsString())
		}
		for _, c := range rr {
			items := sd.reduceItemsFor(c)
			sd.state.Actions[c] = lr.NewReduceAction(items[0].core.Production)
		}
	}
}

func (b *builder) createRemainingReduceActions() {
	for _, sd := range b.states {
		state := sd.state
		if state.DefaultAction != nil {
			continue
		}
		if len(sd.shiftItems) == 0 && len(sd.reduceItems) == 1 {
			state.DefaultAction = lr.NewReduceAction(sd.reduceItems[0].core.Production)
			continue
		}
		for _, item := range sd.reduceItems {
			var reduce *lr.ReduceAction
			for _, la := range item.lookaheads.Terms() {
				if _, ok := state.Actions[la]; ok {
					continue
				}
				if reduce == nil {
					reduce = lr.NewReduceAction(item.core.Production)
				}
				state.Actions[la] = reduce
			}
		}
	}
}

func (sd *stateData) itemsString() string {
	var items []string
	for _, item := range sd.allItems {
		if item.core.IsKernel() || item.core.IsFinal() {
			items = append(items, item.core.String())
		}
	}
	return strings.Join(items, "; ")
}

// --- Queries --------------------------------------------------------------

func (a *Automaton) stateData(s *lr.ParserState) *stateData {
	if s == nil || s.Index < 0 || s.Index >= len(a.states) || a.states[s.Index].state != s {
		return nil
	}
	return a.states[s.Index]
}

// Lookaheads returns the lookahead terminals for reducing production p in
// state s. It returns nil if p is not reduced in s, or if s has a default
// reduction (for which lookaheads are not computed).
func (a *Automaton) Lookaheads(s *lr.ParserState, p *lr.Production) *lr.TermSet {
	sd := a.stateData(s)
	if sd == nil {
		return nil
	}
	for _, item := range sd.reduceItems {
		if item.core.Production == p {
			if item.lookaheads.Len() == 0 {
				return nil
			}
			return item.lookaheads.Copy()
		}
	}
	return nil
}

// Items returns the LR(0) items of a state's closure, kernel items first.
func (a *Automaton) Items(s *lr.ParserState) []*lr.LR0Item {
	sd := a.stateData(s)
	if sd == nil {
		return nil
	}
	items := make([]*lr.LR0Item, 0, len(sd.allItems))
	for _, item := range sd.allItems {
		if item.core.IsKernel() {
			items = append(items, item.core)
		}
	}
	for _, item := range sd.allItems {
		if !item.core.IsKernel() {
			items = append(items, item.core)
		}
	}
	return items
}

// IsInadequate is true for states with more than one possible action.
func (a *Automaton) IsInadequate(s *lr.ParserState) bool {
	sd := a.stateData(s)
	return sd != nil && sd.isInadequate
}
