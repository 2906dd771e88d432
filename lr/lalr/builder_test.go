package lalr

import (
	"bytes"
	"strings"
	"testing"

	"github.com/npillmayer/parsekit/lr"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// A terminal for tests; the automaton never calls TryMatch.
type testTerm struct {
	lr.TerminalBase
}

func newTerm(name string) *testTerm {
	return &testTerm{TerminalBase: lr.MakeTerminalBase(name, lr.CategoryContent)}
}

func (t *testTerm) Firsts() []string { return nil }

func (t *testTerm) TryMatch(ctx *lr.ScanContext, src *lr.SourceStream) *lr.Token { return nil }

func build(t *testing.T, b *lr.GrammarBuilder) (*Automaton, lr.GrammarErrorList) {
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	var errs lr.GrammarErrorList
	gd := lr.BuildGrammarData(g, &errs)
	a := Build(gd, &errs)
	if errs.MaxLevel() >= lr.LevelError {
		t.Fatalf("grammar errors: %v", errs)
	}
	return a, errs
}

type exprNTs struct {
	E, T, F *lr.NonTerminal
}

func exprGrammar() (*lr.GrammarBuilder, exprNTs) {
	b := lr.NewGrammarBuilder("Expressions")
	id := newTerm("id")
	nts := exprNTs{b.NonTerminal("E"), b.NonTerminal("T"), b.NonTerminal("F")}
	b.Rule(nts.E).Is(nts.E, "+", nts.T).Or(nts.E, "-", nts.T).Or(nts.T)
	b.Rule(nts.T).Is(nts.T, "*", nts.F).Or(nts.T, "/", nts.F).Or(nts.F)
	b.Rule(nts.F).Is("(", nts.E, ")").Or(id)
	b.Root(nts.E)
	return b, nts
}

func shift(t *testing.T, s *lr.ParserState, term lr.BnfTerm) *lr.ParserState {
	action, ok := s.Actions[term].(*lr.ShiftAction)
	if !ok {
		t.Fatalf("expected shift on %s in state %s, have %v", term, s, s.Actions[term])
	}
	return action.NewState
}

func checkTerms(t *testing.T, set *lr.TermSet, names ...string) {
	t.Helper()
	if set.Len() != len(names) {
		t.Errorf("expected %d terms %v, have %v", len(names), names, set)
		return
	}
	for _, n := range names {
		found := false
		for _, term := range set.Terms() {
			if term.String() == n {
				found = true
			}
		}
		if !found {
			t.Errorf("expected %q to be in %v", n, set)
		}
	}
}

func TestExpressionLookaheads(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.lr")
	defer teardown()
	//
	b, nts := exprGrammar()
	a, errs := build(t, b)
	if len(a.Conflicts) != 0 || errs.MaxLevel() >= lr.LevelConflict {
		t.Fatalf("expected no conflicts, have %v", errs)
	}
	s0 := a.Data.InitialState
	sT := shift(t, s0, nts.T) // E ➞ T •, T ➞ T • * F, T ➞ T • / F
	if !a.IsInadequate(sT) {
		t.Errorf("expected state %s to be inadequate", sT)
	}
	la := a.Lookaheads(sT, nts.E.Productions[2])
	checkTerms(t, la, "+", "-", ")", "EOF")
	// E ➞ E + T •
	sE := shift(t, s0, nts.E)
	sPlus := shift(t, sE, b.Key("+"))
	sET := shift(t, sPlus, nts.T)
	checkTerms(t, a.Lookaheads(sET, nts.E.Productions[0]), "+", "-", ")", "EOF")
	// reduce actions for lookaheads, shift on '*'
	if r, ok := sET.Actions[b.Key(")")].(*lr.ReduceAction); !ok || r.Production != nts.E.Productions[0] {
		t.Errorf("expected reduce on ')' in state %s", sET)
	}
	if _, ok := sET.Actions[b.Key("*")].(*lr.ShiftAction); !ok {
		t.Errorf("expected shift on '*' in state %s", sET)
	}
	// accept
	if _, ok := sE.Actions[b.EOF()].(*lr.AcceptAction); !ok || a.Data.FinalState != sE {
		t.Errorf("expected accept on EOF in state %s", sE)
	}
}

func TestDefaultReductions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.lr")
	defer teardown()
	//
	b, nts := exprGrammar()
	a, _ := build(t, b)
	sF := shift(t, a.Data.InitialState, nts.F) // T ➞ F •
	r, ok := sF.DefaultAction.(*lr.ReduceAction)
	if !ok || r.Production != nts.T.Productions[2] {
		t.Errorf("expected default reduction T ➞ F in state %s, have %v", sF, sF.DefaultAction)
	}
	if a.Data.ErrorAction == nil {
		t.Errorf("expected error action to be set")
	}
}

func TestExpectedTerminals(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.lr")
	defer teardown()
	//
	b, _ := exprGrammar()
	a, _ := build(t, b)
	names := a.Data.InitialState.ReportedExpected()
	if strings.Join(names, " ") != "( id" {
		t.Errorf("expected '( id' for initial state, have %v", names)
	}
}

func TestDeterminism(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.lr")
	defer teardown()
	//
	b1, _ := exprGrammar()
	a1, _ := build(t, b1)
	b2, _ := exprGrammar()
	a2, _ := build(t, b2)
	if len(a1.Data.States) != len(a2.Data.States) {
		t.Fatalf("state counts differ: %d vs %d", len(a1.Data.States), len(a2.Data.States))
	}
	f1, err := Fingerprint(a1)
	if err != nil {
		t.Fatal(err)
	}
	f2, _ := Fingerprint(a2)
	if f1 != f2 {
		t.Errorf("fingerprints differ: %s vs %s", f1, f2)
	}
}

func ambiguousExpr(withPrecedence bool) (*lr.GrammarBuilder, *lr.NonTerminal) {
	b := lr.NewGrammarBuilder("Ambiguous")
	E := b.NonTerminal("E")
	b.Rule(E).Is(E, "+", E).Or(E, "*", E).Or(newTerm("n"))
	if withPrecedence {
		b.Operators(1, lr.Left, "+")
		b.Operators(2, lr.Left, "*")
	}
	b.Root(E)
	return b, E
}

func TestPrecedenceActions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.lr")
	defer teardown()
	//
	b, E := ambiguousExpr(true)
	a, errs := build(t, b)
	if len(a.Conflicts) != 0 {
		t.Fatalf("expected operator conflicts to be resolved, have %v", errs)
	}
	s := shift(t, shift(t, shift(t, a.Data.InitialState, E), b.Key("+")), E) // E ➞ E + E •
	cond, ok := s.Actions[b.Key("*")].(*lr.ConditionalAction)
	if !ok {
		t.Fatalf("expected precedence action on '*', have %v", s.Actions[b.Key("*")])
	}
	if _, ok := cond.Default.(*lr.ShiftAction); !ok {
		t.Errorf("expected shift as default of precedence action")
	}
	if r, ok := cond.Entries[0].Action.(*lr.ReduceAction); !ok || r.Production != E.Productions[0] {
		t.Errorf("expected reduce E ➞ E + E as conditional alternative")
	}
	//
	b, _ = ambiguousExpr(false)
	a, errs = build(t, b)
	if len(a.Conflicts) != 4 || errs.Count(lr.LevelConflict) != 2 {
		t.Errorf("expected 4 unresolved shift/reduce conflicts in 2 states, have %v", a.Conflicts)
	}
	for _, c := range a.Conflicts {
		if c.Kind != ShiftReduce {
			t.Errorf("expected shift/reduce conflict, have %v", c)
		}
		if _, ok := c.State.Actions[c.Term].(*lr.ShiftAction); !ok {
			t.Errorf("expected shift to win for %v", c)
		}
	}
}

func danglingElse(hint interface{}) (*lr.GrammarBuilder, *lr.NonTerminal) {
	b := lr.NewGrammarBuilder("If-Then-Else")
	x := newTerm("x")
	S := b.NonTerminal("S")
	if hint != nil {
		b.Rule(S).Is("if", x, "then", S, hint, "else", S)
	} else {
		b.Rule(S).Is("if", x, "then", S, "else", S)
	}
	b.Rule(S).Or("if", x, "then", S).Or(x)
	b.Root(S)
	return b, S
}

func ifThenState(t *testing.T, a *Automaton, b *lr.GrammarBuilder, S *lr.NonTerminal) *lr.ParserState {
	s := shift(t, a.Data.InitialState, b.Key("if"))
	for _, term := range a.Grammar.Terminals {
		if term.String() == "x" {
			s = shift(t, s, term)
		}
	}
	return shift(t, shift(t, s, b.Key("then")), S)
}

func TestPreferShiftHint(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.lr")
	defer teardown()
	//
	b, S := danglingElse(nil)
	a, errs := build(t, b)
	if len(a.Conflicts) != 1 || errs.Count(lr.LevelConflict) != 1 {
		t.Fatalf("expected dangling else conflict, have %v", errs)
	}
	if a.Conflicts[0].Term != b.Key("else") {
		t.Errorf("expected conflict on 'else', have %v", a.Conflicts[0])
	}
	//
	b, S = danglingElse(lr.PreferShift())
	a, errs = build(t, b)
	if len(a.Conflicts) != 0 || errs.MaxLevel() >= lr.LevelConflict {
		t.Fatalf("expected hint to resolve conflict, have %v", errs)
	}
	s := ifThenState(t, a, b, S)
	if _, ok := s.Actions[b.Key("else")].(*lr.ShiftAction); !ok {
		t.Errorf("expected shift on 'else' in %s, have %v", s, s.Actions[b.Key("else")])
	}
	if r, ok := s.Actions[b.EOF()].(*lr.ReduceAction); !ok || r.Production != S.Productions[1] {
		t.Errorf("expected reduce on EOF in %s", s)
	}
}

func TestPreferReduceHint(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.lr")
	defer teardown()
	//
	b := lr.NewGrammarBuilder("Reduce")
	x := newTerm("x")
	S := b.NonTerminal("S")
	b.Rule(S).Is("if", x, "then", S, "else", S).Or("if", x, "then", S, lr.PreferReduce()).Or(x)
	b.Root(S)
	a, errs := build(t, b)
	if len(a.Conflicts) != 0 {
		t.Fatalf("expected hint to resolve conflict, have %v", errs)
	}
	s := ifThenState(t, a, b, S)
	if r, ok := s.Actions[b.Key("else")].(*lr.ReduceAction); !ok || r.Production != S.Productions[1] {
		t.Errorf("expected reduce on 'else' in %s, have %v", s, s.Actions[b.Key("else")])
	}
}

func TestCustomActionHint(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.lr")
	defer teardown()
	//
	method := func(ctx lr.CustomActionContext, action *lr.CustomAction) error {
		return ctx.Execute(action.ShiftActions[0])
	}
	b, S := danglingElse(lr.CustomActionHere(method))
	a, errs := build(t, b)
	if len(a.Conflicts) != 0 {
		t.Fatalf("expected custom action to take over conflict, have %v", errs)
	}
	s := ifThenState(t, a, b, S)
	custom, ok := s.Actions[b.Key("else")].(*lr.CustomAction)
	if !ok {
		t.Fatalf("expected custom action on 'else', have %v", s.Actions[b.Key("else")])
	}
	if len(custom.Conflicts) != 1 || len(custom.ShiftActions) != 1 || len(custom.ReduceActions) != 1 {
		t.Errorf("unexpected custom action alternatives: %v", custom)
	}
}

func TestReduceReduceConflict(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.lr")
	defer teardown()
	//
	b := lr.NewGrammarBuilder("RR")
	x := newTerm("x")
	S := b.NonTerminal("S")
	A := b.NonTerminal("A")
	B := b.NonTerminal("B")
	b.Rule(S).Is(A).Or(B)
	b.Rule(A).Is(x)
	b.Rule(B).Is(x)
	b.Root(S)
	a, errs := build(t, b)
	if len(a.Conflicts) != 1 || a.Conflicts[0].Kind != ReduceReduce {
		t.Fatalf("expected one reduce/reduce conflict, have %v", a.Conflicts)
	}
	if errs.Count(lr.LevelConflict) != 1 || errs.AsError(lr.LevelError) != nil {
		t.Errorf("expected conflict to be reported as non-fatal, have %v", errs)
	}
	c := a.Conflicts[0]
	if r, ok := c.State.Actions[c.Term].(*lr.ReduceAction); !ok || r.Production != A.Productions[0] {
		t.Errorf("expected first production to win, have %v", c.State.Actions[c.Term])
	}
}

func TestNullableReadSets(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.lr")
	defer teardown()
	//
	b := lr.NewGrammarBuilder("Nullable")
	S := b.NonTerminal("S")
	A := b.NonTerminal("A")
	B := b.NonTerminal("B")
	b.Rule(S).Is(A, B, "c")
	b.Rule(A).Is("a").Empty()
	b.Rule(B).Is("b").Empty()
	b.Root(S)
	a, _ := build(t, b)
	s0 := a.Data.InitialState
	checkTerms(t, a.Lookaheads(s0, A.Productions[1]), "b", "c")
	sA := shift(t, s0, A)
	checkTerms(t, a.Lookaheads(sA, B.Productions[1]), "c")
	if r, ok := s0.Actions[b.Key("c")].(*lr.ReduceAction); !ok || r.Production != A.Productions[1] {
		t.Errorf("expected reduce A ➞ ε on 'c' in initial state")
	}
}

func TestExport(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.lr")
	defer teardown()
	//
	b, nts := exprGrammar()
	a, _ := build(t, b)
	var dot bytes.Buffer
	if err := WriteGraphViz(&dot, a); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(dot.String(), "digraph {") || !strings.Contains(dot.String(), "s000 -> ") {
		t.Errorf("unexpected GraphViz output:\n%s", dot.String())
	}
	var html bytes.Buffer
	if err := WriteActionTableHTML(&html, a); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(html.String(), "<table") {
		t.Errorf("expected an HTML table")
	}
	table := a.ActionTable()
	sT := shift(t, a.Data.InitialState, nts.T)
	col := -1
	for j, term := range table.Terms {
		if term == lr.BnfTerm(nts.T) {
			col = j
		}
	}
	if e := table.Entry(a.Data.InitialState.Index, col); e != "s"+strings.TrimPrefix(sT.Name, "S") {
		t.Errorf("expected shift entry to %s, have %q", sT, e)
	}
}
