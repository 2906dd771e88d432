package lr

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// A small test terminal, matching a single lower-case letter.
type letterTerm struct {
	TerminalBase
}

func newLetter(name string) *letterTerm {
	return &letterTerm{TerminalBase: MakeTerminalBase(name, CategoryContent)}
}

func (l *letterTerm) Firsts() []string { return nil }

func (l *letterTerm) TryMatch(ctx *ScanContext, src *SourceStream) *Token {
	r := src.PreviewChar()
	if r < 'a' || r > 'z' {
		return nil
	}
	src.Advance()
	return src.CreateToken(l, string(r))
}

func makeExprGrammar(t *testing.T) (*Grammar, map[string]*NonTerminal) {
	b := NewGrammarBuilder("G")
	id := newLetter("id")
	E := b.NonTerminal("E")
	T := b.NonTerminal("T")
	F := b.NonTerminal("F")
	b.Rule(E).Is(E, "+", T).Or(T)
	b.Rule(T).Is(T, "*", F).Or(F)
	b.Rule(F).Is("(", E, ")").Or(id)
	b.Root(E)
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return g, map[string]*NonTerminal{"E": E, "T": T, "F": F}
}

func TestGrammarBuilder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.lr")
	defer teardown()
	//
	g, nts := makeExprGrammar(t)
	if len(nts["E"].Rule.Alternatives) != 2 {
		t.Errorf("expected E to have 2 alternatives, has %d", len(nts["E"].Rule.Alternatives))
	}
	plus := g.KeyTerm("+")
	if plus == nil {
		t.Fatalf("expected key term '+' to be cached by grammar")
	}
	if g.KeyTerm("+") != plus {
		t.Errorf("expected key terms to be unique per grammar")
	}
	if len(g.NonTerminals()) != 3 {
		t.Errorf("expected 3 non-terminals, have %d", len(g.NonTerminals()))
	}
}

func TestGrammarBuilderErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("Broken")
	S := b.NonTerminal("S")
	A := b.NonTerminal("A")
	b.Rule(S).Is(A, 42)
	b.Root(S)
	b.Root(A)
	_, err := b.Grammar()
	if err == nil {
		t.Fatalf("expected builder to report errors")
	}
	if !strings.Contains(err.Error(), "unsupported operand") {
		t.Errorf("expected error for unsupported operand, got %v", err)
	}
	if !strings.Contains(err.Error(), "duplicate start symbol") {
		t.Errorf("expected error for duplicate start symbol, got %v", err)
	}
	//
	b = NewGrammarBuilder("No Root")
	_, err = b.Grammar()
	if err == nil {
		t.Errorf("expected missing root to be an error")
	}
}

func TestGrammarData(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.lr")
	defer teardown()
	//
	g, _ := makeExprGrammar(t)
	var errs GrammarErrorList
	gd := BuildGrammarData(g, &errs)
	if errs.MaxLevel() >= LevelError {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if gd.AugmentedRoot.Name != "E'" {
		t.Errorf("expected augmented root E', got %s", gd.AugmentedRoot.Name)
	}
	if len(gd.Productions) != 7 {
		t.Errorf("expected 7 productions (incl. augmented), have %d", len(gd.Productions))
	}
	p0 := gd.Productions[0]
	if !p0.Is(ProdIsInitial) || p0.RValues[1] != BnfTerm(g.EOF) {
		t.Errorf("expected first production to be E' ➞ E EOF, is %v", p0)
	}
	// 7 productions: 3 + 4 + 2 + 4 + 2 + 4 + 2 items
	if gd.ItemCount != 21 {
		t.Errorf("expected 21 LR(0) items, have %d", gd.ItemCount)
	}
	seen := make(map[int]bool)
	for _, p := range gd.Productions {
		if len(p.LR0Items) != len(p.RValues)+1 {
			t.Errorf("production %v has %d items", p, len(p.LR0Items))
		}
		for _, it := range p.LR0Items {
			if seen[it.ID] {
				t.Errorf("duplicate item ID %d", it.ID)
			}
			seen[it.ID] = true
		}
	}
	// terminals: EOF, +, *, (, ), id, SyntaxError
	if len(gd.Terminals) != 7 {
		t.Errorf("expected 7 terminals, have %d: %v", len(gd.Terminals), gd.Terminals)
	}
}

func TestItemPredicates(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.lr")
	defer teardown()
	//
	g, nts := makeExprGrammar(t)
	var errs GrammarErrorList
	BuildGrammarData(g, &errs)
	p := nts["E"].Productions[0] // E ➞ E + T
	i0, i3 := p.LR0Items[0], p.LR0Items[3]
	if !i0.IsInitial() || i0.IsKernel() || i0.IsFinal() {
		t.Errorf("predicates wrong for %v", i0)
	}
	if i3.IsInitial() || !i3.IsKernel() || !i3.IsFinal() {
		t.Errorf("predicates wrong for %v", i3)
	}
	if i0.ShiftedItem() != p.LR0Items[1] || i3.ShiftedItem() != nil {
		t.Errorf("shifted items wrong for %v", p)
	}
	if i0.Current() != BnfTerm(nts["E"]) {
		t.Errorf("expected E to be current term of %v", i0)
	}
	if i3.String() != "E ➞ E + T •" {
		t.Errorf("unexpected item string %q", i3.String())
	}
}

func TestNullability(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("Nullable")
	x := newLetter("x")
	S := b.NonTerminal("S")
	A := b.NonTerminal("A")
	B := b.NonTerminal("B")
	b.Rule(S).Is(A, B, x)
	b.Rule(A).Is(x).Empty()
	b.Rule(B).Is(A, A)
	b.Root(S)
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	var errs GrammarErrorList
	BuildGrammarData(g, &errs)
	if !A.Is(IsNullable) || !B.Is(IsNullable) || S.Is(IsNullable) {
		t.Errorf("nullability wrong: A=%v B=%v S=%v", A.Is(IsNullable), B.Is(IsNullable), S.Is(IsNullable))
	}
	p := S.Productions[0] // S ➞ A B x
	if p.LR0Items[0].TailIsNullable {
		t.Errorf("tail after A is 'B x', not nullable")
	}
	if !p.LR0Items[2].TailIsNullable || !p.LR0Items[3].TailIsNullable {
		t.Errorf("tail after x is empty, should be nullable")
	}
	q := B.Productions[0] // B ➞ A A
	if !q.LR0Items[0].TailIsNullable {
		t.Errorf("tail after first A in B ➞ A A should be nullable")
	}
}

func TestGrammarDataErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("Errors")
	S := b.NonTerminal("S")
	U := b.NonTerminal("Undefined")
	b.Rule(S).Is(U, "")
	b.Root(S)
	g, _ := b.Grammar()
	var errs GrammarErrorList
	BuildGrammarData(g, &errs)
	if errs.Count(LevelError) != 2 {
		t.Errorf("expected 2 errors (no rule, empty key term), have %v", errs)
	}
	if errs.AsError(LevelError) == nil {
		t.Errorf("expected error list to convert to an error")
	}
}

func TestHintsAttachToItems(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("Hints")
	x := newLetter("x")
	S := b.NonTerminal("S")
	b.Rule(S).Is("if", x, "then", S, PreferShift(), "else", S).Or("if", x, "then", S).Or(x, PreferReduce())
	b.Root(S)
	g, _ := b.Grammar()
	var errs GrammarErrorList
	BuildGrammarData(g, &errs)
	p := S.Productions[0]
	if len(p.RValues) != 6 {
		t.Fatalf("hints must not be part of productions: %v", p)
	}
	if len(p.LR0Items[4].Hints) != 1 || p.LR0Items[4].Current().String() != "else" {
		t.Errorf("expected shift hint at item %v", p.LR0Items[4])
	}
	q := S.Productions[2]
	if len(q.LR0Items[1].Hints) != 1 || !q.LR0Items[1].IsFinal() {
		t.Errorf("expected reduce hint at final item of %v", q)
	}
}

func TestListRules(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("Lists")
	x := newLetter("x")
	L := b.NonTerminal("L")
	M := b.NonTerminal("M")
	b.Plus(L, ",", x)
	b.Star(M, ";", x)
	if !L.Is(IsList) || !M.Is(IsListContainer) {
		t.Errorf("list flags not set")
	}
	if L.Rule.String() != "x | L , x" {
		t.Errorf("unexpected rule for L: %s", L.Rule)
	}
	if len(M.Rule.Alternatives) != 2 || len(M.Rule.Alternatives[0]) != 0 {
		t.Errorf("unexpected rule for M: %s", M.Rule)
	}
}

func TestTermSet(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.lr")
	defer teardown()
	//
	a, b, c := NewKeyTerm("b"), NewKeyTerm("a"), NewKeyTerm("c")
	s := NewTermSet(a, b, c)
	if s.Add(a) {
		t.Errorf("expected duplicate add to return false")
	}
	s.Remove(b)
	if s.Len() != 2 || s.Terms()[0] != BnfTerm(a) || s.Terms()[1] != BnfTerm(c) {
		t.Errorf("unexpected set after remove: %v", s.Terms())
	}
	s.Add(b)
	sorted := s.Sorted()
	if sorted[0].String() != "a" || sorted[2].String() != "c" {
		t.Errorf("expected sorted terms, got %v", sorted)
	}
}
