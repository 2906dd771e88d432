package parser

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/npillmayer/parsekit/lr"
	"github.com/npillmayer/parsekit/lr/language"
	"github.com/npillmayer/parsekit/lr/terminals"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sexpr renders a parse tree as an s-expression.
func sexpr(n *lr.ParseTreeNode) string {
	if n == nil {
		return "<nil>"
	}
	if n.Token != nil {
		return n.Token.Text
	}
	var b strings.Builder
	b.WriteString("(" + n.Term.String())
	for _, ch := range n.Children {
		b.WriteString(" " + sexpr(ch))
	}
	b.WriteString(")")
	return b.String()
}

func build(t *testing.T, b *lr.GrammarBuilder) *language.Language {
	g, err := b.Grammar()
	require.NoError(t, err)
	lang, err := language.Build(g)
	require.NoError(t, err)
	return lang
}

func exprLanguage(t *testing.T) *language.Language {
	b := lr.NewGrammarBuilder("Expressions")
	E := b.NonTerminal("Expr")
	num := terminals.NewNumberLiteral("number")
	b.Rule(E).Is(E, "+", E).Or(E, "-", E).Or(E, "*", E).Or(E, "/", E).Or("(", E, ")").Or(num)
	b.Operators(1, lr.Left, "+", "-")
	b.Operators(2, lr.Left, "*", "/")
	b.Punctuation("(", ")")
	b.Brackets("(", ")")
	b.Transient(E)
	b.NonGrammar(terminals.NewCommentTerminal("comment", "/*", "*/"))
	b.Root(E)
	return build(t, b)
}

func TestOperatorPrecedence(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.parser")
	defer teardown()
	//
	lang := exprLanguage(t)
	inputs := map[string]string{
		"1+2*3":   "(Expr 1 + (Expr 2 * 3))",
		"1*2+3":   "(Expr (Expr 1 * 2) + 3)",
		"1-2-3":   "(Expr (Expr 1 - 2) - 3)",
		"(1+2)*3": "(Expr (Expr 1 + 2) * 3)",
		"7":       "7",
	}
	p := New(lang)
	for input, expected := range inputs {
		tree := p.Parse(input, "test")
		require.Equal(t, lr.TreeParsed, tree.Status, "status for %q: %v", input, tree.Messages)
		assert.Equal(t, Accepted, p.Status())
		assert.Equal(t, expected, sexpr(tree.Root), "tree for %q", input)
	}
}

func TestSpansAndComments(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.parser")
	defer teardown()
	//
	p := New(exprLanguage(t))
	tree := p.Parse("1 + /* two */ 2", "test")
	require.False(t, tree.HasErrors(), "%v", tree.Messages)
	root := tree.Root
	require.Len(t, root.Children, 3)
	assert.Equal(t, 0, root.Span.From())
	assert.Equal(t, 15, root.Span.To())
	two := root.Children[2]
	require.Len(t, two.Comments, 1)
	assert.Equal(t, "/* two */", two.Comments[0].Text)
	assert.Len(t, tree.Tokens, 5) // 3 grammar tokens, comment and EOF
}

func TestUnmatchedBrace(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.parser")
	defer teardown()
	//
	p := New(exprLanguage(t))
	tree := p.Parse("1+2)", "test")
	assert.Equal(t, lr.TreeError, tree.Status)
	assert.Equal(t, Error, p.Status())
	require.Len(t, tree.Messages, 1)
	assert.Contains(t, tree.Messages[0].Message, "unmatched closing brace")
	assert.Equal(t, 3, tree.Messages[0].Location.Position)
}

func TestUnexpectedEOF(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.parser")
	defer teardown()
	//
	p := New(exprLanguage(t))
	tree := p.Parse("1+", "test")
	assert.Equal(t, lr.TreeError, tree.Status)
	require.Len(t, tree.Messages, 1)
	assert.Contains(t, tree.Messages[0].Message, "unexpected end of input")
	assert.Nil(t, tree.Root)
}

func TestReplay(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.parser")
	defer teardown()
	//
	lang := exprLanguage(t)
	p := New(lang, Trace(true))
	tree := p.Parse("1+2*3-(4/5)", "test")
	require.False(t, tree.HasErrors(), "%v", tree.Messages)
	steps := p.Steps()
	require.NotEmpty(t, steps)
	assert.Equal(t, lr.AcceptKind, steps[len(steps)-1].Kind)
	root, err := Replay(lang.ParserData(), steps)
	require.NoError(t, err)
	assert.Equal(t, sexpr(tree.Root), sexpr(root))
	assert.Equal(t, tree.Root.Span, root.Span)
}

func assignmentLanguage(t *testing.T) (*language.Language, *lr.NonTerminal) {
	b := lr.NewGrammarBuilder("Assignments")
	prog := b.NonTerminal("Program")
	stmt := b.NonTerminal("Statement")
	assign := b.NonTerminal("Assignment")
	expr := b.NonTerminal("Expr")
	id := terminals.NewIdentifier("id")
	b.Plus(prog, nil, stmt)
	b.Rule(stmt).Is(assign, ";").Or(b.SyntaxError(), ";")
	b.Rule(assign).Is(id, "=", expr)
	b.Rule(expr).Is(expr, "+", expr).Or(id)
	b.Operators(1, lr.Left, "+")
	b.Punctuation(";", "=")
	b.Root(prog)
	return build(t, b), stmt
}

func TestErrorRecovery(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.parser")
	defer teardown()
	//
	lang, _ := assignmentLanguage(t)
	p := New(lang)
	tree := p.Parse("x = y; m = = d ; y = z + m; x = z z; m = n;", "test")
	assert.Equal(t, Accepted, p.Status())
	assert.Equal(t, lr.TreeError, tree.Status)
	require.Len(t, tree.Messages, 2, "%v", tree.Messages)
	assert.Equal(t, 11, tree.Messages[0].Location.Position)
	assert.Equal(t, 34, tree.Messages[1].Location.Position)
	require.NotNil(t, tree.Root)
	require.Len(t, tree.Root.Children, 5)
	for i, stmt := range tree.Root.Children {
		assert.Equal(t, i == 1 || i == 3, stmt.IsError, "statement %d", i)
	}
}

func TestMaxErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.parser")
	defer teardown()
	//
	lang, _ := assignmentLanguage(t)
	p := New(lang, MaxErrors(1))
	tree := p.Parse("x = y; m = = d ; y = z + m; x = z z; m = n;", "test")
	assert.Equal(t, Error, p.Status())
	assert.Len(t, tree.Messages, 1)
	assert.Nil(t, tree.Root)
}

func TestHooks(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.parser")
	defer teardown()
	//
	lang, stmt := assignmentLanguage(t)
	reduced, shifted := 0, 0
	stmt.Reduced = func(p *lr.Production, node *lr.ParseTreeNode) {
		reduced++
	}
	lang.Grammar.KeyTerm(";").Shifting = func(node *lr.ParseTreeNode) {
		shifted++
	}
	defer func() {
		stmt.Reduced = nil
		lang.Grammar.KeyTerm(";").Shifting = nil
	}()
	tree := New(lang).Parse("a = b; c = d + e;", "test")
	require.False(t, tree.HasErrors(), "%v", tree.Messages)
	assert.Equal(t, 2, reduced)
	assert.Equal(t, 2, shifted)
}

func TestLists(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.parser")
	defer teardown()
	//
	b := lr.NewGrammarBuilder("Lists")
	items := b.NonTerminal("Items")
	b.Star(items, ",", terminals.NewIdentifier("id"))
	b.Punctuation(",")
	b.Root(items)
	p := New(build(t, b))
	tree := p.Parse("a, b, c", "test")
	require.False(t, tree.HasErrors(), "%v", tree.Messages)
	assert.Equal(t, "(Items a b c)", sexpr(tree.Root))
	tree = p.Parse("", "test")
	require.False(t, tree.HasErrors(), "%v", tree.Messages)
	assert.Equal(t, "(Items)", sexpr(tree.Root))
}

func danglingElse(t *testing.T, method lr.CustomActionMethod) *language.Language {
	b := lr.NewGrammarBuilder("If-Then-Else")
	S := b.NonTerminal("S")
	id := terminals.NewIdentifier("id")
	b.Rule(S).Is("if", id, "then", S, lr.CustomActionHere(method), "else", S)
	b.Rule(S).Or("if", id, "then", S).Or(id)
	b.Root(S)
	return build(t, b)
}

func TestCustomAction(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.parser")
	defer teardown()
	//
	calls := 0
	lang := danglingElse(t, func(ctx lr.CustomActionContext, action *lr.CustomAction) error {
		calls++
		return ctx.Execute(action.ShiftActions[0])
	})
	tree := New(lang).Parse("if a then if b then c else d", "test")
	require.False(t, tree.HasErrors(), "%v", tree.Messages)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "(S if a then (S if b then (S c) else (S d)))", sexpr(tree.Root))
}

func TestCustomActionMustAdvance(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.parser")
	defer teardown()
	//
	lang := danglingElse(t, func(ctx lr.CustomActionContext, action *lr.CustomAction) error {
		return nil
	})
	p := New(lang)
	tree := p.Parse("if a then b else c", "test")
	assert.Equal(t, Error, p.Status())
	require.Len(t, tree.Messages, 1)
	assert.Contains(t, tree.Messages[0].Message, "did not advance")
}

func TestCustomActionWithoutConflict(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.parser")
	defer teardown()
	//
	var input *lr.ParseTreeNode
	b := lr.NewGrammarBuilder("Custom")
	S := b.NonTerminal("S")
	b.Rule(S).Is("a", lr.CustomActionHere(func(ctx lr.CustomActionContext, action *lr.CustomAction) error {
		input = ctx.CurrentInput()
		return ctx.Execute(action.ShiftActions[0])
	}), terminals.NewIdentifier("id"))
	b.Root(S)
	lang := build(t, b)
	p := New(lang)
	var tree *lr.ParseTree
	require.NotPanics(t, func() {
		tree = p.Parse("a x", "test")
	})
	require.False(t, tree.HasErrors(), "%v", tree.Messages)
	assert.Equal(t, Accepted, p.Status())
	require.NotNil(t, input)
	assert.Equal(t, "x", input.Text())
	assert.Equal(t, "(S a x)", sexpr(tree.Root))
}

func TestListWithErrorMember(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.parser")
	defer teardown()
	//
	lang, _ := assignmentLanguage(t)
	tree := New(lang).Parse("a = b; c = = d; e = f;", "test")
	require.Len(t, tree.Messages, 1, "%v", tree.Messages)
	require.NotNil(t, tree.Root)
	require.Len(t, tree.Root.Children, 3)
	assert.False(t, tree.Root.Children[0].IsError)
	assert.True(t, tree.Root.Children[1].IsError)
	assert.True(t, tree.Root.IsError, "list with an erroneous member")
}

func TestLanguageWithErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.parser")
	defer teardown()
	//
	b := lr.NewGrammarBuilder("Broken")
	S := b.NonTerminal("S")
	U := b.NonTerminal("Undefined")
	b.Rule(S).Is(U)
	b.Root(S)
	g, err := b.Grammar()
	if err != nil {
		return // rejected by the builder already
	}
	lang, err := language.Build(g)
	require.Error(t, err)
	p := New(lang)
	tree := p.Parse("x", "test")
	assert.Equal(t, Error, p.Status())
	assert.True(t, tree.HasErrors())
}

func TestSharedLanguage(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.parser")
	defer teardown()
	//
	lang := exprLanguage(t)
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			p := New(lang)
			for i := 0; i < 20; i++ {
				if tree := p.Parse(fmt.Sprintf("(%d + %d) * 2", w, i), "test"); tree.HasErrors() {
					errs <- fmt.Errorf("worker %d: %v", w, tree.Messages)
					return
				}
				if tree := p.Parse("1 + * 2", "test"); len(tree.Messages) == 0 {
					errs <- fmt.Errorf("worker %d: expected a syntax error", w)
					return
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
