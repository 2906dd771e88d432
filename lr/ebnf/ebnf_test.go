package ebnf

import (
	"strings"
	"testing"

	"github.com/npillmayer/parsekit/lr"
	"github.com/npillmayer/parsekit/lr/language"
	"github.com/npillmayer/parsekit/lr/parser"
	"github.com/npillmayer/parsekit/lr/terminals"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const assignments = `
Program    = Statement { Statement } .
Statement  = ident "=" Expr ";" .
Expr       = Term { "+" Term } .
Term       = ident | number .
ident      = letter { letter | digit } .
letter     = "a" … "z" .
digit      = "0" … "9" .
number     = digit { digit } .
`

func TestLoadAndParse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.lr")
	defer teardown()
	//
	b, err := Load(strings.NewReader(assignments), "assignments.ebnf", "Program")
	require.NoError(t, err)
	b.Punctuation("=", ";")
	g, err := b.Grammar()
	require.NoError(t, err)
	lang, err := language.Build(g)
	require.NoError(t, err)
	tree := parser.New(lang).Parse("a = b + 1; c2 = 22;", "test")
	require.False(t, tree.HasErrors(), "%v", tree.Messages)
	root := tree.Root
	assert.Equal(t, "Program", root.Term.String())
	require.Len(t, root.Children, 2)
	assert.True(t, root.Children[1].Term.Base().Is(lr.IsList))
	assert.Len(t, root.Children[1].Children, 1)
	var idents []string
	root.Each(func(node *lr.ParseTreeNode, depth int) {
		if node.Token != nil && node.Term.String() == "ident" {
			idents = append(idents, node.Text())
		}
	})
	assert.Equal(t, []string{"a", "b", "c2"}, idents)
}

func TestSuppliedTerminals(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.lr")
	defer teardown()
	//
	src := `
List = "(" [ Item { "," Item } ] ")" .
Item = number | name .
`
	g, err := LoadGrammar(strings.NewReader(src), "list.ebnf", "List",
		WithTerminal("number", terminals.NewNumberLiteral("number")),
		WithTerminal("name", terminals.NewIdentifier("name")))
	require.NoError(t, err)
	lang, err := language.Build(g)
	require.NoError(t, err)
	p := parser.New(lang)
	tree := p.Parse("(1, x, 3)", "test")
	require.False(t, tree.HasErrors(), "%v", tree.Messages)
	var numbers []interface{}
	tree.Root.Each(func(node *lr.ParseTreeNode, depth int) {
		if node.Token != nil && node.Term.String() == "number" {
			numbers = append(numbers, node.Token.Value)
		}
	})
	assert.Equal(t, []interface{}{int32(1), int32(3)}, numbers)
	tree = p.Parse("()", "test")
	assert.False(t, tree.HasErrors(), "%v", tree.Messages)
}

func TestLoadErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.lr")
	defer teardown()
	//
	_, err := Load(strings.NewReader(`S = T .`), "missing.ebnf", "S")
	assert.Error(t, err)
	_, err = Load(strings.NewReader(`s = "x" .`), "lexical.ebnf", "s")
	assert.Error(t, err)
	_, err = Load(strings.NewReader(`S = "x" `), "syntax.ebnf", "S")
	assert.Error(t, err)
}
