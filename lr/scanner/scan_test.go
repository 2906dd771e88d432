package scanner

import (
	"testing"

	"github.com/npillmayer/parsekit/lr"
	"github.com/npillmayer/parsekit/lr/terminals"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var inputStrings = []string{
	"1",
	"1+12",
	"Hello #World",
	`x="mystring" // commented `,
	"1,22,333",
	"a ++ b + /* c */ d",
	"iffy if",
}

var tokenCounts = []int{1, 3, 2, 4, 5, 6, 2}

// testData creates scanner data for a grammar accepting a sequence of
// items.
func testData(t *testing.T, opts ...lr.GrammarOption) *Data {
	b := lr.NewGrammarBuilder("Items", opts...)
	items := b.NonTerminal("Items")
	item := b.NonTerminal("Item")
	b.Star(items, nil, item)
	number := terminals.NewNumberLiteral("number")
	str := terminals.NewStringLiteral("string", `"`, `"`)
	id := terminals.NewIdentifier("identifier")
	b.Rule(item).Is(number).Or(str).Or(id).Or("+").Or("++").Or(",").Or("=").Or("if")
	b.NonGrammar(terminals.NewCommentTerminal("comment", "//", "\n"))
	b.NonGrammar(terminals.NewCommentTerminal("block-comment", "/*", "*/"))
	b.Root(items)
	g, err := b.Grammar()
	require.NoError(t, err)
	errs := lr.GrammarErrorList{}
	gd := lr.BuildGrammarData(g, &errs)
	data := BuildData(gd, &errs)
	require.NoError(t, errs.AsError(lr.LevelError))
	return data
}

func TestScan1(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.scanner")
	defer teardown()
	//
	data := testData(t)
	for i, input := range inputStrings {
		t.Logf("------+-----------------+--------")
		scanner := New(data, ErrorHandler(func(*lr.Token) {}))
		scanner.SetSource(input)
		token := scanner.NextToken(nil)
		count := 0
		for token.Terminal != data.Grammar.Grammar.EOF {
			t.Logf(" %15s | %15s | @%5d", token.Terminal, token.Text, token.Location.Position)
			token = scanner.NextToken(nil)
			count++
		}
		if count != tokenCounts[i] {
			t.Errorf("Expected token count for #%d to be %d, is %d", i, tokenCounts[i], count)
		}
	}
	t.Logf("------+-----------------+--------")
}

func TestKeyTermsAndIdentifiers(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.scanner")
	defer teardown()
	//
	data := testData(t)
	g := data.Grammar.Grammar
	scanner := New(data)
	scanner.SetSource("iffy if ++")
	tok := scanner.NextToken(nil)
	assert.Equal(t, "iffy", tok.Text)
	assert.Nil(t, tok.KeyTerm)
	tok = scanner.NextToken(nil)
	assert.Equal(t, "if", tok.Text)
	assert.Equal(t, g.KeyTerm("if"), tok.KeyTerm)
	assert.Equal(t, "identifier", tok.Terminal.String())
	tok = scanner.NextToken(nil)
	assert.Equal(t, lr.Terminal(g.KeyTerm("++")), tok.Terminal)
}

func TestLocations(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.scanner")
	defer teardown()
	//
	scanner := New(testData(t), TabWidth(4))
	scanner.SetSource("a\n\tb")
	scanner.NextToken(nil)
	tok := scanner.NextToken(nil)
	assert.Equal(t, "b", tok.Text)
	assert.Equal(t, 1, tok.Location.Line)
	assert.Equal(t, 4, tok.Location.Column)
	assert.Equal(t, 3, tok.Location.Position)
}

func TestCaseInsensitiveLookup(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.scanner")
	defer teardown()
	//
	data := testData(t, lr.CaseSensitive(false))
	scanner := New(data)
	scanner.SetSource("IF")
	tok := scanner.NextToken(nil)
	assert.Equal(t, data.Grammar.Grammar.KeyTerm("if"), tok.KeyTerm)
	assert.Contains(t, data.Candidates('I'), lr.Terminal(data.Grammar.Grammar.KeyTerm("if")))
}

func TestInvalidCharacter(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.scanner")
	defer teardown()
	//
	var errors []*lr.Token
	scanner := New(testData(t), ErrorHandler(func(tok *lr.Token) {
		errors = append(errors, tok)
	}))
	scanner.SetSource("a $$$ b")
	scanner.NextToken(nil)
	tok := scanner.NextToken(nil)
	assert.True(t, tok.IsError())
	assert.Equal(t, "$$$", tok.Text)
	tok = scanner.NextToken(nil)
	assert.Equal(t, "b", tok.Text)
	assert.Len(t, errors, 1)
}

func TestPartialCommentIdempotence(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.scanner")
	defer teardown()
	//
	data := testData(t)
	require.Len(t, data.Multiline, 1)
	ls := NewLineScanner(data)
	line1 := ls.ScanLine("/* abc")
	require.Len(t, line1, 1)
	assert.True(t, line1[0].IsIncomplete())
	assert.True(t, ls.State().IsContinuation())
	line2 := ls.ScanLine("*/")
	require.Len(t, line2, 1)
	assert.False(t, ls.State().IsContinuation())
	//
	single := New(data)
	single.SetSource("/* abc\n*/")
	expected := single.NextToken(nil)
	require.Len(t, ls.Tokens(), 1)
	got := ls.Tokens()[0]
	assert.Equal(t, expected.Text, got.Text)
	assert.Equal(t, expected.Terminal, got.Terminal)
	assert.Equal(t, lr.CategoryComment, got.Category())
	assert.Equal(t, expected.Location, got.Location)
}

func TestLineScannerTokens(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.scanner")
	defer teardown()
	//
	ls := NewLineScanner(testData(t))
	ls.ScanLine("a /* b")
	ls.ScanLine("c")
	ls.ScanLine("d */ 42")
	tokens := ls.Tokens()
	require.Len(t, tokens, 3)
	assert.Equal(t, "/* b\nc\nd */", tokens[1].Text)
	assert.Equal(t, int32(42), tokens[2].Value)
	assert.Equal(t, 2, tokens[2].Location.Line)
}
