package terminals

import (
	"math/big"
	"testing"

	"github.com/npillmayer/parsekit/lr"
	"github.com/npillmayer/parsekit/lr/language"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func match(term lr.Terminal, ctx *lr.ScanContext, input string) *lr.Token {
	if ctx == nil {
		ctx = &lr.ScanContext{}
	}
	return term.TryMatch(ctx, lr.NewSourceStream(input, 4))
}

func TestNumberLiterals(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.scanner")
	defer teardown()
	//
	n := NewCNumber("number")
	big64, _ := new(big.Int).SetString("9223372036854775808", 10)
	for i, test := range []struct {
		input string
		text  string
		value interface{}
	}{
		{"7", "7", int32(7)},
		{"42;", "42", int32(42)},
		{"2147483648", "2147483648", int64(2147483648)},
		{"9223372036854775808", "9223372036854775808", big64},
		{"3.14 ", "3.14", 3.14},
		{"1e3", "1e3", 1000.0},
		{"2.5e-1", "2.5e-1", 0.25},
		{"0x1F", "0x1F", int32(31)},
		{"0b101", "0b101", int32(5)},
		{"0x1Fu", "0x1Fu", uint32(31)},
		{"10l", "10l", int64(10)},
		{"2.5f", "2.5f", float32(2.5)},
		{"3i", "3i", complex(0, 3)},
		{"1..2", "1", int32(1)},
	} {
		tok := match(n, nil, test.input)
		require.NotNil(t, tok, "test #%d: %q", i, test.input)
		require.False(t, tok.IsError(), "test #%d: %q: %v", i, test.input, tok.Value)
		assert.Equal(t, test.text, tok.Text, "test #%d", i)
		assert.Equal(t, test.value, tok.Value, "test #%d", i)
	}
}

func TestNumberErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.scanner")
	defer teardown()
	//
	n := NewCNumber("number")
	tok := match(n, nil, "12abc")
	require.NotNil(t, tok)
	assert.True(t, tok.IsError())
	assert.Equal(t, "number cannot be followed by a letter", tok.Value)
	tok = match(n, nil, "0b2")
	require.NotNil(t, tok)
	assert.True(t, tok.IsError())
	if tok = match(n, nil, "abc"); tok != nil {
		t.Errorf("expected no match for 'abc', got %v", tok)
	}
}

func TestStringLiterals(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.scanner")
	defer teardown()
	//
	s := NewStringLiteral("string", `"`, `"`)
	s.AddSubType("'", "'", StringIsChar)
	for i, test := range []struct {
		input string
		text  string
		value interface{}
	}{
		{`"abc" + x`, `"abc"`, "abc"},
		{`"a\tb"`, `"a\tb"`, "a\tb"},
		{`"a\"b"`, `"a\"b"`, `a"b`},
		{`"ä"`, `"ä"`, "ä"},
		{`'x'`, `'x'`, 'x'},
	} {
		tok := match(s, nil, test.input)
		require.NotNil(t, tok, "test #%d", i)
		require.False(t, tok.IsError(), "test #%d: %v", i, tok.Value)
		assert.Equal(t, test.text, tok.Text, "test #%d", i)
		assert.Equal(t, test.value, tok.Value, "test #%d", i)
	}
	for _, input := range []string{`"abc`, `'xy'`, `"\q"`, "\"ab\ncd\""} {
		tok := match(s, nil, input)
		require.NotNil(t, tok, input)
		assert.True(t, tok.IsError(), "expected error token for %q, got %v", input, tok)
	}
}

func TestDoubledQuotes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.scanner")
	defer teardown()
	//
	s := NewStringLiteral("string", `"`, `"`, StringAllowsDoubledQuote|StringNoEscapes)
	tok := match(s, nil, `"say ""hi""" x`)
	require.NotNil(t, tok)
	assert.Equal(t, `"say ""hi"""`, tok.Text)
	assert.Equal(t, `say "hi"`, tok.Value)
}

func TestPartialString(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.scanner")
	defer teardown()
	//
	s := NewStringLiteral("doc", `"""`, `"""`, StringAllowsLineBreak|StringNoEscapes)
	s.MultilineIndex = 1
	ctx := &lr.ScanContext{Partial: true}
	tok := match(s, ctx, `"""abc`)
	require.NotNil(t, tok)
	assert.True(t, tok.IsIncomplete())
	assert.Equal(t, 1, ctx.State.TerminalIndex())
	tok = match(s, ctx, `def""" rest`)
	require.NotNil(t, tok)
	assert.False(t, tok.IsIncomplete())
	assert.Equal(t, `def"""`, tok.Text)
	assert.False(t, ctx.State.IsContinuation())
}

func TestIdentifiers(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.scanner")
	defer teardown()
	//
	b := lr.NewGrammarBuilder("G")
	b.Key("while")
	b.ReservedWords("if")
	g, _ := b.Grammar()
	ctx := &lr.ScanContext{Grammar: g}
	id := NewIdentifier("identifier")
	tok := match(id, ctx, "foo_1 bar")
	require.NotNil(t, tok)
	assert.Equal(t, "foo_1", tok.Text)
	assert.Nil(t, tok.KeyTerm)
	tok = match(id, ctx, "größe=1")
	require.NotNil(t, tok)
	assert.Equal(t, "größe", tok.Text)
	tok = match(id, ctx, "while")
	require.NotNil(t, tok)
	assert.Equal(t, g.KeyTerm("while"), tok.KeyTerm)
	assert.Equal(t, lr.Terminal(id), tok.Terminal)
	tok = match(id, ctx, "if(")
	require.NotNil(t, tok)
	assert.Equal(t, lr.Terminal(g.KeyTerm("if")), tok.Terminal)
	if tok = match(id, ctx, "1abc"); tok != nil {
		t.Errorf("identifier must not start with a digit, got %v", tok)
	}
}

func TestComments(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.scanner")
	defer teardown()
	//
	line := NewCommentTerminal("line-comment", "//", "\n")
	block := NewCommentTerminal("block-comment", "/*", "*/")
	assert.True(t, line.IsLineComment())
	assert.True(t, block.Is(lr.IsMultiline))
	tok := match(line, nil, "// abc\nx")
	require.NotNil(t, tok)
	assert.Equal(t, "// abc", tok.Text)
	assert.Equal(t, lr.CategoryComment, tok.Category())
	tok = match(line, nil, "// at end")
	require.NotNil(t, tok)
	assert.Equal(t, "// at end", tok.Text)
	tok = match(block, nil, "/* a\n b */ x")
	require.NotNil(t, tok)
	assert.Equal(t, "/* a\n b */", tok.Text)
	tok = match(block, nil, "/* a")
	require.NotNil(t, tok)
	assert.True(t, tok.IsError())
	assert.Nil(t, match(block, nil, "/ a"))
}

func TestPartialComment(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.scanner")
	defer teardown()
	//
	block := NewCommentTerminal("block-comment", "/*", "*/")
	block.MultilineIndex = 1
	ctx := &lr.ScanContext{Partial: true}
	tok := match(block, ctx, "/* abc")
	require.NotNil(t, tok)
	assert.True(t, tok.IsIncomplete())
	assert.Equal(t, lr.PackScannerState(1, 0, 0), ctx.State)
	tok = match(block, ctx, "*/")
	require.NotNil(t, tok)
	assert.Equal(t, "*/", tok.Text)
	assert.Equal(t, lr.ScannerState(0), ctx.State)
}

func TestRegexTerminal(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.scanner")
	defer teardown()
	//
	color := NewRegexTerminal("color", `#[0-9a-fA-F]+`, "#")
	errs := lr.GrammarErrorList{}
	color.Init(nil, &errs)
	require.Empty(t, errs)
	tok := match(color, nil, "#ff00aa;")
	require.NotNil(t, tok)
	assert.Equal(t, "#ff00aa", tok.Text)
	assert.Nil(t, match(color, nil, "#zz"))
	//
	broken := NewRegexTerminal("broken", `[a-`)
	broken.Init(nil, &errs)
	assert.Equal(t, lr.LevelError, errs.MaxLevel())
	assert.Nil(t, match(broken, nil, "abc"))
}

func TestMalformedRegexInGrammar(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.scanner")
	defer teardown()
	//
	b := lr.NewGrammarBuilder("Broken Regex")
	S := b.NonTerminal("S")
	b.Rule(S).Is(NewRegexTerminal("broken", `[a-`), ";")
	b.Root(S)
	g, err := b.Grammar()
	require.NoError(t, err)
	var lang *language.Language
	require.NotPanics(t, func() {
		lang, err = language.Build(g)
	})
	require.Error(t, err)
	assert.Equal(t, lr.LevelError, lang.Errors.MaxLevel())
	assert.False(t, lang.CanParse())
}

func TestEmptyAffix(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.scanner")
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelError)
	//
	n := NewNumberLiteral("number")
	n.AddPrefix("", NumberHex)
	errs := lr.GrammarErrorList{}
	n.Init(nil, &errs)
	if errs.MaxLevel() != lr.LevelError {
		t.Errorf("expected error for empty prefix, got %v", errs)
	}
}
