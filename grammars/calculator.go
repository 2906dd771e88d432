package grammars

import (
	"fmt"
	"strings"

	"github.com/npillmayer/parsekit"
	"github.com/npillmayer/parsekit/ast"
	"github.com/npillmayer/parsekit/lr"
	"github.com/npillmayer/parsekit/lr/language"
	"github.com/npillmayer/parsekit/lr/parser"
	"github.com/npillmayer/parsekit/lr/terminals"
	"github.com/npillmayer/parsekit/runtime"
)

// CalculatorGrammar returns the grammar of the calculator language:
//
//    Program    ➞ ε  |  Statement { ; Statement }
//    Statement  ➞ Assignment  |  Expr
//    Assignment ➞ id = Expr
//    Expr       ➞ Expr op Expr  |  - Expr  |  ! Expr  |  ( Expr )
//                 |  number  |  string  |  id  |  true  |  false
//
// Operators have the usual precedence. Comments start with '#' and extend
// to the end of the line.
func CalculatorGrammar() (*lr.Grammar, error) {
	b := lr.NewGrammarBuilder("Calculator")
	prog := b.NonTerminal("Program")
	stmt := b.NonTerminal("Statement")
	assign := b.NonTerminal("Assignment")
	expr := b.NonTerminal("Expr")
	unary := b.NonTerminal("Unary")
	number := terminals.NewNumberLiteral("number")
	str := terminals.NewStringLiteral("string", `"`, `"`)
	str.AddSubType("'", "'", terminals.StringIsChar)
	id := terminals.NewIdentifier("id")
	//
	b.Star(prog, ";", stmt)
	b.Rule(stmt).Is(assign).Or(expr)
	b.Rule(assign).Is(id, "=", expr)
	b.Rule(expr).Is(expr, "||", expr).Or(expr, "&&", expr)
	for _, op := range []string{"==", "!=", "<", "<=", ">", ">=", "+", "-", "*", "/", "%"} {
		b.Rule(expr).Or(expr, op, expr)
	}
	b.Rule(expr).Or(unary).Or("(", expr, ")").Or(number).Or(str).Or(id).Or("true").Or("false")
	b.Rule(unary).Is("-", expr).Or("!", expr)
	//
	b.Operators(1, lr.Left, "||")
	b.Operators(2, lr.Left, "&&")
	b.Operators(3, lr.Left, "==", "!=", "<", "<=", ">", ">=")
	b.Operators(4, lr.Left, "+", "-")
	b.Operators(5, lr.Left, "*", "/", "%")
	b.Operators(6, lr.Right, "!")
	b.Punctuation(";", "=", "(", ")")
	b.Brackets("(", ")")
	b.ReservedWords("true", "false")
	b.Transient(stmt, expr)
	b.NonGrammar(terminals.NewCommentTerminal("comment", "#", "\n", "\r\n"))
	b.Root(prog)
	return b.Grammar()
}

// ParseError is returned for input with syntax errors.
type ParseError struct {
	Messages parsekit.LogMessages
}

func (e *ParseError) Error() string {
	msgs := make([]string, len(e.Messages))
	for i, m := range e.Messages {
		msgs[i] = m.String()
	}
	return strings.Join(msgs, "\n")
}

// Calculator is the calculator language together with its AST builder.
// It is immutable and may be used concurrently, with one thread per
// evaluation.
type Calculator struct {
	Language *language.Language
	builder  *ast.Builder
}

// NewCalculator builds the calculator language.
func NewCalculator() (*Calculator, error) {
	g, err := CalculatorGrammar()
	if err != nil {
		return nil, err
	}
	lang, err := language.Build(g)
	if err != nil {
		return nil, err
	}
	c := &Calculator{Language: lang, builder: ast.NewBuilder()}
	for _, nt := range g.NonTerminals() {
		switch nt.Name {
		case "Expr":
			c.builder.Register(nt, ast.BinaryExpression)
		case "Unary":
			c.builder.Register(nt, ast.UnaryExpression)
		case "Assignment":
			c.builder.Register(nt, ast.AssignmentStatement)
		}
	}
	c.builder.Register(g.KeyTerm("true"), boolLiteral(true))
	c.builder.Register(g.KeyTerm("false"), boolLiteral(false))
	tracer().Infof("calculator language ready")
	return c, nil
}

func boolLiteral(b bool) ast.Factory {
	return func(pn *lr.ParseTreeNode, children []ast.Node) (ast.Node, error) {
		return ast.NewLiteral(runtime.BoolValue(b), pn.Span), nil
	}
}

// Parse parses calculator input.
func (c *Calculator) Parse(source, fileName string, opts ...parser.Option) *lr.ParseTree {
	return parser.New(c.Language, opts...).Parse(source, fileName)
}

// Compile parses calculator input and builds an AST for it.
func (c *Calculator) Compile(source, fileName string) (ast.Node, *lr.ParseTree, error) {
	tree := c.Parse(source, fileName)
	if tree.HasErrors() {
		return nil, tree, &ParseError{Messages: tree.Messages}
	}
	root, err := c.builder.Build(tree)
	if err != nil {
		return nil, tree, fmt.Errorf("%s: %w", fileName, err)
	}
	return root, tree, nil
}

// Eval compiles and runs calculator input on thread th. Variables persist
// between calls on the same thread.
func (c *Calculator) Eval(th *ast.Thread, source, fileName string) (runtime.Value, error) {
	root, _, err := c.Compile(source, fileName)
	if err != nil {
		return runtime.NoneValue, err
	}
	return th.Run(root)
}
