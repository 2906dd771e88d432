package grammars

import (
	"github.com/npillmayer/parsekit/ast"
	"github.com/npillmayer/parsekit/lr"
	"github.com/npillmayer/parsekit/lr/terminals"
)

// Expression returns the layered grammar for arithmetic expressions.
// All non-terminals are transient, so parse trees contain a node for each
// operation only.
func Expression() (*lr.Grammar, error) {
	b := lr.NewGrammarBuilder("Expression")
	expr := b.NonTerminal("Expr")
	term := b.NonTerminal("Term")
	factor := b.NonTerminal("Factor")
	sumOp := b.NonTerminal("SumOp")
	prodOp := b.NonTerminal("ProdOp")
	b.Rule(expr).Is(expr, sumOp, term).Or(term)
	b.Rule(term).Is(term, prodOp, factor).Or(factor)
	b.Rule(factor).Is(terminals.NewNumberLiteral("number")).Or("(", expr, ")")
	b.Rule(sumOp).Is("+").Or("-")
	b.Rule(prodOp).Is("*").Or("/")
	b.Punctuation("(", ")")
	b.Brackets("(", ")")
	b.Transient(expr, term, factor, sumOp, prodOp)
	b.Root(expr)
	return b.Grammar()
}

// ExpressionAST registers the AST factories for a grammar created by
// Expression.
func ExpressionAST(g *lr.Grammar, b *ast.Builder) {
	for _, nt := range g.NonTerminals() {
		if nt.Name == "Expr" || nt.Name == "Term" {
			b.Register(nt, ast.BinaryExpression)
		}
	}
}

// Assignments returns a grammar for a list of assignments of the form
// 'id = id + … + id;'.
func Assignments() (*lr.Grammar, error) {
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
	b.Transient(stmt)
	b.Root(prog)
	return b.Grammar()
}
