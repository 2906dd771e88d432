/*
Package lr implements the grammar model and the shared data types for LALR(1)
parsing.

Building a Grammar

Grammars are composed from BNF terms: non-terminals, key terms (fixed
symbols like "+" or "while") and terminals recognizing classes of tokens
(numbers, identifiers, strings, see package lr/terminals). Grammars are
specified using an explicit grammar builder object; there is no global or
per-goroutine "current grammar".

Example:

    b := lr.NewGrammarBuilder("Expressions")
    number := terminals.NewNumberLiteral("number")
    expr := b.NonTerminal("Expr")
    binop := b.NonTerminal("BinOp", lr.IsTransient)
    b.Rule(expr).Is(number).Or(expr, binop, expr).Or("(", expr, ")")
    b.Rule(binop).Is("+").Or("-").Or("*").Or("/")
    b.Operators(1, lr.Left, "+", "-")
    b.Operators(2, lr.Left, "*", "/")
    b.Punctuation("(", ")")
    b.Root(expr)
    g, err := b.Grammar()

Grammar Analysis

BuildGrammarData augments the grammar with a start production
Expr' ➞ Expr EOF, collects all terms reachable from the root, creates
productions and LR(0) items and computes nullability. Problems are collected
in a GrammarErrorList, tagged with a severity level. Nothing is thrown at
clients: construction errors travel as values.

Parser Data

The LALR(1) automaton (package lr/lalr) is represented by ParserState values,
each holding a map from terms to ParserActions. Actions are plain data; the
parser driver (package lr/parser) executes them.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lr

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'parsekit.lr'.
func tracer() tracing.Trace {
	return tracing.Select("parsekit.lr")
}
