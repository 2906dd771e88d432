/*
Package grammars contains sample grammars, which double as documentation
for composing grammars with lr.GrammarBuilder.

Expression is a textbook grammar for arithmetic, layered into sums, products
and factors:

    Expr   ➞ Expr SumOp Term  |  Term
    Term   ➞ Term ProdOp Factor  |  Factor
    Factor ➞ number  |  ( Expr )
    SumOp  ➞ +  |  -
    ProdOp ➞ *  |  /

Assignments is a list of assignment statements with error recovery: a
malformed statement is skipped up to the next semicolon.

The calculator language is an expression language with operator precedence,
variables, strings and booleans. Calculator builds the language once and
evaluates input with an AST interpreter:

    calc, err := grammars.NewCalculator()
    ...
    th := ast.NewThread(nil)
    v, err := calc.Eval(th, "x = 6 * 7; x + 1", "input")

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package grammars

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'parsekit.lr'.
func tracer() tracing.Trace {
	return tracing.Select("parsekit.lr")
}
