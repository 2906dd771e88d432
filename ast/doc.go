/*
Package ast builds abstract syntax trees from parse trees and evaluates them
with a tree-walking interpreter.

An AST is built bottom-up from a parse tree. Clients register a factory
function per grammar term; the builder calls the factory with the parse
tree node and the AST nodes already built for its children:

    b := ast.NewBuilder()
    b.Register(expr, ast.BinaryExpression)
    b.Register(assignment, ast.AssignmentStatement)
    root, err := b.Build(tree)
    ...
    th := ast.NewThread(runtime.NewRuntimeEnvironment(nil))
    v, err := th.Run(root)

Terms without a factory get a default treatment: literal tokens become
Literals, identifier tokens become Identifiers, list non-terminals become
StatementLists and inner nodes with exactly one child node are replaced by
that child. Terms flagged NoAstNode, as well as punctuation and key terms,
produce no AST node. The result is stored in the AstNode field of every
parse tree node.

Evaluation errors are of type *RuntimeError, carrying the source location of
the failing node and wrapping the cause, e.g. a *runtime.OperatorError.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package ast

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'parsekit.ast'.
func tracer() tracing.Trace {
	return tracing.Select("parsekit.ast")
}
