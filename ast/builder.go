package ast

import (
	"errors"
	"fmt"

	"github.com/npillmayer/parsekit/lr"
	"github.com/npillmayer/parsekit/lr/terminals"
	"github.com/npillmayer/parsekit/runtime"
)

// Factory creates an AST node for a parse tree node. children holds the AST
// nodes built for the children of pn, index-aligned with pn.Children;
// entries are nil for children without an AST node. A factory may return
// nil to suppress the node.
type Factory func(pn *lr.ParseTreeNode, children []Node) (Node, error)

// Builder creates ASTs from parse trees. Factories have to be registered
// before building; a builder may then be used for any number of trees.
type Builder struct {
	factories map[lr.BnfTerm]Factory
}

// NewBuilder creates an AST builder without any factories.
func NewBuilder() *Builder {
	return &Builder{factories: make(map[lr.BnfTerm]Factory)}
}

// Register sets the factory for a grammar term.
func (b *Builder) Register(term lr.BnfTerm, f Factory) {
	if term == nil || f == nil {
		return
	}
	tracer().Debugf("registering AST factory for %s", term)
	b.factories[term] = f
}

// Build creates an AST for a parse tree. Trees with errors are rejected.
func (b *Builder) Build(tree *lr.ParseTree) (Node, error) {
	if tree == nil || tree.Root == nil {
		return nil, errors.New("no parse tree")
	}
	if tree.HasErrors() {
		return nil, fmt.Errorf("cannot build AST for %s: parse tree has errors", tree.FileName)
	}
	return b.BuildNode(tree.Root)
}

// BuildNode creates an AST for a parse tree node and its descendants.
func (b *Builder) BuildNode(pn *lr.ParseTreeNode) (Node, error) {
	if pn == nil {
		return nil, nil
	}
	bt := pn.Term.Base()
	if bt.Is(lr.NoAstNode) {
		return nil, nil
	}
	children := make([]Node, len(pn.Children))
	count := 0
	for i, ch := range pn.Children {
		n, err := b.BuildNode(ch)
		if err != nil {
			return nil, err
		}
		children[i] = n
		if n != nil {
			count++
		}
	}
	var node Node
	var err error
	if f, ok := b.factories[pn.Term]; ok {
		node, err = f(pn, children)
	} else {
		node, err = b.defaultNode(pn, children, count)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", pn.Span.Location, err)
	}
	if node != nil {
		pn.AstNode = node
	}
	return node, nil
}

func (b *Builder) defaultNode(pn *lr.ParseTreeNode, children []Node, count int) (Node, error) {
	bt := pn.Term.Base()
	if pn.Token != nil {
		if bt.Is(lr.IsPunctuation) {
			return nil, nil
		}
		return TokenNode(pn, nil)
	}
	if bt.Is(lr.IsList) || bt.Is(lr.IsListContainer) {
		return StatementListNode(pn, children)
	}
	switch count {
	case 0:
		return nil, nil
	case 1:
		return compact(children)[0], nil
	}
	return nil, fmt.Errorf("no AST factory for %s with %d child nodes", pn.Term, count)
}

func compact(children []Node) []Node {
	nodes := make([]Node, 0, len(children))
	for _, n := range children {
		if n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// --- Factories ------------------------------------------------------------

// TokenNode is a factory for leaf nodes. Identifier tokens become
// identifiers, tokens of key terms produce no node and all other tokens
// become literals of the token value.
func TokenNode(pn *lr.ParseTreeNode, children []Node) (Node, error) {
	tok := pn.Token
	if tok == nil {
		return nil, fmt.Errorf("%s is not a token", pn.Term)
	}
	switch tok.Terminal.(type) {
	case *lr.KeyTerm:
		return nil, nil
	case *terminals.IdentifierTerminal:
		return NewIdentifier(tok.Text, pn.Span), nil
	case *terminals.StringLiteral:
		if r, ok := tok.Value.(rune); ok {
			return NewLiteral(runtime.CharValue(r), pn.Span), nil
		}
	}
	v, err := runtime.ValueOf(tok.Value)
	if err != nil {
		return nil, err
	}
	return NewLiteral(v, pn.Span), nil
}

// BinaryExpression is a factory for productions 'Left op Right'. The
// operator is taken from the text of the middle child.
func BinaryExpression(pn *lr.ParseTreeNode, children []Node) (Node, error) {
	if len(pn.Children) != 3 || children[0] == nil || children[2] == nil {
		return nil, fmt.Errorf("malformed binary expression %s", pn.Term)
	}
	symbol := pn.Children[1].Text()
	op, ok := runtime.OperatorFor(symbol, false)
	if !ok {
		return nil, fmt.Errorf("unknown binary operator %q", symbol)
	}
	return &BinaryOperation{
		nodeBase: nodeBase{pn.Span},
		Op:       op,
		Symbol:   symbol,
		Left:     children[0],
		Right:    children[2],
	}, nil
}

// UnaryExpression is a factory for productions 'op Operand'.
func UnaryExpression(pn *lr.ParseTreeNode, children []Node) (Node, error) {
	if len(pn.Children) != 2 || children[1] == nil {
		return nil, fmt.Errorf("malformed unary expression %s", pn.Term)
	}
	symbol := pn.Children[0].Text()
	op, ok := runtime.OperatorFor(symbol, true)
	if !ok {
		return nil, fmt.Errorf("unknown unary operator %q", symbol)
	}
	return &UnaryOperation{
		nodeBase: nodeBase{pn.Span},
		Op:       op,
		Symbol:   symbol,
		Operand:  children[1],
	}, nil
}

// AssignmentStatement is a factory for productions 'target = Expr'. The
// assignment operator may be punctuation, which the parser drops from the
// tree.
func AssignmentStatement(pn *lr.ParseTreeNode, children []Node) (Node, error) {
	nodes := compact(children)
	if len(nodes) != 2 {
		return nil, fmt.Errorf("malformed assignment %s", pn.Term)
	}
	target, ok := nodes[0].(*Identifier)
	if !ok {
		return nil, fmt.Errorf("cannot assign to %v", nodes[0])
	}
	return &Assignment{nodeBase: nodeBase{pn.Span}, Target: target, Expr: nodes[1]}, nil
}

// StatementListNode is a factory collecting all child nodes into a
// statement list.
func StatementListNode(pn *lr.ParseTreeNode, children []Node) (Node, error) {
	return &StatementList{nodeBase: nodeBase{pn.Span}, Statements: compact(children)}, nil
}
