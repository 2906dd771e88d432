package lr

import (
	"fmt"
	"time"

	"github.com/npillmayer/parsekit"
)

// ParseTreeNode is a node of a parse tree. Leaf nodes carry a token,
// inner nodes carry the non-terminal of the reduced production.
type ParseTreeNode struct {
	Term          BnfTerm
	Token         *Token // nil for inner nodes
	Children      []*ParseTreeNode
	Span          parsekit.Span
	State         *ParserState // parser state while the node is on the parser stack
	Precedence    int
	Associativity Associativity
	Comments      []*Token // comments preceding the node
	AstNode       interface{}
	IsError       bool
}

// NewTokenNode creates a leaf node for a token.
func NewTokenNode(tok *Token) *ParseTreeNode {
	n := &ParseTreeNode{
		Term:  tok.Terminal,
		Token: tok,
		Span:  tok.Span(),
	}
	bt := tok.Terminal.Base()
	n.Precedence = bt.Precedence
	n.Associativity = bt.Associativity
	n.IsError = tok.IsError()
	return n
}

// NewNode creates an inner node.
func NewNode(term BnfTerm, span parsekit.Span) *ParseTreeNode {
	return &ParseTreeNode{Term: term, Span: span}
}

// IsPunctuationOrEmptyTransient is true for nodes which are dropped when
// building parent nodes.
func (n *ParseTreeNode) IsPunctuationOrEmptyTransient() bool {
	bt := n.Term.Base()
	if bt.Is(IsPunctuation) {
		return true
	}
	return bt.Is(IsTransient) && len(n.Children) == 0 && n.Token == nil
}

// Text returns the token text for leaf nodes, and "" for inner nodes.
func (n *ParseTreeNode) Text() string {
	if n.Token == nil {
		return ""
	}
	return n.Token.Text
}

// Each walks the tree in pre-order, calling f for every node together
// with its depth.
func (n *ParseTreeNode) Each(f func(node *ParseTreeNode, depth int)) {
	var walk func(*ParseTreeNode, int)
	walk = func(node *ParseTreeNode, depth int) {
		f(node, depth)
		for _, ch := range node.Children {
			walk(ch, depth+1)
		}
	}
	walk(n, 0)
}

func (n *ParseTreeNode) String() string {
	if n.Token != nil {
		if n.Token.IsError() {
			return fmt.Sprintf("%s (%v)", n.Term, n.Token.Value)
		}
		if kt, ok := n.Term.(*KeyTerm); ok && kt.Text == n.Token.Text {
			return n.Token.Text
		}
		return fmt.Sprintf("%s (%s)", n.Token.Text, n.Term)
	}
	return n.Term.String()
}

// ParseTreeStatus is the status of a parse tree.
type ParseTreeStatus int8

// Parse tree states.
const (
	TreeParsing ParseTreeStatus = iota
	TreeParsed
	TreeError
)

func (s ParseTreeStatus) String() string {
	switch s {
	case TreeParsing:
		return "parsing"
	case TreeParsed:
		return "parsed"
	}
	return "error"
}

// ParseTree is the result of parsing an input text.
type ParseTree struct {
	Root       *ParseTreeNode
	SourceText string
	FileName   string
	Tokens     []*Token
	Messages   parsekit.LogMessages
	Status     ParseTreeStatus
	ParseTime  time.Duration
}

// NewParseTree creates an empty tree for a source text.
func NewParseTree(source, fileName string) *ParseTree {
	return &ParseTree{SourceText: source, FileName: fileName}
}

// HasErrors checks for error messages.
func (t *ParseTree) HasErrors() bool {
	return t.Messages.HasErrors()
}
