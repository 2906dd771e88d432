package parser

import (
	"fmt"

	"github.com/npillmayer/parsekit"
	"github.com/npillmayer/parsekit/lr"
)

// Step is an action executed by the parser. Shift steps carry the shifted
// token, reduce steps the reduced production.
type Step struct {
	Kind       lr.ActionKind
	State      int // target state of a shift
	Term       lr.BnfTerm
	Token      *lr.Token
	Production *lr.Production
	Location   parsekit.Location // input location at reduce time
}

func (s Step) String() string {
	switch s.Kind {
	case lr.ShiftKind:
		return fmt.Sprintf("shift %s → %d", s.Term, s.State)
	case lr.ReduceKind:
		return fmt.Sprintf("reduce %s", s.Production)
	}
	return "accept"
}

func (p *Parser) record(step Step) {
	if p.tracing {
		p.steps = append(p.steps, step)
	}
}

// Replay re-builds a parse tree from a recorded sequence of parser steps,
// starting in the initial state of data. It returns the root of the tree.
func Replay(data *lr.ParserData, steps []Step) (*lr.ParseTreeNode, error) {
	stack := []*lr.ParseTreeNode{{State: data.InitialState}}
	for i, step := range steps {
		switch step.Kind {
		case lr.ShiftKind:
			if step.State < 0 || step.State >= len(data.States) {
				return nil, fmt.Errorf("step %d: no state %d", i, step.State)
			}
			node := lr.NewTokenNode(step.Token)
			node.Term = step.Term
			node.State = data.States[step.State]
			stack = append(stack, node)
		case lr.ReduceKind:
			prod := step.Production
			n := len(prod.RValues)
			if n >= len(stack) {
				return nil, fmt.Errorf("step %d: stack underflow reducing %s", i, prod)
			}
			children := append([]*lr.ParseTreeNode(nil), stack[len(stack)-n:]...)
			stack = stack[:len(stack)-n]
			node := buildNode(lr.NewReduceAction(prod), children, step.Location)
			shift, ok := stack[len(stack)-1].State.Actions[prod.LValue].(*lr.ShiftAction)
			if !ok {
				return nil, fmt.Errorf("step %d: no transition for %s", i, prod.LValue)
			}
			node.State = shift.NewState
			stack = append(stack, node)
		case lr.AcceptKind:
			return stack[len(stack)-1], nil
		default:
			return nil, fmt.Errorf("step %d: cannot replay %v", i, step)
		}
	}
	return nil, fmt.Errorf("no accept step")
}

// buildNode creates the parse tree node for a reduction, depending on the
// reduce mode. children are the stack nodes for the right hand side.
// loc is used for the empty span of an epsilon production.
func buildNode(a *lr.ReduceAction, children []*lr.ParseTreeNode, loc parsekit.Location) *lr.ParseTreeNode {
	prod := a.Production
	span := parsekit.Span{Location: loc}
	if len(children) > 0 {
		span = children[0].Span
		for _, ch := range children[1:] {
			span = span.Extend(ch.Span)
		}
	}
	var node *lr.ParseTreeNode
	switch a.Mode {
	case lr.ListBuilderReduce:
		node = children[0]
		node.Span = span
		for _, ch := range children[1:] {
			if !ch.IsPunctuationOrEmptyTransient() {
				node.Children = append(node.Children, ch)
			}
		}
	case lr.ListContainerReduce:
		node = lr.NewNode(prod.LValue, span)
		for _, ch := range children {
			if ch.Term.Base().Is(lr.IsList) && ch.Token == nil {
				node.Children = append(node.Children, ch.Children...)
			} else if !ch.IsPunctuationOrEmptyTransient() {
				node.Children = append(node.Children, ch)
			}
		}
	case lr.TransientReduce:
		meaningful := filterChildren(children)
		if len(meaningful) == 1 {
			return meaningful[0]
		}
		node = lr.NewNode(prod.LValue, span)
		node.Children = meaningful
	default:
		node = lr.NewNode(prod.LValue, span)
		node.Children = filterChildren(children)
	}
	if prod.LValue.Is(lr.InheritPrecedence) {
		for _, ch := range children {
			if ch.Precedence != lr.NoPrecedence {
				node.Precedence, node.Associativity = ch.Precedence, ch.Associativity
				break
			}
		}
	}
	if len(children) > 0 && len(children[0].Comments) > 0 {
		node.Comments = children[0].Comments
	}
	for _, ch := range children {
		if ch.IsError {
			node.IsError = true
		}
	}
	return node
}

func filterChildren(children []*lr.ParseTreeNode) []*lr.ParseTreeNode {
	var filtered []*lr.ParseTreeNode
	for _, ch := range children {
		if !ch.IsPunctuationOrEmptyTransient() {
			filtered = append(filtered, ch)
		}
	}
	return filtered
}
