package ast

import (
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/parsekit"
	"github.com/npillmayer/parsekit/runtime"
)

// Node is the interface all AST nodes implement.
type Node interface {
	Evaluate(th *Thread) (runtime.Value, error)
	Span() parsekit.Span
}

// ErrUndefined is wrapped by errors for references to undefined variables.
var ErrUndefined = errors.New("undefined variable")

// RuntimeError is an error occuring while evaluating an AST.
type RuntimeError struct {
	Location parsekit.Location
	Err      error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error at %s: %v", e.Location, e.Err)
}

// Unwrap returns the cause of a runtime error.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// errorAt wraps err into a runtime error for node n, unless it already is one.
func errorAt(n Node, err error) error {
	var rterr *RuntimeError
	if errors.As(err, &rterr) {
		return err
	}
	return &RuntimeError{Location: n.Span().Location, Err: err}
}

// Thread is the state of a single evaluation. Threads are not safe for
// concurrent use, but several threads may share an operator handler.
type Thread struct {
	Runtime *runtime.Runtime
	steps   int
}

// NewThread creates a thread for a runtime environment. If rt is nil,
// a new runtime environment with a default operator handler is created.
func NewThread(rt *runtime.Runtime) *Thread {
	if rt == nil {
		rt = runtime.NewRuntimeEnvironment(nil)
	}
	return &Thread{Runtime: rt}
}

// Run evaluates an AST.
func (th *Thread) Run(root Node) (runtime.Value, error) {
	if root == nil {
		return runtime.NoneValue, nil
	}
	th.steps = 0
	v, err := root.Evaluate(th)
	tracer().Debugf("evaluation took %d steps", th.steps)
	return v, err
}

func (th *Thread) eval(n Node) (runtime.Value, error) {
	th.steps++
	return n.Evaluate(th)
}

// --- Node types -----------------------------------------------------------

type nodeBase struct {
	span parsekit.Span
}

func (n nodeBase) Span() parsekit.Span {
	return n.span
}

// Literal is a constant value.
type Literal struct {
	nodeBase
	Value runtime.Value
}

// NewLiteral creates a literal node.
func NewLiteral(v runtime.Value, span parsekit.Span) *Literal {
	return &Literal{nodeBase: nodeBase{span}, Value: v}
}

// Evaluate is part of interface Node.
func (l *Literal) Evaluate(th *Thread) (runtime.Value, error) {
	return l.Value, nil
}

func (l *Literal) String() string {
	if l.Value.Kind() == runtime.String {
		return fmt.Sprintf("%q", l.Value.Str())
	}
	return l.Value.String()
}

// Identifier is a reference to a variable.
type Identifier struct {
	nodeBase
	Name string
}

// NewIdentifier creates an identifier node.
func NewIdentifier(name string, span parsekit.Span) *Identifier {
	return &Identifier{nodeBase: nodeBase{span}, Name: name}
}

// Evaluate is part of interface Node.
func (id *Identifier) Evaluate(th *Thread) (runtime.Value, error) {
	tag := th.Runtime.Lookup(id.Name)
	if tag == nil {
		return runtime.NoneValue, errorAt(id, fmt.Errorf("%w %s", ErrUndefined, id.Name))
	}
	return tag.Value, nil
}

func (id *Identifier) String() string {
	return id.Name
}

// BinaryOperation is an operator applied to two operands. AndAlso and OrElse
// evaluate the right operand only if needed.
type BinaryOperation struct {
	nodeBase
	Op          runtime.Op
	Symbol      string
	Left, Right Node
}

// Evaluate is part of interface Node.
func (bin *BinaryOperation) Evaluate(th *Thread) (runtime.Value, error) {
	left, err := th.eval(bin.Left)
	if err != nil {
		return runtime.NoneValue, err
	}
	if left.Kind() == runtime.Bool {
		if bin.Op == runtime.AndAlso && !left.Bool() || bin.Op == runtime.OrElse && left.Bool() {
			return left, nil
		}
	}
	right, err := th.eval(bin.Right)
	if err != nil {
		return runtime.NoneValue, err
	}
	v, err := th.Runtime.Operators.ExecuteBinaryOperator(bin.Op, left, right)
	if err != nil {
		return runtime.NoneValue, errorAt(bin, err)
	}
	return v, nil
}

func (bin *BinaryOperation) String() string {
	return fmt.Sprintf("(%v %s %v)", bin.Left, bin.Symbol, bin.Right)
}

// UnaryOperation is an operator applied to a single operand.
type UnaryOperation struct {
	nodeBase
	Op      runtime.Op
	Symbol  string
	Operand Node
}

// Evaluate is part of interface Node.
func (un *UnaryOperation) Evaluate(th *Thread) (runtime.Value, error) {
	arg, err := th.eval(un.Operand)
	if err != nil {
		return runtime.NoneValue, err
	}
	v, err := th.Runtime.Operators.ExecuteUnaryOperator(un.Op, arg)
	if err != nil {
		return runtime.NoneValue, errorAt(un, err)
	}
	return v, nil
}

func (un *UnaryOperation) String() string {
	return fmt.Sprintf("(%s%v)", un.Symbol, un.Operand)
}

// Assignment sets a variable to the value of an expression. The value of an
// assignment is the assigned value.
type Assignment struct {
	nodeBase
	Target *Identifier
	Expr   Node
}

// Evaluate is part of interface Node.
func (a *Assignment) Evaluate(th *Thread) (runtime.Value, error) {
	v, err := th.eval(a.Expr)
	if err != nil {
		return runtime.NoneValue, err
	}
	if _, err = th.Runtime.Assign(a.Target.Name, v); err != nil {
		return runtime.NoneValue, errorAt(a, err)
	}
	return v, nil
}

func (a *Assignment) String() string {
	return fmt.Sprintf("%s = %v", a.Target.Name, a.Expr)
}

// StatementList is a sequence of statements. Its value is the value of the
// last statement.
type StatementList struct {
	nodeBase
	Statements []Node
}

// Evaluate is part of interface Node.
func (sl *StatementList) Evaluate(th *Thread) (v runtime.Value, err error) {
	v = runtime.NoneValue
	for _, stmt := range sl.Statements {
		if v, err = th.eval(stmt); err != nil {
			return runtime.NoneValue, err
		}
	}
	return v, nil
}

func (sl *StatementList) String() string {
	s := make([]string, len(sl.Statements))
	for i, stmt := range sl.Statements {
		s[i] = fmt.Sprintf("%v", stmt)
	}
	return "{" + strings.Join(s, "; ") + "}"
}
