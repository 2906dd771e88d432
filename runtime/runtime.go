/*
Package runtime implements an interpreter runtime, consisting of
values, an operator dispatch engine, scopes, memory frames and symbols
(variable declarations and references).

For a thorough discussion of an interpreter's runtime environment, refer to
"Language Implementation Patterns" by Terence Parr.

Values and Operators

Values of interpreted programs are of type Value, a tagged union over
integers of various widths, big integers, floats, complex numbers, bools,
chars and strings. Operators are dispatched on the kinds of their operands
by an OperatorHandler. Operands of different kinds are converted to a
common kind first, following the order

    int8 < int16 < int32 < int64 < bigint < float32 < float64 < complex < bool < char < string

with unsigned kinds treated as the next larger signed kind. Integer
arithmetic is checked: if an operation overflows, it is repeated with the
next wider integer kind, up to big integers.

    ops := runtime.NewOperatorHandler()
    v, err := ops.ExecuteBinaryOperator(runtime.Add,
                  runtime.IntValue(runtime.Int32, math.MaxInt32),
                  runtime.IntValue(runtime.Int32, 1))
    // v is an int64 of value 2147483648

Variables

Variables are stored as tags. A Runtime keeps a tree of scopes, recording
the names a block declares, and a stack of frames holding the values of
the active blocks. Variables are looked up from the innermost frame
outward.

    rt := runtime.NewRuntimeEnvironment(nil)
    rt.Assign("x", runtime.IntValue(runtime.Int32, 1))
    rt.EnterBlock("loop")
    ...
    rt.LeaveBlock()

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package runtime

import (
	"errors"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'parsekit.runtime'.
func tracer() tracing.Trace {
	return tracing.Select("parsekit.runtime")
}

// Errors returned by variable and block operations.
var (
	ErrNoBlock   = errors.New("no block to leave")
	ErrEmptyName = errors.New("variable name is empty")
)

// Runtime is a type implementing a runtime environment for an interpreter.
type Runtime struct {
	Operators *OperatorHandler // shared, immutable
	Scopes    *ScopeTree
	Frames    *FrameStack
	UData     interface{} // extension point
}

// NewRuntimeEnvironment constructs a new runtime environment, initialized
// with a global scope and a global frame. ops may be nil, in which case a
// default operator handler is created. Operator handlers are immutable and
// may be shared between runtimes.
func NewRuntimeEnvironment(ops *OperatorHandler) *Runtime {
	if ops == nil {
		ops = NewOperatorHandler()
	}
	rt := &Runtime{Operators: ops, Scopes: new(ScopeTree), Frames: new(FrameStack)}
	rt.Frames.Push(rt.Scopes.Push("globals"))
	return rt
}

// EnterBlock opens a nested block with a scope and a frame of its own.
func (rt *Runtime) EnterBlock(name string) *Frame {
	return rt.Frames.Push(rt.Scopes.Push(name))
}

// LeaveBlock closes the innermost block, dropping its variables.
func (rt *Runtime) LeaveBlock() error {
	if rt.Frames.Depth() <= 1 {
		return ErrNoBlock
	}
	rt.Frames.Pop()
	rt.Scopes.Pop()
	return nil
}

// Lookup finds a variable, searching the frames from the innermost one
// outward. It returns nil if the variable is not defined.
func (rt *Runtime) Lookup(name string) *Tag {
	for f := rt.Frames.Top(); f != nil; f = f.Parent {
		if tag := f.Vars.Resolve(name); tag != nil {
			return tag
		}
	}
	return nil
}

// Assign sets a variable. If the variable is not yet defined, it is
// declared in the current scope and created in the current frame.
func (rt *Runtime) Assign(name string, v Value) (*Tag, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	tag := rt.Lookup(name)
	if tag == nil {
		top := rt.Frames.Top()
		tag, _ = top.Vars.Define(name)
		top.Scope.Declared.ResolveOrDefine(name)
		tracer().Debugf("defined variable %s in %s", name, top.Scope.Name)
	}
	tag.Value = v
	tag.Assigned++
	return tag, nil
}
