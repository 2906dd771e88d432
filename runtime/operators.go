package runtime

import (
	"errors"
	"fmt"
	"strings"
)

// Op is an operator of an expression.
type Op int8

// Operators. Binary operators come first.
const (
	NoOp Op = iota
	Add
	Subtract
	Multiply
	Divide
	Modulo
	Equal
	NotEqual
	Less
	LessOrEqual
	Greater
	GreaterOrEqual
	AndAlso
	OrElse
	BitAnd
	BitOr
	BitXor
	Negate // unary operators
	UnaryPlus
	Not
)

var opSymbols = [...]string{"<no-op>", "+", "-", "*", "/", "%", "==", "!=", "<", "<=", ">", ">=",
	"&&", "||", "&", "|", "^", "-", "+", "!"}

func (op Op) String() string {
	if op < 0 || int(op) >= len(opSymbols) {
		return fmt.Sprintf("op(%d)", op)
	}
	return opSymbols[op]
}

// IsUnary is true for unary operators.
func (op Op) IsUnary() bool {
	return op >= Negate
}

// overflows is true for operators which get an overflow handler.
func (op Op) overflows() bool {
	return op == Add || op == Subtract || op == Multiply || op == Divide || op == Negate
}

var binaryOps = map[string]Op{
	"+": Add, "-": Subtract, "*": Multiply, "/": Divide, "%": Modulo,
	"==": Equal, "=": Equal, "!=": NotEqual, "<>": NotEqual,
	"<": Less, "<=": LessOrEqual, ">": Greater, ">=": GreaterOrEqual,
	"&&": AndAlso, "and": AndAlso, "||": OrElse, "or": OrElse,
	"&": BitAnd, "|": BitOr, "^": BitXor, "xor": BitXor,
}

var unaryOps = map[string]Op{
	"-": Negate, "+": UnaryPlus, "!": Not, "not": Not,
}

// OperatorFor looks up the operator for an operator symbol of a grammar.
// Symbols are case-insensitive.
func OperatorFor(symbol string, unary bool) (Op, bool) {
	symbol = strings.ToLower(symbol)
	var op Op
	var ok bool
	if unary {
		op, ok = unaryOps[symbol]
	} else {
		op, ok = binaryOps[symbol]
	}
	return op, ok
}

// --- Implementations ------------------------------------------------------

// BinaryFunc implements a binary operator for operands of a common kind.
type BinaryFunc func(a, b Value) (Value, error)

// UnaryFunc implements a unary operator.
type UnaryFunc func(a Value) (Value, error)

// Implementation is an operator implementation for a pair of operand kinds
// (Arg2 is None for unary operators). Operands are converted to the common
// kind before Binary (or Unary) is called, and the result is converted by
// ResultConverter, if present. If the implementation fails with
// ErrOverflow, an operator handler retries with Overflow.
type Implementation struct {
	Op              Op
	Arg1, Arg2      Kind
	CommonKind      Kind
	Arg1Converter   Converter
	Arg2Converter   Converter
	ResultConverter Converter
	Binary          BinaryFunc
	Unary           UnaryFunc
	Overflow        *Implementation
	evaluate        BinaryFunc
}

func (impl *Implementation) String() string {
	if impl.Op.IsUnary() {
		return fmt.Sprintf("%s%s", impl.Op, impl.Arg1)
	}
	return fmt.Sprintf("%s %s %s (%s)", impl.Arg1, impl.Op, impl.Arg2, impl.CommonKind)
}

// Evaluate calls the implementation. For unary operators, b is ignored.
// Evaluate does not handle overflow, see OperatorHandler.Evaluate.
func (impl *Implementation) Evaluate(a, b Value) (Value, error) {
	if impl.evaluate == nil {
		impl.setup()
	}
	return impl.evaluate(a, b)
}

// setup selects the evaluation function according to the converters present.
func (impl *Implementation) setup() {
	f := impl.Binary
	if impl.Unary != nil {
		unary := impl.Unary
		f = func(a, _ Value) (Value, error) {
			return unary(a)
		}
	}
	if f == nil {
		f = func(a, b Value) (Value, error) {
			return NoneValue, ErrNotDefined
		}
	}
	c1, c2 := impl.Arg1Converter, impl.Arg2Converter
	switch {
	case c1 == nil && c2 == nil:
		impl.evaluate = f
	case c2 == nil:
		impl.evaluate = convertArg1(f, c1)
	case c1 == nil:
		impl.evaluate = convertArg2(f, c2)
	default:
		impl.evaluate = convertArgs(f, c1, c2)
	}
	if impl.ResultConverter != nil {
		impl.evaluate = convertResult(impl.evaluate, impl.ResultConverter)
	}
}

func convertArg1(f BinaryFunc, c1 Converter) BinaryFunc {
	return func(a, b Value) (Value, error) {
		a, err := c1(a)
		if err != nil {
			return NoneValue, err
		}
		return f(a, b)
	}
}

func convertArg2(f BinaryFunc, c2 Converter) BinaryFunc {
	return func(a, b Value) (Value, error) {
		b, err := c2(b)
		if err != nil {
			return NoneValue, err
		}
		return f(a, b)
	}
}

func convertArgs(f BinaryFunc, c1, c2 Converter) BinaryFunc {
	return func(a, b Value) (Value, error) {
		a, err := c1(a)
		if err != nil {
			return NoneValue, err
		}
		if b, err = c2(b); err != nil {
			return NoneValue, err
		}
		return f(a, b)
	}
}

func convertResult(f BinaryFunc, r Converter) BinaryFunc {
	return func(a, b Value) (Value, error) {
		v, err := f(a, b)
		if err != nil {
			return NoneValue, err
		}
		return r(v)
	}
}

// OperatorError is an error evaluating an operator.
type OperatorError struct {
	Op         Op
	Arg1, Arg2 Kind
	Err        error
}

func (e *OperatorError) Error() string {
	if e.Op.IsUnary() {
		if errors.Is(e.Err, ErrNotDefined) {
			return fmt.Sprintf("operator %s not defined for %s", e.Op, e.Arg1)
		}
		return fmt.Sprintf("%s%s: %v", e.Op, e.Arg1, e.Err)
	}
	if errors.Is(e.Err, ErrNotDefined) {
		return fmt.Sprintf("operator %s not defined for %s and %s", e.Op, e.Arg1, e.Arg2)
	}
	return fmt.Sprintf("%s %s %s: %v", e.Arg1, e.Op, e.Arg2, e.Err)
}

func (e *OperatorError) Unwrap() error {
	return e.Err
}

// --- Operator handler -----------------------------------------------------

type implKey struct {
	op     Op
	k1, k2 Kind
}

// OperatorHandler dispatches operators on the kinds of their operands. All
// implementations for the primitive kinds are created by
// NewOperatorHandler; afterwards the handler is immutable and may be shared
// between goroutines.
type OperatorHandler struct {
	base  map[implKey]*Implementation // same-kind implementations
	impls map[implKey]*Implementation
}

// HandlerOption configures an operator handler.
type HandlerOption func(h *OperatorHandler)

// WithImplementation adds an implementation, replacing the one for
// (impl.Op, impl.Arg1, impl.Arg2), if any. This is the way to support
// operand combinations for which no implicit conversion exists.
func WithImplementation(impl *Implementation) HandlerOption {
	return func(h *OperatorHandler) {
		if impl.Op.IsUnary() {
			impl.Arg2 = None
		}
		impl.setup()
		h.impls[implKey{impl.Op, impl.Arg1, impl.Arg2}] = impl
	}
}

// NewOperatorHandler creates an operator handler with implementations for
// every pair of primitive kinds an operator is applicable to.
func NewOperatorHandler(opts ...HandlerOption) *OperatorHandler {
	h := &OperatorHandler{
		base:  primitiveImplementations(),
		impls: make(map[implKey]*Implementation),
	}
	for op := Add; op <= Not; op++ {
		if op.IsUnary() {
			for _, k := range Kinds {
				if impl := h.implementation(op, k, None, k.Normalized()); impl != nil {
					h.impls[implKey{op, k, None}] = impl
				}
			}
			continue
		}
		for _, k1 := range Kinds {
			for _, k2 := range Kinds {
				if impl := h.implementation(op, k1, k2, CommonKind(k1, k2)); impl != nil {
					h.impls[implKey{op, k1, k2}] = impl
				}
			}
		}
	}
	for _, opt := range opts {
		opt(h)
	}
	tracer().Debugf("operator handler with %d implementations", len(h.impls))
	return h
}

// widerInt is the upgrade path for integer overflow.
var widerInt = map[Kind]Kind{Int8: Int16, Int16: Int32, Int32: Int64, Int64: BigInt}

// implementation creates the implementation of op for operand kinds k1 and
// k2 (None for unary operators), evaluated in kind common. Operands are
// converted to common, and overflow-prone operators get an overflow handler
// in the next wider integer kind.
func (h *OperatorHandler) implementation(op Op, k1, k2, common Kind) *Implementation {
	unary := op.IsUnary()
	key := implKey{op, common, common}
	if unary {
		key.k2 = None
	}
	base := h.base[key]
	if base == nil {
		return nil
	}
	var impl *Implementation
	if k1 == common && (unary || k2 == common) {
		impl = base
	} else {
		if !canConvert(k1, common) || (!unary && !canConvert(k2, common)) {
			return nil
		}
		impl = &Implementation{
			Op:         op,
			Arg1:       k1,
			Arg2:       k2,
			CommonKind: common,
			Binary:     base.Evaluate,
		}
		if k1 != common {
			impl.Arg1Converter = converterTo(common)
		}
		if !unary && k2 != common {
			impl.Arg2Converter = converterTo(common)
		}
		impl.setup()
	}
	if wider, ok := widerInt[common]; ok && op.overflows() && impl.Overflow == nil {
		impl.Overflow = h.implementation(op, k1, k2, wider)
	}
	return impl
}

// Resolve finds the implementation of op for operands of kinds k1 and k2.
// For unary operators, k2 is ignored. Resolve returns nil if op is not
// defined for the kinds.
func (h *OperatorHandler) Resolve(op Op, k1, k2 Kind) *Implementation {
	if op.IsUnary() {
		k2 = None
	}
	return h.impls[implKey{op, k1, k2}]
}

// Evaluate evaluates an implementation. If it overflows, the overflow
// handlers are tried in turn.
func (h *OperatorHandler) Evaluate(impl *Implementation, a, b Value) (Value, error) {
	v, err := impl.Evaluate(a, b)
	for err != nil && errors.Is(err, ErrOverflow) && impl.Overflow != nil {
		tracer().Debugf("%s overflows, trying %s", impl, impl.Overflow.CommonKind)
		impl = impl.Overflow
		v, err = impl.Evaluate(a, b)
	}
	return v, err
}

// GetConverter returns a converter between two kinds, or nil if there is no
// implicit conversion. The converter from a kind to itself is the identity.
func (h *OperatorHandler) GetConverter(from, to Kind) Converter {
	if from == to {
		return identity
	}
	if !canConvert(from, to) {
		return nil
	}
	return converterTo(to)
}

// ExecuteBinaryOperator applies a binary operator to two values.
// Errors are of type *OperatorError.
func (h *OperatorHandler) ExecuteBinaryOperator(op Op, a, b Value) (Value, error) {
	impl := h.Resolve(op, a.Kind(), b.Kind())
	if impl == nil {
		return NoneValue, &OperatorError{Op: op, Arg1: a.Kind(), Arg2: b.Kind(), Err: ErrNotDefined}
	}
	v, err := h.Evaluate(impl, a, b)
	if err != nil {
		return NoneValue, &OperatorError{Op: op, Arg1: a.Kind(), Arg2: b.Kind(), Err: err}
	}
	return v, nil
}

// ExecuteUnaryOperator applies a unary operator to a value.
// Errors are of type *OperatorError.
func (h *OperatorHandler) ExecuteUnaryOperator(op Op, a Value) (Value, error) {
	impl := h.Resolve(op, a.Kind(), None)
	if impl == nil {
		return NoneValue, &OperatorError{Op: op, Arg1: a.Kind(), Err: ErrNotDefined}
	}
	v, err := h.Evaluate(impl, a, NoneValue)
	if err != nil {
		return NoneValue, &OperatorError{Op: op, Arg1: a.Kind(), Err: err}
	}
	return v, nil
}
