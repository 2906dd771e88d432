package runtime

import (
	"math"
	"math/big"
)

// primitiveImplementations creates the implementations of all operators for
// operands of equal kind. Int8 and Int16 are evaluated as Int32 and
// converted back, overflowing if the result does not fit.
func primitiveImplementations() map[implKey]*Implementation {
	m := make(map[implKey]*Implementation)
	add := func(impl *Implementation) {
		impl.setup()
		m[implKey{impl.Op, impl.Arg1, impl.Arg2}] = impl
	}
	bin := func(op Op, k Kind, f BinaryFunc) {
		add(&Implementation{Op: op, Arg1: k, Arg2: k, CommonKind: k, Binary: f})
	}
	un := func(op Op, k Kind, f UnaryFunc) {
		add(&Implementation{Op: op, Arg1: k, Arg2: None, CommonKind: k, Unary: f})
	}
	comparisons := func(k Kind, less, eq func(a, b Value) bool) {
		for _, op := range []Op{Equal, NotEqual, Less, LessOrEqual, Greater, GreaterOrEqual} {
			bin(op, k, compare(op, less, eq))
		}
	}
	equality := func(k Kind, eq func(a, b Value) bool) {
		bin(Equal, k, compare(Equal, nil, eq))
		bin(NotEqual, k, compare(NotEqual, nil, eq))
	}
	plus := func(a Value) (Value, error) { return a, nil }
	//
	lessInt := func(a, b Value) bool { return a.i < b.i }
	eqInt := func(a, b Value) bool { return a.i == b.i }
	for _, k := range []Kind{Int32, Int64} {
		bin(Add, k, intArith(k, addInt))
		bin(Subtract, k, intArith(k, subInt))
		bin(Multiply, k, intArith(k, mulInt))
		bin(Divide, k, intArith(k, divInt))
		bin(Modulo, k, intArith(k, modInt))
		bin(BitAnd, k, intBits(k, func(a, b int64) int64 { return a & b }))
		bin(BitOr, k, intBits(k, func(a, b int64) int64 { return a | b }))
		bin(BitXor, k, intBits(k, func(a, b int64) int64 { return a ^ b }))
		comparisons(k, lessInt, eqInt)
		un(Negate, k, negInt(k))
		un(UnaryPlus, k, plus)
	}
	for _, k := range []Kind{Int8, Int16} {
		for _, op := range []Op{Add, Subtract, Multiply, Divide, Modulo, BitAnd, BitOr, BitXor} {
			add(&Implementation{Op: op, Arg1: k, Arg2: k, CommonKind: k,
				Arg1Converter:   converterTo(Int32),
				Arg2Converter:   converterTo(Int32),
				ResultConverter: converterTo(k),
				Binary:          m[implKey{op, Int32, Int32}].Binary,
			})
		}
		comparisons(k, lessInt, eqInt)
		add(&Implementation{Op: Negate, Arg1: k, Arg2: None, CommonKind: k,
			Arg1Converter:   converterTo(Int32),
			ResultConverter: converterTo(k),
			Unary:           m[implKey{Negate, Int32, None}].Unary,
		})
		un(UnaryPlus, k, plus)
	}
	//
	bigOp := func(f func(z, a, b *big.Int) *big.Int) BinaryFunc {
		return func(a, b Value) (Value, error) {
			return BigValue(f(new(big.Int), a.b, b.b)), nil
		}
	}
	bin(Add, BigInt, bigOp((*big.Int).Add))
	bin(Subtract, BigInt, bigOp((*big.Int).Sub))
	bin(Multiply, BigInt, bigOp((*big.Int).Mul))
	bin(BitAnd, BigInt, bigOp((*big.Int).And))
	bin(BitOr, BigInt, bigOp((*big.Int).Or))
	bin(BitXor, BigInt, bigOp((*big.Int).Xor))
	bin(Divide, BigInt, func(a, b Value) (Value, error) {
		if b.b.Sign() == 0 {
			return NoneValue, ErrDivideByZero
		}
		return BigValue(new(big.Int).Quo(a.b, b.b)), nil
	})
	bin(Modulo, BigInt, func(a, b Value) (Value, error) {
		if b.b.Sign() == 0 {
			return NoneValue, ErrDivideByZero
		}
		return BigValue(new(big.Int).Rem(a.b, b.b)), nil
	})
	comparisons(BigInt, func(a, b Value) bool { return a.b.Cmp(b.b) < 0 },
		func(a, b Value) bool { return a.b.Cmp(b.b) == 0 })
	un(Negate, BigInt, func(a Value) (Value, error) { return BigValue(new(big.Int).Neg(a.b)), nil })
	un(UnaryPlus, BigInt, plus)
	//
	for _, k := range []Kind{Float32, Float64} {
		k := k
		floatOp := func(f func(a, b float64) float64) BinaryFunc {
			return func(a, b Value) (Value, error) {
				return FloatValue(k, f(a.f, b.f)), nil
			}
		}
		bin(Add, k, floatOp(func(a, b float64) float64 { return a + b }))
		bin(Subtract, k, floatOp(func(a, b float64) float64 { return a - b }))
		bin(Multiply, k, floatOp(func(a, b float64) float64 { return a * b }))
		bin(Divide, k, floatOp(func(a, b float64) float64 { return a / b }))
		bin(Modulo, k, floatOp(math.Mod))
		comparisons(k, func(a, b Value) bool { return a.f < b.f },
			func(a, b Value) bool { return a.f == b.f })
		un(Negate, k, func(a Value) (Value, error) { return FloatValue(k, -a.f), nil })
		un(UnaryPlus, k, plus)
	}
	//
	complexOp := func(f func(a, b complex128) complex128) BinaryFunc {
		return func(a, b Value) (Value, error) {
			return ComplexValue(f(a.c, b.c)), nil
		}
	}
	bin(Add, Complex, complexOp(func(a, b complex128) complex128 { return a + b }))
	bin(Subtract, Complex, complexOp(func(a, b complex128) complex128 { return a - b }))
	bin(Multiply, Complex, complexOp(func(a, b complex128) complex128 { return a * b }))
	bin(Divide, Complex, complexOp(func(a, b complex128) complex128 { return a / b }))
	equality(Complex, func(a, b Value) bool { return a.c == b.c })
	un(Negate, Complex, func(a Value) (Value, error) { return ComplexValue(-a.c), nil })
	un(UnaryPlus, Complex, plus)
	//
	boolOp := func(f func(a, b bool) bool) BinaryFunc {
		return func(a, b Value) (Value, error) {
			return BoolValue(f(a.Bool(), b.Bool())), nil
		}
	}
	bin(AndAlso, Bool, boolOp(func(a, b bool) bool { return a && b }))
	bin(OrElse, Bool, boolOp(func(a, b bool) bool { return a || b }))
	bin(BitAnd, Bool, boolOp(func(a, b bool) bool { return a && b }))
	bin(BitOr, Bool, boolOp(func(a, b bool) bool { return a || b }))
	bin(BitXor, Bool, boolOp(func(a, b bool) bool { return a != b }))
	equality(Bool, eqInt)
	un(Not, Bool, func(a Value) (Value, error) { return BoolValue(!a.Bool()), nil })
	//
	comparisons(Char, lessInt, eqInt)
	//
	bin(Add, String, func(a, b Value) (Value, error) { return StringValue(a.s + b.s), nil })
	comparisons(String, func(a, b Value) bool { return a.s < b.s },
		func(a, b Value) bool { return a.s == b.s })
	return m
}

func compare(op Op, less, eq func(a, b Value) bool) BinaryFunc {
	return func(a, b Value) (Value, error) {
		var r bool
		switch op {
		case Equal:
			r = eq(a, b)
		case NotEqual:
			r = !eq(a, b)
		case Less:
			r = less(a, b)
		case LessOrEqual:
			r = less(a, b) || eq(a, b)
		case Greater:
			r = less(b, a)
		case GreaterOrEqual:
			r = less(b, a) || eq(a, b)
		}
		return BoolValue(r), nil
	}
}

// --- Checked integer arithmetic --------------------------------------------

func intArith(k Kind, f func(a, b int64) (int64, error)) BinaryFunc {
	return func(a, b Value) (Value, error) {
		r, err := f(a.i, b.i)
		if err != nil {
			return NoneValue, err
		}
		if !fits(k, r) {
			return NoneValue, ErrOverflow
		}
		return IntValue(k, r), nil
	}
}

func intBits(k Kind, f func(a, b int64) int64) BinaryFunc {
	return func(a, b Value) (Value, error) {
		return IntValue(k, f(a.i, b.i)), nil
	}
}

func negInt(k Kind) UnaryFunc {
	return func(a Value) (Value, error) {
		if a.i == signedRange[k][0] {
			return NoneValue, ErrOverflow
		}
		return IntValue(k, -a.i), nil
	}
}

func addInt(a, b int64) (int64, error) {
	r := a + b
	if (a > 0 && b > 0 && r < 0) || (a < 0 && b < 0 && r >= 0) {
		return 0, ErrOverflow
	}
	return r, nil
}

func subInt(a, b int64) (int64, error) {
	r := a - b
	if (a >= 0 && b < 0 && r < 0) || (a < 0 && b > 0 && r >= 0) {
		return 0, ErrOverflow
	}
	return r, nil
}

func mulInt(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, ErrOverflow
	}
	r := a * b
	if r/b != a {
		return 0, ErrOverflow
	}
	return r, nil
}

func divInt(a, b int64) (int64, error) {
	if b == 0 {
		return 0, ErrDivideByZero
	}
	if a == math.MinInt64 && b == -1 {
		return 0, ErrOverflow
	}
	return a / b, nil
}

func modInt(a, b int64) (int64, error) {
	if b == 0 {
		return 0, ErrDivideByZero
	}
	if b == -1 {
		return 0, nil
	}
	return a % b, nil
}
