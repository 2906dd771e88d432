package runtime

import (
	"fmt"
	"math/big"
	"strconv"
)

// Kind is the type tag of a Value. Signed kinds up to String are ordered by
// width: for two operands, the common kind of an operation is the larger of
// their (normalized) kinds.
type Kind int8

// Value kinds. Unsigned kinds are not part of the width ordering; they are
// normalized to the next larger signed kind (see Kind.Normalized).
const (
	None Kind = iota
	Int8
	Int16
	Int32
	Int64
	BigInt
	Float32
	Float64
	Complex
	Bool
	Char
	String
	UInt8
	UInt16
	UInt32
	UInt64
)

// Kinds lists all kinds with values, i.e. every kind except None.
var Kinds = []Kind{Int8, Int16, Int32, Int64, BigInt, Float32, Float64, Complex, Bool,
	Char, String, UInt8, UInt16, UInt32, UInt64}

var kindNames = [...]string{"none", "int8", "int16", "int32", "int64", "bigint", "float32",
	"float64", "complex", "bool", "char", "string", "uint8", "uint16", "uint32", "uint64"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", k)
	}
	return kindNames[k]
}

// IsUnsigned is true for unsigned integer kinds.
func (k Kind) IsUnsigned() bool {
	return k >= UInt8 && k <= UInt64
}

// IsInteger is true for all fixed-size integer kinds, signed or unsigned, and
// for BigInt.
func (k Kind) IsInteger() bool {
	return (k >= Int8 && k <= BigInt) || k.IsUnsigned()
}

// IsNumeric is true for integer, float and complex kinds.
func (k Kind) IsNumeric() bool {
	return k.IsInteger() || k == Float32 || k == Float64 || k == Complex
}

// Normalized maps unsigned kinds to the next larger signed kind, which is
// able to hold all of their values.
func (k Kind) Normalized() Kind {
	switch k {
	case UInt8:
		return Int16
	case UInt16:
		return Int32
	case UInt32:
		return Int64
	case UInt64:
		return BigInt
	}
	return k
}

// CommonKind returns the kind operands of kinds k1 and k2 are converted to
// for an operation.
func CommonKind(k1, k2 Kind) Kind {
	k1, k2 = k1.Normalized(), k2.Normalized()
	if k1 > k2 {
		return k1
	}
	return k2
}

// --- Values ---------------------------------------------------------------

// Value is a value of an interpreted program. It is a tagged union over the
// supported primitive kinds. The zero value is of kind None.
type Value struct {
	kind Kind
	i    int64 // signed ints, bool, char
	u    uint64
	f    float64
	c    complex128
	b    *big.Int
	s    string
}

// NoneValue is the value of kind None.
var NoneValue = Value{}

// IntValue creates a value of a signed integer kind (Int8 … Int64).
// v must fit into k.
func IntValue(k Kind, v int64) Value {
	return Value{kind: k, i: v}
}

// UintValue creates a value of an unsigned integer kind.
func UintValue(k Kind, v uint64) Value {
	return Value{kind: k, u: v}
}

// BigValue creates a value of kind BigInt.
func BigValue(v *big.Int) Value {
	return Value{kind: BigInt, b: v}
}

// FloatValue creates a value of kind Float32 or Float64.
func FloatValue(k Kind, v float64) Value {
	if k == Float32 {
		v = float64(float32(v))
	}
	return Value{kind: k, f: v}
}

// ComplexValue creates a value of kind Complex.
func ComplexValue(v complex128) Value {
	return Value{kind: Complex, c: v}
}

// BoolValue creates a value of kind Bool.
func BoolValue(v bool) Value {
	if v {
		return Value{kind: Bool, i: 1}
	}
	return Value{kind: Bool}
}

// CharValue creates a value of kind Char.
func CharValue(r rune) Value {
	return Value{kind: Char, i: int64(r)}
}

// StringValue creates a value of kind String.
func StringValue(s string) Value {
	return Value{kind: String, s: s}
}

// ValueOf wraps a Go value. Supported are Go's integer, float and complex
// types, *big.Int, bool, rune (as int32, i.e. Int32) and string. nil results
// in NoneValue.
func ValueOf(x interface{}) (Value, error) {
	switch v := x.(type) {
	case nil:
		return NoneValue, nil
	case Value:
		return v, nil
	case int8:
		return IntValue(Int8, int64(v)), nil
	case int16:
		return IntValue(Int16, int64(v)), nil
	case int32:
		return IntValue(Int32, int64(v)), nil
	case int:
		return IntValue(Int64, int64(v)), nil
	case int64:
		return IntValue(Int64, v), nil
	case uint8:
		return UintValue(UInt8, uint64(v)), nil
	case uint16:
		return UintValue(UInt16, uint64(v)), nil
	case uint32:
		return UintValue(UInt32, uint64(v)), nil
	case uint:
		return UintValue(UInt64, uint64(v)), nil
	case uint64:
		return UintValue(UInt64, v), nil
	case *big.Int:
		return BigValue(v), nil
	case float32:
		return FloatValue(Float32, float64(v)), nil
	case float64:
		return FloatValue(Float64, v), nil
	case complex64:
		return ComplexValue(complex128(v)), nil
	case complex128:
		return ComplexValue(v), nil
	case bool:
		return BoolValue(v), nil
	case string:
		return StringValue(v), nil
	}
	return NoneValue, fmt.Errorf("unsupported value type %T", x)
}

// Kind returns the kind of v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNone is true for NoneValue.
func (v Value) IsNone() bool {
	return v.kind == None
}

// Int returns the value of signed integer kinds, chars and bools.
func (v Value) Int() int64 {
	return v.i
}

// Uint returns the value of unsigned kinds.
func (v Value) Uint() uint64 {
	return v.u
}

// Big returns the value of kind BigInt.
func (v Value) Big() *big.Int {
	return v.b
}

// Float returns the value of float kinds.
func (v Value) Float() float64 {
	return v.f
}

// Complex returns the value of kind Complex.
func (v Value) Complex() complex128 {
	return v.c
}

// Bool returns the value of kind Bool.
func (v Value) Bool() bool {
	return v.i != 0
}

// Char returns the value of kind Char.
func (v Value) Char() rune {
	return rune(v.i)
}

// Str returns the value of kind String.
func (v Value) Str() string {
	return v.s
}

// Interface returns v as a Go value of the corresponding Go type.
func (v Value) Interface() interface{} {
	switch v.kind {
	case Int8:
		return int8(v.i)
	case Int16:
		return int16(v.i)
	case Int32:
		return int32(v.i)
	case Int64:
		return v.i
	case UInt8:
		return uint8(v.u)
	case UInt16:
		return uint16(v.u)
	case UInt32:
		return uint32(v.u)
	case UInt64:
		return v.u
	case BigInt:
		return v.b
	case Float32:
		return float32(v.f)
	case Float64:
		return v.f
	case Complex:
		return v.c
	case Bool:
		return v.Bool()
	case Char:
		return v.Char()
	case String:
		return v.s
	}
	return nil
}

// Equals compares two values of the same kind.
func (v Value) Equals(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	if v.kind == BigInt {
		return v.b.Cmp(other.b) == 0
	}
	return v.i == other.i && v.u == other.u && v.f == other.f && v.c == other.c && v.s == other.s
}

func (v Value) String() string {
	switch v.kind {
	case None:
		return "none"
	case Int8, Int16, Int32, Int64:
		return strconv.FormatInt(v.i, 10)
	case UInt8, UInt16, UInt32, UInt64:
		return strconv.FormatUint(v.u, 10)
	case BigInt:
		return v.b.String()
	case Float32:
		return strconv.FormatFloat(v.f, 'g', -1, 32)
	case Float64:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case Complex:
		return strconv.FormatComplex(v.c, 'g', -1, 128)
	case Bool:
		return strconv.FormatBool(v.Bool())
	case Char:
		return string(v.Char())
	}
	return v.s
}
