package runtime

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"unicode"
)

// Errors of the operator engine.
var (
	ErrOverflow     = errors.New("arithmetic overflow")
	ErrDivideByZero = errors.New("division by zero")
	ErrNotDefined   = errors.New("operator not defined")
)

// Converter converts a value to another kind.
type Converter func(v Value) (Value, error)

func identity(v Value) (Value, error) {
	return v, nil
}

// canConvert lists the implicit conversions. Integers convert to every
// numeric kind, to Bool and to Char, floats convert to floats and Complex,
// and everything converts to String.
func canConvert(from, to Kind) bool {
	switch {
	case from == to:
		return true
	case from == None || to == None:
		return false
	case to == String:
		return true
	case from.IsInteger():
		return to.IsNumeric() || to == Bool || to == Char
	case from == Float32 || from == Float64:
		return to == Float32 || to == Float64 || to == Complex
	}
	return false
}

// converterTo creates a converter to kind to. Conversions may fail with
// ErrOverflow if the target kind cannot hold the value.
func converterTo(to Kind) Converter {
	return func(v Value) (Value, error) {
		return convert(v, to)
	}
}

func convert(v Value, to Kind) (Value, error) {
	if v.kind == to {
		return v, nil
	}
	if to == String && v.kind != None {
		return StringValue(v.String()), nil
	}
	switch {
	case v.kind.IsInteger():
		return convertInteger(v, to)
	case v.kind == Float32 || v.kind == Float64:
		switch to {
		case Float32:
			if f := float32(v.f); math.IsInf(float64(f), 0) && !math.IsInf(v.f, 0) {
				return NoneValue, overflow(v, to)
			}
			return FloatValue(Float32, v.f), nil
		case Float64:
			return FloatValue(Float64, v.f), nil
		case Complex:
			return ComplexValue(complex(v.f, 0)), nil
		}
	}
	return NoneValue, fmt.Errorf("cannot convert %s to %s", v.kind, to)
}

func overflow(v Value, to Kind) error {
	return fmt.Errorf("%w: %s does not fit into %s", ErrOverflow, v, to)
}

var signedRange = map[Kind][2]int64{
	Int8:  {math.MinInt8, math.MaxInt8},
	Int16: {math.MinInt16, math.MaxInt16},
	Int32: {math.MinInt32, math.MaxInt32},
	Int64: {math.MinInt64, math.MaxInt64},
}

var unsignedMax = map[Kind]uint64{
	UInt8:  math.MaxUint8,
	UInt16: math.MaxUint16,
	UInt32: math.MaxUint32,
	UInt64: math.MaxUint64,
}

// fits checks if i is in the range of a signed kind.
func fits(k Kind, i int64) bool {
	r := signedRange[k]
	return i >= r[0] && i <= r[1]
}

// bigOf returns the value of an integer kind as a big.Int.
func bigOf(v Value) *big.Int {
	switch {
	case v.kind == BigInt:
		return v.b
	case v.kind.IsUnsigned():
		return new(big.Int).SetUint64(v.u)
	}
	return big.NewInt(v.i)
}

func convertInteger(v Value, to Kind) (Value, error) {
	n := bigOf(v)
	switch to {
	case Int8, Int16, Int32, Int64:
		if !n.IsInt64() || !fits(to, n.Int64()) {
			return NoneValue, overflow(v, to)
		}
		return IntValue(to, n.Int64()), nil
	case UInt8, UInt16, UInt32, UInt64:
		if !n.IsUint64() || n.Uint64() > unsignedMax[to] {
			return NoneValue, overflow(v, to)
		}
		return UintValue(to, n.Uint64()), nil
	case BigInt:
		if v.kind == BigInt {
			return v, nil
		}
		return BigValue(n), nil
	case Float32, Float64:
		f, _ := new(big.Float).SetInt(n).Float64()
		return convert(FloatValue(Float64, f), to)
	case Complex:
		f, _ := new(big.Float).SetInt(n).Float64()
		return ComplexValue(complex(f, 0)), nil
	case Bool:
		return BoolValue(n.Sign() != 0), nil
	case Char:
		if !n.IsInt64() || n.Sign() < 0 || n.Int64() > unicode.MaxRune {
			return NoneValue, overflow(v, to)
		}
		return CharValue(rune(n.Int64())), nil
	}
	return NoneValue, fmt.Errorf("cannot convert %s to %s", v.kind, to)
}
