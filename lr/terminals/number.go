package terminals

import (
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode"

	"github.com/npillmayer/parsekit/lr"
)

// Scan flags of number literals.
const (
	NumberIntOnly          ScanFlags = 1 << iota // no fraction or exponent
	NumberAllowSign                              // leading '+' or '-'
	NumberAllowStartEndDot                       // ".5" and "5."
	NumberAllowUnderscore                        // "1_000_000"
	NumberAllowLetterAfter                       // "5kg"
	NumberBinary
	NumberOctal
	NumberHex
)

// NumberLiteral is a terminal for integer and floating point literals.
//
// Integer values are converted to the first of the TypeCodes the value fits
// in, by default int32, then int64, then *big.Int. Floats are converted to
// float64 by default. A suffix may select different types, e.g.
//
//    n := NewNumberLiteral("number")
//    n.AddPrefix("0x", NumberHex)
//    n.AddSuffix("L", TypeInt64, TypeBigInt)
//    n.AddSuffix("f", TypeFloat32)
//    n.AddSuffix("i", TypeComplex)
//
type NumberLiteral struct {
	CompoundTerminal
	Options          ScanFlags
	DefaultFloatType TypeCode
	ExponentSymbols  string
	DecimalSeparator rune
}

var _ lr.Terminal = (*NumberLiteral)(nil)

// NewNumberLiteral creates a number terminal.
func NewNumberLiteral(name string, options ...ScanFlags) *NumberLiteral {
	n := &NumberLiteral{
		DefaultFloatType: TypeFloat64,
		ExponentSymbols:  "eE",
		DecimalSeparator: '.',
	}
	n.CompoundTerminal = makeCompoundTerminal(name, n, lr.IsLiteral)
	n.DefaultTypeCodes = []TypeCode{TypeInt32, TypeInt64, TypeBigInt}
	for _, o := range options {
		n.Options |= o
	}
	return n
}

// NewCNumber creates a number terminal with C-style prefixes and suffixes.
func NewCNumber(name string) *NumberLiteral {
	n := NewNumberLiteral(name)
	n.AddPrefix("0x", NumberHex)
	n.AddPrefix("0b", NumberBinary)
	n.AddSuffix("u", TypeUInt32, TypeUInt64)
	n.AddSuffix("l", TypeInt64, TypeBigInt)
	n.AddSuffix("ul", TypeUInt64)
	n.AddSuffix("f", TypeFloat32)
	n.AddSuffix("i", TypeComplex)
	return n
}

// Firsts is part of interface lr.Terminal.
func (n *NumberLiteral) Firsts() []string {
	firsts := append(n.prefixFirsts(), strings.Split("0123456789", "")...)
	if n.Options.IsSet(NumberAllowStartEndDot) {
		firsts = append(firsts, string(n.DecimalSeparator))
	}
	if n.Options.IsSet(NumberAllowSign) {
		firsts = append(firsts, "-", "+")
	}
	return firsts
}

// TryMatch is part of interface lr.Terminal.
func (n *NumberLiteral) TryMatch(ctx *lr.ScanContext, src *lr.SourceStream) *lr.Token {
	return n.match(ctx, src)
}

// quickParse handles single-digit numbers followed by white space or a
// delimiter.
func (n *NumberLiteral) quickParse(ctx *lr.ScanContext, src *lr.SourceStream) *lr.Token {
	r := src.PreviewChar()
	if r < '0' || r > '9' || !ctx.IsWhitespaceOrDelimiter(src.NextPreviewChar()) {
		return nil
	}
	src.Advance()
	return src.CreateToken(n, n.convertInt(int64(r-'0'), n.DefaultTypeCodes))
}

func (n *NumberLiteral) digits(flags ScanFlags) string {
	switch {
	case flags.IsSet(NumberHex):
		return "0123456789abcdefABCDEF"
	case flags.IsSet(NumberOctal):
		return "01234567"
	case flags.IsSet(NumberBinary):
		return "01"
	}
	return "0123456789"
}

func (n *NumberLiteral) readBody(ctx *lr.ScanContext, src *lr.SourceStream, d *TokenDetails) bool {
	flags := d.Flags | n.Options
	d.Flags = flags
	if flags.IsSet(NumberAllowSign) && d.Prefix == "" {
		if r := src.PreviewChar(); r == '-' || r == '+' {
			d.Sign = string(r)
			src.Advance()
		}
	}
	digits := n.digits(flags)
	isDecimal := digits == "0123456789"
	allowFloat := isDecimal && !flags.IsSet(NumberIntOnly)
	var body strings.Builder
	digitCount := 0
	dotSeen, expSeen := false, false
	for {
		r := src.PreviewChar()
		switch {
		case strings.ContainsRune(digits, r):
			body.WriteRune(r)
			digitCount++
		case r == '_' && flags.IsSet(NumberAllowUnderscore) && digitCount > 0:
			// skipped
		case allowFloat && r == n.DecimalSeparator && !dotSeen && !expSeen:
			next := src.NextPreviewChar()
			if !unicode.IsDigit(next) && !(flags.IsSet(NumberAllowStartEndDot) && digitCount > 0) {
				goto done // "5.toString" or a range "1..2"
			}
			if digitCount == 0 && !flags.IsSet(NumberAllowStartEndDot) {
				goto done
			}
			dotSeen = true
			body.WriteRune('.')
		case allowFloat && strings.ContainsRune(n.ExponentSymbols, r) && !expSeen && digitCount > 0:
			next := src.NextPreviewChar()
			if next == '+' || next == '-' {
				src.Advance()
				body.WriteString("e")
				body.WriteRune(next)
			} else if unicode.IsDigit(next) {
				body.WriteString("e")
			} else {
				goto done
			}
			expSeen = true
		default:
			goto done
		}
		src.Advance()
	}
done:
	if digitCount == 0 {
		if d.Prefix != "" {
			d.Error = "number literal without digits"
			return true
		}
		return false
	}
	d.Body = body.String()
	d.Exponent = dotSeen || expSeen
	return true
}

func (n *NumberLiteral) convertValue(ctx *lr.ScanContext, src *lr.SourceStream, d *TokenDetails) bool {
	if !d.Flags.IsSet(NumberAllowLetterAfter) {
		if r := src.PreviewChar(); unicode.IsLetter(r) || r == '_' {
			d.Error = "number cannot be followed by a letter"
			return false
		}
	}
	codes := d.TypeCodes
	if len(codes) == 0 {
		if d.Exponent {
			codes = []TypeCode{n.DefaultFloatType}
		} else {
			codes = n.DefaultTypeCodes
		}
	}
	text := d.Sign + d.Body
	switch codes[0] {
	case TypeFloat32, TypeFloat64, TypeComplex:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			d.Error = err.Error()
			return false
		}
		switch codes[0] {
		case TypeFloat32:
			if math.Abs(f) > math.MaxFloat32 {
				d.Error = "float32 literal out of range"
				return false
			}
			d.Value = float32(f)
		case TypeComplex:
			d.Value = complex(0, f)
		default:
			d.Value = f
		}
		return true
	}
	if d.Exponent {
		d.Error = "floating point literal with integer suffix"
		return false
	}
	base := n.base(d.Flags)
	if i, err := strconv.ParseInt(text, base, 64); err == nil {
		if v := n.convertInt(i, codes); v != nil {
			d.Value = v
			return true
		}
	} else if u, err := strconv.ParseUint(text, base, 64); err == nil {
		for _, tc := range codes {
			if tc == TypeUInt64 {
				d.Value = u
				return true
			}
		}
	}
	for _, tc := range codes {
		if tc == TypeBigInt {
			b, ok := new(big.Int).SetString(text, base)
			if !ok {
				return false
			}
			d.Value = b
			return true
		}
	}
	d.Error = "integer literal out of range"
	return false
}

func (n *NumberLiteral) base(flags ScanFlags) int {
	switch {
	case flags.IsSet(NumberHex):
		return 16
	case flags.IsSet(NumberOctal):
		return 8
	case flags.IsSet(NumberBinary):
		return 2
	}
	return 10
}

// convertInt converts i to the first type in codes it fits in. Returns nil
// if no type fits.
func (n *NumberLiteral) convertInt(i int64, codes []TypeCode) interface{} {
	for _, tc := range codes {
		switch tc {
		case TypeInt32:
			if i >= math.MinInt32 && i <= math.MaxInt32 {
				return int32(i)
			}
		case TypeInt64:
			return i
		case TypeUInt32:
			if i >= 0 && i <= math.MaxUint32 {
				return uint32(i)
			}
		case TypeUInt64:
			if i >= 0 {
				return uint64(i)
			}
		case TypeBigInt:
			return big.NewInt(i)
		case TypeFloat64:
			return float64(i)
		}
	}
	return nil
}
