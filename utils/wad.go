package utils

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"cosmossdk.io/math"
	"github.com/holiman/uint256"
)

// WadDecimals is the number of decimal places carried by a Wad.
const WadDecimals = 18

var (
	// ErrOverflow is returned when a fixed-point operation exceeds 256 bits or drops below zero.
	ErrOverflow = errors.New("fixed-point overflow")
	// ErrDivisionByZero is returned when a fixed-point division has a zero divisor.
	ErrDivisionByZero = errors.New("fixed-point division by zero")

	wadScale = uint256.NewInt(1_000_000_000_000_000_000)
)

// Wad is an unsigned fixed-point number with 18 decimals backed by a 256-bit integer.
// Every operation is checked: an overflow or underflow returns ErrOverflow instead of wrapping.
// The zero value is 0.
type Wad struct {
	raw uint256.Int
}

// ZeroWad returns a Wad equal to 0.
func ZeroWad() Wad {
	return Wad{}
}

// OneWad returns a Wad equal to 1.
func OneWad() Wad {
	return Wad{raw: *wadScale}
}

// NewWadFromRaw wraps an already scaled integer.
func NewWadFromRaw(raw *uint256.Int) Wad {
	return Wad{raw: *raw}
}

// NewWadFromUint64 returns n as a Wad.
func NewWadFromUint64(n uint64) Wad {
	w, _ := NewWadFromInt(math.NewIntFromUint64(n))
	return w
}

// NewWadFromInt converts a whole number into a Wad.
func NewWadFromInt(i math.Int) (Wad, error) {
	v, err := intToUint256(i)
	if err != nil {
		return Wad{}, err
	}
	var z uint256.Int
	if _, overflow := z.MulOverflow(v, wadScale); overflow {
		return Wad{}, ErrOverflow
	}
	return Wad{raw: z}, nil
}

// NewWadFromLegacyDec converts a non-negative LegacyDec, which shares the 18 decimal precision.
func NewWadFromLegacyDec(d math.LegacyDec) (Wad, error) {
	if d.IsNil() || d.IsNegative() {
		return Wad{}, ErrOverflow
	}
	v, overflow := uint256.FromBig(d.BigInt())
	if overflow {
		return Wad{}, ErrOverflow
	}
	return Wad{raw: *v}, nil
}

// NewWadFromMantissa converts mantissa * 10^expo into a Wad. Digits below 10^-18 are truncated.
func NewWadFromMantissa(mantissa uint64, expo int32) (Wad, error) {
	shift := int64(WadDecimals) + int64(expo)
	m := uint256.NewInt(mantissa)
	if shift >= 0 {
		p, err := Pow10(uint32(shift))
		if err != nil {
			return Wad{}, err
		}
		var z uint256.Int
		if _, overflow := z.MulOverflow(m, p); overflow {
			return Wad{}, ErrOverflow
		}
		return Wad{raw: z}, nil
	}
	p, err := Pow10(uint32(-shift))
	if err != nil {
		return Wad{}, err
	}
	var z uint256.Int
	z.Div(m, p)
	return Wad{raw: z}, nil
}

// ParseWad parses a decimal string such as "12.5" into a Wad.
func ParseWad(s string) (Wad, error) {
	intPart, fracPart, _ := strings.Cut(strings.TrimSpace(s), ".")
	if intPart == "" {
		intPart = "0"
	}
	if len(fracPart) > WadDecimals {
		return Wad{}, fmt.Errorf("too many decimal places in %q", s)
	}
	digits := intPart + fracPart + strings.Repeat("0", WadDecimals-len(fracPart))
	for _, c := range digits {
		if c < '0' || c > '9' {
			return Wad{}, fmt.Errorf("invalid decimal %q", s)
		}
	}
	b, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return Wad{}, fmt.Errorf("invalid decimal %q", s)
	}
	v, overflow := uint256.FromBig(b)
	if overflow {
		return Wad{}, ErrOverflow
	}
	return Wad{raw: *v}, nil
}

// MustParseWad is ParseWad that panics on error. Intended for constants and tests.
func MustParseWad(s string) Wad {
	w, err := ParseWad(s)
	if err != nil {
		panic(err)
	}
	return w
}

// Add returns w + o.
func (w Wad) Add(o Wad) (Wad, error) {
	var z uint256.Int
	if _, overflow := z.AddOverflow(&w.raw, &o.raw); overflow {
		return Wad{}, ErrOverflow
	}
	return Wad{raw: z}, nil
}

// Sub returns w - o, failing when o > w.
func (w Wad) Sub(o Wad) (Wad, error) {
	var z uint256.Int
	if _, underflow := z.SubOverflow(&w.raw, &o.raw); underflow {
		return Wad{}, ErrOverflow
	}
	return Wad{raw: z}, nil
}

// Mul returns w * o rounded down.
func (w Wad) Mul(o Wad) (Wad, error) {
	return w.mulDiv(&o.raw, wadScale)
}

// Quo returns w / o rounded down.
func (w Wad) Quo(o Wad) (Wad, error) {
	if o.raw.IsZero() {
		return Wad{}, ErrDivisionByZero
	}
	var z uint256.Int
	if _, overflow := z.MulDivOverflow(&w.raw, wadScale, &o.raw); overflow {
		return Wad{}, ErrOverflow
	}
	return Wad{raw: z}, nil
}

// MulInt returns w * i.
func (w Wad) MulInt(i math.Int) (Wad, error) {
	v, err := intToUint256(i)
	if err != nil {
		return Wad{}, err
	}
	var z uint256.Int
	if _, overflow := z.MulOverflow(&w.raw, v); overflow {
		return Wad{}, ErrOverflow
	}
	return Wad{raw: z}, nil
}

// MulIntQuoPow10 returns w * i / 10^decimals rounded down, using a 512-bit intermediate.
func (w Wad) MulIntQuoPow10(i math.Int, decimals uint32) (Wad, error) {
	v, err := intToUint256(i)
	if err != nil {
		return Wad{}, err
	}
	p, err := Pow10(decimals)
	if err != nil {
		return Wad{}, err
	}
	return w.mulDiv(v, p)
}

// QuoIntMulPow10 returns w * 10^decimals / i rounded down. It inverts MulIntQuoPow10 for a fixed w.
func (w Wad) QuoIntMulPow10(i math.Int, decimals uint32) (Wad, error) {
	v, err := intToUint256(i)
	if err != nil {
		return Wad{}, err
	}
	if v.IsZero() {
		return Wad{}, ErrDivisionByZero
	}
	p, err := Pow10(decimals)
	if err != nil {
		return Wad{}, err
	}
	return w.mulDiv(p, v)
}

// MulPercent returns w * pct / 100 rounded down.
func (w Wad) MulPercent(pct uint32) (Wad, error) {
	return w.mulDiv(uint256.NewInt(uint64(pct)), uint256.NewInt(100))
}

// MulRatio returns w * num / den rounded down.
func (w Wad) MulRatio(num, den math.Int) (Wad, error) {
	n, err := intToUint256(num)
	if err != nil {
		return Wad{}, err
	}
	d, err := intToUint256(den)
	if err != nil {
		return Wad{}, err
	}
	return w.mulDiv(n, d)
}

// AmountAt returns the whole number of base units, at the given precision, that
// are worth w when one display unit is priced at price. It inverts MulIntQuoPow10.
func (w Wad) AmountAt(price Wad, decimals uint32) (math.Int, error) {
	if price.raw.IsZero() {
		return math.Int{}, ErrDivisionByZero
	}
	p, err := Pow10(decimals)
	if err != nil {
		return math.Int{}, err
	}
	var z uint256.Int
	if _, overflow := z.MulDivOverflow(&w.raw, p, &price.raw); overflow {
		return math.Int{}, ErrOverflow
	}
	return math.NewIntFromBigInt(z.ToBig()), nil
}

func (w Wad) mulDiv(num, den *uint256.Int) (Wad, error) {
	if den.IsZero() {
		return Wad{}, ErrDivisionByZero
	}
	var z uint256.Int
	if _, overflow := z.MulDivOverflow(&w.raw, num, den); overflow {
		return Wad{}, ErrOverflow
	}
	return Wad{raw: z}, nil
}

// Cmp compares w and o and returns -1, 0 or +1.
func (w Wad) Cmp(o Wad) int {
	return w.raw.Cmp(&o.raw)
}

// GT reports whether w > o.
func (w Wad) GT(o Wad) bool { return w.Cmp(o) > 0 }

// LTE reports whether w <= o.
func (w Wad) LTE(o Wad) bool { return w.Cmp(o) <= 0 }

// Equal reports whether w == o.
func (w Wad) Equal(o Wad) bool { return w.Cmp(o) == 0 }

// IsZero reports whether w == 0.
func (w Wad) IsZero() bool { return w.raw.IsZero() }

// Raw returns a copy of the scaled integer.
func (w Wad) Raw() *uint256.Int {
	return new(uint256.Int).Set(&w.raw)
}

// TruncateInt returns the whole part of w.
func (w Wad) TruncateInt() math.Int {
	var z uint256.Int
	z.Div(&w.raw, wadScale)
	return math.NewIntFromBigInt(z.ToBig())
}

// String renders w with all 18 decimal places, e.g. "5.000000000000000000".
func (w Wad) String() string {
	var q, r uint256.Int
	q.DivMod(&w.raw, wadScale, &r)
	frac := r.Dec()
	return q.Dec() + "." + strings.Repeat("0", WadDecimals-len(frac)) + frac
}

// MarshalJSON encodes w as a quoted decimal string.
func (w Wad) MarshalJSON() ([]byte, error) {
	return []byte(`"` + w.String() + `"`), nil
}

// UnmarshalJSON decodes a quoted decimal string.
func (w *Wad) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseWad(s)
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

// Pow10 returns 10^n, failing when the result does not fit in 256 bits.
func Pow10(n uint32) (*uint256.Int, error) {
	if n > 77 {
		return nil, ErrOverflow
	}
	return new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(uint64(n))), nil
}

func intToUint256(i math.Int) (*uint256.Int, error) {
	if i.IsNil() || i.IsNegative() {
		return nil, ErrOverflow
	}
	v, overflow := uint256.FromBig(i.BigInt())
	if overflow {
		return nil, ErrOverflow
	}
	return v, nil
}
