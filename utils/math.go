package utils

import (
	"fmt"

	"cosmossdk.io/math"
	"github.com/holiman/uint256"
)

// BipsDenominator is the number of basis points in one whole.
const BipsDenominator = 10_000

// ExpDec calculates e^x using the Maclaurin series expansion up to `terms` terms.
// Safe for on-chain use (fully deterministic).
//
//	e^x = 1 + x + x^2/2! + x^3/3! + ... + x^n/n!
//
// Note: x is cosmosmath.LegacyDec; higher `terms` -> greater accuracy.
func ExpDec(x math.LegacyDec, terms int) math.LegacyDec {
	result := math.LegacyOneDec()
	power := math.LegacyOneDec()
	factorial := math.LegacyOneDec()

	for i := 1; i <= terms; i++ {
		power = power.Mul(x)
		factorial = factorial.MulInt64(int64(i))
		result = result.Add(power.Quo(factorial))
	}

	return result
}

// MulDiv returns floor(a * b / c) using a 512-bit intermediate product.
// It fails on negative inputs, a zero divisor, or a result wider than 256 bits.
func MulDiv(a, b, c math.Int) (math.Int, error) {
	x, err := intToUint256(a)
	if err != nil {
		return math.Int{}, fmt.Errorf("mul-div operand %s: %w", a, err)
	}
	y, err := intToUint256(b)
	if err != nil {
		return math.Int{}, fmt.Errorf("mul-div operand %s: %w", b, err)
	}
	d, err := intToUint256(c)
	if err != nil {
		return math.Int{}, fmt.Errorf("mul-div divisor %s: %w", c, err)
	}
	if d.IsZero() {
		return math.Int{}, ErrDivisionByZero
	}
	var z uint256.Int
	if _, overflow := z.MulDivOverflow(x, y, d); overflow {
		return math.Int{}, ErrOverflow
	}
	return math.NewIntFromBigInt(z.ToBig()), nil
}

// ApplyBips splits amount into (fee, remainder) where fee = floor(amount * bips / 10_000).
func ApplyBips(amount math.Int, bips uint32) (fee math.Int, remainder math.Int, err error) {
	if bips > BipsDenominator {
		return math.Int{}, math.Int{}, fmt.Errorf("fee of %d bips exceeds %d", bips, BipsDenominator)
	}
	fee, err = MulDiv(amount, math.NewIntFromUint64(uint64(bips)), math.NewInt(BipsDenominator))
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	return fee, amount.Sub(fee), nil
}

// SafeAdd returns a + b, reporting an overflow instead of panicking.
func SafeAdd(a, b math.Int) (math.Int, error) {
	sum, err := a.SafeAdd(b)
	if err != nil {
		return math.Int{}, ErrOverflow
	}
	return sum, nil
}

// SafeSub returns a - b, failing when the result would be negative.
func SafeSub(a, b math.Int) (math.Int, error) {
	if a.LT(b) {
		return math.Int{}, ErrOverflow
	}
	return a.Sub(b), nil
}
