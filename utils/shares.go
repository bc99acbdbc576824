package utils

import (
	"fmt"

	"cosmossdk.io/math"
)

// YieldWeight returns the unit-seconds a freshly minted yield amount will be
// outstanding for, from mintTime until maturity:
//
//	weight = amount * (maturity - mintTime)
//
// Returns an error if amount is negative or mintTime is not before maturity.
func YieldWeight(amount math.Int, mintTime, maturity int64) (math.Int, error) {
	if amount.IsNegative() {
		return math.Int{}, fmt.Errorf("invalid input: negative values not allowed")
	}
	if mintTime >= maturity {
		return math.Int{}, fmt.Errorf("mint time %d is not before maturity %d", mintTime, maturity)
	}
	return MulDiv(amount, math.NewInt(maturity-mintTime), math.OneInt())
}

// WeightForAmount returns the share of a position's weight carried by part of
// its amount. Taking the whole amount returns the whole weight, so repeated
// partial redemptions never strand weight.
//
// Formula (integer, floor):
//
//	if part == amount:
//	    w = weight
//	else:
//	    w = floor( weight * part / amount )
func WeightForAmount(part, amount, weight math.Int) (math.Int, error) {
	if part.IsNegative() || amount.IsNegative() || weight.IsNegative() {
		return math.Int{}, fmt.Errorf("invalid input: negative values not allowed")
	}
	if part.GT(amount) {
		return math.Int{}, fmt.Errorf("part %s exceeds amount %s", part, amount)
	}
	if part.Equal(amount) {
		return weight, nil
	}
	return MulDiv(weight, part, amount)
}

// CalculateYieldPayout returns the yield owed for a redeemed weight out of the
// remaining pool:
//
//	payout = floor( weight * remainingYield / remainingWeight )
//
// Redeeming the entire remaining weight returns the entire remaining yield, so
// the sum of all payouts equals the pool exactly once every weight is redeemed.
func CalculateYieldPayout(weight, remainingWeight, remainingYield math.Int) (math.Int, error) {
	if weight.IsNegative() || remainingWeight.IsNegative() || remainingYield.IsNegative() {
		return math.Int{}, fmt.Errorf("invalid input: negative values not allowed")
	}
	if weight.GT(remainingWeight) {
		return math.Int{}, fmt.Errorf("weight %s exceeds remaining weight %s", weight, remainingWeight)
	}
	if weight.IsZero() {
		return math.ZeroInt(), nil
	}
	if weight.Equal(remainingWeight) {
		return remainingYield, nil
	}
	return MulDiv(weight, remainingYield, remainingWeight)
}
