package interest

import (
	"fmt"

	cosmosmath "cosmossdk.io/math"

	"github.com/provlabs/sundial/utils"
)

const (
	SecondsPerYear = 31_536_000
	EulerPrecision = 18
)

// RateFromBips converts an annual rate in basis points into a decimal rate.
func RateFromBips(bips uint32) cosmosmath.LegacyDec {
	return cosmosmath.LegacyNewDec(int64(bips)).QuoInt64(utils.BipsDenominator)
}

// GrowthFactor returns e^(rt) for an annual rate in basis points over periodSeconds.
func GrowthFactor(rateBips uint32, periodSeconds int64) (cosmosmath.LegacyDec, error) {
	if periodSeconds < 0 {
		return cosmosmath.LegacyDec{}, fmt.Errorf("periodSeconds must not be negative, got %d", periodSeconds)
	}
	t := cosmosmath.LegacyNewDec(periodSeconds).QuoInt64(SecondsPerYear)
	return utils.ExpDec(RateFromBips(rateBips).Mul(t), EulerPrecision), nil
}

// AccrueBorrowed compounds an outstanding borrowed balance continuously over periodSeconds.
func AccrueBorrowed(borrowed cosmosmath.LegacyDec, rateBips uint32, periodSeconds int64) (cosmosmath.LegacyDec, error) {
	if borrowed.IsNegative() {
		return cosmosmath.LegacyDec{}, fmt.Errorf("borrowed balance must not be negative, got %s", borrowed)
	}
	if periodSeconds == 0 || borrowed.IsZero() {
		return borrowed, nil
	}
	factor, err := GrowthFactor(rateBips, periodSeconds)
	if err != nil {
		return cosmosmath.LegacyDec{}, err
	}
	return borrowed.Mul(factor), nil
}
