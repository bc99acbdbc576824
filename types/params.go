package types

import fmt "fmt"

const (
	// DefaultMaxOracleStalenessSlots accepts a price published in the current or the previous slot.
	DefaultMaxOracleStalenessSlots uint64 = 1
	// DefaultMaxCollateralEntries bounds the collateral set of a profile.
	DefaultMaxCollateralEntries uint32 = 8
	// DefaultMaxLoanEntries bounds the loan set of a profile.
	DefaultMaxLoanEntries uint32 = 8
)

// Params are the module-wide tunables.
type Params struct {
	// MaxOracleStalenessSlots is how many slots an oracle snapshot may lag the current slot.
	MaxOracleStalenessSlots uint64 `json:"max_oracle_staleness_slots"`
	// MaxCollateralEntries is the maximum number of collateral entries per profile.
	MaxCollateralEntries uint32 `json:"max_collateral_entries"`
	// MaxLoanEntries is the maximum number of loan entries per profile.
	MaxLoanEntries uint32 `json:"max_loan_entries"`
}

// DefaultParams returns the default module parameters.
func DefaultParams() Params {
	return Params{
		MaxOracleStalenessSlots: DefaultMaxOracleStalenessSlots,
		MaxCollateralEntries:    DefaultMaxCollateralEntries,
		MaxLoanEntries:          DefaultMaxLoanEntries,
	}
}

// Validate checks that the entry limits are usable.
func (p Params) Validate() error {
	if p.MaxCollateralEntries == 0 {
		return fmt.Errorf("max collateral entries must be positive")
	}
	if p.MaxLoanEntries == 0 {
		return fmt.Errorf("max loan entries must be positive")
	}
	return nil
}
