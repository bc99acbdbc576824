package types

import (
	fmt "fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/sundial/utils"
)

// Sundial splits liquidity deposited into a reserve until a fixed maturity into
// a principal claim and a yield claim.
type Sundial struct {
	ID       string `json:"id"`
	MarketID string `json:"market_id"`

	ReserveID      string `json:"reserve_id"`
	OracleID       string `json:"oracle_id"`
	LiquidityDenom string `json:"liquidity_denom"`
	ReceiptDenom   string `json:"receipt_denom"`
	PrincipalDenom string `json:"principal_denom"`
	YieldDenom     string `json:"yield_denom"`

	StartTimestamp   int64  `json:"start_timestamp"`
	EndTimestamp     int64  `json:"end_timestamp"`
	LendingFeeBips   uint32 `json:"lending_fee_bips"`
	BorrowingFeeBips uint32 `json:"borrowing_fee_bips"`
	// LiquidityCap bounds TotalPrincipalIssued plus TotalLoanPrincipalIssued. Zero means unbounded.
	LiquidityCap math.Int `json:"liquidity_cap"`

	// TotalPrincipalIssued is the principal minted against liquidity deposited into the reserve.
	TotalPrincipalIssued math.Int `json:"total_principal_issued"`
	// TotalYieldIssued is the yield minted alongside TotalPrincipalIssued.
	TotalYieldIssued math.Int `json:"total_yield_issued"`
	// TotalLoanPrincipalIssued is the principal minted to borrowers against collateral.
	TotalLoanPrincipalIssued math.Int `json:"total_loan_principal_issued"`
	// TotalYieldWeight is the sum of amount * (EndTimestamp - mintTime) over every yield mint.
	TotalYieldWeight math.Int `json:"total_yield_weight"`
	// ReceiptBalance is the number of reserve receipts held for the Sundial.
	ReceiptBalance math.Int `json:"receipt_balance"`

	ReserveRedeemed   bool     `json:"reserve_redeemed"`
	FinalLiquidity    math.Int `json:"final_liquidity"`
	TotalYieldAccrued math.Int `json:"total_yield_accrued"`
	// RemainingYield and RemainingYieldWeight track what is still owed to unredeemed yield tokens.
	RemainingYield       math.Int `json:"remaining_yield"`
	RemainingYieldWeight math.Int `json:"remaining_yield_weight"`
}

// NewSundial returns a Sundial with all counters at zero.
func NewSundial(marketID, reserveID, oracleID, liquidityDenom, receiptDenom string, start, end int64, lendingFeeBips, borrowingFeeBips uint32, liquidityCap math.Int) Sundial {
	id := SundialID(marketID, liquidityDenom, end)
	if liquidityCap.IsNil() {
		liquidityCap = math.ZeroInt()
	}
	return Sundial{
		ID:                       id,
		MarketID:                 marketID,
		ReserveID:                reserveID,
		OracleID:                 oracleID,
		LiquidityDenom:           liquidityDenom,
		ReceiptDenom:             receiptDenom,
		PrincipalDenom:           PrincipalDenom(id),
		YieldDenom:               YieldDenom(id),
		StartTimestamp:           start,
		EndTimestamp:             end,
		LendingFeeBips:           lendingFeeBips,
		BorrowingFeeBips:         borrowingFeeBips,
		LiquidityCap:             liquidityCap,
		TotalPrincipalIssued:     math.ZeroInt(),
		TotalYieldIssued:         math.ZeroInt(),
		TotalLoanPrincipalIssued: math.ZeroInt(),
		TotalYieldWeight:         math.ZeroInt(),
		ReceiptBalance:           math.ZeroInt(),
		FinalLiquidity:           math.ZeroInt(),
		TotalYieldAccrued:        math.ZeroInt(),
		RemainingYield:           math.ZeroInt(),
		RemainingYieldWeight:     math.ZeroInt(),
	}
}

// IsMatured reports whether the Sundial has reached maturity at unix time now.
func (s Sundial) IsMatured(now int64) bool {
	return now >= s.EndTimestamp
}

// Address returns the account holding the Sundial's receipts and pooled liquidity.
func (s Sundial) Address() sdk.AccAddress {
	return GetSundialAddress(s.ID)
}

// WithinCap reports whether minting additional principal keeps the Sundial under its liquidity cap.
func (s Sundial) WithinCap(additional math.Int) bool {
	if s.LiquidityCap.IsZero() {
		return true
	}
	return s.TotalPrincipalIssued.Add(s.TotalLoanPrincipalIssued).Add(additional).LTE(s.LiquidityCap)
}

// Validate performs stateless validation of the Sundial.
func (s Sundial) Validate() error {
	if s.ID != SundialID(s.MarketID, s.LiquidityDenom, s.EndTimestamp) {
		return fmt.Errorf("sundial id %q does not match its market, asset and maturity", s.ID)
	}
	if err := ValidateMarketID(s.MarketID); err != nil {
		return err
	}
	if s.ReserveID == "" {
		return fmt.Errorf("reserve id must not be empty")
	}
	if s.OracleID == "" {
		return fmt.Errorf("oracle id must not be empty")
	}
	for _, denom := range []string{s.LiquidityDenom, s.ReceiptDenom, s.PrincipalDenom, s.YieldDenom} {
		if err := sdk.ValidateDenom(denom); err != nil {
			return fmt.Errorf("invalid denom %q: %w", denom, err)
		}
	}
	if s.StartTimestamp >= s.EndTimestamp {
		return fmt.Errorf("start timestamp %d must be before end timestamp %d", s.StartTimestamp, s.EndTimestamp)
	}
	if s.LendingFeeBips > utils.BipsDenominator || s.BorrowingFeeBips > utils.BipsDenominator {
		return fmt.Errorf("fees must not exceed %d bips", utils.BipsDenominator)
	}
	for name, v := range map[string]math.Int{
		"liquidity cap":               s.LiquidityCap,
		"total principal issued":      s.TotalPrincipalIssued,
		"total yield issued":          s.TotalYieldIssued,
		"total loan principal issued": s.TotalLoanPrincipalIssued,
		"total yield weight":          s.TotalYieldWeight,
		"receipt balance":             s.ReceiptBalance,
		"final liquidity":             s.FinalLiquidity,
		"total yield accrued":         s.TotalYieldAccrued,
		"remaining yield":             s.RemainingYield,
		"remaining yield weight":      s.RemainingYieldWeight,
	} {
		if v.IsNil() || v.IsNegative() {
			return fmt.Errorf("%s must be a non-negative integer", name)
		}
	}
	if !s.TotalYieldIssued.Equal(s.TotalPrincipalIssued) {
		return fmt.Errorf("yield issued %s out of lock-step with principal issued %s", s.TotalYieldIssued, s.TotalPrincipalIssued)
	}
	return nil
}

// YieldPosition is an owner's yield tokens of one Sundial together with their time weight.
type YieldPosition struct {
	Amount math.Int `json:"amount"`
	Weight math.Int `json:"weight"`
}

// NewYieldPosition returns an empty position.
func NewYieldPosition() YieldPosition {
	return YieldPosition{Amount: math.ZeroInt(), Weight: math.ZeroInt()}
}

// IsEmpty reports whether the position holds nothing.
func (p YieldPosition) IsEmpty() bool {
	return p.Amount.IsZero() && p.Weight.IsZero()
}
