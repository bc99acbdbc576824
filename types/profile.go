package types

import (
	fmt "fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/sundial/utils"
)

// CollateralEntry is a profile's position in one SundialCollateral.
type CollateralEntry struct {
	CollateralID string    `json:"collateral_id"`
	Amount       math.Int  `json:"amount"`
	TotalValue   utils.Wad `json:"total_value"`
	// Config is the collateral config the entry was valued under, stamped with ConfigVersion.
	Config        CollateralConfig `json:"config"`
	ConfigVersion uint64           `json:"config_version"`
	ValuedAtSlot  int64            `json:"valued_at_slot"`
}

// LoanEntry is a profile's borrowed principal in one Sundial.
type LoanEntry struct {
	SundialID         string    `json:"sundial_id"`
	Amount            math.Int  `json:"amount"`
	TotalValue        utils.Wad `json:"total_value"`
	MaturityTimestamp int64     `json:"maturity_timestamp"`
	OracleID          string    `json:"oracle_id"`
	ValuedAtSlot      int64     `json:"valued_at_slot"`
}

// SundialProfile is a borrower's ledger of collateral and loans within a market.
// Entries are ordered by creation and keyed by the referenced component.
type SundialProfile struct {
	Owner           string            `json:"owner"`
	MarketID        string            `json:"market_id"`
	Collaterals     []CollateralEntry `json:"collaterals"`
	Loans           []LoanEntry       `json:"loans"`
	LastUpdatedSlot int64             `json:"last_updated_slot"`
}

// NewSundialProfile returns an empty profile.
func NewSundialProfile(owner sdk.AccAddress, marketID string) SundialProfile {
	return SundialProfile{
		Owner:       owner.String(),
		MarketID:    marketID,
		Collaterals: []CollateralEntry{},
		Loans:       []LoanEntry{},
	}
}

// CollateralIndex returns the index of the entry for collateralID, or -1.
func (p SundialProfile) CollateralIndex(collateralID string) int {
	return utils.IndexOf(p.Collaterals, func(e CollateralEntry) bool { return e.CollateralID == collateralID })
}

// LoanIndex returns the index of the entry for sundialID, or -1.
func (p SundialProfile) LoanIndex(sundialID string) int {
	return utils.IndexOf(p.Loans, func(e LoanEntry) bool { return e.SundialID == sundialID })
}

// PruneEmpty drops entries whose amount reached zero.
func (p *SundialProfile) PruneEmpty() {
	collaterals := p.Collaterals[:0]
	for e := range utils.Filter(p.Collaterals, func(e CollateralEntry) bool { return e.Amount.IsPositive() }) {
		collaterals = append(collaterals, e)
	}
	p.Collaterals = collaterals

	loans := p.Loans[:0]
	for e := range utils.Filter(p.Loans, func(e LoanEntry) bool { return e.Amount.IsPositive() }) {
		loans = append(loans, e)
	}
	p.Loans = loans
}

// Validate performs stateless validation of the profile.
func (p SundialProfile) Validate() error {
	if _, err := sdk.AccAddressFromBech32(p.Owner); err != nil {
		return fmt.Errorf("invalid profile owner %q: %w", p.Owner, err)
	}
	if err := ValidateMarketID(p.MarketID); err != nil {
		return err
	}
	seen := make(map[string]bool, len(p.Collaterals)+len(p.Loans))
	for _, e := range p.Collaterals {
		if seen["c/"+e.CollateralID] {
			return fmt.Errorf("duplicate collateral entry %s", e.CollateralID)
		}
		seen["c/"+e.CollateralID] = true
		if e.Amount.IsNil() || !e.Amount.IsPositive() {
			return fmt.Errorf("collateral entry %s must have a positive amount", e.CollateralID)
		}
	}
	for _, e := range p.Loans {
		if seen["l/"+e.SundialID] {
			return fmt.Errorf("duplicate loan entry %s", e.SundialID)
		}
		seen["l/"+e.SundialID] = true
		if e.Amount.IsNil() || !e.Amount.IsPositive() {
			return fmt.Errorf("loan entry %s must have a positive amount", e.SundialID)
		}
	}
	return nil
}

// ProfileHealth aggregates a profile's normalized values.
type ProfileHealth struct {
	CollateralValue     utils.Wad `json:"collateral_value"`
	BorrowCapacity      utils.Wad `json:"borrow_capacity"`
	LiquidationCapacity utils.Wad `json:"liquidation_capacity"`
	LoanValue           utils.Wad `json:"loan_value"`
	HasMaturedLoan      bool      `json:"has_matured_loan"`
}

// CanBorrow reports whether the loans fit within the ltv-weighted collateral.
func (h ProfileHealth) CanBorrow() bool {
	return h.LoanValue.LTE(h.BorrowCapacity)
}

// IsLiquidatable reports whether the loans exceed the threshold-weighted collateral or a loan is overdue.
func (h ProfileHealth) IsLiquidatable() bool {
	return h.HasMaturedLoan || h.LoanValue.GT(h.LiquidationCapacity)
}

// Health sums the profile's stored entry values. now is the unix time used to flag overdue loans.
func (p SundialProfile) Health(now int64) (ProfileHealth, error) {
	var (
		h        ProfileHealth
		weighted utils.Wad
		err      error
	)
	for _, e := range p.Collaterals {
		if h.CollateralValue, err = h.CollateralValue.Add(e.TotalValue); err != nil {
			return ProfileHealth{}, OverflowErr("collateral value", err)
		}
		weighted, err = e.TotalValue.MulPercent(e.Config.LTV)
		if err != nil {
			return ProfileHealth{}, OverflowErr("borrow capacity", err)
		}
		if h.BorrowCapacity, err = h.BorrowCapacity.Add(weighted); err != nil {
			return ProfileHealth{}, OverflowErr("borrow capacity", err)
		}
		weighted, err = e.TotalValue.MulPercent(e.Config.LiquidationThreshold)
		if err != nil {
			return ProfileHealth{}, OverflowErr("liquidation capacity", err)
		}
		if h.LiquidationCapacity, err = h.LiquidationCapacity.Add(weighted); err != nil {
			return ProfileHealth{}, OverflowErr("liquidation capacity", err)
		}
	}
	for _, e := range p.Loans {
		if h.LoanValue, err = h.LoanValue.Add(e.TotalValue); err != nil {
			return ProfileHealth{}, OverflowErr("loan value", err)
		}
		if now >= e.MaturityTimestamp && e.Amount.IsPositive() {
			h.HasMaturedLoan = true
		}
	}
	return h, nil
}
