package reserve

import (
	"fmt"

	"cosmossdk.io/math"
)

// Reserve is a pool of lendable liquidity whose depositors hold receipt tokens.
type Reserve struct {
	ID             string `json:"id"`
	LiquidityDenom string `json:"liquidity_denom"`
	ReceiptDenom   string `json:"receipt_denom"`
	// BorrowRateBips is the fixed annual borrow rate.
	BorrowRateBips uint32 `json:"borrow_rate_bips"`

	AvailableLiquidity math.Int `json:"available_liquidity"`
	// BorrowedAmount includes accrued interest.
	BorrowedAmount math.LegacyDec `json:"borrowed_amount"`
	ReceiptSupply  math.Int       `json:"receipt_supply"`

	LastUpdateTime int64 `json:"last_update_time"`
	LastUpdateSlot int64 `json:"last_update_slot"`
}

// ReceiptDenomFor returns the receipt denom of a reserve.
func ReceiptDenomFor(reserveID string) string {
	return fmt.Sprintf("%s/%s/receipt", ModuleName, reserveID)
}

// TotalLiquidity is the available liquidity plus everything owed by borrowers.
func (r Reserve) TotalLiquidity() math.LegacyDec {
	return math.LegacyNewDecFromInt(r.AvailableLiquidity).Add(r.BorrowedAmount)
}

// ExchangeRate returns the liquidity per receipt. It is 1 while no receipts exist.
func (r Reserve) ExchangeRate() math.LegacyDec {
	if r.ReceiptSupply.IsZero() {
		return math.LegacyOneDec()
	}
	return r.TotalLiquidity().QuoInt(r.ReceiptSupply)
}

// ReceiptsForLiquidity converts a deposit into receipts, rounding down.
func (r Reserve) ReceiptsForLiquidity(amount math.Int) math.Int {
	if r.ReceiptSupply.IsZero() {
		return amount
	}
	return math.LegacyNewDecFromInt(amount).MulInt(r.ReceiptSupply).Quo(r.TotalLiquidity()).TruncateInt()
}

// LiquidityForReceipts converts receipts into liquidity, rounding down.
func (r Reserve) LiquidityForReceipts(receipts math.Int) math.Int {
	if r.ReceiptSupply.IsZero() {
		return math.ZeroInt()
	}
	return r.TotalLiquidity().MulInt(receipts).QuoInt(r.ReceiptSupply).TruncateInt()
}

// Validate performs stateless validation of the reserve.
func (r Reserve) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("reserve id must not be empty")
	}
	if r.AvailableLiquidity.IsNil() || r.AvailableLiquidity.IsNegative() {
		return fmt.Errorf("available liquidity must be non-negative")
	}
	if r.BorrowedAmount.IsNil() || r.BorrowedAmount.IsNegative() {
		return fmt.Errorf("borrowed amount must be non-negative")
	}
	if r.ReceiptSupply.IsNil() || r.ReceiptSupply.IsNegative() {
		return fmt.Errorf("receipt supply must be non-negative")
	}
	return nil
}
