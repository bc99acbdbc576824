package types

import (
	fmt "fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/sundial/utils"
)

// CollateralConfig holds the risk parameters of a collateral asset. Percentages are whole percent.
type CollateralConfig struct {
	LTV                  uint32 `json:"ltv"`
	LiquidationThreshold uint32 `json:"liquidation_threshold"`
	LiquidationPenalty   uint32 `json:"liquidation_penalty"`
	// LiquidityCap bounds the total amount deposited. Zero means unbounded.
	LiquidityCap math.Int `json:"liquidity_cap"`
}

// Validate checks 0 < ltv < liquidation threshold <= 100 and penalty <= 100.
func (c CollateralConfig) Validate() error {
	if c.LTV == 0 || c.LTV >= c.LiquidationThreshold {
		return fmt.Errorf("ltv %d must be positive and below liquidation threshold %d", c.LTV, c.LiquidationThreshold)
	}
	if c.LiquidationThreshold > 100 {
		return fmt.Errorf("liquidation threshold %d exceeds 100", c.LiquidationThreshold)
	}
	if c.LiquidationPenalty > 100 {
		return fmt.Errorf("liquidation penalty %d exceeds 100", c.LiquidationPenalty)
	}
	if c.LiquidityCap.IsNil() || c.LiquidityCap.IsNegative() {
		return fmt.Errorf("liquidity cap must be a non-negative integer")
	}
	return nil
}

// SundialCollateral values one collateral asset, a reserve receipt, for a market.
type SundialCollateral struct {
	ID              string `json:"id"`
	MarketID        string `json:"market_id"`
	ReserveID       string `json:"reserve_id"`
	OracleID        string `json:"oracle_id"`
	CollateralDenom string `json:"collateral_denom"`

	// Decimals is re-derived from the collateral denom metadata on every refresh.
	Decimals uint32           `json:"decimals"`
	Config   CollateralConfig `json:"config"`
	// ConfigVersion increments on every config change; profile entries valued under an older version are stale.
	ConfigVersion uint64 `json:"config_version"`

	// LastPrice is the value of one whole collateral token in the common fixed-point unit.
	LastPrice       utils.Wad `json:"last_price"`
	LastUpdatedSlot int64     `json:"last_updated_slot"`
	// Stale is set by a config change and cleared by the next refresh.
	Stale bool `json:"stale"`

	TotalDeposited math.Int `json:"total_deposited"`
}

// NewSundialCollateral returns a collateral that has never been refreshed.
func NewSundialCollateral(marketID, reserveID, oracleID, collateralDenom string, config CollateralConfig) SundialCollateral {
	return SundialCollateral{
		ID:              CollateralID(marketID, collateralDenom),
		MarketID:        marketID,
		ReserveID:       reserveID,
		OracleID:        oracleID,
		CollateralDenom: collateralDenom,
		Config:          config,
		ConfigVersion:   1,
		Stale:           true,
		TotalDeposited:  math.ZeroInt(),
	}
}

// IsFresh reports whether the collateral was refreshed at slot and has not been reconfigured since.
func (c SundialCollateral) IsFresh(slot int64) bool {
	return !c.Stale && c.LastUpdatedSlot == slot
}

// VaultAddress returns the account holding deposits of this collateral.
func (c SundialCollateral) VaultAddress() sdk.AccAddress {
	return GetCollateralVaultAddress(c.ID)
}

// WithinCap reports whether depositing additional keeps the collateral under its liquidity cap.
func (c SundialCollateral) WithinCap(additional math.Int) bool {
	if c.Config.LiquidityCap.IsZero() {
		return true
	}
	return c.TotalDeposited.Add(additional).LTE(c.Config.LiquidityCap)
}

// Validate performs stateless validation of the collateral.
func (c SundialCollateral) Validate() error {
	if c.ID != CollateralID(c.MarketID, c.CollateralDenom) {
		return fmt.Errorf("collateral id %q does not match its market and denom", c.ID)
	}
	if err := ValidateMarketID(c.MarketID); err != nil {
		return err
	}
	if c.ReserveID == "" || c.OracleID == "" {
		return fmt.Errorf("reserve and oracle ids must not be empty")
	}
	if err := sdk.ValidateDenom(c.CollateralDenom); err != nil {
		return fmt.Errorf("invalid collateral denom %q: %w", c.CollateralDenom, err)
	}
	if c.ConfigVersion == 0 {
		return fmt.Errorf("config version must be positive")
	}
	if c.TotalDeposited.IsNil() || c.TotalDeposited.IsNegative() {
		return fmt.Errorf("total deposited must be a non-negative integer")
	}
	return c.Config.Validate()
}
