package types

import (
	"strconv"

	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/sundial/utils"
)

const (
	EventTypeMarketCreated            = "sundial_market_created"
	EventTypeSundialCreated           = "sundial_created"
	EventTypeMintPrincipalAndYield    = "sundial_mint_principal_and_yield"
	EventTypeReserveRedeemed          = "sundial_reserve_redeemed"
	EventTypePrincipalRedeemed        = "sundial_principal_redeemed"
	EventTypeYieldRedeemed            = "sundial_yield_redeemed"
	EventTypeYieldPositionTransferred = "sundial_yield_position_transferred"
	EventTypeSundialMatured           = "sundial_matured"
	EventTypeCollateralCreated        = "sundial_collateral_created"
	EventTypeCollateralRefreshed      = "sundial_collateral_refreshed"
	EventTypeCollateralConfigChanged  = "sundial_collateral_config_changed"
	EventTypeProfileCreated           = "sundial_profile_created"
	EventTypeProfileRefreshed         = "sundial_profile_refreshed"
	EventTypeCollateralDeposited      = "sundial_collateral_deposited"
	EventTypeCollateralWithdrawn      = "sundial_collateral_withdrawn"
	EventTypeLoanMinted               = "sundial_loan_minted"
	EventTypeLoanRepaid               = "sundial_loan_repaid"
	EventTypeLiquidated               = "sundial_liquidated"

	AttributeKeyMarketID      = "market_id"
	AttributeKeySundialID     = "sundial_id"
	AttributeKeyCollateralID  = "collateral_id"
	AttributeKeyOwner         = "owner"
	AttributeKeyRecipient     = "recipient"
	AttributeKeyLiquidator    = "liquidator"
	AttributeKeyAmount        = "amount"
	AttributeKeyFee           = "fee"
	AttributeKeyReceipts      = "receipts"
	AttributeKeyPayout        = "payout"
	AttributeKeyWeight        = "weight"
	AttributeKeyPrice         = "price"
	AttributeKeyDecimals      = "decimals"
	AttributeKeySlot          = "slot"
	AttributeKeyConfigVersion = "config_version"
	AttributeKeyMaturity      = "maturity"
	AttributeKeyYieldAccrued  = "yield_accrued"
	AttributeKeyLoanValue     = "loan_value"
	AttributeKeyCapacity      = "capacity"
	AttributeKeySeized        = "seized"
)

// NewEventMarketCreated creates a new market created event.
func NewEventMarketCreated(market Market) sdk.Event {
	return sdk.NewEvent(EventTypeMarketCreated,
		sdk.NewAttribute(AttributeKeyMarketID, market.ID),
		sdk.NewAttribute(AttributeKeyOwner, market.Owner),
	)
}

// NewEventSundialCreated creates a new sundial created event.
func NewEventSundialCreated(s Sundial) sdk.Event {
	return sdk.NewEvent(EventTypeSundialCreated,
		sdk.NewAttribute(AttributeKeyMarketID, s.MarketID),
		sdk.NewAttribute(AttributeKeySundialID, s.ID),
		sdk.NewAttribute(AttributeKeyMaturity, strconv.FormatInt(s.EndTimestamp, 10)),
	)
}

// NewEventMintPrincipalAndYield creates a new mint event. amount is the principal and yield minted, fee the principal kept as fee.
func NewEventMintPrincipalAndYield(sundialID, owner string, amount, fee, receipts, weight sdkmath.Int) sdk.Event {
	return sdk.NewEvent(EventTypeMintPrincipalAndYield,
		sdk.NewAttribute(AttributeKeySundialID, sundialID),
		sdk.NewAttribute(AttributeKeyOwner, owner),
		sdk.NewAttribute(AttributeKeyAmount, amount.String()),
		sdk.NewAttribute(AttributeKeyFee, fee.String()),
		sdk.NewAttribute(AttributeKeyReceipts, receipts.String()),
		sdk.NewAttribute(AttributeKeyWeight, weight.String()),
	)
}

// NewEventReserveRedeemed creates a new reserve redeemed event.
func NewEventReserveRedeemed(sundialID string, receipts, finalLiquidity, yieldAccrued sdkmath.Int) sdk.Event {
	return sdk.NewEvent(EventTypeReserveRedeemed,
		sdk.NewAttribute(AttributeKeySundialID, sundialID),
		sdk.NewAttribute(AttributeKeyReceipts, receipts.String()),
		sdk.NewAttribute(AttributeKeyAmount, finalLiquidity.String()),
		sdk.NewAttribute(AttributeKeyYieldAccrued, yieldAccrued.String()),
	)
}

// NewEventPrincipalRedeemed creates a new principal redeemed event.
func NewEventPrincipalRedeemed(sundialID, owner string, amount sdkmath.Int) sdk.Event {
	return sdk.NewEvent(EventTypePrincipalRedeemed,
		sdk.NewAttribute(AttributeKeySundialID, sundialID),
		sdk.NewAttribute(AttributeKeyOwner, owner),
		sdk.NewAttribute(AttributeKeyAmount, amount.String()),
	)
}

// NewEventYieldRedeemed creates a new yield redeemed event.
func NewEventYieldRedeemed(sundialID, owner string, amount, weight, payout sdkmath.Int) sdk.Event {
	return sdk.NewEvent(EventTypeYieldRedeemed,
		sdk.NewAttribute(AttributeKeySundialID, sundialID),
		sdk.NewAttribute(AttributeKeyOwner, owner),
		sdk.NewAttribute(AttributeKeyAmount, amount.String()),
		sdk.NewAttribute(AttributeKeyWeight, weight.String()),
		sdk.NewAttribute(AttributeKeyPayout, payout.String()),
	)
}

// NewEventYieldPositionTransferred creates a new yield position transferred event.
func NewEventYieldPositionTransferred(sundialID, owner, recipient string, amount, weight sdkmath.Int) sdk.Event {
	return sdk.NewEvent(EventTypeYieldPositionTransferred,
		sdk.NewAttribute(AttributeKeySundialID, sundialID),
		sdk.NewAttribute(AttributeKeyOwner, owner),
		sdk.NewAttribute(AttributeKeyRecipient, recipient),
		sdk.NewAttribute(AttributeKeyAmount, amount.String()),
		sdk.NewAttribute(AttributeKeyWeight, weight.String()),
	)
}

// NewEventSundialMatured creates a new sundial matured event.
func NewEventSundialMatured(sundialID string, maturity int64) sdk.Event {
	return sdk.NewEvent(EventTypeSundialMatured,
		sdk.NewAttribute(AttributeKeySundialID, sundialID),
		sdk.NewAttribute(AttributeKeyMaturity, strconv.FormatInt(maturity, 10)),
	)
}

// NewEventCollateralCreated creates a new collateral created event.
func NewEventCollateralCreated(c SundialCollateral) sdk.Event {
	return sdk.NewEvent(EventTypeCollateralCreated,
		sdk.NewAttribute(AttributeKeyMarketID, c.MarketID),
		sdk.NewAttribute(AttributeKeyCollateralID, c.ID),
	)
}

// NewEventCollateralRefreshed creates a new collateral refreshed event.
func NewEventCollateralRefreshed(collateralID string, price utils.Wad, decimals uint32, slot int64) sdk.Event {
	return sdk.NewEvent(EventTypeCollateralRefreshed,
		sdk.NewAttribute(AttributeKeyCollateralID, collateralID),
		sdk.NewAttribute(AttributeKeyPrice, price.String()),
		sdk.NewAttribute(AttributeKeyDecimals, strconv.FormatUint(uint64(decimals), 10)),
		sdk.NewAttribute(AttributeKeySlot, strconv.FormatInt(slot, 10)),
	)
}

// NewEventCollateralConfigChanged creates a new config changed event.
func NewEventCollateralConfigChanged(collateralID string, version uint64) sdk.Event {
	return sdk.NewEvent(EventTypeCollateralConfigChanged,
		sdk.NewAttribute(AttributeKeyCollateralID, collateralID),
		sdk.NewAttribute(AttributeKeyConfigVersion, strconv.FormatUint(version, 10)),
	)
}

// NewEventProfileCreated creates a new profile created event.
func NewEventProfileCreated(marketID, owner string) sdk.Event {
	return sdk.NewEvent(EventTypeProfileCreated,
		sdk.NewAttribute(AttributeKeyMarketID, marketID),
		sdk.NewAttribute(AttributeKeyOwner, owner),
	)
}

// NewEventProfileRefreshed creates a new profile refreshed event.
func NewEventProfileRefreshed(marketID, owner string, health ProfileHealth, slot int64) sdk.Event {
	return sdk.NewEvent(EventTypeProfileRefreshed,
		sdk.NewAttribute(AttributeKeyMarketID, marketID),
		sdk.NewAttribute(AttributeKeyOwner, owner),
		sdk.NewAttribute(AttributeKeyLoanValue, health.LoanValue.String()),
		sdk.NewAttribute(AttributeKeyCapacity, health.BorrowCapacity.String()),
		sdk.NewAttribute(AttributeKeySlot, strconv.FormatInt(slot, 10)),
	)
}

// NewEventCollateralDeposited creates a new collateral deposited event.
func NewEventCollateralDeposited(collateralID, owner string, amount sdkmath.Int) sdk.Event {
	return sdk.NewEvent(EventTypeCollateralDeposited,
		sdk.NewAttribute(AttributeKeyCollateralID, collateralID),
		sdk.NewAttribute(AttributeKeyOwner, owner),
		sdk.NewAttribute(AttributeKeyAmount, amount.String()),
	)
}

// NewEventCollateralWithdrawn creates a new collateral withdrawn event.
func NewEventCollateralWithdrawn(collateralID, owner string, amount sdkmath.Int) sdk.Event {
	return sdk.NewEvent(EventTypeCollateralWithdrawn,
		sdk.NewAttribute(AttributeKeyCollateralID, collateralID),
		sdk.NewAttribute(AttributeKeyOwner, owner),
		sdk.NewAttribute(AttributeKeyAmount, amount.String()),
	)
}

// NewEventLoanMinted creates a new loan minted event.
func NewEventLoanMinted(sundialID, owner string, amount, fee sdkmath.Int) sdk.Event {
	return sdk.NewEvent(EventTypeLoanMinted,
		sdk.NewAttribute(AttributeKeySundialID, sundialID),
		sdk.NewAttribute(AttributeKeyOwner, owner),
		sdk.NewAttribute(AttributeKeyAmount, amount.String()),
		sdk.NewAttribute(AttributeKeyFee, fee.String()),
	)
}

// NewEventLoanRepaid creates a new loan repaid event.
func NewEventLoanRepaid(sundialID, owner string, amount sdkmath.Int) sdk.Event {
	return sdk.NewEvent(EventTypeLoanRepaid,
		sdk.NewAttribute(AttributeKeySundialID, sundialID),
		sdk.NewAttribute(AttributeKeyOwner, owner),
		sdk.NewAttribute(AttributeKeyAmount, amount.String()),
	)
}

// NewEventLiquidated creates a new liquidation event.
func NewEventLiquidated(sundialID, collateralID, owner, liquidator string, repaid, seized sdkmath.Int) sdk.Event {
	return sdk.NewEvent(EventTypeLiquidated,
		sdk.NewAttribute(AttributeKeySundialID, sundialID),
		sdk.NewAttribute(AttributeKeyCollateralID, collateralID),
		sdk.NewAttribute(AttributeKeyOwner, owner),
		sdk.NewAttribute(AttributeKeyLiquidator, liquidator),
		sdk.NewAttribute(AttributeKeyAmount, repaid.String()),
		sdk.NewAttribute(AttributeKeySeized, seized.String()),
	)
}
