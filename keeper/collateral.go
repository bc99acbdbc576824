package keeper

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/sundial/types"
	"github.com/provlabs/sundial/utils"
)

// CreateSundialCollateral registers a reserve's receipt token as collateral within a market.
// The collateral starts stale and must be refreshed before it can value a profile.
func (k *Keeper) CreateSundialCollateral(ctx sdk.Context, msg types.MsgCreateSundialCollateralRequest) (types.SundialCollateral, error) {
	if _, err := k.requireMarketAdmin(ctx, msg.MarketID, msg.Authority); err != nil {
		return types.SundialCollateral{}, err
	}

	_, receiptDenom, err := k.ReserveKeeper.GetReserveDenoms(ctx, msg.ReserveID)
	if err != nil {
		return types.SundialCollateral{}, fmt.Errorf("failed to resolve reserve %q: %w", msg.ReserveID, err)
	}
	decimals, err := k.denomDecimals(ctx, receiptDenom)
	if err != nil {
		return types.SundialCollateral{}, err
	}

	c := types.NewSundialCollateral(msg.MarketID, msg.ReserveID, msg.OracleID, receiptDenom, msg.Config)
	c.Decimals = decimals
	if err := c.Validate(); err != nil {
		return types.SundialCollateral{}, errorsmod.Wrap(types.ErrInvalidRequest, err.Error())
	}

	has, err := k.Collaterals.Has(ctx, c.ID)
	if err != nil {
		return types.SundialCollateral{}, err
	}
	if has {
		return types.SundialCollateral{}, errorsmod.Wrapf(types.ErrAlreadyExists, "collateral %s for %s", c.ID, receiptDenom)
	}
	if err := k.Collaterals.Set(ctx, c.ID, c); err != nil {
		return types.SundialCollateral{}, fmt.Errorf("failed to store collateral: %w", err)
	}

	k.emitEvent(ctx, types.NewEventCollateralCreated(c))
	return c, nil
}

// RefreshSundialCollateral prices one whole collateral token from the oracle and the reserve
// exchange rate, re-derives its precision from the denom metadata, and marks it fresh for
// the current slot.
func (k *Keeper) RefreshSundialCollateral(ctx sdk.Context, collateralID string) (types.SundialCollateral, error) {
	c, err := k.GetCollateral(ctx, collateralID)
	if err != nil {
		return types.SundialCollateral{}, err
	}

	liquidityPrice, err := k.freshOraclePrice(ctx, c.OracleID)
	if err != nil {
		return types.SundialCollateral{}, err
	}
	rate, err := k.ReserveKeeper.ExchangeRate(ctx, c.ReserveID)
	if err != nil {
		return types.SundialCollateral{}, fmt.Errorf("failed to read exchange rate of reserve %q: %w", c.ReserveID, err)
	}
	rateWad, err := utils.NewWadFromLegacyDec(rate)
	if err != nil {
		return types.SundialCollateral{}, types.OverflowErr("exchange rate", err)
	}
	price, err := liquidityPrice.Mul(rateWad)
	if err != nil {
		return types.SundialCollateral{}, types.OverflowErr("collateral price", err)
	}
	decimals, err := k.denomDecimals(ctx, c.CollateralDenom)
	if err != nil {
		return types.SundialCollateral{}, err
	}

	c.LastPrice = price
	c.Decimals = decimals
	c.LastUpdatedSlot = ctx.BlockHeight()
	c.Stale = false
	if err := k.Collaterals.Set(ctx, c.ID, c); err != nil {
		return types.SundialCollateral{}, err
	}

	k.metrics.SetCollateralPrice(c.ID, wadToFloat(price))
	k.emitEvent(ctx, types.NewEventCollateralRefreshed(c.ID, price, decimals, c.LastUpdatedSlot))
	return c, nil
}

// ChangeSundialCollateralConfig replaces the risk parameters of a collateral. The collateral
// becomes stale, and so does every profile entry valued under the previous version.
func (k *Keeper) ChangeSundialCollateralConfig(ctx sdk.Context, authority, collateralID string, config types.CollateralConfig) (types.SundialCollateral, error) {
	c, err := k.GetCollateral(ctx, collateralID)
	if err != nil {
		return types.SundialCollateral{}, err
	}
	if _, err := k.requireMarketAdmin(ctx, c.MarketID, authority); err != nil {
		return types.SundialCollateral{}, err
	}
	if err := config.Validate(); err != nil {
		return types.SundialCollateral{}, errorsmod.Wrap(types.ErrInvalidRequest, err.Error())
	}

	c.Config = config
	c.ConfigVersion++
	c.Stale = true
	if err := k.Collaterals.Set(ctx, c.ID, c); err != nil {
		return types.SundialCollateral{}, err
	}

	k.getLogger(ctx).Info("collateral config changed", "id", c.ID, "version", c.ConfigVersion)
	k.emitEvent(ctx, types.NewEventCollateralConfigChanged(c.ID, c.ConfigVersion))
	return c, nil
}

// freshOraclePrice reads an oracle and rejects snapshots older than the staleness bound.
func (k Keeper) freshOraclePrice(ctx sdk.Context, oracleID string) (utils.Wad, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return utils.Wad{}, err
	}
	snap, err := k.OracleKeeper.GetPrice(ctx, oracleID)
	if err != nil {
		return utils.Wad{}, err
	}
	if !snap.IsFresh(ctx.BlockHeight(), params.MaxOracleStalenessSlots) {
		return utils.Wad{}, errorsmod.Wrapf(types.ErrStaleOracle, "oracle %s as of slot %d, current slot %d", oracleID, snap.AsOfSlot, ctx.BlockHeight())
	}
	return snap.Wad()
}

// NormalizedValue returns the value of amount base units of a token with the given
// precision when one whole token is worth price. Equal holdings valued at equal whole-token
// prices yield equal values regardless of precision.
func NormalizedValue(amount math.Int, price utils.Wad, decimals uint32) (utils.Wad, error) {
	v, err := price.MulIntQuoPow10(amount, decimals)
	if err != nil {
		return utils.Wad{}, types.OverflowErr("normalized value", err)
	}
	return v, nil
}

// wadToFloat approximates w for gauges.
func wadToFloat(w utils.Wad) float64 {
	d, err := math.LegacyNewDecFromStr(w.String())
	if err != nil {
		return 0
	}
	f, err := d.Float64()
	if err != nil {
		return 0
	}
	return f
}
