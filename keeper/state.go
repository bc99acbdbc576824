package keeper

import (
	"errors"
	"fmt"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/sundial/types"
)

// GetMarket returns a market by id, or ErrNotFound.
func (k Keeper) GetMarket(ctx sdk.Context, marketID string) (types.Market, error) {
	m, err := k.Markets.Get(ctx, marketID)
	if errors.Is(err, collections.ErrNotFound) {
		return types.Market{}, errorsmod.Wrapf(types.ErrNotFound, "market %q", marketID)
	}
	if err != nil {
		return types.Market{}, fmt.Errorf("failed to get market %q: %w", marketID, err)
	}
	return m, nil
}

// GetSundial returns a sundial by id, or ErrNotFound.
func (k Keeper) GetSundial(ctx sdk.Context, sundialID string) (types.Sundial, error) {
	s, err := k.Sundials.Get(ctx, sundialID)
	if errors.Is(err, collections.ErrNotFound) {
		return types.Sundial{}, errorsmod.Wrapf(types.ErrNotFound, "sundial %q", sundialID)
	}
	if err != nil {
		return types.Sundial{}, fmt.Errorf("failed to get sundial %q: %w", sundialID, err)
	}
	return s, nil
}

// GetCollateral returns a sundial collateral by id, or ErrNotFound.
func (k Keeper) GetCollateral(ctx sdk.Context, collateralID string) (types.SundialCollateral, error) {
	c, err := k.Collaterals.Get(ctx, collateralID)
	if errors.Is(err, collections.ErrNotFound) {
		return types.SundialCollateral{}, errorsmod.Wrapf(types.ErrNotFound, "collateral %q", collateralID)
	}
	if err != nil {
		return types.SundialCollateral{}, fmt.Errorf("failed to get collateral %q: %w", collateralID, err)
	}
	return c, nil
}

// GetProfile returns the profile of owner in a market, or ErrNotFound.
func (k Keeper) GetProfile(ctx sdk.Context, marketID string, owner sdk.AccAddress) (types.SundialProfile, error) {
	p, err := k.Profiles.Get(ctx, collections.Join(marketID, owner))
	if errors.Is(err, collections.ErrNotFound) {
		return types.SundialProfile{}, errorsmod.Wrapf(types.ErrNotFound, "profile of %s in market %q", owner, marketID)
	}
	if err != nil {
		return types.SundialProfile{}, fmt.Errorf("failed to get profile of %s: %w", owner, err)
	}
	return p, nil
}

// SetProfile validates and stores a profile after dropping emptied entries.
func (k Keeper) SetProfile(ctx sdk.Context, p types.SundialProfile) error {
	p.PruneEmpty()
	if err := p.Validate(); err != nil {
		return errorsmod.Wrap(types.ErrInvalidRequest, err.Error())
	}
	owner, err := sdk.AccAddressFromBech32(p.Owner)
	if err != nil {
		return err
	}
	return k.Profiles.Set(ctx, collections.Join(p.MarketID, owner), p)
}

// GetYieldPosition returns the yield position of owner in a sundial. A missing position is empty.
func (k Keeper) GetYieldPosition(ctx sdk.Context, sundialID string, owner sdk.AccAddress) (types.YieldPosition, error) {
	pos, err := k.YieldPositions.Get(ctx, collections.Join(sundialID, owner))
	if errors.Is(err, collections.ErrNotFound) {
		return types.NewYieldPosition(), nil
	}
	if err != nil {
		return types.YieldPosition{}, fmt.Errorf("failed to get yield position of %s: %w", owner, err)
	}
	return pos, nil
}

// SetYieldPosition stores a position, removing it once empty.
func (k Keeper) SetYieldPosition(ctx sdk.Context, sundialID string, owner sdk.AccAddress, pos types.YieldPosition) error {
	key := collections.Join(sundialID, owner)
	if pos.IsEmpty() {
		return k.YieldPositions.Remove(ctx, key)
	}
	return k.YieldPositions.Set(ctx, key, pos)
}

// GetSundials returns every stored sundial.
func (k Keeper) GetSundials(ctx sdk.Context) ([]types.Sundial, error) {
	sundials := []types.Sundial{}
	err := k.Sundials.Walk(ctx, func(s types.Sundial) (bool, error) {
		sundials = append(sundials, s)
		return false, nil
	})
	return sundials, err
}

// requireMarketAdmin returns the market when addr is its owner or the module authority.
func (k Keeper) requireMarketAdmin(ctx sdk.Context, marketID, addr string) (types.Market, error) {
	market, err := k.GetMarket(ctx, marketID)
	if err != nil {
		return types.Market{}, err
	}
	if !market.IsOwner(addr) && !k.isAuthority(addr) {
		return types.Market{}, errorsmod.Wrapf(types.ErrUnauthorized, "%s does not administer market %q", addr, marketID)
	}
	return market, nil
}

// denomDecimals returns the precision of denom from its bank metadata.
func (k Keeper) denomDecimals(ctx sdk.Context, denom string) (uint32, error) {
	md, found := k.BankKeeper.GetDenomMetaData(ctx, denom)
	if !found {
		return 0, errorsmod.Wrapf(types.ErrInvalidDenomMetadata, "no metadata for %s", denom)
	}
	return types.DecimalsFromMetadata(md)
}
