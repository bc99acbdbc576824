package keeper

import (
	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/sundial/types"
)

// CreateMarket registers a market namespace administered by owner.
func (k *Keeper) CreateMarket(ctx sdk.Context, owner sdk.AccAddress, marketID string) (types.Market, error) {
	market := types.Market{ID: marketID, Owner: owner.String()}
	if err := market.Validate(); err != nil {
		return types.Market{}, errorsmod.Wrap(types.ErrInvalidRequest, err.Error())
	}

	has, err := k.Markets.Has(ctx, marketID)
	if err != nil {
		return types.Market{}, err
	}
	if has {
		return types.Market{}, errorsmod.Wrapf(types.ErrAlreadyExists, "market %q", marketID)
	}

	if err := k.Markets.Set(ctx, marketID, market); err != nil {
		return types.Market{}, err
	}

	k.emitEvent(ctx, types.NewEventMarketCreated(market))
	return market, nil
}

// requireSameMarket rejects components that are scoped to another market.
func requireSameMarket(expected, actual, what string) error {
	if expected != actual {
		return errorsmod.Wrapf(types.ErrMarketMismatch, "%s belongs to market %q, not %q", what, actual, expected)
	}
	return nil
}
