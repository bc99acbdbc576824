package keeper

import (
	"fmt"

	"cosmossdk.io/collections"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/sundial/types"
)

// InitGenesis initializes the sundial module state from genesis.
func (k Keeper) InitGenesis(ctx sdk.Context, genState *types.GenesisState) {
	if genState == nil {
		return
	}

	if err := genState.Validate(); err != nil {
		panic(fmt.Errorf("invalid sundial genesis state: %w", err))
	}

	if err := k.Params.Set(ctx, genState.Params); err != nil {
		panic(err)
	}

	for _, m := range genState.Markets {
		if err := k.Markets.Set(ctx, m.ID, m); err != nil {
			panic(fmt.Errorf("failed to store market %q: %w", m.ID, err))
		}
	}

	now := ctx.BlockTime().Unix()
	for _, s := range genState.Sundials {
		if err := k.Sundials.Set(ctx, s); err != nil {
			panic(fmt.Errorf("failed to store sundial %s: %w", s.ID, err))
		}
		k.BankKeeper.SetSendEnabled(ctx, s.YieldDenom, false)
		if !s.IsMatured(now) {
			if err := k.MaturityQueue.Schedule(ctx, s.EndTimestamp, s.ID); err != nil {
				panic(fmt.Errorf("failed to schedule maturity of sundial %s: %w", s.ID, err))
			}
		}
	}

	for _, c := range genState.Collaterals {
		if err := k.Collaterals.Set(ctx, c.ID, c); err != nil {
			panic(fmt.Errorf("failed to store collateral %s: %w", c.ID, err))
		}
	}

	for _, p := range genState.Profiles {
		if err := k.SetProfile(ctx, p); err != nil {
			panic(fmt.Errorf("failed to store profile %s/%s: %w", p.MarketID, p.Owner, err))
		}
	}

	for _, y := range genState.YieldPositions {
		owner := sdk.MustAccAddressFromBech32(y.Owner)
		if err := k.SetYieldPosition(ctx, y.SundialID, owner, y.Position); err != nil {
			panic(fmt.Errorf("failed to store yield position %s/%s: %w", y.SundialID, y.Owner, err))
		}
	}
}

// ExportGenesis exports the current state of the sundial module.
func (k Keeper) ExportGenesis(ctx sdk.Context) *types.GenesisState {
	params, err := k.GetParams(ctx)
	if err != nil {
		panic(fmt.Errorf("failed to get sundial module params: %w", err))
	}

	genState := &types.GenesisState{
		Params:         params,
		Markets:        []types.Market{},
		Collaterals:    []types.SundialCollateral{},
		Profiles:       []types.SundialProfile{},
		YieldPositions: []types.GenesisYieldPosition{},
	}

	err = k.Markets.Walk(ctx, nil, func(_ string, m types.Market) (bool, error) {
		genState.Markets = append(genState.Markets, m)
		return false, nil
	})
	if err != nil {
		panic(fmt.Errorf("failed to export markets: %w", err))
	}

	if genState.Sundials, err = k.GetSundials(ctx); err != nil {
		panic(fmt.Errorf("failed to export sundials: %w", err))
	}

	err = k.Collaterals.Walk(ctx, nil, func(_ string, c types.SundialCollateral) (bool, error) {
		genState.Collaterals = append(genState.Collaterals, c)
		return false, nil
	})
	if err != nil {
		panic(fmt.Errorf("failed to export collaterals: %w", err))
	}

	err = k.walkProfiles(ctx, func(p types.SundialProfile) (bool, error) {
		genState.Profiles = append(genState.Profiles, p)
		return false, nil
	})
	if err != nil {
		panic(fmt.Errorf("failed to export profiles: %w", err))
	}

	err = k.YieldPositions.Walk(ctx, nil, func(key collections.Pair[string, sdk.AccAddress], pos types.YieldPosition) (bool, error) {
		genState.YieldPositions = append(genState.YieldPositions, types.GenesisYieldPosition{
			SundialID: key.K1(),
			Owner:     key.K2().String(),
			Position:  pos,
		})
		return false, nil
	})
	if err != nil {
		panic(fmt.Errorf("failed to export yield positions: %w", err))
	}

	return genState
}
