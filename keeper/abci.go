package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/sundial/types"
)

// BeginBlocker is a hook that is called at the beginning of every block.
func (k *Keeper) BeginBlocker(ctx context.Context) error {
	return k.handleMaturedSundials(sdk.UnwrapSDKContext(ctx))
}

// handleMaturedSundials announces every sundial whose end timestamp has been reached
// and drops it from the maturity queue. Failures are logged and do not halt the block.
func (k *Keeper) handleMaturedSundials(ctx sdk.Context) error {
	matured, err := k.MaturityQueue.PopMatured(ctx, ctx.BlockTime().Unix())
	if err != nil {
		k.getLogger(ctx).Error("failed to pop matured sundials", "error", err)
		return nil
	}

	for _, m := range matured {
		k.metrics.ObserveMatured()
		k.getLogger(ctx).Info("sundial matured", "id", m.SundialID, "end", m.EndTimestamp)
		k.emitEvent(ctx, types.NewEventSundialMatured(m.SundialID, m.EndTimestamp))
	}
	return nil
}
