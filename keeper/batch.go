package keeper

import (
	"context"
	"fmt"

	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/sundial/types"
)

// atomically runs fn against a cached branch of ctx and commits it only when fn succeeds,
// so a failed operation leaves no partial state, balances or events behind.
func (k *Keeper) atomically(ctx sdk.Context, op string, fn func(cacheCtx sdk.Context) error) error {
	cacheCtx, write := ctx.CacheContext()
	if err := fn(cacheCtx); err != nil {
		codespace, code, _ := errorsmod.ABCIInfo(err, false)
		k.metrics.ObserveRejection(op, fmt.Sprintf("%s/%d", codespace, code))
		k.getLogger(ctx).Debug("operation rejected", "op", op, "error", err)
		return err
	}
	write()
	k.metrics.ObserveOperation(op)
	return nil
}

// ExecuteBatch applies msgs in order as a single unit. If any message fails, none of the
// batch takes effect and the error names the failing index. A batch can chain a collateral
// refresh, a profile refresh and a borrow within the same slot.
func (k *Keeper) ExecuteBatch(goCtx context.Context, msgs ...types.Msg) ([]any, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)
	server := msgServer{Keeper: k}

	var responses []any
	err := k.atomically(ctx, "batch", func(cacheCtx sdk.Context) error {
		responses = make([]any, 0, len(msgs))
		for i, msg := range msgs {
			resp, err := server.dispatch(cacheCtx, msg)
			if err != nil {
				return errorsmod.Wrapf(err, "message %d", i)
			}
			responses = append(responses, resp)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return responses, nil
}
